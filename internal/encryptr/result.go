package encryptr

import (
	"time"

	"github.com/google/uuid"
)

// Result represents the outcome of an encryption or decryption.
type Result struct {
	// Input file path
	Input string

	// Output file path
	Output string

	// Output file size in bytes
	Size int64

	// Number of chunks processed
	Chunks int

	// Wall time of the operation
	Duration time.Duration
}

// Info describes a container without decrypting its chunks.
type Info struct {
	Name   string
	Size   uint64
	Chunks int
	Cipher string
	RunID  uuid.UUID
}

// chunkResult is the outcome of sealing and staging a single chunk.
type chunkResult struct {
	index uint64
	size  int
	err   error
}
