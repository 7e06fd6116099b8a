// Package metadata encodes the fixed-width header that describes the original file.
package metadata

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/Eyob94/encryptr/internal/errs"
)

const (
	// NameSize is the capacity of the zero-padded file name field.
	NameSize = 256
	// RunIDSize is the size of the run identifier stored in the reserved area.
	RunIDSize = 16
	// Size is the length of an encoded metadata block.
	Size = 296

	sizeOffset  = NameSize
	runIDOffset = sizeOffset + 8
)

// Metadata describes the plaintext file stored in a container.
type Metadata struct {
	// FileName is the base name of the original file, zero padded.
	FileName [NameSize]byte

	// FileSize is the length of the original file in bytes.
	FileSize uint64

	// RunID identifies the encryption run that produced the container.
	RunID [RunIDSize]byte
}

// New builds metadata for a file with the given base name and size.
// The name must be strictly shorter than NameSize bytes.
func New(name string, size uint64, runID [RunIDSize]byte) (Metadata, error) {
	if len(name) >= NameSize {
		return Metadata{}, fmt.Errorf("%w: %q is %d bytes, limit is %d", errs.ErrNameTooLong, name, len(name), NameSize-1)
	}

	meta := Metadata{FileSize: size, RunID: runID}
	copy(meta.FileName[:], name)

	return meta, nil
}

// Name returns the file name with the zero padding removed.
func (m Metadata) Name() (string, error) {
	name := bytes.TrimRight(m.FileName[:], "\x00")

	if !utf8.Valid(name) {
		return "", fmt.Errorf("%w: recovered file name is not valid UTF-8", errs.ErrEncoding)
	}

	return string(name), nil
}

// MarshalBinary encodes m into its 296-byte representation.
func (m Metadata) MarshalBinary() ([]byte, error) {
	buf := make([]byte, Size)

	copy(buf, m.FileName[:])
	binary.LittleEndian.PutUint64(buf[sizeOffset:], m.FileSize)
	copy(buf[runIDOffset:], m.RunID[:])

	return buf, nil
}

// UnmarshalBinary decodes a 296-byte block into m.
func (m *Metadata) UnmarshalBinary(data []byte) error {
	if len(data) != Size {
		return fmt.Errorf("%w: metadata block is %d bytes, want %d", errs.ErrMalformedContainer, len(data), Size)
	}

	copy(m.FileName[:], data[:NameSize])
	m.FileSize = binary.LittleEndian.Uint64(data[sizeOffset:])
	copy(m.RunID[:], data[runIDOffset:runIDOffset+RunIDSize])

	return nil
}
