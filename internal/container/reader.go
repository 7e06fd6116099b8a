package container

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/Eyob94/encryptr/internal/chunk"
	"github.com/Eyob94/encryptr/internal/encryption"
	"github.com/Eyob94/encryptr/internal/entry"
	"github.com/Eyob94/encryptr/internal/errs"
	"github.com/Eyob94/encryptr/internal/metadata"
)

// State is the position of a Reader in the container.
type State int

const (
	// StateReadMetadata expects the metadata entry.
	StateReadMetadata State = iota
	// StateReadChunks expects chunk entries or the end of the container.
	StateReadChunks
	// StateDone means every chunk has been read.
	StateDone
	// StateFailed is terminal; the reader keeps returning its error.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateReadMetadata:
		return "read-metadata"
	case StateReadChunks:
		return "read-chunks"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Reader decrypts a container sequentially.
type Reader struct {
	src    *bufio.Reader
	cipher *encryption.Cipher

	state    State
	err      error
	meta     metadata.Metadata
	next     uint64
	expected uint64
}

// NewReader returns a Reader positioned before the metadata entry.
func NewReader(r io.Reader, c *encryption.Cipher) *Reader {
	return &Reader{
		src:    bufio.NewReaderSize(r, chunk.Size),
		cipher: c,
	}
}

// State returns the current state.
func (r *Reader) State() State {
	return r.state
}

// Metadata reads and decrypts the metadata entry. Later calls return the cached value.
func (r *Reader) Metadata() (metadata.Metadata, error) {
	switch r.state {
	case StateReadMetadata:
	case StateFailed:
		return metadata.Metadata{}, r.err
	default:
		return r.meta, nil
	}

	e, err := entry.Read(r.src)
	if errors.Is(err, io.EOF) {
		return metadata.Metadata{}, r.fail(fmt.Errorf("%w: container is empty", errs.ErrMalformedContainer))
	}

	if err != nil {
		return metadata.Metadata{}, r.fail(fmt.Errorf("reading metadata entry: %w", err))
	}

	if e.ChunkIndex != entry.MetadataIndex {
		return metadata.Metadata{}, r.fail(fmt.Errorf("%w: first entry has index %d", errs.ErrMalformedContainer, e.ChunkIndex))
	}

	plaintext, err := r.cipher.OpenEntry([metadata.RunIDSize]byte{}, entry.MetadataIndex, e)
	if err != nil {
		return metadata.Metadata{}, r.fail(fmt.Errorf("decrypting metadata: %w", err))
	}

	if err := r.meta.UnmarshalBinary(plaintext); err != nil {
		return metadata.Metadata{}, r.fail(err)
	}

	r.state = StateReadChunks
	r.next = 1
	r.expected = uint64(chunk.Count(r.meta.FileSize)) //nolint:gosec // Count is non-negative

	return r.meta, nil
}

// Next returns the plaintext of the next chunk, or io.EOF once the container is exhausted.
func (r *Reader) Next() ([]byte, error) {
	switch r.state {
	case StateReadMetadata:
		if _, err := r.Metadata(); err != nil {
			return nil, err
		}
	case StateDone:
		return nil, io.EOF
	case StateFailed:
		return nil, r.err
	case StateReadChunks:
	}

	e, err := entry.Read(r.src)
	if errors.Is(err, io.EOF) {
		if r.next-1 != r.expected {
			return nil, r.fail(fmt.Errorf("%w: container ends after %d of %d chunks",
				errs.ErrMalformedContainer, r.next-1, r.expected))
		}

		r.state = StateDone

		return nil, io.EOF
	}

	if err != nil {
		return nil, r.fail(fmt.Errorf("reading chunk %d: %w", r.next, err))
	}

	if e.ChunkIndex != r.next {
		return nil, r.fail(fmt.Errorf("%w: expected chunk %d, found %d", errs.ErrMalformedContainer, r.next, e.ChunkIndex))
	}

	if r.next > r.expected {
		return nil, r.fail(fmt.Errorf("%w: more than %d chunks", errs.ErrMalformedContainer, r.expected))
	}

	plaintext, err := r.cipher.OpenEntry(r.meta.RunID, r.next, e)
	if err != nil {
		return nil, r.fail(fmt.Errorf("decrypting chunk: %w", err))
	}

	r.next++

	return plaintext, nil
}

// WriteTo decrypts every remaining chunk into w.
func (r *Reader) WriteTo(w io.Writer) (int64, error) {
	var total int64

	for {
		plaintext, err := r.Next()
		if errors.Is(err, io.EOF) {
			return total, nil
		}

		if err != nil {
			return total, err
		}

		n, err := w.Write(plaintext)
		total += int64(n)

		if err != nil {
			return total, r.fail(fmt.Errorf("%w: writing plaintext: %w", errs.ErrFileAccess, err))
		}
	}
}

func (r *Reader) fail(err error) error {
	r.state = StateFailed
	r.err = err

	return err
}
