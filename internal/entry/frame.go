package entry

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/Eyob94/encryptr/internal/errs"
)

const (
	// LengthSize is the size of the little-endian length prefix.
	LengthSize = 4

	// MaxSize bounds the serialized size of a single entry.
	MaxSize = 4 << 20
)

// Write frames e as [uint32 LE length][serialized entry] and writes it to w.
// It returns the number of bytes written.
func Write(w io.Writer, e Entry) (int, error) {
	body, err := e.MarshalBinary()
	if err != nil {
		return 0, fmt.Errorf("serializing entry %d: %w", e.ChunkIndex, err)
	}

	frame := make([]byte, LengthSize, LengthSize+len(body))
	binary.LittleEndian.PutUint32(frame, uint32(len(body))) //nolint:gosec // bounded by MaxSize in practice
	frame = append(frame, body...)

	n, err := w.Write(frame)
	if err != nil {
		return n, fmt.Errorf("%w: writing entry %d: %w", errs.ErrFileAccess, e.ChunkIndex, err)
	}

	return n, nil
}

// ReadRaw reads one framed record from r and returns the serialized entry bytes.
// A clean end of stream before the length prefix returns io.EOF.
func ReadRaw(r io.Reader) ([]byte, error) {
	var prefix [LengthSize]byte

	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		switch {
		case errors.Is(err, io.EOF):
			return nil, io.EOF
		case errors.Is(err, io.ErrUnexpectedEOF):
			return nil, fmt.Errorf("%w: truncated length prefix", errs.ErrMalformedContainer)
		default:
			return nil, fmt.Errorf("%w: reading length prefix: %w", errs.ErrFileAccess, err)
		}
	}

	length := binary.LittleEndian.Uint32(prefix[:])
	if length > MaxSize {
		return nil, fmt.Errorf("%w: entry of %d bytes exceeds limit of %d", errs.ErrMalformedContainer, length, MaxSize)
	}

	body := make([]byte, length)

	if _, err := io.ReadFull(r, body); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: truncated entry body", errs.ErrMalformedContainer)
		}

		return nil, fmt.Errorf("%w: reading entry body: %w", errs.ErrFileAccess, err)
	}

	return body, nil
}

// Read reads and decodes one framed entry from r.
func Read(r io.Reader) (Entry, error) {
	body, err := ReadRaw(r)
	if err != nil {
		return Entry{}, err
	}

	var e Entry
	if err := e.UnmarshalBinary(body); err != nil {
		return Entry{}, err
	}

	return e, nil
}
