// Package entry implements the record stored in staging files and containers.
//
// An entry is serialized with the protobuf wire format:
//
//	field 1 (varint) chunk index
//	field 2 (bytes)  ciphertext with authentication tag
//	field 3 (bytes)  nonce
//
// and framed on disk as a little-endian uint32 length followed by that many bytes.
package entry

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/Eyob94/encryptr/internal/errs"
)

// NonceSize is the size of the per-entry nonce.
const NonceSize = 12

// MetadataIndex is the index reserved for the encrypted metadata entry.
const MetadataIndex = 0

const (
	fieldIndex   protowire.Number = 1
	fieldPayload protowire.Number = 2
	fieldNonce   protowire.Number = 3
)

// Entry is one encrypted record of a container.
type Entry struct {
	// ChunkIndex is 0 for metadata and 1..N for file chunks.
	ChunkIndex uint64

	// Payload is the AEAD ciphertext including the tag.
	Payload []byte

	// Nonce used to seal Payload.
	Nonce [NonceSize]byte
}

// MarshalBinary serializes e.
func (e Entry) MarshalBinary() ([]byte, error) {
	size := protowire.SizeTag(fieldIndex) + protowire.SizeVarint(e.ChunkIndex) +
		protowire.SizeTag(fieldPayload) + protowire.SizeBytes(len(e.Payload)) +
		protowire.SizeTag(fieldNonce) + protowire.SizeBytes(NonceSize)

	buf := make([]byte, 0, size)

	buf = protowire.AppendTag(buf, fieldIndex, protowire.VarintType)
	buf = protowire.AppendVarint(buf, e.ChunkIndex)
	buf = protowire.AppendTag(buf, fieldPayload, protowire.BytesType)
	buf = protowire.AppendBytes(buf, e.Payload)
	buf = protowire.AppendTag(buf, fieldNonce, protowire.BytesType)
	buf = protowire.AppendBytes(buf, e.Nonce[:])

	return buf, nil
}

// UnmarshalBinary decodes a serialized entry into e.
// Unknown fields are skipped; a missing or wrongly sized nonce is an error.
//
//nolint:cyclop
func (e *Entry) UnmarshalBinary(data []byte) error {
	var (
		decoded  Entry
		hasNonce bool
	)

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return fmt.Errorf("%w: entry tag: %w", errs.ErrMalformedContainer, protowire.ParseError(n))
		}

		data = data[n:]

		switch {
		case num == fieldIndex && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return fmt.Errorf("%w: chunk index: %w", errs.ErrMalformedContainer, protowire.ParseError(n))
			}

			decoded.ChunkIndex = v
			data = data[n:]
		case num == fieldPayload && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return fmt.Errorf("%w: payload: %w", errs.ErrMalformedContainer, protowire.ParseError(n))
			}

			decoded.Payload = append([]byte(nil), v...)
			data = data[n:]
		case num == fieldNonce && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return fmt.Errorf("%w: nonce: %w", errs.ErrMalformedContainer, protowire.ParseError(n))
			}

			if len(v) != NonceSize {
				return fmt.Errorf("%w: nonce is %d bytes, want %d", errs.ErrMalformedContainer, len(v), NonceSize)
			}

			copy(decoded.Nonce[:], v)

			hasNonce = true
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return fmt.Errorf("%w: field %d: %w", errs.ErrMalformedContainer, num, protowire.ParseError(n))
			}

			data = data[n:]
		}
	}

	if !hasNonce {
		return fmt.Errorf("%w: entry has no nonce", errs.ErrMalformedContainer)
	}

	*e = decoded

	return nil
}
