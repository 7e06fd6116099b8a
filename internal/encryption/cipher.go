package encryption

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/Eyob94/encryptr/internal/entry"
	"github.com/Eyob94/encryptr/internal/errs"
	"github.com/Eyob94/encryptr/internal/metadata"
)

// Algorithm is the human readable name of the entry cipher.
const Algorithm = "ChaCha20-Poly1305"

// Cipher seals and opens container entries. It is safe for concurrent use.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher creates a Cipher from a 32-byte key.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrKeySize, KeySize, len(key))
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("creating AEAD: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// NewNonce returns a fresh random nonce.
func NewNonce() ([entry.NonceSize]byte, error) {
	var nonce [entry.NonceSize]byte

	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nonce, fmt.Errorf("generating nonce: %w", err)
	}

	return nonce, nil
}

// AssociatedData binds an entry to its run and its position in the container.
func AssociatedData(runID [metadata.RunIDSize]byte, index uint64) []byte {
	const indexSize = 8

	ad := make([]byte, metadata.RunIDSize+indexSize)
	copy(ad, runID[:])
	binary.LittleEndian.PutUint64(ad[metadata.RunIDSize:], index)

	return ad
}

// Seal encrypts plaintext under nonce and returns ciphertext with the tag appended.
func (c *Cipher) Seal(nonce [entry.NonceSize]byte, plaintext, ad []byte) []byte {
	return c.aead.Seal(nil, nonce[:], plaintext, ad)
}

// Open authenticates and decrypts ciphertext. It never returns partial plaintext.
func (c *Cipher) Open(nonce [entry.NonceSize]byte, ciphertext, ad []byte) ([]byte, error) {
	plaintext, err := c.aead.Open(nil, nonce[:], ciphertext, ad)
	if err != nil {
		return nil, errs.ErrAuthentication
	}

	return plaintext, nil
}

// SealEntry encrypts plaintext as the entry at index with a fresh nonce.
func (c *Cipher) SealEntry(runID [metadata.RunIDSize]byte, index uint64, plaintext []byte) (entry.Entry, error) {
	nonce, err := NewNonce()
	if err != nil {
		return entry.Entry{}, err
	}

	return entry.Entry{
		ChunkIndex: index,
		Payload:    c.Seal(nonce, plaintext, AssociatedData(runID, index)),
		Nonce:      nonce,
	}, nil
}

// OpenEntry decrypts e, which is expected at position index of the container.
func (c *Cipher) OpenEntry(runID [metadata.RunIDSize]byte, index uint64, e entry.Entry) ([]byte, error) {
	plaintext, err := c.Open(e.Nonce, e.Payload, AssociatedData(runID, index))
	if err != nil {
		return nil, fmt.Errorf("entry %d: %w", index, err)
	}

	return plaintext, nil
}
