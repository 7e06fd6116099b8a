package encryption

import (
	"fmt"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/argon2"
)

// KeySize is the size of the derived symmetric key.
const KeySize = 32

// Names of the available key derivations.
const (
	KDFBlake3   = "blake3"
	KDFArgon2id = "argon2id"
)

// argon2Salt is fixed so that derivation stays deterministic for a given password.
const argon2Salt = "encryptr/argon2id/v1"

// Deriver maps a password to a symmetric key.
type Deriver interface {
	Derive(password []byte) ([]byte, error)
}

// Blake3Deriver derives the key as a single BLAKE3 hash of the password.
// There is no salt and no work factor: equal passwords always yield equal keys.
type Blake3Deriver struct{}

// Derive implements Deriver.
func (Blake3Deriver) Derive(password []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, fmt.Errorf("derive: %w", ErrEmptyPassword)
	}

	sum := blake3.Sum256(password)

	return sum[:], nil
}

// Argon2Params tunes Argon2Deriver.
type Argon2Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
}

// DefaultArgon2Params are the RFC 9106 second recommended settings.
//
//nolint:gochecknoglobals
var DefaultArgon2Params = Argon2Params{Time: 3, Memory: 64 * 1024, Threads: 4}

// Argon2Deriver derives the key with Argon2id over a fixed salt.
type Argon2Deriver struct {
	Params Argon2Params
}

// Derive implements Deriver.
func (d Argon2Deriver) Derive(password []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, fmt.Errorf("derive: %w", ErrEmptyPassword)
	}

	p := d.Params
	if p.Time == 0 || p.Memory == 0 || p.Threads == 0 {
		return nil, fmt.Errorf("derive: invalid argon2id parameters %+v", p)
	}

	return argon2.IDKey(password, []byte(argon2Salt), p.Time, p.Memory, p.Threads, KeySize), nil
}

// NewDeriver returns the Deriver registered under name.
func NewDeriver(name string, params Argon2Params) (Deriver, error) {
	switch name {
	case "", KDFBlake3:
		return Blake3Deriver{}, nil
	case KDFArgon2id:
		return Argon2Deriver{Params: params}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKDF, name)
	}
}
