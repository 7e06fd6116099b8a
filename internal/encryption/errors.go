package encryption

import "errors"

var (
	// ErrEmptyPassword is returned when a key is derived from an empty password.
	ErrEmptyPassword = errors.New("empty password")
	// ErrKeySize is returned when a key does not have KeySize bytes.
	ErrKeySize = errors.New("invalid key size")
	// ErrUnknownKDF is returned for an unsupported key derivation name.
	ErrUnknownKDF = errors.New("unknown key derivation")
)
