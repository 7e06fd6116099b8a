// Package encryption provides per-chunk authenticated encryption with ChaCha20-Poly1305
// and the password based key derivations feeding it.
//
// Every entry is sealed under a fresh random nonce with the run identifier and the
// entry index as associated data, so entries cannot be reordered or moved between
// containers without failing authentication.
package encryption
