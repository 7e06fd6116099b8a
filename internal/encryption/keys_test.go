package encryption_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Eyob94/encryptr/internal/encryption"
)

func TestDerivers(t *testing.T) {
	t.Parallel()

	fast := encryption.Argon2Params{Time: 1, Memory: 1024, Threads: 1}

	tests := []struct {
		name    string
		deriver encryption.Deriver
	}{
		{encryption.KDFBlake3, encryption.Blake3Deriver{}},
		{encryption.KDFArgon2id, encryption.Argon2Deriver{Params: fast}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			first, err := tc.deriver.Derive([]byte("correct horse"))
			if err != nil {
				t.Fatalf("Derive: %v", err)
			}

			second, err := tc.deriver.Derive([]byte("correct horse"))
			if err != nil {
				t.Fatalf("Derive: %v", err)
			}

			if len(first) != encryption.KeySize {
				t.Fatalf("key is %d bytes", len(first))
			}

			if !bytes.Equal(first, second) {
				t.Error("derivation is not deterministic")
			}

			other, err := tc.deriver.Derive([]byte("battery staple"))
			if err != nil {
				t.Fatalf("Derive: %v", err)
			}

			if bytes.Equal(first, other) {
				t.Error("different passwords produced the same key")
			}

			if _, err := tc.deriver.Derive(nil); !errors.Is(err, encryption.ErrEmptyPassword) {
				t.Errorf("empty password: got %v", err)
			}
		})
	}
}

func TestNewDeriver(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", encryption.KDFBlake3, encryption.KDFArgon2id} {
		if _, err := encryption.NewDeriver(name, encryption.DefaultArgon2Params); err != nil {
			t.Errorf("NewDeriver(%q): %v", name, err)
		}
	}

	if _, err := encryption.NewDeriver("md5", encryption.DefaultArgon2Params); !errors.Is(err, encryption.ErrUnknownKDF) {
		t.Errorf("unknown derivation: got %v", err)
	}

	if _, err := (encryption.Argon2Deriver{}).Derive([]byte("pw")); err == nil {
		t.Error("zero argon2 parameters accepted")
	}
}
