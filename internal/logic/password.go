package logic

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"github.com/Eyob94/encryptr/internal/config"
	"github.com/Eyob94/encryptr/internal/encryption"
	"github.com/Eyob94/encryptr/internal/errs"
)

// ErrPasswordMismatch is returned when the confirmation prompt differs.
var ErrPasswordMismatch = errors.New("passwords do not match")

// Prompter asks for a password interactively.
type Prompter func(prompt string) ([]byte, error)

// TerminalPrompter reads a password from the terminal on stdin without echo.
func TerminalPrompter(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd()) //nolint:gosec // file descriptors fit in int

	if !term.IsTerminal(fd) {
		return nil, errors.New("no password given and stdin is not a terminal") //nolint:err113
	}

	fmt.Fprint(os.Stderr, prompt)

	password, err := term.ReadPassword(fd)

	fmt.Fprintln(os.Stderr)

	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}

	return password, nil
}

// Password resolves the password from, in order, the configuration (flag or
// ENCRYPTR_PASSWORD), the password file and finally the prompter.
// With confirm set, an interactive password must be entered twice.
func Password(cfg *config.Config, confirm bool, prompt Prompter) ([]byte, error) {
	var password []byte

	switch {
	case cfg.Password != "":
		password = []byte(cfg.Password)
	case cfg.PasswordFile != "":
		data, err := os.ReadFile(filepath.Clean(cfg.PasswordFile))
		if err != nil {
			return nil, fmt.Errorf("%w: reading password file: %w", errs.ErrFileAccess, err)
		}

		password = trimNewline(data)
	default:
		var err error

		password, err = prompt("Password: ")
		if err != nil {
			return nil, err
		}

		if len(password) > 0 && confirm {
			again, err := prompt("Confirm password: ")
			if err != nil {
				return nil, err
			}

			if !bytes.Equal(password, again) {
				return nil, ErrPasswordMismatch
			}
		}
	}

	if len(password) == 0 {
		return nil, encryption.ErrEmptyPassword
	}

	return password, nil
}

// trimNewline removes a single trailing line ending.
func trimNewline(data []byte) []byte {
	data = bytes.TrimSuffix(data, []byte("\n"))

	return bytes.TrimSuffix(data, []byte("\r"))
}
