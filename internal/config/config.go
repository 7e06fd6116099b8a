// Package config holds the runtime configuration of encryptr.
package config

import (
	"errors"
	"fmt"

	"github.com/idelchi/gogen/pkg/validator"

	"github.com/Eyob94/encryptr/internal/encryption"
)

// Config is populated from flags and ENCRYPTR_* environment variables.
type Config struct {
	// Input is the file to encrypt, decrypt or inspect.
	Input string `mapstructure:"in" yaml:"in" validate:"required" label:"--in"`

	// Output overrides the default output path.
	Output string `mapstructure:"out" yaml:"out" label:"--out"`

	// Parallel bounds the number of chunks encrypted at once.
	Parallel int `yaml:"parallel" validate:"min=1" label:"--parallel"`

	// StagingDir is the base directory for per-run staging directories.
	StagingDir string `mapstructure:"staging-dir" yaml:"staging-dir" validate:"required" label:"--staging-dir"`

	// Key derivation
	KDF          string `yaml:"kdf" validate:"oneof=blake3 argon2id" label:"--kdf"`
	ArgonTime    uint32 `mapstructure:"argon-time" yaml:"argon-time" validate:"required_if=KDF argon2id" label:"--argon-time"`
	ArgonMemory  uint32 `mapstructure:"argon-memory" yaml:"argon-memory" validate:"required_if=KDF argon2id" label:"--argon-memory"`
	ArgonThreads uint8  `mapstructure:"argon-threads" yaml:"argon-threads" validate:"required_if=KDF argon2id" label:"--argon-threads"`

	// Password sources
	Password     string `yaml:"password" validate:"exclusive=--password-file" label:"--password"`
	PasswordFile string `mapstructure:"password-file" yaml:"password-file" label:"--password-file"`

	// Output control
	LogLevel string `mapstructure:"log-level" yaml:"log-level" validate:"oneof=debug info warn error" label:"--log-level"`
	Quiet    bool   `yaml:"quiet"`
	Stats    bool   `yaml:"stats"`

	// Show prints the resolved configuration and exits.
	Show bool `yaml:"-"`
}

// Argon2Params returns the Argon2id parameters selected by the configuration.
func (c Config) Argon2Params() encryption.Argon2Params {
	return encryption.Argon2Params{
		Time:    c.ArgonTime,
		Memory:  c.ArgonMemory,
		Threads: c.ArgonThreads,
	}
}

// Display reports whether the configuration should be printed instead of run.
func (c Config) Display() bool {
	return c.Show
}

// Masked returns a copy of c that is safe to print.
func (c Config) Masked() Config {
	if c.Password != "" {
		c.Password = mask
	}

	return c
}

const mask = "****"

// Validate validates the configuration against the struct tags.
// Every failure is reported and wraps validator.ErrValidation.
func (c Config) Validate() error {
	validate := validator.New()

	if err := registerExclusive(validate); err != nil {
		return err
	}

	if failures := validate.Validate(c); len(failures) > 0 {
		return fmt.Errorf("validating configuration: %w", errors.Join(failures...))
	}

	return nil
}
