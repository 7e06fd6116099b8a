package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eyob94/encryptr/internal/commands"
	"github.com/Eyob94/encryptr/internal/config"
)

func execute(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()

	cfg := &config.Config{}

	root := commands.NewRootCommand(cfg, "test")
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	return cfg, root.ExecuteContext(context.Background())
}

func TestEncryptThenDecrypt(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "letter.txt")
	require.NoError(t, os.WriteFile(input, []byte("dear reader"), 0o600))

	enc := filepath.Join(dir, "letter.enc")
	dec := filepath.Join(dir, "letter.out")
	common := []string{"--password", "pw", "--staging-dir", t.TempDir(), "-q"}

	// Encryption is the default operation.
	cfg, err := execute(t, append([]string{"-i", input, "-o", enc, "-j", "3"}, common...)...)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Parallel)
	assert.Equal(t, "blake3", cfg.KDF)

	_, err = execute(t, append([]string{"info", "-i", enc}, common...)...)
	require.NoError(t, err)

	_, err = execute(t, append([]string{"decrypt", "-i", enc, "-o", dec}, common...)...)
	require.NoError(t, err)

	data, err := os.ReadFile(dec)
	require.NoError(t, err)
	assert.Equal(t, "dear reader", string(data))
}

func TestExplicitEncryptWithArgon(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "a.bin")
	require.NoError(t, os.WriteFile(input, []byte{1, 2, 3}, 0o600))

	cfg, err := execute(t, "encrypt", "-i", input, "-o", filepath.Join(dir, "a.enc"),
		"--password", "pw", "--staging-dir", t.TempDir(), "-q",
		"--kdf", "argon2id", "--argon-time", "1", "--argon-memory", "1024", "--argon-threads", "1")
	require.NoError(t, err)

	assert.Equal(t, "argon2id", cfg.KDF)
	assert.Equal(t, uint32(1024), cfg.ArgonMemory)
	assert.Equal(t, uint8(1), cfg.ArgonThreads)
}

func TestEnvironment(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "env.txt")
	require.NoError(t, os.WriteFile(input, []byte("from env"), 0o600))

	staging := t.TempDir()

	t.Setenv("ENCRYPTR_PASSWORD", "env-secret")
	t.Setenv("ENCRYPTR_STAGING_DIR", staging)
	t.Setenv("ENCRYPTR_PARALLEL", "2")

	cfg, err := execute(t, "-i", input, "-o", filepath.Join(dir, "env.enc"), "-q")
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.Password)
	assert.Equal(t, staging, cfg.StagingDir)
	assert.Equal(t, 2, cfg.Parallel)

	cfg, err = execute(t, "-i", input, "-o", filepath.Join(dir, "env2.enc"), "-q", "--parallel", "5")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Parallel, "flags take precedence over the environment")
}

func TestShow(t *testing.T) {
	t.Parallel()

	input := filepath.Join(t.TempDir(), "x.txt")

	var out bytes.Buffer

	root := commands.NewRootCommand(&config.Config{}, "test")
	root.SetArgs([]string{"decrypt", "-s", "-i", input, "--password", "secret", "-j", "0"})
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})

	err := root.ExecuteContext(context.Background())
	require.ErrorIs(t, err, commands.ErrExitGracefully, "show exits before validation")

	assert.Contains(t, out.String(), "in: "+input)
	assert.Contains(t, out.String(), "parallel: 0")
	assert.Contains(t, out.String(), "****")
	assert.NotContains(t, out.String(), "secret")
	assert.NoFileExists(t, input)
}

func TestInvalidInvocations(t *testing.T) {
	t.Parallel()

	input := filepath.Join(t.TempDir(), "x.txt")
	require.NoError(t, os.WriteFile(input, []byte("x"), 0o600))

	pwFile := filepath.Join(t.TempDir(), "pw")
	require.NoError(t, os.WriteFile(pwFile, []byte("pw"), 0o600))

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "missing input", args: []string{"--password", "pw"}, wantErr: "--in is a required field"},
		{name: "zero parallel", args: []string{"-i", input, "--password", "pw", "-j", "0"}, wantErr: "--parallel"},
		{name: "unknown kdf", args: []string{"-i", input, "--password", "pw", "--kdf", "scrypt"}, wantErr: "--kdf"},
		{
			name:    "two password sources",
			args:    []string{"-i", input, "--password", "pw", "--password-file", pwFile},
			wantErr: "mutually exclusive",
		},
		{name: "positional argument", args: []string{"decrypt", "extra"}, wantErr: "unknown command"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := execute(t, tc.args...)
			require.Error(t, err)
			require.NotErrorIs(t, err, commands.ErrExitGracefully)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
