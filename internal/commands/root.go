package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/Eyob94/encryptr/internal/config"
	"github.com/Eyob94/encryptr/internal/encryption"
	"github.com/Eyob94/encryptr/internal/logic"
	"github.com/Eyob94/encryptr/internal/staging"
)

// NewRootCommand creates the root command with common configuration.
// Without a subcommand it encrypts.
func NewRootCommand(cfg *config.Config, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "encryptr [flags] [command]",
		Short: "Chunked file encryption utility",
		Long: `Encrypts a single file in 512 KiB chunks with ChaCha20-Poly1305.
Chunks are encrypted in parallel, staged to disk and assembled into one container
that also carries the encrypted file name and size.

The password is read from ENCRYPTR_PASSWORD, --password-file or the terminal.`,
		Version:           version,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		PersistentPreRunE: preRun(cfg),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.RunEncrypt(cmd.Context(), cfg, logic.TerminalPrompter)
		},
	}

	root.SetVersionTemplate("{{ .Version }}\n")

	flags := root.PersistentFlags()
	flags.SortFlags = false

	flags.StringP("in", "i", "", "Input file")
	flags.StringP("out", "o", "", "Output file, defaults to a name derived from the input, next to it")
	flags.IntP("parallel", "j", runtime.NumCPU(), "Number of parallel workers, defaults to number of CPUs")
	flags.String("staging-dir", staging.DefaultBase(), "Base directory for staged chunks")

	flags.String("kdf", encryption.KDFBlake3, "Key derivation: blake3 or argon2id")
	flags.Uint32("argon-time", encryption.DefaultArgon2Params.Time, "Argon2id passes")
	flags.Uint32("argon-memory", encryption.DefaultArgon2Params.Memory, "Argon2id memory in KiB")
	flags.Uint8("argon-threads", encryption.DefaultArgon2Params.Threads, "Argon2id lanes")

	flags.String("password", "", "Password, prefer ENCRYPTR_PASSWORD")
	flags.StringP("password-file", "p", "", "Path to a file holding the password")

	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.BoolP("quiet", "q", false, "Suppress non-error output")
	flags.Bool("stats", false, "Print statistics after processing")
	flags.BoolP("show", "s", false, "Show the configuration and exit")

	_ = flags.MarkHidden("password")

	root.AddCommand(NewEncryptCommand(cfg), NewDecryptCommand(cfg), NewInfoCommand(cfg))

	return root
}
