package commands

import (
	"github.com/spf13/cobra"

	"github.com/Eyob94/encryptr/internal/config"
	"github.com/Eyob94/encryptr/internal/logic"
)

// NewEncryptCommand creates a new cobra command for the encrypt subcommand.
func NewEncryptCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "encrypt [flags]",
		Aliases: []string{"enc"},
		Short:   "Encrypt a file into a container",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.RunEncrypt(cmd.Context(), cfg, logic.TerminalPrompter)
		},
	}
}
