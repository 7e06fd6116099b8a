package commands

import (
	"github.com/spf13/cobra"

	"github.com/Eyob94/encryptr/internal/config"
	"github.com/Eyob94/encryptr/internal/logic"
)

// NewDecryptCommand creates a new cobra command for the decrypt subcommand.
func NewDecryptCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "decrypt [flags]",
		Aliases: []string{"dec"},
		Short:   "Restore the original file from a container",
		Long: `Restores the original file from a container.
Without --out the file is written next to the container under its original name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.RunDecrypt(cmd.Context(), cfg, logic.TerminalPrompter)
		},
	}
}
