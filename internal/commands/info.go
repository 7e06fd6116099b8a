package commands

import (
	"github.com/spf13/cobra"

	"github.com/Eyob94/encryptr/internal/config"
	"github.com/Eyob94/encryptr/internal/logic"
)

// NewInfoCommand creates a new cobra command that prints container metadata.
func NewInfoCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "info [flags]",
		Aliases: []string{"show"},
		Short:   "Show the name and size stored in a container",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.RunInfo(cmd.Context(), cfg, logic.TerminalPrompter)
		},
	}
}
