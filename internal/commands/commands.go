package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Eyob94/encryptr/internal/config"
)

// EnvPrefix is the prefix of environment variables mapped onto flags.
const EnvPrefix = "ENCRYPTR"

// ErrExitGracefully signals that the command finished early without failing,
// for instance after --show printed the configuration.
var ErrExitGracefully = errors.New("exit")

// preRun returns a PersistentPreRunE handler that merges flags and ENCRYPTR_*
// environment variables into cfg and validates the result.
// With --show the masked configuration is printed and ErrExitGracefully returned.
func preRun(cfg *config.Config) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		v := viper.New()

		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		v.AutomaticEnv()

		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return fmt.Errorf("binding flags: %w", err)
		}

		if err := v.Unmarshal(cfg); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}

		if cfg.Display() {
			if err := show(cmd.OutOrStdout(), cfg); err != nil {
				return err
			}

			return ErrExitGracefully
		}

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("%w\nSee --help for more info on usage", err)
		}

		return nil
	}
}

// show writes the configuration as YAML with secrets masked.
func show(w io.Writer, cfg *config.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(cfg.Masked()); err != nil {
		return fmt.Errorf("printing configuration: %w", err)
	}

	return enc.Close() //nolint:wrapcheck
}
