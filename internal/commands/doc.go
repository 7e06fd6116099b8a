// Package commands provides the command-line interface for the encryptr tool.
//
// It implements commands for:
//   - encryption (also the default when no command is given)
//   - decryption
//   - container inspection
//
// The package handles command-line parsing, configuration validation,
// and environment variable binding through cobra and viper.
package commands
