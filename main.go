// Command encryptr encrypts a single file into a chunked, authenticated container.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Eyob94/encryptr/internal/commands"
	"github.com/Eyob94/encryptr/internal/config"
)

// version is set at build time.
//
//nolint:gochecknoglobals
var version = "unknown - unofficial & generated by unknown"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := &config.Config{}

	err := commands.NewRootCommand(cfg, version).ExecuteContext(ctx)

	switch {
	case err == nil, errors.Is(err, commands.ErrExitGracefully):
		return 0
	default:
		fmt.Fprintf(os.Stderr, "encryptr: %v\n", err)

		return 1
	}
}
