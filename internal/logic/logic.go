// Package logic implements the core business logic for encryption, decryption and inspection.
package logic

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Eyob94/encryptr/internal/config"
	"github.com/Eyob94/encryptr/internal/encryptr"
	"github.com/Eyob94/encryptr/internal/logging"
)

// RunEncrypt encrypts cfg.Input into a container.
func RunEncrypt(ctx context.Context, cfg *config.Config, prompt Prompter) error {
	proc, logger, err := preamble(cfg, true, prompt)
	if err != nil {
		return err
	}

	logger.Debug("encrypting", "input", cfg.Input, "parallel", cfg.Parallel, "kdf", cfg.KDF)

	result, err := proc.Encrypt(ctx)
	if err != nil {
		return fmt.Errorf("encrypting %q: %w", cfg.Input, err)
	}

	report(os.Stdout, os.Stderr, cfg, result)

	return nil
}

// RunDecrypt restores the original file from the container cfg.Input.
func RunDecrypt(ctx context.Context, cfg *config.Config, prompt Prompter) error {
	proc, logger, err := preamble(cfg, false, prompt)
	if err != nil {
		return err
	}

	logger.Debug("decrypting", "input", cfg.Input, "kdf", cfg.KDF)

	result, err := proc.Decrypt(ctx)
	if err != nil {
		return fmt.Errorf("decrypting %q: %w", cfg.Input, err)
	}

	report(os.Stdout, os.Stderr, cfg, result)

	return nil
}

// RunInfo prints the metadata of the container cfg.Input.
func RunInfo(ctx context.Context, cfg *config.Config, prompt Prompter) error {
	proc, _, err := preamble(cfg, false, prompt)
	if err != nil {
		return err
	}

	info, err := proc.Info(ctx)
	if err != nil {
		return fmt.Errorf("inspecting %q: %w", cfg.Input, err)
	}

	printInfo(os.Stdout, info)

	return nil
}

// preamble builds the logger, resolves the password and creates the processor.
func preamble(cfg *config.Config, confirm bool, prompt Prompter) (*encryptr.Processor, *slog.Logger, error) {
	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.Quiet)
	if err != nil {
		return nil, nil, err
	}

	password, err := Password(cfg, confirm, prompt)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving password: %w", err)
	}

	proc, err := encryptr.NewProcessor(cfg, password, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("creating processor: %w", err)
	}

	return proc, logger, nil
}

func report(stdout, stderr io.Writer, cfg *config.Config, result encryptr.Result) {
	if !cfg.Quiet {
		fmt.Fprintf(stdout, "Processed %q -> %q\n", result.Input, result.Output)
	}

	if cfg.Stats {
		printStats(stderr, result)
	}
}

func printInfo(w io.Writer, info encryptr.Info) {
	fmt.Fprintf(w, "Name:    %s\n", info.Name)
	fmt.Fprintf(w, "Size:    %s (%d bytes)\n", humanize.IBytes(info.Size), info.Size)
	fmt.Fprintf(w, "Chunks:  %d\n", info.Chunks)
	fmt.Fprintf(w, "Cipher:  %s\n", info.Cipher)
	fmt.Fprintf(w, "Run:     %s\n", info.RunID)
}

func printStats(w io.Writer, result encryptr.Result) {
	fmt.Fprintf(w, "\nStats\n")
	fmt.Fprintf(w, "  Chunks:    %d\n", result.Chunks)
	//nolint:gosec // sizes are always non-negative
	fmt.Fprintf(w, "  Size:      %s\n", humanize.IBytes(uint64(max(0, result.Size))))
	fmt.Fprintf(w, "  Duration:  %s\n", result.Duration.Round(time.Millisecond))

	if seconds := result.Duration.Seconds(); seconds > 0 {
		//nolint:gosec // throughput is non-negative
		fmt.Fprintf(w, "  Rate:      %s/s\n", humanize.IBytes(uint64(float64(result.Size)/seconds)))
	}
}
