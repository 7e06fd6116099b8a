// Package container builds and reads encrypted container files.
//
// A container is a sequence of framed entries: the encrypted metadata as entry 0,
// followed by the encrypted chunks 1..N in order.
package container

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"

	"github.com/Eyob94/encryptr/internal/entry"
	"github.com/Eyob94/encryptr/internal/errs"
	"github.com/Eyob94/encryptr/internal/metadata"
	"github.com/Eyob94/encryptr/internal/staging"
)

// DefaultName returns the content-derived output name for meta:
// the hex encoded BLAKE3 hash of the padded file name field.
func DefaultName(meta metadata.Metadata) string {
	sum := blake3.Sum256(meta.FileName[:])

	return hex.EncodeToString(sum[:])
}

// DefaultPath places DefaultName next to the input file.
func DefaultPath(input string, meta metadata.Metadata) string {
	return filepath.Join(filepath.Dir(input), DefaultName(meta))
}

// Assemble writes the container to out: the metadata entry first, then every
// staged chunk in index order. Each staged file is deleted right after it has
// been appended. expected is the number of chunks that must be staged.
//
// The staging directory itself is left for the caller to remove. On failure
// the output file is left as far as it got.
func Assemble(out string, meta entry.Entry, stage *staging.Stage, expected int) (written int64, err error) {
	if meta.ChunkIndex != entry.MetadataIndex {
		return 0, fmt.Errorf("assemble: metadata entry has index %d", meta.ChunkIndex)
	}

	file, err := os.OpenFile(filepath.Clean(out), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return 0, fmt.Errorf("%w: creating output: %w", errs.ErrFileAccess, err)
	}

	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: closing output: %w", errs.ErrFileAccess, cerr)
		}
	}()

	n, err := entry.Write(file, meta)
	if err != nil {
		return int64(n), fmt.Errorf("writing metadata entry: %w", err)
	}

	written = int64(n)

	paths, err := stage.Scan(expected)
	if err != nil {
		return written, fmt.Errorf("validating staged chunks: %w", err)
	}

	for _, path := range paths {
		n, err := appendFile(file, path)
		written += n

		if err != nil {
			return written, err
		}

		if err := os.Remove(path); err != nil {
			return written, fmt.Errorf("%w: removing staged chunk: %w", errs.ErrFileAccess, err)
		}
	}

	if err := file.Sync(); err != nil {
		return written, fmt.Errorf("%w: syncing output: %w", errs.ErrFileAccess, err)
	}

	return written, nil
}

func appendFile(dst io.Writer, path string) (int64, error) {
	src, err := os.Open(filepath.Clean(path))
	if err != nil {
		return 0, fmt.Errorf("%w: opening staged chunk: %w", errs.ErrFileAccess, err)
	}
	defer src.Close()

	n, err := io.Copy(dst, src)
	if err != nil {
		return n, fmt.Errorf("%w: appending %q: %w", errs.ErrFileAccess, filepath.Base(path), err)
	}

	return n, nil
}
