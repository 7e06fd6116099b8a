// Package fileutil provides shared file operation helpers.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Eyob94/encryptr/internal/errs"
)

// TempContext holds state for an atomic file write operation.
type TempContext struct {
	TmpFile *os.File
	TmpName string
	outPath string
}

// NewTempContext creates a temp file next to outPath for atomic writing.
// Caller must defer CleanupOnError.
func NewTempContext(outPath string) (*TempContext, error) {
	tmpFile, err := os.CreateTemp(filepath.Dir(outPath), ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("%w: creating temporary file: %w", errs.ErrFileAccess, err)
	}

	return &TempContext{
		TmpFile: tmpFile,
		TmpName: tmpFile.Name(),
		outPath: outPath,
	}, nil
}

// Write implements io.Writer on the temporary file.
func (tc *TempContext) Write(p []byte) (int, error) {
	return tc.TmpFile.Write(p) //nolint:wrapcheck
}

// Commit syncs and closes the temp file, renames it onto the output path
// and returns the size of the published file.
func (tc *TempContext) Commit() (int64, error) {
	const ownerReadWrite = 0o600

	if err := tc.TmpFile.Chmod(ownerReadWrite); err != nil {
		return 0, fmt.Errorf("%w: setting file permissions: %w", errs.ErrFileAccess, err)
	}

	if err := tc.TmpFile.Sync(); err != nil {
		return 0, fmt.Errorf("%w: syncing temporary file: %w", errs.ErrFileAccess, err)
	}

	if err := tc.TmpFile.Close(); err != nil {
		return 0, fmt.Errorf("%w: closing temporary file: %w", errs.ErrFileAccess, err)
	}

	if err := os.Rename(tc.TmpName, tc.outPath); err != nil {
		return 0, fmt.Errorf("%w: renaming output file: %w", errs.ErrFileAccess, err)
	}

	info, err := os.Stat(tc.outPath)
	if err != nil {
		return 0, fmt.Errorf("%w: stat output %q: %w", errs.ErrFileAccess, tc.outPath, err)
	}

	return info.Size(), nil
}

// CleanupOnError closes the temp file and removes it if the write failed.
func (tc *TempContext) CleanupOnError(errp *error) {
	tc.TmpFile.Close() //nolint:gosec // best-effort cleanup

	if *errp != nil {
		os.Remove(tc.TmpName) //nolint:gosec // best-effort cleanup
	}
}
