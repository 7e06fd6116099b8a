// Package staging buffers encrypted chunks in individual files before they are assembled.
//
// Every run stages into its own directory, named after a random run identifier,
// below a shared base directory. Inside it each chunk lives in "<index>_wal",
// so concurrent writers for distinct indices never touch the same file.
package staging

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"

	"github.com/google/uuid"

	"github.com/Eyob94/encryptr/internal/entry"
	"github.com/Eyob94/encryptr/internal/errs"
)

const suffix = "_wal"

//nolint:gochecknoglobals
var namePattern = regexp.MustCompile(`^(\d+)` + suffix + `$`)

// Stage is the staging context of a single run.
type Stage struct {
	dir   string
	runID uuid.UUID
}

// DefaultBase returns the default base directory for staging.
func DefaultBase() string {
	return filepath.Join(os.TempDir(), "encryptr")
}

// New creates a fresh run directory below base.
func New(base string) (*Stage, error) {
	runID := uuid.New()
	dir := filepath.Join(base, runID.String())

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: creating staging directory: %w", errs.ErrFileAccess, err)
	}

	return &Stage{dir: dir, runID: runID}, nil
}

// Dir returns the run directory.
func (s *Stage) Dir() string {
	return s.dir
}

// RunID returns the identifier of the run.
func (s *Stage) RunID() [16]byte {
	return s.runID
}

// Path returns the staging file path for a chunk index.
func (s *Stage) Path(index uint64) string {
	return filepath.Join(s.dir, strconv.FormatUint(index, 10)+suffix)
}

// Put writes e to its own staging file. The file must not exist yet.
func (s *Stage) Put(e entry.Entry) (err error) {
	if e.ChunkIndex == entry.MetadataIndex {
		return fmt.Errorf("staging: index %d is reserved for metadata", entry.MetadataIndex)
	}

	path := s.Path(e.ChunkIndex)

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("%w: creating staging file: %w", errs.ErrFileAccess, err)
	}

	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: closing staging file: %w", errs.ErrFileAccess, cerr)
		}
	}()

	if _, err := entry.Write(file, e); err != nil {
		return fmt.Errorf("staging chunk %d: %w", e.ChunkIndex, err)
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("%w: syncing staging file: %w", errs.ErrFileAccess, err)
	}

	return nil
}

type staged struct {
	index uint64
	name  string
}

// Scan lists the staged files in index order and checks that they are exactly 1..expected.
// Files not following the naming convention are ignored.
func (s *Stage) Scan(expected int) ([]string, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: reading staging directory: %w", errs.ErrFileAccess, err)
	}

	var files []staged

	for _, de := range dirEntries {
		if !de.Type().IsRegular() {
			continue
		}

		match := namePattern.FindStringSubmatch(de.Name())
		if match == nil {
			continue
		}

		index, err := strconv.ParseUint(match[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: staging file %q: %w", errs.ErrSequence, de.Name(), err)
		}

		files = append(files, staged{index: index, name: de.Name()})
	}

	slices.SortFunc(files, func(a, b staged) int {
		return cmp.Or(cmp.Compare(a.index, b.index), cmp.Compare(a.name, b.name))
	})

	paths := make([]string, 0, len(files))

	for i, f := range files {
		want := uint64(i) + 1 //nolint:gosec // i is a slice index

		switch {
		case f.index == want:
		case i > 0 && f.index == files[i-1].index:
			return nil, fmt.Errorf("%w: duplicate chunk %d (%q)", errs.ErrSequence, f.index, f.name)
		default:
			return nil, fmt.Errorf("%w: expected chunk %d, found %d", errs.ErrSequence, want, f.index)
		}

		paths = append(paths, filepath.Join(s.dir, f.name))
	}

	if len(paths) != expected {
		return nil, fmt.Errorf("%w: staged %d chunks, expected %d", errs.ErrSequence, len(paths), expected)
	}

	return paths, nil
}

// Cleanup removes the run directory and anything left in it.
func (s *Stage) Cleanup() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("%w: cleaning staging directory: %w", errs.ErrFileAccess, err)
	}

	return nil
}
