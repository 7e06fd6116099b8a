package fileutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eyob94/encryptr/internal/errs"
	"github.com/Eyob94/encryptr/internal/fileutil"
)

func TestCommit(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "out.txt")

	tc, err := fileutil.NewTempContext(out)
	require.NoError(t, err)

	_, err = tc.Write([]byte("hello"))
	require.NoError(t, err)

	assert.NoFileExists(t, out, "output must not appear before commit")

	size, err := tc.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)

	tc.CleanupOnError(&err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.NoFileExists(t, tc.TmpName)
}

func TestCleanupOnError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")

	tc, err := fileutil.NewTempContext(out)
	require.NoError(t, err)

	_, err = tc.Write([]byte("partial"))
	require.NoError(t, err)

	failure := errors.New("boom")
	tc.CleanupOnError(&failure)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "a failed write must leave nothing behind")
}

func TestMissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := fileutil.NewTempContext(filepath.Join(t.TempDir(), "missing", "out.txt"))
	require.ErrorIs(t, err, errs.ErrFileAccess)
}
