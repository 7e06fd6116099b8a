//go:build linux || darwin

package chunk_test

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/Eyob94/encryptr/internal/chunk"
	"github.com/Eyob94/encryptr/internal/errs"
)

func TestLoadRejectsFIFO(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pipe")
	if err := syscall.Mkfifo(path, 0o600); err != nil {
		t.Skipf("mkfifo: %v", err)
	}

	done := make(chan error, 1)

	go func() {
		_, _, err := chunk.Load(path)
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, errs.ErrFileAccess) {
			t.Fatalf("got %v, want ErrFileAccess", err)
		}
	case <-time.After(5 * time.Second):
		// Unblock the pending open so the goroutine can exit.
		if w, err := os.OpenFile(path, os.O_WRONLY, 0); err == nil {
			w.Close()
		}

		t.Fatal("Load blocked on a FIFO")
	}
}

func TestLoadRejectsSizeMismatch(t *testing.T) {
	t.Parallel()

	// procfs reports a zero size for files that do have content.
	const path = "/proc/self/status"

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() != 0 {
		t.Skipf("%s is not a zero-sized regular file here", path)
	}

	if _, _, err := chunk.Load(path); !errors.Is(err, errs.ErrFileAccess) {
		t.Fatalf("got %v, want ErrFileAccess", err)
	}
}
