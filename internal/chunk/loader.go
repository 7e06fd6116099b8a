// Package chunk splits a source file into the fixed-size plaintext chunks that are encrypted independently.
package chunk

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Eyob94/encryptr/internal/errs"
	"github.com/Eyob94/encryptr/internal/metadata"
)

// Size is the nominal plaintext chunk size (512 KiB).
const Size = 512 * 1024

// Count returns the number of chunks a file of the given size is split into.
func Count(size uint64) int {
	return int((size + Size - 1) / Size) //nolint:gosec // file sizes fit in int on supported platforms
}

// Load reads the file at path and returns its metadata together with its chunks in order.
// Every chunk but the last is exactly Size bytes; an empty file yields no chunks.
// The returned metadata carries a zero run identifier.
func Load(path string) (metadata.Metadata, [][]byte, error) {
	name := filepath.Base(filepath.Clean(path))
	if len(name) >= metadata.NameSize {
		return metadata.Metadata{}, nil, fmt.Errorf("%w: %q is %d bytes, limit is %d",
			errs.ErrNameTooLong, name, len(name), metadata.NameSize-1)
	}

	// Stat before opening so that a FIFO is rejected instead of blocking the open.
	info, err := os.Stat(filepath.Clean(path))
	if err != nil {
		return metadata.Metadata{}, nil, fmt.Errorf("%w: stat %q: %w", errs.ErrFileAccess, path, err)
	}

	if err := regular(path, info); err != nil {
		return metadata.Metadata{}, nil, err
	}

	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return metadata.Metadata{}, nil, fmt.Errorf("%w: opening %q: %w", errs.ErrFileAccess, path, err)
	}
	defer file.Close()

	info, err = file.Stat()
	if err != nil {
		return metadata.Metadata{}, nil, fmt.Errorf("%w: stat %q: %w", errs.ErrFileAccess, path, err)
	}

	if err := regular(path, info); err != nil {
		return metadata.Metadata{}, nil, err
	}

	size := uint64(info.Size()) //nolint:gosec // sizes reported by Stat are non-negative

	meta, err := metadata.New(name, size, [metadata.RunIDSize]byte{})
	if err != nil {
		return metadata.Metadata{}, nil, err
	}

	chunks, err := Read(file, Count(size))
	if err != nil {
		return metadata.Metadata{}, nil, fmt.Errorf("reading %q: %w", path, err)
	}

	var read uint64
	for _, c := range chunks {
		read += uint64(len(c))
	}

	if read != size || len(chunks) != Count(size) {
		return metadata.Metadata{}, nil, fmt.Errorf("%w: %q does not match its stat size: stat reported %d bytes, read %d in %d chunks",
			errs.ErrFileAccess, path, size, read, len(chunks))
	}

	return meta, chunks, nil
}

// Read drains r into chunks of at most Size bytes. sizeHint preallocates the result.
// Every read that returns data yields one chunk of exactly the bytes read.
func Read(reader io.Reader, sizeHint int) ([][]byte, error) {
	bufp, ok := bufferPool.Get().(*[]byte)
	if !ok {
		return nil, errors.New("invalid buffer type from pool") //nolint:err113
	}
	defer bufferPool.Put(bufp)

	buf := *bufp
	chunks := make([][]byte, 0, sizeHint)

	for {
		n, err := reader.Read(buf)
		if n > 0 {
			chunks = append(chunks, append([]byte(nil), buf[:n]...))
		}

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrFileAccess, err)
		}
	}

	return chunks, nil
}

// Split slices data into chunks of at most Size bytes without copying.
func Split(data []byte) [][]byte {
	return SplitN(data, Size)
}

// SplitN slices data into chunks of at most size bytes without copying.
// It panics if size is not positive.
func SplitN(data []byte, size int) [][]byte {
	if size <= 0 {
		panic("chunk: non-positive split size")
	}

	chunks := make([][]byte, 0, (len(data)+size-1)/size)

	for len(data) > 0 {
		n := min(len(data), size)
		chunks = append(chunks, data[:n])
		data = data[n:]
	}

	return chunks
}

func regular(path string, info os.FileInfo) error {
	switch {
	case info.IsDir():
		return fmt.Errorf("%w: %q is a directory", errs.ErrFileAccess, path)
	case !info.Mode().IsRegular():
		return fmt.Errorf("%w: %q is not a regular file (%s)", errs.ErrFileAccess, path, info.Mode().Type())
	default:
		return nil
	}
}
