package chunk

import (
	"sync"
)

// bufferPool provides reusable read buffers of Size bytes.
//
//nolint:gochecknoglobals
var bufferPool = sync.Pool{
	New: func() any {
		buf := make([]byte, Size)

		return &buf
	},
}
