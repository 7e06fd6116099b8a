package encryptr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eyob94/encryptr/internal/errs"
	"github.com/Eyob94/encryptr/internal/metadata"
)

func TestSafeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		wantErr error
	}{
		{name: "plain.txt"},
		{name: ".hidden"},
		{name: "", wantErr: errs.ErrMalformedContainer},
		{name: "..", wantErr: errs.ErrMalformedContainer},
		{name: "../escape", wantErr: errs.ErrMalformedContainer},
		{name: "dir/file", wantErr: errs.ErrMalformedContainer},
		{name: "/etc/passwd", wantErr: errs.ErrMalformedContainer},
		{name: "bad\xff", wantErr: errs.ErrEncoding},
	}

	for _, tc := range tests {
		meta, err := metadata.New(tc.name, 0, [metadata.RunIDSize]byte{})
		require.NoError(t, err)

		got, err := safeName(meta)
		if tc.wantErr != nil {
			require.ErrorIs(t, err, tc.wantErr, tc.name)

			continue
		}

		require.NoError(t, err)
		assert.Equal(t, tc.name, got)
	}
}
