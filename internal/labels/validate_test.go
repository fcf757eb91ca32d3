package labels

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/shortform/internal/types"
)

func TestValidateLabelData(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"empty", nil, nil},
		{"toml", []byte("[[entity]]\niri = \"http://example.org/A\"\n"), nil},
		{"utf8 labels", []byte("text = \"Maladie cardiaque 心脏病\"\n"), nil},
		{"mostly control bytes", bytes.Repeat([]byte{0x00, 0x01, 'a'}, 100), ErrBinaryLabelFile},
		{"bolt page", append(make([]byte, 16), 0xED, 0xDA, 0x0C, 0xED), ErrBinaryLabelFile},
		{"invalid utf8", []byte("text = \"\xff\xfe\"\nmore = 1\n"), ErrBinaryLabelFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateLabelData(tt.data)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateLabelData_TruncatedHeaderRune(t *testing.T) {
	// a three byte rune straddles the inspected header boundary
	data := []byte(strings.Repeat("a", headerSize-1) + "心" + "tail")
	assert.NoError(t, validateLabelData(data))
}

func TestFileSource_RejectsBinaryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.toml")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{0x00}, 512), 0o644))

	_, err := NewFileSource(path, types.DefaultPrefixes())
	assert.ErrorIs(t, err, ErrBinaryLabelFile)
}
