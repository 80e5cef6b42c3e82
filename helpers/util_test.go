package helpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  Corsair  K70  ", "Corsair K70"},
		{"1 190 kr", "1 190 kr"},
		{"line\nbreak\ttab", "line break tab"},
		{"", ""},
		{"already clean", "already clean"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, CollapseWhitespace(tt.input))
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	assert.NoError(t, WriteFileAtomic(path, []byte("first"), 0o644))
	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "first", string(data))

	assert.NoError(t, WriteFileAtomic(path, []byte("second"), 0o644))
	data, err = os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "second", string(data))

	// The swap must not leave temporary files next to the target
	entries, err := os.ReadDir(dir)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
}
