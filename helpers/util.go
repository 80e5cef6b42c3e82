package helpers

import (
	"os"
	"path/filepath"
	"strings"
)

// CollapseWhitespace trims s and folds any run of whitespace, including
// non-breaking spaces and newlines, into a single space. Scraped card text
// is full of layout whitespace that must not leak into stored values.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// WriteFileAtomic writes data to path by way of a temporary file in the
// same directory followed by a rename, so readers never observe a partial
// write and a failed write leaves the previous file untouched.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
