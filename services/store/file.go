package store

import (
	"encoding/json"
	"os"
	"time"

	"sjsage522/fyndworker/helpers"
	"sjsage522/fyndworker/logger"
	errs "sjsage522/fyndworker/pkg/errors"
)

// FileStore implements Store on a local JSON file. The file maps each
// fingerprint to its first-seen timestamp and is replaced wholesale through
// a temp-file swap on save.
type FileStore struct {
	path string
	log  *logger.Logger
}

// Ensure FileStore implements Store
var _ Store = (*FileStore)(nil)

// NewFileStore creates a file store at the given path
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		log:  logger.ForStore(),
	}
}

// Load reads the seen set from disk. A missing file is a normal first run;
// unreadable or corrupt content degrades to an empty set with a warning,
// at the cost of possibly re-announcing deals once.
func (f *FileStore) Load() Set {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			f.log.Warn().Err(err).Str("path", f.path).Msg("Could not read seen set, starting empty")
		}
		return NewSet()
	}

	var raw map[string]time.Time
	if err := json.Unmarshal(data, &raw); err != nil {
		f.log.Warn().Err(err).Str("path", f.path).Msg("Seen set is corrupt, starting empty")
		return NewSet()
	}

	return Set(raw)
}

// Save writes the full seen set to disk atomically
func (f *FileStore) Save(s Set) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errs.NewStore("file", "failed to encode seen set", err)
	}
	data = append(data, '\n')

	if err := helpers.WriteFileAtomic(f.path, data, 0o644); err != nil {
		return errs.NewStore("file", "failed to write seen set", err)
	}

	return nil
}
