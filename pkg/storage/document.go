package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrStorage marks a failed durable read or write of a document. When a write
// fails after an in-memory mutation, the in-memory state is ahead of the
// on-disk copy until the next successful write.
var ErrStorage = errors.New("storage failure")

// Document is one on-disk JSON file holding the full state of a store.
// Every write rewrites the file in full; there is no append log.
type Document struct {
	path string
}

// NewDocument opens the document at path, creating the parent directory and
// an empty JSON array file if they do not exist yet.
func NewDocument(path string) (*Document, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data directory: %v", ErrStorage, err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte("[]\n"), 0o644); err != nil {
			return nil, fmt.Errorf("%w: initialize %s: %v", ErrStorage, path, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %v", ErrStorage, path, err)
	}

	return &Document{path: path}, nil
}

// Path returns the location of the backing file.
func (d *Document) Path() string {
	return d.path
}

// Load reads and decodes the whole document into v.
func (d *Document) Load(v interface{}) error {
	data, err := os.ReadFile(d.path)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrStorage, d.path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrStorage, d.path, err)
	}
	return nil
}

// Store encodes v and rewrites the document. The write goes through a
// temporary file and a rename so a crash mid-write cannot leave a truncated
// document behind.
func (d *Document) Store(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrStorage, d.path, err)
	}

	tmp := d.path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrStorage, tmp, err)
	}
	if err := os.Rename(tmp, d.path); err != nil {
		return fmt.Errorf("%w: replace %s: %v", ErrStorage, d.path, err)
	}
	return nil
}
