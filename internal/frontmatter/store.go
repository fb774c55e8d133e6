package frontmatter

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store applies frontmatter mutations to documents inside a vault.
// Paths handed to SetKey are vault-relative, slash-separated.
type Store struct {
	root string
}

// NewStore creates a Store rooted at the vault directory.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// SetKey reads the document at path, sets key to value in its frontmatter and
// writes the result back atomically (temp file + rename in the same
// directory), so a watcher never observes a half-written document.
func (s *Store) SetKey(path, key, value string) error {
	abs := filepath.Join(s.root, filepath.FromSlash(path))

	doc, err := os.ReadFile(abs)
	if err != nil {
		return fmt.Errorf("frontmatter: read %s: %w", path, err)
	}

	out, err := Upsert(doc, key, value)
	if err != nil {
		return fmt.Errorf("frontmatter: update %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(abs), ".stamp-*.tmp")
	if err != nil {
		return fmt.Errorf("frontmatter: temp file for %s: %w", path, err)
	}
	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("frontmatter: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("frontmatter: close temp for %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), abs); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("frontmatter: replace %s: %w", path, err)
	}
	return nil
}
