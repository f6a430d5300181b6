package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Book is the persisted set of wallets plus the name of the default one.
type Book struct {
	Default string    `json:"default,omitempty"`
	Wallets []*Wallet `json:"wallets"`
}

// Store persists the wallet book.
type Store interface {
	Load() (*Book, error)
	Save(*Book) error
}

// FileStore keeps the book in a JSON file readable only by the owner.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load returns an empty book when the file does not exist yet.
func (s *FileStore) Load() (*Book, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Book{}, nil
	}
	if err != nil {
		return nil, err
	}
	var b Book
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	return &b, nil
}

// Save writes to a temp file and renames it over the book.
func (s *FileStore) Save(b *Book) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

type memStore struct {
	book Book
}

func (s *memStore) Load() (*Book, error) {
	b := s.book
	return &b, nil
}

func (s *memStore) Save(b *Book) error {
	s.book = *b
	return nil
}
