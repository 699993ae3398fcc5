package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/janisto/addressbook-assistant/internal/addressbook"
)

// DefaultPath is the file used when no location is configured.
const DefaultPath = "addressbook.cbor"

// Store loads and saves a whole address book.
type Store interface {
	Load() (*addressbook.Book, error)
	Save(book *addressbook.Book) error
}

// Save writes the whole book to path, replacing any previous content.
// The blob is written to a temporary file in the same directory and renamed
// into place, so readers never see a partially written file.
func Save(book *addressbook.Book, path string) error {
	data, err := Encode(book)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file in %s: %w", ErrPersistence, dir, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("%w: write %s: %w", ErrPersistence, tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("%w: sync %s: %w", ErrPersistence, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("%w: close %s: %w", ErrPersistence, tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("%w: replace %s: %w", ErrPersistence, path, err)
	}
	return nil
}

// Load reads the book stored at path. A missing file yields an empty book.
func Load(path string) (*addressbook.Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return addressbook.New(), nil
		}
		return nil, fmt.Errorf("%w: read %s: %w", ErrPersistence, path, err)
	}
	return Decode(data)
}

// FileStore implements Store on a single file.
type FileStore struct {
	Path string
}

// NewFileStore returns a store for path, or DefaultPath when path is empty.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultPath
	}
	return &FileStore{Path: path}
}

func (s *FileStore) Load() (*addressbook.Book, error) { return Load(s.Path) }

func (s *FileStore) Save(book *addressbook.Book) error { return Save(book, s.Path) }

// MemoryStore implements Store in memory for tests. It keeps the encoded
// blob, so a Load after Save returns an independent copy.
type MemoryStore struct {
	mu    sync.Mutex
	blob  []byte
	saves int
	// SaveErr, when set, is returned by Save instead of storing the book.
	SaveErr error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load() (*addressbook.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.blob == nil {
		return addressbook.New(), nil
	}
	return Decode(m.blob)
}

func (m *MemoryStore) Save(book *addressbook.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveErr != nil {
		return m.SaveErr
	}
	data, err := Encode(book)
	if err != nil {
		return err
	}
	m.blob = data
	m.saves++
	return nil
}

// Saves reports how many times Save succeeded.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Compile-time interface checks
var (
	_ Store = (*FileStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
