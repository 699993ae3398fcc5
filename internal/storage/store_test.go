package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"testing"

	"github.com/fxamacker/cbor/v2"

	"github.com/janisto/addressbook-assistant/internal/addressbook"
)

func sampleBook(t *testing.T) *addressbook.Book {
	t.Helper()
	book := addressbook.New()

	alice, err := addressbook.NewRecord("Alice")
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{"2222222222", "1111111111", "2222222222"} {
		if err := alice.AddPhone(p); err != nil {
			t.Fatal(err)
		}
	}
	if err := alice.AddBirthday("15.06.1990"); err != nil {
		t.Fatal(err)
	}
	book.AddRecord(alice)

	bob, err := addressbook.NewRecord("Bob Smith")
	if err != nil {
		t.Fatal(err)
	}
	book.AddRecord(bob)
	return book
}

func assertSameBook(t *testing.T, want, got *addressbook.Book) {
	t.Helper()
	if got.Len() != want.Len() {
		t.Fatalf("expected %d records, got %d", want.Len(), got.Len())
	}
	for _, w := range want.Records() {
		g, ok := got.Find(w.Name().String())
		if !ok {
			t.Fatalf("missing record %q", w.Name())
		}
		if g.Name() != w.Name() {
			t.Fatalf("name mismatch: %q vs %q", g.Name(), w.Name())
		}
		if !slices.Equal(g.Phones(), w.Phones()) {
			t.Fatalf("%s: phones %v, want %v", w.Name(), g.Phones(), w.Phones())
		}
		wb, wok := w.Birthday()
		gb, gok := g.Birthday()
		if wok != gok || wb.String() != gb.String() {
			t.Fatalf("%s: birthday %v/%v, want %v/%v", w.Name(), gb, gok, wb, wok)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.cbor")
	book := sampleBook(t)

	if err := Save(book, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertSameBook(t, book, loaded)

	alice, _ := loaded.Find("Alice")
	if alice.String() != "Alice: 2222222222; 1111111111; 2222222222, Birthday: 15.06.1990" {
		t.Fatalf("unexpected render %q", alice.String())
	}
}

func TestSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.cbor")

	if err := Save(sampleBook(t), path); err != nil {
		t.Fatal(err)
	}
	if err := Save(addressbook.New(), path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Len() != 0 {
		t.Fatalf("expected empty book after overwrite, got %d records", loaded.Len())
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the book file, found %d entries", len(entries))
	}
}

func TestSaveLoadLargeBook(t *testing.T) {
	// One past cbor's default array limit of 131072 elements.
	const n = 131073

	book := addressbook.New()
	for i := range n {
		r, err := addressbook.NewRecord("contact-" + strconv.Itoa(i))
		if err != nil {
			t.Fatal(err)
		}
		book.AddRecord(r)
	}
	many, err := addressbook.NewRecord("Many")
	if err != nil {
		t.Fatal(err)
	}
	for range n {
		if err := many.AddPhone("1234567890"); err != nil {
			t.Fatal(err)
		}
	}
	book.AddRecord(many)

	path := filepath.Join(t.TempDir(), "book.cbor")
	if err := Save(book, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Len() != n+1 {
		t.Fatalf("expected %d contacts, got %d", n+1, loaded.Len())
	}
	r, ok := loaded.Find("Many")
	if !ok || len(r.Phones()) != n {
		t.Fatalf("expected %d phones for Many, got %v", n, ok)
	}
}

func TestLoadMissingFileReturnsEmptyBook(t *testing.T) {
	book, err := Load(filepath.Join(t.TempDir(), "absent.cbor"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if book == nil || book.Len() != 0 {
		t.Fatalf("expected empty book, got %v", book)
	}
}

func TestLoadDirectoryFails(t *testing.T) {
	_, err := Load(t.TempDir())
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}

func TestSaveUnwritableLocationFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "book.cbor")
	err := Save(addressbook.New(), path)
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}

func TestLoadCorruptBlobFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.cbor")
	if err := os.WriteFile(path, []byte("not cbor at all"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	first, err := Encode(sampleBook(t))
	if err != nil {
		t.Fatal(err)
	}
	second, err := Encode(sampleBook(t))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("expected identical blobs for identical books")
	}
}

func TestDecodeRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name    string
		doc     any
		wantErr error
	}{
		{
			name:    "wrong version",
			doc:     bookDoc{Version: 99},
			wantErr: ErrUnsupportedVersion,
		},
		{
			name: "duplicate contact",
			doc: bookDoc{Version: formatVersion, Records: []recordDoc{
				{Name: "Alice"}, {Name: "Alice"},
			}},
			wantErr: ErrDuplicateContact,
		},
		{
			name: "invalid phone",
			doc: bookDoc{Version: formatVersion, Records: []recordDoc{
				{Name: "Alice", Phones: []string{"123"}},
			}},
			wantErr: addressbook.ErrInvalidPhone,
		},
		{
			name: "invalid birthday",
			doc: bookDoc{Version: formatVersion, Records: []recordDoc{
				{Name: "Alice", Birthday: "1990-06-15"},
			}},
			wantErr: addressbook.ErrInvalidBirthday,
		},
		{
			name: "empty name",
			doc: bookDoc{Version: formatVersion, Records: []recordDoc{
				{Name: ""},
			}},
			wantErr: addressbook.ErrInvalidName,
		},
		{
			name: "unknown field",
			doc: map[string]any{
				"version": formatVersion,
				"records": []any{},
				"extra":   true,
			},
			wantErr: ErrPersistence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := cbor.Marshal(tt.doc)
			if err != nil {
				t.Fatalf("cbor marshal: %v", err)
			}
			_, err = Decode(data)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, ErrPersistence) {
				t.Fatalf("expected error to match ErrPersistence, got %v", err)
			}
		})
	}
}

func TestFileStoreDefaultPath(t *testing.T) {
	if got := NewFileStore("").Path; got != DefaultPath {
		t.Fatalf("expected %s, got %s", DefaultPath, got)
	}
	if got := NewFileStore("custom.cbor").Path; got != "custom.cbor" {
		t.Fatalf("expected custom.cbor, got %s", got)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "book.cbor"))
	book := sampleBook(t)

	if err := store.Save(book); err != nil {
		t.Fatal(err)
	}
	loaded, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	assertSameBook(t, book, loaded)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	empty, err := store.Load()
	if err != nil || empty.Len() != 0 {
		t.Fatalf("expected empty book, got %v, %v", empty, err)
	}

	book := sampleBook(t)
	if err := store.Save(book); err != nil {
		t.Fatal(err)
	}
	if store.Saves() != 1 {
		t.Fatalf("expected 1 save, got %d", store.Saves())
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	assertSameBook(t, book, loaded)

	loaded.Delete("Alice")
	again, _ := store.Load()
	if again.Len() != 2 {
		t.Fatal("loaded books must be independent copies")
	}

	store.SaveErr = errors.New("boom")
	if err := store.Save(book); err == nil || err.Error() != "boom" {
		t.Fatalf("expected injected error, got %v", err)
	}
	if store.Saves() != 1 {
		t.Fatalf("failed save must not count, got %d", store.Saves())
	}
}
