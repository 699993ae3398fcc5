package addressbook

import (
	"maps"
	"slices"
	"strings"
)

// Book is the address book: records keyed by contact name.
// The key of every entry is the name of the record stored under it.
type Book struct {
	records map[string]*Record
}

// New returns an empty book.
func New() *Book {
	return &Book{records: make(map[string]*Record)}
}

// AddRecord stores r under its name, replacing any record with the same name.
func (b *Book) AddRecord(r *Record) {
	b.records[r.name.String()] = r
}

// Find looks a record up by exact name.
func (b *Book) Find(name string) (*Record, bool) {
	r, ok := b.records[name]
	return r, ok
}

// Delete removes the record with the given name. Missing names are ignored.
func (b *Book) Delete(name string) {
	delete(b.records, name)
}

// Len returns the number of records.
func (b *Book) Len() int {
	return len(b.records)
}

// Records returns every record ordered by name.
func (b *Book) Records() []*Record {
	names := slices.Sorted(maps.Keys(b.records))
	out := make([]*Record, 0, len(names))
	for _, name := range names {
		out = append(out, b.records[name])
	}
	return out
}

// String renders one record per line in name order.
func (b *Book) String() string {
	lines := make([]string, 0, len(b.records))
	for _, r := range b.Records() {
		lines = append(lines, r.String())
	}
	return strings.Join(lines, "\n")
}
