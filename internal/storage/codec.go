package storage

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/janisto/addressbook-assistant/internal/addressbook"
)

// formatVersion is written into every blob; blobs with another version are rejected.
const formatVersion = 1

// maxCollectionLen is the largest array or map the decoder accepts. Encode
// has no limit, so the decoder takes the largest value cbor allows.
const maxCollectionLen = 2147483647

var (
	ErrPersistence        = errors.New("persistence failed")
	ErrUnsupportedVersion = fmt.Errorf("%w: unsupported format version", ErrPersistence)
	ErrDuplicateContact   = fmt.Errorf("%w: duplicate contact", ErrPersistence)
)

// bookDoc is the serialized form of a whole address book.
type bookDoc struct {
	Version int         `cbor:"version"`
	Records []recordDoc `cbor:"records"`
}

// recordDoc is the serialized form of one record.
type recordDoc struct {
	Name     string   `cbor:"name"`
	Phones   []string `cbor:"phones"`
	Birthday string   `cbor:"birthday,omitempty"`
}

var (
	encMode = mustEncMode()
	decMode = mustDecMode()
)

func mustEncMode() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}

func mustDecMode() cbor.DecMode {
	dm, err := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
		MaxArrayElements:  maxCollectionLen,
		MaxMapPairs:       maxCollectionLen,
	}.DecMode()
	if err != nil {
		panic(err)
	}
	return dm
}

// Encode serializes book into a deterministic CBOR blob.
func Encode(book *addressbook.Book) ([]byte, error) {
	records := book.Records()
	doc := bookDoc{
		Version: formatVersion,
		Records: make([]recordDoc, 0, len(records)),
	}
	for _, r := range records {
		rd := recordDoc{
			Name:   r.Name().String(),
			Phones: make([]string, 0, len(r.Phones())),
		}
		for _, p := range r.Phones() {
			rd.Phones = append(rd.Phones, p.String())
		}
		if b, ok := r.Birthday(); ok {
			rd.Birthday = b.String()
		}
		doc.Records = append(doc.Records, rd)
	}

	data, err := encMode.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: encode: %w", ErrPersistence, err)
	}
	return data, nil
}

// Decode rebuilds a book from a blob produced by Encode.
// Every stored value goes through the same validation as user input.
func Decode(data []byte) (*addressbook.Book, error) {
	var doc bookDoc
	if err := decMode.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrPersistence, err)
	}
	if doc.Version != formatVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrUnsupportedVersion, doc.Version, formatVersion)
	}

	book := addressbook.New()
	for _, rd := range doc.Records {
		if _, exists := book.Find(rd.Name); exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateContact, rd.Name)
		}
		r, err := decodeRecord(rd)
		if err != nil {
			return nil, fmt.Errorf("%w: contact %q: %w", ErrPersistence, rd.Name, err)
		}
		book.AddRecord(r)
	}
	return book, nil
}

func decodeRecord(rd recordDoc) (*addressbook.Record, error) {
	r, err := addressbook.NewRecord(rd.Name)
	if err != nil {
		return nil, err
	}
	for _, p := range rd.Phones {
		if err := r.AddPhone(p); err != nil {
			return nil, err
		}
	}
	if rd.Birthday != "" {
		if err := r.AddBirthday(rd.Birthday); err != nil {
			return nil, err
		}
	}
	return r, nil
}
