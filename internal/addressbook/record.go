package addressbook

import (
	"slices"
	"strings"
)

// Record is one contact: a name, phones in insertion order and an optional birthday.
type Record struct {
	name     Name
	phones   []Phone
	birthday *Birthday
}

// NewRecord creates a record with no phones and no birthday.
func NewRecord(name string) (*Record, error) {
	n, err := NewName(name)
	if err != nil {
		return nil, err
	}
	return &Record{name: n}, nil
}

// Name returns the contact name.
func (r *Record) Name() Name { return r.name }

// Phones returns a copy of the phone list.
func (r *Record) Phones() []Phone { return slices.Clone(r.phones) }

// Birthday returns the birthday and whether one is set.
func (r *Record) Birthday() (Birthday, bool) {
	if r.birthday == nil {
		return Birthday{}, false
	}
	return *r.birthday, true
}

// AddPhone appends a phone. Duplicates are allowed.
func (r *Record) AddPhone(raw string) error {
	p, err := NewPhone(raw)
	if err != nil {
		return err
	}
	r.phones = append(r.phones, p)
	return nil
}

// EditPhone replaces the first phone equal to old with newPhone, keeping its position.
// The record is left untouched when old is missing or newPhone is invalid.
func (r *Record) EditPhone(old, newPhone string) error {
	i := r.indexOf(old)
	if i < 0 {
		return ErrOldPhoneNotFound
	}
	p, err := NewPhone(newPhone)
	if err != nil {
		return err
	}
	r.phones[i] = p
	return nil
}

// RemovePhone removes the first phone equal to value.
func (r *Record) RemovePhone(value string) error {
	i := r.indexOf(value)
	if i < 0 {
		return ErrPhoneNotFound
	}
	r.phones = slices.Delete(r.phones, i, i+1)
	return nil
}

// FindPhone returns the first phone equal to value.
func (r *Record) FindPhone(value string) (Phone, bool) {
	i := r.indexOf(value)
	if i < 0 {
		return Phone{}, false
	}
	return r.phones[i], true
}

// AddBirthday sets the birthday, replacing any previous one.
func (r *Record) AddBirthday(raw string) error {
	b, err := NewBirthday(raw)
	if err != nil {
		return err
	}
	r.birthday = &b
	return nil
}

// String renders "<name>: <phone1>; <phone2>[, Birthday: DD.MM.YYYY]".
func (r *Record) String() string {
	var sb strings.Builder
	sb.WriteString(r.name.String())
	sb.WriteString(": ")
	sb.WriteString(JoinPhones(r.phones))
	if r.birthday != nil {
		sb.WriteString(", Birthday: ")
		sb.WriteString(r.birthday.String())
	}
	return sb.String()
}

func (r *Record) indexOf(value string) int {
	return slices.IndexFunc(r.phones, func(p Phone) bool { return p.value == value })
}

// JoinPhones renders phones separated by "; ".
func JoinPhones(phones []Phone) string {
	parts := make([]string, len(phones))
	for i, p := range phones {
		parts[i] = p.String()
	}
	return strings.Join(parts, "; ")
}

var _ Field = (*Record)(nil)
