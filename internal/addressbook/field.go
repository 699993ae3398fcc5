package addressbook

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/janisto/addressbook-assistant/internal/platform/timeutil"
)

// fieldValidate checks raw field input. Safe for concurrent use.
var fieldValidate = validator.New()

const (
	nameRule  = "required"
	phoneRule = "len=10,number"
)

// Field is the capability shared by every contact value: a printable string form.
type Field interface {
	String() string
}

// Name identifies a contact and is its key in a Book.
type Name struct {
	value string
}

// NewName accepts any non-empty text.
func NewName(raw string) (Name, error) {
	if err := fieldValidate.Var(raw, nameRule); err != nil {
		return Name{}, ErrInvalidName
	}
	return Name{value: raw}, nil
}

func (n Name) String() string { return n.value }

// Phone is a validated 10-digit phone number.
type Phone struct {
	value string
}

// NewPhone succeeds iff raw is exactly 10 ASCII decimal digits.
func NewPhone(raw string) (Phone, error) {
	if err := fieldValidate.Var(raw, phoneRule); err != nil {
		return Phone{}, ErrInvalidPhone
	}
	return Phone{value: raw}, nil
}

func (p Phone) String() string { return p.value }

// Birthday is a calendar date entered as DD.MM.YYYY.
type Birthday struct {
	date time.Time
}

// NewBirthday parses raw strictly as DD.MM.YYYY.
func NewBirthday(raw string) (Birthday, error) {
	date, err := timeutil.ParseDate(raw)
	if err != nil {
		return Birthday{}, ErrInvalidBirthday
	}
	return Birthday{date: date}, nil
}

// Date returns the birthday at midnight UTC.
func (b Birthday) Date() time.Time { return b.date }

func (b Birthday) String() string { return timeutil.FormatDate(b.date) }

// Compile-time interface checks
var (
	_ Field = Name{}
	_ Field = Phone{}
	_ Field = Birthday{}
)
