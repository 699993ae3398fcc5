package addressbook

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
)

// Validation errors
var (
	ErrInvalidName     = fmt.Errorf("%w: name must not be empty", ErrValidation)
	ErrInvalidPhone    = fmt.Errorf("%w: phone must be exactly 10 digits", ErrValidation)
	ErrInvalidBirthday = fmt.Errorf("%w: invalid date format, use DD.MM.YYYY", ErrValidation)
)

// Not found errors
var (
	ErrOldPhoneNotFound = fmt.Errorf("%w: old phone not found", ErrNotFound)
	ErrPhoneNotFound    = fmt.Errorf("%w: phone not found", ErrNotFound)
)
