package assistant

import (
	"errors"

	"github.com/janisto/addressbook-assistant/internal/addressbook"
	"github.com/janisto/addressbook-assistant/internal/storage"
)

// Dispatcher errors
var (
	ErrInvalidArguments = errors.New("invalid command arguments")
	ErrContactNotFound  = errors.New("contact not found")
)

// messageFor converts an error into the text shown to the user.
func messageFor(err error) string {
	switch {
	case errors.Is(err, ErrInvalidArguments):
		return "Please enter a valid command."
	case errors.Is(err, ErrContactNotFound):
		return "This contact was not found."
	case errors.Is(err, addressbook.ErrInvalidName):
		return "Name must not be empty"
	case errors.Is(err, addressbook.ErrInvalidPhone):
		return "Phone number must be exactly 10 digits"
	case errors.Is(err, addressbook.ErrInvalidBirthday):
		return "Invalid date format. Use DD.MM.YYYY"
	case errors.Is(err, addressbook.ErrOldPhoneNotFound):
		return "Old phone not found"
	case errors.Is(err, addressbook.ErrPhoneNotFound):
		return "Phone not found"
	case errors.Is(err, storage.ErrPersistence):
		return "Could not save the address book."
	default:
		return "Something went wrong."
	}
}

// categorizeError converts errors to audit-safe categories.
func categorizeError(err error) string {
	switch {
	case errors.Is(err, ErrInvalidArguments):
		return "invalid_arguments"
	case errors.Is(err, ErrContactNotFound), errors.Is(err, addressbook.ErrNotFound):
		return "not_found"
	case errors.Is(err, addressbook.ErrValidation):
		return "validation"
	default:
		return "internal_error"
	}
}
