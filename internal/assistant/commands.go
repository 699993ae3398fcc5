package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/janisto/addressbook-assistant/internal/addressbook"
)

// handlerFunc runs one command against the book and returns the reply.
type handlerFunc func(ctx context.Context, book *addressbook.Book, args []string) (string, error)

// command describes one keyword of the assistant.
type command struct {
	args    int
	handler handlerFunc
	// resource is the audited resource type; empty for read-only commands.
	resource string
}

// Command keywords
const (
	cmdHello        = "hello"
	cmdAdd          = "add"
	cmdChange       = "change"
	cmdPhone        = "phone"
	cmdAll          = "all"
	cmdDelete       = "delete"
	cmdRemovePhone  = "remove-phone"
	cmdAddBirthday  = "add-birthday"
	cmdShowBirthday = "show-birthday"
	cmdBirthdays    = "birthdays"
	cmdClose        = "close"
	cmdExit         = "exit"
)

func (s *Session) commands() map[string]command {
	return map[string]command{
		cmdHello:        {args: 0, handler: hello},
		cmdAdd:          {args: 2, handler: addContact, resource: "contact"},
		cmdChange:       {args: 3, handler: changeContact, resource: "phone"},
		cmdPhone:        {args: 1, handler: showPhone},
		cmdAll:          {args: 0, handler: showAll},
		cmdDelete:       {args: 1, handler: deleteContact, resource: "contact"},
		cmdRemovePhone:  {args: 2, handler: removePhone, resource: "phone"},
		cmdAddBirthday:  {args: 2, handler: addBirthday, resource: "birthday"},
		cmdShowBirthday: {args: 1, handler: showBirthday},
		cmdBirthdays:    {args: 0, handler: s.birthdays},
	}
}

// parseInput splits a line into a lower-cased keyword and its arguments.
func parseInput(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}

func hello(context.Context, *addressbook.Book, []string) (string, error) {
	return "How can I help you?", nil
}

// addContact adds a phone to an existing contact or creates the contact.
// A new contact is stored only once its first phone is valid.
func addContact(_ context.Context, book *addressbook.Book, args []string) (string, error) {
	name, phone := args[0], args[1]
	if r, ok := book.Find(name); ok {
		if err := r.AddPhone(phone); err != nil {
			return "", err
		}
		return "Contact added.", nil
	}

	r, err := addressbook.NewRecord(name)
	if err != nil {
		return "", err
	}
	if err := r.AddPhone(phone); err != nil {
		return "", err
	}
	book.AddRecord(r)
	return "Contact added.", nil
}

func changeContact(_ context.Context, book *addressbook.Book, args []string) (string, error) {
	r, err := findRecord(book, args[0])
	if err != nil {
		return "", err
	}
	if err := r.EditPhone(args[1], args[2]); err != nil {
		return "", err
	}
	return "Contact updated.", nil
}

func showPhone(_ context.Context, book *addressbook.Book, args []string) (string, error) {
	r, err := findRecord(book, args[0])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s: %s", args[0], addressbook.JoinPhones(r.Phones())), nil
}

func showAll(_ context.Context, book *addressbook.Book, _ []string) (string, error) {
	return FormatBook(book), nil
}

// FormatBook renders every contact, one per line.
func FormatBook(book *addressbook.Book) string {
	if book.Len() == 0 {
		return "There are no contacts yet."
	}
	return book.String()
}

func deleteContact(_ context.Context, book *addressbook.Book, args []string) (string, error) {
	book.Delete(args[0])
	return "Contact deleted.", nil
}

func removePhone(_ context.Context, book *addressbook.Book, args []string) (string, error) {
	r, err := findRecord(book, args[0])
	if err != nil {
		return "", err
	}
	if err := r.RemovePhone(args[1]); err != nil {
		return "", err
	}
	return "Phone removed.", nil
}

func addBirthday(_ context.Context, book *addressbook.Book, args []string) (string, error) {
	r, err := findRecord(book, args[0])
	if err != nil {
		return "", err
	}
	if err := r.AddBirthday(args[1]); err != nil {
		return "", err
	}
	return "Birthday added.", nil
}

func showBirthday(_ context.Context, book *addressbook.Book, args []string) (string, error) {
	r, err := findRecord(book, args[0])
	if err != nil {
		return "", err
	}
	b, ok := r.Birthday()
	if !ok {
		return "Birthday not set for this contact.", nil
	}
	return fmt.Sprintf("%s's birthday is %s", args[0], b), nil
}

func (s *Session) birthdays(_ context.Context, book *addressbook.Book, _ []string) (string, error) {
	return FormatUpcoming(book.UpcomingBirthdays(s.now())), nil
}

// FormatUpcoming renders one "<name> - <DD.MM.YYYY>" line per contact.
func FormatUpcoming(upcoming []addressbook.Upcoming) string {
	if len(upcoming) == 0 {
		return "No birthdays in the next 7 days."
	}
	lines := make([]string, 0, len(upcoming))
	for _, u := range upcoming {
		lines = append(lines, u.Name+" - "+u.CongratsDate)
	}
	return strings.Join(lines, "\n")
}

func findRecord(book *addressbook.Book, name string) (*addressbook.Record, error) {
	r, ok := book.Find(name)
	if !ok {
		return nil, ErrContactNotFound
	}
	return r, nil
}
