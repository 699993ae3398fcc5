package assistant

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/janisto/addressbook-assistant/internal/addressbook"
	applog "github.com/janisto/addressbook-assistant/internal/platform/logging"
	"github.com/janisto/addressbook-assistant/internal/storage"
)

const (
	welcomeMessage = "Welcome to the assistant bot!"
	promptMessage  = "Enter a command: "
	goodbyeMessage = "Good bye!"
	invalidCommand = "Invalid command."

	// maxLineBytes bounds one input line.
	maxLineBytes = 1 << 20
)

// Session drives one address book through user commands.
// Commands and the final save are serialized, so a stop signal handled on
// another goroutine cannot interleave with a running command.
type Session struct {
	mu       sync.Mutex
	book     *addressbook.Book
	store    storage.Store
	now      func() time.Time
	registry map[string]command
	closed   bool
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the source of "today" used by the birthdays command.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// NewSession creates a session over book that persists to store on exit.
func NewSession(book *addressbook.Book, store storage.Store, opts ...Option) *Session {
	s := &Session{
		book:  book,
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registry = s.commands()
	return s
}

// Open loads the book from store and returns a session over it.
func Open(ctx context.Context, store storage.Store, opts ...Option) (*Session, error) {
	book, err := store.Load()
	if err != nil {
		applog.LogError(ctx, "address book load failed", err)
		return nil, err
	}
	applog.LogInfo(ctx, "address book loaded", zap.Int("contacts", book.Len()))
	return NewSession(book, store, opts...), nil
}

// Book returns the session's address book.
func (s *Session) Book() *addressbook.Book {
	return s.book
}

// Handle executes one input line. It returns the reply to print and whether
// the user asked to leave. Leaving does not save; call Close for that.
func (s *Session) Handle(ctx context.Context, line string) (string, bool) {
	name, args := parseInput(line)
	switch name {
	case "":
		return "", false
	case cmdClose, cmdExit:
		return "", true
	}

	cmd, ok := s.registry[name]
	if !ok {
		applog.SugarFromContext(ctx).Debugw("unknown command", "command", name)
		return invalidCommand, false
	}
	if len(args) != cmd.args {
		applog.SugarFromContext(ctx).Debugf("%s: got %d arguments, want %d", name, len(args), cmd.args)
		return messageFor(ErrInvalidArguments), false
	}

	s.mu.Lock()
	reply, err := cmd.handler(ctx, s.book, args)
	s.mu.Unlock()

	if cmd.resource != "" {
		s.audit(ctx, name, cmd.resource, args[0], err)
	}
	if err != nil {
		applog.LogDebug(ctx, "command failed", zap.String("command", name), zap.Error(err))
		return messageFor(err), false
	}
	return reply, false
}

func (s *Session) audit(ctx context.Context, action, resource, contact string, err error) {
	if err != nil {
		applog.LogAuditEvent(ctx, action, resource, contact, "failure",
			map[string]any{"error": categorizeError(err)})
		return
	}
	applog.LogAuditEvent(ctx, action, resource, contact, "success", nil)
}

// Close saves the book once. Later calls are no-ops.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	if err := s.store.Save(s.book); err != nil {
		applog.LogError(ctx, "address book save failed", err)
		return err
	}
	s.closed = true
	applog.LogInfo(ctx, "address book saved", zap.Int("contacts", s.book.Len()))
	return nil
}

// Run reads commands from in until "close", "exit", end of input or a read
// error, writing replies to out, then saves the book.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	if _, err := fmt.Fprintln(out, welcomeMessage); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineBytes)

	var readErr error
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := fmt.Fprint(out, promptMessage); err != nil {
			return err
		}
		if !scanner.Scan() {
			// End of input counts as leaving. A read error still saves the book.
			if readErr = scanner.Err(); readErr != nil {
				applog.LogError(ctx, "reading input failed", readErr)
			}
			_, _ = fmt.Fprintln(out)
			break
		}

		reply, done := s.Handle(ctx, scanner.Text())
		if done {
			break
		}
		if reply != "" {
			if _, err := fmt.Fprintln(out, reply); err != nil {
				return err
			}
		}
	}

	if err := s.Close(ctx); err != nil {
		_, _ = fmt.Fprintln(out, messageFor(err))
		return errors.Join(readErr, err)
	}
	if readErr != nil {
		return readErr
	}
	_, err := fmt.Fprintln(out, goodbyeMessage)
	return err
}
