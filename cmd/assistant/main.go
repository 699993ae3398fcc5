package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync/atomic"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/janisto/addressbook-assistant/internal/assistant"
	applog "github.com/janisto/addressbook-assistant/internal/platform/logging"
	"github.com/janisto/addressbook-assistant/internal/storage"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

// Options for the CLI. Pass flags or set SERVICE_* env vars, e.g. SERVICE_FILE.
type Options struct {
	File     string `doc:"Address book file; empty uses storage.DefaultPath" short:"f"`
	LogLevel string `doc:"Minimum log level: debug, info, warn or error" default:"warn"`
}

func main() {
	// A .env file is optional; its values become SERVICE_* defaults.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		applog.LogWarn(context.Background(), "could not load .env", zap.Error(err))
	}
	if err := applog.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "logger init error:", err)
	}

	var current atomic.Pointer[assistant.Session]

	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		ctx := context.Background()

		hooks.OnStart(func() {
			configureLogging(ctx, opts)
			err := runInteractive(ctx, opts, os.Stdin, os.Stdout, func(s *assistant.Session) {
				current.Store(s)
			})
			exit(ctx, err)
		})

		hooks.OnStop(func() {
			applog.LogInfo(ctx, "shutdown signal received")
			if s := current.Load(); s != nil {
				if err := s.Close(ctx); err != nil {
					exit(ctx, err)
				}
			}
			_ = applog.Sync()
		})
	})

	root := cli.Root()
	root.Use = "assistant"
	root.Short = "Personal address book assistant"
	root.Version = Version

	root.AddCommand(&cobra.Command{
		Use:   "birthdays",
		Short: "Print contacts with a birthday in the next 7 days",
		Args:  cobra.NoArgs,
		Run: humacli.WithOptions(func(cmd *cobra.Command, _ []string, opts *Options) {
			ctx := cmd.Context()
			configureLogging(ctx, opts)
			exit(ctx, printBirthdays(opts, cmd.OutOrStdout(), time.Now()))
		}),
	})

	root.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "Print every contact",
		Args:  cobra.NoArgs,
		Run: humacli.WithOptions(func(cmd *cobra.Command, _ []string, opts *Options) {
			ctx := cmd.Context()
			configureLogging(ctx, opts)
			exit(ctx, printAll(opts, cmd.OutOrStdout()))
		}),
	})

	cli.Run()
}

// configureLogging applies the requested log level, keeping the current one when it is not recognised.
func configureLogging(ctx context.Context, opts *Options) {
	if err := applog.SetLevel(opts.LogLevel); err != nil {
		applog.LogWarn(ctx, "could not parse log level", zap.String("level", opts.LogLevel), zap.Error(err))
	}
}

// runInteractive loads the book, runs the command loop on in/out and saves on exit.
// started receives the session as soon as it exists so a stop hook can save it.
func runInteractive(
	ctx context.Context,
	opts *Options,
	in io.Reader,
	out io.Writer,
	started func(*assistant.Session),
) error {
	store := storage.NewFileStore(opts.File)
	ctx = applog.WithFields(ctx, zap.String("file", store.Path))

	session, err := assistant.Open(ctx, store)
	if err != nil {
		return err
	}
	if started != nil {
		started(session)
	}
	return session.Run(ctx, in, out)
}

func printBirthdays(opts *Options, out io.Writer, today time.Time) error {
	book, err := storage.NewFileStore(opts.File).Load()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, assistant.FormatUpcoming(book.UpcomingBirthdays(today)))
	return err
}

func printAll(opts *Options, out io.Writer) error {
	book, err := storage.NewFileStore(opts.File).Load()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, assistant.FormatBook(book))
	return err
}

// exit terminates the process with status 1 when err is set.
func exit(ctx context.Context, err error) {
	if err == nil {
		return
	}
	applog.LogError(ctx, "assistant failed", err)
	_ = applog.Sync()
	os.Exit(1)
}
