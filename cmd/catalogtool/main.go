// Command catalogtool inspects and converts message catalogs and resolves
// messages against them.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/snapcore/go-l10n"
	"github.com/snapcore/go-l10n/internal/config"
)

type options struct {
	Config string `long:"config" value-name:"FILE" description:"read settings from the YAML file FILE"`

	Catalogs string `long:"catalogs" value-name:"DIR" description:"load catalogs from DIR"`

	LogLevel string `long:"log-level" choice:"debug" choice:"info" choice:"warn" choice:"error" description:"minimum level of logged events"`

	LogFormat string `long:"log-format" choice:"console" choice:"json" description:"log output format"`

	Strict bool `long:"strict" description:"log every missing translation once"`
}

// app is the state shared by the commands.
type app struct {
	ctx    context.Context
	opts   options
	stdout io.Writer
	stderr io.Writer

	cfg    config.Config
	logger zerolog.Logger
}

// errInvalidCatalogs makes the process exit with status 1 after the
// problems have been reported.
var errInvalidCatalogs = errors.New("invalid catalogs")

func newParser(a *app) *flags.Parser {
	parser := flags.NewParser(&a.opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.ShortDescription = "Message catalog tool"
	parser.AddCommand("check", "Validate catalog files",
		"The check command loads each file and reports untranslated messages and plural form problems.",
		&cmdCheck{app: a})
	parser.AddCommand("lookup", "Resolve a message",
		"The lookup command resolves MSGID against the configured catalogs and substitutes ARGs.",
		&cmdLookup{app: a})
	parser.AddCommand("locales", "List the available locales",
		"The locales command lists the locales of the configured catalog directory.",
		&cmdLocales{app: a})
	parser.AddCommand("convert", "Convert a catalog to JSON",
		"The convert command writes any supported catalog file in the JSON registration format.",
		&cmdConvert{app: a})
	return parser
}

// setup resolves the configuration and installs the logger. It runs at
// the start of every command, once flags are parsed.
func (a *app) setup() error {
	cfg, err := config.Load(a.opts.Config)
	if err != nil {
		return err
	}
	if a.opts.Catalogs != "" {
		cfg.Catalogs = a.opts.Catalogs
	}
	if a.opts.LogLevel != "" {
		cfg.Log.Level = a.opts.LogLevel
	}
	if a.opts.LogFormat != "" {
		cfg.Log.Format = a.opts.LogFormat
	}
	if a.opts.Strict {
		cfg.StrictMissing = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	w := a.stderr
	if cfg.Log.Format == "console" {
		w = consoleWriter(a.stderr)
	}
	a.logger = zerolog.New(w).Level(level).With().Timestamp().Str("sys", "l10n").Logger()
	l10n.Logger = a.logger
	return nil
}

func (a *app) newStore() l10n.Store {
	return l10n.NewStore(l10n.WithLogger(a.logger), l10n.WithStrictMissing(a.cfg.StrictMissing))
}

// consoleWriter returns a human readable zerolog writer, coloured when w
// is a terminal.
func consoleWriter(w io.Writer) io.Writer {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}
	return zerolog.ConsoleWriter{Out: w, NoColor: noColor, TimeFormat: time.DateTime}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{ctx: ctx, stdout: stdout, stderr: stderr}
	_, err := newParser(a).ParseArgs(args)
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	if err == nil {
		return
	}
	var flagsErr *flags.Error
	if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
		fmt.Fprintln(os.Stdout, err)
		return
	}
	if err != errInvalidCatalogs {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	stop()
	os.Exit(1)
}
