package main

import (
	"fmt"
	"strconv"

	"github.com/snapcore/go-l10n"
	"github.com/snapcore/go-l10n/catalogfile"
)

type cmdLookup struct {
	app *app

	Locale  string `short:"l" long:"locale" required:"yes" value-name:"LOCALE" description:"preferred locale, a code or an Accept-Language value"`
	Context string `short:"c" long:"context" value-name:"CONTEXT" description:"message context"`
	Count   string `short:"n" long:"count" value-name:"N" description:"select the plural form for N"`
	Plural  string `short:"p" long:"plural" value-name:"MSGID" description:"plural message id used when no translation exists"`

	Positional struct {
		MsgID string   `positional-arg-name:"MSGID" required:"yes"`
		Args  []string `positional-arg-name:"ARG"`
	} `positional-args:"yes"`
}

func (x *cmdLookup) Execute(args []string) error {
	if err := x.app.setup(); err != nil {
		return err
	}
	store := x.app.newStore()
	available, err := catalogfile.LoadDir(x.app.ctx, store, x.app.cfg.Catalogs)
	if err != nil {
		return err
	}

	chain := append(l10n.MatchLocales(available, x.Locale), x.app.cfg.Fallback...)
	l := store.Locale(chain...)

	var msg string
	if x.Count != "" {
		n, err := strconv.Atoi(x.Count)
		if err != nil {
			return fmt.Errorf("invalid count %q", x.Count)
		}
		msg = l.PNGettext(x.Context, x.Positional.MsgID, x.Plural, n)
	} else {
		msg = l.PGettext(x.Context, x.Positional.MsgID)
	}

	formatArgs := make([]interface{}, len(x.Positional.Args))
	for i, arg := range x.Positional.Args {
		if n, err := strconv.Atoi(arg); err == nil {
			formatArgs[i] = n
		} else {
			formatArgs[i] = arg
		}
	}
	fmt.Fprintln(x.app.stdout, l10n.Format(msg, formatArgs...))
	return nil
}
