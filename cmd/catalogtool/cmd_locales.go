package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/snapcore/go-l10n/catalogfile"
)

type cmdLocales struct {
	app *app
}

func (x *cmdLocales) Execute(args []string) error {
	if err := x.app.setup(); err != nil {
		return err
	}
	store := x.app.newStore()
	locales, err := catalogfile.LoadDir(x.app.ctx, store, x.app.cfg.Catalogs)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(x.app.stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "Locale\tLanguage\tDirection\tPlural\tMessages")
	for _, locale := range locales {
		c := store.Get(locale)
		plural := "-"
		if rule, ok := c.PluralRule(); ok {
			plural = rule.String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", locale, c.Language(), c.Direction(), plural, c.Len())
	}
	return w.Flush()
}
