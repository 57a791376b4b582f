package main

import (
	"errors"
	"fmt"

	"github.com/snapcore/go-l10n"
	"github.com/snapcore/go-l10n/catalogfile"
	"github.com/snapcore/go-l10n/pluralforms"
)

type cmdCheck struct {
	app *app

	Positional struct {
		Files []string `positional-arg-name:"FILE"`
	} `positional-args:"yes"`
}

func (x *cmdCheck) Execute(args []string) error {
	if err := x.app.setup(); err != nil {
		return err
	}
	if len(x.Positional.Files) == 0 {
		return errors.New("no catalog files given")
	}

	failed := false
	for _, file := range x.Positional.Files {
		if err := x.checkFile(file); err != nil {
			fmt.Fprintf(x.app.stdout, "%s: %v\n", file, err)
			failed = true
		}
	}
	if failed {
		return errInvalidCatalogs
	}
	return nil
}

func (x *cmdCheck) checkFile(file string) error {
	data, err := catalogfile.ReadFile(file)
	if err != nil {
		return err
	}
	locale := catalogfile.LocaleFromName(file)
	store := x.app.newStore()
	if err := store.Register(locale, data); err != nil {
		return err
	}
	for _, line := range report(store.Get(locale)) {
		fmt.Fprintf(x.app.stdout, "%s: %s\n", file, line)
	}
	return nil
}

// report describes the consistency problems of a catalog, starting with
// a summary line.
func report(c *l10n.Catalog) []string {
	entries := c.Entries()
	untranslated := 0
	for _, e := range entries {
		for _, v := range e.Variants {
			if v == "" {
				untranslated++
				break
			}
		}
	}
	lines := []string{fmt.Sprintf("%d messages, %d untranslated", len(entries), untranslated)}

	rule, hasRule := c.PluralRule()
	if !hasRule {
		lines = append(lines, "no plural rule, using "+rule.String())
	} else {
		lines = append(lines, fmt.Sprintf("plural rule %s (%d forms)", rule, rule.Forms()))
	}
	if expected, ok := pluralforms.ForLanguage(c.Language()); ok && hasRule && expected != rule {
		lines = append(lines, fmt.Sprintf("plural rule %s differs from %s used for %s", rule, expected, c.Language()))
	}

	for _, e := range entries {
		if e.PluralID == "" {
			continue
		}
		if len(e.Variants) != rule.Forms() {
			lines = append(lines, fmt.Sprintf("message %q has %d variants, plural rule has %d forms",
				l10n.Key(e.Context, e.ID), len(e.Variants), rule.Forms()))
		}
	}
	return lines
}
