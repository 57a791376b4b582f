package main

import (
	"os"

	"github.com/snapcore/go-l10n/catalogfile"
)

type cmdConvert struct {
	app *app

	Output string `short:"o" long:"output" value-name:"FILE" default:"-" description:"write the JSON catalog to FILE"`

	Positional struct {
		File string `positional-arg-name:"FILE" required:"yes"`
	} `positional-args:"yes"`
}

func (x *cmdConvert) Execute(args []string) error {
	if err := x.app.setup(); err != nil {
		return err
	}
	data, err := catalogfile.ReadFile(x.Positional.File)
	if err != nil {
		return err
	}
	// Refuse to write catalogs the runtime would reject.
	if err := x.app.newStore().Register(catalogfile.LocaleFromName(x.Positional.File), data); err != nil {
		return err
	}

	if x.Output == "-" {
		return catalogfile.Encode(x.app.stdout, data)
	}
	f, err := os.Create(x.Output)
	if err != nil {
		return err
	}
	if err := catalogfile.Encode(f, data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
