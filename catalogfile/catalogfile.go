// Package catalogfile reads catalogs from files and registers them with
// an l10n.Store.
//
// Supported formats, chosen by file extension:
//
//	.json       the registration shape: {"": {header}, "msgid": [null, "variant", ...]}
//	.yaml .yml  the same shape in YAML
//	.po         gettext PO catalogs
//	.mo         compiled gettext catalogs
//
// Any of them may be gzip compressed with a trailing .gz.
package catalogfile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/sync/errgroup"

	"github.com/snapcore/go-l10n"
)

// Registerer is implemented by l10n.Store.
type Registerer interface {
	Register(locale string, data l10n.Data) error
}

var decoders = map[string]func([]byte) (l10n.Data, error){
	".json": decodeJSON,
	".yaml": decodeYAML,
	".yml":  decodeYAML,
	".po":   decodePO,
	".mo":   decodeMO,
}

// Supported reports whether name has an extension Decode understands.
func Supported(name string) bool {
	ext := path.Ext(strings.TrimSuffix(name, ".gz"))
	_, ok := decoders[ext]
	return ok
}

// LocaleFromName returns the locale code a catalog file is registered
// under: its base name without extensions. "po/zh_CN.po.gz" gives "zh_CN".
func LocaleFromName(name string) string {
	base := filepath.Base(filepath.ToSlash(name))
	base = path.Base(base)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	return base
}

// Decode parses the catalog data b read from the file called name.
func Decode(name string, b []byte) (l10n.Data, error) {
	if strings.HasSuffix(name, ".gz") {
		r, err := gzip.NewReader(bytes.NewReader(b))
		if err != nil {
			return l10n.Data{}, fmt.Errorf("cannot decompress %s: %w", name, err)
		}
		defer r.Close()
		b, err = io.ReadAll(r)
		if err != nil {
			return l10n.Data{}, fmt.Errorf("cannot decompress %s: %w", name, err)
		}
		name = strings.TrimSuffix(name, ".gz")
	}

	decode, ok := decoders[path.Ext(name)]
	if !ok {
		return l10n.Data{}, fmt.Errorf("unsupported catalog file %s", name)
	}
	data, err := decode(b)
	if err != nil {
		return l10n.Data{}, fmt.Errorf("cannot parse %s: %w", name, err)
	}
	return data, nil
}

// ReadFile reads and decodes the catalog file at filename.
func ReadFile(filename string) (l10n.Data, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return l10n.Data{}, err
	}
	return Decode(filename, b)
}

// LoadFile registers the catalog file at filename and returns its locale.
func LoadFile(reg Registerer, filename string) (string, error) {
	data, err := ReadFile(filename)
	if err != nil {
		return "", err
	}
	locale := LocaleFromName(filename)
	if err := reg.Register(locale, data); err != nil {
		return "", err
	}
	return locale, nil
}

// LoadDir registers every supported catalog file in dir. See LoadFS.
func LoadDir(ctx context.Context, reg Registerer, dir string) ([]string, error) {
	return LoadFS(ctx, reg, os.DirFS(dir), ".")
}

// LoadFS registers every supported catalog file in the directory dir of
// fsys, concurrently, and returns the sorted list of registered locales.
// Two files for the same locale are an error. The first failure stops the
// remaining loads.
func LoadFS(ctx context.Context, reg Registerer, fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read catalog directory: %w", err)
	}

	files := map[string]string{}
	for _, entry := range entries {
		if entry.IsDir() || !Supported(entry.Name()) {
			continue
		}
		locale := LocaleFromName(entry.Name())
		if prev, ok := files[locale]; ok {
			return nil, fmt.Errorf("locale %q has two catalog files: %s and %s", locale, prev, entry.Name())
		}
		files[locale] = entry.Name()
	}

	var (
		mu      sync.Mutex
		locales []string
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for locale, name := range files {
		locale, name := locale, path.Join(dir, name)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := fs.ReadFile(fsys, name)
			if err != nil {
				return err
			}
			data, err := Decode(name, b)
			if err != nil {
				return err
			}
			if err := reg.Register(locale, data); err != nil {
				return err
			}
			l10n.Logger.Info().
				Str("locale", locale).
				Str("file", name).
				Int("messages", len(data.Messages)).
				Msg("Loaded catalog")

			mu.Lock()
			locales = append(locales, locale)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Strings(locales)
	return locales, nil
}
