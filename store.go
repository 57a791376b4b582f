// Implements a gettext style catalog runtime in pure Go with Plural Forms
// support.

package l10n

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/snapcore/go-l10n/pluralforms"
)

// Store holds the catalogs of the locales your app supports. Use NewStore
// to create an instance and hand it to the code that translates.
type Store struct {
	// As we don't want the mutex protecting the catalogs to be
	// copied, we embed a pointer to an ancillary struct holding our
	// data.
	*store
}

type store struct {
	mu       sync.RWMutex
	catalogs map[string]*Catalog

	logger zerolog.Logger
	strict bool
	// missing deduplicates strict mode warnings, keyed by
	// locales+"\x00"+key.
	missing sync.Map
}

// StoreOption configures a Store.
type StoreOption func(*store)

// WithLogger sets the logger used by the store. The default is Logger at
// the time NewStore is called.
func WithLogger(l zerolog.Logger) StoreOption {
	return func(s *store) {
		s.logger = l
	}
}

// WithStrictMissing makes lookups log each missing message once per
// locale chain at warn level.
func WithStrictMissing(strict bool) StoreOption {
	return func(s *store) {
		s.strict = strict
	}
}

// NewStore returns an empty store.
func NewStore(opts ...StoreOption) Store {
	s := &store{
		catalogs: map[string]*Catalog{},
		logger:   Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return Store{s}
}

// Register installs the catalog for locale, replacing any catalog
// registered before for the same locale. Entries are never merged.
//
// Malformed data fails with *InvalidCatalogError and leaves the store
// unchanged.
func (s Store) Register(locale string, data Data) error {
	c, err := newCatalog(locale, data)
	if err != nil {
		s.logger.Error().Err(err).Str("locale", locale).Msg("Rejected catalog")
		return err
	}

	s.mu.Lock()
	_, replaced := s.catalogs[locale]
	s.catalogs[locale] = c
	s.mu.Unlock()

	rule, hasRule := c.PluralRule()
	ev := s.logger.Debug().
		Str("locale", locale).
		Int("messages", c.Len()).
		Bool("replaced", replaced)
	if hasRule {
		ev = ev.Stringer("plural_rule", rule)
	}
	ev.Msg("Registered catalog")
	return nil
}

// Get returns the catalog registered for locale, or nil.
func (s Store) Get(locale string) *Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalogs[locale]
}

// Locales returns the sorted codes of the locales registered at the time
// of the call.
func (s Store) Locales() []string {
	s.mu.RLock()
	locales := make([]string, 0, len(s.catalogs))
	for locale := range s.catalogs {
		locales = append(locales, locale)
	}
	s.mu.RUnlock()
	sort.Strings(locales)
	return locales
}

// SelectForm returns the zero based plural form locale uses for n.
//
// A negative n fails with *pluralforms.InvalidCountError. For a locale
// without a plural rule, SelectForm returns the form chosen by
// pluralforms.Default along with a *MissingPluralRuleError, so callers
// can use the index and ignore the error.
func (s Store) SelectForm(locale string, n int) (int, error) {
	return selectForm(locale, s.Get(locale), n)
}

func selectForm(locale string, c *Catalog, n int) (int, error) {
	if n < 0 {
		return 0, &pluralforms.InvalidCountError{Count: float64(n)}
	}
	rule, ok := c.PluralRule()
	if !ok {
		return rule.Index(uint64(n)), &MissingPluralRuleError{Locale: locale}
	}
	return rule.Index(uint64(n)), nil
}
