package l10n

import (
	"errors"
	"strings"

	"github.com/snapcore/go-l10n/pluralforms"
)

// Locale translates messages against an explicit chain of locales.
//
// If a message is not found in the first locale, each subsequent one is
// consulted until a usable translation is found. If no locale has one,
// the original message id is returned. Lookups always see the catalogs
// registered at the time of the call.
type Locale struct {
	s       Store
	locales []string
}

// Locale returns a view translating into locales, in order of
// preference. Empty and repeated codes are dropped.
func (s Store) Locale(locales ...string) Locale {
	var chain []string
	seen := make(map[string]bool, len(locales))
	for _, locale := range locales {
		if locale == "" || seen[locale] {
			continue
		}
		seen[locale] = true
		chain = append(chain, locale)
	}
	return Locale{s: s, locales: chain}
}

// UserLocale returns a view over the user's languages, see
// UserLanguages.
func (s Store) UserLocale() Locale {
	return s.Locale(normalizeLanguages(UserLanguages())...)
}

// Locales returns the locale chain of the view.
func (l Locale) Locales() []string {
	return append([]string(nil), l.locales...)
}

// Gettext returns the base form of msgid.
func (l Locale) Gettext(msgid string) string {
	return l.resolve("", msgid, "", 0, false)
}

// PGettext returns the base form of msgid under a disambiguating context.
func (l Locale) PGettext(context, msgid string) string {
	return l.resolve(context, msgid, "", 0, false)
}

// NGettext returns the plural form of msgid for n. When no translation
// is available, msgidPlural is returned for n != 1 unless it is empty, in
// which case msgid is returned unchanged.
func (l Locale) NGettext(msgid, msgidPlural string, n int) string {
	return l.resolve("", msgid, msgidPlural, n, true)
}

// PNGettext is NGettext with a disambiguating context.
func (l Locale) PNGettext(context, msgid, msgidPlural string, n int) string {
	return l.resolve(context, msgid, msgidPlural, n, true)
}

// Sprintf translates msgid and substitutes args with Format.
func (l Locale) Sprintf(msgid string, args ...interface{}) string {
	return Format(l.Gettext(msgid), args...)
}

// NSprintf selects the plural form of msgid for n and substitutes args
// with Format.
func (l Locale) NSprintf(msgid, msgidPlural string, n int, args ...interface{}) string {
	return Format(l.NGettext(msgid, msgidPlural, n), args...)
}

func (l Locale) resolve(context, msgid, msgidPlural string, n int, usePlural bool) string {
	key := Key(context, msgid)
	for _, locale := range l.locales {
		if msgstr, ok := l.s.findMsg(locale, key, usePlural, n); ok {
			return msgstr
		}
	}
	l.s.logMissingOnce(l.locales, key)

	// Fallback to original message based on Germanic plural rule.
	if usePlural && msgidPlural != "" && n != 1 {
		return msgidPlural
	}
	return msgid
}

// findMsg returns the usable translation of key in locale. Unknown
// locales and keys, and empty variants, are not usable.
func (s *store) findMsg(locale, key string, usePlural bool, n int) (string, bool) {
	s.mu.RLock()
	c := s.catalogs[locale]
	s.mu.RUnlock()
	if c == nil {
		return "", false
	}

	index := 0
	if usePlural {
		var err error
		index, err = selectForm(locale, c, n)
		var countErr *pluralforms.InvalidCountError
		if errors.As(err, &countErr) {
			s.logger.Warn().Err(err).Str("locale", locale).Str("key", displayKey(key)).Msg("Using base form")
		}
	}

	msgstr, ok := c.variant(key, index)
	if !ok || msgstr == "" {
		return "", false
	}
	return msgstr, true
}

// logMissingOnce logs a missing translation once per locale chain and key
// when strict mode is enabled.
func (s *store) logMissingOnce(locales []string, key string) {
	if !s.strict {
		return
	}
	chain := strings.Join(locales, ":")
	id := chain + "\x00" + key
	if _, loaded := s.missing.LoadOrStore(id, struct{}{}); !loaded {
		s.logger.Warn().
			Str("locale", chain).
			Str("key", displayKey(key)).
			Msg("Missing translation")
	}
}
