package l10n

import (
	"testing"
)

func TestExpandLocale(t *testing.T) {
	assertDeepEqual(t, []string{"en"}, expandLocale("en"))
	assertDeepEqual(t, []string{"en_AU", "en"}, expandLocale("en_AU"))
	assertDeepEqual(t, []string{"en_AU", "en"}, expandLocale("en_AU.UTF-8"))
	assertDeepEqual(t, []string{"en_AU", "en"}, expandLocale("en_AU.UTF-8@mod"))
	assertDeepEqual(t, []string{"sr"}, expandLocale("sr@latin"))
	assertDeepEqual(t, []string(nil), expandLocale(".UTF-8"))
}

func TestUserLanguages(t *testing.T) {
	env := map[string]string{}
	restore := mockGetenv(env)
	defer restore()

	// By default, no locale is set
	assertDeepEqual(t, []string(nil), UserLanguages())

	// If LANG is set, use that
	env["LANG"] = "en_AU@lang"
	assertDeepEqual(t, []string{"en_AU@lang"}, UserLanguages())

	// LC_MESSAGES overrides LANG
	env["LC_MESSAGES"] = "en_AU@messages"
	assertDeepEqual(t, []string{"en_AU@messages"}, UserLanguages())

	// LC_ALL overrides LC_MESSAGES
	env["LC_ALL"] = "en_AU.UTF-8"
	assertDeepEqual(t, []string{"en_AU.UTF-8"}, UserLanguages())

	// LANGUAGE overrides LC_ALL, and can specify multiple locales
	env["LANGUAGE"] = "en_AU:en_GB::en"
	assertDeepEqual(t, []string{"en_AU", "en_GB", "en"}, UserLanguages())
}

func TestNormalizeLanguages(t *testing.T) {
	assertDeepEqual(t, []string{"en_AU", "en", "en_GB"}, normalizeLanguages([]string{"en_AU", "en_GB", "en", "C", "fr"}))
	assertDeepEqual(t, []string{"cs_CZ", "cs"}, normalizeLanguages([]string{"cs_CZ.UTF-8", "POSIX"}))
	assertDeepEqual(t, []string(nil), normalizeLanguages([]string{"C.UTF-8", "de"}))
}

func TestMatchLocales(t *testing.T) {
	available := []string{"cs", "en_GB", "pt_BR", "ru", "not a locale"}

	assertDeepEqual(t, []string{"pt_BR"}, MatchLocales(available, "pt_BR"))
	assertDeepEqual(t, []string{"pt_BR"}, MatchLocales(available, "pt-BR"))
	assertDeepEqual(t, []string{"cs", "ru"}, MatchLocales(available, "cs-CZ", "ru"))
	assertDeepEqual(t, []string{"ru", "cs"}, MatchLocales(available, "ru-RU,ru;q=0.9,cs;q=0.8"))
	assertDeepEqual(t, []string(nil), MatchLocales(available, "ja"))
	assertDeepEqual(t, []string(nil), MatchLocales(nil, "cs"))
}
