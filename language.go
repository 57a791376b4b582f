package l10n

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

var osGetenv = os.Getenv

// UserLanguages returns the user's preferred languages from the
// environment, following the gettext precedence of LANGUAGE, LC_ALL,
// LC_MESSAGES and LANG. LANGUAGE may list several languages separated by
// colons.
func UserLanguages() []string {
	if langs := osGetenv("LANGUAGE"); langs != "" {
		var result []string
		for _, lang := range strings.Split(langs, ":") {
			if lang != "" {
				result = append(result, lang)
			}
		}
		return result
	}
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if lang := osGetenv(name); lang != "" {
			return []string{lang}
		}
	}
	return nil
}

// expandLocale strips the codeset and modifier of a POSIX locale name
// and returns it followed by its base language: "cs_CZ.UTF-8" gives
// ["cs_CZ", "cs"].
func expandLocale(locale string) []string {
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	if locale == "" {
		return nil
	}
	if i := strings.IndexByte(locale, '_'); i > 0 {
		return []string{locale, locale[:i]}
	}
	return []string{locale}
}

// normalizeLanguages expands a list of user languages into a locale chain.
// The "C" and "POSIX" locales end the list.
func normalizeLanguages(langs []string) []string {
	var result []string
	seen := map[string]bool{}
	for _, lang := range langs {
		if lang == "C" || lang == "POSIX" || strings.HasPrefix(lang, "C.") {
			break
		}
		for _, l := range expandLocale(lang) {
			if !seen[l] {
				seen[l] = true
				result = append(result, l)
			}
		}
	}
	return result
}

// MatchLocales orders the available locale codes by the preferences in
// preferred, best match first. Each preference is either a locale code
// ("pt_BR", "pt-BR") or an Accept-Language header value. Locale codes
// that do not match any preference are left out.
func MatchLocales(available []string, preferred ...string) []string {
	var tags []language.Tag
	var codes []string
	for _, code := range available {
		t, err := language.Parse(strings.Replace(code, "_", "-", -1))
		if err != nil {
			Logger.Debug().Err(err).Str("locale", code).Msg("Cannot parse locale code")
			continue
		}
		tags = append(tags, t)
		codes = append(codes, code)
	}

	var result []string
	seen := map[string]bool{}
	add := func(code string) {
		if !seen[code] {
			seen[code] = true
			result = append(result, code)
		}
	}

	var matcher language.Matcher
	if len(tags) > 0 {
		matcher = language.NewMatcher(tags)
	}
	for _, pref := range preferred {
		for _, code := range available {
			if code == pref {
				add(code)
			}
		}
		if matcher == nil {
			continue
		}
		wanted, _, err := language.ParseAcceptLanguage(strings.Replace(pref, "_", "-", -1))
		if err != nil {
			continue
		}
		for _, t := range wanted {
			if _, index, confidence := matcher.Match(t); confidence != language.No {
				add(codes[index])
			}
		}
	}
	return result
}
