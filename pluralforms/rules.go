package pluralforms

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Rule is one of the plural rule shapes known to this package. Catalog
// data names its rule with a C expression; Parse maps that expression to
// a Rule instead of evaluating it.
//
// The zero value is Germanic, the rule used when a catalog has none.
type Rule int

const (
	// Germanic: n != 1. English, German, Norwegian, Spanish, ...
	Germanic Rule = iota
	// French: n > 1. French, Brazilian Portuguese, ...
	French
	// Asian: a single form. Japanese, Korean, Chinese, Indonesian, ...
	Asian
	Latvian
	// Celtic: n==1 ? 0 : n==2 ? 1 : 2. Irish.
	Celtic
	Romanian
	Lithuanian
	// Russian covers the East Slavic rule shared with Ukrainian and
	// Belarusian, and the Serbo-Croatian languages.
	Russian
	// Czech covers Czech and Slovak.
	Czech
	Polish
	Slovenian
	Hebrew
	Arabic
	Icelandic

	numRules int = iota
)

// Default is the rule used for catalogs without a plural rule.
const Default = Germanic

// ErrUnsupportedRule is returned by Parse for expressions that compile but
// match none of the known rules.
var ErrUnsupportedRule = errors.New("unsupported plural rule")

type ruleInfo struct {
	name    string
	forms   int
	formula string
	index   func(n uint64) int
}

var rules = [...]ruleInfo{
	Germanic: {"germanic", 2, "n != 1", func(n uint64) int {
		if n != 1 {
			return 1
		}
		return 0
	}},
	French: {"french", 2, "n > 1", func(n uint64) int {
		if n > 1 {
			return 1
		}
		return 0
	}},
	Asian: {"asian", 1, "0", func(n uint64) int {
		return 0
	}},
	Latvian: {"latvian", 3, "n%10==1 && n%100!=11 ? 0 : n != 0 ? 1 : 2", func(n uint64) int {
		if n%10 == 1 && n%100 != 11 {
			return 0
		}
		if n != 0 {
			return 1
		}
		return 2
	}},
	Celtic: {"celtic", 3, "n==1 ? 0 : n==2 ? 1 : 2", func(n uint64) int {
		if n == 1 {
			return 0
		}
		if n == 2 {
			return 1
		}
		return 2
	}},
	Romanian: {"romanian", 3, "n==1 ? 0 : (n==0 || (n%100 > 0 && n%100 < 20)) ? 1 : 2", func(n uint64) int {
		if n == 1 {
			return 0
		}
		if n == 0 || (n%100 > 0 && n%100 < 20) {
			return 1
		}
		return 2
	}},
	Lithuanian: {"lithuanian", 3, "n%10==1 && n%100!=11 ? 0 : n%10>=2 && (n%100<10 || n%100>=20) ? 1 : 2", func(n uint64) int {
		if n%10 == 1 && n%100 != 11 {
			return 0
		}
		if n%10 >= 2 && (n%100 < 10 || n%100 >= 20) {
			return 1
		}
		return 2
	}},
	Russian: {"russian", 3, "n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2", func(n uint64) int {
		if n%10 == 1 && n%100 != 11 {
			return 0
		}
		if n%10 >= 2 && n%10 <= 4 && (n%100 < 10 || n%100 >= 20) {
			return 1
		}
		return 2
	}},
	Czech: {"czech", 3, "(n==1) ? 0 : (n>=2 && n<=4) ? 1 : 2", func(n uint64) int {
		if n == 1 {
			return 0
		}
		if n >= 2 && n <= 4 {
			return 1
		}
		return 2
	}},
	Polish: {"polish", 3, "n==1 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2", func(n uint64) int {
		if n == 1 {
			return 0
		}
		if n%10 >= 2 && n%10 <= 4 && (n%100 < 10 || n%100 >= 20) {
			return 1
		}
		return 2
	}},
	Slovenian: {"slovenian", 4, "n%100==1 ? 0 : n%100==2 ? 1 : n%100==3 || n%100==4 ? 2 : 3", func(n uint64) int {
		switch n % 100 {
		case 1:
			return 0
		case 2:
			return 1
		case 3, 4:
			return 2
		}
		return 3
	}},
	Hebrew: {"hebrew", 4, "(n == 1) ? 0 : ((n == 2) ? 1 : ((n > 10 && n % 10 == 0) ? 2 : 3))", func(n uint64) int {
		if n == 1 {
			return 0
		}
		if n == 2 {
			return 1
		}
		if n > 10 && n%10 == 0 {
			return 2
		}
		return 3
	}},
	Arabic: {"arabic", 6, "n==0 ? 0 : n==1 ? 1 : n==2 ? 2 : n%100>=3 && n%100<=10 ? 3 : n%100>=11 ? 4 : 5", func(n uint64) int {
		switch {
		case n == 0:
			return 0
		case n == 1:
			return 1
		case n == 2:
			return 2
		case n%100 >= 3 && n%100 <= 10:
			return 3
		case n%100 >= 11:
			return 4
		}
		return 5
	}},
	Icelandic: {"icelandic", 2, "n%10!=1 || n%100==11", func(n uint64) int {
		if n%10 != 1 || n%100 == 11 {
			return 1
		}
		return 0
	}},
}

func (r Rule) info() ruleInfo {
	if r < 0 || int(r) >= numRules {
		return rules[Default]
	}
	return rules[r]
}

// Index returns the zero based plural form to use for n.
func (r Rule) Index(n uint64) int {
	return r.info().index(n)
}

// Forms returns the number of plural forms the rule distinguishes.
func (r Rule) Forms() int {
	return r.info().forms
}

// Formula returns the rule as a gettext C expression.
func (r Rule) Formula() string {
	return r.info().formula
}

// Header returns the rule in the format of a PO Plural-Forms header.
func (r Rule) Header() string {
	return fmt.Sprintf("nplurals=%d; plural=%s;", r.Forms(), r.Formula())
}

func (r Rule) String() string {
	return r.info().name
}

// Rules returns every known rule.
func Rules() []Rule {
	all := make([]Rule, numRules)
	for i := range all {
		all[i] = Rule(i)
	}
	return all
}

// probes holds the counts an expression is evaluated at to identify its
// rule. It covers every residue modulo 100 plus the teens of later
// hundreds and a few large values.
var probes = func() []uint64 {
	var ns []uint64
	for n := uint64(0); n <= 220; n++ {
		ns = append(ns, n)
	}
	for _, n := range []uint64{1000, 1001, 1002, 1005, 1011, 1012, 1021, 1100, 100000, 1000000, 1000001} {
		ns = append(ns, n)
	}
	return ns
}()

// Identify returns the rule that agrees with expr on every probe count.
func Identify(expr Expression) (Rule, bool) {
	for _, r := range Rules() {
		if matches(r, expr) {
			return r, true
		}
	}
	return Default, false
}

func matches(r Rule, expr Expression) bool {
	for _, n := range probes {
		if expr.Eval(n) != int64(r.Index(n)) {
			return false
		}
	}
	return true
}

// Parse maps the plural rule text found in catalog data to a Rule. text
// may be a PO Plural-Forms header ("nplurals=2; plural=n != 1;"), a bare
// expression ("n != 1") or a JavaScript function literal as emitted by
// catalog generators ("(n) => n != 1", "function(n) { return n != 1; }").
func Parse(text string) (Rule, error) {
	expr, nplurals, err := extract(text)
	if err != nil {
		return Default, err
	}
	compiled, err := Compile(expr)
	if err != nil {
		return Default, fmt.Errorf("invalid plural rule %q: %w", text, err)
	}
	r, ok := Identify(compiled)
	if !ok {
		return Default, fmt.Errorf("%w: %q", ErrUnsupportedRule, expr)
	}
	if nplurals > 0 && nplurals != r.Forms() {
		return Default, fmt.Errorf("plural rule %q has %d forms, header declares nplurals=%d", expr, r.Forms(), nplurals)
	}
	return r, nil
}

// extract returns the C expression and, when present, the declared number
// of forms from a plural rule text.
func extract(text string) (expr string, nplurals int, err error) {
	form := strings.TrimSpace(strings.Replace(text, "\\\n", "", -1))
	if form == "" {
		return "", 0, fmt.Errorf("empty plural rule")
	}

	if strings.HasPrefix(form, "nplurals=") || strings.HasPrefix(form, "plural=") {
		for _, part := range strings.Split(form, ";") {
			part = strings.TrimSpace(part)
			switch {
			case strings.HasPrefix(part, "nplurals="):
				if _, err := fmt.Sscanf(part, "nplurals=%d", &nplurals); err != nil {
					return "", 0, fmt.Errorf("invalid plural rule %q: cannot parse nplurals", text)
				}
			case strings.HasPrefix(part, "plural="):
				expr = strings.TrimSpace(strings.TrimPrefix(part, "plural="))
			}
		}
		if expr == "" {
			return "", 0, fmt.Errorf("invalid plural rule %q: no plural expression", text)
		}
		return expr, nplurals, nil
	}

	return stripFunction(form), 0, nil
}

// stripFunction reduces a JavaScript function literal to the expression
// it returns. Other input is returned with JavaScript strict comparison
// operators rewritten.
func stripFunction(form string) string {
	form = strings.Replace(form, "\n", " ", -1)
	if strings.HasPrefix(form, "function") {
		if open := strings.IndexByte(form, '{'); open >= 0 {
			body := strings.TrimSpace(form[open+1:])
			body = strings.TrimSpace(strings.TrimSuffix(body, "}"))
			body = strings.TrimSpace(strings.TrimPrefix(body, "return"))
			form = strings.TrimSpace(strings.TrimSuffix(body, ";"))
		}
	} else if arrow := strings.Index(form, "=>"); arrow >= 0 {
		body := strings.TrimSpace(form[arrow+2:])
		if strings.HasPrefix(body, "{") {
			body = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(body, "{"), "}"))
			body = strings.TrimSpace(strings.TrimPrefix(body, "return"))
			body = strings.TrimSpace(strings.TrimSuffix(body, ";"))
		}
		form = body
	}
	form = strings.Replace(form, "===", "==", -1)
	form = strings.Replace(form, "!==", "!=", -1)
	return strings.TrimSpace(strings.TrimSuffix(form, ";"))
}

var languageRules = map[string]Rule{
	"bg": Germanic,
	"ca": Germanic,
	"da": Germanic,
	"de": Germanic,
	"el": Germanic,
	"en": Germanic,
	"es": Germanic,
	"et": Germanic,
	"fi": Germanic,
	"hu": Germanic,
	"it": Germanic,
	"nb": Germanic,
	"nl": Germanic,
	"nn": Germanic,
	"pt": Germanic,
	"sv": Germanic,

	"ar": Arabic,
	"be": Russian,
	"bs": Russian,
	"cs": Czech,
	"fr": French,
	"ga": Celtic,
	"he": Hebrew,
	"hr": Russian,
	"id": Asian,
	"is": Icelandic,
	"ja": Asian,
	"ko": Asian,
	"lt": Lithuanian,
	"lv": Latvian,
	"ms": Asian,
	"pl": Polish,
	"pt_BR": French,
	"ro": Romanian,
	"ru": Russian,
	"sk": Czech,
	"sl": Slovenian,
	"sr": Russian,
	"th": Asian,
	"uk": Russian,
	"vi": Asian,
	"zh": Asian,
}

// ForLanguage returns the rule conventionally used by gettext catalogs for
// lang. Region specific entries are tried before the base language, so
// "pt_BR" is French-like while "pt" is Germanic. Unknown languages report
// false along with Default.
func ForLanguage(lang string) (Rule, bool) {
	lang = strings.Replace(lang, "-", "_", -1)
	if i := strings.IndexAny(lang, ".@"); i >= 0 {
		lang = lang[:i]
	}
	if r, ok := languageRules[lang]; ok {
		return r, true
	}
	if i := strings.IndexByte(lang, '_'); i >= 0 {
		if r, ok := languageRules[strings.ToLower(lang[:i])]; ok {
			return r, true
		}
	}
	if r, ok := languageRules[strings.ToLower(lang)]; ok {
		return r, true
	}
	return Default, false
}

// InvalidCountError is returned for counts that no plural rule can take.
type InvalidCountError struct {
	Count float64
}

func (e *InvalidCountError) Error() string {
	return fmt.Sprintf("invalid plural count %v", e.Count)
}

// Count converts a floating point count to the integer plural rules
// operate on. Fractions are truncated. NaN, infinities and negative values
// fail with *InvalidCountError.
func Count(f float64) (uint64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, &InvalidCountError{Count: f}
	}
	if f >= math.MaxUint64 {
		return math.MaxUint64, nil
	}
	return uint64(f), nil
}
