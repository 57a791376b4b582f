package l10n

import (
	"sort"
	"strings"

	"github.com/snapcore/go-l10n/pluralforms"
)

// ContextSeparator joins a message context and a msgid in a message key.
const ContextSeparator = "\x04"

// Key returns the message key for msgid under context. An empty context
// yields msgid itself.
func Key(context, msgid string) string {
	if context == "" {
		return msgid
	}
	return context + ContextSeparator + msgid
}

// SplitKey is the inverse of Key.
func SplitKey(key string) (context, msgid string) {
	if i := strings.Index(key, ContextSeparator); i >= 0 {
		return key[:i], key[i+len(ContextSeparator):]
	}
	return "", key
}

// Header is the locale metadata stored under the "" key of a catalog.
type Header struct {
	Language string
	// Direction is "ltr" or "rtl".
	Direction string
	// PluralForms names the plural rule, see pluralforms.Parse for the
	// accepted notations. Empty means the catalog has no rule.
	PluralForms string
}

// Data is a catalog as handed to Store.Register.
//
// Messages maps a message key (see Key) to its raw value. Index 0 of the
// raw value is reserved: generated catalogs store null or the plural msgid
// there. The translation variants follow, singular first. An empty
// variant marks an untranslated form.
type Data struct {
	Header   Header
	Messages map[string][]string
}

// Entry is a message of a registered catalog.
type Entry struct {
	Context  string
	ID       string
	PluralID string
	Variants []string
}

type entry struct {
	pluralID string
	variants []string
}

// Catalog is the immutable set of translations registered for a locale.
type Catalog struct {
	locale    string
	language  string
	direction string
	rule      pluralforms.Rule
	hasRule   bool
	entries   map[string]entry
}

func newCatalog(locale string, data Data) (*Catalog, error) {
	if locale == "" {
		return nil, &InvalidCatalogError{Reason: "empty locale code"}
	}
	c := &Catalog{
		locale:    locale,
		language:  data.Header.Language,
		direction: data.Header.Direction,
		entries:   make(map[string]entry, len(data.Messages)),
	}
	if data.Header.PluralForms != "" {
		rule, err := pluralforms.Parse(data.Header.PluralForms)
		if err != nil {
			return nil, &InvalidCatalogError{Locale: locale, Reason: "bad plural-forms", Err: err}
		}
		c.rule = rule
		c.hasRule = true
	}
	for key, raw := range data.Messages {
		if _, msgid := SplitKey(key); msgid == "" {
			return nil, &InvalidCatalogError{Locale: locale, Key: key, Reason: "empty message id"}
		}
		if len(raw) < 2 {
			return nil, &InvalidCatalogError{Locale: locale, Key: key, Reason: "no translation variants"}
		}
		variants := make([]string, len(raw)-1)
		copy(variants, raw[1:])
		c.entries[key] = entry{pluralID: raw[0], variants: variants}
	}
	return c, nil
}

// Locale returns the locale code the catalog was registered under.
func (c *Catalog) Locale() string {
	return c.locale
}

// Language returns the language tag from the catalog header, or the
// locale code when the header has none.
func (c *Catalog) Language() string {
	if c.language == "" {
		return c.locale
	}
	return c.language
}

// Direction returns the text direction, "ltr" unless the header says
// otherwise.
func (c *Catalog) Direction() string {
	if c.direction == "" {
		return "ltr"
	}
	return c.direction
}

// PluralRule returns the catalog's plural rule. Catalogs without one,
// including the nil catalog, report false along with pluralforms.Default.
func (c *Catalog) PluralRule() (pluralforms.Rule, bool) {
	if c == nil || !c.hasRule {
		return pluralforms.Default, false
	}
	return c.rule, true
}

// Len returns the number of messages in the catalog.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Lookup returns a copy of the variants registered for msgid under
// context.
func (c *Catalog) Lookup(context, msgid string) ([]string, bool) {
	e, ok := c.entries[Key(context, msgid)]
	if !ok {
		return nil, false
	}
	return append([]string(nil), e.variants...), true
}

// Entries returns every message of the catalog sorted by key.
func (c *Catalog) Entries() []Entry {
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		e := c.entries[k]
		context, msgid := SplitKey(k)
		entries = append(entries, Entry{
			Context:  context,
			ID:       msgid,
			PluralID: e.pluralID,
			Variants: append([]string(nil), e.variants...),
		})
	}
	return entries
}

// variant returns the variant at index for key. Indexes beyond the
// registered variants select the last one.
func (c *Catalog) variant(key string, index int) (string, bool) {
	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if index >= len(e.variants) {
		index = len(e.variants) - 1
	}
	return e.variants[index], true
}
