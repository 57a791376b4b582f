package l10n

import (
	"fmt"
	"strings"
)

// InvalidCatalogError is returned by Store.Register for malformed catalog
// data. The previously registered catalog, if any, is left in place.
type InvalidCatalogError struct {
	Locale string
	// Key is the offending message key, empty for catalog wide problems.
	Key    string
	Reason string
	Err    error
}

func (e *InvalidCatalogError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid catalog for locale %q", e.Locale)
	if e.Key != "" {
		fmt.Fprintf(&b, ", message %q", displayKey(e.Key))
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *InvalidCatalogError) Unwrap() error {
	return e.Err
}

// MissingPluralRuleError reports a locale without a plural rule. It is
// returned together with the form index of the default rule.
type MissingPluralRuleError struct {
	Locale string
}

func (e *MissingPluralRuleError) Error() string {
	return fmt.Sprintf("no plural rule registered for locale %q", e.Locale)
}

// MixedPlaceholderStyleError is returned by Sprintf for templates that use
// both sequential (%s) and positional (%1$s) placeholders.
type MixedPlaceholderStyleError struct {
	Template string
}

func (e *MixedPlaceholderStyleError) Error() string {
	return fmt.Sprintf("template %q mixes sequential and positional placeholders", e.Template)
}

// MissingArgumentError is returned by Sprintf when placeholders reference
// arguments that were not supplied. Missing holds 1-based argument numbers.
type MissingArgumentError struct {
	Template string
	Missing  []int
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("template %q: missing arguments %v", e.Template, e.Missing)
}

// displayKey renders a message key with its context separator visible.
func displayKey(key string) string {
	return strings.Replace(key, ContextSeparator, "|", 1)
}
