package l10n

import (
	"fmt"
	"strconv"
	"strings"
)

// placeholder is a recognised % sequence of a template, spanning
// template[start:end]. arg is the 1-based argument number, 0 for "%%".
type placeholder struct {
	start, end int
	verb       byte
	arg        int
}

// scanPlaceholders finds the placeholders of template. Sequential
// placeholders are numbered in order of appearance.
func scanPlaceholders(template string) (phs []placeholder, sequential, positional bool) {
	next := 1
	for i := 0; i < len(template); i++ {
		if template[i] != '%' || i+1 >= len(template) {
			continue
		}
		switch c := template[i+1]; {
		case c == '%':
			phs = append(phs, placeholder{start: i, end: i + 2, verb: '%'})
			i++
		case c == 's' || c == 'd':
			phs = append(phs, placeholder{start: i, end: i + 2, verb: c, arg: next})
			next++
			sequential = true
			i++
		case c >= '1' && c <= '9':
			j := i + 1
			for j < len(template) && template[j] >= '0' && template[j] <= '9' {
				j++
			}
			if j+1 >= len(template) || template[j] != '$' || (template[j+1] != 's' && template[j+1] != 'd') {
				continue
			}
			arg, err := strconv.Atoi(template[i+1 : j])
			if err != nil {
				continue
			}
			phs = append(phs, placeholder{start: i, end: j + 2, verb: template[j+1], arg: arg})
			positional = true
			i = j + 1
		}
	}
	return phs, sequential, positional
}

// Sprintf substitutes args into template. It supports sequential %s and
// %d placeholders, which consume args in order, and positional %1$s and
// %2$d placeholders, which name their 1-based argument. "%%" is a literal
// percent sign; any other % sequence is copied unchanged.
//
// A template mixing both placeholder styles is returned unchanged with a
// *MixedPlaceholderStyleError. Placeholders without a matching argument
// are replaced by the empty string and reported with a
// *MissingArgumentError. In both cases the returned string is usable.
func Sprintf(template string, args ...interface{}) (string, error) {
	phs, sequential, positional := scanPlaceholders(template)
	if len(phs) == 0 {
		return template, nil
	}
	if sequential && positional {
		return template, &MixedPlaceholderStyleError{Template: template}
	}

	var b strings.Builder
	b.Grow(len(template))
	var missing []int
	last := 0
	for _, ph := range phs {
		b.WriteString(template[last:ph.start])
		last = ph.end
		if ph.verb == '%' {
			b.WriteByte('%')
			continue
		}
		if ph.arg > len(args) {
			missing = append(missing, ph.arg)
			continue
		}
		b.WriteString(formatArg(ph.verb, args[ph.arg-1]))
	}
	b.WriteString(template[last:])

	if missing != nil {
		return b.String(), &MissingArgumentError{Template: template, Missing: missing}
	}
	return b.String(), nil
}

// Format is Sprintf for display code: problems are logged to Logger and
// the best effort result is returned.
func Format(template string, args ...interface{}) string {
	s, err := Sprintf(template, args...)
	if err != nil {
		Logger.Warn().Err(err).Msg("Cannot format message")
	}
	return s
}

func formatArg(verb byte, arg interface{}) string {
	if verb == 'd' {
		switch v := arg.(type) {
		case int:
			return strconv.Itoa(v)
		case int8:
			return strconv.FormatInt(int64(v), 10)
		case int16:
			return strconv.FormatInt(int64(v), 10)
		case int32:
			return strconv.FormatInt(int64(v), 10)
		case int64:
			return strconv.FormatInt(v, 10)
		case uint:
			return strconv.FormatUint(uint64(v), 10)
		case uint8:
			return strconv.FormatUint(uint64(v), 10)
		case uint16:
			return strconv.FormatUint(uint64(v), 10)
		case uint32:
			return strconv.FormatUint(uint64(v), 10)
		case uint64:
			return strconv.FormatUint(v, 10)
		case float32:
			return strconv.FormatInt(int64(v), 10)
		case float64:
			return strconv.FormatInt(int64(v), 10)
		}
	}
	if s, ok := arg.(string); ok {
		return s
	}
	return fmt.Sprint(arg)
}
