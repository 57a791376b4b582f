package catalogfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/gjson"

	"github.com/snapcore/go-l10n"
)

// Header keys of the registration shape.
const (
	headerLanguage    = "language"
	headerDirection   = "language-direction"
	headerPluralForms = "plural-forms"
)

func decodeJSON(b []byte) (l10n.Data, error) {
	if !gjson.ValidBytes(b) {
		return l10n.Data{}, errors.New("invalid JSON")
	}
	root := gjson.ParseBytes(b)
	if !root.IsObject() {
		return l10n.Data{}, errors.New("catalog is not an object")
	}

	data := l10n.Data{Messages: map[string][]string{}}
	var err error
	root.ForEach(func(k, value gjson.Result) bool {
		key := k.String()
		if key == "" {
			if !value.IsObject() {
				err = errors.New("header is not an object")
				return false
			}
			data.Header = l10n.Header{
				Language:    value.Get(headerLanguage).String(),
				Direction:   value.Get(headerDirection).String(),
				PluralForms: value.Get(headerPluralForms).String(),
			}
			return true
		}
		if !value.IsArray() {
			err = fmt.Errorf("message %q is not an array", key)
			return false
		}
		var raw []string
		for i, v := range value.Array() {
			switch v.Type {
			case gjson.Null:
				raw = append(raw, "")
			case gjson.String:
				raw = append(raw, v.String())
			default:
				err = fmt.Errorf("message %q: element %d is not a string", key, i)
				return false
			}
		}
		data.Messages[key] = raw
		return true
	})
	if err != nil {
		return l10n.Data{}, err
	}
	return data, nil
}

// Encode writes data to w as a JSON catalog in the registration shape.
// Empty reserved elements are written as null.
func Encode(w io.Writer, data l10n.Data) error {
	header := map[string]string{}
	if data.Header.Language != "" {
		header[headerLanguage] = data.Header.Language
	}
	if data.Header.Direction != "" {
		header[headerDirection] = data.Header.Direction
	}
	if data.Header.PluralForms != "" {
		header[headerPluralForms] = data.Header.PluralForms
	}

	out := make(map[string]interface{}, len(data.Messages)+1)
	out[""] = header
	for key, raw := range data.Messages {
		values := make([]interface{}, len(raw))
		for i, s := range raw {
			values[i] = s
		}
		if len(raw) > 0 && raw[0] == "" {
			values[0] = nil
		}
		out[key] = values
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
