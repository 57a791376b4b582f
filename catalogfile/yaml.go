package catalogfile

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/snapcore/go-l10n"
)

func decodeYAML(b []byte) (l10n.Data, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return l10n.Data{}, err
	}

	data := l10n.Data{Messages: make(map[string][]string, len(doc))}
	for key, value := range doc {
		if key == "" {
			header, err := yamlHeader(value)
			if err != nil {
				return l10n.Data{}, err
			}
			data.Header = header
			continue
		}
		seq, ok := value.([]interface{})
		if !ok {
			return l10n.Data{}, fmt.Errorf("message %q is not a sequence", key)
		}
		raw := make([]string, len(seq))
		for i, v := range seq {
			switch v := v.(type) {
			case nil:
			case string:
				raw[i] = v
			default:
				return l10n.Data{}, fmt.Errorf("message %q: element %d is not a string", key, i)
			}
		}
		data.Messages[key] = raw
	}
	return data, nil
}

func yamlHeader(value interface{}) (l10n.Header, error) {
	fields, ok := value.(map[string]interface{})
	if !ok {
		return l10n.Header{}, errors.New("header is not a mapping")
	}
	str := func(name string) (string, error) {
		switch v := fields[name].(type) {
		case nil:
			return "", nil
		case string:
			return v, nil
		default:
			return "", fmt.Errorf("header %q is not a string", name)
		}
	}

	var h l10n.Header
	var err error
	if h.Language, err = str(headerLanguage); err != nil {
		return h, err
	}
	if h.Direction, err = str(headerDirection); err != nil {
		return h, err
	}
	if h.PluralForms, err = str(headerPluralForms); err != nil {
		return h, err
	}
	return h, nil
}
