package catalogfile

import (
	"github.com/leonelquinteros/gotext"

	"github.com/snapcore/go-l10n"
)

// decodePO converts a PO catalog. Entries without any msgstr are kept
// with a single empty, untranslated variant.
func decodePO(b []byte) (l10n.Data, error) {
	po := gotext.NewPo()
	po.Parse(b)
	dom := po.GetDomain()

	data := l10n.Data{
		Header: l10n.Header{
			Language:    dom.Language,
			PluralForms: dom.PluralForms,
		},
		Messages: map[string][]string{},
	}
	for id, tr := range dom.GetTranslations() {
		if id == "" {
			continue
		}
		data.Messages[id] = poVariants(tr)
	}
	for context, trs := range dom.GetCtxTranslations() {
		for id, tr := range trs {
			if id == "" {
				continue
			}
			data.Messages[l10n.Key(context, id)] = poVariants(tr)
		}
	}
	return data, nil
}

func poVariants(tr *gotext.Translation) []string {
	forms := 1
	for i := range tr.Trs {
		if i+1 > forms {
			forms = i + 1
		}
	}
	raw := make([]string, forms+1)
	raw[0] = tr.PluralID
	for i, s := range tr.Trs {
		if i >= 0 {
			raw[i+1] = s
		}
	}
	return raw
}
