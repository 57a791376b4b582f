package catalogfile

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/klauspost/compress/gzip"
	. "gopkg.in/check.v1"

	"github.com/snapcore/go-l10n"
	"github.com/snapcore/go-l10n/pluralforms"
)

func Test(t *testing.T) {
	TestingT(t)
}

var _ = Suite(catalogfileSuite{})

type catalogfileSuite struct{}

func readTestdata(c *C, name string) []byte {
	b, err := os.ReadFile(filepath.Join("testdata", name))
	c.Assert(err, IsNil)
	return b
}

// buildMO lays out a compiled catalog with the strings table directly
// after the two offset tables and no hash table.
func buildMO(order binary.ByteOrder, msgs [][2]string) []byte {
	sort.Slice(msgs, func(i, j int) bool { return msgs[i][0] < msgs[j][0] })

	n := uint32(len(msgs))
	origOffset := uint32(28)
	transOffset := origOffset + 8*n
	strOffset := transOffset + 8*n

	var strs bytes.Buffer
	tables := make([]uint32, 0, 4*n)
	var orig, trans []uint32
	for _, m := range msgs {
		orig = append(orig, uint32(len(m[0])), strOffset+uint32(strs.Len()))
		strs.WriteString(m[0])
		strs.WriteByte(0)
	}
	for _, m := range msgs {
		trans = append(trans, uint32(len(m[1])), strOffset+uint32(strs.Len()))
		strs.WriteString(m[1])
		strs.WriteByte(0)
	}
	tables = append(tables, orig...)
	tables = append(tables, trans...)

	var buf bytes.Buffer
	for _, v := range []uint32{leMagic, 0, n, origOffset, transOffset, 0, strOffset} {
		binary.Write(&buf, order, v)
	}
	for _, v := range tables {
		binary.Write(&buf, order, v)
	}
	buf.Write(strs.Bytes())
	return buf.Bytes()
}

var moMessages = [][2]string{
	{"", "Language: cs\nContent-Type: text/plain; charset=UTF-8\nPlural-Forms: nplurals=3; plural=(n==1) ? 0 : (n>=2 && n<=4) ? 1 : 2;\n"},
	{"Edit connection %s", "Upravit připojení %s"},
	{"%d partition will be shrunk\x00%d partitions will be shrunk", "%d oddíl bude zmenšen\x00%d oddíly budou zmenšeny\x00%d oddílů bude zmenšeno"},
	{"menu\x04Open", "Otevřít"},
}

func (catalogfileSuite) TestLocaleFromName(c *C) {
	for _, test := range []struct {
		name, locale string
	}{
		{"cs.json", "cs"},
		{"po/zh_CN.po.gz", "zh_CN"},
		{"/usr/share/l10n/pt_BR.yaml", "pt_BR"},
		{"fr", "fr"},
	} {
		c.Check(LocaleFromName(test.name), Equals, test.locale, Commentf("name: %s", test.name))
	}
}

func (catalogfileSuite) TestSupported(c *C) {
	for _, name := range []string{"cs.json", "ru.yaml", "ru.yml", "fr.po", "de.mo", "de.mo.gz"} {
		c.Check(Supported(name), Equals, true, Commentf("name: %s", name))
	}
	for _, name := range []string{"README", "cs.txt", "cs.gz", "cs.json.bz2"} {
		c.Check(Supported(name), Equals, false, Commentf("name: %s", name))
	}
}

func (catalogfileSuite) TestDecodeJSON(c *C) {
	data, err := Decode("cs.json", readTestdata(c, "cs.json"))
	c.Assert(err, IsNil)

	c.Check(data.Header.Language, Equals, "cs")
	c.Check(data.Header.PluralForms, Equals, "nplurals=3; plural=(n==1) ? 0 : (n>=2 && n<=4) ? 1 : 2;")
	c.Check(data.Messages, HasLen, 4)
	c.Check(data.Messages["Edit connection %s"], DeepEquals, []string{"", "Upravit připojení %s"})
	c.Check(data.Messages["menu\x04Open"], DeepEquals, []string{"", "Otevřít"})
	c.Check(data.Messages["%d partition will be shrunk"], HasLen, 4)
	c.Check(data.Messages["Untranslated"], DeepEquals, []string{"", ""})
}

func (catalogfileSuite) TestDecodeJSONErrors(c *C) {
	for _, test := range []struct {
		input, err string
	}{
		{`{`, "cannot parse x.json: invalid JSON"},
		{`[]`, "cannot parse x.json: catalog is not an object"},
		{`{"": []}`, "cannot parse x.json: header is not an object"},
		{`{"a": "b"}`, `cannot parse x.json: message "a" is not an array`},
		{`{"a": [null, 1]}`, `cannot parse x.json: message "a": element 1 is not a string`},
	} {
		_, err := Decode("x.json", []byte(test.input))
		c.Check(err, ErrorMatches, test.err, Commentf("input: %s", test.input))
	}
}

func (catalogfileSuite) TestDecodeYAML(c *C) {
	data, err := Decode("ru.yaml", readTestdata(c, "ru.yaml"))
	c.Assert(err, IsNil)

	c.Check(data.Header.Language, Equals, "ru")
	rule, err := pluralforms.Parse(data.Header.PluralForms)
	c.Assert(err, IsNil)
	c.Check(rule, Equals, pluralforms.Russian)
	c.Check(data.Messages["Edit connection %s"], DeepEquals, []string{"", "Изменить подключение %s"})
	c.Check(data.Messages["%d partition will be shrunk"], DeepEquals, []string{
		"%d partitions will be shrunk",
		"%d раздел будет сокращён",
		"%d раздела будут сокращены",
		"%d разделов будут сокращены",
	})
}

func (catalogfileSuite) TestDecodeYAMLErrors(c *C) {
	for _, test := range []struct {
		input, err string
	}{
		{"a: b\n", `cannot parse x.yml: message "a" is not a sequence`},
		{"a: [null, 1]\n", `cannot parse x.yml: message "a": element 1 is not a string`},
		{"\"\": [a]\n", "cannot parse x.yml: header is not a mapping"},
		{"\"\": {language: [a]}\n", `cannot parse x.yml: header "language" is not a string`},
	} {
		_, err := Decode("x.yml", []byte(test.input))
		c.Check(err, ErrorMatches, test.err, Commentf("input: %s", test.input))
	}
}

func (catalogfileSuite) TestDecodePO(c *C) {
	data, err := Decode("fr.po", readTestdata(c, "fr.po"))
	c.Assert(err, IsNil)

	c.Check(data.Header.Language, Equals, "fr")
	c.Check(data.Header.PluralForms, Equals, "nplurals=2; plural=(n > 1);")
	c.Check(data.Messages, HasLen, 3)
	c.Check(data.Messages["Edit connection %s"], DeepEquals, []string{"", "Modifier la connexion %s"})
	c.Check(data.Messages["menu\x04Open"], DeepEquals, []string{"", "Ouvrir"})
	c.Check(data.Messages["%d partition will be shrunk"], DeepEquals, []string{
		"%d partitions will be shrunk",
		"%d partition sera réduite",
		"%d partitions seront réduites",
	})
}

func (catalogfileSuite) TestDecodeMO(c *C) {
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		comment := Commentf("byte order: %s", order)
		data, err := Decode("cs.mo", buildMO(order, append([][2]string(nil), moMessages...)))
		c.Assert(err, IsNil, comment)

		c.Check(data.Header.Language, Equals, "cs", comment)
		c.Check(data.Header.PluralForms, Equals, "nplurals=3; plural=(n==1) ? 0 : (n>=2 && n<=4) ? 1 : 2;", comment)
		c.Check(data.Messages, HasLen, 3, comment)
		c.Check(data.Messages["Edit connection %s"], DeepEquals, []string{"", "Upravit připojení %s"}, comment)
		c.Check(data.Messages["menu\x04Open"], DeepEquals, []string{"", "Otevřít"}, comment)
		c.Check(data.Messages["%d partition will be shrunk"], DeepEquals, []string{
			"%d partitions will be shrunk",
			"%d oddíl bude zmenšen",
			"%d oddíly budou zmenšeny",
			"%d oddílů bude zmenšeno",
		}, comment)
	}
}

func (catalogfileSuite) TestDecodeMOCharset(c *C) {
	mo := buildMO(binary.LittleEndian, [][2]string{
		{"", "Content-Type: text/plain; charset=ISO-8859-1\n"},
		{"Cafe", "Caf\xe9"},
	})
	data, err := Decode("fr.mo", mo)
	c.Assert(err, IsNil)
	c.Check(data.Messages["Cafe"], DeepEquals, []string{"", "Café"})
}

func (catalogfileSuite) TestDecodeMOErrors(c *C) {
	_, err := Decode("x.mo", []byte("short"))
	c.Check(err, ErrorMatches, "cannot parse x.mo: message catalogue is too short")

	_, err = Decode("x.mo", make([]byte, 28))
	c.Check(err, ErrorMatches, "cannot parse x.mo: wrong magic: 0x0")

	mo := buildMO(binary.LittleEndian, [][2]string{{"a", "b"}})
	binary.LittleEndian.PutUint32(mo[4:], 2<<16)
	_, err = Decode("x.mo", mo)
	c.Check(err, ErrorMatches, "cannot parse x.mo: unsupported version: 2.0")

	mo = buildMO(binary.LittleEndian, [][2]string{{"a", "b"}})
	binary.LittleEndian.PutUint32(mo[12:], 0xfffffff0)
	_, err = Decode("x.mo", mo)
	c.Check(err, ErrorMatches, "cannot parse x.mo: original strings table out of bounds")

	mo = buildMO(binary.LittleEndian, [][2]string{{"a", "b"}})
	// length of the only translated string
	binary.LittleEndian.PutUint32(mo[36:], 0x1000)
	_, err = Decode("x.mo", mo)
	c.Check(err, ErrorMatches, `cannot parse x.mo: string 0 data \(len=1000, offset=.*\) is out of bounds`)

	mo = buildMO(binary.LittleEndian, [][2]string{{"", "Content-Type: text/plain; charset=klingon\n"}})
	_, err = Decode("x.mo", mo)
	c.Check(err, ErrorMatches, `cannot parse x.mo: unknown charset "klingon".*`)
}

func (catalogfileSuite) TestDecodeGzip(c *C) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(readTestdata(c, "cs.json"))
	c.Assert(err, IsNil)
	c.Assert(w.Close(), IsNil)

	data, err := Decode("cs.json.gz", buf.Bytes())
	c.Assert(err, IsNil)
	c.Check(data.Header.Language, Equals, "cs")
	c.Check(data.Messages, HasLen, 4)

	_, err = Decode("cs.json.gz", []byte("not gzip"))
	c.Check(err, ErrorMatches, "cannot decompress cs.json.gz: .*")
}

func (catalogfileSuite) TestDecodeUnsupported(c *C) {
	_, err := Decode("cs.txt", nil)
	c.Check(err, ErrorMatches, "unsupported catalog file cs.txt")
}

func (catalogfileSuite) TestEncodeRoundTrip(c *C) {
	data, err := Decode("cs.json", readTestdata(c, "cs.json"))
	c.Assert(err, IsNil)

	var buf bytes.Buffer
	c.Assert(Encode(&buf, data), IsNil)
	c.Check(buf.String(), Matches, `(?s).*"menu\\u0004Open": \[\s+null,\s+"Otevřít"\s+\].*`)

	again, err := Decode("cs.json", buf.Bytes())
	c.Assert(err, IsNil)
	c.Check(again, DeepEquals, data)
}

func (catalogfileSuite) TestLoadFile(c *C) {
	store := l10n.NewStore()
	locale, err := LoadFile(store, filepath.Join("testdata", "fr.po"))
	c.Assert(err, IsNil)
	c.Check(locale, Equals, "fr")

	fr := store.Locale("fr")
	c.Check(fr.PGettext("menu", "Open"), Equals, "Ouvrir")
	c.Check(fr.NSprintf("%d partition will be shrunk", "%d partitions will be shrunk", 2, 2),
		Equals, "2 partitions seront réduites")

	_, err = LoadFile(store, filepath.Join("testdata", "missing.json"))
	c.Check(os.IsNotExist(err), Equals, true)
}

func (catalogfileSuite) TestLoadDir(c *C) {
	dir := c.MkDir()
	for _, name := range []string{"cs.json", "ru.yaml", "fr.po"} {
		c.Assert(os.WriteFile(filepath.Join(dir, name), readTestdata(c, name), 0644), IsNil)
	}
	c.Assert(os.WriteFile(filepath.Join(dir, "de.mo"), buildMO(binary.LittleEndian, [][2]string{{"Open", "Öffnen"}}), 0644), IsNil)
	c.Assert(os.WriteFile(filepath.Join(dir, "README"), []byte("ignored"), 0644), IsNil)
	c.Assert(os.Mkdir(filepath.Join(dir, "sub.json"), 0755), IsNil)

	store := l10n.NewStore()
	locales, err := LoadDir(context.Background(), store, dir)
	c.Assert(err, IsNil)
	c.Check(locales, DeepEquals, []string{"cs", "de", "fr", "ru"})
	c.Check(store.Locales(), DeepEquals, locales)

	ru := store.Locale("ru")
	c.Check(ru.NSprintf("%d partition will be shrunk", "%d partitions will be shrunk", 21, 21),
		Equals, "21 раздел будет сокращён")
	c.Check(store.Locale("de").Gettext("Open"), Equals, "Öffnen")
}

func (catalogfileSuite) TestLoadDirDuplicateLocale(c *C) {
	dir := c.MkDir()
	c.Assert(os.WriteFile(filepath.Join(dir, "cs.json"), readTestdata(c, "cs.json"), 0644), IsNil)
	c.Assert(os.WriteFile(filepath.Join(dir, "cs.po"), readTestdata(c, "fr.po"), 0644), IsNil)

	_, err := LoadDir(context.Background(), l10n.NewStore(), dir)
	c.Check(err, ErrorMatches, `locale "cs" has two catalog files: cs.json and cs.po`)
}

func (catalogfileSuite) TestLoadDirFailure(c *C) {
	dir := c.MkDir()
	c.Assert(os.WriteFile(filepath.Join(dir, "cs.json"), readTestdata(c, "cs.json"), 0644), IsNil)
	c.Assert(os.WriteFile(filepath.Join(dir, "xx.json"), []byte(`{"": {"plural-forms": "n % 3"}}`), 0644), IsNil)

	_, err := LoadDir(context.Background(), l10n.NewStore(), dir)
	var invalid *l10n.InvalidCatalogError
	c.Assert(err, FitsTypeOf, invalid)
	c.Check(err.(*l10n.InvalidCatalogError).Locale, Equals, "xx")

	_, err = LoadDir(context.Background(), l10n.NewStore(), filepath.Join(dir, "missing"))
	c.Check(err, ErrorMatches, "cannot read catalog directory: .*")
}

func (catalogfileSuite) TestLoadDirCancelled(c *C) {
	dir := c.MkDir()
	c.Assert(os.WriteFile(filepath.Join(dir, "cs.json"), readTestdata(c, "cs.json"), 0644), IsNil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := l10n.NewStore()
	_, err := LoadDir(ctx, store, dir)
	c.Check(err, Equals, context.Canceled)
	c.Check(store.Locales(), HasLen, 0)
}
