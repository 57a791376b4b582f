package l10n

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
)

func assertEqual(t *testing.T, expected string, got string) {
	t.Helper()
	if expected != got {
		t.Logf("%q != %q", expected, got)
		t.Fail()
	}
}

func assertDeepEqual(t *testing.T, expected, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(expected, got) {
		t.Logf("%#v != %#v", expected, got)
		t.Fail()
	}
}

// assertErrorAs checks that err matches target with errors.As.
func assertErrorAs(t *testing.T, err error, target interface{}) {
	t.Helper()
	if !errors.As(err, target) {
		t.Logf("%v (%T) does not match %T", err, err, target)
		t.Fail()
	}
}

func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func mockGetenv(env map[string]string) (restore func()) {
	old := osGetenv
	osGetenv = func(name string) string {
		return env[name]
	}
	return func() {
		osGetenv = old
	}
}

// captureLogger returns a logger writing JSON lines to buf.
func captureLogger(buf *bytes.Buffer) zerolog.Logger {
	return zerolog.New(buf).Level(zerolog.DebugLevel)
}

const czechPluralForms = "nplurals=3; plural=(n==1) ? 0 : (n>=2 && n<=4) ? 1 : 2;"

const russianPluralForms = "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);"

func czechData() Data {
	return Data{
		Header: Header{Language: "cs", PluralForms: czechPluralForms},
		Messages: map[string][]string{
			"Edit connection %s": {"", "Upravit připojení %s"},
			"%d partition will be shrunk": {
				"%d partitions will be shrunk",
				"%d oddíl bude zmenšen",
				"%d oddíly budou zmenšeny",
				"%d oddílů bude zmenšeno",
			},
			Key("menu", "Open"): {"", "Otevřít"},
			"Untranslated":      {"", ""},
		},
	}
}

func russianData() Data {
	return Data{
		Header: Header{Language: "ru", PluralForms: russianPluralForms},
		Messages: map[string][]string{
			"%d partition will be shrunk": {
				"%d partitions will be shrunk",
				"%d раздел будет сокращён",
				"%d раздела будут сокращены",
				"%d разделов будут сокращены",
			},
		},
	}
}
