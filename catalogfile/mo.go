package catalogfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/snapcore/go-l10n"
)

const (
	leMagic = 0x950412de
	beMagic = 0xde120495
)

type moHeader struct {
	Magic          uint32
	Version        uint32
	NumStrings     uint32
	OrigTabOffset  uint32
	TransTabOffset uint32
	HashTabSize    uint32
	HashTabOffset  uint32
}

func (h moHeader) majorVersion() uint32 {
	return h.Version >> 16
}

func (h moHeader) minorVersion() uint32 {
	return h.Version & 0xffff
}

type moFile struct {
	data       []byte
	order      binary.ByteOrder
	numStrings int
	origTab    []byte
	transTab   []byte
}

func (f *moFile) str(table []byte, idx int) []byte {
	strLen := f.order.Uint32(table[8*idx:])
	strOffset := f.order.Uint32(table[8*idx+4:])
	return f.data[strOffset : strOffset+strLen]
}

// tableSlice returns the n entry wide table at offset, each entry being
// width bytes long.
func tableSlice(data []byte, offset, n, width uint32) ([]byte, bool) {
	end := uint64(offset) + uint64(n)*uint64(width)
	if end > uint64(len(data)) {
		return nil, false
	}
	return data[offset:end], true
}

func validateStringTable(data []byte, table []byte, numStrings int, order binary.ByteOrder) error {
	for i := 0; i < numStrings; i++ {
		strLen := order.Uint32(table[8*i:])
		strOffset := order.Uint32(table[8*i+4:])
		if uint64(strLen)+uint64(strOffset) > uint64(len(data)) {
			return fmt.Errorf("string %d data (len=%x, offset=%x) is out of bounds", i, strLen, strOffset)
		}
	}
	return nil
}

func validateHashTable(table []byte, numStrings int, order binary.ByteOrder) error {
	for i := 0; i < len(table)/4; i++ {
		// hash entries are either zero or a string index
		// incremented by one
		if int64(order.Uint32(table[4*i:])) >= int64(numStrings)+1 {
			return fmt.Errorf("hash table is corrupt")
		}
	}
	return nil
}

func openMO(data []byte) (*moFile, error) {
	var h moHeader
	headerSize := binary.Size(&h)
	if len(data) < headerSize {
		return nil, fmt.Errorf("message catalogue is too short")
	}

	var order binary.ByteOrder = binary.LittleEndian
	switch magic := order.Uint32(data); magic {
	case leMagic:
		// nothing
	case beMagic:
		order = binary.BigEndian
	default:
		return nil, fmt.Errorf("wrong magic: %#x", magic)
	}
	if err := binary.Read(bytes.NewReader(data[:headerSize]), order, &h); err != nil {
		return nil, err
	}
	if h.majorVersion() != 0 && h.majorVersion() != 1 {
		return nil, fmt.Errorf("unsupported version: %d.%d", h.majorVersion(), h.minorVersion())
	}
	numStrings := int(h.NumStrings)

	origTab, ok := tableSlice(data, h.OrigTabOffset, h.NumStrings, 8)
	if !ok {
		return nil, fmt.Errorf("original strings table out of bounds")
	}
	if err := validateStringTable(data, origTab, numStrings, order); err != nil {
		return nil, err
	}
	transTab, ok := tableSlice(data, h.TransTabOffset, h.NumStrings, 8)
	if !ok {
		return nil, fmt.Errorf("translated strings table out of bounds")
	}
	if err := validateStringTable(data, transTab, numStrings, order); err != nil {
		return nil, err
	}
	if h.HashTabSize > 2 {
		hashTab, ok := tableSlice(data, h.HashTabOffset, h.HashTabSize, 4)
		if !ok {
			return nil, fmt.Errorf("hash table out of bounds")
		}
		if err := validateHashTable(hashTab, numStrings, order); err != nil {
			return nil, err
		}
	}

	return &moFile{
		data:       data,
		order:      order,
		numStrings: numStrings,
		origTab:    origTab,
		transTab:   transTab,
	}, nil
}

// readInfo parses the "Key: value" lines of a catalog header entry. Keys
// are lower cased; continuation lines are appended to the previous value.
func readInfo(info string) map[string]string {
	fields := make(map[string]string)
	lastk := ""
	for _, line := range strings.Split(info, "\n") {
		item := strings.TrimSpace(line)
		if len(item) == 0 {
			continue
		}
		if k, v, ok := strings.Cut(item, ":"); ok {
			lastk = strings.ToLower(strings.TrimSpace(k))
			fields[lastk] = strings.TrimSpace(v)
		} else if len(lastk) != 0 {
			fields[lastk] += "\n" + item
		}
	}
	return fields
}

// charsetDecoder returns the decoder for the charset named in a
// Content-Type value, or nil for UTF-8 and unspecified charsets.
func charsetDecoder(contentType string) (*encoding.Decoder, error) {
	_, charset, ok := strings.Cut(contentType, "charset=")
	if !ok {
		return nil, nil
	}
	charset = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(charset), ";"))
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8", "charset":
		return nil, nil
	}
	enc, err := ianaindex.MIME.Encoding(charset)
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q: %w", charset, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}
	return enc.NewDecoder(), nil
}

// decodeMO converts a compiled gettext catalog. Message ids in MO files
// already join the context with "\x04", and separate singular and plural
// ids and variants with NUL bytes.
func decodeMO(b []byte) (l10n.Data, error) {
	f, err := openMO(b)
	if err != nil {
		return l10n.Data{}, err
	}

	var dec *encoding.Decoder
	data := l10n.Data{Messages: make(map[string][]string, f.numStrings)}
	for i := 0; i < f.numStrings; i++ {
		if len(f.str(f.origTab, i)) != 0 {
			continue
		}
		info := readInfo(string(f.str(f.transTab, i)))
		data.Header = l10n.Header{
			Language:    info["language"],
			Direction:   info["language-direction"],
			PluralForms: info["plural-forms"],
		}
		if dec, err = charsetDecoder(info["content-type"]); err != nil {
			return l10n.Data{}, err
		}
		break
	}

	text := func(b []byte) (string, error) {
		if dec == nil {
			return string(b), nil
		}
		return dec.String(string(b))
	}
	for i := 0; i < f.numStrings; i++ {
		id := f.str(f.origTab, i)
		if len(id) == 0 {
			continue
		}
		msgid, pluralID, _ := bytes.Cut(id, []byte{0})
		key, err := text(msgid)
		if err != nil {
			return l10n.Data{}, fmt.Errorf("string %d: %w", i, err)
		}
		raw := []string{""}
		if pluralID != nil {
			s, err := text(pluralID)
			if err != nil {
				return l10n.Data{}, fmt.Errorf("string %d: %w", i, err)
			}
			raw[0] = s
		}
		for _, variant := range bytes.Split(f.str(f.transTab, i), []byte{0}) {
			s, err := text(variant)
			if err != nil {
				return l10n.Data{}, fmt.Errorf("string %d: %w", i, err)
			}
			raw = append(raw, s)
		}
		data.Messages[key] = raw
	}
	return data, nil
}
