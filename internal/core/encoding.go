package core

// encoding.go normalizes the byte encoding of uploaded CSV files before
// they reach encoding/csv.
//
// Spreadsheet tools produce a handful of encodings in practice:
//   - UTF-8 with a BOM (Excel "CSV UTF-8")
//   - UTF-16 with a BOM (Excel "Unicode Text")
//   - Windows-1252 (Excel "CSV" on Western Windows locales)
//
// DecodeText maps all of them to plain UTF-8.

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DecodeText converts raw file bytes to UTF-8 without a BOM.
// Data with a BOM is decoded according to it; data that is not valid
// UTF-8 is assumed to be Windows-1252.
func DecodeText(data []byte) ([]byte, error) {
	var t transform.Transformer
	switch {
	case bytes.HasPrefix(data, bomUTF8), bytes.HasPrefix(data, bomUTF16LE), bytes.HasPrefix(data, bomUTF16BE):
		t = unicode.BOMOverride(unicode.UTF8.NewDecoder())
	case utf8.Valid(data):
		return data, nil
	default:
		t = charmap.Windows1252.NewDecoder()
	}

	out, _, err := transform.Bytes(t, data)
	if err != nil {
		return nil, fmt.Errorf("encoding error: %w", err)
	}
	return out, nil
}

// NewTextReader reads all of r and returns a reader over its UTF-8 form.
func NewTextReader(r io.Reader) (io.Reader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	decoded, err := DecodeText(data)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(decoded), nil
}
