package core

import (
	"bytes"
	"io"
	"testing"
)

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "file with UTF-8 BOM",
			input:    append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello,world")...),
			expected: "hello,world",
		},
		{
			name:     "file without BOM",
			input:    []byte("hello,world"),
			expected: "hello,world",
		},
		{
			name:     "empty file",
			input:    []byte{},
			expected: "",
		},
		{
			name:     "only BOM",
			input:    []byte{0xEF, 0xBB, 0xBF},
			expected: "",
		},
		{
			name:     "UTF-16LE with BOM",
			input:    []byte{0xFF, 0xFE, 'a', 0, ',', 0, 'b', 0},
			expected: "a,b",
		},
		{
			name:     "UTF-16BE with BOM",
			input:    []byte{0xFE, 0xFF, 0, 'x', 0, '\n', 0, 'y'},
			expected: "x\ny",
		},
		{
			name:     "Windows-1252 euro and accents",
			input:    []byte{'c', 'a', 'f', 0xE9, ',', 0x80, '5'},
			expected: "café,€5",
		},
		{
			name:     "valid multibyte UTF-8 untouched",
			input:    []byte("naïve,日本"),
			expected: "naïve,日本",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeText(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.expected {
				t.Errorf("got %q, want %q", string(got), tt.expected)
			}
		})
	}
}

func TestNewTextReader(t *testing.T) {
	r, err := NewTextReader(bytes.NewReader(append([]byte{0xEF, 0xBB, 0xBF}, "id,name\n1,a\n"...)))
	if err != nil {
		t.Fatalf("NewTextReader() error = %v", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(data) != "id,name\n1,a\n" {
		t.Errorf("got %q", string(data))
	}
}
