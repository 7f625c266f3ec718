package core

import (
	"testing"
	"time"
)

// ----------------------------------------------------------------------------
// ParseNumber Tests
// ----------------------------------------------------------------------------

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantOK bool
		want   float64
	}{
		{name: "positive integer", input: "123", wantOK: true, want: 123},
		{name: "zero", input: "0", wantOK: true, want: 0},
		{name: "negative integer", input: "-456", wantOK: true, want: -456},
		{name: "decimal number", input: "123.45", wantOK: true, want: 123.45},
		{name: "leading decimal point", input: ".99", wantOK: true, want: 0.99},
		{name: "trailing decimal point", input: "99.", wantOK: true, want: 99},
		{name: "explicit plus", input: "+7", wantOK: true, want: 7},
		{name: "surrounding whitespace", input: "  42  ", wantOK: true, want: 42},

		{name: "dollar sign", input: "$1,234.56", wantOK: true, want: 1234.56},
		{name: "euro sign", input: "€1234.56", wantOK: true, want: 1234.56},
		{name: "pound sign", input: "£1234.56", wantOK: true, want: 1234.56},
		{name: "thousands separator", input: "1,234,567.89", wantOK: true, want: 1234567.89},

		{name: "accounting negative parentheses", input: "(123.45)", wantOK: true, want: -123.45},
		{name: "accounting negative with currency", input: "($1,234.56)", wantOK: true, want: -1234.56},
		{name: "accounting negative with spaces", input: "( 999.99 )", wantOK: true, want: -999.99},

		{name: "scientific notation", input: "1.5e10", wantOK: true, want: 1.5e10},
		{name: "negative exponent", input: "2E-3", wantOK: true, want: 0.002},

		{name: "empty", input: "", wantOK: false},
		{name: "whitespace only", input: "   ", wantOK: false},
		{name: "percent is not a number", input: "12.5%", wantOK: false},
		{name: "text", input: "abc", wantOK: false},
		{name: "mixed", input: "12abc", wantOK: false},
		{name: "iso date", input: "2024-01-15", wantOK: false},
		{name: "slash date", input: "1/15/2024", wantOK: false},
		{name: "double dot", input: "1.2.3", wantOK: false},
		{name: "bare sign", input: "-", wantOK: false},
		{name: "infinity word", input: "inf", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseNumber(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseNumber(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// ParseDate Tests
// ----------------------------------------------------------------------------

func TestParseDate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantOK bool
		want   time.Time
	}{
		{name: "ISO", input: "2024-01-15", wantOK: true, want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{name: "ISO slashes", input: "2024/01/15", wantOK: true, want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{name: "US", input: "1/15/2024", wantOK: true, want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{name: "US padded", input: "01/15/2024", wantOK: true, want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{name: "month name", input: "Jan 15, 2024", wantOK: true, want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{name: "long month name", input: "January 15, 2024", wantOK: true, want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{name: "day month year", input: "15 Jan 2024", wantOK: true, want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{name: "two digit year", input: "1/15/24", wantOK: true, want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{name: "datetime", input: "2024-01-15 13:45:00", wantOK: true, want: time.Date(2024, 1, 15, 13, 45, 0, 0, time.UTC)},
		{name: "RFC3339", input: "2024-01-15T13:45:00Z", wantOK: true, want: time.Date(2024, 1, 15, 13, 45, 0, 0, time.UTC)},
		{name: "RFC3339 offset", input: "2024-01-15T13:45:00+02:00", wantOK: true, want: time.Date(2024, 1, 15, 11, 45, 0, 0, time.UTC)},

		{name: "empty", input: "", wantOK: false},
		{name: "number", input: "12345", wantOK: false},
		{name: "text", input: "yesterday", wantOK: false},
		{name: "invalid month", input: "2024-13-01", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseDate(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// CleanCell / IsMissingToken Tests
// ----------------------------------------------------------------------------

func TestCleanCell(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  hello  ", "hello"},
		{`="00123"`, "00123"},
		{`"quoted"`, "quoted"},
		{`'single'`, "single"},
		{`"`, `"`},
		{"", ""},
		{"a\"b", "a\"b"},
	}
	for _, tt := range tests {
		if got := CleanCell(tt.input); got != tt.want {
			t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsMissingToken(t *testing.T) {
	for _, s := range []string{"", "NA", "n/a", "NaN", "null", "None", "#N/A"} {
		if !IsMissingToken(s) {
			t.Errorf("IsMissingToken(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"0", "nothing", "N", "-"} {
		if IsMissingToken(s) {
			t.Errorf("IsMissingToken(%q) = true, want false", s)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[float64]string{
		3:       "3",
		2.5:     "2.5",
		-0.125:  "-0.125",
		1000000: "1000000",
	}
	for in, want := range tests {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%v) = %q, want %q", in, got, want)
		}
	}
}
