package core

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// ColumnKind is the semantic type assigned to a column at ingestion.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindNumeric
	KindDate
	KindCategorical
)

// String returns the lower-case kind name used in JSON and templates.
func (k ColumnKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindDate:
		return "date"
	case KindCategorical:
		return "categorical"
	default:
		return "text"
	}
}

// MarshalText lets ColumnKind serialize as its name.
func (k ColumnKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name written by MarshalText.
func (k *ColumnKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "numeric":
		*k = KindNumeric
	case "date":
		*k = KindDate
	case "categorical":
		*k = KindCategorical
	case "text":
		*k = KindText
	default:
		return fmt.Errorf("unknown column kind %q", b)
	}
	return nil
}

// Column is one named, homogeneously typed column of a Table.
//
// Raw always holds the cleaned cell text ("" for missing). Numbers is
// populated for KindNumeric (NaN for missing), Times for KindDate (zero
// time for missing).
type Column struct {
	Name     string
	Kind     ColumnKind
	Raw      []string
	Numbers  []float64
	Times    []time.Time
	Distinct int // distinct non-missing values
}

// Len returns the number of cells in the column.
func (c *Column) Len() int { return len(c.Raw) }

// IsNumeric reports whether the column holds numbers.
func (c *Column) IsNumeric() bool { return c.Kind == KindNumeric }

// IsMissing reports whether row i has no value.
func (c *Column) IsMissing(i int) bool {
	switch c.Kind {
	case KindNumeric:
		return math.IsNaN(c.Numbers[i])
	case KindDate:
		return c.Times[i].IsZero()
	default:
		return c.Raw[i] == ""
	}
}

// Value returns the typed value at row i: float64, time.Time, string or nil.
func (c *Column) Value(i int) any {
	if c.IsMissing(i) {
		return nil
	}
	switch c.Kind {
	case KindNumeric:
		return c.Numbers[i]
	case KindDate:
		return c.Times[i]
	default:
		return c.Raw[i]
	}
}

// Label returns the display text of row i, "" when missing.
func (c *Column) Label(i int) string {
	if c.IsMissing(i) {
		return ""
	}
	switch c.Kind {
	case KindNumeric:
		return FormatNumber(c.Numbers[i])
	case KindDate:
		return FormatTime(c.Times[i])
	default:
		return c.Raw[i]
	}
}

// FormatNumber renders a float without a trailing ".0" for integers.
func FormatNumber(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatTime renders a date, adding the clock only when it is not midnight.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}

// Table is a loaded dataset. It is immutable once Ingest returns it.
type Table struct {
	Name    string // source file name
	Columns []*Column
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	if t == nil || len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	if t == nil {
		return 0
	}
	return len(t.Columns)
}

// Names returns column names in table order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by exact name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}
