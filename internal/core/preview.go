package core

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// DefaultPreviewRows is how many leading rows the preview grid shows.
const DefaultPreviewRows = 100

// PreviewSummary contains the dataset counts shown under the preview grid.
type PreviewSummary struct {
	TotalRows          int `json:"totalRows"`
	TotalColumns       int `json:"totalColumns"`
	NumericColumns     int `json:"numericColumns"`
	CategoricalColumns int `json:"categoricalColumns"`
	DateColumns        int `json:"dateColumns"`
}

// ColumnInfo describes one column for the preview header and selectors.
type ColumnInfo struct {
	Name     string     `json:"name"`
	Kind     ColumnKind `json:"kind"`
	Distinct int        `json:"distinct"`
	Missing  int        `json:"missing"`
}

// Preview is the first rows of a table as display strings plus summary
// counts.
type Preview struct {
	Name        string         `json:"name"`
	Columns     []ColumnInfo   `json:"columns"`
	Rows        [][]string     `json:"rows"`
	Truncated   bool           `json:"truncated"`
	Summary     PreviewSummary `json:"summary"`
	SummaryHTML string         `json:"summaryHtml"`
}

// BuildPreview renders up to limit rows of t (DefaultPreviewRows when
// limit <= 0). Category counts come from cls.
func BuildPreview(t *Table, cls Classification, limit int) *Preview {
	if limit <= 0 {
		limit = DefaultPreviewRows
	}
	n := min(limit, t.NumRows())

	p := &Preview{
		Name:      t.Name,
		Columns:   DescribeColumns(t),
		Rows:      make([][]string, n),
		Truncated: t.NumRows() > n,
		Summary: PreviewSummary{
			TotalRows:          t.NumRows(),
			TotalColumns:       t.NumCols(),
			NumericColumns:     len(cls.Numeric),
			CategoricalColumns: len(cls.Categorical),
			DateColumns:        len(cls.Date),
		},
	}

	for i := 0; i < n; i++ {
		row := make([]string, t.NumCols())
		for c, col := range t.Columns {
			row[c] = col.Label(i)
		}
		p.Rows[i] = row
	}

	p.SummaryHTML = RenderMarkdown(p.Summary.Markdown())
	return p
}

// DescribeColumns lists name, kind and value counts for every column.
func DescribeColumns(t *Table) []ColumnInfo {
	out := make([]ColumnInfo, len(t.Columns))
	for i, col := range t.Columns {
		missing := 0
		for r := 0; r < col.Len(); r++ {
			if col.IsMissing(r) {
				missing++
			}
		}
		out[i] = ColumnInfo{Name: col.Name, Kind: col.Kind, Distinct: col.Distinct, Missing: missing}
	}
	return out
}

// Markdown renders the summary as a bullet list.
func (s PreviewSummary) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "- **Total Rows**: %d\n", s.TotalRows)
	fmt.Fprintf(&b, "- **Total Columns**: %d\n", s.TotalColumns)
	fmt.Fprintf(&b, "- **Numeric Columns**: %d\n", s.NumericColumns)
	fmt.Fprintf(&b, "- **Categorical Columns**: %d\n", s.CategoricalColumns)
	fmt.Fprintf(&b, "- **Date Columns**: %d\n", s.DateColumns)
	return b.String()
}

// RenderMarkdown converts markdown to HTML. Raw HTML in the input is
// dropped.
func RenderMarkdown(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML})
	return string(markdown.ToHTML([]byte(md), p, r))
}
