package charts

import (
	"github.com/JonMunkholm/analyzer/internal/core"
)

// pointSizeMax is the largest marker diameter, in pixels, for sized
// scatter points when the chart has no size slider.
const pointSizeMax = 20

// split is one discrete color group of rows.
type split struct {
	name  string // "" when there is no color column
	color string
	rows  []int
}

// splitRows partitions rows by the color column in order of first
// appearance. Rows with a missing color cell are dropped. Without a color
// column there is a single split holding every row.
func splitRows(t *core.Table, color string) []split {
	n := t.NumRows()
	col, ok := t.Column(color)
	if color == "" || !ok {
		rows := make([]int, n)
		for i := range rows {
			rows[i] = i
		}
		return []split{{color: core.DiscreteColor(0), rows: rows}}
	}

	index := make(map[string]int)
	var out []split
	for i := 0; i < n; i++ {
		if col.IsMissing(i) {
			continue
		}
		label := col.Label(i)
		j, seen := index[label]
		if !seen {
			j = len(out)
			index[label] = j
			out = append(out, split{name: label, color: core.DiscreteColor(j)})
		}
		out[j].rows = append(out[j].rows, i)
	}
	return out
}

// continuousColor returns the color column when it should be encoded on a
// continuous scale.
func continuousColor(t *core.Table, cfg core.ChartConfig) (*core.Column, bool) {
	if cfg.Color == "" {
		return nil, false
	}
	col, ok := t.Column(cfg.Color)
	if !ok || !col.IsNumeric() {
		return nil, false
	}
	return col, true
}

// colorBarMarker encodes col on the configured continuous scale.
func colorBarMarker(col *core.Column, rows []int, cfg core.ChartConfig) map[string]any {
	return map[string]any{
		"color":      core.PlotValues(col, rows),
		"colorscale": cfg.Scale,
		"showscale":  true,
		"colorbar":   map[string]any{"title": map[string]any{"text": col.Name}},
	}
}

// applySize sets area-scaled marker sizes so the largest value in the
// column is drawn sizeMax pixels across.
func applySize(marker map[string]any, col *core.Column, rows []int, sizeMax int) {
	peak := 0.0
	for i := 0; i < col.Len(); i++ {
		if !col.IsMissing(i) && col.Numbers[i] > peak {
			peak = col.Numbers[i]
		}
	}
	ref := 1.0
	if peak > 0 {
		ref = 2 * peak / float64(sizeMax*sizeMax)
	}
	marker["size"] = core.PlotValues(col, rows)
	marker["sizemode"] = "area"
	marker["sizeref"] = ref
	marker["sizemin"] = 1
}

// legendFor titles the legend with the color column of discrete splits.
func legendFor(fig *core.Figure, splits []split, color string) {
	if color != "" && len(splits) > 0 {
		fig.Layout.Legend = &core.Legend{Title: &core.Text{Text: color}}
	}
}

func mustColumn(t *core.Table, name string) *core.Column {
	col, ok := t.Column(name)
	if !ok {
		panic("column " + name + " disappeared after validation")
	}
	return col
}

func rowIndices(rows []int) []any {
	out := make([]any, len(rows))
	for j, i := range rows {
		out[j] = i
	}
	return out
}
