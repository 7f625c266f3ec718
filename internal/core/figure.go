package core

import (
	"math"
	"time"
)

// Figure layout defaults applied to every chart.
const (
	DefaultChartHeight = 600
	marginSide         = 20
	marginTop          = 40
	marginBottom       = 20
)

// Figure is a Plotly figure: a list of traces and a layout. It marshals to
// the JSON accepted by Plotly.newPlot.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one Plotly trace. The attribute set differs per trace type, so
// traces stay untyped maps.
type Trace map[string]any

// Text is a Plotly title object.
type Text struct {
	Text string `json:"text"`
}

// Margin holds figure margins in pixels.
type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

// Axis is the subset of Plotly axis attributes the builders set.
type Axis struct {
	Title          *Text     `json:"title,omitempty"`
	Domain         []float64 `json:"domain,omitempty"`
	ShowTickLabels *bool     `json:"showticklabels,omitempty"`
	Type           string    `json:"type,omitempty"`
}

// Scene is the 3D axis container.
type Scene struct {
	XAxis *Axis `json:"xaxis,omitempty"`
	YAxis *Axis `json:"yaxis,omitempty"`
	ZAxis *Axis `json:"zaxis,omitempty"`
}

// Legend configures the legend box.
type Legend struct {
	Title *Text `json:"title,omitempty"`
}

// Layout is the Plotly layout.
type Layout struct {
	Title      *Text   `json:"title,omitempty"`
	Height     int     `json:"height"`
	Margin     Margin  `json:"margin"`
	ShowLegend bool    `json:"showlegend"`
	Legend     *Legend `json:"legend,omitempty"`
	BarMode    string  `json:"barmode,omitempty"`
	BoxMode    string  `json:"boxmode,omitempty"`
	ViolinMode string  `json:"violinmode,omitempty"`
	XAxis      *Axis   `json:"xaxis,omitempty"`
	YAxis      *Axis   `json:"yaxis,omitempty"`
	YAxis2     *Axis   `json:"yaxis2,omitempty"`
	Scene      *Scene  `json:"scene,omitempty"`
}

// NewFigure returns an empty figure carrying the standard layout.
func NewFigure() *Figure {
	return &Figure{
		Data: []Trace{},
		Layout: Layout{
			Height:     DefaultChartHeight,
			Margin:     Margin{L: marginSide, R: marginSide, T: marginTop, B: marginBottom},
			ShowLegend: true,
		},
	}
}

// AddTrace appends a trace.
func (f *Figure) AddTrace(t Trace) {
	f.Data = append(f.Data, t)
}

// AxisTitle builds an axis labelled with a column name.
func AxisTitle(name string) *Axis {
	return &Axis{Title: &Text{Text: name}}
}

// PlotValue returns row i of c in the form Plotly expects: a number, a
// date string, text, or nil for a missing cell.
func PlotValue(c *Column, i int) any {
	if c.IsMissing(i) {
		return nil
	}
	switch c.Kind {
	case KindNumeric:
		return c.Numbers[i]
	case KindDate:
		return FormatTime(c.Times[i])
	default:
		return c.Raw[i]
	}
}

// PlotValues returns PlotValue for the given rows, or for every row when
// rows is nil.
func PlotValues(c *Column, rows []int) []any {
	if rows == nil {
		out := make([]any, c.Len())
		for i := range out {
			out[i] = PlotValue(c, i)
		}
		return out
	}
	out := make([]any, len(rows))
	for j, i := range rows {
		out[j] = PlotValue(c, i)
	}
	return out
}

// PlotKey converts a grouping key from GroupReduce or CountPairs to its
// plotted form.
func PlotKey(v any) any {
	switch k := v.(type) {
	case nil:
		return nil
	case float64:
		return Number(k)
	case string:
		return k
	default:
		return KeyLabel(v)
	}
}

// KeyLabel renders a grouping key as text.
func KeyLabel(v any) string {
	switch k := v.(type) {
	case nil:
		return ""
	case float64:
		return FormatNumber(k)
	case time.Time:
		return FormatTime(k)
	case string:
		return k
	default:
		return ""
	}
}

// Number maps NaN and infinities to nil so the value survives JSON encoding.
func Number(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}
