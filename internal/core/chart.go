package core

// chart.go defines chart configuration and the Build entry point.
//
// Build resolves the chart type through the registry, normalizes the
// configuration against the table (required fields, column kinds, slider
// bounds, aggregation defaults, color scale) and then runs the registered
// builder. Every failure on the way out is a *VizError, including a panic
// inside a builder. Build never mutates the table.

import (
	"errors"
	"fmt"
	"strings"
)

// ChartType identifies a registered chart.
type ChartType string

const (
	ChartScatter   ChartType = "scatter"
	ChartLine      ChartType = "line"
	ChartBar       ChartType = "bar"
	ChartHistogram ChartType = "histogram"
	ChartBox       ChartType = "box"
	ChartViolin    ChartType = "violin"
	ChartHeatmap   ChartType = "heatmap"
	Chart3DScatter ChartType = "scatter3d"
	ChartBubble    ChartType = "bubble"
	ChartParcats   ChartType = "parcats"
)

// chartOrder is the display order of the chart selector.
var chartOrder = []ChartType{
	ChartScatter, ChartLine, ChartBar, ChartHistogram, ChartBox,
	ChartViolin, ChartHeatmap, Chart3DScatter, ChartBubble, ChartParcats,
}

var chartAliases = map[string]ChartType{
	"3dscatter":          Chart3DScatter,
	"scatter3d":          Chart3DScatter,
	"parallelcategories": ChartParcats,
	"parcats":            ChartParcats,
	"densityheatmap":     ChartHeatmap,
}

// ParseChartType canonicalizes a chart type or its display label
// ("3D Scatter", "Parallel Categories").
func ParseChartType(s string) ChartType {
	key := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
	if ct, ok := chartAliases[key]; ok {
		return ct
	}
	return ChartType(key)
}

// Field names a chart configuration input.
type Field string

const (
	FieldX           Field = "x"
	FieldY           Field = "y"
	FieldZ           Field = "z"
	FieldColor       Field = "color"
	FieldSize        Field = "size"
	FieldAggregation Field = "aggregation"
	FieldBins        Field = "bins"
	FieldSizeMax     Field = "sizeMax"
	FieldColorScale  Field = "colorScale"
)

// Slider bounds.
const (
	MinBins        = 5
	MaxBins        = 100
	DefaultBins    = 20
	MinSizeMax     = 10
	MaxSizeMax     = 100
	DefaultSizeMax = 50
)

// ChartConfig is the user's chart selection. Column fields hold column
// names; "" means unset.
type ChartConfig struct {
	Type        ChartType   `json:"type"`
	X           string      `json:"x"`
	Y           string      `json:"y,omitempty"`
	Z           string      `json:"z,omitempty"`
	Color       string      `json:"color,omitempty"`
	Size        string      `json:"size,omitempty"`
	Aggregation Aggregation `json:"aggregation,omitempty"`
	Bins        int         `json:"bins,omitempty"`
	SizeMax     int         `json:"sizeMax,omitempty"`
	ColorScale  string      `json:"colorScale,omitempty"`

	// Scale is the resolved ColorScale, filled in by Build.
	Scale [][2]any `json:"-"`
}

// column returns the column name configured for f.
func (c ChartConfig) column(f Field) string {
	switch f {
	case FieldX:
		return c.X
	case FieldY:
		return c.Y
	case FieldZ:
		return c.Z
	case FieldColor:
		return c.Color
	case FieldSize:
		return c.Size
	}
	return ""
}

func (c *ChartConfig) clearColumn(f Field) {
	switch f {
	case FieldY:
		c.Y = ""
	case FieldZ:
		c.Z = ""
	case FieldColor:
		c.Color = ""
	case FieldSize:
		c.Size = ""
	}
}

var columnFields = []Field{FieldX, FieldY, FieldZ, FieldColor, FieldSize}

// VizHint is shown to the user alongside any visualization failure.
const VizHint = "Try different axis selections or check data types"

var (
	// ErrVisualization marks every chart building failure.
	ErrVisualization = errors.New("error generating visualization")

	// ErrNoVisualization is returned when no figure could be produced.
	ErrNoVisualization = errors.New("could not generate visualization with current parameters")
)

// VizError is a chart building failure attributed to a configuration field
// when one is known.
type VizError struct {
	Field Field
	Err   error
}

func (e *VizError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %v", ErrVisualization, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v", ErrVisualization, e.Err)
}

// Unwrap exposes both ErrVisualization and the underlying cause.
func (e *VizError) Unwrap() []error { return []error{ErrVisualization, e.Err} }

// Hint returns the user-facing remedy.
func (e *VizError) Hint() string { return VizHint }

// NewVizError builds a VizError from a formatted message.
func NewVizError(field Field, format string, args ...any) *VizError {
	return &VizError{Field: field, Err: fmt.Errorf(format, args...)}
}

// BuildFunc renders a normalized configuration into a figure.
type BuildFunc func(t *Table, cfg ChartConfig) (*Figure, error)

// Build renders cfg against t.
func Build(t *Table, cfg ChartConfig) (fig *Figure, err error) {
	def, ok := LookupChart(string(cfg.Type))
	if !ok {
		return nil, fmt.Errorf("%w: unknown chart type %q", ErrNoVisualization, cfg.Type)
	}
	if t == nil {
		return nil, NewVizError("", "no data loaded")
	}

	cfg, err = def.Normalize(t, cfg)
	if err != nil {
		return nil, err
	}

	defer func() {
		if p := recover(); p != nil {
			fig, err = nil, &VizError{Err: fmt.Errorf("%s chart failed: %v", def.Type, p)}
		}
	}()

	fig, err = def.Build(t, cfg)
	if err != nil {
		var ve *VizError
		if !errors.As(err, &ve) {
			err = &VizError{Err: err}
		}
		return nil, err
	}
	if fig == nil {
		return nil, ErrNoVisualization
	}
	return fig, nil
}

// Normalize validates cfg against the definition and t and fills defaults.
// Column fields the chart does not use are cleared.
func (d ChartDefinition) Normalize(t *Table, cfg ChartConfig) (ChartConfig, error) {
	cfg.Type = d.Type

	for _, f := range columnFields {
		name := cfg.column(f)
		if !d.Accepts(f) {
			cfg.clearColumn(f)
			continue
		}
		if name == "" {
			if d.Requires(f) {
				return cfg, NewVizError(f, "a %s column is required for %s charts", f, d.Label)
			}
			continue
		}
		col, ok := t.Column(name)
		if !ok {
			return cfg, NewVizError(f, "column %q not found", name)
		}
		if d.NeedsNumeric(f) && !col.IsNumeric() {
			return cfg, NewVizError(f, "column %q must be numeric", name)
		}
	}

	if d.Accepts(FieldAggregation) {
		agg, err := ParseAggregation(string(cfg.Aggregation))
		if err != nil {
			return cfg, &VizError{Field: FieldAggregation, Err: err}
		}
		x, _ := t.Column(cfg.X)
		switch {
		case x.IsNumeric():
			agg = AggRaw
		case agg == "":
			agg = AggCount
		}
		if agg.NeedsNumeric() {
			if y, _ := t.Column(cfg.Y); !y.IsNumeric() {
				return cfg, NewVizError(FieldAggregation, "%s requires a numeric y column, %q is %s", agg, cfg.Y, y.Kind)
			}
		}
		cfg.Aggregation = agg
	} else {
		cfg.Aggregation = ""
	}

	if d.Accepts(FieldBins) {
		cfg.Bins = clamp(cfg.Bins, MinBins, MaxBins, DefaultBins)
	} else {
		cfg.Bins = 0
	}
	if d.Accepts(FieldSizeMax) {
		cfg.SizeMax = clamp(cfg.SizeMax, MinSizeMax, MaxSizeMax, DefaultSizeMax)
	} else {
		cfg.SizeMax = 0
	}

	scale, err := ColorScale(cfg.ColorScale)
	if err != nil {
		return cfg, &VizError{Field: FieldColorScale, Err: err}
	}
	if cfg.ColorScale == "" {
		cfg.ColorScale = DefaultColorScale
	}
	cfg.Scale = scale

	return cfg, nil
}

// clamp bounds v to [lo, hi]; zero selects def.
func clamp(v, lo, hi, def int) int {
	switch {
	case v == 0:
		return def
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
