package charts

import (
	"github.com/JonMunkholm/analyzer/internal/core"
)

func init() {
	core.Register(core.ChartDefinition{
		Type:        core.ChartScatter,
		Label:       "Scatter",
		Required:    []core.Field{core.FieldX, core.FieldY},
		Optional:    []core.Field{core.FieldColor, core.FieldSize, core.FieldColorScale},
		NumericOnly: []core.Field{core.FieldSize},
		Build: func(t *core.Table, cfg core.ChartConfig) (*core.Figure, error) {
			return points(t, cfg, pointOptions{sizeMax: pointSizeMax})
		},
	})

	core.Register(core.ChartDefinition{
		Type:        core.Chart3DScatter,
		Label:       "3D Scatter",
		Required:    []core.Field{core.FieldX, core.FieldY, core.FieldZ},
		Optional:    []core.Field{core.FieldColor, core.FieldSize, core.FieldColorScale},
		NumericOnly: []core.Field{core.FieldZ, core.FieldSize},
		Build: func(t *core.Table, cfg core.ChartConfig) (*core.Figure, error) {
			return points(t, cfg, pointOptions{sizeMax: pointSizeMax, threeD: true})
		},
	})

	core.Register(core.ChartDefinition{
		Type:        core.ChartBubble,
		Label:       "Bubble",
		Required:    []core.Field{core.FieldX, core.FieldY, core.FieldSize},
		Optional:    []core.Field{core.FieldColor, core.FieldSizeMax, core.FieldColorScale},
		NumericOnly: []core.Field{core.FieldSize},
		Build: func(t *core.Table, cfg core.ChartConfig) (*core.Figure, error) {
			return points(t, cfg, pointOptions{sizeMax: cfg.SizeMax, rowHover: true})
		},
	})
}

type pointOptions struct {
	sizeMax  int
	threeD   bool
	rowHover bool // hover label is the row index
}

// points draws one marker per row, split into one trace per color value or
// colored on a continuous scale when the color column is numeric.
func points(t *core.Table, cfg core.ChartConfig, opts pointOptions) (*core.Figure, error) {
	x := mustColumn(t, cfg.X)
	y := mustColumn(t, cfg.Y)
	var z, size *core.Column
	if opts.threeD {
		z = mustColumn(t, cfg.Z)
	}
	if cfg.Size != "" {
		size = mustColumn(t, cfg.Size)
	}

	fig := core.NewFigure()
	traceType := "scatter"
	if opts.threeD {
		traceType = "scatter3d"
		fig.Layout.Scene = &core.Scene{
			XAxis: core.AxisTitle(x.Name),
			YAxis: core.AxisTitle(y.Name),
			ZAxis: core.AxisTitle(z.Name),
		}
	} else {
		fig.Layout.XAxis = core.AxisTitle(x.Name)
		fig.Layout.YAxis = core.AxisTitle(y.Name)
	}

	trace := func(name string, rows []int, marker map[string]any) core.Trace {
		tr := core.Trace{
			"type":   traceType,
			"mode":   "markers",
			"name":   name,
			"x":      core.PlotValues(x, rows),
			"y":      core.PlotValues(y, rows),
			"marker": marker,
		}
		if z != nil {
			tr["z"] = core.PlotValues(z, rows)
		}
		if size != nil {
			applySize(marker, size, rows, opts.sizeMax)
		}
		if opts.rowHover {
			tr["hovertext"] = rowIndices(rows)
			tr["hovertemplate"] = "<b>%{hovertext}</b><br>" + x.Name + "=%{x}<br>" + y.Name + "=%{y}<extra></extra>"
		}
		return tr
	}

	if col, ok := continuousColor(t, cfg); ok {
		rows := splitRows(t, "")[0].rows
		tr := trace("", rows, colorBarMarker(col, rows, cfg))
		tr["showlegend"] = false
		fig.AddTrace(tr)
		return fig, nil
	}

	splits := splitRows(t, cfg.Color)
	for _, s := range splits {
		tr := trace(s.name, s.rows, map[string]any{"color": s.color})
		tr["legendgroup"] = s.name
		tr["showlegend"] = s.name != ""
		fig.AddTrace(tr)
	}
	legendFor(fig, splits, cfg.Color)
	return fig, nil
}
