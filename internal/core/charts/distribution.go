package charts

import (
	"github.com/JonMunkholm/analyzer/internal/core"
)

// Vertical split between the histogram and its marginal box plot.
var (
	histogramDomain = []float64{0, 0.74}
	marginalDomain  = []float64{0.75, 1}
)

func init() {
	core.Register(core.ChartDefinition{
		Type:     core.ChartHistogram,
		Label:    "Histogram",
		Required: []core.Field{core.FieldX},
		Optional: []core.Field{core.FieldColor, core.FieldBins},
		Build:    histogram,
	})

	core.Register(core.ChartDefinition{
		Type:     core.ChartBox,
		Label:    "Box",
		Required: []core.Field{core.FieldX, core.FieldY},
		Optional: []core.Field{core.FieldColor},
		Build: func(t *core.Table, cfg core.ChartConfig) (*core.Figure, error) {
			return spread(t, cfg, "box")
		},
	})

	core.Register(core.ChartDefinition{
		Type:     core.ChartViolin,
		Label:    "Violin",
		Required: []core.Field{core.FieldX, core.FieldY},
		Optional: []core.Field{core.FieldColor},
		Build: func(t *core.Table, cfg core.ChartConfig) (*core.Figure, error) {
			return spread(t, cfg, "violin")
		},
	})
}

// histogram bins x into cfg.Bins bars per color value and adds a box plot
// of the same values above the bars.
func histogram(t *core.Table, cfg core.ChartConfig) (*core.Figure, error) {
	x := mustColumn(t, cfg.X)

	fig := core.NewFigure()
	fig.Layout.BarMode = "relative"
	fig.Layout.XAxis = core.AxisTitle(x.Name)
	fig.Layout.YAxis = &core.Axis{Title: &core.Text{Text: "count"}, Domain: histogramDomain}
	hide := false
	fig.Layout.YAxis2 = &core.Axis{Domain: marginalDomain, ShowTickLabels: &hide}

	splits := splitRows(t, cfg.Color)
	for _, s := range splits {
		values := core.PlotValues(x, s.rows)
		fig.AddTrace(core.Trace{
			"type":        "histogram",
			"name":        s.name,
			"x":           values,
			"nbinsx":      cfg.Bins,
			"bingroup":    "x",
			"marker":      map[string]any{"color": s.color},
			"legendgroup": s.name,
			"showlegend":  s.name != "",
			"xaxis":       "x",
			"yaxis":       "y",
		})
		fig.AddTrace(core.Trace{
			"type":        "box",
			"name":        s.name,
			"x":           values,
			"marker":      map[string]any{"color": s.color},
			"legendgroup": s.name,
			"showlegend":  false,
			"xaxis":       "x",
			"yaxis":       "y2",
		})
	}
	legendFor(fig, splits, cfg.Color)
	return fig, nil
}

// spread draws box or violin plots of y per x, one trace per color value.
func spread(t *core.Table, cfg core.ChartConfig, kind string) (*core.Figure, error) {
	x := mustColumn(t, cfg.X)
	y := mustColumn(t, cfg.Y)

	fig := core.NewFigure()
	fig.Layout.XAxis = core.AxisTitle(x.Name)
	fig.Layout.YAxis = core.AxisTitle(y.Name)

	splits := splitRows(t, cfg.Color)
	for _, s := range splits {
		tr := core.Trace{
			"type":        kind,
			"name":        s.name,
			"x":           core.PlotValues(x, s.rows),
			"y":           core.PlotValues(y, s.rows),
			"marker":      map[string]any{"color": s.color},
			"legendgroup": s.name,
			"showlegend":  s.name != "",
		}
		if s.name != "" {
			tr["offsetgroup"] = s.name
		}
		if kind == "violin" {
			tr["box"] = map[string]any{"visible": true}
		}
		fig.AddTrace(tr)
	}

	if cfg.Color != "" {
		if kind == "violin" {
			fig.Layout.ViolinMode = "group"
		} else {
			fig.Layout.BoxMode = "group"
		}
	}
	legendFor(fig, splits, cfg.Color)
	return fig, nil
}
