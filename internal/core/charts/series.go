package charts

import (
	"fmt"
	"sort"

	"github.com/JonMunkholm/analyzer/internal/core"
)

func init() {
	core.Register(core.ChartDefinition{
		Type:     core.ChartLine,
		Label:    "Line",
		Required: []core.Field{core.FieldX, core.FieldY},
		Optional: []core.Field{core.FieldColor, core.FieldAggregation},
		Build: func(t *core.Table, cfg core.ChartConfig) (*core.Figure, error) {
			return series(t, cfg, "line")
		},
	})

	core.Register(core.ChartDefinition{
		Type:     core.ChartBar,
		Label:    "Bar",
		Required: []core.Field{core.FieldX, core.FieldY},
		Optional: []core.Field{core.FieldColor, core.FieldAggregation, core.FieldColorScale},
		Build: func(t *core.Table, cfg core.ChartConfig) (*core.Figure, error) {
			return series(t, cfg, "bar")
		},
	})
}

// series draws line and bar charts. With an aggregation other than raw the
// rows are first grouped by x (and color) and y is reduced per group.
func series(t *core.Table, cfg core.ChartConfig, kind string) (*core.Figure, error) {
	fig := core.NewFigure()
	fig.Layout.XAxis = core.AxisTitle(cfg.X)
	fig.Layout.YAxis = core.AxisTitle(cfg.Y)
	if kind == "bar" {
		fig.Layout.BarMode = "relative"
	}

	if cfg.Aggregation != "" && cfg.Aggregation != core.AggRaw {
		return aggregatedSeries(t, cfg, kind, fig)
	}

	x := mustColumn(t, cfg.X)
	y := mustColumn(t, cfg.Y)

	if col, ok := continuousColor(t, cfg); ok && kind == "bar" {
		rows := splitRows(t, "")[0].rows
		fig.AddTrace(seriesTrace(kind, "", core.PlotValues(x, rows), core.PlotValues(y, rows), colorBarMarker(col, rows, cfg)))
		return fig, nil
	}

	splits := splitRows(t, cfg.Color)
	for _, s := range splits {
		tr := seriesTrace(kind, s.name, core.PlotValues(x, s.rows), core.PlotValues(y, s.rows), map[string]any{"color": s.color})
		if kind == "line" {
			tr["line"] = map[string]any{"color": s.color}
		}
		fig.AddTrace(tr)
	}
	legendFor(fig, splits, cfg.Color)
	return fig, nil
}

func aggregatedSeries(t *core.Table, cfg core.ChartConfig, kind string, fig *core.Figure) (*core.Figure, error) {
	g, err := core.GroupReduce(t, cfg.X, cfg.Y, cfg.Color, cfg.Aggregation)
	if err != nil {
		return nil, &core.VizError{Field: core.FieldAggregation, Err: err}
	}
	if len(g.Groups) == 0 {
		return nil, core.NewVizError(core.FieldX, "no rows with a value in %q", cfg.X)
	}
	fig.Layout.YAxis = core.AxisTitle(fmt.Sprintf("%s (%s)", cfg.Y, cfg.Aggregation))

	if cfg.Color == "" {
		xs, ys := groupSeries(g.Groups)
		fig.AddTrace(seriesTrace(kind, "", xs, ys, map[string]any{"color": core.DiscreteColor(0)}))
		return fig, nil
	}

	if col, ok := continuousColor(t, cfg); ok && kind == "bar" {
		xs, ys := groupSeries(g.Groups)
		colors := make([]any, len(g.Groups))
		for i, grp := range g.Groups {
			colors[i] = core.PlotKey(grp.Color)
		}
		fig.AddTrace(seriesTrace(kind, "", xs, ys, map[string]any{
			"color":      colors,
			"colorscale": cfg.Scale,
			"showscale":  true,
			"colorbar":   map[string]any{"title": map[string]any{"text": col.Name}},
		}))
		return fig, nil
	}

	// One trace per color value, in key order.
	byColor := make(map[string][]core.Group)
	keys := make(map[string]any)
	for _, grp := range g.Groups {
		label := core.KeyLabel(grp.Color)
		byColor[label] = append(byColor[label], grp)
		keys[label] = grp.Color
	}
	labels := make([]string, 0, len(byColor))
	for label := range byColor {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		return core.CompareValues(keys[labels[i]], keys[labels[j]]) < 0
	})

	for i, label := range labels {
		color := core.DiscreteColor(i)
		xs, ys := groupSeries(byColor[label])
		tr := seriesTrace(kind, label, xs, ys, map[string]any{"color": color})
		if kind == "line" {
			tr["line"] = map[string]any{"color": color}
		}
		fig.AddTrace(tr)
	}
	fig.Layout.Legend = &core.Legend{Title: &core.Text{Text: cfg.Color}}
	return fig, nil
}

func groupSeries(groups []core.Group) (xs, ys []any) {
	xs = make([]any, len(groups))
	ys = make([]any, len(groups))
	for i, grp := range groups {
		xs[i] = core.PlotKey(grp.X)
		ys[i] = core.Number(grp.Value)
	}
	return xs, ys
}

func seriesTrace(kind, name string, xs, ys []any, marker map[string]any) core.Trace {
	tr := core.Trace{
		"name":       name,
		"x":          xs,
		"y":          ys,
		"marker":     marker,
		"showlegend": name != "",
	}
	if name != "" {
		tr["legendgroup"] = name
	}
	switch kind {
	case "line":
		tr["type"] = "scatter"
		tr["mode"] = "lines"
	default:
		tr["type"] = "bar"
	}
	return tr
}
