package charts

import (
	"github.com/JonMunkholm/analyzer/internal/core"
)

func init() {
	core.Register(core.ChartDefinition{
		Type:     core.ChartHeatmap,
		Label:    "Heatmap",
		Required: []core.Field{core.FieldX, core.FieldY},
		Optional: []core.Field{core.FieldColorScale},
		Build:    heatmap,
	})

	core.Register(core.ChartDefinition{
		Type:     core.ChartParcats,
		Label:    "Parallel Categories",
		Required: []core.Field{core.FieldX, core.FieldY},
		Optional: []core.Field{core.FieldColor, core.FieldColorScale},
		Build:    parcats,
	})
}

// heatmap counts rows per (x, y) pair and renders the counts as a 2D
// density grid.
func heatmap(t *core.Table, cfg core.ChartConfig) (*core.Figure, error) {
	pc, err := core.CountPairs(t, cfg.X, cfg.Y)
	if err != nil {
		return nil, err
	}
	if len(pc.Pairs) == 0 {
		return nil, core.NewVizError(core.FieldY, "no rows have both %q and %q", cfg.X, cfg.Y)
	}

	xs := make([]any, len(pc.Pairs))
	ys := make([]any, len(pc.Pairs))
	zs := make([]any, len(pc.Pairs))
	for i, p := range pc.Pairs {
		xs[i] = core.PlotKey(p.X)
		ys[i] = core.PlotKey(p.Y)
		zs[i] = p.Count
	}

	fig := core.NewFigure()
	fig.Layout.XAxis = densityAxis(t, cfg.X)
	fig.Layout.YAxis = densityAxis(t, cfg.Y)
	fig.AddTrace(core.Trace{
		"type":       "histogram2d",
		"x":          xs,
		"y":          ys,
		"z":          zs,
		"histfunc":   "sum",
		"colorscale": cfg.Scale,
		"colorbar":   map[string]any{"title": map[string]any{"text": "count"}},
	})
	return fig, nil
}

// densityAxis keeps text keys on a category axis so label order matches
// the sorted pair order.
func densityAxis(t *core.Table, name string) *core.Axis {
	axis := core.AxisTitle(name)
	if col := mustColumn(t, name); col.Kind == core.KindText || col.Kind == core.KindCategorical {
		axis.Type = "category"
	}
	return axis
}

// parcats draws a parallel categories diagram over x, y and, when set, the
// color column. Rows missing any dimension are left out.
func parcats(t *core.Table, cfg core.ChartConfig) (*core.Figure, error) {
	names := []string{cfg.X, cfg.Y}
	if cfg.Color != "" {
		names = append(names, cfg.Color)
	}

	cols := make([]*core.Column, len(names))
	for i, name := range names {
		cols[i] = mustColumn(t, name)
	}

	var rows []int
	for i := 0; i < t.NumRows(); i++ {
		complete := true
		for _, c := range cols {
			if c.IsMissing(i) {
				complete = false
				break
			}
		}
		if complete {
			rows = append(rows, i)
		}
	}
	if len(rows) == 0 {
		return nil, core.NewVizError(core.FieldX, "no rows have a value in every dimension")
	}

	dims := make([]map[string]any, len(cols))
	for i, c := range cols {
		labels := make([]string, len(rows))
		for j, r := range rows {
			labels[j] = c.Label(r)
		}
		dims[i] = map[string]any{"label": c.Name, "values": labels}
	}

	fig := core.NewFigure()
	fig.AddTrace(core.Trace{
		"type":       "parcats",
		"dimensions": dims,
		"line":       map[string]any{"colorscale": cfg.Scale},
	})
	return fig, nil
}
