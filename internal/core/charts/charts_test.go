package charts

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/analyzer/internal/core"
)

const fixtureCSV = `region,channel,units,price,day,weight
North,web,10,2.5,2024-01-01,3
South,store,4,1.5,2024-01-01,1
North,store,6,3,2024-01-02,2
South,web,8,2,2024-01-02,
East,web,1,4,2024-01-03,5
North,web,2,2.5,2024-01-03,4
`

func fixture(t *testing.T) *core.Table {
	t.Helper()
	tbl, err := core.Ingest("fixture.csv", strings.NewReader(fixtureCSV), core.IngestOptions{})
	require.NoError(t, err)
	return tbl
}

func build(t *testing.T, cfg core.ChartConfig) *core.Figure {
	t.Helper()
	fig, err := core.Build(fixture(t), cfg)
	require.NoError(t, err)
	require.NotNil(t, fig)

	_, err = json.Marshal(fig)
	require.NoError(t, err, "figure must encode as JSON")
	return fig
}

func TestRegistry_AllChartTypes(t *testing.T) {
	var got []string
	for _, def := range core.Charts() {
		got = append(got, def.Label)
	}
	assert.Equal(t, []string{
		"Scatter", "Line", "Bar", "Histogram", "Box",
		"Violin", "Heatmap", "3D Scatter", "Bubble", "Parallel Categories",
	}, got)

	for _, label := range []string{"3D Scatter", "Parallel Categories", "scatter3d", "PARCATS", "bubble"} {
		_, ok := core.LookupChart(label)
		assert.True(t, ok, label)
	}
}

func TestBuild_EveryTypeHasStandardLayout(t *testing.T) {
	configs := []core.ChartConfig{
		{Type: core.ChartScatter, X: "units", Y: "price"},
		{Type: core.ChartLine, X: "day", Y: "units"},
		{Type: core.ChartBar, X: "region", Y: "units"},
		{Type: core.ChartHistogram, X: "units"},
		{Type: core.ChartBox, X: "region", Y: "units"},
		{Type: core.ChartViolin, X: "region", Y: "units"},
		{Type: core.ChartHeatmap, X: "region", Y: "channel"},
		{Type: core.Chart3DScatter, X: "units", Y: "price", Z: "weight"},
		{Type: core.ChartBubble, X: "units", Y: "price", Size: "weight"},
		{Type: core.ChartParcats, X: "region", Y: "channel"},
	}

	for _, cfg := range configs {
		t.Run(string(cfg.Type), func(t *testing.T) {
			fig := build(t, cfg)
			assert.NotEmpty(t, fig.Data)
			assert.Equal(t, 600, fig.Layout.Height)
			assert.Equal(t, core.Margin{L: 20, R: 20, T: 40, B: 20}, fig.Layout.Margin)
			assert.True(t, fig.Layout.ShowLegend)
		})
	}
}

func TestScatter_DiscreteColor(t *testing.T) {
	fig := build(t, core.ChartConfig{Type: core.ChartScatter, X: "units", Y: "price", Color: "region"})

	require.Len(t, fig.Data, 3)
	assert.Equal(t, "North", fig.Data[0]["name"])
	assert.Equal(t, "South", fig.Data[1]["name"])
	assert.Equal(t, "East", fig.Data[2]["name"])
	assert.Equal(t, "#636EFA", fig.Data[0]["marker"].(map[string]any)["color"])
	assert.Equal(t, "#EF553B", fig.Data[1]["marker"].(map[string]any)["color"])
	assert.Len(t, fig.Data[0]["x"], 3)
	assert.Equal(t, "region", fig.Layout.Legend.Title.Text)
}

func TestScatter_ContinuousColor(t *testing.T) {
	fig := build(t, core.ChartConfig{Type: core.ChartScatter, X: "units", Y: "price", Color: "weight", ColorScale: "plasma"})

	require.Len(t, fig.Data, 1)
	marker := fig.Data[0]["marker"].(map[string]any)
	assert.Equal(t, true, marker["showscale"])
	assert.Len(t, marker["color"], 6)
	assert.Nil(t, marker["color"].([]any)[3], "missing weight stays empty")

	stops := marker["colorscale"].([][2]any)
	assert.Equal(t, "#0d0887", stops[0][1])
}

func TestBubble(t *testing.T) {
	fig := build(t, core.ChartConfig{Type: core.ChartBubble, X: "units", Y: "price", Size: "weight", SizeMax: 10})

	tr := fig.Data[0]
	assert.Equal(t, []any{0, 1, 2, 3, 4, 5}, tr["hovertext"])
	marker := tr["marker"].(map[string]any)
	assert.Equal(t, "area", marker["sizemode"])
	assert.InDelta(t, 2*5.0/100, marker["sizeref"], 1e-9)

	_, err := core.Build(fixture(t), core.ChartConfig{Type: core.ChartBubble, X: "units", Y: "price"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrVisualization))
	var ve *core.VizError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, core.FieldSize, ve.Field)
	assert.Equal(t, core.VizHint, ve.Hint())

	_, err = core.Build(fixture(t), core.ChartConfig{Type: core.ChartBubble, X: "units", Y: "price", Size: "region"})
	assert.ErrorIs(t, err, core.ErrVisualization)
}

func TestScatter3D_RequiresNumericZ(t *testing.T) {
	fig := build(t, core.ChartConfig{Type: "3D Scatter", X: "units", Y: "price", Z: "weight"})
	assert.Equal(t, "scatter3d", fig.Data[0]["type"])
	require.NotNil(t, fig.Layout.Scene)
	assert.Equal(t, "weight", fig.Layout.Scene.ZAxis.Title.Text)

	_, err := core.Build(fixture(t), core.ChartConfig{Type: core.Chart3DScatter, X: "units", Y: "price", Z: "region"})
	var ve *core.VizError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, core.FieldZ, ve.Field)
}

func TestLine_Aggregation(t *testing.T) {
	t.Run("non-numeric x defaults to count", func(t *testing.T) {
		fig := build(t, core.ChartConfig{Type: core.ChartLine, X: "region", Y: "units"})
		require.Len(t, fig.Data, 1)
		assert.Equal(t, []any{"East", "North", "South"}, fig.Data[0]["x"])
		assert.Equal(t, []any{1.0, 3.0, 2.0}, fig.Data[0]["y"])
		assert.Equal(t, "units (count)", fig.Layout.YAxis.Title.Text)
	})

	t.Run("sum over dates", func(t *testing.T) {
		fig := build(t, core.ChartConfig{Type: core.ChartLine, X: "day", Y: "units", Aggregation: core.AggSum})
		assert.Equal(t, []any{"2024-01-01", "2024-01-02", "2024-01-03"}, fig.Data[0]["x"])
		assert.Equal(t, []any{14.0, 14.0, 3.0}, fig.Data[0]["y"])
	})

	t.Run("numeric x forces raw", func(t *testing.T) {
		fig := build(t, core.ChartConfig{Type: core.ChartLine, X: "units", Y: "price", Aggregation: core.AggMean})
		assert.Len(t, fig.Data[0]["x"], 6)
		assert.Equal(t, "price", fig.Layout.YAxis.Title.Text)
	})

	t.Run("grouped by color", func(t *testing.T) {
		fig := build(t, core.ChartConfig{Type: core.ChartLine, X: "region", Y: "units", Color: "channel", Aggregation: core.AggSum})
		require.Len(t, fig.Data, 2)
		assert.Equal(t, "store", fig.Data[0]["name"])
		assert.Equal(t, []any{"North", "South"}, fig.Data[0]["x"])
		assert.Equal(t, []any{6.0, 4.0}, fig.Data[0]["y"])
		assert.Equal(t, "web", fig.Data[1]["name"])
		assert.Equal(t, []any{1.0, 12.0, 8.0}, fig.Data[1]["y"])
	})
}

func TestBar_AggregationNeedsNumericY(t *testing.T) {
	_, err := core.Build(fixture(t), core.ChartConfig{Type: core.ChartBar, X: "region", Y: "channel", Aggregation: core.AggMean})
	var ve *core.VizError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, core.FieldAggregation, ve.Field)

	fig := build(t, core.ChartConfig{Type: core.ChartBar, X: "region", Y: "channel", Aggregation: core.AggCount})
	assert.Equal(t, "bar", fig.Data[0]["type"])
	assert.Equal(t, "relative", fig.Layout.BarMode)
}

func TestBar_ContinuousColor(t *testing.T) {
	fig := build(t, core.ChartConfig{Type: core.ChartBar, X: "units", Y: "price", Color: "weight"})
	require.Len(t, fig.Data, 1)
	marker := fig.Data[0]["marker"].(map[string]any)
	assert.Equal(t, true, marker["showscale"])
}

func TestHistogram(t *testing.T) {
	tests := []struct {
		bins, want int
	}{
		{0, 20}, {3, 5}, {42, 42}, {500, 100},
	}
	for _, tt := range tests {
		fig := build(t, core.ChartConfig{Type: core.ChartHistogram, X: "units", Bins: tt.bins})
		require.Len(t, fig.Data, 2)
		assert.Equal(t, tt.want, fig.Data[0]["nbinsx"], "bins %d", tt.bins)
		assert.Equal(t, "box", fig.Data[1]["type"])
		assert.Equal(t, "y2", fig.Data[1]["yaxis"])
		assert.NotContains(t, fig.Data[1], "notched")
	}

	fig := build(t, core.ChartConfig{Type: core.ChartHistogram, X: "units", Color: "channel"})
	assert.Len(t, fig.Data, 4, "histogram and marginal box per color value")
}

func TestViolin_ShowsInnerBox(t *testing.T) {
	fig := build(t, core.ChartConfig{Type: core.ChartViolin, X: "region", Y: "units", Color: "channel"})
	require.Len(t, fig.Data, 2)
	assert.Equal(t, map[string]any{"visible": true}, fig.Data[0]["box"])
	assert.Equal(t, "group", fig.Layout.ViolinMode)
}

func TestHeatmap_CountsPairs(t *testing.T) {
	fig := build(t, core.ChartConfig{Type: core.ChartHeatmap, X: "region", Y: "channel"})
	require.Len(t, fig.Data, 1)
	tr := fig.Data[0]
	assert.Equal(t, "histogram2d", tr["type"])
	assert.Equal(t, "sum", tr["histfunc"])
	assert.Equal(t, []any{"East", "North", "North", "South", "South"}, tr["x"])
	assert.Equal(t, []any{"web", "store", "web", "store", "web"}, tr["y"])
	assert.Equal(t, []any{1, 1, 2, 1, 1}, tr["z"])
	assert.Equal(t, "category", fig.Layout.XAxis.Type)
}

func TestParcats_Dimensions(t *testing.T) {
	fig := build(t, core.ChartConfig{Type: core.ChartParcats, X: "region", Y: "channel"})
	dims := fig.Data[0]["dimensions"].([]map[string]any)
	require.Len(t, dims, 2)
	assert.Equal(t, "region", dims[0]["label"])

	fig = build(t, core.ChartConfig{Type: core.ChartParcats, X: "region", Y: "channel", Color: "weight"})
	dims = fig.Data[0]["dimensions"].([]map[string]any)
	require.Len(t, dims, 3)
	assert.Len(t, dims[2]["values"], 5, "row with missing weight is left out")
}

func TestBuild_Failures(t *testing.T) {
	tests := []struct {
		name  string
		cfg   core.ChartConfig
		field core.Field
	}{
		{"missing x", core.ChartConfig{Type: core.ChartScatter, Y: "price"}, core.FieldX},
		{"missing y", core.ChartConfig{Type: core.ChartBox, X: "region"}, core.FieldY},
		{"unknown column", core.ChartConfig{Type: core.ChartScatter, X: "nope", Y: "price"}, core.FieldX},
		{"unknown scale", core.ChartConfig{Type: core.ChartScatter, X: "units", Y: "price", ColorScale: "rainbow"}, core.FieldColorScale},
		{"bad aggregation", core.ChartConfig{Type: core.ChartBar, X: "region", Y: "units", Aggregation: "mode"}, core.FieldAggregation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fig, err := core.Build(fixture(t), tt.cfg)
			assert.Nil(t, fig)
			var ve *core.VizError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.field, ve.Field)
		})
	}

	_, err := core.Build(fixture(t), core.ChartConfig{Type: "pie", X: "region"})
	assert.ErrorIs(t, err, core.ErrNoVisualization)
}

func TestBuild_DoesNotMutateTable(t *testing.T) {
	tbl := fixture(t)
	before := make(map[string][]string)
	for _, c := range tbl.Columns {
		before[c.Name] = append([]string(nil), c.Raw...)
	}

	for _, def := range core.Charts() {
		cfg := core.ChartConfig{Type: def.Type, X: "region", Y: "units", Z: "price", Size: "weight", Color: "channel"}
		_, _ = core.Build(tbl, cfg)
	}

	for _, c := range tbl.Columns {
		assert.Equal(t, before[c.Name], c.Raw, c.Name)
	}
}
