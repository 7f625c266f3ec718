package core

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ordersCSV = `region,channel,units,day
North,web,10,2024-01-02
South,store,4,2024-01-01
North,store,6,2024-01-02
South,web,,2024-01-01
East,web,1,2024-01-03
North,web,2,2024-01-03
,web,100,2024-01-03
`

func mustIngest(t *testing.T, name, content string) *Table {
	t.Helper()
	tbl, err := Ingest(name, strings.NewReader(content), IngestOptions{})
	require.NoError(t, err)
	return tbl
}

func groupValues(g *Grouped) map[string]float64 {
	out := make(map[string]float64, len(g.Groups))
	for _, grp := range g.Groups {
		key := grp.X.(string)
		if grp.Color != nil {
			key += "/" + grp.Color.(string)
		}
		out[key] = grp.Value
	}
	return out
}

func TestGroupReduce(t *testing.T) {
	tbl := mustIngest(t, "orders.csv", ordersCSV)

	tests := []struct {
		agg  Aggregation
		want map[string]float64
	}{
		{AggCount, map[string]float64{"East": 1, "North": 3, "South": 1}},
		{AggSum, map[string]float64{"East": 1, "North": 18, "South": 4}},
		{AggMean, map[string]float64{"East": 1, "North": 6, "South": 4}},
		{AggMedian, map[string]float64{"East": 1, "North": 6, "South": 4}},
	}

	for _, tt := range tests {
		t.Run(string(tt.agg), func(t *testing.T) {
			g, err := GroupReduce(tbl, "region", "units", "", tt.agg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, groupValues(g))
		})
	}
}

func TestGroupReduce_SortedKeys(t *testing.T) {
	tbl := mustIngest(t, "orders.csv", ordersCSV)

	g, err := GroupReduce(tbl, "region", "units", "", AggCount)
	require.NoError(t, err)

	var keys []string
	for _, grp := range g.Groups {
		keys = append(keys, grp.X.(string))
	}
	assert.Equal(t, []string{"East", "North", "South"}, keys)

	g, err = GroupReduce(tbl, "day", "units", "", AggSum)
	require.NoError(t, err)
	require.Len(t, g.Groups, 3)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), g.Groups[0].X)
	assert.Equal(t, 4.0, g.Groups[0].Value)
	assert.Equal(t, 103.0, g.Groups[2].Value)
}

func TestGroupReduce_WithColor(t *testing.T) {
	tbl := mustIngest(t, "orders.csv", ordersCSV)

	g, err := GroupReduce(tbl, "region", "units", "channel", AggSum)
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{
		"East/web":    1,
		"North/store": 6,
		"North/web":   12,
		"South/store": 4,
		"South/web":   0,
	}, groupValues(g))
	assert.Equal(t, "North", g.Groups[1].X)
	assert.Equal(t, "store", g.Groups[1].Color)
}

func TestGroupReduce_EmptyGroupMeanIsNaN(t *testing.T) {
	tbl := mustIngest(t, "orders.csv", ordersCSV)

	g, err := GroupReduce(tbl, "region", "units", "channel", AggMean)
	require.NoError(t, err)
	for _, grp := range g.Groups {
		if grp.X == "South" && grp.Color == "web" {
			assert.True(t, math.IsNaN(grp.Value))
		}
	}
}

func TestGroupReduce_Errors(t *testing.T) {
	tbl := mustIngest(t, "orders.csv", ordersCSV)

	tests := []struct {
		name    string
		x, y    string
		agg     Aggregation
		wantErr string
	}{
		{"sum of text", "region", "channel", AggSum, "non-numeric"},
		{"unknown x", "nope", "units", AggCount, "not found"},
		{"unknown y", "region", "nope", AggCount, "not found"},
		{"empty y", "region", "", AggCount, "no column selected"},
		{"raw is not a reduction", "region", "units", AggRaw, "unsupported aggregation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GroupReduce(tbl, tt.x, tt.y, "", tt.agg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	g, err := GroupReduce(tbl, "region", "channel", "", AggCount)
	require.NoError(t, err, "count works on any column")
	assert.Len(t, g.Groups, 3)
}

func TestCountPairs(t *testing.T) {
	tbl := mustIngest(t, "orders.csv", ordersCSV)

	pc, err := CountPairs(tbl, "region", "channel")
	require.NoError(t, err)

	got := map[string]int{}
	total := 0
	for _, p := range pc.Pairs {
		got[p.X.(string)+"/"+p.Y.(string)] = p.Count
		total += p.Count
	}
	assert.Equal(t, map[string]int{
		"East/web":    1,
		"North/store": 1,
		"North/web":   2,
		"South/store": 1,
		"South/web":   1,
	}, got)
	assert.Equal(t, 6, total, "row with missing region is dropped")
	assert.Equal(t, "East", pc.Pairs[0].X)
}

func TestParseAggregation(t *testing.T) {
	for in, want := range map[string]Aggregation{"": "", "Mean": AggMean, " sum ": AggSum, "RAW": AggRaw} {
		got, err := ParseAggregation(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseAggregation("mode")
	assert.Error(t, err)
}

func TestCompareValues(t *testing.T) {
	d1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)

	assert.Negative(t, CompareValues(2.0, 10.0))
	assert.Positive(t, CompareValues("b", "a"))
	assert.Zero(t, CompareValues("a", "a"))
	assert.Negative(t, CompareValues(d1, d2))
	assert.Negative(t, CompareValues(nil, 1.0))
	assert.Negative(t, CompareValues(1.0, "1"))
}
