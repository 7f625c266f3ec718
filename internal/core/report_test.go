package core

import (
	"bytes"
	"context"
	"encoding/csv"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantile(t *testing.T) {
	data := []float64{1, 2, 3, 4}
	tests := []struct {
		q    float64
		want float64
	}{
		{0, 1}, {0.25, 1.75}, {0.5, 2.5}, {0.75, 3.25}, {1, 4},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Quantile(data, tt.q), 1e-12, "q=%v", tt.q)
	}

	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
	assert.Equal(t, 7.0, Quantile([]float64{7}, 0.75))
}

func TestDescribe(t *testing.T) {
	tbl := mustIngest(t, "orders.csv", ordersCSV)

	r, err := Describe(context.Background(), tbl)
	require.NoError(t, err)
	require.Len(t, r.Columns, 4)

	assert.Equal(t, []string{"region", "channel", "units", "day"}, []string{
		r.Columns[0].Name, r.Columns[1].Name, r.Columns[2].Name, r.Columns[3].Name,
	})

	region := r.Columns[0].Cells
	assert.Equal(t, "6", region["count"])
	assert.Equal(t, "3", region["unique"])
	assert.Equal(t, "North", region["top"])
	assert.Equal(t, "3", region["freq"])
	assert.NotContains(t, region, "mean")

	// units: 10 4 6 1 2 100
	units := r.Columns[2].Cells
	assert.Equal(t, "6", units["count"])
	assert.Equal(t, "20.5", units["mean"])
	assert.Equal(t, "1", units["min"])
	assert.Equal(t, "2.5", units["25%"])
	assert.Equal(t, "5", units["50%"])
	assert.Equal(t, "9", units["75%"])
	assert.Equal(t, "100", units["max"])
	assert.NotContains(t, units, "top")
	assert.Contains(t, units, "std")

	day := r.Columns[3].Cells
	assert.Equal(t, "7", day["count"])
	assert.Equal(t, "2024-01-01 00:00:00", day["min"])
	assert.Equal(t, "2024-01-03 00:00:00", day["max"])
	assert.Equal(t, "2024-01-02 00:00:00", day["50%"])
	assert.NotContains(t, day, "std")
}

func TestDescribe_TopTieGoesToFirstSeen(t *testing.T) {
	tbl := mustIngest(t, "tie.csv", "c\nb\na\na\nb\n")
	r, err := Describe(context.Background(), tbl)
	require.NoError(t, err)
	assert.Equal(t, "b", r.Columns[0].Cells["top"])
	assert.Equal(t, "2", r.Columns[0].Cells["freq"])
}

func TestDescribe_SingleValueHasNoStd(t *testing.T) {
	tbl := mustIngest(t, "one.csv", "n,e\n5,\n")
	r, err := Describe(context.Background(), tbl)
	require.NoError(t, err)

	assert.Equal(t, "5", r.Columns[0].Cells["mean"])
	assert.NotContains(t, r.Columns[0].Cells, "std")
	assert.Equal(t, map[string]string{"count": "0"}, r.Columns[1].Cells)
}

func TestDescribe_Cancelled(t *testing.T) {
	tbl := mustIngest(t, "orders.csv", ordersCSV)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Describe(ctx, tbl)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReportWriteCSV(t *testing.T) {
	tbl := mustIngest(t, "orders.csv", ordersCSV)
	r, err := Describe(context.Background(), tbl)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.WriteCSV(&buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(ReportRows)+1)

	assert.Equal(t, []string{"", "region", "channel", "units", "day"}, records[0])
	for i, name := range ReportRows {
		assert.Equal(t, name, records[i+1][0])
	}
	assert.Equal(t, []string{"mean", "", "", "20.5", "2024-01-02 03:25:42"}, records[5])
}
