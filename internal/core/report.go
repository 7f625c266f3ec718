package core

// report.go builds the downloadable descriptive-statistics report: one
// column per table column and one row per statistic, in the layout of a
// describe-all summary. Statistics that do not apply to a column kind are
// left blank.

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"runtime"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// ReportFileName is the download name of the report.
const ReportFileName = "data_report.csv"

// ReportRows are the statistic rows, in output order.
var ReportRows = []string{"count", "unique", "top", "freq", "mean", "std", "min", "25%", "50%", "75%", "max"}

// ColumnStats holds the formatted statistics of one column, keyed by
// ReportRows entries. Statistics that do not apply are absent.
type ColumnStats struct {
	Name  string            `json:"name"`
	Kind  ColumnKind        `json:"kind"`
	Cells map[string]string `json:"cells"`
}

// Report is the descriptive statistics of a table, in table column order.
type Report struct {
	Columns []ColumnStats `json:"columns"`
}

// Describe computes statistics for every column of t concurrently.
func Describe(ctx context.Context, t *Table) (*Report, error) {
	if t == nil {
		return nil, fmt.Errorf("no data loaded")
	}

	out := make([]ColumnStats, len(t.Columns))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, col := range t.Columns {
		i, col := i, col
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = describeColumn(col)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("describe %s: %w", t.Name, err)
	}
	return &Report{Columns: out}, nil
}

// WriteCSV writes the report with statistics as rows and columns as
// columns. The header's first cell is empty.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(r.Columns)+1)
	for i, c := range r.Columns {
		header[i+1] = c.Name
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}

	for _, name := range ReportRows {
		row := make([]string, len(r.Columns)+1)
		row[0] = name
		for i, c := range r.Columns {
			row[i+1] = c.Cells[name]
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write report row %s: %w", name, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func describeColumn(col *Column) ColumnStats {
	cs := ColumnStats{Name: col.Name, Kind: col.Kind, Cells: make(map[string]string)}
	switch col.Kind {
	case KindNumeric:
		describeNumbers(cs.Cells, col)
	case KindDate:
		describeTimes(cs.Cells, col)
	default:
		describeLabels(cs.Cells, col)
	}
	return cs
}

func describeNumbers(cells map[string]string, col *Column) {
	data := make([]float64, 0, col.Len())
	for _, f := range col.Numbers {
		if !math.IsNaN(f) {
			data = append(data, f)
		}
	}
	cells["count"] = fmt.Sprint(len(data))
	if len(data) == 0 {
		return
	}

	mean, std := stat.MeanStdDev(data, nil)
	if len(data) < 2 {
		std = math.NaN()
	}
	lo, _ := stats.Min(data)
	hi, _ := stats.Max(data)

	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)

	setNumber(cells, "mean", mean)
	setNumber(cells, "std", std)
	setNumber(cells, "min", lo)
	setNumber(cells, "25%", Quantile(sorted, 0.25))
	setNumber(cells, "50%", Quantile(sorted, 0.5))
	setNumber(cells, "75%", Quantile(sorted, 0.75))
	setNumber(cells, "max", hi)
}

func describeTimes(cells map[string]string, col *Column) {
	nanos := make([]float64, 0, col.Len())
	for _, t := range col.Times {
		if !t.IsZero() {
			nanos = append(nanos, float64(t.UnixNano()))
		}
	}
	cells["count"] = fmt.Sprint(len(nanos))
	if len(nanos) == 0 {
		return
	}

	sort.Float64s(nanos)
	mean, _ := stats.Mean(nanos)

	setTime(cells, "mean", mean)
	setTime(cells, "min", nanos[0])
	setTime(cells, "25%", Quantile(nanos, 0.25))
	setTime(cells, "50%", Quantile(nanos, 0.5))
	setTime(cells, "75%", Quantile(nanos, 0.75))
	setTime(cells, "max", nanos[len(nanos)-1])
}

func describeLabels(cells map[string]string, col *Column) {
	counts := make(map[string]int)
	var order []string
	for _, v := range col.Raw {
		if v == "" {
			continue
		}
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	total := 0
	top, freq := "", 0
	for _, v := range order {
		total += counts[v]
		if counts[v] > freq {
			top, freq = v, counts[v]
		}
	}

	cells["count"] = fmt.Sprint(total)
	cells["unique"] = fmt.Sprint(len(order))
	if freq > 0 {
		cells["top"] = top
		cells["freq"] = fmt.Sprint(freq)
	}
}

// Quantile returns the q-quantile of sorted data, interpolating linearly
// between the two closest ranks. NaN for no data.
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	switch n {
	case 0:
		return math.NaN()
	case 1:
		return sorted[0]
	}
	h := q * float64(n-1)
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= n {
		return sorted[n-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

func setNumber(cells map[string]string, key string, f float64) {
	if !math.IsNaN(f) && !math.IsInf(f, 0) {
		cells[key] = FormatNumber(f)
	}
}

func setTime(cells map[string]string, key string, nanos float64) {
	cells[key] = time.Unix(0, int64(math.Round(nanos))).UTC().Format("2006-01-02 15:04:05")
}
