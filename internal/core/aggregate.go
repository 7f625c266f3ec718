package core

// aggregate.go implements the two table reshapes charts need:
//   - GroupReduce: one row per distinct (x[, color]) key with y reduced
//   - CountPairs: occurrence count per distinct (x, y) pair
//
// Keys are typed column values (float64, time.Time, string). Rows whose key
// cells are missing are dropped, and groups come back sorted by key.

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
)

// Aggregation names the reduction applied to y within a group.
type Aggregation string

const (
	AggRaw    Aggregation = "raw"
	AggCount  Aggregation = "count"
	AggSum    Aggregation = "sum"
	AggMean   Aggregation = "mean"
	AggMedian Aggregation = "median"
)

// Aggregations lists the reductions offered for grouped charts.
var Aggregations = []Aggregation{AggCount, AggSum, AggMean, AggMedian}

// ParseAggregation accepts an aggregation name in any case.
// An empty string parses to "" so callers can apply their own default.
func ParseAggregation(s string) (Aggregation, error) {
	a := Aggregation(strings.ToLower(strings.TrimSpace(s)))
	switch a {
	case "", AggRaw, AggCount, AggSum, AggMean, AggMedian:
		return a, nil
	}
	return "", fmt.Errorf("unknown aggregation %q", s)
}

// NeedsNumeric reports whether the reduction is arithmetic over y.
func (a Aggregation) NeedsNumeric() bool {
	return a == AggSum || a == AggMean || a == AggMedian
}

// Group is one reduced row. Color is nil when no color column was used.
// Value is NaN when the reduction has no input (mean or median of nothing).
type Group struct {
	X     any
	Color any
	Value float64
}

// Grouped is the result of GroupReduce.
type Grouped struct {
	X, Y, Color string
	Agg         Aggregation
	Groups      []Group
}

// PairCount is one distinct (x, y) pair and how often it occurs.
type PairCount struct {
	X, Y  any
	Count int
}

// PairCounts is the result of CountPairs.
type PairCounts struct {
	X, Y  string
	Pairs []PairCount
}

type groupKey struct {
	x, color any
}

// GroupReduce groups t by x (and color, when set) and reduces y within each
// group. Count counts non-missing y cells; sum, mean and median require a
// numeric y.
func GroupReduce(t *Table, x, y, color string, agg Aggregation) (*Grouped, error) {
	xc, err := lookupColumn(t, x)
	if err != nil {
		return nil, err
	}
	yc, err := lookupColumn(t, y)
	if err != nil {
		return nil, err
	}
	var cc *Column
	if color != "" {
		if cc, err = lookupColumn(t, color); err != nil {
			return nil, err
		}
	}

	switch {
	case agg == AggCount:
	case agg.NeedsNumeric():
		if !yc.IsNumeric() {
			return nil, fmt.Errorf("cannot compute %s of non-numeric column %q", agg, y)
		}
	default:
		return nil, fmt.Errorf("unsupported aggregation %q", agg)
	}

	var (
		order  []groupKey
		values = make(map[groupKey][]float64)
		counts = make(map[groupKey]int)
	)
	for i := 0; i < t.NumRows(); i++ {
		if xc.IsMissing(i) || (cc != nil && cc.IsMissing(i)) {
			continue
		}
		k := groupKey{x: xc.Value(i)}
		if cc != nil {
			k.color = cc.Value(i)
		}
		if _, seen := counts[k]; !seen {
			order = append(order, k)
			counts[k] = 0
		}
		if yc.IsMissing(i) {
			continue
		}
		counts[k]++
		if agg.NeedsNumeric() {
			values[k] = append(values[k], yc.Numbers[i])
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		if c := CompareValues(order[i].x, order[j].x); c != 0 {
			return c < 0
		}
		return CompareValues(order[i].color, order[j].color) < 0
	})

	out := &Grouped{X: x, Y: y, Color: color, Agg: agg, Groups: make([]Group, len(order))}
	for i, k := range order {
		out.Groups[i] = Group{X: k.x, Color: k.color, Value: reduce(agg, values[k], counts[k])}
	}
	return out, nil
}

func reduce(agg Aggregation, data []float64, count int) float64 {
	var (
		v   float64
		err error
	)
	switch agg {
	case AggCount:
		return float64(count)
	case AggSum:
		if len(data) == 0 {
			return 0
		}
		v, err = stats.Sum(data)
	case AggMean:
		v, err = stats.Mean(data)
	case AggMedian:
		v, err = stats.Median(data)
	}
	if err != nil {
		return math.NaN()
	}
	return v
}

// CountPairs counts rows per distinct (x, y) pair, dropping rows where
// either cell is missing. Pairs are sorted by x, then y.
func CountPairs(t *Table, x, y string) (*PairCounts, error) {
	xc, err := lookupColumn(t, x)
	if err != nil {
		return nil, err
	}
	yc, err := lookupColumn(t, y)
	if err != nil {
		return nil, err
	}

	var order []groupKey
	counts := make(map[groupKey]int)
	for i := 0; i < t.NumRows(); i++ {
		if xc.IsMissing(i) || yc.IsMissing(i) {
			continue
		}
		k := groupKey{x: xc.Value(i), color: yc.Value(i)}
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		if c := CompareValues(order[i].x, order[j].x); c != 0 {
			return c < 0
		}
		return CompareValues(order[i].color, order[j].color) < 0
	})

	out := &PairCounts{X: x, Y: y, Pairs: make([]PairCount, len(order))}
	for i, k := range order {
		out.Pairs[i] = PairCount{X: k.x, Y: k.color, Count: counts[k]}
	}
	return out, nil
}

// CompareValues orders typed cell values: nil first, then numbers, dates
// and strings, each by its natural order.
func CompareValues(a, b any) int {
	ra, rb := valueRank(a), valueRank(b)
	if ra != rb {
		return ra - rb
	}
	switch av := a.(type) {
	case float64:
		bv := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case time.Time:
		return av.Compare(b.(time.Time))
	case string:
		return strings.Compare(av, b.(string))
	}
	return 0
}

func valueRank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case float64:
		return 1
	case time.Time:
		return 2
	default:
		return 3
	}
}

func lookupColumn(t *Table, name string) (*Column, error) {
	if t == nil {
		return nil, fmt.Errorf("no data loaded")
	}
	if name == "" {
		return nil, fmt.Errorf("no column selected")
	}
	c, ok := t.Column(name)
	if !ok {
		return nil, fmt.Errorf("column %q not found", name)
	}
	return c, nil
}
