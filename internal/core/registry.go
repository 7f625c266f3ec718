package core

import (
	"fmt"
	"sort"
	"sync"
)

// ChartDefinition contains everything needed to offer and build one chart type.
type ChartDefinition struct {
	Type  ChartType
	Label string // display name: "3D Scatter"

	Required    []Field // column fields that must be set
	Optional    []Field // other inputs the chart accepts
	NumericOnly []Field // column fields restricted to numeric columns

	Build BuildFunc
}

// Accepts reports whether the chart uses f at all.
func (d ChartDefinition) Accepts(f Field) bool {
	return d.Requires(f) || hasField(d.Optional, f)
}

// Requires reports whether f must be set.
func (d ChartDefinition) Requires(f Field) bool {
	return hasField(d.Required, f)
}

// NeedsNumeric reports whether f only takes numeric columns.
func (d ChartDefinition) NeedsNumeric(f Field) bool {
	return hasField(d.NumericOnly, f)
}

func hasField(fields []Field, f Field) bool {
	for _, v := range fields {
		if v == f {
			return true
		}
	}
	return false
}

var (
	chartRegistry   = make(map[ChartType]ChartDefinition)
	chartRegistryMu sync.RWMutex
)

// Register adds a chart definition to the registry.
// Panics if the type is already registered or has no builder.
func Register(def ChartDefinition) {
	chartRegistryMu.Lock()
	defer chartRegistryMu.Unlock()

	def.Type = ParseChartType(string(def.Type))
	if _, exists := chartRegistry[def.Type]; exists {
		panic(fmt.Sprintf("chart already registered: %s", def.Type))
	}
	if def.Build == nil {
		panic(fmt.Sprintf("chart %s has no build function", def.Type))
	}
	if def.Label == "" {
		def.Label = string(def.Type)
	}

	chartRegistry[def.Type] = def
}

// LookupChart returns the definition for a chart type or display label.
func LookupChart(name string) (ChartDefinition, bool) {
	chartRegistryMu.RLock()
	defer chartRegistryMu.RUnlock()

	def, ok := chartRegistry[ParseChartType(name)]
	return def, ok
}

// Charts returns all registered definitions in selector order.
func Charts() []ChartDefinition {
	chartRegistryMu.RLock()
	defer chartRegistryMu.RUnlock()

	result := make([]ChartDefinition, 0, len(chartRegistry))
	for _, def := range chartRegistry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		ri, rj := chartRank(result[i].Type), chartRank(result[j].Type)
		if ri != rj {
			return ri < rj
		}
		return result[i].Type < result[j].Type
	})
	return result
}

func chartRank(ct ChartType) int {
	for i, v := range chartOrder {
		if v == ct {
			return i
		}
	}
	return len(chartOrder)
}

// ChartCount returns the number of registered charts.
func ChartCount() int {
	chartRegistryMu.RLock()
	defer chartRegistryMu.RUnlock()
	return len(chartRegistry)
}

// ChartTypeInfo is the serializable part of a ChartDefinition.
type ChartTypeInfo struct {
	Type        ChartType `json:"type"`
	Label       string    `json:"label"`
	Required    []Field   `json:"required"`
	Optional    []Field   `json:"optional"`
	NumericOnly []Field   `json:"numericOnly"`
}

// Info returns the definition without its builder.
func (d ChartDefinition) Info() ChartTypeInfo {
	return ChartTypeInfo{
		Type:        d.Type,
		Label:       d.Label,
		Required:    nonNilFields(d.Required),
		Optional:    nonNilFields(d.Optional),
		NumericOnly: nonNilFields(d.NumericOnly),
	}
}

func nonNilFields(fields []Field) []Field {
	if fields == nil {
		return []Field{}
	}
	return fields
}
