package web

// Shared utilities and helper functions used across handlers.

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/analyzer/internal/core"
)

// maxChartConfigSize bounds the JSON body of a chart request.
const maxChartConfigSize = 64 << 10

// multipartMemory is how much of an upload is buffered in memory before
// spilling to a temp file.
const multipartMemory = 32 << 20

var (
	errNoFile             = errors.New("no file provided")
	errFileTooLarge       = errors.New("file too large")
	errInvalidChartConfig = errors.New("invalid chart configuration")
)

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return defaultVal
	}
	return i
}

// chartConfigFromQuery builds a chart selection from URL parameters so a
// figure can be fetched with a plain GET link.
func chartConfigFromQuery(r *http.Request) core.ChartConfig {
	q := r.URL.Query()
	return core.ChartConfig{
		Type:        core.ChartType(q.Get("type")),
		X:           q.Get(string(core.FieldX)),
		Y:           q.Get(string(core.FieldY)),
		Z:           q.Get(string(core.FieldZ)),
		Color:       q.Get(string(core.FieldColor)),
		Size:        q.Get(string(core.FieldSize)),
		Aggregation: core.Aggregation(q.Get(string(core.FieldAggregation))),
		Bins:        parseIntParam(r, string(core.FieldBins), 0),
		SizeMax:     parseIntParam(r, string(core.FieldSizeMax), 0),
		ColorScale:  q.Get(string(core.FieldColorScale)),
	}
}

// decodeChartConfig reads a JSON chart selection from the request body.
func decodeChartConfig(w http.ResponseWriter, r *http.Request) (core.ChartConfig, error) {
	var cfg core.ChartConfig
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChartConfigSize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("%w: %v", errInvalidChartConfig, err)
	}
	return cfg, nil
}

// uploadLimitError describes an upload that exceeded the size limit.
func uploadLimitError(limit int64) error {
	return fmt.Errorf("%w: limit is %d MB", errFileTooLarge, limit>>20)
}
