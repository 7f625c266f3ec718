package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/analyzer/internal/core"
	"github.com/a-h/templ"
)

// PlotlyScript is the plotly.js bundle the page loads.
const PlotlyScript = "https://cdn.plot.ly/plotly-2.35.2.min.js"

// PageParams configures the index page.
type PageParams struct {
	Title       string
	ChartTypes  []core.ChartTypeInfo
	Extensions  []string
	MaxUploadMB int64
}

// Page renders the single-page analyzer UI. app.js drives the JSON API.
func Page(params PageParams) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := newPrinter(w)
		p.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		p.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		p.raw(`<title>`)
		p.text(params.Title)
		p.raw(`</title>`)
		p.raw(`<link rel="stylesheet" href="/static/app.css">`)
		p.raw(`<script src="`)
		p.text(PlotlyScript)
		p.raw(`" defer></script>`)
		p.raw(`<script src="/static/app.js" defer></script>`)
		p.raw(`</head><body>`)

		p.raw(`<header><h1>`)
		p.text(params.Title)
		p.raw(`</h1><p class="muted">Upload your data file and create interactive visualizations.</p></header>`)
		p.raw(`<div id="alerts"></div>`)

		p.raw(`<main class="layout"><aside class="sidebar">`)
		uploadForm(p, params)
		chartControls(p, params.ChartTypes)
		p.raw(`</aside>`)

		p.raw(`<section class="content">`)
		p.raw(`<div id="preview-container"><p class="muted">Please upload a data file to begin analysis.</p></div>`)
		p.raw(`<div id="chart" class="chart"></div>`)
		p.raw(`<div id="report-actions" hidden><a id="report-link" class="button" href="#" download="`)
		p.text(core.ReportFileName)
		p.raw(`">Download Report</a></div>`)
		p.raw(`</section></main>`)

		p.raw(`</body></html>`)
		return p.err
	})
}

func uploadForm(p *printer, params PageParams) {
	accept := make([]string, len(params.Extensions))
	for i, ext := range params.Extensions {
		accept[i] = "." + ext
	}

	p.raw(`<form id="upload-form" class="panel" enctype="multipart/form-data">`)
	p.raw(`<h2>Upload Data</h2>`)
	p.raw(`<input type="file" name="file" id="file-input" required accept="`)
	p.text(strings.Join(accept, ","))
	p.raw(`">`)
	p.raw(`<p class="muted">`)
	p.text(fmt.Sprintf("CSV, XLS or XLSX up to %d MB", params.MaxUploadMB))
	p.raw(`</p>`)
	p.raw(`<button type="submit">Upload</button>`)
	p.raw(`</form>`)
}

// chartControls renders the chart selector. Field selects start empty and
// are filled from the options endpoint once a file is loaded.
func chartControls(p *printer, types []core.ChartTypeInfo) {
	p.raw(`<form id="chart-form" class="panel" hidden>`)
	p.raw(`<h2>Visualization Settings</h2>`)

	p.raw(`<label>Select Chart Type<select name="type" id="chart-type">`)
	for _, ct := range types {
		p.raw(`<option value="`)
		p.text(string(ct.Type))
		p.raw(`">`)
		p.text(ct.Label)
		p.raw(`</option>`)
	}
	p.raw(`</select></label>`)

	for _, f := range []struct {
		field core.Field
		label string
	}{
		{core.FieldX, "X-axis"},
		{core.FieldY, "Y-axis"},
		{core.FieldZ, "Z-axis"},
		{core.FieldColor, "Color by"},
		{core.FieldSize, "Size by"},
		{core.FieldAggregation, "Aggregation"},
	} {
		p.raw(`<label data-field="`)
		p.text(string(f.field))
		p.raw(`" hidden>`)
		p.text(f.label)
		p.raw(`<select name="`)
		p.text(string(f.field))
		p.raw(`"></select></label>`)
	}

	for _, f := range []struct {
		field core.Field
		label string
	}{
		{core.FieldBins, "Number of bins"},
		{core.FieldSizeMax, "Max point size"},
	} {
		p.raw(`<label data-field="`)
		p.text(string(f.field))
		p.raw(`" hidden>`)
		p.text(f.label)
		p.raw(` <output></output><input type="range" name="`)
		p.text(string(f.field))
		p.raw(`"></label>`)
	}

	p.raw(`<label data-field="colorScale">Color scale<select name="colorScale"></select></label>`)
	p.raw(`<button type="submit">Generate Visualization</button>`)
	p.raw(`</form>`)
}
