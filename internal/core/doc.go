// Package core provides the ingestion, classification and charting logic of
// the analyzer.
//
// This package holds all domain logic independent of any UI or transport
// layer. It can be used by web handlers, CLI tools, or tests without
// modification.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Table: an immutable, column-typed copy of one uploaded file.
//   - Classification: which columns are numeric, categorical or dates.
//   - Chart Registry: chart types register their field requirements and
//     build function at init time.
//   - Service: the main entry point for all operations (upload, preview,
//     options, chart, report).
//   - Sessions: in-memory tables keyed by session ID with an idle TTL.
//
// # Chart Registry
//
// Chart types are registered at init time using [Register]. Each
// [ChartDefinition] contains everything needed to offer and build one type:
//
//	core.Register(core.ChartDefinition{
//	    Type:        core.ChartBubble,
//	    Label:       "Bubble",
//	    Required:    []core.Field{core.FieldX, core.FieldY, core.FieldSize},
//	    Optional:    []core.Field{core.FieldColor, core.FieldSizeMax, core.FieldColorScale},
//	    NumericOnly: []core.Field{core.FieldSize},
//	    Build:       buildBubble,
//	})
//
// The production definitions live in the charts subpackage, which binaries
// import for its side effects.
//
// # Request Flow
//
//  1. [Service.Upload] parses a CSV, XLS or XLSX file under the ingest limiter
//  2. Columns are typed and classified; the table is stored in a session
//  3. [Service.Options] tells the UI which fields the chosen chart accepts
//  4. [Service.Chart] validates the selection with [ChartDefinition.Normalize]
//     and renders a Plotly figure; [Service.Report] describes every column
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - FILE001-FILE007: File errors (size, encoding, format, workbook)
//   - VIZ001-VIZ003: Visualization errors
//   - SES001: Session not found or expired
//   - UPL002-UPL005: Upload errors (busy, cancelled, timeout)
package core
