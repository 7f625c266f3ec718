package core

// ingest.go turns an uploaded file into a Table.
//
// Supported formats are gated by file extension:
//   - csv:  encoding/csv after DecodeText, delimiter sniffed from the header
//   - xlsx: excelize, first sheet
//   - xls:  extrame/xls (BIFF8), first sheet
//
// After parsing, every column is typed once (inferColumn) and the result is
// carried on the Column as its Kind. Nothing downstream re-derives types.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// DefaultCategoricalLimit is the distinct-value bound below which a text
// column counts as categorical.
const DefaultCategoricalLimit = 20

// SupportedExtensions lists the accepted upload extensions.
var SupportedExtensions = []string{"csv", "xls", "xlsx"}

var (
	// ErrUnsupportedFormat is returned for any extension outside SupportedExtensions.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrEmptyFile is returned when a file has no header row.
	ErrEmptyFile = errors.New("empty file")
)

// IngestOptions tunes parsing and type inference.
type IngestOptions struct {
	MaxRows          int // data rows kept; 0 means all
	CategoricalLimit int // 0 means DefaultCategoricalLimit
}

// Extension returns the lower-cased extension of name without the dot.
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// IsSupported reports whether name has an accepted extension.
func IsSupported(name string) bool {
	ext := Extension(name)
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// Ingest parses r as the file called name and returns a typed Table.
// On any failure it returns a nil Table; the caller must check the error
// before classifying or charting.
func Ingest(name string, r io.Reader, opts IngestOptions) (*Table, error) {
	var (
		records [][]string
		err     error
	)

	switch ext := Extension(name); ext {
	case "csv":
		records, err = readCSV(r)
	case "xlsx":
		records, err = readXLSX(r)
	case "xls":
		records, err = readXLS(r)
	default:
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedFormat, ext, strings.Join(SupportedExtensions, ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	t, err := BuildTable(name, records, opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return t, nil
}

// BuildTable types a header row plus data rows into a Table.
// Empty lines are dropped but records of blank fields are kept as rows of
// missing values. Short rows are padded with missing cells and long rows
// are cut to the header width.
func BuildTable(name string, records [][]string, opts IngestOptions) (*Table, error) {
	if opts.CategoricalLimit <= 0 {
		opts.CategoricalLimit = DefaultCategoricalLimit
	}

	// Leading empty lines are not a header.
	for len(records) > 0 && isEmptyLine(records[0]) {
		records = records[1:]
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	dataWidth := 0
	for _, rec := range records[1:] {
		dataWidth = max(dataWidth, filledWidth(rec))
	}
	header := headerNames(records[0], dataWidth)
	width := len(header)
	if width == 0 {
		return nil, ErrEmptyFile
	}

	cells := make([][]string, width)
	rows := 0
	for _, rec := range records[1:] {
		if isEmptyLine(rec) {
			continue
		}
		if opts.MaxRows > 0 && rows >= opts.MaxRows {
			break
		}
		for c := 0; c < width; c++ {
			v := ""
			if c < len(rec) {
				v = rec[c]
			}
			cells[c] = append(cells[c], v)
		}
		rows++
	}

	t := &Table{Name: name, Columns: make([]*Column, width)}
	for c := range header {
		if cells[c] == nil {
			cells[c] = []string{}
		}
		t.Columns[c] = inferColumn(header[c], cells[c], opts.CategoricalLimit)
	}
	return t, nil
}

// headerNames cleans header cells, naming blanks "Unnamed: i" and
// suffixing duplicates with ".1", ".2", ... Trailing blank header cells
// are dropped unless some data row fills that column; dataWidth is the
// widest filled extent of the data rows.
func headerNames(row []string, dataWidth int) []string {
	end := len(row)
	for end > 0 && CleanCell(row[end-1]) == "" {
		end--
	}
	end = max(end, min(len(row), dataWidth))

	names := make([]string, end)
	used := make(map[string]bool, end)
	suffix := make(map[string]int)
	for i := 0; i < end; i++ {
		name := CleanCell(row[i])
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if used[name] {
			base := name
			for used[name] {
				suffix[base]++
				name = base + "." + strconv.Itoa(suffix[base])
			}
		}
		used[name] = true
		names[i] = name
	}
	return names
}

// isEmptyLine reports whether a record came from a line with no fields.
// encoding/csv yields a lone whitespace field for such lines and the
// spreadsheet readers yield no cells.
func isEmptyLine(rec []string) bool {
	return len(rec) == 0 || (len(rec) == 1 && strings.TrimSpace(rec[0]) == "")
}

// filledWidth is the record length without trailing blank fields.
func filledWidth(rec []string) int {
	n := len(rec)
	for n > 0 && strings.TrimSpace(rec[n-1]) == "" {
		n--
	}
	return n
}

// padHeader widens the first non-empty record to the widest record.
// Spreadsheet readers drop trailing empty cells, so a blank header cell
// above a filled column would otherwise vanish.
func padHeader(records [][]string) [][]string {
	width := 0
	for _, rec := range records {
		width = max(width, len(rec))
	}
	for i, rec := range records {
		if isEmptyLine(rec) {
			continue
		}
		if len(rec) < width {
			padded := make([]string, width)
			copy(padded, rec)
			records[i] = padded
		}
		break
	}
	return records
}

// inferColumn cleans cells and assigns the column its kind:
// numeric if every present cell is a number, else date if every present
// cell is a date, else categorical or text by distinct count.
// Partially numeric columns stay text.
func inferColumn(name string, cells []string, categoricalLimit int) *Column {
	col := &Column{Name: name, Raw: make([]string, len(cells))}

	present := 0
	for i, cell := range cells {
		v := CleanCell(cell)
		if IsMissingToken(v) {
			v = ""
		} else {
			present++
		}
		col.Raw[i] = v
	}

	if nums, ok := coerceNumbers(col.Raw); ok {
		col.Kind = KindNumeric
		col.Numbers = nums
		col.Distinct = distinctNumbers(nums)
		return col
	}

	if times, ok := coerceTimes(col.Raw); ok && present > 0 {
		col.Kind = KindDate
		col.Times = times
		col.Distinct = distinctTimes(times)
		return col
	}

	col.Distinct = distinctStrings(col.Raw)
	if col.Distinct < categoricalLimit {
		col.Kind = KindCategorical
	} else {
		col.Kind = KindText
	}
	return col
}

func coerceNumbers(raw []string) ([]float64, bool) {
	nums := make([]float64, len(raw))
	for i, v := range raw {
		if v == "" {
			nums[i] = math.NaN()
			continue
		}
		f, ok := ParseNumber(v)
		if !ok {
			return nil, false
		}
		nums[i] = f
	}
	return nums, true
}

func coerceTimes(raw []string) ([]time.Time, bool) {
	times := make([]time.Time, len(raw))
	for i, v := range raw {
		if v == "" {
			continue
		}
		t, ok := ParseDate(v)
		if !ok {
			return nil, false
		}
		times[i] = t
	}
	return times, true
}

func distinctNumbers(nums []float64) int {
	seen := make(map[float64]struct{})
	for _, f := range nums {
		if !math.IsNaN(f) {
			seen[f] = struct{}{}
		}
	}
	return len(seen)
}

func distinctTimes(times []time.Time) int {
	seen := make(map[int64]struct{})
	for _, t := range times {
		if !t.IsZero() {
			seen[t.UnixNano()] = struct{}{}
		}
	}
	return len(seen)
}

func distinctStrings(raw []string) int {
	seen := make(map[string]struct{})
	for _, v := range raw {
		if v != "" {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

// ----------------------------------------------------------------------------
// Format readers
// ----------------------------------------------------------------------------

// csvDelimiters are the separators sniffed from the header line.
var csvDelimiters = []rune{',', ';', '\t', '|'}

func readCSV(r io.Reader) ([][]string, error) {
	text, err := NewTextReader(r)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(text)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	return records, nil
}

// sniffDelimiter picks the candidate occurring most often outside quotes
// on the first line, defaulting to a comma.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}

	counts := make(map[rune]int, len(csvDelimiters))
	inQuotes := false
	for _, ch := range string(line) {
		if ch == '"' {
			inQuotes = !inQuotes
			continue
		}
		if !inQuotes {
			counts[ch]++
		}
	}

	best, bestCount := ',', 0
	for _, d := range csvDelimiters {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}
	return best
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return padHeader(rows), nil
}

func readXLS(r io.Reader) (records [][]string, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	// The BIFF decoder panics on some truncated files.
	defer func() {
		if p := recover(); p != nil {
			records, err = nil, fmt.Errorf("open workbook: malformed xls: %v", p)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	if wb == nil {
		return nil, errors.New("open workbook: no workbook stream")
	}
	if wb.NumSheets() == 0 {
		return nil, ErrEmptyFile
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, ErrEmptyFile
	}

	rows := make([]*xls.Row, int(sheet.MaxRow)+1)
	lastCol := 0
	for i := range rows {
		if rows[i] = sheetRow(sheet, i); rows[i] != nil {
			lastCol = max(lastCol, rows[i].LastCol())
		}
	}

	records = make([][]string, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			records = append(records, nil)
			continue
		}
		cells := make([]string, 0, lastCol+1)
		for c := 0; c <= lastCol; c++ {
			cells = append(cells, row.Col(c))
		}
		for len(cells) > 0 && cells[len(cells)-1] == "" {
			cells = cells[:len(cells)-1]
		}
		records = append(records, cells)
	}
	return padHeader(records), nil
}

// sheetRow returns row i, or nil when the sheet holds no record for it.
// WorkSheet.Row dereferences missing rows without checking.
func sheetRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}
