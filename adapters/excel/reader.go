package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"edalens/domain/dataset"
	"edalens/internal"
	"edalens/internal/errors"
)

var (
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
	nan     = math.NaN()
)

// DataReader turns an uploaded CSV or Excel file into a typed table
type DataReader struct {
	config ReaderConfig
	logger *internal.Logger
}

// NewDataReader creates a new data reader that handles both CSV and Excel files
func NewDataReader(config ReaderConfig, logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &DataReader{config: config, logger: logger}
}

// fileType picks the parser from the file extension; anything that is not xlsx is read as CSV
func fileType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return "xlsx"
	default:
		return "csv"
	}
}

// Read parses src into a table. Any failure is returned as a PARSE_ERROR AppError.
func (r *DataReader) Read(name string, src io.Reader) (*dataset.Table, error) {
	data, err := r.ReadAll(src)
	if err != nil {
		return nil, err
	}
	return r.Parse(name, data)
}

// Parse turns already-read file bytes into a table, picking the format from the name
func (r *DataReader) Parse(name string, data []byte) (*dataset.Table, error) {
	start := time.Now()
	kind := fileType(name)
	r.logger.Debug("[DataReader] Reading %s file: %s (%d bytes)", kind, name, len(data))

	var (
		raw *RawData
		err error
	)
	switch kind {
	case "xlsx":
		raw, err = r.parseXLSX(data)
	default:
		raw, err = r.parseCSV(data)
	}
	if err != nil {
		r.logger.Warn("[DataReader] FAILED - %s: %v", name, err)
		return nil, err
	}

	table, err := BuildTable(filepath.Base(name), raw)
	if err != nil {
		return nil, err
	}

	for _, c := range table.Columns {
		r.logger.Trace("[DataReader] column %q inferred as %s (%d missing)", c.Name, c.Kind, c.MissingCount())
	}
	r.logger.Info("[DataReader] %s processed (%d columns, %d rows) in %.2fms",
		name, table.NumColumns(), table.Rows, float64(time.Since(start).Nanoseconds())/1e6)
	return table, nil
}

// ReadAll drains src, failing with UPLOAD_TOO_LARGE once MaxBytes is exceeded
func (r *DataReader) ReadAll(src io.Reader) ([]byte, error) {
	if r.config.MaxBytes <= 0 {
		data, err := io.ReadAll(src)
		if err != nil {
			return nil, errors.ParseError("failed to read upload", err)
		}
		return data, nil
	}
	data, err := io.ReadAll(io.LimitReader(src, r.config.MaxBytes+1))
	if err != nil {
		return nil, errors.ParseError("failed to read upload", err)
	}
	if int64(len(data)) > r.config.MaxBytes {
		return nil, errors.UploadTooLarge(r.config.MaxBytes)
	}
	return data, nil
}

// decodeText strips a UTF-8 BOM and falls back to Latin-1 when the bytes are not valid UTF-8
func decodeText(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data, nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return nil, errors.ParseError("file is neither UTF-8 nor Latin-1 text", err)
	}
	return decoded, nil
}

// parseCSV reads comma-separated text. Short rows are padded with missing cells;
// rows with more fields than the header are a structural error.
func (r *DataReader) parseCSV(data []byte) (*RawData, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}

	if line, open := unterminatedQuote(text); open {
		return nil, errors.ParseError(
			fmt.Sprintf("malformed CSV: EOF inside string starting at line %d", line), nil)
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.ParseError("No columns to parse from file", nil)
	}
	if err != nil {
		return nil, errors.ParseError("malformed CSV header", err)
	}

	raw := &RawData{Headers: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.ParseError("malformed CSV", err)
		}
		if len(record) > len(header) {
			line, _ := reader.FieldPos(0)
			return nil, errors.ParseError(
				fmt.Sprintf("Error tokenizing data. Expected %d fields in line %d, saw %d", len(header), line, len(record)), nil)
		}
		raw.Rows = append(raw.Rows, padRow(record, len(header)))
	}
	return raw, nil
}

// parseXLSX reads the configured sheet (or the first one) of a workbook
func (r *DataReader) parseXLSX(data []byte) (*RawData, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.ParseError("failed to open Excel file", err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.ParseError("Excel file has no sheets", nil)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.ParseError(fmt.Sprintf("failed to read sheet %q", sheet), err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.ParseError("No columns to parse from file", nil)
	}

	header := rows[0]
	raw := &RawData{Headers: header}
	for i, row := range rows[1:] {
		if len(row) > len(header) {
			return nil, errors.ParseError(
				fmt.Sprintf("Expected %d fields in row %d, saw %d", len(header), i+2, len(row)), nil)
		}
		raw.Rows = append(raw.Rows, padRow(row, len(header)))
	}
	return raw, nil
}

// unterminatedQuote reports whether a field opened with a quote is still open at EOF,
// returning the line the field started on. A quote in the middle of an unquoted field
// is literal text.
func unterminatedQuote(text []byte) (int, bool) {
	line, start := 1, 0
	inQuotes, fieldStart := false, true
	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch {
		case inQuotes:
			if ch == '"' {
				if i+1 < len(text) && text[i+1] == '"' {
					i++
					continue
				}
				inQuotes = false
			}
		case ch == '"' && fieldStart:
			inQuotes, fieldStart = true, false
			start = line
		case ch == ',' || ch == '\n' || ch == '\r':
			fieldStart = true
		default:
			fieldStart = false
		}
		if ch == '\n' {
			line++
		}
	}
	if !inQuotes {
		return 0, false
	}
	return start, true
}

func padRow(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

// BuildTable names the columns and runs type inference over every column
func BuildTable(name string, raw *RawData) (*dataset.Table, error) {
	headers := dedupeHeaders(raw.Headers)
	columns := make([]dataset.Column, len(headers))
	for j, h := range headers {
		cells := make([]string, len(raw.Rows))
		for i, row := range raw.Rows {
			cells[i] = row[j]
		}
		columns[j] = InferColumn(h, cells)
	}

	table, err := dataset.NewTable(name, columns)
	if err != nil {
		return nil, errors.ParseError("inconsistent column lengths", err)
	}
	return table, nil
}

// dedupeHeaders trims names, names blank headers "Unnamed: i" and suffixes repeats as name.1, name.2
func dedupeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	seen := make(map[string]int, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		if n, dup := seen[h]; dup {
			for {
				n++
				name = fmt.Sprintf("%s.%d", h, n)
				if _, taken := seen[name]; !taken {
					break
				}
			}
			seen[h] = n
		}
		seen[name] = 0
		out[i] = name
	}
	return out
}

// IsMissing reports whether a cell counts as a missing value. Blank cells are
// missing; NA tokens must match exactly, so " NA " is text.
func IsMissing(cell string) bool {
	if strings.TrimSpace(cell) == "" {
		return true
	}
	_, ok := naTokens[cell]
	return ok
}

// parseNumber parses a decimal or scientific float. Hex literals such as 0x1p3 stay text.
func parseNumber(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	digits := strings.TrimLeft(s, "+-")
	if len(digits) > 1 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// InferColumn classifies a column with an explicit two-pass rule.
// Pass one parses every non-missing cell as a number; pass two labels the column
// numeric only when all of them parsed, categorical otherwise.
func InferColumn(name string, cells []string) dataset.Column {
	missing := make([]bool, len(cells))
	numbers := make([]float64, len(cells))
	allNumeric := true

	for i, cell := range cells {
		if IsMissing(cell) {
			missing[i] = true
			continue
		}
		if !allNumeric {
			continue
		}
		v, ok := parseNumber(cell)
		if !ok {
			allNumeric = false
			continue
		}
		numbers[i] = v
	}

	col := dataset.Column{
		Name:    name,
		Kind:    dataset.KindCategorical,
		Raw:     cells,
		Missing: missing,
	}
	if allNumeric {
		for i := range numbers {
			if missing[i] {
				numbers[i] = nan
			}
		}
		col.Kind = dataset.KindNumeric
		col.Numbers = numbers
	}
	return col
}
