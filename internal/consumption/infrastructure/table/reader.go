package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	consumption "pv-report/internal/consumption/domain"
)

// Table is a parsed sheet: trimmed headers plus raw string cells.
// Every row has len(Headers) cells.
type Table struct {
	Source  string
	Headers []string
	Rows    [][]string
	// Date1904 is set when the source workbook counts date serials from 1904.
	Date1904 bool
}

// ParseDate parses a date cell of t, honouring the workbook date system.
func (t *Table) ParseDate(raw string) (time.Time, error) {
	return parseDate(raw, t.Date1904)
}

// Index returns the position of header, or -1.
func (t *Table) Index(header string) int {
	for i, h := range t.Headers {
		if h == header {
			return i
		}
	}
	return -1
}

// Reader loads tabular files.
type Reader struct{}

// NewReader constructs a Reader.
func NewReader() *Reader { return &Reader{} }

// Read loads path as a workbook (first sheet) and falls back to delimited text.
func (r *Reader) Read(path string) (*Table, error) {
	return Read(path)
}

// Read loads path as a workbook (first sheet) and falls back to delimited text.
// A FormatError carrying both causes is returned when neither parser accepts it.
func Read(path string) (*Table, error) {
	if path == "" {
		return nil, consumption.ErrEmptyPath
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &consumption.MissingFileError{Path: path, Err: err}
		}
		return nil, err
	}

	tbl, xlsxErr := readWorkbook(path)
	if xlsxErr == nil {
		return tbl, nil
	}
	tbl, csvErr := readDelimited(path)
	if csvErr == nil {
		return tbl, nil
	}
	return nil, &consumption.FormatError{
		Path: path,
		Causes: []error{
			fmt.Errorf("xlsx: %w", xlsxErr),
			fmt.Errorf("csv: %w", csvErr),
		},
	}
}

func readWorkbook(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	return ReadSheet(f, sheets[0])
}

// ReadSheet reads sheet of an open workbook using raw cell values, so dates come
// back as Excel serial numbers.
func ReadSheet(f *excelize.File, sheet string) (*Table, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	props, err := f.GetWorkbookProps()
	if err != nil {
		return nil, err
	}
	tbl, err := build("xlsx:"+sheet, rows)
	if err != nil {
		return nil, err
	}
	tbl.Date1904 = props.Date1904 != nil && *props.Date1904
	return tbl, nil
}

func readDelimited(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) || bytes.IndexByte(data, 0) >= 0 {
		return nil, errors.New("binary content")
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}
	return build("csv", rows)
}

func sniffDelimiter(data []byte) rune {
	line := data
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		line = data[:idx]
	}
	best, bestCount := ',', bytes.Count(line, []byte{','})
	for _, candidate := range []rune{';', '\t'} {
		if n := bytes.Count(line, []byte(string(candidate))); n > bestCount {
			best, bestCount = candidate, n
		}
	}
	return best
}

func build(source string, rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, errors.New("empty table")
	}
	headers := consumption.TrimHeaders(rows[0])
	for len(headers) > 0 && headers[len(headers)-1] == "" {
		headers = headers[:len(headers)-1]
	}
	if len(headers) == 0 {
		return nil, errors.New("missing header row")
	}

	tbl := &Table{Source: source, Headers: headers}
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		cells := make([]string, len(headers))
		copy(cells, row)
		tbl.Rows = append(tbl.Rows, cells)
	}
	return tbl, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
