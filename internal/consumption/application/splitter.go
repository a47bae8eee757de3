package application

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	consumption "pv-report/internal/consumption/domain"
	"pv-report/internal/consumption/infrastructure/table"
	"pv-report/internal/report"
)

// InputWorkbookSuffix names the intermediate workbook: {prefix}_Input_script_analisiF3.xlsx.
const InputWorkbookSuffix = "_Input_script_analisiF3.xlsx"

// TableReader loads a consumption report.
type TableReader interface {
	Read(path string) (*table.Table, error)
}

// SplitRequest describes one split.
type SplitRequest struct {
	InputPath  string
	OutputDir  string
	DatePrefix string
}

// SplitResult is the per-month table set and the intermediate workbook path.
type SplitResult struct {
	Tables consumption.MonthTables
	Path   string
}

// Splitter partitions a consumption report by calendar month.
type Splitter struct {
	reader   TableReader
	write    report.WriteFunc
	calendar consumption.SheetCalendar
	logger   logrus.FieldLogger
}

// SplitterOption configures the Splitter.
type SplitterOption func(*Splitter)

// WithSheetCalendar overrides the month to sheet label mapping.
func WithSheetCalendar(calendar consumption.SheetCalendar) SplitterOption {
	return func(s *Splitter) {
		s.calendar = calendar
	}
}

// WithWorkbookWriter overrides how workbooks are persisted.
func WithWorkbookWriter(write report.WriteFunc) SplitterOption {
	return func(s *Splitter) {
		if write != nil {
			s.write = write
		}
	}
}

// NewSplitter constructs a Splitter.
func NewSplitter(reader TableReader, logger logrus.FieldLogger, opts ...SplitterOption) (*Splitter, error) {
	if reader == nil {
		return nil, errors.New("splitter: nil reader")
	}
	if logger == nil {
		return nil, errors.New("splitter: nil logger")
	}
	s := &Splitter{
		reader:   reader,
		write:    report.WriteWorkbook,
		calendar: consumption.DefaultSheetCalendar(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// InputWorkbookName returns the intermediate workbook file name for prefix.
func InputWorkbookName(prefix string) string {
	return prefix + InputWorkbookSuffix
}

// Split reads the report, partitions rows by the month of their Mese date and
// writes one sheet per month. Row order within a month follows the source.
func (s *Splitter) Split(ctx context.Context, req SplitRequest) (SplitResult, error) {
	if req.InputPath == "" {
		return SplitResult{}, consumption.ErrEmptyPath
	}
	if err := ctx.Err(); err != nil {
		return SplitResult{}, err
	}

	tbl, err := s.reader.Read(req.InputPath)
	if err != nil {
		return SplitResult{}, err
	}
	columns, err := consumption.ResolveColumns(tbl.Source, tbl.Headers, consumption.ConsumptionSchema)
	if err != nil {
		return SplitResult{}, err
	}
	present := lo.Filter(consumption.CanonicalColumns, func(c consumption.Column, _ int) bool {
		_, ok := columns[c]
		return ok
	})

	tables := make(consumption.MonthTables)
	for i, row := range tbl.Rows {
		record, err := parseRecord(tbl, row, columns)
		if err != nil {
			var schemaErr *consumption.SchemaError
			if errors.As(err, &schemaErr) {
				schemaErr.Source = tbl.Source
				schemaErr.Detail = fmt.Sprintf("data row %d: %s", i+1, schemaErr.Detail)
				return SplitResult{}, schemaErr
			}
			return SplitResult{}, &consumption.FormatError{
				Path:   req.InputPath,
				Causes: []error{fmt.Errorf("data row %d: %w", i+1, err)},
			}
		}
		month := int(record.Month.Month())
		mt, ok := tables[month]
		if !ok {
			mt = &consumption.MonthTable{Month: month, Columns: present}
			tables[month] = mt
		}
		mt.Rows = append(mt.Rows, record)
	}

	path := filepath.Join(req.OutputDir, InputWorkbookName(req.DatePrefix))
	if err := s.write(path, s.sheets(tables)); err != nil {
		return SplitResult{}, fmt.Errorf("splitter: write %s: %w", path, err)
	}

	s.logger.WithFields(logrus.Fields{
		"path":   path,
		"rows":   len(tbl.Rows),
		"months": len(tables),
	}).Info("monthly input workbook written")
	return SplitResult{Tables: tables, Path: path}, nil
}

func (s *Splitter) sheets(tables consumption.MonthTables) []report.Sheet {
	var sheets []report.Sheet
	for _, month := range tables.Months() {
		label, ok := s.calendar.Label(month)
		if !ok {
			continue
		}
		mt := tables[month]
		sheet := report.Sheet{
			Name:   label,
			Header: lo.Map(mt.Columns, func(c consumption.Column, _ int) string { return string(c) }),
		}
		for _, record := range mt.Rows {
			values := make([]any, len(mt.Columns))
			for i, column := range mt.Columns {
				values[i] = record.Value(column)
			}
			sheet.Rows = append(sheet.Rows, values)
		}
		sheets = append(sheets, sheet)
	}
	return sheets
}

func parseRecord(tbl *table.Table, row []string, columns map[consumption.Column]int) (consumption.Record, error) {
	var record consumption.Record

	raw := row[columns[consumption.ColumnMonth]]
	month, err := tbl.ParseDate(raw)
	if err != nil {
		return record, &consumption.SchemaError{Detail: fmt.Sprintf("column %s: %v", consumption.ColumnMonth, err)}
	}
	record.Month = month

	if idx, ok := columns[consumption.ColumnPOD]; ok {
		record.POD = strings.TrimSpace(row[idx])
	}
	if idx, ok := columns[consumption.ColumnCompany]; ok {
		record.Company = strings.TrimSpace(row[idx])
	}
	for _, band := range consumption.Bands {
		idx, ok := columns[consumption.EnergyColumn(band)]
		if !ok {
			continue
		}
		value, _, err := table.ParseNumber(row[idx])
		if err != nil {
			return record, fmt.Errorf("column %s: %w", consumption.EnergyColumn(band), err)
		}
		record.Energy.Set(band, value)
	}
	if idx, ok := columns[consumption.ColumnTotal]; ok {
		value, _, err := table.ParseNumber(row[idx])
		if err != nil {
			return record, fmt.Errorf("column %s: %w", consumption.ColumnTotal, err)
		}
		record.Total = value
	}
	return record, nil
}
