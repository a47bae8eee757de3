package metadata

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	consumption "pv-report/internal/consumption/domain"
	"pv-report/internal/consumption/infrastructure/table"
	pv "pv-report/internal/pv/domain"
)

// Column headers of the three metadata sheets.
const (
	ColumnPOD             = "POD"
	ColumnSize            = "Taglia PV [kW]"
	ColumnTime            = "time"
	ColumnProduction      = "P"
	ColumnMonth           = "mese"
	ColumnBand            = "fascia"
	ColumnAutoconsumption = "%autoconsumo"
)

const sheetCount = 3

// Loader reads PV metadata workbooks.
type Loader struct{}

// NewLoader constructs a Loader.
func NewLoader() *Loader { return &Loader{} }

// Load reads the capacity, hourly profile and autoconsumption sheets of the
// workbook at path, in that order. Profile rows are returned unclassified.
func (l *Loader) Load(path string) (*pv.Metadata, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &consumption.MissingFileError{Path: path, Err: err}
		}
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &consumption.FormatError{Path: path, Causes: []error{err}}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) < sheetCount {
		return nil, &consumption.FormatError{
			Path:   path,
			Causes: []error{fmt.Errorf("expected %d sheets, found %d", sheetCount, len(sheets))},
		}
	}

	tables := make([]*table.Table, sheetCount)
	for i := 0; i < sheetCount; i++ {
		tbl, err := table.ReadSheet(f, sheets[i])
		if err != nil {
			return nil, &consumption.FormatError{Path: path, Causes: []error{fmt.Errorf("sheet %q: %w", sheets[i], err)}}
		}
		tables[i] = tbl
	}

	capacity, err := parseCapacity(tables[0])
	if err != nil {
		return nil, err
	}
	profile, err := parseProfile(tables[1])
	if err != nil {
		return nil, err
	}
	autoconsumption, err := parseAutoconsumption(tables[2])
	if err != nil {
		return nil, err
	}
	return &pv.Metadata{
		Capacity:        capacity,
		Profile:         profile,
		Autoconsumption: autoconsumption,
	}, nil
}

func parseCapacity(tbl *table.Table) (pv.CapacityMap, error) {
	if err := consumption.RequireHeaders(tbl.Source, tbl.Headers, ColumnPOD, ColumnSize); err != nil {
		return nil, err
	}
	podIdx, sizeIdx := tbl.Index(ColumnPOD), tbl.Index(ColumnSize)

	capacity := make(pv.CapacityMap, len(tbl.Rows))
	for i, row := range tbl.Rows {
		pod := strings.TrimSpace(row[podIdx])
		if pod == "" {
			continue
		}
		size, _, err := table.ParseNumber(row[sizeIdx])
		if err != nil {
			return nil, cellError(tbl, i, ColumnSize, err)
		}
		capacity[pod] = size
	}
	return capacity, nil
}

func parseProfile(tbl *table.Table) ([]pv.HourlyProduction, error) {
	if err := consumption.RequireHeaders(tbl.Source, tbl.Headers, ColumnTime, ColumnProduction); err != nil {
		return nil, err
	}
	timeIdx, pIdx := tbl.Index(ColumnTime), tbl.Index(ColumnProduction)

	records := make([]pv.HourlyProduction, 0, len(tbl.Rows))
	for i, row := range tbl.Rows {
		p, present, err := table.ParseNumber(row[pIdx])
		if err != nil {
			return nil, cellError(tbl, i, ColumnProduction, err)
		}
		if !present {
			continue
		}
		record, err := pv.NewHourlyProduction(row[timeIdx], p)
		if err != nil {
			return nil, cellError(tbl, i, ColumnTime, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func parseAutoconsumption(tbl *table.Table) (pv.AutoconsumptionTable, error) {
	if err := consumption.RequireHeaders(tbl.Source, tbl.Headers, ColumnMonth, ColumnBand, ColumnAutoconsumption); err != nil {
		return nil, err
	}
	monthIdx, bandIdx, ratioIdx := tbl.Index(ColumnMonth), tbl.Index(ColumnBand), tbl.Index(ColumnAutoconsumption)

	ratios := make(pv.AutoconsumptionTable)
	for i, row := range tbl.Rows {
		month, present, err := table.ParseNumber(row[monthIdx])
		if err != nil || (present && (month != math.Trunc(month) || month < 1 || month > 12)) {
			return nil, cellError(tbl, i, ColumnMonth, fmt.Errorf("invalid month %q", row[monthIdx]))
		}
		band, ok := consumption.ParseBand(row[bandIdx])
		if !present || !ok {
			continue
		}
		ratio, present, err := table.ParseNumber(row[ratioIdx])
		if err != nil {
			return nil, cellError(tbl, i, ColumnAutoconsumption, err)
		}
		if !present {
			continue
		}
		ratios.Set(int(month), band, ratio)
	}
	return ratios, nil
}

func cellError(tbl *table.Table, row int, column string, err error) error {
	return &consumption.FormatError{
		Path:   tbl.Source,
		Causes: []error{fmt.Errorf("data row %d column %q: %w", row+1, column, err)},
	}
}
