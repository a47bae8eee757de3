package metadata

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	consumption "pv-report/internal/consumption/domain"
)

type sheetFixture struct {
	name string
	rows [][]any
}

func writeFixture(t *testing.T, sheets ...sheetFixture) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Info_PV_per_script.xlsx")
	f := excelize.NewFile()
	defer f.Close()
	for i, sheet := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", sheet.name))
		} else {
			_, err := f.NewSheet(sheet.name)
			require.NoError(t, err)
		}
		for r, row := range sheet.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			values := row
			require.NoError(t, f.SetSheetRow(sheet.name, cell, &values))
		}
	}
	require.NoError(t, f.SaveAs(path))
	return path
}

func capacitySheet(rows ...[]any) sheetFixture {
	return sheetFixture{name: "taglie", rows: append([][]any{{" POD ", "Taglia PV [kW]"}}, rows...)}
}

func profileSheet(rows ...[]any) sheetFixture {
	return sheetFixture{name: "profilo", rows: append([][]any{{"time", "P"}}, rows...)}
}

func autoconsumptionSheet(rows ...[]any) sheetFixture {
	return sheetFixture{name: "autoconsumo", rows: append([][]any{{"mese", "fascia", "%autoconsumo"}}, rows...)}
}

func TestLoad(t *testing.T) {
	path := writeFixture(t,
		capacitySheet([]any{"IT001", 10}, []any{"", 5}, []any{"IT002", 2.5}),
		profileSheet([]any{"20250317:1010", 1200}, []any{"20250317:1110", ""}, []any{"20250316:1210", 800.5}),
		autoconsumptionSheet([]any{3, "F1", 0.5}, []any{3, "f2", 0.25}, []any{4, "F9", 1}, []any{"", "F1", 1}, []any{5, "F3", ""}),
	)

	meta, err := NewLoader().Load(path)
	require.NoError(t, err)

	assert.Len(t, meta.Capacity, 2)
	size, ok := meta.Capacity.Get("IT001")
	assert.True(t, ok)
	assert.Equal(t, 10.0, size)
	size, _ = meta.Capacity.Get("IT002")
	assert.Equal(t, 2.5, size)

	require.Len(t, meta.Profile, 2)
	assert.Equal(t, 10, meta.Profile[0].Hour)
	assert.Equal(t, 3, meta.Profile[0].Month)
	assert.Equal(t, 1200.0, meta.Profile[0].P)
	assert.Equal(t, 800.5, meta.Profile[1].P)
	assert.Equal(t, consumption.Band(""), meta.Profile[0].Band)

	assert.Equal(t, 0.5, meta.Autoconsumption.Ratio(3, consumption.BandF1))
	assert.Equal(t, 0.25, meta.Autoconsumption.Ratio(3, consumption.BandF2))
	assert.Equal(t, 0.0, meta.Autoconsumption.Ratio(5, consumption.BandF3))
	assert.NotContains(t, meta.Autoconsumption, 4)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.ErrorIs(t, err, consumption.ErrMissingFile)
}

func TestLoadTooFewSheets(t *testing.T) {
	path := writeFixture(t, capacitySheet([]any{"IT001", 1}), profileSheet())

	_, err := NewLoader().Load(path)
	assert.ErrorIs(t, err, consumption.ErrFormat)
}

func TestLoadMissingHeaders(t *testing.T) {
	path := writeFixture(t,
		sheetFixture{name: "taglie", rows: [][]any{{"POD", "Potenza"}, {"IT001", 1}}},
		profileSheet(),
		autoconsumptionSheet(),
	)

	_, err := NewLoader().Load(path)
	require.Error(t, err)
	var schemaErr *consumption.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{"Taglia PV [kW]"}, schemaErr.Missing)
	assert.Contains(t, err.Error(), "Taglia PV [kW]")
}

func TestLoadInvalidCells(t *testing.T) {
	tests := []struct {
		name   string
		sheets []sheetFixture
		column string
	}{
		{
			name:   "size",
			sheets: []sheetFixture{capacitySheet([]any{"IT001", "dieci"}), profileSheet(), autoconsumptionSheet()},
			column: ColumnSize,
		},
		{
			name:   "packed time",
			sheets: []sheetFixture{capacitySheet(), profileSheet([]any{"2025-03-17 10:00", 10}), autoconsumptionSheet()},
			column: ColumnTime,
		},
		{
			name:   "month",
			sheets: []sheetFixture{capacitySheet(), profileSheet(), autoconsumptionSheet([]any{13, "F1", 0.5})},
			column: ColumnMonth,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().Load(writeFixture(t, tt.sheets...))
			require.Error(t, err)
			assert.ErrorIs(t, err, consumption.ErrFormat)
			assert.Contains(t, err.Error(), tt.column)
		})
	}
}
