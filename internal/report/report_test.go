package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	consumption "pv-report/internal/consumption/domain"
	pv "pv-report/internal/pv/domain"
)

func TestWriteWorkbook(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.xlsx")

	err := WriteWorkbook(path, []Sheet{
		{Name: "gen-25", Header: []string{"POD", "kWh F1"}, Rows: [][]any{{"A", 1.5}, {"B", 2}}},
		{Name: "feb-25", Header: []string{"POD"}},
	})
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"gen-25", "feb-25"}, f.GetSheetList())
	rows, err := f.GetRows("gen-25")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"POD", "kWh F1"}, {"A", "1.5"}, {"B", "2"}}, rows)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestWriteWorkbookOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteWorkbook(path, []Sheet{{Name: "gen-25", Header: []string{"old"}}}))
	require.NoError(t, WriteWorkbook(path, []Sheet{{Name: "mar-25", Header: []string{"new"}}}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"mar-25"}, f.GetSheetList())
}

func TestWriteWorkbookEmptyPath(t *testing.T) {
	assert.Error(t, WriteWorkbook("", nil))
}

func TestSummarizeMonths(t *testing.T) {
	tables := consumption.MonthTables{
		3: {Month: 3, Rows: []consumption.Record{
			{POD: "A", Energy: consumption.BandValues{F1: 10, F2: 5, F3: 2}, PV: consumption.PVOverlay{SelfConsumedTotal: 4, WithPVTotal: 21}},
			{POD: "B", Energy: consumption.BandValues{F1: 1}, PV: consumption.PVOverlay{WithPVTotal: 1}},
		}},
		13: {Month: 13},
	}
	summary := pv.BandSummary{
		3: {consumption.BandF1: {ProductionWh: 1200, Hours: 2}},
	}

	months := SummarizeMonths(tables, summary, consumption.DefaultSheetCalendar())
	require.Len(t, months, 1)
	m := months[0]
	assert.Equal(t, "mar-25", m.Label)
	assert.Equal(t, 2, m.Rows)
	assert.Equal(t, 18.0, m.Consumption)
	assert.Equal(t, 4.0, m.SelfConsumedTotal)
	assert.Equal(t, 22.0, m.WithPVTotal)
	assert.Equal(t, 1200.0, m.ProfileWh.F1)
	assert.Equal(t, 2, m.ProfileHours[consumption.BandF1])
	assert.Equal(t, 0, m.ProfileHours[consumption.BandF3])
}

func TestWriteSummaryPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.pdf")
	months := []MonthSummary{{
		Month:        3,
		Label:        "mar-25",
		Rows:         2,
		ProfileWh:    consumption.BandValues{F1: 1200},
		ProfileHours: map[consumption.Band]int{consumption.BandF1: 2},
		Consumption:  18,
	}}

	require.NoError(t, WriteSummaryPDF(path, "Riepilogo", months))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestSummaryColumns(t *testing.T) {
	require.Len(t, summaryWidths, len(summaryHeaders))
	assert.Equal(t, "Righe", summaryHeaders[1])
	assert.NotContains(t, summaryHeaders, "POD")
}
