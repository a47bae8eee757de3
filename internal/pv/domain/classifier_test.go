package pv

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	consumption "pv-report/internal/consumption/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClassify(t *testing.T) {
	holidays, err := ParseHolidayCalendar([]string{"2025-04-25"})
	require.NoError(t, err)
	c := NewBandClassifier(holidays)

	monday := day(2025, 3, 17)
	saturday := day(2025, 3, 15)
	sunday := day(2025, 3, 16)
	liberation := day(2025, 4, 25)

	tests := []struct {
		name string
		day  time.Time
		hour int
		want consumption.Band
	}{
		{"weekday night", monday, 0, consumption.BandF3},
		{"weekday early", monday, 6, consumption.BandF3},
		{"weekday shoulder morning", monday, 7, consumption.BandF2},
		{"weekday peak start", monday, 8, consumption.BandF1},
		{"weekday peak end", monday, 18, consumption.BandF1},
		{"weekday shoulder evening", monday, 19, consumption.BandF2},
		{"weekday late shoulder", monday, 22, consumption.BandF2},
		{"weekday late", monday, 23, consumption.BandF3},
		{"saturday early", saturday, 6, consumption.BandF3},
		{"saturday morning", saturday, 7, consumption.BandF2},
		{"saturday noon", saturday, 12, consumption.BandF2},
		{"saturday late", saturday, 23, consumption.BandF3},
		{"sunday noon", sunday, 12, consumption.BandF3},
		{"holiday friday noon", liberation, 12, consumption.BandF3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.day, tt.hour))
		})
	}
}

func TestClassifyIsTotal(t *testing.T) {
	c := NewBandClassifier(NewHolidayCalendar(day(2025, 1, 1)))
	start := day(2024, 12, 30)
	for d := 0; d < 14; d++ {
		date := start.AddDate(0, 0, d)
		for hour := 0; hour < 24; hour++ {
			band := c.Classify(date, hour)
			assert.True(t, band.IsValid(), "%s %d", date, hour)
			if date.Weekday() == time.Sunday || c.holidays.IsHoliday(date) {
				assert.Equal(t, consumption.BandF3, band)
			}
		}
	}
}

func TestParseHolidayCalendar(t *testing.T) {
	cal, err := ParseHolidayCalendar([]string{" 2025-12-25", "2025-12-26"})
	require.NoError(t, err)
	assert.Equal(t, 2, cal.Len())
	assert.True(t, cal.IsHoliday(time.Date(2025, 12, 25, 15, 0, 0, 0, time.UTC)))
	assert.False(t, cal.IsHoliday(day(2025, 12, 24)))

	_, err = ParseHolidayCalendar([]string{"25/12/2025"})
	assert.Error(t, err)
}

func TestParsePackedTime(t *testing.T) {
	date, hour, err := ParsePackedTime("20250315:1410")
	require.NoError(t, err)
	assert.Equal(t, day(2025, 3, 15), date)
	assert.Equal(t, 14, hour)

	for _, raw := range []string{"", "2025031", "2025x315:1010", "20250315:2410", "20250315:ab10"} {
		_, _, err := ParsePackedTime(raw)
		assert.True(t, errors.Is(err, ErrInvalidProfileTime), raw)
	}
}

func TestClassifyAllAndSummarize(t *testing.T) {
	var records []HourlyProduction
	for _, packed := range []string{"20250317:1010", "20250317:1110", "20250317:0710", "20250316:1210", "20250401:1010"} {
		r, err := NewHourlyProduction(packed, 100)
		require.NoError(t, err)
		records = append(records, r)
	}
	assert.Equal(t, time.Monday, records[0].Weekday)

	NewBandClassifier(HolidayCalendar{}).ClassifyAll(records)
	summary := Summarize(records)

	assert.Equal(t, []int{3, 4}, summary.Months())
	assert.Equal(t, BandTotals{ProductionWh: 200, Hours: 2}, summary.Totals(3, consumption.BandF1))
	assert.Equal(t, BandTotals{ProductionWh: 100, Hours: 1}, summary.Totals(3, consumption.BandF2))
	assert.Equal(t, BandTotals{ProductionWh: 100, Hours: 1}, summary.Totals(3, consumption.BandF3))
	assert.Equal(t, consumption.BandValues{F1: 100}, summary.Production(4))
	assert.True(t, summary.Has(4))
	assert.False(t, summary.Has(5))
	assert.Equal(t, consumption.BandValues{}, summary.Production(5))
}
