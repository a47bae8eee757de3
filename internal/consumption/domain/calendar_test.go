package consumption

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSheetCalendarLabels(t *testing.T) {
	cal := DefaultSheetCalendar()
	want := []string{"gen-25", "feb-25", "mar-25", "apr-25", "mag-25", "giu-25", "lug-25", "ago-25", "set-25", "ott-25", "nov-25", "dic-25"}
	for i, label := range want {
		got, ok := cal.Label(i + 1)
		assert.True(t, ok)
		assert.Equal(t, label, got)
	}

	_, ok := cal.Label(0)
	assert.False(t, ok)
	_, ok = cal.Label(13)
	assert.False(t, ok)
}

func TestSheetCalendarYear(t *testing.T) {
	label, ok := NewSheetCalendar(2026).Label(3)
	assert.True(t, ok)
	assert.Equal(t, "mar-26", label)

	label, _ = NewSheetCalendar(2105).Label(1)
	assert.Equal(t, "gen-05", label)
}

func TestZeroSheetCalendarUsesDefault(t *testing.T) {
	var cal SheetCalendar
	label, ok := cal.Label(12)
	assert.True(t, ok)
	assert.Equal(t, "dic-25", label)
}

func TestBandValues(t *testing.T) {
	var v BandValues
	v.Set(BandF1, 1)
	v.Set(BandF2, 2)
	v.Set(BandF3, 3)
	v.Set(Band("F4"), 100)

	assert.Equal(t, 6.0, v.Sum())
	assert.Equal(t, 2.0, v.Get(BandF2))
	assert.Equal(t, 0.0, v.Get(Band("F4")))
	assert.Equal(t, BandValues{F1: 2, F2: 4, F3: 6}, v.Scale(2))

	band, ok := ParseBand(" f3 ")
	assert.True(t, ok)
	assert.Equal(t, BandF3, band)
	_, ok = ParseBand("F0")
	assert.False(t, ok)
}
