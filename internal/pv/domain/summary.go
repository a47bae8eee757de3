package pv

import (
	"sort"

	consumption "pv-report/internal/consumption/domain"
)

// BandTotals is the production observed in one band of one month.
type BandTotals struct {
	ProductionWh float64
	Hours        int
}

// BandSummary maps month -> band -> totals.
type BandSummary map[int]map[consumption.Band]BandTotals

// Summarize sums production and counts hours per month and band.
// Records must be classified.
func Summarize(records []HourlyProduction) BandSummary {
	summary := make(BandSummary)
	for _, r := range records {
		byBand, ok := summary[r.Month]
		if !ok {
			byBand = make(map[consumption.Band]BandTotals, len(consumption.Bands))
			summary[r.Month] = byBand
		}
		totals := byBand[r.Band]
		totals.ProductionWh += r.P
		totals.Hours++
		byBand[r.Band] = totals
	}
	return summary
}

// Has reports whether month was observed.
func (s BandSummary) Has(month int) bool {
	_, ok := s[month]
	return ok
}

// Totals returns the totals of month and band, zero when unobserved.
func (s BandSummary) Totals(month int, band consumption.Band) BandTotals {
	return s[month][band]
}

// Production returns the per-band production sums of month.
func (s BandSummary) Production(month int) consumption.BandValues {
	var v consumption.BandValues
	for _, band := range consumption.Bands {
		v.Set(band, s[month][band].ProductionWh)
	}
	return v
}

// Months returns the observed months in ascending order.
func (s BandSummary) Months() []int {
	months := make([]int, 0, len(s))
	for m := range s {
		months = append(months, m)
	}
	sort.Ints(months)
	return months
}
