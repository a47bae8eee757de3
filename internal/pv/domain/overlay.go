package pv

import (
	"github.com/shopspring/decimal"

	consumption "pv-report/internal/consumption/domain"
)

// Inputs are the month-independent data of an overlay.
type Inputs struct {
	Capacity        CapacityMap
	Summary         BandSummary
	Autoconsumption AutoconsumptionTable
	Groups          []SharedGroup
}

// OverlayStats reports what an overlay did to one month table.
type OverlayStats struct {
	Rows         int
	UnmappedPODs int
	SummaryFound bool
}

// ApplyOverlay enriches every row of table with PV capacity, banded production,
// shared-group apportionment, self-consumption and post-PV totals and weights.
func ApplyOverlay(table *consumption.MonthTable, in Inputs) OverlayStats {
	stats := OverlayStats{Rows: len(table.Rows), SummaryFound: in.Summary.Has(table.Month)}
	production := in.Summary.Production(table.Month)
	shares := Shares(in.Groups, table)

	for i := range table.Rows {
		row := &table.Rows[i]
		size, mapped := in.Capacity.Get(row.POD)
		if !mapped {
			stats.UnmappedPODs++
		}

		overlay := consumption.PVOverlay{SizeKW: size}
		for _, band := range consumption.Bands {
			overlay.Production.Set(band, size*production.Get(band)/1000)
		}
		if share, ok := shares[row.POD]; ok {
			overlay.Production = overlay.Production.Scale(share)
		}
		for _, band := range consumption.Bands {
			ratio := in.Autoconsumption.Ratio(table.Month, band)
			overlay.SelfConsumed.Set(band, overlay.Production.Get(band)*ratio)
			overlay.WithPV.Set(band, row.Energy.Get(band)+overlay.SelfConsumed.Get(band))
		}
		overlay.SelfConsumedTotal = overlay.SelfConsumed.Sum()
		overlay.WithPVTotal = overlay.WithPV.Sum()

		for _, band := range consumption.Bands {
			overlay.Weight.Set(band, WeightPercent(overlay.WithPV.Get(band), overlay.WithPVTotal))
		}
		row.PV = overlay
	}
	table.Enriched = true
	return stats
}

// WeightPercent returns value/total*100 rounded half to even; a zero total
// divides by 1.
func WeightPercent(value, total float64) float64 {
	if total == 0 {
		total = 1
	}
	return decimal.NewFromFloat(value / total * 100).RoundBank(0).InexactFloat64()
}
