package pv

import consumption "pv-report/internal/consumption/domain"

// CapacityMap maps a POD to its installed PV capacity in kW.
type CapacityMap map[string]float64

// Get returns the capacity of pod; an unmapped POD has capacity 0.
func (m CapacityMap) Get(pod string) (float64, bool) {
	kw, ok := m[pod]
	return kw, ok
}

// AutoconsumptionTable maps month -> band -> self-consumption ratio.
type AutoconsumptionTable map[int]map[consumption.Band]float64

// Set stores the ratio of month and band.
func (t AutoconsumptionTable) Set(month int, band consumption.Band, ratio float64) {
	byBand, ok := t[month]
	if !ok {
		byBand = make(map[consumption.Band]float64, len(consumption.Bands))
		t[month] = byBand
	}
	byBand[band] = ratio
}

// Ratio returns the ratio of month and band, 0 when absent.
func (t AutoconsumptionTable) Ratio(month int, band consumption.Band) float64 {
	return t[month][band]
}

// Metadata is the content of a PV metadata workbook.
type Metadata struct {
	Capacity        CapacityMap
	Profile         []HourlyProduction
	Autoconsumption AutoconsumptionTable
}
