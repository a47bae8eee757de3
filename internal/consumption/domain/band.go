package consumption

import "strings"

// Band is a time-of-use tariff band.
type Band string

const (
	BandF1 Band = "F1"
	BandF2 Band = "F2"
	BandF3 Band = "F3"
)

// Bands lists the bands in reporting order.
var Bands = []Band{BandF1, BandF2, BandF3}

// IsValid reports whether b is one of F1, F2, F3.
func (b Band) IsValid() bool {
	switch b {
	case BandF1, BandF2, BandF3:
		return true
	default:
		return false
	}
}

// ParseBand parses a band label such as "F2" or " f2 ".
func ParseBand(value string) (Band, bool) {
	band := Band(strings.ToUpper(strings.TrimSpace(value)))
	if !band.IsValid() {
		return "", false
	}
	return band, true
}

// BandValues holds one value per band.
type BandValues struct {
	F1 float64
	F2 float64
	F3 float64
}

// Get returns the value for band. Unknown bands read as 0.
func (v BandValues) Get(band Band) float64 {
	switch band {
	case BandF1:
		return v.F1
	case BandF2:
		return v.F2
	case BandF3:
		return v.F3
	default:
		return 0
	}
}

// Set stores value for band. Unknown bands are ignored.
func (v *BandValues) Set(band Band, value float64) {
	switch band {
	case BandF1:
		v.F1 = value
	case BandF2:
		v.F2 = value
	case BandF3:
		v.F3 = value
	}
}

// Sum returns F1+F2+F3.
func (v BandValues) Sum() float64 { return v.F1 + v.F2 + v.F3 }

// Scale multiplies every band by factor.
func (v BandValues) Scale(factor float64) BandValues {
	return BandValues{F1: v.F1 * factor, F2: v.F2 * factor, F3: v.F3 * factor}
}
