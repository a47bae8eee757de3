package consumption

import (
	"sort"
	"time"
)

// Record is one consumption row of a utility report.
type Record struct {
	POD     string
	Company string
	Month   time.Time
	// Energy holds the kWh F1/F2/F3 columns.
	Energy BandValues
	// Total is the Totale Energia column as given by the source.
	Total float64
	PV    PVOverlay
}

// PVOverlay holds the columns derived by the PV overlay.
type PVOverlay struct {
	SizeKW            float64
	Production        BandValues
	SelfConsumed      BandValues
	SelfConsumedTotal float64
	WithPV            BandValues
	WithPVTotal       float64
	// Weight holds the integer band shares of WithPVTotal, in percent.
	Weight BandValues
}

// MonthTable is the ordered set of records of one calendar month.
type MonthTable struct {
	Month int
	// Columns lists the canonical columns present in the source, in canonical order.
	Columns  []Column
	Rows     []Record
	Enriched bool
}

// Has reports whether column was present in the source.
func (t *MonthTable) Has(column Column) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Require returns a SchemaError listing the columns of required missing from t.
func (t *MonthTable) Require(source string, required ...Column) error {
	var missing []string
	for _, column := range required {
		if !t.Has(column) {
			missing = append(missing, string(column))
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Source: source, Missing: missing}
	}
	return nil
}

// TotalEnergy sums the Total column over every row whose POD is pod.
func (t *MonthTable) TotalEnergy(pod string) float64 {
	var sum float64
	for _, row := range t.Rows {
		if row.POD == pod {
			sum += row.Total
		}
	}
	return sum
}

// MonthTables maps a month number (1-12) to its table.
type MonthTables map[int]*MonthTable

// Months returns the month numbers in ascending order.
func (m MonthTables) Months() []int {
	months := make([]int, 0, len(m))
	for month := range m {
		months = append(months, month)
	}
	sort.Ints(months)
	return months
}

// RowCount returns the number of rows across all months.
func (m MonthTables) RowCount() int {
	var n int
	for _, table := range m {
		n += len(table.Rows)
	}
	return n
}

// Value returns the cell value of a canonical column for spreadsheet output.
func (r Record) Value(column Column) any {
	switch column {
	case ColumnPOD:
		return r.POD
	case ColumnCompany:
		return r.Company
	case ColumnMonth:
		return r.Month
	case ColumnF1:
		return r.Energy.F1
	case ColumnF2:
		return r.Energy.F2
	case ColumnF3:
		return r.Energy.F3
	case ColumnTotal:
		return r.Total
	default:
		return nil
	}
}
