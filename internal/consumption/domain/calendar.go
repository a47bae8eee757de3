package consumption

import "fmt"

var italianMonthAbbr = [12]string{"gen", "feb", "mar", "apr", "mag", "giu", "lug", "ago", "set", "ott", "nov", "dic"}

// DefaultSheetYear is the year used for sheet labels when none is configured.
const DefaultSheetYear = 2025

// SheetCalendar maps month numbers to sheet labels such as "gen-25".
type SheetCalendar struct {
	labels map[int]string
}

// NewSheetCalendar builds the label table for year. Only the last two digits are used.
func NewSheetCalendar(year int) SheetCalendar {
	labels := make(map[int]string, len(italianMonthAbbr))
	for i, abbr := range italianMonthAbbr {
		labels[i+1] = fmt.Sprintf("%s-%02d", abbr, year%100)
	}
	return SheetCalendar{labels: labels}
}

// DefaultSheetCalendar returns the calendar for DefaultSheetYear.
func DefaultSheetCalendar() SheetCalendar { return NewSheetCalendar(DefaultSheetYear) }

// Label returns the sheet label of month. Months outside 1-12 have none.
func (c SheetCalendar) Label(month int) (string, bool) {
	if c.labels == nil {
		c = DefaultSheetCalendar()
	}
	label, ok := c.labels[month]
	return label, ok
}
