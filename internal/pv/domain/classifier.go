package pv

import (
	"fmt"
	"strings"
	"time"

	consumption "pv-report/internal/consumption/domain"
)

const dateLayout = "2006-01-02"

// HolidayCalendar is a set of public holidays, compared by calendar date.
type HolidayCalendar struct {
	days map[string]struct{}
}

// NewHolidayCalendar builds a calendar from dates.
func NewHolidayCalendar(dates ...time.Time) HolidayCalendar {
	days := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		days[d.Format(dateLayout)] = struct{}{}
	}
	return HolidayCalendar{days: days}
}

// ParseHolidayCalendar builds a calendar from YYYY-MM-DD strings.
func ParseHolidayCalendar(values []string) (HolidayCalendar, error) {
	dates := make([]time.Time, 0, len(values))
	for _, v := range values {
		d, err := time.Parse(dateLayout, strings.TrimSpace(v))
		if err != nil {
			return HolidayCalendar{}, fmt.Errorf("pv: invalid holiday %q: %w", v, err)
		}
		dates = append(dates, d)
	}
	return NewHolidayCalendar(dates...), nil
}

// IsHoliday reports whether the calendar date of t is a holiday.
func (c HolidayCalendar) IsHoliday(t time.Time) bool {
	_, ok := c.days[t.Format(dateLayout)]
	return ok
}

// Len returns the number of holidays.
func (c HolidayCalendar) Len() int { return len(c.days) }

// BandClassifier assigns hours to time-of-use bands.
type BandClassifier struct {
	holidays HolidayCalendar
}

// NewBandClassifier constructs a classifier over holidays.
func NewBandClassifier(holidays HolidayCalendar) BandClassifier {
	return BandClassifier{holidays: holidays}
}

// Classify returns the band of hour on day. Rules apply in order:
// holidays and Sundays are F3; weekdays are F1 in [8,19), F2 in [7,8) and
// [19,23), F3 otherwise; Saturdays are F2 in [7,23), F3 otherwise.
func (c BandClassifier) Classify(day time.Time, hour int) consumption.Band {
	weekday := day.Weekday()
	if c.holidays.IsHoliday(day) || weekday == time.Sunday {
		return consumption.BandF3
	}
	switch {
	case weekday >= time.Monday && weekday <= time.Friday:
		if hour >= 8 && hour < 19 {
			return consumption.BandF1
		}
		if (hour >= 7 && hour < 8) || (hour >= 19 && hour < 23) {
			return consumption.BandF2
		}
		return consumption.BandF3
	case weekday == time.Saturday:
		if hour >= 7 && hour < 23 {
			return consumption.BandF2
		}
		return consumption.BandF3
	default:
		return consumption.BandF3
	}
}

// ClassifyAll sets Band on every record in place.
func (c BandClassifier) ClassifyAll(records []HourlyProduction) {
	for i := range records {
		records[i].Band = c.Classify(records[i].Date, records[i].Hour)
	}
}
