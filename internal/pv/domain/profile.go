package pv

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	consumption "pv-report/internal/consumption/domain"
)

// ErrInvalidProfileTime is returned for a malformed packed profile timestamp.
var ErrInvalidProfileTime = errors.New("pv: invalid profile time")

// HourlyProduction is one row of the hourly production profile.
type HourlyProduction struct {
	Date    time.Time
	Month   int
	Weekday time.Weekday
	Hour    int
	// P is the production of the reference installation for this hour.
	P    float64
	Band consumption.Band
}

// ParsePackedTime parses a packed "YYYYMMDD:HHMM" profile timestamp. The date is
// read from the first eight characters and the hour from characters 9-10.
func ParsePackedTime(raw string) (time.Time, int, error) {
	value := strings.TrimSpace(raw)
	if len(value) < 11 {
		return time.Time{}, 0, fmt.Errorf("%w: %q", ErrInvalidProfileTime, raw)
	}
	date, err := time.Parse("20060102", value[:8])
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("%w: %q", ErrInvalidProfileTime, raw)
	}
	hour, err := strconv.Atoi(value[9:11])
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, 0, fmt.Errorf("%w: %q", ErrInvalidProfileTime, raw)
	}
	return date, hour, nil
}

// NewHourlyProduction builds an unclassified profile row from its packed time and value.
func NewHourlyProduction(packedTime string, p float64) (HourlyProduction, error) {
	date, hour, err := ParsePackedTime(packedTime)
	if err != nil {
		return HourlyProduction{}, err
	}
	return HourlyProduction{
		Date:    date,
		Month:   int(date.Month()),
		Weekday: date.Weekday(),
		Hour:    hour,
		P:       p,
	}, nil
}
