package table

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02/01/2006",
	"02/01/2006 15:04:05",
	"02.01.2006",
	"02.01.06",
	"2006/01/02",
	"02-01-2006",
	"02-01-06",
	"2006-01",
	"01/2006",
}

// ParseDate parses a date cell: an Excel serial number in the 1900 date system
// or one of the supported textual layouts. Day-first is assumed for slash, dot
// and dash separated dates.
func ParseDate(raw string) (time.Time, error) {
	return parseDate(raw, false)
}

func parseDate(raw string, date1904 bool) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, errors.New("empty date")
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		if serial <= 0 {
			return time.Time{}, fmt.Errorf("invalid date serial %q", value)
		}
		return excelize.ExcelDateToTime(serial, date1904)
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", value)
}

// ParseNumber parses a numeric cell. Blank cells are reported as not present.
// A decimal comma is accepted when the value carries no dot.
func ParseNumber(raw string) (float64, bool, error) {
	value := strings.TrimSpace(raw)
	if value == "" || strings.EqualFold(value, "nan") {
		return 0, false, nil
	}
	if strings.Contains(value, ",") && !strings.Contains(value, ".") {
		value = strings.ReplaceAll(value, ",", ".")
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid number %q", raw)
	}
	return parsed, true, nil
}
