package customer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// spreadsheetEpochOffset is the serial number of 1970-01-01 in the
// 1900 date system used by spreadsheet applications.
const spreadsheetEpochOffset = 25569

// maxSerial is the serial of 10000-01-01, one past the last date a
// spreadsheet can hold.
const maxSerial = 2958466

var serialPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// SerialToDate converts a spreadsheet day serial to a UTC calendar date.
// Any fractional (time of day) part is dropped.
func SerialToDate(serial float64) time.Time {
	days := int(math.Floor(serial)) - spreadsheetEpochOffset
	return time.Unix(0, 0).UTC().AddDate(0, 0, days)
}

// NormalizeDate rewrites the date notations accepted on input into
// YYYY-MM-DD. Numeric values are spreadsheet serials, D-M-Y strings are
// reordered, Y-M-D strings are zero padded. Anything else is returned
// trimmed but otherwise unchanged so that parsing reports it.
func NormalizeDate(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return value
	}

	if serial, ok := parseSerial(value); ok {
		return FormatDate(SerialToDate(serial))
	}

	parts := strings.FieldsFunc(value, func(r rune) bool { return r == '-' || r == '/' })
	if len(parts) != 3 || strings.Count(value, "-")+strings.Count(value, "/") != 2 {
		return value
	}
	for _, p := range parts {
		if _, err := strconv.Atoi(p); err != nil {
			return value
		}
	}

	if len(parts[0]) == 4 {
		return fmt.Sprintf("%s-%s-%s", parts[0], pad2(parts[1]), pad2(parts[2]))
	}
	return fmt.Sprintf("%s-%s-%s", parts[2], pad2(parts[1]), pad2(parts[0]))
}

// parseSerial accepts only plain positive decimals inside the spreadsheet
// date range. NaN, infinities, exponents and hex floats are not serials.
func parseSerial(value string) (float64, bool) {
	if !serialPattern.MatchString(value) {
		return 0, false
	}
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(serial) || math.IsInf(serial, 0) {
		return 0, false
	}
	if serial <= 0 || serial >= maxSerial {
		return 0, false
	}
	return serial, true
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
