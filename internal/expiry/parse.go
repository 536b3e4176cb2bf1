// Package expiry turns loosely formatted ingredient expiry dates into
// day-granular freshness classifications.
package expiry

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// thaiMonths maps Thai month abbreviations and full names to time.Month.
var thaiMonths = map[string]time.Month{
	"ม.ค.":       time.January,
	"ก.พ.":       time.February,
	"มี.ค.":      time.March,
	"เม.ย.":      time.April,
	"พ.ค.":       time.May,
	"มิ.ย.":      time.June,
	"ก.ค.":       time.July,
	"ส.ค.":       time.August,
	"ก.ย.":       time.September,
	"ต.ค.":       time.October,
	"พ.ย.":       time.November,
	"ธ.ค.":       time.December,
	"มกราคม":     time.January,
	"กุมภาพันธ์": time.February,
	"มีนาคม":     time.March,
	"เมษายน":     time.April,
	"พฤษภาคม":    time.May,
	"มิถุนายน":   time.June,
	"กรกฎาคม":    time.July,
	"สิงหาคม":    time.August,
	"กันยายน":    time.September,
	"ตุลาคม":     time.October,
	"พฤศจิกายน":  time.November,
	"ธันวาคม":    time.December,
}

var slashDate = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)

// ParseDate parses an expiry date written as a Thai short date ("9 ส.ค. 2568",
// Buddhist Era years above 2500 converted to Gregorian), a D/M/YYYY slash date,
// or an ISO-8601 string, tried in that order. The empty string and the "-"
// placeholder mean "no expiry". The returned time is midnight in loc.
// ok is false when no format matches; parse failures are never errors here,
// the item is simply unclassifiable.
func ParseDate(raw string, loc *time.Location) (t time.Time, ok bool) {
	if loc == nil {
		loc = time.Local
	}
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "-" {
		return time.Time{}, false
	}

	if t, ok := parseThaiDate(raw, loc); ok {
		return t, true
	}
	if t, ok := parseSlashDate(raw, loc); ok {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return Midnight(t.In(loc)), true
	}
	return time.Time{}, false
}

// FromUnix converts Unix seconds to a midnight-truncated date in loc.
// Non-positive values are rejected.
func FromUnix(sec int64, loc *time.Location) (time.Time, bool) {
	if sec <= 0 {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	return Midnight(time.Unix(sec, 0).In(loc)), true
}

// parseThaiDate handles "D MMM YYYY" with Thai month names and BE years.
func parseThaiDate(raw string, loc *time.Location) (time.Time, bool) {
	fields := strings.Fields(raw)
	if len(fields) != 3 {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(fields[0])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	month, found := thaiMonths[fields[1]]
	if !found {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(fields[2])
	if err != nil {
		return time.Time{}, false
	}
	if year > 2500 {
		year -= 543 // Buddhist Era
	}

	return validDate(year, month, day, loc)
}

// parseSlashDate handles "D/M/YYYY" in day/month/year order, Gregorian.
func parseSlashDate(raw string, loc *time.Location) (time.Time, bool) {
	m := slashDate.FindStringSubmatch(raw)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 {
		return time.Time{}, false
	}
	return validDate(year, time.Month(month), day, loc)
}

// validDate builds the date and rejects overflow like 31/2 that time.Date
// would silently roll into the next month.
func validDate(year int, month time.Month, day int, loc *time.Location) (time.Time, bool) {
	t := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, false
	}
	return t, true
}

// Midnight truncates t to local midnight.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the rounded whole-day difference to - from, with both
// sides truncated to midnight first. Positive means to is in the future.
// Rounding (rather than truncating) keeps the result exact across DST shifts.
func DaysBetween(from, to time.Time) int {
	hours := Midnight(to).Sub(Midnight(from)).Hours()
	return int(math.Round(hours / 24))
}
