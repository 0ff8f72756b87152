// Package nepali converts between Gregorian (AD) dates and the Bikram Sambat
// (BS) calendar, and resolves the BS reporting periods (today/week/month/year)
// to AD date ranges for querying.
//
// Conversion never fails loudly: formatters return the input unchanged and
// range computation falls back to "now", because a bad date must not take a
// report down with it.
package nepali

import (
	"fmt"
	"regexp"
	"time"

	"github.com/opensource-nepal/go-nepali/dateConverter"
)

// Kathmandu is the fixed UTC+05:45 offset used for all BS computations.
// Nepal has no DST, so a fixed zone is equivalent to the IANA zone and does
// not depend on the host tzdata.
var Kathmandu = time.FixedZone("Asia/Kathmandu", 5*3600+45*60)

type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// DateRange is an inclusive AD date range, both ends YYYY-MM-DD.
type DateRange struct {
	StartAD string `json:"start_ad"`
	EndAD   string `json:"end_ad"`
}

var dateOnly = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// parseAD accepts the formats that cross the store boundary: a bare
// YYYY-MM-DD (interpreted as Kathmandu midnight), the storage-engine
// timestamp format, or a full ISO instant.
func parseAD(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if dateOnly.MatchString(value) {
		t, err := time.ParseInLocation("2006-01-02", value, Kathmandu)
		return t, err == nil
	}
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatBS renders an AD date or timestamp string as a BS YYYY-MM-DD string.
// Unparseable input comes back unchanged.
func FormatBS(value string) string {
	t, ok := parseAD(value)
	if !ok {
		return value
	}
	local := t.In(Kathmandu)
	bs, err := dateConverter.EnglishToNepali(local.Year(), int(local.Month()), local.Day())
	if err != nil || bs == nil {
		return value
	}
	return fmt.Sprintf("%04d-%02d-%02d", bs[0], bs[1], bs[2])
}

// FormatBSDateTime is FormatBS plus a 12-hour Kathmandu time of day.
func FormatBSDateTime(value string) string {
	t, ok := parseAD(value)
	if !ok {
		return value
	}
	return FormatBS(value) + " " + t.In(Kathmandu).Format("03:04 PM")
}

// ToGregorian converts a BS date to Kathmandu midnight of its AD equivalent.
// The converter wants 1-based months; if that yields an invalid date the
// call is retried with a 0-based month, which papers over off-by-one
// indexing quirks between calendar libraries. ok is false when both fail.
func ToGregorian(bsYear, bsMonth, bsDay int) (time.Time, bool) {
	for _, month := range []int{bsMonth, bsMonth - 1} {
		if month < 1 {
			continue
		}
		ad, err := dateConverter.NepaliToEnglish(bsYear, month, bsDay)
		if err != nil || ad == nil {
			continue
		}
		return time.Date(ad[0], time.Month(ad[1]), ad[2], 0, 0, 0, 0, Kathmandu), true
	}
	return time.Time{}, false
}

func formatAD(t time.Time) string {
	return t.Format("2006-01-02")
}

// todayBS is the BS date of now in Kathmandu. When conversion fails the AD
// components are used as-is so callers still get a usable range.
func todayBS(now time.Time) (year, month, day int) {
	local := now.In(Kathmandu)
	bs, err := dateConverter.EnglishToNepali(local.Year(), int(local.Month()), local.Day())
	if err != nil || bs == nil {
		return local.Year(), int(local.Month()), local.Day()
	}
	return bs[0], bs[1], bs[2]
}

// PeriodRange resolves a reporting period to an inclusive AD range using BS
// calendar boundaries. The week period deliberately uses the Gregorian
// Sunday-start week in Kathmandu time, not a BS week concept.
// StartAD <= EndAD always holds.
func PeriodRange(period Period, now time.Time) DateRange {
	local := now.In(Kathmandu)
	bsYear, bsMonth, bsDay := todayBS(now)

	switch period {
	case PeriodWeek:
		midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Kathmandu)
		start := midnight.AddDate(0, 0, -int(midnight.Weekday()))
		end := start.AddDate(0, 0, 6)
		return orderedRange(start, end)

	case PeriodMonth:
		start, ok := ToGregorian(bsYear, bsMonth, 1)
		if !ok {
			start = local
		}
		nextYear, nextMonth := bsYear, bsMonth+1
		if bsMonth == 12 {
			nextYear, nextMonth = bsYear+1, 1
		}
		nextStart, ok := ToGregorian(nextYear, nextMonth, 1)
		if !ok {
			nextStart = local
		}
		return orderedRange(start, nextStart.AddDate(0, 0, -1))

	case PeriodYear:
		start, ok := ToGregorian(bsYear, 1, 1)
		if !ok {
			start = local
		}
		nextStart, ok := ToGregorian(bsYear+1, 1, 1)
		if !ok {
			nextStart = local
		}
		return orderedRange(start, nextStart.AddDate(0, 0, -1))

	default: // today
		ad, ok := ToGregorian(bsYear, bsMonth, bsDay)
		if !ok {
			ad = local
		}
		iso := formatAD(ad)
		return DateRange{StartAD: iso, EndAD: iso}
	}
}

// orderedRange swaps the bounds if a conversion anomaly inverted them.
func orderedRange(start, end time.Time) DateRange {
	s, e := formatAD(start), formatAD(end)
	if s > e {
		s, e = e, s
	}
	return DateRange{StartAD: s, EndAD: e}
}
