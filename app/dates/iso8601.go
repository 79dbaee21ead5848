package dates

import (
	"regexp"
	"strconv"
)

// Truncated ISO 8601 forms that W3CDTF does not cover: 2-digit years with or
// without hyphens, and ordinal (day-of-year) dates.
var (
	isoShortDateRe  = regexp.MustCompile(`^(\d{2})(\d{2})(\d{2})$`)   // 031231
	isoOrdinalRe    = regexp.MustCompile(`^(\d{2})(\d{3})$`)          // 03335
	isoDashedDateRe = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{2})$`) // 03-12-31
	isoYearMonthRe  = regexp.MustCompile(`^-(\d{2})-?(\d{2})$`)       // -0312, -03-12
)

func parseISO8601(s string) (Timestamp, bool) {
	if m := isoShortDateRe.FindStringSubmatch(s); m != nil {
		return isoDate(m[1], m[2], m[3])
	}
	if m := isoDashedDateRe.FindStringSubmatch(s); m != nil {
		return isoDate(m[1], m[2], m[3])
	}
	if m := isoYearMonthRe.FindStringSubmatch(s); m != nil {
		return isoDate(m[1], m[2], "1")
	}
	if m := isoOrdinalRe.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		yearDay, _ := strconv.Atoi(m[2])
		if yearDay < 1 || yearDay > 366 {
			return Timestamp{}, false
		}
		// day-of-year resolves through the same carry arithmetic
		return fromParts(fixTwoDigitYear(year), 1, yearDay, 0, 0, 0, 0), true
	}
	return Timestamp{}, false
}

func isoDate(yy, mm, dd string) (Timestamp, bool) {
	year, _ := strconv.Atoi(yy)
	month, _ := strconv.Atoi(mm)
	day, _ := strconv.Atoi(dd)
	if month < 1 || month > 12 {
		return Timestamp{}, false
	}
	return fromParts(fixTwoDigitYear(year), month, day, 0, 0, 0, 0), true
}
