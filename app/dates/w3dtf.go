package dates

import (
	"regexp"
	"strconv"
)

var w3dtfRe = regexp.MustCompile(
	`^(\d{4})(?:-(\d{2})(?:-(\d{2}))?|(\d{2})(\d{2}))?` +
		`(?:[Tt](\d{1,2}):(\d{2})(?::(\d{2})(?:\.\d+)?)?([Zz]|[+-]\d{1,2}:?\d{2})?)?$`)

// parseW3DTF recognizes W3C date-time format: full timestamps with optional
// fractional seconds, optional numeric zone, and the truncated year-only,
// year-month and year-month-day forms. The hyphen-less date form must carry
// all eight digits (YYYYMMDD), so shorter compact strings stay available to
// the two-digit-year recognizers. Out-of-range components are corrected by
// calendar carry rather than rejected.
func parseW3DTF(s string) (Timestamp, bool) {
	m := w3dtfRe.FindStringSubmatch(s)
	if m == nil {
		return Timestamp{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, day := 1, 1
	switch {
	case m[2] != "":
		month, _ = strconv.Atoi(m[2])
		if m[3] != "" {
			day, _ = strconv.Atoi(m[3])
		}
	case m[4] != "":
		month, _ = strconv.Atoi(m[4])
		day, _ = strconv.Atoi(m[5])
	}
	var hour, min, sec, offset int
	if m[6] != "" {
		hour, _ = strconv.Atoi(m[6])
		min, _ = strconv.Atoi(m[7])
		if m[8] != "" {
			sec, _ = strconv.Atoi(m[8])
		}
		if off, ok := numericOffset(m[9]); ok {
			offset = off
		}
	}
	return fromParts(year, month, day, hour, min, sec, offset), true
}
