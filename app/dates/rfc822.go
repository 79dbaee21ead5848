package dates

import (
	"strconv"
	"strings"
)

var monthsByPrefix = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

var weekdayPrefixes = map[string]bool{
	"mon": true, "tue": true, "wed": true, "thu": true,
	"fri": true, "sat": true, "sun": true,
}

// zoneOffsets maps named timezone abbreviations to fixed offsets in seconds
// east of UTC. The two-letter forms (AT, ET, ...) are informal variants some
// publishers emit in place of the standard-time abbreviations.
var zoneOffsets = map[string]int{
	"ut": 0, "gmt": 0, "utc": 0, "z": 0,
	"est": -5 * 3600, "edt": -4 * 3600,
	"cst": -6 * 3600, "cdt": -5 * 3600,
	"mst": -7 * 3600, "mdt": -6 * 3600,
	"pst": -8 * 3600, "pdt": -7 * 3600,
	"ast": -4 * 3600, "adt": -3 * 3600,
	"at": -4 * 3600, "et": -5 * 3600, "ct": -6 * 3600,
	"mt": -7 * 3600, "pt": -8 * 3600,
}

// parseRFC822 recognizes RFC 822 style dates and their common mutations:
// long month names, 2-digit years, missing seconds or missing time of day,
// named or numeric timezones, and asctime ordering (month before day, year
// last).
func parseRFC822(s string) (Timestamp, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Timestamp{}, false
	}
	if isWeekdayToken(fields[0]) {
		fields = fields[1:]
	}
	if len(fields) < 3 {
		return Timestamp{}, false
	}

	if _, ok := monthFromToken(fields[0]); ok {
		return parseAsctime(fields)
	}

	day, err := strconv.Atoi(fields[0])
	if err != nil {
		return Timestamp{}, false
	}
	month, ok := monthFromToken(fields[1])
	if !ok {
		return Timestamp{}, false
	}
	year, err := strconv.Atoi(fields[2])
	if err != nil {
		return Timestamp{}, false
	}
	year = fixTwoDigitYear(year)

	var hour, min, sec int
	if len(fields) > 3 {
		if hour, min, sec, ok = parseTimeOfDay(fields[3]); !ok {
			return Timestamp{}, false
		}
	}
	offset := 0
	if len(fields) > 4 {
		offset = zoneOffset(fields[4])
	}

	return fromParts(year, month, day, hour, min, sec, offset), true
}

// parseAsctime handles "Sun Jan  4 16:29:06 PST 2004" ordering. The weekday
// has already been stripped.
func parseAsctime(fields []string) (Timestamp, bool) {
	if len(fields) < 4 {
		return Timestamp{}, false
	}
	month, ok := monthFromToken(fields[0])
	if !ok {
		return Timestamp{}, false
	}
	day, err := strconv.Atoi(fields[1])
	if err != nil {
		return Timestamp{}, false
	}
	hour, min, sec, ok := parseTimeOfDay(fields[2])
	if !ok {
		return Timestamp{}, false
	}
	offset := 0
	yearTok := fields[3]
	if len(fields) > 4 {
		offset = zoneOffset(fields[3])
		yearTok = fields[4]
	}
	year, err := strconv.Atoi(yearTok)
	if err != nil {
		return Timestamp{}, false
	}
	return fromParts(fixTwoDigitYear(year), month, day, hour, min, sec, offset), true
}

func isWeekdayToken(tok string) bool {
	tok = strings.ToLower(strings.TrimSuffix(tok, ","))
	if len(tok) < 3 {
		return false
	}
	return weekdayPrefixes[tok[:3]]
}

func monthFromToken(tok string) (int, bool) {
	tok = strings.ToLower(strings.TrimSuffix(tok, ","))
	if len(tok) < 3 {
		return 0, false
	}
	for _, r := range tok {
		if r < 'a' || r > 'z' {
			return 0, false
		}
	}
	m, ok := monthsByPrefix[tok[:3]]
	return m, ok
}

func parseTimeOfDay(tok string) (hour, min, sec int, ok bool) {
	parts := strings.Split(tok, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, 0, false
	}
	var err error
	if hour, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, 0, false
	}
	if min, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, 0, false
	}
	if len(parts) == 3 {
		// tolerate fractional seconds
		secTok, _, _ := strings.Cut(parts[2], ".")
		if sec, err = strconv.Atoi(secTok); err != nil {
			return 0, 0, 0, false
		}
	}
	return hour, min, sec, true
}

// zoneOffset resolves a timezone token to seconds east of UTC. Numeric
// offsets apply directly; named abbreviations come from the fixed table;
// anything unrecognized defaults to UTC rather than failing the whole parse.
func zoneOffset(tok string) int {
	if off, ok := numericOffset(tok); ok {
		return off
	}
	name := strings.ToLower(tok)
	name = strings.TrimPrefix(name, "etc/")
	if off, ok := zoneOffsets[name]; ok {
		return off
	}
	return 0
}

func numericOffset(tok string) (int, bool) {
	if len(tok) < 3 || (tok[0] != '+' && tok[0] != '-') {
		return 0, false
	}
	sign := 1
	if tok[0] == '-' {
		sign = -1
	}
	digits := strings.ReplaceAll(tok[1:], ":", "")
	if len(digits) == 2 {
		digits += "00"
	}
	if len(digits) != 4 {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return sign * ((n/100)*3600 + (n%100)*60), true
}

func fixTwoDigitYear(year int) int {
	switch {
	case year >= 100:
		return year
	case year < 70:
		return year + 2000
	default:
		return year + 1900
	}
}
