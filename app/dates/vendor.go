package dates

import (
	"regexp"
	"strconv"
	"strings"
)

var perforceRe = regexp.MustCompile(
	`^(?:\w{3},\s+)?(\d{4})/(\d{2})/(\d{2})\s+(\d{2}):(\d{2}):(\d{2})\s+(\S+)$`)

// parsePerforce recognizes the slash-separated timestamps emitted by source
// control changelist feeds, e.g. "Fri, 2006/09/15 08:19:53 EDT".
func parsePerforce(s string) (Timestamp, bool) {
	m := perforceRe.FindStringSubmatch(s)
	if m == nil {
		return Timestamp{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	min, _ := strconv.Atoi(m[5])
	sec, _ := strconv.Atoi(m[6])
	return fromParts(year, month, day, hour, min, sec, zoneOffset(m[7])), true
}

var googleMonthRe = regexp.MustCompile(
	`^(\d{4})-(\d{3})-(\d{2})[Tt](\d{2}):(\d{2}):(\d{2})([Zz]|[+-]\d{1,2}:?\d{2})?$`)

// parseGoogleMonth handles the W3CDTF mutation some Google feeds produced,
// with a superfluous leading zero in the month field ("2003-012-31...").
func parseGoogleMonth(s string) (Timestamp, bool) {
	m := googleMonthRe.FindStringSubmatch(s)
	if m == nil || !strings.HasPrefix(m[2], "0") {
		return Timestamp{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	min, _ := strconv.Atoi(m[5])
	sec, _ := strconv.Atoi(m[6])
	offset := 0
	if off, ok := numericOffset(m[7]); ok {
		offset = off
	}
	return fromParts(year, month, day, hour, min, sec, offset), true
}
