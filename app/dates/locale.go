package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Korean publishing platforms emit local (KST, UTC+9) wall-clock times with
// no zone marker.
const kstOffset = 9 * 3600

var onblogRe = regexp.MustCompile(
	`^(\d{4})년\s*(\d{1,2})월\s*(\d{1,2})일\s*(\d{1,2}):(\d{2}):(\d{2})$`)

func parseOnblog(s string) (Timestamp, bool) {
	m := onblogRe.FindStringSubmatch(s)
	if m == nil {
		return Timestamp{}, false
	}
	return kstTimestamp(m[1], m[2], m[3], m[4], m[5], m[6], 0), true
}

var nateRe = regexp.MustCompile(
	`^(\d{4})-(\d{2})-(\d{2})\s*(오전|오후)\s*(\d{1,2}):(\d{2}):(\d{2})$`)

func parseNate(s string) (Timestamp, bool) {
	m := nateRe.FindStringSubmatch(s)
	if m == nil {
		return Timestamp{}, false
	}
	pmShift := 0
	hour, _ := strconv.Atoi(m[5])
	if hour == 12 {
		hour = 0
	}
	if m[4] == "오후" { // afternoon
		pmShift = 12
	}
	return kstTimestamp(m[1], m[2], m[3], strconv.Itoa(hour), m[6], m[7], pmShift), true
}

var sqlRe = regexp.MustCompile(
	`^(\d{4})-(\d{2})-(\d{2})\s+(\d{2}):(\d{2}):(\d{2})(\.\d+)?$`)

// parseSQL recognizes SQL-style timestamps with an optional fractional
// second. These show up on Korean portals, so the wall clock is read as KST.
func parseSQL(s string) (Timestamp, bool) {
	m := sqlRe.FindStringSubmatch(s)
	if m == nil {
		return Timestamp{}, false
	}
	return kstTimestamp(m[1], m[2], m[3], m[4], m[5], m[6], 0), true
}

func kstTimestamp(yy, mm, dd, hh, mi, ss string, hourShift int) Timestamp {
	year, _ := strconv.Atoi(yy)
	month, _ := strconv.Atoi(mm)
	day, _ := strconv.Atoi(dd)
	hour, _ := strconv.Atoi(hh)
	min, _ := strconv.Atoi(mi)
	sec, _ := strconv.Atoi(ss)
	return fromParts(year, month, day, hour+hourShift, min, sec, kstOffset)
}

var greekMonths = map[string]string{
	"Ιαν": "Jan", "Φεβ": "Feb", "Μάώ": "Mar", "Μαώ": "Mar", "Μάρ": "Mar", "Μαρ": "Mar",
	"Απρ": "Apr", "Μάι": "May", "Μαϊ": "May", "Μαι": "May",
	"Ιούν": "Jun", "Ιον": "Jun", "Ιουν": "Jun",
	"Ιούλ": "Jul", "Ιολ": "Jul", "Ιουλ": "Jul",
	"Αύγ": "Aug", "Αυγ": "Aug",
	"Σεπ": "Sep", "Οκτ": "Oct", "Νοέ": "Nov", "Νοε": "Nov", "Δεκ": "Dec",
}

var greekWeekdays = map[string]string{
	"Κυρ": "Sun", "Δευ": "Mon", "Τρι": "Tue", "Τετ": "Wed",
	"Πεμ": "Thu", "Παρ": "Fri", "Σαβ": "Sat",
}

var greekDateRe = regexp.MustCompile(
	`^([^,]+),\s+(\d{1,2})\s+(\S+)\s+(\d{4})\s+(\d{2}:\d{2}:\d{2})\s+(\S+)$`)

// parseGreek transliterates Greek weekday and month tokens and hands the
// rebuilt string to the RFC 822 recognizer.
func parseGreek(s string) (Timestamp, bool) {
	m := greekDateRe.FindStringSubmatch(s)
	if m == nil {
		return Timestamp{}, false
	}
	wday, ok := greekWeekdays[m[1]]
	if !ok {
		return Timestamp{}, false
	}
	month, ok := greekMonths[m[3]]
	if !ok {
		return Timestamp{}, false
	}
	rebuilt := fmt.Sprintf("%s, %s %s %s %s %s", wday, m[2], month, m[4], m[5], m[6])
	return parseRFC822(rebuilt)
}

var hungarianMonths = map[string]int{
	"január": 1, "februári": 2, "február": 2, "március": 3, "április": 4,
	"máujus": 5, "május": 5, "június": 6, "július": 7, "augusztus": 8,
	"szeptember": 9, "október": 10, "november": 11, "december": 12,
}

var hungarianDateRe = regexp.MustCompile(
	`^(\d{4})-([^-]+)-(\d{1,2})T(\d{1,2}):(\d{2})((?:\+|-)\d{1,2}:\d{2})?$`)

func parseHungarian(s string) (Timestamp, bool) {
	m := hungarianDateRe.FindStringSubmatch(s)
	if m == nil {
		return Timestamp{}, false
	}
	month, ok := hungarianMonths[strings.ToLower(m[2])]
	if !ok {
		return Timestamp{}, false
	}
	day, _ := strconv.Atoi(m[3])
	rebuilt := fmt.Sprintf("%s-%02d-%02dT%s:%s%s", m[1], month, day, m[4], m[5], m[6])
	return parseW3DTF(rebuilt)
}
