package dates

import (
	"fmt"
	"time"
)

// Timestamp is a fully resolved calendar value, always normalized to UTC.
// Weekday (Monday == 0) and YearDay are derived from the date fields and are
// never taken from the input directly.
type Timestamp struct {
	Year    int
	Month   int
	Day     int
	Hour    int
	Minute  int
	Second  int
	Weekday int // Monday == 0 ... Sunday == 6
	YearDay int // 1-based day of year
	DST     bool
}

// FromTime converts a time.Time into a UTC Timestamp.
func FromTime(t time.Time) Timestamp {
	u := t.UTC()
	return Timestamp{
		Year:    u.Year(),
		Month:   int(u.Month()),
		Day:     u.Day(),
		Hour:    u.Hour(),
		Minute:  u.Minute(),
		Second:  u.Second(),
		Weekday: (int(u.Weekday()) + 6) % 7,
		YearDay: u.YearDay(),
	}
}

// fromParts builds a Timestamp from raw calendar components and a UTC offset
// in seconds. Out-of-range components carry over via calendar arithmetic:
// 61 seconds becomes +1 minute, hour 25 becomes +1 day, June 31 rolls to
// July 1, and leap years (including the century/400 rule) are honored.
func fromParts(year, month, day, hour, min, sec, offsetSec int) Timestamp {
	loc := time.UTC
	if offsetSec != 0 {
		loc = time.FixedZone("", offsetSec)
	}
	return FromTime(time.Date(year, time.Month(month), day, hour, min, sec, 0, loc))
}

// Time converts the Timestamp back into a time.Time in UTC.
func (ts Timestamp) Time() time.Time {
	return time.Date(ts.Year, time.Month(ts.Month), ts.Day, ts.Hour, ts.Minute, ts.Second, 0, time.UTC)
}

// Tuple returns the nine calendar fields as integers, in the order
// year, month, day, hour, minute, second, weekday, yearday, dst.
func (ts Timestamp) Tuple() [9]int {
	dst := 0
	if ts.DST {
		dst = 1
	}
	return [9]int{ts.Year, ts.Month, ts.Day, ts.Hour, ts.Minute, ts.Second, ts.Weekday, ts.YearDay, dst}
}

func (ts Timestamp) String() string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02dZ",
		ts.Year, ts.Month, ts.Day, ts.Hour, ts.Minute, ts.Second)
}
