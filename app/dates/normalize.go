package dates

import "strings"

// recognizer fully resolves a date string or declines. Recognizers never
// return partial results.
type recognizer struct {
	name  string
	parse func(string) (Timestamp, bool)
}

// registry holds all recognizers in fixed priority order. Locale-specific and
// vendor formats run first because several of them are structurally ambiguous
// subsets of the generic ones (an SQL timestamp would also satisfy a lenient
// W3CDTF reading, with a different timezone assumption).
var registry = []recognizer{
	{"greek", parseGreek},
	{"hungarian", parseHungarian},
	{"onblog", parseOnblog},
	{"nate", parseNate},
	{"perforce", parsePerforce},
	{"google", parseGoogleMonth},
	{"sql", parseSQL},
	{"rfc822", parseRFC822},
	{"w3dtf", parseW3DTF},
	{"iso8601", parseISO8601},
}

// Normalize converts a free-form date string into a canonical UTC Timestamp.
// The second return value reports whether any recognizer matched; absence of
// a match is a normal outcome, not an error. Empty or whitespace-only input
// never matches.
func Normalize(s string) (Timestamp, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, false
	}
	for _, r := range registry {
		if ts, ok := r.parse(s); ok {
			return ts, true
		}
	}
	return Timestamp{}, false
}
