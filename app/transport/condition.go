package transport

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ddrozdov/feedsieve/app/dates"
)

// HTTPDate serializes a cache-validator value to RFC 1123 wire format.
// Accepted forms: a wire-format string (passed through untouched), a
// time.Time, or a dates.Timestamp.
func HTTPDate(v any) (string, error) {
	switch d := v.(type) {
	case nil:
		return "", nil
	case string:
		return d, nil
	case time.Time:
		return d.UTC().Format(http.TimeFormat), nil
	case dates.Timestamp:
		return d.Time().Format(http.TimeFormat), nil
	case *dates.Timestamp:
		if d == nil {
			return "", nil
		}
		return d.Time().Format(http.TimeFormat), nil
	default:
		return "", fmt.Errorf("unsupported last-modified value of type %T", v)
	}
}
