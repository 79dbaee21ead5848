package feed

import "github.com/microcosm-cc/bluemonday"

// entryPolicy strips scripts, event handlers and other unsafe markup from
// entry payloads. The policy is built once; sanitization itself is safe for
// concurrent use.
var entryPolicy = bluemonday.UGCPolicy()

func sanitizeEntries(entries []Entry) {
	for i := range entries {
		entries[i].Summary = sanitizeHTML(entries[i].Summary)
		entries[i].Content = sanitizeHTML(entries[i].Content)
	}
}

func sanitizeHTML(s string) string {
	if s == "" {
		return s
	}
	return entryPolicy.Sanitize(s)
}
