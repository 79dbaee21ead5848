package feed

import (
	"github.com/ddrozdov/feedsieve/app/dates"
	"github.com/ddrozdov/feedsieve/app/transport"
)

// Metadata describes the feed itself, normalized across dialects.
type Metadata struct {
	Title       string
	Link        string
	Description string
	Language    string
	ImageURL    string
}

// Entry is a single normalized feed item.
type Entry struct {
	GUID        string
	Title       string
	Link        string
	Summary     string
	Content     string
	Published   *dates.Timestamp
	Updated     *dates.Timestamp
	Authors     []string // "email (name)" or "name"
	Categories  []string

	EnclosureURL    string
	EnclosureLength int64
	EnclosureType   string
}

// Result is the outcome of one Parse invocation. It is created once and
// read-only afterward. A Result is always produced for malformed input;
// callers inspect Bozo and BozoException instead of handling errors.
type Result struct {
	// Version is the detected dialect tag ("rss20", "atom10", ...), empty
	// when no dialect could be established.
	Version string
	// Status is the HTTP status code of the first hop, 0 for local input.
	Status int
	// Href is the final resolved URL after redirects.
	Href    string
	Headers *transport.Header
	Feed    Metadata
	Entries []Entry
	// Updated is the feed-level timestamp, when one was recognized.
	Updated *dates.Timestamp
	// Bozo is true iff any fallback or anomalous path was taken anywhere:
	// decompression mismatch, charset conflict or lossy decode, strict-parse
	// failure, unrecognized HTTP status, or transport failure.
	Bozo          bool
	BozoException error
}

// note records a diagnostic and flips the bozo flag. The first diagnostic
// wins the BozoException slot; later ones only reinforce the flag.
func (r *Result) note(diag error) {
	if diag == nil {
		return
	}
	r.Bozo = true
	if r.BozoException == nil {
		r.BozoException = diag
	}
}
