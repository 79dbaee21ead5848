// Package feed ingests arbitrary, often malformed, RSS/Atom/RDF documents
// retrieved over HTTP or from local storage and produces a normalized result
// annotated with a best-effort diagnostic instead of failing outright.
package feed

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ddrozdov/feedsieve/app/charset"
	"github.com/ddrozdov/feedsieve/app/transport"
)

// UnrecognizedStatusError marks an HTTP status code outside the classes the
// engine understands. The body, if any, is still parsed.
type UnrecognizedStatusError struct {
	Status int
}

func (e *UnrecognizedStatusError) Error() string {
	return fmt.Sprintf("unrecognized HTTP status %d", e.Status)
}

// StrictParseError wraps the well-formedness failure that triggered the
// relaxed fallback.
type StrictParseError struct {
	Err error
}

func (e *StrictParseError) Error() string {
	return fmt.Sprintf("strict parse failed: %v", e.Err)
}

func (e *StrictParseError) Unwrap() error { return e.Err }

// Parse ingests a feed. The source may be an http(s) URL, a local file path,
// or raw document content (recognized by a leading '<').
//
// Every invocation runs Fetch → Decode → Parse(strict) → Parse(fallback on
// strict failure) and terminates with a Result on all paths; malformed input
// never produces an error. The single raised class is resource acquisition
// with no fallback possible, e.g. a local path that does not exist.
//
// Each call is synchronous and self-contained; concurrent calls over
// independent inputs are safe.
func Parse(source string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = &Options{}
	}
	result := &Result{}

	data, charsetHint, done, err := acquire(source, opts, result)
	if err != nil {
		return nil, err
	}
	if done {
		return result, nil
	}

	resolved := charset.Resolve(data, charsetHint)
	var unavailable *charset.CodecUnavailableError
	if errors.As(resolved.Diag, &unavailable) {
		// no usable text can be produced, skip parsing entirely
		result.note(resolved.Diag)
		return result, nil
	}
	result.note(resolved.Diag)

	parseDocument(resolved.Text, opts, result)

	if !opts.KeepRawHTML {
		sanitizeEntries(result.Entries)
	}

	return result, nil
}

// acquire resolves the source into raw bytes plus the transport-declared
// charset. done is true when the engine should short-circuit (304, or a
// transport failure already folded into the result).
func acquire(source string, opts *Options, result *Result) (data []byte, charsetHint string, done bool, err error) {
	switch {
	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		client := transport.NewClient(opts.HTTPClient, opts.UserAgent)
		resp, ferr := client.Fetch(opts.context(), source, transport.Request{
			ETag:         opts.ETag,
			LastModified: opts.Modified,
			Extra:        opts.RequestHeaders,
		})
		if ferr != nil {
			// unreachable host and friends degrade to an empty bozo result
			slog.Debug("Transport failure", "source", source, "error", ferr)
			result.Href = source
			result.note(ferr)
			return nil, "", true, nil
		}
		result.Status = resp.Status
		result.Href = resp.URL
		result.Headers = resp.Headers
		result.note(resp.Diag)
		if resp.Status < 100 || resp.Status > 599 {
			result.note(&UnrecognizedStatusError{Status: resp.Status})
		}
		if resp.NotModified() {
			return nil, "", true, nil
		}
		return resp.Body, resp.Charset, false, nil

	case strings.HasPrefix(strings.TrimSpace(source), "<"):
		return []byte(source), "", false, nil

	default:
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, "", false, fmt.Errorf("failed to read %s: %w", source, err)
		}
		result.Href = source
		return data, "", false, nil
	}
}

// parseDocument runs the strict grammar and, on a well-formedness violation,
// the relaxed one. The fallback itself never fails the operation; the worst
// case is an empty entry list with the triggering error as diagnostic.
func parseDocument(text []byte, opts *Options, result *Result) {
	meta, entries, updated, version, err := newParser().run(text)
	if err == nil {
		result.Feed = *meta
		result.Entries = entries
		result.Updated = updated
		result.Version = version
		return
	}

	slog.Debug("Strict parse failed, using relaxed fallback", "error", err)
	result.note(&StrictParseError{Err: err})

	meta, entries, version = relaxedParse(text)
	if len(entries) == 0 && version == "" && opts.ExtractReadable && looksLikeHTML(text) {
		if articleMeta, articleEntries, ok := salvageArticle(text, result.Href); ok {
			meta, entries = articleMeta, articleEntries
		}
	}

	result.Feed = *meta
	result.Entries = entries
	result.Version = version
}
