package feed

import (
	"bytes"
	"log/slog"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
)

// salvageArticle is the last resort of the fallback path: the document is
// not a feed at all but an HTML page, so a readable article is extracted as
// a single degraded entry.
func salvageArticle(data []byte, href string) (*Metadata, []Entry, bool) {
	var pageURL *url.URL
	if href != "" {
		pageURL, _ = url.Parse(href)
	}

	article, err := readability.FromReader(bytes.NewReader(data), pageURL)
	if err != nil || article.Content == "" {
		return nil, nil, false
	}

	slog.Debug("Salvaged readable article from non-feed document",
		"title", article.Title,
		"content_length", len(article.Content))

	meta := &Metadata{
		Title:       article.Title,
		Link:        href,
		Description: article.Excerpt,
	}
	entry := Entry{
		Title:   article.Title,
		Link:    href,
		Summary: article.Excerpt,
		Content: article.Content,
	}
	if article.Byline != "" {
		entry.Authors = []string{article.Byline}
	}
	return meta, []Entry{entry}, true
}

// looksLikeHTML reports whether the document resembles an HTML page rather
// than a feed dialect.
func looksLikeHTML(data []byte) bool {
	probe := strings.ToLower(string(data[:min(len(data), 1024)]))
	return strings.Contains(probe, "<html") ||
		strings.Contains(probe, "<!doctype html") ||
		strings.Contains(probe, "<body")
}
