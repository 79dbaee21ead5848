package feed

import (
	"bytes"
	"cmp"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/ddrozdov/feedsieve/app/dates"
)

// parser wraps the strict structural collaborator. A well-formedness
// violation is returned as an error so the engine can fall back to the
// relaxed grammar.
type parser struct {
	gofeedParser *gofeed.Parser
}

func newParser() *parser {
	return &parser{
		gofeedParser: gofeed.NewParser(),
	}
}

func (p *parser) run(data []byte) (*Metadata, []Entry, *dates.Timestamp, string, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, nil, "", err
	}

	metadata := &Metadata{
		Title:       parsed.Title,
		Link:        parsed.Link,
		Description: parsed.Description,
		Language:    parsed.Language,
	}
	if parsed.Image != nil {
		metadata.ImageURL = parsed.Image.URL
	}

	updated := p.normalizeDate(cmp.Or(parsed.Updated, parsed.Published))

	entries := make([]Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		entries = append(entries, p.normalizeEntry(item))
	}

	return metadata, entries, updated, versionTag(parsed.FeedType, parsed.FeedVersion), nil
}

func (p *parser) normalizeEntry(item *gofeed.Item) Entry {
	entry := Entry{
		GUID:    cmp.Or(item.GUID, item.Link),
		Title:   item.Title,
		Link:    item.Link,
		Summary: item.Description,
		Content: item.Content,
	}

	entry.Published = p.normalizeDate(item.Published)
	entry.Updated = p.normalizeDate(item.Updated)

	entry.Authors = p.extractAuthors(item)

	if item.Categories != nil {
		entry.Categories = item.Categories
	}

	// First enclosure only (RSS 2.0 allows one per item)
	if len(item.Enclosures) > 0 && item.Enclosures[0] != nil {
		enclosure := item.Enclosures[0]
		entry.EnclosureURL = enclosure.URL
		entry.EnclosureType = enclosure.Type
		if enclosure.Length != "" {
			if length, err := strconv.ParseInt(enclosure.Length, 10, 64); err == nil {
				entry.EnclosureLength = length
			}
		}
	}

	return entry
}

// normalizeDate runs a raw date string through the dialect registry. An
// unrecognized date yields nil, never an error.
func (p *parser) normalizeDate(raw string) *dates.Timestamp {
	if raw == "" {
		return nil
	}
	ts, ok := dates.Normalize(raw)
	if !ok {
		return nil
	}
	return &ts
}

func (p *parser) extractAuthors(item *gofeed.Item) []string {
	var authors []string

	if len(item.Authors) > 0 {
		for _, author := range item.Authors {
			if author != nil {
				if authorStr := p.formatAuthor(author.Name, author.Email); authorStr != "" {
					authors = append(authors, authorStr)
				}
			}
		}
	} else if item.Author != nil {
		if authorStr := p.formatAuthor(item.Author.Name, item.Author.Email); authorStr != "" {
			authors = append(authors, authorStr)
		}
	}

	return authors
}

func (p *parser) formatAuthor(name, email string) string {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name != "" && email != "" {
		return email + " (" + name + ")"
	} else if name != "" {
		return name
	}
	return email
}

// versionTag maps the collaborator's dialect detection onto compact version
// tags ("rss20", "atom10", ...).
func versionTag(feedType, feedVersion string) string {
	if feedType == "" {
		return ""
	}
	v := strings.NewReplacer(".", "", "-", "").Replace(feedVersion)
	switch feedType {
	case "rss":
		if feedVersion == "1.0" {
			// RDF Site Summary
			return "rss10"
		}
		if v == "" {
			return "rss"
		}
		return "rss" + v
	case "atom":
		if v == "" {
			return "atom"
		}
		return "atom" + v
	case "json":
		return "json" + v
	default:
		return feedType + v
	}
}
