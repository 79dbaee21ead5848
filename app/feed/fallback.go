package feed

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"

	"github.com/ddrozdov/feedsieve/app/dates"
)

// relaxedParse salvages feed structure from markup the strict grammar
// rejected. The tolerant HTML tokenizer never fails; whatever item or entry
// blocks survive in the byte stream are recovered best-effort. The returned
// version tag comes from the root element, or "" when none was seen.
func relaxedParse(data []byte) (*Metadata, []Entry, string) {
	z := html.NewTokenizer(bytes.NewReader(data))
	meta := &Metadata{}
	var entries []Entry
	var cur *Entry
	var field string
	var text strings.Builder
	version := ""

	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF and malformed tails both end the scan here
			if cur != nil {
				entries = append(entries, *cur)
			}
			return meta, entries, version

		case html.StartTagToken, html.SelfClosingTagToken:
			nameBytes, hasAttr := z.TagName()
			name := string(nameBytes)
			attrs := make(map[string]string)
			for hasAttr {
				var k, v []byte
				k, v, hasAttr = z.TagAttr()
				attrs[string(k)] = string(v)
			}

			switch name {
			case "rss":
				version = "rss" + strings.ReplaceAll(attrs["version"], ".", "")
			case "feed":
				version = "atom"
			case "rdf:rdf":
				version = "rss10"
			case "item", "entry":
				if cur != nil {
					entries = append(entries, *cur)
				}
				cur = &Entry{}
				field = ""
			case "link":
				if href := attrs["href"]; href != "" {
					if rel := attrs["rel"]; rel == "" || rel == "alternate" {
						if cur != nil {
							cur.Link = href
						} else {
							meta.Link = href
						}
					}
					field = ""
					continue
				}
				field = name
				text.Reset()
			case "category":
				if term := attrs["term"]; term != "" {
					if cur != nil {
						cur.Categories = append(cur.Categories, term)
					}
					field = ""
					continue
				}
				field = name
				text.Reset()
			case "title", "description", "summary", "guid", "id", "language",
				"pubdate", "published", "updated", "modified", "lastbuilddate",
				"dc:date", "dc:creator", "name", "content", "content:encoded":
				field = name
				text.Reset()
			default:
				field = ""
			}

		case html.TextToken:
			if field != "" {
				text.Write(z.Text())
			}

		case html.EndTagToken:
			nameBytes, _ := z.TagName()
			name := string(nameBytes)
			if name == "item" || name == "entry" {
				if cur != nil {
					entries = append(entries, *cur)
					cur = nil
				}
				field = ""
				continue
			}
			if name != field {
				continue
			}
			assignField(meta, cur, name, strings.TrimSpace(text.String()))
			field = ""
		}
	}
}

func assignField(meta *Metadata, cur *Entry, name, value string) {
	if value == "" {
		return
	}
	if cur == nil {
		switch name {
		case "title":
			meta.Title = value
		case "link":
			meta.Link = value
		case "description", "summary":
			meta.Description = value
		case "language":
			meta.Language = value
		}
		return
	}
	switch name {
	case "title":
		cur.Title = value
	case "link":
		cur.Link = value
	case "description", "summary":
		cur.Summary = value
	case "content", "content:encoded":
		cur.Content = value
	case "guid", "id":
		cur.GUID = value
	case "pubdate", "published", "dc:date":
		cur.Published = normalizeFallbackDate(value)
	case "updated", "modified":
		cur.Updated = normalizeFallbackDate(value)
	case "dc:creator", "name":
		cur.Authors = append(cur.Authors, value)
	case "category":
		cur.Categories = append(cur.Categories, value)
	}
}

func normalizeFallbackDate(raw string) *dates.Timestamp {
	ts, ok := dates.Normalize(raw)
	if !ok {
		return nil
	}
	return &ts
}
