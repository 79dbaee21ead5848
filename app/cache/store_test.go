package cache

import (
	"path/filepath"
	"testing"
)

func TestStoreRoundTrip(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	// Unknown URL yields no entry and no error
	entry, err := store.Get("https://example.com/feed.xml")
	if err != nil {
		t.Fatal(err)
	}
	if entry != nil {
		t.Fatalf("Expected no entry for unknown URL, got %+v", entry)
	}

	put := Entry{
		URL:          "https://example.com/feed.xml",
		ETag:         `"abc123"`,
		LastModified: "Mon, 03 Jul 2023 12:00:00 GMT",
		Status:       200,
		Body:         []byte("<rss/>"),
	}
	if err := store.Put(put); err != nil {
		t.Fatal(err)
	}

	entry, err = store.Get(put.URL)
	if err != nil {
		t.Fatal(err)
	}
	if entry == nil {
		t.Fatal("Expected entry after Put")
	}
	if entry.ETag != put.ETag {
		t.Errorf("Expected ETag '%s', got '%s'", put.ETag, entry.ETag)
	}
	if entry.LastModified != put.LastModified {
		t.Errorf("Expected Last-Modified '%s', got '%s'", put.LastModified, entry.LastModified)
	}
	if entry.Status != 200 {
		t.Errorf("Expected status 200, got %d", entry.Status)
	}
	if string(entry.Body) != "<rss/>" {
		t.Errorf("Unexpected body: %s", entry.Body)
	}
	if entry.FetchedAt.IsZero() {
		t.Error("Expected FetchedAt to be set")
	}
}

func TestStoreUpsert(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	url := "https://example.com/feed.xml"
	if err := store.Put(Entry{URL: url, ETag: `"v1"`, Status: 200}); err != nil {
		t.Fatal(err)
	}
	if err := store.Put(Entry{URL: url, ETag: `"v2"`, Status: 301}); err != nil {
		t.Fatal(err)
	}

	entry, err := store.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	if entry.ETag != `"v2"` {
		t.Errorf("Expected updated ETag, got '%s'", entry.ETag)
	}
	if entry.Status != 301 {
		t.Errorf("Expected updated status, got %d", entry.Status)
	}
}
