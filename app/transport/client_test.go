package transport

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ddrozdov/feedsieve/app/dates"
)

const feedBody = `<?xml version="1.0"?><rss version="2.0"><channel><title>t</title></channel></rss>`

func TestFetchPlain(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", `application/rss+xml; charset=utf-8`)
		w.Write([]byte(feedBody))
	}))
	defer server.Close()

	client := NewClient(nil, "")
	resp, err := client.Fetch(context.Background(), server.URL, Request{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.Status != 200 {
		t.Errorf("Expected status 200, got: %d", resp.Status)
	}
	if string(resp.Body) != feedBody {
		t.Errorf("Body mismatch: %q", resp.Body)
	}
	if resp.Charset != "utf-8" {
		t.Errorf("Expected charset 'utf-8', got: %q", resp.Charset)
	}
	if resp.Headers.Get("content-type") == "" {
		t.Errorf("Case-insensitive header lookup failed")
	}
}

func TestFetchConditionalETag(t *testing.T) {
	const etag = `"v1"`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Write([]byte(feedBody))
	}))
	defer server.Close()

	client := NewClient(nil, "")
	resp, err := client.Fetch(context.Background(), server.URL, Request{})
	if err != nil {
		t.Fatalf("Initial fetch failed: %v", err)
	}
	if resp.NotModified() {
		t.Fatal("Initial fetch must not be 304")
	}

	// resending the validator keeps yielding NotModified while the resource
	// is unchanged
	validator := resp.Headers.Get("ETag")
	for i := 0; i < 3; i++ {
		resp, err = client.Fetch(context.Background(), server.URL, Request{ETag: validator})
		if err != nil {
			t.Fatalf("Conditional fetch failed: %v", err)
		}
		if !resp.NotModified() {
			t.Fatalf("Expected 304, got: %d", resp.Status)
		}
		if len(resp.Body) != 0 {
			t.Errorf("304 must carry no body")
		}
	}
}

func TestFetchConditionalLastModified(t *testing.T) {
	modified := "Mon, 03 Jul 2023 12:00:00 GMT"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-Modified-Since") == modified {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Write([]byte(feedBody))
	}))
	defer server.Close()

	client := NewClient(nil, "")

	// wire-format string, time.Time and Timestamp all serialize identically
	when := time.Date(2023, 7, 3, 12, 0, 0, 0, time.UTC)
	for _, v := range []any{modified, when, dates.FromTime(when)} {
		resp, err := client.Fetch(context.Background(), server.URL, Request{LastModified: v})
		if err != nil {
			t.Fatalf("Fetch with validator %T failed: %v", v, err)
		}
		if !resp.NotModified() {
			t.Errorf("Validator %T: expected 304, got %d", v, resp.Status)
		}
	}
}

func TestFetchRedirectKeepsFirstStatus(t *testing.T) {
	var targetURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/target.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feedBody))
	})
	mux.HandleFunc("/moved.xml", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, targetURL, http.StatusMovedPermanently)
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	targetURL = server.URL + "/target.xml"

	client := NewClient(nil, "")
	resp, err := client.Fetch(context.Background(), server.URL+"/moved.xml", Request{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.Status != http.StatusMovedPermanently {
		t.Errorf("Expected first-hop status 301, got: %d", resp.Status)
	}
	if resp.URL != targetURL {
		t.Errorf("Expected final URL %s, got: %s", targetURL, resp.URL)
	}
	if !resp.Redirected() {
		t.Errorf("Redirected() should be true")
	}
	if string(resp.Body) != feedBody {
		t.Errorf("Body must come from the redirect target")
	}
}

func TestFetchGzip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		zw.Write([]byte(feedBody))
		zw.Close()
		w.Header().Set("Content-Encoding", "gzip")
		w.Write(buf.Bytes())
	}))
	defer server.Close()

	client := NewClient(nil, "")
	resp, err := client.Fetch(context.Background(), server.URL, Request{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.Diag != nil {
		t.Errorf("Expected no diagnostic, got: %v", resp.Diag)
	}
	if string(resp.Body) != feedBody {
		t.Errorf("Gzip body not decoded: %q", resp.Body)
	}
}

func TestFetchMislabeledGzip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		w.Write([]byte(feedBody)) // not actually gzipped
	}))
	defer server.Close()

	client := NewClient(nil, "")
	resp, err := client.Fetch(context.Background(), server.URL, Request{})
	if err != nil {
		t.Fatalf("Mislabeled compression must not fail the fetch: %v", err)
	}
	if resp.Status != 200 {
		t.Errorf("Expected status 200, got: %d", resp.Status)
	}
	var decErr *ContentDecodingError
	if !errors.As(resp.Diag, &decErr) {
		t.Fatalf("Expected ContentDecodingError, got: %v", resp.Diag)
	}
	if decErr.Encoding != "gzip" {
		t.Errorf("Expected gzip diagnostic, got: %s", decErr.Encoding)
	}
	if string(resp.Body) != feedBody {
		t.Errorf("Raw bytes must be preserved for downstream parsing")
	}
}

func TestFetchExtraHeaders(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Cache-Control")
		w.Write([]byte(feedBody))
	}))
	defer server.Close()

	extra := NewHeader()
	extra.Set("cache-control", "max-age=0")

	client := NewClient(nil, "")
	if _, err := client.Fetch(context.Background(), server.URL, Request{Extra: extra}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if got != "max-age=0" {
		t.Errorf("Extra header not merged case-insensitively, got: %q", got)
	}
}

func TestHeaderOrderAndLookup(t *testing.T) {
	h := NewHeader()
	h.Set("b-header", "2")
	h.Set("A-Header", "1")
	h.Add("b-header", "3")

	if h.Get("B-HEADER") != "2" {
		t.Errorf("Case-insensitive Get failed: %q", h.Get("B-HEADER"))
	}
	if len(h.Values("b-header")) != 2 {
		t.Errorf("Expected 2 values, got: %v", h.Values("b-header"))
	}
	keys := h.Keys()
	if len(keys) != 2 || keys[0] != "B-Header" || keys[1] != "A-Header" {
		t.Errorf("Insertion order not preserved: %v", keys)
	}
}
