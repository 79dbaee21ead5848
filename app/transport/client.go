package transport

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultUserAgent = "feedsieve/1.0"
	DefaultTimeout   = 30 * time.Second

	maxRedirectHops = 10
)

// ContentDecodingError reports a mismatch between the declared
// Content-Encoding and the actual body, or a structurally corrupt compressed
// stream. The body is still usable in its raw form.
type ContentDecodingError struct {
	Encoding string
	Err      error
}

func (e *ContentDecodingError) Error() string {
	return fmt.Sprintf("content decoding (%s) failed: %v", e.Encoding, e.Err)
}

func (e *ContentDecodingError) Unwrap() error { return e.Err }

// Request carries the conditional-retrieval inputs for a fetch.
type Request struct {
	// ETag is sent as If-None-Match when non-empty.
	ETag string
	// LastModified is sent as If-Modified-Since. It accepts a wire-format
	// string, a time.Time, or a dates.Timestamp (see HTTPDate).
	LastModified any
	// Extra headers are merged into the request case-insensitively.
	Extra *Header
}

// Response is the outcome of a completed fetch. For redirected retrievals
// URL holds the final location while Status holds the first hop's status
// code, so callers can both see that a redirect happened and know where the
// document now lives.
type Response struct {
	Status  int
	URL     string
	Headers *Header
	Body    []byte
	// Charset is the transport-declared charset from Content-Type, if any.
	Charset string
	// Diag records a recoverable transport anomaly (currently content
	// decoding failures). The body is still present when Diag is set.
	Diag error
}

// NotModified reports whether the origin answered 304 to a conditional
// request; the caller must reuse its prior result.
func (r *Response) NotModified() bool { return r.Status == http.StatusNotModified }

// Redirected reports whether the retrieval followed at least one redirect.
func (r *Response) Redirected() bool {
	switch r.Status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

// Client performs conditional HTTP retrieval with bounded redirect following
// and tolerant decompression. A Client is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

func NewClient(httpClient *http.Client, userAgent string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{httpClient: httpClient, userAgent: userAgent}
}

// Fetch retrieves url, applying conditional-GET validators from req.
// Transport-level failures (unreachable host, exhausted redirects, canceled
// context) are returned as errors; HTTP-level anomalies are reported through
// the Response instead.
func (c *Client) Fetch(ctx context.Context, url string, req Request) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("User-Agent", c.userAgent)
	// Setting Accept-Encoding by hand disables the transport's transparent
	// gunzip, so mislabeled bodies reach our own tolerant decoder.
	httpReq.Header.Set("Accept-Encoding", "gzip, deflate")
	httpReq.Header.Set("Accept", "application/atom+xml,application/rdf+xml,application/rss+xml,application/x-netcdf,application/xml;q=0.9,text/xml;q=0.2,*/*;q=0.1")

	if req.ETag != "" {
		httpReq.Header.Set("If-None-Match", req.ETag)
	}
	if req.LastModified != nil {
		modified, err := HTTPDate(req.LastModified)
		if err != nil {
			return nil, err
		}
		if modified != "" {
			httpReq.Header.Set("If-Modified-Since", modified)
		}
	}
	if req.Extra != nil {
		for _, k := range req.Extra.Keys() {
			httpReq.Header.Del(k)
			for _, v := range req.Extra.Values(k) {
				httpReq.Header.Add(k, v)
			}
		}
	}

	// Each call gets its own client shell so the redirect hook can capture
	// the first hop's status without sharing state across goroutines.
	firstStatus := 0
	hc := *c.httpClient
	hc.CheckRedirect = func(r *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirectHops {
			return fmt.Errorf("stopped after %d redirects", maxRedirectHops)
		}
		if firstStatus == 0 && r.Response != nil {
			firstStatus = r.Response.StatusCode
		}
		return nil
	}

	resp, err := hc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	status := resp.StatusCode
	if firstStatus != 0 {
		status = firstStatus
	}

	out := &Response{
		Status:  status,
		URL:     resp.Request.URL.String(),
		Headers: headerFromHTTP(resp.Header),
	}

	if resp.StatusCode == http.StatusNotModified {
		return out, nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	out.Body = raw
	if encoding := resp.Header.Get("Content-Encoding"); encoding != "" {
		decoded, decErr := decodeBody(raw, encoding)
		if decErr != nil {
			// Parsing proceeds on the raw bytes; the caller folds the
			// diagnostic into its bozo determination.
			slog.Debug("Content decoding failed, keeping raw body",
				"url", url, "encoding", encoding, "error", decErr)
			out.Diag = decErr
		} else {
			out.Body = decoded
		}
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		if _, params, err := mime.ParseMediaType(ct); err == nil {
			out.Charset = params["charset"]
		}
	}

	return out, nil
}

// decodeBody decompresses raw per the declared Content-Encoding. Deflate
// tolerates both zlib-wrapped and raw streams, which servers mix up in the
// wild.
func decodeBody(raw []byte, encoding string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, &ContentDecodingError{Encoding: "gzip", Err: err}
		}
		decoded, err := io.ReadAll(zr)
		if err != nil {
			return nil, &ContentDecodingError{Encoding: "gzip", Err: err}
		}
		return decoded, nil
	case "deflate":
		if zr, err := zlib.NewReader(bytes.NewReader(raw)); err == nil {
			if decoded, err := io.ReadAll(zr); err == nil {
				return decoded, nil
			}
		}
		fr := flate.NewReader(bytes.NewReader(raw))
		decoded, err := io.ReadAll(fr)
		if err != nil {
			return nil, &ContentDecodingError{Encoding: "deflate", Err: err}
		}
		return decoded, nil
	case "identity", "":
		return raw, nil
	default:
		return nil, &ContentDecodingError{
			Encoding: encoding,
			Err:      fmt.Errorf("unsupported encoding"),
		}
	}
}
