// Package fixtures implements the stand-in HTTP origin used by tests and by
// the fixtured binary. Fixture documents declare their own response headers
// in a leading comment:
//
//	<!--
//	Header:   Content-type: application/atom+xml
//	Header:   ETag: "xyzzy"
//	Header:   Status: 301
//	-->
//
// The pseudo header Status overrides the response code. Conditional requests
// answering with the fixture's exact ETag or Last-Modified value get a 304
// with no body. Files under /compression are served verbatim with a
// Content-Encoding derived from the extension (.gz → gzip, .z → deflate).
package fixtures

import (
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

var headerRe = regexp.MustCompile(`(?m)^Header:\s+([^:]+):(.+)$`)

// NewServer builds a gin engine serving fixtures beneath root.
func NewServer(root string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.NoRoute(func(c *gin.Context) {
		serveFixture(c, root)
	})
	return r
}

func serveFixture(c *gin.Context, root string) {
	rel := strings.TrimPrefix(c.Request.URL.Path, "/")
	path := filepath.Join(root, filepath.Clean("/"+rel))

	data, err := os.ReadFile(path)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	if strings.Contains(c.Request.URL.Path, "/compression/") {
		switch {
		case strings.HasSuffix(path, ".gz"):
			c.Header("Content-Encoding", "gzip")
		default:
			c.Header("Content-Encoding", "deflate")
		}
		c.Data(http.StatusOK, "application/xml", data)
		return
	}

	headers := make(map[string]string)
	for _, m := range headerRe.FindAllStringSubmatch(string(data), -1) {
		headers[http.CanonicalHeaderKey(strings.TrimSpace(m[1]))] = strings.TrimSpace(m[2])
	}

	if notModified(c.Request, headers) {
		for k, v := range headers {
			if k != "Status" {
				c.Header(k, v)
			}
		}
		c.Status(http.StatusNotModified)
		return
	}

	status := http.StatusOK
	if s, ok := headers["Status"]; ok {
		if code, err := strconv.Atoi(s); err == nil {
			status = code
		}
	}

	contentType := headers["Content-Type"]
	if contentType == "" {
		contentType = "application/xml"
	}
	for k, v := range headers {
		if k == "Status" || k == "Content-Type" {
			continue
		}
		c.Header(k, v)
	}

	c.Data(status, contentType, data)
}

func notModified(req *http.Request, headers map[string]string) bool {
	if etag, ok := headers["Etag"]; ok && req.Header.Get("If-None-Match") == etag {
		return true
	}
	if lastMod, ok := headers["Last-Modified"]; ok && req.Header.Get("If-Modified-Since") == lastMod {
		return true
	}
	return false
}
