package feed

import (
	"context"
	"net/http"

	"github.com/ddrozdov/feedsieve/app/transport"
)

// Options is the per-invocation configuration value. Passing an explicit
// Options to each Parse call keeps "affects this call only" semantics without
// process-wide state; a zero Options is valid.
type Options struct {
	// ETag is resent as If-None-Match when the source is a URL.
	ETag string
	// Modified is resent as If-Modified-Since: a wire-format string, a
	// time.Time, or a dates.Timestamp.
	Modified any
	// RequestHeaders are merged into the outgoing request.
	RequestHeaders *transport.Header
	// UserAgent overrides the default request identity.
	UserAgent string
	// HTTPClient supplies the underlying client; timeout and cancellation
	// policy lives at this boundary.
	HTTPClient *http.Client
	// KeepRawHTML disables sanitization of entry summary and content.
	KeepRawHTML bool
	// ExtractReadable salvages a readable article from documents that turn
	// out to be HTML pages instead of feeds.
	ExtractReadable bool
	// Context bounds the transport call. Defaults to context.Background().
	Context context.Context
}

func (o *Options) context() context.Context {
	if o.Context != nil {
		return o.Context
	}
	return context.Background()
}
