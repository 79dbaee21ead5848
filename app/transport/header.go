package transport

import (
	"net/http"
	"net/textproto"
	"sort"
)

// Header is an order-preserving header collection with case-insensitive
// lookup matching HTTP header semantics. The zero value is ready to use.
type Header struct {
	keys   []string
	values map[string][]string
}

func NewHeader() *Header {
	return &Header{values: make(map[string][]string)}
}

// Set replaces any existing values for key. The key keeps its original
// insertion position.
func (h *Header) Set(key, value string) {
	k := textproto.CanonicalMIMEHeaderKey(key)
	if h.values == nil {
		h.values = make(map[string][]string)
	}
	if _, exists := h.values[k]; !exists {
		h.keys = append(h.keys, k)
	}
	h.values[k] = []string{value}
}

// Add appends a value for key.
func (h *Header) Add(key, value string) {
	k := textproto.CanonicalMIMEHeaderKey(key)
	if h.values == nil {
		h.values = make(map[string][]string)
	}
	if _, exists := h.values[k]; !exists {
		h.keys = append(h.keys, k)
	}
	h.values[k] = append(h.values[k], value)
}

// Get returns the first value for key, or "" when absent.
func (h *Header) Get(key string) string {
	if h == nil || h.values == nil {
		return ""
	}
	vs := h.values[textproto.CanonicalMIMEHeaderKey(key)]
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

// Values returns all values for key.
func (h *Header) Values(key string) []string {
	if h == nil || h.values == nil {
		return nil
	}
	return h.values[textproto.CanonicalMIMEHeaderKey(key)]
}

// Keys returns header names in insertion order.
func (h *Header) Keys() []string {
	if h == nil {
		return nil
	}
	return append([]string(nil), h.keys...)
}

func (h *Header) Len() int {
	if h == nil {
		return 0
	}
	return len(h.keys)
}

// headerFromHTTP converts a net/http header map. Map iteration order is not
// stable, so keys are sorted to keep the result deterministic.
func headerFromHTTP(src http.Header) *Header {
	h := NewHeader()
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range src[k] {
			h.Add(k, v)
		}
	}
	return h
}
