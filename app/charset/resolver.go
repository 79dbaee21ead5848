// Package charset converts raw fetched bytes into UTF-8 text, resolving BOM
// signatures, legacy codepages, and declared-vs-actual charset conflicts
// without ever failing outright.
package charset

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// CodecUnavailableError marks a declared charset for which no codec exists in
// the runtime. It is distinct from an ambiguous or conflicting declaration;
// callers may choose to skip such inputs entirely.
type CodecUnavailableError struct {
	Name string
}

func (e *CodecUnavailableError) Error() string {
	return fmt.Sprintf("no codec available for charset %q", e.Name)
}

// CharsetConflictError records a disagreement between a declared charset and
// the byte-level evidence. The sniffed evidence wins; the conflict is kept as
// a diagnostic for the caller's bozo determination.
type CharsetConflictError struct {
	Declared string
	Sniffed  string
}

func (e *CharsetConflictError) Error() string {
	return fmt.Sprintf("declared charset %q conflicts with sniffed %q", e.Declared, e.Sniffed)
}

// LossyDecodeError marks a best-effort decode in which malformed sequences
// were replaced rather than preserved.
type LossyDecodeError struct {
	Encoding string
}

func (e *LossyDecodeError) Error() string {
	return fmt.Sprintf("lossy best-effort decode as %s", e.Encoding)
}

// Resolved is UTF-8 text derived once from a raw document.
type Resolved struct {
	Text     []byte
	Encoding string
	// Diag carries a recoverable transcoding anomaly (conflict or lossy
	// decode), or a *CodecUnavailableError when Text could not be produced.
	Diag error
}

var xmlDeclRe = regexp.MustCompile(`(?i)<\?xml[^>]*?encoding=["']([^"']+)["']`)

// Resolve detects the encoding of data and converts it to UTF-8.
// Detection order: 4-byte signatures (EBCDIC marker, UTF-32 with or without
// BOM, UTF-16 inferred from the "<?xm" pattern), bare UTF-16 BOMs, the UTF-8
// BOM, then declared charsets (in-document XML declaration first, transport
// second), and finally a lossy UTF-8 fallback.
func Resolve(data []byte, transportCharset string) Resolved {
	if enc, name, bom, ok := sniff(data); ok {
		res := decodeWith(enc, name, data[bom:])
		if res.Diag == nil {
			if declared := strings.ToLower(strings.TrimSpace(transportCharset)); declared != "" &&
				!strings.HasPrefix(name, declared) {
				res.Diag = &CharsetConflictError{Declared: transportCharset, Sniffed: name}
			}
		}
		return res
	}

	declared := declaredCharset(data, transportCharset)
	switch declared {
	case "", "utf-8", "utf8", "us-ascii", "ascii":
		return utf8Fallback(data)
	}

	enc, err := htmlindex.Get(declared)
	if err != nil {
		return Resolved{Encoding: declared, Diag: &CodecUnavailableError{Name: declared}}
	}
	return decodeWith(enc, declared, data)
}

// sniff inspects leading bytes for byte-order marks and well-known
// signatures. A leading '<' decoded under each 32- or 16-bit endianness
// identifies BOM-less Unicode documents.
func sniff(data []byte) (encoding.Encoding, string, int, bool) {
	if len(data) >= 4 {
		head := data[:4]
		switch {
		case bytes.Equal(head, []byte{0x4c, 0x6f, 0xa7, 0x94}):
			// "<?xm" in EBCDIC code page 037
			return charmap.CodePage037, "cp037", 0, true
		case bytes.Equal(head, []byte{0x00, 0x00, 0xfe, 0xff}):
			return utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM), "utf-32be", 4, true
		case bytes.Equal(head, []byte{0xff, 0xfe, 0x00, 0x00}):
			return utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM), "utf-32le", 4, true
		case bytes.Equal(head, []byte{0x00, 0x00, 0x00, 0x3c}):
			return utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM), "utf-32be", 0, true
		case bytes.Equal(head, []byte{0x3c, 0x00, 0x00, 0x00}):
			return utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM), "utf-32le", 0, true
		case bytes.Equal(head, []byte{0x00, 0x3c, 0x00, 0x3f}):
			return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), "utf-16be", 0, true
		case bytes.Equal(head, []byte{0x3c, 0x00, 0x3f, 0x00}):
			return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), "utf-16le", 0, true
		}
	}
	if len(data) >= 4 && data[0] == 0xfe && data[1] == 0xff && (data[2] != 0x00 || data[3] != 0x00) {
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), "utf-16be", 2, true
	}
	if len(data) >= 4 && data[0] == 0xff && data[1] == 0xfe && (data[2] != 0x00 || data[3] != 0x00) {
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), "utf-16le", 2, true
	}
	if len(data) >= 3 && bytes.Equal(data[:3], []byte{0xef, 0xbb, 0xbf}) {
		return encoding.Nop, "utf-8", 3, true
	}
	return nil, "", 0, false
}

func decodeWith(enc encoding.Encoding, name string, data []byte) Resolved {
	if enc == encoding.Nop {
		res := utf8Fallback(data)
		res.Encoding = name
		return res
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		res := utf8Fallback(decoded)
		res.Encoding = name
		res.Diag = &LossyDecodeError{Encoding: name}
		return res
	}
	return Resolved{Text: decoded, Encoding: name}
}

// declaredCharset picks the in-document XML declaration over the
// transport-declared charset, per the precedence the fallback path uses once
// no byte-level evidence exists.
func declaredCharset(data []byte, transportCharset string) string {
	probe := data
	if len(probe) > 1024 {
		probe = probe[:1024]
	}
	if m := xmlDeclRe.FindSubmatch(probe); m != nil {
		return strings.ToLower(strings.TrimSpace(string(m[1])))
	}
	return strings.ToLower(strings.TrimSpace(transportCharset))
}

// utf8Fallback assumes UTF-8 and substitutes malformed sequences so that
// downstream parsing can always proceed.
func utf8Fallback(data []byte) Resolved {
	if utf8.Valid(data) {
		return Resolved{Text: data, Encoding: "utf-8"}
	}
	return Resolved{
		Text:     bytes.ToValidUTF8(data, []byte("�")),
		Encoding: "utf-8",
		Diag:     &LossyDecodeError{Encoding: "utf-8"},
	}
}
