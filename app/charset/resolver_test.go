package charset

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

const asciiDoc = `<?xml version="1.0"?><feed><title>Test</title></feed>`

func utf16leBytes(s string, bom bool) []byte {
	var buf bytes.Buffer
	if bom {
		buf.Write([]byte{0xff, 0xfe})
	}
	for _, r := range s {
		buf.WriteByte(byte(r))
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

func utf16beBytes(s string) []byte {
	var buf bytes.Buffer
	for _, r := range s {
		buf.WriteByte(0)
		buf.WriteByte(byte(r))
	}
	return buf.Bytes()
}

func utf32beBytes(s string, bom bool) []byte {
	var buf bytes.Buffer
	if bom {
		buf.Write([]byte{0x00, 0x00, 0xfe, 0xff})
	}
	for _, r := range s {
		buf.Write([]byte{0, 0, 0, byte(r)})
	}
	return buf.Bytes()
}

func TestResolveUTF16LEWithBOM(t *testing.T) {
	res := Resolve(utf16leBytes(asciiDoc, true), "")

	if res.Encoding != "utf-16le" {
		t.Errorf("Expected encoding 'utf-16le', got: %s", res.Encoding)
	}
	if string(res.Text) != asciiDoc {
		t.Errorf("Decoded text mismatch: %q", res.Text)
	}
	if res.Diag != nil {
		t.Errorf("Expected no diagnostic, got: %v", res.Diag)
	}
}

func TestResolveUTF16BENoBOM(t *testing.T) {
	res := Resolve(utf16beBytes(asciiDoc), "")

	if res.Encoding != "utf-16be" {
		t.Errorf("Expected encoding 'utf-16be', got: %s", res.Encoding)
	}
	if string(res.Text) != asciiDoc {
		t.Errorf("Decoded text mismatch: %q", res.Text)
	}
}

func TestResolveUTF32(t *testing.T) {
	res := Resolve(utf32beBytes(asciiDoc, true), "")
	if res.Encoding != "utf-32be" {
		t.Errorf("Expected encoding 'utf-32be', got: %s", res.Encoding)
	}
	if string(res.Text) != asciiDoc {
		t.Errorf("Decoded text mismatch: %q", res.Text)
	}

	// BOM-less: inferred from the leading '<'
	res = Resolve(utf32beBytes(asciiDoc, false), "")
	if res.Encoding != "utf-32be" {
		t.Errorf("Expected encoding 'utf-32be' without BOM, got: %s", res.Encoding)
	}
}

func TestResolveUTF8BOMStripped(t *testing.T) {
	data := append([]byte{0xef, 0xbb, 0xbf}, []byte(asciiDoc)...)
	res := Resolve(data, "")

	if res.Encoding != "utf-8" {
		t.Errorf("Expected encoding 'utf-8', got: %s", res.Encoding)
	}
	if string(res.Text) != asciiDoc {
		t.Errorf("BOM was not stripped: %q", res.Text[:8])
	}
}

func TestResolveEBCDIC(t *testing.T) {
	encoded, err := charmap.CodePage037.NewEncoder().Bytes([]byte(asciiDoc))
	if err != nil {
		t.Fatalf("Failed to produce EBCDIC fixture: %v", err)
	}
	if !bytes.Equal(encoded[:4], []byte{0x4c, 0x6f, 0xa7, 0x94}) {
		t.Fatalf("Unexpected EBCDIC signature: % x", encoded[:4])
	}

	res := Resolve(encoded, "")
	if res.Encoding != "cp037" {
		t.Errorf("Expected encoding 'cp037', got: %s", res.Encoding)
	}
	if string(res.Text) != asciiDoc {
		t.Errorf("Decoded text mismatch: %q", res.Text)
	}
}

func TestResolveSniffedBeatsDeclared(t *testing.T) {
	res := Resolve(utf16leBytes(asciiDoc, true), "iso-8859-1")

	if res.Encoding != "utf-16le" {
		t.Errorf("Sniffed evidence should win, got encoding: %s", res.Encoding)
	}
	var conflict *CharsetConflictError
	if !errors.As(res.Diag, &conflict) {
		t.Fatalf("Expected CharsetConflictError, got: %v", res.Diag)
	}
	if conflict.Declared != "iso-8859-1" || conflict.Sniffed != "utf-16le" {
		t.Errorf("Unexpected conflict detail: %+v", conflict)
	}
}

func TestResolveDeclaredUTF16VariantNoConflict(t *testing.T) {
	res := Resolve(utf16leBytes(asciiDoc, true), "utf-16")
	if res.Diag != nil {
		t.Errorf("utf-16 vs utf-16le should not conflict, got: %v", res.Diag)
	}
}

func TestResolveInDocumentDeclaration(t *testing.T) {
	doc := `<?xml version="1.0" encoding="iso-8859-1"?><feed><title>caf` + "\xe9" + `</title></feed>`
	res := Resolve([]byte(doc), "")

	if res.Encoding != "iso-8859-1" {
		t.Errorf("Expected encoding 'iso-8859-1', got: %s", res.Encoding)
	}
	if !strings.Contains(string(res.Text), "café") {
		t.Errorf("Latin-1 byte not decoded: %q", res.Text)
	}
}

func TestResolveTransportCharset(t *testing.T) {
	doc := `<feed><title>caf` + "\xe9" + `</title></feed>`
	res := Resolve([]byte(doc), "windows-1252")

	if res.Encoding != "windows-1252" {
		t.Errorf("Expected encoding 'windows-1252', got: %s", res.Encoding)
	}
	if !strings.Contains(string(res.Text), "café") {
		t.Errorf("Transport charset not honored: %q", res.Text)
	}
}

func TestResolveCodecUnavailable(t *testing.T) {
	doc := `<?xml version="1.0" encoding="x-mad-charset"?><feed/>`
	res := Resolve([]byte(doc), "")

	var unavailable *CodecUnavailableError
	if !errors.As(res.Diag, &unavailable) {
		t.Fatalf("Expected CodecUnavailableError, got: %v", res.Diag)
	}
	if unavailable.Name != "x-mad-charset" {
		t.Errorf("Unexpected codec name: %s", unavailable.Name)
	}
	if res.Text != nil {
		t.Errorf("No text should be produced for an unavailable codec")
	}
}

func TestResolveLossyFallback(t *testing.T) {
	data := []byte("<feed><title>bro\xff\xfeken</title></feed>")
	// invalid UTF-8 in the middle, no signature at the start
	res := Resolve(data, "")

	var lossy *LossyDecodeError
	if !errors.As(res.Diag, &lossy) {
		t.Fatalf("Expected LossyDecodeError, got: %v", res.Diag)
	}
	if !bytes.Contains(res.Text, []byte("�")) {
		t.Errorf("Expected replacement characters in lossy output")
	}
	if !bytes.Contains(res.Text, []byte("<feed>")) {
		t.Errorf("Valid portion of the document must survive: %q", res.Text)
	}
}
