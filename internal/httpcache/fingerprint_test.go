package httpcache

import (
	"bytes"
	"testing"
)

func TestClassifyMethod(t *testing.T) {
	cases := []struct {
		payload string
		want    Method
	}{
		{"GET / HTTP/1.1\r\n", MethodGET},
		{"POST /submit HTTP/1.1\r\n", MethodPOST},
		{"PUT / HTTP/1.1\r\n", MethodUnknown},
		{"get / HTTP/1.1\r\n", MethodUnknown}, // case-sensitive signature
		{"GE", MethodUnknown},                 // shorter than the token
		{"", MethodUnknown},
	}
	for _, tc := range cases {
		if got := ClassifyMethod([]byte(tc.payload)); got != tc.want {
			t.Errorf("ClassifyMethod(%q) = %v, want %v", tc.payload, got, tc.want)
		}
	}
}

func TestExtractURLStopsAtSpace(t *testing.T) {
	url := ExtractURL([]byte("GET /a/b HTTP/1.1\r\n"))
	if string(url) != "/a/b" {
		t.Errorf("Expected /a/b, got %q", url)
	}
}

func TestExtractURLStopsAtCRLF(t *testing.T) {
	if url := ExtractURL([]byte("GET /x\r\n")); string(url) != "/x" {
		t.Errorf("Expected /x at CR, got %q", url)
	}
	if url := ExtractURL([]byte("GET /y\nrest")); string(url) != "/y" {
		t.Errorf("Expected /y at LF, got %q", url)
	}
}

func TestExtractURLEmptyToken(t *testing.T) {
	// Delimiter at offset 0.
	if url := ExtractURL([]byte("GET  HTTP/1.1")); url != nil {
		t.Errorf("Expected nil for empty token, got %q", url)
	}
	// Payload ends right after the method token.
	if url := ExtractURL([]byte("GET ")); url != nil {
		t.Errorf("Expected nil when buffer ends, got %q", url)
	}
	if url := ExtractURL([]byte("GE")); url != nil {
		t.Errorf("Expected nil for short payload, got %q", url)
	}
}

func TestExtractURLStopsAtBufferEnd(t *testing.T) {
	url := ExtractURL([]byte("GET /partial"))
	if string(url) != "/partial" {
		t.Errorf("Expected /partial, got %q", url)
	}
}

func TestExtractURLCappedAt192(t *testing.T) {
	long := append([]byte("GET "), bytes.Repeat([]byte{'a'}, 500)...)
	url := ExtractURL(long)
	if len(url) != MaxURLLen {
		t.Errorf("Expected %d-byte cap, got %d", MaxURLLen, len(url))
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	url := []byte("/api/users/42")
	if Fingerprint(url) != Fingerprint(url) {
		t.Error("Same input must hash identically")
	}
}

func TestFingerprintKnownVector(t *testing.T) {
	// FNV-1a 64 of "a": (offset ^ 'a') * prime
	if got := Fingerprint([]byte("a")); got != 0xaf63dc4c8601ec8c {
		t.Errorf("FNV-1a(\"a\") = %#x, want 0xaf63dc4c8601ec8c", got)
	}
	// FNV-1a 64 of the empty string is the offset basis.
	if got := Fingerprint(nil); got != 0xcbf29ce484222325 {
		t.Errorf("FNV-1a(\"\") = %#x, want offset basis", got)
	}
}

func TestFingerprintDiffersOnSingleByte(t *testing.T) {
	a := []byte("/path/one")
	b := []byte("/path/onf")
	if Fingerprint(a) == Fingerprint(b) {
		t.Error("Single-byte difference should change the fingerprint")
	}
}

func TestFingerprintIgnoresBytesBeyond256(t *testing.T) {
	base := bytes.Repeat([]byte{'x'}, 300)
	other := append(bytes.Repeat([]byte{'x'}, 256), bytes.Repeat([]byte{'z'}, 44)...)

	if Fingerprint(base) != Fingerprint(other) {
		t.Error("Bytes beyond position 256 must not affect the fingerprint")
	}

	// A difference at position 255 still matters.
	last := bytes.Repeat([]byte{'x'}, 256)
	last[255] = 'q'
	if Fingerprint(base) == Fingerprint(last) {
		t.Error("Byte at position 255 must affect the fingerprint")
	}
}

func TestNewKey(t *testing.T) {
	k1 := NewKey(MethodGET, 80, []byte("/a"))
	k2 := NewKey(MethodGET, 8080, []byte("/a"))
	k3 := NewKey(MethodPOST, 80, []byte("/a"))

	if k1 == k2 || k1 == k3 {
		t.Error("Port and method must distinguish keys")
	}
	if k1 != NewKey(MethodGET, 80, []byte("/a")) {
		t.Error("Identical requests must produce identical keys")
	}
}
