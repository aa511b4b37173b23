// Package httpcache implements the transmit-hook request fingerprinting
// and the fixed-capacity response cache.
//
// Fingerprinting is deliberately not HTTP parsing: only the 4-byte
// method token and the URL token are extracted, with every read bounded
// by the payload slice and by fixed scan caps, so the per-packet cost
// stays constant no matter what the payload contains.
package httpcache

import "encoding/binary"

// Method is the classified request method. Only GET is pursued further;
// POST is recognized so the classifier is total over the two signatures.
type Method uint8

const (
	MethodUnknown Method = iota
	MethodGET
	MethodPOST
)

func (m Method) String() string {
	switch m {
	case MethodGET:
		return "GET"
	case MethodPOST:
		return "POST"
	default:
		return "unknown"
	}
}

const (
	// methodTokenLen is the fixed signature width at the payload start.
	methodTokenLen = 4

	// MaxURLLen caps the URL scan; a request line longer than this is
	// fingerprinted on its first 192 bytes' worth of scanning only.
	MaxURLLen = 192

	// maxHashLen caps hash folding. Bytes beyond position 256 never
	// affect the fingerprint; the bound keeps the fold cost fixed.
	maxHashLen = 256

	// 4-byte method signatures, big-endian over the raw payload.
	sigGET  = 0x47455420 // "GET "
	sigPOST = 0x504f5354 // "POST"
)

// FNV-1a 64-bit parameters.
const (
	fnvOffset = 0xcbf29ce484222325
	fnvPrime  = 0x100000001b3
)

// ClassifyMethod reads the 4-byte token at the payload start. A payload
// shorter than the token, or any unrecognized token, is Unknown and
// stops transmit-hook processing for this packet.
func ClassifyMethod(payload []byte) Method {
	if len(payload) < methodTokenLen {
		return MethodUnknown
	}
	switch binary.BigEndian.Uint32(payload[:methodTokenLen]) {
	case sigGET:
		return MethodGET
	case sigPOST:
		return MethodPOST
	default:
		return MethodUnknown
	}
}

// ExtractURL returns the URL token starting 4 bytes after the payload
// start: the bytes up to the first space, CR, or LF, the payload end,
// or MaxURLLen, whichever comes first. A zero-length token returns nil.
func ExtractURL(payload []byte) []byte {
	if len(payload) < methodTokenLen {
		return nil
	}
	url := payload[methodTokenLen:]

	n := 0
	for n < MaxURLLen && n < len(url) {
		c := url[n]
		if c == ' ' || c == '\r' || c == '\n' {
			break
		}
		n++
	}
	if n == 0 {
		return nil
	}
	return url[:n]
}

// Fingerprint folds the URL bytes into a 64-bit FNV-1a hash, capped at
// maxHashLen bytes.
func Fingerprint(url []byte) uint64 {
	hash := uint64(fnvOffset)
	n := len(url)
	if n > maxHashLen {
		n = maxHashLen
	}
	for i := 0; i < n; i++ {
		hash ^= uint64(url[i])
		hash *= fnvPrime
	}
	return hash
}

// Key identifies one cached response: method, destination port, and the
// URL fingerprint.
type Key struct {
	Method Method
	Port   uint16
	Hash   uint64
}

// NewKey builds a cache key from the classified request.
func NewKey(method Method, port uint16, url []byte) Key {
	return Key{Method: method, Port: port, Hash: Fingerprint(url)}
}
