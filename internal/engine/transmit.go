// Package engine implements the hook entry points.
package engine

import (
	"firestige.xyz/fastpath/internal/core"
	"firestige.xyz/fastpath/internal/core/decoder"
	"firestige.xyz/fastpath/internal/httpcache"
	"firestige.xyz/fastpath/internal/stats"
)

// Transmit is the transmit-hook entry point: recognize cacheable GET
// requests and record whether a fresh cached response exists.
//
// The verdict is unconditionally pass-through — the cache check is
// observational and does not short-circuit the request. Processing is
// restricted to the fixed port allow-list, to the GET method, and to a
// non-empty URL token; every other outcome stops with no side effect
// beyond the total counter.
func (e *Engine) Transmit(unit *stats.Unit, raw core.RawPacket) core.Verdict {
	unit.Inc(stats.Total)

	pkt, err := decoder.Decode(raw)
	if err != nil {
		return core.VerdictPass
	}

	if !portAllowed(pkt.TCP.DstPort) {
		return core.VerdictPass
	}

	method := httpcache.ClassifyMethod(pkt.Payload)
	if method != httpcache.MethodGET {
		return core.VerdictPass
	}

	url := httpcache.ExtractURL(pkt.Payload)
	if url == nil {
		return core.VerdictPass
	}

	key := httpcache.NewKey(method, pkt.TCP.DstPort, url)
	if _, ok := e.cache.Lookup(key, e.now()); ok {
		unit.Inc(stats.CacheHits)
	} else {
		unit.Inc(stats.CacheMisses)
	}

	return core.VerdictPass
}
