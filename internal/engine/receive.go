// Package engine implements the hook entry points.
package engine

import (
	"firestige.xyz/fastpath/internal/core"
	"firestige.xyz/fastpath/internal/core/decoder"
	"firestige.xyz/fastpath/internal/stats"
)

// Receive is the receive-hook entry point: decide forward/drop/reflect
// for one inbound frame.
//
// The total counter increments before any parsing, so totals are an
// upper bound covering malformed and non-IPv4 traffic. A frame that
// fails the header walk passes through untouched with no route lookup
// and no further counters.
func (e *Engine) Receive(unit *stats.Unit, raw core.RawPacket) core.Verdict {
	unit.Inc(stats.Total)

	pkt, err := decoder.Decode(raw)
	if err != nil {
		return core.VerdictPass
	}

	return e.dispatcher.Dispatch(unit, pkt.IP.DstAddr4, pkt.TCP.DstPort, pkt.IP.Protocol)
}
