// Package decoder implements the bounds-checked L2-L4 header walk.
//
// Each step takes the remaining byte slice, proves the next header fits
// before touching any offset, and returns the decoded header plus the
// remaining payload. A failure at any step is never fatal to the host,
// only to this packet's fast-path handling: callers map every error to
// the pass-through verdict.
package decoder

import "firestige.xyz/fastpath/internal/core"

// Decode walks link, network, and transport headers in sequence.
// Only IPv4/TCP frames decode fully; anything else returns an error so
// the engine can bypass the packet.
func Decode(raw core.RawPacket) (core.DecodedPacket, error) {
	pkt := core.DecodedPacket{
		Timestamp:  raw.Timestamp,
		CaptureLen: raw.CaptureLen,
		OrigLen:    raw.OrigLen,
	}

	eth, l3, err := decodeEthernet(raw.Data)
	if err != nil {
		return pkt, err
	}
	pkt.Ethernet = eth

	if eth.EtherType != etherTypeIPv4 {
		return pkt, core.ErrUnsupportedProto
	}

	ip, l4, err := decodeIPv4(l3)
	if err != nil {
		return pkt, err
	}
	pkt.IP = ip

	if ip.Protocol != ProtocolTCP {
		return pkt, core.ErrUnsupportedProto
	}

	tcp, payload, err := decodeTCP(l4)
	if err != nil {
		return pkt, err
	}
	pkt.TCP = tcp
	pkt.Payload = payload

	return pkt, nil
}
