// Package decoder implements protocol decoding.
package decoder

import (
	"encoding/binary"
	"net/netip"

	"firestige.xyz/fastpath/internal/core"
)

const ipv4HeaderMinLen = 20

// decodeIPv4 decodes an IPv4 header. Returns IPv4Header and remaining
// payload. The header length is variable (IHL * 4); both the minimum
// and the claimed length are checked against the slice end before the
// payload offset is computed.
func decodeIPv4(data []byte) (core.IPv4Header, []byte, error) {
	if len(data) < ipv4HeaderMinLen {
		return core.IPv4Header{}, nil, core.ErrPacketTooShort
	}

	// Version (upper 4 bits of first byte) must be 4
	if data[0]>>4 != 4 {
		return core.IPv4Header{}, nil, core.ErrUnsupportedProto
	}

	// IHL (Internet Header Length) - lower 4 bits of first byte
	ihl := uint8(data[0] & 0x0F)
	headerLen := int(ihl) * 4 // IHL is in 32-bit words

	if headerLen < ipv4HeaderMinLen || len(data) < headerLen {
		return core.IPv4Header{}, nil, core.ErrPacketTooShort
	}

	ip := core.IPv4Header{}

	// Total Length (2 bytes at offset 2)
	ip.TotalLen = binary.BigEndian.Uint16(data[2:4])

	// TTL (1 byte at offset 8)
	ip.TTL = data[8]

	// Protocol (1 byte at offset 9)
	ip.Protocol = data[9]

	// Source IP (4 bytes at offset 12)
	addr, ok := netip.AddrFromSlice(data[12:16])
	if !ok {
		return ip, nil, core.ErrPacketTooShort
	}
	ip.SrcIP = addr

	// Destination IP (4 bytes at offset 16)
	addr, ok = netip.AddrFromSlice(data[16:20])
	if !ok {
		return ip, nil, core.ErrPacketTooShort
	}
	ip.DstIP = addr
	copy(ip.DstAddr4[:], data[16:20])

	// Payload starts after IP header
	payload := data[headerLen:]
	return ip, payload, nil
}
