// Package decoder implements protocol decoding.
package decoder

import (
	"encoding/binary"

	"firestige.xyz/fastpath/internal/core"
)

const (
	tcpHeaderMinLen = 20

	// Protocol numbers
	ProtocolTCP = 6
	ProtocolUDP = 17
)

// decodeTCP decodes a TCP header. The payload offset comes from the
// data-offset field (doff * 4) and is validated against the slice end
// before the payload sub-slice is taken, so a header that claims more
// room than the buffer holds fails cleanly.
func decodeTCP(data []byte) (core.TCPHeader, []byte, error) {
	if len(data) < tcpHeaderMinLen {
		return core.TCPHeader{}, nil, core.ErrPacketTooShort
	}

	tcp := core.TCPHeader{}

	// Source Port (2 bytes at offset 0)
	tcp.SrcPort = binary.BigEndian.Uint16(data[0:2])

	// Destination Port (2 bytes at offset 2)
	tcp.DstPort = binary.BigEndian.Uint16(data[2:4])

	// Sequence Number (4 bytes at offset 4)
	tcp.SeqNum = binary.BigEndian.Uint32(data[4:8])

	// Acknowledgment Number (4 bytes at offset 8)
	tcp.AckNum = binary.BigEndian.Uint32(data[8:12])

	// Data Offset (upper 4 bits at offset 12), in 32-bit words
	dataOffset := uint8(data[12] >> 4)
	headerLen := int(dataOffset) * 4

	if headerLen < tcpHeaderMinLen || len(data) < headerLen {
		return tcp, nil, core.ErrPacketTooShort
	}

	// TCP Flags (lower 6 bits of byte 13): URG, ACK, PSH, RST, SYN, FIN
	tcp.Flags = data[13] & 0x3F

	// Payload starts after TCP header (including options)
	payload := data[headerLen:]
	return tcp, payload, nil
}
