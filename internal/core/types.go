// Package core defines core types with zero external dependencies.
package core

import "net/netip"

// EthernetHeader represents L2 Ethernet frame header.
type EthernetHeader struct {
	SrcMAC    [6]byte
	DstMAC    [6]byte
	EtherType uint16   // 0x0800=IPv4, 0x86DD=IPv6, 0x8100=VLAN
	VLANs     []uint16 // 0~2 VLAN IDs (QinQ scenarios have 2)
}

// IPv4Header represents L3 IPv4 header. Only IPv4 is decoded on the
// fast path; IPv6 frames fail decoding with ErrUnsupportedProto and
// bypass unharmed.
type IPv4Header struct {
	SrcIP    netip.Addr // Go stdlib value type, zero allocation
	DstIP    netip.Addr
	Protocol uint8 // TCP=6, UDP=17
	TTL      uint8
	TotalLen uint16
	DstAddr4 [4]byte // raw destination, network byte order, route key material
}

// TCPHeader represents the L4 TCP header fields the fast path needs.
type TCPHeader struct {
	SrcPort uint16
	DstPort uint16
	SeqNum  uint32
	AckNum  uint32
	Flags   uint8 // lower 6 bits of byte 13: URG ACK PSH RST SYN FIN
}
