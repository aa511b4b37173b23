// Package core defines core data structures with zero external dependencies.
package core

import "time"

// RawPacket is captured from the network interface, zero-copy reference
// to the ring buffer. The Data slice boundary is the single source of
// truth for every bounds check downstream: no decoded sub-slice may
// reach past it.
type RawPacket struct {
	Data           []byte    // Raw frame data, zero-copy slice
	Timestamp      time.Time // Capture timestamp (kernel timestamp preferred)
	CaptureLen     uint32    // Actual captured length
	OrigLen        uint32    // Original frame length
	InterfaceIndex int       // Network interface index
}

// DecodedPacket is the result of L2-L4 protocol stack decoding.
type DecodedPacket struct {
	Timestamp  time.Time
	Ethernet   EthernetHeader
	IP         IPv4Header
	TCP        TCPHeader
	Payload    []byte // TCP payload, zero-copy slice into the frame
	CaptureLen uint32
	OrigLen    uint32
}
