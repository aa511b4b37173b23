// Package capture attaches the engine hooks to a network device.
//
// This is the opaque attachment collaborator around the core: it owns
// the AF_PACKET handles, fans frames out across workers, invokes the
// receive and transmit hooks, and applies the returned verdict. The
// core never sees any of this — it only sees one frame per invocation.
package capture

import "github.com/google/gopacket"

// Handle is one worker's packet I/O endpoint.
type Handle interface {
	// Open binds the handle to the configured interface.
	Open(options *Options) error

	// ZeroCopyReadPacket returns the next frame. The returned slice is
	// only valid until the next read on this handle.
	ZeroCopyReadPacket() ([]byte, gopacket.CaptureInfo, error)

	// WritePacket transmits a raw frame out the same interface.
	WritePacket(data []byte) error

	// Close releases the handle.
	Close() error

	// InterfaceName reports the bound interface.
	InterfaceName() string
}

// Options configures one capture handle.
type Options struct {
	NetworkInterface string // interface name
	SnapLen          int    // capture length
	BufferSize       int    // ring buffer size in bytes
	TimeoutMS        int    // poll timeout in milliseconds
	Filter           string // optional BPF filter
	FanoutID         uint16 // PACKET_FANOUT group; 0 disables fanout
}
