// Package core defines sentinel errors.
package core

import "errors"

// Sentinel errors. Every decode failure maps to exactly one of these;
// the engine treats them all the same way (bypass this packet).
var (
	// Packet decoding errors
	ErrPacketTooShort   = errors.New("fastpath: packet too short")
	ErrUnsupportedProto = errors.New("fastpath: unsupported protocol")

	// Route table errors
	ErrPrefixTooLong = errors.New("fastpath: prefix length out of range")

	// Cache errors
	ErrBodyTooLarge = errors.New("fastpath: cache body exceeds maximum size")

	// Configuration errors
	ErrConfigInvalid = errors.New("fastpath: invalid configuration")
)
