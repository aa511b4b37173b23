// Package route implements the longest-prefix-match route table and the
// verdict dispatcher for the receive hook.
//
// The lookup key is the 56-bit concatenation dstIP(32)‖dstPort(16)‖
// protocol(8). Entries carry a prefix length of 0-56 over that key, so
// a /48 entry matches address+port exactly regardless of protocol and a
// /32 entry matches an address on any port. The control plane mutates
// the table at arbitrary times while lookups proceed on the fast path:
// mutations rebuild a fresh trie under a writer lock and publish it
// atomically, so readers never block and observe either the old or the
// new snapshot during a transition.
package route

import (
	"fmt"
	"sync"
	"sync/atomic"

	"firestige.xyz/fastpath/internal/core"
)

const (
	// keyBits is the full width of the concatenated lookup key.
	keyBits = 56

	// DefaultPrefixLen covers address+port, the width the receive hook
	// key was built with historically. Inserts that do not specify a
	// prefix length get this one.
	DefaultPrefixLen = 48

	// MaxRoutes bounds the table size; the control plane is expected
	// to stay far below it.
	MaxRoutes = 256
)

// Action is the stored verdict for a matched route.
type Action uint8

const (
	ActionPass Action = iota
	ActionDrop
	ActionReflect
)

func (a Action) String() string {
	switch a {
	case ActionDrop:
		return "drop"
	case ActionReflect:
		return "reflect"
	default:
		return "pass"
	}
}

// ParseAction converts a config/API string to an Action.
func ParseAction(s string) (Action, error) {
	switch s {
	case "pass", "":
		return ActionPass, nil
	case "drop":
		return ActionDrop, nil
	case "reflect", "redirect":
		return ActionReflect, nil
	default:
		return ActionPass, fmt.Errorf("unknown route action: %q", s)
	}
}

// Key identifies a route entry.
type Key struct {
	PrefixLen uint8 // 0-56 bits over DstIP‖DstPort‖Protocol
	DstIP     [4]byte
	DstPort   uint16
	Protocol  uint8
}

// Value is the stored decision for a route. Backend fields are carried
// for a future rewrite-on-reflect path and are not consulted today.
type Value struct {
	Action      Action
	BackendIP   [4]byte
	BackendPort uint16
}

// Entry pairs a key with its value for control-plane listings.
type Entry struct {
	Key   Key
	Value Value
}

// bits packs the key material into the 56-bit lookup word, MSB-first:
// address first, then port, then protocol.
func (k Key) bits() uint64 {
	ip := uint64(k.DstIP[0])<<24 | uint64(k.DstIP[1])<<16 |
		uint64(k.DstIP[2])<<8 | uint64(k.DstIP[3])
	return ip<<24 | uint64(k.DstPort)<<8 | uint64(k.Protocol)
}

// canonical masks off key bits beyond the prefix length so that two
// inserts differing only in ignored bits collapse to one entry.
func (k Key) canonical() Key {
	if k.PrefixLen >= keyBits {
		k.PrefixLen = keyBits
		return k
	}
	masked := k.bits() &^ (uint64(1)<<(keyBits-uint(k.PrefixLen)) - 1)
	k.DstIP[0] = byte(masked >> 48)
	k.DstIP[1] = byte(masked >> 40)
	k.DstIP[2] = byte(masked >> 32)
	k.DstIP[3] = byte(masked >> 24)
	k.DstPort = uint16(masked >> 8)
	k.Protocol = uint8(masked)
	return k
}

// node is one bit of the binary LPM trie. A non-nil value marks the end
// of a stored prefix.
type node struct {
	children [2]*node
	value    *Value
}

// Table is the prefix-keyed route store.
type Table struct {
	mu      sync.Mutex // serializes control-plane mutations only
	entries map[Key]Value
	root    atomic.Pointer[node] // published snapshot, lock-free reads
}

// NewTable returns an empty table.
func NewTable() *Table {
	t := &Table{entries: make(map[Key]Value)}
	t.root.Store(&node{})
	return t
}

// Insert adds or replaces a route entry.
func (t *Table) Insert(k Key, v Value) error {
	if k.PrefixLen > keyBits {
		return core.ErrPrefixTooLong
	}
	k = k.canonical()

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.entries[k]; !ok && len(t.entries) >= MaxRoutes {
		return fmt.Errorf("fastpath: route table full (%d entries)", MaxRoutes)
	}
	t.entries[k] = v
	t.publishLocked()
	return nil
}

// Delete removes a route entry. Returns false if it was not present.
func (t *Table) Delete(k Key) bool {
	if k.PrefixLen > keyBits {
		return false
	}
	k = k.canonical()

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.entries[k]; !ok {
		return false
	}
	delete(t.entries, k)
	t.publishLocked()
	return true
}

// Len returns the number of stored entries.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Entries returns a copy of all stored entries.
func (t *Table) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, 0, len(t.entries))
	for k, v := range t.entries {
		out = append(out, Entry{Key: k, Value: v})
	}
	return out
}

// publishLocked rebuilds the trie from the entry map and swaps it in.
// The table is small (MaxRoutes) so a full rebuild per mutation is
// cheaper than a concurrent-safe incremental trie.
func (t *Table) publishLocked() {
	root := &node{}
	for k, v := range t.entries {
		n := root
		bits := k.bits()
		for i := 0; i < int(k.PrefixLen); i++ {
			b := (bits >> (keyBits - 1 - uint(i))) & 1
			if n.children[b] == nil {
				n.children[b] = &node{}
			}
			n = n.children[b]
		}
		val := v
		n.value = &val
	}
	t.root.Store(root)
}

// Lookup performs a longest-prefix match for the full-width key built
// from destination address, destination port, and protocol. Among all
// stored prefixes covering the key, the longest wins. A miss is a
// common, valid outcome, never an error.
func (t *Table) Lookup(dstIP [4]byte, dstPort uint16, protocol uint8) (Value, bool) {
	bits := Key{DstIP: dstIP, DstPort: dstPort, Protocol: protocol}.bits()

	n := t.root.Load()
	var best *Value
	for i := 0; i < keyBits; i++ {
		if n.value != nil {
			best = n.value
		}
		b := (bits >> (keyBits - 1 - uint(i))) & 1
		n = n.children[b]
		if n == nil {
			break
		}
	}
	if n != nil && n.value != nil {
		best = n.value
	}
	if best == nil {
		return Value{}, false
	}
	return *best, true
}
