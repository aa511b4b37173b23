// Package stats implements per-worker counter partitions.
//
// Each capture worker owns exactly one Unit and is the only writer to
// it, so increments never contend. Atomics are used only so that the
// out-of-band aggregation read is race-free; the hot path never waits.
package stats

import "sync/atomic"

// Counter identifies one counter slot inside a Unit. The set is a flat
// array indexed by these small keys, one array per execution unit.
type Counter int

const (
	// Total counts every hook invocation, incremented before any
	// parsing succeeds or fails. It is therefore an upper bound that
	// includes malformed and non-IPv4 traffic.
	Total Counter = iota
	// Passed counts packets given the pass-through verdict after a
	// route miss or an explicit pass action.
	Passed
	// Dropped counts packets discarded by a drop route action.
	Dropped
	// Reflected counts packets transmitted back out the ingress path.
	Reflected
	// CacheHits counts fresh response-cache hits on the transmit hook.
	CacheHits
	// CacheMisses counts transmit-hook lookups that found no fresh entry.
	CacheMisses

	numCounters
)

func (c Counter) String() string {
	switch c {
	case Total:
		return "packets_total"
	case Passed:
		return "packets_passed"
	case Dropped:
		return "packets_dropped"
	case Reflected:
		return "packets_reflected"
	case CacheHits:
		return "cache_hits"
	case CacheMisses:
		return "cache_misses"
	default:
		return "unknown"
	}
}

// Unit is one worker's private counter partition.
type Unit struct {
	vals [numCounters]atomic.Uint64
	// Pad to keep adjacent worker units off the same cache line.
	_ [64]byte
}

// Inc bumps one counter. Must only be called by the owning worker.
func (u *Unit) Inc(c Counter) {
	u.vals[c].Add(1)
}

// Load reads one counter slot.
func (u *Unit) Load(c Counter) uint64 {
	return u.vals[c].Load()
}

// Set holds one Unit per worker plus the aggregation path.
type Set struct {
	units []Unit
}

// NewSet allocates a counter set for the given number of workers.
func NewSet(workers int) *Set {
	if workers < 1 {
		workers = 1
	}
	return &Set{units: make([]Unit, workers)}
}

// Unit returns worker i's partition. The caller must not share it with
// other writers.
func (s *Set) Unit(i int) *Unit {
	return &s.units[i]
}

// Workers returns the number of partitions.
func (s *Set) Workers() int {
	return len(s.units)
}

// Record is an aggregated snapshot summed across all units.
type Record struct {
	PacketsTotal     uint64 `json:"packets_total"`
	PacketsPassed    uint64 `json:"packets_passed"`
	PacketsDropped   uint64 `json:"packets_dropped"`
	PacketsReflected uint64 `json:"packets_reflected"`
	CacheHits        uint64 `json:"cache_hits"`
	CacheMisses      uint64 `json:"cache_misses"`
}

// Snapshot sums every unit. Counters are monotonically increasing, so
// a snapshot taken during concurrent increments is a consistent lower
// bound per counter, never an error.
func (s *Set) Snapshot() Record {
	var r Record
	for i := range s.units {
		u := &s.units[i]
		r.PacketsTotal += u.Load(Total)
		r.PacketsPassed += u.Load(Passed)
		r.PacketsDropped += u.Load(Dropped)
		r.PacketsReflected += u.Load(Reflected)
		r.CacheHits += u.Load(CacheHits)
		r.CacheMisses += u.Load(CacheMisses)
	}
	return r
}
