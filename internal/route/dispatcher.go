// Package route implements the route table and verdict dispatch.
package route

import (
	"firestige.xyz/fastpath/internal/core"
	"firestige.xyz/fastpath/internal/stats"
)

// Dispatcher maps a route lookup result to a verdict and records the
// outcome on the worker's counter partition.
type Dispatcher struct {
	table *Table
}

// NewDispatcher wires a dispatcher to a table.
func NewDispatcher(t *Table) *Dispatcher {
	return &Dispatcher{table: t}
}

// Dispatch looks up the packet's destination and returns the verdict.
// On a miss the packet passes through and counts as passed; on a hit
// the stored action decides both the verdict and the counter.
func (d *Dispatcher) Dispatch(unit *stats.Unit, dstIP [4]byte, dstPort uint16, protocol uint8) core.Verdict {
	val, ok := d.table.Lookup(dstIP, dstPort, protocol)
	if !ok {
		unit.Inc(stats.Passed)
		return core.VerdictPass
	}

	switch val.Action {
	case ActionDrop:
		unit.Inc(stats.Dropped)
		return core.VerdictDrop
	case ActionReflect:
		unit.Inc(stats.Reflected)
		return core.VerdictReflect
	default:
		unit.Inc(stats.Passed)
		return core.VerdictPass
	}
}
