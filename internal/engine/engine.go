// Package engine wires the header walk, route table, and response cache
// into the two hook entry points.
//
// Each hook is one synchronous, bounded pass over one packet: no
// blocking, no retry, no state carried between invocations. Any decode
// failure degrades to "do nothing" — the pass-through verdict — which
// is the single error-handling policy throughout.
package engine

import (
	"time"

	"firestige.xyz/fastpath/internal/httpcache"
	"firestige.xyz/fastpath/internal/route"
)

// Engine holds the shared read-side stores for both hooks. The route
// table and cache are mutated externally by the control plane while
// hooks read them concurrently.
type Engine struct {
	dispatcher *route.Dispatcher
	cache      *httpcache.Cache

	// now is replaceable in tests; cache freshness depends on it.
	now func() time.Time
}

// New builds an engine over the given stores.
func New(table *route.Table, cache *httpcache.Cache) *Engine {
	return &Engine{
		dispatcher: route.NewDispatcher(table),
		cache:      cache,
		now:        time.Now,
	}
}

// transmit hook port allow-list, fixed.
var allowedPorts = [...]uint16{80, 8080, 3000}

func portAllowed(port uint16) bool {
	for _, p := range allowedPorts {
		if p == port {
			return true
		}
	}
	return false
}
