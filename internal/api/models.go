// Package api provides the control-plane HTTP server: route table
// mutation, response-cache population and invalidation, and counter
// aggregation. The fast path never calls into this package; it only
// shares the stores the handlers mutate.
package api

import (
	"firestige.xyz/fastpath/internal/httpcache"
	"firestige.xyz/fastpath/internal/stats"
)

// RouteModel is the JSON form of one route entry, accepted on insert
// and delete and returned by listings.
type RouteModel struct {
	DstIP       string `json:"dst_ip" binding:"required"`
	DstPort     uint16 `json:"dst_port"`
	Protocol    string `json:"protocol"`
	PrefixLen   *uint8 `json:"prefix_len,omitempty"`
	Action      string `json:"action"`
	BackendIP   string `json:"backend_ip,omitempty"`
	BackendPort uint16 `json:"backend_port,omitempty"`
}

// CachePutRequest populates one response-cache entry. This is the
// external write path of the cache; the hooks only read.
type CachePutRequest struct {
	URL         string `json:"url" binding:"required"`
	Port        uint16 `json:"port" binding:"required"`
	Method      string `json:"method"` // default GET
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        string `json:"body"` // capped at the fixed maximum
}

// CacheInvalidateRequest selects entries to invalidate. An empty URL
// flushes the whole cache.
type CacheInvalidateRequest struct {
	URL    string `json:"url"`
	Port   uint16 `json:"port"`
	Method string `json:"method"`
}

// StatsResponse aggregates counters across all execution units, per
// hook, plus store-level metrics.
type StatsResponse struct {
	Receive  stats.Record    `json:"receive"`
	Transmit stats.Record    `json:"transmit"`
	Cache    httpcache.Stats `json:"cache"`
	Routes   int             `json:"routes"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is the uniform success body for mutations.
type StatusResponse struct {
	Status string `json:"status"`
	Count  int    `json:"count,omitempty"`
}
