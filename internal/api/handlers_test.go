package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/fastpath/internal/httpcache"
	"firestige.xyz/fastpath/internal/route"
	"firestige.xyz/fastpath/internal/stats"
)

func newTestServer(t *testing.T) (*Server, *route.Table, *httpcache.Cache) {
	t.Helper()
	table := route.NewTable()
	cache := httpcache.New()
	s := NewServer("127.0.0.1:0", table, cache, stats.NewSet(1), stats.NewSet(1))
	return s, table, cache
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s, _, _ := newTestServer(t)
	w := do(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok"`)
}

func TestStats(t *testing.T) {
	s, table, _ := newTestServer(t)
	require.NoError(t, table.Insert(route.Key{PrefixLen: 48, DstIP: [4]byte{10, 0, 0, 1}, DstPort: 80}, route.Value{Action: route.ActionDrop}))
	s.rx.Unit(0).Inc(stats.Total)
	s.rx.Unit(0).Inc(stats.Dropped)

	w := do(t, s, http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint64(1), resp.Receive.PacketsTotal)
	assert.Equal(t, uint64(1), resp.Receive.PacketsDropped)
	assert.Equal(t, 1, resp.Routes)
}

func TestRouteLifecycle(t *testing.T) {
	s, table, _ := newTestServer(t)

	m := RouteModel{DstIP: "10.0.0.1", DstPort: 80, Action: "drop"}
	w := do(t, s, http.MethodPost, "/api/v1/routes", m)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, table.Len())

	// The fast path sees the inserted route.
	val, ok := table.Lookup([4]byte{10, 0, 0, 1}, 80, 6)
	require.True(t, ok)
	assert.Equal(t, route.ActionDrop, val.Action)

	// Listing round-trips the entry.
	w = do(t, s, http.MethodGet, "/api/v1/routes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []RouteModel
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "10.0.0.1", listed[0].DstIP)
	assert.Equal(t, uint16(80), listed[0].DstPort)
	assert.Equal(t, "drop", listed[0].Action)
	require.NotNil(t, listed[0].PrefixLen)
	assert.Equal(t, uint8(route.DefaultPrefixLen), *listed[0].PrefixLen)

	w = do(t, s, http.MethodDelete, "/api/v1/routes", m)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, table.Len())
}

func TestInsertRouteRejectsBadInput(t *testing.T) {
	s, _, _ := newTestServer(t)

	cases := []struct {
		name string
		body RouteModel
	}{
		{"bad address", RouteModel{DstIP: "not-an-ip", Action: "drop"}},
		{"ipv6 address", RouteModel{DstIP: "::1", Action: "drop"}},
		{"unknown action", RouteModel{DstIP: "10.0.0.1", Action: "mirror"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/api/v1/routes", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	// Missing required dst_ip fails binding.
	w := do(t, s, http.MethodPost, "/api/v1/routes", map[string]any{"action": "drop"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInsertRouteTableFull(t *testing.T) {
	s, table, _ := newTestServer(t)
	for i := 0; i < route.MaxRoutes; i++ {
		key := route.Key{PrefixLen: 48, DstIP: [4]byte{10, 0, byte(i >> 8), byte(i)}, DstPort: 80}
		require.NoError(t, table.Insert(key, route.Value{}))
	}

	w := do(t, s, http.MethodPost, "/api/v1/routes", RouteModel{DstIP: "11.0.0.1", DstPort: 80, Action: "drop"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteMissingRoute(t *testing.T) {
	s, _, _ := newTestServer(t)
	w := do(t, s, http.MethodDelete, "/api/v1/routes", RouteModel{DstIP: "10.0.0.1", DstPort: 80, Action: "pass"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCachePutAndInvalidate(t *testing.T) {
	s, _, cache := newTestServer(t)

	put := CachePutRequest{URL: "/index.html", Port: 80, Status: 200, ContentType: "text/html", Body: "<h1>hi</h1>"}
	w := do(t, s, http.MethodPut, "/api/v1/cache", put)
	require.Equal(t, http.StatusOK, w.Code)

	key := httpcache.NewKey(httpcache.MethodGET, 80, []byte("/index.html"))
	e, ok := cache.Lookup(key, time.Now())
	require.True(t, ok)
	assert.Equal(t, 200, e.Status)
	assert.Equal(t, "<h1>hi</h1>", string(e.Body))

	// Targeted invalidation.
	w = do(t, s, http.MethodDelete, "/api/v1/cache", CacheInvalidateRequest{URL: "/index.html", Port: 80})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, cache.Contains(key))

	// Invalidating again reports not found.
	w = do(t, s, http.MethodDelete, "/api/v1/cache", CacheInvalidateRequest{URL: "/index.html", Port: 80})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCachePutDefaultsStatus(t *testing.T) {
	s, _, cache := newTestServer(t)

	w := do(t, s, http.MethodPut, "/api/v1/cache", CachePutRequest{URL: "/a", Port: 80})
	require.Equal(t, http.StatusOK, w.Code)

	e, ok := cache.Lookup(httpcache.NewKey(httpcache.MethodGET, 80, []byte("/a")), time.Now())
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, e.Status)
}

func TestCachePutOversizedBody(t *testing.T) {
	s, _, _ := newTestServer(t)

	put := CachePutRequest{URL: "/big", Port: 80, Body: string(bytes.Repeat([]byte{'x'}, httpcache.MaxBodyLen+1))}
	w := do(t, s, http.MethodPut, "/api/v1/cache", put)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestCachePutRejectsUnknownMethod(t *testing.T) {
	s, _, _ := newTestServer(t)
	w := do(t, s, http.MethodPut, "/api/v1/cache", CachePutRequest{URL: "/a", Port: 80, Method: "PATCH"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCacheFlush(t *testing.T) {
	s, _, cache := newTestServer(t)
	now := time.Now()
	for _, url := range []string{"/a", "/b", "/c"} {
		require.NoError(t, cache.Put(httpcache.NewKey(httpcache.MethodGET, 80, []byte(url)), httpcache.Entry{WrittenAt: now}))
	}

	// Empty body flushes everything.
	w := do(t, s, http.MethodDelete, "/api/v1/cache", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "flushed", resp.Status)
	assert.Equal(t, 3, resp.Count)
	assert.Equal(t, 0, cache.Len())
}
