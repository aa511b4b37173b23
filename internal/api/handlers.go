package api

import (
	"fmt"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"firestige.xyz/fastpath/internal/config"
	"firestige.xyz/fastpath/internal/httpcache"
	"firestige.xyz/fastpath/internal/route"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, StatsResponse{
		Receive:  s.rx.Snapshot(),
		Transmit: s.tx.Snapshot(),
		Cache:    s.cache.Stats(),
		Routes:   s.table.Len(),
	})
}

// ─── Routes ───

func (s *Server) handleListRoutes(c *gin.Context) {
	entries := s.table.Entries()
	out := make([]RouteModel, 0, len(entries))
	for _, e := range entries {
		prefixLen := e.Key.PrefixLen
		out = append(out, RouteModel{
			DstIP:       netip.AddrFrom4(e.Key.DstIP).String(),
			DstPort:     e.Key.DstPort,
			Protocol:    protocolString(e.Key.Protocol),
			PrefixLen:   &prefixLen,
			Action:      e.Value.Action.String(),
			BackendIP:   backendString(e.Value.BackendIP),
			BackendPort: e.Value.BackendPort,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleInsertRoute(c *gin.Context) {
	var req RouteModel
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	key, val, err := routeFromModel(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if err := s.table.Insert(key, val); err != nil {
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		return
	}
	log.WithFields(log.Fields{
		"dst":    req.DstIP,
		"port":   req.DstPort,
		"action": val.Action.String(),
	}).Info("route inserted")
	c.JSON(http.StatusCreated, StatusResponse{Status: "created"})
}

func (s *Server) handleDeleteRoute(c *gin.Context) {
	var req RouteModel
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	key, _, err := routeFromModel(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if !s.table.Delete(key) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "route not found"})
		return
	}
	c.JSON(http.StatusOK, StatusResponse{Status: "deleted"})
}

// routeFromModel reuses the config-layer conversion so API and YAML
// accept the same shapes.
func routeFromModel(m RouteModel) (route.Key, route.Value, error) {
	rc := config.RouteConfig{
		DstIP:       m.DstIP,
		DstPort:     m.DstPort,
		Protocol:    m.Protocol,
		PrefixLen:   m.PrefixLen,
		Action:      m.Action,
		BackendIP:   m.BackendIP,
		BackendPort: m.BackendPort,
	}
	return rc.ToEntry()
}

func protocolString(p uint8) string {
	switch p {
	case 6:
		return "tcp"
	case 17:
		return "udp"
	default:
		return ""
	}
}

func backendString(ip [4]byte) string {
	if ip == ([4]byte{}) {
		return ""
	}
	return netip.AddrFrom4(ip).String()
}

// ─── Cache ───

func (s *Server) handleCachePut(c *gin.Context) {
	var req CachePutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	method, err := parseMethod(req.Method)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	key := httpcache.NewKey(method, req.Port, []byte(req.URL))
	entry := httpcache.Entry{
		WrittenAt:   time.Now(),
		Status:      req.Status,
		ContentType: req.ContentType,
		Body:        []byte(req.Body),
	}
	if entry.Status == 0 {
		entry.Status = http.StatusOK
	}
	if err := s.cache.Put(key, entry); err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, StatusResponse{Status: "stored"})
}

func (s *Server) handleCacheInvalidate(c *gin.Context) {
	var req CacheInvalidateRequest
	// An empty body means "flush everything".
	_ = c.ShouldBindJSON(&req)

	if req.URL == "" {
		n := s.cache.Flush()
		c.JSON(http.StatusOK, StatusResponse{Status: "flushed", Count: n})
		return
	}

	method, err := parseMethod(req.Method)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	key := httpcache.NewKey(method, req.Port, []byte(req.URL))
	if !s.cache.Delete(key) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "cache entry not found"})
		return
	}
	c.JSON(http.StatusOK, StatusResponse{Status: "invalidated", Count: 1})
}

func parseMethod(s string) (httpcache.Method, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "GET":
		return httpcache.MethodGET, nil
	case "POST":
		return httpcache.MethodPOST, nil
	default:
		return httpcache.MethodUnknown, fmt.Errorf("unknown method: %q", s)
	}
}
