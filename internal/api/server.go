package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"firestige.xyz/fastpath/internal/httpcache"
	"firestige.xyz/fastpath/internal/route"
	"firestige.xyz/fastpath/internal/stats"
)

// Server is the control-plane HTTP server.
type Server struct {
	table *route.Table
	cache *httpcache.Cache
	rx    *stats.Set
	tx    *stats.Set

	httpServer *http.Server
	router     *gin.Engine
}

// NewServer builds the server and registers all routes.
func NewServer(listen string, table *route.Table, cache *httpcache.Cache, rx, tx *stats.Set) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		table:  table,
		cache:  cache,
		rx:     rx,
		tx:     tx,
		router: router,
		httpServer: &http.Server{
			Addr:         listen,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/stats", s.handleStats)

		v1.GET("/routes", s.handleListRoutes)
		v1.POST("/routes", s.handleInsertRoute)
		v1.DELETE("/routes", s.handleDeleteRoute)

		v1.PUT("/cache", s.handleCachePut)
		v1.DELETE("/cache", s.handleCacheInvalidate)
	}
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	log.WithField("listen", s.httpServer.Addr).Info("admin api listening")
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
