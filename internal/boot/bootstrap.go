// Package boot wires configuration into running components and owns the
// shutdown sequence.
package boot

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"firestige.xyz/fastpath/internal/api"
	"firestige.xyz/fastpath/internal/capture"
	"firestige.xyz/fastpath/internal/config"
	"firestige.xyz/fastpath/internal/engine"
	"firestige.xyz/fastpath/internal/httpcache"
	logsetup "firestige.xyz/fastpath/internal/log"
	"firestige.xyz/fastpath/internal/route"
	"firestige.xyz/fastpath/internal/stats"
)

// Start runs the engine until SIGINT/SIGTERM, then shuts down within
// the given timeout.
func Start(cfg *config.Config, shutdownTimeout time.Duration) error {
	if err := logsetup.Init(cfg.Log); err != nil {
		return err
	}

	table := route.NewTable()
	for _, rc := range cfg.Routes {
		key, val, err := rc.ToEntry()
		if err != nil {
			return err
		}
		if err := table.Insert(key, val); err != nil {
			return err
		}
	}
	if n := table.Len(); n > 0 {
		log.WithField("routes", n).Info("route table seeded")
	}

	cache := httpcache.New()
	eng := engine.New(table, cache)

	workers := cfg.Capture.Workers
	rx := stats.NewSet(workers)
	tx := stats.NewSet(workers)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var srv *api.Server
	if cfg.API.Enabled {
		srv = api.NewServer(cfg.API.Listen, table, cache, rx, tx)
		go func() {
			if err := srv.Start(); err != nil {
				log.WithError(err).Error("admin api failed")
				stop()
			}
		}()
	}

	bridge := capture.NewBridge(eng, rx, tx, capture.Options{
		NetworkInterface: cfg.Capture.Interface,
		SnapLen:          cfg.Capture.SnapLen,
		BufferSize:       cfg.Capture.BufferSize,
		TimeoutMS:        cfg.Capture.TimeoutMS,
		Filter:           cfg.Capture.Filter,
		FanoutID:         cfg.Capture.FanoutID,
	})

	runErr := bridge.Run(ctx)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("admin api shutdown incomplete")
		}
	}

	record := rx.Snapshot()
	log.WithFields(log.Fields{
		"packets_total":   record.PacketsTotal,
		"packets_passed":  record.PacketsPassed,
		"packets_dropped": record.PacketsDropped,
	}).Info("fastpath stopped")

	return runErr
}
