package capture

import (
	"context"
	"errors"
	"sync"

	"github.com/google/gopacket/afpacket"
	log "github.com/sirupsen/logrus"

	"firestige.xyz/fastpath/internal/core"
	"firestige.xyz/fastpath/internal/engine"
	"firestige.xyz/fastpath/internal/stats"
)

// Bridge runs one capture worker per execution unit. Each worker owns
// its own handle, its own receive-side counter unit, and its own
// transmit-side counter unit; nothing on the per-packet path is shared
// for writing between workers.
type Bridge struct {
	engine    *engine.Engine
	rx        *stats.Set
	tx        *stats.Set
	options   Options
	newHandle func() Handle

	wg sync.WaitGroup
}

// NewBridge builds a bridge over AF_PACKET handles.
func NewBridge(eng *engine.Engine, rx, tx *stats.Set, options Options) *Bridge {
	return &Bridge{
		engine:    eng,
		rx:        rx,
		tx:        tx,
		options:   options,
		newHandle: NewAFPacketHandle,
	}
}

// Run starts the workers and blocks until the context is cancelled and
// every worker has drained.
func (b *Bridge) Run(ctx context.Context) error {
	workers := b.rx.Workers()
	handles := make([]Handle, 0, workers)

	for i := 0; i < workers; i++ {
		h := b.newHandle()
		if err := h.Open(&b.options); err != nil {
			for _, prev := range handles {
				prev.Close()
			}
			return err
		}
		handles = append(handles, h)
	}

	log.WithFields(log.Fields{
		"interface": b.options.NetworkInterface,
		"workers":   workers,
		"fanout":    b.options.FanoutID,
	}).Info("capture bridge started")

	for i, h := range handles {
		b.wg.Add(1)
		go b.worker(ctx, i, h)
	}

	<-ctx.Done()
	for _, h := range handles {
		h.Close()
	}
	b.wg.Wait()
	return nil
}

// worker is one execution unit: read a frame, run the receive hook,
// apply the verdict, and on pass run the transmit hook. The zero-copy
// frame slice stays valid until the next read, so a reflect write
// happens before the loop advances.
func (b *Bridge) worker(ctx context.Context, id int, h Handle) {
	defer b.wg.Done()

	rxUnit := b.rx.Unit(id)
	txUnit := b.tx.Unit(id)

	for {
		if ctx.Err() != nil {
			return
		}

		data, ci, err := h.ZeroCopyReadPacket()
		if err != nil {
			if errors.Is(err, afpacket.ErrTimeout) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			log.WithError(err).WithField("worker", id).Debug("read failed")
			continue
		}

		raw := core.RawPacket{
			Data:           data,
			Timestamp:      ci.Timestamp,
			CaptureLen:     uint32(ci.CaptureLength),
			OrigLen:        uint32(ci.Length),
			InterfaceIndex: ci.InterfaceIndex,
		}

		switch b.engine.Receive(rxUnit, raw) {
		case core.VerdictDrop:
			continue
		case core.VerdictReflect:
			if err := h.WritePacket(data); err != nil {
				log.WithError(err).WithField("worker", id).Debug("reflect write failed")
			}
			continue
		}

		// Packet passed the receive hook; observe it on the transmit
		// side. The transmit hook verdict is always pass.
		b.engine.Transmit(txUnit, raw)
	}
}
