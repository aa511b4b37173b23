package capture

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/afpacket"

	"firestige.xyz/fastpath/internal/utils"
)

// afpacketHandle is the AF_PACKET (TPacket v3) implementation of Handle.
type afpacketHandle struct {
	tpacket *afpacket.TPacket
	options *Options
}

// NewAFPacketHandle creates an unopened AF_PACKET handle.
func NewAFPacketHandle() Handle {
	return &afpacketHandle{}
}

func (h *afpacketHandle) Open(options *Options) error {
	if options == nil {
		return fmt.Errorf("capture options required")
	}
	h.options = options

	iface, err := net.InterfaceByName(options.NetworkInterface)
	if err != nil {
		return fmt.Errorf("failed to get interface %s: %w", options.NetworkInterface, err)
	}

	frameSize, blockSize, numBlocks, err := computeFrameSizeAndBlocks(options)
	if err != nil {
		return fmt.Errorf("failed to compute frame size and blocks: %w", err)
	}

	tpacket, err := afpacket.NewTPacket(
		afpacket.OptInterface(iface.Name),
		afpacket.OptFrameSize(frameSize),
		afpacket.OptBlockSize(blockSize),
		afpacket.OptNumBlocks(numBlocks),
		afpacket.OptPollTimeout(time.Duration(options.TimeoutMS)*time.Millisecond),
		afpacket.SocketRaw,
		afpacket.TPacketVersion3,
	)
	if err != nil {
		return fmt.Errorf("failed to create TPacket: %w", err)
	}
	h.tpacket = tpacket

	// All workers join one fanout group so the kernel spreads flows
	// across them with per-flow stickiness.
	if options.FanoutID > 0 {
		if err := tpacket.SetFanout(afpacket.FanoutHashWithDefrag, options.FanoutID); err != nil {
			return fmt.Errorf("failed to set fanout: %w", err)
		}
	}

	if options.Filter != "" {
		rawBpf, err := utils.CompileBpf(options.Filter, options.SnapLen)
		if err != nil {
			return fmt.Errorf("failed to compile BPF filter: %w", err)
		}
		if err := tpacket.SetBPF(rawBpf); err != nil {
			return fmt.Errorf("failed to set BPF filter: %w", err)
		}
	}

	return nil
}

func computeFrameSizeAndBlocks(options *Options) (frameSize int, blockSize int, numBlocks int, err error) {
	pageSize := os.Getpagesize()
	if options.SnapLen < pageSize {
		frameSize = pageSize / (pageSize / options.SnapLen)
	} else {
		frameSize = (options.SnapLen/pageSize + 1) * pageSize
	}
	blockSize = frameSize * 128
	numBlocks = options.BufferSize / blockSize

	if numBlocks < 1 {
		return 0, 0, 0, fmt.Errorf("buffer size too small for frame size %d", frameSize)
	}
	return frameSize, blockSize, numBlocks, nil
}

func (h *afpacketHandle) ZeroCopyReadPacket() ([]byte, gopacket.CaptureInfo, error) {
	if h.tpacket == nil {
		return nil, gopacket.CaptureInfo{}, fmt.Errorf("handle not opened")
	}
	return h.tpacket.ZeroCopyReadPacketData()
}

func (h *afpacketHandle) WritePacket(data []byte) error {
	if h.tpacket == nil {
		return fmt.Errorf("handle not opened")
	}
	return h.tpacket.WritePacketData(data)
}

func (h *afpacketHandle) Close() error {
	if h.tpacket != nil {
		h.tpacket.Close()
		h.tpacket = nil
	}
	return nil
}

func (h *afpacketHandle) InterfaceName() string {
	if h.options == nil {
		return ""
	}
	return h.options.NetworkInterface
}
