// Package packetsource implements an element producing encoded packets
// from a Reader.
package packetsource

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/facebookincubator/go-belt"
	"github.com/xaionaro-go/avelement/buffer"
	"github.com/xaionaro-go/avelement/element"
	"github.com/xaionaro-go/avelement/logger"
	"github.com/xaionaro-go/avelement/pin"
	"github.com/xaionaro-go/avelement/pool"
	"github.com/xaionaro-go/avelement/types"
	"github.com/xaionaro-go/xsync"
)

// PacketSource emits the packets of its Reader. It never has more packets
// in flight than the pool size; returned packets are recycled.
type PacketSource struct {
	*element.Base
	Reader     Reader
	OutputInfo pin.Info
	Config     config

	locker  xsync.Mutex
	output  *pin.OutPin
	pool    *pool.Pool[buffer.Packet]
	isEOF   bool
	lastPts int64
}

var _ element.Abstract = (*PacketSource)(nil)

func New(
	reader Reader,
	outputInfo pin.Info,
	opts ...Option,
) *PacketSource {
	cfg := defaultConfig
	if tb, ok := reader.(TimeBaser); ok {
		cfg.TimeBase = tb.TimeBase()
	}
	Options(opts).apply(&cfg)
	s := &PacketSource{
		Base:       element.NewBase("PacketSource"),
		Reader:     reader,
		OutputInfo: outputInfo,
		Config:     cfg,
	}
	s.ReleaseFunc = s.release
	return s
}

func (s *PacketSource) release(ctx context.Context, b buffer.Buffer) {
	pkt, ok := b.(*buffer.Packet)
	if !ok || pkt.GetOwner() != s.GetID() {
		logger.Errorf(ctx, "received a foreign buffer %s", b)
		return
	}
	s.pool.Put(pkt)
}

func (s *PacketSource) Initialize(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "Initialize")
	defer func() { logger.Debugf(ctx, "/Initialize: %v", _err) }()
	if s.Config.PoolSize == 0 {
		return fmt.Errorf("the pool size must be positive")
	}
	s.locker.Do(ctx, func() {
		s.ClearOutputPins(ctx)
		owner := s.GetID()
		s.pool = pool.NewPool(
			s.Config.PoolSize,
			func() *buffer.Packet { return buffer.NewPacket(owner) },
			(*buffer.Packet).Reset,
		)
		s.output = s.NewOutPin(s.OutputInfo)
		s.AddOutputPin(ctx, s.output)
		s.isEOF = false
		s.lastPts = 0
	})
	return nil
}

// IsEOF returns true once the Reader reported the end of the stream.
func (s *PacketSource) IsEOF(ctx context.Context) bool {
	return xsync.DoR1(ctx, &s.locker, func() bool {
		return s.isEOF
	})
}

// InFlight returns the amount of packets sent and not returned yet.
func (s *PacketSource) InFlight(ctx context.Context) uint {
	return xsync.DoR1(ctx, &s.locker, func() uint {
		if s.pool == nil {
			return 0
		}
		return s.pool.InUse()
	})
}

func (s *PacketSource) DoWork(ctx context.Context) (_err error) {
	ctx = belt.WithField(ctx, "element", s.String())
	logger.Tracef(ctx, "DoWork")
	defer func() { logger.Tracef(ctx, "/DoWork: %v", _err) }()
	return xsync.DoA1R1(ctx, &s.locker, s.doWorkLocked, ctx)
}

func (s *PacketSource) doWorkLocked(ctx context.Context) error {
	if s.output == nil {
		return fmt.Errorf("the element is not initialized")
	}
	for {
		b, ok := s.output.TryGetAvailableBuffer(ctx)
		if !ok {
			break
		}
		s.release(ctx, b)
	}

	for !s.isEOF {
		pkt, ok := s.pool.Get()
		if !ok {
			return nil
		}
		res, err := s.Reader.ReadPacket(ctx)
		switch {
		case errors.Is(err, io.EOF):
			logger.Debugf(ctx, "end of stream")
			s.isEOF = true
			s.pool.Put(pkt)
			return nil
		case err != nil:
			s.pool.Put(pkt)
			return fmt.Errorf("unable to read a packet: %w", err)
		}
		pkt.SetData(res.Data)
		if res.Pts.IsSet() {
			s.lastPts = res.Pts.Get()
		}
		pkt.Pts = s.lastPts
		pkt.TimeBase = s.Config.TimeBase
		pkt.SetTimeStamp(pkt.TimeBase.Seconds(pkt.Pts))
		if err := s.output.SendBuffer(ctx, pkt); err != nil {
			s.pool.Put(pkt)
			return err
		}
	}
	return nil
}

func (s *PacketSource) Close(ctx context.Context) error {
	s.ClearOutputPins(ctx)
	if closer, ok := s.Reader.(types.Closer); ok {
		return closer.Close(ctx)
	}
	return nil
}
