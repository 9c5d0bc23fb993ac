package pin

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/avelement/buffer"
	"github.com/xaionaro-go/avelement/logger"
	"github.com/xaionaro-go/avelement/types"
	"github.com/xaionaro-go/xsync"
)

type OutPin struct {
	common

	locker xsync.Mutex
	sink   *InPin

	available queue[buffer.Buffer]
}

// NewOutPin creates an output pin owned by the given element. The waker (may
// be nil) is called whenever the consumer returns buffers.
func NewOutPin(
	owner types.ElementID,
	info Info,
	wake Waker,
) *OutPin {
	return &OutPin{
		common: common{
			owner: owner,
			info:  info,
			wake:  wake,
		},
	}
}

func (p *OutPin) String() string {
	return fmt.Sprintf("%s:out(%s)", p.owner, p.info.Category())
}

func (p *OutPin) Direction() Direction {
	return DirectionOutput
}

// Sink returns the connected input pin or nil.
func (p *OutPin) Sink(ctx context.Context) *InPin {
	return xsync.DoR1(xsync.WithNoLogging(ctx, true), &p.locker, func() *InPin {
		return p.sink
	})
}

func (p *OutPin) IsConnected(ctx context.Context) bool {
	return p.Sink(ctx) != nil
}

// Connect links the pin to an input pin. Both must be unconnected.
func (p *OutPin) Connect(ctx context.Context, sink *InPin) (_err error) {
	logger.Debugf(ctx, "Connect(%s -> %s)", p, sink)
	defer func() { logger.Debugf(ctx, "/Connect(%s -> %s): %v", p, sink, _err) }()
	if sink == nil {
		return fmt.Errorf("the sink pin is nil")
	}
	return xsync.DoR1(ctx, &p.locker, func() error {
		return xsync.DoR1(ctx, &sink.locker, func() error {
			if p.sink != nil {
				return ErrAlreadyConnected{Pin: p}
			}
			if sink.source != nil {
				return ErrAlreadyConnected{Pin: sink}
			}
			p.sink = sink
			sink.source = p
			return nil
		})
	})
}

// Disconnect unlinks the pin from its sink, if any. Buffers already queued
// stay where they are.
func (p *OutPin) Disconnect(ctx context.Context) {
	logger.Debugf(ctx, "Disconnect(%s)", p)
	defer func() { logger.Debugf(ctx, "/Disconnect(%s)", p) }()
	p.locker.Do(ctx, func() {
		if p.sink == nil {
			return
		}
		sink := p.sink
		sink.locker.Do(ctx, func() {
			sink.source = nil
		})
		p.sink = nil
	})
}

// SendBuffer transfers the ownership of the buffer to the consumer.
func (p *OutPin) SendBuffer(ctx context.Context, b buffer.Buffer) error {
	if b == nil {
		return fmt.Errorf("the buffer is nil")
	}
	sink := p.Sink(ctx)
	if sink == nil {
		return ErrNotConnected{Pin: p}
	}
	p.counters.Sent.Increment(sizeOf(b))
	logger.Tracef(ctx, "%s: sending %s to %s", p, b, sink)
	sink.deliver(ctx, b)
	return nil
}

// TryGetAvailableBuffer pops the oldest buffer returned by the consumer.
func (p *OutPin) TryGetAvailableBuffer(ctx context.Context) (buffer.Buffer, bool) {
	b, ok := p.available.TryPop(ctx)
	if !ok {
		return nil, false
	}
	p.counters.Reclaimed.Increment(sizeOf(b))
	return b, true
}

// AvailableCount returns the amount of returned buffers not reclaimed yet.
func (p *OutPin) AvailableCount(ctx context.Context) int {
	return p.available.Len(ctx)
}
