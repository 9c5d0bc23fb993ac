package pin

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/avelement/buffer"
	"github.com/xaionaro-go/avelement/logger"
	"github.com/xaionaro-go/avelement/types"
	"github.com/xaionaro-go/xsync"
)

type InPin struct {
	common

	locker xsync.Mutex
	source *OutPin

	filled    queue[buffer.Buffer]
	processed queue[buffer.Buffer]
}

// NewInPin creates an input pin owned by the given element. The waker (may
// be nil) is called whenever a buffer arrives.
func NewInPin(
	owner types.ElementID,
	info Info,
	wake Waker,
) *InPin {
	return &InPin{
		common: common{
			owner: owner,
			info:  info,
			wake:  wake,
		},
	}
}

func (p *InPin) String() string {
	return fmt.Sprintf("%s:in(%s)", p.owner, p.info.Category())
}

func (p *InPin) Direction() Direction {
	return DirectionInput
}

// Source returns the connected output pin or nil.
func (p *InPin) Source(ctx context.Context) *OutPin {
	return xsync.DoR1(xsync.WithNoLogging(ctx, true), &p.locker, func() *OutPin {
		return p.source
	})
}

func (p *InPin) IsConnected(ctx context.Context) bool {
	return p.Source(ctx) != nil
}

// TryGetFilledBuffer pops the oldest buffer sent to this pin. The caller
// becomes its owner until it is passed to PushProcessedBuffer.
func (p *InPin) TryGetFilledBuffer(ctx context.Context) (buffer.Buffer, bool) {
	b, ok := p.filled.TryPop(ctx)
	if !ok {
		return nil, false
	}
	p.counters.Received.Increment(sizeOf(b))
	return b, true
}

// FilledCount returns the amount of buffers waiting to be consumed.
func (p *InPin) FilledCount(ctx context.Context) int {
	return p.filled.Len(ctx)
}

// PushProcessedBuffer marks the buffer as consumed. It is handed back to
// the producer on the next ReturnProcessedBuffers.
func (p *InPin) PushProcessedBuffer(ctx context.Context, b buffer.Buffer) {
	p.counters.Processed.Increment(sizeOf(b))
	p.processed.Push(ctx, b)
}

// ProcessedCount returns the amount of processed buffers not yet handed
// back to the producer.
func (p *InPin) ProcessedCount(ctx context.Context) int {
	return p.processed.Len(ctx)
}

// ReturnProcessedBuffers hands all the processed buffers back to the
// producer in the order they were processed. If the pin is not connected
// the buffers stay queued until it is.
func (p *InPin) ReturnProcessedBuffers(ctx context.Context) {
	source := p.Source(ctx)
	if source == nil {
		if count := p.processed.Len(ctx); count > 0 {
			logger.Warnf(ctx, "%s: not connected, keeping %d processed buffers", p, count)
		}
		return
	}
	items := p.processed.PopAll(ctx)
	if len(items) == 0 {
		return
	}
	for _, b := range items {
		p.counters.Returned.Increment(sizeOf(b))
	}
	logger.Tracef(ctx, "%s: returning %d buffers to %s", p, len(items), source)
	source.available.Push(ctx, items...)
	source.notify(ctx)
}

func (p *InPin) deliver(ctx context.Context, b buffer.Buffer) {
	p.filled.Push(ctx, b)
	p.notify(ctx)
}
