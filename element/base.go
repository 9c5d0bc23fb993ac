package element

import (
	"context"
	"fmt"

	"github.com/go-ng/xatomic"
	"github.com/xaionaro-go/avelement/buffer"
	"github.com/xaionaro-go/avelement/logger"
	"github.com/xaionaro-go/avelement/pin"
	"github.com/xaionaro-go/avelement/types"
	"github.com/xaionaro-go/xsync"
)

// Base implements the pin bookkeeping and the state machine shared by all
// elements. It is supposed to be embedded.
type Base struct {
	ID   types.ElementID
	Name string

	Locker     xsync.Mutex
	state      *types.MediaState
	inputPins  []*pin.InPin
	outputPins []*pin.OutPin

	wakeChan        chan struct{}
	ChangeChanState *chan struct{}

	// ReleaseFunc, if set, receives the returned output buffers dropped
	// when the element is stopped.
	ReleaseFunc func(ctx context.Context, b buffer.Buffer)
}

func NewBase(name string) *Base {
	b := &Base{
		ID:              types.NewElementID(),
		Name:            name,
		wakeChan:        make(chan struct{}, 1),
		ChangeChanState: ptr(make(chan struct{})),
		state:           ptr(types.MediaStateStopped),
	}
	return b
}

func (b *Base) GetID() types.ElementID {
	return b.ID
}

func (b *Base) String() string {
	return fmt.Sprintf("%s%s", b.Name, b.ID)
}

func (b *Base) GetState() types.MediaState {
	return *xatomic.LoadPointer(&b.state)
}

// GetChangeChanState returns a channel closed on the next state change.
func (b *Base) GetChangeChanState() <-chan struct{} {
	return *xatomic.LoadPointer(&b.ChangeChanState)
}

func (b *Base) WakeChan() <-chan struct{} {
	return b.wakeChan
}

// Wake signals the scheduler that the element has work. Signals coalesce.
func (b *Base) Wake(ctx context.Context) {
	select {
	case b.wakeChan <- struct{}{}:
	default:
	}
}

func (b *Base) InputPins() []*pin.InPin {
	ctx := context.TODO()
	return xsync.DoR1(xsync.WithNoLogging(ctx, true), &b.Locker, func() []*pin.InPin {
		return append([]*pin.InPin(nil), b.inputPins...)
	})
}

func (b *Base) OutputPins() []*pin.OutPin {
	ctx := context.TODO()
	return xsync.DoR1(xsync.WithNoLogging(ctx, true), &b.Locker, func() []*pin.OutPin {
		return append([]*pin.OutPin(nil), b.outputPins...)
	})
}

// NewInPin creates an input pin that wakes this element on new buffers.
func (b *Base) NewInPin(info pin.Info) *pin.InPin {
	return pin.NewInPin(b.ID, info, b.Wake)
}

// NewOutPin creates an output pin that wakes this element on returned buffers.
func (b *Base) NewOutPin(info pin.Info) *pin.OutPin {
	return pin.NewOutPin(b.ID, info, b.Wake)
}

func (b *Base) AddInputPin(ctx context.Context, p *pin.InPin) {
	b.Locker.Do(ctx, func() {
		b.inputPins = append(b.inputPins, p)
	})
}

func (b *Base) AddOutputPin(ctx context.Context, p *pin.OutPin) {
	b.Locker.Do(ctx, func() {
		b.outputPins = append(b.outputPins, p)
	})
}

// ClearInputPins hands the pending input buffers back to their producers,
// then disconnects and forgets all the input pins.
func (b *Base) ClearInputPins(ctx context.Context) {
	b.Locker.Do(ctx, func() {
		for _, p := range b.inputPins {
			b.flushInputLocked(ctx, p)
			if source := p.Source(ctx); source != nil {
				source.Disconnect(ctx)
			}
		}
		b.inputPins = nil
	})
}

// ClearOutputPins drops the buffers returned to the output pins, then
// disconnects and forgets all of them.
func (b *Base) ClearOutputPins(ctx context.Context) {
	b.Locker.Do(ctx, func() {
		for _, p := range b.outputPins {
			b.flushOutputLocked(ctx, p)
			p.Disconnect(ctx)
		}
		b.outputPins = nil
	})
}

// ChangeState moves the element from oldState to newState.
//
// Entering Running requires all the pins to be connected. Entering Stopped
// hands all the pending input buffers back to their producers and drops the
// buffers returned to the output pins.
func (b *Base) ChangeState(
	ctx context.Context,
	oldState, newState types.MediaState,
) (_err error) {
	logger.Debugf(ctx, "ChangeState(%s: %s -> %s)", b, oldState, newState)
	defer func() { logger.Debugf(ctx, "/ChangeState(%s: %s -> %s): %v", b, oldState, newState, _err) }()
	return xsync.DoR1(ctx, &b.Locker, func() error {
		if cur := *xatomic.LoadPointer(&b.state); cur != oldState {
			return ErrInvalidState{Expected: oldState, Actual: cur}
		}
		if err := ValidateTransition(oldState, newState); err != nil {
			return err
		}
		switch newState {
		case types.MediaStateRunning:
			if err := b.checkConnectedLocked(ctx); err != nil {
				return err
			}
		case types.MediaStateStopped:
			b.flushLocked(ctx)
		}
		if oldState == newState {
			return nil
		}
		xatomic.StorePointer(&b.state, ptr(newState))
		close(*xatomic.SwapPointer(&b.ChangeChanState, ptr(make(chan struct{}))))
		return nil
	})
}

func (b *Base) checkConnectedLocked(ctx context.Context) error {
	for _, p := range b.inputPins {
		if !p.IsConnected(ctx) {
			return ErrNotConnected{Pin: p}
		}
	}
	for _, p := range b.outputPins {
		if !p.IsConnected(ctx) {
			return ErrNotConnected{Pin: p}
		}
	}
	return nil
}

func (b *Base) flushLocked(ctx context.Context) {
	for _, p := range b.inputPins {
		b.flushInputLocked(ctx, p)
	}
	for _, p := range b.outputPins {
		b.flushOutputLocked(ctx, p)
	}
}

func (b *Base) flushInputLocked(ctx context.Context, p *pin.InPin) {
	count := 0
	for {
		buf, ok := p.TryGetFilledBuffer(ctx)
		if !ok {
			break
		}
		p.PushProcessedBuffer(ctx, buf)
		count++
	}
	p.ReturnProcessedBuffers(ctx)
	if count > 0 {
		logger.Debugf(ctx, "%s: flushed %d buffers back to the producer", p, count)
	}
}

func (b *Base) flushOutputLocked(ctx context.Context, p *pin.OutPin) {
	count := 0
	for {
		buf, ok := p.TryGetAvailableBuffer(ctx)
		if !ok {
			break
		}
		if b.ReleaseFunc != nil {
			b.ReleaseFunc(ctx, buf)
		}
		count++
	}
	if count > 0 {
		logger.Debugf(ctx, "%s: dropped %d returned buffers", p, count)
	}
}
