// Package pin implements the connection points of elements and the buffer
// exchange protocol between them.
//
// A connected OutPin/InPin pair moves buffers through three FIFO queues:
// filled (producer -> consumer), processed (consumer-local) and available
// (consumer -> producer). Every buffer passes through them exactly once
// per round-trip.
package pin

import (
	"context"

	"github.com/xaionaro-go/avelement/buffer"
	"github.com/xaionaro-go/avelement/types"
)

// Direction is the side of a connection a pin sits on.
type Direction int

const (
	DirectionUndefined = Direction(iota)
	DirectionInput
	DirectionOutput
)

func (d Direction) String() string {
	switch d {
	case DirectionInput:
		return "in"
	case DirectionOutput:
		return "out"
	default:
		return "undefined"
	}
}

// Waker is called when a pin gets new work for its owner.
type Waker func(ctx context.Context)

// Abstract is the part of the pin API common to both directions.
type Abstract interface {
	String() string
	Direction() Direction
	Owner() types.ElementID
	Info() Info
	IsConnected(ctx context.Context) bool
	GetStatistics() types.PinStatistics
}

var (
	_ Abstract = (*InPin)(nil)
	_ Abstract = (*OutPin)(nil)
)

type common struct {
	owner    types.ElementID
	info     Info
	wake     Waker
	counters types.PinCounters
}

func (p *common) Owner() types.ElementID {
	return p.owner
}

func (p *common) Info() Info {
	return p.info
}

func (p *common) GetStatistics() types.PinStatistics {
	return p.counters.ToStats()
}

func (p *common) notify(ctx context.Context) {
	if p == nil || p.wake == nil {
		return
	}
	p.wake(ctx)
}

func sizeOf(b buffer.Buffer) uint64 {
	size := b.Size()
	if size < 0 {
		return 0
	}
	return uint64(size)
}
