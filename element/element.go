// Package element defines the processing stages of a pipeline.
//
// An element owns its pins and does its work in DoWork, which a scheduler
// calls repeatedly. DoWork must not block: it processes whatever the pins
// have at the moment and returns.
package element

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/avelement/pin"
	"github.com/xaionaro-go/avelement/types"
)

type Abstract interface {
	fmt.Stringer

	GetID() types.ElementID

	// Initialize (re)creates the pins and resets the element's state.
	Initialize(ctx context.Context) error

	// DoWork processes the buffers currently available on the pins. A
	// returned error is fatal for the element.
	DoWork(ctx context.Context) error

	ChangeState(ctx context.Context, oldState, newState types.MediaState) error
	GetState() types.MediaState

	InputPins() []*pin.InPin
	OutputPins() []*pin.OutPin

	// WakeChan receives a signal whenever a pin of the element gets new work.
	WakeChan() <-chan struct{}

	Close(ctx context.Context) error
}
