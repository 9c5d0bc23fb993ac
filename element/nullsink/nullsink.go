// Package nullsink implements a terminal element that consumes and
// immediately releases everything it receives.
package nullsink

import (
	"context"

	"github.com/xaionaro-go/avelement/buffer"
	"github.com/xaionaro-go/avelement/element"
	"github.com/xaionaro-go/avelement/pin"
	"github.com/xaionaro-go/avelement/types"
)

// Observer is called for every received buffer before it is released.
// The buffer must not be retained after the call.
type Observer func(ctx context.Context, b buffer.Buffer)

type NullSink struct {
	*element.Base
	Observer Observer
}

var _ element.Abstract = (*NullSink)(nil)

func New(observer Observer) *NullSink {
	return &NullSink{
		Base:     element.NewBase("NullSink"),
		Observer: observer,
	}
}

func (s *NullSink) Initialize(ctx context.Context) error {
	s.ClearInputPins(ctx)
	s.AddInputPin(ctx, s.NewInPin(pin.NewInfo(types.MediaCategoryUnknown)))
	return nil
}

func (s *NullSink) DoWork(ctx context.Context) error {
	for _, in := range s.InputPins() {
		for {
			b, ok := in.TryGetFilledBuffer(ctx)
			if !ok {
				break
			}
			if s.Observer != nil {
				s.Observer(ctx, b)
			}
			in.PushProcessedBuffer(ctx, b)
		}
		in.ReturnProcessedBuffers(ctx)
	}
	return nil
}

func (s *NullSink) Close(ctx context.Context) error {
	s.ClearInputPins(ctx)
	return nil
}
