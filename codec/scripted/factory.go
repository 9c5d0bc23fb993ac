package scripted

import (
	"context"

	"github.com/xaionaro-go/avelement/codec"
	"github.com/xaionaro-go/avelement/logger"
	"github.com/xaionaro-go/xsync"
)

type Factory struct {
	Config Config

	// Err, if set, is returned instead of a decoder.
	Err error

	locker   xsync.Mutex
	decoders []*Decoder
}

var _ codec.DecoderFactory = (*Factory)(nil)

func NewFactory(cfg Config) *Factory {
	return &Factory{Config: cfg}
}

func (f *Factory) String() string {
	return "ScriptedDecoderFactory"
}

func (f *Factory) NewDecoder(
	ctx context.Context,
	params codec.Params,
) (_ret codec.Decoder, _err error) {
	logger.Debugf(ctx, "NewDecoder(%s)", params)
	defer func() { logger.Debugf(ctx, "/NewDecoder(%s): %v", params, _err) }()
	if f.Err != nil {
		return nil, f.Err
	}
	d := NewDecoder(f.Config, params)
	f.locker.Do(ctx, func() {
		f.decoders = append(f.decoders, d)
	})
	return d, nil
}

// Decoders returns all the decoders created so far.
func (f *Factory) Decoders(ctx context.Context) []*Decoder {
	return xsync.DoR1(ctx, &f.locker, func() []*Decoder {
		return append([]*Decoder(nil), f.decoders...)
	})
}
