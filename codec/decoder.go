package codec

import (
	"context"
	"fmt"
)

type Decoder interface {
	fmt.Stringer

	// Decode consumes a prefix of the packet data and returns how many bytes
	// were consumed, and a frame if one is ready. The frame is valid until
	// the next call. A returned error is recoverable: the rest of the packet
	// may be discarded and decoding may continue with the next packet.
	Decode(ctx context.Context, pkt Packet) (int, *Frame, error)

	Close(ctx context.Context) error
}

type DecoderFactory interface {
	fmt.Stringer

	NewDecoder(ctx context.Context, params Params) (Decoder, error)
}

// DecoderFactoryFunc adapts a function into a DecoderFactory.
type DecoderFactoryFunc func(ctx context.Context, params Params) (Decoder, error)

var _ DecoderFactory = DecoderFactoryFunc(nil)

func (fn DecoderFactoryFunc) NewDecoder(ctx context.Context, params Params) (Decoder, error) {
	return fn(ctx, params)
}

func (fn DecoderFactoryFunc) String() string {
	return "DecoderFactoryFunc"
}
