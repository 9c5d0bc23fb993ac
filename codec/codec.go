// Package codec defines the boundary between elements and the decoding
// capabilities they rely on.
package codec

import (
	"fmt"

	"github.com/xaionaro-go/avelement/types"
)

// Params are the stream parameters known before the first packet is decoded.
type Params struct {
	StreamType types.AudioStreamType
	SampleRate int
	Channels   int

	// TargetChannels is the amount of channels the consumer prefers the
	// decoder to produce. The decoder may ignore it.
	TargetChannels int
}

func (p Params) String() string {
	return fmt.Sprintf("%s:%dHz:%dch", p.StreamType, p.SampleRate, p.Channels)
}

// Packet is a chunk of encoded data.
type Packet struct {
	Data []byte
	Pts  int64
}
