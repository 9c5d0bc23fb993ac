package codec

import (
	"fmt"

	"github.com/xaionaro-go/avelement/types"
	"github.com/xaionaro-go/typing"
)

// Frame is a chunk of decoded audio. For planar formats Planes has one
// entry per channel of Layout, and each plane holds at least NbSamples
// samples; the bytes past them (alignment padding) are ignored.
type Frame struct {
	Format    types.PcmFormat
	Layout    ChannelLayout
	NbSamples int
	Planes    [][]byte

	// Pts is the timestamp assigned by the decoder, in the units of the
	// stream time base.
	Pts typing.Optional[int64]
}

func (f *Frame) Channels() int {
	return len(f.Layout)
}

func (f *Frame) String() string {
	return fmt.Sprintf("Frame(%s, %s, samples:%d)", f.Format, f.Layout, f.NbSamples)
}
