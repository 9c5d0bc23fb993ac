// Package scripted implements a deterministic decoder driven by a script.
//
// By default every call consumes the whole packet and yields one frame whose
// channel planes are filled with the channel index plus one. Per-packet
// scripts (selected by the packet pts) override that.
package scripted

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/avelement/codec"
	"github.com/xaionaro-go/avelement/logger"
	"github.com/xaionaro-go/avelement/types"
	"github.com/xaionaro-go/typing"
	"github.com/xaionaro-go/xsync"
)

// Step is the outcome of a single Decode call.
type Step struct {
	// Consume is the amount of bytes consumed; a negative value means
	// everything that is left.
	Consume int

	// Yield makes the call return a frame.
	Yield bool

	// Pts is the frame timestamp; if unset the frame has no timestamp.
	Pts typing.Optional[int64]

	Err error
}

type Config struct {
	Format    types.PcmFormat
	Layout    codec.ChannelLayout
	NbSamples int

	// PlanePadding is added to the length of every plane. The padding bytes
	// are filled with PaddingByte. A negative value makes the planes
	// shorter than NbSamples.
	PlanePadding int

	// SetPts makes default frames carry the packet pts.
	SetPts bool

	// Scripts are the steps to play per packet pts; once a script is
	// exhausted the default rule applies.
	Scripts map[int64][]Step
}

func DefaultConfig() Config {
	return Config{
		Format:    types.PcmFormatFloat32Planes,
		NbSamples: 1024,
	}
}

type Decoder struct {
	Config Config
	Params codec.Params

	locker   xsync.Mutex
	calls    []codec.Packet
	progress map[int64]int
	frame    codec.Frame
	closed   bool
}

var _ codec.Decoder = (*Decoder)(nil)

func NewDecoder(cfg Config, params codec.Params) *Decoder {
	if len(cfg.Layout) == 0 {
		cfg.Layout = codec.DefaultLayout(params.Channels)
	}
	return &Decoder{
		Config:   cfg,
		Params:   params,
		progress: map[int64]int{},
	}
}

func (d *Decoder) String() string {
	return fmt.Sprintf("Scripted(%s)", d.Params)
}

func (d *Decoder) Decode(
	ctx context.Context,
	pkt codec.Packet,
) (int, *codec.Frame, error) {
	var (
		consumed int
		frame    *codec.Frame
		err      error
	)
	d.locker.Do(ctx, func() {
		consumed, frame, err = d.decodeLocked(ctx, pkt)
	})
	return consumed, frame, err
}

func (d *Decoder) decodeLocked(
	ctx context.Context,
	pkt codec.Packet,
) (int, *codec.Frame, error) {
	if d.closed {
		return 0, nil, fmt.Errorf("the decoder is closed")
	}
	d.calls = append(d.calls, codec.Packet{
		Data: append([]byte(nil), pkt.Data...),
		Pts:  pkt.Pts,
	})

	step := Step{Consume: -1, Yield: true}
	if d.Config.SetPts {
		step.Pts = typing.Opt(pkt.Pts)
	}
	if script := d.Config.Scripts[pkt.Pts]; d.progress[pkt.Pts] < len(script) {
		step = script[d.progress[pkt.Pts]]
		d.progress[pkt.Pts]++
	}
	logger.Tracef(ctx, "%s: pts:%d len:%d step:%#+v", d, pkt.Pts, len(pkt.Data), step)

	consumed := step.Consume
	if consumed < 0 || consumed > len(pkt.Data) {
		consumed = len(pkt.Data)
	}
	if step.Err != nil {
		return consumed, nil, step.Err
	}
	if !step.Yield {
		return consumed, nil, nil
	}
	d.fillFrame(step.Pts)
	return consumed, &d.frame, nil
}

// PaddingByte fills the bytes past the samples of a plane.
const PaddingByte = 0xee

func (d *Decoder) fillFrame(pts typing.Optional[int64]) {
	dataSize := d.Config.NbSamples * d.Config.Format.BytesPerSample()
	planeSize := max(dataSize+d.Config.PlanePadding, 0)
	d.frame.Format = d.Config.Format
	d.frame.Layout = d.Config.Layout
	d.frame.NbSamples = d.Config.NbSamples
	d.frame.Pts = pts
	if len(d.frame.Planes) != len(d.Config.Layout) {
		d.frame.Planes = make([][]byte, len(d.Config.Layout))
	}
	for idx := range d.frame.Planes {
		if cap(d.frame.Planes[idx]) < planeSize {
			d.frame.Planes[idx] = make([]byte, planeSize)
		}
		d.frame.Planes[idx] = d.frame.Planes[idx][:planeSize]
		for i := range d.frame.Planes[idx] {
			if i < dataSize {
				d.frame.Planes[idx][i] = byte(idx + 1)
			} else {
				d.frame.Planes[idx][i] = PaddingByte
			}
		}
	}
}

// Calls returns copies of the packets passed to Decode, one per call.
func (d *Decoder) Calls(ctx context.Context) []codec.Packet {
	return xsync.DoR1(ctx, &d.locker, func() []codec.Packet {
		return append([]codec.Packet(nil), d.calls...)
	})
}

func (d *Decoder) IsClosed(ctx context.Context) bool {
	return xsync.DoR1(ctx, &d.locker, func() bool {
		return d.closed
	})
}

func (d *Decoder) Close(ctx context.Context) error {
	d.locker.Do(ctx, func() {
		d.closed = true
	})
	return nil
}
