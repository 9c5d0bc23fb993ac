package libav

import (
	"context"
	"errors"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"
	"github.com/xaionaro-go/avelement/codec"
	"github.com/xaionaro-go/avelement/logger"
	"github.com/xaionaro-go/typing"
	"github.com/xaionaro-go/xsync"
)

// Decoder is a libav audio decoder. Decode sends one packet per call; the
// frames of a packet that did not fit into one call are returned by the
// following calls before the next packet is sent.
type Decoder struct {
	locker       xsync.Mutex
	codecContext *astiav.CodecContext
	packet       *astiav.Packet
	frame        *astiav.Frame
	closer       *astikit.Closer
	hasPending   bool
	scratch      []byte
	output       codec.Frame
}

var _ codec.Decoder = (*Decoder)(nil)

func newDecoder(
	codecContext *astiav.CodecContext,
	closer *astikit.Closer,
) *Decoder {
	d := &Decoder{
		codecContext: codecContext,
		packet:       astiav.AllocPacket(),
		frame:        astiav.AllocFrame(),
		closer:       closer,
	}
	closer.Add(d.packet.Free)
	closer.Add(d.frame.Free)
	return d
}

func (d *Decoder) String() string {
	return fmt.Sprintf("LibAVDecoder(%s)", d.codecContext.CodecID())
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
	d.locker.Do(xsync.WithNoLogging(ctx, true), func() {
		consumed, frame, err = d.decodeLocked(ctx, pkt)
	})
	return consumed, frame, err
}

func (d *Decoder) decodeLocked(
	ctx context.Context,
	pkt codec.Packet,
) (int, *codec.Frame, error) {
	if d.closer == nil {
		return 0, nil, fmt.Errorf("the decoder is closed")
	}

	if d.hasPending {
		frame, err := d.receiveFrame(ctx)
		if err != nil {
			return 0, nil, err
		}
		if frame != nil {
			return 0, frame, nil
		}
	}

	if err := d.packet.FromData(pkt.Data); err != nil {
		return 0, nil, fmt.Errorf("unable to fill the packet: %w", err)
	}
	defer d.packet.Unref()
	d.packet.SetPts(pkt.Pts)
	if err := d.codecContext.SendPacket(d.packet); err != nil {
		return 0, nil, fmt.Errorf("unable to send the packet to the decoder: %w", err)
	}
	d.hasPending = true

	frame, err := d.receiveFrame(ctx)
	return len(pkt.Data), frame, err
}

// receiveFrame returns nil (without an error) when the decoder needs
// more data.
func (d *Decoder) receiveFrame(ctx context.Context) (*codec.Frame, error) {
	err := d.codecContext.ReceiveFrame(d.frame)
	switch {
	case err == nil:
	case errors.Is(err, astiav.ErrEagain), errors.Is(err, astiav.ErrEof):
		d.hasPending = false
		return nil, nil
	default:
		d.hasPending = false
		return nil, fmt.Errorf("unable to receive a frame: %w", err)
	}
	defer d.frame.Unref()
	if err := d.copyFrame(); err != nil {
		return nil, err
	}
	logger.Tracef(ctx, "decoded %s", &d.output)
	return &d.output, nil
}

func (d *Decoder) copyFrame() error {
	f := d.frame
	channels := f.ChannelLayout().Channels()
	if channels <= 0 || f.NbSamples() <= 0 {
		return fmt.Errorf("invalid frame: channels=%d nbSamples=%d", channels, f.NbSamples())
	}

	const align = 1
	bufSize, err := f.SamplesBufferSize(align)
	if err != nil {
		return fmt.Errorf("unable to get the samples buffer size: %w", err)
	}
	if cap(d.scratch) < bufSize {
		d.scratch = make([]byte, bufSize)
	}
	buf := d.scratch[:bufSize]
	if _, err := f.SamplesCopyToBuffer(buf, align); err != nil {
		return fmt.Errorf("unable to copy the samples: %w", err)
	}

	d.output.Format = PcmFormatFromAstiav(f.SampleFormat())
	d.output.Layout = layoutFromAstiav(f.ChannelLayout())
	d.output.NbSamples = f.NbSamples()
	d.output.Pts = typing.Optional[int64]{}
	if pts := f.Pts(); pts != astiav.NoPtsValue {
		d.output.Pts = typing.Opt(pts)
	}

	d.output.Planes = d.output.Planes[:0]
	if !f.SampleFormat().IsPlanar() {
		d.output.Planes = append(d.output.Planes, buf)
		return nil
	}
	stride := len(buf) / channels
	for ch := 0; ch < channels; ch++ {
		d.output.Planes = append(d.output.Planes, buf[ch*stride:(ch+1)*stride])
	}
	return nil
}

func (d *Decoder) Close(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "Close")
	defer func() { logger.Debugf(ctx, "/Close: %v", _err) }()
	return xsync.DoR1(ctx, &d.locker, func() error {
		if d.closer == nil {
			return nil
		}
		err := d.closer.Close()
		d.closer = nil
		return err
	})
}

func layoutFromAstiav(cl astiav.ChannelLayout) codec.ChannelLayout {
	channels := cl.Channels()
	layout, ok := codec.ParseChannelLayout(cl.String())
	if !ok || len(layout) != channels {
		return codec.DefaultLayout(channels)
	}
	return layout
}
