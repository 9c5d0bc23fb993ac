package libav

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"
	"github.com/xaionaro-go/avelement/element/packetsource"
	"github.com/xaionaro-go/avelement/logger"
	"github.com/xaionaro-go/avelement/pin"
	"github.com/xaionaro-go/avelement/types"
	"github.com/xaionaro-go/typing"
	"github.com/xaionaro-go/xsync"
)

// Demuxer reads the packets of the first audio stream of an input.
type Demuxer struct {
	URL string

	locker        xsync.Mutex
	formatContext *astiav.FormatContext
	packet        *astiav.Packet
	streamIndex   int
	params        pin.AudioParams
	timeBase      types.Rational
	extraData     []byte
	closer        *astikit.Closer
	data          []byte
}

var (
	_ packetsource.Reader    = (*Demuxer)(nil)
	_ packetsource.TimeBaser = (*Demuxer)(nil)
)

func OpenDemuxer(
	ctx context.Context,
	url string,
) (_ret *Demuxer, _err error) {
	logger.Debugf(ctx, "OpenDemuxer(%s)", url)
	defer func() { logger.Debugf(ctx, "/OpenDemuxer(%s): %v", url, _err) }()
	if url == "" {
		return nil, fmt.Errorf("the provided URL is empty")
	}

	d := &Demuxer{
		URL:    url,
		closer: astikit.NewCloser(),
	}
	success := false
	defer func() {
		if !success {
			d.closer.Close()
		}
	}()

	d.formatContext = astiav.AllocFormatContext()
	if d.formatContext == nil {
		return nil, fmt.Errorf("unable to allocate a format context")
	}
	d.closer.Add(d.formatContext.Free)

	if err := d.formatContext.OpenInput(url, nil, nil); err != nil {
		return nil, fmt.Errorf("unable to open '%s': %w", url, err)
	}
	d.closer.Add(d.formatContext.CloseInput)

	if err := d.formatContext.FindStreamInfo(nil); err != nil {
		return nil, fmt.Errorf("unable to find the stream info: %w", err)
	}

	var stream *astiav.Stream
	for _, s := range d.formatContext.Streams() {
		if s.CodecParameters().MediaType() == astiav.MediaTypeAudio {
			stream = s
			break
		}
	}
	if stream == nil {
		return nil, fmt.Errorf("no audio streams found in '%s'", url)
	}
	cp := stream.CodecParameters()
	d.streamIndex = stream.Index()
	d.params = pin.AudioParams{
		StreamType: StreamTypeFromCodecID(cp.CodecID()),
		SampleRate: cp.SampleRate(),
		Channels:   cp.ChannelLayout().Channels(),
	}
	d.extraData = append([]byte(nil), cp.ExtraData()...)
	d.timeBase = types.Rational{
		Num: stream.TimeBase().Num(),
		Den: stream.TimeBase().Den(),
	}
	logger.Debugf(ctx, "using stream #%d: %s (codec %s), time base %s", d.streamIndex, d.params, cp.CodecID(), d.timeBase)

	d.packet = astiav.AllocPacket()
	d.closer.Add(d.packet.Free)

	success = true
	return d, nil
}

// AudioParams returns the parameters of the selected stream.
func (d *Demuxer) AudioParams() pin.AudioParams {
	return d.params
}

// ExtraData returns a copy of the codec-specific global header of the
// selected stream, to be passed to DecoderFactory.ExtraData.
func (d *Demuxer) ExtraData() []byte {
	return d.extraData
}

func (d *Demuxer) TimeBase() types.Rational {
	return d.timeBase
}

func (d *Demuxer) ReadPacket(ctx context.Context) (packetsource.ReadResult, error) {
	var (
		result packetsource.ReadResult
		err    error
	)
	d.locker.Do(xsync.WithNoLogging(ctx, true), func() {
		result, err = d.readPacketLocked(ctx)
	})
	return result, err
}

func (d *Demuxer) readPacketLocked(ctx context.Context) (packetsource.ReadResult, error) {
	if d.formatContext == nil {
		return packetsource.ReadResult{}, fmt.Errorf("the demuxer is closed")
	}
	for {
		err := d.formatContext.ReadFrame(d.packet)
		switch {
		case err == nil:
		case errors.Is(err, astiav.ErrEof), errors.Is(err, astiav.ErrEio):
			return packetsource.ReadResult{}, io.EOF
		default:
			return packetsource.ReadResult{}, fmt.Errorf("unable to read a frame: %w", err)
		}
		if d.packet.StreamIndex() != d.streamIndex {
			d.packet.Unref()
			continue
		}
		d.data = append(d.data[:0], d.packet.Data()...)
		result := packetsource.ReadResult{Data: d.data}
		if pts := d.packet.Pts(); pts != astiav.NoPtsValue {
			result.Pts = typing.Opt(pts)
		}
		d.packet.Unref()
		logger.Tracef(ctx, "read a packet: size:%d pts:%v", len(result.Data), result.Pts)
		return result, nil
	}
}

func (d *Demuxer) Close(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "Close")
	defer func() { logger.Debugf(ctx, "/Close: %v", _err) }()
	return xsync.DoR1(ctx, &d.locker, func() error {
		if d.formatContext == nil {
			return nil
		}
		d.formatContext = nil
		return d.closer.Close()
	})
}
