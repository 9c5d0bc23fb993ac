// Package audiocodec implements an element decoding an encoded audio stream
// into planar PCM with a fixed left/right(/center) channel layout.
package audiocodec

import (
	"context"
	"errors"
	"fmt"

	"github.com/facebookincubator/go-belt"
	"github.com/xaionaro-go/avelement/buffer"
	"github.com/xaionaro-go/avelement/codec"
	"github.com/xaionaro-go/avelement/element"
	"github.com/xaionaro-go/avelement/internal"
	"github.com/xaionaro-go/avelement/logger"
	"github.com/xaionaro-go/avelement/pin"
	"github.com/xaionaro-go/avelement/types"
	"github.com/xaionaro-go/xsync"
)

type AudioCodec struct {
	*element.Base
	Factory codec.DecoderFactory
	Config  config

	locker      xsync.Mutex
	input       *pin.InPin
	output      *pin.OutPin
	outputInfo  *pin.AudioInfo
	inputParams pin.AudioParams
	negotiated  bool
	decoder     codec.Decoder
	spare       []*buffer.PcmData
	counters    counters
}

var _ element.Abstract = (*AudioCodec)(nil)

func New(
	factory codec.DecoderFactory,
	opts ...Option,
) *AudioCodec {
	return &AudioCodec{
		Base:    element.NewBase("AudioCodec"),
		Factory: factory,
		Config:  Options(opts).config(),
	}
}

// Initialize recreates the pins and forgets the negotiated format.
func (c *AudioCodec) Initialize(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "Initialize")
	defer func() { logger.Debugf(ctx, "/Initialize: %v", _err) }()
	return xsync.DoA1R1(ctx, &c.locker, c.initializeLocked, ctx)
}

func (c *AudioCodec) initializeLocked(ctx context.Context) error {
	if err := c.closeDecoderLocked(ctx); err != nil {
		logger.Warnf(ctx, "unable to close the previous decoder: %v", err)
	}
	c.negotiated = false
	c.inputParams = pin.AudioParams{}
	c.spare = nil

	c.ClearInputPins(ctx)
	c.ClearOutputPins(ctx)
	c.input = c.NewInPin(pin.NewAudioInfo(pin.AudioParams{}))
	c.outputInfo = pin.NewAudioInfo(pin.AudioParams{})
	c.output = c.NewOutPin(c.outputInfo)
	c.AddInputPin(ctx, c.input)
	c.AddOutputPin(ctx, c.output)
	return nil
}

// InputParams returns the parameters of the encoded stream, once known.
func (c *AudioCodec) InputParams(ctx context.Context) (pin.AudioParams, bool) {
	var (
		params pin.AudioParams
		ok     bool
	)
	c.locker.Do(ctx, func() {
		params, ok = c.inputParams, c.negotiated
	})
	return params, ok
}

func (c *AudioCodec) GetStatistics() Statistics {
	return c.counters.toStats()
}

func (c *AudioCodec) DoWork(ctx context.Context) (_err error) {
	ctx = belt.WithField(ctx, "element", c.String())
	logger.Tracef(ctx, "DoWork")
	defer func() { logger.Tracef(ctx, "/DoWork: %v", _err) }()
	return xsync.DoA1R1(ctx, &c.locker, c.doWorkLocked, ctx)
}

func (c *AudioCodec) doWorkLocked(ctx context.Context) error {
	if c.input == nil || c.output == nil {
		return fmt.Errorf("the element is not initialized")
	}

	c.reclaimOutputBuffers(ctx)

	for {
		b, ok := c.input.TryGetFilledBuffer(ctx)
		if !ok {
			return nil
		}
		err := c.processBuffer(ctx, b)
		c.input.PushProcessedBuffer(ctx, b)
		c.input.ReturnProcessedBuffers(ctx)
		if err != nil {
			return err
		}
	}
}

func (c *AudioCodec) reclaimOutputBuffers(ctx context.Context) {
	count := 0
	for {
		b, ok := c.output.TryGetAvailableBuffer(ctx)
		if !ok {
			break
		}
		count++
		if !c.Config.ReuseOutputBuffers {
			continue
		}
		if pcm, ok := b.(*buffer.PcmData); ok && pcm.GetOwner() == c.GetID() {
			c.spare = append(c.spare, pcm)
		}
	}
	if count > 0 {
		logger.Tracef(ctx, "reclaimed %d output buffers", count)
		c.Wake(ctx)
	}
}

func (c *AudioCodec) processBuffer(
	ctx context.Context,
	b buffer.Buffer,
) error {
	pkt, ok := b.(*buffer.Packet)
	if !ok {
		return element.ErrInvalidOperation{Reason: fmt.Sprintf("expected an encoded packet, but received %T", b)}
	}
	if !c.negotiated {
		if err := c.negotiate(ctx); err != nil {
			return err
		}
	}
	c.counters.PacketsConsumed.Increment(uint64(len(pkt.Data)))

	data := pkt.Data
	for len(data) > 0 {
		consumed, frame, err := c.decoder.Decode(ctx, codec.Packet{
			Data: data,
			Pts:  pkt.Pts,
		})
		if err != nil {
			c.counters.DecodeErrors.Increment(uint64(len(data)))
			logger.Errorf(ctx, "unable to decode %s, skipping the remaining %d bytes: %v", pkt, len(data), err)
			return nil
		}
		if frame != nil {
			if err := c.emitFrame(ctx, pkt, frame); err != nil {
				return err
			}
		}
		if consumed <= 0 {
			if frame == nil {
				logger.Warnf(ctx, "the decoder made no progress on %s, skipping the remaining %d bytes", pkt, len(data))
				return nil
			}
			continue
		}
		if consumed > len(data) {
			consumed = len(data)
		}
		data = data[consumed:]
	}
	return nil
}

func (c *AudioCodec) negotiate(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "negotiate")
	defer func() { logger.Debugf(ctx, "/negotiate: %v", _err) }()

	source := c.input.Source(ctx)
	if source == nil {
		return element.ErrNotConnected{Pin: c.input}
	}
	info := source.Info()
	if info.Category() != types.MediaCategoryAudio {
		return element.ErrInvalidOperation{
			Reason: fmt.Sprintf("%s provides %s, but audio is required", source, info.Category()),
		}
	}
	audioInfo, ok := info.(*pin.AudioInfo)
	if !ok {
		return element.ErrInvalidOperation{
			Reason: fmt.Sprintf("%s does not describe its audio parameters (%T)", source, info),
		}
	}
	params := audioInfo.GetAudioParams(ctx)
	c.inputParams = params

	if err := c.outputInfo.SetAudioParams(ctx, pin.AudioParams{
		StreamType: types.AudioStreamTypePcm,
		SampleRate: params.SampleRate,
		Channels:   params.Channels,
	}); err != nil {
		return err
	}

	decoder, err := c.Factory.NewDecoder(ctx, codec.Params{
		StreamType:     params.StreamType,
		SampleRate:     params.SampleRate,
		Channels:       params.Channels,
		TargetChannels: c.Config.TargetChannels,
	})
	if err != nil {
		if errors.As(err, &codec.ErrNotSupported{}) {
			return element.ErrNotSupported{Err: err}
		}
		return element.ErrCapabilityFailure{Err: err}
	}
	logger.Debugf(ctx, "initialized decoder %s for %s", decoder, params)
	c.decoder = decoder
	c.negotiated = true
	return nil
}

func (c *AudioCodec) emitFrame(
	ctx context.Context,
	pkt *buffer.Packet,
	frame *codec.Frame,
) error {
	switch frame.Format {
	case types.PcmFormatInt16Planes, types.PcmFormatFloat32Planes:
	default:
		return element.ErrNotSupported{Err: fmt.Errorf("sample format %s", frame.Format)}
	}
	slots := remapChannels(frame.Layout)
	if len(slots) == 0 || len(frame.Planes) < frame.Channels() {
		c.counters.DecodeErrors.Increment(0)
		logger.Errorf(ctx, "the decoder returned an invalid frame %s with %d planes; skipping it", frame, len(frame.Planes))
		return nil
	}
	planeSize := frame.NbSamples * frame.Format.BytesPerSample()
	for _, src := range slots {
		if src != noSource && len(frame.Planes[src]) < planeSize {
			c.counters.DecodeErrors.Increment(0)
			logger.Errorf(ctx, "the decoder returned a frame %s with a plane of %d bytes, expected at least %d; skipping it", frame, len(frame.Planes[src]), planeSize)
			return nil
		}
	}

	out := c.getOutputBuffer(frame.Format, len(slots), frame.NbSamples)
	internal.Assert(ctx, len(out.Planes) == len(slots), len(out.Planes), len(slots))
	ts := pkt.Pts
	if frame.Pts.IsSet() {
		ts = frame.Pts.Get()
	}
	out.SetTimeStamp(pkt.TimeBase.Seconds(ts))
	for slot, src := range slots {
		if src == noSource {
			clear(out.Planes[slot])
			continue
		}
		copy(out.Planes[slot], frame.Planes[src][:planeSize])
	}
	c.counters.FramesDecoded.Increment(uint64(out.Size()))
	return c.output.SendBuffer(ctx, out)
}

func (c *AudioCodec) getOutputBuffer(
	format types.PcmFormat,
	channels int,
	samples int,
) *buffer.PcmData {
	for len(c.spare) > 0 {
		b := c.spare[len(c.spare)-1]
		c.spare = c.spare[:len(c.spare)-1]
		if b.FitsIn(format, channels, samples) {
			b.Reshape(format, channels, samples)
			b.SetTimeStamp(0)
			return b
		}
	}
	return buffer.NewPcmData(c.GetID(), format, channels, samples)
}

func (c *AudioCodec) closeDecoderLocked(ctx context.Context) error {
	if c.decoder == nil {
		return nil
	}
	err := c.decoder.Close(ctx)
	c.decoder = nil
	return err
}

func (c *AudioCodec) Close(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "Close")
	defer func() { logger.Debugf(ctx, "/Close: %v", _err) }()
	return xsync.DoR1(ctx, &c.locker, func() error {
		err := c.closeDecoderLocked(ctx)
		c.ClearInputPins(ctx)
		c.ClearOutputPins(ctx)
		c.input, c.output = nil, nil
		return err
	})
}
