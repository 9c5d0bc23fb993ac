package libav

import (
	"context"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"
	"github.com/xaionaro-go/avelement/codec"
	"github.com/xaionaro-go/avelement/logger"
)

type DecoderFactory struct {
	// SampleFormat is the preferred output sample format ("s16p", "fltp",
	// ...); the decoder may ignore it. Empty means the decoder default.
	SampleFormat string

	// Options are passed to the decoder as is.
	Options map[string]string

	// ExtraData is the codec-specific global header of the stream (the
	// AudioSpecificConfig of AAC in MP4, the headers of Vorbis, Opus and
	// FLAC). See Demuxer.ExtraData.
	ExtraData []byte
}

var _ codec.DecoderFactory = (*DecoderFactory)(nil)

func NewDecoderFactory() *DecoderFactory {
	return &DecoderFactory{}
}

func (f *DecoderFactory) String() string {
	return "LibAVDecoderFactory"
}

func (f *DecoderFactory) NewDecoder(
	ctx context.Context,
	params codec.Params,
) (_ret codec.Decoder, _err error) {
	logger.Debugf(ctx, "NewDecoder(%s)", params)
	defer func() { logger.Debugf(ctx, "/NewDecoder(%s): %v", params, _err) }()

	codecID, ok := CodecIDFromStreamType(params.StreamType)
	if !ok {
		return nil, codec.ErrNotSupported{What: params.StreamType.String()}
	}
	avCodec := astiav.FindDecoder(codecID)
	if avCodec == nil {
		return nil, codec.ErrNotSupported{What: fmt.Sprintf("%s (no decoder in this build of libav)", params.StreamType)}
	}

	closer := astikit.NewCloser()
	success := false
	defer func() {
		if !success {
			closer.Close()
		}
	}()

	codecContext := astiav.AllocCodecContext(avCodec)
	if codecContext == nil {
		return nil, fmt.Errorf("unable to allocate a codec context for %s", avCodec.Name())
	}
	closer.Add(codecContext.Free)

	if params.SampleRate > 0 {
		codecContext.SetSampleRate(params.SampleRate)
	}
	switch params.Channels {
	case 1:
		codecContext.SetChannelLayout(astiav.ChannelLayoutMono)
	case 2:
		codecContext.SetChannelLayout(astiav.ChannelLayoutStereo)
	}

	if len(f.ExtraData) > 0 {
		logger.Debugf(ctx, "setting %d bytes of extradata", len(f.ExtraData))
		if err := codecContext.SetExtraData(f.ExtraData); err != nil {
			return nil, fmt.Errorf("unable to set the extradata: %w", err)
		}
	}

	options := astiav.NewDictionary()
	closer.Add(options.Free)
	for key, value := range f.Options {
		logger.Tracef(ctx, "decoder option: %s=%s", key, value)
		options.Set(key, value, 0)
	}
	if f.SampleFormat != "" {
		sampleFormat, err := sampleFormatFromString(f.SampleFormat)
		if err != nil {
			return nil, err
		}
		options.Set("request_sample_fmt", sampleFormat.Name(), 0)
	}
	if params.TargetChannels == 2 && params.Channels > 2 {
		// honored by the decoders able to downmix (e.g. AC-3)
		options.Set("downmix", "stereo", 0)
	}

	if err := codecContext.Open(avCodec, options); err != nil {
		return nil, fmt.Errorf("unable to open the decoder %s: %w", avCodec.Name(), err)
	}

	d := newDecoder(codecContext, closer)
	success = true
	return d, nil
}
