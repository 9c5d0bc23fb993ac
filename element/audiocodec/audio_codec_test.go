package audiocodec

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/avelement/buffer"
	"github.com/xaionaro-go/avelement/codec"
	"github.com/xaionaro-go/avelement/codec/scripted"
	"github.com/xaionaro-go/avelement/element"
	"github.com/xaionaro-go/avelement/pin"
	"github.com/xaionaro-go/avelement/types"
	"github.com/xaionaro-go/typing"
)

var aacStereo = pin.AudioParams{
	StreamType: types.AudioStreamTypeAac,
	SampleRate: 48000,
	Channels:   2,
}

type harness struct {
	producer *pin.OutPin
	codec    *AudioCodec
	sink     *pin.InPin
}

func newHarness(
	t *testing.T,
	sourceInfo pin.Info,
	factory codec.DecoderFactory,
	opts ...Option,
) *harness {
	ctx := context.Background()
	c := New(factory, opts...)
	require.NoError(t, c.Initialize(ctx))
	require.Len(t, c.InputPins(), 1)
	require.Len(t, c.OutputPins(), 1)

	producer := pin.NewOutPin(types.NewElementID(), sourceInfo, nil)
	require.NoError(t, producer.Connect(ctx, c.InputPins()[0]))
	sink := pin.NewInPin(types.NewElementID(), pin.NewInfo(types.MediaCategoryUnknown), nil)
	require.NoError(t, c.OutputPins()[0].Connect(ctx, sink))
	return &harness{
		producer: producer,
		codec:    c,
		sink:     sink,
	}
}

func (h *harness) send(t *testing.T, pts int64, data []byte, timeBase types.Rational) *buffer.Packet {
	pkt := buffer.NewPacket(h.producer.Owner())
	pkt.SetData(data)
	pkt.Pts = pts
	pkt.TimeBase = timeBase
	require.NoError(t, h.producer.SendBuffer(context.Background(), pkt))
	return pkt
}

// drain takes all the decoded buffers from the sink without releasing them.
func (h *harness) drain(t *testing.T) []*buffer.PcmData {
	ctx := context.Background()
	var result []*buffer.PcmData
	for {
		b, ok := h.sink.TryGetFilledBuffer(ctx)
		if !ok {
			return result
		}
		pcm, ok := b.(*buffer.PcmData)
		require.True(t, ok, "%T", b)
		result = append(result, pcm)
	}
}

func (h *harness) release(pcms ...*buffer.PcmData) {
	ctx := context.Background()
	for _, pcm := range pcms {
		h.sink.PushProcessedBuffer(ctx, pcm)
	}
	h.sink.ReturnProcessedBuffers(ctx)
}

func (h *harness) reclaimed() []buffer.Buffer {
	var result []buffer.Buffer
	for {
		b, ok := h.producer.TryGetAvailableBuffer(context.Background())
		if !ok {
			return result
		}
		result = append(result, b)
	}
}

func TestAudioCodecNegotiation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, pin.NewAudioInfo(aacStereo), scripted.NewFactory(scripted.DefaultConfig()))
	outInfo := h.codec.OutputPins()[0].Info().(*pin.AudioInfo)
	require.False(t, outInfo.IsNegotiated(ctx))
	_, ok := h.codec.InputParams(ctx)
	require.False(t, ok)

	h.send(t, 0, []byte{1}, types.Rational{Num: 1, Den: 48000})
	require.NoError(t, h.codec.DoWork(ctx))

	expected := pin.AudioParams{StreamType: types.AudioStreamTypePcm, SampleRate: 48000, Channels: 2}
	require.Equal(t, expected, outInfo.GetAudioParams(ctx))
	inputParams, ok := h.codec.InputParams(ctx)
	require.True(t, ok)
	require.Equal(t, aacStereo, inputParams)

	h.send(t, 1024, []byte{2}, types.Rational{Num: 1, Den: 48000})
	require.NoError(t, h.codec.DoWork(ctx))
	require.Equal(t, expected, outInfo.GetAudioParams(ctx))
	require.Len(t, h.drain(t), 2)
	require.Len(t, h.reclaimed(), 2)
}

func TestAudioCodecRemapContent(t *testing.T) {
	for _, channels := range []int{1, 2, 6} {
		channels := channels
		t.Run(codec.DefaultLayout(channels).String(), func(t *testing.T) {
			ctx := context.Background()
			cfg := scripted.DefaultConfig()
			cfg.NbSamples = 8
			cfg.Format = types.PcmFormatInt16Planes
			params := aacStereo
			params.Channels = channels
			h := newHarness(t, pin.NewAudioInfo(params), scripted.NewFactory(cfg))

			h.send(t, 0, []byte{1, 2, 3}, types.Rational{Num: 1, Den: 48000})
			require.NoError(t, h.codec.DoWork(ctx))
			out := h.drain(t)
			require.Len(t, out, 1)
			pcm := out[0]
			require.Equal(t, types.PcmFormatInt16Planes, pcm.Format)
			require.Equal(t, 8, pcm.Samples)
			require.Equal(t, 16, pcm.ChannelSize())

			// the scripted decoder fills channel i with the byte i+1
			var wantFill []byte
			switch {
			case channels == 1:
				wantFill = []byte{1, 1}
			case channels == 2:
				wantFill = []byte{1, 2}
			default:
				wantFill = []byte{1, 2, 3}
			}
			require.Equal(t, len(wantFill), pcm.Channels)
			require.Len(t, pcm.Planes, len(wantFill))
			for slot, fill := range wantFill {
				for _, v := range pcm.Planes[slot] {
					require.Equal(t, fill, v, "slot %d", slot)
				}
			}
		})
	}
}

func TestAudioCodecOutputIsCopied(t *testing.T) {
	ctx := context.Background()
	cfg := scripted.DefaultConfig()
	cfg.NbSamples = 2
	factory := scripted.NewFactory(cfg)
	h := newHarness(t, pin.NewAudioInfo(aacStereo), factory)

	h.send(t, 0, []byte{1}, types.Rational{Num: 1, Den: 48000})
	h.send(t, 1, []byte{1}, types.Rational{Num: 1, Den: 48000})
	require.NoError(t, h.codec.DoWork(ctx))
	out := h.drain(t)
	require.Len(t, out, 2)
	out[0].Planes[0][0] = 0xff
	require.Equal(t, byte(1), out[1].Planes[0][0])
}

func TestAudioCodecTimestamp(t *testing.T) {
	ctx := context.Background()
	cfg := scripted.DefaultConfig()
	cfg.Scripts = map[int64][]scripted.Step{
		// the decoder reports its own timestamp
		2: {{Consume: -1, Yield: true, Pts: typing.Opt(int64(135000))}},
	}
	h := newHarness(t, pin.NewAudioInfo(aacStereo), scripted.NewFactory(cfg))

	h.send(t, 90000, []byte{1}, types.Rational{Num: 1, Den: 90000})
	h.send(t, 2, []byte{1}, types.Rational{Num: 1, Den: 90000})
	h.send(t, 1001, []byte{1}, types.Rational{Num: 1, Den: 30000})
	require.NoError(t, h.codec.DoWork(ctx))

	out := h.drain(t)
	require.Len(t, out, 3)
	require.InDelta(t, 1.0, out[0].TimeStamp(), 1e-9)
	require.InDelta(t, 1.5, out[1].TimeStamp(), 1e-9)
	require.InDelta(t, 1001.0/30000.0, out[2].TimeStamp(), 1e-9)
}

func TestAudioCodecDecodeErrorIsolation(t *testing.T) {
	ctx := context.Background()
	cfg := scripted.DefaultConfig()
	cfg.Scripts = map[int64][]scripted.Step{
		1024: {
			{Consume: 1, Yield: true},
			{Err: errors.New("corrupted bitstream")},
		},
	}
	factory := scripted.NewFactory(cfg)
	h := newHarness(t, pin.NewAudioInfo(aacStereo), factory)

	tb := types.Rational{Num: 1, Den: 48000}
	h.send(t, 0, []byte{1, 2}, tb)
	h.send(t, 1024, []byte{1, 2, 3, 4}, tb)
	h.send(t, 2048, []byte{1, 2}, tb)
	require.NoError(t, h.codec.DoWork(ctx))

	out := h.drain(t)
	require.Len(t, out, 3)
	for i := 1; i < len(out); i++ {
		require.GreaterOrEqual(t, out[i].TimeStamp(), out[i-1].TimeStamp())
	}
	require.InDelta(t, 2048.0/48000, out[2].TimeStamp(), 1e-9)

	stats := h.codec.GetStatistics()
	require.Equal(t, uint64(1), stats.DecodeErrors.Count)
	require.Equal(t, uint64(3), stats.DecodeErrors.Bytes)
	require.Equal(t, uint64(3), stats.PacketsConsumed.Count)
	require.Equal(t, uint64(3), stats.FramesDecoded.Count)

	// every input buffer is returned, including the broken one
	require.Len(t, h.reclaimed(), 3)
	calls := factory.Decoders(ctx)[0].Calls(ctx)
	require.Len(t, calls, 4)
	require.Equal(t, []byte{2, 3, 4}, calls[2].Data)
}

func TestAudioCodecNoProgress(t *testing.T) {
	ctx := context.Background()
	cfg := scripted.DefaultConfig()
	cfg.Scripts = map[int64][]scripted.Step{
		0: {{Consume: 0}},
	}
	h := newHarness(t, pin.NewAudioInfo(aacStereo), scripted.NewFactory(cfg))
	h.send(t, 0, []byte{1, 2}, types.Rational{Num: 1, Den: 48000})
	h.send(t, 1, []byte{1, 2}, types.Rational{Num: 1, Den: 48000})
	require.NoError(t, h.codec.DoWork(ctx))
	require.Len(t, h.drain(t), 1)
	require.Len(t, h.reclaimed(), 2)
}

func TestAudioCodecFatalErrors(t *testing.T) {
	unsupportedFactory := scripted.NewFactory(scripted.DefaultConfig())
	unsupportedFactory.Err = codec.ErrNotSupported{What: "wmapro"}
	brokenFactory := scripted.NewFactory(scripted.DefaultConfig())
	brokenFactory.Err = errors.New("out of hardware decoders")
	interleavedCfg := scripted.DefaultConfig()
	interleavedCfg.Format = types.PcmFormatFloat32

	tests := []struct {
		name       string
		sourceInfo pin.Info
		factory    codec.DecoderFactory
		check      func(t *testing.T, err error)
	}{
		{
			name:       "video source",
			sourceInfo: pin.NewInfo(types.MediaCategoryVideo),
			factory:    scripted.NewFactory(scripted.DefaultConfig()),
			check: func(t *testing.T, err error) {
				require.True(t, errors.As(err, &element.ErrInvalidOperation{}), err)
			},
		},
		{
			name:       "audio without parameters",
			sourceInfo: pin.NewInfo(types.MediaCategoryAudio),
			factory:    scripted.NewFactory(scripted.DefaultConfig()),
			check: func(t *testing.T, err error) {
				require.True(t, errors.As(err, &element.ErrInvalidOperation{}), err)
			},
		},
		{
			name:       "unsupported stream type",
			sourceInfo: pin.NewAudioInfo(aacStereo),
			factory:    unsupportedFactory,
			check: func(t *testing.T, err error) {
				require.True(t, errors.As(err, &element.ErrNotSupported{}), err)
				require.True(t, errors.As(err, &codec.ErrNotSupported{}), err)
			},
		},
		{
			name:       "capability failure",
			sourceInfo: pin.NewAudioInfo(aacStereo),
			factory:    brokenFactory,
			check: func(t *testing.T, err error) {
				require.True(t, errors.As(err, &element.ErrCapabilityFailure{}), err)
				require.False(t, errors.As(err, &element.ErrNotSupported{}), err)
			},
		},
		{
			name:       "interleaved sample format",
			sourceInfo: pin.NewAudioInfo(aacStereo),
			factory:    scripted.NewFactory(interleavedCfg),
			check: func(t *testing.T, err error) {
				require.True(t, errors.As(err, &element.ErrNotSupported{}), err)
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			h := newHarness(t, tt.sourceInfo, tt.factory)
			h.send(t, 0, []byte{1, 2}, types.Rational{Num: 1, Den: 48000})
			err := h.codec.DoWork(ctx)
			require.Error(t, err)
			tt.check(t, err)
			require.Empty(t, h.drain(t))
			require.Len(t, h.reclaimed(), 1)
		})
	}
}

func TestAudioCodecReuseOutputBuffers(t *testing.T) {
	ctx := context.Background()
	for _, reuse := range []bool{false, true} {
		h := newHarness(t, pin.NewAudioInfo(aacStereo), scripted.NewFactory(scripted.DefaultConfig()), OptionReuseOutputBuffers(reuse))
		h.send(t, 0, []byte{1}, types.Rational{Num: 1, Den: 48000})
		require.NoError(t, h.codec.DoWork(ctx))
		first := h.drain(t)
		require.Len(t, first, 1)
		h.release(first...)

		h.send(t, 1, []byte{1}, types.Rational{Num: 1, Den: 48000})
		require.NoError(t, h.codec.DoWork(ctx))
		second := h.drain(t)
		require.Len(t, second, 1)
		if reuse {
			require.Same(t, first[0], second[0])
		} else {
			require.NotSame(t, first[0], second[0])
		}
		require.Equal(t, byte(1), second[0].Planes[0][0])
	}
}

func TestAudioCodecReinitialize(t *testing.T) {
	ctx := context.Background()
	factory := scripted.NewFactory(scripted.DefaultConfig())
	h := newHarness(t, pin.NewAudioInfo(aacStereo), factory)
	h.send(t, 0, []byte{1}, types.Rational{Num: 1, Den: 48000})
	require.NoError(t, h.codec.DoWork(ctx))

	require.NoError(t, h.codec.Initialize(ctx))
	decoders := factory.Decoders(ctx)
	require.Len(t, decoders, 1)
	require.True(t, decoders[0].IsClosed(ctx))
	_, ok := h.codec.InputParams(ctx)
	require.False(t, ok)
	require.False(t, h.codec.InputPins()[0].IsConnected(ctx))
	require.False(t, h.producer.IsConnected(ctx))
	require.NoError(t, h.codec.Close(ctx))
}

func TestAudioCodecReinitializeReturnsPending(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, pin.NewAudioInfo(aacStereo), scripted.NewFactory(scripted.DefaultConfig()))
	tb := types.Rational{Num: 1, Den: 48000}
	sent := []*buffer.Packet{
		h.send(t, 0, []byte{1}, tb),
		h.send(t, 1024, []byte{2}, tb),
	}

	require.NoError(t, h.codec.Initialize(ctx))
	reclaimed := h.reclaimed()
	require.Len(t, reclaimed, 2)
	for i := range sent {
		require.Same(t, sent[i], reclaimed[i])
	}
	require.Zero(t, h.producer.GetStatistics().InFlight())
	require.NoError(t, h.codec.Close(ctx))
}

func TestAudioCodecPlanePadding(t *testing.T) {
	ctx := context.Background()
	tb := types.Rational{Num: 1, Den: 48000}

	t.Run("padded", func(t *testing.T) {
		cfg := scripted.DefaultConfig()
		cfg.Format = types.PcmFormatInt16Planes
		cfg.NbSamples = 4
		cfg.PlanePadding = 24
		h := newHarness(t, pin.NewAudioInfo(aacStereo), scripted.NewFactory(cfg))

		h.send(t, 0, []byte{1}, tb)
		require.NoError(t, h.codec.DoWork(ctx))
		out := h.drain(t)
		require.Len(t, out, 1)
		for slot, plane := range out[0].Planes {
			require.Len(t, plane, 8)
			require.NotContains(t, plane, byte(scripted.PaddingByte))
			require.Equal(t, byte(slot+1), plane[0])
		}
		require.Zero(t, h.codec.GetStatistics().DecodeErrors.Count)
	})

	t.Run("short", func(t *testing.T) {
		cfg := scripted.DefaultConfig()
		cfg.Format = types.PcmFormatInt16Planes
		cfg.NbSamples = 4
		cfg.PlanePadding = -2
		h := newHarness(t, pin.NewAudioInfo(aacStereo), scripted.NewFactory(cfg))

		h.send(t, 0, []byte{1}, tb)
		require.NoError(t, h.codec.DoWork(ctx))
		require.Empty(t, h.drain(t))
		require.Equal(t, uint64(1), h.codec.GetStatistics().DecodeErrors.Count)
		require.Len(t, h.reclaimed(), 1)
	})
}

func TestAudioCodecSilentCenter(t *testing.T) {
	ctx := context.Background()
	quad, ok := codec.ParseChannelLayout("quad")
	require.True(t, ok)

	cfg := scripted.DefaultConfig()
	cfg.Format = types.PcmFormatInt16Planes
	cfg.NbSamples = 4
	cfg.Layout = quad
	params := aacStereo
	params.Channels = 4
	h := newHarness(t, pin.NewAudioInfo(params), scripted.NewFactory(cfg))

	tb := types.Rational{Num: 1, Den: 48000}
	h.send(t, 0, []byte{1}, tb)
	require.NoError(t, h.codec.DoWork(ctx))
	out := h.drain(t)
	require.Len(t, out, 1)
	require.Len(t, out[0].Planes, 3)
	require.Equal(t, []byte{1, 1, 1, 1, 1, 1, 1, 1}, out[0].Planes[slotLeft])
	require.Equal(t, []byte{2, 2, 2, 2, 2, 2, 2, 2}, out[0].Planes[slotRight])
	require.Equal(t, make([]byte, 8), out[0].Planes[slotCenter])

	// a reused output buffer must not leak the previous samples into the center
	h.release(out...)
	h.send(t, 1, []byte{1}, tb)
	require.NoError(t, h.codec.DoWork(ctx))
	out = h.drain(t)
	require.Len(t, out, 1)
	require.Equal(t, make([]byte, 8), out[0].Planes[slotCenter])
}
