package packetsource

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/avelement/buffer"
	"github.com/xaionaro-go/avelement/pin"
	"github.com/xaionaro-go/avelement/types"
	"github.com/xaionaro-go/typing"
)

type failingReader struct {
	err error
}

func (r failingReader) ReadPacket(ctx context.Context) (ReadResult, error) {
	return ReadResult{}, r.err
}

type timeBasedReader struct {
	*SliceReader
}

func (timeBasedReader) TimeBase() types.Rational {
	return types.Rational{Num: 1, Den: 1000}
}

func connectSink(t *testing.T, s *PacketSource) *pin.InPin {
	sink := pin.NewInPin(types.NewElementID(), pin.NewInfo(types.MediaCategoryUnknown), nil)
	require.NoError(t, s.OutputPins()[0].Connect(context.Background(), sink))
	return sink
}

func receiveAll(ctx context.Context, sink *pin.InPin) []*buffer.Packet {
	var result []*buffer.Packet
	for {
		b, ok := sink.TryGetFilledBuffer(ctx)
		if !ok {
			return result
		}
		result = append(result, b.(*buffer.Packet))
	}
}

func TestPacketSourceBoundedByPool(t *testing.T) {
	ctx := context.Background()
	var packets []ReadResult
	for i := 0; i < 5; i++ {
		packets = append(packets, ReadResult{Data: []byte{byte(i)}, Pts: typing.Opt(int64(i * 1024))})
	}
	s := New(
		NewSliceReader(packets...),
		pin.NewAudioInfo(pin.AudioParams{StreamType: types.AudioStreamTypeAac, SampleRate: 48000, Channels: 2}),
		OptionPoolSize(2),
		OptionTimeBase(types.Rational{Num: 1, Den: 48000}),
	)
	require.NoError(t, s.Initialize(ctx))
	sink := connectSink(t, s)

	require.NoError(t, s.DoWork(ctx))
	got := receiveAll(ctx, sink)
	require.Len(t, got, 2)
	require.Equal(t, uint(2), s.InFlight(ctx))
	require.Equal(t, []byte{0}, got[0].Data)
	require.Equal(t, int64(1024), got[1].Pts)
	require.Equal(t, types.Rational{Num: 1, Den: 48000}, got[1].TimeBase)
	require.InDelta(t, 1024.0/48000, got[1].TimeStamp(), 1e-9)

	require.NoError(t, s.DoWork(ctx))
	require.Empty(t, receiveAll(ctx, sink))

	for _, pkt := range got {
		sink.PushProcessedBuffer(ctx, pkt)
	}
	sink.ReturnProcessedBuffers(ctx)
	require.NoError(t, s.DoWork(ctx))
	next := receiveAll(ctx, sink)
	require.Len(t, next, 2)
	require.Equal(t, []byte{2}, next[0].Data)
	require.False(t, s.IsEOF(ctx))

	for _, pkt := range next {
		sink.PushProcessedBuffer(ctx, pkt)
	}
	sink.ReturnProcessedBuffers(ctx)
	require.NoError(t, s.DoWork(ctx))
	last := receiveAll(ctx, sink)
	require.Len(t, last, 1)
	require.Equal(t, []byte{4}, last[0].Data)
	require.True(t, s.IsEOF(ctx))
	require.Equal(t, uint(1), s.InFlight(ctx))
}

func TestPacketSourceReaderTimeBase(t *testing.T) {
	ctx := context.Background()
	s := New(timeBasedReader{NewSliceReader(ReadResult{Data: []byte{1}, Pts: typing.Opt[int64](500)})}, pin.NewInfo(types.MediaCategoryAudio))
	require.NoError(t, s.Initialize(ctx))
	sink := connectSink(t, s)
	require.NoError(t, s.DoWork(ctx))
	got := receiveAll(ctx, sink)
	require.Len(t, got, 1)
	require.InDelta(t, 0.5, got[0].TimeStamp(), 1e-9)
}

func TestPacketSourceReadError(t *testing.T) {
	ctx := context.Background()
	errBroken := errors.New("broken input")
	s := New(failingReader{err: errBroken}, pin.NewInfo(types.MediaCategoryAudio))
	require.NoError(t, s.Initialize(ctx))
	connectSink(t, s)
	require.ErrorIs(t, s.DoWork(ctx), errBroken)
	require.Zero(t, s.InFlight(ctx))
}

func TestPacketSourceNotConnected(t *testing.T) {
	ctx := context.Background()
	s := New(NewSliceReader(ReadResult{Data: []byte{1}}), pin.NewInfo(types.MediaCategoryAudio))
	require.NoError(t, s.Initialize(ctx))
	err := s.DoWork(ctx)
	require.True(t, errors.As(err, &pin.ErrNotConnected{}), err)
	require.Zero(t, s.InFlight(ctx))
}

func TestPacketSourceStopReleasesReturned(t *testing.T) {
	ctx := context.Background()
	s := New(NewSliceReader(ReadResult{Data: []byte{1}}, ReadResult{Data: []byte{2}}), pin.NewInfo(types.MediaCategoryAudio))
	require.NoError(t, s.Initialize(ctx))
	sink := connectSink(t, s)
	require.NoError(t, s.DoWork(ctx))
	for _, pkt := range receiveAll(ctx, sink) {
		sink.PushProcessedBuffer(ctx, pkt)
	}
	sink.ReturnProcessedBuffers(ctx)
	require.Equal(t, uint(2), s.InFlight(ctx))

	require.NoError(t, s.ChangeState(ctx, types.MediaStateStopped, types.MediaStateStopped))
	require.Zero(t, s.InFlight(ctx))
}

func TestPacketSourceTimeBaseOverride(t *testing.T) {
	ctx := context.Background()
	s := New(
		timeBasedReader{NewSliceReader(ReadResult{Data: []byte{1}, Pts: typing.Opt[int64](500)})},
		pin.NewInfo(types.MediaCategoryAudio),
		OptionTimeBase(types.Rational{Num: 1, Den: 500}),
	)
	require.NoError(t, s.Initialize(ctx))
	sink := connectSink(t, s)
	require.NoError(t, s.DoWork(ctx))
	got := receiveAll(ctx, sink)
	require.Len(t, got, 1)
	require.InDelta(t, 1.0, got[0].TimeStamp(), 1e-9)
}

func TestPacketSourceMissingPts(t *testing.T) {
	ctx := context.Background()
	s := New(
		NewSliceReader(
			ReadResult{Data: []byte{1}},
			ReadResult{Data: []byte{2}, Pts: typing.Opt(int64(1024))},
			ReadResult{Data: []byte{3}},
		),
		pin.NewInfo(types.MediaCategoryAudio),
		OptionPoolSize(3),
		OptionTimeBase(types.Rational{Num: 1, Den: 1024}),
	)
	require.NoError(t, s.Initialize(ctx))
	sink := connectSink(t, s)

	require.NoError(t, s.DoWork(ctx))
	got := receiveAll(ctx, sink)
	require.Len(t, got, 3)
	require.Equal(t, int64(0), got[0].Pts)
	require.Equal(t, int64(1024), got[1].Pts)
	require.Equal(t, int64(1024), got[2].Pts)
	require.InDelta(t, 1.0, got[2].TimeStamp(), 1e-9)
}
