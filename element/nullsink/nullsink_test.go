package nullsink

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/avelement/buffer"
	"github.com/xaionaro-go/avelement/pin"
	"github.com/xaionaro-go/avelement/types"
)

func TestNullSink(t *testing.T) {
	ctx := context.Background()

	var seen []buffer.Buffer
	sink := New(func(ctx context.Context, b buffer.Buffer) {
		seen = append(seen, b)
	})
	require.NoError(t, sink.Initialize(ctx))
	require.Len(t, sink.InputPins(), 1)
	require.Empty(t, sink.OutputPins())
	in := sink.InputPins()[0]
	require.Equal(t, types.MediaCategoryUnknown, in.Info().Category())

	out := pin.NewOutPin(types.NewElementID(), pin.NewInfo(types.MediaCategoryAudio), nil)
	require.NoError(t, out.Connect(ctx, in))

	var sent []buffer.Buffer
	for i := 0; i < 3; i++ {
		b := buffer.NewPacket(out.Owner())
		require.NoError(t, out.SendBuffer(ctx, b))
		sent = append(sent, b)
	}
	require.NoError(t, sink.DoWork(ctx))
	require.Equal(t, sent, seen)

	var reclaimed []buffer.Buffer
	for {
		b, ok := out.TryGetAvailableBuffer(ctx)
		if !ok {
			break
		}
		reclaimed = append(reclaimed, b)
	}
	require.Equal(t, sent, reclaimed)

	require.NoError(t, sink.DoWork(ctx))
	require.Len(t, seen, 3)
}
