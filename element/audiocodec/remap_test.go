package audiocodec

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/avelement/codec"
)

func TestRemapChannels(t *testing.T) {
	t.Parallel()

	FL, FR, FC := codec.ChannelPositionFrontLeft, codec.ChannelPositionFrontRight, codec.ChannelPositionFrontCenter
	LFE, SL, SR := codec.ChannelPositionLowFrequency, codec.ChannelPositionSideLeft, codec.ChannelPositionSideRight
	BL, BR := codec.ChannelPositionBackLeft, codec.ChannelPositionBackRight

	tests := []struct {
		name   string
		layout codec.ChannelLayout
		want   []int
	}{
		{name: "empty", layout: nil, want: nil},
		{name: "mono", layout: codec.ChannelLayout{FC}, want: []int{0, 0}},
		{name: "stereo", layout: codec.ChannelLayout{FL, FR}, want: []int{0, 1}},
		{name: "stereo swapped", layout: codec.ChannelLayout{FR, FL}, want: []int{1, 0}},
		{name: "surround", layout: codec.ChannelLayout{FL, FR, FC}, want: []int{0, 1, 2}},
		{name: "5.1", layout: codec.ChannelLayout{FL, FR, FC, LFE, SL, SR}, want: []int{0, 1, 2}},
		{name: "5.1 center first", layout: codec.ChannelLayout{FC, FL, FR, LFE, SL, SR}, want: []int{1, 2, 0}},
		{name: "no center", layout: codec.ChannelLayout{FL, FR, SL, SR}, want: []int{0, 1, noSource}},
		{name: "quad", layout: codec.ChannelLayout{FL, FR, BL, BR}, want: []int{0, 1, noSource}},
		{name: "7.1", layout: codec.DefaultLayout(8), want: []int{0, 1, 2}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, remapChannels(tt.layout))
		})
	}
}
