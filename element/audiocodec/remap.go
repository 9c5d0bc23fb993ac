package audiocodec

import (
	"github.com/xaionaro-go/avelement/codec"
)

const (
	slotLeft = iota
	slotRight
	slotCenter
)

// noSource marks an output slot that has no source channel and is filled
// with silence.
const noSource = -1

// remapChannels returns, for each output slot, the index of the source
// channel copied into it. The slots are left, right and (only for sources
// of more than two channels) center. Other source channels are dropped.
//
// A source without a front-left channel uses its first channel as left; a
// source without a front-right channel duplicates left. A source of more
// than two channels without a front-center channel gets a silent center.
func remapChannels(layout codec.ChannelLayout) []int {
	if len(layout) == 0 {
		return nil
	}

	left := layout.Index(codec.ChannelPositionFrontLeft)
	if left < 0 {
		left = 0
	}
	right := layout.Index(codec.ChannelPositionFrontRight)
	if right < 0 {
		right = left
	}
	if len(layout) <= 2 {
		return []int{slotLeft: left, slotRight: right}
	}

	center := layout.Index(codec.ChannelPositionFrontCenter)
	if center < 0 {
		center = noSource
	}
	return []int{slotLeft: left, slotRight: right, slotCenter: center}
}
