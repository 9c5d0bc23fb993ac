package audiocodec

import (
	"github.com/xaionaro-go/avelement/types"
)

type Statistics struct {
	PacketsConsumed types.StatisticsItem `json:",omitempty"`
	FramesDecoded   types.StatisticsItem `json:",omitempty"`
	DecodeErrors    types.StatisticsItem `json:",omitempty"`
}

type counters struct {
	PacketsConsumed types.CountersItem
	FramesDecoded   types.CountersItem
	DecodeErrors    types.CountersItem
}

func (c *counters) toStats() Statistics {
	return Statistics{
		PacketsConsumed: c.PacketsConsumed.ToStats(),
		FramesDecoded:   c.FramesDecoded.ToStats(),
		DecodeErrors:    c.DecodeErrors.ToStats(),
	}
}
