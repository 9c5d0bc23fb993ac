package pipeline

import (
	"github.com/xaionaro-go/avelement/types"
)

type LinkStatistics struct {
	From string
	To   string
	types.PinStatistics
}

type Statistics struct {
	State string
	Links []LinkStatistics
}

func (p *Pipeline) GetStatistics() *Statistics {
	result := &Statistics{
		State: p.GetState().String(),
	}
	for _, link := range p.Links() {
		result.Links = append(result.Links, LinkStatistics{
			From:          link.Out.String(),
			To:            link.In.String(),
			PinStatistics: linkStatistics(link),
		})
	}
	return result
}

// linkStatistics combines the counters of both ends of a link.
func linkStatistics(link Link) types.PinStatistics {
	out := link.Out.GetStatistics()
	in := link.In.GetStatistics()
	return types.PinStatistics{
		Sent:      out.Sent,
		Received:  in.Received,
		Processed: in.Processed,
		Returned:  in.Returned,
		Reclaimed: out.Reclaimed,
	}
}
