package packetsource

import (
	"github.com/xaionaro-go/avelement/types"
)

type config struct {
	PoolSize uint
	TimeBase types.Rational
}

var defaultConfig = config{
	PoolSize: 8,
	TimeBase: types.Rational{Num: 1, Den: 90000},
}

type Option interface {
	apply(*config)
}

type Options []Option

func (s Options) apply(cfg *config) {
	for _, opt := range s {
		opt.apply(cfg)
	}
}

// OptionPoolSize is the maximal amount of packets in flight.
type OptionPoolSize uint

func (opt OptionPoolSize) apply(cfg *config) {
	cfg.PoolSize = uint(opt)
}

// OptionTimeBase is the time base of the packet timestamps. It overrides the
// one reported by the Reader.
type OptionTimeBase types.Rational

func (opt OptionTimeBase) apply(cfg *config) {
	cfg.TimeBase = types.Rational(opt)
}
