package pipeline

import (
	"time"

	"github.com/xaionaro-go/avelement/element"
)

type config struct {
	PollInterval time.Duration
	Registry     *element.Registry
}

var defaultConfig = config{
	PollInterval: 10 * time.Millisecond,
	Registry:     element.DefaultRegistry,
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

func (s Options) config() config {
	cfg := defaultConfig
	s.apply(&cfg)
	return cfg
}

// OptionPollInterval is how often Serve calls DoWork on an element that was
// not woken up.
type OptionPollInterval time.Duration

func (opt OptionPollInterval) apply(cfg *config) {
	cfg.PollInterval = time.Duration(opt)
}

// OptionRegistry sets the registry the elements are registered in.
type OptionRegistry struct {
	Registry *element.Registry
}

func (opt OptionRegistry) apply(cfg *config) {
	cfg.Registry = opt.Registry
}
