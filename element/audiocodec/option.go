package audiocodec

type config struct {
	ReuseOutputBuffers bool
	TargetChannels     int
}

var defaultConfig = config{
	TargetChannels: 2,
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

// OptionReuseOutputBuffers makes the element keep the decoded buffers
// returned by the consumer and refill them instead of allocating new ones.
type OptionReuseOutputBuffers bool

func (opt OptionReuseOutputBuffers) apply(cfg *config) {
	cfg.ReuseOutputBuffers = bool(opt)
}

// OptionTargetChannels is the amount of channels requested from the decoder.
type OptionTargetChannels int

func (opt OptionTargetChannels) apply(cfg *config) {
	cfg.TargetChannels = int(opt)
}
