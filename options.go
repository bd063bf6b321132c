package remora

import "fmt"

// Option configures a Config. Apply options with BuildConfig(opts...)
// and pass the resulting Config to NewRuntime.
type Option func(*Config)

// WithNumProxies sets the size of the proxy pool (must be > 0).
func WithNumProxies(n uint) Option {
	return func(c *Config) {
		if n == 0 {
			panic("remora: WithNumProxies requires n > 0")
		}
		c.NumProxies = n
	}
}

// WithIngressBuffer sets the size of the ingress channel buffer.
func WithIngressBuffer(size uint) Option {
	return func(c *Config) { c.IngressBuffer = size }
}

// WithConsensusBuffer sets the size of the consensus sink channel buffer.
func WithConsensusBuffer(size uint) Option {
	return func(c *Config) { c.ConsensusBuffer = size }
}

// WithProxyBuffer sets the size of each proxy's input channel buffer.
func WithProxyBuffer(size uint) Option {
	return func(c *Config) { c.ProxyBuffer = size }
}

// WithEffectsBuffer sets the size of the effects channel buffer shared
// by every proxy.
func WithEffectsBuffer(size uint) Option {
	return func(c *Config) { c.EffectsBuffer = size }
}

// WithSequentialExecution forces the degenerate sequential scheduler
// (every admitted transaction serialised through one universal
// footprint) instead of the dependency-parallel default.
func WithSequentialExecution() Option {
	return func(c *Config) { c.ParallelExecution = false }
}

// BuildConfig assembles a Config from functional options, starting from
// defaultConfig() and validating the result.
func BuildConfig(opts ...Option) (Config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			panic("remora: nil option")
		}
		opt(&cfg)
	}
	if err := validateConfig(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid remora config: %w", err)
	}
	return cfg, nil
}
