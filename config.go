package remora

// Config holds the core's configuration surface: proxy count, channel
// capacities, and the parallel-execution knob. Everything else
// (executor construction parameters, transport, consensus wiring) is
// opaque to this package and is assembled by the caller before calling
// NewRuntime — the core owns no file or environment
// variable parsing (SPEC_FULL.md §6, §11).
type Config struct {
	// NumProxies is the size of the proxy pool the load balancer
	// round-robins over. Must be >= 1.
	// Default: 1.
	NumProxies uint

	// IngressBuffer sizes the bounded channel the load balancer reads
	// admitted transactions from.
	// Default: 1024.
	IngressBuffer uint

	// ConsensusBuffer sizes the bounded channel to the consensus sink.
	// Default: 1024.
	ConsensusBuffer uint

	// ProxyBuffer sizes each proxy's bounded input channel.
	// Default: 1024.
	ProxyBuffer uint

	// EffectsBuffer sizes the bounded effects channel that every proxy
	// writes to.
	// Default: 1024.
	EffectsBuffer uint

	// ParallelExecution selects the dependency-parallel proxy scheduler
	// (true) or the degenerate sequential variant that serialises every
	// admitted transaction through a single universal footprint
	// (false). SPEC_FULL.md §9.3 pins the default to true; a caller
	// must opt into sequential execution explicitly.
	// Default: true.
	ParallelExecution bool
}
