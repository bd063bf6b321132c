package remora

import "errors"

// Namespace prefixes every sentinel error below, mirroring the teacher
// library's convention of a single namespaced error block.
const Namespace = "remora"

var (
	// ErrChannelClosed is returned by chanSender.Send once the
	// destination has been closed: the Go equivalent of a dropped Rust
	// mpsc::Receiver.
	ErrChannelClosed = errors.New(Namespace + ": destination channel closed")

	// ErrAllProxiesFailed is logged (not returned — the load balancer
	// has no caller to return to) when a transaction's full failover
	// cycle exhausts every proxy.
	ErrAllProxiesFailed = errors.New(Namespace + ": all proxies failed to accept transaction")

	// ErrProxyStopped is logged, tagged with the proxy id, when a proxy's
	// admission loop stops because its effects sink is gone.
	ErrProxyStopped = errors.New(Namespace + ": proxy admission loop stopped, effects sink gone")

	// ErrInvalidConfig is returned by option validation when a
	// configuration cannot be satisfied (e.g. zero proxies).
	ErrInvalidConfig = errors.New(Namespace + ": invalid configuration")

	// ErrConsensusClosed is the fatal condition LoadBalancer.Run returns
	// when the consensus sink is gone; the runtime treats this as the
	// terminal error for the whole pipeline.
	ErrConsensusClosed = errors.New(Namespace + ": consensus sink closed, load balancer terminated")
)
