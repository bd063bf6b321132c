// Package remora implements the transaction pre-execution core of a
// single-machine blockchain validator prototype: a load balancer that
// fans each admitted transaction out to a consensus sink and to one of N
// proxy workers, and a per-proxy dependency scheduler that speculatively
// executes transactions in parallel, subject to per-object
// happens-before ordering.
//
// Constructors
//   - NewRuntime(cfg, executor, store, recorder): the composition root.
//     It builds a LoadBalancer and cfg.NumProxies Proxy workers, and
//     owns the ingress, consensus, and effects channels, handing back
//     the sending side of ingress via Ingress() and the receiving side
//     of consensus and effects via Consensus() and Effects(). The
//     executor and the object store are supplied by the caller and are
//     never constructed by this package.
//   - BuildConfig(opts ...Option): assembles a validated Config from
//     functional options.
//
// Defaults
// Unless overridden, the following defaults apply:
//   - NumProxies: 1
//   - IngressBuffer / ConsensusBuffer / ProxyBuffer / EffectsBuffer: 1024
//   - ParallelExecution: true
//
// Channel lifecycle
// Every channel in this package is bounded; a full channel suspends its
// sender (the sole flow-control mechanism between stages). Shutdown
// propagates from ingress outward: closing the sending side returned by
// Ingress() drains the load balancer, which stops sending; each proxy
// drains its input channel to completion, including in-flight spawned
// tasks, before its admission loop exits. The consensus sink and proxy
// input channels are wrapped in chanSender so that a receiver going
// away is observable as a send-side error, the way Rust's mpsc::Sender
// reports a dropped Receiver — plain Go channels can't express that
// without panicking.
package remora
