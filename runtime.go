package remora

import (
	"context"
	"sync"

	"github.com/remora-project/remora/metrics"
)

// Runtime is the composition root: it wires one LoadBalancer to N
// Proxies exactly as original_source's SingleMachineValidator::start
// constructs channels and spawns the load balancer and proxy tasks,
// without the consensus engine, metrics server, or CLI parsing those
// are external collaborators (SPEC_FULL.md §10).
//
// Runtime owns the sending side of the consensus and effects channels,
// and owns the ingress channel outright: NewRuntime constructs it sized
// to cfg.IngressBuffer and hands back the sending side via Ingress().
// Closing that sending side is how a caller requests shutdown (per
// SPEC_FULL.md §5).
type Runtime[Store any, Tx InputObjectAware, ExecCtx any, Eff Effects] struct {
	cfg Config

	ingress   chan *TransactionWithTimestamp[Tx]
	consensus *chanSender[*TransactionWithTimestamp[Tx]]
	proxyChan []*chanSender[*TransactionWithTimestamp[Tx]]
	effects   *chanSender[Eff]

	lb      *LoadBalancer[Tx]
	proxies []*Proxy[Store, Tx, ExecCtx, Eff]

	cancel   context.CancelFunc
	inflight sync.WaitGroup

	faultsIn  chan error
	faultsOut chan error
	closeCh   chan struct{}

	forwarder   *faultForwarder
	forwarderWG sync.WaitGroup
	sendWG      sync.WaitGroup

	lifecycle *runtimeLifecycle
}

// NewRuntime builds a Runtime. executor and store are shared across
// every proxy (SPEC_FULL.md §5, "stores are not shared across
// proxies" — note this constructor, like the reference implementation,
// hands every proxy the same store because this core spawns one
// logical validator; passing distinct stores per proxy is the caller's
// choice if that's ever needed). recorder may be nil (a no-op Provider
// is used).
func NewRuntime[Store any, Tx InputObjectAware, ExecCtx any, Eff Effects](
	cfg Config,
	executor Executor[Store, Tx, ExecCtx, Eff],
	store Store,
	recorder *metrics.ProxyRecorder,
) (*Runtime[Store, Tx, ExecCtx, Eff], error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	r := &Runtime[Store, Tx, ExecCtx, Eff]{
		cfg:       cfg,
		ingress:   make(chan *TransactionWithTimestamp[Tx], cfg.IngressBuffer),
		consensus: newChanSender[*TransactionWithTimestamp[Tx]](cfg.ConsensusBuffer),
		effects:   newChanSender[Eff](cfg.EffectsBuffer),
		faultsIn:  make(chan error, cfg.NumProxies+1),
		faultsOut: make(chan error, 1),
		closeCh:   make(chan struct{}),
	}

	r.proxyChan = make([]*chanSender[*TransactionWithTimestamp[Tx]], cfg.NumProxies)
	proxySends := make([]*chanSender[*TransactionWithTimestamp[Tx]], cfg.NumProxies)
	r.proxies = make([]*Proxy[Store, Tx, ExecCtx, Eff], cfg.NumProxies)
	for i := range r.proxyChan {
		ch := newChanSender[*TransactionWithTimestamp[Tx]](cfg.ProxyBuffer)
		r.proxyChan[i] = ch
		proxySends[i] = ch
		r.proxies[i] = NewProxy[Store, Tx, ExecCtx, Eff](
			ProxyID(i), executor, store, ch.Recv(), r.effects, cfg.ParallelExecution, recorder,
		)
	}

	r.lb = NewLoadBalancer[Tx](r.ingress, r.consensus, proxySends)

	r.forwarder = newFaultForwarder(r.faultsIn, r.faultsOut, r.closeCh, func() {
		if r.cancel != nil {
			r.cancel()
		}
	}, &r.sendWG)

	r.lifecycle = newRuntimeLifecycle(
		func() {
			if r.cancel != nil {
				r.cancel()
			}
		},
		&r.inflight,
		r.closeCh,
		&r.forwarderWG,
		&r.sendWG,
		func() {
			for {
				select {
				case <-r.faultsIn:
				default:
					return
				}
			}
		},
		r.consensus.Close,
		func() {
			for _, ch := range r.proxyChan {
				ch.Close()
			}
		},
		r.effects.Close,
	)

	return r, nil
}

// Ingress exposes the sending side of the ingress channel. A caller
// feeds admitted transactions through it; closing it is how a caller
// requests a clean shutdown (SPEC_FULL.md §5).
func (r *Runtime[Store, Tx, ExecCtx, Eff]) Ingress() chan<- *TransactionWithTimestamp[Tx] {
	return r.ingress
}

// Consensus exposes the receiving side of the consensus sink for an
// external consumer to drain.
func (r *Runtime[Store, Tx, ExecCtx, Eff]) Consensus() <-chan *TransactionWithTimestamp[Tx] {
	return r.consensus.Recv()
}

// Effects exposes the receiving side of the effects channel for an
// external results collector to drain.
func (r *Runtime[Store, Tx, ExecCtx, Eff]) Effects() <-chan Eff {
	return r.effects.Recv()
}

// Faults returns the runtime's terminal fault, if any: fired at most
// once, the first time the load balancer terminates because the
// consensus sink is gone.
func (r *Runtime[Store, Tx, ExecCtx, Eff]) Faults() <-chan error {
	return r.faultsOut
}

// Run spawns the load balancer and every proxy, then blocks until ctx
// is cancelled or the pipeline quiesces on its own (ingress closed and
// every proxy has drained), running the shutdown sequence before
// returning.
func (r *Runtime[Store, Tx, ExecCtx, Eff]) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.forwarderWG.Add(1)
	go func() {
		defer r.forwarderWG.Done()
		r.forwarder.run()
	}()

	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		err := r.lb.Run(ctx)
		// The load balancer is the only sender on the proxy channels; once
		// it returns, closing them lets every proxy drain what is buffered
		// and then leave its admission loop.
		for _, ch := range r.proxyChan {
			close(ch.ch)
		}
		if err != nil {
			select {
			case r.faultsIn <- newLoadBalancerFault(err):
			default:
			}
		}
	}()

	for _, p := range r.proxies {
		p := p
		r.inflight.Add(1)
		go func() {
			defer r.inflight.Done()
			p.Run(ctx)
		}()
	}

	r.inflight.Wait()
	r.lifecycle.Close()
}

// Shutdown requests an immediate shutdown regardless of ingress state.
func (r *Runtime[Store, Tx, ExecCtx, Eff]) Shutdown() {
	r.lifecycle.Close()
}
