package remora

import (
	"context"
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"github.com/remora-project/remora/metrics"
)

// Proxy owns one admission loop, one dependencyController, and a pool of
// concurrently running admittedTasks. It mirrors original_source's
// proxy/core.rs: transactions arrive over ingress, are admitted in
// order (recording their footprint against the dependency controller),
// and then execute — potentially out of order relative to ingress, but
// never before a prior transaction touching the same object has fired
// its completion signal.
type Proxy[Store any, Tx InputObjectAware, ExecCtx any, Eff Effects] struct {
	ID       ProxyID
	executor Executor[Store, Tx, ExecCtx, Eff]
	store    Store

	parallel bool
	deps     *dependencyController
	metrics  *metrics.ProxyRecorder

	taskID   atomic.Uint64
	stopped  chan struct{}
	stopOnce sync.Once

	disp *dispatcher[*TransactionWithTimestamp[Tx]]
}

// NewProxy builds a Proxy reading transactions from ingress and writing
// effects to results. parallel selects between the dependency-parallel
// and universal-footprint-sequential variants (SPEC_FULL.md §4.2).
func NewProxy[Store any, Tx InputObjectAware, ExecCtx any, Eff Effects](
	id ProxyID,
	executor Executor[Store, Tx, ExecCtx, Eff],
	store Store,
	ingress <-chan *TransactionWithTimestamp[Tx],
	results *chanSender[Eff],
	parallel bool,
	recorder *metrics.ProxyRecorder,
) *Proxy[Store, Tx, ExecCtx, Eff] {
	if recorder == nil {
		recorder = metrics.NewProxyRecorder(metrics.NewNoopProvider())
	}
	p := &Proxy[Store, Tx, ExecCtx, Eff]{
		ID:       id,
		executor: executor,
		store:    store,
		parallel: parallel,
		deps:     newDependencyController(),
		metrics:  recorder,
		stopped:  make(chan struct{}),
	}
	p.disp = newDispatcher[*TransactionWithTimestamp[Tx]](ingress, p.stopped, func(ctx context.Context, tx *TransactionWithTimestamp[Tx]) func(context.Context) {
		return p.admit(ctx, tx, results)
	})
	return p
}

// footprintFor returns the object ids a transaction must be serialized
// against. In sequential mode every transaction shares the single
// universal key, so the dependency controller totally orders them.
func (p *Proxy[Store, Tx, ExecCtx, Eff]) footprintFor(tx *TransactionWithTimestamp[Tx]) []ObjectID {
	if !p.parallel {
		return []ObjectID{universalObjectID}
	}
	return tx.Footprint()
}

// admit runs on the dispatcher's single admission goroutine: it records
// the transaction's footprint against the dependency controller (this
// must happen in ingress order) and returns the task's execution,
// which the dispatcher then runs on its own goroutine.
func (p *Proxy[Store, Tx, ExecCtx, Eff]) admit(ctx context.Context, tx *TransactionWithTimestamp[Tx], results *chanSender[Eff]) func(context.Context) {
	prior, current := p.deps.admit(p.footprintFor(tx))
	id := p.taskID.Add(1)

	task := &admittedTask[Store, Tx, ExecCtx, Eff]{
		proxyID:  p.ID,
		taskID:   id,
		prior:    prior,
		current:  current,
		executor: p.executor,
		execCtx:  p.executor.Context(),
		store:    p.store,
		tx:       tx,
		results:  results,
		metrics:  p.metrics,
		onClosed: p.stop,
	}
	return task.run
}

// Run drives the proxy's admission loop until ctx is cancelled, ingress
// closes, or the effects sink is observed closed. It blocks until every
// admitted transaction has finished executing.
func (p *Proxy[Store, Tx, ExecCtx, Eff]) Run(ctx context.Context) {
	p.disp.run(ctx)
}

// stop closes the proxy's stop channel exactly once, ending the
// admission loop without draining further ingress. It is wired as the
// onClosed callback admittedTask invokes the first time it observes the
// effects sink gone (SPEC_FULL.md §7).
func (p *Proxy[Store, Tx, ExecCtx, Eff]) stop() {
	p.stopOnce.Do(func() {
		log.WithField("proxy_id", p.ID).
			WithError(newProxyFault(ErrProxyStopped, p.ID)).
			Warn("stopping admission loop, effects sink gone")
		close(p.stopped)
	})
}

// Stopped returns a channel that is closed once this proxy's admission
// loop has been stopped because a task found the effects sink closed.
func (p *Proxy[Store, Tx, ExecCtx, Eff]) Stopped() <-chan struct{} {
	return p.stopped
}
