package remora

import "sync"

// runtimeLifecycle encapsulates the shutdown sequence for a Runtime. It
// is a wiring helper: it doesn't own the pipeline's channels directly,
// it orchestrates cancellation, waits, and closures in the deterministic
// order SPEC_FULL.md §5 describes: cancel, wait in-flight, stop the
// fault forwarder, then close every downstream-facing sender this
// runtime owns.
//
// Close is safe for concurrent calls; the sequence executes exactly
// once.
type runtimeLifecycle struct {
	cancel         func()
	inflight       *sync.WaitGroup
	closeCh        chan struct{}
	forwarderWG    *sync.WaitGroup
	faultsSendWG   *sync.WaitGroup
	drainInternal  func()
	closeConsensus func()
	closeProxies   func()
	closeEffects   func()

	once sync.Once
}

func newRuntimeLifecycle(
	cancel func(),
	inflight *sync.WaitGroup,
	closeCh chan struct{},
	forwarderWG *sync.WaitGroup,
	faultsSendWG *sync.WaitGroup,
	drainInternal func(),
	closeConsensus func(),
	closeProxies func(),
	closeEffects func(),
) *runtimeLifecycle {
	return &runtimeLifecycle{
		cancel:         cancel,
		inflight:       inflight,
		closeCh:        closeCh,
		forwarderWG:    forwarderWG,
		faultsSendWG:   faultsSendWG,
		drainInternal:  drainInternal,
		closeConsensus: closeConsensus,
		closeProxies:   closeProxies,
		closeEffects:   closeEffects,
	}
}

// Close executes the shutdown sequence exactly once:
//  1. cancel the runtime's internal context
//  2. wait for the load balancer and every proxy's admission loop to
//     return
//  3. close closeCh to stop the fault forwarder
//  4. wait for the forwarder and any detached fault senders
//  5. drain remaining internal faults best-effort
//  6. close the consensus sink, then every proxy channel, then effects
func (lc *runtimeLifecycle) Close() {
	lc.once.Do(func() {
		if lc.cancel != nil {
			lc.cancel()
		}
		if lc.inflight != nil {
			lc.inflight.Wait()
		}
		if lc.closeCh != nil {
			close(lc.closeCh)
		}
		if lc.forwarderWG != nil {
			lc.forwarderWG.Wait()
		}
		if lc.faultsSendWG != nil {
			lc.faultsSendWG.Wait()
		}
		if lc.drainInternal != nil {
			lc.drainInternal()
		}
		if lc.closeConsensus != nil {
			lc.closeConsensus()
		}
		if lc.closeProxies != nil {
			lc.closeProxies()
		}
		if lc.closeEffects != nil {
			lc.closeEffects()
		}
	})
}
