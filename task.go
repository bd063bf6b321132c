package remora

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/remora-project/remora/metrics"
)

// admittedTask is one transaction's execution lifecycle after admission:
// await every prior completion signal, invoke the executor, fire the
// current signal exactly once regardless of outcome, then forward
// effects. It is destroyed when run returns (SPEC_FULL.md §3
// "Lifecycle").
type admittedTask[Store any, Tx InputObjectAware, ExecCtx any, Eff Effects] struct {
	proxyID  ProxyID
	taskID   uint64
	prior    []*signal
	current  *signal
	executor Executor[Store, Tx, ExecCtx, Eff]
	execCtx  ExecCtx
	store    Store
	tx       *TransactionWithTimestamp[Tx]
	results  *chanSender[Eff]
	metrics  *metrics.ProxyRecorder
	onClosed func()
}

// run awaits every prior signal, executes the transaction, fires the
// current signal, and forwards effects. The current signal fires in a
// defer so it releases waiters even if a prior wait is abandoned.
func (t *admittedTask[Store, Tx, ExecCtx, Eff]) run(ctx context.Context) {
	defer t.current.fire()

	for _, p := range t.prior {
		if err := p.wait(ctx); err != nil {
			log.WithFields(log.Fields{
				"proxy_id": t.proxyID,
				"task_id":  t.taskID,
			}).WithError(err).Warn("abandoned task while waiting on a dependency")
			return
		}
	}

	t.metrics.IncreaseLoad(t.proxyID)
	effects := t.executor.ExecuteOnContext(ctx, t.execCtx, t.store, t.tx)
	t.metrics.DecreaseLoad(t.proxyID)
	t.metrics.ObserveLatency(t.proxyID, time.Since(t.tx.Timestamp).Seconds())

	if err := t.results.Send(ctx, effects); err != nil {
		entry := log.WithFields(log.Fields{
			"proxy_id": t.proxyID,
			"task_id":  t.taskID,
		})
		if err == ErrChannelClosed {
			entry.Warn("effects sink gone, stopping admission loop")
			if t.onClosed != nil {
				t.onClosed()
			}
			return
		}
		entry.WithError(err).Warn("failed to send execution effects")
	}
}
