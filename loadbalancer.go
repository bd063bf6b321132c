package remora

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// LoadBalancer fans out each ingress transaction to a consensus sink and
// to exactly one proxy, chosen by round robin with failover
// (SPEC_FULL.md §4.1). It is generic only over the wire transaction
// type: the executor's store/context/effects types never appear here,
// per the capability-set polymorphism design note in SPEC_FULL.md §9.2.
type LoadBalancer[T InputObjectAware] struct {
	ingress   <-chan *TransactionWithTimestamp[T]
	consensus *chanSender[*TransactionWithTimestamp[T]]
	proxies   []*chanSender[*TransactionWithTimestamp[T]]
}

// NewLoadBalancer builds a LoadBalancer reading from ingress and writing
// to consensus and proxies. len(proxies) must be at least 1.
func NewLoadBalancer[T InputObjectAware](
	ingress <-chan *TransactionWithTimestamp[T],
	consensus *chanSender[*TransactionWithTimestamp[T]],
	proxies []*chanSender[*TransactionWithTimestamp[T]],
) *LoadBalancer[T] {
	return &LoadBalancer[T]{ingress: ingress, consensus: consensus, proxies: proxies}
}

// Run drains ingress until it closes, ctx is done, or the consensus
// sink is observed closed. Every received transaction is mirrored to
// the consensus sink, then routed to one proxy by round robin, failing
// over to subsequent proxies on a closed channel.
//
// The counter driving round robin only advances after a transaction is
// successfully delivered to consensus, matching the reference
// implementation's exact send-then-increment sequencing (SPEC_FULL.md
// §4.1, step 3).
//
// Run returns nil on clean shutdown (ctx done or ingress closed) and
// ErrConsensusClosed when it terminates because the consensus sink is
// gone — the one fatal condition this component can observe.
func (b *LoadBalancer[T]) Run(ctx context.Context) error {
	n := len(b.proxies)
	var i int

	for {
		select {
		case <-ctx.Done():
			return nil
		case tx, ok := <-b.ingress:
			if !ok {
				return nil
			}

			if err := b.consensus.Send(ctx, tx); err != nil {
				if err != ErrChannelClosed {
					return nil
				}
				log.WithError(err).Warn("consensus sink gone, terminating load balancer")
				return ErrConsensusClosed
			}

			b.routeToProxy(ctx, tx, i%n)
			i++
		}
	}
}

// routeToProxy attempts delivery starting at primary, failing over to
// subsequent indices modulo n. If every proxy is closed the transaction
// is dropped from proxy distribution; consensus has already succeeded
// so the balancer continues (SPEC_FULL.md §9.3, second open question).
func (b *LoadBalancer[T]) routeToProxy(ctx context.Context, tx *TransactionWithTimestamp[T], primary int) {
	n := len(b.proxies)
	for attempt := 0; attempt < n; attempt++ {
		idx := (primary + attempt) % n
		err := b.proxies[idx].Send(ctx, tx)
		if err == nil {
			return
		}
		log.WithFields(log.Fields{
			"proxy_id": idx,
			"attempt":  attempt,
		}).WithError(err).Warn("proxy send failed, attempting failover")
	}
	log.WithField("primary", primary).WithError(ErrAllProxiesFailed).Warn("all proxies failed to accept transaction, dropping from proxy distribution")
}
