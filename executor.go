package remora

import "context"

// Executor is the capability set a pluggable transaction executor must
// provide. It is polymorphic over the store, the transaction payload,
// a cheaply-cloneable execution context, and the produced effects.
//
// Implementations must be safe to invoke from many goroutines
// concurrently: the dependency controller only serialises transactions
// with overlapping footprints, never all of them.
type Executor[Store any, Tx InputObjectAware, ExecCtx any, Eff Effects] interface {
	// Execute runs tx against store using the executor's own internal
	// context. The proxy does not call it (both of its modes use
	// ExecuteOnContext); it is there for callers that don't need a
	// per-task cloned context.
	Execute(ctx context.Context, store Store, tx *TransactionWithTimestamp[Tx]) Eff

	// ExecuteOnContext runs tx against store using execCtx, a clone of
	// the value returned by Context(). This is the entry point the
	// proxy uses for every spawned task, in parallel and sequential
	// mode alike, so that concurrent tasks don't contend on a single
	// shared execution context.
	ExecuteOnContext(ctx context.Context, execCtx ExecCtx, store Store, tx *TransactionWithTimestamp[Tx]) Eff

	// Context returns a cheaply-cloneable execution context. The proxy
	// calls it once per admitted transaction and hands the result to
	// that transaction's task.
	Context() ExecCtx
}
