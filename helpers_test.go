package remora

import (
	"context"
	"sync"
	"time"
)

// fakeTx is a minimal InputObjectAware transaction payload used across
// this package's tests.
type fakeTx struct {
	id      string
	objects []InputObjectKind
}

func (t fakeTx) InputObjects() []InputObjectKind { return t.objects }

func newFakeTx(id string, objectIDs ...ObjectID) *TransactionWithTimestamp[fakeTx] {
	kinds := make([]InputObjectKind, len(objectIDs))
	for i, oid := range objectIDs {
		kinds[i] = NewSharedObject(oid, 0, true)
	}
	return NewTransactionWithTimestamp[fakeTx](fakeTx{id: id, objects: kinds})
}

// fakeEffects is a minimal Effects implementation.
type fakeEffects struct {
	ok bool
}

func (e fakeEffects) Success() bool { return e.ok }

// fakeExecutor records the order of invocations and can be configured to
// sleep (to demonstrate parallelism, S1/S2) or fail (to exercise the
// "signals still fire on executor failure" invariant, S6-adjacent).
type fakeExecutor struct {
	mu    sync.Mutex
	order []string
	sleep time.Duration
	fail  bool
}

func (e *fakeExecutor) Execute(ctx context.Context, store *ObjectStore[int], tx *TransactionWithTimestamp[fakeTx]) fakeEffects {
	return e.ExecuteOnContext(ctx, struct{}{}, store, tx)
}

func (e *fakeExecutor) ExecuteOnContext(_ context.Context, _ struct{}, _ *ObjectStore[int], tx *TransactionWithTimestamp[fakeTx]) fakeEffects {
	if e.sleep > 0 {
		time.Sleep(e.sleep)
	}
	e.mu.Lock()
	e.order = append(e.order, tx.Payload.id)
	e.mu.Unlock()
	return fakeEffects{ok: !e.fail}
}

func (e *fakeExecutor) Context() struct{} { return struct{}{} }

func (e *fakeExecutor) recordedOrder() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}
