package remora

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/remora-project/remora/metrics"
)

func newTestRuntime(t *testing.T, cfg Config, exec *fakeExecutor) (*Runtime[*ObjectStore[int], fakeTx, struct{}, fakeEffects], chan<- *TransactionWithTimestamp[fakeTx]) {
	t.Helper()
	store := NewObjectStore[int]()
	rt, err := NewRuntime[*ObjectStore[int], fakeTx, struct{}, fakeEffects](
		cfg, exec, store, metrics.NewProxyRecorder(metrics.NewNoopProvider()),
	)
	require.NoError(t, err)
	return rt, rt.Ingress()
}

// End-to-end S3: two proxies, round robin with no failures.
func TestRuntime_RoundRobinEndToEnd(t *testing.T) {
	cfg := defaultConfig()
	cfg.NumProxies = 2
	exec := &fakeExecutor{}
	rt, ingress := newTestRuntime(t, cfg, exec)

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan struct{})
	go func() { rt.Run(ctx); close(runDone) }()

	for i := 0; i < 4; i++ {
		ingress <- newFakeTx(itoaTest(i), "o1")
	}

	for i := 0; i < 4; i++ {
		<-rt.Consensus()
		<-rt.Effects()
	}

	cancel()
	<-runDone
}

// End-to-end S6: dependency fairness with a single proxy.
func TestRuntime_DependencyFairnessEndToEnd(t *testing.T) {
	cfg := defaultConfig()
	cfg.NumProxies = 1
	exec := &fakeExecutor{}
	rt, ingress := newTestRuntime(t, cfg, exec)

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan struct{})
	go func() { rt.Run(ctx); close(runDone) }()

	const n = 50
	want := make([]string, n)
	go func() {
		for i := 0; i < n; i++ {
			id := itoaTest(i)
			want[i] = id
			ingress <- newFakeTx(id, "o1")
		}
	}()

	for i := 0; i < n; i++ {
		<-rt.Consensus()
		<-rt.Effects()
	}

	require.Equal(t, want, exec.recordedOrder())
	cancel()
	<-runDone
}

// Closing ingress alone must drain the whole pipeline and let Run
// return without an explicit cancel (SPEC_FULL.md §5 shutdown
// narrative).
func TestRuntime_IngressCloseDrainsAndShutsDown(t *testing.T) {
	cfg := defaultConfig()
	cfg.NumProxies = 1
	cfg.IngressBuffer = 8
	exec := &fakeExecutor{}
	store := NewObjectStore[int]()
	rt, err := NewRuntime[*ObjectStore[int], fakeTx, struct{}, fakeEffects](
		cfg, exec, store, nil,
	)
	require.NoError(t, err)
	ingress := rt.Ingress()

	runDone := make(chan struct{})
	go func() { rt.Run(context.Background()); close(runDone) }()

	ingress <- newFakeTx("t0", "o1")
	<-rt.Consensus()
	<-rt.Effects()

	close(ingress)

	select {
	case <-runDone:
	case <-time.After(time.Second):
		t.Fatalf("runtime did not shut down after ingress closed")
	}
}

// Consensus sink closing is the one fatal condition: Run still returns
// (everything unwinds) and Faults() reports it.
func TestRuntime_ConsensusClosedIsFatal(t *testing.T) {
	cfg := defaultConfig()
	cfg.NumProxies = 1
	exec := &fakeExecutor{}
	rt, ingress := newTestRuntime(t, cfg, exec)
	rt.consensus.Close()

	runDone := make(chan struct{})
	go func() { rt.Run(context.Background()); close(runDone) }()

	ingress <- newFakeTx("t0", "o1")

	select {
	case err := <-rt.Faults():
		require.Error(t, err)
	case <-time.After(time.Second):
		t.Fatalf("expected a fault when consensus sink is closed")
	}

	select {
	case <-runDone:
	case <-time.After(time.Second):
		t.Fatalf("runtime did not shut down after consensus fault")
	}
}
