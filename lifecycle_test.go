package remora

import (
	"sync"
	"testing"
	"time"
)

func recvStep(t *testing.T, ch <-chan string, d time.Duration) (string, bool) {
	t.Helper()
	select {
	case s := <-ch:
		return s, true
	case <-time.After(d):
		return "", false
	}
}

func TestRuntimeLifecycle_OrderAndSignals(t *testing.T) {
	steps := make(chan string, 10)

	// inflight starts at 1 so we control when shutdown proceeds beyond Wait
	var inflight sync.WaitGroup
	inflight.Add(1)

	closeCh := make(chan struct{})
	closedObserved := make(chan struct{}, 1)
	go func() {
		<-closeCh
		steps <- "closeChClosed"
		closedObserved <- struct{}{}
	}()

	cancel := func() { steps <- "cancel" }
	drain := func() { steps <- "drainInternal" }
	closeConsensus := func() { steps <- "closeConsensus" }
	closeProxies := func() { steps <- "closeProxies" }
	closeEffects := func() { steps <- "closeEffects" }

	lc := newRuntimeLifecycle(
		cancel,
		&inflight,
		closeCh,
		&sync.WaitGroup{}, // forwarderWG
		&sync.WaitGroup{}, // faultsSendWG
		drain,
		closeConsensus,
		closeProxies,
		closeEffects,
	)

	done := make(chan struct{})
	go func() { lc.Close(); close(done) }()

	if s, ok := recvStep(t, steps, 200*time.Millisecond); !ok || s != "cancel" {
		t.Fatalf("expected first step 'cancel', got=%q ok=%v", s, ok)
	}
	select {
	case <-closedObserved:
		t.Fatalf("closeCh closed before inflight.Wait was released")
	default:
	}

	inflight.Done()

	select {
	case <-closedObserved:
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("expected closeCh to be closed after inflight release")
	}

	expectedTail := []string{"drainInternal", "closeConsensus", "closeProxies", "closeEffects"}
	idx := 0
	deadline := time.After(500 * time.Millisecond)
	for idx < len(expectedTail) {
		select {
		case s := <-steps:
			if s == "closeChClosed" {
				continue
			}
			want := expectedTail[idx]
			if s != want {
				t.Fatalf("tail step %d: expected %q, got %q", idx+1, want, s)
			}
			idx++
		case <-deadline:
			t.Fatalf("timed out waiting for tail step %d (%q)", idx+1, expectedTail[idx])
		}
	}
	<-done
}

func TestRuntimeLifecycle_Idempotent_ConcurrentClose(t *testing.T) {
	steps := make(chan string, 10)

	var inflight sync.WaitGroup
	closeCh := make(chan struct{})

	closeChClosed := make(chan struct{}, 1)
	go func() {
		<-closeCh
		closeChClosed <- struct{}{}
	}()

	cancel := func() { steps <- "cancel" }
	drain := func() { steps <- "drainInternal" }
	closeConsensus := func() { steps <- "closeConsensus" }
	closeProxies := func() { steps <- "closeProxies" }
	closeEffects := func() { steps <- "closeEffects" }

	lc := newRuntimeLifecycle(
		cancel,
		&inflight,
		closeCh,
		&sync.WaitGroup{},
		&sync.WaitGroup{},
		drain,
		closeConsensus,
		closeProxies,
		closeEffects,
	)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() { defer wg.Done(); lc.Close() }()
	}
	wg.Wait()

	select {
	case <-closeChClosed:
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("closeCh was not closed")
	}
	expected := map[string]int{
		"cancel":         0,
		"drainInternal":  0,
		"closeConsensus": 0,
		"closeProxies":   0,
		"closeEffects":   0,
	}
	for {
		select {
		case s := <-steps:
			if _, ok := expected[s]; ok {
				expected[s]++
			}
		default:
			goto done
		}
	}

done:
	for k, v := range expected {
		if v != 1 {
			t.Fatalf("expected step %q exactly once, got %d", k, v)
		}
	}
}
