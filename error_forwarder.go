package remora

import (
	"context"
	"sync"
)

// faultForwarder consumes the pipeline's internal fault channel and, on
// the first fault, cancels the runtime's context via cancel() and
// forwards exactly one error to the outward faults channel (out). If
// out is not immediately writable, it uses a detached sender goroutine
// tracked by sendWG that will either deliver later or drop on closeCh.
// After closeCh is closed, it drains any remaining internal faults and
// exits.
//
// Only the load balancer's termination is fatal to the whole runtime
// (SPEC_FULL.md §7); a proxy stopping because its effects sink closed
// is logged locally (proxy.go) and never reaches this forwarder. The
// owner (Runtime) controls lifecycle: faultForwarder does not close any
// channels itself.
type faultForwarder struct {
	in      <-chan error
	out     chan<- error
	closeCh <-chan struct{}
	cancel  context.CancelFunc
	sendWG  *sync.WaitGroup
}

func newFaultForwarder(
	in <-chan error, out chan<- error, closeCh <-chan struct{}, cancel context.CancelFunc, sendWG *sync.WaitGroup,
) *faultForwarder {
	return &faultForwarder{in: in, out: out, closeCh: closeCh, cancel: cancel, sendWG: sendWG}
}

func (f *faultForwarder) run() {
	forwardedFirst := false
	for {
		select {
		case e := <-f.in:
			f.cancel()
			if !forwardedFirst {
				forwardedFirst = true
				select {
				case f.out <- e:
				default:
					f.sendWG.Add(1)
					go func(err error) {
						defer f.sendWG.Done()
						select {
						case f.out <- err:
						case <-f.closeCh:
						}
					}(e)
				}
			}
		case <-f.closeCh:
			for {
				select {
				case <-f.in:
				default:
					return
				}
			}
		}
	}
}
