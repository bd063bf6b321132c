package remora

import (
	"errors"
	"fmt"
)

// ComponentFault exposes which pipeline component produced a fatal
// runtime error: the load balancer, or a specific proxy.
type ComponentFault interface {
	error
	Unwrap() error
	ProxyID() (ProxyID, bool)
}

type componentFault struct {
	err     error
	proxyID ProxyID
	hasID   bool
}

// newLoadBalancerFault tags err as originating from the load balancer
// (no proxy id).
func newLoadBalancerFault(err error) error {
	if err == nil {
		return nil
	}
	return &componentFault{err: err}
}

// newProxyFault tags err as originating from proxy id.
func newProxyFault(err error, id ProxyID) error {
	if err == nil {
		return nil
	}
	return &componentFault{err: err, proxyID: id, hasID: true}
}

func (e *componentFault) Error() string { return e.err.Error() }
func (e *componentFault) Unwrap() error { return e.err }

func (e *componentFault) ProxyID() (ProxyID, bool) {
	return e.proxyID, e.hasID
}

func (e *componentFault) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			if e.hasID {
				_, _ = fmt.Fprintf(s, "proxy(id=%d): %+v", e.proxyID, e.err)
			} else {
				_, _ = fmt.Fprintf(s, "load-balancer: %+v", e.err)
			}
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// FaultProxyID returns the id of the proxy that produced err, if err (or
// something it wraps) is a ComponentFault tagged with one.
func FaultProxyID(err error) (ProxyID, bool) {
	var cf ComponentFault
	if errors.As(err, &cf) {
		return cf.ProxyID()
	}
	return 0, false
}
