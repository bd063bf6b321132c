package metrics

// ProxyRecorder wraps a Provider with the two operations
// original_source's proxy/core.rs calls directly around every
// pre-execution: increase/decrease the in-flight load gauge for a given
// proxy, plus an effects-latency histogram keyed by proxy id via a
// bounded attribute, not by an unbounded per-task label.
type ProxyRecorder struct {
	provider Provider
	load     map[int]UpDownCounter
	latency  map[int]Histogram
}

// NewProxyRecorder builds a ProxyRecorder over provider. Instruments
// are created lazily per proxy id and cached.
func NewProxyRecorder(provider Provider) *ProxyRecorder {
	if provider == nil {
		provider = NewNoopProvider()
	}
	return &ProxyRecorder{
		provider: provider,
		load:     make(map[int]UpDownCounter),
		latency:  make(map[int]Histogram),
	}
}

func (r *ProxyRecorder) loadGauge(proxyID int) UpDownCounter {
	if g, ok := r.load[proxyID]; ok {
		return g
	}
	g := r.provider.UpDownCounter(
		"remora_proxy_inflight",
		WithDescription("number of transactions currently pre-executing on a proxy"),
		WithUnit("1"),
		WithAttributes(map[string]string{"proxy_id": itoa(proxyID)}),
	)
	r.load[proxyID] = g
	return g
}

func (r *ProxyRecorder) latencyHistogram(proxyID int) Histogram {
	if h, ok := r.latency[proxyID]; ok {
		return h
	}
	h := r.provider.Histogram(
		"remora_proxy_execution_seconds",
		WithDescription("pre-execution latency observed by a proxy"),
		WithUnit("seconds"),
		WithAttributes(map[string]string{"proxy_id": itoa(proxyID)}),
	)
	r.latency[proxyID] = h
	return h
}

// IncreaseLoad records the start of one pre-execution on proxyID.
func (r *ProxyRecorder) IncreaseLoad(proxyID int) {
	r.loadGauge(proxyID).Add(1)
}

// DecreaseLoad records the end of one pre-execution on proxyID.
func (r *ProxyRecorder) DecreaseLoad(proxyID int) {
	r.loadGauge(proxyID).Add(-1)
}

// ObserveLatency records how long one pre-execution took on proxyID.
func (r *ProxyRecorder) ObserveLatency(proxyID int, seconds float64) {
	r.latencyHistogram(proxyID).Record(seconds)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
