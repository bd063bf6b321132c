package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusProvider backs Provider with real prometheus collectors,
// registered against a caller-supplied prometheus.Registerer. Unlike
// BasicProvider it distinguishes counters/gauges/histograms by their
// attribute set: two instruments with the same name but different
// WithAttributes calls become distinct vector children, not distinct
// collectors, so register-once-per-name semantics still hold.
type PrometheusProvider struct {
	reg prometheus.Registerer

	counters   map[string]*prometheus.CounterVec
	updowns    map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
}

// NewPrometheusProvider constructs a Provider that registers its
// instruments against reg. Pass prometheus.DefaultRegisterer to export
// through the default /metrics handler.
func NewPrometheusProvider(reg prometheus.Registerer) *PrometheusProvider {
	return &PrometheusProvider{
		reg:        reg,
		counters:   make(map[string]*prometheus.CounterVec),
		updowns:    make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

func labelNames(attrs map[string]string) []string {
	names := make([]string, 0, len(attrs))
	for k := range attrs {
		names = append(names, k)
	}
	return names
}

// Counter returns a monotonic counter instrument for name, registering a
// CounterVec the first time name is seen.
func (p *PrometheusProvider) Counter(name string, opts ...InstrumentOption) Counter {
	cfg := applyOptions(opts)
	vec, ok := p.counters[name]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: name,
			Help: cfg.Description,
		}, labelNames(cfg.Attributes))
		p.reg.MustRegister(vec)
		p.counters[name] = vec
	}
	return prometheusCounter{vec.With(prometheus.Labels(cfg.Attributes))}
}

// UpDownCounter returns a gauge instrument for name, registering a
// GaugeVec the first time name is seen.
func (p *PrometheusProvider) UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter {
	cfg := applyOptions(opts)
	vec, ok := p.updowns[name]
	if !ok {
		vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: name,
			Help: cfg.Description,
		}, labelNames(cfg.Attributes))
		p.reg.MustRegister(vec)
		p.updowns[name] = vec
	}
	return prometheusGauge{vec.With(prometheus.Labels(cfg.Attributes))}
}

// Histogram returns a histogram instrument for name, registering a
// HistogramVec with prometheus' default buckets the first time name is
// seen.
func (p *PrometheusProvider) Histogram(name string, opts ...InstrumentOption) Histogram {
	cfg := applyOptions(opts)
	vec, ok := p.histograms[name]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    name,
			Help:    cfg.Description,
			Buckets: prometheus.DefBuckets,
		}, labelNames(cfg.Attributes))
		p.reg.MustRegister(vec)
		p.histograms[name] = vec
	}
	return prometheusHistogram{vec.With(prometheus.Labels(cfg.Attributes))}
}

// prometheusCounter adapts prometheus.Counter's Inc/Add(float64) surface
// to the single Add(int64) method Counter requires.
type prometheusCounter struct {
	c prometheus.Counter
}

func (c prometheusCounter) Add(n int64) { c.c.Add(float64(n)) }

// prometheusGauge adapts prometheus.Gauge's Inc/Dec/Add surface to the
// single Add(int64) method UpDownCounter requires.
type prometheusGauge struct {
	g prometheus.Gauge
}

func (g prometheusGauge) Add(n int64) { g.g.Add(float64(n)) }

// prometheusHistogram adapts prometheus.Observer's Observe method to the
// Record method Histogram requires.
type prometheusHistogram struct {
	o prometheus.Observer
}

func (h prometheusHistogram) Record(v float64) { h.o.Observe(v) }
