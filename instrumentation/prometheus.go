package instrumentation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMeasurer records counters and timings as prometheus metrics labelled by activity and metric name
type PrometheusMeasurer struct {
	counters *prometheus.CounterVec
	timings  *prometheus.HistogramVec
}

var (
	_ Measurer             = (*PrometheusMeasurer)(nil)
	_ prometheus.Collector = (*PrometheusMeasurer)(nil)
)

func NewPrometheusMeasurer(namespace string) *PrometheusMeasurer {
	return &PrometheusMeasurer{
		counters: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Number of pull iterator events by activity",
		}, []string{"activity", "name"}),
		timings: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "duration_seconds",
			Help:      "Time spent in pull iterator operations by activity",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"activity", "name"}),
	}
}

func (p *PrometheusMeasurer) Incr(activity string, name string, value float64) {
	p.counters.WithLabelValues(activity, name).Add(value)
}

func (p *PrometheusMeasurer) Timing(activity string, name string, value time.Duration) {
	p.timings.WithLabelValues(activity, name).Observe(value.Seconds())
}

// Describe implements prometheus.Collector
func (p *PrometheusMeasurer) Describe(ch chan<- *prometheus.Desc) {
	p.counters.Describe(ch)
	p.timings.Describe(ch)
}

// Collect implements prometheus.Collector
func (p *PrometheusMeasurer) Collect(ch chan<- prometheus.Metric) {
	p.counters.Collect(ch)
	p.timings.Collect(ch)
}
