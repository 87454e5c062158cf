// Package metrics exports visualize request metrics to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"fnplot.com/master/plot"
)

// Recorder implements plot.Observer.
type Recorder struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	gaps     *prometheus.CounterVec
}

var _ plot.Observer = (*Recorder)(nil)

// NewRecorder creates the collectors and registers them on reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fnplot_visualize_requests_total",
				Help: "Total number of visualize requests",
			},
			[]string{"mode", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fnplot_visualize_duration_seconds",
				Help:    "Time spent compiling and sampling a curve",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"mode"},
		),
		gaps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fnplot_gap_samples_total",
				Help: "Samples replaced by a gap marker",
			},
			[]string{"mode"},
		),
	}
	for _, c := range []prometheus.Collector{r.requests, r.duration, r.gaps} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Recorder) ObserveVisualize(mode plot.Mode, outcome string, gaps int, elapsed time.Duration) {
	label := modeLabel(mode)
	r.requests.WithLabelValues(label, outcome).Inc()
	r.duration.WithLabelValues(label).Observe(elapsed.Seconds())
	if gaps > 0 {
		r.gaps.WithLabelValues(label).Add(float64(gaps))
	}
}

// modeLabel keeps label cardinality bounded when a caller passes a bogus
// mode.
func modeLabel(mode plot.Mode) string {
	for _, m := range plot.Modes {
		if m == mode {
			return m.String()
		}
	}
	return "invalid"
}
