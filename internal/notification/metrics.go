package notification

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts report email sends.
type Metrics struct {
	sendLatency prometheus.Histogram
	errorCount  prometheus.Counter
	sentCount   prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "reports_email_send_duration_seconds",
			Help:    "Time taken to compose and send report emails",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
		errorCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reports_email_errors_total",
			Help: "Total number of report emails that failed",
		}),
		sentCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reports_email_sent_total",
			Help: "Total number of report emails sent",
		}),
	}
	reg.MustRegister(m.sendLatency, m.errorCount, m.sentCount)
	return m
}

func (m *Metrics) observe(start time.Time, err error) {
	if m == nil {
		return
	}
	m.sendLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		m.errorCount.Inc()
		return
	}
	m.sentCount.Inc()
}
