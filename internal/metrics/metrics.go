// Package metrics exposes Prometheus instruments for the ledger and the
// reminder pipeline.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gosuda/unistay/internal/domain"
)

// Mutation outcomes.
const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Recorder owns a private registry so that several recorders can coexist in
// one process (tests). All methods are safe on a nil receiver.
type Recorder struct {
	registry  *prometheus.Registry
	mutations *prometheus.CounterVec
	drafts    *prometheus.CounterVec
	sent      prometheus.Counter
	version   prometheus.Gauge
}

// New creates a Recorder with Go runtime and process collectors attached.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "unistay",
			Name:      "mutations_total",
			Help:      "Ledger commands by name and outcome.",
		}, []string{"command", "outcome"}),
		drafts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "unistay",
			Name:      "reminder_drafts_total",
			Help:      "Reminder drafts by source (generated or fallback).",
		}, []string{"source"}),
		sent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "unistay",
			Name:      "reminders_sent_total",
			Help:      "Reminders delivered to tenants.",
		}),
		version: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "unistay",
			Name:      "snapshot_version",
			Help:      "Version of the committed snapshot.",
		}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.mutations,
		r.drafts,
		r.sent,
		r.version,
	)
	return r
}

// ObserveMutation counts a dispatched command. A nil err is "applied", a
// *domain.Rejection is "rejected", anything else is "error".
func (r *Recorder) ObserveMutation(command string, err error) {
	if r == nil {
		return
	}
	r.mutations.WithLabelValues(command, Outcome(err)).Inc()
}

// ObserveDraft counts a reminder draft by source.
func (r *Recorder) ObserveDraft(source string) {
	if r == nil {
		return
	}
	r.drafts.WithLabelValues(source).Inc()
}

// ObserveReminderSent counts a delivered reminder.
func (r *Recorder) ObserveReminderSent() {
	if r == nil {
		return
	}
	r.sent.Inc()
}

// SetVersion records the committed snapshot version.
func (r *Recorder) SetVersion(v uint64) {
	if r == nil {
		return
	}
	r.version.Set(float64(v))
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Outcome classifies a dispatch error into a mutation outcome label.
func Outcome(err error) string {
	if err == nil {
		return OutcomeApplied
	}
	var rej *domain.Rejection
	if errors.As(err, &rej) {
		return OutcomeRejected
	}
	return OutcomeError
}
