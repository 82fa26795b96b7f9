package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	PrintSessionsTotal  *prometheus.CounterVec
	LabelsRenderedTotal prometheus.Counter
	AuditRemoteTotal    *prometheus.CounterVec
	AuditLocalTotal     prometheus.Counter
	AuditProbeFailures  prometheus.Counter
	BasketLines         prometheus.Gauge
	PatientLookupsTotal *prometheus.CounterVec
	LoginAttemptsTotal  *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		PrintSessionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "medilabel_print_sessions_total",
			Help: "Print sessions by terminal state (done, failed)",
		}, []string{"state"}),
		LabelsRenderedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "medilabel_labels_rendered_total",
			Help: "Total label documents rendered",
		}),
		AuditRemoteTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "medilabel_audit_remote_writes_total",
			Help: "Remote audit write attempts by outcome (ok, failed)",
		}, []string{"outcome"}),
		AuditLocalTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "medilabel_audit_local_writes_total",
			Help: "Records appended to the local audit log",
		}),
		AuditProbeFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "medilabel_audit_probe_failures_total",
			Help: "Remote audit sink probes that failed or timed out",
		}),
		BasketLines: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "medilabel_basket_lines",
			Help: "Current number of lines in the basket",
		}),
		PatientLookupsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "medilabel_patient_lookups_total",
			Help: "Patient directory lookups by outcome (found, not_found)",
		}, []string{"outcome"}),
		LoginAttemptsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "medilabel_login_attempts_total",
			Help: "Login attempts by outcome (ok, failed)",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) RecordPrintSession(state string) {
	m.PrintSessionsTotal.WithLabelValues(state).Inc()
}

func (m *Metrics) RecordLabels(n int) {
	m.LabelsRenderedTotal.Add(float64(n))
}

func (m *Metrics) RecordRemoteAudit(ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	m.AuditRemoteTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordLocalAudit() {
	m.AuditLocalTotal.Inc()
}

func (m *Metrics) RecordProbeFailure() {
	m.AuditProbeFailures.Inc()
}

func (m *Metrics) SetBasketLines(n int) {
	m.BasketLines.Set(float64(n))
}

func (m *Metrics) RecordPatientLookup(outcome string) {
	m.PatientLookupsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordLogin(outcome string) {
	m.LoginAttemptsTotal.WithLabelValues(outcome).Inc()
}
