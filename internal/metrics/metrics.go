// Package metrics holds the Prometheus collectors for HTTP traffic and the
// absence workflow. All methods are safe on a nil *Service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

type Service struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	transitions     *prometheus.CounterVec
	submissions     *prometheus.CounterVec
	ledgerCommits   *prometheus.CounterVec
	notifications   *prometheus.CounterVec
	outboxRelayed   *prometheus.CounterVec
}

func NewService() *Service {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "absence_transitions_total",
		Help: "Absence workflow transitions by kind, outcome and result",
	}, []string{"kind", "outcome", "result"})

	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "absence_submissions_total",
		Help: "Absence requests submitted by kind and initial status",
	}, []string{"kind", "status"})

	ledgerCommits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_commits_total",
		Help: "Balance ledger commits by result",
	}, []string{"result"})

	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "absence_notifications_total",
		Help: "Notifications handed to the dispatcher by result",
	}, []string{"result"})

	outboxRelayed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_events_relayed_total",
		Help: "Outbox events relayed to the broker by result",
	}, []string{"result"})

	registry.MustRegister(
		requestDuration,
		requestTotal,
		transitions,
		submissions,
		ledgerCommits,
		notifications,
		outboxRelayed,
		collectors.NewGoCollector(),
	)

	return &Service{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		transitions:     transitions,
		submissions:     submissions,
		ledgerCommits:   ledgerCommits,
		notifications:   notifications,
		outboxRelayed:   outboxRelayed,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *Service) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

func (m *Service) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Service) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, code).Inc()
}

func (m *Service) ObserveTransition(kind, outcome string, err error) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(kind, outcome, result(err)).Inc()
}

func (m *Service) ObserveSubmission(kind, status string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(kind, status).Inc()
}

func (m *Service) ObserveLedgerCommit(err error) {
	if m == nil {
		return
	}
	m.ledgerCommits.WithLabelValues(result(err)).Inc()
}

func (m *Service) ObserveNotification(err error) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(result(err)).Inc()
}

func (m *Service) ObserveOutboxRelay(err error) {
	if m == nil {
		return
	}
	m.outboxRelayed.WithLabelValues(result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
