package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "contacts"

// PrometheusRecorder exports metrics through a Prometheus registry.
type PrometheusRecorder struct {
	persons         *prometheus.CounterVec
	countriesAdded  prometheus.Counter
	countriesImport prometheus.Counter
	exportDuration  *prometheus.HistogramVec
	loginAttempts   *prometheus.CounterVec
	eventsPublished *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// NewPrometheus registers the application collectors on reg.
func NewPrometheus(reg prometheus.Registerer) *PrometheusRecorder {
	factory := promauto.With(reg)

	return &PrometheusRecorder{
		persons: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "person_changes_total",
			Help:      "Person records added, updated or deleted",
		}, []string{"op"}),

		countriesAdded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "countries_added_total",
			Help:      "Countries added one at a time",
		}),

		countriesImport: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "countries_imported_total",
			Help:      "Countries inserted from uploaded spreadsheets",
		}),

		exportDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "export_duration_seconds",
			Help:      "Time spent rendering person exports",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"format"}),

		loginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome",
		}, []string{"status"}),

		eventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Change events sent to the message broker",
		}, []string{"status"}),

		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func (p *PrometheusRecorder) IncPersonAdded() { p.persons.WithLabelValues("added").Inc() }
func (p *PrometheusRecorder) IncPersonUpdated() { p.persons.WithLabelValues("updated").Inc() }
func (p *PrometheusRecorder) IncPersonDeleted() { p.persons.WithLabelValues("deleted").Inc() }
func (p *PrometheusRecorder) IncCountryAdded() { p.countriesAdded.Inc() }

func (p *PrometheusRecorder) AddCountriesImported(n int) {
	if n > 0 {
		p.countriesImport.Add(float64(n))
	}
}

func (p *PrometheusRecorder) ObserveExportDuration(format string, duration time.Duration) {
	p.exportDuration.WithLabelValues(format).Observe(duration.Seconds())
}

func (p *PrometheusRecorder) IncLoginAttempt(status string) {
	p.loginAttempts.WithLabelValues(status).Inc()
}

func (p *PrometheusRecorder) IncEventPublished(status string) {
	p.eventsPublished.WithLabelValues(status).Inc()
}

func (p *PrometheusRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	p.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}
