package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Run outcomes.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Recorder owns the synchronization metrics and the registry they live in.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	people   *prometheus.CounterVec
	events   *prometheus.CounterVec
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_sync_runs_total",
			Help: "Synchronization runs by company and outcome.",
		}, []string{"company", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "roster_sync_run_duration_seconds",
			Help:    "Wall time of synchronization runs.",
			Buckets: prometheus.DefBuckets,
		}, []string{"company"}),
		people: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_sync_people_total",
			Help: "People processed by company and result (created, updated, failed, skipped).",
		}, []string{"company", "result"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_sync_events_total",
			Help: "Calendar events written or removed by company.",
		}, []string{"company", "op"}),
	}
	r.registry.MustRegister(r.runs, r.duration, r.people, r.events)
	return r
}

// ObserveRun records one finished run.
func (r *Recorder) ObserveRun(company, status string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.runs.WithLabelValues(company, status).Inc()
	r.duration.WithLabelValues(company).Observe(elapsed.Seconds())
}

// AddPeople adds n to the people counter for result.
func (r *Recorder) AddPeople(company, result string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.people.WithLabelValues(company, result).Add(float64(n))
}

// AddEvents adds n to the events counter for op (written, removed).
func (r *Recorder) AddEvents(company, op string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.events.WithLabelValues(company, op).Add(float64(n))
}

// Handler exposes the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve runs the /metrics listener until ctx is canceled.
func Serve(ctx context.Context, addr string, r *Recorder, log *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("Metrics listener started", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
