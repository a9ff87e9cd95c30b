package metrics

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"TradeAdvisor/internal/model"
)

// Run outcomes used as the "result" label.
const (
	ResultOK               = "ok"
	ResultFetchError       = "fetch_error"
	ResultComputationError = "computation_error"
	ResultError            = "error"
)

// Metrics holds the advisor's Prometheus collectors on a private registry.
// A nil *Metrics records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	runs        *prometheus.CounterVec
	signals     *prometheus.CounterVec
	lastPrice   *prometheus.GaugeVec
	lastScore   *prometheus.GaugeVec
	runDuration prometheus.Summary
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "advisor_runs_total",
			Help: "Analysis runs by result.",
		}, []string{"result"}),
		signals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "advisor_signals_total",
			Help: "Generated signals by symbol and recommendation.",
		}, []string{"symbol", "recommendation"}),
		lastPrice: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "advisor_last_price",
			Help: "Price reported by the last successful run.",
		}, []string{"symbol"}),
		lastScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "advisor_last_score",
			Help: "Prediction score (0-100) of the last successful run.",
		}, []string{"symbol"}),
		runDuration: prometheus.NewSummary(prometheus.SummaryOpts{
			Name:       "advisor_run_duration_seconds",
			Help:       "Wall time of a full fetch-to-log pass.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}),
	}
	m.Registry.MustRegister(m.runs, m.signals, m.lastPrice, m.lastScore, m.runDuration)
	return m
}

// ObserveSignal records a successful run.
func (m *Metrics) ObserveSignal(symbol string, price float64, sig *model.Signal, took time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(ResultOK).Inc()
	m.signals.WithLabelValues(symbol, string(sig.Recommendation)).Inc()
	m.lastPrice.WithLabelValues(symbol).Set(price)
	m.lastScore.WithLabelValues(symbol).Set(float64(sig.PredictionAccuracy))
	m.runDuration.Observe(took.Seconds())
}

// ObserveFailure records a failed run under result.
func (m *Metrics) ObserveFailure(result string, took time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(result).Inc()
	m.runDuration.Observe(took.Seconds())
}

// Handler exposes the registry in the text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("[INFO] metrics listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
