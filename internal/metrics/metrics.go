// Package metrics exports the companion's operational counters over
// Prometheus's text format, the same shape as the original's
// metrics_exporter (one IntCounter per major error class) expanded to the
// error kinds spec §7 actually defines, using client_golang's registry
// instead of lazy_static + prometheus_exporter since this is Go.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every counter/gauge the companion reports. All are
// registered at construction, never created lazily, so /metrics always
// shows every series (at zero) even before the condition it measures ever
// fires.
type Metrics struct {
	OracleEventGapTotal     prometheus.Counter
	OracleResyncTotal       prometheus.Counter
	TransientRPCTotal       *prometheus.CounterVec
	RelayerSubmissionsTotal *prometheus.CounterVec
	RelayerSkippedTotal     *prometheus.CounterVec
	SignerConfirmsTotal     *prometheus.CounterVec
	SafetyViolationsTotal   prometheus.Counter
	NonceOverflowTotal      prometheus.Counter
	GasTrackerSample        prometheus.Gauge
}

// New builds and registers every series against prometheus's default
// registry.
func New() *Metrics {
	return &Metrics{
		OracleEventGapTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bridgekeeper_oracle_event_gap_total",
			Help: "Oracle scan loop encountered a non-contiguous event nonce sequence.",
		}),
		OracleResyncTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bridgekeeper_oracle_resync_total",
			Help: "Oracle performed a history resync walk.",
		}),
		TransientRPCTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bridgekeeper_transient_rpc_errors_total",
			Help: "Retryable RPC errors talking to the EVM or PoS node, by chain.",
		}, []string{"chain"}),
		RelayerSubmissionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bridgekeeper_relayer_submissions_total",
			Help: "Artifacts successfully submitted to the bridge contract, by kind.",
		}, []string{"kind"}),
		RelayerSkippedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bridgekeeper_relayer_skipped_total",
			Help: "Artifacts the relay policy declined to submit, by kind and reason.",
		}, []string{"kind", "reason"}),
		SignerConfirmsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bridgekeeper_signer_confirms_total",
			Help: "Confirmations broadcast to the PoS chain, by kind.",
		}, []string{"kind"}),
		SafetyViolationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bridgekeeper_safety_invalid_balances_total",
			Help: "Cross-bridge solvency check found an invalid balance pair.",
		}),
		NonceOverflowTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bridgekeeper_nonce_overflow_total",
			Help: "A bridge contract getter reported a nonce outside the protocol's 64-bit space.",
		}),
		GasTrackerSample: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "bridgekeeper_gas_tracker_latest_wei",
			Help: "Most recently sampled EVM gas price, in wei.",
		}),
	}
}

// Serve starts an HTTP server exposing /metrics on addr and blocks until
// ctx is cancelled, at which point it shuts down gracefully.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	case err := <-errc:
		return err
	}
}
