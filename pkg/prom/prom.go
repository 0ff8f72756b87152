// Package prom registers the process metrics and exposes them to the
// fasthttp server.
package prom

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const (
	labelOp     = "op"
	labelStatus = "status"

	statusOK    = "ok"
	statusError = "error"
)

var (
	mu      sync.Mutex
	enabled atomic.Bool

	storeOps *prometheus.CounterVec
	storeDur *prometheus.HistogramVec
)

// Create registers the metric families once. env/instance become constant
// labels so multiple deployments can share a scrape config.
func Create(namespace, env, instance string) error {
	mu.Lock()
	defer mu.Unlock()
	if enabled.Load() {
		return nil
	}

	constLabels := prometheus.Labels{"env": env, "instance": instance}

	storeOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   "store",
		Name:        "operations_total",
		Help:        "Ledger store operations by outcome.",
		ConstLabels: constLabels,
	}, []string{labelOp, labelStatus})

	storeDur = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   namespace,
		Subsystem:   "store",
		Name:        "operation_duration_seconds",
		Help:        "Ledger store operation latency.",
		ConstLabels: constLabels,
		Buckets:     prometheus.DefBuckets,
	}, []string{labelOp})

	if err := prometheus.Register(storeOps); err != nil {
		return err
	}
	if err := prometheus.Register(storeDur); err != nil {
		return err
	}
	enabled.Store(true)
	return nil
}

// ObserveStoreOp records one store operation. No-op until Create has run, so
// tests and the CLI don't need the metric system.
func ObserveStoreOp(op string, start time.Time, err error) {
	if !enabled.Load() {
		return
	}
	status := statusOK
	if err != nil {
		status = statusError
	}
	storeOps.WithLabelValues(op, status).Inc()
	storeDur.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Handler adapts the promhttp handler for the fasthttp server.
func Handler() fasthttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
}
