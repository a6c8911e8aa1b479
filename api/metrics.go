package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/battlesnakeio/nol/brain"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestsHistogramMetric = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nol",
			Subsystem: "api",
			Name:      "requests_duration",
			Help:      "Requests served by the snake api.",
		},
		[]string{"route", "code"},
	)
	decisionHistogramMetric = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "nol",
			Subsystem: "brain",
			Name:      "decision_duration",
			Help:      "Time spent deciding a move.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		},
	)
	movesCounterMetric = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nol",
			Subsystem: "brain",
			Name:      "moves_total",
			Help:      "Moves chosen, by move and whether hungry or forced.",
		},
		[]string{"move", "hungry", "fallback"},
	)
)

func init() {
	prometheus.MustRegister(requestsHistogramMetric, decisionHistogramMetric, movesCounterMetric)
}

// DecisionMetrics is a brain.Observer that exports decision latency and the
// chosen moves to prometheus.
var DecisionMetrics brain.Observer = brain.ObserverFunc(func(d *brain.Decision, elapsed time.Duration) {
	decisionHistogramMetric.Observe(elapsed.Seconds())
	movesCounterMetric.WithLabelValues(
		d.Move.String(),
		strconv.FormatBool(d.Hungry),
		strconv.FormatBool(d.Fallback),
	).Inc()
})

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func instrumented(route string, h httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		h(rec, r, ps)
		requestsHistogramMetric.
			WithLabelValues(route, strconv.Itoa(rec.code)).
			Observe(time.Since(start).Seconds())
	}
}
