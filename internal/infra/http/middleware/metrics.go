package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	stageMoves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_stage_moves_total",
			Help: "Confirmed board moves by source and destination stage",
		},
		[]string{"from", "to"},
	)

	moveRollbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_move_rollbacks_total",
			Help: "Optimistic moves rolled back after a failed store write",
		},
	)

	messagesDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_messages_dispatched_total",
			Help: "WhatsApp messages handed to the relay",
		},
		[]string{"status"},
	)

	lookupMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_agent_lookup_misses_total",
			Help: "Board cards rendered with the placeholder agent name, once per rendered board",
		},
	)

	boardSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pipeline_board_event_subscribers",
			Help: "Open board event streams",
		},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush mantém o streaming (SSE) funcionando através do wrapper.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern usa o padrão do chi (/prospects/{id}) para não explodir a cardinalidade.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

func RecordStageMove(from, to string) {
	stageMoves.WithLabelValues(from, to).Inc()
}

func RecordMoveRollback() {
	moveRollbacks.Inc()
}

func RecordDispatch(status string) {
	messagesDispatched.WithLabelValues(status).Inc()
}

func RecordLookupMisses(cards int) {
	if cards > 0 {
		lookupMisses.Add(float64(cards))
	}
}

func BoardSubscriberOpened() {
	boardSubscribers.Inc()
}

func BoardSubscriberClosed() {
	boardSubscribers.Dec()
}
