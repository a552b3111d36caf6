package middleware

import (
	"net/http"
	"sync/atomic"
)

// MetricsCollector counts requests by outcome.
type MetricsCollector struct {
	requests     atomic.Int64
	inFlight     atomic.Int64
	clientErrors atomic.Int64
	serverErrors atomic.Int64
	requestBytes atomic.Int64
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	Requests     int64 `json:"request_count"`
	InFlight     int64 `json:"in_flight"`
	ClientErrors int64 `json:"client_error_count"`
	ServerErrors int64 `json:"server_error_count"`
	RequestBytes int64 `json:"request_bytes"`
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{}
}

func (mc *MetricsCollector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mc.requests.Add(1)
		mc.inFlight.Add(1)
		defer mc.inFlight.Add(-1)
		if r.ContentLength > 0 {
			mc.requestBytes.Add(r.ContentLength)
		}

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		switch {
		case rw.statusCode >= 500:
			mc.serverErrors.Add(1)
		case rw.statusCode >= 400:
			mc.clientErrors.Add(1)
		}
	})
}

func (mc *MetricsCollector) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Requests:     mc.requests.Load(),
		InFlight:     mc.inFlight.Load(),
		ClientErrors: mc.clientErrors.Load(),
		ServerErrors: mc.serverErrors.Load(),
		RequestBytes: mc.requestBytes.Load(),
	}
}
