package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

const (
	messageLimit  = 10
	messageWindow = time.Minute
)

// rateLimit chaveia pelo RemoteAddr; X-Forwarded-For só vale quando o
// router usa middleware.RealIP atrás de um proxy confiável.
func rateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(limit, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			writeErrorResponse(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.")
		}),
	)
}
