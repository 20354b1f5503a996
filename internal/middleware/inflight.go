package middleware

import "net/http"

// InFlightGate bounds concurrent requests on a route. The analyze flow is
// one-request-at-a-time: a single slot, excess callers get 429 instead of
// queueing behind a long model call.
type InFlightGate struct {
	slots chan struct{}
}

func NewInFlightGate(n int) *InFlightGate {
	if n <= 0 {
		n = 1
	}
	return &InFlightGate{slots: make(chan struct{}, n)}
}

func (g *InFlightGate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case g.slots <- struct{}{}:
			defer func() { <-g.slots }()
			next.ServeHTTP(w, r)
		default:
			w.Header().Set("Retry-After", "5")
			http.Error(w, "an analysis is already running, please try again shortly", http.StatusTooManyRequests)
		}
	})
}
