package middlewares

import (
	"context"
	"net/http"
	"time"
)

// BodyLimit caps every request body at App.RequestBodyLimitInMegabyte.
func (m *Middlewares) BodyLimit(next http.Handler) http.Handler {
	limit := int64(m.InternalConfig.App.RequestBodyLimitInMegabyte) << 20
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if limit > 0 && r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
		}
		next.ServeHTTP(w, r)
	})
}

// RequestTimeout bounds the request context, which every workflow transition observes.
func (m *Middlewares) RequestTimeout(next http.Handler) http.Handler {
	timeout := time.Duration(m.InternalConfig.App.RequestTimeoutInSeconds) * time.Second
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if timeout <= 0 {
			next.ServeHTTP(w, r)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
