package http

import (
	"net/http"

	"go.uber.org/zap"

	"rental_billing/internal/limiter"
	"rental_billing/internal/service"
)

// CreateRateLimitMiddleware limits requests per operator. It must run after
// the auth middleware.
func CreateRateLimitMiddleware(l limiter.Allower, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			operator, err := service.OperatorFrom(r.Context())
			if err != nil {
				service.WriteHttpError(w, http.StatusUnauthorized, "Unauthorized: operator not found in context.")
				return
			}

			allowed, err := l.Allow(r.Context(), operator.UserId.Hex())
			if err != nil {
				logger.Error("rate limit check failed", zap.Error(err))
				service.WriteHttpError(w, http.StatusInternalServerError, "Failed to check rate limit.")
				return
			}

			if !allowed {
				service.WriteHttpError(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
