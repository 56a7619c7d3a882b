package http

import (
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"rental_billing/internal/models"
	"rental_billing/internal/service"
)

// AuthMiddleware defines the function signature for our authentication middleware.
type AuthMiddleware func(http.Handler) http.Handler

// NewAuthMiddleware creates a middleware that resolves the operator from the
// X-User-Id and X-User-Name headers set by the gateway.
func NewAuthMiddleware() AuthMiddleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("X-User-Id")
			if raw == "" {
				service.WriteHttpError(w, http.StatusUnauthorized, "Unauthorized: Missing X-User-Id header")
				return
			}
			userID, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				service.WriteHttpError(w, http.StatusUnauthorized, "Unauthorized: invalid X-User-Id header")
				return
			}

			operator := &models.User{
				UserId: userID,
				Name:   strings.TrimSpace(r.Header.Get("X-User-Name")),
			}
			next.ServeHTTP(w, r.WithContext(service.WithOperator(r.Context(), operator)))
		})
	}
}
