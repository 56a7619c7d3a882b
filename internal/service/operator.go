package service

import (
	"context"
	"errors"

	"rental_billing/internal/models"
)

type operatorKey struct{}

var errNoOperator = errors.New("operator not found in context")

// WithOperator stores the authenticated operator on the context.
func WithOperator(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, operatorKey{}, user)
}

// OperatorFrom returns the operator stored by WithOperator.
func OperatorFrom(ctx context.Context) (*models.User, error) {
	u, ok := ctx.Value(operatorKey{}).(*models.User)
	if !ok || u == nil {
		return nil, errNoOperator
	}
	return u, nil
}
