package db

import "context"

// TransactionManager runs fn atomically. Logic code receives sessCtx and
// passes it to every repository call that belongs to the unit of work.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(sessCtx context.Context) (interface{}, error)) (interface{}, error)
}
