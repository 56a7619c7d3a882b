package db

import "context"

// NoOpTransactionManager runs callbacks directly. Dev and test use it with a
// standalone mongod, which has no transactions.
type NoOpTransactionManager struct{}

func NewNoOpTransactionManager() TransactionManager {
	return &NoOpTransactionManager{}
}

func (n *NoOpTransactionManager) WithTransaction(ctx context.Context, fn func(sessCtx context.Context) (interface{}, error)) (interface{}, error) {
	return fn(ctx)
}
