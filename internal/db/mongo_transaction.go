package db

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// MongoTransactionManager runs callbacks in multi-document transactions. It
// needs a replica set.
type MongoTransactionManager struct {
	client *mongo.Client
	opts   *options.TransactionOptions
}

// NewMongoTransactionManager uses snapshot reads and majority writes, so a
// bill and its payment log commit together or not at all.
func NewMongoTransactionManager(client *mongo.Client) TransactionManager {
	return &MongoTransactionManager{
		client: client,
		opts: options.Transaction().
			SetReadConcern(readconcern.Snapshot()).
			SetWriteConcern(writeconcern.Majority()),
	}
}

// WithTransaction runs fn in a transaction. The driver retries fn on
// transient errors, so fn must not have side effects outside the session.
func (m *MongoTransactionManager) WithTransaction(ctx context.Context, fn func(sessCtx context.Context) (interface{}, error)) (interface{}, error) {
	session, err := m.client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	// mongo.SessionContext is a context.Context.
	return session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return fn(sessCtx)
	}, m.opts)
}
