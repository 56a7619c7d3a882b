package mongodb

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

// translateWriteErr maps unique index violations to ErrDuplicate.
func translateWriteErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}
