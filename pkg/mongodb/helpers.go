package mongodb

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// IsDuplicateKey reports whether err is a unique index violation
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// IsNotFound reports whether err means no document matched
func IsNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
