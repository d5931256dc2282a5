package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	pkgmongo "github.com/wms-platform/warehouse-ops/pkg/mongodb"
)

// Transactor runs units of work in a MongoDB session transaction. Calls
// made with a context that already carries a session join that session.
type Transactor struct {
	client *pkgmongo.Client
}

func NewTransactor(client *pkgmongo.Client) *Transactor {
	return &Transactor{client: client}
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}
	return t.client.WithTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		return fn(sessCtx)
	})
}
