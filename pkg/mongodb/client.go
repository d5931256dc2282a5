package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/wms-platform/warehouse-ops/pkg/logging"
	"github.com/wms-platform/warehouse-ops/pkg/resilience"
)

// Config holds MongoDB connection settings. Transactions need a replica set.
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
	MinPoolSize    uint64
}

// Client owns the driver connection and the warehouse database handle
type Client struct {
	client   *mongo.Client
	database *mongo.Database
}

// Connect dials MongoDB and waits for the primary, retrying on the startup
// backoff so the binaries survive a database that boots after them
func Connect(ctx context.Context, cfg *Config, logger *logging.Logger) (*Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetRegistry(Registry())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("invalid MongoDB settings: %w", err)
	}

	err = resilience.Retry(ctx, resilience.StartupBackoff(), "ping mongodb primary", logger, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return client.Ping(pingCtx, readpref.Primary())
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &Client{client: client, database: client.Database(cfg.Database)}, nil
}

// Wrap adopts a connected driver client, as handed out by test containers
func Wrap(client *mongo.Client, database string) *Client {
	return &Client{
		client:   client,
		database: client.Database(database, options.Database().SetRegistry(Registry())),
	}
}

func (c *Client) Database() *mongo.Database {
	return c.database
}

func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// HealthCheck pings the primary
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// WithTransaction runs fn in a multi-document transaction. The driver retries
// fn on transient transaction errors, so fn must be safe to repeat.
func (c *Client) WithTransaction(ctx context.Context, fn func(sessCtx mongo.SessionContext) error) error {
	session, err := c.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	})
	return err
}
