package connection

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/rebeliceyang/lazymongo/internal/models"
)

// DefaultURI is used when a configuration has no URI
const DefaultURI = "mongodb://localhost:27017"

// Client wraps mongo.Client with our configuration
type Client struct {
	client *mongo.Client
	config models.ConnectionConfig
}

// Options tunes the driver connection pool
type Options struct {
	MaxPoolSize    uint64
	ConnectTimeout time.Duration
}

// NewClient connects to the deployment described by config and pings it
func NewClient(ctx context.Context, config models.ConnectionConfig, opts Options) (*Client, error) {
	uri := config.URI
	if uri == "" {
		uri = DefaultURI
	}
	if opts.MaxPoolSize == 0 {
		opts.MaxPoolSize = 5
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 10 * time.Second
	}

	clientOpts := options.Client().
		ApplyURI(uri).
		SetAppName("lazymongo").
		SetMaxPoolSize(opts.MaxPoolSize).
		SetMinPoolSize(1).
		SetMaxConnIdleTime(30 * time.Minute).
		SetConnectTimeout(opts.ConnectTimeout).
		SetServerSelectionTimeout(opts.ConnectTimeout)
	if err := clientOpts.Validate(); err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	// Test connection
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Client{
		client: client,
		config: config,
	}, nil
}

// Close disconnects the client
func (c *Client) Close(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Disconnect(ctx)
}

// Ping tests the connection
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Config returns the configuration the client was created with
func (c *Client) Config() models.ConnectionConfig {
	return c.config
}

// Mongo returns the underlying driver client
func (c *Client) Mongo() *mongo.Client {
	return c.client
}

// Collection returns a handle on a collection
func (c *Client) Collection(database, collection string) *mongo.Collection {
	return c.client.Database(database).Collection(collection)
}
