package query

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FindOptions are the paging and ordering parameters of a find
type FindOptions struct {
	Projection bson.D
	Sort       bson.D
	Skip       int64
	Limit      int64
}

// Executor is the subset of the driver the browser depends on
type Executor interface {
	Count(ctx context.Context, filter bson.D) (int64, error)
	Find(ctx context.Context, filter bson.D, opts FindOptions) ([]bson.D, error)
	Aggregate(ctx context.Context, pipeline mongo.Pipeline, allowDiskUse bool) ([]bson.D, error)
}

// MongoExecutor runs queries against one collection
type MongoExecutor struct {
	coll *mongo.Collection
}

// NewMongoExecutor creates an executor bound to coll
func NewMongoExecutor(coll *mongo.Collection) *MongoExecutor {
	return &MongoExecutor{coll: coll}
}

// Name returns the namespace the executor is bound to
func (e *MongoExecutor) Name() string {
	return e.coll.Database().Name() + "." + e.coll.Name()
}

// Count returns the number of documents matching filter.
// An empty filter uses the collection metadata estimate.
func (e *MongoExecutor) Count(ctx context.Context, filter bson.D) (int64, error) {
	var (
		n   int64
		err error
	)
	if len(filter) == 0 {
		n, err = e.coll.EstimatedDocumentCount(ctx)
	} else {
		n, err = e.coll.CountDocuments(ctx, filter)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return n, nil
}

// Find returns one page of documents
func (e *MongoExecutor) Find(ctx context.Context, filter bson.D, opts FindOptions) ([]bson.D, error) {
	if filter == nil {
		filter = bson.D{}
	}

	findOpts := options.Find()
	if len(opts.Projection) > 0 {
		findOpts.SetProjection(opts.Projection)
	}
	if len(opts.Sort) > 0 {
		findOpts.SetSort(opts.Sort)
	}
	if opts.Skip > 0 {
		findOpts.SetSkip(opts.Skip)
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}

	cursor, err := e.coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to find documents: %w", err)
	}

	var docs []bson.D
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}
	return docs, nil
}

// Aggregate runs a pipeline and returns every result document
func (e *MongoExecutor) Aggregate(ctx context.Context, pipeline mongo.Pipeline, allowDiskUse bool) ([]bson.D, error) {
	cursor, err := e.coll.Aggregate(ctx, pipeline, options.Aggregate().SetAllowDiskUse(allowDiskUse))
	if err != nil {
		return nil, fmt.Errorf("failed to run aggregation: %w", err)
	}

	var docs []bson.D
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to read aggregation results: %w", err)
	}
	return docs, nil
}
