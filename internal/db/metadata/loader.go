package metadata

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"github.com/rebeliceyang/lazymongo/internal/cache"
	"github.com/rebeliceyang/lazymongo/internal/db/query"
	"github.com/rebeliceyang/lazymongo/internal/document"
	"github.com/rebeliceyang/lazymongo/internal/filter"
	"github.com/rebeliceyang/lazymongo/internal/models"
)

// PageRequest describes one page of a filtered find
type PageRequest struct {
	Namespace string // database.collection, part of the cache key
	Filter    bson.D
	Columns   []string
	Sort      models.SortSpec
	Skip      int64
	Limit     int64
}

// Loader fetches pages and aggregation results through a cache
type Loader struct {
	// AllowDiskUse lets aggregation stages spill to disk
	AllowDiskUse bool

	exec   query.Executor
	pages  *cache.Cache[[]bson.D]
	counts *cache.Cache[int64]
	logger *slog.Logger
}

// NewLoader creates a loader caching up to cacheSize pages
func NewLoader(exec query.Executor, cacheSize int, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		AllowDiskUse: true,
		exec:         exec,
		pages:        cache.New[[]bson.D](cacheSize, logger),
		counts:       cache.New[int64](cacheSize, logger),
		logger:       logger,
	}
}

// Invalidate drops every cached page and count
func (l *Loader) Invalidate() {
	l.pages.Invalidate()
	l.counts.Invalidate()
}

// CacheStats returns the page cache counters
func (l *Loader) CacheStats() cache.Stats {
	return l.pages.Stats()
}

// LoadPage counts the matching documents, counts the whole collection and
// fetches the requested page concurrently
func (l *Loader) LoadPage(ctx context.Context, req PageRequest) (*models.TableData, error) {
	start := time.Now()
	if req.Filter == nil {
		req.Filter = bson.D{}
	}

	var (
		total, totalAll int64
		docs            []bson.D
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := l.count(gctx, req.Namespace, req.Filter)
		total = n
		return err
	})
	g.Go(func() error {
		if len(req.Filter) == 0 {
			return nil
		}
		n, err := l.count(gctx, req.Namespace, bson.D{})
		totalAll = n
		return err
	})
	g.Go(func() error {
		d, err := l.find(gctx, req)
		docs = d
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(req.Filter) == 0 {
		totalAll = total
	}

	columns := mergeColumns(req.Columns, document.Columns(docs))
	return &models.TableData{
		Columns:   columns,
		Rows:      document.Rows(docs, columns),
		TotalRows: total,
		TotalAll:  totalAll,
		Duration:  time.Since(start),
	}, nil
}

func (l *Loader) count(ctx context.Context, ns string, filter bson.D) (int64, error) {
	key, err := cache.CountKey(ns, filter)
	if err != nil {
		return 0, err
	}
	if n, ok := l.counts.Get(key); ok {
		return n, nil
	}

	n, err := l.exec.Count(ctx, filter)
	if err != nil {
		return 0, err
	}
	l.counts.Put(key, n)
	return n, nil
}

func (l *Loader) find(ctx context.Context, req PageRequest) ([]bson.D, error) {
	key, err := cache.PageKey(req.Namespace, req.Filter, req.Skip, req.Limit, req.Sort.Column, req.Sort.Dir())
	if err != nil {
		return nil, err
	}
	if docs, ok := l.pages.Get(key); ok {
		l.logger.Debug("page cache hit", "namespace", req.Namespace, "skip", req.Skip)
		return docs, nil
	}

	opts := query.FindOptions{
		Projection: bson.D{{Key: "_id", Value: 0}},
		Skip:       req.Skip,
		Limit:      req.Limit,
	}
	if req.Sort.Column != "" {
		opts.Sort = bson.D{{Key: req.Sort.Column, Value: req.Sort.Dir()}}
	}

	docs, err := l.exec.Find(ctx, req.Filter, opts)
	if err != nil {
		return nil, err
	}
	l.pages.Put(key, docs)
	return docs, nil
}

// RunAggregation executes a group-by pipeline and shapes the groups as a table
// whose columns are the group-by column and the computed column
func (l *Loader) RunAggregation(ctx context.Context, ns string, pipeline mongo.Pipeline, spec models.AggregationSpec) (*models.TableData, error) {
	start := time.Now()

	key, err := cache.PipelineKey(ns, pipeline)
	if err != nil {
		return nil, err
	}
	docs, ok := l.pages.Get(key)
	if !ok {
		docs, err = l.exec.Aggregate(ctx, pipeline, l.AllowDiskUse)
		if err != nil {
			return nil, err
		}
		l.pages.Put(key, docs)
	}

	valueField := filter.ResultField
	if spec.Func == models.AggCount {
		valueField = filter.CountField
	}

	rows := make([][]string, len(docs))
	for i, doc := range docs {
		id, _ := document.Lookup(doc, filter.GroupKeyField)
		v, _ := document.Lookup(doc, valueField)
		rows[i] = []string{document.FormatValue(id), document.FormatValue(v)}
	}

	return &models.TableData{
		Columns:   []string{spec.GroupBy, spec.ResultColumn()},
		Rows:      rows,
		TotalRows: int64(len(rows)),
		TotalAll:  int64(len(rows)),
		Duration:  time.Since(start),
	}, nil
}

// mergeColumns appends the columns found in a page to the known ones
func mergeColumns(known, found []string) []string {
	seen := make(map[string]bool, len(known))
	out := make([]string, 0, len(known)+len(found))
	for _, c := range known {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, c := range found {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// String describes a request for logs
func (r PageRequest) String() string {
	return fmt.Sprintf("%s skip=%d limit=%d sort=%s:%d", r.Namespace, r.Skip, r.Limit, r.Sort.Column, r.Sort.Dir())
}
