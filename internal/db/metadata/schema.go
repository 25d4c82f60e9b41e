package metadata

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/rebeliceyang/lazymongo/internal/db/query"
	"github.com/rebeliceyang/lazymongo/internal/document"
	"github.com/rebeliceyang/lazymongo/internal/models"
)

const (
	// SampleSize is the number of documents inspected to build the schema
	SampleSize = 500
	// distinctThreshold is the cardinality below which sample values are kept
	distinctThreshold = 50
	// maxSampleValues bounds the values kept per column
	maxSampleValues = 30
)

// MixedType is the hint of a column holding values of several types
const MixedType = "mixed"

// DetectSchema samples up to size documents (SampleSize when size <= 0) and
// derives the columns, a type hint per column and, for low-cardinality
// columns, their values
func DetectSchema(ctx context.Context, exec query.Executor, size int) (models.Schema, error) {
	if size <= 0 {
		size = SampleSize
	}
	docs, err := exec.Find(ctx, bson.D{}, query.FindOptions{
		Projection: bson.D{{Key: "_id", Value: 0}},
		Limit:      int64(size),
	})
	if err != nil {
		return models.Schema{}, fmt.Errorf("failed to sample collection: %w", err)
	}
	return SchemaFromSample(docs), nil
}

// SchemaFromSample derives the schema of a set of sampled documents
func SchemaFromSample(docs []bson.D) models.Schema {
	schema := models.Schema{
		Columns:      document.Columns(docs),
		TypeHints:    make(map[string]string),
		SampleValues: make(map[string][]string),
	}

	types := make(map[string]map[string]bool)
	distinct := make(map[string]map[string]bool)
	for _, col := range schema.Columns {
		types[col] = make(map[string]bool)
		distinct[col] = make(map[string]bool)
	}

	for _, doc := range docs {
		for _, e := range doc {
			t := document.TypeName(e.Value)
			if t == "null" {
				continue
			}
			types[e.Key][t] = true
			if s := document.FormatValue(e.Value); s != "" {
				distinct[e.Key][s] = true
			}
		}
	}

	for _, col := range schema.Columns {
		schema.TypeHints[col] = typeHint(types[col])

		values := distinct[col]
		if len(values) == 0 || len(values) >= distinctThreshold {
			continue
		}
		sorted := make([]string, 0, len(values))
		for v := range values {
			sorted = append(sorted, v)
		}
		sort.Strings(sorted)
		if len(sorted) > maxSampleValues {
			sorted = sorted[:maxSampleValues]
		}
		schema.SampleValues[col] = sorted
	}

	return schema
}

func typeHint(seen map[string]bool) string {
	switch len(seen) {
	case 0:
		return "null"
	case 1:
		for t := range seen {
			return t
		}
	}
	// int and long together are still numbers of one kind
	numeric := true
	for t := range seen {
		if !document.IsNumeric(t) {
			numeric = false
			break
		}
	}
	if numeric {
		return "number"
	}
	return MixedType
}
