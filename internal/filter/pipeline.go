package filter

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rebeliceyang/lazymongo/internal/models"
)

// Result field names produced by the $group stage
const (
	GroupKeyField = "_id"
	CountField    = "count"
	ResultField   = "result"
)

// BuildPipeline compiles a group-by aggregation over the documents matching base.
// Missing parameters are reported before any stage is built.
func (b *Builder) BuildPipeline(base Predicate, spec models.AggregationSpec, sort models.SortSpec) (mongo.Pipeline, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	var pipeline mongo.Pipeline
	if !IsAll(base) {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: Document(base)}})
	}

	pipeline = append(pipeline, bson.D{{Key: "$group", Value: groupStage(spec)}})

	if spec.Func.IsStdDev() {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.D{
			{Key: ResultField, Value: bson.D{{Key: "$ne", Value: nil}}},
		}}})
	}

	pipeline = append(pipeline, bson.D{{Key: "$sort", Value: sortStage(spec, sort)}})

	if b.AggregationLimit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: b.AggregationLimit}})
	}

	return pipeline, nil
}

func groupStage(spec models.AggregationSpec) bson.D {
	group := bson.D{{Key: GroupKeyField, Value: "$" + spec.GroupBy}}

	if spec.Func == models.AggCount {
		return append(group, bson.E{Key: CountField, Value: bson.D{{Key: "$sum", Value: 1}}})
	}

	var operand any = "$" + spec.Target
	if spec.Func.IsStdDev() {
		// non-numeric and missing values contribute null, which $stdDev* skips
		operand = bson.D{{Key: "$cond", Value: bson.A{
			bson.D{{Key: "$isNumber", Value: "$" + spec.Target}},
			"$" + spec.Target,
			nil,
		}}}
	}
	return append(group, bson.E{
		Key:   ResultField,
		Value: bson.D{{Key: "$" + string(spec.Func), Value: operand}},
	})
}

func sortStage(spec models.AggregationSpec, sort models.SortSpec) bson.D {
	if sort.Column == "" || sort.Column == spec.GroupBy {
		return bson.D{{Key: GroupKeyField, Value: sort.Dir()}}
	}
	field := ResultField
	if spec.Func == models.AggCount {
		field = CountField
	}
	return bson.D{{Key: field, Value: sort.Dir()}}
}

// PipelineJSON renders a pipeline as Extended JSON for previews and history
func PipelineJSON(pipeline mongo.Pipeline) (string, error) {
	s, err := ExtJSON(bson.D{{Key: "pipeline", Value: pipeline}})
	if err != nil {
		return "", fmt.Errorf("failed to render pipeline: %w", err)
	}
	return s, nil
}
