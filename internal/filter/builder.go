package filter

import (
	"fmt"
	"log/slog"

	"github.com/rebeliceyang/lazymongo/internal/models"
)

// DefaultEmptyMarker is the token users type to mean "no value"
const DefaultEmptyMarker = "[EMPTY]"

// Policy selects how column filters are combined with each other
type Policy string

const (
	// PolicyAnd conjoins every active filter and ignores per-filter connectors
	PolicyAnd Policy = "and"
	// PolicyConnector folds filters left to right with their AND/OR/NOT connectors
	PolicyConnector Policy = "connector"
	// PolicyConnectorNor is PolicyConnector plus the NOR connector
	PolicyConnectorNor Policy = "connector_nor"
)

// ParsePolicy resolves a configuration value to a policy, defaulting to PolicyAnd
func ParsePolicy(s string) Policy {
	switch Policy(s) {
	case PolicyConnector, PolicyConnectorNor:
		return Policy(s)
	default:
		return PolicyAnd
	}
}

// Builder compiles filter rows, search text and aggregation specs into
// MongoDB filter documents and pipelines
type Builder struct {
	EmptyMarker      string
	Policy           Policy
	AggregationLimit int
	Logger           *slog.Logger
}

// NewBuilder creates a new filter builder
func NewBuilder() *Builder {
	return &Builder{
		EmptyMarker: DefaultEmptyMarker,
		Policy:      PolicyAnd,
		Logger:      slog.Default(),
	}
}

// BuildQuery compiles the column filters and the search text into the final filter
func (b *Builder) BuildQuery(filters []models.ColumnFilter, search string, columns []string) Predicate {
	base := b.BuildFilterDocument(filters)
	return Conjoin(base, b.BuildSearch(search, columns))
}

// guard turns a panic inside a compiling function into "no predicate"
func (b *Builder) guard(stage string, out *Predicate) {
	if r := recover(); r != nil {
		b.logger().Error("query compilation failed", "stage", stage, "panic", fmt.Sprint(r))
		*out = nil
	}
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.Default()
	}
	return b.Logger
}
