package app

import (
	"github.com/rebeliceyang/lazymongo/internal/db/metadata"
	"github.com/rebeliceyang/lazymongo/internal/models"
)

// DiscoveryCompleteMsg is sent when discovery completes
type DiscoveryCompleteMsg struct {
	Instances []models.DiscoveredInstance
}

// ErrorMsg is sent when an error occurs
type ErrorMsg struct {
	Title   string
	Message string
}

// ConnectedMsg is sent when a connection attempt finishes
type ConnectedMsg struct {
	ID     string
	Config models.ConnectionConfig
	Err    error
}

// DatabasesLoadedMsg carries the databases of the active connection
type DatabasesLoadedMsg struct {
	Databases []metadata.Database
	Err       error
}

// CollectionsLoadedMsg carries the collections of one database
type CollectionsLoadedMsg struct {
	Database    string
	Collections []string
	Err         error
}

// SchemaLoadedMsg is sent when the sampled schema of a collection is ready
type SchemaLoadedMsg struct {
	Namespace string
	Schema    models.Schema
	Err       error
}

// PageLoadedMsg carries one page of documents. ID ties it to the request
// that produced it; responses to superseded requests are dropped.
type PageLoadedMsg struct {
	ID   uint64
	Data *models.TableData
	Err  error
}

// AggregationLoadedMsg carries the groups of an aggregation
type AggregationLoadedMsg struct {
	ID   uint64
	Data *models.TableData
	Err  error
}

// RefetchMsg is sent by the debounce scheduler once edits have settled
type RefetchMsg struct{}

// ExportDoneMsg is sent when an export finishes
type ExportDoneMsg struct {
	Path string
	Err  error
}
