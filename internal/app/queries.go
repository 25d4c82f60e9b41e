package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/rebeliceyang/lazymongo/internal/cache"
	"github.com/rebeliceyang/lazymongo/internal/db/metadata"
	"github.com/rebeliceyang/lazymongo/internal/db/query"
	"github.com/rebeliceyang/lazymongo/internal/document"
	"github.com/rebeliceyang/lazymongo/internal/export"
	"github.com/rebeliceyang/lazymongo/internal/filter"
	"github.com/rebeliceyang/lazymongo/internal/history"
	"github.com/rebeliceyang/lazymongo/internal/models"
	"github.com/rebeliceyang/lazymongo/internal/session"
)

const maxRecentConnections = 5

// displayName shows a connection without its credentials
func displayName(cfg models.ConnectionConfig) string {
	if cfg.Name != "" {
		return cfg.Name
	}
	cs, err := connstring.Parse(cfg.URI)
	if err != nil || len(cs.Hosts) == 0 {
		return "mongodb"
	}
	return strings.Join(cs.Hosts, ",")
}

// triggerDiscovery scans for instances and lists recent connections after them
func (a *App) triggerDiscovery() tea.Cmd {
	a.connectionDialog.Discovering = true

	var recent []models.DiscoveredInstance
	if a.recent != nil {
		for _, e := range a.recent.GetRecent(maxRecentConnections) {
			recent = append(recent, e.ToInstance())
		}
	}
	discoverer := a.discoverer
	scan := a.config.Connection.Discover
	return func() tea.Msg {
		if !scan {
			return DiscoveryCompleteMsg{Instances: recent}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		instances := discoverer.DiscoverAll(ctx)
		return DiscoveryCompleteMsg{Instances: append(instances, recent...)}
	}
}

func (a *App) connect(cfg models.ConnectionConfig) tea.Cmd {
	a.statusMessage = "Connecting to " + displayName(cfg) + "…"
	manager := a.connectionManager
	timeout := a.config.ConnectTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout+time.Second)
		defer cancel()
		id, err := manager.Connect(ctx, cfg)
		return ConnectedMsg{ID: id, Config: cfg, Err: err}
	}
}

func (a *App) loadDatabases() tea.Cmd {
	conn, err := a.connectionManager.GetActive()
	if err != nil {
		return errorCmd("Database Error", err)
	}
	timeout := a.config.QueryTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		dbs, err := metadata.ListDatabases(ctx, conn.Client)
		return DatabasesLoadedMsg{Databases: dbs, Err: err}
	}
}

func (a *App) loadCollections(database string) tea.Cmd {
	conn, err := a.connectionManager.GetActive()
	if err != nil {
		return errorCmd("Database Error", err)
	}
	timeout := a.config.QueryTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		colls, err := metadata.ListCollections(ctx, conn.Client, database)
		return CollectionsLoadedMsg{Database: database, Collections: colls, Err: err}
	}
}

// openCollection points the session at a new namespace and samples its schema.
// The old session is discarded; nothing carries over between collections.
func (a *App) openCollection(database, collection string) tea.Cmd {
	conn, err := a.connectionManager.GetActive()
	if err != nil {
		return errorCmd("Database Error", err)
	}

	exec := query.NewMongoExecutor(conn.Client.Collection(database, collection))
	loader := metadata.NewLoader(exec, a.config.Performance.CacheEntries, a.logger)
	loader.AllowDiskUse = a.config.Query.AllowDiskUse

	a.loader = loader
	a.session = session.State{}
	a.namespace = database + "." + collection
	a.state.Database = database
	a.state.Collection = collection
	a.navigator.Active = a.namespace
	a.data = nil
	a.tableView.SetData(nil)
	a.searchInput.Reset()
	a.showAggregation = false
	a.requestSeq++
	a.loading = true

	ns := a.namespace
	size := a.config.Data.SampleSize
	timeout := a.config.QueryTimeout()
	a.logger.Info("opening collection", "namespace", ns)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		schema, err := metadata.DetectSchema(ctx, exec, size)
		return SchemaLoadedMsg{Namespace: ns, Schema: schema, Err: err}
	}
}

// startSession builds a fresh filter session from the sampled schema
func (a *App) startSession(schema models.Schema) tea.Cmd {
	a.schema = schema
	a.session = session.NewState(schema, a.config.General.MaxFilters)
	if size := a.config.General.DefaultPageSize; size > 0 {
		a.session.PageSize = size
	}
	a.filterPanel.SetColumns(schema.Columns)
	a.aggregationPanel.SetSchema(schema)
	a.syncSession()
	a.state.FocusedPanel = models.RightPanel
	a.updatePanelStyles()
	return a.loadPage()
}

// applyEvent runs a session event and carries out the change it reports
func (a *App) applyEvent(ev session.Event) tea.Cmd {
	// no session until the schema of the open collection has been sampled
	if a.loader == nil || a.session.PageSize == 0 {
		return nil
	}
	next, change := a.session.Apply(ev)
	if change.Err != nil {
		a.statusMessage = change.Err.Error()
		return nil
	}
	a.session = next
	a.syncSession()

	if change.Invalidate {
		a.loader.Invalidate()
	}
	switch {
	case change.Aggregate:
		return a.runAggregation()
	case change.Reload:
		return a.reload()
	case change.Refetch:
		a.scheduler.Trigger()
	}
	return nil
}

// syncSession pushes the session into the widgets that render it
func (a *App) syncSession() {
	a.filterPanel.SetFilters(a.session.Filters)
	a.syncTable()
	a.updatePreview()
}

func (a *App) syncTable() {
	a.tableView.Sort = a.session.Sort
	a.tableView.Aggregating = a.session.Aggregating
	a.tableView.Page = a.session.Page
	a.tableView.Pages = a.session.Pages()
	a.tableView.Skip = a.session.Skip()
}

// updatePreview shows the compiled filter, or the pipeline while aggregating
func (a *App) updatePreview() {
	pred := a.session.Query(a.builder)
	if a.session.Aggregating {
		pipeline, err := a.builder.BuildPipeline(pred, a.session.Aggregation, a.session.Sort)
		if err != nil {
			a.previewPane.SetContent(err.Error(), "pipeline")
			return
		}
		content, err := document.Format(bson.D{{Key: "pipeline", Value: pipeline}})
		if err != nil {
			content = err.Error()
		}
		a.previewPane.SetContent(content, "pipeline")
		return
	}
	content, err := document.Format(filter.Document(pred))
	if err != nil {
		content = err.Error()
	}
	a.previewPane.SetContent(content, "filter")
}

// reload fetches whatever the table currently shows
func (a *App) reload() tea.Cmd {
	if a.loader == nil {
		return nil
	}
	if a.session.Aggregating {
		return a.runAggregation()
	}
	return a.loadPage()
}

func (a *App) loadPage() tea.Cmd {
	if a.loader == nil || a.session.PageSize == 0 {
		return nil
	}
	a.requestSeq++
	a.loading = true

	id := a.requestSeq
	s := a.session
	doc := filter.Document(s.Query(a.builder))
	req := metadata.PageRequest{
		Namespace: a.namespace,
		Filter:    doc,
		Columns:   s.Columns,
		Sort:      s.Sort,
		Skip:      s.Skip(),
		Limit:     int64(s.PageSize),
	}
	loader := a.loader
	timeout := a.config.QueryTimeout()
	a.logger.Debug("loading page", "request", req.String(), "id", id)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		data, err := loader.LoadPage(ctx, req)
		text, _ := filter.ExtJSON(doc)
		a.record(history.KindFind, req.Namespace, text, data, err)
		return PageLoadedMsg{ID: id, Data: data, Err: err}
	}
}

func (a *App) runAggregation() tea.Cmd {
	if a.loader == nil {
		return nil
	}
	s := a.session
	pipeline, err := a.builder.BuildPipeline(s.Query(a.builder), s.Aggregation, s.Sort)
	if err != nil {
		a.statusMessage = err.Error()
		return nil
	}
	a.requestSeq++
	a.loading = true

	id := a.requestSeq
	ns := a.namespace
	loader := a.loader
	spec := s.Aggregation
	timeout := a.config.QueryTimeout()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		data, err := loader.RunAggregation(ctx, ns, pipeline, spec)
		text, _ := filter.PipelineJSON(pipeline)
		a.record(history.KindAggregate, ns, text, data, err)
		return AggregationLoadedMsg{ID: id, Data: data, Err: err}
	}
}

// record writes a query log entry. It runs inside commands, off the UI loop.
func (a *App) record(kind history.Kind, ns, text string, data *models.TableData, err error) {
	if a.history == nil || !a.config.History.Enabled {
		return
	}
	if err != nil && !a.config.History.SaveFailedQueries {
		return
	}

	e := history.Entry{
		Kind:       kind,
		Namespace:  ns,
		Query:      text,
		ExecutedAt: time.Now(),
		Success:    err == nil,
	}
	if conn, cerr := a.connectionManager.GetActive(); cerr == nil {
		e.Connection = displayName(conn.Config)
	}
	if data != nil {
		e.Duration = data.Duration
		e.Rows = int64(len(data.Rows))
	}
	if err != nil {
		e.ErrorMessage = err.Error()
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, herr := a.history.Add(ctx, e); herr != nil {
		a.logger.Warn("failed to record query", "error", herr)
	}
}

// exportData writes the rows on screen to the export directory
func (a *App) exportData() tea.Cmd {
	if a.data == nil {
		a.statusMessage = "Nothing to export"
		return nil
	}
	format, err := export.ParseFormat(a.config.Export.DefaultFormat)
	if err != nil {
		return errorCmd("Export Failed", err)
	}
	data := a.data
	path := export.Filename(a.config.Export.Directory, a.state.Collection, format, time.Now())
	return func() tea.Msg {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return ExportDoneMsg{Path: path, Err: fmt.Errorf("failed to create export directory: %w", err)}
		}
		return ExportDoneMsg{Path: path, Err: export.Export(data, format, path)}
	}
}

func (a *App) loaderStats() cache.Stats {
	if a.loader == nil {
		return cache.Stats{}
	}
	return a.loader.CacheStats()
}

func errorCmd(title string, err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Title: title, Message: fmt.Sprintf("%v", err)}
	}
}
