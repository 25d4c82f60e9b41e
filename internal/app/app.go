package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazymongo/internal/config"
	"github.com/rebeliceyang/lazymongo/internal/connection_history"
	"github.com/rebeliceyang/lazymongo/internal/db/connection"
	"github.com/rebeliceyang/lazymongo/internal/db/discovery"
	"github.com/rebeliceyang/lazymongo/internal/db/metadata"
	"github.com/rebeliceyang/lazymongo/internal/filter"
	"github.com/rebeliceyang/lazymongo/internal/history"
	"github.com/rebeliceyang/lazymongo/internal/models"
	"github.com/rebeliceyang/lazymongo/internal/refresh"
	"github.com/rebeliceyang/lazymongo/internal/session"
	"github.com/rebeliceyang/lazymongo/internal/ui/components"
	"github.com/rebeliceyang/lazymongo/internal/ui/help"
	"github.com/rebeliceyang/lazymongo/internal/ui/theme"
)

// App is the main application model
type App struct {
	state  models.AppState
	config *config.Config
	theme  theme.Theme
	logger *slog.Logger

	leftPanel   components.Panel
	filterBox   components.Panel
	rightPanel  components.Panel
	navigator   *components.Navigator
	filterPanel *components.FilterPanel
	searchInput *components.SearchInput
	tableView   *components.TableView
	previewPane *components.PreviewPane

	showAggregation  bool
	aggregationPanel *components.AggregationPanel

	// Connection management
	connectionManager    *connection.Manager
	discoverer           *discovery.Discoverer
	initialConnection    *models.ConnectionConfig
	showConnectionDialog bool
	connectionDialog     *components.ConnectionDialog
	pendingDatabase      string
	pendingCollection    string
	recent               *connection_history.Manager

	// Error overlay
	showError    bool
	errorOverlay *components.ErrorOverlay

	// Query state
	builder   *filter.Builder
	session   session.State
	schema    models.Schema
	loader    *metadata.Loader
	namespace string
	data      *models.TableData

	scheduler  *refresh.Scheduler
	send       func(tea.Msg)
	requestSeq uint64
	loading    bool

	history       *history.Store
	statusMessage string

	// Screen geometry of the table header, for mouse clicks
	headerY int
	tableX  int
}

// New creates a new App instance with config. store may be nil when the
// query log is disabled.
func New(cfg *config.Config, store *history.Store, logger *slog.Logger) *App {
	if cfg == nil {
		cfg = config.GetDefaults()
	}
	if logger == nil {
		logger = slog.Default()
	}

	state := models.NewAppState()
	if cfg.UI.PanelWidthRatio > 0 && cfg.UI.PanelWidthRatio < 100 {
		state.LeftPanelWidth = cfg.UI.PanelWidthRatio
	}
	th := theme.GetTheme(cfg.UI.Theme)

	builder := filter.NewBuilder()
	if cfg.Query.EmptyMarker != "" {
		builder.EmptyMarker = cfg.Query.EmptyMarker
	}
	builder.Policy = filter.ParsePolicy(cfg.Query.CombinePolicy)
	builder.AggregationLimit = cfg.Query.AggregationLimit
	builder.Logger = logger

	a := &App{
		state:  state,
		config: cfg,
		theme:  th,
		logger: logger,
		connectionManager: connection.NewManager(connection.Options{
			MaxPoolSize:    uint64(max(cfg.Performance.ConnectionPoolSize, 1)),
			ConnectTimeout: cfg.ConnectTimeout(),
		}),
		discoverer:        discovery.NewDiscoverer(cfg.Connection.DiscoverPorts, time.Second),
		initialConnection: initialConnection(cfg),
		connectionDialog:  components.NewConnectionDialog(th),
		errorOverlay:      components.NewErrorOverlay(th),
		navigator:         components.NewNavigator(th),
		filterPanel:       components.NewFilterPanel(th),
		searchInput:       components.NewSearchInput(th),
		tableView:         components.NewTableView(th),
		previewPane:       components.NewPreviewPane(th),
		aggregationPanel:  components.NewAggregationPanel(th),
		builder:           builder,
		history:           store,
		leftPanel:         components.Panel{Title: "Collections"},
		filterBox:         components.Panel{Title: "Filters"},
		rightPanel:        components.Panel{Title: "Documents"},
	}
	a.filterPanel.AllowNor = builder.Policy == filter.PolicyConnectorNor
	a.tableView.MaxCellLength = cfg.Data.MaxCellDisplayLength
	a.scheduler = refresh.NewScheduler(cfg.Debounce(), func() {
		if a.send != nil {
			a.send(RefetchMsg{})
		}
	})

	a.updatePanelDimensions()
	a.updatePanelStyles()
	return a
}

// initialConnection picks the connection to open at startup: the config
// file first, then the environment
func initialConnection(cfg *config.Config) *models.ConnectionConfig {
	if cfg.Connection.URI != "" {
		return &models.ConnectionConfig{
			Name:       cfg.Connection.Name,
			URI:        cfg.Connection.URI,
			Database:   cfg.Connection.Database,
			Collection: cfg.Connection.Collection,
		}
	}
	env := discovery.GetEnvironmentConfig()
	if env != nil {
		if env.Database == "" {
			env.Database = cfg.Connection.Database
		}
		if env.Collection == "" {
			env.Collection = cfg.Connection.Collection
		}
	}
	return env
}

// SetProgram lets background work, such as the debounce scheduler, post
// messages to the running program
func (a *App) SetProgram(p *tea.Program) {
	a.send = p.Send
}

// SetConnectionHistory lists recent connections in the connection dialog
// and records every successful connection
func (a *App) SetConnectionHistory(m *connection_history.Manager) {
	a.recent = m
}

// Close releases every connection
func (a *App) Close(ctx context.Context) {
	a.connectionManager.CloseAll(ctx)
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	if a.initialConnection != nil && a.config.General.AutoConnect {
		return a.connect(*a.initialConnection)
	}
	a.showConnectionDialog = true
	return a.triggerDiscovery()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ErrorMsg:
		a.ShowError(msg.Title, msg.Message)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.MouseMsg:
		return a, a.handleMouse(msg)

	case tea.WindowSizeMsg:
		a.state.Width = msg.Width
		a.state.Height = msg.Height
		a.updatePanelDimensions()
		return a, nil

	case DiscoveryCompleteMsg:
		a.connectionDialog.DiscoveredInstances = msg.Instances
		a.connectionDialog.Discovering = false
		return a, nil

	case ConnectedMsg:
		if msg.Err != nil {
			a.ShowError("Connection Failed", fmt.Sprintf("Could not connect to %s\n\nError: %v", displayName(msg.Config), msg.Err))
			return a, nil
		}
		conn, err := a.connectionManager.GetActive()
		if err == nil {
			a.state.ActiveConnection = &conn.Connection
		}
		a.logger.Info("connected", "connection", displayName(msg.Config))
		if a.recent != nil {
			if err := a.recent.Add(msg.Config); err != nil {
				a.logger.Warn("failed to save connection history", "error", err)
			}
		}
		a.showConnectionDialog = false
		a.statusMessage = ""
		a.pendingDatabase = msg.Config.Database
		a.pendingCollection = msg.Config.Collection
		a.state.FocusedPanel = models.LeftPanel
		a.updatePanelStyles()
		return a, a.loadDatabases()

	case DatabasesLoadedMsg:
		if msg.Err != nil {
			a.ShowError("Database Error", fmt.Sprintf("Failed to list databases:\n\n%v", msg.Err))
			return a, nil
		}
		dbs := make([]components.NavDatabase, len(msg.Databases))
		for i, d := range msg.Databases {
			dbs[i] = components.NavDatabase{Name: d.Name, SizeOnDisk: d.SizeOnDisk}
		}
		a.navigator.SetDatabases(dbs)
		if a.pendingDatabase != "" {
			return a, a.loadCollections(a.pendingDatabase)
		}
		return a, nil

	case components.DatabaseExpandedMsg:
		return a, a.loadCollections(msg.Database)

	case CollectionsLoadedMsg:
		if msg.Err != nil {
			a.ShowError("Database Error", fmt.Sprintf("Failed to list collections of %s:\n\n%v", msg.Database, msg.Err))
			return a, nil
		}
		a.navigator.SetCollections(msg.Database, msg.Collections)
		if msg.Database == a.pendingDatabase && a.pendingCollection != "" {
			coll := a.pendingCollection
			a.pendingDatabase, a.pendingCollection = "", ""
			return a, a.openCollection(msg.Database, coll)
		}
		return a, nil

	case components.CollectionSelectedMsg:
		return a, a.openCollection(msg.Database, msg.Collection)

	case SchemaLoadedMsg:
		if msg.Namespace != a.namespace {
			return a, nil
		}
		if msg.Err != nil {
			a.ShowError("Schema Error", fmt.Sprintf("Failed to sample %s:\n\n%v", msg.Namespace, msg.Err))
			return a, nil
		}
		return a, a.startSession(msg.Schema)

	case PageLoadedMsg:
		if msg.ID != a.requestSeq {
			a.logger.Debug("dropping stale page", "id", msg.ID, "latest", a.requestSeq)
			return a, nil
		}
		a.loading = false
		if msg.Err != nil {
			a.ShowError("Query Failed", fmt.Sprintf("Failed to load documents:\n\n%v", msg.Err))
			return a, nil
		}
		prev := a.session.Page
		a.session, _ = a.session.Apply(session.SetTotal{Rows: msg.Data.TotalRows})
		if a.session.Page != prev {
			// the page fell off the end of a shrunken result
			return a, a.loadPage()
		}
		a.data = msg.Data
		a.tableView.SetData(msg.Data)
		a.syncTable()
		return a, nil

	case AggregationLoadedMsg:
		if msg.ID != a.requestSeq {
			a.logger.Debug("dropping stale aggregation", "id", msg.ID, "latest", a.requestSeq)
			return a, nil
		}
		a.loading = false
		if msg.Err != nil {
			a.ShowError("Aggregation Failed", fmt.Sprintf("Failed to run the pipeline:\n\n%v", msg.Err))
			return a, nil
		}
		a.data = msg.Data
		a.tableView.SetData(msg.Data)
		a.syncTable()
		return a, nil

	case RefetchMsg:
		return a, a.reload()

	case components.SessionEventMsg:
		cmd := a.applyEvent(msg.Event)
		if _, ok := msg.Event.(session.ApplyAggregation); ok && a.session.Aggregating {
			a.closeAggregation()
		}
		return a, cmd

	case components.SearchChangedMsg:
		return a, a.applyEvent(session.SetSearch{Text: msg.Text})

	case components.SearchSubmitMsg:
		cmd := a.applyEvent(session.SetSearch{Text: msg.Text})
		a.searchInput.Blur()
		a.state.FocusedPanel = models.RightPanel
		a.updatePanelStyles()
		if cmd == nil {
			cmd = a.reload()
		}
		return a, cmd

	case components.CloseSearchMsg:
		a.searchInput.Blur()
		a.state.FocusedPanel = models.RightPanel
		a.updatePanelStyles()
		return a, nil

	case components.CloseFilterPanelMsg:
		a.state.FocusedPanel = models.RightPanel
		a.updatePanelStyles()
		return a, nil

	case components.CloseAggregationPanelMsg:
		a.closeAggregation()
		return a, nil

	case ExportDoneMsg:
		if msg.Err != nil {
			a.ShowError("Export Failed", msg.Err.Error())
			return a, nil
		}
		a.statusMessage = "Exported to " + msg.Path
		return a, nil
	}
	return a, nil
}

// handleKey routes a key to the overlay or panel that owns it, then to the
// global bindings
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if a.showError {
		switch key {
		case "esc", "enter":
			a.DismissError()
		case "q", "ctrl+c":
			return a, tea.Quit
		}
		return a, nil
	}

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if a.showConnectionDialog {
		return a.handleConnectionDialog(msg)
	}

	if a.state.ViewMode == models.HelpMode {
		switch key {
		case "?", "esc", "q":
			a.state.ViewMode = models.NormalMode
		}
		return a, nil
	}

	a.statusMessage = ""

	switch a.state.FocusedPanel {
	case models.SearchPanel:
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		return a, cmd
	case models.AggregationPanel:
		var cmd tea.Cmd
		a.aggregationPanel, cmd = a.aggregationPanel.Update(msg)
		return a, cmd
	case models.FilterPanel:
		if a.filterPanel.Editing() || !isGlobalInFilters(key) {
			var cmd tea.Cmd
			a.filterPanel, cmd = a.filterPanel.Update(msg)
			return a, cmd
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "?":
		a.state.ViewMode = models.HelpMode
		return a, nil
	case "tab":
		a.cycleFocus()
		return a, nil
	case "c":
		a.showConnectionDialog = true
		return a, a.triggerDiscovery()
	case "r", "f5":
		if a.loader != nil {
			a.loader.Invalidate()
		}
		return a, a.reload()
	case "/":
		if a.loader == nil {
			return a, nil
		}
		a.state.FocusedPanel = models.SearchPanel
		a.updatePanelStyles()
		return a, a.searchInput.Focus()
	case "f":
		if a.loader != nil {
			a.state.FocusedPanel = models.FilterPanel
			a.updatePanelStyles()
		}
		return a, nil
	case "p":
		a.previewPane.Toggle()
		a.updatePanelDimensions()
		return a, nil
	case "y":
		if err := a.previewPane.CopyContent(); err != nil {
			a.statusMessage = "Copy failed: " + err.Error()
		} else {
			a.statusMessage = "Copied " + a.previewPane.Title + " to clipboard"
		}
		return a, nil
	case "e":
		return a, a.exportData()
	case "ctrl+r":
		a.searchInput.Reset()
		return a, a.applyEvent(session.ClearAll{})
	}

	switch a.state.FocusedPanel {
	case models.LeftPanel:
		var cmd tea.Cmd
		a.navigator, cmd = a.navigator.Update(msg)
		return a, cmd
	case models.RightPanel:
		return a, a.handleTableKey(key)
	}
	return a, nil
}

// isGlobalInFilters lists the global keys still honored while the filter panel is focused
func isGlobalInFilters(key string) bool {
	switch key {
	case "q", "?", "tab", "p", "y", "/":
		return true
	}
	return false
}

func (a *App) handleTableKey(key string) tea.Cmd {
	switch key {
	case "up", "k":
		a.tableView.MoveSelection(-1)
	case "down", "j":
		a.tableView.MoveSelection(1)
	case "ctrl+u", "pgup":
		a.tableView.PageUp()
	case "ctrl+d", "pgdown":
		a.tableView.PageDown()
	case "left", "h":
		a.tableView.ScrollColumns(-1)
	case "right", "l":
		a.tableView.ScrollColumns(1)
	case "n":
		if !a.session.Aggregating {
			return a.applyEvent(session.NextPage{})
		}
	case "b":
		if !a.session.Aggregating {
			return a.applyEvent(session.PrevPage{})
		}
	case "g":
		if !a.session.Aggregating {
			return a.applyEvent(session.SetPage{Page: 0})
		}
	case "G":
		if !a.session.Aggregating {
			return a.applyEvent(session.LastPage{})
		}
	case "+", "=":
		return a.applyEvent(session.SetPageSize{Size: nextPageSize(a.session.PageSize, 1)})
	case "-":
		return a.applyEvent(session.SetPageSize{Size: nextPageSize(a.session.PageSize, -1)})
	case "s":
		if a.tableView.LeftColumn < len(a.tableView.Columns) {
			return a.applyEvent(session.ClickHeader{Column: a.tableView.Columns[a.tableView.LeftColumn], At: time.Now()})
		}
	case "K":
		a.previewPane.ScrollUp()
	case "J":
		a.previewPane.ScrollDown()
	case "a":
		if len(a.schema.Columns) > 0 {
			a.showAggregation = true
			a.state.FocusedPanel = models.AggregationPanel
		}
	}
	return nil
}

// nextPageSize steps through session.PageSizes from the current size
func nextPageSize(current, delta int) int {
	sizes := session.PageSizes
	idx := 0
	for i, s := range sizes {
		if s <= current {
			idx = i
		}
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sizes) {
		idx = len(sizes) - 1
	}
	return sizes[idx]
}

func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if a.showError || a.showConnectionDialog || a.showAggregation || a.state.ViewMode != models.NormalMode {
		return nil
	}
	if msg.X < a.tableX {
		return nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		a.tableView.MoveSelection(-3)
		return nil
	case tea.MouseButtonWheelDown:
		a.tableView.MoveSelection(3)
		return nil
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress || msg.Y != a.headerY {
			return nil
		}
		column := a.tableView.HeaderAt(msg.X - a.tableX)
		if column == "" {
			return nil
		}
		a.state.FocusedPanel = models.RightPanel
		a.updatePanelStyles()
		return a.applyEvent(session.ClickHeader{Column: column, At: time.Now()})
	}
	return nil
}

func (a *App) cycleFocus() {
	switch a.state.FocusedPanel {
	case models.LeftPanel:
		if a.loader != nil {
			a.state.FocusedPanel = models.FilterPanel
		} else {
			a.state.FocusedPanel = models.RightPanel
		}
	case models.FilterPanel:
		a.state.FocusedPanel = models.RightPanel
	default:
		a.state.FocusedPanel = models.LeftPanel
	}
	a.updatePanelStyles()
}

func (a *App) closeAggregation() {
	a.showAggregation = false
	a.state.FocusedPanel = models.RightPanel
	a.updatePanelStyles()
}

// View implements tea.Model
func (a *App) View() string {
	if a.showError {
		return lipgloss.Place(
			a.state.Width, a.state.Height,
			lipgloss.Center, lipgloss.Center,
			a.errorOverlay.View(),
		)
	}

	if a.showConnectionDialog {
		a.connectionDialog.Width = min(70, a.state.Width-4)
		a.connectionDialog.Height = min(18, a.state.Height-4)
		return lipgloss.Place(
			a.state.Width, a.state.Height,
			lipgloss.Center, lipgloss.Center,
			a.connectionDialog.View(),
		)
	}

	if a.state.ViewMode == models.HelpMode {
		return help.Render(a.state.Width, a.state.Height, a.theme)
	}

	if a.showAggregation {
		a.aggregationPanel.Width = min(60, a.state.Width-4)
		return lipgloss.Place(
			a.state.Width, a.state.Height,
			lipgloss.Center, lipgloss.Center,
			a.aggregationPanel.View(),
		)
	}

	return a.renderNormalView()
}

// renderNormalView renders the normal application view
func (a *App) renderNormalView() string {
	topBarRight := "not connected"
	if a.namespace != "" {
		topBarRight = a.namespace
	} else if a.state.ActiveConnection != nil {
		topBarRight = displayName(a.state.ActiveConnection.Config)
	}
	topBar := lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.BorderFocused).
		Foreground(lipgloss.Color("230")).
		Padding(0, 2).
		Render(a.formatStatusBar("lazymongo", topBarRight))

	bottomBar := lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.Selection).
		Foreground(a.theme.Foreground).
		Padding(0, 2).
		Render(a.formatStatusBar(a.bottomBarLeft(), a.bottomBarRight()))

	a.navigator.Width = a.leftPanel.Width
	a.navigator.Height = a.leftPanel.Height - 1
	a.leftPanel.Content = a.navigator.View()

	a.filterPanel.Width = a.filterBox.Width
	a.filterPanel.Height = a.filterBox.Height - 1
	a.filterBox.Info = fmt.Sprintf("%d active · %s", a.session.ActiveFilters(), a.builder.Policy)
	a.filterBox.Content = a.filterPanel.View()

	a.searchInput.Width = a.rightPanel.Width
	a.tableView.Width = a.rightPanel.Width
	a.tableView.Height = a.rightPanel.Height - 2
	a.rightPanel.Title = "Documents"
	if a.session.Aggregating {
		a.rightPanel.Title = "Groups"
	}
	a.rightPanel.Info = ""
	if a.loading {
		a.rightPanel.Info = "loading…"
	}
	a.rightPanel.Content = a.searchInput.View() + "\n" + a.tableView.View()

	right := []string{a.filterBox.View(), a.rightPanel.View()}
	if a.previewPane.Visible {
		a.previewPane.Width = a.rightPanel.Width + 2
		right = append(right, a.previewPane.View())
	}

	panels := lipgloss.JoinHorizontal(
		lipgloss.Top,
		a.leftPanel.View(),
		lipgloss.JoinVertical(lipgloss.Left, right...),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		topBar,
		panels,
		bottomBar,
	)
}

func (a *App) bottomBarLeft() string {
	if a.statusMessage != "" {
		return a.statusMessage
	}
	switch a.state.FocusedPanel {
	case models.FilterPanel:
		return "[enter] edit │ [o] operator │ [c] connector │ [a] row │ [tab] table"
	case models.RightPanel:
		return "[/] search │ [s] sort │ [n/b] page │ [a] group │ [p] query │ [e] export"
	case models.SearchPanel:
		return "[enter] search now │ [esc] back"
	default:
		return "[enter] open │ [tab] switch │ [c] connect │ [?] help │ [q] quit"
	}
}

func (a *App) bottomBarRight() string {
	if a.data == nil {
		return ""
	}
	stats := a.loaderStats()
	return fmt.Sprintf("%s │ cache %d/%d", a.data.Duration.Round(time.Millisecond), stats.Hits, stats.Hits+stats.Misses)
}

// updatePanelDimensions calculates panel sizes based on window size
func (a *App) updatePanelDimensions() {
	if a.state.Width <= 0 || a.state.Height <= 0 {
		return
	}

	// top and bottom bars
	contentHeight := a.state.Height - 2
	if contentHeight < 12 {
		contentHeight = 12
	}

	leftWidth := (a.state.Width * a.state.LeftPanelWidth) / 100
	if leftWidth < 20 {
		leftWidth = 20
	}
	// both panels carry a two cell border
	rightWidth := a.state.Width - leftWidth - 4
	if rightWidth < 20 {
		rightWidth = 20
		leftWidth = a.state.Width - rightWidth - 4
	}

	filterHeight := contentHeight / 3
	if filterHeight < 4 {
		filterHeight = 4
	}

	tableHeight := contentHeight - (filterHeight + 2) - a.previewPane.Height() - 2
	if tableHeight < 5 {
		tableHeight = 5
	}

	a.leftPanel.Width = leftWidth
	a.leftPanel.Height = contentHeight - 2
	a.filterBox.Width = rightWidth
	a.filterBox.Height = filterHeight
	a.rightPanel.Width = rightWidth
	a.rightPanel.Height = tableHeight
	a.tableView.Width = rightWidth

	// top bar, filter box, right panel border, panel title and search line
	a.headerY = 1 + (filterHeight + 2) + 1 + 1 + 1
	a.tableX = leftWidth + 2 + 1
}

// updatePanelStyles updates panel styling based on focus
func (a *App) updatePanelStyles() {
	border := func(focused bool) lipgloss.Style {
		if focused {
			return lipgloss.NewStyle().BorderForeground(a.theme.BorderFocused)
		}
		return lipgloss.NewStyle().BorderForeground(a.theme.Border)
	}
	focus := a.state.FocusedPanel
	a.leftPanel.Style = border(focus == models.LeftPanel)
	a.filterBox.Style = border(focus == models.FilterPanel)
	a.rightPanel.Style = border(focus == models.RightPanel || focus == models.SearchPanel)
}

// formatStatusBar formats a status bar with left and right aligned content
func (a *App) formatStatusBar(left, right string) string {
	// two cells of padding on each side
	availableWidth := a.state.Width - 4
	if availableWidth < 0 {
		availableWidth = 0
	}

	leftLen := lipgloss.Width(left)
	rightLen := lipgloss.Width(right)

	if leftLen+rightLen+1 > availableWidth {
		return lipgloss.NewStyle().MaxWidth(availableWidth).Render(left + " " + right)
	}

	spacing := availableWidth - leftLen - rightLen
	return left + strings.Repeat(" ", spacing) + right
}

// handleConnectionDialog handles key events when connection dialog is visible
func (a *App) handleConnectionDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if a.connectionDialog.ManualMode {
			a.connectionDialog.ManualMode = false
			return a, nil
		}
		a.showConnectionDialog = false
		return a, nil

	case "up":
		a.connectionDialog.MoveSelection(-1)
		return a, nil

	case "down", "tab":
		a.connectionDialog.MoveSelection(1)
		return a, nil

	case "enter":
		if a.connectionDialog.ManualMode {
			cfg, err := a.connectionDialog.GetManualConfig()
			if err != nil {
				a.ShowError("Invalid Configuration", fmt.Sprintf("Could not parse connection configuration\n\nError: %v", err))
				return a, nil
			}
			return a, a.connect(cfg)
		}

		instance := a.connectionDialog.GetSelectedInstance()
		if instance == nil {
			return a, nil
		}
		cfg := models.ConnectionConfig{
			Name:       instance.Name,
			URI:        instance.URI,
			Database:   a.config.Connection.Database,
			Collection: a.config.Connection.Collection,
		}
		if instance.Source == models.SourceRecent {
			cfg.Database = instance.Database
			cfg.Collection = instance.Collection
		}
		return a, a.connect(cfg)

	case "backspace":
		a.connectionDialog.HandleBackspace()
		return a, nil
	}

	if !a.connectionDialog.ManualMode {
		switch msg.String() {
		case "m":
			a.connectionDialog.ManualMode = true
		case "k":
			a.connectionDialog.MoveSelection(-1)
		case "j":
			a.connectionDialog.MoveSelection(1)
		}
		return a, nil
	}

	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		a.connectionDialog.HandleInput(string(msg.Runes))
	}
	return a, nil
}

// ShowError displays an error overlay with the given title and message
func (a *App) ShowError(title, message string) {
	a.logger.Warn("error shown", "title", title, "message", message)
	a.errorOverlay.Width = min(70, max(a.state.Width-4, 30))
	a.errorOverlay.SetError(title, message)
	a.showError = true
	a.loading = false
}

// DismissError hides the error overlay
func (a *App) DismissError() {
	a.showError = false
}
