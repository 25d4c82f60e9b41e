package components

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/rebeliceyang/lazymongo/internal/models"
	"github.com/rebeliceyang/lazymongo/internal/ui/theme"
)

const (
	fieldURI = iota
	fieldDatabase
	fieldCollection
	fieldCount
)

// ConnectionDialog lists discovered instances and accepts a manual URI
type ConnectionDialog struct {
	Width               int
	Height              int
	Theme               theme.Theme
	DiscoveredInstances []models.DiscoveredInstance
	Discovering         bool
	ManualMode          bool
	SelectedIndex       int

	// Manual connection fields
	URI         string
	Database    string
	Collection  string
	ActiveField int
}

// NewConnectionDialog creates a new connection dialog
func NewConnectionDialog(th theme.Theme) *ConnectionDialog {
	return &ConnectionDialog{
		Theme: th,
		URI:   "mongodb://",
	}
}

// View renders the connection dialog
func (c *ConnectionDialog) View() string {
	if c.Width <= 0 || c.Height <= 0 {
		return ""
	}

	content := c.renderDiscoveryMode()
	if c.ManualMode {
		content = c.renderManualMode()
	}

	return lipgloss.NewStyle().
		Width(c.Width).
		Height(c.Height).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c.Theme.BorderFocused).
		Render(content)
}

func (c *ConnectionDialog) titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(c.Theme.Info)
}

func (c *ConnectionDialog) renderDiscoveryMode() string {
	var b strings.Builder

	b.WriteString(c.titleStyle().Render("Connect to MongoDB"))
	b.WriteString("\n\n")

	if len(c.DiscoveredInstances) == 0 {
		if c.Discovering {
			b.WriteString("Discovering MongoDB instances...\n")
		} else {
			b.WriteString("No instances found.\n")
		}
		b.WriteString("\nPress 'm' for manual connection\n")
		return b.String()
	}

	b.WriteString("Instances:\n\n")
	metaStyle := lipgloss.NewStyle().Foreground(c.Theme.Metadata)
	for i, instance := range c.DiscoveredInstances {
		prefix := "  "
		if i == c.SelectedIndex {
			prefix = "> "
		}
		if instance.Source == models.SourceRecent {
			fmt.Fprintf(&b, "%s%s %s\n", prefix, instance.Name, metaStyle.Render("(recent)"))
			continue
		}
		fmt.Fprintf(&b, "%s%s:%d %s\n",
			prefix,
			instance.Host,
			instance.Port,
			metaStyle.Render(fmt.Sprintf("(%s, %s)", instance.Source, instance.ResponseTime.Round(1e6))),
		)
	}

	b.WriteString("\n↑/↓: Select │ Enter: Connect │ m: Manual │ Esc: Cancel\n")
	return b.String()
}

func (c *ConnectionDialog) renderManualMode() string {
	var b strings.Builder

	b.WriteString(c.titleStyle().Render("Manual Connection"))
	b.WriteString("\n\n")

	fields := []struct {
		label string
		value string
	}{
		{"URI:", c.URI},
		{"Database:", c.Database},
		{"Collection:", c.Collection},
	}
	for i, field := range fields {
		prefix := "  "
		value := field.value
		if i == c.ActiveField {
			prefix = "> "
			value += "_"
		}
		fmt.Fprintf(&b, "%s%-12s %s\n", prefix, field.label, value)
	}

	b.WriteString("\n↑/↓: Navigate │ Type to edit │ Enter: Connect │ Esc: Cancel\n")
	return b.String()
}

func (c *ConnectionDialog) activeField() *string {
	switch c.ActiveField {
	case fieldURI:
		return &c.URI
	case fieldDatabase:
		return &c.Database
	case fieldCollection:
		return &c.Collection
	}
	return nil
}

// HandleInput appends text to the active field in manual mode
func (c *ConnectionDialog) HandleInput(text string) {
	if !c.ManualMode {
		return
	}
	if field := c.activeField(); field != nil {
		*field += text
	}
}

// HandleBackspace removes the last character from the active field
func (c *ConnectionDialog) HandleBackspace() {
	if !c.ManualMode {
		return
	}
	field := c.activeField()
	if field == nil || *field == "" {
		return
	}
	r := []rune(*field)
	*field = string(r[:len(r)-1])
}

// MoveSelection moves the selection up or down
func (c *ConnectionDialog) MoveSelection(delta int) {
	if c.ManualMode {
		c.ActiveField = ((c.ActiveField+delta)%fieldCount + fieldCount) % fieldCount
		return
	}
	if len(c.DiscoveredInstances) == 0 {
		c.SelectedIndex = 0
		return
	}
	c.SelectedIndex += delta
	if c.SelectedIndex < 0 {
		c.SelectedIndex = 0
	}
	if c.SelectedIndex >= len(c.DiscoveredInstances) {
		c.SelectedIndex = len(c.DiscoveredInstances) - 1
	}
}

// GetSelectedInstance returns the currently selected instance
func (c *ConnectionDialog) GetSelectedInstance() *models.DiscoveredInstance {
	if c.ManualMode || c.SelectedIndex < 0 || c.SelectedIndex >= len(c.DiscoveredInstances) {
		return nil
	}
	return &c.DiscoveredInstances[c.SelectedIndex]
}

// GetManualConfig validates the manual fields
func (c *ConnectionDialog) GetManualConfig() (models.ConnectionConfig, error) {
	uri := strings.TrimSpace(c.URI)
	if uri == "" || uri == "mongodb://" {
		return models.ConnectionConfig{}, errors.New("uri is required")
	}
	cs, err := connstring.Parse(uri)
	if err != nil {
		return models.ConnectionConfig{}, fmt.Errorf("invalid uri: %w", err)
	}

	database := strings.TrimSpace(c.Database)
	if database == "" {
		database = cs.Database
	}
	return models.ConnectionConfig{
		URI:        uri,
		Database:   database,
		Collection: strings.TrimSpace(c.Collection),
	}, nil
}
