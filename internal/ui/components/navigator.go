package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rebeliceyang/lazymongo/internal/ui/theme"
)

// NavDatabase is one database in the navigator
type NavDatabase struct {
	Name        string
	SizeOnDisk  int64
	Collections []string
	Loaded      bool
	Expanded    bool
}

// CollectionSelectedMsg is sent when Enter is pressed on a collection
type CollectionSelectedMsg struct {
	Database   string
	Collection string
}

// DatabaseExpandedMsg is sent the first time a database is expanded
type DatabaseExpandedMsg struct {
	Database string
}

// navEntry is one visible line: a database (collection -1) or a collection
type navEntry struct {
	db         int
	collection int
}

// Navigator lists databases and their collections
type Navigator struct {
	Databases    []NavDatabase
	CursorIndex  int
	ScrollOffset int
	Width        int
	Height       int
	Theme        theme.Theme

	// Active is the "database.collection" being browsed
	Active string
}

// NewNavigator creates an empty navigator
func NewNavigator(th theme.Theme) *Navigator {
	return &Navigator{
		Width:  30,
		Height: 20,
		Theme:  th,
	}
}

// SetDatabases replaces the database list, keeping loaded collections
func (n *Navigator) SetDatabases(dbs []NavDatabase) {
	old := make(map[string]NavDatabase, len(n.Databases))
	for _, d := range n.Databases {
		old[d.Name] = d
	}
	for i, d := range dbs {
		if prev, ok := old[d.Name]; ok && prev.Loaded && !d.Loaded {
			dbs[i].Collections = prev.Collections
			dbs[i].Loaded = true
			dbs[i].Expanded = prev.Expanded
		}
	}
	n.Databases = dbs
	n.clampCursor()
}

// SetCollections fills in a database's collections and expands it
func (n *Navigator) SetCollections(database string, collections []string) {
	for i := range n.Databases {
		if n.Databases[i].Name == database {
			n.Databases[i].Collections = collections
			n.Databases[i].Loaded = true
			n.Databases[i].Expanded = true
			return
		}
	}
}

func (n *Navigator) entries() []navEntry {
	var out []navEntry
	for di, d := range n.Databases {
		out = append(out, navEntry{db: di, collection: -1})
		if d.Expanded {
			for ci := range d.Collections {
				out = append(out, navEntry{db: di, collection: ci})
			}
		}
	}
	return out
}

func (n *Navigator) clampCursor() {
	total := len(n.entries())
	if n.CursorIndex >= total {
		n.CursorIndex = total - 1
	}
	if n.CursorIndex < 0 {
		n.CursorIndex = 0
	}
}

// Update handles keyboard input for navigation
func (n *Navigator) Update(msg tea.KeyMsg) (*Navigator, tea.Cmd) {
	entries := n.entries()
	if len(entries) == 0 {
		return n, nil
	}
	n.clampCursor()
	cur := entries[n.CursorIndex]

	switch msg.String() {
	case "up", "k":
		if n.CursorIndex > 0 {
			n.CursorIndex--
		}
	case "down", "j":
		if n.CursorIndex < len(entries)-1 {
			n.CursorIndex++
		}
	case "g":
		n.CursorIndex = 0
		n.ScrollOffset = 0
	case "G":
		n.CursorIndex = len(entries) - 1
	case "right", "l", " ":
		if cur.collection < 0 {
			return n, n.expand(cur.db)
		}
	case "left", "h":
		if cur.collection >= 0 {
			// jump to the parent database
			for i, e := range entries {
				if e.db == cur.db && e.collection < 0 {
					n.CursorIndex = i
					break
				}
			}
			return n, nil
		}
		n.Databases[cur.db].Expanded = false
	case "enter":
		if cur.collection < 0 {
			if n.Databases[cur.db].Expanded {
				n.Databases[cur.db].Expanded = false
				return n, nil
			}
			return n, n.expand(cur.db)
		}
		d := n.Databases[cur.db]
		sel := CollectionSelectedMsg{Database: d.Name, Collection: d.Collections[cur.collection]}
		return n, func() tea.Msg { return sel }
	}
	return n, nil
}

func (n *Navigator) expand(di int) tea.Cmd {
	d := &n.Databases[di]
	if d.Loaded {
		d.Expanded = true
		return nil
	}
	name := d.Name
	return func() tea.Msg { return DatabaseExpandedMsg{Database: name} }
}

// View renders the navigator
func (n *Navigator) View() string {
	entries := n.entries()
	if len(entries) == 0 {
		return lipgloss.NewStyle().
			Foreground(n.Theme.Metadata).
			Italic(true).
			Render("Not connected\n\nPress c to connect")
	}
	n.clampCursor()

	viewHeight := n.Height - 1
	if viewHeight < 1 {
		viewHeight = 1
	}
	if n.CursorIndex < n.ScrollOffset {
		n.ScrollOffset = n.CursorIndex
	}
	if n.CursorIndex >= n.ScrollOffset+viewHeight {
		n.ScrollOffset = n.CursorIndex - viewHeight + 1
	}

	end := n.ScrollOffset + viewHeight
	if end > len(entries) {
		end = len(entries)
	}

	lines := make([]string, 0, viewHeight)
	for i := n.ScrollOffset; i < end; i++ {
		lines = append(lines, n.renderEntry(entries[i], i == n.CursorIndex))
	}
	return strings.Join(lines, "\n")
}

func (n *Navigator) renderEntry(e navEntry, selected bool) string {
	d := n.Databases[e.db]
	maxWidth := n.Width - 1
	if maxWidth < 4 {
		maxWidth = 4
	}

	var content string
	style := lipgloss.NewStyle().Foreground(n.Theme.Foreground)
	if e.collection < 0 {
		icon := "▸"
		if d.Expanded {
			icon = "▾"
		}
		label := d.Name
		if d.SizeOnDisk > 0 {
			label += " " + formatBytes(d.SizeOnDisk)
		}
		content = icon + " " + runewidth.Truncate(label, maxWidth-2, "…")
		if strings.HasPrefix(n.Active, d.Name+".") {
			style = style.Foreground(n.Theme.DatabaseActive)
		}
	} else {
		name := d.Collections[e.collection]
		content = "  • " + runewidth.Truncate(name, maxWidth-4, "…")
		if n.Active == d.Name+"."+name {
			style = style.Foreground(n.Theme.DatabaseActive).Bold(true)
		}
	}

	if selected {
		style = style.Background(n.Theme.Selection).Bold(true)
	}
	return style.Width(maxWidth).Render(content)
}

// formatBytes renders a size with a binary unit
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%cB", float64(n)/float64(div), "KMGTPE"[exp])
}
