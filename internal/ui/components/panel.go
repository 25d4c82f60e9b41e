package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Panel is a bordered box with a title line and optional right aligned info
type Panel struct {
	Title   string
	Info    string
	Content string
	Width   int
	Height  int
	Style   lipgloss.Style
}

// View renders the panel
func (p *Panel) View() string {
	if p.Width <= 0 || p.Height <= 0 {
		return ""
	}

	style := p.Style.
		Width(p.Width).
		Height(p.Height).
		Border(lipgloss.RoundedBorder())

	content := p.Content
	if p.Title != "" {
		content = p.titleLine() + "\n" + content
	}

	return style.Render(content)
}

func (p *Panel) titleLine() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	title := titleStyle.Render(p.Title)
	if p.Info == "" {
		return title
	}

	infoStyle := lipgloss.NewStyle().Faint(true).Padding(0, 1)
	room := p.Width - lipgloss.Width(title) - 2
	if room <= 3 {
		return title
	}
	info := runewidth.Truncate(p.Info, room, "…")
	gap := p.Width - lipgloss.Width(title) - runewidth.StringWidth(info) - 2
	if gap < 1 {
		gap = 1
	}
	return title + lipgloss.NewStyle().Width(gap).Render("") + infoStyle.Render(info)
}
