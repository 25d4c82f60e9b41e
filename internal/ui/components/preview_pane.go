package components

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rebeliceyang/lazymongo/internal/ui/theme"
)

// PreviewPane shows the compiled filter document or pipeline
type PreviewPane struct {
	Width     int
	MaxHeight int
	Content   string // Extended JSON
	Title     string // "filter" or "pipeline"
	Visible   bool

	scrollY      int
	contentLines []string

	Theme     theme.Theme
	style     lipgloss.Style
	lexer     chroma.Lexer
	formatter chroma.Formatter
	chroma    *chroma.Style
}

// NewPreviewPane creates a new preview pane
func NewPreviewPane(th theme.Theme) *PreviewPane {
	p := &PreviewPane{
		Width:     80,
		MaxHeight: 12,
		Theme:     th,
		style: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(th.Border).
			Padding(0, 1),
	}

	p.lexer = lexers.Get("json")
	if p.lexer != nil {
		p.lexer = chroma.Coalesce(p.lexer)
	}
	p.chroma = styles.Get(th.ChromaStyle)
	if p.chroma == nil {
		p.chroma = styles.Fallback
	}
	p.formatter = formatters.Get("terminal256")
	if p.formatter == nil {
		p.formatter = formatters.Fallback
	}
	return p
}

// SetContent sets the JSON to display
func (p *PreviewPane) SetContent(content, title string) {
	if p.Content == content && p.Title == title {
		return
	}
	p.Content = content
	p.Title = title
	p.scrollY = 0
	p.contentLines = nil
}

// Toggle shows or hides the pane
func (p *PreviewPane) Toggle() {
	p.Visible = !p.Visible
	if !p.Visible {
		p.contentLines = nil
	}
}

// Height returns the rendered height including borders, or 0 when hidden
func (p *PreviewPane) Height() int {
	if !p.Visible {
		return 0
	}
	return p.MaxHeight
}

func (p *PreviewPane) innerLines() int {
	// title and footer
	n := p.MaxHeight - p.style.GetVerticalFrameSize() - 2
	if n < 1 {
		n = 1
	}
	return n
}

// ScrollUp scrolls content up
func (p *PreviewPane) ScrollUp() {
	if p.scrollY > 0 {
		p.scrollY--
	}
}

// ScrollDown scrolls content down
func (p *PreviewPane) ScrollDown() {
	maxScroll := len(p.lines()) - p.innerLines()
	if maxScroll < 0 {
		maxScroll = 0
	}
	if p.scrollY < maxScroll {
		p.scrollY++
	}
}

// CopyContent copies the JSON to the clipboard
func (p *PreviewPane) CopyContent() error {
	return clipboard.WriteAll(p.Content)
}

func (p *PreviewPane) lines() []string {
	if p.contentLines == nil {
		if p.Content == "" {
			p.contentLines = []string{}
		} else {
			p.contentLines = strings.Split(p.Content, "\n")
		}
	}
	return p.contentLines
}

// highlight colors one line of JSON, falling back to plain text
func (p *PreviewPane) highlight(line string) string {
	if p.lexer == nil || line == "" {
		return line
	}
	iterator, err := p.lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}
	var buf bytes.Buffer
	if err := p.formatter.Format(&buf, p.chroma, iterator); err != nil {
		return line
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// View renders the preview pane
func (p *PreviewPane) View() string {
	if !p.Visible {
		return ""
	}

	contentWidth := p.Width - p.style.GetHorizontalFrameSize()
	if contentWidth < 10 {
		contentWidth = 10
	}

	titleStyle := lipgloss.NewStyle().Foreground(p.Theme.Info).Bold(true)
	header := "Query"
	if p.Title != "" {
		header = "Query: " + p.Title
	}
	parts := []string{titleStyle.Render(runewidth.Truncate(header, contentWidth, "…"))}

	lines := p.lines()
	end := p.scrollY + p.innerLines()
	if end > len(lines) {
		end = len(lines)
	}
	for i := p.scrollY; i < end; i++ {
		line := lines[i]
		if runewidth.StringWidth(line) > contentWidth {
			line = runewidth.Truncate(line, contentWidth, "…")
		}
		parts = append(parts, p.highlight(line))
	}
	for i := end - p.scrollY; i < p.innerLines(); i++ {
		parts = append(parts, "")
	}

	help := "y: Copy │ p: Hide"
	if len(lines) > p.innerLines() {
		help = "↑↓: Scroll │ " + help
	}
	helpStyle := lipgloss.NewStyle().Foreground(p.Theme.Metadata).Italic(true)
	gap := contentWidth - runewidth.StringWidth(help)
	if gap < 0 {
		gap = 0
	}
	parts = append(parts, strings.Repeat(" ", gap)+helpStyle.Render(help))

	return p.style.
		Width(contentWidth).
		Render(strings.Join(parts, "\n"))
}
