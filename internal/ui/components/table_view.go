package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rebeliceyang/lazymongo/internal/models"
	"github.com/rebeliceyang/lazymongo/internal/ui/theme"
)

const (
	minColumnWidth = 6
	maxColumnWidth = 40
	columnGap      = " │ "
	sortAsc        = " ▲"
	sortDesc       = " ▼"
)

// TableView displays one page of documents with sortable headers
type TableView struct {
	Columns []string
	Rows    [][]string
	Width   int
	Height  int
	Theme   theme.Theme

	// Virtual scrolling state
	TopRow      int
	VisibleRows int
	SelectedRow int
	LeftColumn  int

	// Paging, filled in by the app
	TotalRows int64
	TotalAll  int64
	Skip      int64
	Page      int
	Pages     int

	Sort        models.SortSpec
	Aggregating bool

	// MaxCellLength truncates cell text before widths are computed
	MaxCellLength int

	ColumnWidths []int
}

// NewTableView creates a new table view
func NewTableView(th theme.Theme) *TableView {
	return &TableView{
		Theme:         th,
		Pages:         1,
		MaxCellLength: maxColumnWidth,
	}
}

// SetData replaces the rows and resets scrolling
func (tv *TableView) SetData(data *models.TableData) {
	if data == nil {
		tv.Columns, tv.Rows = nil, nil
		tv.ColumnWidths = nil
		return
	}
	tv.Columns = data.Columns
	tv.Rows = data.Rows
	tv.TotalRows = data.TotalRows
	tv.TotalAll = data.TotalAll
	tv.TopRow = 0
	tv.SelectedRow = 0
	if tv.LeftColumn >= len(tv.Columns) {
		tv.LeftColumn = 0
	}
	tv.calculateColumnWidths()
}

func (tv *TableView) calculateColumnWidths() {
	tv.ColumnWidths = make([]int, len(tv.Columns))

	for i, col := range tv.Columns {
		// leave room for the sort arrow on every header
		tv.ColumnWidths[i] = runewidth.StringWidth(col) + runewidth.StringWidth(sortAsc)
	}

	for _, row := range tv.Rows {
		for i, cell := range row {
			if i >= len(tv.ColumnWidths) {
				break
			}
			if w := runewidth.StringWidth(cell); w > tv.ColumnWidths[i] {
				tv.ColumnWidths[i] = w
			}
		}
	}

	limit := maxColumnWidth
	if tv.MaxCellLength > 0 && tv.MaxCellLength < limit {
		limit = tv.MaxCellLength
	}
	if limit < minColumnWidth {
		limit = minColumnWidth
	}
	for i := range tv.ColumnWidths {
		if tv.ColumnWidths[i] > limit {
			tv.ColumnWidths[i] = limit
		}
		if tv.ColumnWidths[i] < minColumnWidth {
			tv.ColumnWidths[i] = minColumnWidth
		}
	}
}

// visibleColumns returns the indices of the columns that fit from LeftColumn
func (tv *TableView) visibleColumns() []int {
	var cols []int
	used := 1
	for i := tv.LeftColumn; i < len(tv.Columns); i++ {
		w := tv.ColumnWidths[i]
		if len(cols) > 0 {
			w += runewidth.StringWidth(columnGap)
		}
		if tv.Width > 0 && used+w > tv.Width && len(cols) > 0 {
			break
		}
		used += w
		cols = append(cols, i)
	}
	return cols
}

// HeaderAt returns the column whose header covers x, relative to the table's
// left edge. Clicks on separators or past the last column return "".
func (tv *TableView) HeaderAt(x int) string {
	if len(tv.ColumnWidths) == 0 {
		return ""
	}
	gap := runewidth.StringWidth(columnGap)
	start := 1
	for _, i := range tv.visibleColumns() {
		end := start + tv.ColumnWidths[i]
		if x >= start && x < end {
			return tv.Columns[i]
		}
		start = end + gap
	}
	return ""
}

// View renders the table
func (tv *TableView) View() string {
	if len(tv.Columns) == 0 {
		return lipgloss.NewStyle().Foreground(tv.Theme.Metadata).Render("No documents")
	}

	cols := tv.visibleColumns()

	var b strings.Builder
	b.WriteString(tv.renderHeader(cols))
	b.WriteString("\n")
	b.WriteString(tv.renderSeparator(cols))
	b.WriteString("\n")

	// header, separator and status
	tv.VisibleRows = tv.Height - 3
	if tv.VisibleRows < 1 {
		tv.VisibleRows = 1
	}

	endRow := tv.TopRow + tv.VisibleRows
	if endRow > len(tv.Rows) {
		endRow = len(tv.Rows)
	}
	for i := tv.TopRow; i < endRow; i++ {
		b.WriteString(tv.renderRow(tv.Rows[i], cols, i == tv.SelectedRow))
		b.WriteString("\n")
	}
	for i := endRow - tv.TopRow; i < tv.VisibleRows; i++ {
		b.WriteString("\n")
	}

	b.WriteString(tv.renderStatus())
	return b.String()
}

func (tv *TableView) renderHeader(cols []int) string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tv.Theme.TableHeader).
		Background(tv.Theme.TableHeaderBg)
	arrowStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tv.Theme.SortIndicator).
		Background(tv.Theme.TableHeaderBg)

	parts := make([]string, 0, len(cols))
	for _, i := range cols {
		name := tv.Columns[i]
		width := tv.ColumnWidths[i]
		if name != tv.Sort.Column {
			parts = append(parts, headerStyle.Render(pad(name, width)))
			continue
		}
		arrow := sortAsc
		if tv.Sort.Dir() < 0 {
			arrow = sortDesc
		}
		nameWidth := width - runewidth.StringWidth(arrow)
		parts = append(parts, headerStyle.Render(pad(name, nameWidth))+arrowStyle.Render(arrow))
	}

	sep := headerStyle.Render(columnGap)
	return headerStyle.Render(" ") + strings.Join(parts, sep) + headerStyle.Render(" ")
}

func (tv *TableView) renderSeparator(cols []int) string {
	parts := make([]string, 0, len(cols))
	for _, i := range cols {
		parts = append(parts, strings.Repeat("─", tv.ColumnWidths[i]))
	}
	return lipgloss.NewStyle().
		Foreground(tv.Theme.Border).
		Render("─" + strings.Join(parts, "─┼─") + "─")
}

func (tv *TableView) renderRow(row []string, cols []int, selected bool) string {
	parts := make([]string, 0, len(cols))
	for _, i := range cols {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		parts = append(parts, pad(cell, tv.ColumnWidths[i]))
	}

	line := " " + strings.Join(parts, columnGap) + " "
	if selected {
		return lipgloss.NewStyle().
			Background(tv.Theme.TableRowSelected).
			Foreground(lipgloss.Color("15")).
			Bold(true).
			Render(line)
	}
	return line
}

func (tv *TableView) renderStatus() string {
	var showing string
	if tv.Aggregating {
		showing = fmt.Sprintf(" %d groups", len(tv.Rows))
	} else {
		first := tv.Skip + 1
		last := tv.Skip + int64(len(tv.Rows))
		if len(tv.Rows) == 0 {
			first = 0
		}
		showing = fmt.Sprintf(" %d-%d of %d", first, last, tv.TotalRows)
		if tv.TotalAll != tv.TotalRows {
			showing += fmt.Sprintf(" (filtered from %d)", tv.TotalAll)
		}
		showing += fmt.Sprintf(" │ page %d/%d", tv.Page+1, tv.Pages)
	}
	if tv.LeftColumn > 0 {
		showing += fmt.Sprintf(" │ +%d cols left", tv.LeftColumn)
	}

	return lipgloss.NewStyle().
		Foreground(tv.Theme.Metadata).
		Italic(true).
		Render(showing)
}

// pad truncates or right-pads s to exactly width cells
func pad(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}

// SelectedValues returns the selected row keyed by column
func (tv *TableView) SelectedValues() map[string]string {
	if tv.SelectedRow < 0 || tv.SelectedRow >= len(tv.Rows) {
		return nil
	}
	row := tv.Rows[tv.SelectedRow]
	out := make(map[string]string, len(tv.Columns))
	for i, col := range tv.Columns {
		if i < len(row) {
			out[col] = row[i]
		}
	}
	return out
}

// MoveSelection moves the selection up or down
func (tv *TableView) MoveSelection(delta int) {
	if len(tv.Rows) == 0 {
		tv.SelectedRow, tv.TopRow = 0, 0
		return
	}
	tv.SelectedRow += delta

	if tv.SelectedRow < 0 {
		tv.SelectedRow = 0
	}
	if tv.SelectedRow >= len(tv.Rows) {
		tv.SelectedRow = len(tv.Rows) - 1
	}

	if tv.SelectedRow < tv.TopRow {
		tv.TopRow = tv.SelectedRow
	}
	if tv.VisibleRows > 0 && tv.SelectedRow >= tv.TopRow+tv.VisibleRows {
		tv.TopRow = tv.SelectedRow - tv.VisibleRows + 1
	}
}

// ScrollColumns shifts the first visible column
func (tv *TableView) ScrollColumns(delta int) {
	tv.LeftColumn += delta
	if tv.LeftColumn >= len(tv.Columns) {
		tv.LeftColumn = len(tv.Columns) - 1
	}
	if tv.LeftColumn < 0 {
		tv.LeftColumn = 0
	}
}

// PageUp moves the selection one screen up
func (tv *TableView) PageUp() {
	tv.MoveSelection(-tv.VisibleRows)
}

// PageDown moves the selection one screen down
func (tv *TableView) PageDown() {
	tv.MoveSelection(tv.VisibleRows)
}
