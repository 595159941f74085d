package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/montrey/runa/config"
	"github.com/montrey/runa/entry"
)

var (
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// ListModel draws a window of the visible entries around the cursor.
type ListModel struct {
	Width  int
	Height int

	// ScrollOffset is the first row drawn.
	ScrollOffset int
}

// Follow scrolls so that cursor is inside the window.
func (l *ListModel) Follow(cursor, rows int) {
	if l.Height <= 0 {
		l.ScrollOffset = 0
		return
	}
	if cursor < l.ScrollOffset {
		l.ScrollOffset = cursor
	}
	if cursor >= l.ScrollOffset+l.Height {
		l.ScrollOffset = cursor - l.Height + 1
	}
	// Keep the window full after the list shrinks.
	if last := rows - l.Height; l.ScrollOffset > last {
		l.ScrollOffset = max(last, 0)
	}
}

// View renders the rows in the window.
func (l ListModel) View(entries []*entry.Entry, cursor int, styles config.Styles) string {
	if len(entries) == 0 {
		return emptyStyle.Render("  no matches")
	}

	end := len(entries)
	if l.Height > 0 {
		end = min(end, l.ScrollOffset+l.Height)
	}

	rows := make([]string, 0, end-l.ScrollOffset)
	for i := l.ScrollOffset; i < end; i++ {
		prefix := "  "
		if i == cursor {
			prefix = cursorStyle.Render("> ")
		}
		row := prefix + entries[i].Render(styles)
		if l.Width > 0 {
			row = lipgloss.NewStyle().MaxWidth(l.Width).Render(row)
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}
