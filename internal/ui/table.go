package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/donmerendolo/exportify-cli/internal/models"
)

// RenderPlaylistTable formats the library listing as an aligned table with
// name, id, owner and track count columns.
func RenderPlaylistTable(handles []models.PlaylistHandle) string {
	headers := []string{"Name", "ID", "Owner", "Tracks"}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}

	rows := make([][]string, 0, len(handles))
	for _, h := range handles {
		row := []string{h.Name, h.ID, h.Owner, fmt.Sprintf("%d", h.TrackTotal)}
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
		rows = append(rows, row)
	}

	var b strings.Builder
	for i, h := range headers {
		b.WriteString(styles.title.Render(pad(h, widths[i])))
		b.WriteString("  ")
	}
	b.WriteString("\n")

	for _, row := range rows {
		for i, cell := range row {
			padded := pad(cell, widths[i])
			if i == 1 {
				padded = styles.dim.Render(padded)
			}
			b.WriteString(padded)
			b.WriteString("  ")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// pad measures display width, not bytes, so multibyte names stay aligned.
func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
