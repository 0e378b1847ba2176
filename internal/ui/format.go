package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

// Bytes formats a byte count with binary units ("1.5 MiB").
func Bytes(n uint64) string {
	return humanize.IBytes(n)
}

// Truncate shortens s to at most width terminal cells, ending in "...".
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "...")
}

// PadRight pads s with spaces to width cells, truncating first if needed.
func PadRight(s string, width int) string {
	return runewidth.FillRight(Truncate(s, width), width)
}

// PadLeft right-aligns s in width cells.
func PadLeft(s string, width int) string {
	return runewidth.FillLeft(Truncate(s, width), width)
}

// Table renders rows under headers. Plain profiles get borderless,
// space-aligned columns; ASCII profiles get an ASCII border.
func (t *Theme) Table(headers []string, rows [][]string) string {
	if t.Profile.Plain {
		return plainTable(headers, rows)
	}

	headerStyle := t.r.NewStyle().Foreground(cyan).Bold(true).Padding(0, 1)
	cellStyle := t.r.NewStyle().Padding(0, 1)
	oddStyle := cellStyle.Foreground(dim)

	border := lipgloss.RoundedBorder()
	if t.Profile.ASCIIIcons {
		border = lipgloss.ASCIIBorder()
	}

	tbl := table.New().
		Border(border).
		BorderStyle(t.r.NewStyle().Foreground(faint)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row%2 == 0:
				return cellStyle
			default:
				return oddStyle
			}
		}).
		Headers(headers...).
		Rows(rows...)
	return tbl.String()
}

func plainTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	measure := func(cells []string) {
		for i, c := range cells {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(c))
			}
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}

	var b strings.Builder
	line := func(cells []string) {
		parts := make([]string, 0, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			if i == len(widths)-1 {
				parts = append(parts, cell)
				continue
			}
			parts = append(parts, runewidth.FillRight(cell, widths[i]))
		}
		b.WriteString(strings.TrimRight(strings.Join(parts, "  "), " "))
		b.WriteByte('\n')
	}
	line(headers)
	for _, row := range rows {
		line(row)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
