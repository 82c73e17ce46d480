package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/common-nighthawk/go-figure"

	"karolbroda.com/lyrisync/internal/lyrics"
)

const contextLines = 4

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	width := m.width
	height := m.height
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}

	palette := m.vm.Palette()
	textStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Text))
	highlightStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Highlight)).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Dim))

	var sections []string

	if m.title == "" {
		sections = append(sections, m.renderIdleBanner(dimStyle, width))
	} else {
		if !m.hideHeader {
			sections = append(sections, m.renderHeader(highlightStyle, dimStyle, width))
		}
		if m.searching {
			sections = append(sections, m.renderSearchPanel(dimStyle, width))
		} else if len(m.results) > 0 {
			sections = append(sections, m.renderResults(textStyle, dimStyle, width))
		} else {
			sections = append(sections, m.renderLyrics(textStyle, highlightStyle, dimStyle, width, height))
		}
	}

	if status := m.renderStatus(dimStyle, width); status != "" {
		sections = append(sections, status)
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderIdleBanner(dim lipgloss.Style, width int) string {
	banner := figure.NewFigure("lyrisync", "", true).String()
	waiting := dim.Italic(true).Render("waiting for a track on the media session...")
	return lipgloss.Place(width, lipgloss.Height(banner)+2, lipgloss.Center, lipgloss.Center,
		dim.Render(banner)+"\n"+waiting)
}

func (m Model) renderHeader(highlight, dim lipgloss.Style, width int) string {
	line := highlight.Render(m.title)
	if m.artist != "" {
		line += dim.Render(" by " + m.artist)
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, line) + "\n"
}

func (m Model) renderLyrics(text, highlight, dim lipgloss.Style, width, height int) string {
	if m.loading {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, m.spin.View()+" "+dim.Render(m.status))
	}
	if len(m.lines) == 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Italic(true).Render("no lyrics"))
	}

	current := 0
	for i, line := range m.lines {
		if line.IsCurrent {
			current = i
			break
		}
	}

	start := max(0, current-contextLines)
	end := min(len(m.lines), current+contextLines+1)

	var rows []string
	for i := start; i < end; i++ {
		rows = append(rows, m.renderLine(m.lines[i], text, highlight, dim, width))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderLine(line lyrics.DisplayLine, text, highlight, dim lipgloss.Style, width int) string {
	// the pipeline already picked the color per line
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(line.Color))
	if line.IsCurrent {
		style = style.Bold(true)
	}

	row := lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line.Text))
	if line.Translation != "" {
		row += "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render(line.Translation))
	}
	if line.Romanization != "" {
		row += "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Italic(true).Render(line.Romanization))
	}
	return row
}

func (m Model) renderSearchPanel(dim lipgloss.Style, width int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Width(min(width-4, 60))
	prompt := dim.Render("search all providers (enter to run, esc to close)")
	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		box.Render(prompt+"\n"+m.input.View()))
}

func (m Model) renderResults(text, dim lipgloss.Style, width int) string {
	var rows []string
	rows = append(rows, dim.Render("search results:"))
	for i, res := range m.results {
		preview := firstLine(res.LRC)
		rows = append(rows, text.Render(fmt.Sprintf("  %d. [%s] %s", i+1, res.Provider, preview)))
	}
	block := strings.Join(rows, "\n")
	return lipgloss.PlaceHorizontal(width, lipgloss.Left, block)
}

func (m Model) renderStatus(dim lipgloss.Style, width int) string {
	var parts []string
	if m.status != "" && !m.loading {
		parts = append(parts, m.status)
	}
	if offset := m.vm.SyncOffset(); offset != 0 {
		parts = append(parts, fmt.Sprintf("offset %+dms", offset))
	}
	if len(parts) == 0 {
		return ""
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render(strings.Join(parts, "  ·  ")))
}

func firstLine(lrc string) string {
	for _, line := range strings.Split(lrc, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			if runes := []rune(line); len(runes) > 60 {
				return string(runes[:60]) + "..."
			}
			return line
		}
	}
	return ""
}
