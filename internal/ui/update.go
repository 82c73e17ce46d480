package ui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	offsetStepSmall = 100
	offsetStepLarge = 500
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKey(msg)
		}
		return m.handleKey(msg)

	case tea.FocusMsg:
		m.vm.SetMinimized(false)
		return m, nil

	case tea.BlurMsg:
		m.vm.SetMinimized(true)
		return m, nil

	case lyricsMsg:
		m.lines = msg
		m.loading = false
		m.status = ""
		return m, nil

	case trackMsg:
		m.title = msg.title
		m.artist = msg.artist
		m.lines = nil
		m.results = nil
		m.searching = false
		return m, nil

	case loadingMsg:
		m.loading = true
		m.status = string(msg)
		return m, nil

	case searchResultsMsg:
		m.results = msg
		m.loading = false
		if len(msg) == 0 {
			m.status = "no results from any provider"
		} else {
			m.status = "press a number to apply a result"
		}
		return m, nil

	case syncResetMsg:
		m.lines = nil
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "right", "l":
		m.vm.AdjustSyncOffset(offsetStepSmall)
		return m, nil

	case "left", "h":
		m.vm.AdjustSyncOffset(-offsetStepSmall)
		return m, nil

	case "up", "k", "+", "=":
		m.vm.AdjustSyncOffset(offsetStepLarge)
		return m, nil

	case "down", "j", "-":
		m.vm.AdjustSyncOffset(-offsetStepLarge)
		return m, nil

	case "0":
		m.vm.SetSyncOffset(0)
		return m, nil

	case "tab", "i":
		m.hideHeader = !m.hideHeader
		return m, nil

	case "/", "s":
		m.searching = true
		m.results = nil
		m.input.SetValue(m.vm.SearchSuggestion())
		m.input.CursorEnd()
		return m, m.input.Focus()

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx, _ := strconv.Atoi(msg.String())
		if idx >= 1 && idx <= len(m.results) {
			m.vm.ApplyLyrics(m.results[idx-1].LRC)
			m.results = nil
			m.status = ""
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.input.Blur()
		return m, nil

	case "enter":
		query := m.input.Value()
		m.searching = false
		m.input.Blur()
		if query != "" {
			m.vm.DoSearch(query)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}
