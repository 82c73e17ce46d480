package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"karolbroda.com/lyrisync/internal/fetcher"
	"karolbroda.com/lyrisync/internal/lyrics"
	"karolbroda.com/lyrisync/internal/viewmodel"
)

// messages forwarded from the pipeline into the program loop
type (
	lyricsMsg        []lyrics.DisplayLine
	trackMsg         struct{ title, artist string }
	loadingMsg       string
	searchResultsMsg []fetcher.Candidate
	syncResetMsg     struct{}
)

// Bridge adapts the pipeline's listener contract onto the bubbletea
// message queue. Pipeline callbacks arrive from worker goroutines;
// Send marshals them onto the program loop.
type Bridge struct {
	program *tea.Program
}

func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach must be called before the pipeline starts.
func (b *Bridge) Attach(p *tea.Program) {
	b.program = p
}

func (b *Bridge) send(msg tea.Msg) {
	if b.program != nil {
		b.program.Send(msg)
	}
}

func (b *Bridge) LyricsUpdated(lines []lyrics.DisplayLine) { b.send(lyricsMsg(lines)) }

func (b *Bridge) TrackUpdated(title, artist string) { b.send(trackMsg{title: title, artist: artist}) }

func (b *Bridge) Loading(message string) { b.send(loadingMsg(message)) }

func (b *Bridge) SearchResults(results []fetcher.Candidate) { b.send(searchResultsMsg(results)) }

func (b *Bridge) SyncReset() { b.send(syncResetMsg{}) }

type Model struct {
	vm         *viewmodel.ViewModel
	hideHeader bool

	lines   []lyrics.DisplayLine
	title   string
	artist  string
	status  string
	loading bool

	searching bool
	input     textinput.Model
	results   []fetcher.Candidate

	spin     spinner.Model
	width    int
	height   int
	quitting bool
}

func NewModel(vm *viewmodel.ViewModel, hideHeader bool) Model {
	input := textinput.New()
	input.Placeholder = "artist and title"
	input.CharLimit = 120

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff6b6b"))

	return Model{
		vm:         vm,
		hideHeader: hideHeader,
		input:      input,
		spin:       spin,
		status:     "waiting for a track...",
	}
}

func (m Model) Init() tea.Cmd {
	return m.spin.Tick
}
