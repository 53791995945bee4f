// Package tui provides a terminal user interface for jam2midi
package tui

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/james-see/jam2midi/pkg/sequencer"
)

// Neon jam-room color scheme
var (
	neonPink   = lipgloss.Color("#FF2E88")
	neonCyan   = lipgloss.Color("#00FFF5")
	silverGray = lipgloss.Color("#C0C0C0")
	darkGray   = lipgloss.Color("#333333")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(neonCyan).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(silverGray).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(neonCyan).
			Bold(true).
			PaddingLeft(2)

	labelStyle = lipgloss.NewStyle().
			Foreground(neonPink).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(neonCyan).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(neonCyan).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateGenre State = iota
	StateEdit
	StateExporting
	StateResult
)

// Editor field indices
const (
	fieldTempo = iota
	fieldMelody
	fieldBass
	fieldDrums
	fieldCount
)

var fieldLabels = [fieldCount]string{"Tempo (BPM)", "Melody bars", "Bass bars", "Drum bars"}

// Model represents the TUI model
type Model struct {
	state      State
	genres     []string
	genreIndex int
	inputs     [fieldCount]textinput.Model
	focused    int
	spinner    spinner.Model
	written    []string
	err        error
	width      int
	height     int
}

// exportDoneMsg signals export completion
type exportDoneMsg struct {
	written []string
	err     error
}

// New creates a new TUI model
func New() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(neonCyan)

	m := Model{
		state:   StateGenre,
		genres:  sequencer.GenreNames(),
		spinner: s,
	}

	placeholders := [fieldCount]string{
		"96",
		"C4 E4 G4 E4 | D4 F4 A4 F4",
		"C2 - C2 - | G2 - G2 -",
		"k h s h | k k s h",
	}
	for i := range m.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 256
		in.Width = 48
		m.inputs[i] = in
	}
	m.inputs[fieldTempo].SetValue("96")
	m.inputs[fieldTempo].Focus()

	return m
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, textinput.Blink)
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateGenre:
			return m.updateGenre(msg)
		case StateEdit:
			return m.updateEdit(msg)
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case exportDoneMsg:
		m.state = StateResult
		m.written = msg.written
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) updateGenre(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.genreIndex > 0 {
			m.genreIndex--
		}
	case "down", "j":
		if m.genreIndex < len(m.genres)-1 {
			m.genreIndex++
		}
	case "enter":
		m.state = StateEdit
		return m, textinput.Blink
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = StateGenre
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "down":
		m.focused = (m.focused + 1) % fieldCount
		return m.refocus()
	case "shift+tab", "up":
		m.focused = (m.focused + fieldCount - 1) % fieldCount
		return m.refocus()
	case "enter":
		m.state = StateExporting
		return m, tea.Batch(m.spinner.Tick, m.performExport())
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m Model) refocus() (tea.Model, tea.Cmd) {
	for i := range m.inputs {
		if i == m.focused {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return m, textinput.Blink
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateGenre
		m.err = nil
		m.written = nil
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) performExport() tea.Cmd {
	genre := m.genres[m.genreIndex]
	tempoText := strings.TrimSpace(m.inputs[fieldTempo].Value())
	patterns := [3]string{
		m.inputs[fieldMelody].Value(),
		m.inputs[fieldBass].Value(),
		m.inputs[fieldDrums].Value(),
	}

	return func() tea.Msg {
		tempo, err := strconv.Atoi(tempoText)
		if err != nil {
			return exportDoneMsg{err: fmt.Errorf("bad tempo %q: %w", tempoText, err)}
		}

		prog, ok := sequencer.ProgressionForGenre(genre)
		if !ok {
			return exportDoneMsg{err: fmt.Errorf("unknown genre %q", genre)}
		}

		song := sequencer.Song{
			Progression: &prog,
			Tempo:       tempo,
			Layers: []sequencer.Layer{
				{Name: "melody", Kind: sequencer.KindMelody, Pattern: patterns[0]},
				{Name: "bass", Kind: sequencer.KindBass, Pattern: patterns[1]},
				{Name: "drums", Kind: sequencer.KindDrums, Pattern: patterns[2]},
			},
		}

		files, err := sequencer.ExportSong(song)
		if err != nil {
			return exportDoneMsg{err: err}
		}

		var written []string
		for _, f := range files {
			if err := os.WriteFile(f.Filename, f.Data, 0644); err != nil {
				return exportDoneMsg{err: err}
			}
			written = append(written, f.Filename)
		}
		return exportDoneMsg{written: written}
	}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(asciiLogo())
	s.WriteString("\n")

	switch m.state {
	case StateGenre:
		s.WriteString(m.viewGenre())
	case StateEdit:
		s.WriteString(m.viewEdit())
	case StateExporting:
		s.WriteString(m.viewExporting())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • q: quit"))

	return s.String()
}

func (m Model) viewGenre() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT GENRE "))
	s.WriteString("\n\n")

	for i, genre := range m.genres {
		prog, _ := sequencer.ProgressionForGenre(genre)
		if i == m.genreIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", genre)))
			s.WriteString("\n")
			detail := fmt.Sprintf("%s: %s", prog.Name, strings.Join(prog.Chords, " "))
			s.WriteString(lipgloss.NewStyle().Foreground(neonPink).PaddingLeft(4).Render(detail))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", genre)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewEdit() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf(" EDIT SONG — %s ", strings.ToUpper(m.genres[m.genreIndex]))))
	s.WriteString("\n\n")

	for i := range m.inputs {
		s.WriteString(labelStyle.Render(fieldLabels[i]))
		s.WriteString("\n")
		s.WriteString(m.inputs[i].View())
		s.WriteString("\n\n")
	}

	s.WriteString(helpStyle.Render("tab: next field • enter: export • esc: back"))
	return boxStyle.Render(s.String())
}

func (m Model) viewExporting() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" EXPORTING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Rendering MIDI files...", m.spinner.View()))

	return boxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	if m.err != nil {
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ Export failed: %s", m.err.Error())))
	} else {
		s.WriteString(titleStyle.Render(" SUCCESS "))
		s.WriteString("\n\n")
		s.WriteString(successStyle.Render("✓ Export complete!"))
		s.WriteString("\n\n")
		for _, f := range m.written {
			s.WriteString(fmt.Sprintf("  %s\n", f))
		}
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

func asciiLogo() string {
	logo := `
     _   _    __  __ ___ __  __ ___ ___ ___
  _ | | /_\  |  \/  |_  )  \/  |_ _|   \_ _|
 | || |/ _ \ | |\/| |/ /| |\/| || || |) | |
  \__//_/ \_\|_|  |_/___|_|  |_|___|___/___|
`
	return lipgloss.NewStyle().Foreground(neonPink).Render(logo)
}

// Run starts the TUI application
func Run() error {
	p := tea.NewProgram(New(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
