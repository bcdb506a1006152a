// Package ui renders advisory terminal output: the export progress bar and
// the playlist listing table.
//
// Progress display consumes the engine's update channel and never feeds back
// into the pipeline; closing the channel ends the program.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/donmerendolo/exportify-cli/internal/export"
)

const descWidth = 24

type updateMsg export.ProgressUpdate

type closedMsg struct{}

// ProgressModel is a [tea.Model] that displays a per-playlist progress bar
// and a log of completed targets.
type ProgressModel struct {
	updates  <-chan export.ProgressUpdate
	bar      progress.Model
	current  export.ProgressUpdate
	finished []string
	width    int
}

// NewProgressModel creates a progress display fed by the given channel.
func NewProgressModel(updates <-chan export.ProgressUpdate) ProgressModel {
	bar := progress.New(progress.WithDefaultGradient())
	return ProgressModel{updates: updates, bar: bar, width: 80}
}

func (m ProgressModel) Init() tea.Cmd {
	return waitForUpdate(m.updates)
}

func waitForUpdate(updates <-chan export.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return closedMsg{}
		}
		return updateMsg(update)
	}
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = min(msg.Width-descWidth-12, 48)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil

	case updateMsg:
		update := export.ProgressUpdate(msg)
		switch update.Phase {
		case export.TargetDone:
			m.finished = append(m.finished, styles.ok.Render(update.Message))
		case export.TargetFailed:
			m.finished = append(m.finished, styles.err.Render(update.Message))
		default:
			m.current = update
		}
		return m, waitForUpdate(m.updates)

	case closedMsg:
		return m, tea.Quit
	}

	return m, nil
}

func (m ProgressModel) View() string {
	var b strings.Builder
	for _, line := range m.finished {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.current.Total > 0 {
		desc := m.current.Target
		if m.current.Phase == export.FetchAlbums {
			desc = "Album details"
		}
		if len(desc) > descWidth-2 {
			desc = desc[:descWidth-5] + "..."
		}
		percent := float64(m.current.Step) / float64(m.current.Total)
		b.WriteString(fmt.Sprintf("%-*s %s %d/%d\n", descWidth, desc+":", m.bar.ViewAs(percent), m.current.Step, m.current.Total))
	}

	return b.String()
}

// RunProgress drives the progress display until the update channel closes.
// It blocks, so callers run it alongside the engine.
func RunProgress(updates <-chan export.ProgressUpdate, out io.Writer) error {
	program := tea.NewProgram(NewProgressModel(updates), tea.WithOutput(out), tea.WithoutSignalHandler())
	_, err := program.Run()
	return err
}
