package render

import (
	"context"
	"errors"
	"fmt"
	"io"

	"aarika/internal/logger"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ThinkingLabel is shown while a turn is in flight.
const ThinkingLabel = "Aarika soch rahi hai..."

type spinnerDoneMsg struct{}

type spinnerModel struct {
	spinner spinner.Model
	label   string
	done    bool
}

func newSpinnerModel(label string) spinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)
	return spinnerModel{spinner: s, label: label}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case spinnerDoneMsg:
		m.done = true
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

// RunWithSpinner runs fn while a spinner animates on output. It always
// waits for fn to return, even when ctx is cancelled, and returns fn's
// error. Signal handling is left to the caller so Ctrl+C cancels ctx.
func RunWithSpinner(ctx context.Context, output io.Writer, label string, fn func(context.Context) error) error {
	p := tea.NewProgram(
		newSpinnerModel(label),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
		tea.WithoutSignalHandler(),
	)

	results := make(chan error, 1)
	go func() {
		results <- fn(ctx)
		p.Send(spinnerDoneMsg{})
	}()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Debug("Spinner stopped", "error", err)
	}
	return <-results
}
