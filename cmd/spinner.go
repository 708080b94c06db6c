package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/fyp-cli/internal/domain"
)

var (
	fetchOKStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	fetchFailedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// projectFetch loads projects and reports how many it got.
type projectFetch func(context.Context) (int, error)

type projectsFetchedMsg struct {
	count int
	err   error
}

// projectSpinnerModel spins while a project fetch runs and leaves a one-line outcome behind.
type projectSpinnerModel struct {
	spinner spinner.Model
	label   string
	fetch   tea.Cmd
	count   int
	err     error
	done    bool
}

func newProjectSpinnerModel(label string, fetch tea.Cmd) projectSpinnerModel {
	return projectSpinnerModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
		),
		label: label,
		fetch: fetch,
	}
}

func (m projectSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch)
}

func (m projectSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case projectsFetchedMsg:
		m.done = true
		m.count = msg.count
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m projectSpinnerModel) View() string {
	if !m.done {
		return m.spinner.View() + " " + m.label
	}

	switch {
	case m.err == nil:
		return fetchOKStyle.Render("✓ " + projectCount(m.count))
	case errors.Is(m.err, context.Canceled):
		return fetchFailedStyle.Render("✗ canceled")
	default:
		return fetchFailedStyle.Render("✗ " + domain.UserMessage(m.err))
	}
}

func projectCount(n int) string {
	if n == 1 {
		return "1 project"
	}
	return fmt.Sprintf("%d projects", n)
}

// runProjectSpinner shows label on output while fetch runs and returns fetch's error.
func runProjectSpinner(ctx context.Context, output io.Writer, label string, fetch projectFetch) error {
	p := tea.NewProgram(
		newProjectSpinnerModel(label, func() tea.Msg {
			count, err := fetch(ctx)
			return projectsFetchedMsg{count: count, err: err}
		}),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if err != nil {
		// The fetch result is lost when the program is killed by ctx.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("run spinner: %w", err)
	}

	model, ok := final.(projectSpinnerModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", final)
	}
	return model.err
}
