// Package progress shows a spinner while a blocking call runs.
package progress

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/quill-cli/internal/adapters/driving/tui/styles"
)

// DoneMsg stops the spinner.
type DoneMsg struct {
	Err error
}

// Model is a bubbletea model rendering a spinner with a label and the elapsed time.
type Model struct {
	spinner spinner.Model
	styles  *styles.Styles
	label   string
	started time.Time
	now     func() time.Time
	done    bool
	err     error
}

// New creates a spinner model.
func New(label string, s *styles.Styles) Model {
	if s == nil {
		s = styles.DefaultStyles()
	}
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = s.Spinner
	return Model{
		spinner: sp,
		styles:  s,
		label:   label,
		started: time.Now(),
		now:     time.Now,
	}
}

// Init starts the spinner animation.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the spinner. A finished model renders nothing so the line is cleared.
func (m Model) View() string {
	if m.done {
		return ""
	}
	elapsed := m.now().Sub(m.started).Round(time.Second)
	return fmt.Sprintf("%s %s %s\n",
		m.spinner.View(), m.label, m.styles.Muted.Render(elapsed.String()))
}

// Done reports whether the model received DoneMsg.
func (m Model) Done() bool {
	return m.done
}

// Err returns the error carried by DoneMsg.
func (m Model) Err() error {
	return m.err
}

// Run calls fn while a spinner labelled label renders to out on its own
// goroutine. The spinner is stopped and waited for before Run returns fn's error.
func Run(ctx context.Context, out io.Writer, label string, fn func(context.Context) error) error {
	p := tea.NewProgram(New(label, nil),
		tea.WithContext(ctx),
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		p.Run() //nolint:errcheck
	}()

	err := fn(ctx)
	p.Send(DoneMsg{Err: err})
	<-finished
	return err
}
