// Package trace renders a live view of a running solve: one line of
// state per iteration and a log-residual convergence plot, updated as
// step events arrive from an observer hook.
package trace

import (
	"fmt"
	"math"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
)

// StepEvent is one iteration's observable state.
type StepEvent struct {
	Step         int
	ResidualNorm float64
	StepSize     float64
}

// Outcome closes a trace session.
type Outcome struct {
	Retcode string
	Steps   int
	Final   float64
}

type stepMsg StepEvent
type doneMsg Outcome

const plotWidth = 60

// Model is the bubbletea model for the monitor. Events arrive over the
// channel handed to NewModel; closing it without an Outcome aborts the
// view.
type Model struct {
	problem   string
	algorithm string

	events  <-chan tea.Msg
	history []float64
	last    StepEvent
	outcome *Outcome
}

func NewModel(problem, algorithm string, events <-chan tea.Msg) Model {
	return Model{
		problem:   problem,
		algorithm: algorithm,
		events:    events,
	}
}

// Feed couples an observer to a monitor's event channel. Once Close is
// called, sends turn into no-ops instead of blocking, so a solve still
// in flight never hangs on a view that has gone away.
type Feed struct {
	events chan tea.Msg
	done   chan struct{}
}

func NewFeed(buffer int) *Feed {
	return &Feed{
		events: make(chan tea.Msg, buffer),
		done:   make(chan struct{}),
	}
}

// Events is the channel to hand to NewModel.
func (f *Feed) Events() <-chan tea.Msg { return f.events }

// Step forwards one iteration event. It reports false once the feed is
// closed, which tells the observer the view is gone.
func (f *Feed) Step(ev StepEvent) bool {
	select {
	case f.events <- stepMsg(ev):
		return true
	case <-f.done:
		return false
	}
}

// Finish forwards the final outcome, unless the feed is closed.
func (f *Feed) Finish(o Outcome) {
	select {
	case f.events <- doneMsg(o):
	case <-f.done:
	}
}

// Close releases any sender blocked on a full event channel.
func (f *Feed) Close() { close(f.done) }

func (m Model) Init() tea.Cmd {
	return m.wait()
}

func (m Model) wait() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.events
		if !ok {
			return tea.Quit()
		}
		return msg
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case stepMsg:
		m.last = StepEvent(msg)
		logres := math.Log10(math.Max(m.last.ResidualNorm, 1e-300))
		m.history = append(m.history, logres)
		return m, m.wait()
	case doneMsg:
		o := Outcome(msg)
		m.outcome = &o
		// Keep the final frame up until the user quits.
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	header := titleStyle.Render(fmt.Sprintf("nlsolve  %s / %s", m.problem, m.algorithm))

	var status string
	switch {
	case m.outcome == nil:
		status = runningStyle.Render("running") +
			labelStyle.Render("  step ") + valueStyle.Render(fmt.Sprintf("%d", m.last.Step)) +
			labelStyle.Render("  ‖F‖ ") + valueStyle.Render(fmt.Sprintf("%.3e", m.last.ResidualNorm)) +
			labelStyle.Render("  step size ") + valueStyle.Render(fmt.Sprintf("%.3e", m.last.StepSize))
	case m.outcome.Retcode == "success":
		status = runningStyle.Render("converged") +
			labelStyle.Render("  steps ") + valueStyle.Render(fmt.Sprintf("%d", m.outcome.Steps)) +
			labelStyle.Render("  ‖F‖ ") + valueStyle.Render(fmt.Sprintf("%.3e", m.outcome.Final))
	default:
		status = failedStyle.Render(m.outcome.Retcode) +
			labelStyle.Render("  steps ") + valueStyle.Render(fmt.Sprintf("%d", m.outcome.Steps))
	}

	body := header + "\n\n" + status
	if len(m.history) >= 2 {
		plot := asciigraph.Plot(m.history,
			asciigraph.Height(10),
			asciigraph.Width(plotWidth),
			asciigraph.Caption("log10 ‖F(u)‖"))
		body += "\n\n" + plot
	}
	body += "\n\n" + hintStyle.Render("q to quit")

	return panelStyle.Render(body)
}
