// Command graphscape-tui watches a layout run with a live progress
// bar. It loads a snapshot file, kicks off a background layout, and
// renders phase milestones as they stream off the engine's event bus.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/graphscape/pkg/config"
	"github.com/dd0wney/graphscape/pkg/engine"
	"github.com/dd0wney/graphscape/pkg/graph"
	"github.com/dd0wney/graphscape/pkg/layout"
	"github.com/dd0wney/graphscape/pkg/pubsub"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginTop(1).
			MarginLeft(2)

	phaseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FFFF")).
			MarginLeft(2)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true).
			MarginLeft(2)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true).
			MarginLeft(2)
)

type progressMsg layout.Progress

type doneMsg struct {
	result *layout.Result
	err    error
}

type model struct {
	spinner  spinner.Model
	bar      progress.Model
	phase    layout.Phase
	percent  float64
	result   *layout.Result
	err      error
	events   <-chan any
	finished <-chan doneMsg
}

func newModel(events <-chan any, finished <-chan doneMsg) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF00FF"))
	return model{
		spinner:  s,
		bar:      progress.New(progress.WithDefaultGradient()),
		phase:    layout.PhaseInitializing,
		events:   events,
		finished: finished,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForEvent())
}

// waitForEvent turns the next bus event or run completion into a message
func (m model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case ev, ok := <-m.events:
			if !ok {
				return <-m.finished
			}
			if p, isProgress := ev.(layout.Progress); isProgress {
				return progressMsg(p)
			}
			return nil
		case d := <-m.finished:
			return d
		}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case progressMsg:
		m.phase = msg.Phase
		m.percent = msg.Percent
		return m, m.waitForEvent()
	case doneMsg:
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, m.waitForEvent()
}

func (m model) View() string {
	out := titleStyle.Render("graphscape layout") + "\n\n"

	switch {
	case m.err != nil:
		out += errStyle.Render("failed: "+m.err.Error()) + "\n"
	case m.result != nil:
		out += doneStyle.Render(fmt.Sprintf("%s: %d nodes, %d clusters, %d iterations",
			m.result.Outcome, len(m.result.Positions), len(m.result.Clusters), m.result.Iterations)) + "\n"
	default:
		out += "  " + m.spinner.View() + m.bar.ViewAs(m.percent/100) + "\n"
		out += phaseStyle.Render(string(m.phase)) + "\n"
	}

	out += phaseStyle.Render("press q to quit") + "\n"
	return out
}

type snapshotFile struct {
	Nodes []graph.Node `json:"nodes"`
	Edges []graph.Edge `json:"edges"`
}

func main() {
	inputPath := flag.String("input", "", "snapshot JSON file with nodes and edges")
	flag.Parse()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "missing -input snapshot file")
		os.Exit(2)
	}

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	var snap snapshotFile
	if err := json.Unmarshal(data, &snap); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	eng, err := engine.New(config.Default())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer eng.Close()
	eng.SetSnapshot(snap.Nodes, snap.Edges)

	sub := eng.Bus().Subscribe(pubsub.TopicLayoutProgress)
	finished := make(chan doneMsg, 1)
	go func() {
		result, err := eng.RecomputeLayout(context.Background())
		sub.Unsubscribe()
		finished <- doneMsg{result: result, err: err}
	}()

	p := tea.NewProgram(newModel(sub.Channel(), finished))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
