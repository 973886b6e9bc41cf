// Package explorer is an interactive terminal view over a storm network:
// pick a variable, set evidence on any other and watch the posterior.
package explorer

import (
	"fmt"
	"maps"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/stormnet/pkg/bayes"
	"github.com/dd0wney/stormnet/pkg/inference"
	"github.com/dd0wney/stormnet/pkg/report"
)

// posteriorMsg carries the answer to request seq
type posteriorMsg struct {
	seq      int
	name     string
	evidence inference.Evidence
	dist     *inference.Distribution
	err      error
}

// Model is the bubbletea model of the explorer
type Model struct {
	engine   *inference.Engine
	renderer *report.Renderer
	vars     []*bayes.Variable

	cursor   int
	evidence inference.Evidence
	seq      int
	answer   posteriorMsg

	help   help.Model
	keys   keyMap
	width  int
	height int
}

// New creates an explorer over the engine's network with no evidence set
func New(engine *inference.Engine) Model {
	return Model{
		engine:   engine,
		renderer: report.New(),
		vars:     engine.Network().Variables(),
		evidence: inference.Evidence{},
		help:     help.New(),
		keys:     keys,
	}
}

// Run starts the explorer on the alternate screen and blocks until quit
func Run(engine *inference.Engine) error {
	p := tea.NewProgram(New(engine), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Cursor returns the name of the selected variable
func (m Model) Cursor() string {
	if len(m.vars) == 0 {
		return ""
	}
	return m.vars[m.cursor].Name()
}

// Evidence returns a copy of the current evidence
func (m Model) Evidence() inference.Evidence {
	return maps.Clone(m.evidence)
}

// Posterior returns the last answer for the selected variable
func (m Model) Posterior() (*inference.Distribution, error) {
	return m.answer.dist, m.answer.err
}

func (m Model) Init() tea.Cmd {
	return m.query()
}

// ask starts a new request; answers to older ones are dropped
func (m *Model) ask() tea.Cmd {
	m.seq++
	return m.query()
}

// query asks for the selected variable on a snapshot of the evidence
func (m Model) query() tea.Cmd {
	if len(m.vars) == 0 {
		return nil
	}
	seq, name := m.seq, m.vars[m.cursor].Name()
	engine, evidence := m.engine, maps.Clone(m.evidence)

	return func() tea.Msg {
		dist, err := engine.Ask([]string{name}, evidence)
		return posteriorMsg{seq: seq, name: name, evidence: evidence, dist: dist, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case posteriorMsg:
		if msg.seq != m.seq {
			return m, nil // stale
		}
		m.answer = msg

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
				return m, m.ask()
			}

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.vars)-1 {
				m.cursor++
				return m, m.ask()
			}

		case key.Matches(msg, m.keys.Next):
			m.cycle(1)
			return m, m.ask()

		case key.Matches(msg, m.keys.Prev):
			m.cycle(-1)
			return m, m.ask()

		case key.Matches(msg, m.keys.Clear):
			if len(m.evidence) > 0 {
				m.evidence = inference.Evidence{}
				return m, m.ask()
			}
		}
	}

	return m, nil
}

// cycle steps the selected variable through unobserved, then each state
// in order, then back to unobserved
func (m *Model) cycle(step int) {
	if len(m.vars) == 0 {
		return
	}
	v := m.vars[m.cursor]
	n := v.Cardinality() + 1 // slot 0 is unobserved

	slot := 0
	if s, ok := m.evidence[v.Name()]; ok {
		idx, _ := v.StateIndex(s)
		slot = idx + 1
	}
	slot = ((slot+step)%n + n) % n

	evidence := maps.Clone(m.evidence)
	if slot == 0 {
		delete(evidence, v.Name())
	} else {
		evidence[v.Name()] = v.State(slot - 1)
	}
	m.evidence = evidence
}

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("Storm network explorer"))
	s.WriteString("\n\n")
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		listStyle.Render(m.renderVariables()),
		posteriorStyle.Render(m.renderPosterior()),
	))
	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return s.String()
}

// window returns the slice of variable indices that fits the screen
func (m Model) window() (int, int) {
	rows := m.height - 10
	if rows <= 0 || rows >= len(m.vars) {
		return 0, len(m.vars)
	}
	start := max(0, m.cursor-rows/2)
	end := min(len(m.vars), start+rows)
	return end - rows, end
}

func (m Model) renderVariables() string {
	var lines []string
	start, end := m.window()
	for i := start; i < end; i++ {
		v := m.vars[i]
		line := v.Name()
		if s, ok := m.evidence[v.Name()]; ok {
			line += " = " + observedStyle.Render(s)
		}
		if i == m.cursor {
			line = cursorStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderPosterior() string {
	a := m.answer
	if a.err != nil {
		return errorStyle.Render(fmt.Sprintf("✗ %v", a.err))
	}
	if a.dist == nil {
		return "computing..."
	}
	return m.renderer.Posterior("P("+a.name+")", a.dist, a.evidence)
}
