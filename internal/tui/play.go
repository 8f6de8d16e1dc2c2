// Package tui lets a human play episodes in the terminal.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/metalagman/flowdebug/internal/agent"
	"github.com/metalagman/flowdebug/internal/env"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

// Model is the bubbletea model of a play session.
type Model struct {
	engine *env.Engine
	input  textinput.Model

	obs      env.Observation
	last     *env.StepResult
	done     bool
	episodes int
	solved   int
	total    float64
	err      error
}

// New starts the first episode and returns the model.
func New(engine *env.Engine) Model {
	ti := textinput.New()
	ti.Placeholder = "replacement expression"
	ti.Prompt = "expression> "
	ti.CharLimit = 512
	ti.Width = 72
	ti.Focus()

	m := Model{engine: engine, input: ti}
	m.startEpisode()
	return m
}

func (m *Model) startEpisode() {
	m.obs = m.engine.Reset()
	m.last = nil
	m.err = nil
	m.done = false
	m.episodes++
	if step, ok := m.obs.FindStep(m.target()); ok {
		expr, _ := step.Expression()
		m.input.SetValue(expr)
		m.input.CursorEnd()
	}
}

func (m Model) target() string {
	if m.obs.FailedStep != nil && *m.obs.FailedStep != "" {
		return *m.obs.FailedStep
	}
	return agent.DefaultTargetStep
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.done {
				m.startEpisode()
				return m, nil
			}
			m.submit()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submit() {
	target := m.target()
	res, err := m.engine.Step(env.PatchExpression(target, m.input.Value()))
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.last = &res
	m.total += res.Reward
	if res.Done {
		m.done = true
		if res.Info.Result == env.OutcomeSuccess {
			m.solved++
		}
	}
	m.obs = res.Observation
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("flowdebug · case %s", m.obs.CaseID)))
	b.WriteString("\n\n")

	status := failStyle.Render(m.obs.RunStatus)
	if m.obs.RunStatus == env.RunSucceeded {
		status = successStyle.Render(m.obs.RunStatus)
	}
	fmt.Fprintf(&b, "%s %s   %s %d\n", labelStyle.Render("run:"), status, labelStyle.Render("attempts left:"), m.obs.AttemptsLeft)
	if m.obs.FailedStep != nil {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("failed step:"), *m.obs.FailedStep)
	}
	if m.obs.Error != nil {
		fmt.Fprintf(&b, "%s %v\n", labelStyle.Render("error:"), m.obs.Error)
	}

	b.WriteString("\n")
	for _, s := range m.obs.Steps {
		expr, _ := s.Expression()
		fmt.Fprintf(&b, "  %-24s %-10s %s\n", s.Name, s.Status, expr)
	}
	b.WriteString("\n")

	if m.last != nil {
		line := fmt.Sprintf("%s (reward %+.1f)", m.last.Info.Result, m.last.Reward)
		if m.last.Info.Message != "" {
			line += ": " + m.last.Info.Message
		}
		if m.last.Info.Result == env.OutcomeSuccess {
			b.WriteString(successStyle.Render(line))
		} else {
			b.WriteString(failStyle.Render(line))
		}
		b.WriteString("\n\n")
	}
	if m.err != nil {
		b.WriteString(failStyle.Render(m.err.Error()))
		b.WriteString("\n\n")
	}

	if m.done {
		b.WriteString(helpStyle.Render(fmt.Sprintf("episode over · solved %d/%d · total reward %+.1f · enter: next episode · esc: quit",
			m.solved, m.episodes, m.total)))
	} else {
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter: submit patch · esc: quit"))
	}
	b.WriteString("\n")
	return b.String()
}

// Run starts the interactive program.
func Run(engine *env.Engine) error {
	_, err := tea.NewProgram(New(engine)).Run()
	return err
}
