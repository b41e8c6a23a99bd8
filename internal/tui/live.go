// Package tui is a live closed-loop view with runtime controller
// tuning.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/ctrlkit/pid"
	"github.com/ctrlkit/pid/internal/loop"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const (
	frameRate  = 30
	historyLen = 240
	plotHeight = 12
	plotWidth  = 78
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model runs one controller/plant pair in real time. Gain and limit
// hotkeys go through the controller's mutators, so the view doubles as
// a demonstration of safe runtime retuning.
type Model struct {
	ctrl      *pid.Controller
	plant     loop.Plant
	integ     loop.Integrator
	plantName string

	x        loop.State
	x0       loop.State
	t        float64
	dt       float64
	setpoint float64
	lastU    float64

	history []float64
	paused  bool
	runErr  error
}

func NewModel(plantName string, p loop.Plant, integ loop.Integrator, ctrl *pid.Controller, x0 loop.State, dt, setpoint float64) Model {
	return Model{
		ctrl:      ctrl,
		plant:     p,
		integ:     integ,
		plantName: plantName,
		x:         x0.Clone(),
		x0:        x0.Clone(),
		dt:        dt,
		setpoint:  setpoint,
		history:   make([]float64, 0, historyLen),
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tickMsg:
		if !m.paused && m.runErr == nil {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cfg := m.ctrl.Config()

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.paused = !m.paused
	case "r":
		m.ctrl.Reset()
		m.x = m.x0.Clone()
		m.t = 0
		m.lastU = 0
		m.history = m.history[:0]
		m.runErr = nil
	case "P":
		m.setGains(cfg.Kp+0.1, cfg.Ki, cfg.Kd)
	case "p":
		m.setGains(math.Max(0, cfg.Kp-0.1), cfg.Ki, cfg.Kd)
	case "I":
		m.setGains(cfg.Kp, cfg.Ki+0.05, cfg.Kd)
	case "i":
		m.setGains(cfg.Kp, math.Max(0, cfg.Ki-0.05), cfg.Kd)
	case "D":
		m.setGains(cfg.Kp, cfg.Ki, cfg.Kd+0.01)
	case "d":
		m.setGains(cfg.Kp, cfg.Ki, math.Max(0, cfg.Kd-0.01))
	case "A":
		_ = m.ctrl.SetAntiWindup(cfg.Kaw + 0.1)
	case "a":
		_ = m.ctrl.SetAntiWindup(math.Max(0, cfg.Kaw-0.1))
	case "]":
		_ = m.ctrl.SetOutputLimits(cfg.UMin*1.25, cfg.UMax*1.25)
	case "[":
		_ = m.ctrl.SetOutputLimits(cfg.UMin*0.8, cfg.UMax*0.8)
	case "S":
		m.setpoint += 0.1
	case "s":
		m.setpoint -= 0.1
	}
	return m, nil
}

func (m *Model) setGains(kp, ki, kd float64) {
	// retune without clearing history: the loop keeps running through
	// the change
	_ = m.ctrl.SetGains(kp, ki, kd, false)
}

// step advances the simulation by one frame's worth of control steps.
func (m *Model) step() {
	steps := int(1.0 / float64(frameRate) / m.dt)
	if steps < 1 {
		steps = 1
	}
	for i := 0; i < steps; i++ {
		meas := m.plant.Output(m.x)
		u, err := m.ctrl.Update(m.setpoint, meas)
		if err != nil {
			m.runErr = err
			return
		}
		m.lastU = u
		m.x = m.integ.Step(m.plant, m.x, u, m.t, m.dt)
		m.t += m.dt
	}

	m.history = append(m.history, m.plant.Output(m.x))
	if len(m.history) > historyLen {
		m.history = m.history[1:]
	}
}

func (m Model) View() string {
	var b strings.Builder

	cfg := m.ctrl.Config()

	b.WriteString(cyan.Render(fmt.Sprintf("pidlab live [%s]", m.plantName)))
	b.WriteString(dim.Render(fmt.Sprintf("  t=%.2fs", m.t)))
	if m.paused {
		b.WriteString(yellow.Render("  [paused]"))
	}
	b.WriteString("\n\n")

	if len(m.history) > 1 {
		b.WriteString(asciigraph.Plot(m.history,
			asciigraph.Height(plotHeight),
			asciigraph.Width(plotWidth),
			asciigraph.Caption(fmt.Sprintf("output vs setpoint %.2f", m.setpoint)),
		))
	} else {
		b.WriteString(dim.Render("collecting samples..."))
	}
	b.WriteString("\n\n")

	b.WriteString(white.Render(fmt.Sprintf(
		"kp=%.2f  ki=%.2f  kd=%.3f  kaw=%.2f  limits=[%.2f, %.2f]",
		cfg.Kp, cfg.Ki, cfg.Kd, cfg.Kaw, cfg.UMin, cfg.UMax,
	)))
	b.WriteString("\n")
	b.WriteString(green.Render(fmt.Sprintf("u=%.3f  y=%.3f  e=%.3f",
		m.lastU, m.plant.Output(m.x), m.setpoint-m.plant.Output(m.x))))
	b.WriteString("\n\n")

	if m.runErr != nil {
		b.WriteString(red.Render(fmt.Sprintf("controller error: %v", m.runErr)))
		b.WriteString("\n")
	}

	b.WriteString(dim.Render("p/P kp  i/I ki  d/D kd  a/A kaw  [/] limits  s/S setpoint  space pause  r reset  q quit"))
	b.WriteString("\n")

	return b.String()
}
