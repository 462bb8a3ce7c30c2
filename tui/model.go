package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pthm-cable/foodbots/game"
	"github.com/pthm-cable/foodbots/telemetry"
)

// Lines used by the status header and the key help.
const chromeLines = 3

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Model is the Bubble Tea model that drives a Game.
type Model struct {
	game     *game.Game
	pacer    *game.Pacer
	interval time.Duration
	snap     *game.Snapshot

	width, height int
	quitting      bool
}

// NewModel creates a model for g, redrawing fps times a second.
func NewModel(g *game.Game, fps int) Model {
	cfg := g.Config()
	return Model{
		game:     g,
		pacer:    game.NewPacer(cfg.Sim.TicksPerSecond),
		interval: frameInterval(fps),
		snap:     g.Snapshot(),
		width:    cfg.World.Width,
		height:   cfg.World.Height + chromeLines,
	}
}

// Init starts the frame loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.interval)
}

// Update handles messages and advances the simulation on frames.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "p", " ":
		m.pacer.TogglePause()
	case "+", "=":
		m.pacer.Faster()
	case "-":
		m.pacer.Slower()
	}
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	steps := m.pacer.Steps(m.interval.Seconds())
	for range steps {
		m.game.Tick()
	}
	if steps > 0 {
		m.snap = m.game.Snapshot()
	}
	return m, tickCmd(m.interval)
}

// View renders the status line, the visible part of the grid and key help.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("foodbots"))
	sb.WriteString(" ")
	sb.WriteString(m.status())
	sb.WriteString("\n")
	sb.WriteString(RenderGrid(m.snap, m.width, m.height-chromeLines))
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("q quit  p pause  +/- speed"))
	return sb.String()
}

func (m Model) status() string {
	alive := 0
	for _, b := range m.snap.Bots {
		if b.Alive {
			alive++
		}
	}
	speed := fmt.Sprintf("%dx", m.pacer.Speed())
	if m.pacer.Paused() {
		speed = "paused"
	}
	return fmt.Sprintf("gen %d  tick %d  alive %d/%d  eaten %s  best %s  %s",
		m.snap.Generation, m.snap.GenerationTick, alive, len(m.snap.Bots),
		telemetry.FormatPercent(m.snap.EatenFraction),
		telemetry.FormatPercent(m.snap.LastBestFitness),
		speed)
}

// Run starts the Bubble Tea program for g.
func Run(g *game.Game, fps int) error {
	p := tea.NewProgram(NewModel(g, fps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
