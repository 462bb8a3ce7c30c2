package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pthm-cable/foodbots/game"
	"github.com/pthm-cable/foodbots/vm"
)

const (
	runeEmpty = '·'
	runeFood  = 'o'
)

// cellKind selects the style of one rendered cell.
type cellKind int

const (
	cellEmpty cellKind = iota
	cellFood
	cellBot
	cellDead
	cellLeader
)

var cellStyles = map[cellKind]lipgloss.Style{
	cellEmpty:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	cellFood:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	cellBot:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	cellDead:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	cellLeader: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
}

var headingRunes = map[vm.Direction]rune{
	vm.East:  '>',
	vm.North: '^',
	vm.West:  '<',
	vm.South: 'v',
}

type cell struct {
	r    rune
	kind cellKind
}

// frame lays out at most cols x rows cells of the snapshot's top-left corner.
// Bots are drawn over food; later bots over earlier ones, the leader last.
func frame(snap *game.Snapshot, cols, rows int) [][]cell {
	cols = min(cols, snap.Width)
	rows = min(rows, snap.Height)
	if cols <= 0 || rows <= 0 {
		return nil
	}

	out := make([][]cell, rows)
	for y := range rows {
		out[y] = make([]cell, cols)
		for x := range cols {
			if snap.FoodAt(x, y) {
				out[y][x] = cell{runeFood, cellFood}
			} else {
				out[y][x] = cell{runeEmpty, cellEmpty}
			}
		}
	}

	place := func(i int, kind cellKind) {
		b := snap.Bots[i]
		if b.X < cols && b.Y < rows {
			out[b.Y][b.X] = cell{headingRunes[b.Dir], kind}
		}
	}
	for i, b := range snap.Bots {
		if i == snap.Leader {
			continue
		}
		kind := cellBot
		if !b.Alive {
			kind = cellDead
		}
		place(i, kind)
	}
	if snap.Leader >= 0 {
		place(snap.Leader, cellLeader)
	}
	return out
}

// PlainFrame renders the grid without styling, one string per row.
func PlainFrame(snap *game.Snapshot, cols, rows int) []string {
	cells := frame(snap, cols, rows)
	lines := make([]string, len(cells))
	for y, row := range cells {
		var sb strings.Builder
		for _, c := range row {
			sb.WriteRune(c.r)
		}
		lines[y] = sb.String()
	}
	return lines
}

// RenderGrid renders the grid with colours, grouping runs of equal style.
func RenderGrid(snap *game.Snapshot, cols, rows int) string {
	cells := frame(snap, cols, rows)

	var sb strings.Builder
	for y, row := range cells {
		if y > 0 {
			sb.WriteRune('\n')
		}
		x := 0
		for x < len(row) {
			kind := row[x].kind
			var run strings.Builder
			for x < len(row) && row[x].kind == kind {
				run.WriteRune(row[x].r)
				x++
			}
			sb.WriteString(cellStyles[kind].Render(run.String()))
		}
	}
	return sb.String()
}
