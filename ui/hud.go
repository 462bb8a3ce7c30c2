package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/foodbots/telemetry"
	"github.com/pthm-cable/foodbots/vm"
)

// HUDData holds all the data needed to render the status panel.
type HUDData struct {
	Generation     int
	GenerationTick int
	Alive          int
	Population     int
	Eaten          float64 // Fraction of this generation's food eaten so far
	BestFitness    float64 // Best fitness of the last finished generation
	Speed          int
	FPS            int32
	Paused         bool
	Status         string // Transient message, e.g. after an export
}

// HUD renders the status panel.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewHUD creates a status panel at the given position.
func NewHUD(x, y, width int32) *HUD {
	return &HUD{renderer: NewRenderer(), x: x, y: y, width: width}
}

// Draw renders the HUD and returns the Y below it.
func (h *HUD) Draw(data HUDData) int32 {
	r := h.renderer
	pad := r.Theme.Padding
	height := r.Theme.LineHeight*8 + pad*2

	r.DrawPanel(h.x, h.y, h.width, height)

	x := h.x + pad
	y := h.y + pad
	rl.DrawText("Food Bots", x, y, 16, r.Theme.Header)
	y += r.Theme.LineHeight + 4

	y = r.DrawLabelValue(x, y, "Generation", fmt.Sprintf("%d", data.Generation))
	y = r.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%d", data.GenerationTick))
	y = r.DrawLabelValue(x, y, "Alive", fmt.Sprintf("%d / %d", data.Alive, data.Population))
	y = r.DrawLabelValue(x, y, "Eaten", telemetry.FormatPercent(data.Eaten))
	y = r.DrawLabelValue(x, y, "Fitness", telemetry.FormatPercent(data.BestFitness))

	status := fmt.Sprintf("%dx  %d fps", data.Speed, data.FPS)
	if data.Paused {
		status = "PAUSED"
	}
	y = r.DrawLabelValue(x, y, "Speed", status)

	if data.Status != "" {
		rl.DrawText(data.Status, x, y, r.Theme.FontSize, r.Theme.Header)
	}

	return h.y + height
}

// GenomePanel lists a genome's opcodes, coloured by kind.
type GenomePanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	height   int32
}

// NewGenomePanel creates a genome listing occupying the given rectangle.
func NewGenomePanel(x, y, width, height int32) *GenomePanel {
	return &GenomePanel{renderer: NewRenderer(), x: x, y: y, width: width, height: height}
}

// Draw renders names in as many columns as fit the panel.
func (p *GenomePanel) Draw(names []string) {
	r := p.renderer
	pad := r.Theme.Padding
	r.DrawPanel(p.x, p.y, p.width, p.height)

	rl.DrawText("Best bot", p.x+pad, p.y+pad, 14, r.Theme.Header)
	if len(names) == 0 {
		rl.DrawText("(after first generation)", p.x+pad, p.y+pad+r.Theme.LineHeight+4, r.Theme.FontSize, r.Theme.LabelColor)
		return
	}

	const colWidth = 64
	lineHeight := int32(11)
	top := p.y + pad + r.Theme.LineHeight + 4
	rows := (p.height - (top - p.y) - pad) / lineHeight
	if rows < 1 {
		return
	}
	cols := (p.width - 2*pad) / colWidth

	for i, name := range names {
		col := int32(i) / rows
		if col >= cols {
			break
		}
		row := int32(i) % rows

		kind := vm.KindInvalid
		if op, err := vm.ParseOpcode(name); err == nil {
			kind = op.Kind()
		}
		rl.DrawText(name, p.x+pad+col*colWidth, top+row*lineHeight, 10, r.Theme.GeneColor(kind))
	}
}
