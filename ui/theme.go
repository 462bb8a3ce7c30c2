// Package ui draws the raylib heads-up display: status text, the best
// genome listing and the export and pause controls.
package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/foodbots/vm"
)

// Theme holds UI styling constants.
type Theme struct {
	Background  rl.Color
	GridLine    rl.Color
	Food        rl.Color
	BotOutline  rl.Color
	BotEye      rl.Color
	DeadEye     rl.Color
	Leader      rl.Color
	PanelBg     rl.Color
	PanelBorder rl.Color
	Header      rl.Color
	LabelColor  rl.Color
	ValueColor  rl.Color

	// Gene colours by opcode kind
	GeneMove    rl.Color
	GeneSensor  rl.Color
	GeneLabel   rl.Color
	GeneJump    rl.Color
	GeneInvalid rl.Color

	Padding    int32
	LineHeight int32
	LabelWidth int32
	FontSize   int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		Background:  rl.RayWhite,
		GridLine:    rl.Color{R: 191, G: 191, B: 191, A: 255},
		Food:        rl.Color{R: 0, G: 127, B: 255, A: 255},
		BotOutline:  rl.Color{R: 63, G: 63, B: 63, A: 255},
		BotEye:      rl.Color{R: 255, G: 0, B: 0, A: 255},
		DeadEye:     rl.Color{R: 127, G: 127, B: 127, A: 255},
		Leader:      rl.Color{R: 0, G: 170, B: 60, A: 255},
		PanelBg:     rl.Color{R: 20, G: 25, B: 30, A: 230},
		PanelBorder: rl.Color{R: 60, G: 70, B: 80, A: 255},
		Header:      rl.Yellow,
		LabelColor:  rl.LightGray,
		ValueColor:  rl.White,

		GeneMove:    rl.Color{R: 230, G: 120, B: 60, A: 255},
		GeneSensor:  rl.Color{R: 80, G: 170, B: 240, A: 255},
		GeneLabel:   rl.Color{R: 200, G: 200, B: 200, A: 255},
		GeneJump:    rl.Color{R: 190, G: 110, B: 230, A: 255},
		GeneInvalid: rl.Red,

		Padding:    10,
		LineHeight: 16,
		LabelWidth: 90,
		FontSize:   12,
	}
}

// GeneColor returns the colour a gene is listed in.
func (t Theme) GeneColor(kind vm.Kind) rl.Color {
	switch kind {
	case vm.KindMove:
		return t.GeneMove
	case vm.KindSensor:
		return t.GeneSensor
	case vm.KindLabel:
		return t.GeneLabel
	case vm.KindJump:
		return t.GeneJump
	default:
		return t.GeneInvalid
	}
}

// Renderer handles UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawLabelValue draws a label and value on the same line and returns the next Y.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}
