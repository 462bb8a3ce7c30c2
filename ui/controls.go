package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"
)

// Action is a control the user triggered this frame.
type Action int

const (
	ActionNone Action = iota
	ActionExport
	ActionPause
	ActionFaster
	ActionSlower
)

// ControlsPanel renders the raygui button row.
type ControlsPanel struct {
	x, y  float32
	width float32
}

// NewControlsPanel creates a button row starting at (x, y).
func NewControlsPanel(x, y, width float32) *ControlsPanel {
	return &ControlsPanel{x: x, y: y, width: width}
}

// SetPosition moves the row.
func (c *ControlsPanel) SetPosition(x, y float32) {
	c.x, c.y = x, y
}

// Draw renders the buttons and returns the one that was clicked.
func (c *ControlsPanel) Draw(paused bool) Action {
	const gap = 6
	bw := (c.width - 3*gap) / 4
	bh := float32(26)
	action := ActionNone

	pauseText := "Pause"
	if paused {
		pauseText = "Resume"
	}

	if gui.Button(rl.Rectangle{X: c.x, Y: c.y, Width: bw, Height: bh}, "Export") {
		action = ActionExport
	}
	if gui.Button(rl.Rectangle{X: c.x + (bw + gap), Y: c.y, Width: bw, Height: bh}, pauseText) {
		action = ActionPause
	}
	if gui.Button(rl.Rectangle{X: c.x + 2*(bw+gap), Y: c.y, Width: bw, Height: bh}, "-") {
		action = ActionSlower
	}
	if gui.Button(rl.Rectangle{X: c.x + 3*(bw+gap), Y: c.y, Width: bw, Height: bh}, "+") {
		action = ActionFaster
	}

	return action
}

// KeyAction maps the keyboard shortcuts to actions.
func KeyAction() Action {
	switch {
	case rl.IsKeyPressed(rl.KeyE):
		return ActionExport
	case rl.IsKeyPressed(rl.KeySpace):
		return ActionPause
	case rl.IsKeyPressed(rl.KeyEqual), rl.IsKeyPressed(rl.KeyKpAdd):
		return ActionFaster
	case rl.IsKeyPressed(rl.KeyMinus), rl.IsKeyPressed(rl.KeyKpSubtract):
		return ActionSlower
	}
	return ActionNone
}
