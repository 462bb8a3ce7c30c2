// Package renderer draws the food grid and bots with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/foodbots/game"
	"github.com/pthm-cable/foodbots/ui"
	"github.com/pthm-cable/foodbots/vm"
)

// WorldRenderer draws a snapshot scaled to fill a screen area.
type WorldRenderer struct {
	theme         ui.Theme
	width, height float32
}

// NewWorldRenderer creates a renderer for a screenW x screenH canvas.
func NewWorldRenderer(screenW, screenH int32) *WorldRenderer {
	return &WorldRenderer{
		theme:  ui.DefaultTheme(),
		width:  float32(screenW),
		height: float32(screenH),
	}
}

// cellSize returns the pixel size of one grid cell.
func (r *WorldRenderer) cellSize(snap *game.Snapshot) (float32, float32) {
	return r.width / float32(snap.Width), r.height / float32(snap.Height)
}

// DrawGridLines draws the cell boundaries.
func (r *WorldRenderer) DrawGridLines(snap *game.Snapshot) {
	cw, ch := r.cellSize(snap)
	for x := 1; x < snap.Width; x++ {
		px := float32(x) * cw
		rl.DrawLineV(rl.Vector2{X: px, Y: 0}, rl.Vector2{X: px, Y: r.height}, r.theme.GridLine)
	}
	for y := 1; y < snap.Height; y++ {
		py := float32(y) * ch
		rl.DrawLineV(rl.Vector2{X: 0, Y: py}, rl.Vector2{X: r.width, Y: py}, r.theme.GridLine)
	}
}

// DrawFood draws a dot in every food cell.
func (r *WorldRenderer) DrawFood(snap *game.Snapshot) {
	cw, ch := r.cellSize(snap)
	radius := min(0.4*cw, 0.4*ch) / 2
	for y := 0; y < snap.Height; y++ {
		for x := 0; x < snap.Width; x++ {
			if !snap.FoodAt(x, y) {
				continue
			}
			center := rl.Vector2{X: (float32(x) + 0.5) * cw, Y: (float32(y) + 0.5) * ch}
			rl.DrawCircleV(center, radius, r.theme.Food)
		}
	}
}

// DrawBots draws every bot body with an eye on its heading side.
// The leader, if highlight is set, gets a filled body.
func (r *WorldRenderer) DrawBots(snap *game.Snapshot, highlight bool) {
	cw, ch := r.cellSize(snap)
	for i, bot := range snap.Bots {
		body := rl.Rectangle{
			X:      (float32(bot.X) + 0.15) * cw,
			Y:      (float32(bot.Y) + 0.15) * ch,
			Width:  0.7 * cw,
			Height: 0.7 * ch,
		}

		if highlight && i == snap.Leader {
			rl.DrawRectangleRec(body, r.theme.Leader)
		}
		rl.DrawRectangleLinesEx(body, 2, r.theme.BotOutline)

		eyeColor := r.theme.BotEye
		if !bot.Alive {
			eyeColor = r.theme.DeadEye
		}
		rl.DrawRectangleRec(eyeRect(body, bot.Dir), eyeColor)
	}
}

// eyeRect returns a half-size square shifted from the body centre towards dir.
func eyeRect(body rl.Rectangle, dir vm.Direction) rl.Rectangle {
	w, h := body.Width/2, body.Height/2
	dx, dy := dir.Vector()
	return rl.Rectangle{
		X:      body.X + body.Width/2 - w/2 + w/2*float32(dx),
		Y:      body.Y + body.Height/2 - h/2 + h/2*float32(dy),
		Width:  w,
		Height: h,
	}
}
