package renderer

import (
	"context"
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/foodbots/config"
	"github.com/pthm-cable/foodbots/game"
	"github.com/pthm-cable/foodbots/telemetry"
	"github.com/pthm-cable/foodbots/ui"
)

const (
	hudWidth    = 220
	genomeWidth = 290
)

// View is the windowed presenter. It keeps the latest snapshot pushed by
// the game and draws it once per frame.
type View struct {
	cfg      *config.Config
	world    *WorldRenderer
	hud      *ui.HUD
	genome   *ui.GenomePanel
	controls *ui.ControlsPanel
	overlays *ui.OverlayRegistry
	pacer    *game.Pacer

	snap       *game.Snapshot
	exportPath string
	status     string
}

// NewView creates a view sized by cfg.Screen. exportPath is where the
// best genome is written on export.
func NewView(cfg *config.Config, exportPath string) *View {
	sw, sh := int32(cfg.Screen.Width), int32(cfg.Screen.Height)
	return &View{
		cfg:        cfg,
		world:      NewWorldRenderer(sw, sh),
		hud:        ui.NewHUD(10, 10, hudWidth),
		genome:     ui.NewGenomePanel(sw-genomeWidth-10, 10, genomeWidth, sh-20),
		controls:   ui.NewControlsPanel(10, 0, hudWidth),
		overlays:   ui.NewOverlayRegistry(),
		pacer:      game.NewPacer(cfg.Sim.TicksPerSecond),
		exportPath: exportPath,
	}
}

// OnTick keeps the latest state for the next frame.
func (v *View) OnTick(snap *game.Snapshot) {
	v.snap = snap
}

// OnGeneration keeps the first snapshot of the new generation.
func (v *View) OnGeneration(snap *game.Snapshot, stats telemetry.GenerationStats) {
	v.snap = snap
	slog.Debug("generation shown", "generation", stats.Generation, "best_fitness", stats.BestFitness)
}

// Run opens the window and drives g until the window closes or ctx is done.
func (v *View) Run(ctx context.Context, g *game.Game) error {
	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(int32(v.cfg.Screen.Width), int32(v.cfg.Screen.Height), "Food Bots")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(v.cfg.Screen.TargetFPS))

	g.AddPresenter(v)
	v.snap = g.Snapshot()

	for !rl.WindowShouldClose() {
		if err := ctx.Err(); err != nil {
			return err
		}

		v.handleInput()

		steps := v.pacer.Steps(float64(rl.GetFrameTime()))
		for range steps {
			g.Tick()
		}

		rl.BeginDrawing()
		rl.ClearBackground(ui.DefaultTheme().Background)
		v.draw()
		rl.EndDrawing()
	}
	return nil
}

func (v *View) handleInput() {
	if key := rl.GetKeyPressed(); key != 0 {
		if id, on, ok := v.overlays.HandleKeyPress(key); ok {
			slog.Debug("overlay toggled", "overlay", id, "enabled", on)
		}
	}
	v.apply(ui.KeyAction())
}

func (v *View) apply(action ui.Action) {
	switch action {
	case ui.ActionExport:
		v.export()
	case ui.ActionPause:
		v.pacer.TogglePause()
	case ui.ActionFaster:
		v.pacer.Faster()
	case ui.ActionSlower:
		v.pacer.Slower()
	}
}

func (v *View) export() {
	if v.snap == nil || len(v.snap.BestGenome) == 0 {
		v.status = "no finished generation yet"
		return
	}
	if err := telemetry.WriteGenomeJSON(v.exportPath, v.snap.BestGenome); err != nil {
		slog.Error("export failed", "path", v.exportPath, "error", err)
		v.status = "export failed"
		return
	}
	slog.Info("exported best genome", "path", v.exportPath, "generation", v.snap.Generation-1)
	v.status = fmt.Sprintf("saved %s", v.exportPath)
}

func (v *View) draw() {
	snap := v.snap
	if v.overlays.IsEnabled(ui.OverlayGridLines) {
		v.world.DrawGridLines(snap)
	}
	v.world.DrawFood(snap)
	v.world.DrawBots(snap, v.overlays.IsEnabled(ui.OverlayLeader))

	alive := 0
	for _, b := range snap.Bots {
		if b.Alive {
			alive++
		}
	}

	bottom := v.hud.Draw(ui.HUDData{
		Generation:     snap.Generation,
		GenerationTick: snap.GenerationTick,
		Alive:          alive,
		Population:     len(snap.Bots),
		Eaten:          snap.EatenFraction,
		BestFitness:    snap.LastBestFitness,
		Speed:          v.pacer.Speed(),
		FPS:            rl.GetFPS(),
		Paused:         v.pacer.Paused(),
		Status:         v.status,
	})

	if v.overlays.IsEnabled(ui.OverlayControls) {
		v.controls.SetPosition(10, float32(bottom)+6)
		v.apply(v.controls.Draw(v.pacer.Paused()))
	}
	if v.overlays.IsEnabled(ui.OverlayGenome) {
		v.genome.Draw(snap.BestGenome)
	}
}
