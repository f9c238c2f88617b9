// Package game hosts a simulation.World in an ebiten window.
package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/ui"
)

type Game struct {
	ctx    context.Context
	world  *simulation.World
	logger log.Logger

	mesh      *mesh
	positions []geometry.Vector2D

	// UI Controls
	panel            *ui.UIPanel
	widgetSeparation *ui.Slider
	widgetAlignment  *ui.Slider
	widgetCohesion   *ui.Slider
	widgetWander     *ui.Slider
	widgetBlend      *ui.Slider
	widgetShowStats  *ui.Checkbox

	// Timing instrumentation, rolling averages in ms
	updateAvg float64
	drawAvg   float64
}

// NewGame wires the world to a tuning panel. Update stops with
// ebiten.Termination once ctx is done.
func NewGame(ctx context.Context, world *simulation.World, logger log.Logger) *Game {
	wt := world.Weights()

	panel := ui.NewUIPanel("Flock", 10, 10, 240, 380)
	panel.AddSection("Flocking")
	widgetSeparation := panel.AddSlider("Separation", 0, 5, float64(wt.Separation))
	widgetAlignment := panel.AddSlider("Alignment", 0, 2, float64(wt.Alignment))
	widgetCohesion := panel.AddSlider("Cohesion", 0, 2, float64(wt.Cohesion))
	widgetWander := panel.AddSlider("Wander", 0, 1, float64(wt.Wander))
	widgetBlend := panel.AddSlider("Force Blend", 0, 2, float64(wt.Blend))
	panel.EndSection()

	panel.AddSection("Display")
	widgetShowStats := panel.AddCheckbox("Show Timings", true)
	panel.EndSection()

	panel.AddButton("Reset Flock", world.Reset)

	return &Game{
		ctx:              ctx,
		world:            world,
		logger:           logger,
		mesh:             newMesh(),
		positions:        make([]geometry.Vector2D, 0, world.Len()),
		panel:            panel,
		widgetSeparation: widgetSeparation,
		widgetAlignment:  widgetAlignment,
		widgetCohesion:   widgetCohesion,
		widgetWander:     widgetWander,
		widgetBlend:      widgetBlend,
		widgetShowStats:  widgetShowStats,
	}
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.updateAvg = g.updateAvg*0.95 + ms(time.Since(start))*0.05
	}()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.logger.Info("Escape pressed, closing window")
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.panel.Visible = !g.panel.Visible
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.world.Reset()
	}

	g.panel.Update()
	g.applyWeights()

	if err := g.world.Update(g.ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return ebiten.Termination
		}
		return fmt.Errorf("simulation frame %d: %w", g.world.Frame(), err)
	}
	return nil
}

// applyWeights pushes slider values to the world when they moved.
func (g *Game) applyWeights() {
	wt := simulation.Weights{
		Separation: float32(g.widgetSeparation.Value),
		Alignment:  float32(g.widgetAlignment.Value),
		Cohesion:   float32(g.widgetCohesion.Value),
		Wander:     float32(g.widgetWander.Value),
		Blend:      float32(g.widgetBlend.Value),
	}
	if wt != g.world.Weights() {
		g.world.SetWeights(wt)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + ms(time.Since(start))*0.05
	}()

	screen.Fill(backgroundColor)
	g.positions = g.world.Positions(g.positions)
	g.mesh.draw(screen, g.positions)

	g.panel.Draw(screen)
	if g.widgetShowStats.Value {
		g.drawStats(screen)
	}
}

func (g *Game) drawStats(screen *ebiten.Image) {
	s := g.world.Stats()
	sum := g.drawAvg + ms(s.Total())
	maxFPS := 0.0
	if sum > 0 {
		maxFPS = 1000 / sum
	}
	msg := fmt.Sprintf("render: %.1fms\nupdate: %.1f/%.1fms\nsum: %.1fms\nmax fps: %.1f\n\nFPS: %.1f  TPS: %.1f\nboids: %d  workers: %d\nframe: %d",
		g.drawAvg,
		ms(s.Parallel), ms(s.Commit),
		sum, maxFPS,
		ebiten.ActualFPS(), ebiten.ActualTPS(),
		g.world.Len(), g.world.Workers(),
		g.world.Frame())
	ebitenutil.DebugPrintAt(screen, msg, screen.Bounds().Dx()-190, 10)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
