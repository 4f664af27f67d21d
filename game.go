package lumen

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Game adapts a UI to ebiten.Game. Each tick runs UI.Update; each frame
// clears the screen and runs UI.Draw through an EbitenRenderer.
type Game struct {
	ui       *UI
	renderer *EbitenRenderer

	// ClearColor fills the screen before the UI is drawn.
	ClearColor Color
	// ShowFPS prints FPS and TPS in the top-left corner.
	ShowFPS bool
	// Resizable makes Layout follow the window: the outside size divided by
	// the UI scale becomes the UI screen size.
	Resizable bool
}

// NewGame wraps ui. If ui has no EbitenRenderer one is installed, and if
// it has no pointer source the ebiten mouse is used.
func NewGame(ui *UI) *Game {
	r, ok := ui.renderer.(*EbitenRenderer)
	if !ok {
		r = NewEbitenRenderer()
		ui.renderer = r
	}
	if ui.pointer == nil {
		ui.pointer = EbitenPointer{Scale: ui.cfg.Scale}
	}
	return &Game{ui: ui, renderer: r}
}

// UI returns the wrapped UI.
func (g *Game) UI() *UI {
	return g.ui
}

// Update implements ebiten.Game. It ends the game once the UI is closed.
func (g *Game) Update() error {
	if g.ui.State() == StateUnloaded {
		return ebiten.Termination
	}
	g.ui.Update(1 / float64(ebiten.TPS()))
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.ClearColor != (Color{}) {
		screen.Fill(g.ClearColor.toRGBA())
	}
	g.renderer.SetScreen(screen)
	g.ui.Draw()
	if g.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

// Layout implements ebiten.Game. The layout is the logical screen size
// times the UI scale, so one layout pixel is one physical pixel.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.Resizable && outsideWidth > 0 && outsideHeight > 0 {
		scale := g.ui.cfg.Scale
		g.ui.SetScreenSize(int(float64(outsideWidth)/scale), int(float64(outsideHeight)/scale))
	}
	cfg := g.ui.cfg
	return physicalSize(float64(cfg.ScreenWidth), cfg.Scale), physicalSize(float64(cfg.ScreenHeight), cfg.Scale)
}

// RunConfig holds the window options for Run.
type RunConfig struct {
	ClearColor Color
	ShowFPS    bool
	Resizable  bool
}

// Run loads ui if needed, opens a window sized from the UI config and runs
// the game loop until the window closes or the UI is closed.
func Run(ui *UI, rc RunConfig) error {
	if ui.State() == StateUnloaded {
		if err := ui.Load(); err != nil {
			return err
		}
	}
	g := NewGame(ui)
	g.ClearColor = rc.ClearColor
	g.ShowFPS = rc.ShowFPS
	g.Resizable = rc.Resizable

	w, h := g.Layout(0, 0)
	ebiten.SetWindowTitle(ui.cfg.Title)
	ebiten.SetWindowSize(w, h)
	if rc.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	err := ebiten.RunGame(g)
	ui.Close()
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
