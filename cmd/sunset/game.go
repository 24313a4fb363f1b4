package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phanxgames/sunset"
)

// game adapts the scene to ebiten.Game.
type game struct {
	stage    *sunset.Stage
	director *sunset.Director
	script   *sunset.Script

	width, height int
	touchIDs      []ebiten.TouchID
}

func (g *game) Update() error {
	if g.activated() {
		// Trigger logs its own errors; a failed trigger leaves the scene as
		// it was.
		_, _ = g.director.Trigger()
	}
	if g.script != nil {
		g.script.Step(g.director)
	}
	g.director.Update(time.Second / time.Duration(ebiten.TPS()))
	return nil
}

// activated reports a click, tap or space press this frame.
func (g *game) activated() bool {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) ||
		inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		return true
	}
	g.touchIDs = inpututil.AppendJustPressedTouchIDs(g.touchIDs[:0])
	return len(g.touchIDs) > 0
}

func (g *game) Draw(screen *ebiten.Image) {
	g.stage.Draw(screen)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		sunset.LayoutScene(g.stage, float64(g.width), float64(g.height))
	}
	return outsideWidth, outsideHeight
}
