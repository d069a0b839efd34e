package willowvr

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsOverlay draws the current FPS and TPS in the top-left corner.
// The text is refreshed every ~0.5 seconds into a small cached image.
type fpsOverlay struct {
	img     *ebiten.Image
	elapsed float64
	text    string
}

func newFPSOverlay() *fpsOverlay {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	return &fpsOverlay{img: ebiten.NewImage(100, 32)}
}

// update advances the refresh timer by dt seconds and redraws the cached
// image when it elapses. Returns true if the image was redrawn.
func (o *fpsOverlay) update(dt float64) bool {
	o.elapsed += dt
	if o.text != "" && o.elapsed < 0.5 {
		return false
	}
	o.elapsed = 0
	o.text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())

	o.img.Clear()
	// Semi-transparent background for readability
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, o.text)
	return true
}

func (o *fpsOverlay) draw(screen *ebiten.Image) {
	screen.DrawImage(o.img, nil)
}
