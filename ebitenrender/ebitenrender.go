// Package ebitenrender draws cascade nodes with Ebitengine and runs an
// orchestrator from the Ebitengine game loop.
package ebitenrender

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/cascade"
)

// GeoM returns the transform that draws a srcW×srcH image filling bounds,
// offset, scaled and rotated around the bounds centre by p, relative to a
// viewport scrolled to (scrollX, scrollY).
func GeoM(p cascade.Presentation, bounds cascade.Rect, scrollX, scrollY float64, srcW, srcH int) ebiten.GeoM {
	var g ebiten.GeoM
	if srcW > 0 && srcH > 0 {
		g.Scale(bounds.Width/float64(srcW), bounds.Height/float64(srcH))
	}
	hw, hh := bounds.Width/2, bounds.Height/2
	g.Translate(-hw, -hh)
	g.Scale(p.Scale, p.Scale)
	if p.Rotation != 0 {
		g.Rotate(p.Rotation * math.Pi / 180)
	}
	g.Translate(bounds.X+hw+p.X-scrollX, bounds.Y+hh+p.Y-scrollY)
	return g
}

// Options returns draw options for a srcW×srcH image of node n. Opacity maps
// to the alpha color scale.
func Options(n *cascade.Node, scrollX, scrollY float64, srcW, srcH int) *ebiten.DrawImageOptions {
	p := n.Presentation()
	op := &ebiten.DrawImageOptions{}
	op.GeoM = GeoM(p, n.Bounds, scrollX, scrollY, srcW, srcH)
	op.ColorScale.ScaleAlpha(float32(clamp01(p.Opacity)))
	return op
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// DrawFunc draws one node. op already carries the node's presentation for a
// 1×1 source image; custom drawers may rebuild it with Options.
type DrawFunc func(screen *ebiten.Image, n *cascade.Node, op *ebiten.DrawImageOptions)

// Palette maps a node to its fill color for the default drawer. A nil
// Palette or a nil result draws white.
type Palette func(n *cascade.Node) color.Color

// Host implements ebiten.Game around an orchestrator. Update advances the
// orchestrator by one tick of ebiten.TPS, forwards the cursor, the left
// button and the wheel, and steps the viewport's smooth scroll.
type Host struct {
	Orchestrator *cascade.Orchestrator
	// Viewport, when set, scrolls with the wheel and follows the window size.
	Viewport *cascade.Viewport
	// WheelSpeed is the scroll distance per wheel notch. Zero means 40.
	WheelSpeed float64
	// Background fills the screen before drawing. Nil leaves it untouched.
	Background color.Color
	// DrawNode overrides the default box drawer.
	DrawNode DrawFunc
	// Palette colors the default box drawer.
	Palette Palette

	clock   float64
	pressed bool
	pixel   *ebiten.Image
}

// NewHost creates a host for o scrolled by vp (which may be nil).
func NewHost(o *cascade.Orchestrator, vp *cascade.Viewport) *Host {
	return &Host{Orchestrator: o, Viewport: vp}
}

// Clock returns the host time passed to the last Advance.
func (h *Host) Clock() float64 {
	return h.clock
}

// Update is called by Ebitengine every tick.
func (h *Host) Update() error {
	dt := 1 / float64(ebiten.TPS())
	h.clock += dt

	var sx, sy float64
	if vp := h.Viewport; vp != nil {
		if _, wy := ebiten.Wheel(); wy != 0 {
			speed := h.WheelSpeed
			if speed == 0 {
				speed = 40
			}
			vp.ScrollBy(0, -wy*speed)
		}
		vp.Update(float32(dt))
		sx, sy = vp.X, vp.Y
	}

	cx, cy := ebiten.CursorPosition()
	px, py := float64(cx)+sx, float64(cy)+sy
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	o := h.Orchestrator
	switch {
	case pressed && !h.pressed:
		o.PointerDown(px, py, h.clock)
	case !pressed && h.pressed:
		o.PointerUp(px, py, h.clock)
	default:
		o.PointerMove(px, py, h.clock)
	}
	h.pressed = pressed

	o.Advance(h.clock)
	return nil
}

// Draw is called by Ebitengine every frame.
func (h *Host) Draw(screen *ebiten.Image) {
	if h.Background != nil {
		screen.Fill(h.Background)
	}
	var sx, sy float64
	if h.Viewport != nil {
		sx, sy = h.Viewport.X, h.Viewport.Y
	}
	draw := h.DrawNode
	if draw == nil {
		draw = h.drawBox
	}
	h.Orchestrator.Each(func(n *cascade.Node) {
		if n.Bounds.Empty() {
			return
		}
		draw(screen, n, Options(n, sx, sy, 1, 1))
	})
	h.Orchestrator.LogStats()
}

// drawBox fills the node bounds with its palette color.
func (h *Host) drawBox(screen *ebiten.Image, n *cascade.Node, op *ebiten.DrawImageOptions) {
	if h.pixel == nil {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	if h.Palette != nil {
		if c := h.Palette(n); c != nil {
			op.ColorScale.ScaleWithColor(c)
		}
	}
	screen.DrawImage(h.pixel, op)
}

// Layout resizes the viewport to the window and uses the window size as the
// logical screen size.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	if h.Viewport != nil {
		w, hh := float64(outsideWidth), float64(outsideHeight)
		if h.Viewport.Width != w || h.Viewport.Height != hh {
			h.Viewport.Resize(w, hh)
		}
	}
	return outsideWidth, outsideHeight
}
