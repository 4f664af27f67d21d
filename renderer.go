package lumen

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Quad is a textured rectangle submitted to a Renderer. Dst is in view space
// (the renderer applies the current view matrix). A nil Image draws
// WhitePixel tinted by Color; an empty Src uses the whole image.
type Quad struct {
	Dst   Bounds
	Image *ebiten.Image
	Src   image.Rectangle
	Color Color
	Blend BlendMode
}

// Renderer is the immediate-mode drawing surface the core renders through.
// Begin binds a render target (nil binds the screen); calls nest, and End
// restores the previously bound target and view.
type Renderer interface {
	Begin(target *RenderTarget)
	End()
	Clear(c Color)
	SetView(m Matrix)
	RenderQuad(q Quad)
}

type boundSurface struct {
	img  *ebiten.Image
	view Matrix
}

// EbitenRenderer implements Renderer on ebiten images. Set the screen image
// with SetScreen at the start of every frame's Draw.
type EbitenRenderer struct {
	screen *ebiten.Image
	stack  []boundSurface
	op     ebiten.DrawImageOptions
}

// NewEbitenRenderer creates a renderer with no screen bound yet.
func NewEbitenRenderer() *EbitenRenderer {
	return &EbitenRenderer{}
}

// SetScreen sets the image that Begin(nil) binds.
func (r *EbitenRenderer) SetScreen(screen *ebiten.Image) {
	r.screen = screen
}

// Begin pushes target (or the screen when target is nil) with an identity view.
func (r *EbitenRenderer) Begin(target *RenderTarget) {
	img := r.screen
	if target != nil {
		img = target.Image()
	}
	r.stack = append(r.stack, boundSurface{img: img, view: IdentityMatrix})
}

// End pops the current surface.
func (r *EbitenRenderer) End() {
	if len(r.stack) == 0 {
		panic("lumen: End without Begin")
	}
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *EbitenRenderer) top() *boundSurface {
	if len(r.stack) == 0 {
		return nil
	}
	return &r.stack[len(r.stack)-1]
}

// Clear fills the bound surface with c.
func (r *EbitenRenderer) Clear(c Color) {
	s := r.top()
	if s == nil || s.img == nil {
		return
	}
	if c == ColorTransparent {
		s.img.Clear()
		return
	}
	s.img.Fill(c.toRGBA())
}

// SetView replaces the view matrix of the bound surface.
func (r *EbitenRenderer) SetView(m Matrix) {
	if s := r.top(); s != nil {
		s.view = m
	}
}

// RenderQuad draws q onto the bound surface, stretching the source image to
// the destination rectangle.
func (r *EbitenRenderer) RenderQuad(q Quad) {
	s := r.top()
	if s == nil || s.img == nil || q.Dst.Empty() {
		return
	}
	img := q.Image
	if img == nil {
		img = WhitePixel
	}
	if !q.Src.Empty() {
		img = img.SubImage(q.Src).(*ebiten.Image)
	}
	sw, sh := img.Bounds().Dx(), img.Bounds().Dy()
	if sw == 0 || sh == 0 {
		return
	}

	op := &r.op
	op.GeoM.Reset()
	op.GeoM.Scale(q.Dst.Width()/float64(sw), q.Dst.Height()/float64(sh))
	op.GeoM.Translate(q.Dst.Left, q.Dst.Top)
	op.GeoM.Concat(s.view.GeoM())

	op.ColorScale = colorScale(q.Color)
	op.Blend = q.Blend.EbitenBlend()

	s.img.DrawImage(img, op)
}

// colorScale converts c to a premultiplied ebiten color scale. The quad
// color is used as given: transparent draws nothing.
func colorScale(c Color) ebiten.ColorScale {
	var cs ebiten.ColorScale
	a := float32(c.A)
	cs.Scale(float32(c.R)*a, float32(c.G)*a, float32(c.B)*a, a)
	return cs
}

// tint returns c, or white when c is unset, so an image drawn without a
// tint keeps its own colors.
func tint(c Color) Color {
	if c == (Color{}) {
		return ColorWhite
	}
	return c
}

// --- Built-in drawers ---

// Drawer renders a widget. Bounds are already resolved and the widget is
// ready when Draw is called.
type Drawer interface {
	Draw(r Renderer, w *Widget) error
}

// DrawerFunc adapts a function to Drawer.
type DrawerFunc func(r Renderer, w *Widget) error

func (f DrawerFunc) Draw(r Renderer, w *Widget) error {
	return f(r, w)
}

// Fill draws a solid color over the widget's bounds.
type Fill struct {
	Color Color
	Blend BlendMode
}

func (f Fill) Draw(r Renderer, w *Widget) error {
	r.RenderQuad(Quad{Dst: w.bounds, Color: f.Color, Blend: f.Blend})
	return nil
}

// Texture draws an image stretched over the widget's bounds. A nil image is
// reported as an error so the render pass substitutes the placeholder. A
// zero Color leaves the image untinted.
type Texture struct {
	Image *ebiten.Image
	Src   image.Rectangle
	Color Color
	Blend BlendMode
}

func (t Texture) Draw(r Renderer, w *Widget) error {
	if t.Image == nil {
		return errMissingTexture
	}
	r.RenderQuad(Quad{Dst: w.bounds, Image: t.Image, Src: t.Src, Color: tint(t.Color), Blend: t.Blend})
	return nil
}
