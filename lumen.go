package lumen

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// ColorTransparent is the clear color used for offscreen composition.
var ColorTransparent = Color{}

// Vec2 is a 2D vector used for positions, offsets, and sizes.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// WhitePixel is a 1x1 white image. It backs solid color quads and is the
// placeholder drawn when a texture is missing.
var WhitePixel *ebiten.Image

func init() {
	WhitePixel = ebiten.NewImage(1, 1)
	WhitePixel.Fill(ColorWhite.toRGBA())
}

// Bounds is a resolved widget rectangle in screen pixels. The coordinate
// system has its origin at the top-left, with Y increasing downward.
type Bounds struct {
	Left, Top, Right, Bottom float64
}

// Width returns Right - Left.
func (b Bounds) Width() float64 {
	return b.Right - b.Left
}

// Height returns Bottom - Top.
func (b Bounds) Height() float64 {
	return b.Bottom - b.Top
}

// Empty reports whether the rectangle has no area.
func (b Bounds) Empty() bool {
	return b.Right <= b.Left || b.Bottom <= b.Top
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the left and top edges are inside, points on the right and
// bottom edges are not, so adjacent widgets never both claim a pixel.
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.Left && x < b.Right && y >= b.Top && y < b.Bottom
}

// Translate returns the rectangle moved by (dx, dy).
func (b Bounds) Translate(dx, dy float64) Bounds {
	return Bounds{b.Left + dx, b.Top + dy, b.Right + dx, b.Bottom + dy}
}

// Point returns the coordinates of one of the nine canonical anchor points
// on this rectangle.
func (b Bounds) Point(p AnchorPoint) Vec2 {
	cx := (b.Left + b.Right) / 2
	cy := (b.Top + b.Bottom) / 2
	switch p {
	case AnchorTopLeft:
		return Vec2{b.Left, b.Top}
	case AnchorTop:
		return Vec2{cx, b.Top}
	case AnchorTopRight:
		return Vec2{b.Right, b.Top}
	case AnchorLeft:
		return Vec2{b.Left, cy}
	case AnchorRight:
		return Vec2{b.Right, cy}
	case AnchorBottomLeft:
		return Vec2{b.Left, b.Bottom}
	case AnchorBottom:
		return Vec2{cx, b.Bottom}
	case AnchorBottomRight:
		return Vec2{b.Right, b.Bottom}
	default:
		return Vec2{cx, cy}
	}
}

// BlendMode selects a compositing operation. Each maps to a specific ebiten.Blend value.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                     // additive / lighter
	BlendNone                    // opaque copy (skip blending)
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendNone:
		return ebiten.BlendCopy
	default:
		return ebiten.BlendSourceOver
	}
}

// toRGBA converts a Color to a premultiplied colorRGBA.
func (c Color) toRGBA() colorRGBA {
	return colorRGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// colorRGBA implements the color.Color interface for image.Fill.
type colorRGBA struct {
	R, G, B, A uint8
}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// roundToGrid snaps v to the nearest multiple of 1/scale.
func roundToGrid(v, scale float64) float64 {
	return math.Round(v*scale) / scale
}

// roundSizeToGrid snaps a size to the pixel grid but never turns a nonzero
// size into exactly zero: anything that would round to zero becomes one
// grid unit with the original sign.
func roundSizeToGrid(v, scale float64) float64 {
	r := math.Round(v * scale)
	if r == 0 && v != 0 {
		if v < 0 {
			r = -1
		} else {
			r = 1
		}
	}
	return r / scale
}
