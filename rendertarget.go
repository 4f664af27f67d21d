package lumen

import (
	"fmt"
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// RenderTarget is an offscreen surface owned by one scroll frame. Its real
// size is the logical size rounded up to powers of two, so small resizes
// reuse the same image. The image is allocated on first use.
type RenderTarget struct {
	pool          *targetPool
	img           *ebiten.Image
	width, height int // logical, in physical pixels
	realW, realH  int
}

func newRenderTarget(pool *targetPool, width, height, maxSize int) (*RenderTarget, error) {
	rw, rh := nextPowerOfTwo(width), nextPowerOfTwo(height)
	if rw > maxSize || rh > maxSize {
		return nil, fmt.Errorf("%dx%d (padded %dx%d, max %d): %w", width, height, rw, rh, maxSize, ErrTargetTooLarge)
	}
	return &RenderTarget{pool: pool, width: width, height: height, realW: rw, realH: rh}, nil
}

// fits reports whether a surface of the given logical size fits in the
// already allocated real size.
func (t *RenderTarget) fits(width, height int) bool {
	return width <= t.realW && height <= t.realH
}

// Image returns the backing image, allocating it if needed.
func (t *RenderTarget) Image() *ebiten.Image {
	if t.img == nil {
		t.img = t.pool.acquire(t.realW, t.realH)
	}
	return t.img
}

// Size returns the logical size in physical pixels.
func (t *RenderTarget) Size() (width, height int) {
	return t.width, t.height
}

// RealSize returns the padded size of the backing image.
func (t *RenderTarget) RealSize() (width, height int) {
	return t.realW, t.realH
}

// Region returns the part of the image holding the logical surface.
func (t *RenderTarget) Region() image.Rectangle {
	return image.Rect(0, 0, t.width, t.height)
}

// Dispose returns the image to the pool. The target must not be used after.
func (t *RenderTarget) Dispose() {
	if t.img != nil {
		t.pool.release(t.img)
		t.img = nil
	}
}

// --- Target pool ---

// targetPool keeps released offscreen images keyed by power-of-two
// dimensions. After warmup, acquire/release are zero-alloc.
type targetPool struct {
	buckets map[uint64][]*ebiten.Image
}

// poolKey packs power-of-two width and height into a single uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// acquire returns a cleared image of exactly (w, h) pixels.
func (p *targetPool) acquire(w, h int) *ebiten.Image {
	key := poolKey(w, h)
	if p.buckets != nil {
		if stack := p.buckets[key]; len(stack) > 0 {
			img := stack[len(stack)-1]
			stack[len(stack)-1] = nil
			p.buckets[key] = stack[:len(stack)-1]
			img.Clear()
			return img
		}
	}
	return ebiten.NewImageWithOptions(
		image.Rect(0, 0, w, h),
		&ebiten.NewImageOptions{Unmanaged: true},
	)
}

// release keeps img for reuse. It is cleared on the next acquire, not here.
func (p *targetPool) release(img *ebiten.Image) {
	b := img.Bounds()
	key := poolKey(b.Dx(), b.Dy())
	if p.buckets == nil {
		p.buckets = make(map[uint64][]*ebiten.Image)
	}
	p.buckets[key] = append(p.buckets[key], img)
}

// drain deallocates every pooled image.
func (p *targetPool) drain() {
	for key, stack := range p.buckets {
		for _, img := range stack {
			img.Deallocate()
		}
		delete(p.buckets, key)
	}
}

// nextPowerOfTwo returns the smallest power of two >= n (minimum 1).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}

// physicalSize converts a logical extent to whole physical pixels.
func physicalSize(v, scale float64) int {
	return int(math.Ceil(v*scale - 1e-9))
}
