package lumen

import (
	"errors"
	"log/slog"
	"math"
	"sort"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

var errNoTarget = errors.New("scroll frame has no render target")

// ScrollFrame is the behavior attached to a widget of kind "ScrollFrame". It
// renders its scroll child's subtree into a private render target through a
// private strata set, and draws that target as one quad in the enclosing
// pass. Only the viewport-sized region is ever drawn, so the child can be
// arbitrarily larger than the frame.
type ScrollFrame struct {
	w      *Widget
	target *RenderTarget
	strata strataSet
	child  *Widget

	scroll         Vec2
	rangeX, rangeY float64

	needsRebuild     bool // viewport size changed
	needsRangeUpdate bool // child bounds changed
	needsRedraw      bool // subtree changed since the last composite
	allocFailed      bool

	anim *scrollAnim
}

type scrollAnim struct {
	x, y *gween.Tween
}

func initScrollFrame(w *Widget) {
	sf := &ScrollFrame{w: w, needsRebuild: true, needsRangeUpdate: true, needsRedraw: true}
	sf.strata.owner = sf
	w.scroll = sf
	if !w.virtual {
		w.ui.frames = append(w.ui.frames, sf)
	}
}

// Widget returns the scroll frame's widget.
func (sf *ScrollFrame) Widget() *Widget {
	return sf.w
}

// ScrollChild returns the current scroll child, or nil.
func (sf *ScrollFrame) ScrollChild() *Widget {
	return sf.child
}

// Target returns the render target, or nil before the first valid rebuild.
func (sf *ScrollFrame) Target() *RenderTarget {
	return sf.target
}

// SetScrollChild makes child the scrolled content. The child is reparented
// under the frame if needed, its anchors are replaced by a TopLeft anchor at
// minus the current scroll offset, and its whole subtree is scheduled in the
// frame's private strata. Passing nil releases the current child back to the
// enclosing compositor.
func (sf *ScrollFrame) SetScrollChild(child *Widget) error {
	sf.w.checkDestroyed("SetScrollChild")
	if child == sf.child {
		return nil
	}
	if child != nil {
		child.checkDestroyed("SetScrollChild")
		if child.virtual {
			return ErrVirtual
		}
		if isAncestor(child, sf.w) {
			panic("lumen: scroll child is an ancestor of its scroll frame")
		}
	}
	if sf.child != nil {
		sf.releaseChild()
	}
	if child == nil {
		return nil
	}

	sf.child = child
	if child.parent != sf.w {
		child.SetParent(sf.w)
	} else {
		child.refreshMembership()
		child.markSubtreeStrataDirty()
	}
	child.ClearAnchors()
	if err := child.SetAnchor(Anchor{
		Point:       AnchorTopLeft,
		TargetPoint: AnchorTopLeft,
		Offset:      Vec2{-sf.scroll.X, -sf.scroll.Y},
	}); err != nil {
		return err
	}
	sf.needsRangeUpdate = true
	sf.invalidate()
	return nil
}

// releaseChild moves the scroll child's subtree back to the enclosing
// compositor. The child stays parented under the frame.
func (sf *ScrollFrame) releaseChild() {
	c := sf.child
	sf.child = nil
	sf.needsRangeUpdate = true
	sf.invalidate()
	if c == nil || c.destroyed {
		return
	}
	c.refreshMembership()
	c.markSubtreeStrataDirty()
}

// Scroll returns the current scroll offset.
func (sf *ScrollFrame) Scroll() (x, y float64) {
	return sf.scroll.X, sf.scroll.Y
}

// Range returns the scrollable extent on each axis: the amount the child
// exceeds the viewport, never negative. A pending range update is applied
// first.
func (sf *ScrollFrame) Range() (x, y float64) {
	if sf.needsRangeUpdate {
		sf.updateRange()
	}
	return sf.rangeX, sf.rangeY
}

// SetHorizontalScroll sets the horizontal offset, clamped to the range.
func (sf *ScrollFrame) SetHorizontalScroll(x float64) {
	rx, _ := sf.Range()
	sf.setScroll(Vec2{clampRange(x, rx), sf.scroll.Y})
}

// SetVerticalScroll sets the vertical offset, clamped to the range.
func (sf *ScrollFrame) SetVerticalScroll(y float64) {
	_, ry := sf.Range()
	sf.setScroll(Vec2{sf.scroll.X, clampRange(y, ry)})
}

// ScrollBy moves the scroll offset by (dx, dy), clamped to the range.
func (sf *ScrollFrame) ScrollBy(dx, dy float64) {
	rx, ry := sf.Range()
	sf.setScroll(Vec2{clampRange(sf.scroll.X+dx, rx), clampRange(sf.scroll.Y+dy, ry)})
}

// ScrollTo animates the scroll offset to (x, y) over duration seconds.
// UI.Update advances the animation; any direct scroll call cancels it.
func (sf *ScrollFrame) ScrollTo(x, y float64, duration float32, fn ease.TweenFunc) {
	if duration <= 0 {
		sf.anim = nil
		rx, ry := sf.Range()
		sf.setScroll(Vec2{clampRange(x, rx), clampRange(y, ry)})
		return
	}
	if fn == nil {
		fn = ease.OutQuad
	}
	sf.anim = &scrollAnim{
		x: gween.New(float32(sf.scroll.X), float32(x), duration, fn),
		y: gween.New(float32(sf.scroll.Y), float32(y), duration, fn),
	}
}

// IsScrolling reports whether a ScrollTo animation is running.
func (sf *ScrollFrame) IsScrolling() bool {
	return sf.anim != nil
}

// advance steps the ScrollTo animation and reports whether the frame is
// still alive.
func (sf *ScrollFrame) advance(dt float64) bool {
	a := sf.anim
	x, doneX := a.x.Update(float32(dt))
	y, doneY := a.y.Update(float32(dt))
	if doneX && doneY {
		sf.anim = nil
	}
	rx, ry := sf.Range()
	return sf.applyScroll(Vec2{clampRange(float64(x), rx), clampRange(float64(y), ry)})
}

func (sf *ScrollFrame) setScroll(s Vec2) {
	sf.anim = nil
	sf.applyScroll(s)
}

// applyScroll rewrites the child's anchor offset and fires the scroll
// scripts. It reports whether the frame is still alive.
func (sf *ScrollFrame) applyScroll(s Vec2) bool {
	if s == sf.scroll {
		return true
	}
	prev := sf.scroll
	sf.scroll = s
	if sf.child != nil {
		sf.child.setAnchorOffset(AnchorTopLeft, Vec2{-s.X, -s.Y})
	}
	sf.invalidate()
	w := sf.w
	if s.X != prev.X && !w.FireScript("OnHorizontalScroll", s.X) {
		return false
	}
	if s.Y != prev.Y && !w.FireScript("OnVerticalScroll", s.Y) {
		return false
	}
	return true
}

func clampRange(v, r float64) float64 {
	return math.Max(0, math.Min(v, r))
}

// invalidate requests a recomposite of this frame and every enclosing one.
func (sf *ScrollFrame) invalidate() {
	for f := sf; f != nil; f = f.w.compositor {
		f.needsRedraw = true
	}
}

// depth returns the number of scroll frames enclosing sf.
func (sf *ScrollFrame) depth() int {
	d := 0
	for c := sf.w.compositor; c != nil; c = c.w.compositor {
		d++
	}
	return d
}

// --- Update tick ---

// update runs rebuild, range update and composite in that order. r may be
// nil, in which case composition is deferred.
func (sf *ScrollFrame) update(r Renderer) {
	if sf.needsRebuild {
		sf.rebuild()
	}
	if sf.needsRangeUpdate && !sf.updateRange() {
		return
	}
	if sf.needsRedraw && r != nil && sf.target != nil && sf.w.IsVisible() {
		sf.composite(r)
	}
}

// rebuild resizes the render target to the viewport. A viewport that is not
// ready or has no area leaves the previous target and the flag in place.
func (sf *ScrollFrame) rebuild() {
	w := sf.w
	b := w.Bounds()
	if !w.ready || b.Empty() {
		return
	}
	scale := w.ui.cfg.Scale
	pw, ph := physicalSize(b.Width(), scale), physicalSize(b.Height(), scale)
	if pw <= 0 || ph <= 0 {
		return
	}
	sf.needsRebuild = false
	sf.needsRangeUpdate = true
	sf.needsRedraw = true

	if sf.target != nil && sf.target.fits(pw, ph) {
		sf.target.width, sf.target.height = pw, ph
		return
	}
	t, err := newRenderTarget(&w.ui.targets, pw, ph, w.ui.cfg.MaxTargetSize)
	if err != nil {
		if !sf.allocFailed {
			w.ui.log.Error("render target allocation failed", w.logAttrs(), slog.Any("error", err))
			sf.allocFailed = true
		}
		return
	}
	sf.allocFailed = false
	if sf.target != nil {
		sf.target.Dispose()
	}
	sf.target = t
}

// updateRange recomputes the scroll range, clamps the offset into it and
// fires OnScrollRangeChanged once if either axis changed. It reports whether
// the frame is still alive.
func (sf *ScrollFrame) updateRange() bool {
	sf.needsRangeUpdate = false
	var rx, ry float64
	vb := sf.w.Bounds()
	if c := sf.child; c != nil && sf.w.ready {
		cb := c.Bounds()
		if c.ready {
			rx = math.Max(0, cb.Width()-vb.Width())
			ry = math.Max(0, cb.Height()-vb.Height())
		}
	}
	if rx == sf.rangeX && ry == sf.rangeY {
		return true
	}
	sf.rangeX, sf.rangeY = rx, ry
	s := Vec2{clampRange(sf.scroll.X, rx), clampRange(sf.scroll.Y, ry)}
	if !sf.applyScroll(s) {
		return false
	}
	return sf.w.FireScript("OnScrollRangeChanged", rx, ry)
}

// composite renders the private strata into the target. The view maps the
// frame's top-left to the target origin and applies the UI scale.
func (sf *ScrollFrame) composite(r Renderer) {
	b := sf.w.bounds
	scale := sf.w.ui.cfg.Scale
	r.Begin(sf.target)
	r.Clear(ColorTransparent)
	r.SetView(ScaleMatrix(scale, scale).Mul(TranslateMatrix(-b.Left, -b.Top)))
	sf.strata.render(r)
	r.End()
	sf.needsRedraw = false
}

// draw submits the composited target as one quad covering the frame.
func (sf *ScrollFrame) draw(r Renderer, w *Widget) error {
	if sf.target == nil {
		return errNoTarget
	}
	r.RenderQuad(Quad{Dst: w.bounds, Image: sf.target.Image(), Src: sf.target.Region(), Color: ColorWhite})
	return nil
}

// --- Hit testing ---

// ToLocal converts a screen point into the frame's local space, whose
// origin is the frame's top-left corner.
func (sf *ScrollFrame) ToLocal(x, y float64) (lx, ly float64) {
	b := sf.w.bounds
	return x - b.Left, y - b.Top
}

// hitTest finds the topmost mouse-enabled widget of the scroll subtree under
// the screen point (x, y).
func (sf *ScrollFrame) hitTest(x, y float64) *Widget {
	lx, ly := sf.ToLocal(x, y)
	b := sf.w.bounds
	return sf.strata.hitTest(lx, ly, Vec2{b.Left, b.Top})
}

func (sf *ScrollFrame) dispose() {
	sf.anim = nil
	sf.child = nil
	if sf.target != nil {
		sf.target.Dispose()
		sf.target = nil
	}
	ui := sf.w.ui
	for i, f := range ui.frames {
		if f == sf {
			copy(ui.frames[i:], ui.frames[i+1:])
			ui.frames[len(ui.frames)-1] = nil
			ui.frames = ui.frames[:len(ui.frames)-1]
			break
		}
	}
}

// --- UI integration ---

// updateScrollFrames ticks every scroll frame, innermost first, so an outer
// frame composites the current contents of the frames it encloses.
func (ui *UI) updateScrollFrames() {
	if len(ui.frames) == 0 {
		return
	}
	order := ui.frameOrder[:0]
	for _, sf := range ui.frames {
		order = append(order, frameTick{sf.w.handle, sf.depth()})
	}
	sort.SliceStable(order, func(i, j int) bool { return order[i].depth > order[j].depth })
	ui.frameOrder = order
	for _, ft := range order {
		if w := ui.Lookup(ft.h); w != nil && w.scroll != nil {
			w.scroll.update(ui.renderer)
		}
		if ui.state != StateLoaded {
			return
		}
	}
}

type frameTick struct {
	h     Handle
	depth int
}

// advanceTweens steps ScrollTo animations and anchor offset tweens.
func (ui *UI) advanceTweens(dt float64) {
	order := ui.frameOrder[:0]
	for _, sf := range ui.frames {
		if sf.anim != nil {
			order = append(order, frameTick{h: sf.w.handle})
		}
	}
	ui.frameOrder = order
	for _, ft := range order {
		if w := ui.Lookup(ft.h); w != nil && w.scroll != nil && w.scroll.anim != nil {
			w.scroll.advance(dt)
		}
	}
	ui.advanceAnchorTweens(dt)
}
