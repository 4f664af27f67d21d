package lumen

import (
	"errors"
	"log/slog"
)

// NotifyBoundsDirty marks the widget's bounds for recomputation and
// propagates to every dependent: widgets whose anchors name it and its
// children. A widget that is already dirty stops the propagation, since its
// dependents were dirtied when it was.
func (w *Widget) NotifyBoundsDirty() {
	if w.destroyed {
		return
	}
	w.invalidate()
	if w.boundsDirty {
		return
	}
	w.boundsDirty = true
	w.errReported = false
	w.ui.dirty = append(w.ui.dirty, w.handle)

	if sf := w.scroll; sf != nil {
		sf.needsRebuild = true
	}
	if c := w.compositor; c != nil && c.child == w {
		c.needsRangeUpdate = true
	}

	live := w.dependents[:0]
	for _, h := range w.dependents {
		if d := w.ui.Lookup(h); d != nil {
			live = append(live, h)
		}
	}
	clear(w.dependents[len(live):])
	w.dependents = live
	for _, h := range live {
		if d := w.ui.Lookup(h); d != nil {
			d.NotifyBoundsDirty()
		}
	}
	for _, c := range w.children {
		c.NotifyBoundsDirty()
	}
}

// addDependent records that d's anchors reference w.
func (w *Widget) addDependent(d *Widget) {
	if d == w {
		return
	}
	for _, h := range w.dependents {
		if h == d.handle {
			return
		}
	}
	w.dependents = append(w.dependents, d.handle)
}

// IsBoundsDirty reports whether the bounds need recomputation.
func (w *Widget) IsBoundsDirty() bool {
	return w.boundsDirty
}

// IsReady reports whether the last resolution produced real bounds. Widgets
// that are not ready have zero bounds and are not drawn.
func (w *Widget) IsReady() bool {
	return w.ready
}

// Bounds returns the resolved bounds, resolving them first if dirty.
// Configuration errors are logged once and yield zero bounds.
func (w *Widget) Bounds() Bounds {
	b, err := w.Resolve()
	if err != nil && !w.errReported {
		w.errReported = true
		w.ui.log.Error("anchor resolution failed", w.logAttrs(), slog.Any("error", err))
	}
	return b
}

// ScreenRect returns the resolved bounds as (x, y, width, height).
func (w *Widget) ScreenRect() (x, y, width, height float64) {
	b := w.Bounds()
	return b.Left, b.Top, b.Width(), b.Height()
}

// Resolve computes the widget's bounds from its anchors and explicit size,
// resolving every widget it depends on first. Results are memoized until the
// widget is dirtied again, so repeated calls are idempotent. A dependency
// cycle returns a *CycleError and leaves the widget not ready.
func (w *Widget) Resolve() (Bounds, error) {
	ui := w.ui
	ui.resolveCalls++
	if w.destroyed || w.virtual {
		return Bounds{}, nil
	}
	if !w.boundsDirty {
		return w.bounds, w.resolveErr
	}
	if w.resolving {
		return Bounds{}, ui.cycleError(w)
	}

	w.resolving = true
	ui.resolveStack = append(ui.resolveStack, w)
	b, ready, err := w.computeBounds()
	ui.resolveStack = ui.resolveStack[:len(ui.resolveStack)-1]
	w.resolving = false

	if err != nil {
		b, ready = Bounds{}, false
	}
	w.bounds, w.ready, w.resolveErr = b, ready, err
	w.boundsDirty = false
	return b, err
}

// cycleError builds the chain from the first occurrence of w on the
// resolution stack.
func (ui *UI) cycleError(w *Widget) error {
	var chain []string
	for i, s := range ui.resolveStack {
		if s == w {
			for _, c := range ui.resolveStack[i:] {
				chain = append(chain, c.describe())
			}
			break
		}
	}
	return &CycleError{Chain: append(chain, w.describe())}
}

// axis accumulates the coordinates anchors define along one dimension.
type axis struct {
	lo, hi, center          float64
	hasLo, hasHi, hasCenter bool
}

func (a *axis) set(c coord, v float64) (prev float64, overridden bool) {
	switch c {
	case coordLeft, coordTop:
		prev, overridden = a.lo, a.hasLo
		a.lo, a.hasLo = v, true
	case coordRight, coordBottom:
		prev, overridden = a.hi, a.hasHi
		a.hi, a.hasHi = v, true
	default:
		prev, overridden = a.center, a.hasCenter
		a.center, a.hasCenter = v, true
	}
	return prev, overridden
}

// derive completes an axis from whatever is known. origin is used when no
// anchor constrains the axis but a size is set.
func (a axis) derive(size float64, hasSize bool, origin float64) (lo, hi float64, ok bool) {
	switch {
	case a.hasLo && a.hasHi:
		return a.lo, a.hi, true
	case a.hasLo && hasSize:
		return a.lo, a.lo + size, true
	case a.hasHi && hasSize:
		return a.hi - size, a.hi, true
	case a.hasCenter && hasSize:
		return a.center - size/2, a.center + size/2, true
	case a.hasLo && a.hasCenter:
		return a.lo, 2*a.center - a.lo, true
	case a.hasHi && a.hasCenter:
		return 2*a.center - a.hi, a.hi, true
	case !a.hasLo && !a.hasHi && !a.hasCenter && hasSize:
		return origin, origin + size, true
	}
	return 0, 0, false
}

// computeBounds is the body of Resolve. It returns ready=false without an
// error for legal but incomplete layouts.
func (w *Widget) computeBounds() (Bounds, bool, error) {
	ui := w.ui

	ref := ui.screenBounds()
	if w.parent != nil {
		pb, err := w.parent.Resolve()
		if err != nil {
			return Bounds{}, false, err
		}
		if !w.parent.ready {
			return Bounds{}, false, nil
		}
		ref = pb
	}

	if len(w.anchors) == 0 && !(w.hasWidth && w.hasHeight) {
		return Bounds{}, false, nil
	}

	var x, y axis
	for _, a := range w.anchors {
		tb := ref
		if a.Target != "" && a.Target != parentTarget {
			name := w.targetName(a.Target)
			t := ui.Find(name)
			if t == nil {
				ui.log.Warn("anchor target not found", w.logAttrs(), slog.String("target", name))
				ui.waitForName(name, w)
				return Bounds{}, false, nil
			}
			t.addDependent(w)
			b, err := t.Resolve()
			if err != nil {
				return Bounds{}, false, err
			}
			if !t.ready {
				return Bounds{}, false, nil
			}
			tb = b
		}
		p := tb.Point(a.TargetPoint).Add(a.Offset)
		cx, cy := a.Point.coords()
		if prev, ok := x.set(cx, p.X); ok && prev != p.X {
			ui.log.Debug("anchor overrides coordinate", w.logAttrs(), slog.String("anchor", a.Point.String()))
		}
		if prev, ok := y.set(cy, p.Y); ok && prev != p.Y {
			ui.log.Debug("anchor overrides coordinate", w.logAttrs(), slog.String("anchor", a.Point.String()))
		}
	}

	left, right, okX := x.derive(w.width, w.hasWidth, ref.Left)
	top, bottom, okY := y.derive(w.height, w.hasHeight, ref.Top)
	if !okX || !okY {
		return Bounds{}, false, nil
	}

	scale := ui.cfg.Scale
	unit := 1 / scale
	l := roundToGrid(left, scale)
	t := roundToGrid(top, scale)
	width := roundSizeToGrid(right-left, scale)
	height := roundSizeToGrid(bottom-top, scale)
	// Inverted spans collapse to one pixel; an exact zero span stays empty.
	if width < 0 {
		width = unit
	}
	if height < 0 {
		height = unit
	}
	return Bounds{Left: l, Top: t, Right: l + width, Bottom: t + height}, true, nil
}

// IsCycle reports whether err is an anchor cycle.
func IsCycle(err error) bool {
	return errors.Is(err, ErrAnchorCycle)
}
