package lumen

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// AnchorTween animates the offset of one anchor on a widget. UI.Update
// advances every running tween; the tween stops as soon as its widget is
// destroyed or the anchor is removed.
type AnchorTween struct {
	target Handle
	point  AnchorPoint
	x, y   *gween.Tween
	Done   bool
}

// TweenAnchorOffset animates the offset of the anchor on point p to `to`
// over duration seconds. It returns nil if the widget has no anchor on p.
func (w *Widget) TweenAnchorOffset(p AnchorPoint, to Vec2, duration float32, fn ease.TweenFunc) *AnchorTween {
	w.checkDestroyed("TweenAnchorOffset")
	a, ok := w.anchor(p)
	if !ok {
		return nil
	}
	if fn == nil {
		fn = ease.Linear
	}
	t := &AnchorTween{
		target: w.handle,
		point:  p,
		x:      gween.New(float32(a.Offset.X), float32(to.X), duration, fn),
		y:      gween.New(float32(a.Offset.Y), float32(to.Y), duration, fn),
	}
	w.ui.tweens = append(w.ui.tweens, t)
	return t
}

// Stop ends the tween where it is.
func (t *AnchorTween) Stop() {
	t.Done = true
}

func (t *AnchorTween) update(ui *UI, dt float64) {
	w := ui.Lookup(t.target)
	if w == nil {
		t.Done = true
		return
	}
	x, doneX := t.x.Update(float32(dt))
	y, doneY := t.y.Update(float32(dt))
	if !w.setAnchorOffset(t.point, Vec2{float64(x), float64(y)}) {
		t.Done = true
		return
	}
	t.Done = doneX && doneY
}

func (ui *UI) advanceAnchorTweens(dt float64) {
	live := ui.tweens[:0]
	for _, t := range ui.tweens {
		if !t.Done {
			t.update(ui, dt)
		}
		if !t.Done {
			live = append(live, t)
		}
	}
	clear(ui.tweens[len(live):])
	ui.tweens = live
}
