package lumen

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenAnchorOffset(t *testing.T) {
	ui := newTestUI(t)
	w := mustFrame(t, ui, "W", nil, WithSize(10, 10))
	mustAnchor(t, w, AnchorTopLeft, "", AnchorTopLeft, 0, 0)

	tw := w.TweenAnchorOffset(AnchorTopLeft, Vec2{100, 50}, 1, ease.Linear)
	if tw == nil {
		t.Fatal("TweenAnchorOffset returned nil")
	}

	ui.Update(0.5)
	assertBounds(t, "halfway", w.Bounds(), Bounds{50, 25, 60, 35})
	if w.IsBoundsDirty() {
		t.Error("Update should settle tweened bounds")
	}

	ui.Update(0.5)
	assertBounds(t, "end", w.Bounds(), Bounds{100, 50, 110, 60})
	if !tw.Done {
		t.Error("tween should be done")
	}
	if len(ui.tweens) != 0 {
		t.Errorf("finished tweens = %d, want 0", len(ui.tweens))
	}
}

func TestTweenAnchorOffsetWithoutAnchor(t *testing.T) {
	ui := newTestUI(t)
	w := mustFrame(t, ui, "W", nil, WithSize(10, 10))
	if tw := w.TweenAnchorOffset(AnchorCenter, Vec2{1, 1}, 1, nil); tw != nil {
		t.Error("expected nil tween for a missing anchor")
	}
}

func TestTweenStops(t *testing.T) {
	ui := newTestUI(t)
	w := mustFrame(t, ui, "W", nil, WithSize(10, 10))
	mustAnchor(t, w, AnchorTopLeft, "", AnchorTopLeft, 0, 0)

	tw := w.TweenAnchorOffset(AnchorTopLeft, Vec2{100, 0}, 1, nil)
	ui.Update(0.25)
	tw.Stop()
	left := w.Bounds().Left
	ui.Update(0.25)
	assertNear(t, "left after Stop", w.Bounds().Left, left)

	// Destroying the widget ends its tweens.
	tw2 := w.TweenAnchorOffset(AnchorTopLeft, Vec2{0, 0}, 1, nil)
	w.Destroy()
	ui.Update(0.1)
	if !tw2.Done {
		t.Error("tween on destroyed widget should be done")
	}

	// Removing the anchor ends the tween too.
	v := mustFrame(t, ui, "V", nil, WithSize(10, 10))
	mustAnchor(t, v, AnchorTopLeft, "", AnchorTopLeft, 0, 0)
	tw3 := v.TweenAnchorOffset(AnchorTopLeft, Vec2{10, 0}, 1, nil)
	v.ClearAnchors()
	ui.Update(0.1)
	if !tw3.Done {
		t.Error("tween on removed anchor should be done")
	}
}
