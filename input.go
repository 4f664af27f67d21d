package lumen

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// MouseButton identifies a pointer button.
type MouseButton uint8

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// String returns the button name passed to mouse scripts.
func (b MouseButton) String() string {
	switch b {
	case MouseButtonLeft:
		return "LeftButton"
	case MouseButtonRight:
		return "RightButton"
	case MouseButtonMiddle:
		return "MiddleButton"
	}
	return fmt.Sprintf("Button%d", b)
}

// PointerState is one poll of a pointer device in logical screen units.
type PointerState struct {
	X, Y           float64
	Pressed        bool
	Button         MouseButton
	WheelX, WheelY float64
}

// PointerSource is polled once per update pass.
type PointerSource interface {
	ReadPointer() PointerState
}

// EbitenPointer reads the mouse through ebiten. Cursor positions are in
// layout pixels and are divided by Scale.
type EbitenPointer struct {
	Scale float64
}

func (p EbitenPointer) ReadPointer() PointerState {
	scale := p.Scale
	if scale <= 0 {
		scale = 1
	}
	mx, my := ebiten.CursorPosition()
	st := PointerState{X: float64(mx) / scale, Y: float64(my) / scale}
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		st.Pressed, st.Button = true, MouseButtonLeft
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		st.Pressed, st.Button = true, MouseButtonRight
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle):
		st.Pressed, st.Button = true, MouseButtonMiddle
	}
	st.WheelX, st.WheelY = ebiten.Wheel()
	return st
}

// inputState is the pointer state machine of a UI. Widgets are held by
// handle so scripts may destroy them between events.
type inputState struct {
	down   bool
	button MouseButton
	downOn Handle
	hover  Handle
	queue  []syntheticPointerEvent
}

// HitTest returns the topmost visible, mouse-enabled widget under the
// screen point (x, y), descending into scroll frames. It returns nil if
// nothing accepts the point.
func (ui *UI) HitTest(x, y float64) *Widget {
	return ui.strata.hitTest(x, y, Vec2{})
}

// processInput consumes one injected event if any are queued, otherwise
// polls the pointer source.
func (ui *UI) processInput() {
	ui.settle()
	if q := ui.input.queue; len(q) > 0 {
		evt := q[0]
		copy(q, q[1:])
		ui.input.queue = q[:len(q)-1]
		if evt.wheel {
			ui.processPointer(evt.x, evt.y, ui.input.down, ui.input.button)
			ui.processWheel(evt.x, evt.y, evt.wheelX, evt.wheelY)
			return
		}
		ui.processPointer(evt.x, evt.y, evt.pressed, evt.button)
		return
	}
	if ui.pointer == nil {
		return
	}
	ps := ui.pointer.ReadPointer()
	ui.processPointer(ps.X, ps.Y, ps.Pressed, ps.Button)
	if ps.WheelX != 0 || ps.WheelY != 0 {
		ui.processWheel(ps.X, ps.Y, ps.WheelX, ps.WheelY)
	}
}

// processPointer runs hover tracking and the press/release state machine.
// A click is a press and a release over the same widget. Every script call
// is followed by a liveness lookup through the saved handle.
func (ui *UI) processPointer(x, y float64, pressed bool, button MouseButton) {
	st := &ui.input

	var hit Handle
	if w := ui.HitTest(x, y); w != nil {
		hit = w.handle
	}

	if hit != st.hover {
		prev := st.hover
		st.hover = hit
		if w := ui.Lookup(prev); w != nil {
			w.FireScript("OnLeave")
		}
		if w := ui.Lookup(hit); w != nil {
			w.FireScript("OnEnter")
		}
	}

	switch {
	case pressed && !st.down:
		st.down, st.button, st.downOn = true, button, hit
		if w := ui.Lookup(hit); w != nil {
			w.FireScript("OnMouseDown", button.String())
		}
	case !pressed && st.down:
		downOn, btn := st.downOn, st.button
		st.down, st.downOn = false, Handle{}
		w := ui.Lookup(downOn)
		if w == nil {
			return
		}
		if !w.FireScript("OnMouseUp", btn.String()) {
			return
		}
		if downOn == hit {
			w.FireScript("OnClick", btn.String())
		}
	}
}

// processWheel scrolls the innermost scroll frame under the point after
// firing OnMouseWheel on it. Positive wheel values scroll toward the start.
func (ui *UI) processWheel(x, y, dx, dy float64) {
	sf := ui.scrollFrameAt(x, y)
	if sf == nil {
		return
	}
	h := sf.w.handle
	delta := dy
	if delta == 0 {
		delta = dx
	}
	if !sf.w.FireScript("OnMouseWheel", delta) {
		return
	}
	if w := ui.Lookup(h); w != nil && w.scroll != nil {
		step := ui.cfg.ScrollStep
		w.scroll.ScrollBy(-dx*step, -dy*step)
	}
}

// scrollFrameAt returns the innermost visible scroll frame whose viewport,
// and every enclosing viewport, contains (x, y).
func (ui *UI) scrollFrameAt(x, y float64) *ScrollFrame {
	var best *ScrollFrame
	bestDepth := -1
	for _, sf := range ui.frames {
		if !sf.w.IsVisible() || !viewportContains(sf, x, y) {
			continue
		}
		if d := sf.depth(); d > bestDepth {
			best, bestDepth = sf, d
		}
	}
	return best
}

func viewportContains(sf *ScrollFrame, x, y float64) bool {
	for f := sf; f != nil; f = f.w.compositor {
		if !f.w.ready || !f.w.bounds.Contains(x, y) {
			return false
		}
	}
	return true
}
