package lumen

// syntheticPointerEvent is one injected pointer event in logical screen
// coordinates.
type syntheticPointerEvent struct {
	x, y           float64
	pressed        bool
	button         MouseButton
	wheel          bool
	wheelX, wheelY float64
}

// InjectPress queues a left button press at (x, y). Injected events are
// consumed one per Update, ahead of the pointer source.
func (ui *UI) InjectPress(x, y float64) {
	ui.InjectButton(x, y, true, MouseButtonLeft)
}

// InjectRelease queues a left button release at (x, y).
func (ui *UI) InjectRelease(x, y float64) {
	ui.InjectButton(x, y, false, MouseButtonLeft)
}

// InjectButton queues a press or release of button at (x, y).
func (ui *UI) InjectButton(x, y float64, pressed bool, button MouseButton) {
	ui.input.queue = append(ui.input.queue, syntheticPointerEvent{
		x: x, y: y,
		pressed: pressed,
		button:  button,
	})
}

// InjectMove queues a pointer move to (x, y) keeping the current button
// state, which drives OnEnter and OnLeave.
func (ui *UI) InjectMove(x, y float64) {
	pressed := ui.input.down
	if n := len(ui.input.queue); n > 0 {
		pressed = ui.input.queue[n-1].pressed
	}
	ui.input.queue = append(ui.input.queue, syntheticPointerEvent{
		x: x, y: y,
		pressed: pressed,
		button:  ui.input.button,
	})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two updates.
func (ui *UI) InjectClick(x, y float64) {
	ui.InjectPress(x, y)
	ui.InjectRelease(x, y)
}

// InjectWheel queues a wheel event at (x, y). Positive dy scrolls up.
func (ui *UI) InjectWheel(x, y, dx, dy float64) {
	ui.input.queue = append(ui.input.queue, syntheticPointerEvent{
		x: x, y: y,
		wheel:  true,
		wheelX: dx, wheelY: dy,
	})
}

// PendingInput returns the number of queued injected events.
func (ui *UI) PendingInput() int {
	return len(ui.input.queue)
}
