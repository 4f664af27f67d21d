package ecs

import (
	"github.com/phanxgames/lumen"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// ScriptEvent is one script fired on a widget. The widget is referenced by
// handle; check lumen.UI.Alive before using it, since events are processed
// after the frame that fired them.
type ScriptEvent struct {
	Widget     lumen.Handle
	WidgetName string
	Kind       string
	Script     string
	Args       []any
}

// ScriptEventType is the Donburi event type for lumen script events.
var ScriptEventType = events.NewEventType[ScriptEvent]()

type donburiDispatcher struct {
	world donburi.World
	next  lumen.ScriptDispatcher
}

// NewDonburiDispatcher creates a ScriptDispatcher that publishes every fired
// script to ScriptEventType in world. If next is non-nil it is called after
// publishing, so an existing dispatcher keeps working.
func NewDonburiDispatcher(world donburi.World, next lumen.ScriptDispatcher) lumen.ScriptDispatcher {
	return &donburiDispatcher{world: world, next: next}
}

func (d *donburiDispatcher) FireScript(w *lumen.Widget, name string, args ...any) error {
	ScriptEventType.Publish(d.world, ScriptEvent{
		Widget:     w.Handle(),
		WidgetName: w.Name,
		Kind:       w.Kind(),
		Script:     name,
		Args:       append([]any(nil), args...),
	})
	if d.next != nil {
		return d.next.FireScript(w, name, args...)
	}
	return nil
}
