package ecs

import (
	"testing"

	"github.com/phanxgames/lumen"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func newTestUI(t *testing.T, d lumen.ScriptDispatcher) *lumen.UI {
	t.Helper()
	ui := lumen.NewUI(lumen.DefaultConfig(), lumen.WithScripts(d), lumen.WithLogger(lumen.NopLogger()))
	if err := ui.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return ui
}

func TestNewDonburiDispatcher(t *testing.T) {
	world := donburi.NewWorld()
	if d := NewDonburiDispatcher(world, nil); d == nil {
		t.Fatal("NewDonburiDispatcher returned nil")
	}
}

func TestDonburiDispatcher_PublishesOnLoad(t *testing.T) {
	world := donburi.NewWorld()
	ui := newTestUI(t, NewDonburiDispatcher(world, nil))

	var received []ScriptEvent
	ScriptEventType.Subscribe(world, func(w donburi.World, e ScriptEvent) {
		received = append(received, e)
	})

	f, err := ui.NewFrame("Panel", nil)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}

	// Events are queued; process them.
	ScriptEventType.ProcessEvents(world)

	if len(received) != 1 {
		t.Fatalf("expected 1 event, got %d", len(received))
	}
	e := received[0]
	if e.Script != "OnLoad" || e.WidgetName != "Panel" || e.Kind != lumen.KindFrame {
		t.Errorf("event: %+v", e)
	}
	if e.Widget != f.Handle() || !ui.Alive(e.Widget) {
		t.Errorf("event handle does not name the frame")
	}
}

func TestDonburiDispatcher_CopiesArgs(t *testing.T) {
	world := donburi.NewWorld()
	ui := newTestUI(t, NewDonburiDispatcher(world, nil))
	f, _ := ui.NewFrame("Panel", nil)

	var got ScriptEvent
	ScriptEventType.Subscribe(world, func(w donburi.World, e ScriptEvent) {
		got = e
	})
	args := []any{"LeftButton"}
	f.FireScript("OnClick", args...)
	args[0] = "changed"
	events.ProcessAllEvents(world)

	if got.Script != "OnClick" || len(got.Args) != 1 || got.Args[0] != "LeftButton" {
		t.Errorf("event: %+v", got)
	}
}

func TestDonburiDispatcher_CallsNext(t *testing.T) {
	world := donburi.NewWorld()
	var names []string
	next := lumen.ScriptFunc(func(w *lumen.Widget, name string, args ...any) error {
		names = append(names, name)
		return nil
	})
	ui := newTestUI(t, NewDonburiDispatcher(world, next))
	f, _ := ui.NewFrame("Panel", nil)
	f.Hide()

	if len(names) != 2 || names[0] != "OnLoad" || names[1] != "OnHide" {
		t.Errorf("next saw %v, want [OnLoad OnHide]", names)
	}
}

func TestDonburiDispatcher_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	ui := newTestUI(t, NewDonburiDispatcher(world, nil))

	var count1, count2 int
	ScriptEventType.Subscribe(world, func(w donburi.World, e ScriptEvent) {
		count1++
	})
	ScriptEventType.Subscribe(world, func(w donburi.World, e ScriptEvent) {
		count2++
	})

	if _, err := ui.NewFrame("Panel", nil); err != nil {
		t.Fatal(err)
	}
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}
