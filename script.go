package lumen

// ScriptDispatcher delivers named script events (OnLoad, OnShow, OnClick,
// OnScrollRangeChanged, ...) to the scripting layer. The widget may be
// destroyed by the time FireScript returns; callers re-check liveness.
type ScriptDispatcher interface {
	FireScript(w *Widget, name string, args ...any) error
}

// ScriptFunc adapts a function to ScriptDispatcher.
type ScriptFunc func(w *Widget, name string, args ...any) error

func (f ScriptFunc) FireScript(w *Widget, name string, args ...any) error {
	return f(w, name, args...)
}

type nopScripts struct{}

func (nopScripts) FireScript(*Widget, string, ...any) error { return nil }

// ScriptHandler is a handler set directly on one widget.
type ScriptHandler func(w *Widget, args ...any) error

// SetScript sets the widget's own handler for the named script. A nil
// handler removes it. Widget handlers run before the UI's dispatcher.
func (w *Widget) SetScript(name string, h ScriptHandler) {
	w.checkDestroyed("SetScript")
	if h == nil {
		delete(w.scripts, name)
		return
	}
	if w.scripts == nil {
		w.scripts = make(map[string]ScriptHandler)
	}
	w.scripts[name] = h
}

// Script returns the widget's own handler for name, or nil.
func (w *Widget) Script(name string) ScriptHandler {
	return w.scripts[name]
}

// HasScript reports whether the widget has its own handler for name.
func (w *Widget) HasScript(name string) bool {
	_, ok := w.scripts[name]
	return ok
}
