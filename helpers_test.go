package lumen

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertBounds(t *testing.T, name string, got, want Bounds) {
	t.Helper()
	if math.Abs(got.Left-want.Left) > epsilon || math.Abs(got.Top-want.Top) > epsilon ||
		math.Abs(got.Right-want.Right) > epsilon || math.Abs(got.Bottom-want.Bottom) > epsilon {
		t.Errorf("%s = %+v, want %+v", name, got, want)
	}
}

// newTestUI returns a loaded, silent UI with a 800x600 screen.
func newTestUI(t testing.TB, opts ...Option) *UI {
	t.Helper()
	cfg := DefaultConfig()
	return newTestUIConfig(t, cfg, opts...)
}

func newTestUIConfig(t testing.TB, cfg Config, opts ...Option) *UI {
	t.Helper()
	opts = append([]Option{WithLogger(NopLogger())}, opts...)
	ui := NewUI(cfg, opts...)
	if err := ui.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return ui
}

// mustFrame creates a frame or fails the test.
func mustFrame(t testing.TB, ui *UI, name string, parent *Widget, opts ...WidgetOption) *Widget {
	t.Helper()
	w, err := ui.NewFrame(name, parent, opts...)
	if err != nil {
		t.Fatalf("NewFrame(%q): %v", name, err)
	}
	if w == nil {
		t.Fatalf("NewFrame(%q) returned nil", name)
	}
	return w
}

func mustAnchor(t testing.TB, w *Widget, point AnchorPoint, target string, targetPoint AnchorPoint, x, y float64) {
	t.Helper()
	if err := w.SetPoint(point, target, targetPoint, x, y); err != nil {
		t.Fatalf("SetPoint on %q: %v", w.Name, err)
	}
}

// --- Recording renderer ---

type renderOp uint8

const (
	opBegin renderOp = iota
	opEnd
	opClear
	opSetView
	opQuad
)

type renderCall struct {
	op     renderOp
	target *RenderTarget
	color  Color
	view   Matrix
	quad   Quad
}

// recordingRenderer is a Renderer test double that records every call.
type recordingRenderer struct {
	calls []renderCall
	depth int
}

func (r *recordingRenderer) Begin(target *RenderTarget) {
	r.depth++
	r.calls = append(r.calls, renderCall{op: opBegin, target: target})
}

func (r *recordingRenderer) End() {
	r.depth--
	r.calls = append(r.calls, renderCall{op: opEnd})
}

func (r *recordingRenderer) Clear(c Color) {
	r.calls = append(r.calls, renderCall{op: opClear, color: c})
}

func (r *recordingRenderer) SetView(m Matrix) {
	r.calls = append(r.calls, renderCall{op: opSetView, view: m})
}

func (r *recordingRenderer) RenderQuad(q Quad) {
	r.calls = append(r.calls, renderCall{op: opQuad, quad: q})
}

func (r *recordingRenderer) reset() {
	r.calls = r.calls[:0]
}

func (r *recordingRenderer) quads() []Quad {
	var qs []Quad
	for _, c := range r.calls {
		if c.op == opQuad {
			qs = append(qs, c.quad)
		}
	}
	return qs
}

func (r *recordingRenderer) count(op renderOp) int {
	n := 0
	for _, c := range r.calls {
		if c.op == op {
			n++
		}
	}
	return n
}

// scriptLog records fired scripts.
type scriptLog struct {
	fired []string
	args  [][]any
}

func (l *scriptLog) dispatcher() ScriptDispatcher {
	return ScriptFunc(func(w *Widget, name string, args ...any) error {
		l.fired = append(l.fired, w.Name+"."+name)
		l.args = append(l.args, args)
		return nil
	})
}

func (l *scriptLog) count(entry string) int {
	n := 0
	for _, f := range l.fired {
		if f == entry {
			n++
		}
	}
	return n
}
