package lumen

import (
	"testing"
)

func names(list []*Widget) []string {
	out := make([]string, len(list))
	for i, w := range list {
		out[i] = w.Name
	}
	return out
}

func equalNames(t *testing.T, what string, got []*Widget, want ...string) {
	t.Helper()
	g := names(got)
	if len(g) != len(want) {
		t.Errorf("%s = %v, want %v", what, g, want)
		return
	}
	for i := range g {
		if g[i] != want[i] {
			t.Errorf("%s = %v, want %v", what, g, want)
			return
		}
	}
}

// --- Parsing ---

func TestParseStrata(t *testing.T) {
	for st := StrataParent; st < numStrata; st++ {
		got, err := ParseStrata(st.String())
		if err != nil || got != st {
			t.Errorf("ParseStrata(%q) = %v, %v", st.String(), got, err)
		}
	}
	if got, err := ParseStrata("fullscreen_dialog"); err != nil || got != StrataFullscreenDialog {
		t.Errorf("ParseStrata lower-case = %v, %v", got, err)
	}
	if _, err := ParseStrata("TOP"); err == nil {
		t.Error("ParseStrata(TOP) should fail")
	}
}

func TestParseLayer(t *testing.T) {
	for l := LayerBackground; l < numLayers; l++ {
		got, err := ParseLayer(l.String())
		if err != nil || got != l {
			t.Errorf("ParseLayer(%q) = %v, %v", l.String(), got, err)
		}
	}
	if _, err := ParseLayer("FOREGROUND"); err == nil {
		t.Error("ParseLayer(FOREGROUND) should fail")
	}
}

// --- Ordering ---

func TestRenderListOrder(t *testing.T) {
	ui := newTestUI(t)
	mustFrame(t, ui, "Overlay", nil, WithLayer(LayerOverlay))
	mustFrame(t, ui, "ArtHigh", nil, WithLayer(LayerArtwork), WithLevel(5))
	mustFrame(t, ui, "Art1", nil, WithLayer(LayerArtwork))
	mustFrame(t, ui, "Art2", nil, WithLayer(LayerArtwork))
	mustFrame(t, ui, "Back", nil, WithLayer(LayerBackground), WithLevel(100))

	equalNames(t, "MEDIUM", ui.RenderList(StrataMedium), "Back", "Art1", "Art2", "ArtHigh", "Overlay")
}

func TestRenderListSeparatesStrata(t *testing.T) {
	ui := newTestUI(t)
	p := mustFrame(t, ui, "Dialog", nil, WithStrata(StrataDialog))
	mustFrame(t, ui, "$parentChild", p)
	mustFrame(t, ui, "Tip", p, WithStrata(StrataTooltip))
	mustFrame(t, ui, "Plain", nil)

	equalNames(t, "DIALOG", ui.RenderList(StrataDialog), "Dialog", "DialogChild")
	equalNames(t, "TOOLTIP", ui.RenderList(StrataTooltip), "Tip")
	equalNames(t, "MEDIUM", ui.RenderList(StrataMedium), "Plain")

	// Children inheriting strata follow the parent.
	p.SetStrata(StrataHigh)
	equalNames(t, "HIGH", ui.RenderList(StrataHigh), "Dialog", "DialogChild")
	equalNames(t, "DIALOG after move", ui.RenderList(StrataDialog))
	equalNames(t, "TOOLTIP after move", ui.RenderList(StrataTooltip), "Tip")
}

func TestRenderListExcludesHiddenAndVirtual(t *testing.T) {
	ui := newTestUI(t)
	p := mustFrame(t, ui, "P", nil)
	mustFrame(t, ui, "C", p)
	mustFrame(t, ui, "Hidden", nil, Hidden())
	mustFrame(t, ui, "Tmpl", nil, Virtual())

	equalNames(t, "visible", ui.RenderList(StrataMedium), "P", "C")

	p.Hide()
	if !ui.IsStrataDirty(StrataMedium) {
		t.Error("Hide should dirty the stratum")
	}
	equalNames(t, "parent hidden", ui.RenderList(StrataMedium))

	p.Show()
	equalNames(t, "parent shown", ui.RenderList(StrataMedium), "P", "C")
}

// --- Caching ---

func TestRenderListCached(t *testing.T) {
	ui := newTestUI(t)
	for _, n := range []string{"A", "B", "C"} {
		mustFrame(t, ui, n, nil)
	}
	ui.RenderList(StrataMedium)
	base := ui.RebuildCount(StrataMedium)

	for range 5 {
		ui.RenderList(StrataMedium)
	}
	if got := ui.RebuildCount(StrataMedium); got != base {
		t.Errorf("rebuilds = %d, want %d (clean list must not rebuild)", got, base)
	}

	// Geometry changes do not affect draw order.
	ui.Find("A").SetSize(10, 10)
	if ui.IsStrataDirty(StrataMedium) {
		t.Error("resize should not dirty the stratum")
	}

	ui.Find("A").SetLevel(3)
	if !ui.IsStrataDirty(StrataMedium) {
		t.Error("SetLevel should dirty the stratum")
	}
	equalNames(t, "after SetLevel", ui.RenderList(StrataMedium), "B", "C", "A")
	if got := ui.RebuildCount(StrataMedium); got != base+1 {
		t.Errorf("rebuilds = %d, want %d", got, base+1)
	}
}

func TestRenderListAfterDestroy(t *testing.T) {
	ui := newTestUI(t)
	a := mustFrame(t, ui, "A", nil)
	mustFrame(t, ui, "B", nil)
	ui.RenderList(StrataMedium)

	a.Destroy()
	if !ui.IsStrataDirty(StrataMedium) {
		t.Error("Destroy should dirty the stratum")
	}
	equalNames(t, "after destroy", ui.RenderList(StrataMedium), "B")
}

func TestDrawUsesRenderOrder(t *testing.T) {
	rr := &recordingRenderer{}
	ui := newTestUI(t, WithRenderer(rr))
	red := Color{R: 1, A: 1}
	blue := Color{B: 1, A: 1}
	top := mustFrame(t, ui, "Top", nil, WithSize(10, 10), WithStrata(StrataHigh), WithDrawer(Fill{Color: red}))
	bottom := mustFrame(t, ui, "Bottom", nil, WithSize(10, 10), WithDrawer(Fill{Color: blue}))
	_, _ = top, bottom

	ui.Draw()
	qs := rr.quads()
	if len(qs) != 2 {
		t.Fatalf("quads = %d, want 2", len(qs))
	}
	if qs[0].Color != blue || qs[1].Color != red {
		t.Errorf("draw order = %v, %v; want blue then red", qs[0].Color, qs[1].Color)
	}
	if rr.calls[0].op != opBegin || rr.calls[0].target != nil {
		t.Error("root pass should begin on the screen")
	}
	if rr.calls[len(rr.calls)-1].op != opEnd {
		t.Error("root pass should end")
	}
}
