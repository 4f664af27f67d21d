// Package lumen is a retained-mode GUI core for [Ebitengine], modeled on
// markup-and-script UI frameworks.
//
// Lumen provides the anchor-based layout solver, the strata and layer draw
// scheduler with dirty tracking, and scroll frames that compose their
// content into private render targets. Individual widget behaviors (buttons,
// sliders, edit boxes), the layout-file parser and the scripting engine live
// outside the core and call into it.
//
// # Quick start
//
// The simplest way to get started is [Run], which loads the UI, creates a
// window and runs the game loop:
//
//	ui := lumen.NewUI(lumen.DefaultConfig(), lumen.WithLoader(func(ui *lumen.UI) error {
//		panel, err := ui.NewFrame("Panel", nil, lumen.WithSize(200, 100),
//			lumen.WithDrawer(lumen.Fill{Color: lumen.Color{R: 0.2, G: 0.2, B: 0.3, A: 1}}))
//		if err != nil {
//			return err
//		}
//		return panel.SetPoint(lumen.AnchorCenter, "", lumen.AnchorCenter, 0, 0)
//	}))
//	lumen.Run(ui, lumen.RunConfig{})
//
// For full control, wrap the UI with [NewGame] or call [UI.Update] and
// [UI.Draw] from your own [ebiten.Game].
//
// # Anchors
//
// A widget's rectangle is derived from its anchors and optional explicit
// size. Each [Anchor] pins one of nine points of the widget to a point of a
// target (the parent when Target is empty, the screen for top-level
// widgets, or a named widget) plus an offset. Along each axis, two of
// {low edge, high edge, center, size} determine the span:
//
//	ok.SetPoint(lumen.AnchorBottomRight, "$parent", lumen.AnchorBottomRight, -8, -8)
//	ok.SetSize(80, 24)
//
// Bounds are memoized. Any change that could move a widget marks it dirty
// together with every widget anchored to it and every descendant; the
// update pass resolves whatever is dirty before drawing. Anchor cycles are
// detected and reported as a [*CycleError].
//
// # Strata and layers
//
// Widgets draw in coarse strata (BACKGROUND to TOOLTIP), then by [Layer],
// level and creation order. Each stratum keeps a cached sorted render list
// that is only rebuilt after a visibility, scheduling or membership change.
//
// # Scroll frames
//
// A [ScrollFrame] renders its scroll child's subtree into an offscreen
// [RenderTarget] and draws it as a single quad clipped to the frame. The
// child is anchored at minus the scroll offset, so scrolling is an ordinary
// anchor change. OnScrollRangeChanged fires once per range change.
//
// # Scripts
//
// Events such as OnLoad, OnShow, OnHide, OnEnter, OnLeave, OnMouseDown,
// OnMouseUp, OnClick, OnMouseWheel and OnScrollRangeChanged are delivered
// to per-widget handlers ([Widget.SetScript]) and to the UI's
// [ScriptDispatcher]. Scripts may destroy widgets; the core re-checks
// liveness through [Handle] values after every call.
//
// [Ebitengine]: https://ebitengine.org
package lumen
