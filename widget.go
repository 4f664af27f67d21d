package lumen

import (
	"fmt"
	"log/slog"
)

// Built-in kind tags accepted by UI.Create.
const (
	KindFrame       = "Frame"
	KindTexture     = "Texture"
	KindScrollFrame = "ScrollFrame"
)

// Anchorable is implemented by anything the anchor resolver can lay out.
type Anchorable interface {
	Anchors() []Anchor
	SetAnchor(a Anchor) error
	ClearAnchors()
	Resolve() (Bounds, error)
	Bounds() Bounds
	NotifyBoundsDirty()
}

// Resizable is implemented by anything with an explicit absolute size.
type Resizable interface {
	SetWidth(w float64)
	SetHeight(h float64)
	SetSize(w, h float64)
	Size() (w, h float64)
}

// ScriptTarget is implemented by anything scripts can be fired on.
type ScriptTarget interface {
	Handle() Handle
	FireScript(name string, args ...any) bool
}

var (
	_ Anchorable   = (*Widget)(nil)
	_ Resizable    = (*Widget)(nil)
	_ ScriptTarget = (*Widget)(nil)
)

// Widget is the single element type of the UI tree. Behavior that differs
// per kind lives in the drawer and, for scroll frames, in the attached
// ScrollFrame; everything else is shared.
type Widget struct {
	ui     *UI
	handle Handle
	kind   string

	// Name is unique within the UI. Empty names are allowed and unregistered.
	Name    string
	rawName string // name before $parent expansion, used when cloning templates

	parent   *Widget
	children []*Widget

	// Layout
	anchors       []Anchor
	dependents    []Handle
	width, height float64
	hasWidth      bool
	hasHeight     bool
	bounds        Bounds
	boundsDirty   bool
	ready         bool
	resolving     bool
	resolveErr    error
	errReported   bool
	drawFailed    bool

	// Scheduling
	strata       Strata
	layer        Layer
	level        int
	seq          uint64
	memberOf     *strataSet
	memberStrata Strata

	shown        bool
	virtual      bool
	mouseEnabled bool
	destroyed    bool

	// Color tints the placeholder drawn when the drawer fails. Unset means
	// white.
	Color  Color
	drawer Drawer

	scroll     *ScrollFrame // set for KindScrollFrame
	compositor *ScrollFrame // nearest enclosing scroll frame rendering this widget

	scripts   map[string]ScriptHandler
	inherited []*Widget // templates whose children are cloned after Create registers w

	UserData any
}

// Handle returns the widget's liveness token.
func (w *Widget) Handle() Handle {
	return w.handle
}

// Kind returns the type tag the widget was created with.
func (w *Widget) Kind() string {
	return w.kind
}

// UI returns the owning UI.
func (w *Widget) UI() *UI {
	return w.ui
}

// Parent returns the parent widget, or nil for a top-level widget.
func (w *Widget) Parent() *Widget {
	return w.parent
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (w *Widget) Children() []*Widget {
	return w.children
}

// IsVirtual reports whether the widget is a template.
func (w *Widget) IsVirtual() bool {
	return w.virtual
}

// IsDestroyed reports whether the widget has been destroyed. Prefer
// UI.Alive on a saved Handle: a destroyed *Widget must not be touched.
func (w *Widget) IsDestroyed() bool {
	return w.destroyed
}

// ScrollFrame returns the scroll frame behavior of a ScrollFrame widget, or nil.
func (w *Widget) ScrollFrame() *ScrollFrame {
	return w.scroll
}

func (w *Widget) describe() string {
	if w.Name != "" {
		return fmt.Sprintf("%s %q", w.kind, w.Name)
	}
	return fmt.Sprintf("%s #%d", w.kind, w.seq)
}

func (w *Widget) logAttrs() slog.Attr {
	return slog.Group("widget", slog.String("name", w.Name), slog.String("kind", w.kind))
}

func (w *Widget) checkDestroyed(op string) {
	if w.destroyed {
		panic(fmt.Sprintf("lumen: %s on destroyed widget %q", op, w.Name))
	}
}

// --- Size ---

// SetWidth sets an explicit absolute width.
func (w *Widget) SetWidth(width float64) {
	w.checkDestroyed("SetWidth")
	if w.hasWidth && w.width == width {
		return
	}
	w.width, w.hasWidth = width, true
	w.NotifyBoundsDirty()
}

// SetHeight sets an explicit absolute height.
func (w *Widget) SetHeight(height float64) {
	w.checkDestroyed("SetHeight")
	if w.hasHeight && w.height == height {
		return
	}
	w.height, w.hasHeight = height, true
	w.NotifyBoundsDirty()
}

// SetSize sets both explicit dimensions.
func (w *Widget) SetSize(width, height float64) {
	w.SetWidth(width)
	w.SetHeight(height)
}

// ClearSize removes the explicit dimensions.
func (w *Widget) ClearSize() {
	if !w.hasWidth && !w.hasHeight {
		return
	}
	w.hasWidth, w.hasHeight = false, false
	w.NotifyBoundsDirty()
}

// ExplicitSize returns the absolute size and whether each dimension is set.
func (w *Widget) ExplicitSize() (width, height float64, hasWidth, hasHeight bool) {
	return w.width, w.height, w.hasWidth, w.hasHeight
}

// Size returns the resolved (apparent) size.
func (w *Widget) Size() (width, height float64) {
	b := w.Bounds()
	return b.Width(), b.Height()
}

// --- Scheduling ---

// Strata returns the widget's effective strata, resolving StrataParent.
func (w *Widget) Strata() Strata {
	for p := w; p != nil; p = p.parent {
		if p.strata != StrataParent {
			return p.strata
		}
	}
	return StrataMedium
}

// SetStrata moves the widget (and children inheriting its strata) to s.
func (w *Widget) SetStrata(s Strata) {
	w.checkDestroyed("SetStrata")
	if w.strata == s {
		return
	}
	w.strata = s
	w.refreshMembership()
}

// Layer returns the widget's draw layer.
func (w *Widget) Layer() Layer {
	return w.layer
}

// SetLayer changes the draw layer and dirties the containing stratum.
func (w *Widget) SetLayer(l Layer) {
	w.checkDestroyed("SetLayer")
	if w.layer == l {
		return
	}
	w.layer = l
	w.markStratumDirty()
}

// Level returns the draw level within the layer.
func (w *Widget) Level() int {
	return w.level
}

// SetLevel changes the draw level within the layer.
func (w *Widget) SetLevel(level int) {
	w.checkDestroyed("SetLevel")
	if w.level == level {
		return
	}
	w.level = level
	w.markStratumDirty()
}

func (w *Widget) markStratumDirty() {
	if w.memberOf != nil {
		w.memberOf.markDirty(w.memberStrata)
	}
}

// ownerSet returns the strata set that should draw this widget.
func (w *Widget) ownerSet() *strataSet {
	if w.compositor != nil {
		return &w.compositor.strata
	}
	return &w.ui.strata
}

// refreshMembership recomputes the compositor and strata bucket of w and
// its descendants, moving them between buckets as needed.
func (w *Widget) refreshMembership() {
	if w.parent != nil {
		w.compositor = w.parent.compositor
		if ps := w.parent.scroll; ps != nil && ps.child == w {
			w.compositor = ps
		}
	} else {
		w.compositor = nil
	}
	if !w.virtual {
		set, st := w.ownerSet(), w.Strata()
		if set != w.memberOf || st != w.memberStrata {
			if w.memberOf != nil {
				w.memberOf.remove(w, w.memberStrata)
			}
			set.add(w, st)
			w.memberOf, w.memberStrata = set, st
		}
	}
	for _, c := range w.children {
		c.refreshMembership()
	}
}

func (w *Widget) leaveStrata() {
	if w.memberOf != nil {
		w.memberOf.remove(w, w.memberStrata)
		w.memberOf = nil
	}
}

// --- Visibility ---

// IsShown reports the widget's own shown flag.
func (w *Widget) IsShown() bool {
	return w.shown
}

// IsVisible reports whether the widget and all its ancestors are shown.
func (w *Widget) IsVisible() bool {
	for p := w; p != nil; p = p.parent {
		if !p.shown {
			return false
		}
	}
	return true
}

// Show sets the shown flag and fires OnShow if it changed.
func (w *Widget) Show() {
	w.SetShown(true)
}

// Hide clears the shown flag and fires OnHide if it changed.
func (w *Widget) Hide() {
	w.SetShown(false)
}

// SetShown changes the shown flag. Every stratum holding the widget or one
// of its descendants is marked dirty, then OnShow or OnHide fires.
func (w *Widget) SetShown(shown bool) {
	w.checkDestroyed("SetShown")
	if w.shown == shown {
		return
	}
	w.shown = shown
	w.markSubtreeStrataDirty()
	if sf := w.scroll; sf != nil && shown {
		sf.needsRedraw = true
	}
	if shown {
		w.FireScript("OnShow")
	} else {
		w.FireScript("OnHide")
	}
}

func (w *Widget) markSubtreeStrataDirty() {
	w.markStratumDirty()
	for _, c := range w.children {
		c.markSubtreeStrataDirty()
	}
}

// EnableMouse makes the widget a hit-test target.
func (w *Widget) EnableMouse(enabled bool) {
	w.mouseEnabled = enabled
}

// IsMouseEnabled reports whether the widget receives pointer events.
func (w *Widget) IsMouseEnabled() bool {
	return w.mouseEnabled
}

// --- Drawing ---

// SetDrawer replaces the widget's drawer.
func (w *Widget) SetDrawer(d Drawer) {
	w.drawer = d
	w.invalidate()
}

// Drawer returns the widget's drawer.
func (w *Widget) Drawer() Drawer {
	return w.drawer
}

// Invalidate requests a recomposite of the enclosing scroll frames after a
// visual change that does not move the widget.
func (w *Widget) Invalidate() {
	w.invalidate()
}

func (w *Widget) invalidate() {
	if w.compositor != nil {
		w.compositor.invalidate()
	}
}

// Draw renders the widget through r. Bounds are resolved first; widgets that
// are not ready or have no area are skipped. A scroll frame draws its drawer as a backdrop
// and then its composited contents. A failing drawer is replaced by a
// placeholder quad so one widget never blanks the frame.
func (w *Widget) Draw(r Renderer) {
	b := w.Bounds()
	if !w.ready || b.Empty() {
		return
	}
	var err error
	if w.drawer != nil {
		err = w.drawer.Draw(r, w)
	}
	if err == nil && w.scroll != nil {
		err = w.scroll.draw(r, w)
	}
	if err != nil {
		if !w.drawFailed {
			w.ui.log.Warn("draw failed, using placeholder", w.logAttrs(), slog.Any("error", err))
			w.drawFailed = true
		}
		r.RenderQuad(Quad{Dst: b, Image: WhitePixel, Color: tint(w.Color)})
		return
	}
	w.drawFailed = false
}

// --- Tree ---

// SetParent moves the widget under parent (nil makes it top-level).
// Panics if parent is w or one of its descendants.
func (w *Widget) SetParent(parent *Widget) {
	w.checkDestroyed("SetParent")
	if parent == w.parent {
		return
	}
	if parent != nil && isAncestor(w, parent) {
		panic("lumen: reparenting would create a cycle")
	}
	if w.parent != nil {
		if ps := w.parent.scroll; ps != nil && ps.child == w {
			ps.releaseChild()
		}
	}
	w.detach()
	w.attach(parent)
	w.refreshMembership()
	w.markSubtreeStrataDirty()
	w.NotifyBoundsDirty()
}

func (w *Widget) attach(parent *Widget) {
	w.parent = parent
	if parent != nil {
		parent.children = append(parent.children, w)
		if w.ui.cfg.Debug {
			debugCheckTreeDepth(w)
			debugCheckChildCount(parent)
		}
	} else {
		w.ui.roots = append(w.ui.roots, w)
	}
}

func (w *Widget) detach() {
	if w.parent != nil {
		w.parent.children = removeWidget(w.parent.children, w)
	} else {
		w.ui.roots = removeWidget(w.ui.roots, w)
	}
	w.parent = nil
}

// Destroy removes the widget from its parent and destroys it and all its
// descendants. Every Handle to them stops being alive. Panics when called
// during the render pass.
func (w *Widget) Destroy() {
	if w.destroyed {
		return
	}
	if w.ui.drawing {
		panic("lumen: Destroy during Draw")
	}
	if w.parent != nil {
		if ps := w.parent.scroll; ps != nil && ps.child == w {
			ps.releaseChild()
		}
	}
	w.detach()
	w.destroy()
}

func (w *Widget) destroy() {
	for _, c := range w.children {
		c.parent = nil
		c.destroy()
	}
	w.children = nil
	if w.scroll != nil {
		w.scroll.dispose()
	}
	w.invalidate()
	w.leaveStrata()
	w.ui.unregisterName(w)
	for _, h := range w.dependents {
		if d := w.ui.Lookup(h); d != nil {
			d.NotifyBoundsDirty()
		}
	}
	w.ui.reg.release(w.handle)
	w.destroyed = true
	w.parent = nil
	w.anchors = nil
	w.dependents = nil
	w.drawer = nil
	w.compositor = nil
	w.scroll = nil
	w.resolveErr = nil
	w.scripts = nil
	w.UserData = nil
}

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *Widget) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeWidget removes w from list, nil-ing the vacated slot so the backing
// array does not retain it.
func removeWidget(list []*Widget, w *Widget) []*Widget {
	for i, c := range list {
		if c == w {
			copy(list[i:], list[i+1:])
			list[len(list)-1] = nil
			return list[:len(list)-1]
		}
	}
	return list
}

// --- Scripts ---

// FireScript fires a named script on the widget through the UI's
// dispatcher and reports whether the widget is still alive afterwards.
// Callers must return immediately without touching w when it reports false.
func (w *Widget) FireScript(name string, args ...any) bool {
	return w.ui.FireScript(w, name, args...)
}
