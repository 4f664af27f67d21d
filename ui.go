package lumen

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// State is the lifecycle state of a UI.
type State uint8

const (
	StateUnloaded State = iota
	StateLoaded
	StateUnloading
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoaded:
		return "loaded"
	case StateUnloading:
		return "unloading"
	}
	return fmt.Sprintf("State(%d)", s)
}

// Loader builds the widget tree when the UI loads. It stands in for the
// layout-file parser, which lives outside the core.
type Loader func(ui *UI) error

// KindInit configures a freshly created widget of a registered kind.
type KindInit func(w *Widget)

// UI is the explicit context owning the widget registry, the root strata,
// the renderer, the script dispatcher and the pointer source. Nothing in the
// package is global; every widget reaches its UI through its own pointer.
type UI struct {
	cfg      Config
	log      *slog.Logger
	renderer Renderer
	scripts  ScriptDispatcher
	pointer  PointerSource
	loader   Loader
	kinds    map[string]KindInit

	state   State
	reg     registry
	roots   []*Widget
	names   map[string]Handle
	tmpls   map[string]*Widget
	waiting map[string][]Handle
	strata  strataSet
	frames  []*ScrollFrame
	targets targetPool
	seq     uint64

	frameOrder []frameTick
	tweens     []*AnchorTween

	dirty        []Handle
	resolveStack []*Widget
	resolveCalls int

	inUpdate      bool
	drawing       bool
	pendingClose  bool
	pendingReload bool

	// reloadRequested is set from other goroutines (file watchers) and
	// folded into pendingReload by Update.
	reloadRequested atomic.Bool

	input       inputState
	inputScript *InputScript
	frame       uint64
}

// Option configures a UI at construction.
type Option func(*UI)

// WithLogger sets the diagnostic sink.
func WithLogger(l *slog.Logger) Option {
	return func(ui *UI) { ui.log = l }
}

// WithRenderer sets the renderer used by Update (offscreen composition)
// and Draw.
func WithRenderer(r Renderer) Option {
	return func(ui *UI) { ui.renderer = r }
}

// WithScripts sets the script dispatcher.
func WithScripts(d ScriptDispatcher) Option {
	return func(ui *UI) { ui.scripts = d }
}

// WithPointerSource sets the device pointer source polled every Update.
func WithPointerSource(p PointerSource) Option {
	return func(ui *UI) { ui.pointer = p }
}

// WithLoader sets the function that builds the tree on Load.
func WithLoader(l Loader) Option {
	return func(ui *UI) { ui.loader = l }
}

// NewUI creates an unloaded UI. Call Load before creating widgets.
func NewUI(cfg Config, opts ...Option) *UI {
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	ui := &UI{
		cfg:     cfg,
		names:   make(map[string]Handle),
		tmpls:   make(map[string]*Widget),
		waiting: make(map[string][]Handle),
		kinds: map[string]KindInit{
			KindFrame:       func(*Widget) {},
			KindTexture:     func(w *Widget) { w.layer = LayerArtwork },
			KindScrollFrame: initScrollFrame,
		},
	}
	for _, opt := range opts {
		opt(ui)
	}
	if ui.log == nil {
		ui.log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.logLevel()}))
	}
	if ui.scripts == nil {
		ui.scripts = nopScripts{}
	}
	return ui
}

// Config returns the active configuration.
func (ui *UI) Config() Config {
	return ui.cfg
}

// Logger returns the diagnostic sink.
func (ui *UI) Logger() *slog.Logger {
	return ui.log
}

// State returns the lifecycle state.
func (ui *UI) State() State {
	return ui.state
}

// RegisterKind adds a widget kind tag for Create. Registering an existing
// tag replaces its initializer; the built-in ScrollFrame tag cannot be
// replaced.
func (ui *UI) RegisterKind(tag string, init KindInit) error {
	if tag == "" || tag == KindScrollFrame {
		return fmt.Errorf("register kind %q: %w", tag, ErrInvalidName)
	}
	ui.kinds[tag] = init
	return nil
}

// --- Lifecycle ---

// Load transitions Unloaded -> Loaded and runs the loader. A loader error
// tears the partial tree down again and is returned.
func (ui *UI) Load() error {
	if ui.state != StateUnloaded {
		return fmt.Errorf("load: ui is %s", ui.state)
	}
	ui.state = StateLoaded
	ui.log.Info("loading ui")
	if ui.loader != nil {
		if err := ui.loader(ui); err != nil {
			ui.teardown()
			return fmt.Errorf("load: %w", err)
		}
	}
	ui.settle()
	return nil
}

// Close tears the tree down (Loaded -> Unloading -> Unloaded). During an
// update pass the request is latched and runs when the pass ends.
func (ui *UI) Close() {
	if ui.inUpdate {
		ui.pendingClose = true
		return
	}
	if ui.state != StateLoaded {
		return
	}
	ui.teardown()
}

// Reload is Close followed by Load. During an update pass it is latched.
func (ui *UI) Reload() error {
	if ui.inUpdate {
		ui.pendingReload = true
		return nil
	}
	ui.Close()
	return ui.Load()
}

func (ui *UI) teardown() {
	ui.state = StateUnloading
	ui.log.Info("closing ui")
	roots := append([]*Widget(nil), ui.roots...)
	for _, w := range roots {
		w.Destroy()
	}
	for name, t := range ui.tmpls {
		t.destroyTemplate()
		delete(ui.tmpls, name)
	}
	ui.roots = ui.roots[:0]
	ui.dirty = ui.dirty[:0]
	clear(ui.names)
	clear(ui.waiting)
	ui.strata = strataSet{}
	ui.frames = ui.frames[:0]
	ui.tweens = ui.tweens[:0]
	ui.targets.drain()
	ui.input = inputState{}
	ui.state = StateUnloaded
}

// RequestReload asks for a Reload at the end of the next update pass. It is
// safe to call from any goroutine.
func (ui *UI) RequestReload() {
	ui.reloadRequested.Store(true)
}

// runLatched executes a close or reload requested during the pass that just
// ended.
func (ui *UI) runLatched() {
	switch {
	case ui.pendingReload:
		ui.pendingReload, ui.pendingClose = false, false
		if err := ui.Reload(); err != nil {
			ui.log.Error("reload failed", slog.Any("error", err))
		}
	case ui.pendingClose:
		ui.pendingClose = false
		ui.Close()
	}
}

// --- Registry ---

// Alive reports whether h names a live widget.
func (ui *UI) Alive(h Handle) bool {
	return ui.reg.alive(h)
}

// Lookup returns the widget h names, or nil if it was destroyed.
func (ui *UI) Lookup(h Handle) *Widget {
	return ui.reg.lookup(h)
}

// Find returns the concrete widget with the given name, or nil.
func (ui *UI) Find(name string) *Widget {
	if name == "" {
		return nil
	}
	h, ok := ui.names[name]
	if !ok {
		return nil
	}
	return ui.reg.lookup(h)
}

// Template returns the virtual widget with the given name, or nil.
func (ui *UI) Template(name string) *Widget {
	return ui.tmpls[name]
}

// Roots returns the top-level widgets. The returned slice MUST NOT be mutated.
func (ui *UI) Roots() []*Widget {
	return ui.roots
}

// NumWidgets returns the number of live widgets, templates included.
func (ui *UI) NumWidgets() int {
	return ui.reg.live
}

func (ui *UI) unregisterName(w *Widget) {
	if w.Name == "" {
		return
	}
	if w.virtual {
		if ui.tmpls[w.Name] == w {
			delete(ui.tmpls, w.Name)
		}
		return
	}
	if h, ok := ui.names[w.Name]; ok && h == w.handle {
		delete(ui.names, w.Name)
	}
}

// waitForName remembers that w anchors to a widget that does not exist yet,
// so creating it later dirties w.
func (ui *UI) waitForName(name string, w *Widget) {
	for _, h := range ui.waiting[name] {
		if h == w.handle {
			return
		}
	}
	ui.waiting[name] = append(ui.waiting[name], w.handle)
}

func (ui *UI) nextSeq() uint64 {
	ui.seq++
	return ui.seq
}

// --- Factory ---

// WidgetOption configures a widget during Create, before it is registered.
type WidgetOption func(*createSpec)

type createSpec struct {
	virtual  bool
	hidden   bool
	inherits []string
	from     *Widget
	strata   *Strata
	layer    *Layer
	level    *int
	size     *Vec2
	anchors  []Anchor
	drawer   Drawer
	mouse    *bool
}

// Virtual makes the widget a template: registered under its name for
// Inherits, never positioned and never drawn.
func Virtual() WidgetOption {
	return func(s *createSpec) { s.virtual = true }
}

// Hidden creates the widget with its shown flag cleared.
func Hidden() WidgetOption {
	return func(s *createSpec) { s.hidden = true }
}

// Inherits copies layout, scheduling, drawer and children from the named
// templates, in order, before the widget's own options apply.
func Inherits(names ...string) WidgetOption {
	return func(s *createSpec) { s.inherits = append(s.inherits, names...) }
}

// WithStrata sets the widget's strata.
func WithStrata(st Strata) WidgetOption {
	return func(s *createSpec) { s.strata = &st }
}

// WithLayer sets the widget's draw layer.
func WithLayer(l Layer) WidgetOption {
	return func(s *createSpec) { s.layer = &l }
}

// WithLevel sets the widget's draw level.
func WithLevel(level int) WidgetOption {
	return func(s *createSpec) { s.level = &level }
}

// WithSize sets an explicit absolute size.
func WithSize(width, height float64) WidgetOption {
	return func(s *createSpec) { s.size = &Vec2{width, height} }
}

// WithAnchors adds anchors in order.
func WithAnchors(anchors ...Anchor) WidgetOption {
	return func(s *createSpec) { s.anchors = append(s.anchors, anchors...) }
}

// WithDrawer sets the widget's drawer.
func WithDrawer(d Drawer) WidgetOption {
	return func(s *createSpec) { s.drawer = d }
}

// WithMouse enables or disables pointer events.
func WithMouse(enabled bool) WidgetOption {
	return func(s *createSpec) { s.mouse = &enabled }
}

// Create builds a widget of the given kind tag under parent (nil for
// top-level), registers it, schedules it and fires OnLoad. Names may use the
// $parent prefix. Children of a virtual widget are virtual.
//
// If an OnLoad script destroys the widget, Create returns nil, nil.
func (ui *UI) Create(kind, name string, parent *Widget, opts ...WidgetOption) (*Widget, error) {
	if ui.state != StateLoaded {
		return nil, fmt.Errorf("create %s %q: %w", kind, name, ErrNotLoaded)
	}
	init, ok := ui.kinds[kind]
	if !ok {
		return nil, fmt.Errorf("create %q: %w: %s", name, ErrUnknownKind, kind)
	}
	if parent != nil && parent.destroyed {
		return nil, fmt.Errorf("create %s %q: parent destroyed", kind, name)
	}

	var spec createSpec
	for _, opt := range opts {
		opt(&spec)
	}
	virtual := spec.virtual || (parent != nil && parent.virtual)

	w := &Widget{
		ui:      ui,
		kind:    kind,
		rawName: name,
		Name:    expandParentName(name, parent),
		shown:   !spec.hidden,
		virtual: virtual,
		Color:   ColorWhite,
	}
	if w.Name != "" {
		if virtual {
			if _, dup := ui.tmpls[w.Name]; dup {
				return nil, fmt.Errorf("create template %q: %w", w.Name, ErrDuplicateName)
			}
		} else if ui.Find(w.Name) != nil {
			return nil, fmt.Errorf("create %s %q: %w", kind, w.Name, ErrDuplicateName)
		}
	}

	init(w)
	if spec.from != nil {
		w.inherit(spec.from)
	}
	for _, tn := range spec.inherits {
		t := ui.tmpls[tn]
		if t == nil {
			ui.log.Warn("inherited template not found", slog.String("widget", w.Name), slog.String("template", tn))
			continue
		}
		w.inherit(t)
	}
	spec.apply(w)

	w.handle = ui.reg.acquire(w)
	w.seq = ui.nextSeq()
	if w.Name != "" {
		if virtual {
			ui.tmpls[w.Name] = w
		} else {
			ui.names[w.Name] = w.handle
		}
	}
	w.attach(parent)
	w.refreshMembership()
	w.boundsDirty = false
	w.NotifyBoundsDirty()

	for _, a := range w.anchors {
		if t := w.anchorTarget(a); t != nil {
			t.addDependent(w)
		}
	}
	if !virtual && w.Name != "" {
		for _, h := range ui.waiting[w.Name] {
			if d := ui.Lookup(h); d != nil {
				d.NotifyBoundsDirty()
			}
		}
		delete(ui.waiting, w.Name)
	}

	if err := w.cloneTemplateChildren(); err != nil {
		return w, err
	}
	if virtual {
		return w, nil
	}
	if !w.FireScript("OnLoad") {
		return nil, nil
	}
	return w, nil
}

func (s *createSpec) apply(w *Widget) {
	if s.strata != nil {
		w.strata = *s.strata
	}
	if s.layer != nil {
		w.layer = *s.layer
	}
	if s.level != nil {
		w.level = *s.level
	}
	if s.size != nil {
		w.width, w.height = s.size.X, s.size.Y
		w.hasWidth, w.hasHeight = true, true
	}
	if s.drawer != nil {
		w.drawer = s.drawer
	}
	if s.mouse != nil {
		w.mouseEnabled = *s.mouse
	}
	if s.hidden {
		w.shown = false
	}
	for _, a := range s.anchors {
		w.putAnchor(a)
	}
}

// putAnchor sets an anchor during construction, before the widget is
// registered, so no conflict check or dirty propagation runs.
func (w *Widget) putAnchor(a Anchor) {
	for i := range w.anchors {
		if w.anchors[i].Point == a.Point {
			w.anchors[i] = a
			return
		}
	}
	w.anchors = append(w.anchors, a)
}

// inherit copies the template's own attributes onto w. Children are cloned
// after w is registered.
func (w *Widget) inherit(t *Widget) {
	for _, a := range t.anchors {
		w.putAnchor(a)
	}
	if t.hasWidth {
		w.width, w.hasWidth = t.width, true
	}
	if t.hasHeight {
		w.height, w.hasHeight = t.height, true
	}
	if t.strata != StrataParent {
		w.strata = t.strata
	}
	w.layer = t.layer
	w.level = t.level
	w.shown = t.shown
	w.mouseEnabled = w.mouseEnabled || t.mouseEnabled
	w.Color = t.Color
	if t.drawer != nil {
		w.drawer = t.drawer
	}
	for name, fn := range t.scripts {
		if w.scripts == nil {
			w.scripts = make(map[string]ScriptHandler, len(t.scripts))
		}
		w.scripts[name] = fn
	}
	w.inherited = append(w.inherited, t)
}

// cloneTemplateChildren creates copies of every inherited template's
// children under w.
func (w *Widget) cloneTemplateChildren() error {
	tmpls := w.inherited
	w.inherited = nil
	for _, t := range tmpls {
		for _, tc := range t.children {
			kind := tc.kind
			if _, err := w.ui.Create(kind, tc.rawName, w, fromTemplate(tc)); err != nil {
				return fmt.Errorf("inherit %q into %q: %w", t.Name, w.Name, err)
			}
		}
	}
	return nil
}

func fromTemplate(t *Widget) WidgetOption {
	return func(s *createSpec) { s.from = t }
}

// destroyTemplate releases a top-level virtual widget and its children.
func (w *Widget) destroyTemplate() {
	if w.destroyed {
		return
	}
	w.Destroy()
}

func expandParentName(name string, parent *Widget) string {
	if parent == nil || !strings.Contains(name, parentTarget) {
		return name
	}
	return strings.ReplaceAll(name, parentTarget, parent.Name)
}

// --- Screen ---

// SetScreenSize changes the screen size top-level widgets anchor against.
func (ui *UI) SetScreenSize(width, height int) {
	if ui.cfg.ScreenWidth == width && ui.cfg.ScreenHeight == height {
		return
	}
	ui.cfg.ScreenWidth, ui.cfg.ScreenHeight = width, height
	for _, w := range ui.roots {
		w.NotifyBoundsDirty()
	}
}

func (ui *UI) screenBounds() Bounds {
	return Bounds{Right: float64(ui.cfg.ScreenWidth), Bottom: float64(ui.cfg.ScreenHeight)}
}

// --- Scheduler access ---

// RenderList returns the cached render list of the root compositor for st,
// rebuilding it if dirty. The returned slice MUST NOT be mutated.
func (ui *UI) RenderList(st Strata) []*Widget {
	return ui.strata.renderList(st)
}

// RebuildCount returns how many times the root render list for st was rebuilt.
func (ui *UI) RebuildCount(st Strata) int {
	return ui.strata.strata[st].rebuilds
}

// IsStrataDirty reports whether the root render list for st needs a rebuild.
func (ui *UI) IsStrataDirty(st Strata) bool {
	return ui.strata.strata[st].dirty
}

// --- Frame passes ---

// settle resolves every widget dirtied since the last settle so the render
// pass never observes dirty bounds.
func (ui *UI) settle() {
	for i := 0; i < len(ui.dirty); i++ {
		if w := ui.Lookup(ui.dirty[i]); w != nil && w.boundsDirty {
			w.Bounds()
		}
	}
	ui.dirty = ui.dirty[:0]
}

// Update runs the update pass: pointer input and script callbacks, scroll
// animations, then scroll frame maintenance (rebuild, range update,
// composite). All dirty layout is settled before it returns. A Close or
// Reload requested during the pass runs after it.
func (ui *UI) Update(dt float64) {
	if ui.state != StateLoaded {
		return
	}
	var stats debugStats
	var t0 time.Time
	if ui.cfg.Debug {
		t0 = time.Now()
	}

	ui.inUpdate = true
	ui.frame++
	if ui.inputScript != nil {
		ui.inputScript.step(ui)
	}
	ui.processInput()
	if ui.state == StateLoaded {
		ui.advanceTweens(dt)
		ui.settle()
		ui.updateScrollFrames()
		ui.settle()
	}
	ui.inUpdate = false
	if ui.reloadRequested.Swap(false) {
		ui.pendingReload = true
	}

	if ui.cfg.Debug {
		stats.updateTime = time.Since(t0)
		stats.widgets = ui.reg.live
		ui.debugLog(stats)
	}
	ui.runLatched()
}

// Draw runs the render pass of the root compositor onto the screen.
func (ui *UI) Draw() {
	if ui.state != StateLoaded || ui.renderer == nil {
		return
	}
	var stats debugStats
	var t0 time.Time
	if ui.cfg.Debug {
		t0 = time.Now()
	}

	ui.settle()
	ui.drawing = true
	r := ui.renderer
	r.Begin(nil)
	r.SetView(ScaleMatrix(ui.cfg.Scale, ui.cfg.Scale))
	ui.strata.render(r)
	r.End()
	ui.drawing = false

	if ui.cfg.Debug {
		stats.drawTime = time.Since(t0)
		for st := StrataBackground; st < numStrata; st++ {
			stats.drawn += len(ui.strata.strata[st].list)
		}
		ui.debugLog(stats)
	}
}

// FireScript fires a named script on w and reports whether w is still alive
// afterwards. The widget's own handler runs first, then the dispatcher;
// the dispatcher is skipped if the handler destroyed w. Errors are logged and
// swallowed.
func (ui *UI) FireScript(w *Widget, name string, args ...any) bool {
	if w == nil || w.destroyed {
		return false
	}
	h := w.handle
	if fn := w.scripts[name]; fn != nil {
		if err := fn(w, args...); err != nil {
			ui.log.Warn("script failed", slog.String("script", name), w.logAttrs(), slog.Any("error", err))
		}
		if !ui.reg.alive(h) {
			return false
		}
	}
	if err := ui.scripts.FireScript(w, name, args...); err != nil {
		ui.log.Warn("script failed", slog.String("script", name), w.logAttrs(), slog.Any("error", err))
	}
	return ui.reg.alive(h)
}

// NewFrame creates a Frame widget.
func (ui *UI) NewFrame(name string, parent *Widget, opts ...WidgetOption) (*Widget, error) {
	return ui.Create(KindFrame, name, parent, opts...)
}

// NewTexture creates a Texture widget drawing img. A nil img draws the
// placeholder.
func (ui *UI) NewTexture(name string, parent *Widget, tex Texture, opts ...WidgetOption) (*Widget, error) {
	return ui.Create(KindTexture, name, parent, append([]WidgetOption{WithDrawer(tex)}, opts...)...)
}

// NewScrollFrame creates a ScrollFrame widget and returns its scroll
// behavior. The result is nil if an OnLoad script destroyed the widget.
func (ui *UI) NewScrollFrame(name string, parent *Widget, opts ...WidgetOption) (*ScrollFrame, error) {
	w, err := ui.Create(KindScrollFrame, name, parent, opts...)
	if w == nil || err != nil {
		return nil, err
	}
	return w.scroll, nil
}

// ResolveCalls returns the number of Resolve invocations since the UI was
// created.
func (ui *UI) ResolveCalls() int {
	return ui.resolveCalls
}
