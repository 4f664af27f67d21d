package lumen

import (
	"fmt"
	"strings"
)

// AnchorPoint is one of the nine canonical points of a rectangle.
type AnchorPoint uint8

const (
	AnchorTopLeft AnchorPoint = iota
	AnchorTop
	AnchorTopRight
	AnchorLeft
	AnchorCenter
	AnchorRight
	AnchorBottomLeft
	AnchorBottom
	AnchorBottomRight
)

var anchorPointNames = [...]string{
	AnchorTopLeft:     "TOPLEFT",
	AnchorTop:         "TOP",
	AnchorTopRight:    "TOPRIGHT",
	AnchorLeft:        "LEFT",
	AnchorCenter:      "CENTER",
	AnchorRight:       "RIGHT",
	AnchorBottomLeft:  "BOTTOMLEFT",
	AnchorBottom:      "BOTTOM",
	AnchorBottomRight: "BOTTOMRIGHT",
}

func (p AnchorPoint) String() string {
	if int(p) < len(anchorPointNames) {
		return anchorPointNames[p]
	}
	return fmt.Sprintf("AnchorPoint(%d)", p)
}

// ParseAnchorPoint maps an attribute string such as "TOPLEFT" to its point.
// Matching is case-insensitive.
func ParseAnchorPoint(s string) (AnchorPoint, error) {
	u := strings.ToUpper(strings.TrimSpace(s))
	for i, name := range anchorPointNames {
		if name == u {
			return AnchorPoint(i), nil
		}
	}
	return 0, fmt.Errorf("anchor point %q: %w", s, ErrInvalidName)
}

// coord identifies one of the six scalar coordinates an anchor can define.
type coord uint8

const (
	coordLeft coord = iota
	coordRight
	coordXCenter
	coordTop
	coordBottom
	coordYCenter
	numCoords
)

// coords returns the horizontal and vertical coordinate an anchor on point p
// defines.
func (p AnchorPoint) coords() (x, y coord) {
	switch p {
	case AnchorTopLeft, AnchorLeft, AnchorBottomLeft:
		x = coordLeft
	case AnchorTopRight, AnchorRight, AnchorBottomRight:
		x = coordRight
	default:
		x = coordXCenter
	}
	switch p {
	case AnchorTopLeft, AnchorTop, AnchorTopRight:
		y = coordTop
	case AnchorBottomLeft, AnchorBottom, AnchorBottomRight:
		y = coordBottom
	default:
		y = coordYCenter
	}
	return x, y
}

func (c coord) isEdge() bool {
	return c != coordXCenter && c != coordYCenter
}

// parentTarget is the prefix substituted with the parent's name.
const parentTarget = "$parent"

// Anchor ties Point on the owning widget to TargetPoint on another widget,
// displaced by Offset. An empty Target means the parent, or the screen for a
// top-level widget. Targets are looked up by name on every resolution and
// are never owned.
type Anchor struct {
	Point       AnchorPoint
	Target      string
	TargetPoint AnchorPoint
	Offset      Vec2
}

// NewAnchorFromAttrs builds an anchor from the attribute tuple a layout
// parser produces. An empty targetPoint defaults to point.
func NewAnchorFromAttrs(point, target, targetPoint string, x, y float64) (Anchor, error) {
	p, err := ParseAnchorPoint(point)
	if err != nil {
		return Anchor{}, err
	}
	tp := p
	if strings.TrimSpace(targetPoint) != "" {
		if tp, err = ParseAnchorPoint(targetPoint); err != nil {
			return Anchor{}, err
		}
	}
	return Anchor{Point: p, Target: target, TargetPoint: tp, Offset: Vec2{x, y}}, nil
}

func (a Anchor) String() string {
	target := a.Target
	if target == "" {
		target = parentTarget
	}
	return fmt.Sprintf("%s -> %s:%s (%g, %g)", a.Point, target, a.TargetPoint, a.Offset.X, a.Offset.Y)
}

// --- Widget anchor API ---

// Anchors returns the widget's anchors in declaration order. The returned
// slice MUST NOT be mutated by the caller.
func (w *Widget) Anchors() []Anchor {
	return w.anchors
}

// SetAnchor adds an anchor, replacing any existing anchor on the same point.
// Under the strict anchor policy an anchor that defines an edge already
// defined by an anchor on a different point is rejected with
// ErrAnchorConflict; otherwise the later anchor wins during resolution.
func (w *Widget) SetAnchor(a Anchor) error {
	w.checkDestroyed("SetAnchor")
	if w.ui.cfg.StrictAnchors {
		if other, ok := w.conflictingAnchor(a); ok {
			return fmt.Errorf("%s: %s conflicts with %s: %w", w.describe(), a, other, ErrAnchorConflict)
		}
	}
	replaced := false
	for i := range w.anchors {
		if w.anchors[i].Point == a.Point {
			w.anchors[i] = a
			replaced = true
			break
		}
	}
	if !replaced {
		w.anchors = append(w.anchors, a)
	}
	if t := w.anchorTarget(a); t != nil {
		t.addDependent(w)
	}
	w.NotifyBoundsDirty()
	return nil
}

// SetPoint is shorthand for SetAnchor.
func (w *Widget) SetPoint(point AnchorPoint, target string, targetPoint AnchorPoint, x, y float64) error {
	return w.SetAnchor(Anchor{Point: point, Target: target, TargetPoint: targetPoint, Offset: Vec2{x, y}})
}

// SetAllPoints anchors the top-left and bottom-right corners to the same
// corners of target, making the widget cover it exactly.
func (w *Widget) SetAllPoints(target string) error {
	w.ClearAnchors()
	if err := w.SetPoint(AnchorTopLeft, target, AnchorTopLeft, 0, 0); err != nil {
		return err
	}
	return w.SetPoint(AnchorBottomRight, target, AnchorBottomRight, 0, 0)
}

// ClearAnchors removes every anchor.
func (w *Widget) ClearAnchors() {
	w.checkDestroyed("ClearAnchors")
	if len(w.anchors) == 0 {
		return
	}
	w.anchors = w.anchors[:0]
	w.NotifyBoundsDirty()
}

// anchor returns the anchor set on point p.
func (w *Widget) anchor(p AnchorPoint) (Anchor, bool) {
	for _, a := range w.anchors {
		if a.Point == p {
			return a, true
		}
	}
	return Anchor{}, false
}

// setAnchorOffset rewrites the offset of an existing anchor without
// re-running the conflict check.
func (w *Widget) setAnchorOffset(p AnchorPoint, off Vec2) bool {
	for i := range w.anchors {
		if w.anchors[i].Point == p {
			if w.anchors[i].Offset == off {
				return true
			}
			w.anchors[i].Offset = off
			w.NotifyBoundsDirty()
			return true
		}
	}
	return false
}

// conflictingAnchor returns an anchor that already defines one of the edges
// a defines. Centers are not edges: LEFT and RIGHT both define the vertical
// center and still stretch a widget horizontally.
func (w *Widget) conflictingAnchor(a Anchor) (Anchor, bool) {
	ax, ay := a.Point.coords()
	for _, other := range w.anchors {
		if other.Point == a.Point {
			continue
		}
		ox, oy := other.Point.coords()
		if (ox == ax && ox.isEdge()) || (oy == ay && oy.isEdge()) {
			return other, true
		}
	}
	return Anchor{}, false
}

// targetName expands the $parent prefix of an anchor target.
func (w *Widget) targetName(target string) string {
	if !strings.HasPrefix(target, parentTarget) {
		return target
	}
	if w.parent == nil {
		return ""
	}
	rest := strings.TrimPrefix(target, parentTarget)
	if rest == "" {
		return w.parent.Name
	}
	return w.parent.Name + rest
}

// anchorTarget returns the widget an anchor refers to, or nil when it refers
// to the screen or to a widget that does not exist.
func (w *Widget) anchorTarget(a Anchor) *Widget {
	if a.Target == "" || a.Target == parentTarget {
		return w.parent
	}
	return w.ui.Find(w.targetName(a.Target))
}
