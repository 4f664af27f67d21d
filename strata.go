package lumen

import (
	"fmt"
	"strings"
)

// Strata is a coarse z-order tier. Strata draw in ascending order.
type Strata uint8

const (
	// StrataParent inherits the parent's strata (Medium at top level).
	StrataParent Strata = iota
	StrataBackground
	StrataLow
	StrataMedium
	StrataHigh
	StrataDialog
	StrataFullscreen
	StrataFullscreenDialog
	StrataTooltip
	numStrata
)

var strataNames = [...]string{
	StrataParent:           "PARENT",
	StrataBackground:       "BACKGROUND",
	StrataLow:              "LOW",
	StrataMedium:           "MEDIUM",
	StrataHigh:             "HIGH",
	StrataDialog:           "DIALOG",
	StrataFullscreen:       "FULLSCREEN",
	StrataFullscreenDialog: "FULLSCREEN_DIALOG",
	StrataTooltip:          "TOOLTIP",
}

func (s Strata) String() string {
	if s < numStrata {
		return strataNames[s]
	}
	return fmt.Sprintf("Strata(%d)", s)
}

// ParseStrata maps a strata attribute such as "HIGH" to its value.
func ParseStrata(s string) (Strata, error) {
	u := strings.ToUpper(strings.TrimSpace(s))
	for i, name := range strataNames {
		if name == u {
			return Strata(i), nil
		}
	}
	return 0, fmt.Errorf("strata %q: %w", s, ErrInvalidName)
}

// Layer is the fine z-order of a widget inside its strata.
type Layer uint8

const (
	LayerBackground Layer = iota
	LayerBorder
	LayerArtwork
	LayerOverlay
	LayerHighlight
	numLayers
)

var layerNames = [...]string{
	LayerBackground: "BACKGROUND",
	LayerBorder:     "BORDER",
	LayerArtwork:    "ARTWORK",
	LayerOverlay:    "OVERLAY",
	LayerHighlight:  "HIGHLIGHT",
}

func (l Layer) String() string {
	if l < numLayers {
		return layerNames[l]
	}
	return fmt.Sprintf("Layer(%d)", l)
}

// ParseLayer maps a layer attribute such as "ARTWORK" to its value.
func ParseLayer(s string) (Layer, error) {
	u := strings.ToUpper(strings.TrimSpace(s))
	for i, name := range layerNames {
		if name == u {
			return Layer(i), nil
		}
	}
	return 0, fmt.Errorf("layer %q: %w", s, ErrInvalidName)
}

// --- Strata scheduler ---

// stratum holds every widget assigned to one strata and a cached, sorted
// list of the visible ones.
type stratum struct {
	members  []*Widget
	list     []*Widget
	dirty    bool
	rebuilds int
}

// strataSet is the render schedule of one compositor: the UI root or a
// scroll frame's private subtree.
type strataSet struct {
	strata [numStrata]stratum
	owner  *ScrollFrame // nil for the root set
}

func (s *strataSet) add(w *Widget, st Strata) {
	b := &s.strata[st]
	b.members = append(b.members, w)
	s.markDirty(st)
}

func (s *strataSet) remove(w *Widget, st Strata) {
	b := &s.strata[st]
	for i, m := range b.members {
		if m == w {
			copy(b.members[i:], b.members[i+1:])
			b.members[len(b.members)-1] = nil
			b.members = b.members[:len(b.members)-1]
			break
		}
	}
	s.markDirty(st)
}

func (s *strataSet) markDirty(st Strata) {
	s.strata[st].dirty = true
	if s.owner != nil {
		s.owner.invalidate()
	}
}

// renderList returns the cached render list for st, rebuilding it first if
// the stratum is dirty.
func (s *strataSet) renderList(st Strata) []*Widget {
	b := &s.strata[st]
	if b.dirty {
		b.rebuild()
	}
	return b.list
}

// rebuild filters members to visible concrete widgets and sorts them by
// (layer, level, seq). Uses insertion sort: stable, zero allocations once
// the list reaches its high-water mark, and O(n) for nearly sorted input.
func (b *stratum) rebuild() {
	b.list = b.list[:0]
	for _, w := range b.members {
		if w.virtual || !w.IsVisible() {
			continue
		}
		b.list = append(b.list, w)
	}
	for i := 1; i < len(b.list); i++ {
		key := b.list[i]
		j := i - 1
		for j >= 0 && drawsAfter(b.list[j], key) {
			b.list[j+1] = b.list[j]
			j--
		}
		b.list[j+1] = key
	}
	b.dirty = false
	b.rebuilds++
}

// drawsAfter reports whether a must be drawn after b.
func drawsAfter(a, b *Widget) bool {
	if a.layer != b.layer {
		return a.layer > b.layer
	}
	if a.level != b.level {
		return a.level > b.level
	}
	return a.seq > b.seq
}

// render draws every stratum in ascending order.
func (s *strataSet) render(r Renderer) {
	for st := StrataBackground; st < numStrata; st++ {
		for _, w := range s.renderList(st) {
			w.Draw(r)
		}
	}
}

// hitTest returns the topmost mouse-enabled widget containing the point
// (x, y). The point is expressed in this set's surface space, whose origin
// sits at origin in screen space; widget bounds are screen space and are
// translated into the same space before testing.
func (s *strataSet) hitTest(x, y float64, origin Vec2) *Widget {
	for st := numStrata - 1; st >= StrataBackground; st-- {
		list := s.renderList(st)
		for i := len(list) - 1; i >= 0; i-- {
			w := list[i]
			if !w.ready {
				continue
			}
			local := w.bounds.Translate(-origin.X, -origin.Y)
			if !local.Contains(x, y) {
				continue
			}
			if sf := w.scroll; sf != nil {
				if hit := sf.hitTest(x+origin.X, y+origin.Y); hit != nil {
					return hit
				}
			}
			if w.mouseEnabled {
				return w
			}
		}
	}
	return nil
}
