package lumen

// Handle is a weak, generation-counted reference to a widget. A handle stays
// comparable and copyable after its widget is destroyed; UI.Alive reports
// whether it still names a live widget. The zero Handle is never alive.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool {
	return h.gen == 0
}

type slot struct {
	w   *Widget
	gen uint32
}

// registry is the arena backing handles. Slot generations start at 1 and
// increase on every release, so a stale handle never matches a reused slot.
type registry struct {
	slots []slot
	free  []uint32
	live  int
}

func (r *registry) acquire(w *Widget) Handle {
	var idx uint32
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		r.slots = append(r.slots, slot{})
		idx = uint32(len(r.slots) - 1)
	}
	s := &r.slots[idx]
	s.gen++
	s.w = w
	r.live++
	return Handle{index: idx, gen: s.gen}
}

func (r *registry) release(h Handle) {
	if !r.alive(h) {
		return
	}
	s := &r.slots[h.index]
	s.w = nil
	s.gen++
	r.free = append(r.free, h.index)
	r.live--
}

func (r *registry) alive(h Handle) bool {
	if h.gen == 0 || int(h.index) >= len(r.slots) {
		return false
	}
	s := &r.slots[h.index]
	return s.gen == h.gen && s.w != nil
}

func (r *registry) lookup(h Handle) *Widget {
	if !r.alive(h) {
		return nil
	}
	return r.slots[h.index].w
}
