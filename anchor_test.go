package lumen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnchorPoint(t *testing.T) {
	tests := []struct {
		in   string
		want AnchorPoint
	}{
		{"TOPLEFT", AnchorTopLeft},
		{"top", AnchorTop},
		{" BottomRight ", AnchorBottomRight},
		{"CENTER", AnchorCenter},
	}
	for _, tt := range tests {
		got, err := ParseAnchorPoint(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseAnchorPoint("MIDDLE")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestAnchorPointStringRoundTrip(t *testing.T) {
	for p := AnchorTopLeft; p <= AnchorBottomRight; p++ {
		got, err := ParseAnchorPoint(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
}

func TestNewAnchorFromAttrs(t *testing.T) {
	a, err := NewAnchorFromAttrs("TOPLEFT", "$parentTitle", "BOTTOMLEFT", 4, -2)
	require.NoError(t, err)
	assert.Equal(t, Anchor{
		Point:       AnchorTopLeft,
		Target:      "$parentTitle",
		TargetPoint: AnchorBottomLeft,
		Offset:      Vec2{4, -2},
	}, a)

	// relativePoint defaults to point.
	a, err = NewAnchorFromAttrs("RIGHT", "", "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, AnchorRight, a.TargetPoint)

	_, err = NewAnchorFromAttrs("RIGHT", "", "NOWHERE", 0, 0)
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestSetAnchorReplacesSamePoint(t *testing.T) {
	ui := newTestUI(t)
	w := mustFrame(t, ui, "W", nil, WithSize(10, 10))
	mustAnchor(t, w, AnchorTopLeft, "", AnchorTopLeft, 5, 5)
	mustAnchor(t, w, AnchorTopLeft, "", AnchorTopLeft, 20, 30)

	require.Len(t, w.Anchors(), 1)
	assertBounds(t, "W", w.Bounds(), Bounds{20, 30, 30, 40})
}

func TestLenientConflictLastWins(t *testing.T) {
	ui := newTestUI(t)
	w := mustFrame(t, ui, "W", nil, WithSize(10, 10))
	mustAnchor(t, w, AnchorTopLeft, "", AnchorTopLeft, 5, 5)
	// LEFT also defines the left edge; the later anchor wins.
	mustAnchor(t, w, AnchorLeft, "", AnchorTopLeft, 50, 5)

	b := w.Bounds()
	assertNear(t, "left", b.Left, 50)
}

func TestStrictConflictRejected(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StrictAnchors = true
	ui := newTestUIConfig(t, cfg)
	w := mustFrame(t, ui, "W", nil, WithSize(10, 10))
	mustAnchor(t, w, AnchorTopLeft, "", AnchorTopLeft, 5, 5)

	err := w.SetPoint(AnchorLeft, "", AnchorLeft, 0, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAnchorConflict))
	assert.Len(t, w.Anchors(), 1, "rejected anchor must not be stored")

	// Same point replaces instead of conflicting.
	assert.NoError(t, w.SetPoint(AnchorTopLeft, "", AnchorTopLeft, 1, 1))
	// Disjoint coordinates are fine.
	assert.NoError(t, w.SetPoint(AnchorBottomRight, "", AnchorTopLeft, 40, 40))
}

func TestStrictAllowsSharedCenter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StrictAnchors = true
	ui := newTestUIConfig(t, cfg)

	// LEFT and RIGHT share only the vertical center.
	h := mustFrame(t, ui, "H", nil, WithSize(0, 20))
	require.NoError(t, h.SetPoint(AnchorLeft, "", AnchorLeft, 10, 0))
	require.NoError(t, h.SetPoint(AnchorRight, "", AnchorRight, -10, 0))
	assert.Len(t, h.Anchors(), 2)
	b := h.Bounds()
	assertNear(t, "left", b.Left, 10)
	assertNear(t, "right", b.Right, 790)
	assertNear(t, "height", b.Height(), 20)

	v := mustFrame(t, ui, "V", nil, WithSize(20, 0))
	require.NoError(t, v.SetPoint(AnchorTop, "", AnchorTop, 0, 5))
	require.NoError(t, v.SetPoint(AnchorBottom, "", AnchorBottom, 0, -5))
	assert.Len(t, v.Anchors(), 2)

	// Edges still conflict.
	err := h.SetPoint(AnchorTopLeft, "", AnchorTopLeft, 0, 0)
	assert.True(t, errors.Is(err, ErrAnchorConflict))
}

func TestSetAllPoints(t *testing.T) {
	ui := newTestUI(t)
	p := mustFrame(t, ui, "P", nil, WithSize(100, 50))
	mustAnchor(t, p, AnchorTopLeft, "", AnchorTopLeft, 10, 10)
	c := mustFrame(t, ui, "C", nil)
	require.NoError(t, c.SetAllPoints("P"))

	assertBounds(t, "C", c.Bounds(), p.Bounds())
}

func TestParentTargetExpansion(t *testing.T) {
	ui := newTestUI(t)
	p := mustFrame(t, ui, "Dialog", nil, WithSize(200, 100))
	mustAnchor(t, p, AnchorTopLeft, "", AnchorTopLeft, 0, 0)
	title := mustFrame(t, ui, "$parentTitle", p, WithSize(200, 20))
	assert.Equal(t, "DialogTitle", title.Name)
	mustAnchor(t, title, AnchorTopLeft, "$parent", AnchorTopLeft, 0, 0)

	body := mustFrame(t, ui, "$parentBody", p)
	mustAnchor(t, body, AnchorTopLeft, "$parentTitle", AnchorBottomLeft, 0, 0)
	mustAnchor(t, body, AnchorBottomRight, "$parent", AnchorBottomRight, 0, 0)

	assert.Same(t, title, ui.Find("DialogTitle"))
	assertBounds(t, "body", body.Bounds(), Bounds{0, 20, 200, 100})
}

func TestClearAnchorsMakesNotReady(t *testing.T) {
	ui := newTestUI(t)
	w := mustFrame(t, ui, "W", nil)
	mustAnchor(t, w, AnchorTopLeft, "", AnchorTopLeft, 0, 0)
	mustAnchor(t, w, AnchorBottomRight, "", AnchorTopLeft, 10, 10)
	w.Bounds()
	require.True(t, w.IsReady())

	w.ClearAnchors()
	assert.True(t, w.IsBoundsDirty())
	assert.Equal(t, Bounds{}, w.Bounds())
	assert.False(t, w.IsReady())
}
