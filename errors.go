package lumen

import (
	"errors"
	"strings"
)

var (
	// ErrAnchorCycle is matched by every *CycleError.
	ErrAnchorCycle = errors.New("lumen: anchor cycle")
	// ErrAnchorConflict is returned by SetAnchor under the strict anchor
	// policy when another anchor already defines one of the same edges.
	ErrAnchorConflict = errors.New("lumen: conflicting anchors")
	ErrDuplicateName  = errors.New("lumen: duplicate widget name")
	ErrUnknownKind    = errors.New("lumen: unknown widget kind")
	ErrInvalidName    = errors.New("lumen: invalid name")
	ErrNotLoaded      = errors.New("lumen: ui is not loaded")
	ErrTargetTooLarge = errors.New("lumen: render target too large")
	// ErrVirtual is returned when a virtual template is used where a
	// concrete widget is required.
	ErrVirtual = errors.New("lumen: widget is virtual")

	errMissingTexture = errors.New("missing texture")
)

// CycleError reports a chain of widgets whose anchors depend on each other.
// Chain lists widget names in resolution order, ending with the widget that
// was re-entered.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return "lumen: anchor cycle: " + strings.Join(e.Chain, " -> ")
}

// Is makes errors.Is(err, ErrAnchorCycle) succeed.
func (e *CycleError) Is(target error) bool {
	return target == ErrAnchorCycle
}
