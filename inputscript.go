package lumen

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// scriptStep is one action of an input script.
type scriptStep struct {
	Action string  `json:"action"`
	Target string  `json:"target,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	DX     float64 `json:"dx,omitempty"`
	DY     float64 `json:"dy,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

type inputScriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// InputScript replays a recorded sequence of pointer actions across update
// passes, for automated walkthroughs of a layout. Attach it with
// UI.SetInputScript.
//
// Actions: "click", "press", "release", "move" (x, y); "wheel" (x, y, dx,
// dy); "scroll" (target scroll frame name, x, y offsets); "wait" (frames).
type InputScript struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadInputScript parses a JSON input script.
func LoadInputScript(data []byte) (*InputScript, error) {
	var f inputScriptFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse input script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse input script: no steps")
	}
	for i, st := range f.Steps {
		switch st.Action {
		case "click", "press", "release", "move", "wheel", "scroll", "wait":
		default:
			return nil, fmt.Errorf("parse input script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &InputScript{steps: f.Steps}, nil
}

// SetInputScript attaches s to the UI. It is stepped once per Update, before
// input is processed. Passing nil detaches the current script.
func (ui *UI) SetInputScript(s *InputScript) {
	ui.inputScript = s
}

// Done reports whether every step has run and its input was consumed.
func (s *InputScript) Done() bool {
	return s.done
}

// step advances the script by one update pass.
func (s *InputScript) step(ui *UI) {
	if s.done {
		return
	}
	// Injected events are consumed one per update; let them drain first.
	if len(ui.input.queue) > 0 {
		return
	}
	if s.waitCount > 0 {
		s.waitCount--
		return
	}
	if s.cursor >= len(s.steps) {
		s.done = true
		return
	}

	st := s.steps[s.cursor]
	s.cursor++

	switch st.Action {
	case "click":
		ui.InjectClick(st.X, st.Y)
	case "press":
		ui.InjectPress(st.X, st.Y)
	case "release":
		ui.InjectRelease(st.X, st.Y)
	case "move":
		ui.InjectMove(st.X, st.Y)
	case "wheel":
		ui.InjectWheel(st.X, st.Y, st.DX, st.DY)
	case "scroll":
		w := ui.Find(st.Target)
		if w == nil || w.scroll == nil {
			ui.log.Warn("input script: no scroll frame", slog.String("target", st.Target))
			break
		}
		w.scroll.SetHorizontalScroll(st.X)
		w.scroll.SetVerticalScroll(st.Y)
	case "wait":
		if st.Frames > 0 {
			s.waitCount = st.Frames - 1 // this pass counts as one
		}
	}

	if s.cursor >= len(s.steps) && s.waitCount == 0 && len(ui.input.queue) == 0 {
		s.done = true
	}
}
