package lumen

import (
	"log/slog"
	"time"
)

// debugStats holds per-frame timing and scheduling metrics.
// Only populated when Config.Debug is true.
type debugStats struct {
	updateTime time.Duration
	drawTime   time.Duration
	widgets    int
	drawn      int
}

// debugLog reports frame stats at debug level.
func (ui *UI) debugLog(stats debugStats) {
	if !ui.cfg.Debug {
		return
	}
	if stats.drawTime > 0 {
		ui.log.Debug("draw",
			slog.Uint64("frame", ui.frame),
			slog.Duration("time", stats.drawTime),
			slog.Int("drawn", stats.drawn))
		return
	}
	ui.log.Debug("update",
		slog.Uint64("frame", ui.frame),
		slog.Duration("time", stats.updateTime),
		slog.Int("widgets", stats.widgets),
		slog.Int("scroll_frames", len(ui.frames)))
}

// debugMaxTreeDepth is the depth beyond which attach warns.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(w *Widget) {
	depth := 0
	for p := w; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		w.ui.log.Warn("tree depth exceeds threshold", w.logAttrs(),
			slog.Int("depth", depth), slog.Int("threshold", debugMaxTreeDepth))
	}
}

// debugMaxChildCount is the child count beyond which attach warns.
const debugMaxChildCount = 1000

func debugCheckChildCount(w *Widget) {
	if len(w.children) > debugMaxChildCount {
		w.ui.log.Warn("child count exceeds threshold", w.logAttrs(),
			slog.Int("children", len(w.children)), slog.Int("threshold", debugMaxChildCount))
	}
}
