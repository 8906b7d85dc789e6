package cardtable

import (
	"log/slog"
	"time"
)

// debugStats holds per-frame timing and draw metrics.
// Only populated when Table.debug is true.
type debugStats struct {
	advanceTime time.Duration
	collectTime time.Duration
	submitTime  time.Duration
	cardCount   int
	drawCount   int
	animations  int
}

// debugLog emits the frame stats at debug level.
func (t *Table) debugLog(stats debugStats) {
	if !t.debug {
		return
	}
	logger().Debug("frame",
		slog.Duration("advance", stats.advanceTime),
		slog.Duration("collect", stats.collectTime),
		slog.Duration("submit", stats.submitTime),
		slog.Duration("total", stats.advanceTime+stats.collectTime+stats.submitTime),
		slog.Int("cards", stats.cardCount),
		slog.Int("drawn", stats.drawCount),
		slog.Int("animations", stats.animations),
	)
}
