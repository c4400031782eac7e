// Package config holds conservative defaults for sheet bounds, viewport
// geometry, and CLI flags. Values here are referenced by internal/workbook,
// internal/viewport, and cmd/sheetui.
package config

import "time"

const (
	// Sheet bounds (1-based), matching the calc engine's own limits.
	LastRow    = 1_048_576
	LastColumn = 16_384

	// DefaultColumnWidth is the display-cell width assigned to a column that
	// has not been explicitly resized.
	DefaultColumnWidth = 9

	// RowLabelGutterWidth is the fixed width reserved for the leftmost
	// row-number column in the viewport.
	RowLabelGutterWidth = 5

	// RowHeight is fixed; there is no row wrapping.
	RowHeight = 1

	// PixelsPerDisplayCell converts a display-cell column width into the
	// width written to the calc engine: engine width = display × ratio.
	// Widths are not converted back from the engine.
	PixelsPerDisplayCell = 5.0
)

const (
	DefaultLocale   = "en"
	DefaultTimezone = "America/New_York"
)

// DefaultShutdownGrace is a grace period for a pending save on a
// signal-initiated exit. The driver installs no signal handler and does
// not read this value.
const DefaultShutdownGrace = 5 * time.Second
