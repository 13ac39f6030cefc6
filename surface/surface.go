// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"image/color"
)

// Target is the raster sink abstraction used by the compositor.
//
// Targets are NOT thread-safe. Each target should be used from a single
// goroutine, or external synchronization must be used.
type Target interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Clear fills the entire target with the given color.
	Clear(c color.Color)

	// ClearRect replaces the pixels of r with the given color.
	// r is clipped to the target bounds.
	ClearRect(r image.Rectangle, c color.Color)

	// FillRect blends the given color over the pixels of r.
	FillRect(r image.Rectangle, c color.Color)

	// Flush ensures all pending drawing operations are complete.
	// For CPU targets this is typically a no-op.
	Flush() error
}
