// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface provides the raster targets the compositor paints into.
//
// A Target is the pixel sink behind a compositor: the compositor clears the
// uncovered parts of each dirty rectangle through it and drawables paint
// their own shapes on top. Target coordinates are always top-left, y-down
// pixels; the compositor translates its own coordinate space before calling
// into a Target.
//
// # Surface Types
//
//   - ImageSurface: CPU-based target backed by *image.RGBA
//
// # Usage
//
//	s := surface.NewImageSurface(800, 600)
//	defer s.Close()
//
//	s.Clear(color.White)
//	s.ClearRect(image.Rect(10, 10, 50, 50), color.Black)
//	s.FillRect(image.Rect(20, 20, 40, 40), color.RGBA{255, 0, 0, 128})
//
//	img := s.Snapshot()
//
// # Thread Safety
//
// Targets are NOT thread-safe. Use one target per goroutine or provide
// external synchronization.
package surface
