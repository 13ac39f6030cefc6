// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package compositor implements an incremental dirty-rectangle compositor
// for a 2D scene.
//
// Each frame the scene traversal acquires one [DrawableContext] per shape
// it visits and fills in the shape's clip, unclip bounds and redraw flags.
// [Compositor.EndFrame] then works out which surface areas changed since
// the previous frame, clears or repaints the background under them, skips
// areas fully hidden under opaque shapes and draws the participating
// contexts in traversal order.
//
// # Frame lifecycle
//
//	c := compositor.New(compositor.WithTarget(img))
//	for {
//	    c.BeginFrame(compositor.FrameOptions{PixelMetrics: true})
//	    for _, shape := range shapes {
//	        ctx := c.AcquireContext()
//	        shape.Fill(ctx)
//	    }
//	    if c.EndFrame() {
//	        present(img)
//	    }
//	}
//
// # Coordinates
//
// Context clips are pixel rectangles in surface space. With
// [WithCenterCoords] the surface origin sits at the centre of the target,
// otherwise at its top-left corner. Both conventions are y-down.
// Hit-testing entry points ([Compositor.SensorAt], [Compositor.PickAt])
// take device pixel coordinates and convert them to surface space.
//
// # Concurrency
//
// A Compositor is not safe for concurrent use. Independent compositors
// share no state and may run on separate goroutines.
package compositor
