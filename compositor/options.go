// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import (
	"image/color"

	"github.com/gogpu/m4s/surface"
)

// Default tuning values.
const (
	// DefaultMinBBoxSize is the side of the square cells the surface is
	// partitioned into when bounding the number of dirty rectangles.
	DefaultMinBBoxSize = 16

	// DefaultContextAllocStep is the minimum number of contexts the pool
	// grows by when exhausted.
	DefaultContextAllocStep = 20
)

// Option configures a Compositor during creation.
//
// Example:
//
//	img := surface.NewImageSurface(640, 480)
//	c := compositor.New(
//	    compositor.WithTarget(img),
//	    compositor.WithCenterCoords(true),
//	)
type Option func(*options)

type options struct {
	target      surface.Target
	width       int
	height      int
	center      bool
	minBBox     int
	allocStep   int
	clearColor  color.Color
	initialPool int
}

func defaultOptions() options {
	return options{
		minBBox:    DefaultMinBBoxSize,
		allocStep:  DefaultContextAllocStep,
		clearColor: color.White,
	}
}

// WithTarget sets the raster target cleared and flushed by the compositor.
// The surface size follows the target's size.
func WithTarget(t surface.Target) Option {
	return func(o *options) {
		o.target = t
	}
}

// WithSize sets the surface size used when no target is configured.
func WithSize(width, height int) Option {
	return func(o *options) {
		o.width = width
		o.height = height
	}
}

// WithCenterCoords places the surface origin at the centre of the target.
func WithCenterCoords(center bool) Option {
	return func(o *options) {
		o.center = center
	}
}

// WithMinBBoxSize sets the cell size bounding the dirty rectangle count.
// Values below 1 are ignored.
func WithMinBBoxSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.minBBox = size
		}
	}
}

// WithContextAllocStep sets the minimum pool growth step.
// Values below 1 are ignored.
func WithContextAllocStep(step int) Option {
	return func(o *options) {
		if step > 0 {
			o.allocStep = step
		}
	}
}

// WithClearColor sets the color used to clear areas not covered by a
// bound background.
func WithClearColor(c color.Color) Option {
	return func(o *options) {
		if c != nil {
			o.clearColor = c
		}
	}
}

// WithInitialContexts preallocates n contexts.
func WithInitialContexts(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.initialPool = n
		}
	}
}
