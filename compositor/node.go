// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import (
	"github.com/gogpu/m4s/geom"
	"golang.org/x/image/math/f64"
)

// Drawable is a shape the compositor can draw and hit-test.
//
// Drawables are used as map keys to track the bounds they occupied in
// previous frames, so implementations must be comparable. Pointer
// receivers are the usual choice.
type Drawable interface {
	// Draw paints the shape described by ctx. Implementations should
	// restrict painting to [Compositor.VisibleRegions] of ctx.
	Draw(ctx *DrawableContext)

	// PointOver reports whether the surface point (x, y) lies inside the
	// shape drawn with ctx. pick is true for node picking and false for
	// sensor lookups.
	PointOver(ctx *DrawableContext, x, y float64, pick bool) bool
}

// Background is a drawable painted under every other context.
type Background interface {
	Drawable

	// IsBound reports whether the background is currently active.
	IsBound() bool

	// Changed reports whether the background appearance changed since
	// the previous frame.
	Changed() bool
}

// Sensor is an interactive sensor attached to a shape.
type Sensor interface {
	Enabled() bool
}

// CompositeTexture is a texture whose content is itself a scene with
// pickable shapes. Hit-testing queries landing on a shape carrying a
// composite texture are delegated to it.
type CompositeTexture interface {
	SensorAt(ctx *DrawableContext, x, y float64) *DrawableContext
	PickAt(ctx *DrawableContext, x, y float64) Drawable
}

// Viewport adjusts the working transform and clip of a frame.
type Viewport interface {
	Setup(tr *f64.Aff3, clip *geom.Rect)
}
