// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import (
	"image"

	"github.com/gogpu/m4s/geom"
)

// RedrawFlags signal what changed on a context since the previous frame.
type RedrawFlags uint8

// Redraw flags.
const (
	RedrawGeometry RedrawFlags = 1 << iota
	RedrawAppearance
	RedrawTexture
	// RedrawMoved is set by the compositor when the context bounds differ
	// from every bound its drawable occupied in the previous frame.
	RedrawMoved
)

// String returns a readable form of the flag set.
func (f RedrawFlags) String() string {
	if f == 0 {
		return "none"
	}
	names := [...]string{"geometry", "appearance", "texture", "moved"}
	s := ""
	for i, n := range names {
		if f&(1<<i) == 0 {
			continue
		}
		if s != "" {
			s += "|"
		}
		s += n
	}
	return s
}

// DrawableContext describes one shape drawn in the current frame.
//
// Contexts are owned by the compositor's pool and overwritten every frame.
// A pointer returned by [Compositor.AcquireContext] stays valid until the
// next acquisition that grows the pool.
type DrawableContext struct {
	// Clip is the pixel bounds of the shape in surface space. The
	// compositor intersects it with the surface clipper at frame end.
	Clip image.Rectangle

	// Unclip is the shape bounds before clipping.
	Unclip geom.Rect

	// Transparent is false when the shape fully covers its clip.
	Transparent bool

	// Redraw is set by the traversal when the shape changed.
	Redraw RedrawFlags

	// Node is the drawable owning this context.
	Node Drawable

	// Texture is an optional texture handle. A value implementing
	// [CompositeTexture] makes the shape a hit-testing delegate.
	Texture any

	// Sensors attached to the shape. Cleared at frame end when none is
	// enabled.
	Sensors []Sensor

	// DrawIndex is the 1-based draw position of the context while it is
	// being drawn, 0 otherwise.
	DrawIndex int

	surface *Compositor
	index   int
}

// Surface returns the compositor owning the context.
func (c *DrawableContext) Surface() *Compositor {
	return c.surface
}

// Empty reports whether the context has nothing to draw.
func (c *DrawableContext) Empty() bool {
	return c.Clip.Empty()
}

func (c *DrawableContext) compositeTexture() CompositeTexture {
	ct, _ := c.Texture.(CompositeTexture)
	return ct
}

func (c *DrawableContext) reset() {
	sensors := c.Sensors[:0]
	clear(c.Sensors)
	*c = DrawableContext{Sensors: sensors}
}

// ContextPool is a growable arena of drawable contexts.
//
// The cursor is rewound every frame; contexts are reused in place. Growth
// reallocates the backing array, so pointers obtained before a growing
// Acquire must not be used afterwards. Indices stay stable.
type ContextPool struct {
	contexts []DrawableContext
	n        int
	step     int
}

// NewContextPool creates a pool growing by at least step contexts.
func NewContextPool(step, initial int) *ContextPool {
	if step < 1 {
		step = DefaultContextAllocStep
	}
	p := &ContextPool{step: step}
	if initial > 0 {
		p.contexts = make([]DrawableContext, initial)
	}
	return p
}

// Acquire returns a reset context bound to s.
func (p *ContextPool) Acquire(s *Compositor) *DrawableContext {
	if p.n == len(p.contexts) {
		p.grow()
	}
	i := p.n
	p.n++
	ctx := &p.contexts[i]
	ctx.reset()
	ctx.surface = s
	ctx.index = i
	return ctx
}

func (p *ContextPool) grow() {
	size := max(2*len(p.contexts), len(p.contexts)+p.step)
	grown := make([]DrawableContext, size)
	copy(grown, p.contexts)
	p.contexts = grown
}

// ReleaseLast gives back the most recently acquired context.
func (p *ContextPool) ReleaseLast() {
	if p.n > 0 {
		p.n--
	}
}

// Rewind makes every context available again.
func (p *ContextPool) Rewind() {
	p.n = 0
}

// Len returns the number of contexts acquired since the last Rewind.
func (p *ContextPool) Len() int {
	return p.n
}

// Cap returns the number of allocated contexts.
func (p *ContextPool) Cap() int {
	return len(p.contexts)
}

// At returns the i-th acquired context.
func (p *ContextPool) At(i int) *DrawableContext {
	return &p.contexts[i]
}
