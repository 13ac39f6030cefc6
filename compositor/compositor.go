// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import (
	"image"

	"github.com/gogpu/m4s"
	"github.com/gogpu/m4s/geom"
	"github.com/gogpu/m4s/surface"
	"golang.org/x/image/math/f64"
)

// identity is the identity affine transform.
var identity = f64.Aff3{1, 0, 0, 0, 1, 0}

// FrameOptions describe how a frame is traversed.
type FrameOptions struct {
	// Direct disables incremental tracking: the background is painted at
	// BeginFrame and every context is drawn at EndFrame.
	Direct bool

	// InvalidateAll forces a full redraw, for instance after an aspect
	// ratio change.
	InvalidateAll bool

	// PixelMetrics reports that scene units are pixels. Otherwise the
	// working transform is scaled by MinHSize.
	PixelMetrics bool

	// MinHSize is the scene-unit scale used without pixel metrics.
	MinHSize float64
}

// FrameStats summarises the last completed frame.
type FrameStats struct {
	Contexts   int               // contexts acquired
	Drawn      int               // contexts drawn
	Sensors    int               // contexts registered for sensor lookups
	DirtyRects []image.Rectangle // areas redrawn, after merging
	Covered    []int             // opaque cover index per dirty rectangle
	RedrawAll  bool
	Changed    bool
}

// Compositor is an incremental 2D surface compositor.
//
// Compositor is NOT safe for concurrent use.
type Compositor struct {
	opts options

	pool    *ContextPool
	dirty   RectArray
	sensors SensorIndex
	bounds  boundsTracker
	toDraw  []*DrawableContext

	background Background
	bgCtx      DrawableContext
	viewport   Viewport

	transform  f64.Aff3
	surfRect   image.Rectangle
	topClipper image.Rectangle
	width      int
	height     int

	frame      FrameOptions
	invalidate bool
	lastBound  bool
	lastDirect bool
	started    bool

	stats FrameStats
}

// New creates a compositor.
//
// Example:
//
//	img := surface.NewImageSurface(320, 240)
//	c := compositor.New(compositor.WithTarget(img))
func New(opts ...Option) *Compositor {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Compositor{
		opts:      o,
		pool:      NewContextPool(o.allocStep, o.initialPool),
		bounds:    newBoundsTracker(),
		transform: identity,
	}
}

// Target returns the configured raster target, or nil.
func (c *Compositor) Target() surface.Target {
	return c.opts.target
}

// SetBackground binds the background drawn under every context. Changing
// the background forces a full redraw.
func (c *Compositor) SetBackground(b Background) {
	if b != c.background {
		c.invalidate = true
	}
	c.background = b
}

// SetViewport sets the viewport applied at the start of each frame.
func (c *Compositor) SetViewport(vp Viewport) {
	c.viewport = vp
	c.invalidate = true
}

// InvalidateAll forces a full redraw at the next EndFrame.
func (c *Compositor) InvalidateAll() {
	c.invalidate = true
}

// Transform returns the working transform of the current frame.
func (c *Compositor) Transform() f64.Aff3 {
	return c.transform
}

// Bounds returns the surface rectangle in surface coordinates.
func (c *Compositor) Bounds() image.Rectangle {
	return c.surfRect
}

// Clipper returns the top-level clip of the current frame.
func (c *Compositor) Clipper() image.Rectangle {
	return c.topClipper
}

// Pool returns the context pool.
func (c *Compositor) Pool() *ContextPool {
	return c.pool
}

// Stats returns the statistics of the last EndFrame.
func (c *Compositor) Stats() FrameStats {
	return c.stats
}

func (c *Compositor) size() (int, int) {
	if t := c.opts.target; t != nil {
		return t.Width(), t.Height()
	}
	return c.opts.width, c.opts.height
}

// BeginFrame starts a frame: it rewinds the context pool, computes the
// surface clipper and flushes the bounds recorded in the previous frame.
// In direct mode the background is painted immediately.
func (c *Compositor) BeginFrame(fo FrameOptions) {
	c.pool.Rewind()
	c.frame = fo

	w, h := c.size()
	if w != c.width || h != c.height {
		c.width, c.height = w, h
		c.invalidate = true
	}

	c.transform = identity
	if !fo.PixelMetrics && fo.MinHSize > 0 {
		c.transform[0] = fo.MinHSize
		c.transform[4] = fo.MinHSize
	}

	var rc geom.Rect
	if c.opts.center {
		rc = geom.Center(w, h)
	} else {
		rc = geom.NewRect(0, 0, float64(w), float64(h))
	}
	c.surfRect = rc.Pixelize()
	if c.viewport != nil {
		c.viewport.Setup(&c.transform, &rc)
	}
	c.topClipper = rc.Pixelize()

	modeChanged := c.started && c.lastDirect != fo.Direct
	c.bounds.beginFrame(modeChanged, &c.dirty)
	c.lastDirect = fo.Direct
	c.started = true

	if fo.Direct {
		c.paintBackground(c.surfRect)
	}
}

// AcquireContext returns a fresh context for the next shape of the
// traversal. The pointer is invalidated by a later AcquireContext that
// grows the pool.
func (c *Compositor) AcquireContext() *DrawableContext {
	return c.pool.Acquire(c)
}

// ReleaseLastContext drops the most recently acquired context, for a
// shape that turned out to have nothing to draw.
func (c *Compositor) ReleaseLastContext() {
	c.pool.ReleaseLast()
}

// maxDirty bounds the number of dirty rectangles tracked before the whole
// surface is redrawn.
func (c *Compositor) maxDirty() int {
	cell := c.opts.minBBox
	return (c.topClipper.Dx() / cell) * (c.topClipper.Dy() / cell)
}

// EndFrame computes the areas to redraw, paints the background under the
// uncovered ones and draws every participating context in traversal
// order. It reports whether anything changed on the surface.
func (c *Compositor) EndFrame() bool {
	c.sensors.Reset()
	c.toDraw = c.toDraw[:0]

	direct := c.frame.Direct
	changed := direct
	redrawAll := c.frame.InvalidateAll || c.invalidate
	c.invalidate = false

	bound := c.background != nil && c.background.IsBound()
	if !direct {
		if bound != c.lastBound {
			redrawAll = true
		}
		if bound && c.background.Changed() {
			redrawAll = true
		}
	}
	c.lastBound = bound

	limit := c.maxDirty()
	count := c.pool.Len()
	empty := 0
	for i := 0; i < count; i++ {
		ctx := c.pool.At(i)
		ctx.DrawIndex = 0
		if ctx.Node == nil {
			ctx.Clip = image.Rectangle{}
		}
		ctx.Clip = ctx.Clip.Intersect(c.topClipper)

		if !ctx.Clip.Empty() {
			rec := c.bounds.record(ctx.Node)
			if !rec.store(ctx.Clip) {
				ctx.Redraw |= RedrawMoved
			}
			if direct {
				rec.previous = rec.previous[:0]
			}
			c.sensors.register(c.pool, ctx)
		} else if !direct {
			empty++
			continue
		}
		c.toDraw = append(c.toDraw, ctx)

		if direct || redrawAll || ctx.Redraw == 0 {
			continue
		}
		c.dirty.Union(ctx.Clip)
		if c.dirty.Count() > limit {
			redrawAll = true
		}
		if geom.Inside(c.topClipper, ctx.Clip) {
			redrawAll = true
		}
	}

	if direct {
		c.bounds.collect(&c.dirty, true, limit)
		c.dirty.Clear()
		c.drawContexts()
		return c.finish(count, true, changed)
	}

	if empty > 0 && empty == count {
		redrawAll = true
	}
	if !c.bounds.collect(&c.dirty, redrawAll, limit) {
		redrawAll = true
	}

	if redrawAll {
		c.dirty.Clear()
		c.dirty.Add(c.surfRect)
	} else {
		c.dirty.Refresh()
	}
	c.dirty.markOpaque(c.toDraw)

	if c.dirty.Empty() {
		return c.finish(count, redrawAll, false)
	}
	changed = true

	if redrawAll {
		c.paintBackground(c.surfRect)
	} else {
		for k, r := range c.dirty.Rects() {
			if c.dirty.Covering(k) > 0 {
				continue
			}
			c.paintBackground(r)
		}
	}
	c.drawContexts()
	return c.finish(count, redrawAll, changed)
}

func (c *Compositor) drawContexts() {
	for j, ctx := range c.toDraw {
		ctx.DrawIndex = j + 1
	}
	for _, ctx := range c.toDraw {
		if ctx.Node != nil {
			ctx.Node.Draw(ctx)
		}
	}
}

// finish records statistics, clears the per-frame state and flushes the
// target.
func (c *Compositor) finish(count int, redrawAll, changed bool) bool {
	c.stats = FrameStats{
		Contexts:   count,
		Sensors:    c.sensors.Len(),
		DirtyRects: append([]image.Rectangle(nil), c.dirty.Rects()...),
		RedrawAll:  redrawAll,
		Changed:    changed,
	}
	if changed {
		c.stats.Drawn = len(c.toDraw)
	}
	for k := range c.stats.DirtyRects {
		c.stats.Covered = append(c.stats.Covered, c.dirty.Covering(k))
	}

	log := m4s.Logger()
	log.Debug("compositor: frame",
		"contexts", count,
		"drawn", c.stats.Drawn,
		"dirty", len(c.stats.DirtyRects),
		"redrawAll", redrawAll,
		"changed", changed)

	c.dirty.Clear()
	if t := c.opts.target; t != nil && changed {
		if err := t.Flush(); err != nil {
			log.Warn("compositor: target flush failed", "err", err)
		}
	}
	return changed
}

// paintBackground draws the bound background clipped to r, or clears r.
func (c *Compositor) paintBackground(r image.Rectangle) {
	if c.background != nil && c.background.IsBound() {
		c.bgCtx.reset()
		c.bgCtx.Clip = r
		c.bgCtx.Unclip = geom.FromImage(c.surfRect)
		c.bgCtx.Node = c.background
		c.bgCtx.surface = c
		c.background.Draw(&c.bgCtx)
		return
	}
	t := c.opts.target
	if t == nil {
		return
	}
	if r == c.surfRect {
		t.Clear(c.opts.clearColor)
		return
	}
	t.ClearRect(c.ToPixels(r), c.opts.clearColor)
}

// VisibleRegions returns the parts of ctx that must be repainted in the
// frame being drawn: the dirty rectangles intersecting its clip, minus
// those covered by an opaque context drawn later. It is meant to be called
// from Drawable.Draw.
func (c *Compositor) VisibleRegions(ctx *DrawableContext) []image.Rectangle {
	if ctx.DrawIndex == 0 || ctx.Clip.Empty() {
		return nil
	}
	if c.frame.Direct {
		return []image.Rectangle{ctx.Clip}
	}
	var out []image.Rectangle
	for k, r := range c.dirty.Rects() {
		if c.dirty.Covering(k) > ctx.DrawIndex {
			continue
		}
		if v := r.Intersect(ctx.Clip); !v.Empty() {
			out = append(out, v)
		}
	}
	return out
}

// ToPixels converts a surface rectangle to target pixel coordinates.
func (c *Compositor) ToPixels(r image.Rectangle) image.Rectangle {
	if !c.opts.center {
		return r
	}
	return r.Add(image.Pt(c.width/2, c.height/2))
}

// toSurface converts a device pixel position to surface coordinates.
func (c *Compositor) toSurface(x, y float64) (float64, float64) {
	if !c.opts.center {
		return x, y
	}
	return x - float64(c.width/2), y - float64(c.height/2)
}

// SensorAt returns the context carrying an enabled sensor under the device
// pixel (x, y), or nil. A shape without sensors drawn over the sensor
// hides it.
func (c *Compositor) SensorAt(x, y float64) *DrawableContext {
	sx, sy := c.toSurface(x, y)
	return c.sensors.find(c.pool, sx, sy)
}

// PickAt returns the topmost drawable under the device pixel (x, y). It
// falls back to the bound background, and returns nil when nothing is
// hit. Picking uses the contexts of the last traversal.
func (c *Compositor) PickAt(x, y float64) Drawable {
	sx, sy := c.toSurface(x, y)
	for i := c.pool.Len(); i > 0; i-- {
		ctx := c.pool.At(i - 1)
		if ctx.Node == nil || !containsPoint(ctx, sx, sy) {
			continue
		}
		if !ctx.Node.PointOver(ctx, sx, sy, true) {
			continue
		}
		if ct := ctx.compositeTexture(); ct != nil {
			return ct.PickAt(ctx, sx, sy)
		}
		return ctx.Node
	}
	if c.background != nil && c.background.IsBound() {
		return c.background
	}
	return nil
}

// Forget removes every reference to a deleted drawable. The areas it
// occupied are redrawn at the next EndFrame.
func (c *Compositor) Forget(d Drawable) {
	c.bounds.forget(d, &c.dirty)
	c.sensors.forget(c.pool, d)
	for i := 0; i < c.pool.Len(); i++ {
		if ctx := c.pool.At(i); ctx.Node == d {
			ctx.Node = nil
			ctx.Clip = image.Rectangle{}
		}
	}
}

func containsPoint(ctx *DrawableContext, x, y float64) bool {
	return geom.PixelContains(ctx.Clip, x, y)
}
