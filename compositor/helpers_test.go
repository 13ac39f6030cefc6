// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import (
	"image"
	"image/color"

	"github.com/gogpu/m4s/geom"
)

// shape is a rectangular test drawable.
type shape struct {
	clip        image.Rectangle
	transparent bool
	redraw      RedrawFlags
	sensors     []Sensor
	texture     any
	miss        bool

	draws   int
	regions []image.Rectangle
}

func (s *shape) Draw(ctx *DrawableContext) {
	s.draws++
	s.regions = ctx.Surface().VisibleRegions(ctx)
}

func (s *shape) PointOver(_ *DrawableContext, _, _ float64, _ bool) bool {
	return !s.miss
}

// fill describes s on a fresh context of c.
func (s *shape) fill(c *Compositor) *DrawableContext {
	ctx := c.AcquireContext()
	ctx.Node = s
	ctx.Clip = s.clip
	ctx.Unclip = geom.FromImage(s.clip)
	ctx.Transparent = s.transparent
	ctx.Redraw = s.redraw
	ctx.Sensors = append(ctx.Sensors, s.sensors...)
	ctx.Texture = s.texture
	return ctx
}

// frame runs one incremental frame over shapes.
func frame(c *Compositor, shapes ...*shape) bool {
	return frameWith(c, FrameOptions{PixelMetrics: true}, shapes...)
}

func frameWith(c *Compositor, fo FrameOptions, shapes ...*shape) bool {
	c.BeginFrame(fo)
	for _, s := range shapes {
		s.fill(c)
	}
	return c.EndFrame()
}

type background struct {
	bound   bool
	changed bool
	clips   []image.Rectangle
}

func (b *background) Draw(ctx *DrawableContext) {
	b.clips = append(b.clips, ctx.Clip)
}

func (b *background) PointOver(*DrawableContext, float64, float64, bool) bool {
	return true
}

func (b *background) IsBound() bool { return b.bound }
func (b *background) Changed() bool { return b.changed }

type sensor bool

func (s sensor) Enabled() bool { return bool(s) }

type composite struct {
	calls  int
	x, y   float64
	picked Drawable
}

func (ct *composite) SensorAt(ctx *DrawableContext, x, y float64) *DrawableContext {
	ct.calls++
	ct.x, ct.y = x, y
	return ctx
}

func (ct *composite) PickAt(_ *DrawableContext, x, y float64) Drawable {
	ct.calls++
	ct.x, ct.y = x, y
	return ct.picked
}

// recordingTarget records clears and flushes.
type recordingTarget struct {
	w, h     int
	clears   int
	rects    []image.Rectangle
	fills    int
	flushes  int
	flushErr error
}

func (t *recordingTarget) Width() int  { return t.w }
func (t *recordingTarget) Height() int { return t.h }

func (t *recordingTarget) Clear(color.Color) { t.clears++ }

func (t *recordingTarget) ClearRect(r image.Rectangle, _ color.Color) {
	t.rects = append(t.rects, r)
}

func (t *recordingTarget) FillRect(image.Rectangle, color.Color) { t.fills++ }

func (t *recordingTarget) Flush() error {
	t.flushes++
	return t.flushErr
}

func hasRect(rects []image.Rectangle, r image.Rectangle) bool {
	for _, x := range rects {
		if x == r {
			return true
		}
	}
	return false
}
