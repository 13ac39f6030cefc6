// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

// sensorEntry pairs a sensor-bearing context with the contexts registered
// after it whose unclip bounds overlap it. Contexts are pool indices.
type sensorEntry struct {
	ctx   int
	onTop []int
}

// SensorIndex tracks, per frame, the contexts eligible for sensor
// hit-testing and the shapes drawn on top of each of them.
type SensorIndex struct {
	entries []sensorEntry
}

// Reset drops every entry.
func (si *SensorIndex) Reset() {
	clear(si.entries)
	si.entries = si.entries[:0]
}

// Len returns the number of registered sensor contexts.
func (si *SensorIndex) Len() int {
	return len(si.entries)
}

// register adds ctx to the overlay list of every entry it overlaps and
// registers ctx itself when it carries an enabled sensor or a composite
// texture. Sensors of a context with none enabled are dropped.
func (si *SensorIndex) register(pool *ContextPool, ctx *DrawableContext) {
	for i := range si.entries {
		e := &si.entries[i]
		if pool.At(e.ctx).Unclip.Intersects(ctx.Unclip) {
			e.onTop = append(e.onTop, ctx.index)
		}
	}

	if len(ctx.Sensors) > 0 && !anyEnabled(ctx.Sensors) {
		clear(ctx.Sensors)
		ctx.Sensors = ctx.Sensors[:0]
	}
	if len(ctx.Sensors) == 0 && ctx.compositeTexture() == nil {
		return
	}
	si.entries = append(si.entries, sensorEntry{ctx: ctx.index})
}

// forget removes node from the index.
func (si *SensorIndex) forget(pool *ContextPool, node Drawable) {
	kept := si.entries[:0]
	for _, e := range si.entries {
		if pool.At(e.ctx).Node == node {
			continue
		}
		onTop := e.onTop[:0]
		for _, idx := range e.onTop {
			if pool.At(idx).Node != node {
				onTop = append(onTop, idx)
			}
		}
		e.onTop = onTop
		kept = append(kept, e)
	}
	si.entries = kept
}

// find returns the sensor context under the surface point (x, y).
func (si *SensorIndex) find(pool *ContextPool, x, y float64) *DrawableContext {
scan:
	for i := len(si.entries); i > 0; i-- {
		e := &si.entries[i-1]
		sctx := pool.At(e.ctx)
		if !containsPoint(sctx, x, y) {
			continue
		}
		for k := len(e.onTop); k > 0; k-- {
			over := pool.At(e.onTop[k-1])
			if !containsPoint(over, x, y) || !over.Node.PointOver(over, x, y, false) {
				continue
			}
			if len(over.Sensors) == 0 {
				return nil
			}
			continue scan
		}
		if !sctx.Node.PointOver(sctx, x, y, false) {
			continue
		}
		if len(sctx.Sensors) > 0 {
			return sctx
		}
		if ct := sctx.compositeTexture(); ct != nil {
			return ct.SensorAt(sctx, x, y)
		}
		return nil
	}
	return nil
}

func anyEnabled(sensors []Sensor) bool {
	for _, s := range sensors {
		if s != nil && s.Enabled() {
			return true
		}
	}
	return false
}
