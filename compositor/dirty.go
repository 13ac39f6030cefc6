// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import "image"

// RectArray accumulates the surface areas needing a redraw.
//
// Rectangles that overlap or share an edge are coalesced, so after
// Refresh no two rectangles touch. Each rectangle carries the 1-based
// draw index of the topmost opaque context fully covering it, or 0.
type RectArray struct {
	rects  []image.Rectangle
	opaque []int
}

// Union merges r into the first rectangle it touches, or appends it.
// Empty rectangles are ignored. Merging a rectangle already covered by the
// accumulator leaves it unchanged.
func (ra *RectArray) Union(r image.Rectangle) {
	if r.Empty() {
		return
	}
	for i, cur := range ra.rects {
		if touches(cur, r) {
			ra.rects[i] = cur.Union(r)
			return
		}
	}
	ra.Add(r)
}

// Add appends r without merging.
func (ra *RectArray) Add(r image.Rectangle) {
	if r.Empty() {
		return
	}
	ra.rects = append(ra.rects, r)
}

// Refresh coalesces touching rectangles until none remain.
func (ra *RectArray) Refresh() {
	for merged := true; merged; {
		merged = false
		for i := 0; i < len(ra.rects); i++ {
			for j := len(ra.rects) - 1; j > i; j-- {
				if !touches(ra.rects[i], ra.rects[j]) {
					continue
				}
				ra.rects[i] = ra.rects[i].Union(ra.rects[j])
				ra.rects = append(ra.rects[:j], ra.rects[j+1:]...)
				merged = true
			}
		}
	}
}

// Clear empties the accumulator, keeping its storage.
func (ra *RectArray) Clear() {
	ra.rects = ra.rects[:0]
	ra.opaque = ra.opaque[:0]
}

// Count returns the number of rectangles.
func (ra *RectArray) Count() int {
	return len(ra.rects)
}

// Empty reports whether there is nothing to redraw.
func (ra *RectArray) Empty() bool {
	return len(ra.rects) == 0
}

// Rects returns the accumulated rectangles. The slice is reused by the
// accumulator and must not be retained.
func (ra *RectArray) Rects() []image.Rectangle {
	return ra.rects
}

// Covering returns the draw index of the opaque context covering the i-th
// rectangle, or 0.
func (ra *RectArray) Covering(i int) int {
	if i >= len(ra.opaque) {
		return 0
	}
	return ra.opaque[i]
}

// markOpaque records, for every rectangle, the topmost opaque context in
// drawn whose clip contains it. drawn is in draw order.
func (ra *RectArray) markOpaque(drawn []*DrawableContext) {
	ra.opaque = ra.opaque[:0]
	for _, r := range ra.rects {
		covered := 0
		for i := len(drawn); i > 0; i-- {
			ctx := drawn[i-1]
			if !r.In(ctx.Clip) {
				continue
			}
			if !ctx.Transparent {
				covered = i
				break
			}
		}
		ra.opaque = append(ra.opaque, covered)
	}
}

// touches reports whether a and b overlap or share an edge segment.
func touches(a, b image.Rectangle) bool {
	if a.Overlaps(b) {
		return true
	}
	xSpan := a.Min.X < b.Max.X && b.Min.X < a.Max.X
	ySpan := a.Min.Y < b.Max.Y && b.Min.Y < a.Max.Y
	if xSpan && (a.Max.Y == b.Min.Y || b.Max.Y == a.Min.Y) {
		return true
	}
	return ySpan && (a.Max.X == b.Min.X || b.Max.X == a.Min.X)
}
