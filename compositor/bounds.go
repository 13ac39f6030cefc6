// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import (
	"image"
	"slices"
)

// boundsRecord holds the surface areas a drawable occupied in the previous
// and current frames. A drawable may own several contexts per frame.
type boundsRecord struct {
	node     Drawable
	previous []image.Rectangle
	current  []image.Rectangle
	drawn    bool
}

// flush turns the current bounds into the previous ones.
func (b *boundsRecord) flush() {
	b.previous, b.current = b.current, b.previous[:0]
	b.drawn = false
}

// resetAll drops every stored bound.
func (b *boundsRecord) resetAll() {
	b.previous = b.previous[:0]
	b.current = b.current[:0]
}

// store records clip as drawn this frame. It reports whether the drawable
// already occupied exactly clip in the previous frame; that bound is
// consumed.
func (b *boundsRecord) store(clip image.Rectangle) bool {
	b.current = append(b.current, clip)
	b.drawn = true
	i := slices.Index(b.previous, clip)
	if i < 0 {
		return false
	}
	b.previous = slices.Delete(b.previous, i, i+1)
	return true
}

// boundsTracker maps drawables to their bounds records and keeps the
// previously drawn set in first-drawn order.
type boundsTracker struct {
	records map[Drawable]*boundsRecord
	drawn   []*boundsRecord
}

func newBoundsTracker() boundsTracker {
	return boundsTracker{records: make(map[Drawable]*boundsRecord)}
}

// record returns the bounds record of node, adding node to the
// previously drawn set on first use.
func (t *boundsTracker) record(node Drawable) *boundsRecord {
	b, ok := t.records[node]
	if !ok {
		b = &boundsRecord{node: node}
		t.records[node] = b
		t.drawn = append(t.drawn, b)
	}
	return b
}

// beginFrame flushes every record. When reset is set the stored bounds
// are first merged into dirty and discarded.
func (t *boundsTracker) beginFrame(reset bool, dirty *RectArray) {
	for _, b := range t.drawn {
		if reset {
			for _, r := range b.previous {
				dirty.Union(r)
			}
			for _, r := range b.current {
				dirty.Union(r)
			}
			b.resetAll()
		}
		b.flush()
	}
}

// collect merges the bounds left over from the previous frame into dirty
// (unless skip is set) and drops drawables not drawn this frame. It
// returns false as soon as dirty exceeds limit.
func (t *boundsTracker) collect(dirty *RectArray, skip bool, limit int) bool {
	within := true
	kept := t.drawn[:0]
	for _, b := range t.drawn {
		if !skip {
			for _, r := range b.previous {
				dirty.Union(r)
				if dirty.Count() > limit {
					within = false
				}
			}
		}
		b.previous = b.previous[:0]
		if !b.drawn {
			delete(t.records, b.node)
			continue
		}
		kept = append(kept, b)
	}
	clear(t.drawn[len(kept):])
	t.drawn = kept
	return within
}

// forget drops node, merging the areas it occupied into dirty.
func (t *boundsTracker) forget(node Drawable, dirty *RectArray) {
	b, ok := t.records[node]
	if !ok {
		return
	}
	for _, r := range b.previous {
		dirty.Union(r)
	}
	for _, r := range b.current {
		dirty.Union(r)
	}
	delete(t.records, node)
	if i := slices.Index(t.drawn, b); i >= 0 {
		t.drawn = slices.Delete(t.drawn, i, i+1)
	}
}

// len returns the size of the previously drawn set.
func (t *boundsTracker) len() int {
	return len(t.drawn)
}
