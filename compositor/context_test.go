// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import (
	"image"
	"testing"
)

func TestContextPoolGrowth(t *testing.T) {
	tests := []struct {
		name     string
		step     int
		initial  int
		acquire  int
		wantCaps []int // capacity after each growth
	}{
		{"default step", 20, 0, 41, []int{20, 40, 80}},
		{"preallocated", 3, 5, 11, []int{5, 10, 20}},
		{"invalid step", 0, 0, 21, []int{20, 40}},
		{"step larger than doubling", 50, 10, 11, []int{10, 60}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewContextPool(tt.step, tt.initial)
			var caps []int
			last := p.Cap()
			if last > 0 {
				caps = append(caps, last)
			}
			for i := 0; i < tt.acquire; i++ {
				ctx := p.Acquire(nil)
				if ctx.index != i {
					t.Fatalf("Acquire #%d index = %d", i, ctx.index)
				}
				if p.Cap() != last {
					last = p.Cap()
					caps = append(caps, last)
				}
			}
			if p.Len() != tt.acquire {
				t.Errorf("Len() = %d, want %d", p.Len(), tt.acquire)
			}
			if len(caps) != len(tt.wantCaps) {
				t.Fatalf("capacities = %v, want %v", caps, tt.wantCaps)
			}
			for i := range caps {
				if caps[i] != tt.wantCaps[i] {
					t.Fatalf("capacities = %v, want %v", caps, tt.wantCaps)
				}
			}
		})
	}
}

func TestContextPoolReset(t *testing.T) {
	c := New(WithSize(10, 10))
	p := NewContextPool(4, 0)

	ctx := p.Acquire(nil)
	ctx.Clip = image.Rect(0, 0, 5, 5)
	ctx.Transparent = true
	ctx.Redraw = RedrawGeometry
	ctx.Sensors = append(ctx.Sensors, sensor(true))
	ctx.Texture = &composite{}
	ctx.DrawIndex = 3

	p.Rewind()
	got := p.Acquire(c)
	if got != ctx {
		t.Fatal("Acquire after Rewind did not reuse the first context")
	}
	if !got.Clip.Empty() || got.Transparent || got.Redraw != 0 || got.Texture != nil || got.DrawIndex != 0 {
		t.Errorf("context not reset: %+v", got)
	}
	if len(got.Sensors) != 0 {
		t.Errorf("len(Sensors) = %d, want 0", len(got.Sensors))
	}
	if got.Surface() != c {
		t.Error("Surface() not bound to the acquiring compositor")
	}
	if !got.Empty() {
		t.Error("Empty() = false for a reset context")
	}
}

func TestContextPoolReleaseLast(t *testing.T) {
	p := NewContextPool(4, 0)
	p.ReleaseLast()
	if p.Len() != 0 {
		t.Fatalf("ReleaseLast on empty pool: Len() = %d", p.Len())
	}
	p.Acquire(nil)
	p.Acquire(nil)
	p.ReleaseLast()
	if p.Len() != 1 {
		t.Errorf("Len() = %d, want 1", p.Len())
	}
	if ctx := p.Acquire(nil); ctx.index != 1 {
		t.Errorf("reacquired index = %d, want 1", ctx.index)
	}
}

func TestRedrawFlagsString(t *testing.T) {
	tests := []struct {
		f    RedrawFlags
		want string
	}{
		{0, "none"},
		{RedrawGeometry, "geometry"},
		{RedrawAppearance | RedrawTexture, "appearance|texture"},
		{RedrawGeometry | RedrawMoved, "geometry|moved"},
	}
	for _, tt := range tests {
		if got := tt.f.String(); got != tt.want {
			t.Errorf("RedrawFlags(%d).String() = %q, want %q", tt.f, got, tt.want)
		}
	}
}
