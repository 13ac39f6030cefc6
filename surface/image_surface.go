// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// ImageSurface is a Target painting into an *image.RGBA held in memory.
// The compositor demo and tests use it as the default raster sink.
type ImageSurface struct {
	width  int
	height int
	img    *image.RGBA

	closed bool
}

// NewImageSurface allocates a width x height surface. Non-positive sizes
// are raised to 1.
func NewImageSurface(width, height int) *ImageSurface {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}

	return &ImageSurface{
		width:  width,
		height: height,
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// NewImageSurfaceFromImage wraps img without copying it.
func NewImageSurfaceFromImage(img *image.RGBA) *ImageSurface {
	bounds := img.Bounds()
	return &ImageSurface{
		width:  bounds.Dx(),
		height: bounds.Dy(),
		img:    img,
	}
}

// Width returns the surface width.
func (s *ImageSurface) Width() int {
	return s.width
}

// Height returns the surface height.
func (s *ImageSurface) Height() int {
	return s.height
}

// Clear replaces every pixel with c.
func (s *ImageSurface) Clear(c color.Color) {
	if s.closed {
		return
	}
	s.paint(s.img.Bounds(), c, xdraw.Src)
}

// ClearRect replaces the pixels of r with c.
func (s *ImageSurface) ClearRect(r image.Rectangle, c color.Color) {
	s.paint(r, c, xdraw.Src)
}

// FillRect composites c over the pixels of r.
func (s *ImageSurface) FillRect(r image.Rectangle, c color.Color) {
	s.paint(r, c, xdraw.Over)
}

// paint applies a uniform color to r clipped to the surface.
func (s *ImageSurface) paint(r image.Rectangle, c color.Color, op xdraw.Op) {
	if s.closed {
		return
	}
	r = r.Intersect(s.img.Bounds())
	if r.Empty() {
		return
	}
	xdraw.Draw(s.img, r, image.NewUniform(toRGBA(c)), image.Point{}, op)
}

// Flush is a no-op for CPU surfaces.
func (s *ImageSurface) Flush() error {
	return nil
}

// Snapshot copies the current pixels, or returns nil once closed.
func (s *ImageSurface) Snapshot() *image.RGBA {
	if s.closed {
		return nil
	}

	result := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	copy(result.Pix, s.img.Pix)
	return result
}

// Close drops the pixel buffer. Later drawing calls are ignored.
func (s *ImageSurface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.img = nil
	return nil
}

func toRGBA(c color.Color) color.RGBA {
	if c == nil {
		return color.RGBA{}
	}
	r, g, b, a := c.RGBA()
	//nolint:gosec // 16-bit channels shifted down fit in a byte
	return color.RGBA{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
		A: uint8(a >> 8),
	}
}

var _ Target = (*ImageSurface)(nil)
