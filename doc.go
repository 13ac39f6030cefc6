// Package m4s is a toolkit for MPEG-4 style 2D scenes: an incremental
// compositor that redraws only what changed between frames, and a BIFS
// encoder that serializes scene graphs into a compact bitstream.
//
// # Packages
//
//   - compositor: per-frame drawable contexts, dirty-rectangle tracking,
//     opaque-area pruning and sensor hit-testing.
//   - bifs: BIFS node and field encoding with DEF/USE, protos,
//     quantization and scene-update commands, plus a matching decoder.
//   - vrml: node kinds, typed field values and the built-in node catalog.
//   - bitstream: MSB-first bit writer and reader.
//   - surface: raster targets the compositor paints into.
//   - geom: float and pixel rectangle helpers.
//
// # Compositing
//
//	img := surface.NewImageSurface(640, 480)
//	c := compositor.New(compositor.WithTarget(img))
//
//	c.BeginFrame(compositor.FrameOptions{PixelMetrics: true})
//	ctx := c.AcquireContext()
//	ctx.Node = shape
//	ctx.Clip = image.Rect(10, 10, 110, 60)
//	if c.EndFrame() {
//	    // present img
//	}
//
// # Encoding
//
//	w := bitstream.NewWriter()
//	enc := bifs.NewEncoder(bifs.DefaultConfig())
//	if err := enc.EncodeNode(w, root, vrml.NDTTop); err != nil {
//	    return err
//	}
//	payload := w.Bytes()
//
// # Logging
//
// Sub-packages log through [Logger], which discards everything until
// [SetLogger] installs a handler.
package m4s
