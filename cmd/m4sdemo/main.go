// Command m4sdemo animates a few rectangles through the incremental
// compositor, reports how much of each frame was redrawn, and encodes the
// matching scene graph as BIFS.
package main

import (
	"flag"
	"image"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/gogpu/m4s"
	"github.com/gogpu/m4s/bifs"
	"github.com/gogpu/m4s/bitstream"
	"github.com/gogpu/m4s/compositor"
	"github.com/gogpu/m4s/geom"
	"github.com/gogpu/m4s/surface"
	"github.com/gogpu/m4s/vrml"
)

func main() {
	var (
		width   = flag.Int("width", 320, "surface width")
		height  = flag.Int("height", 240, "surface height")
		frames  = flag.Int("frames", 60, "number of frames to composite")
		output  = flag.String("output", "m4sdemo.png", "output file for the last frame")
		verbose = flag.Bool("v", false, "log compositor internals")
	)
	flag.Parse()

	if *verbose {
		m4s.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	img := surface.NewImageSurface(*width, *height)

	c := compositor.New(
		compositor.WithTarget(img),
		compositor.WithClearColor(color.RGBA{R: 0x20, G: 0x24, B: 0x30, A: 0xff}),
	)
	boxes := demoBoxes(*width, *height)

	var redrawn, total uint64
	for f := 0; f < *frames; f++ {
		c.BeginFrame(compositor.FrameOptions{PixelMetrics: true})
		for _, b := range boxes {
			b.step(f, *width)
			b.fill(c.AcquireContext())
		}
		changed := c.EndFrame()

		st := c.Stats()
		area := 0
		for _, r := range st.DirtyRects {
			area += r.Dx() * r.Dy()
		}
		redrawn += uint64(area) * 4
		total += uint64(*width) * uint64(*height) * 4
		if changed {
			log.Printf("frame %d: %d dirty rects, %s redrawn, full=%v",
				f, len(st.DirtyRects), humanize.Bytes(uint64(area)*4), st.RedrawAll)
		}
	}
	log.Printf("redrawn %s of %s (%s frames)",
		humanize.Bytes(redrawn), humanize.Bytes(total), humanize.Comma(int64(*frames)))

	last := img.Snapshot()
	_ = img.Close()
	if err := savePNG(*output, last); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	size, err := encodeScene(boxes)
	if err != nil {
		log.Fatalf("Failed to encode scene: %v", err)
	}
	log.Printf("scene encoded in %s", humanize.Bytes(uint64(size)))
}

// box is a filled rectangle moving horizontally.
type box struct {
	rect  image.Rectangle
	color color.RGBA
	dx    int
	blink bool
	on    bool
}

func demoBoxes(w, h int) []*box {
	return []*box{
		{rect: image.Rect(0, 0, w, h/8), color: color.RGBA{R: 0x40, G: 0x40, B: 0x60, A: 0xff}},
		{rect: image.Rect(10, h/4, 50, h/4+40), color: color.RGBA{R: 0xe0, G: 0x50, B: 0x40, A: 0xff}, dx: 3},
		{rect: image.Rect(w/2, h/2, w/2+60, h/2+30), color: color.RGBA{R: 0x40, G: 0xc0, B: 0x70, A: 0xff}, dx: -2},
		{rect: image.Rect(w-40, h-40, w-10, h-10), color: color.RGBA{R: 0xf0, G: 0xd0, B: 0x30, A: 0xff}, blink: true},
	}
}

func (b *box) step(frame, width int) {
	if b.dx != 0 {
		if b.rect.Min.X+b.dx < 0 || b.rect.Max.X+b.dx > width {
			b.dx = -b.dx
		}
		b.rect = b.rect.Add(image.Pt(b.dx, 0))
	}
	if b.blink {
		b.on = frame%10 < 5
	}
}

func (b *box) fill(ctx *compositor.DrawableContext) {
	ctx.Node = b
	ctx.Clip = b.rect
	ctx.Unclip = geom.FromImage(b.rect)
	if b.blink {
		ctx.Transparent = true
		ctx.Redraw |= compositor.RedrawAppearance
	}
}

func (b *box) Draw(ctx *compositor.DrawableContext) {
	s := ctx.Surface()
	c := b.color
	if b.blink && !b.on {
		c.A = 0x80
	}
	for _, r := range s.VisibleRegions(ctx) {
		s.Target().FillRect(s.ToPixels(r), c)
	}
}

func (b *box) PointOver(_ *compositor.DrawableContext, x, y float64, _ bool) bool {
	return geom.PixelContains(b.rect, x, y)
}

// encodeScene writes the boxes as a Group of Transform2D shapes and
// returns the encoded size in bytes.
func encodeScene(boxes []*box) (int, error) {
	var children vrml.MFNode
	for i, b := range boxes {
		material := vrml.New(vrml.KindMaterial2D).
			MustSet("emissiveColor", vrml.SFColor{
				R: float32(b.color.R) / 255,
				G: float32(b.color.G) / 255,
				B: float32(b.color.B) / 255,
			}).
			MustSet("filled", vrml.SFBool(true))
		shape := vrml.New(vrml.KindShape).
			MustSet("appearance", vrml.SFNode{Node: vrml.New(vrml.KindAppearance).MustSet("material", vrml.SFNode{Node: material})}).
			MustSet("geometry", vrml.SFNode{Node: vrml.New(vrml.KindRectangle).MustSet("size", vrml.SFVec2f{
				X: float32(b.rect.Dx()),
				Y: float32(b.rect.Dy()),
			})})
		center := b.rect.Min.Add(b.rect.Size().Div(2))
		tr := vrml.New(vrml.KindTransform2D).
			Def(uint32(i+1), "").
			MustSet("translation", vrml.SFVec2f{X: float32(center.X), Y: float32(center.Y)}).
			MustSet("children", vrml.MFNode{shape})
		children = append(children, tr)
	}
	root := vrml.New(vrml.KindGroup).MustSet("children", children)

	w := bitstream.NewWriter()
	enc := bifs.NewEncoder(bifs.DefaultConfig())
	if err := enc.EncodeNode(w, root, vrml.NDTTop); err != nil {
		return 0, err
	}
	return w.Len(), nil
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
