package bifs

import (
	"fmt"

	"github.com/gogpu/m4s/bitstream"
	"github.com/gogpu/m4s/vrml"
)

// Limits of the SFURL and SFImage headers.
const (
	odidBits      = 10
	imageSizeBits = 12
	maxImageSize  = 1<<imageSizeBits - 1
)

// encodeSFField writes a single-valued field value. fd supplies the node
// data type and quantization category.
func (e *Encoder) encodeSFField(w *bitstream.Writer, n vrml.Node, fd vrml.FieldDef, v vrml.Value) error {
	if v == nil {
		return fmt.Errorf("missing %s value: %w", fd.Type, ErrNonCompliant)
	}
	if ok, err := e.encodeQuantized(w, fd, v); ok {
		return err
	}

	switch x := v.(type) {
	case vrml.SFBool:
		w.WriteBit(bool(x))
	case vrml.SFInt32:
		w.WriteBits(uint64(uint32(x)), 32)
	case vrml.SFFloat:
		e.writeFloat(w, float32(x))
	case vrml.SFVec2f:
		e.writeFloats(w, x.X, x.Y)
	case vrml.SFVec3f:
		e.writeFloats(w, x.X, x.Y, x.Z)
	case vrml.SFColor:
		e.writeFloats(w, x.R, x.G, x.B)
	case vrml.SFRotation:
		e.writeFloats(w, x.X, x.Y, x.Z, x.Angle)
	case vrml.SFString:
		return writeString(w, string(x))
	case vrml.SFTime:
		w.WriteFloat64(float64(x))
	case vrml.SFURL:
		w.WriteBit(x.ODID > 0)
		if x.ODID > 0 {
			if x.ODID >= 1<<odidBits {
				return fmt.Errorf("ODID %d: %w", x.ODID, ErrNonCompliant)
			}
			w.WriteBits(uint64(x.ODID), odidBits)
		} else {
			return writeString(w, x.URL)
		}
	case vrml.SFImage:
		return writeImage(w, x)
	case vrml.SFCommandBuffer:
		return e.writeCommandBuffer(w, x)
	case vrml.SFNode:
		return e.EncodeNode(w, x.Node, fd.NDT)
	case vrml.SFScript:
		if e.opts.scripts == nil {
			return ErrScriptUnsupported
		}
		return e.opts.scripts.EncodeScript(w, n, x)
	default:
		return fmt.Errorf("field type %s: %w", v.Type(), ErrNonCompliant)
	}
	return nil
}

// writeFloat writes f raw, or mantissa coded when the active QP asks for
// efficient coding.
func (e *Encoder) writeFloat(w *bitstream.Writer, f float32) {
	if q := e.quant.active(); q != nil && q.efficient {
		writeMantissaFloat(w, f)
		return
	}
	w.WriteFloat32(f)
}

func (e *Encoder) writeFloats(w *bitstream.Writer, fs ...float32) {
	for _, f := range fs {
		e.writeFloat(w, f)
	}
}

// floatComponents returns the components of the float-based value types
// subject to linear quantization.
func floatComponents(v vrml.Value) ([]float32, bool) {
	switch x := v.(type) {
	case vrml.SFFloat:
		return []float32{float32(x)}, true
	case vrml.SFVec2f:
		return []float32{x.X, x.Y}, true
	case vrml.SFVec3f:
		return []float32{x.X, x.Y, x.Z}, true
	case vrml.SFColor:
		return []float32{x.R, x.G, x.B}, true
	default:
		return nil, false
	}
}

// encodeQuantized writes v under the active QP when its category applies.
// It reports false when v must be written unquantized.
func (e *Encoder) encodeQuantized(w *bitstream.Writer, fd vrml.FieldDef, v vrml.Value) (bool, error) {
	q := e.quant.active()
	if q == nil || fd.Quant == vrml.QuantNone {
		return false, nil
	}
	if fd.Quant == vrml.QuantCoordIndex {
		idx, ok := v.(vrml.SFInt32)
		if !ok {
			return false, nil
		}
		bits, ok := e.quant.coordIndexBits()
		if !ok {
			return false, nil
		}
		if idx < -1 || int(idx) >= e.quant.points {
			return true, fmt.Errorf("coordinate index %d of %d points: %w", idx, e.quant.points, ErrNonCompliant)
		}
		w.WriteBits(uint64(idx+1), bits)
		return true, nil
	}
	r, ok := q.rangeFor(fd.Quant)
	if !ok {
		return false, nil
	}
	comps, ok := floatComponents(v)
	if !ok {
		return false, nil
	}
	for c, f := range comps {
		w.WriteBits(r.quantize(f, c), r.nbBits)
	}
	return true, nil
}

// writeString writes a length prefix and the bytes.
func writeString(w *bitstream.Writer, s string) error {
	if err := writeLength(w, uint64(len(s))); err != nil {
		return fmt.Errorf("string: %w", err)
	}
	w.WriteBytes([]byte(s))
	return nil
}

// writeLength writes a 5-bit width followed by n in that many bits.
func writeLength(w *bitstream.Writer, n uint64) error {
	nb := bitstream.BitSize(n)
	if nb > 31 {
		return fmt.Errorf("length %d does not fit a 5-bit width: %w", n, ErrNonCompliant)
	}
	w.WriteBits(uint64(nb), 5)
	w.WriteBits(n, nb)
	return nil
}

func writeImage(w *bitstream.Writer, img vrml.SFImage) error {
	if img.Width < 0 || img.Width > maxImageSize || img.Height < 0 || img.Height > maxImageSize {
		return fmt.Errorf("image %dx%d: %w", img.Width, img.Height, ErrNonCompliant)
	}
	if img.Components < 1 || img.Components > 4 {
		return fmt.Errorf("image with %d components: %w", img.Components, ErrNonCompliant)
	}
	size := img.Width * img.Height * img.Components
	if len(img.Pixels) < size {
		return fmt.Errorf("image needs %d bytes, has %d: %w", size, len(img.Pixels), ErrNonCompliant)
	}
	w.WriteBits(uint64(img.Width), imageSizeBits)
	w.WriteBits(uint64(img.Height), imageSizeBits)
	w.WriteBits(uint64(img.Components-1), 2)
	w.WriteBytes(img.Pixels[:size])
	return nil
}

// writeCommandBuffer encodes the commands into a separate stream and
// embeds its bytes with a length prefix.
func (e *Encoder) writeCommandBuffer(w *bitstream.Writer, cb vrml.SFCommandBuffer) error {
	var data []byte
	if len(cb.Commands) > 0 {
		sub := bitstream.NewWriter()
		if err := e.opts.commands.EncodeCommands(e, sub, cb.Commands); err != nil {
			return fmt.Errorf("command buffer: %w", err)
		}
		data = sub.Bytes()
	}
	if err := writeLength(w, uint64(len(data))); err != nil {
		return fmt.Errorf("command buffer: %w", err)
	}
	w.WriteBytes(data)
	return nil
}
