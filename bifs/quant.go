package bifs

import (
	"fmt"
	"math"

	"github.com/gogpu/m4s/bitstream"
	"github.com/gogpu/m4s/vrml"
)

// quantRange is the linear quantization rule of one category.
type quantRange struct {
	on     bool
	min    []float32
	max    []float32
	nbBits int
}

// usable reports whether values can be quantized: the category is on and
// every bound is finite with max > min.
func (q quantRange) usable() bool {
	if !q.on || q.nbBits < 1 || q.nbBits > 32 || len(q.min) == 0 {
		return false
	}
	for i := range q.min {
		lo, hi := float64(q.min[i]), float64(q.max[i])
		if math.IsInf(lo, 0) || math.IsInf(hi, 0) || math.IsNaN(lo) || math.IsNaN(hi) || hi <= lo {
			return false
		}
	}
	return true
}

// bounds returns the range applying to component c.
func (q quantRange) bounds(c int) (float32, float32) {
	if c < len(q.min) {
		return q.min[c], q.max[c]
	}
	return q.min[0], q.max[0]
}

func (q quantRange) steps() float64 {
	return float64(uint64(1)<<q.nbBits - 1)
}

func (q quantRange) quantize(v float32, c int) uint64 {
	lo, hi := q.bounds(c)
	f := float64(v)
	f = max(f, float64(lo))
	f = min(f, float64(hi))
	return uint64(math.Round((f - float64(lo)) * q.steps() / float64(hi-lo)))
}

func (q quantRange) dequantize(u uint64, c int) float32 {
	lo, hi := q.bounds(c)
	return float32(float64(lo) + float64(u)*float64(hi-lo)/q.steps())
}

// quantizer is the state of one QuantizationParameter node.
type quantizer struct {
	node      vrml.Node
	local     bool
	efficient bool
	ranges    map[vrml.QuantCategory]quantRange
}

func newQuantizer(n vrml.Node) *quantizer {
	get := func(name string) vrml.Value {
		i, ok := n.Kind().FieldIndex(name)
		if !ok {
			return nil
		}
		return n.Field(i)
	}
	flag := func(name string) bool {
		b, _ := get(name).(vrml.SFBool)
		return bool(b)
	}
	bitsOf := func(name string) int {
		v, _ := get(name).(vrml.SFInt32)
		return int(v)
	}
	scalar := func(prefix string) quantRange {
		lo, _ := get(prefix + "Min").(vrml.SFFloat)
		hi, _ := get(prefix + "Max").(vrml.SFFloat)
		return quantRange{
			on:     flag(prefix + "Quant"),
			min:    []float32{float32(lo)},
			max:    []float32{float32(hi)},
			nbBits: bitsOf(prefix + "NbBits"),
		}
	}

	q := &quantizer{
		node:      n,
		local:     flag("isLocal"),
		efficient: flag("useEfficientCoding"),
		ranges:    make(map[vrml.QuantCategory]quantRange),
	}
	lo3, _ := get("position3DMin").(vrml.SFVec3f)
	hi3, _ := get("position3DMax").(vrml.SFVec3f)
	q.ranges[vrml.QuantPosition3D] = quantRange{
		on:     flag("position3DQuant"),
		min:    []float32{lo3.X, lo3.Y, lo3.Z},
		max:    []float32{hi3.X, hi3.Y, hi3.Z},
		nbBits: bitsOf("position3DNbBits"),
	}
	lo2, _ := get("position2DMin").(vrml.SFVec2f)
	hi2, _ := get("position2DMax").(vrml.SFVec2f)
	q.ranges[vrml.QuantPosition2D] = quantRange{
		on:     flag("position2DQuant"),
		min:    []float32{lo2.X, lo2.Y},
		max:    []float32{hi2.X, hi2.Y},
		nbBits: bitsOf("position2DNbBits"),
	}
	q.ranges[vrml.QuantColor] = scalar("color")
	q.ranges[vrml.QuantAngle] = scalar("angle")
	q.ranges[vrml.QuantScale] = scalar("scale")
	q.ranges[vrml.QuantSize] = scalar("size")
	return q
}

// rangeFor returns the rule for cat, if it can be applied.
func (q *quantizer) rangeFor(cat vrml.QuantCategory) (quantRange, bool) {
	if q == nil {
		return quantRange{}, false
	}
	r, ok := q.ranges[cat]
	if !ok || !r.usable() {
		return quantRange{}, false
	}
	return r, true
}

// quantState is the session quantization state: the QP scope stack and
// the point count recorded for coordinate index coding.
type quantState struct {
	stack []*quantizer

	storing bool
	stored  bool
	points  int
}

func (s *quantState) active() *quantizer {
	if len(s.stack) == 0 {
		return nil
	}
	return s.stack[len(s.stack)-1]
}

func (s *quantState) push(q *quantizer) {
	s.stack = append(s.stack, q)
}

func (s *quantState) pop() {
	if len(s.stack) > 0 {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

// enterCoords starts (or ends) recording the point count of a coordinate
// node. It has no effect while no QP is active.
func (s *quantState) enterCoords(enter bool) {
	if s.active() == nil {
		return
	}
	if enter {
		s.storing = true
		return
	}
	if s.storing {
		s.stored = true
	}
	s.storing = false
}

// setLength records n as the point count while recording.
func (s *quantState) setLength(n int) {
	if s.active() == nil || !s.storing || s.stored {
		return
	}
	s.points = n
}

func (s *quantState) resetCoords() {
	s.storing = false
	s.stored = false
	s.points = 0
}

// coordIndexBits returns the width of quantized coordinate indices. Indices
// are written biased by one so that the -1 face separator fits.
func (s *quantState) coordIndexBits() (int, bool) {
	if s.active() == nil || !s.stored || s.points == 0 {
		return 0, false
	}
	return bitstream.BitSize(uint64(s.points)), true
}

func (s *quantState) reset() {
	*s = quantState{}
}

// Efficient float coding keeps the top mantissaBits bits of the float32
// mantissa.
const mantissaBits = 14

// writeMantissaFloat writes f as mantissa length (4), exponent length (3),
// sign, mantissa and, when present, exponent sign and magnitude. Zero is
// a zero mantissa length.
func writeMantissaFloat(w *bitstream.Writer, f float32) {
	if f == 0 {
		w.WriteBits(0, 4)
		return
	}
	b := math.Float32bits(f)
	sign := uint64(b >> 31)
	exp := int((b>>23)&0xff) - 127
	exp = max(exp, -126)
	exp = min(exp, 127)
	mant := uint64(b&0x7fffff) >> (23 - mantissaBits)
	n := mantissaBits
	for n > 0 && mant&1 == 0 {
		mant >>= 1
		n--
	}
	mag := exp
	if mag < 0 {
		mag = -mag
	}
	expLen := bitstream.BitSize(uint64(mag))

	w.WriteBits(uint64(n+1), 4)
	w.WriteBits(uint64(expLen), 3)
	w.WriteBits(sign, 1)
	w.WriteBits(mant, n)
	if expLen > 0 {
		w.WriteBit(exp < 0)
		w.WriteBits(uint64(mag), expLen-1)
	}
}

func readMantissaFloat(r *bitstream.Reader) (float32, error) {
	mantLen, err := r.ReadBits(4)
	if err != nil || mantLen == 0 {
		return 0, err
	}
	expLen, err := r.ReadBits(3)
	if err != nil {
		return 0, err
	}
	sign, err := r.ReadBits(1)
	if err != nil {
		return 0, err
	}
	n := int(mantLen) - 1
	mant, err := r.ReadBits(n)
	if err != nil {
		return 0, err
	}
	exp := 0
	if expLen > 0 {
		neg, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		low, err := r.ReadBits(int(expLen) - 1)
		if err != nil {
			return 0, err
		}
		exp = int(uint64(1)<<(expLen-1) | low)
		if neg {
			exp = -exp
		}
	}
	if exp < -126 || exp > 127 {
		return 0, fmt.Errorf("exponent %d: %w", exp, ErrNonCompliant)
	}
	frac := mant << (mantissaBits - n) << (23 - mantissaBits)
	b := uint32(sign)<<31 | uint32(exp+127)<<23 | uint32(frac)
	return math.Float32frombits(b), nil
}
