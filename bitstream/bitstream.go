package bitstream

import (
	"bytes"
	"errors"
	"io"
	"math"
	"math/bits"

	"github.com/icza/bitio"
	"golang.org/x/exp/constraints"
)

var (
	// ErrShortRead is returned when a read runs past the end of the buffer.
	ErrShortRead = errors.New("bitstream: read past end of buffer")

	// ErrWidth is returned for bit widths outside [0, 64].
	ErrWidth = errors.New("bitstream: invalid bit width")
)

// BitSize returns the number of bits needed to represent v.
// BitSize(0) is 0.
func BitSize[T constraints.Unsigned](v T) int {
	return bits.Len64(uint64(v))
}

// Writer accumulates bits MSB first.
//
// Whole bytes go straight to an in-memory buffer; the bits of a partially
// filled last byte are mirrored in tail so Bytes can pad them without
// disturbing the stream. A Writer must be created with NewWriter.
type Writer struct {
	buf   bytes.Buffer
	bw    *bitio.Writer
	tail  uint64 // low nbits&7 bits: the unflushed last byte
	nbits int    // total number of bits written
}

// NewWriter creates an empty writer.
func NewWriter() *Writer {
	w := &Writer{}
	w.bw = bitio.NewWriter(&w.buf)
	return w
}

// WriteBits appends the low n bits of v, most significant first.
// Bits of v above n are ignored. n must be in [0, 64].
func (w *Writer) WriteBits(v uint64, n int) {
	if n < 0 || n > 64 {
		panic(ErrWidth)
	}
	if n == 0 {
		return
	}
	v &= 1<<n - 1
	// bytes.Buffer writes never fail.
	w.bw.TryWriteBits(v, uint8(n))
	w.nbits += n
	keep := w.nbits & 7
	w.tail = (w.tail<<n | v) & (1<<keep - 1)
}

// WriteBit appends a single bit.
func (w *Writer) WriteBit(b bool) {
	if b {
		w.WriteBits(1, 1)
		return
	}
	w.WriteBits(0, 1)
}

// WriteFloat32 appends the 32-bit IEEE-754 pattern of f.
func (w *Writer) WriteFloat32(f float32) {
	w.WriteBits(uint64(math.Float32bits(f)), 32)
}

// WriteFloat64 appends the 64-bit IEEE-754 pattern of f.
func (w *Writer) WriteFloat64(f float64) {
	w.WriteBits(math.Float64bits(f), 64)
}

// WriteBytes appends p, 8 bits per byte. The writer need not be byte aligned.
func (w *Writer) WriteBytes(p []byte) {
	if w.nbits&7 != 0 {
		for _, b := range p {
			w.WriteBits(uint64(b), 8)
		}
		return
	}
	w.bw.TryWrite(p)
	w.nbits += 8 * len(p)
}

// BitLen returns the number of bits written so far.
func (w *Writer) BitLen() int {
	return w.nbits
}

// Len returns the number of bytes needed to hold the written bits.
func (w *Writer) Len() int {
	return (w.nbits + 7) / 8
}

// Bytes returns the written bits, zero padded to a byte boundary.
// When the writer is byte aligned the slice aliases its buffer until the
// next write; otherwise it is a copy.
func (w *Writer) Bytes() []byte {
	keep := w.nbits & 7
	if keep == 0 {
		return w.buf.Bytes()
	}
	out := make([]byte, w.buf.Len(), w.buf.Len()+1)
	copy(out, w.buf.Bytes())
	return append(out, byte(w.tail<<(8-keep)))
}

// Reset discards all written bits, keeping the allocated buffer.
func (w *Writer) Reset() {
	w.buf.Reset()
	w.bw = bitio.NewWriter(&w.buf)
	w.tail = 0
	w.nbits = 0
}

// Reader consumes bits MSB first from a byte slice.
type Reader struct {
	br   *bitio.Reader
	size int // total bits available
	pos  int // bit position
}

// NewReader creates a reader over p. The reader does not copy p.
func NewReader(p []byte) *Reader {
	return &Reader{
		br:   bitio.NewReader(bytes.NewReader(p)),
		size: 8 * len(p),
	}
}

// ReadBits reads n bits and returns them right aligned.
func (r *Reader) ReadBits(n int) (uint64, error) {
	if n < 0 || n > 64 {
		return 0, ErrWidth
	}
	if r.pos+n > r.size {
		return 0, ErrShortRead
	}
	if n == 0 {
		return 0, nil
	}
	v, err := r.br.ReadBits(uint8(n))
	if err != nil {
		return 0, ErrShortRead
	}
	r.pos += n
	return v, nil
}

// ReadBit reads a single bit.
func (r *Reader) ReadBit() (bool, error) {
	if r.pos >= r.size {
		return false, ErrShortRead
	}
	b, err := r.br.ReadBool()
	if err != nil {
		return false, ErrShortRead
	}
	r.pos++
	return b, nil
}

// ReadFloat32 reads a 32-bit IEEE-754 value.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadBits(32)
	return math.Float32frombits(uint32(v)), err
}

// ReadFloat64 reads a 64-bit IEEE-754 value.
func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadBits(64)
	return math.Float64frombits(v), err
}

// ReadBytes reads n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.pos+8*n > r.size {
		return nil, ErrShortRead
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(r.br, out); err != nil {
		return nil, ErrShortRead
	}
	r.pos += 8 * n
	return out, nil
}

// BitPos returns the number of bits consumed so far.
func (r *Reader) BitPos() int {
	return r.pos
}

// Remaining returns the number of unread bits, padding included.
func (r *Reader) Remaining() int {
	return r.size - r.pos
}
