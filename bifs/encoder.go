package bifs

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/m4s"
	"github.com/gogpu/m4s/bitstream"
	"github.com/gogpu/m4s/vrml"
)

// Encoder is a BIFS encoding session.
type Encoder struct {
	cfg  Config
	opts options

	// defined holds DEF'd nodes already written, by identity.
	defined map[vrml.Node]struct{}
	byID    map[uint32]vrml.Node

	quant quantState

	// proto is the template whose body is being encoded, if any.
	proto *vrml.Proto
}

// NewEncoder starts an encoding session.
func NewEncoder(cfg Config, opts ...Option) *Encoder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Encoder{
		cfg:     cfg,
		opts:    o,
		defined: make(map[vrml.Node]struct{}),
		byID:    make(map[uint32]vrml.Node),
	}
}

// Config returns the session configuration.
func (e *Encoder) Config() Config {
	return e.cfg
}

// Reset forgets every DEF'd node and quantization scope. Call it after an
// encoding error before reusing the session.
func (e *Encoder) Reset() {
	clear(e.defined)
	clear(e.byID)
	e.quant.reset()
	e.proto = nil
}

// EncodeNode writes n in a field whose node data type is ndt. A nil node
// is written as a USE of the all-ones ID.
func (e *Encoder) EncodeNode(w *bitstream.Writer, n vrml.Node, ndt vrml.NDT) error {
	if n == nil {
		w.WriteBit(true)
		w.WriteBits(1<<e.cfg.NodeIDBits-1, e.cfg.NodeIDBits)
		return nil
	}
	if e.seen(n) {
		return e.EncodeUSE(w, n.ID())
	}
	w.WriteBit(false)

	k := n.Kind()
	if err := e.writeNodeType(w, k, ndt); err != nil {
		return err
	}

	if id := n.ID(); id != 0 {
		w.WriteBit(true)
		w.WriteBits(uint64(id-1), e.cfg.NodeIDBits)
		if e.cfg.UseNames {
			writeName(w, n.Name())
		}
		m4s.Logger().Debug("bifs: DEF", "id", id, "kind", k.Name)
	} else {
		w.WriteBit(false)
	}

	pol := policyOf(k)
	if pol.coordinates {
		e.quant.enterCoords(true)
		defer e.quant.enterCoords(false)
	}
	if pol.indexed {
		defer e.quant.resetCoords()
	}
	return e.encodeNodeFields(w, n)
}

// EncodeUSE writes a backreference to the node DEF'd with id.
func (e *Encoder) EncodeUSE(w *bitstream.Writer, id uint32) error {
	w.WriteBit(true)
	if id == 0 {
		return fmt.Errorf("USE of node without ID: %w", ErrUnknownNode)
	}
	w.WriteBits(uint64(id-1), e.cfg.NodeIDBits)

	n := e.lookup(id)
	if n == nil {
		return fmt.Errorf("USE %d: %w", id, ErrUnknownNode)
	}
	// The coordinate index width depends on the point count of the
	// referenced coordinate node.
	if policyOf(n.Kind()).coordinates {
		e.quant.enterCoords(true)
		e.quant.setLength(pointCount(n))
		e.quant.enterCoords(false)
	}
	return nil
}

// EncodeProtoBody writes the body of p: each node preceded by a
// continuation bit, then a terminating zero bit. Fields bound to the
// proto interface are written as IS references.
func (e *Encoder) EncodeProtoBody(w *bitstream.Writer, p *vrml.Proto) error {
	prev := e.proto
	e.proto = p
	defer func() { e.proto = prev }()

	for _, n := range p.Body {
		w.WriteBit(true)
		if err := e.EncodeNode(w, n, vrml.NDTWorld); err != nil {
			return fmt.Errorf("proto %s: %w", p.Name, err)
		}
	}
	w.WriteBit(false)
	return nil
}

// EncodeField writes v as the value of field (ALL index) of n.
func (e *Encoder) EncodeField(w *bitstream.Writer, n vrml.Node, field int, v vrml.Value) error {
	f, err := vrml.GetField(n, field, vrml.ModeALL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNonCompliant, err)
	}
	if v == nil || v.Type() != f.Type {
		return fmt.Errorf("%s value for %s: %w", typeName(v), f.Type, ErrNonCompliant)
	}
	f.Value = v
	return e.encodeField(w, n, f)
}

// seen reports whether n was already DEF'd in this session and records it
// otherwise. Nodes without ID are never recorded.
func (e *Encoder) seen(n vrml.Node) bool {
	id := n.ID()
	if id == 0 {
		return false
	}
	if _, ok := e.defined[n]; ok {
		return true
	}
	e.defined[n] = struct{}{}
	e.byID[id] = n
	return false
}

func (e *Encoder) lookup(id uint32) vrml.Node {
	if n, ok := e.byID[id]; ok {
		return n
	}
	if e.opts.graph != nil {
		return e.opts.graph.FindNode(id)
	}
	return nil
}

// writeNodeType writes the node type code, escaping to later versions
// until k is found in ndt.
func (e *Encoder) writeNodeType(w *bitstream.Writer, k *vrml.Kind, ndt vrml.NDT) error {
	for v := 1; ; v++ {
		code := nodeType(ndt, k.Tag, v)
		if v == 2 && k.Tag == vrml.TagProto {
			code = protoCode
		}
		w.WriteBits(code, ndtBits(ndt, v))
		if code != 0 {
			if v == 2 && code == protoCode {
				w.WriteBits(uint64(k.Proto().ID), e.cfg.ProtoIDBits)
			}
			return nil
		}
		if v == NumVersions {
			return fmt.Errorf("%s in %s: %w", k.Name, ndt, ErrUnknownVersion)
		}
		m4s.Logger().Debug("bifs: version escape", "kind", k.Name, "ndt", ndt.String(), "version", v)
	}
}

// writeName writes a NUL-terminated NFC name.
func writeName(w *bitstream.Writer, name string) {
	name = norm.NFC.String(name)
	if i := strings.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	w.WriteBytes([]byte(name))
	w.WriteBits(0, 8)
}

func typeName(v vrml.Value) string {
	if v == nil {
		return "nil"
	}
	return v.Type().String()
}
