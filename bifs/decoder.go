package bifs

import (
	"bytes"
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/m4s/bitstream"
	"github.com/gogpu/m4s/vrml"
)

// Decoder reads what an Encoder with the same Config writes.
type Decoder struct {
	cfg     Config
	catalog *vrml.Catalog
	opts    options

	byID   map[uint32]vrml.Node
	protos map[uint32]*vrml.Proto
	quant  quantState
	proto  *vrml.Proto
}

// NewDecoder starts a decoding session resolving node types in catalog.
func NewDecoder(cfg Config, catalog *vrml.Catalog, opts ...Option) *Decoder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Decoder{
		cfg:     cfg,
		catalog: catalog,
		opts:    o,
		byID:    make(map[uint32]vrml.Node),
		protos:  make(map[uint32]*vrml.Proto),
	}
}

// Config returns the session configuration.
func (d *Decoder) Config() Config {
	return d.cfg
}

// RegisterProto makes instances of p decodable.
func (d *Decoder) RegisterProto(p *vrml.Proto) {
	d.protos[p.ID] = p
}

// Reset forgets decoded nodes and quantization scopes. Registered protos
// are kept.
func (d *Decoder) Reset() {
	clear(d.byID)
	d.quant.reset()
	d.proto = nil
}

// FindNode returns the node decoded with id, falling back to the scene
// graph given with WithSceneGraph.
func (d *Decoder) FindNode(id uint32) vrml.Node {
	if n, ok := d.byID[id]; ok {
		return n
	}
	if d.opts.graph != nil {
		return d.opts.graph.FindNode(id)
	}
	return nil
}

// DecodeNode reads a node written for node data type ndt. A USE of the
// all-ones ID yields a nil node.
func (d *Decoder) DecodeNode(r *bitstream.Reader, ndt vrml.NDT) (vrml.Node, error) {
	use, err := r.ReadBit()
	if err != nil {
		return nil, err
	}
	if use {
		return d.decodeUSE(r)
	}

	k, err := d.readNodeType(r, ndt)
	if err != nil {
		return nil, err
	}
	n := vrml.New(k)

	def, err := r.ReadBit()
	if err != nil {
		return nil, err
	}
	if def {
		id, err := r.ReadBits(d.cfg.NodeIDBits)
		if err != nil {
			return nil, err
		}
		name := ""
		if d.cfg.UseNames {
			if name, err = readName(r); err != nil {
				return nil, err
			}
		}
		n.Def(uint32(id)+1, name)
		d.byID[n.ID()] = n
	}

	pol := policyOf(k)
	if pol.coordinates {
		d.quant.enterCoords(true)
		defer d.quant.enterCoords(false)
	}
	if pol.indexed {
		defer d.quant.resetCoords()
	}
	if err := d.decodeNodeFields(r, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (d *Decoder) decodeUSE(r *bitstream.Reader) (vrml.Node, error) {
	id, err := r.ReadBits(d.cfg.NodeIDBits)
	if err != nil {
		return nil, err
	}
	if id == 1<<d.cfg.NodeIDBits-1 {
		return nil, nil
	}
	n := d.FindNode(uint32(id) + 1)
	if n == nil {
		return nil, fmt.Errorf("USE %d: %w", id+1, ErrUnknownNode)
	}
	if policyOf(n.Kind()).coordinates {
		d.quant.enterCoords(true)
		d.quant.setLength(pointCount(n))
		d.quant.enterCoords(false)
	}
	return n, nil
}

func (d *Decoder) readNodeType(r *bitstream.Reader, ndt vrml.NDT) (*vrml.Kind, error) {
	for v := 1; v <= NumVersions; v++ {
		code, err := r.ReadBits(ndtBits(ndt, v))
		if err != nil {
			return nil, err
		}
		if code == 0 {
			continue
		}
		if v >= 2 && code == protoCode {
			pid, err := r.ReadBits(d.cfg.ProtoIDBits)
			if err != nil {
				return nil, err
			}
			p, ok := d.protos[uint32(pid)]
			if !ok {
				return nil, fmt.Errorf("proto %d: %w", pid, ErrUnknownProto)
			}
			return p.Kind(), nil
		}
		tag, ok := tagForType(ndt, code, v)
		if !ok {
			return nil, fmt.Errorf("node type %d in %s v%d: %w", code, ndt, v, ErrNonCompliant)
		}
		k, ok := d.catalog.Lookup(tag)
		if !ok {
			return nil, fmt.Errorf("node tag %d: %w", tag, ErrNonCompliant)
		}
		return k, nil
	}
	return nil, fmt.Errorf("node in %s: %w", ndt, ErrUnknownVersion)
}

// DecodeProtoBody reads the body of p written by EncodeProtoBody, storing
// the nodes in p.Body and the IS references as bindings of p.
func (d *Decoder) DecodeProtoBody(r *bitstream.Reader, p *vrml.Proto) error {
	prev := d.proto
	d.proto = p
	defer func() { d.proto = prev }()

	p.Body = p.Body[:0]
	for {
		more, err := r.ReadBit()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		n, err := d.DecodeNode(r, vrml.NDTWorld)
		if err != nil {
			return fmt.Errorf("proto %s: %w", p.Name, err)
		}
		p.Body = append(p.Body, n)
	}
}

func (d *Decoder) decodeNodeFields(r *bitstream.Reader, n *vrml.Generic) error {
	k := n.Kind()
	l := layoutOf(k, d.proto)

	mask, err := r.ReadBit()
	if err != nil {
		return err
	}
	if mask {
		for i := 0; i < l.count; i++ {
			set, err := r.ReadBit()
			if err != nil {
				return err
			}
			if !set {
				continue
			}
			all, ok := k.AllIndex(i, l.mode)
			if !ok {
				return fmt.Errorf("%s field %d: %w", k.Name, i, ErrNonCompliant)
			}
			if err := d.decodeFieldEntry(r, n, all, l, false); err != nil {
				return err
			}
		}
		return nil
	}

	for {
		end, err := r.ReadBit()
		if err != nil {
			return err
		}
		if end {
			return nil
		}
		if err := d.decodeFieldEntry(r, n, -1, l, true); err != nil {
			return err
		}
	}
}

// decodeFieldEntry reads one present field. In list mode all is read from
// the stream.
func (d *Decoder) decodeFieldEntry(r *bitstream.Reader, n *vrml.Generic, all int, l fieldLayout, list bool) error {
	k := n.Kind()
	if d.proto != nil {
		ised, err := r.ReadBit()
		if err != nil {
			return err
		}
		if ised {
			if list {
				v, err := r.ReadBits(l.bitsALL)
				if err != nil {
					return err
				}
				all = int(v)
			}
			pf, err := r.ReadBits(l.bitsProto)
			if err != nil {
				return err
			}
			if all >= len(k.Fields) || int(pf) >= d.proto.Kind().FieldCount(vrml.ModeALL) {
				return fmt.Errorf("%s IS binding %d->%d: %w", k.Name, all, pf, ErrNonCompliant)
			}
			d.proto.IS(int(pf), n, all)
			return nil
		}
	}
	if list {
		idx, err := r.ReadBits(l.bitsDEF)
		if err != nil {
			return err
		}
		var ok bool
		if all, ok = k.AllIndex(int(idx), vrml.ModeDEF); !ok {
			return fmt.Errorf("%s DEF field %d: %w", k.Name, idx, ErrNonCompliant)
		}
	}
	v, err := d.DecodeField(r, n, all)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", k.Name, k.Fields[all].Name, err)
	}
	return n.SetField(all, v)
}

// DecodeField reads a value of field (ALL index) of n without storing it.
func (d *Decoder) DecodeField(r *bitstream.Reader, n vrml.Node, field int) (vrml.Value, error) {
	k := n.Kind()
	if field < 0 || field >= len(k.Fields) {
		return nil, fmt.Errorf("%s field %d: %w", k.Name, field, ErrNonCompliant)
	}
	fd := k.Fields[field]
	if fd.Type == vrml.TypeUnknown {
		return nil, ErrNonCompliant
	}
	if fd.Type.IsSF() {
		return d.decodeSFField(r, n, fd)
	}
	if d.cfg.UsePredictiveMFField {
		predictive, err := r.ReadBit()
		if err != nil {
			return nil, err
		}
		if predictive {
			return nil, fmt.Errorf("predictive MF coding: %w", ErrNonCompliant)
		}
	}
	return d.decodeMFField(r, n, fd)
}

func (d *Decoder) decodeSFField(r *bitstream.Reader, n vrml.Node, fd vrml.FieldDef) (vrml.Value, error) {
	if v, ok, err := d.decodeQuantized(r, fd); ok || err != nil {
		return v, err
	}
	switch fd.Type {
	case vrml.TypeSFBool:
		b, err := r.ReadBit()
		return vrml.SFBool(b), err
	case vrml.TypeSFInt32:
		v, err := r.ReadBits(32)
		return vrml.SFInt32(int32(uint32(v))), err
	case vrml.TypeSFFloat:
		f, err := d.readFloats(r, 1)
		if err != nil {
			return nil, err
		}
		return vrml.SFFloat(f[0]), nil
	case vrml.TypeSFVec2f:
		f, err := d.readFloats(r, 2)
		if err != nil {
			return nil, err
		}
		return vrml.SFVec2f{X: f[0], Y: f[1]}, nil
	case vrml.TypeSFVec3f:
		f, err := d.readFloats(r, 3)
		if err != nil {
			return nil, err
		}
		return vrml.SFVec3f{X: f[0], Y: f[1], Z: f[2]}, nil
	case vrml.TypeSFColor:
		f, err := d.readFloats(r, 3)
		if err != nil {
			return nil, err
		}
		return vrml.SFColor{R: f[0], G: f[1], B: f[2]}, nil
	case vrml.TypeSFRotation:
		f, err := d.readFloats(r, 4)
		if err != nil {
			return nil, err
		}
		return vrml.SFRotation{X: f[0], Y: f[1], Z: f[2], Angle: f[3]}, nil
	case vrml.TypeSFString:
		s, err := readString(r)
		return vrml.SFString(s), err
	case vrml.TypeSFTime:
		t, err := r.ReadFloat64()
		return vrml.SFTime(t), err
	case vrml.TypeSFURL:
		return readURL(r)
	case vrml.TypeSFImage:
		return readImage(r)
	case vrml.TypeSFCommandBuffer:
		return d.readCommandBuffer(r)
	case vrml.TypeSFNode:
		child, err := d.DecodeNode(r, fd.NDT)
		return vrml.SFNode{Node: child}, err
	case vrml.TypeSFScript:
		if d.opts.scriptsIn == nil {
			return nil, ErrScriptUnsupported
		}
		return d.opts.scriptsIn.DecodeScript(r, n)
	default:
		return nil, fmt.Errorf("field type %s: %w", fd.Type, ErrNonCompliant)
	}
}

func (d *Decoder) readFloats(r *bitstream.Reader, n int) ([]float32, error) {
	out := make([]float32, n)
	efficient := false
	if q := d.quant.active(); q != nil && q.efficient {
		efficient = true
	}
	for i := range out {
		var err error
		if efficient {
			out[i], err = readMantissaFloat(r)
		} else {
			out[i], err = r.ReadFloat32()
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// decodeQuantized mirrors encodeQuantized. It reports false when the value
// was written unquantized.
func (d *Decoder) decodeQuantized(r *bitstream.Reader, fd vrml.FieldDef) (vrml.Value, bool, error) {
	q := d.quant.active()
	if q == nil || fd.Quant == vrml.QuantNone {
		return nil, false, nil
	}
	if fd.Quant == vrml.QuantCoordIndex {
		if fd.Type != vrml.TypeSFInt32 {
			return nil, false, nil
		}
		bits, ok := d.quant.coordIndexBits()
		if !ok {
			return nil, false, nil
		}
		v, err := r.ReadBits(bits)
		return vrml.SFInt32(int32(v) - 1), true, err
	}
	rg, ok := q.rangeFor(fd.Quant)
	if !ok {
		return nil, false, nil
	}
	var comps int
	switch fd.Type {
	case vrml.TypeSFFloat:
		comps = 1
	case vrml.TypeSFVec2f:
		comps = 2
	case vrml.TypeSFVec3f, vrml.TypeSFColor:
		comps = 3
	default:
		return nil, false, nil
	}
	f := make([]float32, comps)
	for c := range f {
		u, err := r.ReadBits(rg.nbBits)
		if err != nil {
			return nil, true, err
		}
		f[c] = rg.dequantize(u, c)
	}
	switch fd.Type {
	case vrml.TypeSFFloat:
		return vrml.SFFloat(f[0]), true, nil
	case vrml.TypeSFVec2f:
		return vrml.SFVec2f{X: f[0], Y: f[1]}, true, nil
	case vrml.TypeSFVec3f:
		return vrml.SFVec3f{X: f[0], Y: f[1], Z: f[2]}, true, nil
	default:
		return vrml.SFColor{R: f[0], G: f[1], B: f[2]}, true, nil
	}
}

// appendItem appends v to out, rejecting items of the wrong type.
func appendItem(out vrml.MFValue, v vrml.Value) (vrml.MFValue, error) {
	next, ok := vrml.AppendItem(out, v)
	if !ok {
		return out, fmt.Errorf("%s item in %s: %w", typeName(v), out.Type(), ErrNonCompliant)
	}
	return next, nil
}

func (d *Decoder) decodeMFField(r *bitstream.Reader, n vrml.Node, fd vrml.FieldDef) (vrml.Value, error) {
	out, _ := vrml.Zero(fd.Type).(vrml.MFValue)
	if out == nil {
		return nil, fmt.Errorf("field type %s: %w", fd.Type, ErrNonCompliant)
	}
	if _, err := r.ReadBit(); err != nil {
		return nil, err
	}
	list, err := r.ReadBit()
	if err != nil {
		return nil, err
	}
	count := -1
	if !list {
		nb, err := r.ReadBits(5)
		if err != nil {
			return nil, err
		}
		c, err := r.ReadBits(int(nb))
		if err != nil {
			return nil, err
		}
		count = int(c)
	}

	item := fd
	item.Type = fd.Type.SF()
	scoped := false
	pending := 0
	popScope := func() {
		if scoped {
			d.quant.pop()
			scoped = false
		}
	}
	for i := 0; count < 0 || i < count; i++ {
		if list {
			end, err := r.ReadBit()
			if err != nil {
				popScope()
				return nil, err
			}
			if end {
				break
			}
		}
		v, err := d.decodeSFField(r, n, item)
		if err != nil {
			popScope()
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if out, err = appendItem(out, v); err != nil {
			popScope()
			return nil, fmt.Errorf("item %d: %w", i, err)
		}

		child, isNode := v.(vrml.SFNode)
		if !isNode {
			continue
		}
		if child.Node != nil && policyOf(child.Node.Kind()).quantizer {
			popScope()
			qp := newQuantizer(child.Node)
			d.quant.push(qp)
			scoped = true
			pending = 0
			if qp.local {
				pending = 2
			}
		}
		if scoped && pending > 0 {
			pending--
			if pending == 0 {
				popScope()
			}
		}
	}
	popScope()
	if out.Len() > 0 {
		d.quant.setLength(out.Len())
	}
	return out, nil
}

func readString(r *bitstream.Reader) (string, error) {
	nb, err := r.ReadBits(5)
	if err != nil {
		return "", err
	}
	n, err := r.ReadBits(int(nb))
	if err != nil {
		return "", err
	}
	if int(n) > r.Remaining()/8 {
		return "", bitstream.ErrShortRead
	}
	b, err := r.ReadBytes(int(n))
	return string(b), err
}

func readURL(r *bitstream.Reader) (vrml.Value, error) {
	hasOD, err := r.ReadBit()
	if err != nil {
		return nil, err
	}
	if hasOD {
		id, err := r.ReadBits(odidBits)
		return vrml.SFURL{ODID: uint32(id)}, err
	}
	s, err := readString(r)
	return vrml.SFURL{URL: s}, err
}

func readImage(r *bitstream.Reader) (vrml.Value, error) {
	w, err := r.ReadBits(imageSizeBits)
	if err != nil {
		return nil, err
	}
	h, err := r.ReadBits(imageSizeBits)
	if err != nil {
		return nil, err
	}
	c, err := r.ReadBits(2)
	if err != nil {
		return nil, err
	}
	img := vrml.SFImage{Width: int(w), Height: int(h), Components: int(c) + 1}
	size := img.Width * img.Height * img.Components
	if size > r.Remaining()/8 {
		return nil, bitstream.ErrShortRead
	}
	img.Pixels, err = r.ReadBytes(size)
	return img, err
}

func (d *Decoder) readCommandBuffer(r *bitstream.Reader) (vrml.Value, error) {
	nb, err := r.ReadBits(5)
	if err != nil {
		return nil, err
	}
	size, err := r.ReadBits(int(nb))
	if err != nil {
		return nil, err
	}
	if int(size) > r.Remaining()/8 {
		return nil, bitstream.ErrShortRead
	}
	data, err := r.ReadBytes(int(size))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return vrml.SFCommandBuffer{}, nil
	}
	cmds, err := d.opts.commandsIn.DecodeCommands(d, bitstream.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("command buffer: %w", err)
	}
	return vrml.SFCommandBuffer{Commands: cmds}, nil
}

// readName reads a NUL-terminated name.
func readName(r *bitstream.Reader) (string, error) {
	var buf bytes.Buffer
	for {
		b, err := r.ReadBits(8)
		if err != nil {
			return "", err
		}
		if b == 0 {
			return norm.NFC.String(buf.String()), nil
		}
		buf.WriteByte(byte(b))
	}
}
