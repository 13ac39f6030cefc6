package bifs

import (
	"fmt"

	"github.com/gogpu/m4s/bitstream"
	"github.com/gogpu/m4s/vrml"
)

// indexBits returns the width of an index into n entries.
func indexBits(n int) int {
	if n <= 1 {
		return 0
	}
	return bitstream.BitSize(uint64(n - 1))
}

// useMask reports whether a mask of count bits is shorter than a list of
// encoded entries with bitsDEF-wide indices.
func useMask(count, encoded, bitsDEF int) bool {
	return count < 1+encoded*(1+bitsDEF)
}

// fieldLayout is the set of fields a node writes.
type fieldLayout struct {
	mode      vrml.IndexMode
	count     int
	bitsDEF   int
	bitsALL   int
	bitsProto int
}

func layoutOf(k *vrml.Kind, proto *vrml.Proto) fieldLayout {
	l := fieldLayout{mode: vrml.ModeDEF}
	if proto != nil {
		l.mode = vrml.ModeALL
		l.bitsProto = indexBits(proto.Kind().FieldCount(vrml.ModeALL))
		l.bitsALL = indexBits(k.FieldCount(vrml.ModeALL))
	}
	l.count = k.FieldCount(l.mode)
	if n := policyOf(k).fieldCount; n > 0 {
		l.count = min(n, l.count)
	}
	l.bitsDEF = indexBits(k.FieldCount(vrml.ModeDEF))
	return l
}

// encodeNodeFields writes the field set of n: the fields that differ from
// a default-valued node of the same kind, and IS references inside a proto
// body.
func (e *Encoder) encodeNodeFields(w *bitstream.Writer, n vrml.Node) error {
	k := n.Kind()
	l := layoutOf(k, e.proto)
	if l.count == 0 {
		w.WriteBit(false)
		w.WriteBit(true)
		return nil
	}

	def := vrml.NewDefault(n)
	enc := make([]int, l.count)
	encoded := 0
	for i := range enc {
		enc[i] = -1
		all, ok := k.AllIndex(i, l.mode)
		if !ok {
			return fmt.Errorf("%s field %d: %w", k.Name, i, ErrNonCompliant)
		}
		if e.proto != nil {
			if _, ok := e.proto.FindIS(n, all); ok {
				enc[i] = all
				encoded++
				continue
			}
		}
		fd := k.Fields[all]
		if fd.Event == vrml.EventIn || fd.Event == vrml.EventOut {
			continue
		}
		if present(fd, n.Field(all), def.Field(all)) {
			enc[i] = all
			encoded++
		}
	}

	pol := policyOf(k)
	list := true
	if pol.swap && pol.swapB < len(enc) {
		enc[pol.swapA], enc[pol.swapB] = enc[pol.swapB], enc[pol.swapA]
	} else if useMask(l.count, encoded, l.bitsDEF) {
		list = false
	}
	w.WriteBit(!list)

	for i, all := range enc {
		if all < 0 {
			if !list {
				w.WriteBit(false)
			}
			continue
		}
		// Continuation bit in list mode, presence bit in mask mode.
		w.WriteBit(!list)

		if e.proto != nil {
			if r, ok := e.proto.FindIS(n, all); ok {
				w.WriteBit(true)
				if list {
					w.WriteBits(uint64(all), l.bitsALL)
				}
				pf := r.ProtoField(n)
				if pf < 0 || pf >= e.proto.Kind().FieldCount(vrml.ModeALL) {
					return fmt.Errorf("%s.%s IS %d: %w", k.Name, k.Fields[all].Name, pf, ErrNonCompliant)
				}
				w.WriteBits(uint64(pf), l.bitsProto)
				continue
			}
			w.WriteBit(false)
		}
		if list {
			idx := i
			if e.proto != nil || pol.swap {
				idx, _ = k.ModeIndex(all, vrml.ModeDEF)
			}
			w.WriteBits(uint64(idx), l.bitsDEF)
		}
		f := vrml.Field{FieldDef: k.Fields[all], Index: all, Value: n.Field(all)}
		if err := e.encodeField(w, n, f); err != nil {
			return fmt.Errorf("%s.%s: %w", k.Name, f.Name, err)
		}
	}
	if list {
		w.WriteBit(true)
	}
	return nil
}

// present reports whether a field value must be written.
func present(fd vrml.FieldDef, v, def vrml.Value) bool {
	switch fd.Type {
	case vrml.TypeSFNode:
		sf, _ := v.(vrml.SFNode)
		return sf.Node != nil
	case vrml.TypeMFNode:
		mf, _ := v.(vrml.MFNode)
		return len(mf) > 0
	case vrml.TypeSFCommandBuffer:
		cb, _ := v.(vrml.SFCommandBuffer)
		return len(cb.Commands) > 0
	default:
		return !vrml.Equal(v, def)
	}
}

// encodeField writes one field value, single or multi-valued.
func (e *Encoder) encodeField(w *bitstream.Writer, n vrml.Node, f vrml.Field) error {
	if f.Type == vrml.TypeUnknown {
		return ErrNonCompliant
	}
	if f.Type.IsSF() {
		return e.encodeSFField(w, n, f.FieldDef, f.Value)
	}
	if e.cfg.UsePredictiveMFField {
		w.WriteBit(false)
	}
	return e.encodeMFField(w, n, f)
}
