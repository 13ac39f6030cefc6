package bifs

import (
	"fmt"

	"github.com/gogpu/m4s/bitstream"
	"github.com/gogpu/m4s/vrml"
)

// useVector reports whether an n-item list is shorter written as a
// length-prefixed vector than as continuation-bit list.
func useVector(n int) bool {
	return bitstream.BitSize(uint64(n))+5 <= n+1
}

// encodeMFField writes a multi-valued field. A QuantizationParameter item
// of an MFNode field applies to the following items: to the next one only
// when it is local, otherwise until it is superseded or the list ends.
func (e *Encoder) encodeMFField(w *bitstream.Writer, n vrml.Node, f vrml.Field) error {
	mf, ok := f.Value.(vrml.MFValue)
	if !ok {
		return fmt.Errorf("%s value of type %T: %w", f.Type, f.Value, ErrNonCompliant)
	}
	count := mf.Len()

	// reserved
	w.WriteBit(false)
	if count == 0 {
		w.WriteBit(true)
		w.WriteBit(true)
		return nil
	}

	list := !useVector(count)
	w.WriteBit(list)
	if !list {
		nb := bitstream.BitSize(uint64(count))
		w.WriteBits(uint64(nb), 5)
		w.WriteBits(uint64(count), nb)
	}

	item := f.FieldDef
	item.Type = f.Type.SF()

	nodes, isNodes := mf.(vrml.MFNode)
	scoped := false
	// pending counts the items left under a local QP, including the QP.
	pending := 0
	for i := 0; i < count; i++ {
		if list {
			w.WriteBit(false)
		}
		if !isNodes {
			if err := e.encodeSFField(w, n, item, mf.Index(i)); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			continue
		}

		child := nodes[i]
		if err := e.EncodeNode(w, child, f.NDT); err != nil {
			if scoped {
				e.quant.pop()
			}
			return err
		}
		if child != nil && policyOf(child.Kind()).quantizer {
			if scoped {
				e.quant.pop()
			}
			qp := newQuantizer(child)
			e.quant.push(qp)
			scoped = true
			pending = 0
			if qp.local {
				pending = 2
			}
		}
		if scoped && pending > 0 {
			pending--
			if pending == 0 {
				e.quant.pop()
				scoped = false
			}
		}
	}
	if list {
		w.WriteBit(true)
	}
	if scoped {
		e.quant.pop()
	}
	e.quant.setLength(count)
	return nil
}
