package bifs

import (
	"testing"

	"github.com/gogpu/m4s/bitstream"
	"github.com/gogpu/m4s/vrml"
)

func testConfig() Config {
	return Config{NodeIDBits: 10, ProtoIDBits: 10}
}

func node(k *vrml.Kind, fields ...any) *vrml.Generic {
	n := vrml.New(k)
	for i := 0; i+1 < len(fields); i += 2 {
		n.MustSet(fields[i].(string), fields[i+1].(vrml.Value))
	}
	return n
}

func encode(t *testing.T, e *Encoder, n vrml.Node, ndt vrml.NDT) *bitstream.Writer {
	t.Helper()
	w := bitstream.NewWriter()
	if err := e.EncodeNode(w, n, ndt); err != nil {
		t.Fatalf("EncodeNode: %v", err)
	}
	return w
}

// roundTrip encodes n and decodes it with a fresh session of the same
// configuration.
func roundTrip(t *testing.T, cfg Config, n vrml.Node, ndt vrml.NDT, protos ...*vrml.Proto) vrml.Node {
	t.Helper()
	w := encode(t, NewEncoder(cfg), n, ndt)
	d := NewDecoder(cfg, vrml.Builtin())
	for _, p := range protos {
		d.RegisterProto(p)
	}
	r := bitstream.NewReader(w.Bytes())
	got, err := d.DecodeNode(r, ndt)
	if err != nil {
		t.Fatalf("DecodeNode: %v", err)
	}
	if r.BitPos() != w.BitLen() {
		t.Errorf("decoder consumed %d bits, encoder wrote %d", r.BitPos(), w.BitLen())
	}
	return got
}

// assertSameTree compares kinds, IDs and field values of two node trees.
func assertSameTree(t *testing.T, path string, want, got vrml.Node) {
	t.Helper()
	if want == nil || got == nil {
		if want != got {
			t.Errorf("%s: got %v, want %v", path, got, want)
		}
		return
	}
	if want.Kind().Tag != got.Kind().Tag || want.ID() != got.ID() {
		t.Errorf("%s: got %s#%d, want %s#%d", path, got.Kind().Name, got.ID(), want.Kind().Name, want.ID())
		return
	}
	for i, f := range got.Kind().Fields {
		if f.Event == vrml.EventIn || f.Event == vrml.EventOut {
			continue
		}
		p := path + "." + f.Name
		wv, gv := want.Field(i), got.Field(i)
		switch w := wv.(type) {
		case vrml.SFNode:
			assertSameTree(t, p, w.Node, gv.(vrml.SFNode).Node)
		case vrml.MFNode:
			g := gv.(vrml.MFNode)
			if len(g) != len(w) {
				t.Errorf("%s: %d children, want %d", p, len(g), len(w))
				continue
			}
			for j := range w {
				assertSameTree(t, p, w[j], g[j])
			}
		default:
			if !vrml.Equal(wv, gv) {
				t.Errorf("%s = %v, want %v", p, gv, wv)
			}
		}
	}
}
