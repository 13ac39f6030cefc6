package bifs

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gogpu/m4s/bitstream"
	"github.com/gogpu/m4s/vrml"
)

func TestMaskOrListSelection(t *testing.T) {
	tests := []struct {
		name           string
		count, encoded int
		bitsDEF        int
		wantMask       bool
	}{
		{"one of ten", 10, 1, 4, false},
		{"eight of ten", 10, 8, 4, true},
		{"nothing encoded", 3, 0, 2, false},
		{"single field set", 1, 1, 0, true},
		{"break even", 6, 1, 4, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := useMask(tt.count, tt.encoded, tt.bitsDEF); got != tt.wantMask {
				t.Errorf("useMask(%d, %d, %d) = %v, want %v", tt.count, tt.encoded, tt.bitsDEF, got, tt.wantMask)
			}
		})
	}
}

func TestDefaultNodeBits(t *testing.T) {
	e := NewEncoder(testConfig())
	w := encode(t, e, vrml.New(vrml.KindCircle), vrml.NDTGeometry)

	// USE=0, type=010, DEF=0, isMask=0, end=1
	if w.BitLen() != 7 {
		t.Fatalf("BitLen() = %d, want 7", w.BitLen())
	}
	if got := w.Bytes(); !bytes.Equal(got, []byte{0x22}) {
		t.Errorf("Bytes() = %#x, want 0x22", got)
	}
}

func TestChangedFieldUsesMask(t *testing.T) {
	e := NewEncoder(testConfig())
	w := encode(t, e, node(vrml.KindCircle, "radius", vrml.SFFloat(3)), vrml.NDTGeometry)

	r := bitstream.NewReader(w.Bytes())
	head, _ := r.ReadBits(7)
	// USE=0, type=010, DEF=0, isMask=1, mask=1
	if head != 0b0010011 {
		t.Errorf("header = %07b", head)
	}
	radius, _ := r.ReadFloat32()
	if radius != 3 {
		t.Errorf("radius = %v", radius)
	}
	if w.BitLen() != 39 {
		t.Errorf("BitLen() = %d, want 39", w.BitLen())
	}
}

func TestNullNode(t *testing.T) {
	e := NewEncoder(testConfig())
	w := encode(t, e, nil, vrml.NDTGeometry)
	if w.BitLen() != 11 || !bytes.Equal(w.Bytes(), []byte{0xff, 0xe0}) {
		t.Errorf("null node = %#x (%d bits)", w.Bytes(), w.BitLen())
	}

	d := NewDecoder(testConfig(), vrml.Builtin())
	n, err := d.DecodeNode(bitstream.NewReader(w.Bytes()), vrml.NDTGeometry)
	if err != nil || n != nil {
		t.Errorf("DecodeNode = %v, %v; want nil node", n, err)
	}
}

func TestUSEBackreference(t *testing.T) {
	e := NewEncoder(testConfig())
	c := node(vrml.KindCircle, "radius", vrml.SFFloat(2)).Def(5, "")
	w := bitstream.NewWriter()
	if err := e.EncodeNode(w, c, vrml.NDTGeometry); err != nil {
		t.Fatal(err)
	}
	first := w.BitLen()
	if err := e.EncodeNode(w, c, vrml.NDTGeometry); err != nil {
		t.Fatal(err)
	}
	if got := w.BitLen() - first; got != 11 {
		t.Errorf("USE took %d bits, want 11", got)
	}

	d := NewDecoder(testConfig(), vrml.Builtin())
	r := bitstream.NewReader(w.Bytes())
	a, err := d.DecodeNode(r, vrml.NDTGeometry)
	if err != nil {
		t.Fatal(err)
	}
	b, err := d.DecodeNode(r, vrml.NDTGeometry)
	if err != nil {
		t.Fatal(err)
	}
	if a != b || a.ID() != 5 {
		t.Errorf("USE decoded to a different node: %p %p", a, b)
	}
}

func TestUSEOfUnknownNode(t *testing.T) {
	e := NewEncoder(testConfig())
	w := bitstream.NewWriter()
	if err := e.EncodeUSE(w, 7); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("EncodeUSE(7) = %v, want ErrUnknownNode", err)
	}
	if err := e.EncodeUSE(w, 0); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("EncodeUSE(0) = %v, want ErrUnknownNode", err)
	}

	d := NewDecoder(testConfig(), vrml.Builtin())
	if _, err := d.DecodeNode(bitstream.NewReader(w.Bytes()), vrml.NDTGeometry); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("DecodeNode = %v, want ErrUnknownNode", err)
	}
}

type graph map[uint32]vrml.Node

func (g graph) FindNode(id uint32) vrml.Node { return g[id] }

func TestUSEFromSceneGraph(t *testing.T) {
	c := vrml.New(vrml.KindCircle).Def(9, "")
	e := NewEncoder(testConfig(), WithSceneGraph(graph{9: c}))
	w := bitstream.NewWriter()
	if err := e.EncodeUSE(w, 9); err != nil {
		t.Fatalf("EncodeUSE: %v", err)
	}
	d := NewDecoder(testConfig(), vrml.Builtin(), WithSceneGraph(graph{9: c}))
	got, err := d.DecodeNode(bitstream.NewReader(w.Bytes()), vrml.NDTGeometry)
	if err != nil || got != c {
		t.Errorf("DecodeNode = %v, %v", got, err)
	}
}

func TestUnknownVersion(t *testing.T) {
	e := NewEncoder(testConfig())
	w := bitstream.NewWriter()
	err := e.EncodeNode(w, vrml.New(vrml.KindMaterial2D), vrml.NDTGeometry)
	if !errors.Is(err, ErrUnknownVersion) {
		t.Fatalf("err = %v, want ErrUnknownVersion", err)
	}
	// USE bit, 3 escape bits at version 1, one per later version.
	if w.BitLen() != 9 {
		t.Errorf("BitLen() = %d, want 9", w.BitLen())
	}
}

func TestVersionEscape(t *testing.T) {
	og := node(vrml.KindOrderedGroup, "order", vrml.MFFloat{1, 2})
	e := NewEncoder(testConfig())
	w := encode(t, e, og, vrml.NDT2D)

	r := bitstream.NewReader(w.Bytes())
	r.ReadBits(1)
	v1, _ := r.ReadBits(ndtBits(vrml.NDT2D, 1))
	v2, _ := r.ReadBits(ndtBits(vrml.NDT2D, 2))
	v3, _ := r.ReadBits(ndtBits(vrml.NDT2D, 3))
	if v1 != 0 || v2 != 0 || v3 != 2 {
		t.Errorf("codes = %d %d %d, want 0 0 2", v1, v2, v3)
	}

	got := roundTrip(t, testConfig(), og, vrml.NDT2D)
	assertSameTree(t, "OrderedGroup", og, got)
}

func TestDEFName(t *testing.T) {
	cfg := testConfig()
	cfg.UseNames = true
	// Decomposed e + combining acute accent.
	c := vrml.New(vrml.KindCircle).Def(3, "cafe\u0301")
	got := roundTrip(t, cfg, c, vrml.NDTGeometry)
	if got.Name() != "caf\u00e9" {
		t.Errorf("Name() = %q, want NFC form", got.Name())
	}
	if got.ID() != 3 {
		t.Errorf("ID() = %d", got.ID())
	}
}

func TestUnknownFieldType(t *testing.T) {
	e := NewEncoder(testConfig())
	w := bitstream.NewWriter()
	f := vrml.Field{FieldDef: vrml.FieldDef{Name: "x", Type: vrml.TypeUnknown}}
	if err := e.encodeField(w, vrml.New(vrml.KindGroup), f); !errors.Is(err, ErrNonCompliant) {
		t.Errorf("err = %v, want ErrNonCompliant", err)
	}
}

func TestEmptyString(t *testing.T) {
	e := NewEncoder(testConfig())
	w := bitstream.NewWriter()
	fd := vrml.FieldDef{Name: "title", Type: vrml.TypeSFString}
	if err := e.encodeSFField(w, nil, fd, vrml.SFString("")); err != nil {
		t.Fatal(err)
	}
	if w.BitLen() != 5 {
		t.Errorf("BitLen() = %d, want 5", w.BitLen())
	}
	d := NewDecoder(testConfig(), vrml.Builtin())
	v, err := d.decodeSFField(bitstream.NewReader(w.Bytes()), nil, fd)
	if err != nil || v != vrml.SFString("") {
		t.Errorf("decoded %q, %v", v, err)
	}
}

func TestStringEncoding(t *testing.T) {
	e := NewEncoder(testConfig())
	w := bitstream.NewWriter()
	fd := vrml.FieldDef{Name: "title", Type: vrml.TypeSFString}
	if err := e.encodeSFField(w, nil, fd, vrml.SFString("hello")); err != nil {
		t.Fatal(err)
	}
	// 5-bit width (3), 3-bit length (5), 5 bytes.
	if w.BitLen() != 5+3+40 {
		t.Errorf("BitLen() = %d", w.BitLen())
	}
}

func TestMFVectorOrList(t *testing.T) {
	tests := []struct {
		n          int
		wantVector bool
	}{
		{1, false},
		{4, false},
		{6, false},
		{8, true},
		{100, true},
	}
	for _, tt := range tests {
		if got := useVector(tt.n); got != tt.wantVector {
			t.Errorf("useVector(%d) = %v, want %v", tt.n, got, tt.wantVector)
		}
	}
}

func TestEmptyMFField(t *testing.T) {
	e := NewEncoder(testConfig())
	w := bitstream.NewWriter()
	f := vrml.Field{FieldDef: vrml.FieldDef{Type: vrml.TypeMFInt32}, Value: vrml.MFInt32{}}
	if err := e.encodeField(w, vrml.New(vrml.KindGroup), f); err != nil {
		t.Fatal(err)
	}
	// reserved=0, isList=1, end=1
	if w.BitLen() != 3 || w.Bytes()[0] != 0b01100000 {
		t.Errorf("empty MF = %08b (%d bits)", w.Bytes()[0], w.BitLen())
	}
}

func TestInvalidImage(t *testing.T) {
	tests := []struct {
		name string
		img  vrml.SFImage
	}{
		{"no components", vrml.SFImage{Width: 1, Height: 1}},
		{"five components", vrml.SFImage{Width: 1, Height: 1, Components: 5, Pixels: make([]byte, 5)}},
		{"short pixels", vrml.SFImage{Width: 2, Height: 2, Components: 1, Pixels: []byte{1}}},
		{"too wide", vrml.SFImage{Width: 4096, Height: 1, Components: 1, Pixels: make([]byte, 4096)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := node(vrml.KindPixelTexture, "image", tt.img)
			err := NewEncoder(testConfig()).EncodeNode(bitstream.NewWriter(), n, vrml.NDTTexture)
			if !errors.Is(err, ErrNonCompliant) {
				t.Errorf("err = %v, want ErrNonCompliant", err)
			}
		})
	}
}

func TestReset(t *testing.T) {
	e := NewEncoder(testConfig())
	c := vrml.New(vrml.KindCircle).Def(1, "")
	encode(t, e, c, vrml.NDTGeometry)
	e.Reset()
	w := encode(t, e, c, vrml.NDTGeometry)
	if use, _ := bitstream.NewReader(w.Bytes()).ReadBit(); use {
		t.Error("node still known after Reset")
	}
}

func TestWriteLengthLimit(t *testing.T) {
	w := bitstream.NewWriter()
	if err := writeLength(w, 1<<31-1); err != nil {
		t.Fatalf("31-bit length: %v", err)
	}
	if w.BitLen() != 5+31 {
		t.Errorf("BitLen() = %d, want 36", w.BitLen())
	}
	if err := writeLength(w, 1<<31); !errors.Is(err, ErrNonCompliant) {
		t.Errorf("32-bit length error = %v, want ErrNonCompliant", err)
	}
	if w.BitLen() != 5+31 {
		t.Errorf("rejected length was written: %d bits", w.BitLen())
	}
}

func TestAppendItemTypeMismatch(t *testing.T) {
	out, err := appendItem(vrml.MFFloat{1}, vrml.SFFloat(2))
	if err != nil || out.Len() != 2 {
		t.Fatalf("appendItem() = %v, %v", out, err)
	}
	out, err = appendItem(out, vrml.SFBool(true))
	if !errors.Is(err, ErrNonCompliant) {
		t.Fatalf("mismatched item error = %v, want ErrNonCompliant", err)
	}
	if out.Len() != 2 {
		t.Errorf("mismatched item was appended: Len() = %d", out.Len())
	}
}
