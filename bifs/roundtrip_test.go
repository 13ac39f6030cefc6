package bifs

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gogpu/m4s/bitstream"
	"github.com/gogpu/m4s/vrml"
)

func testScene() *vrml.Generic {
	material := node(vrml.KindMaterial2D,
		"emissiveColor", vrml.SFColor{R: 1, G: 0.5, B: 0},
		"filled", vrml.SFBool(true),
	)
	rect := node(vrml.KindRectangle, "size", vrml.SFVec2f{X: 40, Y: 20})
	shape := node(vrml.KindShape,
		"appearance", vrml.SFNode{Node: node(vrml.KindAppearance,
			"material", vrml.SFNode{Node: material},
			"texture", vrml.SFNode{Node: node(vrml.KindImageTexture,
				"url", vrml.MFURL{{ODID: 12}, {URL: "http://example.com/a.png"}},
				"repeatS", vrml.SFBool(false),
			)},
		)},
		"geometry", vrml.SFNode{Node: rect},
	).Def(2, "")
	tr := node(vrml.KindTransform2D,
		"translation", vrml.SFVec2f{X: 10, Y: -5},
		"rotationAngle", vrml.SFFloat(0.25),
		"children", vrml.MFNode{shape},
	)
	pixels := node(vrml.KindPixelTexture, "image", vrml.SFImage{
		Width: 2, Height: 1, Components: 3, Pixels: []byte{1, 2, 3, 4, 5, 6},
	})
	return node(vrml.KindGroup, "children", vrml.MFNode{
		node(vrml.KindWorldInfo,
			"title", vrml.SFString("demo"),
			"info", vrml.MFString{"a", "", "long info string"},
		),
		tr,
		node(vrml.KindTransform2D, "children", vrml.MFNode{shape}),
		node(vrml.KindTimeSensor,
			"cycleInterval", vrml.SFTime(2.5),
			"loop", vrml.SFBool(true),
		),
		node(vrml.KindShape,
			"appearance", vrml.SFNode{Node: node(vrml.KindAppearance, "texture", vrml.SFNode{Node: pixels})},
			"geometry", vrml.SFNode{Node: node(vrml.KindCircle, "radius", vrml.SFFloat(7))},
		),
	}).Def(1, "")
}

func TestSceneRoundTrip(t *testing.T) {
	scene := testScene()
	got := roundTrip(t, testConfig(), scene, vrml.NDTTop)
	assertSameTree(t, "Group", scene, got)

	// The shape is DEF'd once and USE'd in the second transform.
	children := got.Field(2).(vrml.MFNode)
	first := children[1].Field(2).(vrml.MFNode)[0]
	second := children[2].Field(2).(vrml.MFNode)[0]
	if first != second {
		t.Error("USE'd shape decoded as a copy")
	}
}

func TestDefaultFieldsAbsent(t *testing.T) {
	// A node with every field at its default encodes the same as a fresh
	// node, and decodes to defaults.
	explicit := node(vrml.KindTransform2D, "scale", vrml.SFVec2f{X: 1, Y: 1})
	a := encode(t, NewEncoder(testConfig()), explicit, vrml.NDT2D)
	b := encode(t, NewEncoder(testConfig()), vrml.New(vrml.KindTransform2D), vrml.NDT2D)
	if !bytes.Equal(a.Bytes(), b.Bytes()) || a.BitLen() != b.BitLen() {
		t.Errorf("default-valued field was written: %x vs %x", a.Bytes(), b.Bytes())
	}
}

func TestPredictiveFlag(t *testing.T) {
	cfg := testConfig()
	cfg.UsePredictiveMFField = true
	scene := testScene()
	got := roundTrip(t, cfg, scene, vrml.NDTTop)
	assertSameTree(t, "Group", scene, got)

	plain := encode(t, NewEncoder(testConfig()), testScene(), vrml.NDTTop)
	flagged := encode(t, NewEncoder(cfg), testScene(), vrml.NDTTop)
	if flagged.BitLen() <= plain.BitLen() {
		t.Errorf("predictive flags missing: %d <= %d bits", flagged.BitLen(), plain.BitLen())
	}
}

func TestLongMFUsesVector(t *testing.T) {
	coords := make(vrml.MFVec2f, 20)
	for i := range coords {
		coords[i] = vrml.SFVec2f{X: float32(i), Y: float32(-i)}
	}
	c := node(vrml.KindCoordinate2D, "point", coords)
	got := roundTrip(t, testConfig(), c, vrml.NDTCoordinate2D)
	assertSameTree(t, "Coordinate2D", c, got)
}

func TestProtoInstance(t *testing.T) {
	p := vrml.NewProto(17, "Button",
		vrml.FieldDef{Name: "label", Type: vrml.TypeSFString, Event: vrml.EventExposedField, Default: vrml.SFString("ok")},
		vrml.FieldDef{Name: "size", Type: vrml.TypeSFVec2f, Event: vrml.EventField, Default: vrml.SFVec2f{X: 1, Y: 1}},
		vrml.FieldDef{Name: "pressed", Type: vrml.TypeSFBool, Event: vrml.EventOut},
	)
	inst := p.Instance().MustSet("label", vrml.SFString("cancel"))

	w := encode(t, NewEncoder(testConfig()), inst, vrml.NDT2D)
	r := bitstream.NewReader(w.Bytes())
	r.ReadBits(1)
	v1, _ := r.ReadBits(ndtBits(vrml.NDT2D, 1))
	v2, _ := r.ReadBits(ndtBits(vrml.NDT2D, 2))
	id, _ := r.ReadBits(10)
	if v1 != 0 || v2 != protoCode || id != 17 {
		t.Errorf("proto header = %d %d %d", v1, v2, id)
	}

	got := roundTrip(t, testConfig(), inst, vrml.NDT2D, p)
	if got.Kind().Proto() != p {
		t.Fatal("decoded node is not an instance of the proto")
	}
	assertSameTree(t, "Button", inst, got)

	d := NewDecoder(testConfig(), vrml.Builtin())
	if _, err := d.DecodeNode(bitstream.NewReader(w.Bytes()), vrml.NDT2D); !errors.Is(err, ErrUnknownProto) {
		t.Errorf("err = %v, want ErrUnknownProto", err)
	}
}

func buttonProto(id uint32) *vrml.Proto {
	return vrml.NewProto(id, "Box",
		vrml.FieldDef{Name: "size", Type: vrml.TypeSFVec2f, Event: vrml.EventExposedField, Default: vrml.SFVec2f{X: 4, Y: 4}},
		vrml.FieldDef{Name: "touched", Type: vrml.TypeSFBool, Event: vrml.EventOut},
	)
}

func TestProtoBody(t *testing.T) {
	p := buttonProto(3)
	rect := vrml.New(vrml.KindRectangle)
	sensor := vrml.New(vrml.KindTouchSensor).MustSet("enabled", vrml.SFBool(false))
	shape := node(vrml.KindShape, "geometry", vrml.SFNode{Node: rect})
	p.IS(0, rect, 0)
	isActive, _ := vrml.KindTouchSensor.FieldIndex("isActive")
	p.IS(1, sensor, isActive)
	p.Body = []vrml.Node{shape, sensor}

	w := bitstream.NewWriter()
	if err := NewEncoder(testConfig()).EncodeProtoBody(w, p); err != nil {
		t.Fatalf("EncodeProtoBody: %v", err)
	}

	q := buttonProto(3)
	r := bitstream.NewReader(w.Bytes())
	if err := NewDecoder(testConfig(), vrml.Builtin()).DecodeProtoBody(r, q); err != nil {
		t.Fatalf("DecodeProtoBody: %v", err)
	}
	if r.BitPos() != w.BitLen() {
		t.Errorf("decoder consumed %d bits, encoder wrote %d", r.BitPos(), w.BitLen())
	}
	if len(q.Body) != 2 {
		t.Fatalf("body has %d nodes", len(q.Body))
	}
	gotRect := q.Body[0].Field(1).(vrml.SFNode).Node
	if gotRect == nil || gotRect.Kind() != vrml.KindRectangle {
		t.Fatalf("geometry = %v", gotRect)
	}
	if is, ok := q.FindIS(gotRect, 0); !ok || is.ProtoField(gotRect) != 0 {
		t.Errorf("rectangle size not bound to proto field 0")
	}
	gotSensor := q.Body[1]
	if is, ok := q.FindIS(gotSensor, isActive); !ok || is.ProtoField(gotSensor) != 1 {
		t.Errorf("sensor isActive not bound to proto field 1")
	}
	if gotSensor.Field(0) != vrml.SFBool(false) {
		t.Errorf("sensor enabled = %v", gotSensor.Field(0))
	}
}

func TestFDPForcesList(t *testing.T) {
	fdp := node(vrml.KindFDP,
		"featurePointsCoord", vrml.SFNode{Node: node(vrml.KindCoordinate, "point", vrml.MFVec3f{{X: 1, Y: 2, Z: 3}})},
		"textureCoord", vrml.SFNode{Node: node(vrml.KindCoordinate2D, "point", vrml.MFVec2f{{X: 1, Y: 1}})},
		"faceDefTables", vrml.MFNode{vrml.New(vrml.KindWorldInfo)},
		"faceSceneGraph", vrml.MFNode{node(vrml.KindTransform2D, "rotationAngle", vrml.SFFloat(1))},
		"useOrthoTexture", vrml.SFBool(true),
	)
	w := encode(t, NewEncoder(testConfig()), fdp, vrml.NDTWorld)
	r := bitstream.NewReader(w.Bytes())
	// USE, 5 escape bits at version 1, 2-bit code at version 2, DEF.
	r.ReadBits(1 + ndtBits(vrml.NDTWorld, 1) + ndtBits(vrml.NDTWorld, 2) + 1)
	if mask, _ := r.ReadBit(); mask {
		t.Error("FDP written as mask")
	}
	// First two entries are DEF fields 0 and 1, then 3 before 2.
	var order []uint64
	for i := 0; i < 4; i++ {
		end, _ := r.ReadBit()
		if end {
			t.Fatal("list ended early")
		}
		idx, _ := r.ReadBits(3)
		order = append(order, idx)
		if i < 3 {
			skip := NewDecoder(testConfig(), vrml.Builtin())
			if _, err := skip.DecodeField(r, fdp, int(idx)); err != nil {
				t.Fatalf("skip field %d: %v", idx, err)
			}
		}
	}
	want := []uint64{0, 1, 3, 2}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("field order = %v, want %v", order, want)
		}
	}

	got := roundTrip(t, testConfig(), fdp, vrml.NDTWorld)
	assertSameTree(t, "FDP", fdp, got)
}

type stringScripts struct{}

func (stringScripts) EncodeScript(w *bitstream.Writer, _ vrml.Node, src vrml.SFScript) error {
	return writeString(w, string(src))
}

func (stringScripts) DecodeScript(r *bitstream.Reader, _ vrml.Node) (vrml.SFScript, error) {
	s, err := readString(r)
	return vrml.SFScript(s), err
}

func TestScriptFieldCount(t *testing.T) {
	speed := vrml.FieldDef{Name: "speed", Type: vrml.TypeSFFloat, Event: vrml.EventField}
	extended := vrml.New(vrml.NewScriptKind(speed)).
		MustSet("directOutput", vrml.SFBool(true)).
		MustSet("speed", vrml.SFFloat(9))
	plain := node(vrml.KindScript, "directOutput", vrml.SFBool(true))

	a := encode(t, NewEncoder(testConfig()), extended, vrml.NDT2D)
	b := encode(t, NewEncoder(testConfig()), plain, vrml.NDT2D)
	if !bytes.Equal(a.Bytes(), b.Bytes()) || a.BitLen() != b.BitLen() {
		t.Error("script fields beyond the first three were written")
	}
}

func TestScriptCodec(t *testing.T) {
	s := node(vrml.KindScript, "url", vrml.MFScript{"javascript:function f() {}"})

	err := NewEncoder(testConfig()).EncodeNode(bitstream.NewWriter(), s, vrml.NDT2D)
	if !errors.Is(err, ErrScriptUnsupported) {
		t.Fatalf("err = %v, want ErrScriptUnsupported", err)
	}

	w := bitstream.NewWriter()
	if err := NewEncoder(testConfig(), WithScriptEncoder(stringScripts{})).EncodeNode(w, s, vrml.NDT2D); err != nil {
		t.Fatal(err)
	}
	d := NewDecoder(testConfig(), vrml.Builtin(), WithScriptDecoder(stringScripts{}))
	got, err := d.DecodeNode(bitstream.NewReader(w.Bytes()), vrml.NDT2D)
	if err != nil {
		t.Fatal(err)
	}
	assertSameTree(t, "Script", s, got)
}
