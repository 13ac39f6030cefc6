package bifs

import (
	"errors"
	"testing"

	"github.com/gogpu/m4s/bitstream"
	"github.com/gogpu/m4s/vrml"
)

func TestCommandBufferRoundTrip(t *testing.T) {
	tr := translated(1, 2).Def(2, "")
	target := vrml.New(vrml.KindGroup).Def(1, "")
	translationField, _ := vrml.KindTransform2D.FieldIndex("translation")
	cmds := []vrml.Command{
		{Type: vrml.CmdNodeInsert, Target: target, Position: vrml.InsertAtEnd,
			Node: node(vrml.KindShape, "geometry", vrml.SFNode{Node: vrml.New(vrml.KindCircle)})},
		{Type: vrml.CmdNodeInsert, Target: target, Position: 3, Node: vrml.New(vrml.KindWorldInfo)},
		{Type: vrml.CmdNodeInsert, Target: target, Position: vrml.InsertAtBegin, Node: nil},
		{Type: vrml.CmdFieldReplace, Target: tr, Field: translationField, Value: vrml.SFVec2f{X: 5, Y: 6}},
		{Type: vrml.CmdNodeReplace, Target: tr, Node: translated(7, 8)},
		{Type: vrml.CmdNodeDelete, Target: tr},
	}
	cond := node(vrml.KindConditional, "buffer", vrml.SFCommandBuffer{Commands: cmds}).Def(3, "")
	target.MustSet("children", vrml.MFNode{tr, cond})

	got := roundTrip(t, testConfig(), target, vrml.NDTTop)
	gotTr := got.Field(2).(vrml.MFNode)[0]
	gotCond := got.Field(2).(vrml.MFNode)[1]
	bufIndex, _ := vrml.KindConditional.FieldIndex("buffer")
	gotCmds := gotCond.Field(bufIndex).(vrml.SFCommandBuffer).Commands
	if len(gotCmds) != len(cmds) {
		t.Fatalf("decoded %d commands, want %d", len(gotCmds), len(cmds))
	}

	wantTargets := []vrml.Node{got, got, got, gotTr, gotTr, gotTr}
	for i, c := range gotCmds {
		if c.Type != cmds[i].Type {
			t.Errorf("command %d type = %s, want %s", i, c.Type, cmds[i].Type)
		}
		if c.Target != wantTargets[i] {
			t.Errorf("command %d target = %v", i, c.Target)
		}
		if c.Position != cmds[i].Position {
			t.Errorf("command %d position = %d, want %d", i, c.Position, cmds[i].Position)
		}
		assertSameTree(t, c.Type.String(), cmds[i].Node, c.Node)
	}
	if v := gotCmds[3].Value; gotCmds[3].Field != translationField || v != (vrml.SFVec2f{X: 5, Y: 6}) {
		t.Errorf("field replace = %d %v", gotCmds[3].Field, v)
	}
}

func TestCommandErrors(t *testing.T) {
	tr := translated(1, 2).Def(2, "")
	children, _ := vrml.KindTransform2D.FieldIndex("children")
	tests := []struct {
		name string
		cmd  vrml.Command
		want error
	}{
		{"target without ID", vrml.Command{Type: vrml.CmdNodeDelete, Target: vrml.New(vrml.KindGroup)}, ErrUnknownNode},
		{"nil target", vrml.Command{Type: vrml.CmdNodeDelete}, ErrUnknownNode},
		{"bad position", vrml.Command{Type: vrml.CmdNodeInsert, Target: tr, Position: 300}, ErrNonCompliant},
		{"value type", vrml.Command{Type: vrml.CmdFieldReplace, Target: tr, Field: children, Value: vrml.SFBool(true)}, ErrNonCompliant},
		{"output field", vrml.Command{Type: vrml.CmdFieldReplace, Target: vrml.New(vrml.KindTimeSensor).Def(4, ""), Field: 6, Value: vrml.SFFloat(1)}, ErrNonCompliant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEncoder(testConfig())
			err := commandCodec{}.EncodeCommands(e, bitstream.NewWriter(), []vrml.Command{tt.cmd})
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUnknownCommandTarget(t *testing.T) {
	tr := translated(1, 2).Def(2, "")
	w := bitstream.NewWriter()
	err := commandCodec{}.EncodeCommands(NewEncoder(testConfig()), w, []vrml.Command{{Type: vrml.CmdNodeDelete, Target: tr}})
	if err != nil {
		t.Fatal(err)
	}
	d := NewDecoder(testConfig(), vrml.Builtin())
	if _, err := (commandCodec{}).DecodeCommands(d, bitstream.NewReader(w.Bytes())); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("err = %v, want ErrUnknownNode", err)
	}
}

type failingCommands struct{}

var errBoom = errors.New("boom")

func (failingCommands) EncodeCommands(*Encoder, *bitstream.Writer, []vrml.Command) error {
	return errBoom
}

func TestCommandEncoderErrorPropagates(t *testing.T) {
	cond := node(vrml.KindConditional, "buffer", vrml.SFCommandBuffer{Commands: []vrml.Command{{}}})
	err := NewEncoder(testConfig(), WithCommandEncoder(failingCommands{})).
		EncodeNode(bitstream.NewWriter(), cond, vrml.NDT2D)
	if !errors.Is(err, errBoom) {
		t.Errorf("err = %v, want wrapped errBoom", err)
	}
}
