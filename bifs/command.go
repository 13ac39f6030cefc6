package bifs

import (
	"fmt"

	"github.com/gogpu/m4s/bitstream"
	"github.com/gogpu/m4s/vrml"
)

// Command codes and sub-types.
const (
	codeInsert  = 0
	codeDelete  = 1
	codeReplace = 2

	subtypeNode  = 0
	subtypeField = 1

	positionIndex = 0
	positionBegin = 2
	positionEnd   = 3
)

// commandCodec is the built-in node and field update command codec. Each
// command is followed by a bit telling whether another one follows.
type commandCodec struct{}

// EncodeCommands implements CommandEncoder.
func (commandCodec) EncodeCommands(e *Encoder, w *bitstream.Writer, cmds []vrml.Command) error {
	for i, c := range cmds {
		if err := encodeCommand(e, w, c); err != nil {
			return fmt.Errorf("%s: %w", c.Type, err)
		}
		w.WriteBit(i < len(cmds)-1)
	}
	return nil
}

func encodeCommand(e *Encoder, w *bitstream.Writer, c vrml.Command) error {
	if c.Target == nil || c.Target.ID() == 0 {
		return fmt.Errorf("target without ID: %w", ErrUnknownNode)
	}
	id := uint64(c.Target.ID() - 1)
	bits := e.cfg.NodeIDBits

	switch c.Type {
	case vrml.CmdNodeInsert:
		w.WriteBits(codeInsert, 2)
		w.WriteBits(subtypeNode, 2)
		w.WriteBits(id, bits)
		switch {
		case c.Position == vrml.InsertAtBegin:
			w.WriteBits(positionBegin, 2)
		case c.Position == vrml.InsertAtEnd:
			w.WriteBits(positionEnd, 2)
		case c.Position >= 0 && c.Position < 256:
			w.WriteBits(positionIndex, 2)
			w.WriteBits(uint64(c.Position), 8)
		default:
			return fmt.Errorf("insert position %d: %w", c.Position, ErrNonCompliant)
		}
		return e.EncodeNode(w, c.Node, vrml.NDTWorld)

	case vrml.CmdNodeDelete:
		w.WriteBits(codeDelete, 2)
		w.WriteBits(subtypeNode, 2)
		w.WriteBits(id, bits)
		return nil

	case vrml.CmdNodeReplace:
		w.WriteBits(codeReplace, 2)
		w.WriteBits(subtypeNode, 2)
		w.WriteBits(id, bits)
		return e.EncodeNode(w, c.Node, vrml.NDTWorld)

	case vrml.CmdFieldReplace:
		k := c.Target.Kind()
		in, ok := k.ModeIndex(c.Field, vrml.ModeIN)
		if !ok {
			return fmt.Errorf("%s field %d is not an input: %w", k.Name, c.Field, ErrNonCompliant)
		}
		w.WriteBits(codeReplace, 2)
		w.WriteBits(subtypeField, 2)
		w.WriteBits(id, bits)
		w.WriteBits(uint64(in), indexBits(k.FieldCount(vrml.ModeIN)))
		return e.EncodeField(w, c.Target, c.Field, c.Value)

	default:
		return fmt.Errorf("command type %d: %w", c.Type, ErrNonCompliant)
	}
}

// DecodeCommands implements CommandDecoder.
func (commandCodec) DecodeCommands(d *Decoder, r *bitstream.Reader) ([]vrml.Command, error) {
	var cmds []vrml.Command
	for {
		c, err := decodeCommand(d, r)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, c)
		more, err := r.ReadBit()
		if err != nil {
			return nil, err
		}
		if !more {
			return cmds, nil
		}
	}
}

func decodeCommand(d *Decoder, r *bitstream.Reader) (vrml.Command, error) {
	var c vrml.Command
	code, err := r.ReadBits(2)
	if err != nil {
		return c, err
	}
	sub, err := r.ReadBits(2)
	if err != nil {
		return c, err
	}
	id, err := r.ReadBits(d.cfg.NodeIDBits)
	if err != nil {
		return c, err
	}
	c.Target = d.FindNode(uint32(id) + 1)
	if c.Target == nil {
		return c, fmt.Errorf("command target %d: %w", id+1, ErrUnknownNode)
	}

	switch {
	case code == codeInsert && sub == subtypeNode:
		c.Type = vrml.CmdNodeInsert
		pos, err := r.ReadBits(2)
		if err != nil {
			return c, err
		}
		switch pos {
		case positionBegin:
			c.Position = vrml.InsertAtBegin
		case positionEnd:
			c.Position = vrml.InsertAtEnd
		case positionIndex:
			p, err := r.ReadBits(8)
			if err != nil {
				return c, err
			}
			c.Position = int(p)
		default:
			return c, fmt.Errorf("insert position code %d: %w", pos, ErrNonCompliant)
		}
		c.Node, err = d.DecodeNode(r, vrml.NDTWorld)
		return c, err

	case code == codeDelete && sub == subtypeNode:
		c.Type = vrml.CmdNodeDelete
		return c, nil

	case code == codeReplace && sub == subtypeNode:
		c.Type = vrml.CmdNodeReplace
		c.Node, err = d.DecodeNode(r, vrml.NDTWorld)
		return c, err

	case code == codeReplace && sub == subtypeField:
		c.Type = vrml.CmdFieldReplace
		k := c.Target.Kind()
		in, err := r.ReadBits(indexBits(k.FieldCount(vrml.ModeIN)))
		if err != nil {
			return c, err
		}
		all, ok := k.AllIndex(int(in), vrml.ModeIN)
		if !ok {
			return c, fmt.Errorf("%s input field %d: %w", k.Name, in, ErrNonCompliant)
		}
		c.Field = all
		c.Value, err = d.DecodeField(r, c.Target, all)
		return c, err

	default:
		return c, fmt.Errorf("command %d/%d: %w", code, sub, ErrNonCompliant)
	}
}
