package vrml

import (
	"errors"
	"fmt"
)

// Errors returned by node field access.
var (
	// ErrFieldIndex is returned for a field index outside the node kind.
	ErrFieldIndex = errors.New("vrml: field index out of range")

	// ErrFieldType is returned when a value does not match the field type.
	ErrFieldType = errors.New("vrml: field type mismatch")

	// ErrFieldName is returned for an unknown field name.
	ErrFieldName = errors.New("vrml: unknown field name")
)

// Tag identifies a node kind.
type Tag uint16

// TagProto is the tag shared by all proto instances.
const TagProto Tag = 0xFFFF

// FieldDef describes one field of a node kind.
type FieldDef struct {
	Name    string
	Type    FieldType
	Event   EventType
	Default Value

	// NDT constrains the node kinds legal in a node-valued field.
	NDT NDT

	// Quant selects the quantization rule for numeric fields.
	Quant QuantCategory
}

// Kind describes a node kind: its tag, name and fields in ALL order.
type Kind struct {
	Tag    Tag
	Name   string
	Fields []FieldDef

	proto *Proto
}

// Proto returns the template a proto instance kind was created from, or
// nil for built-in kinds.
func (k *Kind) Proto() *Proto {
	return k.proto
}

// FieldCount returns the number of fields numbered in mode.
func (k *Kind) FieldCount(mode IndexMode) int {
	if mode == ModeALL {
		return len(k.Fields)
	}
	n := 0
	for i := range k.Fields {
		if mode.includes(k.Fields[i].Event) {
			n++
		}
	}
	return n
}

// AllIndex converts a field index in mode to its ALL index.
func (k *Kind) AllIndex(index int, mode IndexMode) (int, bool) {
	if index < 0 {
		return 0, false
	}
	if mode == ModeALL {
		return index, index < len(k.Fields)
	}
	for i := range k.Fields {
		if !mode.includes(k.Fields[i].Event) {
			continue
		}
		if index == 0 {
			return i, true
		}
		index--
	}
	return 0, false
}

// ModeIndex converts an ALL field index to its index in mode. It returns
// false when the field is not numbered in mode.
func (k *Kind) ModeIndex(all int, mode IndexMode) (int, bool) {
	if all < 0 || all >= len(k.Fields) {
		return 0, false
	}
	if mode == ModeALL {
		return all, true
	}
	if !mode.includes(k.Fields[all].Event) {
		return 0, false
	}
	n := 0
	for i := 0; i < all; i++ {
		if mode.includes(k.Fields[i].Event) {
			n++
		}
	}
	return n, true
}

// FieldIndex returns the ALL index of the field called name.
func (k *Kind) FieldIndex(name string) (int, bool) {
	for i := range k.Fields {
		if k.Fields[i].Name == name {
			return i, true
		}
	}
	return 0, false
}

// Node is a scene-graph node as seen by the codec.
type Node interface {
	// Kind returns the node kind.
	Kind() *Kind

	// ID returns the persistent identity introduced by DEF, or 0.
	ID() uint32

	// Name returns the DEF name, if any.
	Name() string

	// Field returns the value of the field at ALL index i.
	Field(i int) Value
}

// Field is a resolved field descriptor: definition, ALL index and current
// value.
type Field struct {
	FieldDef
	Index int
	Value Value
}

// FieldCount returns the number of fields of n numbered in mode.
func FieldCount(n Node, mode IndexMode) int {
	return n.Kind().FieldCount(mode)
}

// GetField returns the descriptor of field index in mode.
func GetField(n Node, index int, mode IndexMode) (Field, error) {
	k := n.Kind()
	all, ok := k.AllIndex(index, mode)
	if !ok {
		return Field{}, fmt.Errorf("%s field %d: %w", k.Name, index, ErrFieldIndex)
	}
	return Field{FieldDef: k.Fields[all], Index: all, Value: n.Field(all)}, nil
}

// NewDefault returns a default-valued node of the same kind as n.
// Proto instances get the defaults declared by their template.
func NewDefault(n Node) Node {
	return New(n.Kind())
}

// Generic is a node whose fields are stored in a slice indexed by ALL
// index. It implements Node for every kind.
type Generic struct {
	kind   *Kind
	id     uint32
	name   string
	values []Value
}

// New returns a node of kind k with every field set to its default.
func New(k *Kind) *Generic {
	g := &Generic{kind: k, values: make([]Value, len(k.Fields))}
	for i, f := range k.Fields {
		if f.Default != nil {
			g.values[i] = f.Default
		} else {
			g.values[i] = Zero(f.Type)
		}
	}
	return g
}

// Kind returns the node kind.
func (g *Generic) Kind() *Kind { return g.kind }

// ID returns the DEF identity, 0 when the node is not DEF'd.
func (g *Generic) ID() uint32 { return g.id }

// Name returns the DEF name.
func (g *Generic) Name() string { return g.name }

// Field returns the value at ALL index i, or nil when i is out of range.
func (g *Generic) Field(i int) Value {
	if i < 0 || i >= len(g.values) {
		return nil
	}
	return g.values[i]
}

// Def gives the node a persistent identity and an optional name.
func (g *Generic) Def(id uint32, name string) *Generic {
	g.id = id
	g.name = name
	return g
}

// SetField replaces the value at ALL index i.
func (g *Generic) SetField(i int, v Value) error {
	if i < 0 || i >= len(g.values) {
		return fmt.Errorf("%s field %d: %w", g.kind.Name, i, ErrFieldIndex)
	}
	if v == nil || v.Type() != g.kind.Fields[i].Type {
		return fmt.Errorf("%s.%s: %w", g.kind.Name, g.kind.Fields[i].Name, ErrFieldType)
	}
	g.values[i] = v
	return nil
}

// Set replaces the value of the field called name.
func (g *Generic) Set(name string, v Value) error {
	i, ok := g.kind.FieldIndex(name)
	if !ok {
		return fmt.Errorf("%s.%s: %w", g.kind.Name, name, ErrFieldName)
	}
	return g.SetField(i, v)
}

// MustSet is like Set but panics on error. It is intended for building
// scenes in code.
func (g *Generic) MustSet(name string, v Value) *Generic {
	if err := g.Set(name, v); err != nil {
		panic(err)
	}
	return g
}
