package vrml

// Proto is a user-defined node template. Its interface fields become the
// fields of every instance; IS bindings connect interface fields to fields
// of nodes in the body.
type Proto struct {
	ID   uint32
	Name string

	// Body holds the top-level nodes of the template.
	Body []Node

	kind   *Kind
	routes []Route
}

// NewProto returns a template with the given interface fields.
func NewProto(id uint32, name string, fields ...FieldDef) *Proto {
	p := &Proto{ID: id, Name: name}
	p.kind = &Kind{Tag: TagProto, Name: name, Fields: fields, proto: p}
	return p
}

// Kind returns the node kind shared by all instances of p.
func (p *Proto) Kind() *Kind {
	return p.kind
}

// Instance returns a new instance with every interface field at its
// declared default.
func (p *Proto) Instance() *Generic {
	return New(p.kind)
}

// IS binds interface field protoField to field nodeField of node, both as
// ALL indices. Event-out fields of the body flow to the interface, all
// other fields receive the interface value.
func (p *Proto) IS(protoField int, node Node, nodeField int) {
	r := Route{IS: true}
	if node.Kind().Fields[nodeField].Event == EventOut {
		r.FromNode, r.FromField = node, nodeField
		r.ToField = protoField
	} else {
		r.FromField = protoField
		r.ToNode, r.ToField = node, nodeField
	}
	p.routes = append(p.routes, r)
}

// FindIS returns the IS binding of field (ALL index) of node, if any.
func (p *Proto) FindIS(node Node, field int) (Route, bool) {
	for _, r := range p.routes {
		if !r.IS {
			continue
		}
		if (r.ToNode == node && r.ToField == field) || (r.FromNode == node && r.FromField == field) {
			return r, true
		}
	}
	return Route{}, false
}

// Route connects an event source field to a destination field. In an IS
// binding the interface side has a nil node and its field index refers to
// the proto interface.
type Route struct {
	FromNode  Node
	FromField int
	ToNode    Node
	ToField   int
	IS        bool
}

// ProtoField returns the interface field index of an IS binding for node.
func (r Route) ProtoField(node Node) int {
	if r.ToNode == node {
		return r.FromField
	}
	return r.ToField
}
