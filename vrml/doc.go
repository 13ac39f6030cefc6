// Package vrml models the VRML/MPEG-4 scene-graph field system consumed by
// the BIFS codec.
//
// It provides the closed set of field types and their native Go value
// types, node kinds described by field tables, a reflective node
// implementation (Generic), user-defined templates (Proto), IS bindings
// (Route) and scene update commands (Command).
//
// Field values are treated as immutable: SetField replaces a value, it
// never mutates the one previously stored.
package vrml
