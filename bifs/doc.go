// Package bifs encodes VRML/MPEG-4 scene nodes into the BIFS binary format.
//
// An Encoder is one encoding session: it remembers which DEF'd nodes were
// already written (so that later references become USE backreferences),
// the active QuantizationParameter scopes and the proto whose body is
// being encoded. A Decoder mirrors the Encoder bit for bit.
//
// Encoding a node writes, in order:
//
//	USE flag (1)
//	  USE: node ID (Config.NodeIDBits)
//	  DEF: node type (per version) [proto ID] DEF flag [ID [name]] field set
//
// The field set is either a mask (one presence bit per candidate field) or
// a list of (continue, index) pairs closed by an end bit, whichever is
// shorter. Fields equal to the kind's default are not written.
//
// Sessions are not safe for concurrent use; independent sessions may run
// in parallel.
package bifs
