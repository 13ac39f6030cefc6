package bifs

import "errors"

// Sentinel errors. Encoding functions wrap them with context; match with
// errors.Is.
var (
	// ErrNonCompliant reports a field type or value the format cannot carry.
	ErrNonCompliant = errors.New("bifs: non-compliant bitstream")

	// ErrUnknownNode reports a USE of a node ID that was never DEF'd.
	ErrUnknownNode = errors.New("bifs: unknown node")

	// ErrUnknownVersion reports a node kind absent from every format
	// version for the requested node data type.
	ErrUnknownVersion = errors.New("bifs: unknown version")

	// ErrScriptUnsupported is returned for script fields when no script
	// codec is configured.
	ErrScriptUnsupported = errors.New("bifs: script coding not supported")

	// ErrUnknownProto reports a proto ID with no registered template.
	ErrUnknownProto = errors.New("bifs: unknown proto")
)
