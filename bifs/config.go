package bifs

import (
	"github.com/gogpu/m4s/bitstream"
	"github.com/gogpu/m4s/vrml"
)

// Config mirrors the BIFS decoder configuration carried in the stream
// header.
type Config struct {
	// NodeIDBits is the width of DEF/USE node IDs.
	NodeIDBits int

	// ProtoIDBits is the width of proto IDs.
	ProtoIDBits int

	// UseNames writes DEF names after node IDs.
	UseNames bool

	// UsePredictiveMFField adds the predictive-coding flag before every
	// multi-valued field. Predictive coding itself is never used.
	UsePredictiveMFField bool
}

// DefaultConfig returns the configuration used by most MPEG-4 systems
// encoders: 10-bit node and proto IDs, no names.
func DefaultConfig() Config {
	return Config{NodeIDBits: 10, ProtoIDBits: 10}
}

// CommandEncoder writes the scene update commands of a command buffer.
type CommandEncoder interface {
	EncodeCommands(e *Encoder, w *bitstream.Writer, cmds []vrml.Command) error
}

// CommandDecoder reads the commands written by a CommandEncoder.
type CommandDecoder interface {
	DecodeCommands(d *Decoder, r *bitstream.Reader) ([]vrml.Command, error)
}

// ScriptEncoder writes one SFScript value of node.
type ScriptEncoder interface {
	EncodeScript(w *bitstream.Writer, node vrml.Node, src vrml.SFScript) error
}

// ScriptDecoder reads one SFScript value of node.
type ScriptDecoder interface {
	DecodeScript(r *bitstream.Reader, node vrml.Node) (vrml.SFScript, error)
}

// NodeFinder resolves node IDs DEF'd outside the current session, such as
// in earlier access units of the same scene.
type NodeFinder interface {
	FindNode(id uint32) vrml.Node
}

// Option configures an Encoder or a Decoder.
type Option func(*options)

type options struct {
	commands   CommandEncoder
	commandsIn CommandDecoder
	scripts    ScriptEncoder
	scriptsIn  ScriptDecoder
	graph      NodeFinder
}

func defaultOptions() options {
	return options{
		commands:   commandCodec{},
		commandsIn: commandCodec{},
	}
}

// WithCommandEncoder replaces the built-in scene update command encoder.
func WithCommandEncoder(c CommandEncoder) Option {
	return func(o *options) {
		o.commands = c
	}
}

// WithCommandDecoder replaces the built-in scene update command decoder.
func WithCommandDecoder(c CommandDecoder) Option {
	return func(o *options) {
		o.commandsIn = c
	}
}

// WithScriptEncoder enables SFScript fields.
func WithScriptEncoder(s ScriptEncoder) Option {
	return func(o *options) {
		o.scripts = s
	}
}

// WithScriptDecoder enables SFScript fields when decoding.
func WithScriptDecoder(s ScriptDecoder) Option {
	return func(o *options) {
		o.scriptsIn = s
	}
}

// WithSceneGraph resolves USE references to nodes DEF'd outside the
// session.
func WithSceneGraph(g NodeFinder) Option {
	return func(o *options) {
		o.graph = g
	}
}
