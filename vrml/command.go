package vrml

// CommandType is the kind of a scene update command.
type CommandType uint8

// Scene update commands.
const (
	CmdNodeInsert CommandType = iota
	CmdNodeDelete
	CmdFieldReplace
	CmdNodeReplace
)

// String returns the command name.
func (c CommandType) String() string {
	switch c {
	case CmdNodeInsert:
		return "NodeInsert"
	case CmdNodeDelete:
		return "NodeDelete"
	case CmdFieldReplace:
		return "FieldReplace"
	case CmdNodeReplace:
		return "NodeReplace"
	default:
		return "Unknown"
	}
}

// Insertion positions for CmdNodeInsert besides an explicit child index.
const (
	InsertAtBegin = -2
	InsertAtEnd   = -1
)

// Command is a scene update. Target must be a DEF'd node.
type Command struct {
	Type   CommandType
	Target Node

	// Field is the ALL index of the replaced field (CmdFieldReplace).
	Field int

	// Value is the new field value (CmdFieldReplace).
	Value Value

	// Node is the inserted or replacing node (CmdNodeInsert, CmdNodeReplace).
	Node Node

	// Position is the child index for CmdNodeInsert, or InsertAtBegin /
	// InsertAtEnd.
	Position int
}
