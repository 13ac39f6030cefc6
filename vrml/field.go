package vrml

// FieldType identifies the type of a node field.
// Single-valued types (SF) and their multi-valued (MF) counterparts are
// paired: MF types are the SF type plus mfOffset.
type FieldType uint8

const mfOffset = 32

// Field type constants.
const (
	TypeSFBool FieldType = iota
	TypeSFFloat
	TypeSFTime
	TypeSFInt32
	TypeSFString
	TypeSFVec3f
	TypeSFVec2f
	TypeSFColor
	TypeSFRotation
	TypeSFImage
	TypeSFNode
	TypeSFURL
	TypeSFCommandBuffer
	TypeSFScript

	TypeMFBool     = TypeSFBool + mfOffset
	TypeMFFloat    = TypeSFFloat + mfOffset
	TypeMFTime     = TypeSFTime + mfOffset
	TypeMFInt32    = TypeSFInt32 + mfOffset
	TypeMFString   = TypeSFString + mfOffset
	TypeMFVec3f    = TypeSFVec3f + mfOffset
	TypeMFVec2f    = TypeSFVec2f + mfOffset
	TypeMFColor    = TypeSFColor + mfOffset
	TypeMFRotation = TypeSFRotation + mfOffset
	TypeMFNode     = TypeSFNode + mfOffset
	TypeMFURL      = TypeSFURL + mfOffset
	TypeMFScript   = TypeSFScript + mfOffset

	// TypeUnknown marks an unrecognized field type.
	TypeUnknown FieldType = 0xFF
)

// IsSF returns true for single-valued field types.
func (t FieldType) IsSF() bool {
	return t < mfOffset
}

// SF returns the single-valued type of an MF type. SF types are returned
// unchanged.
func (t FieldType) SF() FieldType {
	if t == TypeUnknown || t.IsSF() {
		return t
	}
	return t - mfOffset
}

// IsNode returns true for SFNode and MFNode.
func (t FieldType) IsNode() bool {
	return t == TypeSFNode || t == TypeMFNode
}

// String returns the VRML name of the field type.
func (t FieldType) String() string {
	switch t {
	case TypeSFBool:
		return "SFBool"
	case TypeSFFloat:
		return "SFFloat"
	case TypeSFTime:
		return "SFTime"
	case TypeSFInt32:
		return "SFInt32"
	case TypeSFString:
		return "SFString"
	case TypeSFVec3f:
		return "SFVec3f"
	case TypeSFVec2f:
		return "SFVec2f"
	case TypeSFColor:
		return "SFColor"
	case TypeSFRotation:
		return "SFRotation"
	case TypeSFImage:
		return "SFImage"
	case TypeSFNode:
		return "SFNode"
	case TypeSFURL:
		return "SFURL"
	case TypeSFCommandBuffer:
		return "SFCommandBuffer"
	case TypeSFScript:
		return "SFScript"
	case TypeMFBool:
		return "MFBool"
	case TypeMFFloat:
		return "MFFloat"
	case TypeMFTime:
		return "MFTime"
	case TypeMFInt32:
		return "MFInt32"
	case TypeMFString:
		return "MFString"
	case TypeMFVec3f:
		return "MFVec3f"
	case TypeMFVec2f:
		return "MFVec2f"
	case TypeMFColor:
		return "MFColor"
	case TypeMFRotation:
		return "MFRotation"
	case TypeMFNode:
		return "MFNode"
	case TypeMFURL:
		return "MFURL"
	case TypeMFScript:
		return "MFScript"
	default:
		return "Unknown"
	}
}

// EventType is the event direction of a field.
type EventType uint8

const (
	// EventField is a plain field: set at creation, not routable.
	EventField EventType = iota
	// EventExposedField accepts and emits events.
	EventExposedField
	// EventIn only receives events.
	EventIn
	// EventOut only emits events.
	EventOut
)

// String returns the VRML keyword for the event type.
func (e EventType) String() string {
	switch e {
	case EventField:
		return "field"
	case EventExposedField:
		return "exposedField"
	case EventIn:
		return "eventIn"
	case EventOut:
		return "eventOut"
	default:
		return "unknown"
	}
}

// IndexMode selects which fields of a node are numbered, and in what order.
type IndexMode uint8

const (
	// ModeDEF numbers fields that can be set when a node is defined
	// (fields and exposedFields).
	ModeDEF IndexMode = iota
	// ModeIN numbers fields that accept events (eventIns and exposedFields).
	ModeIN
	// ModeOUT numbers fields that emit events (eventOuts and exposedFields).
	ModeOUT
	// ModeALL numbers every field.
	ModeALL
)

// includes reports whether a field of event type e is numbered in mode m.
func (m IndexMode) includes(e EventType) bool {
	switch m {
	case ModeDEF:
		return e == EventField || e == EventExposedField
	case ModeIN:
		return e == EventIn || e == EventExposedField
	case ModeOUT:
		return e == EventOut || e == EventExposedField
	default:
		return true
	}
}

// NDT is a node data type: the class of nodes legal in a node-valued
// field.
type NDT uint8

// Node data types.
const (
	NDTNone NDT = iota
	NDTWorld
	NDT2D
	NDTTop
	NDTGeometry
	NDTAppearance
	NDTMaterial
	NDTTexture
	NDTCoordinate
	NDTCoordinate2D
)

// String returns the MPEG-4 name of the node data type.
func (n NDT) String() string {
	switch n {
	case NDTWorld:
		return "SFWorldNode"
	case NDT2D:
		return "SF2DNode"
	case NDTTop:
		return "SFTopNode"
	case NDTGeometry:
		return "SFGeometryNode"
	case NDTAppearance:
		return "SFAppearanceNode"
	case NDTMaterial:
		return "SFMaterialNode"
	case NDTTexture:
		return "SFTextureNode"
	case NDTCoordinate:
		return "SFCoordinateNode"
	case NDTCoordinate2D:
		return "SFCoordinate2DNode"
	default:
		return "None"
	}
}

// QuantCategory selects the quantization rule applied to a field when a
// quantization scope is active.
type QuantCategory uint8

// Quantization categories.
const (
	QuantNone QuantCategory = iota
	QuantPosition3D
	QuantPosition2D
	QuantColor
	QuantAngle
	QuantScale
	QuantSize
	QuantCoordIndex
)
