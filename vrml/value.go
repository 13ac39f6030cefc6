package vrml

// Value is a field value. The set of implementations is closed: one native
// Go type per FieldType.
type Value interface {
	// Type returns the field type the value belongs to.
	Type() FieldType
	isValue()
}

// MFValue is a multi-valued field.
type MFValue interface {
	Value
	// Len returns the number of items.
	Len() int
	// Index returns item i as a single-valued field value.
	Index(i int) Value
}

// Single-valued field values.
type (
	SFBool   bool
	SFFloat  float32
	SFTime   float64
	SFInt32  int32
	SFString string
	SFScript string

	SFVec2f struct{ X, Y float32 }
	SFVec3f struct{ X, Y, Z float32 }
	SFColor struct{ R, G, B float32 }

	// SFRotation is an axis-angle rotation.
	SFRotation struct{ X, Y, Z, Angle float32 }

	// SFURL references media either through an object descriptor ID or
	// an inline URL. ODID takes precedence when non-zero.
	SFURL struct {
		ODID uint32
		URL  string
	}

	// SFImage is an uncompressed image with 1 to 4 components per pixel.
	SFImage struct {
		Width, Height int
		Components    int
		Pixels        []byte
	}

	// SFNode holds a reference to a child node; Node may be nil.
	SFNode struct{ Node Node }

	// SFCommandBuffer holds a list of scene update commands.
	SFCommandBuffer struct{ Commands []Command }
)

// Multi-valued field values.
type (
	MFBool     []SFBool
	MFFloat    []SFFloat
	MFTime     []SFTime
	MFInt32    []SFInt32
	MFString   []SFString
	MFScript   []SFScript
	MFVec2f    []SFVec2f
	MFVec3f    []SFVec3f
	MFColor    []SFColor
	MFRotation []SFRotation
	MFURL      []SFURL
	MFNode     []Node
)

func (SFBool) Type() FieldType          { return TypeSFBool }
func (SFFloat) Type() FieldType         { return TypeSFFloat }
func (SFTime) Type() FieldType          { return TypeSFTime }
func (SFInt32) Type() FieldType         { return TypeSFInt32 }
func (SFString) Type() FieldType        { return TypeSFString }
func (SFScript) Type() FieldType        { return TypeSFScript }
func (SFVec2f) Type() FieldType         { return TypeSFVec2f }
func (SFVec3f) Type() FieldType         { return TypeSFVec3f }
func (SFColor) Type() FieldType         { return TypeSFColor }
func (SFRotation) Type() FieldType      { return TypeSFRotation }
func (SFURL) Type() FieldType           { return TypeSFURL }
func (SFImage) Type() FieldType         { return TypeSFImage }
func (SFNode) Type() FieldType          { return TypeSFNode }
func (SFCommandBuffer) Type() FieldType { return TypeSFCommandBuffer }

func (MFBool) Type() FieldType     { return TypeMFBool }
func (MFFloat) Type() FieldType    { return TypeMFFloat }
func (MFTime) Type() FieldType     { return TypeMFTime }
func (MFInt32) Type() FieldType    { return TypeMFInt32 }
func (MFString) Type() FieldType   { return TypeMFString }
func (MFScript) Type() FieldType   { return TypeMFScript }
func (MFVec2f) Type() FieldType    { return TypeMFVec2f }
func (MFVec3f) Type() FieldType    { return TypeMFVec3f }
func (MFColor) Type() FieldType    { return TypeMFColor }
func (MFRotation) Type() FieldType { return TypeMFRotation }
func (MFURL) Type() FieldType      { return TypeMFURL }
func (MFNode) Type() FieldType     { return TypeMFNode }

func (SFBool) isValue()          {}
func (SFFloat) isValue()         {}
func (SFTime) isValue()          {}
func (SFInt32) isValue()         {}
func (SFString) isValue()        {}
func (SFScript) isValue()        {}
func (SFVec2f) isValue()         {}
func (SFVec3f) isValue()         {}
func (SFColor) isValue()         {}
func (SFRotation) isValue()      {}
func (SFURL) isValue()           {}
func (SFImage) isValue()         {}
func (SFNode) isValue()          {}
func (SFCommandBuffer) isValue() {}
func (MFBool) isValue()          {}
func (MFFloat) isValue()         {}
func (MFTime) isValue()          {}
func (MFInt32) isValue()         {}
func (MFString) isValue()        {}
func (MFScript) isValue()        {}
func (MFVec2f) isValue()         {}
func (MFVec3f) isValue()         {}
func (MFColor) isValue()         {}
func (MFRotation) isValue()      {}
func (MFURL) isValue()           {}
func (MFNode) isValue()          {}

func (v MFBool) Len() int     { return len(v) }
func (v MFFloat) Len() int    { return len(v) }
func (v MFTime) Len() int     { return len(v) }
func (v MFInt32) Len() int    { return len(v) }
func (v MFString) Len() int   { return len(v) }
func (v MFScript) Len() int   { return len(v) }
func (v MFVec2f) Len() int    { return len(v) }
func (v MFVec3f) Len() int    { return len(v) }
func (v MFColor) Len() int    { return len(v) }
func (v MFRotation) Len() int { return len(v) }
func (v MFURL) Len() int      { return len(v) }
func (v MFNode) Len() int     { return len(v) }

func (v MFBool) Index(i int) Value     { return v[i] }
func (v MFFloat) Index(i int) Value    { return v[i] }
func (v MFTime) Index(i int) Value     { return v[i] }
func (v MFInt32) Index(i int) Value    { return v[i] }
func (v MFString) Index(i int) Value   { return v[i] }
func (v MFScript) Index(i int) Value   { return v[i] }
func (v MFVec2f) Index(i int) Value    { return v[i] }
func (v MFVec3f) Index(i int) Value    { return v[i] }
func (v MFColor) Index(i int) Value    { return v[i] }
func (v MFRotation) Index(i int) Value { return v[i] }
func (v MFURL) Index(i int) Value      { return v[i] }
func (v MFNode) Index(i int) Value     { return SFNode{Node: v[i]} }

// Zero returns the empty value of field type t, or nil for TypeUnknown.
func Zero(t FieldType) Value {
	switch t {
	case TypeSFBool:
		return SFBool(false)
	case TypeSFFloat:
		return SFFloat(0)
	case TypeSFTime:
		return SFTime(0)
	case TypeSFInt32:
		return SFInt32(0)
	case TypeSFString:
		return SFString("")
	case TypeSFScript:
		return SFScript("")
	case TypeSFVec2f:
		return SFVec2f{}
	case TypeSFVec3f:
		return SFVec3f{}
	case TypeSFColor:
		return SFColor{}
	case TypeSFRotation:
		return SFRotation{}
	case TypeSFURL:
		return SFURL{}
	case TypeSFImage:
		return SFImage{}
	case TypeSFNode:
		return SFNode{}
	case TypeSFCommandBuffer:
		return SFCommandBuffer{}
	case TypeMFBool:
		return MFBool(nil)
	case TypeMFFloat:
		return MFFloat(nil)
	case TypeMFTime:
		return MFTime(nil)
	case TypeMFInt32:
		return MFInt32(nil)
	case TypeMFString:
		return MFString(nil)
	case TypeMFScript:
		return MFScript(nil)
	case TypeMFVec2f:
		return MFVec2f(nil)
	case TypeMFVec3f:
		return MFVec3f(nil)
	case TypeMFColor:
		return MFColor(nil)
	case TypeMFRotation:
		return MFRotation(nil)
	case TypeMFURL:
		return MFURL(nil)
	case TypeMFNode:
		return MFNode(nil)
	default:
		return nil
	}
}

// AppendItem appends the single-valued item to the multi-valued field mf
// and returns the extended value. It returns false when item does not
// belong to mf's item type.
func AppendItem(mf MFValue, item Value) (MFValue, bool) {
	switch v := mf.(type) {
	case MFBool:
		it, ok := item.(SFBool)
		return append(v, it), ok
	case MFFloat:
		it, ok := item.(SFFloat)
		return append(v, it), ok
	case MFTime:
		it, ok := item.(SFTime)
		return append(v, it), ok
	case MFInt32:
		it, ok := item.(SFInt32)
		return append(v, it), ok
	case MFString:
		it, ok := item.(SFString)
		return append(v, it), ok
	case MFScript:
		it, ok := item.(SFScript)
		return append(v, it), ok
	case MFVec2f:
		it, ok := item.(SFVec2f)
		return append(v, it), ok
	case MFVec3f:
		it, ok := item.(SFVec3f)
		return append(v, it), ok
	case MFColor:
		it, ok := item.(SFColor)
		return append(v, it), ok
	case MFRotation:
		it, ok := item.(SFRotation)
		return append(v, it), ok
	case MFURL:
		it, ok := item.(SFURL)
		return append(v, it), ok
	case MFNode:
		it, ok := item.(SFNode)
		return append(v, it.Node), ok
	default:
		return mf, false
	}
}
