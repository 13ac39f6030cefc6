package vrml

import "math"

// Tags of the built-in MPEG-4 node kinds.
const (
	TagUnknown Tag = iota
	TagGroup
	TagOrderedGroup
	TagTransform2D
	TagShape
	TagAppearance
	TagMaterial2D
	TagRectangle
	TagCircle
	TagCoordinate
	TagCoordinate2D
	TagIndexedFaceSet
	TagIndexedFaceSet2D
	TagIndexedLineSet
	TagIndexedLineSet2D
	TagQuantizationParameter
	TagScript
	TagFDP
	TagConditional
	TagImageTexture
	TagPixelTexture
	TagTimeSensor
	TagTouchSensor
	TagWorldInfo
	TagBackground2D
)

func fieldDef(name string, t FieldType, def Value) FieldDef {
	return FieldDef{Name: name, Type: t, Event: EventField, Default: def}
}

func exposedDef(name string, t FieldType, def Value) FieldDef {
	return FieldDef{Name: name, Type: t, Event: EventExposedField, Default: def}
}

func inDef(name string, t FieldType) FieldDef {
	return FieldDef{Name: name, Type: t, Event: EventIn}
}

func outDef(name string, t FieldType) FieldDef {
	return FieldDef{Name: name, Type: t, Event: EventOut}
}

func (f FieldDef) ndt(n NDT) FieldDef {
	f.NDT = n
	return f
}

func (f FieldDef) quant(q QuantCategory) FieldDef {
	f.Quant = q
	return f
}

func childrenDefs() []FieldDef {
	return []FieldDef{
		inDef("addChildren", TypeMFNode).ndt(NDT2D),
		inDef("removeChildren", TypeMFNode).ndt(NDT2D),
		exposedDef("children", TypeMFNode, nil).ndt(NDT2D),
	}
}

var (
	inf    = float32(math.Inf(1))
	twoPi  = float32(2 * math.Pi)
	vecInf = SFVec3f{inf, inf, inf}
)

// Built-in node kinds. Field order is the ALL order of the kind.
var (
	KindGroup = &Kind{Tag: TagGroup, Name: "Group", Fields: childrenDefs()}

	KindOrderedGroup = &Kind{Tag: TagOrderedGroup, Name: "OrderedGroup", Fields: append(childrenDefs(),
		exposedDef("order", TypeMFFloat, nil),
	)}

	KindTransform2D = &Kind{Tag: TagTransform2D, Name: "Transform2D", Fields: append(childrenDefs(),
		exposedDef("center", TypeSFVec2f, nil).quant(QuantPosition2D),
		exposedDef("rotationAngle", TypeSFFloat, nil).quant(QuantAngle),
		exposedDef("scale", TypeSFVec2f, SFVec2f{1, 1}).quant(QuantScale),
		exposedDef("scaleOrientation", TypeSFFloat, nil).quant(QuantAngle),
		exposedDef("translation", TypeSFVec2f, nil).quant(QuantPosition2D),
	)}

	KindShape = &Kind{Tag: TagShape, Name: "Shape", Fields: []FieldDef{
		exposedDef("appearance", TypeSFNode, nil).ndt(NDTAppearance),
		exposedDef("geometry", TypeSFNode, nil).ndt(NDTGeometry),
	}}

	KindAppearance = &Kind{Tag: TagAppearance, Name: "Appearance", Fields: []FieldDef{
		exposedDef("material", TypeSFNode, nil).ndt(NDTMaterial),
		exposedDef("texture", TypeSFNode, nil).ndt(NDTTexture),
	}}

	KindMaterial2D = &Kind{Tag: TagMaterial2D, Name: "Material2D", Fields: []FieldDef{
		exposedDef("emissiveColor", TypeSFColor, SFColor{0.8, 0.8, 0.8}).quant(QuantColor),
		exposedDef("filled", TypeSFBool, nil),
		exposedDef("transparency", TypeSFFloat, nil).quant(QuantColor),
	}}

	KindRectangle = &Kind{Tag: TagRectangle, Name: "Rectangle", Fields: []FieldDef{
		exposedDef("size", TypeSFVec2f, SFVec2f{2, 2}).quant(QuantSize),
	}}

	KindCircle = &Kind{Tag: TagCircle, Name: "Circle", Fields: []FieldDef{
		exposedDef("radius", TypeSFFloat, SFFloat(1)).quant(QuantSize),
	}}

	KindCoordinate = &Kind{Tag: TagCoordinate, Name: "Coordinate", Fields: []FieldDef{
		exposedDef("point", TypeMFVec3f, nil).quant(QuantPosition3D),
	}}

	KindCoordinate2D = &Kind{Tag: TagCoordinate2D, Name: "Coordinate2D", Fields: []FieldDef{
		exposedDef("point", TypeMFVec2f, nil).quant(QuantPosition2D),
	}}

	KindIndexedFaceSet = &Kind{Tag: TagIndexedFaceSet, Name: "IndexedFaceSet", Fields: []FieldDef{
		inDef("set_coordIndex", TypeMFInt32),
		exposedDef("coord", TypeSFNode, nil).ndt(NDTCoordinate),
		fieldDef("ccw", TypeSFBool, SFBool(true)),
		fieldDef("convex", TypeSFBool, SFBool(true)),
		fieldDef("coordIndex", TypeMFInt32, nil).quant(QuantCoordIndex),
		fieldDef("solid", TypeSFBool, SFBool(true)),
	}}

	KindIndexedFaceSet2D = &Kind{Tag: TagIndexedFaceSet2D, Name: "IndexedFaceSet2D", Fields: []FieldDef{
		inDef("set_coordIndex", TypeMFInt32),
		exposedDef("coord", TypeSFNode, nil).ndt(NDTCoordinate2D),
		fieldDef("convex", TypeSFBool, SFBool(true)),
		fieldDef("coordIndex", TypeMFInt32, nil).quant(QuantCoordIndex),
	}}

	KindIndexedLineSet = &Kind{Tag: TagIndexedLineSet, Name: "IndexedLineSet", Fields: []FieldDef{
		inDef("set_coordIndex", TypeMFInt32),
		exposedDef("coord", TypeSFNode, nil).ndt(NDTCoordinate),
		fieldDef("coordIndex", TypeMFInt32, nil).quant(QuantCoordIndex),
	}}

	KindIndexedLineSet2D = &Kind{Tag: TagIndexedLineSet2D, Name: "IndexedLineSet2D", Fields: []FieldDef{
		inDef("set_coordIndex", TypeMFInt32),
		exposedDef("coord", TypeSFNode, nil).ndt(NDTCoordinate2D),
		fieldDef("coordIndex", TypeMFInt32, nil).quant(QuantCoordIndex),
	}}

	KindQuantizationParameter = &Kind{Tag: TagQuantizationParameter, Name: "QuantizationParameter", Fields: []FieldDef{
		fieldDef("isLocal", TypeSFBool, nil),
		fieldDef("position3DQuant", TypeSFBool, nil),
		fieldDef("position3DMin", TypeSFVec3f, SFVec3f{-inf, -inf, -inf}),
		fieldDef("position3DMax", TypeSFVec3f, vecInf),
		fieldDef("position3DNbBits", TypeSFInt32, SFInt32(16)),
		fieldDef("position2DQuant", TypeSFBool, nil),
		fieldDef("position2DMin", TypeSFVec2f, SFVec2f{-inf, -inf}),
		fieldDef("position2DMax", TypeSFVec2f, SFVec2f{inf, inf}),
		fieldDef("position2DNbBits", TypeSFInt32, SFInt32(16)),
		fieldDef("colorQuant", TypeSFBool, nil),
		fieldDef("colorMin", TypeSFFloat, nil),
		fieldDef("colorMax", TypeSFFloat, SFFloat(1)),
		fieldDef("colorNbBits", TypeSFInt32, SFInt32(8)),
		fieldDef("angleQuant", TypeSFBool, nil),
		fieldDef("angleMin", TypeSFFloat, nil),
		fieldDef("angleMax", TypeSFFloat, SFFloat(twoPi)),
		fieldDef("angleNbBits", TypeSFInt32, SFInt32(16)),
		fieldDef("scaleQuant", TypeSFBool, nil),
		fieldDef("scaleMin", TypeSFFloat, nil),
		fieldDef("scaleMax", TypeSFFloat, SFFloat(inf)),
		fieldDef("scaleNbBits", TypeSFInt32, SFInt32(8)),
		fieldDef("sizeQuant", TypeSFBool, nil),
		fieldDef("sizeMin", TypeSFFloat, nil),
		fieldDef("sizeMax", TypeSFFloat, SFFloat(inf)),
		fieldDef("sizeNbBits", TypeSFInt32, SFInt32(8)),
		fieldDef("useEfficientCoding", TypeSFBool, nil),
	}}

	KindScript = &Kind{Tag: TagScript, Name: "Script", Fields: []FieldDef{
		exposedDef("url", TypeMFScript, nil),
		fieldDef("directOutput", TypeSFBool, nil),
		fieldDef("mustEvaluate", TypeSFBool, nil),
	}}

	KindFDP = &Kind{Tag: TagFDP, Name: "FDP", Fields: []FieldDef{
		exposedDef("featurePointsCoord", TypeSFNode, nil).ndt(NDTCoordinate),
		exposedDef("textureCoord", TypeSFNode, nil).ndt(NDTCoordinate2D),
		exposedDef("faceDefTables", TypeMFNode, nil).ndt(NDT2D),
		exposedDef("faceSceneGraph", TypeMFNode, nil).ndt(NDT2D),
		fieldDef("useOrthoTexture", TypeSFBool, nil),
	}}

	KindConditional = &Kind{Tag: TagConditional, Name: "Conditional", Fields: []FieldDef{
		inDef("activate", TypeSFBool),
		inDef("reverseActivate", TypeSFBool),
		exposedDef("buffer", TypeSFCommandBuffer, nil),
		outDef("isActive", TypeSFBool),
	}}

	KindImageTexture = &Kind{Tag: TagImageTexture, Name: "ImageTexture", Fields: []FieldDef{
		exposedDef("url", TypeMFURL, nil),
		fieldDef("repeatS", TypeSFBool, SFBool(true)),
		fieldDef("repeatT", TypeSFBool, SFBool(true)),
	}}

	KindPixelTexture = &Kind{Tag: TagPixelTexture, Name: "PixelTexture", Fields: []FieldDef{
		exposedDef("image", TypeSFImage, nil),
		fieldDef("repeatS", TypeSFBool, SFBool(true)),
		fieldDef("repeatT", TypeSFBool, SFBool(true)),
	}}

	KindTimeSensor = &Kind{Tag: TagTimeSensor, Name: "TimeSensor", Fields: []FieldDef{
		exposedDef("cycleInterval", TypeSFTime, SFTime(1)),
		exposedDef("enabled", TypeSFBool, SFBool(true)),
		exposedDef("loop", TypeSFBool, nil),
		exposedDef("startTime", TypeSFTime, nil),
		exposedDef("stopTime", TypeSFTime, nil),
		outDef("cycleTime", TypeSFTime),
		outDef("fraction_changed", TypeSFFloat),
		outDef("isActive", TypeSFBool),
		outDef("time", TypeSFTime),
	}}

	KindTouchSensor = &Kind{Tag: TagTouchSensor, Name: "TouchSensor", Fields: []FieldDef{
		exposedDef("enabled", TypeSFBool, SFBool(true)),
		outDef("hitPoint_changed", TypeSFVec3f),
		outDef("hitTexCoord_changed", TypeSFVec2f),
		outDef("isActive", TypeSFBool),
		outDef("isOver", TypeSFBool),
		outDef("touchTime", TypeSFTime),
	}}

	KindWorldInfo = &Kind{Tag: TagWorldInfo, Name: "WorldInfo", Fields: []FieldDef{
		fieldDef("info", TypeMFString, nil),
		fieldDef("title", TypeSFString, nil),
	}}

	KindBackground2D = &Kind{Tag: TagBackground2D, Name: "Background2D", Fields: []FieldDef{
		inDef("set_bind", TypeSFBool),
		exposedDef("backColor", TypeSFColor, nil).quant(QuantColor),
		exposedDef("url", TypeMFURL, nil),
		outDef("isBound", TypeSFBool),
	}}
)

// Builtin returns a catalog of the built-in node kinds.
func Builtin() *Catalog {
	return NewCatalog(
		KindGroup, KindOrderedGroup, KindTransform2D, KindShape, KindAppearance,
		KindMaterial2D, KindRectangle, KindCircle, KindCoordinate, KindCoordinate2D,
		KindIndexedFaceSet, KindIndexedFaceSet2D, KindIndexedLineSet, KindIndexedLineSet2D,
		KindQuantizationParameter, KindScript, KindFDP, KindConditional,
		KindImageTexture, KindPixelTexture, KindTimeSensor, KindTouchSensor,
		KindWorldInfo, KindBackground2D,
	)
}

// NewScriptKind returns a Script kind extended with per-instance interface
// fields. The result keeps the Script tag.
func NewScriptKind(extra ...FieldDef) *Kind {
	fields := make([]FieldDef, 0, len(KindScript.Fields)+len(extra))
	fields = append(fields, KindScript.Fields...)
	fields = append(fields, extra...)
	return &Kind{Tag: TagScript, Name: "Script", Fields: fields}
}
