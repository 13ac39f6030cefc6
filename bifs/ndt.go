package bifs

import (
	"github.com/gogpu/m4s/bitstream"
	"github.com/gogpu/m4s/vrml"
)

// NumVersions is the number of format versions tried when resolving a
// node type.
const NumVersions = 6

// protoCode is the node type code of a proto instance from version 2 on.
const protoCode = 1

// ndtTables lists, per version and node data type, the node kinds in code
// order. Version 1 codes start at 1; later versions reserve code 1 for
// proto instances and start at 2. Code 0 always escapes to the next
// version.
var ndtTables = [NumVersions]map[vrml.NDT][]vrml.Tag{
	{
		vrml.NDTWorld: {
			vrml.TagGroup, vrml.TagTransform2D, vrml.TagShape, vrml.TagAppearance,
			vrml.TagMaterial2D, vrml.TagRectangle, vrml.TagCircle, vrml.TagCoordinate,
			vrml.TagCoordinate2D, vrml.TagIndexedFaceSet, vrml.TagIndexedFaceSet2D,
			vrml.TagIndexedLineSet, vrml.TagIndexedLineSet2D, vrml.TagQuantizationParameter,
			vrml.TagScript, vrml.TagConditional, vrml.TagImageTexture, vrml.TagPixelTexture,
			vrml.TagTimeSensor, vrml.TagTouchSensor, vrml.TagWorldInfo, vrml.TagBackground2D,
		},
		vrml.NDTTop: {vrml.TagGroup},
		vrml.NDT2D: {
			vrml.TagGroup, vrml.TagTransform2D, vrml.TagShape, vrml.TagQuantizationParameter,
			vrml.TagScript, vrml.TagConditional, vrml.TagTimeSensor, vrml.TagTouchSensor,
			vrml.TagWorldInfo, vrml.TagBackground2D,
		},
		vrml.NDTGeometry: {
			vrml.TagRectangle, vrml.TagCircle, vrml.TagIndexedFaceSet, vrml.TagIndexedFaceSet2D,
			vrml.TagIndexedLineSet, vrml.TagIndexedLineSet2D,
		},
		vrml.NDTAppearance:   {vrml.TagAppearance},
		vrml.NDTMaterial:     {vrml.TagMaterial2D},
		vrml.NDTTexture:      {vrml.TagImageTexture, vrml.TagPixelTexture},
		vrml.NDTCoordinate:   {vrml.TagCoordinate},
		vrml.NDTCoordinate2D: {vrml.TagCoordinate2D},
	},
	{
		vrml.NDTWorld: {vrml.TagFDP},
	},
	{
		vrml.NDTWorld: {vrml.TagOrderedGroup},
		vrml.NDTTop:   {vrml.TagOrderedGroup},
		vrml.NDT2D:    {vrml.TagOrderedGroup},
	},
	{},
	{},
	{},
}

// firstCode returns the code of the first table entry at version v
// (1-based).
func firstCode(v int) uint64 {
	if v == 1 {
		return 1
	}
	return 2
}

// ndtBits returns the width of node type codes for ndt at version v.
func ndtBits(ndt vrml.NDT, v int) int {
	n := uint64(len(ndtTables[v-1][ndt]))
	return bitstream.BitSize(n + firstCode(v) - 1)
}

// nodeType returns the code of tag in ndt at version v, 0 when absent.
func nodeType(ndt vrml.NDT, tag vrml.Tag, v int) uint64 {
	for i, t := range ndtTables[v-1][ndt] {
		if t == tag {
			return uint64(i) + firstCode(v)
		}
	}
	return 0
}

// tagForType is the inverse of nodeType. It returns false for escape,
// proto and out-of-range codes.
func tagForType(ndt vrml.NDT, code uint64, v int) (vrml.Tag, bool) {
	first := firstCode(v)
	if code < first {
		return vrml.TagUnknown, false
	}
	tags := ndtTables[v-1][ndt]
	i := code - first
	if i >= uint64(len(tags)) {
		return vrml.TagUnknown, false
	}
	return tags[i], true
}
