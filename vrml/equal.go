package vrml

import (
	"bytes"
	"slices"
)

// Equal reports whether a and b hold the same field value. Values of
// different types are never equal. Node-valued fields compare node
// identity; command buffers compare by command count only, since their
// content is opaque to field diffing.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Type() != b.Type() {
		return false
	}
	switch av := a.(type) {
	case SFBool, SFFloat, SFTime, SFInt32, SFString, SFScript,
		SFVec2f, SFVec3f, SFColor, SFRotation, SFURL, SFNode:
		return a == b
	case SFImage:
		bv := b.(SFImage)
		return av.Width == bv.Width && av.Height == bv.Height &&
			av.Components == bv.Components && bytes.Equal(av.Pixels, bv.Pixels)
	case SFCommandBuffer:
		return len(av.Commands) == len(b.(SFCommandBuffer).Commands)
	case MFBool:
		return slices.Equal(av, b.(MFBool))
	case MFFloat:
		return slices.Equal(av, b.(MFFloat))
	case MFTime:
		return slices.Equal(av, b.(MFTime))
	case MFInt32:
		return slices.Equal(av, b.(MFInt32))
	case MFString:
		return slices.Equal(av, b.(MFString))
	case MFScript:
		return slices.Equal(av, b.(MFScript))
	case MFVec2f:
		return slices.Equal(av, b.(MFVec2f))
	case MFVec3f:
		return slices.Equal(av, b.(MFVec3f))
	case MFColor:
		return slices.Equal(av, b.(MFColor))
	case MFRotation:
		return slices.Equal(av, b.(MFRotation))
	case MFURL:
		return slices.Equal(av, b.(MFURL))
	case MFNode:
		return slices.Equal(av, b.(MFNode))
	default:
		return false
	}
}
