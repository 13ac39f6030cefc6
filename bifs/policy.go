package bifs

import "github.com/gogpu/m4s/vrml"

// policy holds the per-kind exceptions to the generic node coding rules.
type policy struct {
	// fieldCount overrides the number of candidate fields when non-zero.
	fieldCount int

	// swap exchanges two candidate positions and forces list coding.
	swap  bool
	swapA int
	swapB int

	// coordinates marks point-list kinds whose length drives coordinate
	// index quantization.
	coordinates bool

	// indexed marks geometry kinds that consume the stored point count.
	indexed bool

	// quantizer marks QuantizationParameter.
	quantizer bool
}

var policies = map[vrml.Tag]policy{
	vrml.TagScript:                {fieldCount: 3},
	vrml.TagFDP:                   {swap: true, swapA: 2, swapB: 3},
	vrml.TagCoordinate:            {coordinates: true},
	vrml.TagCoordinate2D:          {coordinates: true},
	vrml.TagIndexedFaceSet:        {indexed: true},
	vrml.TagIndexedFaceSet2D:      {indexed: true},
	vrml.TagIndexedLineSet:        {indexed: true},
	vrml.TagIndexedLineSet2D:      {indexed: true},
	vrml.TagQuantizationParameter: {quantizer: true},
}

func policyOf(k *vrml.Kind) policy {
	return policies[k.Tag]
}

// pointCount returns the length of the point list of a coordinate node.
func pointCount(n vrml.Node) int {
	i, ok := n.Kind().FieldIndex("point")
	if !ok {
		return 0
	}
	if mf, ok := n.Field(i).(vrml.MFValue); ok {
		return mf.Len()
	}
	return 0
}
