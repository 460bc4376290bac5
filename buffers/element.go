package buffers

import (
	"fmt"

	"github.com/bloeys/meshattr/assert"
)

// Element describes one named attribute stored in every vertex of a buffer
// (e.g. a 'position' made of 3 float32s at an offset of 0 bytes)
type Element struct {
	Name string
	// Offset is the byte offset of the element from the start of a vertex
	Offset int
	// Count is the number of components (e.g. 3 for a position)
	Count int
	ElementType
}

// Size returns the total size in bytes of the element (e.g. for 3 float32s its 3*4=12 bytes)
func (e Element) Size() int {
	return e.Count * e.CompSize()
}

// End returns the byte offset right after the element
func (e Element) End() int {
	return e.Offset + e.Size()
}

func (e Element) String() string {
	return fmt.Sprintf("%s(%dx%s @%d)", e.Name, e.Count, e.ElementType.String(), e.Offset)
}

// NewElement returns an element with an unset offset, to be used with VertexBuffer.SetLayout
func NewElement(name string, dt ElementType, count int) Element {
	return Element{Name: name, Count: count, ElementType: dt}
}

// ElementType is the encoding of every component of an element
type ElementType uint8

const (
	DataTypeUnknown ElementType = iota

	DataTypeFloat32
	DataTypeInt32
	DataTypeUint32

	// DataTypeUint8Norm is an unsigned byte mapped to [0,1]
	DataTypeUint8Norm
	// DataTypeInt8Norm is a signed byte mapped to [-1,1], used for packed normals
	DataTypeInt8Norm
	// DataTypeUint8Srgb is an sRGB encoded unsigned byte, used for colors
	DataTypeUint8Srgb
)

// CompSize returns the size in bytes of one component of the type
func (dt ElementType) CompSize() int {

	switch dt {

	case DataTypeFloat32:
		fallthrough
	case DataTypeInt32:
		fallthrough
	case DataTypeUint32:
		return 4

	case DataTypeUint8Norm:
		fallthrough
	case DataTypeInt8Norm:
		fallthrough
	case DataTypeUint8Srgb:
		return 1

	default:
		assert.T(false, "Unknown data type passed. DataType '%d'", dt)
		return 0
	}
}

// IsNormalized is true for integer types that are read as floats in [0,1] or [-1,1]
func (dt ElementType) IsNormalized() bool {
	return dt == DataTypeUint8Norm || dt == DataTypeInt8Norm || dt == DataTypeUint8Srgb
}

func (dt ElementType) String() string {

	switch dt {

	case DataTypeFloat32:
		return "float32"
	case DataTypeInt32:
		return "int32"
	case DataTypeUint32:
		return "uint32"

	case DataTypeUint8Norm:
		return "uint8norm"
	case DataTypeInt8Norm:
		return "int8norm"
	case DataTypeUint8Srgb:
		return "uint8srgb"

	default:
		return "unknown"
	}
}

// ParseElementType is the inverse of ElementType.String
func ParseElementType(s string) (ElementType, error) {

	for dt := DataTypeFloat32; dt <= DataTypeUint8Srgb; dt++ {
		if dt.String() == s {
			return dt, nil
		}
	}

	return DataTypeUnknown, fmt.Errorf("unknown element type '%s'", s)
}
