package accessors

import (
	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/meshattr/buffers"
)

// NormalAccessor reads and writes vertex normals (or tangents etc.) whatever their encoding is
type NormalAccessor interface {
	Attribute() buffers.Element
	CheckRange(index int) bool
	AssertRange(index int) error

	Normal(index int) (gglm.Vec3, error)
	SetNormal(index int, n *gglm.Vec3) error
}

var (
	_ NormalAccessor = &normalFloatAccessor{}
	_ NormalAccessor = &normalInt8Accessor{}
)

// NewNormalAccessor picks the implementation matching the encoding of the named element:
//   - float32 with at least 3 components
//   - int8norm with 3 or 4 components (the 4th is padding and is never written)
//
// Anything else, or a missing element, fails with ErrInvalidArgument.
func NewNormalAccessor(vd VertexData, name string) (NormalAccessor, error) {

	e, err := findElement(vd, name)
	if err != nil {
		return nil, err
	}

	switch e.ElementType {

	case buffers.DataTypeFloat32:
		if e.Count >= 3 {
			return &normalFloatAccessor{Accessor: newAccessor(vd, e)}, nil
		}

	case buffers.DataTypeInt8Norm:
		if e.Count == 3 || e.Count == 4 {
			return &normalInt8Accessor{Accessor: newAccessor(vd, e)}, nil
		}
	}

	return nil, unsupportedElement("normal", e)
}

type normalFloatAccessor struct {
	Accessor
}

func (na *normalFloatAccessor) Normal(index int) (gglm.Vec3, error) {

	if err := na.AssertRange(index); err != nil {
		return gglm.Vec3{}, err
	}

	b := na.element(index)
	return gglm.Vec3{Data: [3]float32{readF32(b, 0), readF32(b, 1), readF32(b, 2)}}, nil
}

func (na *normalFloatAccessor) SetNormal(index int, n *gglm.Vec3) error {

	if err := na.AssertRange(index); err != nil {
		return err
	}

	b := na.element(index)
	writeF32(b, 0, n.Data[0])
	writeF32(b, 1, n.Data[1])
	writeF32(b, 2, n.Data[2])
	return nil
}

type normalInt8Accessor struct {
	Accessor
}

func (na *normalInt8Accessor) Normal(index int) (gglm.Vec3, error) {

	if err := na.AssertRange(index); err != nil {
		return gglm.Vec3{}, err
	}

	b := na.element(index)
	return gglm.Vec3{Data: [3]float32{snormToFloat(b[0]), snormToFloat(b[1]), snormToFloat(b[2])}}, nil
}

func (na *normalInt8Accessor) SetNormal(index int, n *gglm.Vec3) error {

	if err := na.AssertRange(index); err != nil {
		return err
	}

	b := na.element(index)
	b[0] = floatToSnorm(n.Data[0])
	b[1] = floatToSnorm(n.Data[1])
	b[2] = floatToSnorm(n.Data[2])
	return nil
}
