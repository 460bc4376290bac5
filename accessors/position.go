package accessors

import (
	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/meshattr/buffers"
)

// PositionAccessor reads and writes vertex positions stored as (at least) 3 float32s.
//
// Positions stored in any other encoding need a new accessor type, this one does not
// branch on the encoding.
type PositionAccessor struct {
	Accessor
}

// NewPositionAccessor fails with ErrInvalidArgument if vd has no element with the given
// name, or if the element is not made of at least 3 float32s.
func NewPositionAccessor(vd VertexData, name string) (*PositionAccessor, error) {

	e, err := findElement(vd, name)
	if err != nil {
		return nil, err
	}

	if e.ElementType != buffers.DataTypeFloat32 || e.Count < 3 {
		return nil, unsupportedElement("position", e)
	}

	return &PositionAccessor{Accessor: newAccessor(vd, e)}, nil
}

func (pa *PositionAccessor) Position(index int) (gglm.Vec3, error) {

	if err := pa.AssertRange(index); err != nil {
		return gglm.Vec3{}, err
	}

	b := pa.element(index)
	return gglm.Vec3{Data: [3]float32{readF32(b, 0), readF32(b, 1), readF32(b, 2)}}, nil
}

func (pa *PositionAccessor) SetPosition(index int, pos *gglm.Vec3) error {

	if err := pa.AssertRange(index); err != nil {
		return err
	}

	b := pa.element(index)
	writeF32(b, 0, pos.Data[0])
	writeF32(b, 1, pos.Data[1])
	writeF32(b, 2, pos.Data[2])
	return nil
}
