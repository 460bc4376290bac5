package accessors

import (
	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/meshattr/buffers"
)

// TexCoordAccessor reads and writes texture coordinates stored as (at least) 2 float32s
type TexCoordAccessor struct {
	Accessor
}

func NewTexCoordAccessor(vd VertexData, name string) (*TexCoordAccessor, error) {

	e, err := findElement(vd, name)
	if err != nil {
		return nil, err
	}

	if e.ElementType != buffers.DataTypeFloat32 || e.Count < 2 {
		return nil, unsupportedElement("texture coordinate", e)
	}

	return &TexCoordAccessor{Accessor: newAccessor(vd, e)}, nil
}

func (ta *TexCoordAccessor) Coordinate(index int) (gglm.Vec2, error) {

	if err := ta.AssertRange(index); err != nil {
		return gglm.Vec2{}, err
	}

	b := ta.element(index)
	return gglm.Vec2{Data: [2]float32{readF32(b, 0), readF32(b, 1)}}, nil
}

func (ta *TexCoordAccessor) SetCoordinate(index int, uv *gglm.Vec2) error {

	if err := ta.AssertRange(index); err != nil {
		return err
	}

	b := ta.element(index)
	writeF32(b, 0, uv.Data[0])
	writeF32(b, 1, uv.Data[1])
	return nil
}
