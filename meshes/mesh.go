package meshes

import (
	"errors"
	"fmt"

	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/meshattr/accessors"
	"github.com/bloeys/meshattr/buffers"
	"github.com/bloeys/meshattr/logging"
)

// Names of the vertex elements used by the default layout
const (
	AttrPosition  = "position"
	AttrNormal    = "normal"
	AttrTangent   = "tangent"
	AttrTexCoord0 = "uv0"
	AttrColor     = "color"
)

type SubMesh struct {
	BaseVertex int32
	BaseIndex  uint32
	IndexCount int32
}

type Mesh struct {
	Name string
	/*
		Vertices holds the vertices of all submeshes, one submesh after the other.

		With the default layout every vertex has, in order:
			- Pos
			- Normal
			- Tangent
			- UV0
			- (Optional) Color
	*/
	Vertices *buffers.VertexBuffer
	// Indices of all submeshes. Indices are relative to the BaseVertex of their submesh.
	Indices   []uint32
	SubMeshes []SubMesh
}

// MeshData is the per attribute data of one submesh. Positions is required,
// the other arrays are either empty or have one entry per position.
type MeshData struct {
	Positions []gglm.Vec3
	Normals   []gglm.Vec3
	Tangents  []gglm.Vec3
	TexCoords []gglm.Vec2
	Colors    []gglm.Vec4
	// Indices is a triangle list, relative to the first vertex of this data
	Indices []uint32
}

// DefaultLayout is position, normal, tangent and uv0 and, if withColor is true, an 8-bit color
func DefaultLayout(withColor bool) []buffers.Element {

	layout := []buffers.Element{
		buffers.NewElement(AttrPosition, buffers.DataTypeFloat32, 3),
		buffers.NewElement(AttrNormal, buffers.DataTypeFloat32, 3),
		buffers.NewElement(AttrTangent, buffers.DataTypeFloat32, 3),
		buffers.NewElement(AttrTexCoord0, buffers.DataTypeFloat32, 2),
	}

	if withColor {
		layout = append(layout, buffers.NewElement(AttrColor, buffers.DataTypeUint8Norm, 4))
	}

	return layout
}

func NewMesh(name string, layout ...buffers.Element) *Mesh {
	return &Mesh{
		Name:      name,
		Vertices:  buffers.NewVertexBuffer(layout...),
		SubMeshes: make([]SubMesh, 0, 1),
	}
}

// NewMeshWithBuffer uses vb as is, which allows layouts with explicit offsets and padding
func NewMeshWithBuffer(name string, vb *buffers.VertexBuffer) *Mesh {
	return &Mesh{
		Name:      name,
		Vertices:  vb,
		SubMeshes: make([]SubMesh, 0, 1),
	}
}

// AddSubMesh appends the vertices and indices of d to the mesh. The data is written through
// attribute accessors, so any layout works as long as it has a position element.
//
// Data for attributes missing from the layout is dropped. Layout attributes without data
// keep zeroes, except for color which defaults to opaque white.
func (m *Mesh) AddSubMesh(d *MeshData) error {

	vertCount := len(d.Positions)
	if vertCount == 0 {
		return errors.New("submesh has no vertices")
	}

	if len(d.Indices)%3 != 0 {
		return fmt.Errorf("submesh index count of %d is not a multiple of 3", len(d.Indices))
	}

	for name, l := range map[string]int{AttrNormal: len(d.Normals), AttrTangent: len(d.Tangents), AttrTexCoord0: len(d.TexCoords), AttrColor: len(d.Colors)} {
		if l != 0 && l != vertCount {
			return fmt.Errorf("submesh has %d positions but %d entries of '%s'", vertCount, l, name)
		}
	}

	for i, index := range d.Indices {
		if int(index) >= vertCount {
			return fmt.Errorf("submesh index %d at position %d is out of range (vertex count is %d)", index, i, vertCount)
		}
	}

	// Appending may reallocate the buffer, so accessors must only be created after it
	firstVertex := m.Vertices.AppendVertices(vertCount)
	va, err := newVertexAccessors(m.Vertices)
	if err != nil {
		m.Vertices.Resize(firstVertex)
		return err
	}

	m.warnDropped(va, d)

	for i := 0; i < vertCount; i++ {

		vi := firstVertex + i
		if err := va.pos.SetPosition(vi, &d.Positions[i]); err != nil {
			return err
		}

		if va.normal != nil && len(d.Normals) > 0 {
			if err := va.normal.SetNormal(vi, &d.Normals[i]); err != nil {
				return err
			}
		}

		if va.tangent != nil && len(d.Tangents) > 0 {
			if err := va.tangent.SetNormal(vi, &d.Tangents[i]); err != nil {
				return err
			}
		}

		if va.uv0 != nil && len(d.TexCoords) > 0 {
			if err := va.uv0.SetCoordinate(vi, &d.TexCoords[i]); err != nil {
				return err
			}
		}

		if va.color != nil {

			c := accessors.Color4f{R: 1, G: 1, B: 1, A: 1}
			if len(d.Colors) > 0 {
				c = accessors.Color4f{R: d.Colors[i].Data[0], G: d.Colors[i].Data[1], B: d.Colors[i].Data[2], A: d.Colors[i].Data[3]}
			}

			if err := va.color.SetColor4f(vi, c); err != nil {
				return err
			}
		}
	}

	m.SubMeshes = append(m.SubMeshes, SubMesh{

		// Index of the vertex to start from (e.g. if index buffer says use vertex 5, and BaseVertex=3, the vertex used will be vertex 8)
		BaseVertex: int32(firstVertex),
		// Which index (in the index buffer) to start from
		BaseIndex: uint32(len(m.Indices)),
		// How many indices in this submesh
		IndexCount: int32(len(d.Indices)),
	})

	m.Indices = append(m.Indices, d.Indices...)
	return nil
}

func (m *Mesh) warnDropped(va vertexAccessors, d *MeshData) {

	if va.normal == nil && len(d.Normals) > 0 {
		logging.WarnLog.Printf("Mesh '%s' has normals but its vertex layout has no '%s' element. Normals are dropped\n", m.Name, AttrNormal)
	}

	if va.tangent == nil && len(d.Tangents) > 0 {
		logging.WarnLog.Printf("Mesh '%s' has tangents but its vertex layout has no '%s' element. Tangents are dropped\n", m.Name, AttrTangent)
	}

	if va.uv0 == nil && len(d.TexCoords) > 0 {
		logging.WarnLog.Printf("Mesh '%s' has texture coordinates but its vertex layout has no '%s' element. Texture coordinates are dropped\n", m.Name, AttrTexCoord0)
	}

	if va.color == nil && len(d.Colors) > 0 {
		logging.WarnLog.Printf("Mesh '%s' has colors but its vertex layout has no '%s' element. Colors are dropped\n", m.Name, AttrColor)
	}
}

// vertexAccessors are the accessors of the default attributes. Only pos is always set.
type vertexAccessors struct {
	pos     *accessors.PositionAccessor
	normal  accessors.NormalAccessor
	tangent accessors.NormalAccessor
	uv0     *accessors.TexCoordAccessor
	color   accessors.ColorAccessor
}

func newVertexAccessors(vb *buffers.VertexBuffer) (va vertexAccessors, err error) {

	va.pos, err = accessors.NewPositionAccessor(vb, AttrPosition)
	if err != nil {
		return vertexAccessors{}, err
	}

	if va.normal, err = optionalAccessor(vb, AttrNormal, accessors.NewNormalAccessor); err != nil {
		return vertexAccessors{}, err
	}

	if va.tangent, err = optionalAccessor(vb, AttrTangent, accessors.NewNormalAccessor); err != nil {
		return vertexAccessors{}, err
	}

	if va.uv0, err = optionalAccessor(vb, AttrTexCoord0, accessors.NewTexCoordAccessor); err != nil {
		return vertexAccessors{}, err
	}

	if va.color, err = optionalAccessor(vb, AttrColor, accessors.NewColorAccessor); err != nil {
		return vertexAccessors{}, err
	}

	return va, nil
}

// optionalAccessor returns the zero T when vb has no element with the given name. An element
// that exists but has an encoding the accessor does not support is an error.
func optionalAccessor[T any](vb *buffers.VertexBuffer, name string, create func(accessors.VertexData, string) (T, error)) (T, error) {

	var zero T
	if _, ok := vb.FindElement(name); !ok {
		return zero, nil
	}

	return create(vb, name)
}
