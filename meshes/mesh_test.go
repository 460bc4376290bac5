package meshes

import (
	"image/color"
	"testing"

	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/meshattr/accessors"
	"github.com/bloeys/meshattr/buffers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vec3(x, y, z float32) gglm.Vec3 {
	return gglm.Vec3{Data: [3]float32{x, y, z}}
}

// quad is a unit square in the XY plane facing +Z
func quad() *MeshData {
	return &MeshData{
		Positions: []gglm.Vec3{vec3(0, 0, 0), vec3(1, 0, 0), vec3(1, 1, 0), vec3(0, 1, 0)},
		TexCoords: []gglm.Vec2{
			{Data: [2]float32{0, 0}},
			{Data: [2]float32{1, 0}},
			{Data: [2]float32{1, 1}},
			{Data: [2]float32{0, 1}},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

func TestAddSubMesh(t *testing.T) {

	m := NewMesh("quad", DefaultLayout(false)...)
	require.NoError(t, m.AddSubMesh(quad()))

	assert.Equal(t, 4, m.Vertices.VertexCount())
	assert.Equal(t, (3+3+3+2)*4, m.Vertices.Stride())
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, m.Indices)
	assert.Equal(t, []SubMesh{{BaseVertex: 0, BaseIndex: 0, IndexCount: 6}}, m.SubMeshes)

	pa, err := accessors.NewPositionAccessor(m.Vertices, AttrPosition)
	require.NoError(t, err)
	p, err := pa.Position(2)
	require.NoError(t, err)
	assert.Equal(t, vec3(1, 1, 0), p)

	ta, err := accessors.NewTexCoordAccessor(m.Vertices, AttrTexCoord0)
	require.NoError(t, err)
	uv, err := ta.Coordinate(3)
	require.NoError(t, err)
	assert.Equal(t, [2]float32{0, 1}, uv.Data)

	// No normals were given so they stay zero
	na, err := accessors.NewNormalAccessor(m.Vertices, AttrNormal)
	require.NoError(t, err)
	n, err := na.Normal(1)
	require.NoError(t, err)
	assert.Equal(t, vec3(0, 0, 0), n)
}

func TestAddSubMeshColors(t *testing.T) {

	m := NewMesh("quad", DefaultLayout(true)...)

	d := quad()
	require.NoError(t, m.AddSubMesh(d))

	ca, err := accessors.NewColorAccessor(m.Vertices, AttrColor)
	require.NoError(t, err)

	c, err := ca.Color4f(0)
	require.NoError(t, err)
	assert.Equal(t, accessors.Color4f{R: 1, G: 1, B: 1, A: 1}, c)

	d.Colors = []gglm.Vec4{
		{Data: [4]float32{1, 0, 0, 1}},
		{Data: [4]float32{0, 1, 0, 1}},
		{Data: [4]float32{0, 0, 1, 1}},
		{Data: [4]float32{0, 0, 0, 0}},
	}
	require.NoError(t, m.AddSubMesh(d))

	// Accessors made before the second append may point at old storage, so get a new one
	ca, err = accessors.NewColorAccessor(m.Vertices, AttrColor)
	require.NoError(t, err)

	c, err = ca.Color4f(5)
	require.NoError(t, err)
	assert.Equal(t, accessors.Color4f{R: 0, G: 1, B: 0, A: 1}, c)

	c, err = ca.Color4f(7)
	require.NoError(t, err)
	assert.Equal(t, accessors.Color4f{}, c)
}

func TestAddSubMeshErrors(t *testing.T) {

	tests := []struct {
		name   string
		layout []buffers.Element
		modify func(d *MeshData)
	}{
		{
			name:   "NoVertices",
			layout: DefaultLayout(false),
			modify: func(d *MeshData) { d.Positions = nil },
		},
		{
			name:   "IndicesNotTriangles",
			layout: DefaultLayout(false),
			modify: func(d *MeshData) { d.Indices = d.Indices[:4] },
		},
		{
			name:   "LengthMismatch",
			layout: DefaultLayout(false),
			modify: func(d *MeshData) { d.Normals = []gglm.Vec3{vec3(0, 0, 1)} },
		},
		{
			name:   "IndexOutOfRange",
			layout: DefaultLayout(false),
			modify: func(d *MeshData) { d.Indices[5] = 4 },
		},
		{
			name:   "NoPositionElement",
			layout: []buffers.Element{buffers.NewElement(AttrNormal, buffers.DataTypeFloat32, 3)},
			modify: func(d *MeshData) {},
		},
		{
			name: "UnsupportedColorEncoding",
			layout: []buffers.Element{
				buffers.NewElement(AttrPosition, buffers.DataTypeFloat32, 3),
				buffers.NewElement(AttrColor, buffers.DataTypeInt32, 4),
			},
			modify: func(d *MeshData) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {

			m := NewMesh(tt.name, tt.layout...)
			d := quad()
			tt.modify(d)

			assert.Error(t, m.AddSubMesh(d))
			assert.Equal(t, 0, m.Vertices.VertexCount())
			assert.Empty(t, m.Indices)
			assert.Empty(t, m.SubMeshes)
		})
	}
}

func TestAddSubMeshCustomLayout(t *testing.T) {

	// Only positions and packed normals with a padded stride. Texture coordinates get dropped.
	vb := buffers.NewVertexBuffer()
	require.NoError(t, vb.SetLayoutWithStride(32,
		buffers.Element{Name: AttrPosition, Offset: 0, Count: 3, ElementType: buffers.DataTypeFloat32},
		buffers.Element{Name: AttrNormal, Offset: 16, Count: 4, ElementType: buffers.DataTypeInt8Norm},
	))

	m := NewMeshWithBuffer("packed", vb)
	d := quad()
	d.Normals = []gglm.Vec3{vec3(0, 0, 1), vec3(0, 0, 1), vec3(0, 0, -1), vec3(1, 0, 0)}
	require.NoError(t, m.AddSubMesh(d))
	assert.Equal(t, 4, vb.VertexCount())

	na, err := accessors.NewNormalAccessor(vb, AttrNormal)
	require.NoError(t, err)

	n, err := na.Normal(2)
	require.NoError(t, err)
	assert.Equal(t, vec3(0, 0, -1), n)

	n, err = na.Normal(3)
	require.NoError(t, err)
	assert.Equal(t, vec3(1, 0, 0), n)
}

func TestMultipleSubMeshes(t *testing.T) {

	m := NewMesh("two", DefaultLayout(false)...)
	require.NoError(t, m.AddSubMesh(quad()))

	tri := &MeshData{
		Positions: []gglm.Vec3{vec3(5, 0, 0), vec3(6, 0, 0), vec3(5, 1, 0)},
		Indices:   []uint32{0, 1, 2},
	}
	require.NoError(t, m.AddSubMesh(tri))

	assert.Equal(t, 7, m.Vertices.VertexCount())
	assert.Equal(t, []SubMesh{
		{BaseVertex: 0, BaseIndex: 0, IndexCount: 6},
		{BaseVertex: 4, BaseIndex: 6, IndexCount: 3},
	}, m.SubMeshes)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3, 0, 1, 2}, m.Indices)

	pa, err := accessors.NewPositionAccessor(m.Vertices, AttrPosition)
	require.NoError(t, err)

	sm := m.SubMeshes[1]
	p, err := pa.Position(int(sm.BaseVertex) + int(m.Indices[sm.BaseIndex+1]))
	require.NoError(t, err)
	assert.Equal(t, vec3(6, 0, 0), p)
}

func TestComputeNormals(t *testing.T) {

	m := NewMesh("two", DefaultLayout(false)...)
	require.NoError(t, m.AddSubMesh(quad()))

	// Clockwise when seen from +Z, so it faces -Z
	require.NoError(t, m.AddSubMesh(&MeshData{
		Positions: []gglm.Vec3{vec3(0, 0, 3), vec3(0, 2, 3), vec3(2, 0, 3), vec3(9, 9, 9)},
		Indices:   []uint32{0, 1, 2},
	}))
	require.NoError(t, m.ComputeNormals())

	na, err := accessors.NewNormalAccessor(m.Vertices, AttrNormal)
	require.NoError(t, err)

	expected := []gglm.Vec3{
		vec3(0, 0, 1), vec3(0, 0, 1), vec3(0, 0, 1), vec3(0, 0, 1),
		vec3(0, 0, -1), vec3(0, 0, -1), vec3(0, 0, -1),
		// Not used by any triangle
		vec3(0, 0, 0),
	}
	for i, e := range expected {

		n, err := na.Normal(i)
		require.NoError(t, err)
		assert.Equal(t, e, n, "vertex=%d", i)
	}
}

func TestComputeNormalsAreaWeighted(t *testing.T) {

	m := NewMesh("fan", DefaultLayout(false)...)
	require.NoError(t, m.AddSubMesh(&MeshData{
		Positions: []gglm.Vec3{
			vec3(0, 0, 0), vec3(2, 0, 0), vec3(0, 2, 0),
			vec3(0, 0, 1), vec3(1, 0, 0),
			// Degenerate
			vec3(5, 5, 5), vec3(6, 6, 6), vec3(7, 7, 7),
		},
		Indices: []uint32{0, 1, 2, 0, 3, 4, 5, 6, 7},
	}))
	require.NoError(t, m.ComputeNormals())

	na, err := accessors.NewNormalAccessor(m.Vertices, AttrNormal)
	require.NoError(t, err)

	// Vertex 0 is shared by a +Z triangle of area 2 and a +Y triangle of area 0.5
	sqrt17 := float32(4.1231056)
	expected := []gglm.Vec3{
		vec3(0, 1/sqrt17, 4/sqrt17),
		vec3(0, 0, 1), vec3(0, 0, 1),
		vec3(0, 1, 0), vec3(0, 1, 0),
		vec3(0, 0, 0), vec3(0, 0, 0), vec3(0, 0, 0),
	}
	for i, e := range expected {

		n, err := na.Normal(i)
		require.NoError(t, err)
		assert.InDeltaSlice(t, e.Data[:], n.Data[:], 1e-6, "vertex=%d", i)
	}
}

func TestNormalizeNormals(t *testing.T) {

	m := NewMesh("quad", DefaultLayout(false)...)
	d := quad()
	d.Normals = []gglm.Vec3{vec3(0, 0, 5), vec3(3, 4, 0), vec3(0, 0, 0), vec3(0, -0.5, 0)}
	require.NoError(t, m.AddSubMesh(d))
	require.NoError(t, m.NormalizeNormals())

	na, err := accessors.NewNormalAccessor(m.Vertices, AttrNormal)
	require.NoError(t, err)

	expected := []gglm.Vec3{vec3(0, 0, 1), vec3(0.6, 0.8, 0), vec3(0, 0, 0), vec3(0, -1, 0)}
	for i, e := range expected {

		n, err := na.Normal(i)
		require.NoError(t, err)
		assert.InDeltaSlice(t, e.Data[:], n.Data[:], 1e-6, "vertex=%d", i)
	}
}

func TestBoundsAndFit(t *testing.T) {

	m := NewMesh("empty", DefaultLayout(false)...)
	_, _, err := m.BoundingBox()
	assert.Error(t, err)

	require.NoError(t, m.AddSubMesh(quad()))
	require.NoError(t, m.Scale(2))
	offset := vec3(1, -3, 0.5)
	require.NoError(t, m.Translate(&offset))

	min, max, err := m.BoundingBox()
	require.NoError(t, err)
	assert.Equal(t, vec3(1, -3, 0.5), min)
	assert.Equal(t, vec3(3, -1, 0.5), max)

	require.NoError(t, m.FitToUnitCube())
	min, max, err = m.BoundingBox()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{-0.5, -0.5, 0}, min.Data[:], 1e-6)
	assert.InDeltaSlice(t, []float32{0.5, 0.5, 0}, max.Data[:], 1e-6)
}

func TestFillColor(t *testing.T) {

	m := NewMesh("quad", DefaultLayout(false)...)
	require.NoError(t, m.AddSubMesh(quad()))
	assert.Error(t, m.FillColor(accessors.Color4f{R: 1}))

	m = NewMesh("quad", DefaultLayout(true)...)
	require.NoError(t, m.AddSubMesh(quad()))
	require.NoError(t, m.FillColor(accessors.Color4f{R: 1, G: 0, B: 1, A: 1}))

	ca, err := accessors.NewColorAccessor(m.Vertices, AttrColor)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {

		c, err := ca.Color4ub(i)
		require.NoError(t, err)
		assert.Equal(t, uint8(255), c.R)
		assert.Equal(t, uint8(0), c.G)
		assert.Equal(t, uint8(255), c.B)
		assert.Equal(t, uint8(255), c.A)
	}
}

func TestColorFromNormals(t *testing.T) {

	m := NewMesh("quad", DefaultLayout(true)...)
	d := quad()
	d.Normals = []gglm.Vec3{vec3(0, 0, 1), vec3(1, 0, 0), vec3(0, -1, 0), vec3(0, 0, 0)}
	require.NoError(t, m.AddSubMesh(d))
	require.NoError(t, m.ColorFromNormals())

	ca, err := accessors.NewColorAccessor(m.Vertices, AttrColor)
	require.NoError(t, err)

	expected := []color.NRGBA{
		{R: 128, G: 128, B: 255, A: 255},
		{R: 255, G: 128, B: 128, A: 255},
		{R: 128, G: 0, B: 128, A: 255},
		{R: 128, G: 128, B: 128, A: 255},
	}
	for i, e := range expected {

		c, err := ca.Color4ub(i)
		require.NoError(t, err)
		assert.Equal(t, e, c, "vertex=%d", i)
	}
}

func TestColorByHeight(t *testing.T) {

	m := NewMesh("quad", DefaultLayout(false)...)
	require.NoError(t, m.AddSubMesh(quad()))
	assert.Error(t, m.ColorByHeight(accessors.Color4f{}, accessors.Color4f{}))

	vb := buffers.NewVertexBuffer(
		buffers.NewElement(AttrPosition, buffers.DataTypeFloat32, 3),
		buffers.NewElement(AttrColor, buffers.DataTypeFloat32, 4),
	)
	m = NewMeshWithBuffer("quad", vb)
	require.NoError(t, m.AddSubMesh(&MeshData{
		Positions: []gglm.Vec3{vec3(0, -1, 0), vec3(0, 0, 0), vec3(0, 3, 0)},
		Indices:   []uint32{0, 1, 2},
	}))

	low := accessors.Color4f{R: 0, G: 0, B: 1, A: 1}
	high := accessors.Color4f{R: 1, G: 0, B: 0, A: 1}
	require.NoError(t, m.ColorByHeight(low, high))

	ca, err := accessors.NewColorAccessor(vb, AttrColor)
	require.NoError(t, err)

	expected := []accessors.Color4f{low, {R: 0.25, G: 0, B: 0.75, A: 1}, high}
	for i, e := range expected {

		c, err := ca.Color4f(i)
		require.NoError(t, err)
		assert.Equal(t, e, c, "vertex=%d", i)
	}
}
