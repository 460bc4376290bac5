package meshes

import (
	"errors"

	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/meshattr/accessors"
	"github.com/chewxy/math32"
)

// BoundingBox returns the min and max corners of the positions of all vertices
func (m *Mesh) BoundingBox() (min, max gglm.Vec3, err error) {

	pa, err := accessors.NewPositionAccessor(m.Vertices, AttrPosition)
	if err != nil {
		return min, max, err
	}

	vertCount := m.Vertices.VertexCount()
	if vertCount == 0 {
		return min, max, errors.New("no vertices")
	}

	min = gglm.Vec3{Data: [3]float32{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32}}
	max = gglm.Vec3{Data: [3]float32{-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32}}
	for i := 0; i < vertCount; i++ {

		p, err := pa.Position(i)
		if err != nil {
			return min, max, err
		}

		for c := 0; c < 3; c++ {
			min.Data[c] = math32.Min(min.Data[c], p.Data[c])
			max.Data[c] = math32.Max(max.Data[c], p.Data[c])
		}
	}

	return min, max, nil
}

// Translate moves every vertex by offset
func (m *Mesh) Translate(offset *gglm.Vec3) error {
	return m.transformPositions(func(p *gglm.Vec3) {
		p.Data[0] += offset.Data[0]
		p.Data[1] += offset.Data[1]
		p.Data[2] += offset.Data[2]
	})
}

// Scale multiplies every position by s, around the origin
func (m *Mesh) Scale(s float32) error {
	return m.transformPositions(func(p *gglm.Vec3) {
		p.Data[0] *= s
		p.Data[1] *= s
		p.Data[2] *= s
	})
}

// FitToUnitCube centers the mesh on the origin and scales it uniformly so that its
// largest side is 1
func (m *Mesh) FitToUnitCube() error {

	min, max, err := m.BoundingBox()
	if err != nil {
		return err
	}

	center := gglm.Vec3{Data: [3]float32{
		-(min.Data[0] + max.Data[0]) / 2,
		-(min.Data[1] + max.Data[1]) / 2,
		-(min.Data[2] + max.Data[2]) / 2,
	}}
	if err := m.Translate(&center); err != nil {
		return err
	}

	extent := math32.Max(max.Data[0]-min.Data[0], math32.Max(max.Data[1]-min.Data[1], max.Data[2]-min.Data[2]))
	if extent == 0 {
		return nil
	}

	return m.Scale(1 / extent)
}

func (m *Mesh) transformPositions(f func(p *gglm.Vec3)) error {

	pa, err := accessors.NewPositionAccessor(m.Vertices, AttrPosition)
	if err != nil {
		return err
	}

	for i := 0; i < m.Vertices.VertexCount(); i++ {

		p, err := pa.Position(i)
		if err != nil {
			return err
		}

		f(&p)
		if err := pa.SetPosition(i, &p); err != nil {
			return err
		}
	}

	return nil
}

// FillColor sets the color of every vertex to c
func (m *Mesh) FillColor(c accessors.Color4f) error {

	ca, err := accessors.NewColorAccessor(m.Vertices, AttrColor)
	if err != nil {
		return err
	}

	for i := 0; i < m.Vertices.VertexCount(); i++ {
		if err := ca.SetColor4f(i, c); err != nil {
			return err
		}
	}

	return nil
}

// ComputeNormals replaces the normals of all vertices used by a triangle with the area
// weighted average of the normals of the triangles using it. Triangles are counter clockwise.
// Vertices not used by any triangle, or only by degenerate ones, get a zero normal.
func (m *Mesh) ComputeNormals() error {

	pa, err := accessors.NewPositionAccessor(m.Vertices, AttrPosition)
	if err != nil {
		return err
	}

	na, err := accessors.NewNormalAccessor(m.Vertices, AttrNormal)
	if err != nil {
		return err
	}

	sums := make([]gglm.Vec3, m.Vertices.VertexCount())
	for _, sm := range m.SubMeshes {

		indices := m.Indices[sm.BaseIndex : sm.BaseIndex+uint32(sm.IndexCount)]
		for t := 0; t+2 < len(indices); t += 3 {

			var tri [3]int
			var pos [3]gglm.Vec3
			for k := 0; k < 3; k++ {

				tri[k] = int(sm.BaseVertex) + int(indices[t+k])
				if pos[k], err = pa.Position(tri[k]); err != nil {
					return err
				}
			}

			// Not normalized so bigger triangles weigh more
			n := gglm.Cross(pos[1].Clone().Sub(&pos[0]), pos[2].Clone().Sub(&pos[0]))
			for k := 0; k < 3; k++ {
				sums[tri[k]].Add(&n)
			}
		}
	}

	for i := range sums {

		normalizeNonZero(&sums[i])
		if err := na.SetNormal(i, &sums[i]); err != nil {
			return err
		}
	}

	return nil
}

// NormalizeNormals rescales every non-zero normal to unit length
func (m *Mesh) NormalizeNormals() error {

	na, err := accessors.NewNormalAccessor(m.Vertices, AttrNormal)
	if err != nil {
		return err
	}

	for i := 0; i < m.Vertices.VertexCount(); i++ {

		n, err := na.Normal(i)
		if err != nil {
			return err
		}

		normalizeNonZero(&n)
		if err := na.SetNormal(i, &n); err != nil {
			return err
		}
	}

	return nil
}

// normalizeNonZero leaves zero vectors as they are since gglm divides by the magnitude
func normalizeNonZero(v *gglm.Vec3) {
	if v.Mag() != 0 {
		v.Normalize()
	}
}

// ColorFromNormals sets the color of every vertex to its normal mapped from [-1,1] to [0,1].
// Alpha is set to 1.
func (m *Mesh) ColorFromNormals() error {

	na, err := accessors.NewNormalAccessor(m.Vertices, AttrNormal)
	if err != nil {
		return err
	}

	ca, err := accessors.NewColorAccessor(m.Vertices, AttrColor)
	if err != nil {
		return err
	}

	for i := 0; i < m.Vertices.VertexCount(); i++ {

		n, err := na.Normal(i)
		if err != nil {
			return err
		}

		c := accessors.Color4f{R: n.X()*0.5 + 0.5, G: n.Y()*0.5 + 0.5, B: n.Z()*0.5 + 0.5, A: 1}
		if err := ca.SetColor4f(i, c); err != nil {
			return err
		}
	}

	return nil
}

// ColorByHeight blends the color of every vertex from low at the lowest Y of the mesh
// to high at the highest Y
func (m *Mesh) ColorByHeight(low, high accessors.Color4f) error {

	min, max, err := m.BoundingBox()
	if err != nil {
		return err
	}

	pa, err := accessors.NewPositionAccessor(m.Vertices, AttrPosition)
	if err != nil {
		return err
	}

	ca, err := accessors.NewColorAccessor(m.Vertices, AttrColor)
	if err != nil {
		return err
	}

	height := max.Y() - min.Y()
	for i := 0; i < m.Vertices.VertexCount(); i++ {

		p, err := pa.Position(i)
		if err != nil {
			return err
		}

		var t float32
		if height > 0 {
			t = (p.Y() - min.Y()) / height
		}

		c := accessors.Color4f{
			R: low.R + (high.R-low.R)*t,
			G: low.G + (high.G-low.G)*t,
			B: low.B + (high.B-low.B)*t,
			A: low.A + (high.A-low.A)*t,
		}
		if err := ca.SetColor4f(i, c); err != nil {
			return err
		}
	}

	return nil
}
