package buffers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLayoutConfig(t *testing.T) {

	t.Run("ExplicitStride", func(t *testing.T) {

		lc, err := ParseLayoutConfig(strings.NewReader(`
stride: 32
elements:
  - {name: position, type: float32, count: 3}
  - {name: color, type: uint8norm, count: 4, offset: 12}
`))
		require.NoError(t, err)

		vb, err := lc.NewVertexBuffer()
		require.NoError(t, err)
		assert.Equal(t, 32, vb.Stride())

		c, ok := vb.FindElement("color")
		require.True(t, ok)
		assert.Equal(t, Element{Name: "color", Offset: 12, Count: 4, ElementType: DataTypeUint8Norm}, c)
	})

	t.Run("Packed", func(t *testing.T) {

		lc, err := ParseLayoutConfig(strings.NewReader(`
elements:
  - name: position
    type: float32
    count: 3
  - name: normal
    type: int8norm
    count: 4
    offset: 99
`))
		require.NoError(t, err)

		vb, err := lc.NewVertexBuffer()
		require.NoError(t, err)
		assert.Equal(t, 16, vb.Stride())

		n, _ := vb.FindElement("normal")
		assert.Equal(t, 12, n.Offset, "packed layouts ignore configured offsets")
	})

	t.Run("UnknownType", func(t *testing.T) {
		_, err := ParseLayoutConfig(strings.NewReader("elements:\n  - {name: p, type: vec3, count: 1}\n"))
		assert.ErrorContains(t, err, "unknown element type 'vec3'")
	})

	t.Run("UnknownField", func(t *testing.T) {
		_, err := ParseLayoutConfig(strings.NewReader("strid: 3\n"))
		assert.Error(t, err)
	})

	t.Run("Invalid", func(t *testing.T) {

		lc := LayoutConfig{}
		_, err := lc.NewVertexBuffer()
		assert.ErrorIs(t, err, ErrInvalidLayout)

		lc = LayoutConfig{Elements: []ElementConfig{{Name: "p", Type: DataTypeFloat32}}}
		_, err = lc.NewVertexBuffer()
		assert.ErrorIs(t, err, ErrInvalidLayout)

		lc = LayoutConfig{Stride: 8, Elements: []ElementConfig{{Name: "p", Type: DataTypeFloat32, Count: 3}}}
		_, err = lc.NewVertexBuffer()
		assert.ErrorIs(t, err, ErrInvalidLayout)
	})

	t.Run("PackedDuplicateName", func(t *testing.T) {

		lc, err := ParseLayoutConfig(strings.NewReader(`
elements:
  - {name: position, type: float32, count: 3}
  - {name: position, type: float32, count: 2}
`))
		require.NoError(t, err)

		_, err = lc.NewVertexBuffer()
		assert.ErrorIs(t, err, ErrInvalidLayout)
		assert.ErrorContains(t, err, "'position' is used twice")

		lc.Elements[1].Name = ""
		_, err = lc.NewVertexBuffer()
		assert.ErrorIs(t, err, ErrInvalidLayout)
	})
}

func TestLoadLayoutConfig(t *testing.T) {

	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("elements:\n  - {name: uv0, type: float32, count: 2}\n"), 0o644))

	lc, err := LoadLayoutConfig(path)
	require.NoError(t, err)
	require.Len(t, lc.Elements, 1)
	assert.Equal(t, DataTypeFloat32, lc.Elements[0].Type)

	_, err = LoadLayoutConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
