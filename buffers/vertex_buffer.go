package buffers

import (
	"errors"
	"fmt"

	"github.com/bloeys/meshattr/assert"
)

var ErrInvalidLayout = errors.New("invalid vertex layout")

// VertexBuffer is a CPU side array of interleaved vertices. Every vertex is Stride() bytes
// and is described by the elements of the layout.
//
// Operations that grow the buffer past its capacity, or replace its data, reallocate the
// storage and increase Generation(). Any attribute accessor created before that points at
// the old storage and must be recreated.
type VertexBuffer struct {
	stride     int
	layout     []Element
	data       []byte
	generation uint64
}

// SetLayout places the elements one after the other in the given order, ignoring their
// offsets, and sets the stride to the sum of their sizes.
//
// Existing vertex data is dropped since it no longer matches the layout.
func (vb *VertexBuffer) SetLayout(layout ...Element) {

	vb.stride = 0
	vb.layout = make([]Element, len(layout))
	copy(vb.layout, layout)

	for i := 0; i < len(vb.layout); i++ {

		vb.layout[i].Offset = vb.stride
		vb.stride += vb.layout[i].Size()
	}

	vb.resetData()
}

// SetLayoutWithStride uses the offsets of the elements as given, which allows padding and
// elements out of declaration order. Every element must fit inside the stride and no two
// elements may overlap or share a name.
//
// Existing vertex data is dropped since it no longer matches the layout.
func (vb *VertexBuffer) SetLayoutWithStride(stride int, layout ...Element) error {

	if stride <= 0 {
		return fmt.Errorf("%w: stride must be positive, got %d", ErrInvalidLayout, stride)
	}

	for i := 0; i < len(layout); i++ {

		e := layout[i]
		if e.Name == "" {
			return fmt.Errorf("%w: element %d has no name", ErrInvalidLayout, i)
		}

		if e.ElementType == DataTypeUnknown || e.ElementType > DataTypeUint8Srgb {
			return fmt.Errorf("%w: element '%s' has unknown type %d", ErrInvalidLayout, e.Name, e.ElementType)
		}

		if e.Count <= 0 {
			return fmt.Errorf("%w: element '%s' has component count %d", ErrInvalidLayout, e.Name, e.Count)
		}

		if e.Offset < 0 || e.End() > stride {
			return fmt.Errorf("%w: element '%s' spans bytes [%d,%d) which is outside the stride of %d", ErrInvalidLayout, e.Name, e.Offset, e.End(), stride)
		}

		for j := 0; j < i; j++ {

			other := layout[j]
			if other.Name == e.Name {
				return fmt.Errorf("%w: element name '%s' is used twice", ErrInvalidLayout, e.Name)
			}

			if e.Offset < other.End() && other.Offset < e.End() {
				return fmt.Errorf("%w: element '%s' overlaps element '%s'", ErrInvalidLayout, e.Name, other.Name)
			}
		}
	}

	vb.stride = stride
	vb.layout = make([]Element, len(layout))
	copy(vb.layout, layout)
	vb.resetData()

	return nil
}

func (vb *VertexBuffer) GetLayout() []Element {
	e := make([]Element, len(vb.layout))
	copy(e, vb.layout)
	return e
}

// FindElement returns the element with the given name from the layout
func (vb *VertexBuffer) FindElement(name string) (Element, bool) {

	for i := 0; i < len(vb.layout); i++ {
		if vb.layout[i].Name == name {
			return vb.layout[i], true
		}
	}

	return Element{}, false
}

// Stride is the size in bytes of one vertex
func (vb *VertexBuffer) Stride() int {
	return vb.stride
}

func (vb *VertexBuffer) VertexCount() int {

	if vb.stride == 0 {
		return 0
	}

	return len(vb.data) / vb.stride
}

// Capacity is the number of vertices the buffer can hold before it has to reallocate
func (vb *VertexBuffer) Capacity() int {

	if vb.stride == 0 {
		return 0
	}

	return cap(vb.data) / vb.stride
}

// Bytes returns the raw vertex data. The slice aliases the buffer storage.
func (vb *VertexBuffer) Bytes() []byte {
	return vb.data
}

// Generation increases every time the storage of the buffer is reallocated or replaced
func (vb *VertexBuffer) Generation() uint64 {
	return vb.generation
}

// Reserve makes sure the buffer can hold vertexCount vertices without reallocating
func (vb *VertexBuffer) Reserve(vertexCount int) {

	assert.T(vb.stride > 0, "VertexBuffer.Reserve called on a buffer without a layout")

	if vertexCount*vb.stride > cap(vb.data) {
		vb.realloc(len(vb.data), vertexCount*vb.stride)
	}
}

// Resize sets the vertex count. New vertices are zeroed.
// The storage is only reallocated when the new count is above the capacity.
func (vb *VertexBuffer) Resize(vertexCount int) {

	assert.T(vertexCount >= 0, "VertexBuffer.Resize called with a negative vertex count of %d", vertexCount)
	assert.T(vb.stride > 0 || vertexCount == 0, "VertexBuffer.Resize called on a buffer without a layout")

	newSize := vertexCount * vb.stride
	if newSize > cap(vb.data) {
		vb.realloc(newSize, newSize)
		return
	}

	oldSize := len(vb.data)
	vb.data = vb.data[:newSize]
	if newSize > oldSize {
		clear(vb.data[oldSize:newSize])
	}
}

// AppendVertices adds n zeroed vertices and returns the index of the first one.
// Capacity grows geometrically, so most appends do not reallocate.
func (vb *VertexBuffer) AppendVertices(n int) (first int) {

	assert.T(n >= 0, "VertexBuffer.AppendVertices called with a negative count of %d", n)

	first = vb.VertexCount()
	newSize := len(vb.data) + n*vb.stride
	if newSize > cap(vb.data) {
		vb.realloc(newSize, max(newSize, 2*cap(vb.data)))
		return first
	}

	oldSize := len(vb.data)
	vb.data = vb.data[:newSize]
	clear(vb.data[oldSize:])

	return first
}

// Clear sets the vertex count to zero but keeps the storage
func (vb *VertexBuffer) Clear() {
	vb.data = vb.data[:0]
}

// SetData replaces the vertex data. The buffer keeps (and aliases) the passed slice.
func (vb *VertexBuffer) SetData(data []byte) error {

	if vb.stride == 0 {
		return fmt.Errorf("%w: can not set data on a buffer without a layout", ErrInvalidLayout)
	}

	if len(data)%vb.stride != 0 {
		return fmt.Errorf("%w: data length of %d bytes is not a multiple of the stride (%d)", ErrInvalidLayout, len(data), vb.stride)
	}

	vb.data = data
	vb.generation++
	return nil
}

func (vb *VertexBuffer) resetData() {
	vb.data = nil
	vb.generation++
}

func (vb *VertexBuffer) realloc(size, capacity int) {

	newData := make([]byte, size, capacity)
	copy(newData, vb.data)

	vb.data = newData
	vb.generation++
}

func NewVertexBuffer(layout ...Element) *VertexBuffer {

	vb := &VertexBuffer{}
	vb.SetLayout(layout...)
	return vb
}
