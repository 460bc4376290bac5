// Package accessors provides typed views over one attribute (position, normal, color, uv)
// of an interleaved vertex buffer.
//
// An accessor aliases the memory of the buffer it was created from. It stays valid only as
// long as the storage of that buffer is not reallocated or replaced (e.g. by growing the
// buffer past its capacity or by changing its layout). Using an accessor after that is
// undefined: release builds read and write stale memory, debug builds panic.
//
// Accessors are not synchronized. Any number of them may read the same buffer, but writes
// and buffer mutations must be serialized by the caller.
package accessors

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unsafe"

	"github.com/bloeys/meshattr/assert"
	"github.com/bloeys/meshattr/buffers"
)

var (
	ErrOutOfRange      = errors.New("vertex index out of range")
	ErrInvalidArgument = errors.New("invalid argument")
)

// VertexData is the vertex storage an accessor is bound to. *buffers.VertexBuffer implements it.
type VertexData interface {
	VertexCount() int
	// Stride is the byte distance between two vertices, shared by all elements
	Stride() int
	// Bytes returns the vertex storage itself, not a copy
	Bytes() []byte
	FindElement(name string) (buffers.Element, bool)
}

// generationer is implemented by vertex storage that can report reallocations
type generationer interface {
	Generation() uint64
}

type RangeError struct {
	Attribute   string
	Index       int
	VertexCount int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("vertex index %d of attribute '%s' is out of range (vertex count is %d)", e.Index, e.Attribute, e.VertexCount)
}

func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}

// Accessor holds what every kind of attribute accessor shares: the buffer, a copy of the
// element and the stride and base address cached at creation.
type Accessor struct {
	vd         VertexData
	attr       buffers.Element
	stride     int
	base       unsafe.Pointer
	generation uint64
}

func newAccessor(vd VertexData, attr buffers.Element) Accessor {

	a := Accessor{
		vd:     vd,
		attr:   attr,
		stride: vd.Stride(),
		base:   unsafe.Pointer(unsafe.SliceData(vd.Bytes())),
	}

	if g, ok := vd.(generationer); ok {
		a.generation = g.Generation()
	}

	return a
}

// Attribute returns the element this accessor reads and writes
func (a *Accessor) Attribute() buffers.Element {
	return a.attr
}

// CheckRange reports whether index is a valid vertex index. The vertex count is read from
// the buffer on every call.
func (a *Accessor) CheckRange(index int) bool {
	return index >= 0 && index < a.vd.VertexCount()
}

// AssertRange returns a *RangeError (which matches ErrOutOfRange) exactly when CheckRange is false
func (a *Accessor) AssertRange(index int) error {

	a.assertSameStorage()

	if !a.CheckRange(index) {
		return &RangeError{Attribute: a.attr.Name, Index: index, VertexCount: a.vd.VertexCount()}
	}

	return nil
}

func (a *Accessor) assertSameStorage() {

	if !assert.Enabled {
		return
	}

	g, ok := a.vd.(generationer)
	if !ok {
		return
	}

	assert.T(g.Generation() == a.generation, "accessor of attribute '%s' used after its vertex buffer was reallocated. Accessor generation=%d, buffer generation=%d", a.attr.Name, a.generation, g.Generation())
}

// element returns the bytes of the attribute of the vertex at index.
//
// This is the only place that turns the cached base address into memory. It does no bounds
// checking, so AssertRange must have passed for index.
func (a *Accessor) element(index int) []byte {
	p := unsafe.Add(a.base, a.attr.Offset+index*a.stride)
	return unsafe.Slice((*byte)(p), a.attr.Size())
}

func findElement(vd VertexData, name string) (buffers.Element, error) {

	e, ok := vd.FindElement(name)
	if !ok {
		return buffers.Element{}, fmt.Errorf("%w: no vertex attribute named '%s'", ErrInvalidArgument, name)
	}

	if e.Offset < 0 || e.End() > vd.Stride() {
		return buffers.Element{}, fmt.Errorf("%w: vertex attribute %s does not fit in a vertex stride of %d bytes", ErrInvalidArgument, e.String(), vd.Stride())
	}

	return e, nil
}

func unsupportedElement(kind string, e buffers.Element) error {
	return fmt.Errorf("%w: no %s accessor for attribute '%s' with %d components of type %s", ErrInvalidArgument, kind, e.Name, e.Count, e.ElementType.String())
}

// Components are stored little endian, which is what GPUs expect vertex data in

func readF32(b []byte, comp int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[comp*4:]))
}

func writeF32(b []byte, comp int, val float32) {
	binary.LittleEndian.PutUint32(b[comp*4:], math.Float32bits(val))
}
