package rend3dgl

import (
	"github.com/bloeys/meshattr/assert"
	"github.com/bloeys/meshattr/buffers"
	"github.com/bloeys/meshattr/logging"
	"github.com/go-gl/gl/v4.1-core/gl"
)

func usageToGL(b buffers.BufUsage) uint32 {

	switch b {
	case buffers.BufUsage_Static_Draw:
		return gl.STATIC_DRAW
	case buffers.BufUsage_Dynamic_Draw:
		return gl.DYNAMIC_DRAW
	case buffers.BufUsage_Stream_Draw:
		return gl.STREAM_DRAW

	case buffers.BufUsage_Static_Read:
		return gl.STATIC_READ
	case buffers.BufUsage_Dynamic_Read:
		return gl.DYNAMIC_READ
	case buffers.BufUsage_Stream_Read:
		return gl.STREAM_READ

	case buffers.BufUsage_Static_Copy:
		return gl.STATIC_COPY
	case buffers.BufUsage_Dynamic_Copy:
		return gl.DYNAMIC_COPY
	case buffers.BufUsage_Stream_Copy:
		return gl.STREAM_COPY

	default:
		assert.T(false, "Unknown buf usage '%d'", b)
		return gl.STATIC_DRAW
	}
}

// attribFormat is how OpenGL should read one vertex element
type attribFormat struct {
	Size       int32
	GLType     uint32
	Normalized bool
	// Integer elements are passed to the shader as ints instead of being converted to floats
	Integer bool
}

func elementAttribFormat(e buffers.Element) attribFormat {

	f := attribFormat{Size: int32(e.Count)}
	switch e.ElementType {
	case buffers.DataTypeFloat32:
		f.GLType = gl.FLOAT
	case buffers.DataTypeInt32:
		f.GLType = gl.INT
		f.Integer = true
	case buffers.DataTypeUint32:
		f.GLType = gl.UNSIGNED_INT
		f.Integer = true
	case buffers.DataTypeUint8Norm:
		f.GLType = gl.UNSIGNED_BYTE
		f.Normalized = true
	case buffers.DataTypeInt8Norm:
		f.GLType = gl.BYTE
		f.Normalized = true

	// OpenGL has no sRGB vertex formats, so shaders get the encoded value and must decode it themselves
	case buffers.DataTypeUint8Srgb:
		f.GLType = gl.UNSIGNED_BYTE
		f.Normalized = true

	default:
		assert.T(false, "Unknown element type '%d' of element '%s'", e.ElementType, e.Name)
	}

	return f
}

// VertexBuffer is the GPU copy of a buffers.VertexBuffer
type VertexBuffer struct {
	Id     uint32
	Stride int32
	layout []buffers.Element
	// Generation of the CPU buffer at the last upload
	Generation uint64
}

func (vb *VertexBuffer) Bind() {
	gl.BindBuffer(gl.ARRAY_BUFFER, vb.Id)
}

func (vb *VertexBuffer) UnBind() {
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// SetData replaces the GPU data and layout with the ones of the CPU buffer
func (vb *VertexBuffer) SetData(cpuBuf *buffers.VertexBuffer, bufUsage buffers.BufUsage) {

	vb.Bind()

	vb.Stride = int32(cpuBuf.Stride())
	vb.layout = cpuBuf.GetLayout()
	vb.Generation = cpuBuf.Generation()

	data := cpuBuf.Bytes()
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, gl.Ptr(nil), usageToGL(bufUsage))
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, len(data), gl.Ptr(&data[0]), usageToGL(bufUsage))
	}
}

func (vb *VertexBuffer) GetLayout() []buffers.Element {
	e := make([]buffers.Element, len(vb.layout))
	copy(e, vb.layout)
	return e
}

func (vb *VertexBuffer) Delete() {
	gl.DeleteBuffers(1, &vb.Id)
	vb.Id = 0
}

func NewVertexBuffer() VertexBuffer {

	vb := VertexBuffer{}

	gl.GenBuffers(1, &vb.Id)
	if vb.Id == 0 {
		logging.ErrLog.Println("Failed to create OpenGL buffer")
	}

	return vb
}

type IndexBuffer struct {
	Id uint32
	// IndexBufCount is the number of elements in the index buffer. Updated in IndexBuffer.SetData
	IndexBufCount int32
}

func (ib *IndexBuffer) Bind() {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ib.Id)
}

func (ib *IndexBuffer) UnBind() {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
}

func (ib *IndexBuffer) SetData(values []uint32, bufUsage buffers.BufUsage) {

	ib.Bind()

	sizeInBytes := len(values) * 4
	ib.IndexBufCount = int32(len(values))

	if sizeInBytes == 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 0, gl.Ptr(nil), usageToGL(bufUsage))
	} else {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, sizeInBytes, gl.Ptr(&values[0]), usageToGL(bufUsage))
	}
}

func (ib *IndexBuffer) Delete() {
	gl.DeleteBuffers(1, &ib.Id)
	ib.Id = 0
}

func NewIndexBuffer() IndexBuffer {

	ib := IndexBuffer{}

	gl.GenBuffers(1, &ib.Id)
	if ib.Id == 0 {
		logging.ErrLog.Println("Failed to create OpenGL buffer")
	}

	return ib
}

type VertexArray struct {
	Id          uint32
	Vbos        []VertexBuffer
	IndexBuffer IndexBuffer
}

func (va *VertexArray) Bind() {
	gl.BindVertexArray(va.Id)
}

func (va *VertexArray) UnBind() {
	gl.BindVertexArray(0)
}

// AddVertexBuffer sets up one attribute per element of the vbo layout, where the attribute
// location is the index of the element in the layout. Shaders get matching locations
// through shaders.LoadAndCompileCombinedShaderSrc.
func (va *VertexArray) AddVertexBuffer(vbo VertexBuffer) {

	// NOTE: VBOs are only bound at 'VertexAttribPointer' (and related) calls

	va.Bind()
	vbo.Bind()

	for i := 0; i < len(vbo.layout); i++ {

		l := &vbo.layout[i]
		f := elementAttribFormat(*l)

		gl.EnableVertexAttribArray(uint32(i))
		if f.Integer {
			gl.VertexAttribIPointerWithOffset(uint32(i), f.Size, f.GLType, vbo.Stride, uintptr(l.Offset))
		} else {
			gl.VertexAttribPointerWithOffset(uint32(i), f.Size, f.GLType, f.Normalized, vbo.Stride, uintptr(l.Offset))
		}
	}

	va.Vbos = append(va.Vbos, vbo)
}

func (va *VertexArray) SetIndexBuffer(ib IndexBuffer) {
	va.Bind()
	ib.Bind()
	va.IndexBuffer = ib
}

func (va *VertexArray) Delete() {
	gl.DeleteVertexArrays(1, &va.Id)
	va.Id = 0
}

func NewVertexArray() VertexArray {

	vao := VertexArray{}

	gl.GenVertexArrays(1, &vao.Id)
	if vao.Id == 0 {
		logging.ErrLog.Println("Failed to create OpenGL vertex array object")
	}

	return vao
}
