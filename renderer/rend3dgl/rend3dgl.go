package rend3dgl

import (
	"fmt"

	"github.com/bloeys/meshattr/buffers"
	"github.com/bloeys/meshattr/logging"
	"github.com/bloeys/meshattr/materials"
	"github.com/bloeys/meshattr/meshes"
	"github.com/bloeys/meshattr/renderer"
	"github.com/go-gl/gl/v4.1-core/gl"
)

var _ renderer.Render = &Rend3DGL{}

type gpuMesh struct {
	Vao       VertexArray
	SubMeshes []meshes.SubMesh
}

type Rend3DGL struct {
	BoundMatId     uint32
	BoundMeshVaoId uint32

	gpuMeshes map[*meshes.Mesh]*gpuMesh
}

func (r *Rend3DGL) UploadMesh(mesh *meshes.Mesh, usage buffers.BufUsage) {

	gm, ok := r.gpuMeshes[mesh]
	if !ok {
		gm = &gpuMesh{Vao: NewVertexArray()}
		r.gpuMeshes[mesh] = gm
	}

	var vbo VertexBuffer
	if len(gm.Vao.Vbos) > 0 {
		vbo = gm.Vao.Vbos[0]
		gm.Vao.Vbos = gm.Vao.Vbos[:0]
	} else {
		vbo = NewVertexBuffer()
	}
	vbo.SetData(mesh.Vertices, usage)

	ibo := gm.Vao.IndexBuffer
	if ibo.Id == 0 {
		ibo = NewIndexBuffer()
	}

	// Setting the index buffer binds the vao, so must happen before touching the ibo
	gm.Vao.SetIndexBuffer(ibo)
	ibo.SetData(mesh.Indices, usage)
	gm.Vao.IndexBuffer = ibo

	// Re-adding redoes the attribute pointers in case the layout changed
	gm.Vao.AddVertexBuffer(vbo)
	gm.SubMeshes = append(gm.SubMeshes[:0], mesh.SubMeshes...)

	// This is needed so that if you upload meshes one after the other the
	// following mesh doesn't attach its vbo/ibo to this vao
	gm.Vao.UnBind()
	r.BoundMeshVaoId = 0

	logging.InfoLog.Printf("Uploaded mesh '%s': %d bytes of vertices (stride=%d), %d indices\n", mesh.Name, len(mesh.Vertices.Bytes()), vbo.Stride, len(mesh.Indices))
}

// NeedsUpload returns true if the mesh was never uploaded, or if its vertex storage was
// replaced since the last upload. In-place vertex edits are not detected.
func (r *Rend3DGL) NeedsUpload(mesh *meshes.Mesh) bool {

	gm, ok := r.gpuMeshes[mesh]
	if !ok || len(gm.Vao.Vbos) == 0 {
		return true
	}

	return gm.Vao.Vbos[0].Generation != mesh.Vertices.Generation()
}

func (r *Rend3DGL) DrawMesh(mesh *meshes.Mesh, mat *materials.Material) error {

	gm, ok := r.gpuMeshes[mesh]
	if !ok {
		return fmt.Errorf("mesh '%s' must be uploaded before drawing", mesh.Name)
	}

	if gm.Vao.Id != r.BoundMeshVaoId {
		gm.Vao.Bind()
		r.BoundMeshVaoId = gm.Vao.Id
	}

	if mat.Id != r.BoundMatId {
		mat.Bind()
		r.BoundMatId = mat.Id
	}

	for i := 0; i < len(gm.SubMeshes); i++ {

		sm := &gm.SubMeshes[i]

		// The offset is in bytes
		gl.DrawElementsBaseVertexWithOffset(gl.TRIANGLES, sm.IndexCount, gl.UNSIGNED_INT, uintptr(sm.BaseIndex)*4, sm.BaseVertex)
	}

	return nil
}

func (r *Rend3DGL) DeleteMesh(mesh *meshes.Mesh) {

	gm, ok := r.gpuMeshes[mesh]
	if !ok {
		return
	}

	for i := 0; i < len(gm.Vao.Vbos); i++ {
		gm.Vao.Vbos[i].Delete()
	}

	gm.Vao.IndexBuffer.Delete()
	if gm.Vao.Id == r.BoundMeshVaoId {
		r.BoundMeshVaoId = 0
	}
	gm.Vao.Delete()

	delete(r.gpuMeshes, mesh)
}

func (r3d *Rend3DGL) FrameEnd() {
	r3d.BoundMatId = 0
	r3d.BoundMeshVaoId = 0
}

func NewRend3DGL() *Rend3DGL {
	return &Rend3DGL{
		gpuMeshes: make(map[*meshes.Mesh]*gpuMesh),
	}
}
