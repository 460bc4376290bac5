package renderer

import (
	"github.com/bloeys/meshattr/buffers"
	"github.com/bloeys/meshattr/materials"
	"github.com/bloeys/meshattr/meshes"
)

type Render interface {
	// UploadMesh creates or replaces the GPU copy of the mesh. Edits to the CPU vertices
	// are only visible after uploading again.
	UploadMesh(mesh *meshes.Mesh, usage buffers.BufUsage)
	DrawMesh(mesh *meshes.Mesh, mat *materials.Material) error
	DeleteMesh(mesh *meshes.Mesh)
	FrameEnd()
}
