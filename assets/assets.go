// Package assets imports model files into CPU side meshes
package assets

import (
	"errors"
	"fmt"

	"github.com/bloeys/assimp-go/asig"
	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/meshattr/buffers"
	"github.com/bloeys/meshattr/logging"
	"github.com/bloeys/meshattr/meshes"
)

var (
	// DefaultMeshLoadFlags are the flags always applied when loading a new mesh regardless
	// of what post process flags are used when loading a mesh.
	//
	// Defaults to: asig.PostProcessTriangulate | asig.PostProcessCalcTangentSpace;
	// Note: removing triangulation will make loading fail for models with non-triangle faces
	DefaultMeshLoadFlags asig.PostProcess = asig.PostProcessTriangulate | asig.PostProcessCalcTangentSpace
)

// LoadMesh imports every mesh in the file at modelPath as one submesh. If no layout is given
// meshes.DefaultLayout is used, with a color element if the first mesh has vertex colors.
func LoadMesh(name, modelPath string, postProcessFlags asig.PostProcess, layout ...buffers.Element) (*meshes.Mesh, error) {

	if len(layout) == 0 {
		return loadMesh(name, modelPath, postProcessFlags, nil)
	}

	return loadMesh(name, modelPath, postProcessFlags, buffers.NewVertexBuffer(layout...))
}

// LoadMeshWithBuffer is like LoadMesh but appends the vertices to vb, so layouts with padding
// and explicit offsets can be used
func LoadMeshWithBuffer(name, modelPath string, postProcessFlags asig.PostProcess, vb *buffers.VertexBuffer) (*meshes.Mesh, error) {
	return loadMesh(name, modelPath, postProcessFlags, vb)
}

func loadMesh(name, modelPath string, postProcessFlags asig.PostProcess, vb *buffers.VertexBuffer) (*meshes.Mesh, error) {

	finalPostProcessFlags := DefaultMeshLoadFlags | postProcessFlags

	scene, release, err := asig.ImportFile(modelPath, finalPostProcessFlags)
	if err != nil {
		return nil, errors.New("Failed to load model. Err: " + err.Error())
	}
	defer release()

	if len(scene.Meshes) == 0 {
		return nil, errors.New("No meshes found in file: " + modelPath)
	}

	if vb == nil {
		firstMesh := scene.Meshes[0]
		hasColor := len(firstMesh.ColorSets) > 0 && len(firstMesh.ColorSets[0]) > 0
		vb = buffers.NewVertexBuffer(meshes.DefaultLayout(hasColor)...)
	}

	// Estimate a useful prealloc capacity based on the first submesh
	vb.Reserve(vb.VertexCount() + len(scene.Meshes[0].Vertices))

	mesh := meshes.NewMeshWithBuffer(name, vb)
	for i := 0; i < len(scene.Meshes); i++ {

		sceneMesh := scene.Meshes[i]

		indices, err := flattenFaces(sceneMesh.Faces)
		if err != nil {
			return nil, fmt.Errorf("submesh %d of mesh '%s' at path '%s' is invalid. Err: %w", i, name, modelPath, err)
		}

		d := &meshes.MeshData{
			Positions: sceneMesh.Vertices,
			Normals:   sceneMesh.Normals,
			Tangents:  sceneMesh.Tangents,
			TexCoords: v3sToV2s(sceneMesh.TexCoords[0]),
			Indices:   indices,
		}

		if len(sceneMesh.ColorSets) > 0 && len(sceneMesh.ColorSets[0]) > 0 {
			d.Colors = sceneMesh.ColorSets[0]
		}

		if err := mesh.AddSubMesh(d); err != nil {
			return nil, fmt.Errorf("failed to add submesh %d of mesh '%s' at path '%s'. Err: %w", i, name, modelPath, err)
		}
	}

	logging.InfoLog.Printf("Loaded mesh '%s' from '%s' with %d submeshes, %d vertices and %d indices. Vertex layout: %v\n",
		name, modelPath, len(mesh.SubMeshes), vb.VertexCount(), len(mesh.Indices), vb.GetLayout())

	return mesh, nil
}

func v3sToV2s(v3s []gglm.Vec3) []gglm.Vec2 {

	v2s := make([]gglm.Vec2, len(v3s))
	for i := 0; i < len(v3s); i++ {
		v2s[i] = gglm.Vec2{
			Data: [2]float32{v3s[i].X(), v3s[i].Y()},
		}
	}

	return v2s
}

func flattenFaces(faces []asig.Face) ([]uint32, error) {

	uints := make([]uint32, len(faces)*3)
	for i := 0; i < len(faces); i++ {

		if len(faces[i].Indices) != 3 {
			return nil, fmt.Errorf("face %d doesn't have 3 indices. Index count: %d", i, len(faces[i].Indices))
		}

		uints[i*3+0] = uint32(faces[i].Indices[0])
		uints[i*3+1] = uint32(faces[i].Indices[1])
		uints[i*3+2] = uint32(faces[i].Indices[2])
	}

	return uints, nil
}
