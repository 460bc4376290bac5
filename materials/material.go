package materials

import (
	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/meshattr/assert"
	"github.com/bloeys/meshattr/buffers"
	"github.com/bloeys/meshattr/logging"
	"github.com/bloeys/meshattr/shaders"
	"github.com/go-gl/gl/v4.1-core/gl"
)

var (
	lastMatId uint32
)

// Material is a shader program along with cached uniform and attribute locations
type Material struct {
	Id         uint32
	Name       string
	ShaderProg shaders.ShaderProgram

	UnifLocs   map[string]int32
	AttribLocs map[string]int32
}

func (m *Material) Bind() {
	m.ShaderProg.Bind()
}

func (m *Material) UnBind() {
	gl.UseProgram(0)
}

func (m *Material) GetAttribLoc(attribName string) int32 {

	loc, ok := m.AttribLocs[attribName]
	if ok {
		return loc
	}

	name := gl.Str(attribName + "\x00")
	loc = gl.GetAttribLocation(m.ShaderProg.Id, name)
	assert.T(loc != -1, "Attribute '"+attribName+"' doesn't exist on material "+m.Name)
	m.AttribLocs[attribName] = loc
	return loc
}

func (m *Material) GetUnifLoc(uniformName string) int32 {

	loc, ok := m.UnifLocs[uniformName]
	if ok {
		return loc
	}

	name := gl.Str(uniformName + "\x00")
	loc = gl.GetUniformLocation(m.ShaderProg.Id, name)
	assert.T(loc != -1, "Uniform '"+uniformName+"' doesn't exist on material "+m.Name)
	m.UnifLocs[uniformName] = loc
	return loc
}

func (m *Material) SetUnifInt32(uniformName string, val int32) {
	gl.ProgramUniform1i(m.ShaderProg.Id, m.GetUnifLoc(uniformName), val)
}

func (m *Material) SetUnifFloat32(uniformName string, val float32) {
	gl.ProgramUniform1f(m.ShaderProg.Id, m.GetUnifLoc(uniformName), val)
}

func (m *Material) SetUnifVec3(uniformName string, vec3 *gglm.Vec3) {
	gl.ProgramUniform3fv(m.ShaderProg.Id, m.GetUnifLoc(uniformName), 1, &vec3.Data[0])
}

func (m *Material) SetUnifVec4(uniformName string, vec4 *gglm.Vec4) {
	gl.ProgramUniform4fv(m.ShaderProg.Id, m.GetUnifLoc(uniformName), 1, &vec4.Data[0])
}

func (m *Material) SetUnifMat4(uniformName string, mat4 *gglm.Mat4) {
	gl.ProgramUniformMatrix4fv(m.ShaderProg.Id, m.GetUnifLoc(uniformName), 1, false, &mat4.Data[0][0])
}

func (m *Material) Delete() {
	gl.DeleteProgram(m.ShaderProg.Id)
}

func getNewMatId() uint32 {
	lastMatId++
	return lastMatId
}

// NewMaterial is like NewMaterialSrc but reads the combined shader from shaderPath
func NewMaterial(matName, shaderPath string, layout []buffers.Element) Material {

	shdrProg, err := shaders.LoadAndCompileCombinedShader(shaderPath, attribNames(layout)...)
	if err != nil {
		logging.ErrLog.Fatalf("Failed to create new material '%s'. Err: %s\n", matName, err.Error())
	}

	return newMaterial(matName, shdrProg)
}

// NewMaterialSrc compiles a combined shader whose vertex inputs are named after the
// elements of layout, so that any mesh using that layout can be drawn with it
func NewMaterialSrc(matName string, shaderSrc []byte, layout []buffers.Element) Material {

	shdrProg, err := shaders.LoadAndCompileCombinedShaderSrc(shaderSrc, attribNames(layout)...)
	if err != nil {
		logging.ErrLog.Fatalf("Failed to create new material '%s'. Err: %s\n", matName, err.Error())
	}

	return newMaterial(matName, shdrProg)
}

func newMaterial(matName string, shdrProg shaders.ShaderProgram) Material {
	return Material{
		Id:         getNewMatId(),
		Name:       matName,
		ShaderProg: shdrProg,
		UnifLocs:   make(map[string]int32),
		AttribLocs: make(map[string]int32),
	}
}

func attribNames(layout []buffers.Element) []string {

	names := make([]string, len(layout))
	for i := 0; i < len(layout); i++ {
		names[i] = layout[i].Name
	}

	return names
}
