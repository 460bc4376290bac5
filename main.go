package main

import (
	_ "embed"
	"flag"
	"fmt"
	"runtime"
	"strings"

	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/meshattr/accessors"
	"github.com/bloeys/meshattr/assets"
	"github.com/bloeys/meshattr/buffers"
	"github.com/bloeys/meshattr/engine"
	"github.com/bloeys/meshattr/input"
	"github.com/bloeys/meshattr/logging"
	"github.com/bloeys/meshattr/materials"
	"github.com/bloeys/meshattr/meshes"
	"github.com/bloeys/meshattr/renderer/rend3dgl"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	UNSCALED_WINDOW_WIDTH  = 1280
	UNSCALED_WINDOW_HEIGHT = 720
)

//go:embed res/shaders/mesh.glsl
var meshShaderSrc []byte

type ColorMode int

const (
	ColorMode_Normals ColorMode = iota
	ColorMode_Height
	ColorMode_Flat
	colorModeCount
)

func (c ColorMode) String() string {

	switch c {
	case ColorMode_Normals:
		return "normals"
	case ColorMode_Height:
		return "height"
	case ColorMode_Flat:
		return "flat"
	default:
		return "unknown"
	}
}

func parseColorMode(s string) (ColorMode, error) {

	for c := ColorMode(0); c < colorModeCount; c++ {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}

	return 0, fmt.Errorf("unknown color mode '%s'. Must be one of: normals, height, flat", s)
}

type Game struct {
	WinWidth  int32
	WinHeight int32
	Win       *engine.Window
	Rend      *rend3dgl.Rend3DGL

	Mesh       *meshes.Mesh
	Mat        materials.Material
	ShaderPath string
	ColorMode  ColorMode

	Lit           bool
	ShowBackFaces bool

	Yaw   float32
	Pitch float32
	Zoom  float32
}

func main() {

	modelPath := flag.String("model", "", "Path of the model to show. A cube is shown when empty")
	shaderPath := flag.String("shader", "", "Optional path of a combined shader to draw with instead of the built in one. Must read 'position', 'normal' and 'color' and declare the same uniforms")
	layoutPath := flag.String("layout", "", "Optional path of a YAML vertex layout. Must have 'position', 'normal' and 'color' elements")
	recomputeNormals := flag.Bool("recompute-normals", false, "Recompute normals from the triangles instead of using the ones of the model")
	colorModeStr := flag.String("colors", "normals", "How vertices are colored: normals, height or flat. Press 'C' to cycle")
	flag.Parse()

	colorMode, err := parseColorMode(*colorModeStr)
	if err != nil {
		logging.ErrLog.Fatalln(err)
	}

	mesh, err := loadMesh(*modelPath, *layoutPath)
	if err != nil {
		logging.ErrLog.Fatalln("Failed to load mesh. Err:", err)
	}

	if *recomputeNormals {
		if err := mesh.ComputeNormals(); err != nil {
			logging.ErrLog.Fatalln("Failed to compute normals. Err:", err)
		}
	}

	if err := mesh.FitToUnitCube(); err != nil {
		logging.ErrLog.Fatalln("Failed to fit mesh into the unit cube. Err:", err)
	}

	//Init engine
	err = engine.Init()
	if err != nil {
		logging.ErrLog.Fatalln("Failed to init engine. Err:", err)
	}

	game := &Game{
		Rend:      rend3dgl.NewRend3DGL(),
		Mesh:      mesh,
		ColorMode: colorMode,
		Lit:       true,
		Pitch:     0.4,
		Zoom:      1.2,
	}

	//Create window
	dpiScaling := getDpiScaling(UNSCALED_WINDOW_WIDTH, UNSCALED_WINDOW_HEIGHT)
	game.WinWidth = int32(UNSCALED_WINDOW_WIDTH * dpiScaling)
	game.WinHeight = int32(UNSCALED_WINDOW_HEIGHT * dpiScaling)

	game.Win, err = engine.CreateOpenGLWindowCentered("meshattr", game.WinWidth, game.WinHeight, engine.WindowFlags_RESIZABLE|engine.WindowFlags_ALLOW_HIGHDPI, game.Rend)
	if err != nil {
		logging.ErrLog.Fatalln("Failed to create window. Err: ", err)
	}
	defer game.Win.Destroy()

	engine.SetMSAA(true)
	engine.SetVSync(true)

	game.ShaderPath = *shaderPath

	game.Win.EventCallbacks = append(game.Win.EventCallbacks, game.handleWindowEvents)
	engine.Run(game, game.Win)
}

func loadMesh(modelPath, layoutPath string) (*meshes.Mesh, error) {

	var vb *buffers.VertexBuffer
	if layoutPath == "" {
		vb = buffers.NewVertexBuffer(meshes.DefaultLayout(true)...)
	} else {

		layoutConfig, err := buffers.LoadLayoutConfig(layoutPath)
		if err != nil {
			return nil, err
		}

		vb, err = layoutConfig.NewVertexBuffer()
		if err != nil {
			return nil, err
		}

		logging.InfoLog.Printf("Using vertex layout from '%s' (stride=%d): %v\n", layoutPath, vb.Stride(), vb.GetLayout())
	}

	for _, name := range []string{meshes.AttrPosition, meshes.AttrNormal, meshes.AttrColor} {
		if _, ok := vb.FindElement(name); !ok {
			return nil, fmt.Errorf("vertex layout has no '%s' element", name)
		}
	}

	if modelPath == "" {

		mesh := meshes.NewMeshWithBuffer("cube", vb)
		if err := mesh.AddSubMesh(cubeMeshData()); err != nil {
			return nil, err
		}

		return mesh, nil
	}

	return assets.LoadMeshWithBuffer(modelPath, modelPath, assets.DefaultMeshLoadFlags, vb)
}

// cubeMeshData is a unit cube with one face per side so that normals are flat
func cubeMeshData() *meshes.MeshData {

	d := &meshes.MeshData{}

	axes := [3]gglm.Vec3{
		{Data: [3]float32{1, 0, 0}},
		{Data: [3]float32{0, 1, 0}},
		{Data: [3]float32{0, 0, 1}},
	}

	for a := 0; a < 3; a++ {
		for _, sign := range []float32{1, -1} {

			n := axes[a]
			u := axes[(a+1)%3]
			v := axes[(a+2)%3]
			for c := 0; c < 3; c++ {
				n.Data[c] *= sign
				u.Data[c] *= sign
			}

			first := uint32(len(d.Positions))
			for _, corner := range [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {

				var p gglm.Vec3
				for c := 0; c < 3; c++ {
					p.Data[c] = 0.5 * (n.Data[c] + corner[0]*u.Data[c] + corner[1]*v.Data[c])
				}

				d.Positions = append(d.Positions, p)
				d.Normals = append(d.Normals, n)
			}

			d.Indices = append(d.Indices, first, first+1, first+2, first, first+2, first+3)
		}
	}

	return d
}

func (g *Game) handleWindowEvents(e sdl.Event) {

	switch e := e.(type) {
	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			g.WinWidth = e.Data1
			g.WinHeight = e.Data2
		}
	}
}

func getDpiScaling(unscaledWindowWidth, unscaledWindowHeight int32) float32 {

	// The no-scaling DPI on different platforms (e.g. when scale=100% on windows)
	var defaultDpi float32 = 96
	if runtime.GOOS == "darwin" {
		defaultDpi = 72
	}

	// Current DPI of the monitor
	_, dpiHorizontal, _, err := sdl.GetDisplayDPI(0)
	if err != nil {
		dpiHorizontal = defaultDpi
		logging.ErrLog.Printf("Failed to get DPI with error '%s'. Using default DPI of '%f'\n", err.Error(), defaultDpi)
	}

	// Scaling factor (e.g. will be 1.25 for 125% scaling on windows)
	dpiScaling := dpiHorizontal / defaultDpi

	logging.InfoLog.Printf(
		"Default DPI=%f; Horizontal DPI=%f; DPI scaling=%f; Scaled window size (width, height)=(%d, %d)\n",
		defaultDpi,
		dpiHorizontal,
		dpiScaling,
		int32(float32(unscaledWindowWidth)*dpiScaling), int32(float32(unscaledWindowHeight)*dpiScaling),
	)

	return dpiScaling
}

func (g *Game) Init() {

	layout := g.Mesh.Vertices.GetLayout()
	if g.ShaderPath == "" {
		g.Mat = materials.NewMaterialSrc("Mesh Mat", meshShaderSrc, layout)
	} else {
		g.Mat = materials.NewMaterial("Mesh Mat", g.ShaderPath, layout)
	}

	// Asserts that the shader reads the attributes the color modes write
	logging.InfoLog.Printf(
		"Shader attribute locations: position=%d, normal=%d, color=%d\n",
		g.Mat.GetAttribLoc(meshes.AttrPosition),
		g.Mat.GetAttribLoc(meshes.AttrNormal),
		g.Mat.GetAttribLoc(meshes.AttrColor),
	)

	lightDir := gglm.NewVec3(0.3, 0.6, 1)
	backFaceColor := gglm.NewVec4(0.9, 0.1, 0.6, 1)
	g.Mat.SetUnifVec3("lightDir", lightDir.Normalize())
	g.Mat.SetUnifVec4("backFaceColor", &backFaceColor)
	g.Mat.SetUnifFloat32("ambient", 0.35)
	g.setLit(g.Lit)

	g.recolor()
}

// recolor writes the vertex colors of the current color mode and uploads the mesh again
func (g *Game) recolor() {

	var err error
	switch g.ColorMode {
	case ColorMode_Normals:
		err = g.Mesh.ColorFromNormals()
	case ColorMode_Height:
		err = g.Mesh.ColorByHeight(accessors.Color4f{R: 0.1, G: 0.3, B: 0.9, A: 1}, accessors.Color4f{R: 0.95, G: 0.5, B: 0.1, A: 1})
	case ColorMode_Flat:
		err = g.Mesh.FillColor(accessors.Color4f{R: 0.8, G: 0.8, B: 0.8, A: 1})
	}

	if err != nil {
		logging.ErrLog.Printf("Failed to color mesh by '%s'. Err: %s\n", g.ColorMode, err)
		return
	}

	g.Rend.UploadMesh(g.Mesh, buffers.BufUsage_Dynamic_Draw)
	g.Win.SDLWin.SetTitle(fmt.Sprintf("meshattr - %s (colors: %s)", g.Mesh.Name, g.ColorMode))
}

func (g *Game) setLit(lit bool) {

	g.Lit = lit
	if lit {
		g.Mat.SetUnifInt32("lit", 1)
	} else {
		g.Mat.SetUnifInt32("lit", 0)
	}
}

func (g *Game) Update() {

	if input.KeyClicked(sdl.K_ESCAPE) {
		engine.Quit()
	}

	if input.KeyClicked(sdl.K_c) {
		g.ColorMode = (g.ColorMode + 1) % colorModeCount
		g.recolor()
	}

	if input.KeyClicked(sdl.K_l) {
		g.setLit(!g.Lit)
	}

	// Faces wound clockwise are drawn in the back face color
	if input.KeyClicked(sdl.K_b) {

		g.ShowBackFaces = !g.ShowBackFaces
		if g.ShowBackFaces {
			gl.Disable(gl.CULL_FACE)
		} else {
			gl.Enable(gl.CULL_FACE)
		}
	}

	if input.MouseDown(sdl.BUTTON_LEFT) {
		dx, dy := input.GetMouseMotion()
		g.Yaw += float32(dx) * 0.01
		g.Pitch += float32(dy) * 0.01
	} else {
		g.Yaw += 0.005
	}

	// Horizontal scrolling also rotates, for touchpads
	wheelX, _ := input.GetMouseWheelMotion()
	g.Yaw += float32(wheelX) * 0.05

	g.Zoom *= 1 + 0.1*float32(input.GetMouseWheelYNorm())
	if g.Zoom < 0.1 {
		g.Zoom = 0.1
	}

	if g.Rend.NeedsUpload(g.Mesh) {
		g.Rend.UploadMesh(g.Mesh, buffers.BufUsage_Dynamic_Draw)
	}
}

func (g *Game) Render() {

	modelMat := g.modelMat()
	projViewMat := g.projViewMat()
	g.Mat.SetUnifMat4("modelMat", &modelMat.Mat4)
	g.Mat.SetUnifMat4("projViewMat", &projViewMat)

	if err := g.Rend.DrawMesh(g.Mesh, &g.Mat); err != nil {
		logging.ErrLog.Println("Failed to draw mesh. Err:", err)
	}
}

// modelMat spins the mesh around the origin. It must stay a pure rotation since the
// shader transforms normals with it
func (g *Game) modelMat() gglm.TrMat {
	modelMat := gglm.NewTrMatId()
	modelMat.Rotate(g.Pitch, 1, 0, 0).Rotate(g.Yaw, 0, 1, 0)
	return modelMat
}

// projViewMat looks at the origin from the +Z axis. Zooming in moves the camera closer.
func (g *Game) projViewMat() gglm.Mat4 {

	camPos := gglm.NewVec3(0, 0, 2/g.Zoom)
	targetPos := gglm.NewVec3(0, 0, 0)
	worldUp := gglm.NewVec3(0, 1, 0)
	viewMat := gglm.LookAtRH(&camPos, &targetPos, &worldUp).Mat4

	aspect := float32(g.WinWidth) / float32(g.WinHeight)
	projMat := gglm.Perspective(45*gglm.Deg2Rad, aspect, 0.01, camPos.Z()+2)
	return *projMat.Mul(&viewMat)
}

func (g *Game) FrameEnd() {
}

func (g *Game) DeInit() {
	g.Rend.DeleteMesh(g.Mesh)
	g.Mat.Delete()
}
