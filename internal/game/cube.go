package game

import (
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog/log"

	"drive/internal/config"
	"drive/internal/geom"
	"drive/internal/sim"
)

// cubeVertices flattens a unit cube to bare positions for the unlit program.
func cubeVertices() []float32 {
	m := geom.NewBox(1, 1, 1)
	out := make([]float32, 0, len(m.Positions)*3)
	for _, p := range m.Positions {
		out = append(out, float32(p[0]), float32(p[1]), float32(p[2]))
	}
	return out
}

// spinCube advances the cube one frame.
func spinCube(cube *geom.Part) {
	cube.Rotation[0] += CubeSpin
	cube.Rotation[1] += CubeSpin
}

// RunCube is the rendering smoke test: a spinning red cube on blue.
// If this shows nothing, the GL path is broken independently of the scene.
func RunCube(cfg *config.Config) error {
	runtime.LockOSThread()

	window, err := initWindow(cfg.Window)
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	prog, err := linkProgram(flatVertSrc, flatFragSrc)
	if err != nil {
		return fmt.Errorf("flat program: %w", err)
	}
	defer gl.DeleteProgram(prog)
	uMVP := gl.GetUniformLocation(prog, gl.Str("uMVP\x00"))
	uColor := gl.GetUniformLocation(prog, gl.Str("uColor\x00"))

	verts := cubeVertices()
	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	defer gl.DeleteVertexArrays(1, &vao)
	defer gl.DeleteBuffers(1, &vbo)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(&verts[0]), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, glOffset(0))

	cube := geom.NewPart("cube", nil, geom.Solid(sim.Palette.CubeFace))
	bg := sim.Palette.CubeBG
	br, bgG, bb := bg.Floats()
	gl.ClearColor(br, bgG, bb, 1.0)
	gl.Enable(gl.DEPTH_TEST)

	vp := NewViewport(window.GetFramebufferSize())
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) { vp.Resize(w, h) })
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	view := mgl64.LookAtV(mgl64.Vec3{0, 0, CubeCameraZ}, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0})
	log.Info().Msg("cube test running: expect a rotating red cube on a blue background")

	for !window.ShouldClose() {
		glfw.PollEvents()
		if !vp.Visible() {
			glfw.WaitEvents()
			continue
		}
		spinCube(cube)

		mvp := mat32(vp.Lens.Projection().Mul4(view).Mul4(cube.Local()))
		gl.Viewport(0, 0, int32(vp.Width), int32(vp.Height))
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		gl.UseProgram(prog)
		gl.UniformMatrix4fv(uMVP, 1, false, &mvp[0])
		r, g, b := cube.Material.Color.Floats()
		gl.Uniform3f(uColor, r, g, b)
		gl.BindVertexArray(vao)
		gl.DrawArrays(gl.TRIANGLES, 0, int32(len(verts)/3))

		window.SwapBuffers()
	}
	return nil
}
