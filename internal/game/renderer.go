package game

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"drive/internal/geom"
	"drive/internal/sim"
)

// glOffset converts a byte offset to unsafe.Pointer for OpenGL VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

// bakePart appends every mesh under root as interleaved vertices, transformed by parent.
func bakePart(out []float32, root *geom.Part, parent mgl64.Mat4) []float32 {
	root.Walk(parent, func(p *geom.Part, world mgl64.Mat4) {
		if p.Mesh == nil {
			return
		}
		normalMat := world.Mat3().Inv().Transpose()
		r, g, b := p.Material.Color.Floats()
		for i, pos := range p.Mesh.Positions {
			wp := mgl64.TransformCoordinate(pos, world)
			n := normalMat.Mul3x1(p.Mesh.Normals[i]).Normalize()
			out = append(out,
				float32(wp[0]), float32(wp[1]), float32(wp[2]),
				float32(n[0]), float32(n[1]), float32(n[2]),
				r, g, b,
				p.Material.Emissive, p.Material.Opacity,
			)
		}
	})
	return out
}

// bakeEnvironment flattens the ground and all scenery into world space.
func bakeEnvironment(env *sim.Environment) []float32 {
	ident := mgl64.Ident4()
	var out []float32
	if env.Ground != nil {
		out = bakePart(out, env.Ground, ident)
	}
	for _, p := range env.Scenery {
		out = bakePart(out, p, ident)
	}
	return out
}

type meshBuffer struct {
	vao, vbo uint32
	count    int32
}

func uploadMesh(data []float32) meshBuffer {
	var b meshBuffer
	gl.GenVertexArrays(1, &b.vao)
	gl.GenBuffers(1, &b.vbo)
	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(&data[0]), gl.STATIC_DRAW)
	}

	stride := int32(vertexFloats * 4)
	// aPos (vec3)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, glOffset(0))
	// aNormal (vec3)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, glOffset(3*4))
	// aColor (vec3)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 3, gl.FLOAT, false, stride, glOffset(6*4))
	// aEmissiveAlpha (vec2)
	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointer(3, 2, gl.FLOAT, false, stride, glOffset(9*4))

	b.count = int32(len(data) / vertexFloats)
	return b
}

func (b *meshBuffer) draw() {
	if b.count == 0 {
		return
	}
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, b.count)
}

func (b *meshBuffer) destroy() {
	gl.DeleteBuffers(1, &b.vbo)
	gl.DeleteVertexArrays(1, &b.vao)
	b.count = 0
}

type Renderer struct {
	prog uint32

	uModel    int32
	uView     int32
	uProj     int32
	uLightDir int32
	uAmbient  int32
	uDiffuse  int32
	uFogColor int32
	uFogRange int32

	static meshBuffer // ground and scenery, world space
	car    meshBuffer // car space, drawn with the vehicle transform
}

func NewRenderer() (*Renderer, error) {
	prog, err := linkProgram(meshVertSrc, meshFragSrc)
	if err != nil {
		return nil, fmt.Errorf("mesh program: %w", err)
	}
	r := &Renderer{prog: prog}

	gl.UseProgram(prog)
	r.uModel = gl.GetUniformLocation(prog, gl.Str("uModel\x00"))
	r.uView = gl.GetUniformLocation(prog, gl.Str("uView\x00"))
	r.uProj = gl.GetUniformLocation(prog, gl.Str("uProj\x00"))
	r.uLightDir = gl.GetUniformLocation(prog, gl.Str("uLightDir\x00"))
	r.uAmbient = gl.GetUniformLocation(prog, gl.Str("uAmbient\x00"))
	r.uDiffuse = gl.GetUniformLocation(prog, gl.Str("uDiffuse\x00"))
	r.uFogColor = gl.GetUniformLocation(prog, gl.Str("uFogColor\x00"))
	r.uFogRange = gl.GetUniformLocation(prog, gl.Str("uFogRange\x00"))

	sun := mgl32.Vec3{SunX, SunY, SunZ}.Normalize()
	gl.Uniform3f(r.uLightDir, sun[0], sun[1], sun[2])
	gl.Uniform1f(r.uAmbient, AmbientIntensity)
	gl.Uniform1f(r.uDiffuse, SunIntensity)
	fr, fg, fb := sim.Palette.Sky.Floats()
	gl.Uniform3f(r.uFogColor, fr, fg, fb)
	gl.Uniform2f(r.uFogRange, FogNear, FogFar)

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.CULL_FACE)
	gl.ClearColor(fr, fg, fb, 1.0)

	return r, nil
}

// LoadEnvironment uploads the static scene and the car model once.
func (r *Renderer) LoadEnvironment(env *sim.Environment) {
	r.static.destroy()
	r.car.destroy()
	r.static = uploadMesh(bakeEnvironment(env))
	r.car = uploadMesh(bakePart(nil, env.Car, mgl64.Ident4()))
}

func (r *Renderer) BeginFrame(vp *Viewport) {
	gl.Viewport(0, 0, int32(vp.Width), int32(vp.Height))
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Draw renders the scene from the state's follow camera.
func (r *Renderer) Draw(s sim.State, vp *Viewport) {
	gl.UseProgram(r.prog)

	view := mat32(s.View())
	proj := vp.Projection()
	gl.UniformMatrix4fv(r.uView, 1, false, &view[0])
	gl.UniformMatrix4fv(r.uProj, 1, false, &proj[0])

	ident := mgl32.Ident4()
	gl.UniformMatrix4fv(r.uModel, 1, false, &ident[0])
	r.static.draw()

	model := mat32(s.Vehicle.Transform())
	gl.UniformMatrix4fv(r.uModel, 1, false, &model[0])
	r.car.draw()
}

func (r *Renderer) Destroy() {
	r.static.destroy()
	r.car.destroy()
	gl.DeleteProgram(r.prog)
}
