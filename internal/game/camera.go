package game

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"drive/internal/sim"
)

// Viewport tracks the framebuffer size and the lens that depends on it.
type Viewport struct {
	Width, Height int
	Lens          sim.Lens
}

func NewViewport(width, height int) *Viewport {
	return &Viewport{Width: width, Height: height, Lens: sim.NewLens(width, height)}
}

// Resize replaces the size. A zero size (minimised) keeps the last aspect.
func (v *Viewport) Resize(width, height int) {
	v.Width, v.Height = width, height
	v.Lens.Resize(width, height)
}

// Visible reports whether there is anything to draw into.
func (v *Viewport) Visible() bool { return v.Width > 0 && v.Height > 0 }

func (v *Viewport) Projection() mgl32.Mat4 { return mat32(v.Lens.Projection()) }

// mat32 narrows a simulation matrix for upload.
func mat32(m mgl64.Mat4) mgl32.Mat4 {
	var out mgl32.Mat4
	for i := range m {
		out[i] = float32(m[i])
	}
	return out
}

func vec32(v mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}
