package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var worldUp = mgl64.Vec3{0, 1, 0}

// FollowCamera trails the car. Only its position is state; the view is
// always a look-at toward the car.
type FollowCamera struct {
	Position mgl64.Vec3
}

func NewFollowCamera() FollowCamera {
	return FollowCamera{Position: mgl64.Vec3{CameraSpawnX, CameraSpawnY, CameraSpawnZ}}
}

// Target is the resting spot behind and above a car at pos with the given yaw.
func (c *FollowCamera) Target(pos mgl64.Vec3, yaw float64, p Params) mgl64.Vec3 {
	offset := mgl64.Vec3{
		math.Sin(yaw) * -p.CameraDistance,
		p.CameraHeight,
		math.Cos(yaw) * -p.CameraDistance,
	}
	return pos.Add(offset)
}

// Follow eases the position toward Target by CameraSmoothing per axis.
func (c *FollowCamera) Follow(pos mgl64.Vec3, yaw float64, p Params) {
	target := c.Target(pos, yaw, p)
	for i := 0; i < 3; i++ {
		c.Position[i] += (target[i] - c.Position[i]) * p.CameraSmoothing
	}
}

// View looks from the camera at focus.
func (c *FollowCamera) View(focus mgl64.Vec3) mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, focus, worldUp)
}

// Lens holds projection parameters. Resize replaces the aspect only.
type Lens struct {
	FOV    float64 // degrees
	Aspect float64
	Near   float64
	Far    float64
}

func NewLens(width, height int) Lens {
	l := Lens{FOV: DefaultFOV, Aspect: 1, Near: CameraNear, Far: CameraFar}
	l.Resize(width, height)
	return l
}

// Resize ignores degenerate sizes (minimised windows report 0x0).
func (l *Lens) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	l.Aspect = float64(width) / float64(height)
}

func (l Lens) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(l.FOV), l.Aspect, l.Near, l.Far)
}
