package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"drive/internal/geom"
)

// Params are the per-frame tunables of the driving model.
type Params struct {
	MaxSpeed     float64
	Acceleration float64
	Deceleration float64
	TurnSpeed    float64

	Pushback    float64
	Restitution float64

	CameraDistance  float64
	CameraHeight    float64
	CameraSmoothing float64
}

func DefaultParams() Params {
	return Params{
		MaxSpeed:        DefaultMaxSpeed,
		Acceleration:    DefaultAcceleration,
		Deceleration:    DefaultDeceleration,
		TurnSpeed:       DefaultTurnSpeed,
		Pushback:        DefaultPushback,
		Restitution:     DefaultRestitution,
		CameraDistance:  DefaultCameraDistance,
		CameraHeight:    DefaultCameraHeight,
		CameraSmoothing: DefaultCameraSmoothing,
	}
}

// MinSpeed is the reverse limit.
func (p Params) MinSpeed() float64 { return -p.MaxSpeed / 2 }

// Vehicle is the player car. Speed is signed along Direction.
type Vehicle struct {
	Position  mgl64.Vec3
	Yaw       float64
	Speed     float64
	Direction mgl64.Vec3 // recomputed from Yaw every frame

	hull []mgl64.Vec3 // mesh box corners in car space
}

// NewVehicle places a car at the origin facing +Z. hull comes from geom.Part.Hull of the car model.
func NewVehicle(hull []mgl64.Vec3) Vehicle {
	return Vehicle{Direction: mgl64.Vec3{0, 0, 1}, hull: hull}
}

// Throttle applies exactly one of accelerate, reverse or coast.
func (v *Vehicle) Throttle(in *Input, p Params) {
	switch {
	case in.Forward():
		v.Speed = math.Min(v.Speed+p.Acceleration, p.MaxSpeed)
	case in.Backward():
		v.Speed = math.Max(v.Speed-p.Acceleration, p.MinSpeed())
	default:
		v.Speed *= p.Deceleration
	}
}

// Steer turns by a fixed step. The sense flips unless the car is moving forward,
// so a stationary car pivots the same way as a reversing one.
func (v *Vehicle) Steer(in *Input, p Params) {
	sense := -1.0
	if v.Speed > 0 {
		sense = 1.0
	}
	if in.Left() {
		v.Yaw += p.TurnSpeed * sense
	}
	if in.Right() {
		v.Yaw -= p.TurnSpeed * sense
	}
}

// Advance refreshes Direction from Yaw and moves by Speed along it.
func (v *Vehicle) Advance() {
	v.Direction = mgl64.Vec3{math.Sin(v.Yaw), 0, math.Cos(v.Yaw)}
	v.Position = v.Position.Add(v.Direction.Mul(v.Speed))
}

// Bounce kicks the car back along -Direction by Pushback*Speed and reverses
// the speed at reduced magnitude, clamped to the reverse limit.
func (v *Vehicle) Bounce(p Params) {
	v.Position = v.Position.Add(v.Direction.Mul(-1).Mul(v.Speed * p.Pushback))
	v.Speed = math.Max(p.MinSpeed(), -v.Speed*p.Restitution)
}

// Transform is the car's world matrix.
func (v *Vehicle) Transform() mgl64.Mat4 {
	return mgl64.Translate3D(v.Position[0], v.Position[1], v.Position[2]).
		Mul4(mgl64.HomogRotate3DY(v.Yaw))
}

// Bounds is the world box of every car part at the current pose.
func (v *Vehicle) Bounds() geom.Box3 {
	return geom.HullBounds(v.hull, v.Transform())
}
