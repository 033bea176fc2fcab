package sim

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drive/internal/geom"
)

const tol = 1e-9

// openField is a state with the real car and no obstacles.
func openField() State {
	env := &Environment{Car: NewCarModel(), Obstacles: NewObstacleSet(nil)}
	return NewState(env, DefaultParams())
}

func wall(name string, w, h, d, x, y, z float64) Obstacle {
	part := geom.NewPart(name, geom.NewBox(w, h, d), geom.Solid(Palette.Rock)).At(x, y, z)
	return NewObstacle(ObstacleRock, part, mgl64.Ident4())
}

func TestCoastNeverGrowsOrFlipsSign(t *testing.T) {
	for _, start := range []float64{0.5, 0.3, -0.25, -0.01} {
		s := openField()
		s.Vehicle.Speed = start
		in := &Input{}
		for i := 0; i < 200; i++ {
			prev := s.Vehicle.Speed
			s, _ = Step(s, in)
			assert.LessOrEqual(t, math.Abs(s.Vehicle.Speed), math.Abs(prev))
			assert.Equal(t, math.Signbit(prev), math.Signbit(s.Vehicle.Speed))
		}
	}
}

func TestSpeedStaysWithinLimits(t *testing.T) {
	s := openField()
	in := &Input{}
	in.Set(KeyUp, true)
	for i := 0; i < 50; i++ {
		s, _ = Step(s, in)
		require.LessOrEqual(t, s.Vehicle.Speed, s.Params.MaxSpeed)
	}
	assert.Equal(t, s.Params.MaxSpeed, s.Vehicle.Speed)

	in.Set(KeyUp, false)
	in.Set(KeyS, true)
	for i := 0; i < 50; i++ {
		s, _ = Step(s, in)
		require.GreaterOrEqual(t, s.Vehicle.Speed, -s.Params.MaxSpeed/2)
	}
	assert.Equal(t, -s.Params.MaxSpeed/2, s.Vehicle.Speed)
}

func TestForwardWinsOverBackward(t *testing.T) {
	s := openField()
	in := &Input{}
	in.Set(KeyW, true)
	in.Set(KeyDown, true)
	s, _ = Step(s, in)
	assert.InDelta(t, s.Params.Acceleration, s.Vehicle.Speed, tol)
}

func TestPivotInPlace(t *testing.T) {
	s := openField()
	in := &Input{}
	in.Set(KeyA, true)
	s, _ = Step(s, in)
	assert.InDelta(t, 0, s.Vehicle.Speed, tol)
	assert.NotZero(t, s.Vehicle.Yaw)
	assert.InDelta(t, 0, s.Vehicle.Position.Len(), tol)
}

func TestSteeringInvertsInReverse(t *testing.T) {
	turn := func(speed float64) float64 {
		s := openField()
		s.Vehicle.Speed = speed
		in := &Input{}
		in.Set(KeyLeft, true)
		s, _ = Step(s, in)
		return s.Vehicle.Yaw
	}
	fwd := turn(0.2)
	rev := turn(-0.2)
	assert.InDelta(t, DefaultTurnSpeed, fwd, tol)
	assert.InDelta(t, -DefaultTurnSpeed, rev, tol)
}

func TestOpposingSteerCancels(t *testing.T) {
	s := openField()
	s.Vehicle.Speed = 0.2
	in := &Input{}
	in.Set(KeyA, true)
	in.Set(KeyD, true)
	s, _ = Step(s, in)
	assert.InDelta(t, 0, s.Vehicle.Yaw, tol)
}

func TestAdvanceFollowsYaw(t *testing.T) {
	v := NewVehicle(nil)
	v.Yaw = math.Pi / 2
	v.Speed = 0.5
	v.Advance()
	assert.InDelta(t, 0.5, v.Position[0], tol)
	assert.InDelta(t, 0, v.Position[2], tol)
	assert.InDelta(t, 1, v.Direction[0], tol)
}

func TestBounceResponse(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		name      string
		speed     float64
		wantSpeed float64
		wantZ     float64
	}{
		{"forward", 0.3, -0.21, -0.45},
		{"full speed clamps reverse", 0.5, -0.25, -0.75},
		{"reversing kicks forward", -0.2, 0.14, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewVehicle(nil)
			v.Speed = tt.speed
			v.Bounce(p)
			assert.InDelta(t, tt.wantSpeed, v.Speed, tol)
			assert.InDelta(t, tt.wantZ, v.Position[2], tol)
		})
	}
}

func TestSphereOverlapAloneDoesNotCollide(t *testing.T) {
	long := geom.NewPart("probe", geom.NewBox(1, 1, 20), geom.Solid(Palette.Body))
	bar := wall("bar", 20, 1, 1, 11, 0, 11)

	v := NewVehicle(long.Hull())
	box := v.Bounds()
	require.True(t, box.BoundingSphere().Intersects(bar.Sphere))
	require.False(t, box.Intersects(bar.Box))
	assert.False(t, bar.Overlaps(box, box.BoundingSphere()))

	s := State{
		Vehicle:   v,
		Camera:    NewFollowCamera(),
		Obstacles: NewObstacleSet([]Obstacle{bar}),
		Params:    DefaultParams(),
	}
	s.Vehicle.Speed = 0.3
	s, report := Step(s, &Input{})
	assert.False(t, report.Collided)
	assert.Equal(t, -1, report.Obstacle)
	assert.InDelta(t, 0.3*DefaultDeceleration, s.Vehicle.Speed, tol)
}

func TestCollisionEndToEnd(t *testing.T) {
	s := openField()
	// Car nose sits at z=2.6 (front wheels); the wall starts at 2.8.
	s.Obstacles = NewObstacleSet([]Obstacle{wall("wall", 10, 10, 1, 0, 0, 3.3)})
	s.Vehicle.Speed = 0.25

	in := &Input{}
	in.Set(KeyW, true)
	s, report := Step(s, in)

	require.True(t, report.Collided)
	assert.Equal(t, 0, report.Obstacle)
	assert.Equal(t, ObstacleRock, report.Kind)
	assert.InDelta(t, 0.3, report.ImpactSpeed, tol)
	assert.InDelta(t, -0.21, s.Vehicle.Speed, tol)
	// Moved +0.3, then pushed back 1.5*0.3.
	assert.InDelta(t, 0.3-0.45, s.Vehicle.Position[2], tol)
	assert.InDelta(t, 0, s.Vehicle.Position[0], tol)
}

func TestFirstObstacleInListOrderWins(t *testing.T) {
	s := openField()
	s.Obstacles = NewObstacleSet([]Obstacle{
		wall("far", 1, 1, 1, 50, 0, 50),
		wall("b", 10, 10, 1, 0, 0, 3.3),
		wall("c", 10, 10, 1, 0, 0, 3.0),
	})
	s.Vehicle.Speed = 0.3
	_, report := Step(s, &Input{})
	require.True(t, report.Collided)
	assert.Equal(t, 1, report.Obstacle)
}

func TestAccelerateToTopSpeed(t *testing.T) {
	s := openField()
	in := &Input{}
	in.Set(KeyW, true)
	for i := 0; i < 10; i++ {
		s, _ = Step(s, in)
	}
	assert.InDelta(t, 0.5, s.Vehicle.Speed, tol)

	s, _ = Step(s, in)
	assert.Equal(t, 0.5, s.Vehicle.Speed)
	assert.Equal(t, uint64(11), s.Frame)
}

func TestCameraConvergesGeometrically(t *testing.T) {
	s := openField()
	target := s.Camera.Target(s.Vehicle.Position, s.Vehicle.Yaw, s.Params)
	assert.InDelta(t, -DefaultCameraDistance, target[2], tol)
	assert.InDelta(t, DefaultCameraHeight, target[1], tol)

	initial := s.Camera.Position.Sub(target)
	in := &Input{}
	for k := 1; k <= 30; k++ {
		s, _ = Step(s, in)
		got := s.Camera.Position.Sub(target)
		want := initial.Mul(math.Pow(1-DefaultCameraSmoothing, float64(k)))
		for i := 0; i < 3; i++ {
			assert.InDelta(t, want[i], got[i], 1e-9, "frame %d axis %d", k, i)
		}
	}
}

func TestCameraTargetTrailsYaw(t *testing.T) {
	c := NewFollowCamera()
	p := DefaultParams()
	got := c.Target(mgl64.Vec3{10, 0, 0}, math.Pi/2, p)
	assert.InDelta(t, 2, got[0], tol)
	assert.InDelta(t, 5, got[1], tol)
	assert.InDelta(t, 0, got[2], tol)
}

func TestViewLooksAtCar(t *testing.T) {
	s := openField()
	s.Vehicle.Position = mgl64.Vec3{3, 0, -4}
	view := s.View()
	eye := mgl64.TransformCoordinate(s.Vehicle.Position, view)
	// The car projects straight down the view axis.
	assert.InDelta(t, 0, eye[0], 1e-9)
	assert.InDelta(t, 0, eye[1], 1e-9)
	assert.Less(t, eye[2], 0.0)
}

func TestVehicleBoundsTurnWithYaw(t *testing.T) {
	v := NewVehicle(NewCarModel().Hull())
	b := v.Bounds()
	assert.InDelta(t, -1.6, b.Min[0], 1e-6)
	assert.InDelta(t, 1.6, b.Max[0], 1e-6)
	assert.InDelta(t, -2.5, b.Min[2], 1e-6)
	assert.InDelta(t, 2.6, b.Max[2], 1e-6)
	assert.InDelta(t, 0, b.Min[1], 1e-6)
	assert.InDelta(t, 2.5, b.Max[1], 1e-6)

	v.Yaw = math.Pi / 2
	b = v.Bounds()
	assert.InDelta(t, -2.5, b.Min[0], 1e-6)
	assert.InDelta(t, 2.6, b.Max[0], 1e-6)
	assert.InDelta(t, -1.6, b.Min[2], 1e-6)
	assert.InDelta(t, 1.6, b.Max[2], 1e-6)
}
