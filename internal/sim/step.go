package sim

import "github.com/go-gl/mathgl/mgl64"

// State is the whole simulation. Step takes one and returns the next.
type State struct {
	Vehicle   Vehicle
	Camera    FollowCamera
	Obstacles *ObstacleSet
	Params    Params
	Frame     uint64
}

// NewState spawns the car at the origin with the camera at its spawn pose.
func NewState(env *Environment, p Params) State {
	return State{
		Vehicle:   NewVehicle(env.Car.Hull()),
		Camera:    NewFollowCamera(),
		Obstacles: env.Obstacles,
		Params:    p,
	}
}

// FrameReport describes what happened during one Step.
type FrameReport struct {
	Collided    bool
	Obstacle    int
	Kind        ObstacleKind
	ImpactSpeed float64
}

// Step advances one displayed frame: throttle, steer, move, collide, bounce, camera.
func Step(s State, in *Input) (State, FrameReport) {
	p := s.Params
	v := &s.Vehicle

	v.Throttle(in, p)
	v.Steer(in, p)
	v.Advance()

	report := FrameReport{Obstacle: -1}
	if s.Obstacles != nil {
		box := v.Bounds()
		if i, ok := s.Obstacles.FirstHit(box, box.BoundingSphere()); ok {
			report = FrameReport{
				Collided:    true,
				Obstacle:    i,
				Kind:        s.Obstacles.At(i).Kind,
				ImpactSpeed: v.Speed,
			}
			v.Bounce(p)
		}
	}

	s.Camera.Follow(v.Position, v.Yaw, p)
	s.Frame++
	return s, report
}

// View is the camera's look-at toward the car for the current state.
func (s State) View() mgl64.Mat4 {
	return s.Camera.View(s.Vehicle.Position)
}
