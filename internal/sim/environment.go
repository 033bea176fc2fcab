package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"drive/internal/geom"
)

// EnvOptions controls the scattered terrain.
type EnvOptions struct {
	Seed       uint64
	Rocks      int
	Trees      int
	Extent     float64 // side of the scatter square
	Clearing   float64 // trees nearer than this to an axis are pushed out
	ClearShift float64
}

func DefaultEnvOptions() EnvOptions {
	return EnvOptions{
		Seed:       ClockSeed(),
		Rocks:      DefaultRocks,
		Trees:      DefaultTrees,
		Extent:     DefaultExtent,
		Clearing:   DefaultClearing,
		ClearShift: DefaultClearShift,
	}
}

// Environment is everything built once at startup.
type Environment struct {
	Car       *geom.Part
	Ground    *geom.Part
	Scenery   []*geom.Part // rocks then trees, in build order
	Obstacles *ObstacleSet
}

// NewCarModel builds the car out of primitives, in car space with +Z forward.
func NewCarModel() *geom.Part {
	car := geom.NewPart("car", nil, geom.Material{})

	body := geom.NewPart("body", geom.NewBox(3, 1.2, 5), geom.Solid(Palette.Body)).At(0, 1.2, 0)
	cab := geom.NewPart("cab", geom.NewBox(2.8, 0.8, 2), geom.Solid(Palette.Cab)).At(0, 2, 0.5)
	glass := geom.NewPart("windows", geom.NewBox(2.6, 0.6, 1.8),
		geom.Material{Color: Palette.Glass, Opacity: 0.7}).At(0, 2.2, 0.5)
	car.Add(body, cab, glass)

	tyre := geom.NewCylinder(0.6, 0.6, 0.4, 32)
	hub := geom.NewCylinder(0.2, 0.2, 0.41, 12)
	for _, p := range [4][3]float64{
		{1.4, 0.6, 2}, {1.4, 0.6, -1.5},
		{-1.4, 0.6, 2}, {-1.4, 0.6, -1.5},
	} {
		w := geom.NewPart("wheel", tyre, geom.Solid(Palette.Tyre)).At(p[0], p[1], p[2])
		w.Rotation = mgl64.Vec3{0, 0, math.Pi / 2}
		h := geom.NewPart("hub", hub, geom.Solid(Palette.Hub))
		h.Rotation = mgl64.Vec3{0, 0, math.Pi / 2}
		car.Add(w.Add(h))
	}

	lamp := geom.NewSphere(0.3, 16, 16)
	lampMat := geom.Material{Color: Palette.Headlight, Emissive: 0.5, Opacity: 1}
	car.Add(
		geom.NewPart("headlight", lamp, lampMat).At(1, 1.8, 2.2),
		geom.NewPart("headlight", lamp, lampMat).At(-1, 1.8, 2.2),
	)

	plate := geom.NewPart("plate", geom.NewPlane(1, 0.3), geom.Solid(Palette.Plate)).At(0, 1, -2.5)
	plate.Scale = mgl64.Vec3{-1, 1, 1}
	car.Add(plate)

	return car
}

// NewGround is the flat ground, rotated into the XZ plane.
func NewGround() *geom.Part {
	g := geom.NewPart("ground", geom.NewPlane(GroundSize, GroundSize), geom.Solid(Palette.Ground))
	g.Rotation = mgl64.Vec3{-math.Pi / 2, 0, 0}
	return g
}

// BuildEnvironment scatters rocks and trees and registers each of their meshes
// as an obstacle. Car parts and the ground are never obstacles.
func BuildEnvironment(opts EnvOptions) *Environment {
	r := NewRand(opts.Seed)
	half := opts.Extent / 2
	ident := mgl64.Ident4()

	env := &Environment{Car: NewCarModel(), Ground: NewGround()}
	var obs []Obstacle

	rockMesh := geom.NewDodecahedron(RockRadius, RockDetail)
	rockMat := geom.Solid(Palette.Rock)
	for i := 0; i < opts.Rocks; i++ {
		x := r.RangeF(-half, half)
		z := r.RangeF(-half, half)
		s := r.RangeF(RockScaleMin, RockScaleMax)
		rock := geom.NewPart("rock", rockMesh, rockMat).At(x, 0, z)
		rock.Scale = mgl64.Vec3{s, s, s}
		env.Scenery = append(env.Scenery, rock)
		obs = append(obs, NewObstacle(ObstacleRock, rock, ident))
	}

	trunkMesh := geom.NewCylinder(0.5, 0.8, 5, 8)
	topMesh := geom.NewCone(3, 8, 5)
	for i := 0; i < opts.Trees; i++ {
		x := r.RangeF(-half, half)
		z := r.RangeF(-half, half)
		if math.Abs(x) < opts.Clearing {
			x += opts.ClearShift
		}
		if math.Abs(z) < opts.Clearing {
			z += opts.ClearShift
		}
		trunk := geom.NewPart("trunk", trunkMesh, geom.Solid(Palette.Trunk)).At(0, 2.5, 0)
		top := geom.NewPart("canopy", topMesh, geom.Solid(Palette.Canopy)).At(0, 7, 0)
		tree := geom.NewPart("tree", nil, geom.Material{}).At(x, 0, z).Add(trunk, top)
		env.Scenery = append(env.Scenery, tree)

		world := tree.Local()
		obs = append(obs,
			NewObstacle(ObstacleTrunk, trunk, world),
			NewObstacle(ObstacleCanopy, top, world),
		)
	}

	env.Obstacles = NewObstacleSet(obs)
	return env
}
