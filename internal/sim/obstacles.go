package sim

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"drive/internal/geom"
)

type ObstacleKind int

const (
	ObstacleRock ObstacleKind = iota
	ObstacleTrunk
	ObstacleCanopy
)

func (k ObstacleKind) String() string {
	switch k {
	case ObstacleRock:
		return "rock"
	case ObstacleTrunk:
		return "trunk"
	case ObstacleCanopy:
		return "canopy"
	}
	return "unknown"
}

// Obstacle pairs a static mesh with its world bounds, computed once.
type Obstacle struct {
	Kind   ObstacleKind
	Part   *geom.Part
	Box    geom.Box3
	Sphere geom.Sphere
}

// NewObstacle bounds part (and its children) under the given parent world matrix.
func NewObstacle(kind ObstacleKind, part *geom.Part, parent mgl64.Mat4) Obstacle {
	box := part.Bounds(parent)
	return Obstacle{Kind: kind, Part: part, Box: box, Sphere: box.BoundingSphere()}
}

// Overlaps runs the cheap sphere test first, then the box test. Both must pass.
func (o *Obstacle) Overlaps(box geom.Box3, sphere geom.Sphere) bool {
	return sphere.Intersects(o.Sphere) && box.Intersects(o.Box)
}

// ObstacleSet is the read-only obstacle list for a session, in registration order.
type ObstacleSet struct {
	list  []Obstacle
	index *QuadNode

	scratch []int
}

// NewObstacleSet copies obs and indexes their footprints.
func NewObstacleSet(obs []Obstacle) *ObstacleSet {
	s := &ObstacleSet{list: slices.Clone(obs)}
	if len(s.list) == 0 {
		return s
	}
	world := EmptyFootprint()
	for i := range s.list {
		world = world.union(FootprintOf(s.list[i].Box))
	}
	s.index = NewQuadNode(world, 0)
	for i := range s.list {
		s.index.Insert(i, FootprintOf(s.list[i].Box))
	}
	return s
}

func (s *ObstacleSet) Len() int { return len(s.list) }

func (s *ObstacleSet) At(i int) Obstacle { return s.list[i] }

// FirstHit returns the lowest-indexed obstacle overlapping the given volume.
// The quadtree only prunes, so the answer matches a scan in list order.
func (s *ObstacleSet) FirstHit(box geom.Box3, sphere geom.Sphere) (int, bool) {
	if s.index == nil {
		return -1, false
	}
	s.scratch = s.scratch[:0]
	s.index.Query(FootprintOf(box), &s.scratch)
	slices.Sort(s.scratch)
	for _, i := range s.scratch {
		if s.list[i].Overlaps(box, sphere) {
			return i, true
		}
	}
	return -1, false
}

func (s *ObstacleSet) firstHitLinear(box geom.Box3, sphere geom.Sphere) (int, bool) {
	for i := range s.list {
		if s.list[i].Overlaps(box, sphere) {
			return i, true
		}
	}
	return -1, false
}

// EmptyFootprint is the identity for union.
func EmptyFootprint() RectXZ {
	e := geom.EmptyBox()
	return FootprintOf(e)
}

func (r RectXZ) union(o RectXZ) RectXZ {
	if o.X0 < r.X0 {
		r.X0 = o.X0
	}
	if o.Z0 < r.Z0 {
		r.Z0 = o.Z0
	}
	if o.X1 > r.X1 {
		r.X1 = o.X1
	}
	if o.Z1 > r.Z1 {
		r.Z1 = o.Z1
	}
	return r
}
