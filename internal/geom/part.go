package geom

import "github.com/go-gl/mathgl/mgl64"

// Part is a node of a procedural model: an optional mesh with a local transform
// relative to its parent. Rotation is Euler XYZ in radians.
type Part struct {
	Name     string
	Mesh     *Mesh
	Material Material
	Position mgl64.Vec3
	Rotation mgl64.Vec3
	Scale    mgl64.Vec3
	Children []*Part
}

// NewPart returns a part at the origin with unit scale.
func NewPart(name string, mesh *Mesh, mat Material) *Part {
	return &Part{Name: name, Mesh: mesh, Material: mat, Scale: mgl64.Vec3{1, 1, 1}}
}

// At sets the local position and returns the part for chaining.
func (p *Part) At(x, y, z float64) *Part {
	p.Position = mgl64.Vec3{x, y, z}
	return p
}

// Add appends children and returns the part.
func (p *Part) Add(children ...*Part) *Part {
	p.Children = append(p.Children, children...)
	return p
}

// Local returns translate * rotate(XYZ) * scale.
func (p *Part) Local() mgl64.Mat4 {
	rot := mgl64.HomogRotate3DX(p.Rotation[0]).
		Mul4(mgl64.HomogRotate3DY(p.Rotation[1])).
		Mul4(mgl64.HomogRotate3DZ(p.Rotation[2]))
	return mgl64.Translate3D(p.Position[0], p.Position[1], p.Position[2]).
		Mul4(rot).
		Mul4(mgl64.Scale3D(p.Scale[0], p.Scale[1], p.Scale[2]))
}

// Walk visits p and its descendants depth-first with their world matrices.
func (p *Part) Walk(parent mgl64.Mat4, fn func(part *Part, world mgl64.Mat4)) {
	world := parent.Mul4(p.Local())
	fn(p, world)
	for _, c := range p.Children {
		c.Walk(world, fn)
	}
}

// Bounds returns the world box of every mesh under p, each mesh box transformed
// by its own world matrix before the union.
func (p *Part) Bounds(parent mgl64.Mat4) Box3 {
	box := EmptyBox()
	p.Walk(parent, func(part *Part, world mgl64.Mat4) {
		if part.Mesh != nil {
			box = box.Union(part.Mesh.Bounds().Transform(world))
		}
	})
	return box
}

// Hull returns the corners of every mesh box under p in p's parent space.
// The world box under any later parent transform is the extent of these points.
func (p *Part) Hull() []mgl64.Vec3 {
	var pts []mgl64.Vec3
	p.Walk(mgl64.Ident4(), func(part *Part, world mgl64.Mat4) {
		if part.Mesh == nil {
			return
		}
		for _, c := range part.Mesh.Bounds().Corners() {
			pts = append(pts, mgl64.TransformCoordinate(c, world))
		}
	})
	return pts
}

// HullBounds transforms hull points by m and returns their extent.
func HullBounds(hull []mgl64.Vec3, m mgl64.Mat4) Box3 {
	box := EmptyBox()
	for _, c := range hull {
		box = box.ExpandByPoint(mgl64.TransformCoordinate(c, m))
	}
	return box
}
