package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Mesh is a flat-shaded, non-indexed triangle list in local space.
// Every primitive is centred on the origin.
type Mesh struct {
	Positions []mgl64.Vec3 // 3 per triangle
	Normals   []mgl64.Vec3 // one per vertex, equal across a triangle
	bounds    Box3
}

// Bounds returns the local-space bounding box of the vertices.
func (m *Mesh) Bounds() Box3 { return m.bounds }

// Triangles returns the number of triangles.
func (m *Mesh) Triangles() int { return len(m.Positions) / 3 }

// addOutward appends a triangle whose normal faces away from the origin.
// Primitives are convex around the origin, so this fixes winding for free.
func (m *Mesh) addOutward(a, b, c mgl64.Vec3) {
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Len() < 1e-12 {
		return // degenerate (pole or cone apex)
	}
	n = n.Normalize()
	centroid := a.Add(b).Add(c).Mul(1.0 / 3.0)
	if n.Dot(centroid) < 0 {
		n = n.Mul(-1)
		b, c = c, b
	}
	m.Positions = append(m.Positions, a, b, c)
	m.Normals = append(m.Normals, n, n, n)
}

// addFacing appends a triangle with an explicit normal.
func (m *Mesh) addFacing(a, b, c, n mgl64.Vec3) {
	m.Positions = append(m.Positions, a, b, c)
	m.Normals = append(m.Normals, n, n, n)
}

func (m *Mesh) finish() *Mesh {
	m.bounds = EmptyBox()
	for _, p := range m.Positions {
		m.bounds = m.bounds.ExpandByPoint(p)
	}
	return m
}

// NewBox builds an axis-aligned box of the given width (x), height (y) and depth (z).
func NewBox(w, h, d float64) *Mesh {
	x, y, z := w/2, h/2, d/2
	c := Box3{Min: mgl64.Vec3{-x, -y, -z}, Max: mgl64.Vec3{x, y, z}}.Corners()
	m := &Mesh{}
	// Corner index bits: 4 = +x, 2 = +y, 1 = +z.
	faces := [6][4]int{
		{0, 1, 3, 2}, // -x
		{4, 6, 7, 5}, // +x
		{0, 4, 5, 1}, // -y
		{2, 3, 7, 6}, // +y
		{0, 2, 6, 4}, // -z
		{1, 5, 7, 3}, // +z
	}
	for _, f := range faces {
		m.addOutward(c[f[0]], c[f[1]], c[f[2]])
		m.addOutward(c[f[0]], c[f[2]], c[f[3]])
	}
	return m.finish()
}

// NewCylinder builds a capped frustum along Y, from -h/2 (bottom radius) to +h/2 (top radius).
// A zero top radius yields a cone.
func NewCylinder(radiusTop, radiusBottom, height float64, segments int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	half := height / 2
	ring := func(r, y float64) []mgl64.Vec3 {
		pts := make([]mgl64.Vec3, segments+1)
		for i := 0; i <= segments; i++ {
			theta := float64(i) / float64(segments) * 2 * math.Pi
			pts[i] = mgl64.Vec3{r * math.Sin(theta), y, r * math.Cos(theta)}
		}
		return pts
	}
	top := ring(radiusTop, half)
	bottom := ring(radiusBottom, -half)

	m := &Mesh{}
	for i := 0; i < segments; i++ {
		m.addOutward(top[i], bottom[i], top[i+1])
		m.addOutward(bottom[i], bottom[i+1], top[i+1])
	}
	capTop := mgl64.Vec3{0, half, 0}
	capBottom := mgl64.Vec3{0, -half, 0}
	for i := 0; i < segments; i++ {
		if radiusTop > 0 {
			m.addFacing(capTop, top[i], top[i+1], mgl64.Vec3{0, 1, 0})
		}
		if radiusBottom > 0 {
			m.addFacing(capBottom, bottom[i+1], bottom[i], mgl64.Vec3{0, -1, 0})
		}
	}
	return m.finish()
}

// NewCone builds a cone along Y with its apex at +h/2.
func NewCone(radius, height float64, segments int) *Mesh {
	return NewCylinder(0, radius, height, segments)
}

// NewSphere builds a UV sphere.
func NewSphere(radius float64, widthSegments, heightSegments int) *Mesh {
	if widthSegments < 3 {
		widthSegments = 3
	}
	if heightSegments < 2 {
		heightSegments = 2
	}
	grid := make([][]mgl64.Vec3, heightSegments+1)
	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)
		row := make([]mgl64.Vec3, widthSegments+1)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			phi := u * 2 * math.Pi
			theta := v * math.Pi
			row[ix] = mgl64.Vec3{
				-radius * math.Cos(phi) * math.Sin(theta),
				radius * math.Cos(theta),
				radius * math.Sin(phi) * math.Sin(theta),
			}
		}
		grid[iy] = row
	}
	m := &Mesh{}
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			m.addOutward(a, b, d)
			m.addOutward(b, c, d)
		}
	}
	return m.finish()
}

// NewPlane builds a double-sided rectangle in the XY plane facing +Z.
func NewPlane(w, h float64) *Mesh {
	x, y := w/2, h/2
	a := mgl64.Vec3{-x, -y, 0}
	b := mgl64.Vec3{x, -y, 0}
	c := mgl64.Vec3{x, y, 0}
	d := mgl64.Vec3{-x, y, 0}
	front := mgl64.Vec3{0, 0, 1}
	back := mgl64.Vec3{0, 0, -1}
	m := &Mesh{}
	m.addFacing(a, b, c, front)
	m.addFacing(a, c, d, front)
	m.addFacing(a, c, b, back)
	m.addFacing(a, d, c, back)
	return m.finish()
}

var (
	dodecaPhi = (1 + math.Sqrt(5)) / 2
	dodecaInv = 1 / dodecaPhi

	dodecaVertices = [20]mgl64.Vec3{
		{-1, -1, -1}, {-1, -1, 1}, {-1, 1, -1}, {-1, 1, 1},
		{1, -1, -1}, {1, -1, 1}, {1, 1, -1}, {1, 1, 1},
		{0, -dodecaInv, -dodecaPhi}, {0, -dodecaInv, dodecaPhi},
		{0, dodecaInv, -dodecaPhi}, {0, dodecaInv, dodecaPhi},
		{-dodecaInv, -dodecaPhi, 0}, {-dodecaInv, dodecaPhi, 0},
		{dodecaInv, -dodecaPhi, 0}, {dodecaInv, dodecaPhi, 0},
		{-dodecaPhi, 0, -dodecaInv}, {dodecaPhi, 0, -dodecaInv},
		{-dodecaPhi, 0, dodecaInv}, {dodecaPhi, 0, dodecaInv},
	}

	// Twelve pentagons, three triangles each.
	dodecaIndices = [108]int{
		3, 11, 7, 3, 7, 15, 3, 15, 13,
		7, 19, 17, 7, 17, 6, 7, 6, 15,
		17, 4, 8, 17, 8, 10, 17, 10, 6,
		8, 0, 16, 8, 16, 2, 8, 2, 10,
		0, 12, 1, 0, 1, 18, 0, 18, 16,
		6, 10, 2, 6, 2, 13, 6, 13, 15,
		2, 16, 18, 2, 18, 3, 2, 3, 13,
		18, 1, 9, 18, 9, 11, 18, 11, 3,
		4, 14, 12, 4, 12, 0, 4, 0, 8,
		11, 9, 5, 11, 5, 19, 11, 19, 7,
		19, 5, 14, 19, 14, 4, 19, 4, 17,
		1, 12, 14, 1, 14, 5, 1, 5, 9,
	}
)

// NewDodecahedron builds a dodecahedron whose triangles are split detail+1 times per edge
// and pushed out onto the circumscribed sphere.
func NewDodecahedron(radius float64, detail int) *Mesh {
	if detail < 0 {
		detail = 0
	}
	cols := detail + 1
	project := func(v mgl64.Vec3) mgl64.Vec3 { return v.Normalize().Mul(radius) }

	m := &Mesh{}
	for f := 0; f < len(dodecaIndices); f += 3 {
		a := dodecaVertices[dodecaIndices[f]]
		b := dodecaVertices[dodecaIndices[f+1]]
		c := dodecaVertices[dodecaIndices[f+2]]

		// v[i][j]: row i walks from edge ab toward c, j across the row.
		v := make([][]mgl64.Vec3, cols+1)
		for i := 0; i <= cols; i++ {
			t := float64(i) / float64(cols)
			aj := lerpVec(a, c, t)
			bj := lerpVec(b, c, t)
			rows := cols - i
			v[i] = make([]mgl64.Vec3, rows+1)
			for j := 0; j <= rows; j++ {
				if j == 0 && i == cols {
					v[i][j] = aj
				} else {
					v[i][j] = lerpVec(aj, bj, float64(j)/float64(rows))
				}
			}
		}
		for i := 0; i < cols; i++ {
			for j := 0; j < 2*(cols-i)-1; j++ {
				k := j / 2
				if j%2 == 0 {
					m.addOutward(project(v[i][k+1]), project(v[i+1][k]), project(v[i][k]))
				} else {
					m.addOutward(project(v[i][k+1]), project(v[i+1][k+1]), project(v[i+1][k]))
				}
			}
		}
	}
	return m.finish()
}

func lerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
