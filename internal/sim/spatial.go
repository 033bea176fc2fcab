package sim

import "drive/internal/geom"

// RectXZ is a ground-plane footprint.
type RectXZ struct {
	X0, Z0 float64
	X1, Z1 float64
}

// FootprintOf drops the vertical axis of a box.
func FootprintOf(b geom.Box3) RectXZ {
	return RectXZ{X0: b.Min[0], Z0: b.Min[2], X1: b.Max[0], Z1: b.Max[2]}
}

// Overlaps is inclusive so that touching boxes still reach the exact test.
func (r RectXZ) Overlaps(o RectXZ) bool {
	return r.X0 <= o.X1 && r.X1 >= o.X0 && r.Z0 <= o.Z1 && r.Z1 >= o.Z0
}

func (r RectXZ) Contains(o RectXZ) bool {
	return o.X0 >= r.X0 && o.X1 <= r.X1 && o.Z0 >= r.Z0 && o.Z1 <= r.Z1
}

type quadItem struct {
	index  int
	bounds RectXZ
}

// QuadNode is a quadtree over obstacle footprints, used only to prune candidates.
type QuadNode struct {
	bounds RectXZ
	depth  int
	items  []quadItem
	child  [4]*QuadNode
}

func NewQuadNode(bounds RectXZ, depth int) *QuadNode {
	return &QuadNode{
		bounds: bounds,
		depth:  depth,
		items:  make([]quadItem, 0, QuadCapacity),
	}
}

func (n *QuadNode) Insert(index int, bounds RectXZ) {
	if n.child[0] != nil {
		if c := n.childThatContains(bounds); c != nil {
			c.Insert(index, bounds)
			return
		}
	}

	n.items = append(n.items, quadItem{index: index, bounds: bounds})

	if len(n.items) > QuadCapacity && n.depth < QuadMaxDepth {
		n.subdivide()
		kept := n.items[:0]
		for _, it := range n.items {
			if c := n.childThatContains(it.bounds); c != nil {
				c.Insert(it.index, it.bounds)
			} else {
				kept = append(kept, it)
			}
		}
		n.items = kept
	}
}

// Query appends the index of every item whose footprint overlaps r. Order is unspecified.
func (n *QuadNode) Query(r RectXZ, out *[]int) {
	if !n.bounds.Overlaps(r) {
		return
	}
	for _, it := range n.items {
		if it.bounds.Overlaps(r) {
			*out = append(*out, it.index)
		}
	}
	if n.child[0] == nil {
		return
	}
	for i := 0; i < 4; i++ {
		n.child[i].Query(r, out)
	}
}

func (n *QuadNode) subdivide() {
	if n.child[0] != nil {
		return
	}
	mx := (n.bounds.X0 + n.bounds.X1) * 0.5
	mz := (n.bounds.Z0 + n.bounds.Z1) * 0.5
	n.child[0] = NewQuadNode(RectXZ{X0: n.bounds.X0, Z0: n.bounds.Z0, X1: mx, Z1: mz}, n.depth+1)
	n.child[1] = NewQuadNode(RectXZ{X0: mx, Z0: n.bounds.Z0, X1: n.bounds.X1, Z1: mz}, n.depth+1)
	n.child[2] = NewQuadNode(RectXZ{X0: n.bounds.X0, Z0: mz, X1: mx, Z1: n.bounds.Z1}, n.depth+1)
	n.child[3] = NewQuadNode(RectXZ{X0: mx, Z0: mz, X1: n.bounds.X1, Z1: n.bounds.Z1}, n.depth+1)
}

func (n *QuadNode) childThatContains(b RectXZ) *QuadNode {
	for i := 0; i < 4; i++ {
		c := n.child[i]
		if c != nil && c.bounds.Contains(b) {
			return c
		}
	}
	return nil
}
