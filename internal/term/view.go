package term

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Terminal cells are roughly twice as tall as wide.
const cellAspect = 2.0

// View maps terminal cells onto the ground plane around a centre point.
// Up the screen is +Z and right is -X, matching the chase camera at yaw 0.
type View struct {
	Cols, Rows int
	Center     mgl64.Vec3
	Scale      float64 // world units per column
}

// World returns the ground point under the middle of a cell.
func (v View) World(col, row int) (x, z float64) {
	dc := float64(col-v.Cols/2) * v.Scale
	dr := float64(row-v.Rows/2) * v.Scale * cellAspect
	return v.Center[0] - dc, v.Center[2] - dr
}

// Cell returns the cell containing a ground point; it may lie off screen.
func (v View) Cell(x, z float64) (col, row int) {
	col = v.Cols/2 + int(math.Round((v.Center[0]-x)/v.Scale))
	row = v.Rows/2 + int(math.Round((v.Center[2]-z)/(v.Scale*cellAspect)))
	return col, row
}

func (v View) Contains(col, row int) bool {
	return col >= 0 && col < v.Cols && row >= 0 && row < v.Rows
}

// headingGlyph picks an arrow for a yaw, as seen in this view.
func headingGlyph(yaw float64) rune {
	arrows := [8]rune{'↑', '↖', '←', '↙', '↓', '↘', '→', '↗'}
	// Yaw turns +Z toward +X, which points left on screen.
	oct := int(math.Round(yaw/(math.Pi/4))) % 8
	if oct < 0 {
		oct += 8
	}
	return arrows[oct]
}
