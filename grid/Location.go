// Package grid implements the toroidal grid that predators and prey
// move on, the joint state of all agents on the grid, and the keys
// used to index joint states.
package grid

import "fmt"

// MaxSide is the largest width or height a Grid may have. Coordinates
// must fit into the 12 bits that a Key reserves for them.
const MaxSide = 1 << 12

// Location is an (x, y) cell on a Grid
type Location struct {
	X, Y int
}

func (l Location) String() string {
	return fmt.Sprintf("(%d, %d)", l.X, l.Y)
}

// Grid is a toroidal grid: stepping off one edge re-enters on the
// opposite edge.
type Grid struct {
	Width, Height int
}

// NewGrid returns a new Grid with the given dimensions
func NewGrid(width, height int) (Grid, error) {
	if width <= 0 || height <= 0 {
		return Grid{}, fmt.Errorf("newGrid: dimensions must be positive, "+
			"got %dx%d", width, height)
	}
	if width > MaxSide || height > MaxSide {
		return Grid{}, fmt.Errorf("newGrid: dimensions cannot exceed %d, "+
			"got %dx%d", MaxSide, width, height)
	}
	return Grid{width, height}, nil
}

// Cells returns the number of cells in the Grid
func (g Grid) Cells() int {
	return g.Width * g.Height
}

// Contains returns whether l lies on the Grid without wrapping
func (g Grid) Contains(l Location) bool {
	return l.X >= 0 && l.X < g.Width && l.Y >= 0 && l.Y < g.Height
}

// Wrap maps any location onto the Grid modulo its width and height
func (g Grid) Wrap(l Location) Location {
	return Location{mod(l.X, g.Width), mod(l.Y, g.Height)}
}

// Move applies action a to location l
func (g Grid) Move(l Location, a Action) Location {
	dx, dy := a.Delta()
	return g.Wrap(Location{l.X + dx, l.Y + dy})
}

// Offset returns the location of to relative to from on the torus
func (g Grid) Offset(from, to Location) Location {
	return g.Wrap(Location{to.X - from.X, to.Y - from.Y})
}

// Translate shifts l by the vector by
func (g Grid) Translate(l, by Location) Location {
	return g.Wrap(Location{l.X + by.X, l.Y + by.Y})
}

// At returns the location of the i-th cell in row-major order
func (g Grid) At(i int) Location {
	return Location{i % g.Width, i / g.Width}
}

func (g Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d)", g.Width, g.Height)
}

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
