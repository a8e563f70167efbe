// Package cavemap synthesizes binary cave occupancy grids: seeded random fill,
// cellular-automaton smoothing, region pruning, room connection and border
// padding.
package cavemap

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

var ErrOutOfRange = errors.New("cavemap: coordinate out of range")

// CellState is the occupancy of a single grid cell.
type CellState uint8

const (
	Space CellState = 0
	Wall  CellState = 1
)

// String returns the string representation of a CellState
func (s CellState) String() string {
	switch s {
	case Space:
		return "space"
	case Wall:
		return "wall"
	default:
		return "unknown"
	}
}

// Coord identifies a grid cell.
type Coord struct {
	X, Y int
}

// String formats the coordinate as "(x,y)".
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// DistanceSq returns the squared euclidean distance between two cells.
func (c Coord) DistanceSq(o Coord) int {
	dx := c.X - o.X
	dy := c.Y - o.Y
	return dx*dx + dy*dy
}

// Grid is a width x height occupancy grid stored row by row.
type Grid struct {
	width, height int
	cells         []CellState
}

// NewGrid creates a grid with every cell set to Space.
func NewGrid(width, height int) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]CellState, width*height),
	}
}

// NewGridFromRows builds a grid from text rows where '#' or '1' is a wall and
// anything else is space. Row 0 is y = 0. Shorter rows are padded with space.
func NewGridFromRows(rows ...string) *Grid {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	g := NewGrid(width, len(rows))
	for y, r := range rows {
		for x := 0; x < len(r); x++ {
			if r[x] == '#' || r[x] == '1' {
				g.Set(x, y, Wall)
			}
		}
	}
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x, y) lies on the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// At returns the state at (x, y). Off-grid cells read as Wall.
func (g *Grid) At(x, y int) CellState {
	if !g.InBounds(x, y) {
		return Wall
	}
	return g.cells[y*g.width+x]
}

// IsWall reports whether (x, y) is a wall, counting off-grid cells as walls.
func (g *Grid) IsWall(x, y int) bool {
	return g.At(x, y) == Wall
}

// Cell is the checked accessor: it returns ErrOutOfRange for off-grid cells.
func (g *Grid) Cell(x, y int) (CellState, error) {
	if !g.InBounds(x, y) {
		return Wall, fmt.Errorf("%w: (%d,%d) on %dx%d grid", ErrOutOfRange, x, y, g.width, g.height)
	}
	return g.cells[y*g.width+x], nil
}

// Set writes the state at (x, y). Off-grid writes are ignored.
func (g *Grid) Set(x, y int, s CellState) {
	if !g.InBounds(x, y) {
		return
	}
	g.cells[y*g.width+x] = s
}

// Count returns the number of cells in the given state.
func (g *Grid) Count(s CellState) int {
	n := 0
	for _, c := range g.cells {
		if c == s {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	c := &Grid{
		width:  g.width,
		height: g.height,
		cells:  make([]CellState, len(g.cells)),
	}
	copy(c.cells, g.cells)
	return c
}

// Equal reports whether both grids have the same size and contents.
func (g *Grid) Equal(o *Grid) bool {
	if o == nil || g.width != o.width || g.height != o.height {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Rows returns the grid as text rows, '#' for wall and '.' for space.
func (g *Grid) Rows() []string {
	rows := make([]string, g.height)
	var b strings.Builder
	for y := 0; y < g.height; y++ {
		b.Reset()
		for x := 0; x < g.width; x++ {
			if g.cells[y*g.width+x] == Wall {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		rows[y] = b.String()
	}
	return rows
}

// String renders the grid with the highest row first.
func (g *Grid) String() string {
	rows := g.Rows()
	var b strings.Builder
	for y := len(rows) - 1; y >= 0; y-- {
		b.WriteString(rows[y])
		b.WriteByte('\n')
	}
	return b.String()
}

// Fingerprint returns a blake2b-256 digest of the dimensions and contents, hex
// encoded. Two grids with equal fingerprints are bit-identical.
func (g *Grid) Fingerprint() string {
	h, _ := blake2b.New256(nil) // only fails for keys longer than 64 bytes
	var dims [8]byte
	binary.BigEndian.PutUint32(dims[0:4], uint32(g.width))
	binary.BigEndian.PutUint32(dims[4:8], uint32(g.height))
	h.Write(dims[:])
	buf := make([]byte, len(g.cells))
	for i, c := range g.cells {
		buf[i] = byte(c)
	}
	h.Write(buf)
	return hex.EncodeToString(h.Sum(nil))
}
