// Package preview renders occupancy grids as text for terminals.
package preview

import (
	"strings"

	"github.com/gookit/color"
	"github.com/lawnchairsociety/cavemesh/internal/cavemap"
)

// Cell glyphs.
const (
	WallGlyph  = '#'
	SpaceGlyph = '.'
)

var (
	ColorWall  = color.Style{color.FgGray}
	ColorSpace = color.Style{color.FgGreen, color.OpBold}
)

// Options controls rendering.
type Options struct {
	// Color wraps runs of glyphs in terminal colour codes.
	Color bool
	// MaxWidth downsamples the grid so each line fits. 0 disables.
	MaxWidth int
}

// Scale returns the block size used to fit width cells into maxWidth
// columns.
func Scale(width, maxWidth int) int {
	if maxWidth <= 0 || width <= maxWidth {
		return 1
	}
	return (width + maxWidth - 1) / maxWidth
}

// Render draws g with the highest row first, so y grows upward on screen.
// When downsampling, a block shows as wall if at least half of its cells are
// walls.
func Render(g *cavemap.Grid, opts Options) string {
	scale := Scale(g.Width(), opts.MaxWidth)
	cols := (g.Width() + scale - 1) / scale
	rows := (g.Height() + scale - 1) / scale

	var b strings.Builder
	b.Grow((cols + 1) * rows)
	line := make([]byte, cols)

	for by := rows - 1; by >= 0; by-- {
		for bx := 0; bx < cols; bx++ {
			if blockIsWall(g, bx*scale, by*scale, scale) {
				line[bx] = WallGlyph
			} else {
				line[bx] = SpaceGlyph
			}
		}
		if opts.Color {
			writeColored(&b, line)
		} else {
			b.Write(line)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func blockIsWall(g *cavemap.Grid, x0, y0, scale int) bool {
	walls, total := 0, 0
	for y := y0; y < y0+scale && y < g.Height(); y++ {
		for x := x0; x < x0+scale && x < g.Width(); x++ {
			total++
			if g.IsWall(x, y) {
				walls++
			}
		}
	}
	return 2*walls >= total
}

// writeColored emits each run of identical glyphs with one style.
func writeColored(b *strings.Builder, line []byte) {
	for start := 0; start < len(line); {
		end := start
		for end < len(line) && line[end] == line[start] {
			end++
		}
		style := ColorSpace
		if line[start] == WallGlyph {
			style = ColorWall
		}
		b.WriteString(style.Sprint(string(line[start:end])))
		start = end
	}
}
