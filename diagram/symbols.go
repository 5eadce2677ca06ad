package diagram

// Box-drawing glyphs, named after the directions their strokes point to.
const (
	glyphSE   = '┌'
	glyphSWE  = '┬'
	glyphSW   = '┐'
	glyphNSE  = '├'
	glyphNSWE = '┼'
	glyphNSW  = '┤'
	glyphNE   = '└'
	glyphNWE  = '┴'
	glyphNW   = '┘'
	glyphNS   = '│'
	glyphWE   = '─'
)

// Arm is a set of directions a box glyph's strokes reach from the cell centre.
type Arm uint8

const (
	North Arm = 1 << iota
	South
	East
	West
)

var glyphArms = map[rune]Arm{
	glyphSE:   South | East,
	glyphSWE:  South | West | East,
	glyphSW:   South | West,
	glyphNSE:  North | South | East,
	glyphNSWE: North | South | West | East,
	glyphNSW:  North | South | West,
	glyphNE:   North | East,
	glyphNWE:  North | West | East,
	glyphNW:   North | West,
	glyphNS:   North | South,
	glyphWE:   West | East,
}

// GlyphArms reports the strokes of a box glyph emitted by Render.
// ok is false for any other rune.
func GlyphArms(r rune) (arms Arm, ok bool) {
	arms, ok = glyphArms[r]
	return arms, ok
}

// Has reports whether a contains every direction in dir.
func (a Arm) Has(dir Arm) bool { return a&dir == dir }
