package diagram

import (
	"strconv"
	"strings"
)

// Render draws the diagram as one block per group returned by Plan.
//
// Each block has a top border, a byte ruler numbered from the group's offset
// (tens and hundreds rows appear once bytesPerLine exceeds 10 and 100), a
// header separator marking field ends, as many label rows as the longest
// wrapped label needs, and a bottom border.
func (d *Diagram) Render(bytesPerLine, offset int) ([]string, error) {
	groups, err := d.Plan(bytesPerLine, offset)
	if err != nil {
		return nil, err
	}
	blocks := make([]string, 0, len(groups))
	for _, g := range groups {
		blocks = append(blocks, renderBlock(g.Fields, bytesPerLine, g.Offset))
	}
	return blocks, nil
}

// emptyBlock is drawn for a group without columns.
var emptyBlock = strings.Join([]string{
	string([]rune{glyphSE, glyphSW}),
	string([]rune{glyphNS, glyphNS}),
	string([]rune{glyphNSE, glyphNSW}),
	string([]rune{glyphNS, glyphNS}),
	string([]rune{glyphNE, glyphNW}),
}, "\n")

func renderBlock(fields []Field, bytesPerLine, offset int) string {
	columns := totalLength(fields)
	if columns == 0 {
		return emptyBlock
	}

	rows := []string{topEdge.draw(fields)}
	if bytesPerLine > 100 {
		rows = append(rows, ruler(columns, offset, 100))
	}
	if bytesPerLine > 10 {
		rows = append(rows, ruler(columns, offset, 10))
	}
	rows = append(rows, ruler(columns, offset, 1))
	rows = append(rows, headerEdge.draw(fields))
	rows = append(rows, labelRows(fields)...)
	rows = append(rows, bottomEdge.draw(fields))
	return strings.Join(rows, "\n")
}

// edge describes a horizontal border row. Every byte column contributes a
// line glyph followed by a junction: inner between bytes of one field,
// boundary after a field's last byte, right at the end of the row.
type edge struct {
	left, inner, boundary, right rune
}

var (
	topEdge    = edge{left: glyphSE, inner: glyphSWE, boundary: glyphSWE, right: glyphSW}
	headerEdge = edge{left: glyphNSE, inner: glyphNWE, boundary: glyphNSWE, right: glyphNSW}
	bottomEdge = edge{left: glyphNE, inner: glyphWE, boundary: glyphNWE, right: glyphNW}
)

func (e edge) draw(fields []Field) string {
	var b strings.Builder
	b.WriteRune(e.left)
	for fi, f := range fields {
		last := fi == len(fields)-1
		for i := 0; i < f.Length; i++ {
			b.WriteRune(glyphWE)
			switch {
			case last && i == f.Length-1:
				b.WriteRune(e.right)
			case i == f.Length-1:
				b.WriteRune(e.boundary)
			default:
				b.WriteRune(e.inner)
			}
		}
	}
	return b.String()
}

// ruler numbers the columns in multiples of unit. Columns that are not a
// multiple get two blanks in place of the divider and digit.
func ruler(columns, offset, unit int) string {
	var b strings.Builder
	for i := 0; i < columns; i++ {
		j := i + offset
		if j%unit != 0 {
			b.WriteString("  ")
			continue
		}
		b.WriteRune(glyphNS)
		b.WriteString(strconv.Itoa((j / unit) % 10))
	}
	b.WriteRune(glyphNS)
	return b.String()
}

// labelColumn is one field's share of the label rows.
type labelColumn struct {
	text  []rune
	width int
	// lead is the number of blank rows before the label starts.
	lead int
}

// chunk returns the label runes shown on row.
func (c labelColumn) chunk(row int) []rune {
	k := row - c.lead
	if k < 0 {
		return nil
	}
	start := k * c.width
	if start >= len(c.text) {
		return nil
	}
	return c.text[start:min(start+c.width, len(c.text))]
}

// pending reports whether label runes remain after row.
func (c labelColumn) pending(row int) bool {
	return (row-c.lead+1)*c.width < len(c.text)
}

// labelRows wraps every label into its column. A column is 2*length-1 cells
// wide. The first field starts one row down, under the divider the header
// separator already opened for it. At least one row is always produced.
func labelRows(fields []Field) []string {
	cols := make([]labelColumn, len(fields))
	for i, f := range fields {
		cols[i] = labelColumn{text: []rune(f.Text), width: 2*f.Length - 1}
	}
	if len(cols) > 0 {
		cols[0].lead = 1
	}

	var rows []string
	for row := 0; ; row++ {
		var b strings.Builder
		more := false
		for _, c := range cols {
			chunk := c.chunk(row)
			b.WriteRune(glyphNS)
			b.WriteString(string(chunk))
			b.WriteString(strings.Repeat(" ", c.width-len(chunk)))
			if c.pending(row) {
				more = true
			}
		}
		b.WriteRune(glyphNS)
		rows = append(rows, b.String())
		if !more {
			return rows
		}
	}
}
