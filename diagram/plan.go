package diagram

import (
	"fmt"

	"go.uber.org/zap"
)

// MaxBytesPerLine bounds the line width: the ruler has at most three digit
// rows (hundreds, tens, ones).
const MaxBytesPerLine = 999

// Group is the slice of fields drawn as one block, starting at byte Offset.
type Group struct {
	Offset int     `json:"offset"`
	Fields []Field `json:"fields"`
}

// Length returns the number of byte columns in the group.
func (g Group) Length() int { return totalLength(g.Fields) }

// Plan splits the diagram into consecutive groups of at most bytesPerLine
// bytes. A diagram that already fits yields a single group. Fields are packed
// greedily and never split; offset is the absolute index of the first byte.
func (d *Diagram) Plan(bytesPerLine, offset int) ([]Group, error) {
	if d.err != nil {
		return nil, d.err
	}
	if bytesPerLine < 1 || bytesPerLine > MaxBytesPerLine {
		return nil, fmt.Errorf("%w: %d (want 1..%d)", ErrLineWidth, bytesPerLine, MaxBytesPerLine)
	}
	if offset < 0 {
		return nil, fmt.Errorf("%w: %d", ErrOffset, offset)
	}

	if d.TotalLength() <= bytesPerLine {
		return []Group{{Offset: offset, Fields: d.Fields()}}, nil
	}

	for i, f := range d.fields {
		if f.Length > bytesPerLine {
			return nil, fmt.Errorf("%w: field %d (%q) is %d bytes, line holds %d", ErrFieldTooWide, i, f.Text, f.Length, bytesPerLine)
		}
	}

	var (
		groups  []Group
		current []Field
		count   int
		start   = offset
	)
	for _, f := range d.fields {
		if count+f.Length > bytesPerLine {
			Logger().Debug("closing group",
				zap.Int("offset", start),
				zap.Int("bytes", count),
				zap.Int("fields", len(current)),
			)
			groups = append(groups, Group{Offset: start, Fields: current})
			start += count
			current = nil
			count = 0
		}
		current = append(current, f)
		count += f.Length
	}
	if len(current) > 0 {
		groups = append(groups, Group{Offset: start, Fields: current})
	}
	return groups, nil
}
