// Package diagram lays out fixed-length byte fields as box-drawn tables in the
// style of protocol field diagrams.
package diagram

import "fmt"

// Field is one named span of bytes in a record.
type Field struct {
	Length int    `json:"length"`
	Text   string `json:"text"`
}

// Diagram is an ordered list of fields, left to right in byte order.
//
// AddField keeps the first invalid field as a sticky error instead of
// appending it; Err reports it and Plan/Render return it.
type Diagram struct {
	fields []Field
	err    error
}

// New creates a diagram holding a copy of fields.
func New(fields ...Field) *Diagram {
	d := &Diagram{fields: make([]Field, 0, len(fields))}
	for _, f := range fields {
		d.AddField(f.Text, f.Length)
	}
	return d
}

// AddField appends a field and returns d so calls can be chained.
func (d *Diagram) AddField(text string, length int) *Diagram {
	if length < 1 {
		if d.err == nil {
			d.err = fmt.Errorf("%w: field %q has length %d", ErrInvalidLength, text, length)
		}
		return d
	}
	d.fields = append(d.fields, Field{Length: length, Text: text})
	return d
}

// Err returns the first error recorded by AddField.
func (d *Diagram) Err() error { return d.err }

// Fields returns a copy of the fields in byte order.
func (d *Diagram) Fields() []Field {
	out := make([]Field, len(d.fields))
	copy(out, d.fields)
	return out
}

// TotalLength returns the number of bytes covered by all fields.
func (d *Diagram) TotalLength() int { return totalLength(d.fields) }

func totalLength(fields []Field) int {
	total := 0
	for _, f := range fields {
		total += f.Length
	}
	return total
}
