package diagram

import "errors"

var (
	// ErrLineWidth is returned for a bytes-per-line outside 1..MaxBytesPerLine.
	ErrLineWidth = errors.New("diagram: bytes per line out of range")
	// ErrOffset is returned for a negative starting offset.
	ErrOffset = errors.New("diagram: negative offset")
	// ErrFieldTooWide is returned when a field cannot fit on a single line.
	ErrFieldTooWide = errors.New("diagram: field wider than line")
	// ErrInvalidLength is recorded when a field is added with length < 1.
	ErrInvalidLength = errors.New("diagram: field length must be positive")
)
