package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines unit-safe lengths used to size the vector renderer's grid.

// Unit represents the original unit of a length value.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers, read as millimeters
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// String returns a short suffix for a Unit value.
func (u Unit) String() string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// MM returns a millimeter length.
func MM(v float64) Length { return Length{Value: v, Unit: UnitMM} }

// PT returns a point length.
func PT(v float64) Length { return Length{Value: v, Unit: UnitPT} }

func (l Length) IsZero() bool { return l.Value == 0 }

// ToMM converts the length to millimeters.
func (l Length) ToMM() float64 {
	switch l.Unit {
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * 25.4
	case UnitPT:
		return l.Value * PtToMm
	default:
		return l.Value
	}
}

// ToPT converts the length to points.
func (l Length) ToPT() float64 {
	if l.Unit == UnitPT {
		return l.Value
	}
	return l.ToMM() * MmToPt
}

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + l.Unit.String()
}

// MarshalText implements encoding.TextMarshaler.
func (l Length) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler so config files can say "4mm".
func (l *Length) UnmarshalText(text []byte) error {
	parsed, err := ParseLength(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLength parses strings such as "4mm", "9pt" or "0.5in".
// A bare number is read as millimeters; negative lengths are rejected.
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	if f < 0 {
		return Length{}, fmt.Errorf("长度不能为负: %q", value)
	}
	return Length{Value: f, Unit: unit}, nil
}
