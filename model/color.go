package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an opaque RGB color
type Color struct {
	R, G, B uint8
}

// ColorFromInt decodes a signed 32-bit ARGB integer. Alpha is discarded.
func ColorFromInt(v int32) Color {
	u := uint32(v) // two's complement is v + 2^32 for negative v
	return Color{
		R: uint8(u >> 16 & 0xFF),
		G: uint8(u >> 8 & 0xFF),
		B: uint8(u & 0xFF),
	}
}

// ParseColor decodes a decimal color attribute.
func ParseColor(s string) (Color, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < -1<<31 || n > 1<<32-1 {
		return Color{}, false
	}
	return ColorFromInt(int32(uint32(n))), true
}

// Int encodes the color back to its signed integer form with full alpha.
func (c Color) Int() int32 {
	return int32(uint32(0xFF)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B))
}

// Hex returns the color as six uppercase hex digits without a leading '#'.
func (c Color) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// Floats returns the components scaled to [0,1].
func (c Color) Floats() (r, g, b float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255
}

func (c Color) String() string { return "#" + c.Hex() }
