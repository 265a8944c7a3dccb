// Package colorconv implements the exact rgb/hsv conversion routines
// exposed to scripts.
//
// The two directions are deliberately asymmetric: RGBToHSV takes 8-bit
// channel values and returns hue in degrees with saturation and value
// normalized to [0,1], while HSVToRGB takes that same representation
// and returns 8-bit channels. Scripts depend on these exact scales.
package colorconv

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRange reports a saturation or value outside [0,1].
var ErrInvalidRange = errors.New("out of range")

// Mod is the Euclidean modulo: for y > 0 the result is always in
// [0,y), including for negative x.
func Mod(x, y float64) float64 {
	if x < 0 {
		x = y - math.Mod(-x, y)
	}
	if x >= y {
		x = math.Mod(x, y)
	}
	return x
}

// RGBToHSV converts 8-bit RGB channels to HSV.
//
// Returns:
//   - h: hue in degrees, [0,360)
//   - s: saturation, [0,1]
//   - v: value, [0,1]
//
// Fully desaturated inputs (including black) report hue 0.
func RGBToHSV(r, g, b uint8) (h, s, v float64) {
	rf := float64(r) / 255
	gf := float64(g) / 255
	bf := float64(b) / 255

	max := math.Max(rf, math.Max(gf, bf))
	min := math.Min(rf, math.Min(gf, bf))
	delta := max - min

	v = max
	if max != 0 {
		s = delta / max
	}
	if delta == 0 || s == 0 {
		return 0, s, v
	}

	switch max {
	case rf:
		h = Mod((gf-bf)/delta, 6)
	case gf:
		h = (bf-rf)/delta + 2
	default:
		h = (rf-gf)/delta + 4
	}
	h *= 60
	return h, s, v
}

// HSVToRGB converts an HSV triple to 8-bit RGB channels.
//
// The hue is wrapped into [0,360) first, so any real value is
// accepted. Saturation and value must lie in [0,1]; anything else
// fails with ErrInvalidRange. Outputs need no clamping: validated
// inputs guarantee each channel lands in [0,255].
func HSVToRGB(h, s, v float64) (r, g, b uint8, err error) {
	h = Mod(h, 360)
	if s < 0 || s > 1 {
		return 0, 0, 0, fmt.Errorf("saturation should be in the range [0;1]: %w", ErrInvalidRange)
	}
	if v < 0 || v > 1 {
		return 0, 0, 0, fmt.Errorf("value should be in the range [0;1]: %w", ErrInvalidRange)
	}

	chroma := v * s
	x := chroma * (1 - math.Abs(Mod(h/60, 2)-1))
	m := v - chroma

	var rf, gf, bf float64
	switch int(h / 60) {
	case 0:
		rf, gf, bf = chroma, x, 0
	case 1:
		rf, gf, bf = x, chroma, 0
	case 2:
		rf, gf, bf = 0, chroma, x
	case 3:
		rf, gf, bf = 0, x, chroma
	case 4:
		rf, gf, bf = x, 0, chroma
	default:
		rf, gf, bf = chroma, 0, x
	}

	r = uint8(math.Round((rf + m) * 255))
	g = uint8(math.Round((gf + m) * 255))
	b = uint8(math.Round((bf + m) * 255))
	return r, g, b, nil
}
