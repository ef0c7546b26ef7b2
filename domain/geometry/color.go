package geometry

import (
	"fmt"
	"math"
)

// Color is a linear RGBA color with channels in [0, 1].
type Color struct {
	R, G, B, A float64
}

// String returns the color in RGBA(r, g, b, a) form
func (c Color) String() string {
	return fmt.Sprintf("RGBA(%.3f, %.3f, %.3f, %.3f)", c.R, c.G, c.B, c.A)
}

// HSVRange bounds each channel of a sampled color (inclusive).
type HSVRange struct {
	HueMin, HueMax               float32
	SaturationMin, SaturationMax float32
	ValueMin, ValueMax           float32
	AlphaMin, AlphaMax           float32
}

// DefaultHSVRange covers every hue, saturation and value at full opacity.
func DefaultHSVRange() HSVRange {
	return HSVRange{
		HueMin: 0, HueMax: 1,
		SaturationMin: 0, SaturationMax: 1,
		ValueMin: 0, ValueMax: 1,
		AlphaMin: 1, AlphaMax: 1,
	}
}

// ColorHSV samples hue, saturation, value and alpha in that order, one
// fraction each, and returns the RGB color carrying the sampled alpha.
func ColorHSV(src Fractions, r HSVRange) (Color, error) {
	bounds := [4][2]float32{
		{r.HueMin, r.HueMax},
		{r.SaturationMin, r.SaturationMax},
		{r.ValueMin, r.ValueMax},
		{r.AlphaMin, r.AlphaMax},
	}

	var ch [4]float32
	for i, b := range bounds {
		v, err := Range(src, b[0], b[1])
		if err != nil {
			return Color{}, err
		}
		ch[i] = v
	}

	c := HSVToRGB(float64(ch[0]), float64(ch[1]), float64(ch[2]))
	c.A = float64(ch[3])
	return c, nil
}

// HSVToRGB converts hue, saturation and value in [0, 1] to an opaque color.
// Values above 1 are kept as-is (HDR).
func HSVToRGB(h, s, v float64) Color {
	if s == 0 {
		return Color{R: v, G: v, B: v, A: 1}
	}

	h6 := math.Mod(h, 1) * 6
	if h6 < 0 {
		h6 += 6
	}
	sector := math.Floor(h6)
	f := h6 - sector

	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	switch int(sector) % 6 {
	case 0:
		return Color{R: v, G: t, B: p, A: 1}
	case 1:
		return Color{R: q, G: v, B: p, A: 1}
	case 2:
		return Color{R: p, G: v, B: t, A: 1}
	case 3:
		return Color{R: p, G: q, B: v, A: 1}
	case 4:
		return Color{R: t, G: p, B: v, A: 1}
	default:
		return Color{R: v, G: p, B: q, A: 1}
	}
}

// RGBToHSV is the inverse of HSVToRGB. Hue is 0 for achromatic colors.
func RGBToHSV(c Color) (h, s, v float64) {
	max := math.Max(c.R, math.Max(c.G, c.B))
	min := math.Min(c.R, math.Min(c.G, c.B))
	v = max
	delta := max - min
	if max == 0 || delta == 0 {
		return 0, 0, v
	}
	s = delta / max

	switch max {
	case c.R:
		h = (c.G - c.B) / delta
	case c.G:
		h = 2 + (c.B-c.R)/delta
	default:
		h = 4 + (c.R-c.G)/delta
	}
	h /= 6
	if h < 0 {
		h++
	}
	return h, s, v
}
