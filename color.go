package aura

import "math"

// Attribute is a bitmask of text styling attributes. Bit 5 (AttrInverse) is
// also consulted by the text-buffer draw path to swap fg/bg at draw time.
type Attribute uint8

const (
	AttrBold Attribute = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrInverse
	AttrHidden
	AttrStrikethrough
)

// Has returns true if the attribute set contains attr.
func (a Attribute) Has(attr Attribute) bool { return a&attr != 0 }

// With returns a new attribute set with attr added.
func (a Attribute) With(attr Attribute) Attribute { return a | attr }

// Without returns a new attribute set with attr removed.
func (a Attribute) Without(attr Attribute) Attribute { return a &^ attr }

// RGBA is a color with four normalized float channels in [0, 1].
type RGBA struct {
	R, G, B, A float32
}

// Opaque builds an RGBA color with full alpha.
func Opaque(r, g, b float32) RGBA { return RGBA{r, g, b, 1} }

// RGBA8 builds an opaque RGBA color from 8-bit channels.
func RGBA8(r, g, b uint8) RGBA {
	return RGBA{float32(r) / 255, float32(g) / 255, float32(b) / 255, 1}
}

// Hex builds an opaque RGBA color from a packed 0xRRGGBB value.
func Hex(hex uint32) RGBA {
	return RGBA8(uint8((hex>>16)&0xFF), uint8((hex>>8)&0xFF), uint8(hex&0xFF))
}

var (
	White       = Opaque(1, 1, 1)
	Black       = Opaque(0, 0, 0)
	Transparent = RGBA{0, 0, 0, 0}
)

// Equal compares all four channels for exact equality.
func (c RGBA) Equal(o RGBA) bool {
	return c.R == o.R && c.G == o.G && c.B == o.B && c.A == o.A
}

// closeEnough reports whether two colors are equal within the epsilon the
// flusher uses to decide whether a cell needs repainting.
func (c RGBA) closeEnough(o RGBA) bool {
	const eps = 1e-5
	return absf(c.R-o.R) < eps && absf(c.G-o.G) < eps &&
		absf(c.B-o.B) < eps && absf(c.A-o.A) < eps
}

func absf(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

func clamp01(f float32) float32 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func clampByte(f float32) uint8 {
	f = clamp01(f)
	return uint8(f*255 + 0.5)
}

// perceptualAlpha applies the knee curve used by blendColors: linear alpha
// is too harsh near full opacity, so the upper range is compressed.
func perceptualAlpha(a float32) float32 {
	if a <= 0.8 {
		return float32(math.Pow(float64(a), 0.9))
	}
	return 0.8 + float32(math.Pow(float64(a-0.8)*5, 0.2))*0.2
}

// blendColors composites overlay over dest using the perceptual alpha curve.
// The result's alpha channel is always dest's alpha: this function blends
// the visible RGB contribution of a translucent overlay, it does not merge
// transparency itself (callers that need the overlay's own alpha keep it
// separately).
func blendColors(dest, overlay RGBA) RGBA {
	if overlay.A >= 0.999 {
		return RGBA{overlay.R, overlay.G, overlay.B, dest.A}
	}
	pa := perceptualAlpha(overlay.A)
	inv := 1 - pa
	return RGBA{
		R: overlay.R*pa + dest.R*inv,
		G: overlay.G*pa + dest.G*inv,
		B: overlay.B*pa + dest.B*inv,
		A: dest.A,
	}
}

// HSVToRGB converts a hue/saturation/value triple (h in [0,360), s and v in
// [0,1]) to an opaque RGBA color. Not exercised by the core render path;
// available for callers that want to animate hue (e.g. the demo).
func HSVToRGB(h, s, v float32) RGBA {
	c := v * s
	hp := h / 60
	x := c * (1 - absf(float32(math.Mod(float64(hp), 2))-1))
	var r, g, b float32
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	m := v - c
	return Opaque(r+m, g+m, b+m)
}
