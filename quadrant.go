package aura

import "math"

// quadrantGlyphByInk maps a 4-bit "which corners are ink" mask (TL=8, TR=4,
// BL=2, BR=1) to the Unicode block-drawing glyph whose filled quadrants
// match.
var quadrantGlyphByInk = [16]rune{
	0x0020, // 0000: no ink
	0x2597, // 0001: BR
	0x2596, // 0010: BL
	0x2584, // 0011: BL+BR (lower half)
	0x259D, // 0100: TR
	0x2590, // 0101: TR+BR (right half)
	0x259E, // 0110: TR+BL
	0x259F, // 0111: TR+BL+BR
	0x2598, // 1000: TL
	0x259A, // 1001: TL+BR
	0x258C, // 1010: TL+BL (left half)
	0x2599, // 1011: TL+BL+BR
	0x2580, // 1100: TL+TR (upper half)
	0x259C, // 1101: TL+TR+BR
	0x259B, // 1110: TL+TR+BL
	0x2588, // 1111: all ink (full block)
}

func luminance(c RGBA) float32 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}

func colorDistanceSq(a, b RGBA) float32 {
	dr, dg, db := a.R-b.R, a.G-b.G, a.B-b.B
	return dr*dr + dg*dg + db*db
}

func averageColor(pixels [4]RGBA) RGBA {
	var r, g, b, a float32
	for _, p := range pixels {
		r += p.R
		g += p.G
		b += p.B
		a += p.A
	}
	return RGBA{r / 4, g / 4, b / 4, a / 4}
}

// EncodeQuadrant implements the Quadrant Encoder: given four RGBA pixels
// in TL, TR, BL, BR order, picks the two most different colors as a
// two-color palette, orders them dark/light by luminance, classifies each
// pixel against the nearer of the two, and returns the resulting glyph,
// foreground, and background.
func EncodeQuadrant(tl, tr, bl, br RGBA) (char rune, fg, bg RGBA) {
	pixels := [4]RGBA{tl, tr, bl, br}

	bestI, bestJ := 0, 1
	bestDist := float32(-1)
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			d := colorDistanceSq(pixels[i], pixels[j])
			if d > bestDist {
				bestDist = d
				bestI, bestJ = i, j
			}
		}
	}

	a, b := pixels[bestI], pixels[bestJ]
	dark, light := a, b
	if luminance(a) > luminance(b) {
		dark, light = b, a
	}

	var mask uint8
	weights := [4]uint8{8, 4, 2, 1}
	for i, p := range pixels {
		distDark := colorDistanceSq(p, dark)
		distLight := colorDistanceSq(p, light)
		if distDark <= distLight {
			// assigned dark: bit stays 0
			continue
		}
		mask |= weights[i]
	}

	avg := averageColor(pixels)
	switch mask {
	case 0: // uniformly dark
		return FullBlock, avg, light
	case 15: // uniformly light
		return SPACE, dark, avg
	default:
		ink := (^mask) & 0xF
		return quadrantGlyphByInk[ink], dark, light
	}
}

// quadrantColorDistance exposes the RGB distance (the square root of the
// squared-distance metric palette selection compares) for callers (e.g.
// tests) that want to reason about palette selection directly.
func quadrantColorDistance(a, b RGBA) float64 {
	return math.Sqrt(float64(colorDistanceSq(a, b)))
}
