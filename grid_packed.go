package aura

import (
	"encoding/binary"
	"math"
)

// ClipRegion bounds a drawing operation to a sub-rectangle of the grid.
type ClipRegion struct{ X, Y, W, H int }

func (c *ClipRegion) contains(x, y int) bool {
	if c == nil {
		return true
	}
	return x >= c.X && x < c.X+c.W && y >= c.Y && y < c.Y+c.H
}

// DrawTextBuffer paints tb's used cells onto the grid starting at (x, y),
// advancing y and resetting to x on newline, honoring tb's USE_DEFAULT
// substitutions, the buffer's selection overlay, and the inverse attribute
// bit (which swaps fg/bg at draw time). Every written cell goes through
// the alpha-aware setter so translucent backgrounds composite correctly.
func (g *Grid) DrawTextBuffer(tb *TextBuffer, x, y int, clip *ClipRegion) {
	cx, cy := x, y
	for i := 0; i < tb.cursor; i++ {
		fc := tb.cellAt(i)
		if fc.char == '\n' {
			cy++
			cx = x
			continue
		}

		fg, bg := fc.fg, fc.bg
		attr := Attribute(fc.attr & attrMask)

		if tb.selection.Set && i >= tb.selection.Start && i < tb.selection.End {
			switch {
			case tb.selection.OverrideFG != nil || tb.selection.OverrideBG != nil:
				if tb.selection.OverrideFG != nil {
					fg = *tb.selection.OverrideFG
				}
				if tb.selection.OverrideBG != nil {
					bg = *tb.selection.OverrideBG
				}
			default:
				fg, bg = bg, fg
				if fg.A <= 0 {
					fg = Black
				}
			}
		}

		if attr.Has(AttrInverse) {
			fg, bg = bg, fg
		}

		if clip.contains(cx, cy) {
			g.SetCellWithAlphaBlending(cx, cy, fc.char, fg, bg, attr)
		}
		cx++
	}
}

const packedRecordSize = 48

// DrawPackedBuffer decodes data as fixed 48-byte little-endian records
// ([16]byte bg rgba f32, [16]byte fg rgba f32, u32 codepoint, 12 reserved
// bytes) and paints them into the tw x th rectangle at (px, py), tw acting
// as the row stride for the placement index. Malformed codepoints fall
// back to SPACE (above U+10FFFF or a surrogate) or FULL_BLOCK (a value
// below U+2580, the start of the block-drawing range, that isn't printable
// ASCII) so bad data still paints something rather than stalling the frame.
func (g *Grid) DrawPackedBuffer(data []byte, px, py, tw, th int) {
	if tw <= 0 {
		return
	}
	n := len(data) / packedRecordSize
	max := tw * th
	if n > max {
		n = max
	}
	for i := 0; i < n; i++ {
		rec := data[i*packedRecordSize : (i+1)*packedRecordSize]
		bg := decodeRGBA(rec[0:16])
		fg := decodeRGBA(rec[16:32])
		cp := binary.LittleEndian.Uint32(rec[32:36])

		ch := fallbackCodepoint(cp)

		x := px + i%tw
		y := py + i/tw
		g.SetCellWithAlphaBlending(x, y, ch, fg, bg, 0)
	}
}

func decodeRGBA(b []byte) RGBA {
	return RGBA{
		R: decodeF32(b[0:4]),
		G: decodeF32(b[4:8]),
		B: decodeF32(b[8:12]),
		A: decodeF32(b[12:16]),
	}
}

func decodeF32(b []byte) float32 {
	bits := binary.LittleEndian.Uint32(b)
	return math.Float32frombits(bits)
}

func fallbackCodepoint(cp uint32) rune {
	if cp > 0x10FFFF || (cp >= 0xD800 && cp <= 0xDFFF) {
		return SPACE
	}
	c := rune(cp)
	printableASCII := c > 32 && c <= 126
	if !printableASCII && c < 0x2580 {
		return FullBlock
	}
	return c
}

// PixelFormat selects the channel order of a super-sample pixel buffer.
type PixelFormat int

const (
	FormatBGRA PixelFormat = iota
	FormatRGBA
)

// DrawSuperSampleBuffer super-samples a 2x-wide, 2x-tall pixel image into
// one terminal cell per 2x2 pixel block via the Quadrant Encoder, placing
// the result at (px, py). stride is the byte stride of one pixel row;
// the image's pixel width/height are derived from stride and len.
func (g *Grid) DrawSuperSampleBuffer(px, py int, pixelData []byte, format PixelFormat, stride int) {
	if stride <= 0 {
		return
	}
	imgW := stride / 4
	imgH := len(pixelData) / stride
	cellW, cellH := imgW/2, imgH/2

	sample := func(x, y int) RGBA {
		if x >= imgW || y >= imgH {
			return Transparent
		}
		off := y*stride + x*4
		if off+4 > len(pixelData) {
			return Transparent
		}
		b0, b1, b2, b3 := pixelData[off], pixelData[off+1], pixelData[off+2], pixelData[off+3]
		if format == FormatBGRA {
			return RGBA{
				R: float32(b2) / 255, G: float32(b1) / 255, B: float32(b0) / 255, A: float32(b3) / 255,
			}
		}
		return RGBA{
			R: float32(b0) / 255, G: float32(b1) / 255, B: float32(b2) / 255, A: float32(b3) / 255,
		}
	}

	for cy := 0; cy < cellH; cy++ {
		for cx := 0; cx < cellW; cx++ {
			px0, py0 := cx*2, cy*2
			tl := sample(px0, py0)
			tr := sample(px0+1, py0)
			bl := sample(px0, py0+1)
			br := sample(px0+1, py0+1)
			ch, fg, bg := EncodeQuadrant(tl, tr, bl, br)
			g.SetCellWithAlphaBlending(px+cx, py+cy, ch, fg, bg, 0)
		}
	}
}
