package aura

import "unicode/utf8"

// SetCellWithAlphaBlending writes a cell, compositing translucent colors
// over whatever is already at (x, y) instead of overwriting it outright.
// When neither the incoming fg nor bg is translucent this degenerates to a
// plain Set; otherwise the incoming bg is always blended over the
// destination's bg first, and then either the destination's glyph is
// preserved (incoming SPACE over a non-blank destination, so the overlay
// reads as a tint rather than an erase) or the incoming glyph replaces it
// (with its fg blended over the destination's bg, since the old glyph is
// gone). The stored bg's alpha is always the overlay's own alpha, not the
// blended channel, so a further overlay on top composites against the
// original opacity rather than an already-diluted one.
func (g *Grid) SetCellWithAlphaBlending(x, y int, ch rune, fg, bg RGBA, attr Attribute) {
	if !g.InBounds(x, y) {
		return
	}
	if fg.A >= 1 && bg.A >= 1 {
		g.Set(x, y, Cell{Char: ch, FG: fg, BG: bg, Attr: attr})
		return
	}
	dest, _ := g.Get(x, y)
	blendedBG := blendColors(dest.BG, bg)
	storedBG := RGBA{blendedBG.R, blendedBG.G, blendedBG.B, bg.A}

	if ch == SPACE && dest.Char != 0 && dest.Char != SPACE {
		blendedFG := blendColors(dest.FG, bg)
		g.Set(x, y, Cell{Char: dest.Char, FG: blendedFG, BG: storedBG, Attr: dest.Attr})
		return
	}

	newFG := fg
	if fg.A < 1 {
		newFG = blendColors(dest.BG, fg)
	}
	g.Set(x, y, Cell{Char: ch, FG: newFG, BG: storedBG, Attr: attr})
}

// setMaybeBlend routes through SetCellWithAlphaBlending only when a color
// is translucent, matching draw_text/fill_rect's "fast contiguous write
// unless bg has alpha" shortcut.
func (g *Grid) setMaybeBlend(x, y int, ch rune, fg, bg RGBA, attr Attribute) {
	if bg.A < 1 || fg.A < 1 {
		g.SetCellWithAlphaBlending(x, y, ch, fg, bg, attr)
		return
	}
	g.Set(x, y, Cell{Char: ch, FG: fg, BG: bg, Attr: attr})
}

// DrawText writes text left to right on row y starting at x, stopping at
// the grid's right edge. ASCII-only input takes a byte-level fast path;
// non-ASCII text is iterated scalar by scalar, one cell per scalar (a
// width-1 assumption; see width.go for the flusher's wide-char handling).
func (g *Grid) DrawText(text string, x, y int, fg RGBA, bg *RGBA, attr Attribute) {
	if y < 0 || y >= g.height {
		return
	}
	useBG := Black
	if bg != nil {
		useBG = *bg
	}
	col := x
	if isASCII(text) {
		for i := 0; i < len(text); i++ {
			if col >= g.width {
				return
			}
			if col >= 0 {
				g.setMaybeBlend(col, y, rune(text[i]), fg, useBG, attr)
			}
			col++
		}
		return
	}
	for _, r := range text {
		if col >= g.width {
			return
		}
		if col >= 0 {
			g.setMaybeBlend(col, y, r, fg, useBG, attr)
		}
		col++
	}
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// FillRect fills the clipped rectangle [x,y,x+w,y+h) with bg. Translucent
// bg goes through the alpha-blend path per cell; opaque bg is a bulk write
// of (SPACE, white, bg, 0).
func (g *Grid) FillRect(x, y, w, h int, bg RGBA) {
	x0, y0, x1, y1 := clipRect(x, y, w, h, g.width, g.height)
	for cy := y0; cy < y1; cy++ {
		for cx := x0; cx < x1; cx++ {
			if bg.A < 1 {
				g.SetCellWithAlphaBlending(cx, cy, SPACE, White, bg, 0)
			} else {
				g.Set(cx, cy, Cell{Char: SPACE, FG: White, BG: bg, Attr: 0})
			}
		}
	}
}

func clipRect(x, y, w, h, gw, gh int) (x0, y0, x1, y1 int) {
	x0, y0 = x, y
	x1, y1 = x+w, y+h
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > gw {
		x1 = gw
	}
	if y1 > gh {
		y1 = gh
	}
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return
}

// DrawFrameBuffer blits src onto g at (dx, dy), clipping to both grids. If
// src doesn't respect alpha, this is a direct row-by-row array copy;
// otherwise each cell is composited (cells whose fg and bg are both fully
// transparent are skipped outright).
func (g *Grid) DrawFrameBuffer(dx, dy int, src *Grid, sx, sy, sw, sh int) {
	if sw <= 0 {
		sw = src.width
	}
	if sh <= 0 {
		sh = src.height
	}
	// clip source rect to src bounds
	if sx < 0 {
		sw += sx
		sx = 0
	}
	if sy < 0 {
		sh += sy
		sy = 0
	}
	if sx+sw > src.width {
		sw = src.width - sx
	}
	if sy+sh > src.height {
		sh = src.height - sy
	}
	if sw <= 0 || sh <= 0 {
		return
	}
	// clip destination rect to dest bounds
	ddx, ddy := dx, dy
	if ddx < 0 {
		sx -= ddx
		sw += ddx
		ddx = 0
	}
	if ddy < 0 {
		sy -= ddy
		sh += ddy
		ddy = 0
	}
	if ddx+sw > g.width {
		sw = g.width - ddx
	}
	if ddy+sh > g.height {
		sh = g.height - ddy
	}
	if sw <= 0 || sh <= 0 {
		return
	}

	if !src.respectAlpha {
		for row := 0; row < sh; row++ {
			for col := 0; col < sw; col++ {
				c, _ := src.Get(sx+col, sy+row)
				g.Set(ddx+col, ddy+row, c)
			}
		}
		return
	}
	for row := 0; row < sh; row++ {
		for col := 0; col < sw; col++ {
			c, _ := src.Get(sx+col, sy+row)
			if c.FG.A <= 0 && c.BG.A <= 0 {
				continue
			}
			g.SetCellWithAlphaBlending(ddx+col, ddy+row, c.Char, c.FG, c.BG, c.Attr)
		}
	}
}

// BorderChars holds the 11 glyphs a box border draws from: TL, TR, BL, BR,
// H, V, TopT, BottomT, LeftT, RightT, Cross.
type BorderChars [11]rune

// StandardBorder is a single-line box-drawing border.
var StandardBorder = BorderChars{'┌', '┐', '└', '┘', '─', '│', '┬', '┴', '├', '┤', '┼'}

// BoxSides selects which edges of a box are drawn.
type BoxSides struct {
	Left, Bottom, Right, Top bool
}

// TitleAlign selects where DrawBox places a title along the top edge.
type TitleAlign int

const (
	TitleLeft TitleAlign = iota
	TitleCenter
	TitleRight
)

// DrawBox draws a (possibly partial) border and optional fill/title.
func (g *Grid) DrawBox(x, y, w, h int, chars BorderChars, sides BoxSides, borderColor, bg RGBA, fill bool, title string, align TitleAlign) {
	if w <= 0 || h <= 0 {
		return
	}
	if fill || (!sides.Left && !sides.Right && !sides.Top && !sides.Bottom) {
		g.FillRect(x, y, w, h, bg)
	}

	top, bottom := y, y+h-1
	left, right := x, x+w-1
	topOnScreen := top >= 0 && top < g.height
	bottomOnScreen := bottom >= 0 && bottom < g.height
	leftOnScreen := left >= 0 && left < g.width
	rightOnScreen := right >= 0 && right < g.width

	put := func(cx, cy int, r rune) {
		g.setMaybeBlend(cx, cy, r, borderColor, bg, 0)
	}

	if sides.Top && topOnScreen {
		for cx := left + 1; cx < right; cx++ {
			if cx >= 0 && cx < g.width {
				put(cx, top, chars[4])
			}
		}
	}
	if sides.Bottom && bottomOnScreen {
		for cx := left + 1; cx < right; cx++ {
			if cx >= 0 && cx < g.width {
				put(cx, bottom, chars[4])
			}
		}
	}

	if sides.Left && leftOnScreen {
		for cy := top; cy <= bottom; cy++ {
			if cy < 0 || cy >= g.height {
				continue
			}
			if (cy == top && sides.Top) || (cy == bottom && sides.Bottom) {
				continue
			}
			put(left, cy, chars[5])
		}
	}
	if sides.Right && rightOnScreen {
		for cy := top; cy <= bottom; cy++ {
			if cy < 0 || cy >= g.height {
				continue
			}
			if (cy == top && sides.Top) || (cy == bottom && sides.Bottom) {
				continue
			}
			put(right, cy, chars[5])
		}
	}

	if sides.Top && sides.Left && topOnScreen && leftOnScreen {
		put(left, top, chars[0])
	}
	if sides.Top && sides.Right && topOnScreen && rightOnScreen {
		put(right, top, chars[1])
	}
	if sides.Bottom && sides.Left && bottomOnScreen && leftOnScreen {
		put(left, bottom, chars[2])
	}
	if sides.Bottom && sides.Right && bottomOnScreen && rightOnScreen {
		put(right, bottom, chars[3])
	}

	if title != "" && sides.Top && topOnScreen {
		titleLen := utf8.RuneCountInString(title)
		if w >= titleLen+4 {
			var startX int
			switch align {
			case TitleLeft:
				startX = left + 2
			case TitleRight:
				startX = right - 1 - titleLen
			default:
				pad := 2
				startX = left + maxInt(pad, (w-titleLen)/2)
			}
			g.DrawText(title, startX, top, borderColor, &bg, 0)
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
