package aura

import "testing"

func TestQuadrantUniformInputIsFullBlockSameColor(t *testing.T) {
	c := RGBA8(120, 30, 200)
	ch, fg, bg := EncodeQuadrant(c, c, c, c)
	if ch != FullBlock {
		t.Fatalf("uniform input should encode as FULL BLOCK, got %q", ch)
	}
	if !fg.closeEnough(c) || !bg.closeEnough(c) {
		t.Fatalf("uniform input fg/bg should both equal the input color: fg=%+v bg=%+v want=%+v", fg, bg, c)
	}
}

func TestQuadrantCheckerboardMask(t *testing.T) {
	dark := Black
	light := White
	// TL=dark, TR=light, BL=light, BR=dark -> mask 0110, ink bits 1001 ->
	// glyph with TL+BR painted (0x259A), fg=dark, bg=light.
	ch, fg, bg := EncodeQuadrant(dark, light, light, dark)
	if ch != 0x259A {
		t.Fatalf("checkerboard glyph = %U, want %U", ch, rune(0x259A))
	}
	if !fg.closeEnough(dark) || !bg.closeEnough(light) {
		t.Fatalf("checkerboard fg/bg = %+v/%+v, want dark/light", fg, bg)
	}
}

func TestQuadrantCheckerboardMaskOtherDiagonal(t *testing.T) {
	dark := Black
	light := White
	// TL=light, TR=dark, BL=dark, BR=light -> mask 1001, ink bits 0110.
	ch, fg, bg := EncodeQuadrant(light, dark, dark, light)
	if ch != 0x259E {
		t.Fatalf("checkerboard glyph = %U, want %U", ch, rune(0x259E))
	}
	if !fg.closeEnough(dark) || !bg.closeEnough(light) {
		t.Fatalf("checkerboard fg/bg = %+v/%+v, want dark/light", fg, bg)
	}
}

func TestDrawSuperSampleBufferTwoCellChecker(t *testing.T) {
	// 4x2 BGRA image: left 2x2 block solid black, right 2x2 block solid
	// white, yielding a 2-wide x 1-tall cell grid with two uniform cells.
	const stride = 16 // 4 pixels * 4 bytes
	row := []byte{
		0, 0, 0, 255, 0, 0, 0, 255, // px0,px1: black
		255, 255, 255, 255, 255, 255, 255, 255, // px2,px3: white
	}
	data := append(append([]byte{}, row...), row...)

	g, _ := NewGrid(2, 1, false)
	g.DrawSuperSampleBuffer(0, 0, data, FormatBGRA, stride)

	left, _ := g.Get(0, 0)
	right, _ := g.Get(1, 0)

	if left.Char != FullBlock || !left.FG.closeEnough(Black) {
		t.Fatalf("left cell = %+v, want uniform black FULL BLOCK", left)
	}
	if right.Char != FullBlock || !right.FG.closeEnough(White) {
		t.Fatalf("right cell = %+v, want uniform white FULL BLOCK", right)
	}
}

func TestDrawSuperSampleBufferCheckerCell(t *testing.T) {
	// 2x2 BGRA image, one cell: TL=black, TR=white, BL=white, BR=black ->
	// exercises EncodeQuadrant's mixed-mask path through the real
	// super-sample draw path, not just EncodeQuadrant directly.
	const stride = 8 // 2 pixels * 4 bytes
	black := []byte{0, 0, 0, 255}
	white := []byte{255, 255, 255, 255}
	row0 := append(append([]byte{}, black...), white...)
	row1 := append(append([]byte{}, white...), black...)
	data := append(row0, row1...)

	g, _ := NewGrid(1, 1, false)
	g.DrawSuperSampleBuffer(0, 0, data, FormatBGRA, stride)

	cell, _ := g.Get(0, 0)
	if cell.Char != 0x259A {
		t.Fatalf("checker cell glyph = %U, want %U", cell.Char, rune(0x259A))
	}
	if !cell.FG.closeEnough(Black) || !cell.BG.closeEnough(White) {
		t.Fatalf("checker cell fg/bg = %+v/%+v, want black/white", cell.FG, cell.BG)
	}
}
