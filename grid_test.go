package aura

import (
	"reflect"
	"testing"
)

func snapshotGrid(g *Grid) ([]rune, []RGBA, []RGBA, []Attribute) {
	char := append([]rune(nil), g.char...)
	fg := append([]RGBA(nil), g.fg...)
	bg := append([]RGBA(nil), g.bg...)
	attr := append([]Attribute(nil), g.attr...)
	return char, fg, bg, attr
}

func TestClearIdempotence(t *testing.T) {
	g, err := NewGrid(5, 3, false)
	if err != nil {
		t.Fatal(err)
	}
	bg := RGBA8(10, 20, 30)
	g.Clear(bg, 0)
	c1, f1, b1, a1 := snapshotGrid(g)
	g.Clear(bg, 0)
	c2, f2, b2, a2 := snapshotGrid(g)
	if !reflect.DeepEqual(c1, c2) || !reflect.DeepEqual(f1, f2) || !reflect.DeepEqual(b1, b2) || !reflect.DeepEqual(a1, a2) {
		t.Fatalf("clear not idempotent")
	}
}

func TestBoundsSafety(t *testing.T) {
	g, _ := NewGrid(4, 4, false)
	c1, f1, b1, a1 := snapshotGrid(g)
	g.Set(10, 10, Cell{Char: 'X'})
	g.Set(-1, 0, Cell{Char: 'X'})
	c2, f2, b2, a2 := snapshotGrid(g)
	if !reflect.DeepEqual(c1, c2) || !reflect.DeepEqual(f1, f2) || !reflect.DeepEqual(b1, b2) || !reflect.DeepEqual(a1, a2) {
		t.Fatalf("out-of-bounds Set mutated the grid")
	}
	if _, ok := g.Get(10, 10); ok {
		t.Fatalf("out-of-bounds Get should report absent")
	}
}

func TestAlphaBlendingOpaqueEqualsSet(t *testing.T) {
	g, _ := NewGrid(2, 1, false)
	g.Set(0, 0, Cell{Char: 'Q', FG: RGBA8(1, 2, 3), BG: RGBA8(4, 5, 6), Attr: AttrBold})

	a, _ := NewGrid(2, 1, false)
	a.Set(0, 0, Cell{Char: 'Q', FG: RGBA8(1, 2, 3), BG: RGBA8(4, 5, 6), Attr: AttrBold})
	a.SetCellWithAlphaBlending(1, 0, 'Z', Opaque(0.1, 0.2, 0.3), Opaque(0.4, 0.5, 0.6), AttrItalic)

	b, _ := NewGrid(2, 1, false)
	b.Set(1, 0, Cell{Char: 'Z', FG: Opaque(0.1, 0.2, 0.3), BG: Opaque(0.4, 0.5, 0.6), Attr: AttrItalic})

	c1, _ := a.Get(1, 0)
	c2, _ := b.Get(1, 0)
	if c1 != c2 {
		t.Fatalf("opaque alpha-blend should equal Set: got %+v want %+v", c1, c2)
	}
}

func TestAlphaBlendingPreservesGlyphUnderSpace(t *testing.T) {
	g, _ := NewGrid(1, 1, false)
	orig := Cell{Char: 'G', FG: Opaque(1, 1, 1), BG: Opaque(0, 0, 0), Attr: AttrUnderline}
	g.Set(0, 0, orig)

	overlayBG := RGBA{1, 0, 0, 0.5}
	g.SetCellWithAlphaBlending(0, 0, SPACE, White, overlayBG, 0)

	got, _ := g.Get(0, 0)
	if got.Char != 'G' {
		t.Fatalf("char should be preserved, got %q", got.Char)
	}
	if got.Attr != AttrUnderline {
		t.Fatalf("attr should be preserved, got %v", got.Attr)
	}
	if got.BG.A != overlayBG.A {
		t.Fatalf("stored bg alpha should be overlay's alpha: got %v want %v", got.BG.A, overlayBG.A)
	}
	wantBG := blendColors(orig.BG, overlayBG)
	if !got.BG.closeEnough(RGBA{wantBG.R, wantBG.G, wantBG.B, overlayBG.A}) {
		t.Fatalf("bg should be the blend: got %+v want rgb %+v", got.BG, wantBG)
	}
}

func TestFrameBlitFidelityRespectAlphaFalse(t *testing.T) {
	src, _ := NewGrid(3, 2, false)
	src.DrawText("ab", 0, 0, White, nil, 0)
	src.DrawText("cd", 0, 1, White, nil, 0)

	dst, _ := NewGrid(3, 2, false)
	dst.DrawFrameBuffer(0, 0, src, 0, 0, 0, 0)

	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			s, _ := src.Get(x, y)
			d, _ := dst.Get(x, y)
			if s != d {
				t.Fatalf("cell (%d,%d) mismatch after blit: got %+v want %+v", x, y, d, s)
			}
		}
	}
}

func TestResizePreservesContent(t *testing.T) {
	g, _ := NewGrid(4, 4, false)
	g.Clear(Black, 0)
	g.Set(1, 1, Cell{Char: 'X', FG: White, BG: Black, Attr: 0})

	if err := g.Resize(10, 10); err != nil {
		t.Fatal(err)
	}
	c, ok := g.Get(1, 1)
	if !ok || c.Char != 'X' {
		t.Fatalf("expected 'X' preserved at (1,1), got %+v ok=%v", c, ok)
	}
	c2, ok := g.Get(9, 9)
	if !ok || c2.Char != SPACE {
		t.Fatalf("expected default-initialized cell in extended area, got %+v", c2)
	}
}

func TestDrawBoxCenteredTitle(t *testing.T) {
	g, _ := NewGrid(20, 5, false)
	g.DrawBox(0, 0, 20, 5, StandardBorder, BoxSides{true, true, true, true}, Hex(0x0000FF), Hex(0xFFFF00), true, "Hi", TitleCenter)

	tl, _ := g.Get(0, 0)
	tr, _ := g.Get(19, 0)
	if tl.Char != StandardBorder[0] || tr.Char != StandardBorder[1] {
		t.Fatalf("corner glyphs wrong: tl=%q tr=%q", tl.Char, tr.Char)
	}
	c9, _ := g.Get(9, 0)
	c10, _ := g.Get(10, 0)
	if c9.Char != 'H' || c10.Char != 'i' {
		t.Fatalf("expected title at x=9..10 (centered: max(2,(20-2)/2)=9), got %q %q", c9.Char, c10.Char)
	}
}
