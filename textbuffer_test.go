package aura

import (
	"reflect"
	"testing"
)

// payload returns the buffer's logical characters, ignoring any unused
// backing capacity beyond the cursor.
func payload(t *TextBuffer) []rune {
	out := make([]rune, 0, t.cursor)
	for i := 0; i < t.cursor; i++ {
		out = append(out, t.char[i])
	}
	return out
}

func TestLineIndexLaw(t *testing.T) {
	tb, err := NewTextBuffer(16)
	if err != nil {
		t.Fatal(err)
	}
	const k = 3
	tb.WriteChunk("aa\nbb\ncc\ndd", nil, nil, nil)
	tb.FinalizeLineInfo()

	if len(tb.LineStarts()) != k+1 {
		t.Fatalf("lineStarts length = %d, want %d (K+1 newlines=%d)", len(tb.LineStarts()), k+1, k)
	}
	n := len(tb.LineWidths())
	if n != k && n != k+1 {
		t.Fatalf("lineWidths length = %d, want %d or %d", n, k, k+1)
	}
}

func TestLineIndexLawNoTrailingContent(t *testing.T) {
	tb, _ := NewTextBuffer(8)
	const k = 2
	tb.WriteChunk("x\ny\n", nil, nil, nil)
	tb.FinalizeLineInfo()

	if len(tb.LineStarts()) != k+1 {
		t.Fatalf("lineStarts length = %d, want %d", len(tb.LineStarts()), k+1)
	}
	n := len(tb.LineWidths())
	if n != k && n != k+1 {
		t.Fatalf("lineWidths length = %d, want %d or %d", n, k, k+1)
	}
}

func TestLineIndexLawEmptyBuffer(t *testing.T) {
	tb, _ := NewTextBuffer(4)
	tb.FinalizeLineInfo()
	if len(tb.LineStarts()) != 1 {
		t.Fatalf("empty buffer lineStarts length = %d, want 1", len(tb.LineStarts()))
	}
	if len(tb.LineWidths()) != 1 {
		t.Fatalf("empty buffer lineWidths length = %d, want 1", len(tb.LineWidths()))
	}
}

func TestSetCellOverwritesAndRejectsOutOfRange(t *testing.T) {
	tb, _ := NewTextBuffer(4)
	tb.WriteChunk("abcd", nil, nil, nil)

	red := RGBA8(255, 0, 0)
	blue := RGBA8(0, 0, 255)
	if err := tb.SetCell(1, 'X', red, blue, AttrBold); err != nil {
		t.Fatalf("SetCell in range returned error: %v", err)
	}
	if got := tb.CharHandle()[1]; got != 'X' {
		t.Fatalf("CharHandle()[1] = %q, want 'X'", got)
	}
	if !tb.FGHandle()[1].closeEnough(red) || !tb.BGHandle()[1].closeEnough(blue) {
		t.Fatalf("fg/bg at index 1 = %+v/%+v, want red/blue", tb.FGHandle()[1], tb.BGHandle()[1])
	}
	if tb.AttrHandle()[1]&attrMask != uint16(AttrBold) {
		t.Fatalf("attr at index 1 = %x, want AttrBold set", tb.AttrHandle()[1])
	}

	err := tb.SetCell(tb.Cap(), 'Y', White, Black, 0)
	aerr, ok := err.(*Error)
	if !ok || aerr.Kind != InvalidIndex {
		t.Fatalf("SetCell out of range error = %v, want InvalidIndex", err)
	}
	if err := tb.SetCell(-1, 'Y', White, Black, 0); err == nil {
		t.Fatal("SetCell with negative index should return InvalidIndex")
	}
}

func TestConcatAssociativityOnPayload(t *testing.T) {
	a, _ := NewTextBuffer(4)
	a.WriteChunk("ab", nil, nil, nil)
	b, _ := NewTextBuffer(4)
	b.WriteChunk("cd", nil, nil, nil)
	c, _ := NewTextBuffer(4)
	c.WriteChunk("ef", nil, nil, nil)

	left := Concat(Concat(a, b), c)
	right := Concat(a, Concat(b, c))

	if !reflect.DeepEqual(payload(left), payload(right)) {
		t.Fatalf("concat not associative on payload: left=%q right=%q", string(payload(left)), string(payload(right)))
	}
	want := []rune("abcdef")
	if !reflect.DeepEqual(payload(left), want) {
		t.Fatalf("concat payload = %q, want %q", string(payload(left)), string(want))
	}
}
