package aura

// WideCharContinuation is the sentinel codepoint a caller writes into the
// cell immediately after a wide (double-width) glyph. The flusher must not
// emit output for it; it exists purely so the grid has a real cell to
// hold, and it only advances internal bookkeeping (see flusher.go).
const WideCharContinuation rune = 0xFFFF

type runeRange struct{ lo, hi rune }

// wideRanges are the East Asian Wide codepoint ranges the flusher treats as
// occupying two terminal columns, kept as an explicit table rather than a
// generic Unicode-width library so column accounting can't drift from the
// exact ranges tested here (a library's tables disagree at the edges,
// notably ambiguous-width and combining-mark handling).
var wideRanges = []runeRange{
	{0x1100, 0x115F},
	{0x2329, 0x232A},
	{0x2E80, 0xA4CF},
	{0xAC00, 0xD7A3},
	{0xF900, 0xFAFF},
	{0xFE10, 0xFE19},
	{0xFE30, 0xFE6F},
	{0xFF00, 0xFF60},
	{0xFFE0, 0xFFE6},
	{0x1F300, 0x1FAFF},
}

// combiningRanges are treated as zero-width: the flusher paints a space in
// their place rather than attaching them to the preceding cell.
var combiningRanges = []runeRange{
	{0x0300, 0x036F},
	{0x1AB0, 0x1AFF},
	{0x1DC0, 0x1DFF},
	{0x20D0, 0x20FF},
	{0xFE20, 0xFE2F},
}

func inRanges(r rune, ranges []runeRange) bool {
	for _, rr := range ranges {
		if r >= rr.lo && r <= rr.hi {
			return true
		}
	}
	return false
}

// codepointDisplayWidth classifies r's terminal column width: wide glyphs
// are 2 columns, combining marks and control characters are 0, everything
// else is 1. WideCharContinuation is not itself classified here; the
// flusher special-cases it before calling this.
func codepointDisplayWidth(r rune) int {
	if r < 32 || r == 0x7F {
		return 0
	}
	if inRanges(r, combiningRanges) {
		return 0
	}
	if inRanges(r, wideRanges) {
		return 2
	}
	return 1
}
