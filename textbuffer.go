package aura

// Bit layout for the packed attr16 channel: the low 8 bits are attribute
// flags, the top 3 bits mark which of fg/bg/attr should be substituted
// from the buffer's defaults rather than read literally.
const (
	useDefaultFG   uint16 = 0x8000
	useDefaultBG   uint16 = 0x4000
	useDefaultAttr uint16 = 0x2000
	attrMask       uint16 = 0x00FF
)

// fragmentCell is one packed-buffer slot: character, colors, and the
// attr16 bit layout described above.
type fragmentCell struct {
	char rune
	fg   RGBA
	bg   RGBA
	attr uint16
}

// Selection is an optional highlighted range [Start, End) with optional
// override colors.
type Selection struct {
	Set        bool
	Start, End int
	OverrideBG *RGBA
	OverrideFG *RGBA
}

// TextBuffer is the append-only, styled UTF-8 fragment buffer: callers
// write styled chunks (WriteChunk), it tracks where each line starts and
// how wide it is, and a Grid's DrawTextBuffer consumes it cell by cell.
// Like Grid, the cells are held as four parallel slices so a caller can be
// handed a bounds-checked raw-array view of one channel (see CharHandle/
// FGHandle/BGHandle/AttrHandle below).
type TextBuffer struct {
	char []rune
	fg   []RGBA
	bg   []RGBA
	attr []uint16

	cursor       int
	lineStarts   []int
	lineWidths   []int
	curLineWidth int

	selection Selection

	hasDefaultFG   bool
	defaultFG      RGBA
	hasDefaultBG   bool
	defaultBG      RGBA
	hasDefaultAttr bool
	defaultAttr    Attribute
}

// NewTextBuffer allocates a buffer with initial capacity n.
func NewTextBuffer(n int) (*TextBuffer, error) {
	if n < 0 {
		return nil, newError("NewTextBuffer", InvalidDimensions, nil)
	}
	return &TextBuffer{
		char:       make([]rune, n),
		fg:         make([]RGBA, n),
		bg:         make([]RGBA, n),
		attr:       make([]uint16, n),
		lineStarts: []int{0},
	}, nil
}

// Len returns the logical length (cursor) of the buffer.
func (t *TextBuffer) Len() int { return t.cursor }

// Cap returns the current backing capacity.
func (t *TextBuffer) Cap() int { return len(t.char) }

// SetDefaultFG sets the fg substituted for chunks that omit one.
func (t *TextBuffer) SetDefaultFG(c RGBA) { t.hasDefaultFG = true; t.defaultFG = c }

// SetDefaultBG sets the bg substituted for chunks that omit one.
func (t *TextBuffer) SetDefaultBG(c RGBA) { t.hasDefaultBG = true; t.defaultBG = c }

// SetDefaultAttr sets the attr substituted for chunks that omit one.
func (t *TextBuffer) SetDefaultAttr(a Attribute) { t.hasDefaultAttr = true; t.defaultAttr = a }

// ResetDefaults clears all three defaults.
func (t *TextBuffer) ResetDefaults() {
	t.hasDefaultFG, t.hasDefaultBG, t.hasDefaultAttr = false, false, false
}

// SetSelection sets the highlighted range and optional override colors.
func (t *TextBuffer) SetSelection(start, end int, overrideFG, overrideBG *RGBA) {
	t.selection = Selection{Set: true, Start: start, End: end, OverrideFG: overrideFG, OverrideBG: overrideBG}
}

// ResetSelection clears the selection.
func (t *TextBuffer) ResetSelection() { t.selection = Selection{} }

func (t *TextBuffer) grow() {
	n := len(t.char) + 256
	t.char = growRunes(t.char, n)
	t.fg = growColors(t.fg, n)
	t.bg = growColors(t.bg, n)
	t.attr = growAttrs(t.attr, n)
}

func growRunes(s []rune, n int) []rune {
	grown := make([]rune, n)
	copy(grown, s)
	return grown
}

func growColors(s []RGBA, n int) []RGBA {
	grown := make([]RGBA, n)
	copy(grown, s)
	return grown
}

func growAttrs(s []uint16, n int) []uint16 {
	grown := make([]uint16, n)
	copy(grown, s)
	return grown
}

// WriteChunk appends a styled run of text. fg/bg/attr are pointers so that
// an omitted style marks the corresponding USE_DEFAULT bit and substitutes
// the buffer's default (or a built-in fallback) instead. Returns
// (scalarsWritten, resized).
func (t *TextBuffer) WriteChunk(text string, fg, bg *RGBA, attr *Attribute) (int, bool) {
	var a16 uint16
	useFG, useBG, useAttr := White, Transparent, Attribute(0)

	if fg == nil {
		a16 |= useDefaultFG
		if t.hasDefaultFG {
			useFG = t.defaultFG
		} else {
			useFG = White
		}
	} else {
		useFG = *fg
	}
	if bg == nil {
		a16 |= useDefaultBG
		if t.hasDefaultBG {
			useBG = t.defaultBG
		} else {
			useBG = Transparent
		}
	} else {
		useBG = *bg
	}
	if attr == nil {
		a16 |= useDefaultAttr
		if t.hasDefaultAttr {
			useAttr = t.defaultAttr
		} else {
			useAttr = 0
		}
	} else {
		useAttr = *attr
	}
	a16 |= uint16(useAttr) & attrMask

	resized := false
	count := 0
	for _, r := range text {
		if t.cursor >= len(t.char) {
			t.grow()
			resized = true
		}
		t.char[t.cursor] = r
		t.fg[t.cursor] = useFG
		t.bg[t.cursor] = useBG
		t.attr[t.cursor] = a16
		if r == '\n' {
			t.lineWidths = append(t.lineWidths, t.curLineWidth)
			t.lineStarts = append(t.lineStarts, t.cursor+1)
			t.curLineWidth = 0
		} else {
			t.curLineWidth++
		}
		t.cursor++
		count++
	}
	return count, resized
}

// SetCell overwrites the styled cell at absolute index i, growing neither
// the backing arrays nor the line tables. Returns InvalidIndex if i falls
// outside [0, Cap()).
func (t *TextBuffer) SetCell(i int, ch rune, fg, bg RGBA, attr Attribute) error {
	if i < 0 || i >= len(t.char) {
		return newError("TextBuffer.SetCell", InvalidIndex, nil)
	}
	t.char[i] = ch
	t.fg[i] = fg
	t.bg[i] = bg
	t.attr[i] = uint16(attr) & attrMask
	return nil
}

// FinalizeLineInfo pushes the in-progress line's width if it is non-zero,
// or if the buffer is empty (guaranteeing at least one entry).
func (t *TextBuffer) FinalizeLineInfo() {
	if t.curLineWidth > 0 || t.cursor == 0 {
		t.lineWidths = append(t.lineWidths, t.curLineWidth)
	}
}

// LineStarts returns the line-start index table (read-only view).
func (t *TextBuffer) LineStarts() []int { return t.lineStarts }

// LineWidths returns the line-width table (read-only view).
func (t *TextBuffer) LineWidths() []int { return t.lineWidths }

// CharHandle returns the character channel for bulk host-side writes. The
// handle is valid only for the lifetime of the current capacity (Resize or
// a grow triggered by WriteChunk invalidates it).
func (t *TextBuffer) CharHandle() []rune { return t.char }

// FGHandle returns the foreground-color channel.
func (t *TextBuffer) FGHandle() []RGBA { return t.fg }

// BGHandle returns the background-color channel.
func (t *TextBuffer) BGHandle() []RGBA { return t.bg }

// AttrHandle returns the packed attr16 channel.
func (t *TextBuffer) AttrHandle() []uint16 { return t.attr }

// Reset empties the buffer without releasing its backing arrays.
func (t *TextBuffer) Reset() {
	t.cursor = 0
	t.curLineWidth = 0
	t.lineStarts = t.lineStarts[:0]
	t.lineStarts = append(t.lineStarts, 0)
	t.lineWidths = t.lineWidths[:0]
	t.selection = Selection{}
}

// Resize grows or shrinks the backing capacity, truncating the logical
// length if it now exceeds the new capacity.
func (t *TextBuffer) Resize(n int) error {
	if n < 0 {
		return newError("TextBuffer.Resize", InvalidDimensions, nil)
	}
	t.char = growRunes(t.char, n)
	t.fg = growColors(t.fg, n)
	t.bg = growColors(t.bg, n)
	t.attr = growAttrs(t.attr, n)
	if t.cursor > n {
		t.cursor = n
	}
	return nil
}

// Concat returns a new buffer holding a's payload followed by b's, with
// b's line tables offset by a's length and merged in (skipping b's
// leading 0 line-start, which always restates "line 0 begins at 0").
func Concat(a, b *TextBuffer) *TextBuffer {
	n := a.cursor + b.cursor
	out := &TextBuffer{
		char:   make([]rune, n),
		fg:     make([]RGBA, n),
		bg:     make([]RGBA, n),
		attr:   make([]uint16, n),
		cursor: n,
	}
	copy(out.char, a.char[:a.cursor])
	copy(out.char[a.cursor:], b.char[:b.cursor])
	copy(out.fg, a.fg[:a.cursor])
	copy(out.fg[a.cursor:], b.fg[:b.cursor])
	copy(out.bg, a.bg[:a.cursor])
	copy(out.bg[a.cursor:], b.bg[:b.cursor])
	copy(out.attr, a.attr[:a.cursor])
	copy(out.attr[a.cursor:], b.attr[:b.cursor])

	out.lineStarts = append(out.lineStarts, a.lineStarts...)
	for i, s := range b.lineStarts {
		if i == 0 && s == 0 {
			continue
		}
		out.lineStarts = append(out.lineStarts, s+a.cursor)
	}
	out.lineWidths = append(out.lineWidths, a.lineWidths...)
	out.lineWidths = append(out.lineWidths, b.lineWidths...)
	out.curLineWidth = b.curLineWidth
	return out
}

// cellAt returns the fragment cell at absolute index i, substituting
// defaults for any USE_DEFAULT-flagged channel.
func (t *TextBuffer) cellAt(i int) fragmentCell {
	c := fragmentCell{char: t.char[i], fg: t.fg[i], bg: t.bg[i], attr: t.attr[i]}
	if c.attr&useDefaultFG != 0 && t.hasDefaultFG {
		c.fg = t.defaultFG
	}
	if c.attr&useDefaultBG != 0 && t.hasDefaultBG {
		c.bg = t.defaultBG
	}
	if c.attr&useDefaultAttr != 0 && t.hasDefaultAttr {
		c.attr = (c.attr &^ attrMask) | uint16(t.defaultAttr)&attrMask
	}
	return c
}
