package aura

// Grid is the Cell Grid ("OptimizedBuffer"): a width x height array of
// cells stored as four parallel, row-major slices so that bulk operations
// (clear, frame-blit, packed-buffer decode) can touch one channel at a
// time, and so a caller can be handed a bounds-checked, length-aware view
// of a single channel for zero-copy bulk writes (see CharHandle/FGHandle/
// BGHandle/AttrHandle below).
type Grid struct {
	width, height int
	char          []rune
	fg            []RGBA
	bg            []RGBA
	attr          []Attribute
	respectAlpha  bool
}

// NewGrid allocates a width x height grid, cleared to opaque black with
// blank cells. respectAlpha controls DrawFrameBuffer's fast-copy-vs-blend
// choice when this grid is used as a frame-blit source.
func NewGrid(width, height int, respectAlpha bool) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, newError("NewGrid", InvalidDimensions, nil)
	}
	g := &Grid{width: width, height: height, respectAlpha: respectAlpha}
	n := width * height
	g.char = make([]rune, n)
	g.fg = make([]RGBA, n)
	g.bg = make([]RGBA, n)
	g.attr = make([]Attribute, n)
	g.Clear(Black, 0)
	return g, nil
}

// Width returns the grid's column count.
func (g *Grid) Width() int { return g.width }

// Height returns the grid's row count.
func (g *Grid) Height() int { return g.height }

// RespectAlpha reports the grid's frame-blit blending mode.
func (g *Grid) RespectAlpha() bool { return g.respectAlpha }

// SetRespectAlpha changes the frame-blit blending mode.
func (g *Grid) SetRespectAlpha(v bool) { g.respectAlpha = v }

// InBounds reports whether (x, y) addresses a real cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

func (g *Grid) index(x, y int) int { return y*g.width + x }

// Clear fills every cell with (char or SPACE, opaque white, bg, attr 0),
// using a bulk fill per channel rather than a per-cell loop.
func (g *Grid) Clear(bg RGBA, char rune) {
	if char == 0 {
		char = SPACE
	}
	for i := range g.char {
		g.char[i] = char
	}
	for i := range g.fg {
		g.fg[i] = White
	}
	for i := range g.bg {
		g.bg[i] = bg
	}
	for i := range g.attr {
		g.attr[i] = 0
	}
}

// clearSentinel is used by the renderer to seed "current" so the first
// diff forces every cell (see SentinelChar).
func (g *Grid) clearSentinel() {
	g.Clear(Black, SentinelChar)
}

// Get returns the cell at (x, y) and true, or the zero Cell and false if
// out of bounds.
func (g *Grid) Get(x, y int) (Cell, bool) {
	if !g.InBounds(x, y) {
		return Cell{}, false
	}
	i := g.index(x, y)
	return Cell{Char: g.char[i], FG: g.fg[i], BG: g.bg[i], Attr: g.attr[i]}, true
}

// Set writes a cell at (x, y). Out-of-bounds is a silent no-op.
func (g *Grid) Set(x, y int, c Cell) {
	if !g.InBounds(x, y) {
		return
	}
	i := g.index(x, y)
	g.char[i] = c.Char
	g.fg[i] = c.FG
	g.bg[i] = c.BG
	g.attr[i] = c.Attr
}

// Resize reallocates the grid to new dimensions, copying the overlapping
// min(old,new) subgrid and default-initializing the rest.
func (g *Grid) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return newError("Grid.Resize", InvalidDimensions, nil)
	}
	ng, err := NewGrid(width, height, g.respectAlpha)
	if err != nil {
		return err
	}
	minW, minH := width, height
	if g.width < minW {
		minW = g.width
	}
	if g.height < minH {
		minH = g.height
	}
	for y := 0; y < minH; y++ {
		for x := 0; x < minW; x++ {
			c, _ := g.Get(x, y)
			ng.Set(x, y, c)
		}
	}
	*g = *ng
	return nil
}

// CharHandle returns a length-aware, bounds-checked view of the character
// channel for bulk host-side writes. The handle is valid only for the
// lifetime of the current drawing session (a resize invalidates it).
func (g *Grid) CharHandle() []rune { return g.char }

// FGHandle returns the foreground-color channel.
func (g *Grid) FGHandle() []RGBA { return g.fg }

// BGHandle returns the background-color channel.
func (g *Grid) BGHandle() []RGBA { return g.bg }

// AttrHandle returns the attribute channel.
func (g *Grid) AttrHandle() []Attribute { return g.attr }
