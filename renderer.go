package aura

import (
	"bytes"
	"context"
	"io"
	"os"
	"sync"
	"time"
)

// CursorShape selects the terminal's DECSCUSR cursor glyph.
type CursorShape int

const (
	CursorBlock CursorShape = iota
	CursorLine
	CursorUnderline
)

// decscusrCode returns the DECSCUSR parameter (1..6) for a style+blink
// combination.
func decscusrCode(shape CursorShape, blinking bool) int {
	base := map[CursorShape]int{CursorBlock: 1, CursorUnderline: 3, CursorLine: 5}[shape]
	if !blinking {
		base++
	}
	return base
}

// CursorState is the renderer's owned cursor record.
type CursorState struct {
	X, Y     int
	Visible  bool
	Style    CursorShape
	Blinking bool
	HasColor bool
	Color    RGBA
}

// DebugOverlay describes the optional stat box the renderer paints onto
// "next" before diffing, so it participates like any other drawn content.
type DebugOverlay struct {
	Enabled bool
	Corner  int // 0=top-left,1=top-right,2=bottom-left,3=bottom-right
}

const (
	debugOverlayWidth  = 40
	debugOverlayHeight = 12
)

// inlineState is the renderer's captured inline-mode positioning context:
// the absolute start row/col, queried once from the terminal at create time.
type inlineState struct {
	captured    bool
	startRow    int
	startCol    int
	savedFG     RGBA
	savedBG     RGBA
	savedAttr   Attribute
}

// Renderer owns both cell grids, the double-buffered output byte arrays,
// the optional writer thread, the hit grid, cursor/debug-overlay state, and
// the terminal lifecycle.
type Renderer struct {
	current *Grid
	next    *Grid

	backgroundColor RGBA
	useAltScreen    bool
	renderOffset    int

	linesRendered         int
	previousLinesRendered int

	hitCurrent []uint32
	hitNext    []uint32

	cursor       CursorState
	debugOverlay DebugOverlay
	stats        Stats

	inline inlineState

	out        io.Writer
	bufA, bufB bytes.Buffer
	activeBuf  int // which of bufA/bufB the NEXT frame will be prepared into

	writer    *outputWriter
	useThread bool

	term       *termState
	firstFrame bool
	destroyed  bool

	title string

	mu         sync.Mutex
	resizeStop chan struct{}
}

// Create allocates a renderer of the given dimensions writing to stdout
// (or, in tests, any io.Writer). It seeds "current" with the sentinel
// char so the first render forces a full paint, enables the alternate
// screen if useAlt is set, and enters raw mode.
func Create(w, h int, useAlt bool) (*Renderer, error) {
	return create(w, h, useAlt, os.Stdout, int(os.Stdout.Fd()))
}

// CreateWithWriter is Create, but writing to an arbitrary io.Writer and
// without touching the real terminal, for tests and for hosts that want to
// capture the escape stream instead of emitting it.
func CreateWithWriter(w, h int, useAlt bool, out io.Writer) (*Renderer, error) {
	return create(w, h, useAlt, out, -1)
}

func create(w, h int, useAlt bool, out io.Writer, fd int) (*Renderer, error) {
	if w <= 0 || h <= 0 {
		return nil, newError("Create", InvalidDimensions, nil)
	}
	cur, err := NewGrid(w, h, false)
	if err != nil {
		return nil, newError("Create", OutOfMemory, err)
	}
	cur.clearSentinel()
	next, err := NewGrid(w, h, false)
	if err != nil {
		return nil, newError("Create", OutOfMemory, err)
	}

	r := &Renderer{
		current:         cur,
		next:            next,
		backgroundColor: Black,
		useAltScreen:    useAlt,
		linesRendered:   h,
		hitCurrent:      make([]uint32, w*h),
		hitNext:         make([]uint32, w*h),
		out:             out,
		firstFrame:      true,
	}
	r.bufA.Grow(1 << 20)
	r.bufB.Grow(1 << 20)

	if fd >= 0 {
		r.term = openTermState(fd)
		if err := r.term.enterRaw(); err != nil {
			return nil, err
		}
	}

	if useAlt {
		io.WriteString(r.out, ansiAltScreenOn)
	} else {
		r.captureInlineStart(fd)
	}

	if r.term != nil && r.term.isTTY {
		r.resizeStop = make(chan struct{})
		resizeCh := make(chan struct{}, 1)
		watchResize(resizeCh, r.resizeStop)
		go r.watchResizeLoop(resizeCh)
	}
	return r, nil
}

// captureInlineStart performs the one synchronous cursor-position query
// done at create time: it writes CSI 6n and parses the CSI row;col R
// reply. On a non-tty (tests, piped output) there's no terminal to answer,
// so the start position defaults to (0,0).
func (r *Renderer) captureInlineStart(fd int) {
	row, col := 0, 0
	if fd >= 0 && r.term != nil && r.term.isTTY {
		if rr, cc, ok := queryCursorPosition(fd); ok {
			row, col = rr, cc
		}
	}
	r.inline = inlineState{captured: true, startRow: row, startCol: col}
}

// SetBackgroundColor sets the color Clear uses when the grid is reset
// after each frame.
func (r *Renderer) SetBackgroundColor(c RGBA) { r.backgroundColor = c }

// SetRenderOffset sets the alternate-screen row offset added to the cursor
// move of every flushed cell run (e.g. to reserve a status bar). The
// cursor epilogue's position move does not add it.
func (r *Renderer) SetRenderOffset(n int) { r.renderOffset = n }

// SetLinesRendered sets the inline-mode render height. The captured inline
// start row cannot detect terminal scrolls on its own; callers should avoid
// rendering more lines than the terminal height.
func (r *Renderer) SetLinesRendered(n int) { r.linesRendered = n }

// SetUseThread starts or stops the writer thread.
func (r *Renderer) SetUseThread(on bool) {
	if on == r.useThread {
		return
	}
	if on {
		r.writer = newOutputWriter(r.out)
	} else if r.writer != nil {
		r.writer.stop()
		r.writer = nil
	}
	r.useThread = on
}

// UpdateStats records one frame's timing breakdown, supplied by the host
// frame loop.
func (r *Renderer) UpdateStats(lastFrame, render, overall, bufferReset, stdoutWrite, frameCallback, animRequest time.Duration, cellsUpdated int) {
	r.stats.recordFrame(lastFrame, render, overall, bufferReset, stdoutWrite, frameCallback, animRequest, cellsUpdated)
}

// UpdateMemoryStats forwards to Stats.UpdateMemoryStats.
func (r *Renderer) UpdateMemoryStats(heapBytes uint64) { r.stats.UpdateMemoryStats(heapBytes) }

// GetNextBuffer returns the grid external code should draw into this frame.
func (r *Renderer) GetNextBuffer() *Grid { return r.next }

// GetCurrentBuffer returns the grid representing the terminal's
// last-presented state.
func (r *Renderer) GetCurrentBuffer() *Grid { return r.current }

// SetDebugOverlay enables or disables the stat overlay and picks its
// corner (0=top-left,1=top-right,2=bottom-left,3=bottom-right).
func (r *Renderer) SetDebugOverlay(enabled bool, corner int) {
	r.debugOverlay = DebugOverlay{Enabled: enabled, Corner: corner}
}

// SetCursorPosition moves the owned cursor record (not the terminal cursor
// directly; it's written out by the next render's epilogue).
func (r *Renderer) SetCursorPosition(x, y int, visible bool) {
	r.cursor.X, r.cursor.Y, r.cursor.Visible = x, y, visible
}

// SetCursorStyle sets the cursor's DECSCUSR shape and blink state.
func (r *Renderer) SetCursorStyle(shape CursorShape, blinking bool) {
	r.cursor.Style, r.cursor.Blinking = shape, blinking
}

// SetCursorColor sets the OSC 12 cursor color.
func (r *Renderer) SetCursorColor(c RGBA) {
	r.cursor.HasColor, r.cursor.Color = true, c
}

// SetTerminalTitle sets the window/tab title (OSC 2).
func (r *Renderer) SetTerminalTitle(title string) {
	r.title = title
	io.WriteString(r.out, "\x1b]2;"+title+"\x07")
}

// ClearTerminal issues a full-screen clear + home.
func (r *Renderer) ClearTerminal() {
	io.WriteString(r.out, "\x1b[2J\x1b[H")
}

// EnableMouse turns on SGR mouse reporting with the given tracking mode.
// anyEvent selects motion+button tracking (?1003) over button-event-only
// tracking (?1002).
func (r *Renderer) EnableMouse(anyEvent bool) {
	io.WriteString(r.out, ansiMouseSGROn)
	if anyEvent {
		io.WriteString(r.out, ansiMouseAnyEventOn)
	} else {
		io.WriteString(r.out, ansiMouseButtonOn)
	}
}

// DisableMouse is the symmetric disable of EnableMouse.
func (r *Renderer) DisableMouse(anyEvent bool) {
	if anyEvent {
		io.WriteString(r.out, ansiMouseAnyEventOff)
	} else {
		io.WriteString(r.out, ansiMouseButtonOff)
	}
	io.WriteString(r.out, ansiMouseSGROff)
}

// AddToHitGrid writes id into the clipped rectangle [x,y,x+w,y+h) of the
// next hit grid.
func (r *Renderer) AddToHitGrid(x, y, w, h int, id uint32) {
	gw, gh := r.next.width, r.next.height
	x0, y0, x1, y1 := clipRect(x, y, w, h, gw, gh)
	for cy := y0; cy < y1; cy++ {
		for cx := x0; cx < x1; cx++ {
			r.hitNext[cy*gw+cx] = id
		}
	}
}

// CheckHit reads the current (presented-frame) hit grid at (x, y).
func (r *Renderer) CheckHit(x, y int) uint32 {
	if !r.current.InBounds(x, y) {
		return 0
	}
	return r.hitCurrent[y*r.current.width+x]
}

func (r *Renderer) swapHitGrids() {
	r.hitCurrent, r.hitNext = r.hitNext, r.hitCurrent
	for i := range r.hitNext {
		r.hitNext[i] = 0
	}
}

// watchResizeLoop re-queries the terminal size on every SIGWINCH delivered
// on ch and resizes the renderer to match, until stop is closed.
func (r *Renderer) watchResizeLoop(ch <-chan struct{}) {
	for {
		select {
		case <-r.resizeStop:
			return
		case <-ch:
			r.mu.Lock()
			if r.destroyed {
				r.mu.Unlock()
				return
			}
			w, h := r.term.size()
			r.resizeLocked(w, h)
			r.mu.Unlock()
		}
	}
}

// Resize reallocates both grids (current reseeded with the sentinel so the
// next frame forces a full repaint, next recleared to the background
// color), reallocates both hit grids (zeroed) at the new size, and clamps
// the cursor into bounds.
func (r *Renderer) Resize(w, h int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resizeLocked(w, h)
}

func (r *Renderer) resizeLocked(w, h int) error {
	if w <= 0 || h <= 0 {
		return newError("Resize", InvalidDimensions, nil)
	}
	if w == r.current.width && h == r.current.height {
		return nil
	}
	if err := r.current.Resize(w, h); err != nil {
		return err
	}
	r.current.clearSentinel()
	if err := r.next.Resize(w, h); err != nil {
		return err
	}
	r.next.Clear(r.backgroundColor, 0)

	r.hitCurrent = make([]uint32, w*h)
	r.hitNext = make([]uint32, w*h)

	if r.cursor.X >= w {
		r.cursor.X = w - 1
	}
	if r.cursor.Y >= h {
		r.cursor.Y = h - 1
	}
	r.firstFrame = true
	return nil
}

// DumpHitGrid returns a copy of the current hit grid for debugging.
func (r *Renderer) DumpHitGrid() []uint32 {
	out := make([]uint32, len(r.hitCurrent))
	copy(out, r.hitCurrent)
	return out
}

// DumpBuffers returns copies of the current and next grids' character
// channels for debugging.
func (r *Renderer) DumpBuffers() (current, next []rune) {
	current = make([]rune, len(r.current.char))
	copy(current, r.current.char)
	next = make([]rune, len(r.next.char))
	copy(next, r.next.char)
	return
}

// DumpStdoutBuffer returns the bytes most recently prepared for stdout.
func (r *Renderer) DumpStdoutBuffer() []byte {
	if r.activeBuf == 0 {
		return r.bufB.Bytes()
	}
	return r.bufA.Bytes()
}

// Render computes the diff between current and next, writes (or hands off
// to the writer thread) the resulting byte stream, and clears next to the
// background color for the following frame. force is treated as true on
// the very first call.
func (r *Renderer) Render(force bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return nil
	}
	start := time.Now()

	if r.debugOverlay.Enabled {
		r.drawDebugOverlay()
	}

	frame := r.activeBuffer()
	frame.Reset()
	r.buildFrame(frame, force || r.firstFrame)
	r.firstFrame = false

	var writeErr error
	writeStart := time.Now()
	if r.useThread && r.writer != nil {
		if err := r.writer.takeErr(); err != nil {
			writeErr = err
		}
		r.writer.submit(append([]byte(nil), frame.Bytes()...))
	} else {
		if _, err := r.out.Write(frame.Bytes()); err != nil {
			writeErr = err
		}
	}
	r.activeBuf = 1 - r.activeBuf
	writeDuration := time.Since(writeStart)

	r.swapHitGrids()
	r.previousLinesRendered = r.linesRendered
	r.next.Clear(r.backgroundColor, 0)

	overall := time.Since(start)
	r.stats.recordFrame(overall, overall, overall, 0, writeDuration, 0, 0, 0)

	if writeErr != nil {
		return newError("Render", WriteFailed, writeErr)
	}
	return nil
}

func (r *Renderer) activeBuffer() *bytes.Buffer {
	if r.activeBuf == 0 {
		return &r.bufA
	}
	return &r.bufB
}

func (r *Renderer) drawDebugOverlay() {
	w, h := debugOverlayWidth, debugOverlayHeight
	var x, y int
	switch r.debugOverlay.Corner {
	case 1:
		x, y = r.next.width-w, 0
	case 2:
		x, y = 0, r.next.height-h
	case 3:
		x, y = r.next.width-w, r.next.height-h
	}
	r.next.DrawBox(x, y, w, h, StandardBorder, BoxSides{true, true, true, true}, White, Black, true, "stats", TitleCenter)
	for i, line := range r.stats.overlayLines() {
		if i+2 >= h {
			break
		}
		r.next.DrawText(line, x+2, y+1+i, White, nil, 0)
	}
}

// Destroy issues the full shutdown restoration sequence: show the cursor
// (twice, 10ms apart, to work around a known terminal bug where the first
// show is dropped while a write is still draining), reset cursor style and
// color, disable mouse tracking, leave the alternate screen if it was used,
// and restore the original terminal mode.
func (r *Renderer) Destroy() error {
	r.mu.Lock()
	if r.destroyed {
		r.mu.Unlock()
		return nil
	}
	r.destroyed = true
	r.mu.Unlock()

	if r.resizeStop != nil {
		close(r.resizeStop)
	}

	if r.useThread && r.writer != nil {
		r.writer.stop()
		r.writer = nil
	}

	io.WriteString(r.out, ansiShowCursor)
	time.Sleep(10 * time.Millisecond)
	io.WriteString(r.out, ansiShowCursor)
	io.WriteString(r.out, "\x1b[0 q")
	io.WriteString(r.out, "\x1b]12;rgb:ff/ff/ff\x07")
	r.DisableMouse(true)
	r.DisableMouse(false)

	if r.useAltScreen {
		io.WriteString(r.out, ansiAltScreenOff)
	}

	var err error
	if r.term != nil {
		err = r.term.exitRaw()
	}
	return err
}

// Run drives a render loop until ctx is cancelled, calling frame once per
// iteration with the buffer to draw into, then rendering and swapping.
func (r *Renderer) Run(ctx context.Context, frame func(next *Grid)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		frame(r.next)
		if err := r.Render(false); err != nil {
			return err
		}
	}
}
