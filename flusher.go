package aura

import "bytes"

// buildFrame walks `next` against `current`, coalesces adjacent changed
// same-style cells into runs, and appends the minimal escape/text stream
// that transforms the terminal's visible state (== current) into next.
// Flushed cells are copied into current in place, so the next call diffs
// against what was actually written.
func (r *Renderer) buildFrame(buf *bytes.Buffer, force bool) {
	buf.WriteString(ansiHideCursor)

	inline := !r.useAltScreen
	if inline {
		force = true
	}

	renderHeight := r.next.height
	if inline {
		renderHeight = r.linesRendered
	}
	skipBlankFirstRow := inline && r.firstFrame

	for y := 0; y < renderHeight; y++ {
		if skipBlankFirstRow && rowIsBlank(r.next, y) {
			continue
		}
		r.flushRow(buf, y, force, inline)
		if inline {
			buf.WriteString(ansiEraseEOL)
		}
	}

	buf.WriteString(ansiResetSGR)

	if inline && r.previousLinesRendered > r.linesRendered {
		writeMoveTo(buf, 0, r.inline.startRow+r.linesRendered)
		buf.WriteString(ansiEraseDown)
	}

	r.writeCursorEpilogue(buf)
}

func rowIsBlank(g *Grid, y int) bool {
	for x := 0; x < g.width; x++ {
		c, _ := g.Get(x, y)
		if !c.isBlank() {
			return false
		}
	}
	return true
}

type runState struct {
	active     bool
	startVCol  int
	fg, bg     RGBA
	attr       Attribute
	payload    bytes.Buffer
}

func (r *Renderer) flushRow(buf *bytes.Buffer, y int, force, inline bool) {
	var run runState
	vcol := 0

	flush := func() {
		if !run.active {
			return
		}
		r.writeMove(buf, run.startVCol, y, inline)
		writeRunStyle(buf, run.fg, run.bg, run.attr)
		buf.Write(run.payload.Bytes())
		buf.WriteString(ansiResetSGR)
		run.active = false
		run.payload.Reset()
	}

	for x := 0; x < r.next.width; x++ {
		nextCell, _ := r.next.Get(x, y)
		curCell, _ := r.current.Get(x, y)

		if nextCell.Char == WideCharContinuation {
			r.current.Set(x, y, nextCell)
			continue
		}

		width := codepointDisplayWidth(nextCell.Char)
		changed := force || !nextCell.equalForDiff(curCell)
		sameStyle := run.active && run.fg.Equal(nextCell.FG) && run.bg.Equal(nextCell.BG) && run.attr == nextCell.Attr

		switch {
		case changed && !run.active:
			run = runState{active: true, startVCol: vcol, fg: nextCell.FG, bg: nextCell.BG, attr: nextCell.Attr}
			appendCellPayload(&run.payload, nextCell.Char, width)
		case changed && sameStyle:
			appendCellPayload(&run.payload, nextCell.Char, width)
		case changed: // style changed mid-run
			flush()
			run = runState{active: true, startVCol: vcol, fg: nextCell.FG, bg: nextCell.BG, attr: nextCell.Attr}
			appendCellPayload(&run.payload, nextCell.Char, width)
		default:
			flush()
		}

		if changed {
			r.current.Set(x, y, nextCell)
		}
		vcol += width
	}
	flush()
}

// appendCellPayload writes a cell's visible bytes into a run's payload.
// Zero-width cells (control chars, combining marks folded to SPACE) still
// occupy one byte so the stream stays well-formed.
func appendCellPayload(buf *bytes.Buffer, ch rune, width int) {
	if width == 0 {
		buf.WriteRune(SPACE)
		return
	}
	buf.WriteRune(ch)
}

func (r *Renderer) writeMove(buf *bytes.Buffer, vcol, y int, inline bool) {
	if inline {
		writeMoveTo(buf, r.inline.startCol+vcol, r.inline.startRow+y)
		return
	}
	writeMoveTo(buf, vcol, y+r.renderOffset)
}

// writeMoveTo appends CSI row;col H using 1-based row/col. row/col here
// are already 0-based visual coordinates; the +1 is applied internally.
func writeMoveTo(buf *bytes.Buffer, col, row int) {
	buf.WriteString("\x1b[")
	writeIntTo(buf, row+1)
	buf.WriteByte(';')
	writeIntTo(buf, col+1)
	buf.WriteByte('H')
}

func writeIntTo(buf *bytes.Buffer, n int) {
	if n == 0 {
		buf.WriteByte('0')
		return
	}
	if n < 0 {
		buf.WriteByte('-')
		n = -n
	}
	var scratch [10]byte
	i := len(scratch)
	for n > 0 {
		i--
		scratch[i] = byte('0' + n%10)
		n /= 10
	}
	buf.Write(scratch[i:])
}

// writeRunStyle emits one combined SGR sequence resetting prior state and
// applying this run's attributes and 24-bit fg/bg in a single
// "\x1b[0;...m" rather than one escape per attribute.
func writeRunStyle(buf *bytes.Buffer, fg, bg RGBA, attr Attribute) {
	buf.WriteString("\x1b[0")
	for _, a := range attrSGRCode {
		if attr.Has(a.bit) {
			buf.WriteString(a.code)
		}
	}
	buf.WriteString(";38;2;")
	writeIntTo(buf, int(clampByte(fg.R)))
	buf.WriteByte(';')
	writeIntTo(buf, int(clampByte(fg.G)))
	buf.WriteByte(';')
	writeIntTo(buf, int(clampByte(fg.B)))
	buf.WriteString(";48;2;")
	writeIntTo(buf, int(clampByte(bg.R)))
	buf.WriteByte(';')
	writeIntTo(buf, int(clampByte(bg.G)))
	buf.WriteByte(';')
	writeIntTo(buf, int(clampByte(bg.B)))
	buf.WriteByte('m')
}

func (r *Renderer) writeCursorEpilogue(buf *bytes.Buffer) {
	if !r.cursor.Visible {
		buf.WriteString(ansiHideCursor)
		return
	}
	if r.cursor.HasColor {
		writeCursorColor(buf, r.cursor.Color)
	}
	buf.WriteString("\x1b[")
	writeIntTo(buf, decscusrCode(r.cursor.Style, r.cursor.Blinking))
	buf.WriteString(" q")
	writeMoveTo(buf, r.cursor.X, r.cursor.Y)
	buf.WriteString(ansiShowCursor)
}

func writeCursorColor(buf *bytes.Buffer, c RGBA) {
	buf.WriteString("\x1b]12;rgb:")
	buf.WriteByte(hexDigit(clampByte(c.R) >> 4))
	buf.WriteByte(hexDigit(clampByte(c.R) & 0xF))
	buf.WriteByte('/')
	buf.WriteByte(hexDigit(clampByte(c.G) >> 4))
	buf.WriteByte(hexDigit(clampByte(c.G) & 0xF))
	buf.WriteByte('/')
	buf.WriteByte(hexDigit(clampByte(c.B) >> 4))
	buf.WriteByte(hexDigit(clampByte(c.B) & 0xF))
	buf.WriteByte('\x07')
}

func hexDigit(n uint8) byte {
	if n < 10 {
		return '0' + n
	}
	return 'a' + n - 10
}
