package aura

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// termState captures what's needed to restore a terminal after raw-mode
// rendering: the prior terminal state is saved on enterRaw and restored on
// exitRaw, built on golang.org/x/term's MakeRaw/Restore rather than
// hand-rolled termios flag twiddling so the engine builds on more than one
// platform.
type termState struct {
	fd    int
	saved *term.State
	isTTY bool
}

func openTermState(fd int) *termState {
	return &termState{fd: fd, isTTY: term.IsTerminal(fd)}
}

// enterRaw puts the terminal into raw mode. On a non-tty (e.g. under
// `go test`, or stdout redirected to a file) this is a no-op.
func (t *termState) enterRaw() error {
	if !t.isTTY || t.saved != nil {
		return nil
	}
	old, err := term.MakeRaw(t.fd)
	if err != nil {
		return newError("enterRaw", WriteFailed, err)
	}
	t.saved = old
	return nil
}

// exitRaw restores the state saved by enterRaw, if any.
func (t *termState) exitRaw() error {
	if t.saved == nil {
		return nil
	}
	err := term.Restore(t.fd, t.saved)
	t.saved = nil
	if err != nil {
		return newError("exitRaw", WriteFailed, err)
	}
	return nil
}

// size returns the current terminal dimensions via TIOCGWINSZ, falling
// back to 80x24 when stdout isn't a tty or the ioctl fails.
func (t *termState) size() (width, height int) {
	if !t.isTTY {
		return 80, 24
	}
	ws, err := unix.IoctlGetWinsize(t.fd, unix.TIOCGWINSZ)
	if err != nil {
		return 80, 24
	}
	return int(ws.Col), int(ws.Row)
}

// queryCursorPosition writes CSI 6n and parses the terminal's
// CSI row;col R reply from stdin, with a short deadline so a non-
// responding terminal can't hang startup.
func queryCursorPosition(fd int) (row, col int, ok bool) {
	if _, err := unix.Write(fd, []byte("\x1b[6n")); err != nil {
		return 0, 0, false
	}
	os.Stdin.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	defer os.Stdin.SetReadDeadline(time.Time{})

	var buf [32]byte
	n, err := os.Stdin.Read(buf[:])
	if err != nil || n == 0 {
		return 0, 0, false
	}
	reply := buf[:n]
	// expect ESC [ row ; col R
	body := reply
	if idx := indexByte(reply, '['); idx >= 0 {
		body = reply[idx+1:]
	}
	r, c := 0, 0
	parsingRow := true
	for _, b := range body {
		switch {
		case b >= '0' && b <= '9':
			if parsingRow {
				r = r*10 + int(b-'0')
			} else {
				c = c*10 + int(b-'0')
			}
		case b == ';':
			parsingRow = false
		case b == 'R':
			return r - 1, c - 1, r > 0 && c > 0
		}
	}
	return 0, 0, false
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

// watchResize delivers SIGWINCH notifications on ch until stop is closed.
func watchResize(ch chan<- struct{}, stop <-chan struct{}) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGWINCH)
	go func() {
		defer signal.Stop(sig)
		for {
			select {
			case <-stop:
				return
			case <-sig:
				select {
				case ch <- struct{}{}:
				default:
				}
			}
		}
	}()
}
