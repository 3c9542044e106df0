package aura

import (
	"bufio"
	"io"
	"sync"
)

// outputWriter runs the optional writer thread: it owns a buffered writer
// over stdout and nothing else (no grid, no stats), and serializes frame
// bytes onto it one at a time, in submission order. The request channel
// has capacity 1: one frame can wait there while the goroutine writes the
// previous one, and a further send blocks the caller until that slot is
// free, with no explicit lock needed on the caller side.
type outputWriter struct {
	bufw    *bufio.Writer
	reqCh   chan []byte
	doneCh  chan struct{}
	wg      sync.WaitGroup
	lastErr error
	mu      sync.Mutex
}

func newOutputWriter(w io.Writer) *outputWriter {
	ow := &outputWriter{
		bufw:   bufio.NewWriterSize(w, 4096),
		reqCh:  make(chan []byte, 1),
		doneCh: make(chan struct{}),
	}
	ow.wg.Add(1)
	go ow.run()
	return ow
}

func (ow *outputWriter) run() {
	defer ow.wg.Done()
	for frame := range ow.reqCh {
		if _, err := ow.bufw.Write(frame); err != nil {
			ow.setErr(err)
		}
		if err := ow.bufw.Flush(); err != nil {
			ow.setErr(err)
		}
	}
}

func (ow *outputWriter) setErr(err error) {
	ow.mu.Lock()
	ow.lastErr = err
	ow.mu.Unlock()
}

// takeErr returns and clears the last write error, if any. Write errors
// are surfaced to the caller rather than panicking, so the render loop
// stays live even if stdout is momentarily unwritable.
func (ow *outputWriter) takeErr() error {
	ow.mu.Lock()
	defer ow.mu.Unlock()
	err := ow.lastErr
	ow.lastErr = nil
	return err
}

// submit hands a frame to the writer goroutine, blocking only while an
// earlier frame is still waiting in the request slot.
func (ow *outputWriter) submit(frame []byte) {
	ow.reqCh <- frame
}

// stop signals termination and waits for any in-flight write to complete
// before returning.
func (ow *outputWriter) stop() {
	close(ow.reqCh)
	ow.wg.Wait()
}
