package aura

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestCreateWithWriterRejectsBadDimensions(t *testing.T) {
	var out bytes.Buffer
	if _, err := CreateWithWriter(0, 5, true, &out); err == nil {
		t.Fatal("expected error for zero width")
	}
	if _, err := CreateWithWriter(5, -1, true, &out); err == nil {
		t.Fatal("expected error for negative height")
	}
}

func TestCreateAltScreenWritesEnterSequence(t *testing.T) {
	var out bytes.Buffer
	r, err := CreateWithWriter(20, 10, true, &out)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Destroy()
	if !strings.Contains(out.String(), ansiAltScreenOn) {
		t.Fatalf("expected alt-screen-on sequence on create, got %q", out.String())
	}
}

func TestDestroyRestoresTerminal(t *testing.T) {
	var out bytes.Buffer
	r, err := CreateWithWriter(20, 10, true, &out)
	if err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := r.Destroy(); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if strings.Count(got, ansiShowCursor) != 2 {
		t.Fatalf("expected cursor shown twice (10ms apart) on shutdown, got %d times in %q",
			strings.Count(got, ansiShowCursor), got)
	}
	if !strings.Contains(got, ansiAltScreenOff) {
		t.Fatalf("expected alt-screen-off on shutdown, got %q", got)
	}
	// double Destroy is a no-op, not a second restoration sequence
	out.Reset()
	if err := r.Destroy(); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Fatalf("second Destroy should be a no-op, wrote %q", out.String())
	}
}

func TestResizePreservesCursorClampAndForcesFullRepaint(t *testing.T) {
	var out bytes.Buffer
	r, err := CreateWithWriter(10, 5, true, &out)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Destroy()
	r.SetCursorPosition(9, 4, true)

	if err := r.Resize(4, 3); err != nil {
		t.Fatal(err)
	}
	if r.cursor.X != 3 || r.cursor.Y != 2 {
		t.Fatalf("cursor should clamp into the new bounds, got (%d,%d)", r.cursor.X, r.cursor.Y)
	}
	if !r.firstFrame {
		t.Fatalf("resize should force a full repaint on the next render")
	}
}

func TestHitGridAddCheckAndSwap(t *testing.T) {
	var out bytes.Buffer
	r, err := CreateWithWriter(10, 10, true, &out)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Destroy()

	r.AddToHitGrid(2, 2, 3, 3, 42)
	// not visible yet: hitNext only becomes hitCurrent after a render swap
	if id := r.CheckHit(3, 3); id != 0 {
		t.Fatalf("hit should not be visible before a render, got %d", id)
	}

	if err := r.Render(false); err != nil {
		t.Fatal(err)
	}
	if id := r.CheckHit(3, 3); id != 42 {
		t.Fatalf("expected hit id 42 at (3,3) after render swap, got %d", id)
	}
	if id := r.CheckHit(0, 0); id != 0 {
		t.Fatalf("expected no hit outside the added rect, got %d", id)
	}
}

func TestDebugOverlayDrawsIntoNextBuffer(t *testing.T) {
	var out bytes.Buffer
	r, err := CreateWithWriter(60, 20, true, &out)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Destroy()

	r.SetDebugOverlay(true, 0)
	r.UpdateStats(time.Millisecond, time.Millisecond, time.Millisecond, 0, 0, time.Millisecond, time.Millisecond, 5)
	if err := r.Render(false); err != nil {
		t.Fatal(err)
	}
	cur, _ := r.GetCurrentBuffer().Get(0, 0)
	if cur.Char != StandardBorder[0] {
		t.Fatalf("expected debug overlay border corner at (0,0), got %q", cur.Char)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	var out bytes.Buffer
	r, err := CreateWithWriter(10, 5, true, &out)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Destroy()

	ctx, cancel := context.WithCancel(context.Background())
	frames := 0
	cancel() // cancel before the first iteration checks ctx.Done()

	err = r.Run(ctx, func(next *Grid) { frames++ })
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if frames != 0 {
		t.Fatalf("frame callback should not run after cancellation, ran %d times", frames)
	}
}
