// Command aura-demo drives a tiny Renderer.Run loop: a moving label and a
// bordered status box, redrawn every tick until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-runewidth"

	"aura"
)

func main() {
	fps := flag.Int("fps", 30, "frames per second")
	label := flag.String("label", "aura demo, press Ctrl+C to quit", "status label")
	flag.Parse()

	r, err := aura.Create(80, 24, true)
	if err != nil {
		fmt.Fprintln(os.Stderr, "aura-demo:", err)
		os.Exit(1)
	}
	defer r.Destroy()

	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	// go-runewidth lays out the free-form label before handing a
	// fixed-width string to the engine; the engine itself never computes
	// arbitrary-text display width, only the fixed per-codepoint rule the
	// flusher needs for column accounting.
	labelWidth := runewidth.StringWidth(*label)

	tick := time.NewTicker(time.Second / time.Duration(*fps))
	defer tick.Stop()

	frameN := 0
	err = r.Run(ctx, func(next *aura.Grid) {
		<-tick.C
		frameN++

		next.DrawBox(0, 0, next.Width(), next.Height(), aura.StandardBorder,
			aura.BoxSides{Left: true, Right: true, Top: true, Bottom: true},
			aura.RGBA8(80, 160, 255), aura.Black, false, "aura", aura.TitleCenter)

		x := 2 + (frameN/2)%maxInt(1, next.Width()-labelWidth-4)
		next.DrawText(*label, x, next.Height()/2, aura.White, nil, 0)

		hue := float32(frameN%360)
		next.FillRect(2, 2, 10, 1, aura.HSVToRGB(hue, 0.6, 0.9))
	})
	if err != nil && err != context.Canceled {
		fmt.Fprintln(os.Stderr, "aura-demo:", err)
		os.Exit(1)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
