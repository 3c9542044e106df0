package aura

import "time"

// statSampleCap bounds each rolling stat to its last 30 samples.
const statSampleCap = 30

// sampleRing is a fixed-capacity ring buffer of float64 samples.
type sampleRing struct {
	samples []float64
}

func (r *sampleRing) push(v float64) {
	r.samples = append(r.samples, v)
	if len(r.samples) > statSampleCap {
		r.samples = r.samples[len(r.samples)-statSampleCap:]
	}
}

func (r *sampleRing) average() float64 {
	if len(r.samples) == 0 {
		return 0
	}
	var sum float64
	for _, v := range r.samples {
		sum += v
	}
	return sum / float64(len(r.samples))
}

func (r *sampleRing) last() float64 {
	if len(r.samples) == 0 {
		return 0
	}
	return r.samples[len(r.samples)-1]
}

// Stats holds the renderer's rolling performance samples, read by the
// debug overlay and exposed to hosts via UpdateStats/UpdateMemoryStats.
type Stats struct {
	lastFrameTime    sampleRing
	renderTime       sampleRing
	overallFrameTime sampleRing
	bufferResetTime  sampleRing
	stdoutWriteTime  sampleRing
	cellsUpdated     sampleRing
	frameCallbackTime sampleRing
	animRequestTime   sampleRing

	heapBytes  uint64
	lastUpdate time.Time
}

func (s *Stats) recordFrame(lastFrame, render, overall, bufferReset, stdoutWrite, frameCallback, animRequest time.Duration, cells int) {
	s.lastFrameTime.push(lastFrame.Seconds() * 1000)
	s.renderTime.push(render.Seconds() * 1000)
	s.overallFrameTime.push(overall.Seconds() * 1000)
	s.bufferResetTime.push(bufferReset.Seconds() * 1000)
	s.stdoutWriteTime.push(stdoutWrite.Seconds() * 1000)
	s.frameCallbackTime.push(frameCallback.Seconds() * 1000)
	s.animRequestTime.push(animRequest.Seconds() * 1000)
	s.cellsUpdated.push(float64(cells))
}

// UpdateMemoryStats records a heap-size sample supplied by the host frame
// loop.
func (s *Stats) UpdateMemoryStats(heapBytes uint64) {
	s.heapBytes = heapBytes
	s.lastUpdate = time.Now()
}

// overlayLines renders the debug-overlay's stat lines.
func (s *Stats) overlayLines() []string {
	return []string{
		formatStat("frame", s.overallFrameTime.last(), s.overallFrameTime.average()),
		formatStat("render", s.renderTime.last(), s.renderTime.average()),
		formatStat("reset ", s.bufferResetTime.last(), s.bufferResetTime.average()),
		formatStat("stdout", s.stdoutWriteTime.last(), s.stdoutWriteTime.average()),
		formatStat("cbFn  ", s.frameCallbackTime.last(), s.frameCallbackTime.average()),
		formatStat("animRq", s.animRequestTime.last(), s.animRequestTime.average()),
		formatStat("cells ", s.cellsUpdated.last(), s.cellsUpdated.average()),
	}
}

func formatStat(label string, last, avg float64) string {
	return label + ": " + formatMillis(last) + " (avg " + formatMillis(avg) + ")"
}

func formatMillis(v float64) string {
	whole := int(v)
	frac := int((v - float64(whole)) * 10)
	if frac < 0 {
		frac = -frac
	}
	return itoa(whole) + "." + itoa(frac)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
