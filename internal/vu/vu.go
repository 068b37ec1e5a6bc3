// Package vu produces a best-effort audio level for the meter in the browser
// screen. It prefers real sink-input gains read from PulseAudio/PipeWire and
// degrades to a deterministic estimate from player volume when no probe is
// available. It is an approximation of output loudness, not signal analysis.
package vu

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// probeTimeout bounds a single probe invocation so the render loop never
	// stalls on a wedged audio daemon.
	probeTimeout = 300 * time.Millisecond

	// smoothing weights: previous level vs. new sample.
	smoothPrev   = 0.6
	smoothSample = 0.4
)

// Output describes one active system audio stream. Name and Binary are kept
// separate: with an embedded engine the process binary is the host program,
// and only the application name identifies the real producer.
type Output struct {
	Name   string    // application.name of the stream owner
	Binary string    // application.process.binary of the stream owner
	Gains  []float64 // per-channel gain, nominally in [0,1]
}

// Probe lists active audio output streams. Availability is fixed at
// construction; Outputs is only called when Available reports true.
type Probe interface {
	Available() bool
	Outputs(ctx context.Context) ([]Output, error)
}

// Meter turns probe samples or player state into a bar length. It is used
// from the interactive loop only and never returns an error: any probe
// failure falls through to the volume-based estimate.
type Meter struct {
	probe Probe
	match string
	last  int
}

// NewMeter builds a Meter that matches probe outputs whose application name
// or process binary contains "vlc" (the playback engine's sink-input).
func NewMeter(probe Probe) *Meter {
	return &Meter{probe: probe, match: "vlc"}
}

// Level returns a bar length in [0,width]. volume is the player volume in
// [0,100]; playing selects the fallback branch when the probe yields nothing.
func (m *Meter) Level(width, volume int, playing bool) int {
	if width <= 0 {
		return 0
	}

	if lvl, ok := m.probeLevel(width); ok {
		m.last = lvl
		return lvl
	}

	if !playing {
		m.last = 0
		return 0
	}
	lvl := int(math.Round(float64(clamp(volume, 0, 100)) / 100 * float64(width)))
	m.last = clamp(lvl, 0, width)
	return m.last
}

// probeLevel samples the probe and smooths against the previous level.
func (m *Meter) probeLevel(width int) (int, bool) {
	if m.probe == nil || !m.probe.Available() {
		return 0, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	outputs, err := m.probe.Outputs(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("audio level probe failed")
		return 0, false
	}

	for _, out := range outputs {
		if !m.matches(out) {
			continue
		}
		v := 0.0
		for _, g := range out.Gains {
			if g > v {
				v = g
			}
		}
		if v > 1 {
			v = 1
		}
		sample := v * float64(width)
		lvl := int(math.Round(smoothPrev*float64(m.last) + smoothSample*sample))
		return clamp(lvl, 0, width), true
	}
	return 0, false
}

// matches reports whether out belongs to the playback engine. libVLC runs
// embedded, so the sink-input's binary is this program; the application name
// still carries the engine identity and must be checked too.
func (m *Meter) matches(out Output) bool {
	return strings.Contains(strings.ToLower(out.Name), m.match) ||
		strings.Contains(strings.ToLower(out.Binary), m.match)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
