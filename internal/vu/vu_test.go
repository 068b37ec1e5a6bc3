package vu

import (
	"context"
	"errors"
	"testing"
)

type stubProbe struct {
	available bool
	outputs   []Output
	err       error
}

func (s *stubProbe) Available() bool { return s.available }

func (s *stubProbe) Outputs(context.Context) ([]Output, error) {
	return s.outputs, s.err
}

func TestLevelNoProbeNotPlaying(t *testing.T) {
	m := NewMeter(nil)
	for _, vol := range []int{0, 50, 100} {
		if got := m.Level(30, vol, false); got != 0 {
			t.Errorf("Level(vol=%d, stopped) = %d, want 0", vol, got)
		}
	}
}

func TestLevelFallbackScalesVolume(t *testing.T) {
	m := NewMeter(&stubProbe{available: false})

	tests := []struct {
		volume int
		want   int
	}{
		{0, 0},
		{50, 15},
		{100, 30},
		{70, 21},
		{150, 30}, // out-of-range volume clamps
	}
	for _, tt := range tests {
		if got := m.Level(30, tt.volume, true); got != tt.want {
			t.Errorf("Level(30, %d, playing) = %d, want %d", tt.volume, got, tt.want)
		}
	}
}

func TestLevelProbeSmoothing(t *testing.T) {
	probe := &stubProbe{
		available: true,
		outputs:   []Output{{Binary: "vlc", Gains: []float64{0.5, 1.0}}},
	}
	m := NewMeter(probe)

	// First sample from level 0: round(0.6*0 + 0.4*30) = 12.
	if got := m.Level(30, 0, true); got != 12 {
		t.Fatalf("first Level = %d, want 12", got)
	}
	// Second sample: round(0.6*12 + 0.4*30) = 19.
	if got := m.Level(30, 0, true); got != 19 {
		t.Fatalf("second Level = %d, want 19", got)
	}
}

func TestLevelProbeGainsClampToOne(t *testing.T) {
	probe := &stubProbe{
		available: true,
		outputs:   []Output{{Name: "VLC media player", Gains: []float64{1.53}}},
	}
	m := NewMeter(probe)

	if got := m.Level(10, 0, true); got != 4 { // round(0.4*10)
		t.Errorf("Level = %d, want 4", got)
	}
}

func TestLevelMatchesEmbeddedEngineByName(t *testing.T) {
	// libVLC runs in-process, so the sink-input's binary is this program and
	// only the application name identifies the engine.
	probe := &stubProbe{
		available: true,
		outputs: []Output{{
			Name:   "VLC media player (LibVLC 3.0.20)",
			Binary: "radiodigger",
			Gains:  []float64{1.0},
		}},
	}
	m := NewMeter(probe)

	if got := m.Level(30, 50, true); got != 12 { // round(0.4*30), not the volume fallback 15
		t.Errorf("Level = %d, want probe level 12", got)
	}
}

func TestLevelNoMatchingSinkFallsBack(t *testing.T) {
	probe := &stubProbe{
		available: true,
		outputs:   []Output{{Name: "Firefox", Binary: "firefox", Gains: []float64{1.0}}},
	}
	m := NewMeter(probe)

	if got := m.Level(30, 60, true); got != 18 {
		t.Errorf("Level = %d, want volume fallback 18", got)
	}
	if got := m.Level(30, 60, false); got != 0 {
		t.Errorf("Level stopped = %d, want 0", got)
	}
}

func TestLevelProbeErrorFallsBack(t *testing.T) {
	probe := &stubProbe{available: true, err: errors.New("daemon gone")}
	m := NewMeter(probe)

	if got := m.Level(30, 100, true); got != 30 {
		t.Errorf("Level = %d, want 30", got)
	}
}

func TestParseSinkInputs(t *testing.T) {
	raw := []byte(`[
		{
			"properties": {
				"application.name": "VLC media player (LibVLC 3.0.20)",
				"application.process.binary": "vlc"
			},
			"volume": {
				"front-left": {"value": 32768, "value_percent": "50%", "db": "-18.06 dB"},
				"front-right": {"value": 65536, "value_percent": "100%", "db": "0.00 dB"}
			}
		},
		{
			"properties": {"application.name": "Firefox"},
			"volume": {"mono": {"value": 65536}}
		}
	]`)

	outputs, err := parseSinkInputs(raw)
	if err != nil {
		t.Fatalf("parseSinkInputs: %v", err)
	}
	if len(outputs) != 2 {
		t.Fatalf("got %d outputs, want 2", len(outputs))
	}
	if outputs[0].Binary != "vlc" {
		t.Errorf("Binary = %q, want vlc", outputs[0].Binary)
	}
	if outputs[0].Name != "VLC media player (LibVLC 3.0.20)" {
		t.Errorf("Name = %q, want the application name preserved", outputs[0].Name)
	}
	max := 0.0
	for _, g := range outputs[0].Gains {
		if g > max {
			max = g
		}
	}
	if max != 1.0 {
		t.Errorf("max gain = %v, want 1.0", max)
	}
	if outputs[1].Name != "Firefox" || outputs[1].Binary != "" {
		t.Errorf("output = %+v, want Name Firefox with empty Binary", outputs[1])
	}
}

func TestParseSinkInputsBadJSON(t *testing.T) {
	if _, err := parseSinkInputs([]byte("pactl: command not understood")); err == nil {
		t.Fatal("expected error for non-JSON output")
	}
}
