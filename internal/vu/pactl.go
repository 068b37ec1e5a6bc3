package vu

import (
	"context"
	"encoding/json"
	"os/exec"
)

// pulseVolumeNorm is PA_VOLUME_NORM, the raw value for 100% channel volume.
const pulseVolumeNorm = 65536.0

// PactlProbe lists sink-inputs by shelling out to pactl. Availability is
// decided once, at construction, by locating the binary.
type PactlProbe struct {
	path string
}

// NewPactlProbe returns a probe bound to pactl if it is on PATH; otherwise an
// unavailable probe the Meter will skip.
func NewPactlProbe() *PactlProbe {
	path, err := exec.LookPath("pactl")
	if err != nil {
		return &PactlProbe{}
	}
	return &PactlProbe{path: path}
}

// Available reports whether pactl was found at construction.
func (p *PactlProbe) Available() bool { return p.path != "" }

// Outputs runs `pactl --format=json list sink-inputs` and maps each stream to
// an Output with per-channel gains relative to 100% volume.
func (p *PactlProbe) Outputs(ctx context.Context) ([]Output, error) {
	raw, err := exec.CommandContext(ctx, p.path, "--format=json", "list", "sink-inputs").Output()
	if err != nil {
		return nil, err
	}
	return parseSinkInputs(raw)
}

type sinkInput struct {
	Properties map[string]string `json:"properties"`
	Volume     map[string]struct {
		Value float64 `json:"value"`
	} `json:"volume"`
}

func parseSinkInputs(raw []byte) ([]Output, error) {
	var inputs []sinkInput
	if err := json.Unmarshal(raw, &inputs); err != nil {
		return nil, err
	}

	outputs := make([]Output, 0, len(inputs))
	for _, in := range inputs {
		gains := make([]float64, 0, len(in.Volume))
		for _, ch := range in.Volume {
			gains = append(gains, ch.Value/pulseVolumeNorm)
		}
		outputs = append(outputs, Output{
			Name:   in.Properties["application.name"],
			Binary: in.Properties["application.process.binary"],
			Gains:  gains,
		})
	}
	return outputs, nil
}
