package process

import (
	"fmt"

	"math"

	"github.com/OceanStreamIO/echopype-dev/internal/echodata"
)

// Tolerances for matching a transmitted pulse length against the
// correction table. Logged pulse lengths carry quantization noise, so
// matching is approximate, not exact.
const (
	pulseLengthRTol = 1e-5
	pulseLengthATol = 1e-8
)

func pulseLengthClose(a, b float64) bool {
	return math.Abs(a-b) <= pulseLengthATol+pulseLengthRTol*math.Abs(b)
}

// SaCorrection resolves the per-channel (pulse_length, sa_correction)
// tables from the instrument metadata against the pulse length actually
// transmitted, returning one scalar per channel.
//
// The transmitted pulse length must be constant over ping_time within a
// channel; the resolver is not well-defined otherwise.
func (p *EKProcessor) SaCorrection(raw *echodata.RawDataset) ([]float64, error) {
	if err := raw.Validate(); err != nil {
		return nil, err
	}
	if raw.Vendor == nil || len(raw.Vendor.Channels) == 0 {
		return nil, fmt.Errorf("instrument metadata carries no correction table: %w", ErrMissingCorrectionData)
	}
	nc := raw.Backscatter.Channels
	if len(raw.Vendor.Channels) != nc {
		return nil, fmt.Errorf("correction table covers %d channels, raw has %d: %w",
			len(raw.Vendor.Channels), nc, ErrMissingCorrectionData)
	}

	out := make([]float64, nc)
	for c := 0; c < nc; c++ {
		durations := raw.TransmitDuration[c]
		pulse := durations[0]
		for pp, d := range durations {
			if d != pulse {
				return nil, fmt.Errorf("channel %d ping %d transmitted %g s, ping 0 transmitted %g s: %w",
					c, pp, d, pulse, ErrInconsistentPulseLength)
			}
		}

		table := raw.Vendor.Channels[c]
		if len(table) == 0 {
			return nil, fmt.Errorf("channel %d has an empty correction table: %w", c, ErrMissingCorrectionData)
		}

		matches := 0
		for _, pair := range table {
			if pulseLengthClose(pulse, pair.PulseLength) {
				out[c] = pair.SaCorrection
				matches++
			}
		}
		switch {
		case matches == 0:
			return nil, fmt.Errorf("channel %d: no table entry for pulse length %g s: %w",
				c, pulse, ErrMissingCorrectionData)
		case matches > 1:
			return nil, fmt.Errorf("channel %d: %d table entries match pulse length %g s: %w",
				c, matches, pulse, ErrAmbiguousCorrectionMatch)
		}
	}
	return out, nil
}
