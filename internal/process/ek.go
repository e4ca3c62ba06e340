package process

import (
	"fmt"
	"math"

	"github.com/OceanStreamIO/echopype-dev/internal/echodata"
)

// EKProcessor implements narrowband calibration for Simrad EK60/EK80
// echosounders.
type EKProcessor struct {
	baseProcessor
}

// SampleThickness returns c * sample_interval / 2 per channel. It
// varies by channel because the sample interval is channel-specific.
func (p *EKProcessor) SampleThickness(env *echodata.EnvironmentParameters, cal echodata.CalibrationParameters) ([]float64, error) {
	if err := env.ValidateDerived(len(cal)); err != nil {
		return nil, err
	}
	thickness := make([]float64, len(cal))
	for i, ch := range cal {
		thickness[i] = *env.SpeedOfSound * ch.SampleInterval / 2
	}
	return thickness, nil
}

// Range computes the range-from-transducer grid:
//
//	range = range_bin * sample_thickness - transmit_duration_nominal * c / 4
//
// clamped to be non-negative. The grid is constant over ping_time for a
// channel but carried on the full (channel, ping, range_bin) extents so
// calibrated outputs stay dimension-consistent with the raw power.
func (p *EKProcessor) Range(raw *echodata.RawDataset, env *echodata.EnvironmentParameters, cal echodata.CalibrationParameters) (*echodata.Array3D, error) {
	if err := raw.Validate(); err != nil {
		return nil, err
	}
	thickness, err := p.SampleThickness(env, cal)
	if err != nil {
		return nil, err
	}
	if len(cal) != raw.Backscatter.Channels {
		return nil, fmt.Errorf("calibration parameters for %d channels, raw has %d: %w",
			len(cal), raw.Backscatter.Channels, echodata.ErrMissingParameter)
	}

	arr := echodata.NewArray3D(raw.Backscatter.Channels, raw.Backscatter.Pings, raw.Backscatter.Bins)
	for c := 0; c < arr.Channels; c++ {
		offset := cal[c].TransmitDurationNominal * *env.SpeedOfSound / 4
		for b := 0; b < arr.Bins; b++ {
			r := float64(b)*thickness[c] - offset
			if r < 0 {
				r = 0
			}
			for pp := 0; pp < arr.Pings; pp++ {
				arr.Set(c, pp, b, r)
			}
		}
	}
	return arr, nil
}

// Calibrate applies the narrowband sonar equation and returns a new
// calibrated dataset with the range grid attached. Passing a cached
// range grid guarantees Sv and Sp share identical ranges; a nil grid is
// derived here.
func (p *EKProcessor) Calibrate(raw *echodata.RawDataset, rng *echodata.Array3D, env *echodata.EnvironmentParameters, cal echodata.CalibrationParameters, product echodata.Product) (*echodata.CalibratedDataset, error) {
	if product != echodata.ProductSv && product != echodata.ProductSp {
		return nil, fmt.Errorf("product %q: %w", product, ErrUnsupportedProduct)
	}
	if err := raw.Validate(); err != nil {
		return nil, err
	}
	nc := raw.Backscatter.Channels
	if err := env.ValidateDerived(nc); err != nil {
		return nil, err
	}
	if err := cal.Validate(nc); err != nil {
		return nil, err
	}
	if rng == nil {
		var err error
		rng, err = p.Range(raw, env, cal)
		if err != nil {
			return nil, err
		}
	}
	if !raw.Backscatter.SameShape(rng) {
		return nil, fmt.Errorf("range grid extents do not match backscatter")
	}

	c0 := *env.SpeedOfSound
	out := echodata.NewArray3D(nc, raw.Backscatter.Pings, raw.Backscatter.Bins)
	for c := 0; c < nc; c++ {
		wavelength := c0 / raw.Frequency[c]
		alpha := env.SeawaterAbsorption[c]

		// Per-channel gain term of the sonar equation.
		var gain float64
		switch product {
		case echodata.ProductSv:
			gain = 10*math.Log10(cal[c].TransmitPower) +
				2*cal[c].GainCorrection +
				cal[c].EquivalentBeamAngle +
				10*math.Log10(wavelength*wavelength*cal[c].TransmitDurationNominal*c0/(32*math.Pi*math.Pi))
		case echodata.ProductSp:
			gain = 10*math.Log10(cal[c].TransmitPower) +
				2*cal[c].GainCorrection +
				10*math.Log10(wavelength*wavelength/(16*math.Pi*math.Pi))
		}

		for pp := 0; pp < out.Pings; pp++ {
			for b := 0; b < out.Bins; b++ {
				r := rng.At(c, pp, b)
				// Clamp so near-zero range never yields -inf spreading loss.
				spreading := 20 * math.Log10(math.Max(r, 1))
				absorption := 2 * alpha * r
				power := raw.Backscatter.At(c, pp, b)

				var v float64
				switch product {
				case echodata.ProductSv:
					v = power + spreading + absorption - gain - 2*cal[c].SaCorrection
				case echodata.ProductSp:
					v = power + 2*spreading + absorption - gain
				}
				out.Set(c, pp, b, v)
			}
		}
	}

	return &echodata.CalibratedDataset{
		Product:   product,
		Data:      out,
		Range:     rng,
		Frequency: raw.Frequency,
		PingTimes: raw.PingTimes,
	}, nil
}
