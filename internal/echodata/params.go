package echodata

import (
	"errors"
	"fmt"
)

// ErrMissingParameter reports a required environment or calibration key
// that was not supplied. Callers detect it with errors.Is.
var ErrMissingParameter = errors.New("required parameter missing")

// EnvironmentParameters holds the water-column properties used by the
// calibration engine. Pointer fields distinguish "not supplied" from a
// legitimate zero value; absence of a required field is a hard failure,
// never a default.
type EnvironmentParameters struct {
	WaterSalinity    *float64 `json:"water_salinity,omitempty"`    // PSU
	WaterTemperature *float64 `json:"water_temperature,omitempty"` // degrees C
	WaterPressure    *float64 `json:"water_pressure,omitempty"`    // dbar

	// Derived quantities, populated by the processor before calibration.
	SpeedOfSound       *float64  `json:"speed_of_sound_in_water,omitempty"` // m/s
	SeawaterAbsorption []float64 `json:"seawater_absorption,omitempty"`    // dB/m, per channel
}

// Validate checks that the raw water-column keys are present.
func (e *EnvironmentParameters) Validate() error {
	if e == nil {
		return fmt.Errorf("environment parameters: %w", ErrMissingParameter)
	}
	if e.WaterSalinity == nil {
		return fmt.Errorf("water_salinity: %w", ErrMissingParameter)
	}
	if e.WaterTemperature == nil {
		return fmt.Errorf("water_temperature: %w", ErrMissingParameter)
	}
	if e.WaterPressure == nil {
		return fmt.Errorf("water_pressure: %w", ErrMissingParameter)
	}
	return nil
}

// ValidateDerived checks that the derived quantities have been computed
// for the given channel count. Calibration must not start without them.
func (e *EnvironmentParameters) ValidateDerived(channels int) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if e.SpeedOfSound == nil {
		return fmt.Errorf("speed_of_sound_in_water: %w", ErrMissingParameter)
	}
	if len(e.SeawaterAbsorption) != channels {
		return fmt.Errorf("seawater_absorption for %d channels (have %d): %w",
			channels, len(e.SeawaterAbsorption), ErrMissingParameter)
	}
	return nil
}

// ChannelCalibration holds the per-channel instrument constants used by
// the sonar equation.
type ChannelCalibration struct {
	TransmitPower           float64 `json:"transmit_power"`            // W
	GainCorrection          float64 `json:"gain_correction"`           // dB
	EquivalentBeamAngle     float64 `json:"equivalent_beam_angle"`     // dB
	TransmitDurationNominal float64 `json:"transmit_duration_nominal"` // s
	SaCorrection            float64 `json:"sa_correction"`             // dB
	SampleInterval          float64 `json:"sample_interval"`           // s
}

// CalibrationParameters is channel-indexed and must align one-to-one
// with the raw dataset's channels.
type CalibrationParameters []ChannelCalibration

// Validate checks channel alignment and basic physical sanity.
func (c CalibrationParameters) Validate(channels int) error {
	if len(c) != channels {
		return fmt.Errorf("calibration parameters for %d channels (have %d): %w",
			channels, len(c), ErrMissingParameter)
	}
	for i, ch := range c {
		if ch.TransmitPower <= 0 {
			return fmt.Errorf("channel %d: transmit_power must be positive, got %g", i, ch.TransmitPower)
		}
		if ch.SampleInterval <= 0 {
			return fmt.Errorf("channel %d: sample_interval must be positive, got %g", i, ch.SampleInterval)
		}
		if ch.TransmitDurationNominal <= 0 {
			return fmt.Errorf("channel %d: transmit_duration_nominal must be positive, got %g", i, ch.TransmitDurationNominal)
		}
	}
	return nil
}

// CorrectionPair is one row of the instrument's configuration log: the
// sa correction recorded for one transmit pulse length.
type CorrectionPair struct {
	PulseLength  float64 `json:"pulse_length"`  // s
	SaCorrection float64 `json:"sa_correction"` // dB
}

// CorrectionTable holds the per-channel (pulse_length, sa_correction)
// tables read from the instrument metadata. Read-only reference data.
type CorrectionTable struct {
	Channels [][]CorrectionPair `json:"channels"`
}
