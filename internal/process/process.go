package process

import (
	"fmt"

	"github.com/OceanStreamIO/echopype-dev/internal/config"
	"github.com/OceanStreamIO/echopype-dev/internal/echodata"
	"github.com/OceanStreamIO/echopype-dev/internal/uwa"
)

// SonarModel enumerates the supported instrument families. New families
// are added as new variants of this closed enum, each with its own
// Processor implementation.
type SonarModel int

const (
	EK60 SonarModel = iota
	EK80
	AZFP
)

func (m SonarModel) String() string {
	switch m {
	case EK60:
		return "EK60"
	case EK80:
		return "EK80"
	case AZFP:
		return "AZFP"
	default:
		return fmt.Sprintf("SonarModel(%d)", int(m))
	}
}

// ParseSonarModel maps a model name to its enum variant.
func ParseSonarModel(name string) (SonarModel, error) {
	switch name {
	case "EK60", "ek60":
		return EK60, nil
	case "EK80", "ek80":
		return EK80, nil
	case "AZFP", "azfp":
		return AZFP, nil
	default:
		return 0, fmt.Errorf("unknown sonar model %q", name)
	}
}

// Source selects where environment or calibration values come from.
type Source string

const (
	// SourceUser means caller-supplied parameter values.
	SourceUser Source = "user"
	// SourceFile means values stored in the raw file. Reading them is a
	// passthrough to stored metadata and lives outside this core.
	SourceFile Source = "file"
)

// Processor is the per-model processing capability. Model-specific math
// (sample thickness, range, the sonar equation) is dispatched through
// it; aggregation and noise removal are shared across models.
type Processor interface {
	Model() SonarModel

	// SoundSpeed computes the speed of sound in water from the raw
	// environment parameters, in m/s.
	SoundSpeed(env *echodata.EnvironmentParameters, src Source) (float64, error)

	// SeawaterAbsorption computes the per-channel absorption
	// coefficient, in dB/m.
	SeawaterAbsorption(env *echodata.EnvironmentParameters, freqHz []float64, src Source) ([]float64, error)

	// SampleThickness computes the physical thickness of one range
	// sample per channel, in m.
	SampleThickness(env *echodata.EnvironmentParameters, cal echodata.CalibrationParameters) ([]float64, error)

	// Range computes the range-from-transducer grid, in m. Computed once
	// per session and cached by the caller so Sv and Sp share one grid.
	Range(raw *echodata.RawDataset, env *echodata.EnvironmentParameters, cal echodata.CalibrationParameters) (*echodata.Array3D, error)

	// SaCorrection resolves the pulse-length-keyed correction table
	// against the pulse length actually transmitted, one value per channel.
	SaCorrection(raw *echodata.RawDataset) ([]float64, error)

	// Calibrate applies the sonar equation and returns a new calibrated
	// dataset carrying the range grid. rng may be a cached result of
	// Range; when nil the grid is derived internally.
	Calibrate(raw *echodata.RawDataset, rng *echodata.Array3D, env *echodata.EnvironmentParameters, cal echodata.CalibrationParameters, product echodata.Product) (*echodata.CalibratedDataset, error)

	// MVBS computes the tiled mean volume backscattering strength.
	MVBS(src *echodata.CalibratedDataset, cfg *config.ProcessingConfig) (*echodata.MVBSDataset, error)

	// NoiseEstimates computes the per-channel, per-range-column noise
	// floor from minimum mean calibrated power per tile.
	NoiseEstimates(src *echodata.CalibratedDataset, env *echodata.EnvironmentParameters, cfg *config.ProcessingConfig) (*NoiseEstimate, error)

	// RemoveNoise subtracts the estimated noise floor from a calibrated
	// dataset, never amplifying signal.
	RemoveNoise(src *echodata.CalibratedDataset, est *NoiseEstimate, env *echodata.EnvironmentParameters) (*echodata.CalibratedDataset, error)
}

// New returns the Processor variant for the given sonar model.
func New(model SonarModel) (Processor, error) {
	switch model {
	case EK60, EK80:
		return &EKProcessor{baseProcessor{model: model}}, nil
	case AZFP:
		// Calibration for AZFP is not implemented yet; the base variant
		// fails each model-specific operation with ErrNotSupported.
		return &baseProcessor{model: model}, nil
	default:
		return nil, fmt.Errorf("unknown sonar model %v", model)
	}
}

// baseProcessor implements the model-independent operations and fails
// the model-specific ones with typed errors so callers can detect
// unsupported combinations programmatically.
type baseProcessor struct {
	model SonarModel
}

func (p *baseProcessor) Model() SonarModel { return p.model }

func (p *baseProcessor) SoundSpeed(env *echodata.EnvironmentParameters, src Source) (float64, error) {
	if src != SourceUser {
		return 0, fmt.Errorf("sound speed source %q: %w", src, ErrUnsupportedSource)
	}
	if err := env.Validate(); err != nil {
		return 0, err
	}
	return uwa.SoundSpeed(*env.WaterSalinity, *env.WaterTemperature, *env.WaterPressure), nil
}

func (p *baseProcessor) SeawaterAbsorption(env *echodata.EnvironmentParameters, freqHz []float64, src Source) ([]float64, error) {
	if src != SourceUser {
		return nil, fmt.Errorf("seawater absorption source %q: %w", src, ErrUnsupportedSource)
	}
	if err := env.Validate(); err != nil {
		return nil, err
	}
	absorption := make([]float64, len(freqHz))
	for i, f := range freqHz {
		absorption[i] = uwa.SeawaterAbsorption(f, *env.WaterSalinity, *env.WaterTemperature, *env.WaterPressure)
	}
	return absorption, nil
}

func (p *baseProcessor) SampleThickness(*echodata.EnvironmentParameters, echodata.CalibrationParameters) ([]float64, error) {
	return nil, fmt.Errorf("sample thickness for %v: %w", p.model, ErrNotSupported)
}

func (p *baseProcessor) Range(*echodata.RawDataset, *echodata.EnvironmentParameters, echodata.CalibrationParameters) (*echodata.Array3D, error) {
	return nil, fmt.Errorf("range for %v: %w", p.model, ErrNotSupported)
}

func (p *baseProcessor) SaCorrection(*echodata.RawDataset) ([]float64, error) {
	return nil, fmt.Errorf("sa_correction for %v: %w", p.model, ErrNotSupported)
}

func (p *baseProcessor) Calibrate(_ *echodata.RawDataset, _ *echodata.Array3D, _ *echodata.EnvironmentParameters, _ echodata.CalibrationParameters, product echodata.Product) (*echodata.CalibratedDataset, error) {
	if product != echodata.ProductSv && product != echodata.ProductSp {
		return nil, fmt.Errorf("product %q: %w", product, ErrUnsupportedProduct)
	}
	return nil, fmt.Errorf("calibration for %v: %w", p.model, ErrNotSupported)
}

// AggregationSource resolves the MVBS source selector against the
// session's calibrated products through an explicit lookup, one entry
// per recognized selector.
func AggregationSource(sess *echodata.Session, source string) (*echodata.CalibratedDataset, error) {
	lookup := map[string]*echodata.CalibratedDataset{
		"Sv":       sess.Sv,
		"Sv_clean": sess.SvClean,
	}
	ds, ok := lookup[source]
	if !ok {
		return nil, fmt.Errorf("MVBS_source must be Sv or Sv_clean, got %q: %w", source, ErrUnsupportedSource)
	}
	if ds == nil {
		return nil, fmt.Errorf("MVBS_source %q has not been computed for this session", source)
	}
	return ds, nil
}
