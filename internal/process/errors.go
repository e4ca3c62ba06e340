package process

import "errors"

// Typed failure kinds for the processing pipeline. Every unsupported
// configuration branch fails with one of these; nothing prints a
// warning and returns a partial result. Callers detect kinds with
// errors.Is.
var (
	// ErrNotSupported reports an operation the selected sonar model
	// does not implement.
	ErrNotSupported = errors.New("operation not supported for this sonar model")

	// ErrUnsupportedProduct reports a calibration product other than Sv or Sp.
	ErrUnsupportedProduct = errors.New("unsupported calibration product")

	// ErrUnsupportedSource reports a parameter source other than
	// user-supplied values, or an unknown aggregation source.
	ErrUnsupportedSource = errors.New("unsupported source")

	// ErrUnsupportedAggregationType reports an MVBS type that is neither
	// binned nor rolling.
	ErrUnsupportedAggregationType = errors.New("unsupported aggregation type")

	// ErrInconsistentPulseLength reports a transmit pulse length that
	// varies over ping_time within a channel.
	ErrInconsistentPulseLength = errors.New("pulse length changes over time")

	// ErrMissingCorrectionData reports an absent correction table or a
	// transmitted pulse length with no table entry.
	ErrMissingCorrectionData = errors.New("sa_correction data not found")

	// ErrAmbiguousCorrectionMatch reports a transmitted pulse length that
	// matches more than one table entry within tolerance.
	ErrAmbiguousCorrectionMatch = errors.New("ambiguous sa_correction match")

	// ErrNonUniformTiling reports per-channel tile sizes that differ.
	ErrNonUniformTiling = errors.New("tile size differs across channels")

	// ErrInvalidTileSize reports a non-positive tile size or one that
	// exceeds the data extent.
	ErrInvalidTileSize = errors.New("invalid tile size")
)
