// Package process owns the sonar-data processing pipeline: the
// per-model capability dispatcher, the sonar-equation calibration
// engine producing Sv/Sp, the tiled MVBS aggregation engine, and the
// minimum-mean-power noise estimation and removal engine.
//
// All operations are synchronous, pure array-to-array transformations.
// They take immutable inputs and return new output structures; the
// caller-owned echodata.Session is updated by assignment only.
//
// Dependency rule: process may depend on echodata, uwa and config, but
// never on storage or rendering. No SQL/database code is allowed here.
package process
