// Package echodata owns the labelled-array data model shared by the
// processing pipeline: raw backscatter datasets, environment and
// calibration parameters, calibrated Sv/Sp products and tiled MVBS
// products.
//
// All arrays are dense (channel, ping_time, range_bin) grids backed by a
// flat float64 slice. NaN is the padding / "below noise" sentinel.
//
// Dependency rule: echodata is a leaf package. No SQL, no HTTP, no
// processing math beyond dB/linear conversion is allowed here.
package echodata
