// Package uwa provides underwater-acoustics environmental formulas:
// sound speed after Mackenzie (1981) and seawater absorption after
// Francois & Garrison (1982).
//
// The processing core treats these as trusted kernels; it validates
// that the inputs are present but not the physics.
package uwa
