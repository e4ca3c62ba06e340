package uwa

import "math"

// seawaterPH is the nominal ocean pH used by the absorption formula.
const seawaterPH = 8.1

// SoundSpeed returns the speed of sound in seawater in m/s using the
// Mackenzie (1981) nine-term equation.
//
// salinity in PSU, temperature in degrees C, pressure in dbar (depth in
// metres is a close stand-in at these accuracies).
func SoundSpeed(salinity, temperature, pressure float64) float64 {
	t := temperature
	s := salinity
	d := pressure
	return 1448.96 +
		4.591*t -
		5.304e-2*t*t +
		2.374e-4*t*t*t +
		1.340*(s-35) +
		1.630e-2*d +
		1.675e-7*d*d -
		1.025e-2*t*(s-35) -
		7.139e-13*t*d*d*d
}

// SeawaterAbsorption returns the absorption coefficient in dB/m for the
// given acoustic frequency in Hz, using Francois & Garrison (1982).
// The formula sums boric acid, magnesium sulphate and pure water
// relaxation contributions.
func SeawaterAbsorption(freqHz, salinity, temperature, pressure float64) float64 {
	f := freqHz / 1000 // kHz
	t := temperature
	s := salinity
	d := pressure
	theta := 273 + t
	c := 1412 + 3.21*t + 1.19*s + 0.0167*d

	// Boric acid contribution
	a1 := 8.86 / c * math.Pow(10, 0.78*seawaterPH-5)
	p1 := 1.0
	f1 := 2.8 * math.Sqrt(s/35) * math.Pow(10, 4-1245/theta)

	// Magnesium sulphate contribution
	a2 := 21.44 * s / c * (1 + 0.025*t)
	p2 := 1 - 1.37e-4*d + 6.2e-9*d*d
	f2 := 8.17 * math.Pow(10, 8-1990/theta) / (1 + 0.0018*(s-35))

	// Pure water contribution
	var a3 float64
	if t <= 20 {
		a3 = 4.937e-4 - 2.59e-5*t + 9.11e-7*t*t - 1.50e-8*t*t*t
	} else {
		a3 = 3.964e-4 - 1.146e-5*t + 1.45e-7*t*t - 6.5e-10*t*t*t
	}
	p3 := 1 - 3.83e-5*d + 4.9e-10*d*d

	f2sq := f * f
	alpha := a1*p1*f1*f2sq/(f1*f1+f2sq) +
		a2*p2*f2*f2sq/(f2*f2+f2sq) +
		a3*p3*f2sq

	return alpha / 1000 // dB/km -> dB/m
}
