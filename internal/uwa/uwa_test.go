package uwa

import "testing"

func TestSoundSpeed_TypicalOcean(t *testing.T) {
	// Standard seawater at the surface: T=10, S=35 gives ~1490 m/s.
	c := SoundSpeed(35, 10, 0)
	if c < 1485 || c > 1495 {
		t.Errorf("SoundSpeed(35,10,0) = %v, want ~1490", c)
	}

	// Surface water is slower than deep water at the same T and S.
	if c >= SoundSpeed(35, 10, 1000) {
		t.Error("sound speed should increase with depth")
	}

	// Warm water is faster than cold water.
	if SoundSpeed(35, 25, 0) <= SoundSpeed(35, 5, 0) {
		t.Error("sound speed should increase with temperature in this regime")
	}
}

func TestSeawaterAbsorption_Magnitude(t *testing.T) {
	// Published F&G values for standard seawater (T=10, S=35, shallow):
	// roughly 0.01 dB/m at 38 kHz and a few hundredths at 120 kHz.
	a38 := SeawaterAbsorption(38000, 35, 10, 10)
	if a38 < 0.004 || a38 > 0.02 {
		t.Errorf("absorption at 38 kHz = %v dB/m, want ~0.01", a38)
	}

	a120 := SeawaterAbsorption(120000, 35, 10, 10)
	if a120 <= a38 {
		t.Error("absorption should increase with frequency")
	}
	if a120 > 0.1 {
		t.Errorf("absorption at 120 kHz = %v dB/m, improbably large", a120)
	}
}

func TestSeawaterAbsorption_Positive(t *testing.T) {
	for _, freq := range []float64{18000, 38000, 70000, 120000, 200000} {
		if a := SeawaterAbsorption(freq, 34, 8, 100); a <= 0 {
			t.Errorf("absorption at %v Hz = %v, want positive", freq, a)
		}
	}
}
