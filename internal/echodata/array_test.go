package echodata

import (
	"math"
	"testing"
)

func TestArray3D_Indexing(t *testing.T) {
	a := NewArray3D(2, 3, 4)
	if len(a.Values) != 24 {
		t.Fatalf("backing slice has %d values, want 24", len(a.Values))
	}

	a.Set(1, 2, 3, 42.5)
	if got := a.At(1, 2, 3); got != 42.5 {
		t.Errorf("At(1,2,3) = %v, want 42.5", got)
	}
	// Last element of the flat slice: range_bin varies fastest.
	if got := a.Values[len(a.Values)-1]; got != 42.5 {
		t.Errorf("Values[23] = %v, want 42.5", got)
	}

	a.Set(0, 0, 0, -7)
	if got := a.Values[0]; got != -7 {
		t.Errorf("Values[0] = %v, want -7", got)
	}
}

func TestArray3D_Clone(t *testing.T) {
	a := NewArray3D(1, 2, 2)
	a.Fill(3)
	b := a.Clone()
	b.Set(0, 0, 0, 99)

	if a.At(0, 0, 0) != 3 {
		t.Errorf("clone mutation leaked into original: %v", a.At(0, 0, 0))
	}
	if !a.SameShape(b) {
		t.Error("clone should share the original's shape")
	}
}

func TestArray3D_SameShape(t *testing.T) {
	a := NewArray3D(1, 2, 3)
	if a.SameShape(NewArray3D(1, 2, 4)) {
		t.Error("different bin counts should not be same shape")
	}
	if a.SameShape(nil) {
		t.Error("nil is never same shape")
	}
}

func TestDecibelRoundTrip(t *testing.T) {
	// 10*log10(10^(x/10)) == x within floating tolerance; this is the
	// conversion every averaging path depends on.
	for _, x := range []float64{-120, -60.5, -31.21, 0, 3, 45.999} {
		got := ToDecibel(ToLinear(x))
		if math.Abs(got-x) > 1e-9 {
			t.Errorf("round trip of %v dB drifted to %v", x, got)
		}
	}
}

func TestToDecibel_NonPositive(t *testing.T) {
	if !math.IsNaN(ToDecibel(0)) {
		t.Error("ToDecibel(0) should be NaN")
	}
	if !math.IsNaN(ToDecibel(-1)) {
		t.Error("ToDecibel(-1) should be NaN")
	}
}
