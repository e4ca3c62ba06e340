package echodata

import "math"

// Array3D is a dense (channel, ping_time, range_bin) grid of float64
// values backed by a flat slice. The range_bin axis varies fastest.
type Array3D struct {
	Channels int
	Pings    int
	Bins     int
	Values   []float64
}

// NewArray3D allocates a zero-filled array with the given extents.
func NewArray3D(channels, pings, bins int) *Array3D {
	return &Array3D{
		Channels: channels,
		Pings:    pings,
		Bins:     bins,
		Values:   make([]float64, channels*pings*bins),
	}
}

// Index returns the flat offset of (channel, ping, bin).
func (a *Array3D) Index(c, p, b int) int {
	return (c*a.Pings+p)*a.Bins + b
}

// At returns the value at (channel, ping, bin).
func (a *Array3D) At(c, p, b int) float64 {
	return a.Values[a.Index(c, p, b)]
}

// Set stores v at (channel, ping, bin).
func (a *Array3D) Set(c, p, b int, v float64) {
	a.Values[a.Index(c, p, b)] = v
}

// Clone returns a deep copy of the array.
func (a *Array3D) Clone() *Array3D {
	out := &Array3D{
		Channels: a.Channels,
		Pings:    a.Pings,
		Bins:     a.Bins,
		Values:   make([]float64, len(a.Values)),
	}
	copy(out.Values, a.Values)
	return out
}

// Fill sets every element to v.
func (a *Array3D) Fill(v float64) {
	for i := range a.Values {
		a.Values[i] = v
	}
}

// SameShape reports whether both arrays have identical extents.
func (a *Array3D) SameShape(o *Array3D) bool {
	return o != nil && a.Channels == o.Channels && a.Pings == o.Pings && a.Bins == o.Bins
}

// ToLinear converts a decibel value to linear power.
func ToLinear(db float64) float64 {
	return math.Pow(10, db/10)
}

// ToDecibel converts a linear power value to decibels. Non-positive
// power has no decibel representation and maps to NaN.
func ToDecibel(linear float64) float64 {
	if linear <= 0 {
		return math.NaN()
	}
	return 10 * math.Log10(linear)
}
