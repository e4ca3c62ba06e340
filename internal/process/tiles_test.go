package process

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/OceanStreamIO/echopype-dev/internal/config"
	"github.com/OceanStreamIO/echopype-dev/internal/echodata"
)

func s(v string) *string { return &v }
func n(v int) *int       { return &v }

func calibratedFrom(values [][]float64) *echodata.CalibratedDataset {
	pings := len(values)
	bins := len(values[0])
	data := echodata.NewArray3D(1, pings, bins)
	for p, row := range values {
		for b, v := range row {
			data.Set(0, p, b, v)
		}
	}
	times := make([]time.Time, pings)
	base := time.Date(2019, 7, 1, 12, 0, 0, 0, time.UTC)
	for p := range times {
		times[p] = base.Add(time.Duration(p) * time.Second)
	}
	return &echodata.CalibratedDataset{
		Product:   echodata.ProductSv,
		Data:      data,
		Frequency: []float64{38000},
		PingTimes: times,
	}
}

func mvbsConfig(pingNum, rangeBinNum int) *config.ProcessingConfig {
	return &config.ProcessingConfig{
		MVBSPingNum:     n(pingNum),
		MVBSRangeBinNum: n(rangeBinNum),
	}
}

// linearMean is the reference reduction: dB to linear power, arithmetic
// mean, back to dB.
func linearMean(values ...float64) float64 {
	var sum float64
	for _, v := range values {
		sum += math.Pow(10, v/10)
	}
	return 10 * math.Log10(sum/float64(len(values)))
}

func TestMVBS_LinearDomainMean(t *testing.T) {
	ek := newEK(t)
	src := calibratedFrom([][]float64{
		{-60, -62, -70, -72},
		{-61, -63, -71, -73},
		{-80, -82, -90, -92},
		{-81, -83, -91, -93},
	})

	got, err := ek.MVBS(src, mvbsConfig(2, 2))
	if err != nil {
		t.Fatal(err)
	}
	if got.Data.Pings != 2 || got.Data.Bins != 2 {
		t.Fatalf("tile extents = %dx%d, want 2x2", got.Data.Pings, got.Data.Bins)
	}

	want := [2][2]float64{
		{linearMean(-60, -62, -61, -63), linearMean(-70, -72, -71, -73)},
		{linearMean(-80, -82, -81, -83), linearMean(-90, -92, -91, -93)},
	}
	for tp := 0; tp < 2; tp++ {
		for tb := 0; tb < 2; tb++ {
			if diff := math.Abs(got.Data.At(0, tp, tb) - want[tp][tb]); diff > 1e-12 {
				t.Errorf("tile (%d,%d) = %v, want %v", tp, tb, got.Data.At(0, tp, tb), want[tp][tb])
			}
		}
	}

	// The linear-domain mean must differ from the naive dB mean whenever
	// the tile values differ.
	naive := (-60.0 - 62 - 61 - 63) / 4
	if math.Abs(got.Data.At(0, 0, 0)-naive) < 1e-9 {
		t.Error("MVBS equals the arithmetic dB mean; averaging must happen in linear domain")
	}

	if got.Source != echodata.ProductSv {
		t.Errorf("source = %v, want Sv", got.Source)
	}
	if !got.PingTimes[1].Equal(src.PingTimes[2]) {
		t.Error("tile ping_time must be the first ping of the tile")
	}
	if got.RangeBins[1] != 2 {
		t.Errorf("tile range_bin = %d, want 2", got.RangeBins[1])
	}
}

func TestMVBS_PaddingExcludedFromMean(t *testing.T) {
	// 3 pings with 2-ping tiles: the final tile holds one real ping and
	// its mean must equal that ping, not a padded average.
	ek := newEK(t)
	src := calibratedFrom([][]float64{
		{-60, -60},
		{-60, -60},
		{-90, -90},
	})

	got, err := ek.MVBS(src, mvbsConfig(2, 2))
	if err != nil {
		t.Fatal(err)
	}
	if got.Data.Pings != 2 {
		t.Fatalf("ping tiles = %d, want 2", got.Data.Pings)
	}
	if v := got.Data.At(0, 1, 0); math.Abs(v-(-90)) > 1e-12 {
		t.Errorf("padded tile mean = %v, want -90", v)
	}
}

func TestMVBS_NaNExcludedFromMean(t *testing.T) {
	ek := newEK(t)
	src := calibratedFrom([][]float64{
		{-60, math.NaN()},
		{math.NaN(), math.NaN()},
	})

	got, err := ek.MVBS(src, mvbsConfig(2, 2))
	if err != nil {
		t.Fatal(err)
	}
	if v := got.Data.At(0, 0, 0); math.Abs(v-(-60)) > 1e-12 {
		t.Errorf("mean with NaN samples = %v, want -60", v)
	}

	allNaN := calibratedFrom([][]float64{
		{math.NaN(), math.NaN()},
		{math.NaN(), math.NaN()},
	})
	got, err = ek.MVBS(allNaN, mvbsConfig(2, 2))
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(got.Data.At(0, 0, 0)) {
		t.Error("all-NaN tile must yield NaN, not a number")
	}
}

func TestMVBS_PerChannelTileSizes(t *testing.T) {
	ek := newEK(t)
	src := calibratedFrom([][]float64{
		{-60, -62, -70, -72},
		{-61, -63, -71, -73},
	})

	t.Run("uniform sizes accepted", func(t *testing.T) {
		cfg := &config.ProcessingConfig{
			MVBSPingNum:      n(2),
			MVBSRangeBinNums: []int{2},
		}
		got, err := ek.MVBS(src, cfg)
		if err != nil {
			t.Fatal(err)
		}
		if got.Data.Bins != 2 {
			t.Errorf("range tiles = %d, want 2", got.Data.Bins)
		}
	})

	t.Run("non-uniform sizes rejected", func(t *testing.T) {
		twoCh := &echodata.CalibratedDataset{
			Product:   echodata.ProductSv,
			Data:      echodata.NewArray3D(2, 2, 4),
			Frequency: []float64{38000, 120000},
		}
		cfg := &config.ProcessingConfig{
			MVBSPingNum:      n(2),
			MVBSRangeBinNums: []int{2, 4},
		}
		_, err := ek.MVBS(twoCh, cfg)
		if !errors.Is(err, ErrNonUniformTiling) {
			t.Errorf("got %v, want ErrNonUniformTiling", err)
		}
	})
}

func TestMVBS_UnsupportedVariants(t *testing.T) {
	ek := newEK(t)
	src := calibratedFrom([][]float64{{-60, -60}, {-60, -60}})

	cases := []struct {
		name string
		cfg  *config.ProcessingConfig
		want error
	}{
		{"rolling", &config.ProcessingConfig{MVBSType: s("rolling"), MVBSPingNum: n(2), MVBSRangeBinNum: n(2)}, ErrNotSupported},
		{"time interval", &config.ProcessingConfig{MVBSTimeInterval: s("5min"), MVBSRangeBinNum: n(2)}, ErrNotSupported},
		{"distance interval", &config.ProcessingConfig{MVBSPingNum: n(2), MVBSDistanceInterval: s("1nmi")}, ErrNotSupported},
		{"range interval", &config.ProcessingConfig{MVBSPingNum: n(2), MVBSRangeInterval: s("10m")}, ErrNotSupported},
		{"unknown type", &config.ProcessingConfig{MVBSType: s("interval"), MVBSPingNum: n(2), MVBSRangeBinNum: n(2)}, ErrUnsupportedAggregationType},
		{"missing ping size", &config.ProcessingConfig{MVBSRangeBinNum: n(2)}, ErrInvalidTileSize},
		{"missing range size", &config.ProcessingConfig{MVBSPingNum: n(2)}, ErrInvalidTileSize},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ek.MVBS(src, tc.cfg)
			if !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestAggregationSource(t *testing.T) {
	sv := calibratedFrom([][]float64{{-60}})
	sess := &echodata.Session{Sv: sv}

	got, err := AggregationSource(sess, "Sv")
	if err != nil {
		t.Fatal(err)
	}
	if got != sv {
		t.Error("Sv selector must return the session's Sv dataset")
	}

	if _, err := AggregationSource(sess, "Sv_clean"); err == nil {
		t.Error("uncomputed Sv_clean must fail")
	}
	if _, err := AggregationSource(sess, "mvbs"); !errors.Is(err, ErrUnsupportedSource) {
		t.Errorf("got %v, want ErrUnsupportedSource", err)
	}
}
