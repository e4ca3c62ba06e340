package echodata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleRawJSON = `{
	"frequency": [38000, 120000],
	"ping_time": ["2019-07-01T12:00:00Z", "2019-07-01T12:00:01Z"],
	"backscatter_r": [
		[[-60, -62, -64], [-61, -63, -65]],
		[[-70, -72, -74], [-71, -73, -75]]
	],
	"transmit_duration_nominal": [
		[0.001024, 0.001024],
		[0.000512, 0.000512]
	],
	"vendor": {
		"channels": [
			[{"pulse_length": 0.001024, "sa_correction": -0.49}],
			[{"pulse_length": 0.000512, "sa_correction": -0.38}]
		]
	}
}`

func writeRaw(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "raw.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadRaw(t *testing.T) {
	ds, err := LoadRaw(writeRaw(t, sampleRawJSON))
	if err != nil {
		t.Fatalf("LoadRaw failed: %v", err)
	}

	if ds.Backscatter.Channels != 2 || ds.Backscatter.Pings != 2 || ds.Backscatter.Bins != 3 {
		t.Fatalf("unexpected extents %dx%dx%d", ds.Backscatter.Channels, ds.Backscatter.Pings, ds.Backscatter.Bins)
	}
	if got := ds.Backscatter.At(1, 0, 2); got != -74 {
		t.Errorf("At(1,0,2) = %v, want -74", got)
	}
	if ds.Frequency[0] != 38000 {
		t.Errorf("Frequency[0] = %v, want 38000", ds.Frequency[0])
	}
	if ds.Vendor == nil || len(ds.Vendor.Channels) != 2 {
		t.Fatal("vendor correction table should survive the load")
	}
	if ds.Vendor.Channels[1][0].SaCorrection != -0.38 {
		t.Errorf("SaCorrection = %v, want -0.38", ds.Vendor.Channels[1][0].SaCorrection)
	}
}

func TestLoadRaw_Errors(t *testing.T) {
	t.Run("wrong extension", func(t *testing.T) {
		if _, err := LoadRaw("raw.yaml"); err == nil {
			t.Error("non-JSON extension should fail")
		}
	})

	t.Run("ragged backscatter", func(t *testing.T) {
		ragged := strings.Replace(sampleRawJSON, "[-61, -63, -65]", "[-61, -63]", 1)
		if _, err := LoadRaw(writeRaw(t, ragged)); err == nil {
			t.Error("ragged backscatter should fail")
		}
	})

	t.Run("bad ping time", func(t *testing.T) {
		bad := strings.Replace(sampleRawJSON, "2019-07-01T12:00:01Z", "yesterday", 1)
		if _, err := LoadRaw(writeRaw(t, bad)); err == nil {
			t.Error("unparseable ping_time should fail")
		}
	})
}
