package echodata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// rawFile is the on-disk JSON form written by the converter. Backscatter
// is nested (channel, ping, range_bin) and ping times are RFC 3339.
type rawFile struct {
	Frequency        []float64        `json:"frequency"`
	PingTimes        []string         `json:"ping_time"`
	Backscatter      [][][]float64    `json:"backscatter_r"`
	TransmitDuration [][]float64      `json:"transmit_duration_nominal"`
	Vendor           *CorrectionTable `json:"vendor,omitempty"`
}

// LoadRaw reads a converted raw dataset from a JSON file. Parsing of
// instrument raw formats happens upstream; this only adapts the
// converter's output into the in-memory labelled-array form.
func LoadRaw(path string) (*RawDataset, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("raw dataset file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read raw dataset: %w", err)
	}

	var rf rawFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse raw dataset JSON: %w", err)
	}

	ds, err := rf.toDataset()
	if err != nil {
		return nil, fmt.Errorf("invalid raw dataset %s: %w", cleanPath, err)
	}
	return ds, nil
}

func (rf *rawFile) toDataset() (*RawDataset, error) {
	nc := len(rf.Backscatter)
	if nc == 0 {
		return nil, fmt.Errorf("backscatter_r has no channels")
	}
	np := len(rf.Backscatter[0])
	if np == 0 {
		return nil, fmt.Errorf("backscatter_r has no pings")
	}
	nb := len(rf.Backscatter[0][0])
	if nb == 0 {
		return nil, fmt.Errorf("backscatter_r has no range bins")
	}

	arr := NewArray3D(nc, np, nb)
	for c, pings := range rf.Backscatter {
		if len(pings) != np {
			return nil, fmt.Errorf("channel %d has %d pings, channel 0 has %d", c, len(pings), np)
		}
		for p, bins := range pings {
			if len(bins) != nb {
				return nil, fmt.Errorf("channel %d ping %d has %d range bins, expected %d", c, p, len(bins), nb)
			}
			copy(arr.Values[arr.Index(c, p, 0):], bins)
		}
	}

	times := make([]time.Time, len(rf.PingTimes))
	for i, s := range rf.PingTimes {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("ping_time[%d]: %w", i, err)
		}
		times[i] = t
	}

	ds := &RawDataset{
		Backscatter:      arr,
		Frequency:        rf.Frequency,
		PingTimes:        times,
		TransmitDuration: rf.TransmitDuration,
		Vendor:           rf.Vendor,
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}
