package echodata

import (
	"fmt"
	"time"
)

// Product identifies the calibrated quantity carried by a dataset.
type Product string

const (
	// ProductSv is volume backscattering strength.
	ProductSv Product = "Sv"
	// ProductSp is backscattering strength per single target.
	ProductSp Product = "Sp"
	// ProductSvClean is noise-corrected volume backscattering strength.
	ProductSvClean Product = "Sv_clean"
)

// RawDataset is the labelled-array form of a converted raw file:
// backscatter power in dB on a (channel, ping_time, range_bin) grid,
// plus the per-channel and per-ping metadata the processors need.
// Treated as immutable by the whole pipeline.
type RawDataset struct {
	// Backscatter power in dB relative to the instrument reference.
	Backscatter *Array3D

	// Frequency is the nominal frequency of each channel, in Hz.
	Frequency []float64

	// PingTimes labels the ping_time axis.
	PingTimes []time.Time

	// TransmitDuration is the pulse length actually transmitted, per
	// (channel, ping), in seconds.
	TransmitDuration [][]float64

	// Vendor carries the instrument's correction tables, when present.
	Vendor *CorrectionTable
}

// Validate checks internal dimension consistency.
func (d *RawDataset) Validate() error {
	if d == nil || d.Backscatter == nil {
		return fmt.Errorf("raw dataset has no backscatter array")
	}
	nc, np := d.Backscatter.Channels, d.Backscatter.Pings
	if len(d.Frequency) != nc {
		return fmt.Errorf("frequency labels %d channels, backscatter has %d", len(d.Frequency), nc)
	}
	if len(d.PingTimes) != np {
		return fmt.Errorf("ping_time labels %d pings, backscatter has %d", len(d.PingTimes), np)
	}
	if len(d.TransmitDuration) != nc {
		return fmt.Errorf("transmit_duration covers %d channels, backscatter has %d", len(d.TransmitDuration), nc)
	}
	for c, durations := range d.TransmitDuration {
		if len(durations) != np {
			return fmt.Errorf("transmit_duration channel %d covers %d pings, backscatter has %d", c, len(durations), np)
		}
	}
	return nil
}

// CalibratedDataset is the output of a calibration run: Sv or Sp in dB
// with the range-from-transducer grid attached so downstream consumers
// never recompute it. Produced fresh per call and never mutated.
type CalibratedDataset struct {
	Product   Product
	Data      *Array3D // dB
	Range     *Array3D // m, same extents as Data
	Frequency []float64
	PingTimes []time.Time
}

// MVBSDataset is the tiled aggregate product. Dimensions are
// (channel, tile_ping_index, tile_range_index); each tile is labelled by
// the first sample's ping time and range_bin index in that tile.
type MVBSDataset struct {
	Source    Product
	Data      *Array3D // dB
	Frequency []float64
	PingTimes []time.Time // first ping of each tile
	RangeBins []int       // first range_bin of each tile
}

// Session is the caller-owned working state of a processing run. The
// core never mutates it; results are assigned by the caller so the
// cached range grid and calibrated products stay explicit.
type Session struct {
	Raw     *RawDataset
	Range   *Array3D
	Sv      *CalibratedDataset
	SvClean *CalibratedDataset
	Sp      *CalibratedDataset
}
