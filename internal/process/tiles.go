package process

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/OceanStreamIO/echopype-dev/internal/config"
	"github.com/OceanStreamIO/echopype-dev/internal/echodata"
)

// tileParams resolves the tile extents from the processing config.
// Interval-based variants are recognized extension points that fail
// with ErrNotSupported instead of silently returning nothing.
func tileParams(channels int, cfg *config.ProcessingConfig) (pingsPerTile, rangeBinsPerTile int, err error) {
	switch {
	case cfg.MVBSTimeInterval != nil:
		return 0, 0, fmt.Errorf("averaging by time interval: %w", ErrNotSupported)
	case cfg.MVBSPingNum != nil:
		pingsPerTile = *cfg.MVBSPingNum
	default:
		return 0, 0, fmt.Errorf("no ping tile size provided: %w", ErrInvalidTileSize)
	}

	switch {
	case cfg.MVBSDistanceInterval != nil:
		return 0, 0, fmt.Errorf("averaging by distance interval: %w", ErrNotSupported)
	case cfg.MVBSRangeInterval != nil:
		return 0, 0, fmt.Errorf("averaging by range interval: %w", ErrNotSupported)
	case len(cfg.MVBSRangeBinNums) > 0:
		// Per-channel tile sizing is only accepted when every channel
		// agrees; non-uniform tiling must fail fast.
		sizes := cfg.MVBSRangeBinNums
		if len(sizes) != 1 && len(sizes) != channels {
			return 0, 0, fmt.Errorf("mvbs_range_bin_nums covers %d channels, data has %d: %w",
				len(sizes), channels, ErrNonUniformTiling)
		}
		for _, n := range sizes {
			if n != sizes[0] {
				return 0, 0, fmt.Errorf("per-channel range_bin tile sizes %v: %w", sizes, ErrNonUniformTiling)
			}
		}
		rangeBinsPerTile = sizes[0]
	case cfg.MVBSRangeBinNum != nil:
		rangeBinsPerTile = *cfg.MVBSRangeBinNum
	default:
		return 0, 0, fmt.Errorf("no range_bin tile size provided: %w", ErrInvalidTileSize)
	}

	if pingsPerTile <= 0 || rangeBinsPerTile <= 0 {
		return 0, 0, fmt.Errorf("tile size %dx%d: %w", pingsPerTile, rangeBinsPerTile, ErrInvalidTileSize)
	}
	return pingsPerTile, rangeBinsPerTile, nil
}

// tileMeanLinear averages one tile of dB values in linear power domain.
// NaN samples (padding beyond the data extent or below-noise markers)
// are excluded from the mean, not treated as zero. An all-NaN tile has
// no mean and yields NaN.
func tileMeanLinear(data *echodata.Array3D, c, p0, p1, b0, b1 int) float64 {
	values := make([]float64, 0, (p1-p0)*(b1-b0))
	for pp := p0; pp < p1; pp++ {
		for b := b0; b < b1; b++ {
			v := data.At(c, pp, b)
			if math.IsNaN(v) {
				continue
			}
			values = append(values, echodata.ToLinear(v))
		}
	}
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}

// MVBS partitions the ping_time and range_bin axes into uniform tiles,
// averages calibrated power within each tile in linear domain, and
// converts back to dB. When an axis length is not an exact multiple of
// the tile size the final tile is padded, with padding excluded from
// the mean, rather than dropped.
func (p *baseProcessor) MVBS(src *echodata.CalibratedDataset, cfg *config.ProcessingConfig) (*echodata.MVBSDataset, error) {
	if src == nil || src.Data == nil {
		return nil, fmt.Errorf("MVBS source dataset is empty")
	}

	switch cfg.GetMVBSType() {
	case "binned":
	case "rolling":
		return nil, fmt.Errorf("rolling MVBS: %w", ErrNotSupported)
	default:
		return nil, fmt.Errorf("MVBS_type must be binned or rolling, got %q: %w",
			cfg.GetMVBSType(), ErrUnsupportedAggregationType)
	}

	pingsPerTile, rangeBinsPerTile, err := tileParams(src.Data.Channels, cfg)
	if err != nil {
		return nil, err
	}

	data := src.Data
	nPingTiles := (data.Pings + pingsPerTile - 1) / pingsPerTile
	nRangeTiles := (data.Bins + rangeBinsPerTile - 1) / rangeBinsPerTile

	out := echodata.NewArray3D(data.Channels, nPingTiles, nRangeTiles)
	for c := 0; c < data.Channels; c++ {
		for tp := 0; tp < nPingTiles; tp++ {
			p0 := tp * pingsPerTile
			p1 := min(p0+pingsPerTile, data.Pings)
			for tb := 0; tb < nRangeTiles; tb++ {
				b0 := tb * rangeBinsPerTile
				b1 := min(b0+rangeBinsPerTile, data.Bins)
				out.Set(c, tp, tb, echodata.ToDecibel(tileMeanLinear(data, c, p0, p1, b0, b1)))
			}
		}
	}

	// Tile coordinates are the first sample's labels, not the midpoint.
	pingTimes := make([]time.Time, nPingTiles)
	if len(src.PingTimes) == data.Pings {
		for tp := 0; tp < nPingTiles; tp++ {
			pingTimes[tp] = src.PingTimes[tp*pingsPerTile]
		}
	}
	rangeBins := make([]int, nRangeTiles)
	for tb := 0; tb < nRangeTiles; tb++ {
		rangeBins[tb] = tb * rangeBinsPerTile
	}

	return &echodata.MVBSDataset{
		Source:    src.Product,
		Data:      out,
		Frequency: src.Frequency,
		PingTimes: pingTimes,
		RangeBins: rangeBins,
	}, nil
}
