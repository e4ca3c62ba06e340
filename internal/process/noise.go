package process

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/OceanStreamIO/echopype-dev/internal/config"
	"github.com/OceanStreamIO/echopype-dev/internal/echodata"
)

// NoiseEstimate holds the noise floor obtained from the minimum mean
// calibrated power per tile: one dB value per channel per range-bin
// tile column, referenced to the receiver (transmission loss removed).
//
// Reference: De Robertis & Higginbottom, 2007, ICES Journal of Marine
// Sciences.
type NoiseEstimate struct {
	RangeBinsPerTile int
	// FloorDB is indexed [channel][rangeColumn].
	FloorDB [][]float64
}

// transmissionLoss is the two-way loss at range r for absorption alpha,
// with the same clamp-to-one-metre policy the calibration engine uses.
func transmissionLoss(r, alpha float64) float64 {
	return 20*math.Log10(math.Max(r, 1)) + 2*alpha*r
}

func noiseTileSizes(src *echodata.CalibratedDataset, cfg *config.ProcessingConfig) (pingSize, rangeBinSize int, err error) {
	pingSize = cfg.GetNoiseEstPingSize()
	rangeBinSize = cfg.GetNoiseEstRangeBinSize()
	if pingSize <= 0 || rangeBinSize <= 0 {
		return 0, 0, fmt.Errorf("noise estimation tile %dx%d: %w", pingSize, rangeBinSize, ErrInvalidTileSize)
	}
	if pingSize > src.Data.Pings || rangeBinSize > src.Data.Bins {
		return 0, 0, fmt.Errorf("noise estimation tile %dx%d exceeds data extent %dx%d: %w",
			pingSize, rangeBinSize, src.Data.Pings, src.Data.Bins, ErrInvalidTileSize)
	}
	return pingSize, rangeBinSize, nil
}

// NoiseEstimates computes the noise floor from calibrated power.
// Per channel, the calibrated power is referenced back to the receiver
// by removing the two-way transmission loss, partitioned into tiles
// sized by the noise estimation parameters, and the floor of each
// range-bin tile column is the minimum of the per-tile mean linear
// power over all ping tiles in that column.
func (p *baseProcessor) NoiseEstimates(src *echodata.CalibratedDataset, env *echodata.EnvironmentParameters, cfg *config.ProcessingConfig) (*NoiseEstimate, error) {
	if src == nil || src.Data == nil || src.Range == nil {
		return nil, fmt.Errorf("noise estimation needs a calibrated dataset with a range grid")
	}
	nc := src.Data.Channels
	if err := env.ValidateDerived(nc); err != nil {
		return nil, err
	}
	pingSize, rangeBinSize, err := noiseTileSizes(src, cfg)
	if err != nil {
		return nil, err
	}

	data := src.Data
	nPingTiles := (data.Pings + pingSize - 1) / pingSize
	nColumns := (data.Bins + rangeBinSize - 1) / rangeBinSize

	est := &NoiseEstimate{
		RangeBinsPerTile: rangeBinSize,
		FloorDB:          make([][]float64, nc),
	}
	for c := 0; c < nc; c++ {
		alpha := env.SeawaterAbsorption[c]
		est.FloorDB[c] = make([]float64, nColumns)

		for col := 0; col < nColumns; col++ {
			b0 := col * rangeBinSize
			b1 := min(b0+rangeBinSize, data.Bins)

			tileMeans := make([]float64, 0, nPingTiles)
			for tp := 0; tp < nPingTiles; tp++ {
				p0 := tp * pingSize
				p1 := min(p0+pingSize, data.Pings)

				var sum float64
				var n int
				for pp := p0; pp < p1; pp++ {
					for b := b0; b < b1; b++ {
						v := data.At(c, pp, b)
						if math.IsNaN(v) {
							continue
						}
						sum += echodata.ToLinear(v - transmissionLoss(src.Range.At(c, pp, b), alpha))
						n++
					}
				}
				if n > 0 {
					tileMeans = append(tileMeans, sum/float64(n))
				}
			}
			if len(tileMeans) == 0 {
				est.FloorDB[c][col] = math.NaN()
				continue
			}
			est.FloorDB[c][col] = echodata.ToDecibel(floats.Min(tileMeans))
		}
	}
	return est, nil
}

// RemoveNoise subtracts the estimated noise floor from a calibrated Sv
// dataset in linear domain. The per-sample correction re-applies the
// transmission loss at that sample's range so the receiver-referenced
// floor is compared against the calibrated value. Subtraction never
// amplifies: Sv_clean <= Sv for every sample, and samples at or below
// the floor become NaN, the below-noise marker.
func (p *baseProcessor) RemoveNoise(src *echodata.CalibratedDataset, est *NoiseEstimate, env *echodata.EnvironmentParameters) (*echodata.CalibratedDataset, error) {
	if src == nil || src.Data == nil || src.Range == nil {
		return nil, fmt.Errorf("noise removal needs a calibrated dataset with a range grid")
	}
	if est == nil || est.RangeBinsPerTile <= 0 {
		return nil, fmt.Errorf("noise removal needs a noise estimate: %w", ErrInvalidTileSize)
	}
	nc := src.Data.Channels
	if err := env.ValidateDerived(nc); err != nil {
		return nil, err
	}
	if len(est.FloorDB) != nc {
		return nil, fmt.Errorf("noise estimate covers %d channels, data has %d", len(est.FloorDB), nc)
	}

	data := src.Data
	out := echodata.NewArray3D(nc, data.Pings, data.Bins)
	for c := 0; c < nc; c++ {
		alpha := env.SeawaterAbsorption[c]
		columns := est.FloorDB[c]
		for pp := 0; pp < data.Pings; pp++ {
			for b := 0; b < data.Bins; b++ {
				v := data.At(c, pp, b)
				if math.IsNaN(v) {
					out.Set(c, pp, b, math.NaN())
					continue
				}
				col := b / est.RangeBinsPerTile
				if col >= len(columns) {
					col = len(columns) - 1
				}
				floor := columns[col]
				if math.IsNaN(floor) {
					out.Set(c, pp, b, v)
					continue
				}
				svNoise := floor + transmissionLoss(src.Range.At(c, pp, b), alpha)
				clean := echodata.ToLinear(v) - echodata.ToLinear(svNoise)
				// ToDecibel maps non-positive residuals to NaN.
				out.Set(c, pp, b, echodata.ToDecibel(clean))
			}
		}
	}

	return &echodata.CalibratedDataset{
		Product:   echodata.ProductSvClean,
		Data:      out,
		Range:     src.Range,
		Frequency: src.Frequency,
		PingTimes: src.PingTimes,
	}, nil
}
