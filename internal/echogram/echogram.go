package echogram

import (
	"fmt"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/OceanStreamIO/echopype-dev/internal/echodata"
)

// valueRange returns the finite min/max of one channel, for colour
// scaling. NaN samples (padding, below-noise markers) are skipped.
func valueRange(data *echodata.Array3D, channel int) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for p := 0; p < data.Pings; p++ {
		for b := 0; b < data.Bins; b++ {
			v := data.At(channel, p, b)
			if math.IsNaN(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if lo > hi {
		lo, hi = 0, 1
	}
	return lo, hi
}

// RenderHTML writes an interactive heatmap of one channel to path.
// Pings run along x, range bins along y (bin 0 at the top of the water
// column).
func RenderHTML(data *echodata.Array3D, channel int, title, path string) error {
	if channel < 0 || channel >= data.Channels {
		return fmt.Errorf("channel %d out of range (0..%d)", channel, data.Channels-1)
	}
	lo, hi := valueRange(data, channel)

	heatData := make([]opts.HeatMapData, 0, data.Pings*data.Bins)
	xLabels := make([]string, data.Pings)
	for p := 0; p < data.Pings; p++ {
		xLabels[p] = fmt.Sprintf("%d", p)
		for b := 0; b < data.Bins; b++ {
			v := data.At(channel, p, b)
			if math.IsNaN(v) {
				continue
			}
			heatData = append(heatData, opts.HeatMapData{Value: [3]interface{}{p, b, v}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: "ping"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Name: "range_bin"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(lo),
			Max:        float32(hi),
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#31688e", "#35b779", "#fde725"}},
		}),
	)
	hm.SetXAxis(xLabels).AddSeries("backscatter", heatData)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create echogram file: %w", err)
	}
	defer f.Close()
	if err := hm.Render(f); err != nil {
		return fmt.Errorf("failed to render echogram: %w", err)
	}
	return nil
}

// channelGrid adapts one channel of an Array3D to plotter.GridXYZ.
type channelGrid struct {
	data    *echodata.Array3D
	channel int
	// floor substitutes NaN so the heatmap palette stays well-defined.
	floor float64
}

func (g channelGrid) Dims() (c, r int) { return g.data.Pings, g.data.Bins }
func (g channelGrid) X(c int) float64  { return float64(c) }
func (g channelGrid) Y(r int) float64  { return float64(r) }
func (g channelGrid) Z(c, r int) float64 {
	v := g.data.At(g.channel, c, r)
	if math.IsNaN(v) {
		return g.floor
	}
	return v
}

// RenderPNG writes a static heatmap of one channel to path.
func RenderPNG(data *echodata.Array3D, channel int, title, path string) error {
	if channel < 0 || channel >= data.Channels {
		return fmt.Errorf("channel %d out of range (0..%d)", channel, data.Channels-1)
	}
	lo, _ := valueRange(data, channel)

	grid := channelGrid{data: data, channel: channel, floor: lo}
	hm := plotter.NewHeatMap(grid, palette.Heat(16, 1))

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "ping"
	p.Y.Label.Text = "range_bin"
	p.Add(hm)

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save echogram: %w", err)
	}
	return nil
}
