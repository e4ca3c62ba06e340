// Package echogram renders calibrated and aggregated backscatter as
// echograms: interactive HTML heatmaps via go-echarts and static PNG
// heatmaps via gonum/plot. Rendering is a debugging/reporting surface;
// nothing here feeds back into processing.
package echogram
