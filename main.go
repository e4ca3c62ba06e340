package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/OceanStreamIO/echopype-dev/internal/version"
)

var (
	showVersion = flag.Bool("version", false, "Print version information and exit")

	model    = flag.String("model", "EK60", "Sonar model (EK60, EK80, AZFP)")
	rawPath  = flag.String("raw", "", "Converted raw dataset (JSON)")
	envPath  = flag.String("env", "", "Environment parameters (JSON)")
	calPath  = flag.String("cal", "", "Calibration parameters (JSON)")
	procPath = flag.String("proc", "", "Processing parameters (JSON, optional)")

	dbPath = flag.String("db", "datasets.db", "SQLite dataset store")
	name   = flag.String("name", "dataset", "Name to store results under")

	product = flag.String("product", "Sv", "Calibration product (Sv or Sp)")
	channel = flag.Int("channel", 0, "Channel index for echogram rendering")
	htmlOut = flag.String("html", "", "Write an HTML echogram to this path")
	pngOut  = flag.String("png", "", "Write a PNG echogram to this path")
)

const usageText = `usage: echoproc [flags] <command>

commands:
  calibrate   calibrate raw backscatter to Sv or Sp and persist it
  mvbs        calibrate, then compute and persist tiled MVBS
  denoise     calibrate, estimate and remove noise, persist Sv_clean
  echogram    calibrate and render an echogram for one channel
  migrate     bring the dataset store schema up to date
`

func usage() {
	fmt.Fprint(flag.CommandLine.Output(), usageText)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Printf("echoproc %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	opts := runOptions{
		Model:    *model,
		RawPath:  *rawPath,
		EnvPath:  *envPath,
		CalPath:  *calPath,
		ProcPath: *procPath,
		DBPath:   *dbPath,
		Name:     *name,
		Product:  *product,
		Channel:  *channel,
		HTMLOut:  *htmlOut,
		PNGOut:   *pngOut,
	}

	if err := runCommand(flag.Arg(0), opts); err != nil {
		fmt.Fprintf(os.Stderr, "echoproc: %v\n", err)
		os.Exit(1)
	}
}
