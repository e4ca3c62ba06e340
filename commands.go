package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/OceanStreamIO/echopype-dev/internal/config"
	"github.com/OceanStreamIO/echopype-dev/internal/echodata"
	"github.com/OceanStreamIO/echopype-dev/internal/echogram"
	"github.com/OceanStreamIO/echopype-dev/internal/monitoring"
	"github.com/OceanStreamIO/echopype-dev/internal/process"
	"github.com/OceanStreamIO/echopype-dev/internal/security"
	"github.com/OceanStreamIO/echopype-dev/internal/store"
)

// Indirections so tests can stub rendering without touching the filesystem.
var (
	renderHTML = echogram.RenderHTML
	renderPNG  = echogram.RenderPNG
)

// runCommand dispatches one CLI subcommand.
func runCommand(command string, opts runOptions) error {
	switch command {
	case "calibrate":
		return runCalibrate(opts)
	case "mvbs":
		return runMVBS(opts)
	case "denoise":
		return runDenoise(opts)
	case "echogram":
		return runEchogram(opts)
	case "migrate":
		return runMigrate(opts)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func loadJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// newSession loads the raw dataset and parameters, derives the
// environment, and calibrates the requested product into a fresh
// session. Every result is assigned onto the session here, by the
// caller, never by the processing core.
func newSession(opts runOptions, products ...echodata.Product) (process.Processor, *echodata.Session, *echodata.EnvironmentParameters, error) {
	model, err := process.ParseSonarModel(opts.Model)
	if err != nil {
		return nil, nil, nil, err
	}
	proc, err := process.New(model)
	if err != nil {
		return nil, nil, nil, err
	}

	if opts.RawPath == "" || opts.EnvPath == "" || opts.CalPath == "" {
		return nil, nil, nil, fmt.Errorf("-raw, -env and -cal are required")
	}
	raw, err := echodata.LoadRaw(opts.RawPath)
	if err != nil {
		return nil, nil, nil, err
	}

	env := &echodata.EnvironmentParameters{}
	if err := loadJSON(opts.EnvPath, env); err != nil {
		return nil, nil, nil, err
	}
	var cal echodata.CalibrationParameters
	if err := loadJSON(opts.CalPath, &cal); err != nil {
		return nil, nil, nil, err
	}

	// Derive sound speed and per-channel absorption before calibration.
	ss, err := proc.SoundSpeed(env, process.SourceUser)
	if err != nil {
		return nil, nil, nil, err
	}
	env.SpeedOfSound = &ss
	if env.SeawaterAbsorption, err = proc.SeawaterAbsorption(env, raw.Frequency, process.SourceUser); err != nil {
		return nil, nil, nil, err
	}

	// Resolve sa corrections from the instrument tables when present;
	// values supplied in the calibration file win otherwise.
	if raw.Vendor != nil {
		sa, err := proc.SaCorrection(raw)
		if err != nil {
			return nil, nil, nil, err
		}
		for i := range cal {
			cal[i].SaCorrection = sa[i]
		}
	}

	sess := &echodata.Session{Raw: raw}
	if sess.Range, err = proc.Range(raw, env, cal); err != nil {
		return nil, nil, nil, err
	}

	for _, p := range products {
		ds, err := proc.Calibrate(raw, sess.Range, env, cal, p)
		if err != nil {
			return nil, nil, nil, err
		}
		switch p {
		case echodata.ProductSv:
			sess.Sv = ds
		case echodata.ProductSp:
			sess.Sp = ds
		}
	}
	return proc, sess, env, nil
}

func openStore(opts runOptions) (*store.Store, error) {
	st, err := store.Open(opts.DBPath)
	if err != nil {
		return nil, err
	}
	if err := st.MigrateUp(); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func runCalibrate(opts runOptions) error {
	prod := echodata.Product(opts.Product)
	_, sess, _, err := newSession(opts, prod)
	if err != nil {
		return err
	}
	ds := sess.Sv
	if prod == echodata.ProductSp {
		ds = sess.Sp
	}

	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.PersistCalibrated(ds, opts.Name)
	if err != nil {
		return err
	}
	monitoring.Logf("saved calibrated %s as %s", prod, id)
	return nil
}

func loadProcessingConfig(opts runOptions) (*config.ProcessingConfig, error) {
	if opts.ProcPath == "" {
		return config.EmptyProcessingConfig(), nil
	}
	return config.LoadProcessingConfig(opts.ProcPath)
}

func runMVBS(opts runOptions) error {
	proc, sess, env, err := newSession(opts, echodata.ProductSv)
	if err != nil {
		return err
	}
	cfg, err := loadProcessingConfig(opts)
	if err != nil {
		return err
	}

	if cfg.GetMVBSSource() == "Sv_clean" {
		est, err := proc.NoiseEstimates(sess.Sv, env, cfg)
		if err != nil {
			return err
		}
		if sess.SvClean, err = proc.RemoveNoise(sess.Sv, est, env); err != nil {
			return err
		}
	}

	src, err := process.AggregationSource(sess, cfg.GetMVBSSource())
	if err != nil {
		return err
	}
	mvbs, err := proc.MVBS(src, cfg)
	if err != nil {
		return err
	}

	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.PersistMVBS(mvbs, opts.Name)
	if err != nil {
		return err
	}
	monitoring.Logf("saved MVBS(%s) as %s", mvbs.Source, id)
	return nil
}

func runDenoise(opts runOptions) error {
	proc, sess, env, err := newSession(opts, echodata.ProductSv)
	if err != nil {
		return err
	}
	cfg, err := loadProcessingConfig(opts)
	if err != nil {
		return err
	}

	est, err := proc.NoiseEstimates(sess.Sv, env, cfg)
	if err != nil {
		return err
	}
	clean, err := proc.RemoveNoise(sess.Sv, est, env)
	if err != nil {
		return err
	}

	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.PersistCalibrated(clean, opts.Name)
	if err != nil {
		return err
	}
	monitoring.Logf("saved Sv_clean as %s", id)
	return nil
}

func runEchogram(opts runOptions) error {
	if opts.HTMLOut == "" && opts.PNGOut == "" {
		return fmt.Errorf("echogram needs -html and/or -png output paths")
	}
	for _, out := range []string{opts.HTMLOut, opts.PNGOut} {
		if out == "" {
			continue
		}
		if err := security.ValidateExportPath(out); err != nil {
			return err
		}
	}
	prod := echodata.Product(opts.Product)
	_, sess, _, err := newSession(opts, prod)
	if err != nil {
		return err
	}
	ds := sess.Sv
	if prod == echodata.ProductSp {
		ds = sess.Sp
	}

	title := fmt.Sprintf("%s channel %d", prod, opts.Channel)
	if opts.HTMLOut != "" {
		if err := renderHTML(ds.Data, opts.Channel, title, opts.HTMLOut); err != nil {
			return err
		}
		monitoring.Logf("wrote %s", opts.HTMLOut)
	}
	if opts.PNGOut != "" {
		if err := renderPNG(ds.Data, opts.Channel, title, opts.PNGOut); err != nil {
			return err
		}
		monitoring.Logf("wrote %s", opts.PNGOut)
	}
	return nil
}

func runMigrate(opts runOptions) error {
	st, err := store.Open(opts.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.MigrateUp(); err != nil {
		return err
	}
	version, dirty, err := st.MigrateVersion()
	if err != nil {
		return err
	}
	monitoring.Logf("dataset store at schema version %d (dirty=%v)", version, dirty)
	return nil
}
