package store

import (
	"bytes"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/OceanStreamIO/echopype-dev/internal/echodata"
	"github.com/OceanStreamIO/echopype-dev/internal/process"
)

// Store is a SQLite-backed dataset store. It satisfies the pipeline's
// Persister interface.
type Store struct {
	db *sql.DB
}

var _ process.Persister = (*Store)(nil)

// Open opens (creating if necessary) the SQLite database at path.
// Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset store: %w", err)
	}
	// One connection: SQLite serializes writers anyway, and an
	// in-memory database must not be split across pooled connections.
	db.SetMaxOpenConns(1)
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// PersistCalibrated stores a calibrated Sv/Sp dataset under the given
// name and returns its generated id.
func (s *Store) PersistCalibrated(ds *echodata.CalibratedDataset, name string) (string, error) {
	if ds == nil || ds.Data == nil {
		return "", fmt.Errorf("cannot persist an empty calibrated dataset")
	}
	freqs, err := json.Marshal(ds.Frequency)
	if err != nil {
		return "", fmt.Errorf("failed to encode frequencies: %w", err)
	}
	times, err := marshalTimes(ds.PingTimes)
	if err != nil {
		return "", err
	}
	var rangeBlob []byte
	if ds.Range != nil {
		rangeBlob = encodeFloats(ds.Range.Values)
	}

	id := uuid.New().String()
	_, err = s.db.Exec(
		`INSERT INTO datasets (
			id, name, kind, product, n_channels, n_pings, n_bins,
			frequencies, ping_times, values_blob, range_blob
		) VALUES (?, ?, 'calibrated', ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, name, string(ds.Product),
		ds.Data.Channels, ds.Data.Pings, ds.Data.Bins,
		string(freqs), string(times), encodeFloats(ds.Data.Values), rangeBlob,
	)
	if err != nil {
		return "", fmt.Errorf("failed to persist calibrated dataset: %w", err)
	}
	return id, nil
}

// PersistMVBS stores a tiled MVBS dataset under the given name and
// returns its generated id.
func (s *Store) PersistMVBS(ds *echodata.MVBSDataset, name string) (string, error) {
	if ds == nil || ds.Data == nil {
		return "", fmt.Errorf("cannot persist an empty MVBS dataset")
	}
	freqs, err := json.Marshal(ds.Frequency)
	if err != nil {
		return "", fmt.Errorf("failed to encode frequencies: %w", err)
	}
	times, err := marshalTimes(ds.PingTimes)
	if err != nil {
		return "", err
	}
	bins, err := json.Marshal(ds.RangeBins)
	if err != nil {
		return "", fmt.Errorf("failed to encode range_bins: %w", err)
	}

	id := uuid.New().String()
	_, err = s.db.Exec(
		`INSERT INTO datasets (
			id, name, kind, product, n_channels, n_pings, n_bins,
			frequencies, ping_times, range_bins, values_blob
		) VALUES (?, ?, 'mvbs', ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, name, string(ds.Source),
		ds.Data.Channels, ds.Data.Pings, ds.Data.Bins,
		string(freqs), string(times), string(bins), encodeFloats(ds.Data.Values),
	)
	if err != nil {
		return "", fmt.Errorf("failed to persist MVBS dataset: %w", err)
	}
	return id, nil
}

// LoadCalibrated reads a calibrated dataset back by id.
func (s *Store) LoadCalibrated(id string) (*echodata.CalibratedDataset, error) {
	var (
		product               string
		nc, np, nb            int
		freqs, times          string
		valuesBlob, rangeBlob []byte
	)
	err := s.db.QueryRow(
		`SELECT product, n_channels, n_pings, n_bins, frequencies, ping_times, values_blob, range_blob
		 FROM datasets WHERE id = ? AND kind = 'calibrated'`, id,
	).Scan(&product, &nc, &np, &nb, &freqs, &times, &valuesBlob, &rangeBlob)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("calibrated dataset %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load calibrated dataset: %w", err)
	}

	data, err := decodeArray(valuesBlob, nc, np, nb)
	if err != nil {
		return nil, err
	}
	ds := &echodata.CalibratedDataset{
		Product: echodata.Product(product),
		Data:    data,
	}
	if len(rangeBlob) > 0 {
		if ds.Range, err = decodeArray(rangeBlob, nc, np, nb); err != nil {
			return nil, err
		}
	}
	if err := json.Unmarshal([]byte(freqs), &ds.Frequency); err != nil {
		return nil, fmt.Errorf("failed to decode frequencies: %w", err)
	}
	if ds.PingTimes, err = unmarshalTimes(times); err != nil {
		return nil, err
	}
	return ds, nil
}

func marshalTimes(ts []time.Time) ([]byte, error) {
	strs := make([]string, len(ts))
	for i, t := range ts {
		strs[i] = t.UTC().Format(time.RFC3339Nano)
	}
	out, err := json.Marshal(strs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ping_times: %w", err)
	}
	return out, nil
}

func unmarshalTimes(s string) ([]time.Time, error) {
	var strs []string
	if err := json.Unmarshal([]byte(s), &strs); err != nil {
		return nil, fmt.Errorf("failed to decode ping_times: %w", err)
	}
	out := make([]time.Time, len(strs))
	for i, str := range strs {
		t, err := time.Parse(time.RFC3339Nano, str)
		if err != nil {
			return nil, fmt.Errorf("failed to decode ping_times[%d]: %w", i, err)
		}
		out[i] = t
	}
	return out, nil
}

func encodeFloats(values []float64) []byte {
	var buf bytes.Buffer
	buf.Grow(8 * len(values))
	_ = binary.Write(&buf, binary.LittleEndian, values)
	return buf.Bytes()
}

func decodeArray(blob []byte, nc, np, nb int) (*echodata.Array3D, error) {
	want := nc * np * nb
	if len(blob) != 8*want {
		return nil, fmt.Errorf("value blob holds %d bytes, expected %d", len(blob), 8*want)
	}
	arr := echodata.NewArray3D(nc, np, nb)
	if err := binary.Read(bytes.NewReader(blob), binary.LittleEndian, arr.Values); err != nil {
		return nil, fmt.Errorf("failed to decode value blob: %w", err)
	}
	return arr, nil
}
