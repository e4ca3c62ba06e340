package process

import "github.com/OceanStreamIO/echopype-dev/internal/echodata"

// Persister is the opaque persistence collaborator. Implementations
// accept an immutable dataset and either succeed with the stored
// dataset's identifier or fail; the pipeline propagates their errors
// unchanged and never turns a failed persist into a silent no-op.
type Persister interface {
	PersistCalibrated(ds *echodata.CalibratedDataset, name string) (string, error)
	PersistMVBS(ds *echodata.MVBSDataset, name string) (string, error)
}
