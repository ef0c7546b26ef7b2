package run

import (
	"crypto/sha256"
	"fmt"

	"seedrand/domain/core"
)

// Fingerprint identifies everything that determines a run's output. Two
// runs with equal fingerprints produce identical tables.
type Fingerprint struct {
	Seed        int32     `json:"seed"`
	Engine      string    `json:"engine"`
	Rows        int       `json:"rows"`
	Workers     int       `json:"workers"`
	CodeVersion string    `json:"code_version"`
	Hash        core.Hash `json:"hash"` // Hash of all above
}

// NewFingerprint creates a fingerprint from determinism parameters
func NewFingerprint(seed int32, engine string, rows, workers int, codeVersion string) Fingerprint {
	return Fingerprint{
		Seed:        seed,
		Engine:      engine,
		Rows:        rows,
		Workers:     workers,
		CodeVersion: codeVersion,
		Hash:        computeFingerprint(seed, engine, rows, workers, codeVersion),
	}
}

// Verify reports whether Hash still matches the parameters
func (f Fingerprint) Verify() bool {
	return f.Hash == computeFingerprint(f.Seed, f.Engine, f.Rows, f.Workers, f.CodeVersion)
}

func computeFingerprint(seed int32, engine string, rows, workers int, codeVersion string) core.Hash {
	data := fmt.Sprintf("seed:%d|engine:%s|rows:%d|workers:%d|code:%s",
		seed, engine, rows, workers, codeVersion)

	hash := sha256.Sum256([]byte(data))
	return core.Hash(fmt.Sprintf("%x", hash))
}
