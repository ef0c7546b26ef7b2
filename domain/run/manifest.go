package run

import (
	"seedrand/domain/core"
)

// How the root seed of a run was chosen
const (
	SeedFromFlag    = "flag"
	SeedFromEnv     = "env"
	SeedFromClock   = "clock"
	SeedFromRequest = "request"
)

// Manifest records how a sample table was produced, so it can be replayed.
// A clock-seeded run records the tick it read.
type Manifest struct {
	RunID       core.RunID     `json:"run_id"`
	Seed        int32          `json:"seed"`
	SeedSource  string         `json:"seed_source"`
	Engine      string         `json:"engine"`
	Rows        int            `json:"rows"`
	Workers     int            `json:"workers"`
	Format      string         `json:"format"`
	Output      string         `json:"output,omitempty"`
	CodeVersion string         `json:"code_version"`
	Fingerprint Fingerprint    `json:"fingerprint"`
	ContentHash core.Hash      `json:"content_hash,omitempty"`
	CreatedAt   core.Timestamp `json:"created_at"`
}

// NewManifest creates a manifest for a new run
func NewManifest(seed int32, seedSource, engine string, rows, workers int, format, codeVersion string) *Manifest {
	return &Manifest{
		RunID:       core.RunID(core.NewID()),
		Seed:        seed,
		SeedSource:  seedSource,
		Engine:      engine,
		Rows:        rows,
		Workers:     workers,
		Format:      format,
		CodeVersion: codeVersion,
		Fingerprint: NewFingerprint(seed, engine, rows, workers, codeVersion),
		CreatedAt:   core.Now(),
	}
}

// RecordContent stores the hash of the table's canonical encoding
func (m *Manifest) RecordContent(data []byte) {
	m.ContentHash = core.NewHash(data)
}

// SameOutput reports whether other was produced with the same determinism
// parameters.
func (m *Manifest) SameOutput(other *Manifest) bool {
	return m.Fingerprint.Hash.Equals(other.Fingerprint.Hash)
}

// Validate checks if the manifest is complete
func (m *Manifest) Validate() error {
	const op = "Manifest.Validate"
	if _, err := core.ParseRunID(m.RunID.String()); err != nil {
		return core.NewInvalidArgumentError(op, "%v", err)
	}
	switch m.SeedSource {
	case SeedFromFlag, SeedFromEnv, SeedFromClock, SeedFromRequest:
	default:
		return core.NewInvalidArgumentError(op, "unknown seed_source %q", m.SeedSource)
	}
	if m.Engine == "" {
		return core.NewInvalidArgumentError(op, "engine cannot be empty")
	}
	if m.Rows <= 0 || m.Workers <= 0 {
		return core.NewInvalidArgumentError(op, "rows (%d) and workers (%d) must be > 0", m.Rows, m.Workers)
	}
	if m.CodeVersion == "" {
		return core.NewInvalidArgumentError(op, "code_version cannot be empty")
	}
	if m.Fingerprint.Seed != m.Seed || m.Fingerprint.Engine != m.Engine ||
		m.Fingerprint.Rows != m.Rows || m.Fingerprint.Workers != m.Workers ||
		m.Fingerprint.CodeVersion != m.CodeVersion {
		return core.NewInvalidArgumentError(op, "fingerprint does not describe this run")
	}
	if !m.Fingerprint.Verify() {
		return core.NewInvalidArgumentError(op, "fingerprint hash %s is stale", m.Fingerprint.Hash)
	}
	return nil
}
