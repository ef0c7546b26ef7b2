package app

import (
	"context"

	"seedrand/domain/core"
	"seedrand/domain/run"
	"seedrand/internal"
	"seedrand/internal/errors"
	"seedrand/internal/sampletable"
	"seedrand/ports"
)

// CodeVersion is recorded in every manifest. Bump it whenever a change
// alters the table a given seed produces.
const CodeVersion = "1.0.0"

// EngineResolver maps an engine name to a stream factory
type EngineResolver func(engine string) (ports.StreamFactory, error)

// SampleRequest describes one sample table run. Engine must be a canonical
// engine name, since it is part of the fingerprint.
type SampleRequest struct {
	Seed       int32
	SeedSource string
	Engine     string
	Rows       int
	Workers    int
	Format     string
}

// SampleRun is a generated table and the manifest that reproduces it
type SampleRun struct {
	Table    *sampletable.Table
	Manifest *run.Manifest
}

// SampleService generates sample tables from seeded streams
type SampleService struct {
	resolve EngineResolver
	logger  *internal.Logger
}

// NewSampleService creates a sample service
func NewSampleService(resolve EngineResolver, logger *internal.Logger) *SampleService {
	if logger == nil {
		logger = internal.NewDiscardLogger()
	}
	return &SampleService{resolve: resolve, logger: logger.With("samples")}
}

// Run generates the table for req and a manifest carrying its content hash
func (s *SampleService) Run(ctx context.Context, req SampleRequest) (*SampleRun, error) {
	manifest := run.NewManifest(req.Seed, req.SeedSource, req.Engine, req.Rows, req.Workers, req.Format, CodeVersion)

	table, err := s.generate(ctx, req.Seed, req.Engine, req.Rows, req.Workers)
	if err != nil {
		return nil, err
	}
	canonical, err := sampletable.Encode(sampletable.FormatCSV, table)
	if err != nil {
		return nil, err
	}
	manifest.RecordContent(canonical)
	if err := manifest.Validate(); err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}

	s.logger.Info("run %s seed=%d (%s) engine=%s rows=%d workers=%d fingerprint=%s",
		manifest.RunID, manifest.Seed, manifest.SeedSource, manifest.Engine, manifest.Rows, manifest.Workers, manifest.Fingerprint.Hash)
	return &SampleRun{Table: table, Manifest: manifest}, nil
}

// Verify regenerates the table m describes and compares content hashes.
// A mismatch wraps core.ErrNonDeterministic. Manifests written by another
// code version are rejected before regenerating.
func (s *SampleService) Verify(ctx context.Context, m *run.Manifest) error {
	if err := m.Validate(); err != nil {
		return errors.WithCode(errors.CodeInvalidInput, err)
	}
	if m.CodeVersion != CodeVersion {
		return errors.InvalidInputf("run %s was written by code version %s, this is %s", m.RunID, m.CodeVersion, CodeVersion)
	}

	table, err := s.generate(ctx, m.Seed, m.Engine, m.Rows, m.Workers)
	if err != nil {
		return err
	}
	canonical, err := sampletable.Encode(sampletable.FormatCSV, table)
	if err != nil {
		return err
	}

	got := core.NewHash(canonical)
	if !got.Equals(m.ContentHash) {
		s.logger.Warn("run %s did not reproduce", m.RunID)
		return errors.Wrapf(core.ErrNonDeterministic, "run %s: content hash %s, manifest has %s", m.RunID, got, m.ContentHash)
	}
	s.logger.Info("run %s reproduced (%d rows, %s)", m.RunID, m.Rows, got)
	return nil
}

// generate draws the table. A single worker draws straight from the root
// stream; several workers each draw from a child forked in worker order,
// and their rows are joined in that order.
func (s *SampleService) generate(ctx context.Context, seed int32, engine string, rows, workers int) (*sampletable.Table, error) {
	factory, err := s.resolve(engine)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	root, err := NewStreamService(factory, s.logger).SeededStream(ctx, "sample", seed)
	if err != nil {
		return nil, err
	}

	cfg := sampletable.DefaultConfig()
	cfg.Rows = rows
	if workers == 1 {
		return sampletable.Generate(cfg, root)
	}

	parts, err := sampletable.Partition(cfg, workers)
	if err != nil {
		return nil, err
	}

	tables := make([]*sampletable.Table, workers)
	err = ForkEach(ctx, root, workers, func(ctx context.Context, worker int, r ports.Random) error {
		t, err := sampletable.Generate(parts[worker], r)
		if err != nil {
			return err
		}
		tables[worker] = t
		s.logger.Debug("worker %d produced rows %d..%d", worker, parts[worker].StartIndex, parts[worker].StartIndex+parts[worker].Rows-1)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sampletable.Concat(tables...), nil
}
