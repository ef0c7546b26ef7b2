package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"seedrand/adapters/random"
	"seedrand/domain/core"
	"seedrand/domain/run"
	"seedrand/internal"
	"seedrand/internal/config"
	"seedrand/internal/errors"
	"seedrand/internal/sampletable"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *config.Config {
	return &config.Config{
		Random:   config.RandomConfig{Engine: random.EngineStandard},
		Sample:   config.SampleConfig{Rows: 256, Workers: 1, Format: config.FormatCSV},
		Server:   config.ServerConfig{Port: "8080", GinMode: "test", MaxRows: 100, MaxIssued: 16},
		LogLevel: "info",
	}
}

func quiet() *internal.Logger { return internal.NewDiscardLogger() }

func TestResolveOptions_SeedPrecedence(t *testing.T) {
	cfg := baseConfig()
	envSeed := int32(11)
	cfg.Random.Seed = &envSeed

	opts, err := resolveOptions(cfg, "7", "pcg", 10, 2, "", "out.xlsx")
	require.NoError(t, err)
	assert.Equal(t, int32(7), opts.seed)
	assert.Equal(t, run.SeedFromFlag, opts.seedSource)
	assert.Equal(t, random.EnginePCG, opts.engine)
	assert.Equal(t, config.FormatXLSX, opts.format)

	opts, err = resolveOptions(cfg, "", "standard", 10, 1, "csv", "")
	require.NoError(t, err)
	assert.Equal(t, envSeed, opts.seed)
	assert.Equal(t, run.SeedFromEnv, opts.seedSource)

	opts, err = resolveOptions(baseConfig(), "", "standard", 10, 1, "", "")
	require.NoError(t, err)
	assert.Equal(t, run.SeedFromClock, opts.seedSource)
}

func TestResolveOptions_ClockSeedIsRecorded(t *testing.T) {
	saved := clockTick
	t.Cleanup(func() { clockTick = saved })
	clockTick = func() int32 { return -77 }

	opts, err := resolveOptions(baseConfig(), "", "splitmix", 10, 1, "", "")
	require.NoError(t, err)
	assert.Equal(t, int32(-77), opts.seed)
	assert.Equal(t, run.SeedFromClock, opts.seedSource)

	var out bytes.Buffer
	require.NoError(t, dump(context.Background(), opts, &out, quiet()))

	cfg := sampletable.DefaultConfig()
	cfg.Rows = 10
	table, err := sampletable.Generate(cfg, random.New(-77, random.WithEngine(random.EngineSplitMix)))
	require.NoError(t, err)
	var want bytes.Buffer
	require.NoError(t, sampletable.WriteCSV(&want, table))
	assert.Equal(t, want.String(), out.String())
}

func TestResolveOptions_Invalid(t *testing.T) {
	_, err := resolveOptions(baseConfig(), "", "mersenne", 10, 1, "", "")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = resolveOptions(baseConfig(), "x", "standard", 10, 1, "", "")
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	_, err = resolveOptions(baseConfig(), "", "standard", 2, 3, "", "")
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	_, err = resolveOptions(baseConfig(), "", "standard", 2, 1, "xlsx", "")
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestDump_StdoutMatchesLibrary(t *testing.T) {
	opts := options{seed: 42, seedSource: run.SeedFromFlag, engine: random.EngineStandard, rows: 5, workers: 1, format: config.FormatCSV}

	var out bytes.Buffer
	require.NoError(t, dump(context.Background(), opts, &out, quiet()))

	cfg := sampletable.DefaultConfig()
	cfg.Rows = 5
	table, err := sampletable.Generate(cfg, random.New(42))
	require.NoError(t, err)
	var want bytes.Buffer
	require.NoError(t, sampletable.WriteCSV(&want, table))

	assert.Equal(t, want.String(), out.String())
}

func TestDump_WorkersAreReproducible(t *testing.T) {
	opts := options{seed: 9, seedSource: run.SeedFromFlag, engine: random.EngineSplitMix, rows: 10, workers: 3, format: config.FormatCSV}

	var a, b bytes.Buffer
	require.NoError(t, dump(context.Background(), opts, &a, quiet()))
	require.NoError(t, dump(context.Background(), opts, &b, quiet()))
	assert.Equal(t, a.String(), b.String())

	lines := strings.Split(strings.TrimSpace(a.String()), "\n")
	require.Len(t, lines, 11)
	for i, line := range lines[1:] {
		assert.True(t, strings.HasPrefix(line, strconv.Itoa(i)+","), line)
	}
}

func TestDump_WritesManifestAndVerifies(t *testing.T) {
	for _, format := range []string{config.FormatCSV, config.FormatXLSX} {
		t.Run(format, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "draws."+format)
			opts := options{seed: -3, seedSource: run.SeedFromFlag, engine: random.EnginePCG, rows: 12, workers: 2, format: format, out: out}
			require.NoError(t, dump(context.Background(), opts, &bytes.Buffer{}, quiet()))

			m, err := readManifest(manifestPathFor(out))
			require.NoError(t, err)
			assert.Equal(t, int32(-3), m.Seed)
			assert.Equal(t, "pcg", m.Engine)
			assert.Equal(t, out, m.Output)
			assert.False(t, m.ContentHash.IsEmpty())

			require.NoError(t, verifyManifest(context.Background(), manifestPathFor(out), quiet()))

			script, err := sampletable.ReadScript(out, sampletable.ColNextInt)
			require.NoError(t, err)
			assert.Len(t, script, 12)
		})
	}
}

func TestVerifyManifest_DetectsDivergence(t *testing.T) {
	out := filepath.Join(t.TempDir(), "draws.csv")
	opts := options{seed: 1, seedSource: run.SeedFromFlag, engine: random.EngineStandard, rows: 4, workers: 1, format: config.FormatCSV, out: out}
	require.NoError(t, dump(context.Background(), opts, &bytes.Buffer{}, quiet()))

	path := manifestPathFor(out)
	m, err := readManifest(path)
	require.NoError(t, err)
	m.ContentHash = core.NewHash([]byte("something else"))
	require.NoError(t, writeManifest(path, m))

	err = verifyManifest(context.Background(), path, quiet())
	assert.ErrorIs(t, err, core.ErrNonDeterministic)
}

func TestReadManifest_Rejects(t *testing.T) {
	dir := t.TempDir()

	_, err := readManifest(filepath.Join(dir, "missing.json"))
	assert.Equal(t, errors.CodeIO, errors.GetCode(err))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"run_id": ""}`), 0o644))
	_, err = readManifest(bad)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestReplayScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.csv")
	require.NoError(t, os.WriteFile(path, []byte("index,next_int\n0,2\n1,4\n2,6\n"), 0o644))

	var out bytes.Buffer
	require.NoError(t, replayScript(&out, path, sampletable.ColNextInt))
	assert.Contains(t, out.String(), "n=3 mean=4.0000")

	err := replayScript(&out, path, "missing")
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}
