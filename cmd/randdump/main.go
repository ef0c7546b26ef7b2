// Command randdump captures draws from a seeded stream into a CSV or XLSX
// table, with a manifest that is enough to reproduce it. It can also verify
// a manifest by regenerating its table, and replay a captured integer
// column through a scripted stub.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"seedrand/adapters/doubles"
	"seedrand/adapters/random"
	"seedrand/app"
	"seedrand/domain/core"
	"seedrand/domain/run"
	"seedrand/internal"
	"seedrand/internal/config"
	"seedrand/internal/errors"
	"seedrand/internal/sampletable"
	"seedrand/internal/testkit"

	"github.com/joho/godotenv"
)

// clockTick seeds the root stream when neither a flag nor RANDOM_SEED does
var clockTick core.TickSource = core.TickSeed

type options struct {
	seed       int32
	seedSource string
	engine     random.Engine
	rows       int
	workers    int
	format     string
	out        string
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "no .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(2)
	}

	seed := flag.String("seed", "", "root seed (int32); default RANDOM_SEED, then the clock")
	engine := flag.String("engine", cfg.Random.Engine.String(), "engine: standard, pcg or splitmix")
	rows := flag.Int("rows", cfg.Sample.Rows, "number of rows")
	workers := flag.Int("workers", cfg.Sample.Workers, "forked workers producing rows")
	format := flag.String("format", "", "output format: csv or xlsx (default inferred from -out)")
	out := flag.String("out", cfg.Sample.Output, "output file path (csv goes to stdout when empty)")
	verify := flag.String("verify", "", "manifest to verify by regenerating its table")
	replay := flag.String("replay", "", "captured table to replay through a scripted stub")
	column := flag.String("column", sampletable.ColNextInt, "integer column read by -replay")
	flag.Parse()

	level, err := internal.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := internal.NewLogger(level).With("randdump")

	ctx := context.Background()
	switch {
	case *replay != "":
		err = replayScript(os.Stdout, *replay, *column)
	case *verify != "":
		err = verifyManifest(ctx, *verify, logger)
	default:
		var opts options
		opts, err = resolveOptions(cfg, *seed, *engine, *rows, *workers, *format, *out)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		err = dump(ctx, opts, os.Stdout, logger)
	}
	if err != nil {
		if errors.IsAppError(err) {
			fmt.Fprintf(os.Stderr, "error [%s]: %v\n", errors.GetCode(err), err)
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// resolveOptions merges flags over the environment configuration. A seed
// flag wins over RANDOM_SEED; with neither, the clock is read once.
func resolveOptions(cfg *config.Config, seed, engine string, rows, workers int, format, out string) (options, error) {
	e, err := random.ParseEngine(engine)
	if err != nil {
		return options{}, errors.WithCode(errors.CodeInvalidInput, err)
	}

	merged := *cfg
	merged.Random.Engine = e
	merged.Sample.Rows = rows
	merged.Sample.Workers = workers
	merged.Sample.Output = out
	merged.Sample.Format = strings.ToLower(strings.TrimSpace(format))
	if merged.Sample.Format == "" {
		merged.Sample.Format = config.FormatForPath(out)
	}
	if err := merged.Validate(); err != nil {
		return options{}, err
	}

	opts := options{
		engine:  e,
		rows:    rows,
		workers: workers,
		format:  merged.Sample.Format,
		out:     out,
	}
	switch {
	case seed != "":
		s, err := config.ParseSeed(seed)
		if err != nil {
			return options{}, err
		}
		opts.seed, opts.seedSource = s, run.SeedFromFlag
	case cfg.Random.Seed != nil:
		opts.seed, opts.seedSource = *cfg.Random.Seed, run.SeedFromEnv
	default:
		root := random.NewFromClock(random.WithEngine(e), random.WithTickSource(clockTick))
		opts.seed, opts.seedSource = root.Seed(), run.SeedFromClock
	}
	return opts, nil
}

func dump(ctx context.Context, opts options, stdout io.Writer, logger *internal.Logger) error {
	svc := app.NewSampleService(random.Resolve, logger)
	res, err := svc.Run(ctx, app.SampleRequest{
		Seed:       opts.seed,
		SeedSource: opts.seedSource,
		Engine:     opts.engine.String(),
		Rows:       opts.rows,
		Workers:    opts.workers,
		Format:     opts.format,
	})
	if err != nil {
		return err
	}
	data, err := sampletable.Encode(opts.format, res.Table)
	if err != nil {
		return err
	}

	if opts.out == "" {
		if _, err := stdout.Write(data); err != nil {
			return errors.IOError("stdout", err)
		}
		return nil
	}

	if err := os.WriteFile(opts.out, data, 0o644); err != nil {
		return errors.IOError(opts.out, err)
	}
	res.Manifest.Output = opts.out
	manifestPath := manifestPathFor(opts.out)
	if err := writeManifest(manifestPath, res.Manifest); err != nil {
		return err
	}
	logger.Info("wrote %d rows to %s (manifest %s)", len(res.Table.Rows), opts.out, manifestPath)
	return nil
}

func manifestPathFor(out string) string {
	return out + ".manifest.json"
}

func writeManifest(path string, m *run.Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding manifest")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.IOError(path, err)
	}
	return nil
}

func readManifest(path string) (*run.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IOError(path, err)
	}
	var m run.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	if err := m.Validate(); err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	return &m, nil
}

func verifyManifest(ctx context.Context, path string, logger *internal.Logger) error {
	m, err := readManifest(path)
	if err != nil {
		return err
	}
	return app.NewSampleService(random.Resolve, logger).Verify(ctx, m)
}

// replayScript feeds a captured integer column through a StubRandom and
// summarises what a test replaying it would see.
func replayScript(w io.Writer, path, column string) error {
	script, err := sampletable.ReadScript(path, column)
	if err != nil {
		return err
	}
	stub, err := doubles.NewStubRandom(script...)
	if err != nil {
		return errors.WithCode(errors.CodeInvalidInput, err)
	}

	values := make([]float64, 0, len(script))
	for stub.Remaining() > 0 {
		v, err := stub.Next()
		if err != nil {
			return err
		}
		values = append(values, float64(v))
	}
	summary, err := testkit.Describe(values)
	if err != nil {
		return errors.Wrap(err, "summarising script")
	}
	_, err = fmt.Fprintf(w, "%s %s: %s\n", path, column, summary)
	return err
}
