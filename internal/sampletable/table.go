package sampletable

import (
	"strconv"

	"seedrand/domain/geometry"
	"seedrand/internal/errors"
	"seedrand/ports"
)

// Column names, in table order.
const (
	ColIndex    = "index"
	ColNextInt  = "next_int"
	ColDouble   = "double"
	ColFraction = "fraction"
)

// Headers lists every column of a sample table.
var Headers = []string{
	ColIndex, ColNextInt, ColDouble, ColFraction,
	"sphere_x", "sphere_y", "sphere_z",
	"circle_x", "circle_y",
	"surface_x", "surface_y", "surface_z",
	"rotation_x", "rotation_y", "rotation_z", "rotation_w",
	"color_r", "color_g", "color_b", "color_a",
}

// Source is what Generate draws from.
type Source interface {
	ports.UniformSource
	ports.Sampler
}

// Table is a captured run of draws. Rows hold formatted strings in header
// order; NextInts keeps the next_int column for replay.
type Table struct {
	Headers  []string
	Rows     [][]string
	NextInts []int
}

type Config struct {
	Rows int
	// StartIndex is the index column value of the first row.
	StartIndex int
	Color      geometry.HSVRange
}

func DefaultConfig() Config {
	return Config{
		Rows:  256,
		Color: geometry.DefaultHSVRange(),
	}
}

// Partition splits cfg into workers consecutive slices. Earlier slices take
// the remainder, and StartIndex continues across slices.
func Partition(cfg Config, workers int) ([]Config, error) {
	if workers <= 0 {
		return nil, errors.InvalidInput("workers must be > 0")
	}
	if workers > cfg.Rows {
		return nil, errors.InvalidInput("more workers than rows")
	}

	parts := make([]Config, workers)
	start := cfg.StartIndex
	for i := range parts {
		rows := cfg.Rows / workers
		if i < cfg.Rows%workers {
			rows++
		}
		parts[i] = cfg
		parts[i].Rows = rows
		parts[i].StartIndex = start
		start += rows
	}
	return parts, nil
}

// Generate draws cfg.Rows rows from src. Each row consumes its draws in
// column order, so the same seed always yields the same table.
func Generate(cfg Config, src Source) (*Table, error) {
	if cfg.Rows <= 0 {
		return nil, errors.InvalidInput("rows must be > 0")
	}

	t := &Table{
		Headers:  Headers,
		Rows:     make([][]string, 0, cfg.Rows),
		NextInts: make([]int, 0, cfg.Rows),
	}
	for i := 0; i < cfg.Rows; i++ {
		row, next, err := drawRow(cfg, src, cfg.StartIndex+i)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", cfg.StartIndex+i)
		}
		t.Rows = append(t.Rows, row)
		t.NextInts = append(t.NextInts, next)
	}
	return t, nil
}

func drawRow(cfg Config, src Source, index int) ([]string, int, error) {
	next, err := src.Next()
	if err != nil {
		return nil, 0, err
	}
	double, err := src.NextDouble()
	if err != nil {
		return nil, 0, err
	}
	fraction, err := src.Value()
	if err != nil {
		return nil, 0, err
	}
	sphere, err := src.InsideUnitSphere()
	if err != nil {
		return nil, 0, err
	}
	circle, err := src.InsideUnitCircle()
	if err != nil {
		return nil, 0, err
	}
	surface, err := src.OnUnitSphere()
	if err != nil {
		return nil, 0, err
	}
	rot, err := src.Rotation()
	if err != nil {
		return nil, 0, err
	}
	color, err := src.ColorHSV(cfg.Color)
	if err != nil {
		return nil, 0, err
	}

	row := make([]string, 0, len(Headers))
	row = append(row, strconv.Itoa(index), strconv.Itoa(next))
	row = append(row, fToStr(double), strconv.FormatFloat(float64(fraction), 'g', -1, 32))
	row = append(row, fToStr(sphere.X), fToStr(sphere.Y), fToStr(sphere.Z))
	row = append(row, fToStr(circle.X), fToStr(circle.Y))
	row = append(row, fToStr(surface.X), fToStr(surface.Y), fToStr(surface.Z))
	row = append(row, fToStr(rot.Imag), fToStr(rot.Jmag), fToStr(rot.Kmag), fToStr(rot.Real))
	row = append(row, fToStr(color.R), fToStr(color.G), fToStr(color.B), fToStr(color.A))
	return row, next, nil
}

// Append adds other's rows after t's.
func (t *Table) Append(other *Table) {
	t.Rows = append(t.Rows, other.Rows...)
	t.NextInts = append(t.NextInts, other.NextInts...)
}

// Concat joins tables in order into a new table.
func Concat(tables ...*Table) *Table {
	out := &Table{Headers: Headers}
	for _, t := range tables {
		out.Append(t)
	}
	return out
}

// shortest representation that parses back to the same float64
func fToStr(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
