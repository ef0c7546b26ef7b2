package sampletable

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"seedrand/internal/errors"

	"github.com/xuri/excelize/v2"
)

const sheet = "Sheet1"

// Encodings understood by Encode
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Encode renders t in format. CSV is the canonical encoding content hashes
// are taken over.
func Encode(format string, t *Table) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case FormatCSV:
		err = WriteCSV(&buf, t)
	case FormatXLSX:
		err = WriteXLSX(&buf, t)
	default:
		return nil, errors.InvalidInput("unknown table format " + format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "encoding %s", format)
	}
	return buf.Bytes(), nil
}

func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Headers); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes t as a workbook with a single sheet. Numeric columns are
// stored as numbers.
func WriteXLSX(w io.Writer, t *Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return err
		}
		f.SetActiveSheet(idx)
	}

	for i, h := range t.Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for r, row := range t.Rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, cellValue(v)); err != nil {
				return err
			}
		}
	}

	_, err := f.WriteTo(w)
	return err
}

func cellValue(v string) any {
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	if x, err := strconv.ParseFloat(v, 64); err == nil {
		return x
	}
	return v
}

// ReadScript reads an integer column from a CSV or XLSX sample table, in
// row order. The result is a script for doubles.NewStubRandom.
func ReadScript(path, column string) ([]int, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = readXLSX(path)
	default:
		rows, err = readCSV(path)
	}
	if err != nil {
		return nil, errors.IOError(path, err)
	}
	if len(rows) == 0 {
		return nil, errors.InvalidInput(path + " is empty")
	}

	col := -1
	for i, h := range rows[0] {
		if strings.TrimSpace(h) == column {
			col = i
			break
		}
	}
	if col == -1 {
		return nil, errors.NotFound("column " + column)
	}

	script := make([]int, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if col >= len(row) {
			return nil, errors.InvalidInput("row " + strconv.Itoa(i+2) + " has no " + column + " value")
		}
		v, err := strconv.Atoi(strings.TrimSpace(row[col]))
		if err != nil {
			return nil, errors.Wrapf(errors.InvalidInput(err.Error()), "row %d of %s", i+2, path)
		}
		script = append(script, v)
	}
	return script, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return csv.NewReader(f).ReadAll()
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := f.GetSheetName(0)
	if name == "" {
		name = sheet
	}
	return f.GetRows(name)
}
