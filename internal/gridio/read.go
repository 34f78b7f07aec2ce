package gridio

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/xuri/excelize/v2"

	"github.com/vk/gridcalc/internal/api"
	"github.com/vk/gridcalc/internal/ctxlog"
	"github.com/vk/gridcalc/internal/hcl"
)

// ReadFile loads the cell text matrix stored at path.
func ReadFile(ctx context.Context, path string) ([][]string, error) {
	logger := ctxlog.FromContext(ctx)

	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if format == HCL {
		return hcl.NewLoader().LoadGrid(ctx, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open grid file: %w", err)
	}
	defer f.Close()

	var matrix [][]string
	switch format {
	case JSON:
		matrix, err = ReadJSON(f)
	case CSV:
		matrix, err = ReadCSV(f)
	case XLSX:
		matrix, err = ReadXLSX(f)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	logger.Debug("Grid file read.", "path", path, "format", format, "rows", len(matrix))
	return matrix, nil
}

// ReadJSON accepts either {"matrix": [[...]]} or a bare array of rows.
func ReadJSON(r io.Reader) ([][]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)

	var req api.EvaluateRequest
	if len(raw) > 0 && raw[0] == '[' {
		err = json.Unmarshal(raw, &req.Matrix)
	} else {
		err = json.Unmarshal(raw, &req)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid JSON grid: %w", err)
	}
	return req.Matrix.Strings(), nil
}

// ReadCSV reads comma-separated rows. Row lengths are not checked here;
// the grid builder reports ragged input.
func ReadCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV grid: %w", err)
	}
	return rows, nil
}

// ReadXLSX reads the Source sheet written by WriteXLSX, or the first
// worksheet of any other workbook. Formula cells are returned with a leading
// '=' and the sheet is padded to a rectangle.
func ReadXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid XLSX workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	sheet := sheets[0]
	if slices.Contains(sheets, SourceSheet) {
		sheet = SourceSheet
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	out := make([][]string, len(rows))
	for r := range rows {
		out[r] = make([]string, width)
		copy(out[r], rows[r])
		for c := range width {
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			formula, err := f.GetCellFormula(sheet, name)
			if err != nil {
				return nil, fmt.Errorf("failed to read formula at %s: %w", name, err)
			}
			if formula != "" {
				out[r][c] = "=" + formula
			}
		}
	}
	return out, nil
}
