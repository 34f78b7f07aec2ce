package gridio

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/vk/gridcalc/internal/api"
)

// Sheet names used in exported workbooks.
const (
	ResultsSheet = "Results"
	SourceSheet  = "Source"
)

// WriteFile exports resp to path in the format implied by its extension.
func WriteFile(path string, resp *api.EvaluateResponse) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	switch format {
	case JSON:
		err = WriteJSON(f, resp)
	case CSV:
		err = WriteCSV(f, resp)
	case XLSX:
		err = WriteXLSX(f, resp)
	default:
		err = fmt.Errorf("cannot export to %s", format)
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return err
}

// WriteJSON writes resp in the same shape the HTTP API returns.
func WriteJSON(w io.Writer, resp *api.EvaluateResponse) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// CellString renders one result cell: the number, or the error code of a
// failed cell.
func CellString(resp *api.EvaluateResponse, row, col int) string {
	if v := resp.Result[row][col]; v != nil {
		return strconv.FormatFloat(*v, 'f', -1, 64)
	}
	if row < len(resp.Errors) && col < len(resp.Errors[row]) && resp.Errors[row][col] != nil {
		return resp.Errors[row][col].Code
	}
	return "#ERR!"
}

// WriteCSV writes the evaluated values with error codes in failed cells.
func WriteCSV(w io.Writer, resp *api.EvaluateResponse) error {
	cw := csv.NewWriter(w)
	for r, row := range resp.Result {
		rec := make([]string, len(row))
		for c := range row {
			rec[c] = CellString(resp, r, c)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a workbook with the evaluated values on the Results sheet
// and the original cell text on the Source sheet.
func WriteXLSX(w io.Writer, resp *api.EvaluateResponse) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ResultsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(SourceSheet); err != nil {
		return err
	}
	errStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "9C0006"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFC7CE"}},
	})
	if err != nil {
		return err
	}

	for r, row := range resp.Result {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if v != nil {
				err = f.SetCellFloat(ResultsSheet, cell, *v, -1, 64)
			} else {
				err = f.SetCellStr(ResultsSheet, cell, CellString(resp, r, c))
				if err == nil {
					err = f.SetCellStyle(ResultsSheet, cell, cell, errStyle)
				}
			}
			if err != nil {
				return fmt.Errorf("failed to write %s: %w", cell, err)
			}
		}
	}
	for r, row := range resp.Original {
		for c, text := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(SourceSheet, cell, text); err != nil {
				return fmt.Errorf("failed to write source %s: %w", cell, err)
			}
		}
	}
	return f.Write(w)
}
