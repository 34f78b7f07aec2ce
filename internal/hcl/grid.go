package hcl

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/gridcalc/internal/ctxlog"
)

type gridRoot struct {
	Grid   *gridBlock `hcl:"grid,block"`
	Remain hcl.Body   `hcl:",remain"`
}

type gridBlock struct {
	Rows hcl.Expression `hcl:"rows"`
}

// LoadGrid reads an HCL grid file and returns its cell text matrix.
func (l *Loader) LoadGrid(ctx context.Context, path string) ([][]string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read HCL grid %s: %w", path, err)
	}
	return l.ParseGrid(ctx, src, path)
}

// ParseGrid decodes HCL grid source. filename is used in diagnostics.
func (l *Loader) ParseGrid(ctx context.Context, src []byte, filename string) ([][]string, error) {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var root gridRoot
	evalCtx := newEvalContext(l.environ)
	diags = gohcl.DecodeBody(file.Body, evalCtx, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}
	if root.Grid == nil {
		return nil, fmt.Errorf("HCL file %s has no grid block", filename)
	}

	val, diags := root.Grid.Rows.Value(evalCtx)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to evaluate rows in %s: %w", filename, diags)
	}
	matrix, err := toMatrix(val)
	if err != nil {
		return nil, fmt.Errorf("invalid rows in %s: %w", filename, err)
	}
	logger.Debug("HCL grid decoded.", "file", filename, "rows", len(matrix))
	return matrix, nil
}

func toMatrix(val cty.Value) ([][]string, error) {
	if val.IsNull() || !val.IsKnown() || !isSequence(val.Type()) {
		return nil, fmt.Errorf("rows must be a list of lists, got %s", val.Type().FriendlyName())
	}
	var matrix [][]string
	for it := val.ElementIterator(); it.Next(); {
		_, row := it.Element()
		r := len(matrix) + 1
		if row.IsNull() || !isSequence(row.Type()) {
			return nil, fmt.Errorf("row %d must be a list, got %s", r, row.Type().FriendlyName())
		}
		cells := make([]string, 0, row.LengthInt())
		for cit := row.ElementIterator(); cit.Next(); {
			_, cell := cit.Element()
			text, err := cellText(cell)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %d: %w", r, len(cells)+1, err)
			}
			cells = append(cells, text)
		}
		matrix = append(matrix, cells)
	}
	return matrix, nil
}

func isSequence(ty cty.Type) bool {
	return ty.IsTupleType() || ty.IsListType()
}

// cellText converts a cty cell to raw text: strings as-is, numbers in
// plain decimal, null as an empty cell.
func cellText(v cty.Value) (string, error) {
	if v.IsNull() {
		return "", nil
	}
	switch v.Type() {
	case cty.String:
		return v.AsString(), nil
	case cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return "", err
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
	return "", fmt.Errorf("unsupported cell type %s", v.Type().FriendlyName())
}
