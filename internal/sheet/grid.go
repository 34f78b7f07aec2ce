package sheet

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vk/gridcalc/internal/celladdr"
	"github.com/vk/gridcalc/internal/ctxlog"
)

// Limits bounds the accepted matrix size. Zero means unlimited.
type Limits struct {
	MaxRows int
	MaxCols int
}

// DefaultLimits is the 10x10 grid of the web client.
var DefaultLimits = Limits{MaxRows: 10, MaxCols: 10}

// Grid is an R x C matrix of cells stored row-major. It is owned by a single
// evaluation request.
type Grid struct {
	bounds celladdr.Bounds
	cells  []Cell
}

// Bounds returns the grid size.
func (g *Grid) Bounds() celladdr.Bounds { return g.bounds }

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.bounds.Rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.bounds.Cols }

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.cells) }

// At returns the cell at a. The address must be inside the grid.
func (g *Grid) At(a celladdr.Address) *Cell {
	return &g.cells[g.bounds.Index(a)]
}

// Cells returns the cells in row-major order.
func (g *Grid) Cells() []Cell { return g.cells }

// Raw returns the original text matrix.
func (g *Grid) Raw() [][]string {
	out := make([][]string, g.bounds.Rows)
	for r := range out {
		out[r] = make([]string, g.bounds.Cols)
		for c := range out[r] {
			out[r][c] = g.cells[r*g.bounds.Cols+c].Raw
		}
	}
	return out
}

// ValidateShape checks that matrix is non-empty, rectangular and within lim.
func ValidateShape(matrix [][]string, lim Limits) (celladdr.Bounds, error) {
	if len(matrix) == 0 || len(matrix[0]) == 0 {
		return celladdr.Bounds{}, ErrEmptyMatrix
	}
	cols := len(matrix[0])
	for i, row := range matrix {
		if len(row) != cols {
			return celladdr.Bounds{}, fmt.Errorf("%w: row %d has %d columns, expected %d", ErrRagged, i+1, len(row), cols)
		}
	}
	rows := len(matrix)
	if (lim.MaxRows > 0 && rows > lim.MaxRows) || (lim.MaxCols > 0 && cols > lim.MaxCols) {
		return celladdr.Bounds{}, fmt.Errorf("%w: got %dx%d, maximum is %dx%d", ErrTooLarge, rows, cols, lim.MaxRows, lim.MaxCols)
	}
	return celladdr.Bounds{Rows: rows, Cols: cols}, nil
}

// FromMatrix validates matrix and parses every cell, using up to workers
// goroutines. Cells are independent during parsing.
func FromMatrix(ctx context.Context, matrix [][]string, lim Limits, workers int) (*Grid, error) {
	logger := ctxlog.FromContext(ctx)

	bounds, err := ValidateShape(matrix, lim)
	if err != nil {
		return nil, err
	}
	g := &Grid{bounds: bounds, cells: make([]Cell, bounds.Len())}

	if workers < 1 {
		workers = 1
	}
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i := range g.cells {
		addr := bounds.At(i)
		raw := matrix[addr.Row][addr.Col]
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			cell := ParseCell(raw)
			cell.Addr = addr
			g.cells[i] = cell
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("parsing grid: %w", err)
	}

	logger.Debug("Grid parsed.", "rows", bounds.Rows, "cols", bounds.Cols, "workers", workers)
	return g, nil
}
