package evaluator

import (
	"github.com/vk/gridcalc/internal/celladdr"
	"github.com/vk/gridcalc/internal/sheet"
)

// Result is the evaluated matrix, same shape as the input grid.
type Result struct {
	Bounds celladdr.Bounds
	Cells  [][]sheet.CellResult
}

// Failure is one failed cell.
type Failure struct {
	Addr celladdr.Address
	Err  *sheet.CellError
}

// OK reports whether every cell evaluated to a number.
func (r *Result) OK() bool {
	return len(r.Failures()) == 0
}

// At returns the result for a.
func (r *Result) At(a celladdr.Address) sheet.CellResult {
	return r.Cells[a.Row][a.Col]
}

// Failures lists failed cells in row-major order.
func (r *Result) Failures() []Failure {
	var out []Failure
	for row, cells := range r.Cells {
		for col, c := range cells {
			if c.Err != nil {
				out = append(out, Failure{Addr: celladdr.Address{Row: row, Col: col}, Err: c.Err})
			}
		}
	}
	return out
}

// Values returns the numeric matrix with nil at failed cells.
func (r *Result) Values() [][]*float64 {
	out := make([][]*float64, len(r.Cells))
	for row, cells := range r.Cells {
		out[row] = make([]*float64, len(cells))
		for col, c := range cells {
			if c.Err == nil {
				v := c.Value
				out[row][col] = &v
			}
		}
	}
	return out
}
