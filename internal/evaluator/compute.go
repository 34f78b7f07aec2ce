package evaluator

import (
	"math"

	"github.com/vk/gridcalc/internal/celladdr"
	"github.com/vk/gridcalc/internal/formula"
	"github.com/vk/gridcalc/internal/sheet"
)

// lookupFunc returns the completed result of a referenced cell.
type lookupFunc func(celladdr.Address) (sheet.CellResult, bool)

// evalCell computes the result of one cell whose dependencies have all
// completed.
func evalCell(cell *sheet.Cell, lookup lookupFunc) sheet.CellResult {
	if cell.Err != nil {
		return sheet.Fail(cell.Err)
	}
	switch cell.Kind {
	case sheet.Number:
		return sheet.Ok(cell.Value)
	case sheet.Formula:
		v, err := compute(cell.Expr, lookup)
		if err != nil {
			return sheet.Fail(err)
		}
		return sheet.Ok(v)
	}
	return sheet.Ok(0)
}

func compute(e formula.Expr, lookup lookupFunc) (float64, *sheet.CellError) {
	switch n := e.(type) {
	case *formula.Literal:
		return n.Value, nil
	case *formula.Ref:
		res, ok := lookup(n.Addr)
		if !ok || res.Err != nil {
			return 0, sheet.DependencyFailure(n.Addr)
		}
		return res.Value, nil
	case *formula.Neg:
		v, err := compute(n.Operand, lookup)
		if err != nil {
			return 0, err
		}
		return -v, nil
	case *formula.Binary:
		l, err := compute(n.Left, lookup)
		if err != nil {
			return 0, err
		}
		r, err := compute(n.Right, lookup)
		if err != nil {
			return 0, err
		}
		var v float64
		switch n.Op {
		case formula.OpAdd:
			v = l + r
		case formula.OpSub:
			v = l - r
		case formula.OpMul:
			v = l * r
		case formula.OpDiv:
			if r == 0 {
				return 0, sheet.NewCellError(sheet.DivisionByZero, sheet.ErrDivisionByZero)
			}
			v = l / r
		}
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, sheet.NewCellError(sheet.NonFinite, sheet.ErrNonFinite)
		}
		return v, nil
	}
	return 0, sheet.NewCellError(sheet.ParseError, errUnknownNode)
}
