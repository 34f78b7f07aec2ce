package sheet

import (
	"errors"

	"github.com/vk/gridcalc/internal/celladdr"
	"github.com/vk/gridcalc/internal/formula"
)

// CellKind is the derived type of a cell's raw text.
type CellKind int

const (
	Empty CellKind = iota
	Number
	Formula
)

func (k CellKind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Number:
		return "number"
	case Formula:
		return "formula"
	}
	return "unknown"
}

// Cell is one grid position.
type Cell struct {
	Addr celladdr.Address
	Raw  string
	Kind CellKind
	// Value is set for Number cells.
	Value float64
	// Expr is set for Formula cells that parsed.
	Expr formula.Expr
	// Err is set when the text failed to lex or parse, or a reference could
	// not be resolved.
	Err *CellError
}

// CellResult is the outcome of evaluating a cell.
type CellResult struct {
	Value float64
	Err   *CellError
}

// OK reports whether the cell evaluated to a number.
func (r CellResult) OK() bool { return r.Err == nil }

// Ok returns a successful result.
func Ok(v float64) CellResult { return CellResult{Value: v} }

// Fail returns a failed result.
func Fail(err *CellError) CellResult { return CellResult{Err: err} }

// ParseCell derives the kind of raw. A formula that fails to lex or parse
// yields a Formula cell with Err set.
func ParseCell(raw string) Cell {
	c := Cell{Raw: raw}
	switch {
	case formula.IsBlank(raw):
		c.Kind = Empty
	case formula.IsFormula(raw):
		c.Kind = Formula
		expr, err := formula.Parse(raw)
		if err != nil {
			c.Err = classify(err)
			return c
		}
		c.Expr = expr
	default:
		c.Kind = Number
		v, err := formula.ParseLiteral(raw)
		if err != nil {
			c.Err = classify(err)
			return c
		}
		c.Value = v
	}
	return c
}

// ResolveRefs binds every reference in a formula cell to a coordinate inside
// b. An out-of-range reference is recorded on the cell.
func (c *Cell) ResolveRefs(b celladdr.Bounds) []celladdr.Address {
	if c.Kind != Formula || c.Err != nil {
		return nil
	}
	if err := formula.Resolve(c.Expr, b); err != nil {
		c.Err = classify(err)
		return nil
	}
	seen := make(map[celladdr.Address]bool)
	var out []celladdr.Address
	for _, r := range formula.Refs(c.Expr) {
		if !seen[r.Addr] {
			seen[r.Addr] = true
			out = append(out, r.Addr)
		}
	}
	return out
}

func classify(err error) *CellError {
	var (
		lexErr   *formula.LexError
		parseErr *formula.ParseError
		rangeErr *celladdr.OutOfRangeError
	)
	switch {
	case errors.As(err, &lexErr):
		return NewCellError(LexError, err)
	case errors.As(err, &rangeErr):
		return NewCellError(OutOfRange, err)
	case errors.As(err, &parseErr):
		return NewCellError(ParseError, err)
	}
	return NewCellError(ParseError, err)
}
