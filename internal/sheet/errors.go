package sheet

import (
	"errors"
	"fmt"

	"github.com/vk/gridcalc/internal/celladdr"
)

// Request-level failures.
var (
	ErrEmptyMatrix = errors.New("empty matrix provided")
	ErrRagged      = errors.New("matrix rows have different lengths")
	ErrTooLarge    = errors.New("matrix exceeds the configured size limit")
)

// Evaluation failures wrapped by CellError.
var (
	ErrDivisionByZero    = errors.New("division by zero")
	ErrCircularReference = errors.New("circular reference")
	ErrDependency        = errors.New("depends on a failed cell")
	ErrNonFinite         = errors.New("result is not a finite number")
)

// ErrorKind classifies a per-cell failure.
type ErrorKind int

const (
	LexError ErrorKind = iota + 1
	ParseError
	OutOfRange
	DivisionByZero
	CircularReference
	DependencyError
	NonFinite
)

var errorKindInfo = map[ErrorKind]struct{ name, code string }{
	LexError:          {"LexError", "#LEX!"},
	ParseError:        {"ParseError", "#PARSE!"},
	OutOfRange:        {"OutOfRangeError", "#REF!"},
	DivisionByZero:    {"DivisionByZero", "#DIV/0!"},
	CircularReference: {"CircularReference", "#CYCLE!"},
	DependencyError:   {"DependencyError", "#DEP!"},
	NonFinite:         {"NonFinite", "#NUM!"},
}

func (k ErrorKind) String() string {
	if info, ok := errorKindInfo[k]; ok {
		return info.name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Code is the short spreadsheet-style marker shown in place of a value.
func (k ErrorKind) Code() string {
	if info, ok := errorKindInfo[k]; ok {
		return info.code
	}
	return "#ERR!"
}

// CellError is the failure attached to a single cell.
type CellError struct {
	Kind ErrorKind
	Err  error
	// Source is the upstream cell whose failure caused a DependencyError.
	Source *celladdr.Address
}

func (e *CellError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind.Code(), e.Err)
}

func (e *CellError) Unwrap() error { return e.Err }

// NewCellError wraps err with the given kind.
func NewCellError(kind ErrorKind, err error) *CellError {
	return &CellError{Kind: kind, Err: err}
}

// DependencyFailure builds the error for a cell that references the failed
// cell src.
func DependencyFailure(src celladdr.Address) *CellError {
	return &CellError{
		Kind:   DependencyError,
		Err:    fmt.Errorf("%w %s", ErrDependency, src),
		Source: &src,
	}
}
