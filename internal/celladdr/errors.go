package celladdr

import "fmt"

// OutOfRangeError reports a reference that resolves outside the grid.
type OutOfRangeError struct {
	Ref string
	Row int
	Col int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("reference %s is out of range (row %d, col %d)", e.Ref, e.Row, e.Col)
}

// SyntaxError reports text that is not a well-formed A1 reference.
type SyntaxError struct {
	Ref    string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid cell reference %q: %s", e.Ref, e.Reason)
}
