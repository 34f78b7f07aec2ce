package celladdr

import (
	"fmt"
	"strconv"
)

// limit saturates oversized letter runs and row numbers so they resolve to an
// OutOfRangeError instead of overflowing int.
const limit = 1 << 30

// Address is a zero-based grid coordinate.
type Address struct {
	Row int
	Col int
}

// String renders the address in A1 notation. Negative coordinates, which only
// appear in OutOfRangeError values, are rendered numerically.
func (a Address) String() string {
	if a.Row < 0 || a.Col < 0 {
		return fmt.Sprintf("R%dC%d", a.Row, a.Col)
	}
	return ColumnName(a.Col) + strconv.Itoa(a.Row+1)
}

// Bounds is the size of a grid.
type Bounds struct {
	Rows int
	Cols int
}

// Contains reports whether a lies inside [0,Rows)x[0,Cols).
func (b Bounds) Contains(a Address) bool {
	return a.Row >= 0 && a.Row < b.Rows && a.Col >= 0 && a.Col < b.Cols
}

// Len returns the number of cells covered by the bounds.
func (b Bounds) Len() int {
	return b.Rows * b.Cols
}

// Index returns the row-major offset of a.
func (b Bounds) Index(a Address) int {
	return a.Row*b.Cols + a.Col
}

// At returns the address for a row-major offset.
func (b Bounds) At(i int) Address {
	return Address{Row: i / b.Cols, Col: i % b.Cols}
}

// ColumnName returns the letters for a zero-based column index.
func ColumnName(col int) string {
	if col < 0 {
		return ""
	}
	var buf [8]byte
	i := len(buf)
	for n := col + 1; n > 0; n = (n - 1) / 26 {
		i--
		buf[i] = byte('A' + (n-1)%26)
	}
	return string(buf[i:])
}

// ColumnIndex converts uppercase column letters to a zero-based index.
func ColumnIndex(letters string) (int, error) {
	if letters == "" {
		return 0, &SyntaxError{Ref: letters, Reason: "missing column letters"}
	}
	n := 0
	for i := 0; i < len(letters); i++ {
		c := letters[i]
		if c < 'A' || c > 'Z' {
			return 0, &SyntaxError{Ref: letters, Reason: fmt.Sprintf("invalid column letter %q", c)}
		}
		if n < limit {
			n = n*26 + int(c-'A') + 1
		}
	}
	return n - 1, nil
}

// rowIndex converts a 1-based row number to a zero-based index. "0" yields -1.
func rowIndex(digits string) (int, error) {
	if digits == "" {
		return 0, &SyntaxError{Ref: digits, Reason: "missing row number"}
	}
	n := 0
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		if c < '0' || c > '9' {
			return 0, &SyntaxError{Ref: digits, Reason: fmt.Sprintf("invalid row digit %q", c)}
		}
		if n < limit {
			n = n*10 + int(c-'0')
		}
	}
	return n - 1, nil
}

// Resolve turns the letters and digits of a reference into an address and
// checks it against the grid bounds.
func Resolve(letters, digits string, b Bounds) (Address, error) {
	col, err := ColumnIndex(letters)
	if err != nil {
		return Address{}, err
	}
	row, err := rowIndex(digits)
	if err != nil {
		return Address{}, err
	}
	addr := Address{Row: row, Col: col}
	if !b.Contains(addr) {
		return addr, &OutOfRangeError{Ref: letters + digits, Row: row, Col: col}
	}
	return addr, nil
}

// Parse reads a reference such as "B2" or "AA10" without any bounds check.
// Row zero is rejected because it has no grid coordinate.
func Parse(ref string) (Address, error) {
	split := 0
	for split < len(ref) && ref[split] >= 'A' && ref[split] <= 'Z' {
		split++
	}
	letters, digits := ref[:split], ref[split:]
	if letters == "" || digits == "" {
		return Address{}, &SyntaxError{Ref: ref, Reason: "expected column letters followed by a row number"}
	}
	col, err := ColumnIndex(letters)
	if err != nil {
		return Address{}, &SyntaxError{Ref: ref, Reason: err.(*SyntaxError).Reason}
	}
	row, err := rowIndex(digits)
	if err != nil {
		return Address{}, &SyntaxError{Ref: ref, Reason: err.(*SyntaxError).Reason}
	}
	if row < 0 {
		return Address{}, &SyntaxError{Ref: ref, Reason: "row numbers start at 1"}
	}
	return Address{Row: row, Col: col}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(ref string) Address {
	a, err := Parse(ref)
	if err != nil {
		panic(err)
	}
	return a
}
