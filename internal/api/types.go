package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// CellText is raw cell content. JSON strings are taken as-is, numbers are
// rendered in plain decimal and null is an empty cell.
type CellText string

func (c *CellText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*c = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = CellText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("cell must be a string, number or null, got %s", b)
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("cell number %s is out of range", n)
	}
	*c = CellText(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

// Matrix is a request matrix.
type Matrix [][]CellText

// Strings converts the matrix to plain text rows.
func (m Matrix) Strings() [][]string {
	out := make([][]string, len(m))
	for i, row := range m {
		out[i] = make([]string, len(row))
		for j, c := range row {
			out[i][j] = string(c)
		}
	}
	return out
}

// EvaluateRequest is the body of /api/evaluate and the socket.io evaluate event.
type EvaluateRequest struct {
	Matrix Matrix `json:"matrix"`
}

// CellErrorDTO describes one failed cell.
type CellErrorDTO struct {
	Cell     string `json:"cell,omitempty"`
	Kind     string `json:"kind"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Position *int   `json:"position,omitempty"`
	Source   string `json:"source,omitempty"`
}

// EvaluateResponse is returned by /api/evaluate.
type EvaluateResponse struct {
	Success   bool              `json:"success"`
	Result    [][]*float64      `json:"result,omitempty"`
	Errors    [][]*CellErrorDTO `json:"errors,omitempty"`
	Original  [][]string        `json:"original,omitempty"`
	Error     string            `json:"error,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// ParseCellRequest is the body of /api/parse_cell.
type ParseCellRequest struct {
	Cell CellText `json:"cell,omitempty"`
}

// ParseCellResponse describes a parsed cell.
type ParseCellResponse struct {
	Success    bool     `json:"success"`
	Kind       string   `json:"kind,omitempty"`
	Value      *float64 `json:"value,omitempty"`
	Expression string   `json:"expression,omitempty"`
	References []string `json:"references,omitempty"`
	Error      string   `json:"error,omitempty"`
	ErrorKind  string   `json:"error_kind,omitempty"`
	Position   *int     `json:"position,omitempty"`
}

// CellToIndexRequest is the body of /api/cell_to_index.
type CellToIndexRequest struct {
	CellRef string `json:"cell_ref"`
}

// CellToIndexResponse carries zero-based indices.
type CellToIndexResponse struct {
	Success bool   `json:"success"`
	Row     *int   `json:"row,omitempty"`
	Col     *int   `json:"col,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ReadCellRequest is the body of /api/read_cell.
type ReadCellRequest struct {
	Cell   CellText `json:"cell,omitempty"`
	Matrix Matrix   `json:"matrix"`
}

// ReadCellResponse is the value of one evaluated cell.
type ReadCellResponse struct {
	Success bool          `json:"success"`
	Result  *float64      `json:"result,omitempty"`
	Detail  *CellErrorDTO `json:"detail,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// errorResponse is the shape of every request-level failure.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
