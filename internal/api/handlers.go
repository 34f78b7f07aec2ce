package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/vk/gridcalc/internal/celladdr"
	"github.com/vk/gridcalc/internal/ctxlog"
	"github.com/vk/gridcalc/internal/evaluator"
	"github.com/vk/gridcalc/internal/formula"
	"github.com/vk/gridcalc/internal/sheet"
)

const (
	maxBodyBytes     = 1 << 20
	maxListedFailure = 5
)

// requestError is a failure the client caused. It maps to 400.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status. Request errors keep their message;
// anything else is logged and hidden behind a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		ctxlog.FromContext(r.Context()).Debug("Request rejected.", "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: reqErr.msg})
		return
	}
	ctxlog.FromContext(r.Context()).Error("Request failed.", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return badRequest("invalid JSON body: %v", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctxlog.FromContext(r.Context()).Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := s.evaluate(r.Context(), req.Matrix.Strings())
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp.RequestID = w.Header().Get(requestIDHeader)
	writeJSON(w, http.StatusOK, resp)
}

// evaluate is shared by the HTTP and socket.io entry points.
func (s *Server) evaluate(ctx context.Context, matrix [][]string) (*EvaluateResponse, error) {
	grid, err := s.buildGrid(ctx, matrix, "Empty matrix provided")
	if err != nil {
		return nil, err
	}
	res, err := s.eval.Evaluate(ctx, grid)
	if err != nil {
		return nil, fmt.Errorf("evaluating grid: %w", err)
	}

	resp := NewEvaluateResponse(matrix, res)
	if !resp.Success {
		ctxlog.FromContext(ctx).Info("Grid evaluated with cell errors.", "summary", resp.Error)
	}
	return resp, nil
}

// NewEvaluateResponse renders an evaluation of matrix in the wire shape.
func NewEvaluateResponse(matrix [][]string, res *evaluator.Result) *EvaluateResponse {
	resp := &EvaluateResponse{
		Success:  res.OK(),
		Result:   res.Values(),
		Original: matrix,
	}
	if failures := res.Failures(); len(failures) > 0 {
		resp.Errors = errorMatrix(res)
		resp.Error = summarize(failures, res.Bounds.Len())
	}
	return resp
}

func (s *Server) buildGrid(ctx context.Context, matrix [][]string, emptyMsg string) (*sheet.Grid, error) {
	grid, err := sheet.FromMatrix(ctx, matrix, s.opts.Limits, s.opts.Workers)
	switch {
	case err == nil:
		return grid, nil
	case errors.Is(err, sheet.ErrEmptyMatrix):
		return nil, badRequest("%s", emptyMsg)
	case errors.Is(err, sheet.ErrRagged), errors.Is(err, sheet.ErrTooLarge):
		return nil, badRequest("%v", err)
	}
	return nil, err
}

func errorMatrix(res *evaluator.Result) [][]*CellErrorDTO {
	out := make([][]*CellErrorDTO, len(res.Cells))
	for row, cells := range res.Cells {
		out[row] = make([]*CellErrorDTO, len(cells))
		for col, c := range cells {
			if c.Err != nil {
				out[row][col] = cellErrorDTO(celladdr.Address{Row: row, Col: col}.String(), c.Err)
			}
		}
	}
	return out
}

func cellErrorDTO(cell string, err *sheet.CellError) *CellErrorDTO {
	dto := &CellErrorDTO{
		Cell:     cell,
		Kind:     err.Kind.String(),
		Code:     err.Kind.Code(),
		Message:  err.Err.Error(),
		Position: errorPosition(err),
	}
	if err.Source != nil {
		dto.Source = err.Source.String()
	}
	return dto
}

func errorPosition(err error) *int {
	var (
		lexErr   *formula.LexError
		parseErr *formula.ParseError
	)
	switch {
	case errors.As(err, &lexErr):
		return &lexErr.Pos
	case errors.As(err, &parseErr):
		return &parseErr.Pos
	}
	return nil
}

func summarize(failures []evaluator.Failure, total int) string {
	parts := make([]string, 0, maxListedFailure)
	for i, f := range failures {
		if i == maxListedFailure {
			parts = append(parts, "...")
			break
		}
		parts = append(parts, f.Addr.String()+" "+f.Err.Kind.Code())
	}
	return fmt.Sprintf("%d of %d cells failed: %s", len(failures), total, strings.Join(parts, ", "))
}

func (s *Server) handleParseCell(w http.ResponseWriter, r *http.Request) {
	var req ParseCellRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DescribeCell(string(req.Cell)))
}

// DescribeCell reports how raw would be interpreted as a cell.
func DescribeCell(raw string) ParseCellResponse {
	cell := sheet.ParseCell(raw)
	resp := ParseCellResponse{Success: cell.Err == nil, Kind: cell.Kind.String()}
	if cell.Err != nil {
		resp.Error = cell.Err.Err.Error()
		resp.ErrorKind = cell.Err.Kind.String()
		resp.Position = errorPosition(cell.Err)
		return resp
	}
	switch cell.Kind {
	case sheet.Number:
		v := cell.Value
		resp.Value = &v
	case sheet.Formula:
		resp.Expression = formula.Format(cell.Expr)
		for _, ref := range formula.Refs(cell.Expr) {
			resp.References = append(resp.References, ref.Name())
		}
	}
	return resp
}

func (s *Server) handleCellToIndex(w http.ResponseWriter, r *http.Request) {
	var req CellToIndexRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	addr, err := celladdr.Parse(req.CellRef)
	if err != nil {
		writeError(w, r, badRequest("%v", err))
		return
	}
	writeJSON(w, http.StatusOK, CellToIndexResponse{Success: true, Row: &addr.Row, Col: &addr.Col})
}

func (s *Server) handleReadCell(w http.ResponseWriter, r *http.Request) {
	var req ReadCellRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	grid, err := s.buildGrid(r.Context(), req.Matrix.Strings(), "Matrix is required")
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.eval.EvaluateText(r.Context(), grid, string(req.Cell))
	if err != nil {
		writeError(w, r, fmt.Errorf("evaluating cell: %w", err))
		return
	}
	if !res.OK() {
		writeJSON(w, http.StatusOK, ReadCellResponse{
			Error:  res.Err.Error(),
			Detail: cellErrorDTO("", res.Err),
		})
		return
	}
	v := res.Value
	writeJSON(w, http.StatusOK, ReadCellResponse{Success: true, Result: &v})
}
