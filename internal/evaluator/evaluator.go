package evaluator

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vk/gridcalc/internal/celladdr"
	"github.com/vk/gridcalc/internal/ctxlog"
	"github.com/vk/gridcalc/internal/resultstore"
	"github.com/vk/gridcalc/internal/sheet"
)

var errUnknownNode = errors.New("unknown expression node")

const tracerName = "github.com/vk/gridcalc/internal/evaluator"

// Evaluator computes grids. It holds no per-request state and is safe for
// concurrent use.
type Evaluator struct {
	numWorkers int
	tracer     trace.Tracer
}

// New returns an Evaluator using up to workers goroutines per request.
// Values below 2 select the sequential path.
func New(workers int) *Evaluator {
	if workers < 1 {
		workers = 1
	}
	return &Evaluator{numWorkers: workers, tracer: otel.Tracer(tracerName)}
}

// Workers returns the configured worker count.
func (e *Evaluator) Workers() int { return e.numWorkers }

// Evaluate computes every cell of grid. The returned error is reserved for
// cancellation and internal faults; per-cell failures are reported in the
// Result.
func (e *Evaluator) Evaluate(ctx context.Context, grid *sheet.Grid) (*Result, error) {
	ctx, span := e.tracer.Start(ctx, "evaluator.Evaluate", trace.WithAttributes(
		attribute.Int("grid.rows", grid.Rows()),
		attribute.Int("grid.cols", grid.Cols()),
		attribute.Int("workers", e.numWorkers),
	))
	defer span.End()

	store, err := e.run(ctx, grid)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "evaluation failed")
		return nil, err
	}

	res, err := collect(grid.Bounds(), store)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "incomplete result")
		return nil, err
	}
	failed := len(res.Failures())
	span.SetAttributes(attribute.Int("cells.failed", failed))
	ctxlog.FromContext(ctx).Debug("Grid evaluated.", "cells", grid.Len(), "failed", failed)
	return res, nil
}

// EvaluateText evaluates standalone cell text against grid, as if it were
// an extra cell outside the grid that nothing references.
func (e *Evaluator) EvaluateText(ctx context.Context, grid *sheet.Grid, raw string) (sheet.CellResult, error) {
	store, err := e.run(ctx, grid)
	if err != nil {
		return sheet.CellResult{}, err
	}
	cell := sheet.ParseCell(raw)
	cell.ResolveRefs(grid.Bounds())
	return evalCell(&cell, store.Get), nil
}

func (e *Evaluator) run(ctx context.Context, grid *sheet.Grid) (*resultstore.Store, error) {
	logger := ctxlog.FromContext(ctx)

	graph, err := buildGraph(ctx, grid)
	if err != nil {
		return nil, fmt.Errorf("failed to build dependency graph: %w", err)
	}
	analysis, err := graph.Analyze()
	if err != nil {
		return nil, fmt.Errorf("failed to analyze dependency graph: %w", err)
	}
	logger.Debug("Dependency graph analyzed.", "ordered", len(analysis.Order), "cyclic", len(analysis.Cyclic))

	store := resultstore.New()
	for addr := range analysis.Cyclic {
		store.Set(addr, sheet.Fail(sheet.NewCellError(sheet.CircularReference, sheet.ErrCircularReference)))
	}

	if e.numWorkers < 2 || len(analysis.Order) < 2 {
		for _, addr := range analysis.Order {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			store.Set(addr, evalCell(grid.At(addr), store.Get))
		}
		return store, nil
	}

	exec := newExecutor(grid, graph, analysis.Order, store, e.numWorkers)
	if err := exec.Run(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func collect(b celladdr.Bounds, store *resultstore.Store) (*Result, error) {
	res := &Result{Bounds: b, Cells: make([][]sheet.CellResult, b.Rows)}
	for r := range res.Cells {
		res.Cells[r] = make([]sheet.CellResult, b.Cols)
		for c := range res.Cells[r] {
			addr := celladdr.Address{Row: r, Col: c}
			v, ok := store.Get(addr)
			if !ok {
				return nil, fmt.Errorf("cell %s was not evaluated", addr)
			}
			res.Cells[r][c] = v
		}
	}
	return res, nil
}
