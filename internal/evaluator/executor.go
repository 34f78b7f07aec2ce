package evaluator

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/vk/gridcalc/internal/celladdr"
	"github.com/vk/gridcalc/internal/ctxlog"
	"github.com/vk/gridcalc/internal/dag"
	"github.com/vk/gridcalc/internal/resultstore"
	"github.com/vk/gridcalc/internal/sheet"
)

// task is the executor's view of one acyclic cell.
type task struct {
	addr       celladdr.Address
	depCount   atomic.Int32
	dependents []*task
	doneOnce   sync.Once
}

// executor evaluates acyclic cells on a worker pool. A cell is queued once
// all of its dependencies have stored a result.
type executor struct {
	grid       *sheet.Grid
	store      *resultstore.Store
	tasks      []*task
	numWorkers int
	wg         sync.WaitGroup
}

func newExecutor(grid *sheet.Grid, graph *dag.Graph, order []celladdr.Address, store *resultstore.Store, workers int) *executor {
	byAddr := make(map[celladdr.Address]*task, len(order))
	tasks := make([]*task, 0, len(order))
	for _, addr := range order {
		t := &task{addr: addr}
		byAddr[addr] = t
		tasks = append(tasks, t)
	}
	// Cells in order never depend on cyclic cells, so every dependency and
	// dependent found here is itself a task.
	for _, t := range tasks {
		deps, _ := graph.Dependencies(t.addr)
		t.depCount.Store(int32(len(deps)))
		dependents, _ := graph.Dependents(t.addr)
		for _, d := range dependents {
			if dt, ok := byAddr[d]; ok {
				t.dependents = append(t.dependents, dt)
			}
		}
	}
	return &executor{grid: grid, store: store, tasks: tasks, numWorkers: workers}
}

// Run evaluates every task and returns when all have completed. It respects
// the cancellation signal from the provided context.
func (e *executor) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	readyChan := make(chan *task, len(e.tasks))

	logger.Debug("Initializing executor, finding root cells...")
	roots := 0
	for _, t := range e.tasks {
		if t.depCount.Load() == 0 {
			readyChan <- t
			roots++
		}
	}
	logger.Debug("Found all root cells.", "count", roots)

	e.wg.Add(len(e.tasks))

	logger.Debug("Starting worker pool.", "workers", e.numWorkers)
	for i := 0; i < e.numWorkers; i++ {
		go e.worker(ctx, readyChan, i)
	}

	e.wg.Wait()
	close(readyChan)
	logger.Debug("All cells completed.")

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("evaluation canceled: %w", err)
	}
	return nil
}

func (e *executor) finish(t *task) {
	t.doneOnce.Do(e.wg.Done)
}

// skipDependents marks every downstream task as finished without evaluating
// it. Used only when the context is canceled.
func (e *executor) skipDependents(t *task) {
	for _, d := range t.dependents {
		d.doneOnce.Do(func() {
			e.wg.Done()
			e.skipDependents(d)
		})
	}
}

// worker is the core processing loop for a single concurrent worker.
func (e *executor) worker(ctx context.Context, readyChan chan *task, workerID int) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "workerID", workerID)

	for t := range readyChan {
		if ctx.Err() != nil {
			logger.Debug("Context canceled, skipping cell.", "workerID", workerID, "cell", t.addr.String())
			e.finish(t)
			e.skipDependents(t)
			continue
		}

		res := evalCell(e.grid.At(t.addr), e.store.Get)
		e.store.Set(t.addr, res)

		for _, d := range t.dependents {
			if d.depCount.Add(-1) == 0 {
				readyChan <- d
			}
		}
		e.finish(t)
	}
	logger.Debug("Worker finished.", "workerID", workerID)
}
