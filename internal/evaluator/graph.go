package evaluator

import (
	"context"
	"fmt"

	"github.com/vk/gridcalc/internal/ctxlog"
	"github.com/vk/gridcalc/internal/dag"
	"github.com/vk/gridcalc/internal/sheet"
)

// buildGraph adds a node for every cell, resolves the references of each
// formula cell once, and links each formula to the cells it references.
// Unresolvable references are recorded on the cell, which then has no edges.
func buildGraph(ctx context.Context, grid *sheet.Grid) (*dag.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.")
	g := dag.New()
	bounds := grid.Bounds()

	// First pass: create all nodes.
	for i := 0; i < grid.Len(); i++ {
		g.AddNode(bounds.At(i))
	}
	logger.Debug("Build: Node creation complete.", "node_count", g.Len())

	// Second pass: link dependencies.
	edges := 0
	for i := 0; i < grid.Len(); i++ {
		cell := grid.At(bounds.At(i))
		for _, ref := range cell.ResolveRefs(bounds) {
			if err := g.AddEdge(ref, cell.Addr); err != nil {
				return nil, fmt.Errorf("linking %s to %s: %w", cell.Addr, ref, err)
			}
			edges++
		}
		if cell.Err != nil && cell.Err.Kind == sheet.OutOfRange {
			logger.Debug("Build: Reference out of range.", "cell", cell.Addr.String(), "error", cell.Err)
		}
	}
	logger.Debug("Build: Node linking complete.", "edge_count", edges)
	return g, nil
}
