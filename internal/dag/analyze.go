package dag

import (
	"errors"
	"fmt"

	"github.com/vk/gridcalc/internal/celladdr"
)

// ErrDepthExceeded means a traversal went deeper than the node count, which
// is impossible for a correctly coloured walk.
var ErrDepthExceeded = errors.New("traversal depth exceeded node count")

type color uint8

const (
	white color = iota // unvisited
	gray               // on the current DFS path
	black              // finished
)

// Analyze walks the graph depth-first along dependency edges. A dependency
// that is still gray closes a cycle; every node on that stretch of the path
// is marked cyclic. Marks are then pushed to all transitive dependents.
func (g *Graph) Analyze() (*Analysis, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	colors := make(map[*node]color, len(g.nodes))
	cyclic := make(map[celladdr.Address]bool)
	order := make([]*node, 0, len(g.nodes))
	var path []*node
	limit := len(g.nodes)

	var visit func(n *node) error
	visit = func(n *node) error {
		if len(path) >= limit {
			return fmt.Errorf("%w at %s", ErrDepthExceeded, n.id)
		}
		colors[n] = gray
		path = append(path, n)

		for _, dep := range n.deps {
			switch colors[dep] {
			case gray:
				for i := len(path) - 1; i >= 0; i-- {
					cyclic[path[i].id] = true
					if path[i] == dep {
						break
					}
				}
			case white:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		path = path[:len(path)-1]
		colors[n] = black
		order = append(order, n)
		return nil
	}

	for _, n := range g.order {
		if colors[n] == white {
			if err := visit(n); err != nil {
				return nil, err
			}
		}
	}

	// Taint everything downstream of a cycle.
	queue := make([]*node, 0, len(cyclic))
	for _, n := range g.order {
		if cyclic[n.id] {
			queue = append(queue, n)
		}
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, d := range n.dependents {
			if !cyclic[d.id] {
				cyclic[d.id] = true
				queue = append(queue, d)
			}
		}
	}

	a := &Analysis{Cyclic: cyclic}
	for _, n := range order {
		if !cyclic[n.id] {
			a.Order = append(a.Order, n.id)
		}
	}
	return a, nil
}
