package dag

import (
	"fmt"
	"sort"

	"github.com/vk/gridcalc/internal/celladdr"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[celladdr.Address]*node),
	}
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.nodes)
}

// AddNode adds a node for id. Adding an existing node does nothing.
func (g *Graph) AddNode(id celladdr.Address) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return
	}
	n := &node{id: id, edges: make(map[celladdr.Address]bool)}
	g.nodes[id] = n
	g.order = append(g.order, n)
}

// AddEdge records that toID depends on fromID. Self edges are allowed and
// form a cycle of length one. Duplicate edges are ignored.
func (g *Graph) AddEdge(fromID, toID celladdr.Address) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}
	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}
	if toNode.edges[fromID] {
		return nil
	}
	toNode.edges[fromID] = true
	toNode.deps = append(toNode.deps, fromNode)
	fromNode.dependents = append(fromNode.dependents, toNode)
	return nil
}

// Dependencies returns the addresses id depends on.
func (g *Graph) Dependencies(id celladdr.Address) ([]celladdr.Address, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return ids(n.deps), nil
}

// Dependents returns the addresses that depend on id.
func (g *Graph) Dependents(id celladdr.Address) ([]celladdr.Address, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return ids(n.dependents), nil
}

// DetectCycles returns an error naming the cells on cycles, or nil.
func (g *Graph) DetectCycles() error {
	a, err := g.Analyze()
	if err != nil {
		return err
	}
	if len(a.Cyclic) == 0 {
		return nil
	}
	cells := make([]celladdr.Address, 0, len(a.Cyclic))
	for id := range a.Cyclic {
		cells = append(cells, id)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Col < cells[j].Col
	})
	return fmt.Errorf("cycle detected involving %v", cells)
}

func ids(nodes []*node) []celladdr.Address {
	out := make([]celladdr.Address, len(nodes))
	for i, n := range nodes {
		out[i] = n.id
	}
	return out
}
