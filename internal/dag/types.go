package dag

import (
	"sync"

	"github.com/vk/gridcalc/internal/celladdr"
)

// Graph is a collection of nodes and their dependencies.
// All operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects the nodes map during concurrent access.
	mutex sync.RWMutex
	// nodes stores all nodes in the graph, keyed by address.
	nodes map[celladdr.Address]*node
	// order keeps insertion order so traversals are deterministic.
	order []*node
}

// node is un-exported to enforce interaction with the graph through addresses.
type node struct {
	id celladdr.Address
	// deps holds the nodes this node references, in insertion order.
	deps []*node
	// dependents holds the nodes that reference this node, in insertion order.
	dependents []*node
	// edges deduplicates deps.
	edges map[celladdr.Address]bool
}

// Analysis is the result of a full traversal.
type Analysis struct {
	// Order lists acyclic nodes with every dependency before its dependents.
	Order []celladdr.Address
	// Cyclic holds nodes on a cycle and every node that transitively
	// depends on one.
	Cyclic map[celladdr.Address]bool
}
