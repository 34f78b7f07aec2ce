// Package dag holds the dependency graph between grid cells.
//
// Nodes are cell addresses. An edge from A to B records that B references A,
// so A must be evaluated first. Analyze walks the graph depth-first with
// three colours to produce an evaluation order and to mark every cell that
// sits on a cycle or depends on one.
package dag
