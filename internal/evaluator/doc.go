// Package evaluator computes a result for every cell of a sheet.Grid.
//
// Evaluation runs in three phases: build the dependency graph (resolving
// every reference against the grid bounds), analyze it to find an order and
// the cells tainted by cycles, then compute each remaining cell exactly once.
// With more than one worker, cells whose dependencies have completed are fed
// to a pool of goroutines through a ready channel, so independent parts of
// the grid are computed concurrently.
package evaluator
