// Package resultstore provides an ephemeral, thread-safe, write-once store
// for per-cell evaluation results.
//
// # Purpose
//
// The evaluator memoizes every cell it computes so that a cell referenced by
// many formulas is evaluated exactly once. Workers evaluating independent
// parts of the graph write concurrently, and dependents read the values of
// their already-completed dependencies.
//
// # Concurrency Model
//
// Results live in a sync.Map keyed by cell address. Set uses LoadOrStore, so
// the first write for an address wins and later writes are rejected; this is
// the per-cell completion flag. The key space is known up front (one entry
// per cell) and each key is written once and read many times, which is the
// access pattern sync.Map is optimized for.
//
// A Store is created per evaluation request and discarded afterwards.
package resultstore
