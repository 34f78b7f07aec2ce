// Package sheet holds the request-scoped grid model: cells, their derived
// kinds and results, and the per-cell error taxonomy.
//
// A Grid is built from a raw text matrix with FromMatrix, which validates the
// shape and parses every cell. Parse failures stay attached to their cell and
// never abort the rest of the grid.
package sheet
