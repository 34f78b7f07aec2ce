// Package app contains the core application logic. It resolves
// configuration, owns the logger and exposes the two ways gridcalc runs:
// evaluating a matrix in-process and serving the API until shutdown.
// Entrypoints such as the CLI build on it.
package app
