// Package gridio moves grids between files and the engine.
//
// Inputs are read as raw cell text matrices from JSON, CSV, XLSX or HCL.
// Evaluation reports are written as JSON, CSV or XLSX. The format is chosen
// from the file extension.
package gridio
