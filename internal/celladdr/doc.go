// Package celladdr converts between spreadsheet A1 notation and zero-based
// grid coordinates.
//
// Columns use bijective base-26 (A=0, Z=25, AA=26, AZ=51, BA=52). Rows are the
// 1-based number written after the letters, so "A1" is row 0, column 0.
package celladdr
