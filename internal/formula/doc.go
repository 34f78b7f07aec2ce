// Package formula tokenizes and parses the cell expression language.
//
// A cell is either blank, a decimal literal (optionally negative), or a formula
// introduced by "=". Formulas combine numbers, A1 references, the operators
// + - * / and parentheses. Unary minus and parentheses bind tightest, then
// * and /, then + and -. Binary operators are left-associative.
//
// Every position reported by this package is a zero-based byte offset into
// the original cell text.
package formula
