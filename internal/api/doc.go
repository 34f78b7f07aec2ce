// Package api exposes the evaluation engine over HTTP and socket.io.
//
// Routes:
//
//	POST /api/evaluate       evaluate a whole matrix
//	POST /api/parse_cell     classify and parse one cell's text
//	POST /api/cell_to_index  convert an A1 reference to zero-based indices
//	POST /api/read_cell      evaluate one cell's text against a matrix
//	GET  /health             liveness probe
//	     /socket.io/         realtime "evaluate" event
//
// Every JSON response carries a `success` flag. Malformed requests answer
// 400 with a single `error` string. A well-formed matrix whose cells fail
// answers 200 with `success: false`, null entries in `result` and a parallel
// `errors` matrix describing each failure.
package api
