// Package hcl provides the HCL implementation of config.Loader and the HCL
// grid file format.
//
// Configuration files hold optional `server` and `engine` blocks:
//
//	server {
//	  listen       = "localhost:5000"
//	  read_timeout = "10s"
//	  cors_origins = ["*"]
//	  socketio     = true
//	}
//
//	engine {
//	  workers  = 4
//	  max_rows = 10
//	  max_cols = 10
//	}
//
// Grid files hold a single `grid` block whose `rows` attribute is a list of
// rows. Cells may be strings, numbers or null:
//
//	grid {
//	  rows = [
//	    ["=B2+5", "=A1-3.5"],
//	    ["=A1", 42],
//	  ]
//	}
//
// Both formats evaluate expressions with the process environment available
// as the `env` object and the `env(name)` function, e.g.
// `listen = "0.0.0.0:${env.PORT}"`.
package hcl
