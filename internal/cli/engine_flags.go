package cli

import (
	"github.com/spf13/pflag"

	"github.com/vk/gridcalc/internal/config"
)

// engineFlags are the evaluation settings shared by serve and eval.
type engineFlags struct {
	workers int
	maxRows int
	maxCols int
}

func (e *engineFlags) register(fs *pflag.FlagSet) {
	fs.IntVar(&e.workers, "workers", 4, "Number of concurrent evaluation workers.")
	fs.IntVar(&e.maxRows, "max-rows", 10, "Maximum number of grid rows.")
	fs.IntVar(&e.maxCols, "max-cols", 10, "Maximum number of grid columns.")
}

// patch returns only the flags the user set, so file configuration keeps
// precedence over flag defaults.
func (e *engineFlags) patch(fs *pflag.FlagSet) config.EnginePatch {
	var p config.EnginePatch
	if fs.Changed("workers") {
		p.Workers = &e.workers
	}
	if fs.Changed("max-rows") {
		p.MaxRows = &e.maxRows
	}
	if fs.Changed("max-cols") {
		p.MaxCols = &e.maxCols
	}
	return p
}
