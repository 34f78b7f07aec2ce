package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/gridcalc/internal/config"
	"github.com/vk/gridcalc/internal/ctxlog"
	"github.com/vk/gridcalc/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	environ []string
}

// NewLoader creates a new HCL configuration loader that reads the process
// environment.
func NewLoader() *Loader {
	return &Loader{environ: os.Environ()}
}

// NewLoaderWithEnv creates a loader that sees only environ (KEY=value pairs).
func NewLoaderWithEnv(environ []string) *Loader {
	return &Loader{environ: environ}
}

// fileRoot is used to decode all top-level blocks of a config file.
type fileRoot struct {
	Server *serverBlock `hcl:"server,block"`
	Engine *engineBlock `hcl:"engine,block"`
	Remain hcl.Body     `hcl:",remain"`
}

type serverBlock struct {
	Listen          *string  `hcl:"listen,optional"`
	ReadTimeout     *string  `hcl:"read_timeout,optional"`
	WriteTimeout    *string  `hcl:"write_timeout,optional"`
	ShutdownTimeout *string  `hcl:"shutdown_timeout,optional"`
	CORSOrigins     []string `hcl:"cors_origins,optional"`
	SocketIO        *bool    `hcl:"socketio,optional"`
}

type engineBlock struct {
	Workers *int `hcl:"workers,optional"`
	MaxRows *int `hcl:"max_rows,optional"`
	MaxCols *int `hcl:"max_cols,optional"`
}

// Load parses every .hcl file found under paths, in lexical order, applying
// each on top of the defaults. Later files win.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindFilesByExtension(".hcl", paths...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	model := config.Default()
	parser := hclparse.NewParser()
	evalCtx := newEvalContext(l.environ)

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		if err := model.Apply(translate(&root)); err != nil {
			return nil, fmt.Errorf("invalid configuration in %s: %w", file, err)
		}
	}

	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Debug("HCL loading complete.", "listen", model.Server.Listen, "workers", model.Engine.Workers)
	return model, nil
}

// translate converts the HCL-specific blocks into the agnostic patch.
func translate(root *fileRoot) config.Patch {
	var p config.Patch
	if s := root.Server; s != nil {
		p.Server = config.ServerPatch{
			Listen:          s.Listen,
			ReadTimeout:     s.ReadTimeout,
			WriteTimeout:    s.WriteTimeout,
			ShutdownTimeout: s.ShutdownTimeout,
			CORSOrigins:     s.CORSOrigins,
			SocketIO:        s.SocketIO,
		}
	}
	if e := root.Engine; e != nil {
		p.Engine = config.EnginePatch{
			Workers: e.Workers,
			MaxRows: e.MaxRows,
			MaxCols: e.MaxCols,
		}
	}
	return p
}
