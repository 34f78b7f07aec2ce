// Package tomlcfg provides a TOML implementation of config.Loader.
//
// The file layout mirrors the HCL blocks:
//
//	[server]
//	listen = "localhost:5000"
//	read_timeout = "10s"
//	cors_origins = ["*"]
//	socketio = true
//
//	[engine]
//	workers = 4
//	max_rows = 10
//	max_cols = 10
package tomlcfg

import (
	"context"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/vk/gridcalc/internal/config"
	"github.com/vk/gridcalc/internal/ctxlog"
	"github.com/vk/gridcalc/internal/fsutil"
)

// Loader reads .toml configuration files.
type Loader struct{}

// NewLoader creates a new TOML configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

type fileRoot struct {
	Server serverTable `toml:"server"`
	Engine engineTable `toml:"engine"`
}

type serverTable struct {
	Listen          *string  `toml:"listen"`
	ReadTimeout     *string  `toml:"read_timeout"`
	WriteTimeout    *string  `toml:"write_timeout"`
	ShutdownTimeout *string  `toml:"shutdown_timeout"`
	CORSOrigins     []string `toml:"cors_origins"`
	SocketIO        *bool    `toml:"socketio"`
}

type engineTable struct {
	Workers *int `toml:"workers"`
	MaxRows *int `toml:"max_rows"`
	MaxCols *int `toml:"max_cols"`
}

// Load decodes every .toml file under paths in lexical order. Unknown keys
// are rejected so typos do not silently fall back to defaults.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("TOML loader started.", "path_count", len(paths))

	files, err := fsutil.FindFilesByExtension(".toml", paths...)
	if err != nil {
		return nil, err
	}

	model := config.Default()
	for _, file := range files {
		var root fileRoot
		md, err := toml.DecodeFile(file, &root)
		if err != nil {
			return nil, fmt.Errorf("failed to parse TOML file %s: %w", file, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("unknown keys in TOML file %s: %s", file, strings.Join(keys, ", "))
		}
		if err := model.Apply(root.patch()); err != nil {
			return nil, fmt.Errorf("invalid configuration in %s: %w", file, err)
		}
	}

	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Debug("TOML loading complete.", "files", len(files), "listen", model.Server.Listen)
	return model, nil
}

func (r *fileRoot) patch() config.Patch {
	return config.Patch{
		Server: config.ServerPatch{
			Listen:          r.Server.Listen,
			ReadTimeout:     r.Server.ReadTimeout,
			WriteTimeout:    r.Server.WriteTimeout,
			ShutdownTimeout: r.Server.ShutdownTimeout,
			CORSOrigins:     r.Server.CORSOrigins,
			SocketIO:        r.Server.SocketIO,
		},
		Engine: config.EnginePatch{
			Workers: r.Engine.Workers,
			MaxRows: r.Engine.MaxRows,
			MaxCols: r.Engine.MaxCols,
		},
	}
}
