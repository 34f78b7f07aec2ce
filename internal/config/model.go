package config

import (
	"errors"
	"fmt"
	"time"
)

// Model is the unified, format-agnostic representation of the application
// configuration.
type Model struct {
	Server Server
	Engine Engine
}

// Server configures the HTTP and socket.io listener.
type Server struct {
	Listen          string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	SocketIO        bool
}

// Engine configures evaluation.
type Engine struct {
	Workers int
	MaxRows int
	MaxCols int
}

// Default returns the built-in configuration.
func Default() *Model {
	return &Model{
		Server: Server{
			Listen:          "localhost:5000",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			CORSOrigins:     []string{"*"},
			SocketIO:        true,
		},
		Engine: Engine{
			Workers: 4,
			MaxRows: 10,
			MaxCols: 10,
		},
	}
}

// Patch is a partial configuration. Nil fields leave the model unchanged.
type Patch struct {
	Server ServerPatch
	Engine EnginePatch
}

// ServerPatch holds optional server settings. Durations use time.ParseDuration syntax.
type ServerPatch struct {
	Listen          *string
	ReadTimeout     *string
	WriteTimeout    *string
	ShutdownTimeout *string
	CORSOrigins     []string
	SocketIO        *bool
}

// EnginePatch holds optional engine settings.
type EnginePatch struct {
	Workers *int
	MaxRows *int
	MaxCols *int
}

// Apply merges p into m. It returns an error for unparsable durations.
func (m *Model) Apply(p Patch) error {
	s := p.Server
	if s.Listen != nil {
		m.Server.Listen = *s.Listen
	}
	for _, d := range []struct {
		name string
		src  *string
		dst  *time.Duration
	}{
		{"read_timeout", s.ReadTimeout, &m.Server.ReadTimeout},
		{"write_timeout", s.WriteTimeout, &m.Server.WriteTimeout},
		{"shutdown_timeout", s.ShutdownTimeout, &m.Server.ShutdownTimeout},
	} {
		if d.src == nil {
			continue
		}
		v, err := time.ParseDuration(*d.src)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", d.name, *d.src, err)
		}
		*d.dst = v
	}
	if s.CORSOrigins != nil {
		m.Server.CORSOrigins = append([]string(nil), s.CORSOrigins...)
	}
	if s.SocketIO != nil {
		m.Server.SocketIO = *s.SocketIO
	}

	e := p.Engine
	if e.Workers != nil {
		m.Engine.Workers = *e.Workers
	}
	if e.MaxRows != nil {
		m.Engine.MaxRows = *e.MaxRows
	}
	if e.MaxCols != nil {
		m.Engine.MaxCols = *e.MaxCols
	}
	return nil
}

// Validate checks the model for values the application cannot run with.
func (m *Model) Validate() error {
	var errs []error
	if m.Engine.Workers < 1 {
		errs = append(errs, fmt.Errorf("engine.workers must be at least 1, got %d", m.Engine.Workers))
	}
	if m.Engine.MaxRows < 1 || m.Engine.MaxCols < 1 {
		errs = append(errs, fmt.Errorf("engine.max_rows and engine.max_cols must be at least 1, got %dx%d", m.Engine.MaxRows, m.Engine.MaxCols))
	}
	for _, d := range []struct {
		name string
		v    time.Duration
	}{
		{"read_timeout", m.Server.ReadTimeout},
		{"write_timeout", m.Server.WriteTimeout},
		{"shutdown_timeout", m.Server.ShutdownTimeout},
	} {
		if d.v < 0 {
			errs = append(errs, fmt.Errorf("server.%s must not be negative", d.name))
		}
	}
	return errors.Join(errs...)
}
