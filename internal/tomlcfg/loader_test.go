package tomlcfg

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/gridcalc/internal/ctxlog"
)

func testContext() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func write(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gridcalc.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_Load(t *testing.T) {
	t.Run("decodes both tables", func(t *testing.T) {
		path := write(t, `
[server]
listen = ":7000"
write_timeout = "250ms"
cors_origins = ["https://example.com"]

[engine]
workers = 2
max_cols = 5
`)
		model, err := NewLoader().Load(testContext(), path)
		require.NoError(t, err)

		assert.Equal(t, ":7000", model.Server.Listen)
		assert.Equal(t, 250*time.Millisecond, model.Server.WriteTimeout)
		assert.Equal(t, []string{"https://example.com"}, model.Server.CORSOrigins)
		assert.True(t, model.Server.SocketIO)
		assert.Equal(t, 2, model.Engine.Workers)
		assert.Equal(t, 10, model.Engine.MaxRows)
		assert.Equal(t, 5, model.Engine.MaxCols)
	})

	t.Run("unknown keys are rejected", func(t *testing.T) {
		path := write(t, "[engine]\nworkerz = 2\n")
		_, err := NewLoader().Load(testContext(), path)
		assert.ErrorContains(t, err, "unknown keys")
		assert.ErrorContains(t, err, "engine.workerz")
	})

	t.Run("syntax errors", func(t *testing.T) {
		path := write(t, "[server\n")
		_, err := NewLoader().Load(testContext(), path)
		assert.ErrorContains(t, err, "failed to parse TOML file")
	})

	t.Run("validation", func(t *testing.T) {
		path := write(t, "[engine]\nmax_rows = 0\n")
		_, err := NewLoader().Load(testContext(), path)
		assert.ErrorContains(t, err, "invalid configuration")
	})
}
