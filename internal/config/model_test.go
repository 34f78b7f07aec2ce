package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestDefault(t *testing.T) {
	m := Default()
	require.NoError(t, m.Validate())
	assert.Equal(t, 10, m.Engine.MaxRows)
	assert.Equal(t, 10, m.Engine.MaxCols)
	assert.Equal(t, []string{"*"}, m.Server.CORSOrigins)
	assert.True(t, m.Server.SocketIO)
}

func TestApply(t *testing.T) {
	t.Run("overrides only the set fields", func(t *testing.T) {
		m := Default()
		err := m.Apply(Patch{
			Server: ServerPatch{Listen: ptr(":9000"), ReadTimeout: ptr("2s"), SocketIO: ptr(false)},
			Engine: EnginePatch{Workers: ptr(8)},
		})
		require.NoError(t, err)

		assert.Equal(t, ":9000", m.Server.Listen)
		assert.Equal(t, 2*time.Second, m.Server.ReadTimeout)
		assert.Equal(t, 10*time.Second, m.Server.WriteTimeout)
		assert.False(t, m.Server.SocketIO)
		assert.Equal(t, 8, m.Engine.Workers)
		assert.Equal(t, 10, m.Engine.MaxRows)
	})

	t.Run("rejects bad durations", func(t *testing.T) {
		m := Default()
		err := m.Apply(Patch{Server: ServerPatch{ShutdownTimeout: ptr("soon")}})
		assert.ErrorContains(t, err, "invalid shutdown_timeout")
	})
}

func TestValidate(t *testing.T) {
	m := Default()
	m.Engine.Workers = 0
	m.Engine.MaxCols = 0
	m.Server.ReadTimeout = -time.Second

	err := m.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "engine.workers")
	assert.ErrorContains(t, err, "engine.max_rows and engine.max_cols")
	assert.ErrorContains(t, err, "server.read_timeout")
}
