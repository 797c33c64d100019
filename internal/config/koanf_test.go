package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewKoanf_EnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("GO_SERVER=:9000\nLOG_LEVEL=debug\n"), 0o600))
	t.Setenv("LOG_LEVEL", "warn")

	k := NewKoanf(path, zap.NewNop())

	assert.Equal(t, ":9000", k.String("GO_SERVER"))
	assert.Equal(t, "warn", k.String("LOG_LEVEL"))
}

func TestNewKoanf_MissingFile(t *testing.T) {
	t.Setenv("GO_SERVER", ":7000")

	k := NewKoanf(filepath.Join(t.TempDir(), "absent.env"), zap.NewNop())

	assert.Equal(t, ":7000", k.String("GO_SERVER"))
}
