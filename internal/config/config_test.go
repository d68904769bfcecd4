package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 100*time.Millisecond, cfg.Tick)
	assert.Equal(t, 10*time.Second, cfg.Duration)
	assert.Equal(t, "autosave", cfg.Slot)
	assert.Equal(t, 50, cfg.Entities)
	assert.Empty(t, cfg.SaveDB)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HEARTH_TICK", "16ms")
	t.Setenv("HEARTH_SAVE_DB", "/tmp/saves.db")
	t.Setenv("HEARTH_ENTITIES", "7")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 16*time.Millisecond, cfg.Tick)
	assert.Equal(t, "/tmp/saves.db", cfg.SaveDB)
	assert.Equal(t, 7, cfg.Entities)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"unparseable", "HEARTH_ENTITIES", "lots", "parse env:"},
		{"zero tick", "HEARTH_TICK", "0s", "tick must be positive"},
		{"negative entities", "HEARTH_ENTITIES", "-1", "entities must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
