package aoi

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGroupConfig(t *testing.T) {
	v := viper.New()
	v.Set("aoi.max_watch_range", []float64{30, 40})

	cfg, err := LoadGroupConfig(v)
	require.NoError(t, err)
	assert.Equal(t, []float64{30, 40}, cfg.MaxWatchRange)

	g, err := NewGroupFromConfig(v)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Dimension())
	assert.Equal(t, []Coord{30, 40}, g.maxWatchRange)
}

func TestLoadGroupConfigDefaults(t *testing.T) {
	v := viper.New()

	cfg, err := LoadGroupConfig(v)
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 100}, cfg.MaxWatchRange)
}

func TestNewGroupInvalidConfig(t *testing.T) {
	assert.Panics(t, func() {
		NewGroup(nil)
	})
	assert.Panics(t, func() {
		NewGroup([]Coord{10, 0})
	})
	assert.Panics(t, func() {
		NewGroup([]Coord{-1})
	})
}
