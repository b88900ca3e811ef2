package aoi

import (
	"github.com/spf13/viper"

	"github.com/tutumagi/aoigroup/logger"
)

// GroupConfig 从配置表构建 group 用
type GroupConfig struct {
	MaxWatchRange []float64 `mapstructure:"max_watch_range"`
}

// LoadGroupConfig reads the aoi section from v, e.g.
//
//	aoi:
//	  max_watch_range: [20, 20]
func LoadGroupConfig(v *viper.Viper) (*GroupConfig, error) {
	v.SetDefault("aoi.max_watch_range", []float64{100, 100})

	cfg := &GroupConfig{}
	if err := v.UnmarshalKey("aoi", cfg); err != nil {
		logger.Errorf("aoi: unmarshal group config failed: %s", err)
		return nil, err
	}

	return cfg, nil
}

// NewGroupFromConfig 配置非法时和 NewGroup 一样直接 panic
func NewGroupFromConfig(v *viper.Viper) (*Group, error) {
	cfg, err := LoadGroupConfig(v)
	if err != nil {
		return nil, err
	}

	maxWatchRange := make([]Coord, len(cfg.MaxWatchRange))
	for i, r := range cfg.MaxWatchRange {
		maxWatchRange[i] = Coord(r)
	}

	return NewGroup(maxWatchRange), nil
}
