package config

import (
	"fmt"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Seed describes the demo dataset loaded into the store at startup.
type Seed struct {
	Enabled  bool
	Count    int `validate:"gte=0"`
	Start    time.Time
	TieEvery int `validate:"gte=0"`
}

func getSeedConfig(v *viper.Viper) (*Seed, error) {
	start := time.Date(2020, time.July, 13, 17, 35, 0, 0, time.UTC)
	if raw := v.Get("seed.start"); raw != nil && raw != "" {
		t, err := cast.ToTimeE(raw)
		if err != nil {
			return nil, fmt.Errorf("seed.start: %w", err)
		}
		start = t.UTC()
	}
	return &Seed{
		Enabled:  getBoolOrDefault(v, "seed.enabled", true),
		Count:    getIntOrDefault(v, "seed.count", 999),
		Start:    start,
		TieEvery: getIntOrDefault(v, "seed.tie_every", 10),
	}, nil
}
