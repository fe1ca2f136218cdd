package config

import (
	"github.com/spf13/viper"

	"github.com/ncobase/scanpage/paging"
)

// Paging bounds the page sizes served by listing endpoints.
type Paging struct {
	DefaultLimit int `validate:"gte=1"`
	MaxLimit     int `validate:"gte=1,gtefield=DefaultLimit"`
}

// Limits converts the section to paging.Limits.
func (p *Paging) Limits() paging.Limits {
	return paging.Limits{Default: p.DefaultLimit, Max: p.MaxLimit}
}

func getPagingConfig(v *viper.Viper) *Paging {
	return &Paging{
		DefaultLimit: getIntOrDefault(v, "paging.default_limit", paging.DefaultLimit),
		MaxLimit:     getIntOrDefault(v, "paging.max_limit", paging.MaxLimit),
	}
}
