package config

import "github.com/caarlos0/env/v11"

// StatusConfig covers the local observability HTTP surface.
type StatusConfig struct {
	HTTPAddr string `env:"STATUS_HTTP_ADDR" envDefault:":8791"`
	Enabled  bool   `env:"STATUS_HTTP_ENABLED" envDefault:"true"`
}

func LoadStatus() (StatusConfig, error) {
	var cfg StatusConfig
	err := env.Parse(&cfg)
	return cfg, err
}
