package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type GameConfig struct {
	WSURL         string `env:"GAME_WS_URL" envDefault:"ws://localhost:8090/ws"`
	Account       string `env:"GAME_ACCOUNT,required,notEmpty"`
	Token         string `env:"GAME_TOKEN"`
	CallTimeoutMS int    `env:"GAME_CALL_TIMEOUT_MS" envDefault:"10000"`
}

func LoadGame() (GameConfig, error) {
	var cfg GameConfig
	err := env.Parse(&cfg)
	return cfg, err
}

func (c GameConfig) CallTimeout() time.Duration {
	if c.CallTimeoutMS <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.CallTimeoutMS) * time.Millisecond
}
