package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// FarmConfig drives the acquisition-and-consumption loop. Daily caps of 0
// mean unlimited.
type FarmConfig struct {
	BuyEnabled  bool `env:"FARM_BUY_ENABLED" envDefault:"false"`
	OpenEnabled bool `env:"FARM_OPEN_ENABLED" envDefault:"false"`

	DailyOpenMax  int64 `env:"FARM_DAILY_OPEN_MAX" envDefault:"0"`
	DailyBuyMax   int64 `env:"FARM_DAILY_BUY_MAX" envDefault:"0"`
	BuyPerAttempt int64 `env:"FARM_BUY_PER_ATTEMPT" envDefault:"2"`

	// TargetPackStock stops buying once the bag already holds this many
	// packs; 0 disables the check.
	TargetPackStock int64 `env:"FARM_TARGET_PACK_STOCK" envDefault:"0"`
	// RetainCount is how many fertilizer units to keep in the bag; only
	// stock above it is spent into the containers.
	RetainCount int64 `env:"FARM_RETAIN_COUNT" envDefault:"0"`

	CycleIntervalMins int `env:"FARM_CYCLE_INTERVAL_MINUTES" envDefault:"30"`
	StartupDelaySecs  int `env:"FARM_STARTUP_DELAY_SECONDS" envDefault:"60"`
	BuyCooldownMins   int `env:"FARM_BUY_COOLDOWN_MINUTES" envDefault:"10"`
	ThrottleMS        int `env:"FARM_THROTTLE_MS" envDefault:"1500"`
}

func LoadFarm() (FarmConfig, error) {
	var cfg FarmConfig
	err := env.Parse(&cfg)
	return cfg, err
}

func (c FarmConfig) CycleInterval() time.Duration {
	if c.CycleIntervalMins <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.CycleIntervalMins) * time.Minute
}

func (c FarmConfig) StartupDelay() time.Duration {
	if c.StartupDelaySecs < 0 {
		return 0
	}
	return time.Duration(c.StartupDelaySecs) * time.Second
}

func (c FarmConfig) BuyCooldown() time.Duration {
	if c.BuyCooldownMins < 0 {
		return 0
	}
	return time.Duration(c.BuyCooldownMins) * time.Minute
}

func (c FarmConfig) Throttle() time.Duration {
	if c.ThrottleMS < 0 {
		return 0
	}
	return time.Duration(c.ThrottleMS) * time.Millisecond
}
