package notify

import (
	"time"

	"farm-keeper/internal/notify/platforms"
)

type Target struct {
	Platform string `json:"platform"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret"`
	Enabled  bool   `json:"enabled"`
}

type Config struct {
	Enabled             bool
	Targets             []Target
	Workers             int
	RetryMax            int
	RetryBase           time.Duration
	FailureThreshold    int
	CircuitOpenDuration time.Duration
	RequestTimeout      time.Duration
	DispatchBuffer      int
}

type pushJob struct {
	Target  Target
	Message platforms.Message
	Attempt int
}

func (j pushJob) key() string {
	return j.Target.Platform + "|" + j.Target.Endpoint
}
