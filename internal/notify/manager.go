package notify

import (
	"context"
	"sync"
	"time"

	"farm-keeper/internal/notify/platforms"
)

type breakerState struct {
	consecutiveFailures int
	openUntil           time.Time
}

// Manager fans farm events out to webhook targets. Push never blocks the
// caller: jobs are queued to a buffered channel and dropped when it is full.
type Manager struct {
	cfg      Config
	adapters map[string]platforms.Adapter

	dispatchCh chan pushJob
	retryQ     *retryQueue
	done       chan struct{}

	mu           sync.Mutex
	started      bool
	breakerByKey map[string]breakerState
}

func NewManager(cfg Config) *Manager {
	client := platforms.NewHTTPClient(cfg.RequestTimeout)
	adapters := map[string]platforms.Adapter{
		"discord": platforms.NewDiscordAdapter(client),
		"feishu":  platforms.NewFeishuAdapter(client),
	}
	if cfg.DispatchBuffer <= 0 {
		cfg.DispatchBuffer = 256
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 500 * time.Millisecond
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.CircuitOpenDuration <= 0 {
		cfg.CircuitOpenDuration = 30 * time.Second
	}

	m := &Manager{
		cfg:          cfg,
		adapters:     adapters,
		dispatchCh:   make(chan pushJob, cfg.DispatchBuffer),
		done:         make(chan struct{}),
		breakerByKey: map[string]breakerState{},
	}
	m.retryQ = newRetryQueue(m.dispatchCh, m.done)
	return m
}

func (m *Manager) Start(ctx context.Context) {
	if !m.cfg.Enabled {
		return
	}
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.mu.Unlock()

	for i := 0; i < m.cfg.Workers; i++ {
		go m.worker(ctx)
	}
	go func() {
		<-ctx.Done()
		close(m.done)
	}()
}

// Push queues one message per enabled target.
func (m *Manager) Push(title, body string) {
	if !m.cfg.Enabled || len(m.cfg.Targets) == 0 {
		return
	}
	msg := platforms.Message{Title: title, Body: body}
	for _, target := range m.cfg.Targets {
		select {
		case m.dispatchCh <- pushJob{Target: target, Message: msg}:
			metricPushQueuedTotal.Add(1)
		default:
			metricPushDroppedTotal.Add(1)
		}
	}
}
