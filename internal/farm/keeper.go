package farm

import (
	"context"
	"sync"
	"time"

	"farm-keeper/internal/config"
	"farm-keeper/internal/protocol"
)

// Notifier delivers out-of-band alerts (paused purchases, login prompts).
// Implementations must be fire-and-forget; Keeper never checks the result.
type Notifier interface {
	Push(title, body string)
}

type noopNotifier struct{}

func (noopNotifier) Push(string, string) {}

// Keeper owns the per-account orchestration state: quota counters, the
// shop offer cache and the in-run container estimate. One Keeper per
// account/session; none of its state is shared or persisted.
type Keeper struct {
	cfg    config.FarmConfig
	client protocol.Client
	notify Notifier

	now   func() time.Time
	sleep func(context.Context, time.Duration)

	stateMu sync.Mutex
	quota   quotaState
	offers  []shopOffer // nil until discovered; reset on day rollover and Stop

	container containerModel // valid within a single run only

	runMu sync.Mutex // in-flight cycle guard

	schedMu sync.Mutex
	running bool
	stopCh  chan struct{}
}

func New(cfg config.FarmConfig, client protocol.Client, notifier Notifier) *Keeper {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Keeper{
		cfg:    cfg,
		client: client,
		notify: notifier,
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func (k *Keeper) throttle(ctx context.Context) {
	k.sleep(ctx, k.cfg.Throttle())
}

// Status is a point-in-time snapshot for the observability surface.
type Status struct {
	Running            bool   `json:"running"`
	Day                string `json:"day"`
	PacksOpenedToday   int64  `json:"packs_opened_today"`
	PurchasesMadeToday int64  `json:"purchases_made_today"`
	PauseReason        string `json:"pause_reason,omitempty"`
	CachedShopOffers   int    `json:"cached_shop_offers"`
}

func (k *Keeper) Status() Status {
	k.schedMu.Lock()
	running := k.running
	k.schedMu.Unlock()

	k.stateMu.Lock()
	defer k.stateMu.Unlock()
	return Status{
		Running:            running,
		Day:                k.quota.day.Format("2006-01-02"),
		PacksOpenedToday:   k.quota.opened,
		PurchasesMadeToday: k.quota.purchased,
		PauseReason:        k.quota.pauseReason,
		CachedShopOffers:   len(k.offers),
	}
}
