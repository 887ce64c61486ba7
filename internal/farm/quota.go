package farm

import (
	"math"
	"time"

	"github.com/rs/zerolog/log"
)

// Sticky pause reasons. Once set, purchases stay suppressed until the next
// calendar-day rollover.
const (
	pauseFunds     = "insufficient_funds"
	pauseLimit     = "purchase_limit_reached"
	pauseNoOffers  = "no_pack_offers"
	pauseBuyFailed = "purchase_failed"
)

// quotaState holds the process-lifetime daily counters. The zero value
// dates to the epoch, so the first rollIfNewDay of a fresh Keeper always
// rolls.
type quotaState struct {
	day         time.Time // UTC midnight
	opened      int64
	purchased   int64
	lastAttempt time.Time
	pauseReason string
}

func dayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// rollIfNewDay zeroes the daily counters and clears the pause reason when
// the UTC calendar day has changed. The shop offer cache goes with them:
// server-side bought counts reset daily, so cached headroom would be stale.
func (k *Keeper) rollIfNewDay() {
	k.stateMu.Lock()
	defer k.stateMu.Unlock()
	today := dayOf(k.now())
	if k.quota.day.Equal(today) {
		return
	}
	k.quota = quotaState{day: today, lastAttempt: k.quota.lastAttempt}
	k.offers = nil
}

func (k *Keeper) recordOpened(n int64) {
	k.stateMu.Lock()
	defer k.stateMu.Unlock()
	k.quota.opened += n
}

func (k *Keeper) recordPurchased(n int64) {
	k.stateMu.Lock()
	defer k.stateMu.Unlock()
	k.quota.purchased += n
}

// openAllowance returns how many packs may still be opened today.
// A cap of 0 means unlimited.
func (k *Keeper) openAllowance() int64 {
	if k.cfg.DailyOpenMax <= 0 {
		return math.MaxInt64
	}
	k.stateMu.Lock()
	defer k.stateMu.Unlock()
	return max64(0, k.cfg.DailyOpenMax-k.quota.opened)
}

// buyAllowance returns how many purchases may still be made today.
// A cap of 0 means unlimited.
func (k *Keeper) buyAllowance() int64 {
	if k.cfg.DailyBuyMax <= 0 {
		return math.MaxInt64
	}
	k.stateMu.Lock()
	defer k.stateMu.Unlock()
	return max64(0, k.cfg.DailyBuyMax-k.quota.purchased)
}

// coolingDown reports whether the purchase cooldown window is still open.
// The window runs from the last attempt, not the last success, so failed
// attempts cannot hammer the endpoint.
func (k *Keeper) coolingDown() bool {
	k.stateMu.Lock()
	defer k.stateMu.Unlock()
	return k.now().Sub(k.quota.lastAttempt) < k.cfg.BuyCooldown()
}

func (k *Keeper) markAttempt() {
	k.stateMu.Lock()
	defer k.stateMu.Unlock()
	k.quota.lastAttempt = k.now()
}

func (k *Keeper) pause(reason string) {
	k.stateMu.Lock()
	already := k.quota.pauseReason
	if already == "" {
		k.quota.pauseReason = reason
	}
	k.stateMu.Unlock()
	if already != "" {
		return
	}
	log.Warn().Str("reason", reason).Msg("farm: purchases paused until day rollover")
	k.notify.Push("farm purchases paused", reason)
}

func (k *Keeper) paused() bool {
	k.stateMu.Lock()
	defer k.stateMu.Unlock()
	return k.quota.pauseReason != ""
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
