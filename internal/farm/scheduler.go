package farm

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Start arms the cycle loop: one run after the startup delay, then one per
// configured interval. It is a no-op (returning false) when neither
// feature is enabled or when the loop is already running.
func (k *Keeper) Start(ctx context.Context) bool {
	if !k.cfg.BuyEnabled && !k.cfg.OpenEnabled {
		log.Info().Msg("farm: all features disabled, not starting")
		return false
	}
	k.schedMu.Lock()
	defer k.schedMu.Unlock()
	if k.running {
		return false
	}
	k.running = true
	k.stopCh = make(chan struct{})
	go k.loop(ctx, k.stopCh)
	log.Info().
		Dur("startup_delay", k.cfg.StartupDelay()).
		Dur("interval", k.cfg.CycleInterval()).
		Msg("farm: loop started")
	return true
}

// Stop cancels future cycles; an in-progress cycle runs to completion. The
// offer cache is dropped because a later reconnect may see different
// server state.
func (k *Keeper) Stop() {
	k.schedMu.Lock()
	if !k.running {
		k.schedMu.Unlock()
		return
	}
	k.running = false
	close(k.stopCh)
	k.schedMu.Unlock()
	k.invalidateOffers()
	log.Info().Msg("farm: loop stopped")
}

func (k *Keeper) loop(ctx context.Context, stop <-chan struct{}) {
	delay := time.NewTimer(k.cfg.StartupDelay())
	defer delay.Stop()
	select {
	case <-ctx.Done():
		return
	case <-stop:
		return
	case <-delay.C:
	}
	k.runGuarded(ctx)

	ticker := time.NewTicker(k.cfg.CycleInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			k.runGuarded(ctx)
		}
	}
}

// runGuarded enforces the at-most-one-cycle invariant: a tick that lands
// while the previous cycle is still in flight is skipped, and nothing that
// happens inside a cycle can take the scheduler down.
func (k *Keeper) runGuarded(ctx context.Context) {
	if !k.runMu.TryLock() {
		metricTicksSkippedTotal.Add(1)
		log.Warn().Msg("farm: previous cycle still running, skipping tick")
		return
	}
	defer k.runMu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			metricCycleErrorsTotal.Add(1)
			log.Error().Interface("panic", r).Msg("farm: cycle panicked")
		}
	}()
	if err := k.RunOnce(ctx); err != nil {
		metricCycleErrorsTotal.Add(1)
		log.Error().Err(err).Msg("farm: cycle failed")
	}
}

// RunOnce executes one end-to-end cycle: procure, refresh, open, refresh,
// spend. The bag snapshot goes stale after every mutating phase, so it is
// re-fetched whenever the previous phase reported activity.
func (k *Keeper) RunOnce(ctx context.Context) error {
	metricCyclesTotal.Add(1)

	bag, err := k.client.FetchBag(ctx)
	if err != nil {
		return fmt.Errorf("fetch bag: %w", err)
	}

	if bought := k.buyPacks(ctx, bag); bought > 0 {
		metricPacksBoughtTotal.Add(bought)
		if bag, err = k.client.FetchBag(ctx); err != nil {
			return fmt.Errorf("refresh bag after buy: %w", err)
		}
	}

	if !k.cfg.OpenEnabled {
		return nil
	}
	if opened := k.openPacks(ctx, bag); opened > 0 {
		metricPacksOpenedTotal.Add(opened)
		if bag, err = k.client.FetchBag(ctx); err != nil {
			return fmt.Errorf("refresh bag after open: %w", err)
		}
	}
	metricUnitsSpentTotal.Add(k.spendSurplus(ctx, bag))
	return nil
}
