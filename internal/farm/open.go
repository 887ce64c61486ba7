package farm

import (
	"context"

	"github.com/rs/zerolog/log"

	"farm-keeper/internal/item"
)

// openPacks opens held gift packs, one batched use call per pack id,
// clamped to the remaining daily allowance. A failure on one pack id is
// logged and does not abort the rest; there is no per-unit retry fallback.
func (k *Keeper) openPacks(ctx context.Context, bag item.Bag) int64 {
	k.rollIfNewDay()

	var opened int64
	first := true
	for _, s := range item.PacksIn(bag) {
		allowed := k.openAllowance()
		if allowed <= 0 {
			log.Debug().Int64("item", s.ItemID).Msg("farm: daily open cap reached, skipping pack")
			continue
		}
		qty := min64(s.Count, allowed)
		if !first {
			k.throttle(ctx)
		}
		first = false
		if err := k.client.UseItem(ctx, s.ItemID, qty); err != nil {
			name, _ := item.PackName(s.ItemID)
			log.Warn().Err(err).Str("pack", name).Msg("farm: pack open failed")
			continue
		}
		k.recordOpened(qty)
		opened += qty
		log.Info().Int64("count", qty).Int64("item", s.ItemID).Msg("farm: opened packs")
	}
	return opened
}
