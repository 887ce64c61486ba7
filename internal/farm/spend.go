package farm

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"

	"farm-keeper/internal/item"
	"farm-keeper/internal/protocol"
)

// AllocateSurplus plans which stacks to spend. Stacks are ordered by
// descending count (ties by ascending item id for determinism) and the
// surplus is drained greedily from the largest stack first, which keeps
// the remaining inventory mix balanced. The allocated total always equals
// min(surplus, sum of stacks) and no allocation exceeds its own stack.
func AllocateSurplus(stacks []item.Stack, surplus int64) []item.Stack {
	if surplus <= 0 {
		return nil
	}
	ordered := make([]item.Stack, len(stacks))
	copy(ordered, stacks)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Count != ordered[j].Count {
			return ordered[i].Count > ordered[j].Count
		}
		return ordered[i].ItemID < ordered[j].ItemID
	})

	var plan []item.Stack
	remaining := surplus
	for _, s := range ordered {
		if remaining <= 0 {
			break
		}
		n := min64(remaining, s.Count)
		if n <= 0 {
			continue
		}
		plan = append(plan, item.Stack{ItemID: s.ItemID, Count: n})
		remaining -= n
	}
	return plan
}

// spendSurplus feeds fertilizer above the retain target into the
// containers. Allocations are clipped to container headroom; a server
// "container full" reply pins that affinity full locally and the loop
// moves on. Other failures are logged and skipped.
func (k *Keeper) spendSurplus(ctx context.Context, bag item.Bag) int64 {
	stacks := item.FertilizersIn(bag)
	var total int64
	for _, s := range stacks {
		total += s.Count
	}
	if total <= k.cfg.RetainCount {
		return 0
	}

	k.container.seed(bag)
	plan := AllocateSurplus(stacks, total-k.cfg.RetainCount)

	var used int64
	first := true
	for _, p := range plan {
		f, ok := item.FertilizerInfo(p.ItemID)
		if !ok {
			continue
		}
		if k.container.atCapacity(f.Affinity) {
			log.Debug().Str("affinity", string(f.Affinity)).Int64("item", p.ItemID).Msg("farm: container full, skipping")
			continue
		}
		qty := min64(p.Count, k.container.maxUnitsFittable(f.Affinity, f.Hours))
		if qty <= 0 {
			continue
		}
		if !first {
			k.throttle(ctx)
		}
		first = false
		if err := k.client.UseItem(ctx, p.ItemID, qty); err != nil {
			if protocol.IsContainerFull(err) {
				log.Info().Str("affinity", string(f.Affinity)).Msg("farm: server reports container full")
				k.container.markFull(f.Affinity)
				continue
			}
			log.Warn().Err(err).Int64("item", p.ItemID).Msg("farm: fertilizer use failed")
			continue
		}
		k.container.applyFill(f.Affinity, qty, f.Hours)
		used += qty
		log.Info().Int64("count", qty).Int64("item", p.ItemID).Str("affinity", string(f.Affinity)).Msg("farm: spent fertilizer")
	}
	return used
}
