package farm

import (
	"context"

	"github.com/rs/zerolog/log"

	"farm-keeper/internal/item"
	"farm-keeper/internal/protocol"
)

// mallSlotFarm is the primary storefront slot the fertilizer pack offer
// lives in.
const mallSlotFarm = "farm"

// shopOffer is one cached secondary-storefront listing. BoughtCount is
// advanced locally after each successful purchase so repeated calls within
// one day see up-to-date headroom without re-querying.
type shopOffer struct {
	offerID          string
	itemID           int64
	price            int64
	limitCount       int64
	boughtCount      int64
	unitsPerPurchase int64
}

// buyPacks runs the two-tier procurement strategy and returns the number
// of pack units acquired. Short-circuits are evaluated in order; the
// attempt timestamp is stamped before any funds check so a failed attempt
// still respects the cooldown.
func (k *Keeper) buyPacks(ctx context.Context, bag item.Bag) int64 {
	if !k.cfg.BuyEnabled {
		return 0
	}
	k.rollIfNewDay()
	if k.coolingDown() {
		log.Debug().Msg("farm: purchase cooldown active")
		return 0
	}
	if k.paused() {
		return 0
	}
	if k.buyAllowance() <= 0 {
		log.Debug().Msg("farm: daily purchase cap reached")
		return 0
	}
	if k.cfg.TargetPackStock > 0 {
		var stock int64
		for _, s := range item.PacksIn(bag) {
			stock += s.Count
		}
		if stock >= k.cfg.TargetPackStock {
			log.Debug().Int64("stock", stock).Msg("farm: target pack stock reached")
			return 0
		}
	}
	k.markAttempt()

	bought, final := k.buyFromMall(ctx, bag)
	if final {
		return bought
	}
	return k.buyFromShops(ctx, bag)
}

// buyFromMall tries the well-known fertilizer pack offer on the primary
// storefront. final is true when the outcome settles this cycle: a
// successful purchase, or a funds/limit failure that pauses buying.
// Everything else (offer absent, unclassified error) falls through to the
// secondary storefront.
func (k *Keeper) buyFromMall(ctx context.Context, bag item.Bag) (bought int64, final bool) {
	offers, err := k.client.ListMallOffers(ctx, mallSlotFarm)
	if err != nil {
		log.Warn().Err(err).Msg("farm: mall offer query failed")
		return 0, false
	}
	var offer *protocol.MallOffer
	for i := range offers {
		if offers[i].ItemID == item.PackFertilizerID {
			offer = &offers[i]
			break
		}
	}
	if offer == nil {
		return 0, false
	}

	qty := min64(k.cfg.BuyPerAttempt, k.buyAllowance())
	if qty <= 0 {
		return 0, true
	}
	// Price is treated as per-unit; 0 means unknown and skips the check.
	if price := protocol.PriceValue(offer.Price); price > 0 {
		if bag.CouponBalance() < price*qty {
			k.pause(pauseFunds)
			return 0, true
		}
	}

	res, err := k.client.BuyMallOffer(ctx, offer.OfferID, qty)
	if err != nil {
		switch protocol.KindOf(err) {
		case protocol.KindFundsInsufficient:
			k.pause(pauseFunds)
			return 0, true
		case protocol.KindLimitExceeded:
			k.pause(pauseLimit)
			return 0, true
		default:
			log.Warn().Err(err).Msg("farm: mall purchase failed, trying shops")
			return 0, false
		}
	}
	granted := res.GrantedCount
	if granted <= 0 {
		granted = qty
	}
	k.recordPurchased(granted)
	log.Info().Int64("count", granted).Str("offer", offer.OfferID).Msg("farm: bought packs from mall")
	return granted, true
}

// buyFromShops walks the cached secondary-storefront offers in discovery
// order, buying up to the remaining daily allowance.
func (k *Keeper) buyFromShops(ctx context.Context, bag item.Bag) int64 {
	offers, ok := k.shopOffers(ctx)
	if !ok {
		return 0
	}
	if len(offers) == 0 {
		k.pause(pauseNoOffers)
		return 0
	}

	coupons := bag.CouponBalance()
	var bought int64
	for _, o := range offers {
		want := min64(k.cfg.BuyPerAttempt, k.buyAllowance())
		if want <= 0 {
			break
		}
		if o.limitCount > 0 && o.boughtCount >= o.limitCount {
			continue
		}
		qty := want
		if o.limitCount > 0 {
			qty = min64(qty, o.limitCount-o.boughtCount)
		}
		if o.price > 0 {
			affordable := coupons / o.price
			if affordable <= 0 {
				k.pause(pauseFunds)
				break
			}
			qty = min64(qty, affordable)
		}
		if qty <= 0 {
			continue
		}

		res, err := k.client.BuyShopOffer(ctx, o.offerID, qty, o.price)
		if err != nil {
			log.Warn().Err(err).Str("offer", o.offerID).Msg("farm: shop purchase failed")
			k.pause(pauseBuyFailed)
			break
		}
		units, cost := shopPurchaseTotals(res)
		if units <= 0 {
			perPurchase := max64(o.unitsPerPurchase, 1)
			units = qty * perPurchase
			log.Warn().Str("offer", o.offerID).Msg("farm: empty grant list in shop reply, assuming requested quantity")
		}
		if cost <= 0 {
			cost = qty * o.price
		}
		coupons -= cost
		k.recordPurchased(qty)
		k.advanceBought(o.offerID, qty)
		bought += units
		log.Info().Int64("units", units).Int64("cost", cost).Str("offer", o.offerID).Msg("farm: bought packs from shop")
		k.throttle(ctx)
	}
	return bought
}

func shopPurchaseTotals(res protocol.ShopPurchase) (units, cost int64) {
	for _, g := range res.Granted {
		if item.IsPack(g.ItemID) {
			units += g.Count
		}
	}
	for _, c := range res.Cost {
		if c.ItemID == item.CouponID {
			cost += c.Count
		}
	}
	return units, cost
}

// shopOffers returns the day's cached offer discovery, running it on first
// use. Discovery enumerates every shop's product list, filtered to known
// pack items, with a throttle between shop queries. ok is false when
// enumeration itself failed; that is a transient error, distinct from a
// discovery that genuinely yielded nothing.
func (k *Keeper) shopOffers(ctx context.Context) (offers []shopOffer, ok bool) {
	k.stateMu.Lock()
	cached := k.offers
	k.stateMu.Unlock()
	if cached != nil {
		return cached, true
	}

	discovered := []shopOffer{}
	shops, err := k.client.ListShops(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("farm: shop enumeration failed")
		return nil, false
	}
	for i, shopID := range shops {
		if i > 0 {
			k.throttle(ctx)
		}
		listings, err := k.client.ListShopOffers(ctx, shopID)
		if err != nil {
			log.Warn().Err(err).Int64("shop", shopID).Msg("farm: shop offer query failed")
			continue
		}
		for _, l := range listings {
			if !item.IsPack(l.ItemID) {
				continue
			}
			discovered = append(discovered, shopOffer{
				offerID:          l.OfferID,
				itemID:           l.ItemID,
				price:            l.Price,
				limitCount:       l.LimitCount,
				boughtCount:      l.BoughtCount,
				unitsPerPurchase: l.UnitsPerPurchase,
			})
		}
	}

	k.stateMu.Lock()
	k.offers = discovered
	k.stateMu.Unlock()
	log.Info().Int("offers", len(discovered)).Msg("farm: discovered shop pack offers")
	return discovered, true
}

func (k *Keeper) advanceBought(offerID string, n int64) {
	k.stateMu.Lock()
	defer k.stateMu.Unlock()
	for i := range k.offers {
		if k.offers[i].offerID == offerID {
			k.offers[i].boughtCount += n
			return
		}
	}
}

// invalidateOffers drops the cached discovery; a future reconnect may see
// different server state.
func (k *Keeper) invalidateOffers() {
	k.stateMu.Lock()
	defer k.stateMu.Unlock()
	k.offers = nil
}
