package farm

import (
	"context"
	"encoding/json"
	"testing"

	"farm-keeper/internal/config"
	"farm-keeper/internal/item"
	"farm-keeper/internal/protocol"
)

func buyConfig() config.FarmConfig {
	return config.FarmConfig{
		BuyEnabled:    true,
		DailyBuyMax:   3,
		BuyPerAttempt: 2,
	}
}

func mallPackOffer(price int64) []protocol.MallOffer {
	raw, _ := json.Marshal(price)
	return []protocol.MallOffer{{OfferID: "mall-1", ItemID: item.PackFertilizerID, Price: raw}}
}

func TestBuyPacksDisabled(t *testing.T) {
	fc := &fakeClient{}
	k := New(config.FarmConfig{}, fc, nil)
	if got := k.buyPacks(context.Background(), item.Bag{}); got != 0 {
		t.Fatalf("bought %d with feature disabled", got)
	}
	if len(fc.calls) != 0 {
		t.Fatalf("disabled buy must not touch the network: %v", fc.ops())
	}
}

func TestBuyPacksShortCircuits(t *testing.T) {
	bag := item.Bag{{ItemID: item.CouponID, Count: 1000}}

	t.Run("paused", func(t *testing.T) {
		fc := &fakeClient{}
		k := New(buyConfig(), fc, nil)
		k.rollIfNewDay()
		k.pause(pauseFunds)
		if got := k.buyPacks(context.Background(), bag); got != 0 || len(fc.calls) != 0 {
			t.Fatalf("paused keeper must not buy: got %d, calls %v", got, fc.ops())
		}
	})

	t.Run("daily cap", func(t *testing.T) {
		fc := &fakeClient{}
		k := New(buyConfig(), fc, nil)
		k.rollIfNewDay()
		k.recordPurchased(3)
		if got := k.buyPacks(context.Background(), bag); got != 0 || len(fc.calls) != 0 {
			t.Fatalf("capped keeper must not buy: got %d, calls %v", got, fc.ops())
		}
	})

	t.Run("cooldown", func(t *testing.T) {
		cfg := buyConfig()
		cfg.BuyCooldownMins = 10
		fc := &fakeClient{}
		k := New(cfg, fc, nil)
		k.rollIfNewDay()
		k.markAttempt()
		if got := k.buyPacks(context.Background(), bag); got != 0 || len(fc.calls) != 0 {
			t.Fatalf("cooling keeper must not buy: got %d, calls %v", got, fc.ops())
		}
	})

	t.Run("target stock", func(t *testing.T) {
		cfg := buyConfig()
		cfg.TargetPackStock = 5
		fc := &fakeClient{}
		k := New(cfg, fc, nil)
		stocked := item.Bag{{ItemID: item.PackFertilizerID, Count: 5}}
		if got := k.buyPacks(context.Background(), stocked); got != 0 || len(fc.calls) != 0 {
			t.Fatalf("stocked keeper must not buy: got %d, calls %v", got, fc.ops())
		}
	})
}

func TestBuyFromMallSuccess(t *testing.T) {
	fc := &fakeClient{mallOffers: mallPackOffer(100)}
	k := New(buyConfig(), fc, nil)
	bag := item.Bag{{ItemID: item.CouponID, Count: 250}}

	got := k.buyPacks(context.Background(), bag)
	if got != 2 {
		t.Fatalf("bought = %d, want min(2, 3-0) = 2", got)
	}
	if fc.calls[len(fc.calls)-1] != (call{op: "mall_buy", offerID: "mall-1", count: 2}) {
		t.Fatalf("unexpected mall buy: %+v", fc.calls)
	}
	if st := k.Status(); st.PurchasesMadeToday != 2 {
		t.Fatalf("purchases recorded = %d, want 2", st.PurchasesMadeToday)
	}
}

func TestBuyFromMallInsufficientFundsPausesWithoutFallback(t *testing.T) {
	// Price 100/unit, quantity 2 needs 200; a 150 coupon balance fails
	// the funds check, pauses, and must not touch the shop path.
	fc := &fakeClient{mallOffers: mallPackOffer(100)}
	k := New(buyConfig(), fc, nil)
	bag := item.Bag{{ItemID: item.CouponID, Count: 150}}

	if got := k.buyPacks(context.Background(), bag); got != 0 {
		t.Fatalf("bought = %d, want 0", got)
	}
	if st := k.Status(); st.PauseReason != pauseFunds {
		t.Fatalf("pause reason = %q, want %q", st.PauseReason, pauseFunds)
	}
	for _, c := range fc.calls {
		if c.op == "shops" || c.op == "shop_buy" {
			t.Fatalf("funds failure must not fall through to shops: %v", fc.ops())
		}
	}
	if st := k.Status(); st.PurchasesMadeToday != 0 {
		t.Fatal("failed attempt must not record a purchase")
	}
}

func TestBuyFromMallAttemptStampedBeforeFundsCheck(t *testing.T) {
	fc := &fakeClient{mallOffers: mallPackOffer(100)}
	k := New(buyConfig(), fc, nil)
	bag := item.Bag{{ItemID: item.CouponID, Count: 0}}

	k.buyPacks(context.Background(), bag)
	if k.quota.lastAttempt.IsZero() {
		t.Fatal("attempt timestamp must be stamped even when the funds check fails")
	}
}

func TestBuyFromMallServerErrorKinds(t *testing.T) {
	t.Run("limit pauses", func(t *testing.T) {
		fc := &fakeClient{
			mallOffers: mallPackOffer(10),
			mallBuyErr: &protocol.Error{Kind: protocol.KindLimitExceeded, Message: "purchase limit"},
		}
		k := New(buyConfig(), fc, nil)
		bag := item.Bag{{ItemID: item.CouponID, Count: 1000}}
		if got := k.buyPacks(context.Background(), bag); got != 0 {
			t.Fatalf("bought = %d, want 0", got)
		}
		if st := k.Status(); st.PauseReason != pauseLimit {
			t.Fatalf("pause reason = %q", st.PauseReason)
		}
		for _, c := range fc.calls {
			if c.op == "shops" {
				t.Fatal("limit failure must not fall through to shops")
			}
		}
	})

	t.Run("other falls through", func(t *testing.T) {
		fc := &fakeClient{
			mallOffers: mallPackOffer(10),
			mallBuyErr: &protocol.Error{Kind: protocol.KindOther, Message: "internal"},
			shops:      []int64{7},
			shopOffers: map[int64][]protocol.ShopOffer{
				7: {{OfferID: "shop-7-1", ItemID: item.PackOrganicID, Price: 5, UnitsPerPurchase: 1}},
			},
		}
		k := New(buyConfig(), fc, nil)
		bag := item.Bag{{ItemID: item.CouponID, Count: 1000}}
		if got := k.buyPacks(context.Background(), bag); got != 2 {
			t.Fatalf("bought = %d, want 2 from shop fallback", got)
		}
	})
}

func TestBuyFromShopsRespectsServerLimit(t *testing.T) {
	fc := &fakeClient{
		shops: []int64{1, 2},
		shopOffers: map[int64][]protocol.ShopOffer{
			1: {{OfferID: "sold-out", ItemID: item.PackFertilizerID, Price: 5, LimitCount: 3, BoughtCount: 3}},
			2: {{OfferID: "one-left", ItemID: item.PackFertilizerID, Price: 5, LimitCount: 3, BoughtCount: 2, UnitsPerPurchase: 1}},
		},
	}
	cfg := buyConfig()
	k := New(cfg, fc, nil)
	bag := item.Bag{{ItemID: item.CouponID, Count: 1000}}

	if got := k.buyFromShops(context.Background(), bag); got != 1 {
		t.Fatalf("bought = %d, want 1 (server headroom)", got)
	}
	for _, c := range fc.calls {
		if c.op == "shop_buy" && c.offerID == "sold-out" {
			t.Fatal("offers at server limit must be skipped")
		}
	}
}

func TestBuyFromShopsAdvancesCachedBoughtCount(t *testing.T) {
	fc := &fakeClient{
		shops: []int64{1},
		shopOffers: map[int64][]protocol.ShopOffer{
			1: {{OfferID: "o1", ItemID: item.PackFertilizerID, Price: 5, LimitCount: 2, UnitsPerPurchase: 1}},
		},
	}
	cfg := buyConfig()
	cfg.DailyBuyMax = 0 // unlimited, server limit is the binding constraint
	k := New(cfg, fc, nil)
	bag := item.Bag{{ItemID: item.CouponID, Count: 1000}}

	if got := k.buyFromShops(context.Background(), bag); got != 2 {
		t.Fatalf("first run bought = %d, want 2", got)
	}
	// Second run in the same day: cache reports the offer exhausted and no
	// re-discovery happens.
	calls := len(fc.calls)
	if got := k.buyFromShops(context.Background(), bag); got != 0 {
		t.Fatalf("second run bought = %d, want 0", got)
	}
	for _, c := range fc.calls[calls:] {
		if c.op == "shops" || c.op == "shop_offers" || c.op == "shop_buy" {
			t.Fatalf("cached exhausted offer must not trigger calls: %v", fc.ops())
		}
	}
}

func TestBuyFromShopsUnaffordableStopsIterating(t *testing.T) {
	fc := &fakeClient{
		shops: []int64{1},
		shopOffers: map[int64][]protocol.ShopOffer{
			1: {
				{OfferID: "pricey", ItemID: item.PackFertilizerID, Price: 500, UnitsPerPurchase: 1},
				{OfferID: "cheap", ItemID: item.PackOrganicID, Price: 1, UnitsPerPurchase: 1},
			},
		},
	}
	k := New(buyConfig(), fc, nil)
	bag := item.Bag{{ItemID: item.CouponID, Count: 100}}

	if got := k.buyFromShops(context.Background(), bag); got != 0 {
		t.Fatalf("bought = %d, want 0", got)
	}
	if st := k.Status(); st.PauseReason != pauseFunds {
		t.Fatalf("pause reason = %q, want %q", st.PauseReason, pauseFunds)
	}
	for _, c := range fc.calls {
		if c.op == "shop_buy" {
			t.Fatal("unaffordable offer must stop the loop before any buy")
		}
	}
}

func TestBuyFromShopsPurchaseFailurePausesAndStops(t *testing.T) {
	fc := &fakeClient{
		shops: []int64{1},
		shopOffers: map[int64][]protocol.ShopOffer{
			1: {
				{OfferID: "bad", ItemID: item.PackFertilizerID, Price: 5, UnitsPerPurchase: 1},
				{OfferID: "never", ItemID: item.PackOrganicID, Price: 5, UnitsPerPurchase: 1},
			},
		},
		shopBuy: func(offerID string, count, price int64) (protocol.ShopPurchase, error) {
			return protocol.ShopPurchase{}, &protocol.Error{Kind: protocol.KindOther, Message: "boom"}
		},
	}
	k := New(buyConfig(), fc, nil)
	bag := item.Bag{{ItemID: item.CouponID, Count: 1000}}

	if got := k.buyFromShops(context.Background(), bag); got != 0 {
		t.Fatalf("bought = %d, want 0", got)
	}
	if st := k.Status(); st.PauseReason != pauseBuyFailed {
		t.Fatalf("pause reason = %q", st.PauseReason)
	}
	var buys int
	for _, c := range fc.calls {
		if c.op == "shop_buy" {
			buys++
		}
	}
	if buys != 1 {
		t.Fatalf("failure must stop after the first buy, got %d", buys)
	}
}

func TestBuyFromShopsEmptyDiscoveryPauses(t *testing.T) {
	fc := &fakeClient{shops: []int64{1, 2}, shopOffers: map[int64][]protocol.ShopOffer{}}
	k := New(buyConfig(), fc, nil)

	if got := k.buyFromShops(context.Background(), item.Bag{}); got != 0 {
		t.Fatalf("bought = %d, want 0", got)
	}
	if st := k.Status(); st.PauseReason != pauseNoOffers {
		t.Fatalf("pause reason = %q, want %q", st.PauseReason, pauseNoOffers)
	}
}

func TestBuyFromShopsGrantListDrivesUnits(t *testing.T) {
	fc := &fakeClient{
		shops: []int64{1},
		shopOffers: map[int64][]protocol.ShopOffer{
			1: {{OfferID: "bundle", ItemID: item.PackFertilizerID, Price: 10, UnitsPerPurchase: 3}},
		},
		shopBuy: func(offerID string, count, price int64) (protocol.ShopPurchase, error) {
			return protocol.ShopPurchase{
				Granted: []protocol.ItemCount{{ItemID: item.PackFertilizerID, Count: count * 3}},
				Cost:    []protocol.ItemCount{{ItemID: item.CouponID, Count: count * 10}},
			}, nil
		},
	}
	k := New(buyConfig(), fc, nil)
	bag := item.Bag{{ItemID: item.CouponID, Count: 1000}}

	if got := k.buyFromShops(context.Background(), bag); got != 6 {
		t.Fatalf("bought = %d, want 2 purchases x 3 units", got)
	}
	if st := k.Status(); st.PurchasesMadeToday != 2 {
		t.Fatalf("purchases recorded = %d, want 2", st.PurchasesMadeToday)
	}
}
