package farm

import (
	"context"
	"fmt"

	"farm-keeper/internal/item"
	"farm-keeper/internal/protocol"
)

type call struct {
	op      string
	itemID  int64
	count   int64
	offerID string
}

// fakeClient scripts protocol replies and records every call in order.
type fakeClient struct {
	bags   []item.Bag // consumed per FetchBag; the last entry repeats
	bagIdx int

	mallOffers []protocol.MallOffer
	mallErr    error
	mallBuyErr error
	mallBuy    protocol.MallPurchase

	shops      []int64
	shopsErr   error
	shopOffers map[int64][]protocol.ShopOffer
	shopBuy    func(offerID string, count, price int64) (protocol.ShopPurchase, error)

	useErr map[int64]error

	calls []call
}

var _ protocol.Client = (*fakeClient)(nil)

func (f *fakeClient) record(c call) {
	f.calls = append(f.calls, c)
}

func (f *fakeClient) ops() []string {
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.op)
	}
	return out
}

func (f *fakeClient) FetchBag(context.Context) (item.Bag, error) {
	f.record(call{op: "bag"})
	if len(f.bags) == 0 {
		return nil, fmt.Errorf("no bag scripted")
	}
	bag := f.bags[f.bagIdx]
	if f.bagIdx < len(f.bags)-1 {
		f.bagIdx++
	}
	return bag, nil
}

func (f *fakeClient) UseItem(_ context.Context, itemID, count int64) error {
	f.record(call{op: "use", itemID: itemID, count: count})
	if f.useErr != nil {
		if err, ok := f.useErr[itemID]; ok {
			return err
		}
	}
	return nil
}

func (f *fakeClient) ListMallOffers(_ context.Context, _ string) ([]protocol.MallOffer, error) {
	f.record(call{op: "mall_offers"})
	return f.mallOffers, f.mallErr
}

func (f *fakeClient) BuyMallOffer(_ context.Context, offerID string, count int64) (protocol.MallPurchase, error) {
	f.record(call{op: "mall_buy", offerID: offerID, count: count})
	if f.mallBuyErr != nil {
		return protocol.MallPurchase{}, f.mallBuyErr
	}
	if f.mallBuy.GrantedCount == 0 {
		return protocol.MallPurchase{GrantedCount: count}, nil
	}
	return f.mallBuy, nil
}

func (f *fakeClient) ListShops(context.Context) ([]int64, error) {
	f.record(call{op: "shops"})
	return f.shops, f.shopsErr
}

func (f *fakeClient) ListShopOffers(_ context.Context, shopID int64) ([]protocol.ShopOffer, error) {
	f.record(call{op: "shop_offers", itemID: shopID})
	return f.shopOffers[shopID], nil
}

func (f *fakeClient) BuyShopOffer(_ context.Context, offerID string, count, price int64) (protocol.ShopPurchase, error) {
	f.record(call{op: "shop_buy", offerID: offerID, count: count})
	if f.shopBuy != nil {
		return f.shopBuy(offerID, count, price)
	}
	return protocol.ShopPurchase{}, nil
}
