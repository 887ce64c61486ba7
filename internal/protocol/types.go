package protocol

import (
	"context"
	"encoding/json"

	"farm-keeper/internal/item"
)

// ItemCount pairs an item id with a quantity for use and grant lists.
type ItemCount struct {
	ItemID int64 `json:"item_id"`
	Count  int64 `json:"count"`
}

// MallOffer is a listing from the primary storefront. Price is an opaque
// record the server does not fully document; see PriceValue.
type MallOffer struct {
	OfferID string          `json:"offer_id"`
	ItemID  int64           `json:"item_id"`
	Price   json.RawMessage `json:"price"`
}

// MallPurchase is the reply to a mall buy.
type MallPurchase struct {
	GrantedCount int64 `json:"granted_count"`
}

// ShopOffer is a listing from the secondary storefront. LimitCount of 0
// means the server enforces no per-offer purchase limit.
type ShopOffer struct {
	ShopID           int64  `json:"shop_id"`
	OfferID          string `json:"offer_id"`
	ItemID           int64  `json:"item_id"`
	Price            int64  `json:"price"`
	LimitCount       int64  `json:"limit_count"`
	BoughtCount      int64  `json:"bought_count"`
	UnitsPerPurchase int64  `json:"units_per_purchase"`
}

// ShopPurchase is the reply to a shop buy. Granted and Cost itemize what
// the purchase actually delivered and charged; both may be empty on older
// server builds.
type ShopPurchase struct {
	Granted []ItemCount `json:"granted"`
	Cost    []ItemCount `json:"cost"`
}

// Client is the game-server contract the orchestrator consumes. All calls
// are synchronous; mutating calls must not be issued concurrently.
type Client interface {
	FetchBag(ctx context.Context) (item.Bag, error)
	UseItem(ctx context.Context, itemID, count int64) error
	ListMallOffers(ctx context.Context, slotType string) ([]MallOffer, error)
	BuyMallOffer(ctx context.Context, offerID string, count int64) (MallPurchase, error)
	ListShops(ctx context.Context) ([]int64, error)
	ListShopOffers(ctx context.Context, shopID int64) ([]ShopOffer, error)
	BuyShopOffer(ctx context.Context, offerID string, count, price int64) (ShopPurchase, error)
}
