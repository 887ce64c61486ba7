package protocol

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"

	"farm-keeper/internal/item"
)

var (
	ErrClosed      = errors.New("connection_closed")
	ErrCallTimeout = errors.New("call_timeout")
)

type request struct {
	Op        string          `json:"op"`
	RequestID string          `json:"request_id"`
	Account   string          `json:"account,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

type response struct {
	Op        string          `json:"op"`
	RequestID string          `json:"request_id"`
	Ok        bool            `json:"ok"`
	Code      int             `json:"code,omitempty"`
	Error     string          `json:"error,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// WSClient speaks the game protocol over a single websocket connection.
// Calls are correlated by request id; server pushes (empty request id) are
// routed to the push hook.
type WSClient struct {
	conn        *websocket.Conn
	account     string
	callTimeout time.Duration

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan response
	closed  bool

	onPush func(op string, data json.RawMessage)

	idMu      sync.Mutex
	idEntropy *rand.Rand
}

var _ Client = (*WSClient)(nil)

type DialOptions struct {
	URL         string
	Account     string
	Token       string
	CallTimeout time.Duration
	// OnPush receives server-initiated messages such as login_required.
	// It is invoked from the read loop and must not block.
	OnPush func(op string, data json.RawMessage)
}

func Dial(opts DialOptions) (*WSClient, error) {
	header := http.Header{}
	if opts.Token != "" {
		header.Set("Authorization", "Bearer "+opts.Token)
	}
	conn, _, err := websocket.DefaultDialer.Dial(opts.URL, header)
	if err != nil {
		return nil, err
	}
	timeout := opts.CallTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &WSClient{
		conn:        conn,
		account:     opts.Account,
		callTimeout: timeout,
		pending:     map[string]chan response{},
		onPush:      opts.OnPush,
		idEntropy:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	go c.readLoop()
	return c, nil
}

func (c *WSClient) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()
	return c.conn.Close()
}

func (c *WSClient) readLoop() {
	defer c.failPending()
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var resp response
		if err := json.Unmarshal(msg, &resp); err != nil {
			log.Warn().Err(err).Msg("protocol: undecodable frame")
			continue
		}
		if resp.RequestID == "" {
			if c.onPush != nil {
				c.onPush(resp.Op, resp.Data)
			}
			continue
		}
		c.mu.Lock()
		ch := c.pending[resp.RequestID]
		delete(c.pending, resp.RequestID)
		c.mu.Unlock()
		if ch != nil {
			ch <- resp
		}
	}
}

func (c *WSClient) failPending() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
}

func (c *WSClient) nextID() string {
	c.idMu.Lock()
	defer c.idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), c.idEntropy).String()
}

func (c *WSClient) call(ctx context.Context, op string, in, out any) error {
	var data json.RawMessage
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		data = raw
	}
	id := c.nextID()
	ch := make(chan response, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.pending[id] = ch
	c.mu.Unlock()

	payload, err := json.Marshal(request{Op: op, RequestID: id, Account: c.account, Data: data})
	if err != nil {
		c.forget(id)
		return err
	}
	c.writeMu.Lock()
	err = c.conn.WriteMessage(websocket.TextMessage, payload)
	c.writeMu.Unlock()
	if err != nil {
		c.forget(id)
		return err
	}

	timer := time.NewTimer(c.callTimeout)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		c.forget(id)
		return ctx.Err()
	case <-timer.C:
		c.forget(id)
		return ErrCallTimeout
	case resp, ok := <-ch:
		if !ok {
			return ErrClosed
		}
		if !resp.Ok {
			return newServerError(resp.Code, resp.Error)
		}
		if out != nil && len(resp.Data) > 0 {
			return json.Unmarshal(resp.Data, out)
		}
		return nil
	}
}

func (c *WSClient) forget(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

func (c *WSClient) FetchBag(ctx context.Context) (item.Bag, error) {
	var resp struct {
		Items []ItemCount `json:"items"`
	}
	if err := c.call(ctx, "bag.list", nil, &resp); err != nil {
		return nil, err
	}
	bag := make(item.Bag, 0, len(resp.Items))
	for _, it := range resp.Items {
		bag = append(bag, item.Stack{ItemID: it.ItemID, Count: it.Count})
	}
	return bag, nil
}

func (c *WSClient) UseItem(ctx context.Context, itemID, count int64) error {
	return c.call(ctx, "item.use", ItemCount{ItemID: itemID, Count: count}, nil)
}

func (c *WSClient) ListMallOffers(ctx context.Context, slotType string) ([]MallOffer, error) {
	in := struct {
		SlotType string `json:"slot_type"`
	}{SlotType: slotType}
	var resp struct {
		Offers []MallOffer `json:"offers"`
	}
	if err := c.call(ctx, "mall.offers", in, &resp); err != nil {
		return nil, err
	}
	return resp.Offers, nil
}

func (c *WSClient) BuyMallOffer(ctx context.Context, offerID string, count int64) (MallPurchase, error) {
	in := struct {
		OfferID string `json:"offer_id"`
		Count   int64  `json:"count"`
	}{OfferID: offerID, Count: count}
	var resp MallPurchase
	err := c.call(ctx, "mall.buy", in, &resp)
	return resp, err
}

func (c *WSClient) ListShops(ctx context.Context) ([]int64, error) {
	var resp struct {
		ShopIDs []int64 `json:"shop_ids"`
	}
	if err := c.call(ctx, "shop.list", nil, &resp); err != nil {
		return nil, err
	}
	return resp.ShopIDs, nil
}

func (c *WSClient) ListShopOffers(ctx context.Context, shopID int64) ([]ShopOffer, error) {
	in := struct {
		ShopID int64 `json:"shop_id"`
	}{ShopID: shopID}
	var resp struct {
		Offers []ShopOffer `json:"offers"`
	}
	if err := c.call(ctx, "shop.offers", in, &resp); err != nil {
		return nil, err
	}
	for i := range resp.Offers {
		resp.Offers[i].ShopID = shopID
	}
	return resp.Offers, nil
}

func (c *WSClient) BuyShopOffer(ctx context.Context, offerID string, count, price int64) (ShopPurchase, error) {
	in := struct {
		OfferID string `json:"offer_id"`
		Count   int64  `json:"count"`
		Price   int64  `json:"price"`
	}{OfferID: offerID, Count: count, Price: price}
	var resp ShopPurchase
	err := c.call(ctx, "shop.buy", in, &resp)
	return resp, err
}
