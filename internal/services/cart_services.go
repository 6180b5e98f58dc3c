package services

import (
	"context"
	"sort"
	"sync"

	"CartStoreAPI/internal/cart"
	"CartStoreAPI/internal/logger"
	"CartStoreAPI/internal/model"
)

// ProductCatalog is what the cart flow needs from the product repository.
type ProductCatalog interface {
	cart.Catalog
	GetByID(ctx context.Context, id string) (*model.Product, error)
}

// SessionProvider hands out a session-tier store scoped to one client.
type SessionProvider interface {
	ForClient(clientID string) cart.KeyedStore
}

// CartService builds a cart per request, loads its prior state through the
// reconciler and runs every operation under a per-cart lock. Reads lock too:
// a cold load rehydrating from the cookie persists what it rebuilt, so an
// unlocked read racing a mutation could overwrite the fresher state. The lock
// closes the same-process lost-update race; cross-process races are accepted
// (see the reconciler).
type CartService struct {
	Products ProductCatalog
	Records  cart.RecordStore
	Sessions SessionProvider
	Log      *logger.Logger

	mu    sync.Mutex
	locks map[string]*cartLock
}

type cartLock struct {
	mu   sync.Mutex
	refs int
}

func NewCartService(pr ProductCatalog, cr cart.RecordStore, sessions SessionProvider, log *logger.Logger) *CartService {
	return &CartService{
		Products: pr,
		Records:  cr,
		Sessions: sessions,
		Log:      log.With("service", "CartService"),
		locks:    map[string]*cartLock{},
	}
}

// lockCart blocks until this client's cart slot is free and returns the
// release func. An entry is dropped once its last holder releases, so the map
// stays bounded by in-flight requests.
func (s *CartService) lockCart(clientID, cartID string) func() {
	key := clientID + ":" + cartID

	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &cartLock{}
		s.locks[key] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, key)
		}
		s.mu.Unlock()
	}
}

// open loads the cart for this client and slot from the first tier that has
// state.
func (s *CartService) open(ctx context.Context, clientID, cartID string, client cart.KeyedStore) (*cart.ShoppingCart, *cart.Reconciler, error) {
	rec := cart.NewReconciler(s.Sessions.ForClient(clientID), client, s.Records, s.Products, s.Log)
	c := cart.New(cartID, rec)
	c.On(cart.EventCartChange, func(e cart.Event) {
		s.Log.Debug("cart changed", "cartId", cartID, "action", e.Action)
	})
	if err := rec.Load(ctx, c); err != nil {
		return nil, nil, err
	}
	return c, rec, nil
}

func (s *CartService) Get(ctx context.Context, clientID, cartID string, client cart.KeyedStore) (*model.CartResponse, error) {
	release := s.lockCart(clientID, cartID)
	defer release()

	c, _, err := s.open(ctx, clientID, cartID, client)
	if err != nil {
		return nil, err
	}
	return buildResponse(c), nil
}

// Put adds quantity of a product to the cart, merging with an existing
// position by id.
func (s *CartService) Put(ctx context.Context, clientID, cartID string, client cart.KeyedStore, productID string, quantity int) (*model.CartResponse, error) {
	release := s.lockCart(clientID, cartID)
	defer release()

	c, _, err := s.open(ctx, clientID, cartID, client)
	if err != nil {
		return nil, err
	}
	p, err := s.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := c.Put(ctx, p, quantity); err != nil {
		return nil, err
	}
	return buildResponse(c), nil
}

// Update sets the exact quantity for a product; zero or less removes it.
func (s *CartService) Update(ctx context.Context, clientID, cartID string, client cart.KeyedStore, productID string, quantity int) (*model.CartResponse, error) {
	release := s.lockCart(clientID, cartID)
	defer release()

	c, _, err := s.open(ctx, clientID, cartID, client)
	if err != nil {
		return nil, err
	}
	pos, err := c.GetPositionByID(productID)
	if err != nil {
		if quantity <= 0 {
			// Nothing in the cart, nothing to remove.
			return buildResponse(c), nil
		}
		if pos, err = s.Products.FindOne(ctx, productID); err != nil {
			return nil, err
		}
	}
	if err := c.Update(ctx, pos, quantity); err != nil {
		return nil, err
	}
	return buildResponse(c), nil
}

func (s *CartService) Remove(ctx context.Context, clientID, cartID string, client cart.KeyedStore, productID string) (*model.CartResponse, error) {
	release := s.lockCart(clientID, cartID)
	defer release()

	c, _, err := s.open(ctx, clientID, cartID, client)
	if err != nil {
		return nil, err
	}
	pos, err := c.GetPositionByID(productID)
	if err != nil {
		return nil, err
	}
	if err := c.Remove(ctx, pos); err != nil {
		return nil, err
	}
	return buildResponse(c), nil
}

func (s *CartService) Clear(ctx context.Context, clientID, cartID string, client cart.KeyedStore) (*model.CartResponse, error) {
	release := s.lockCart(clientID, cartID)
	defer release()

	c, _, err := s.open(ctx, clientID, cartID, client)
	if err != nil {
		return nil, err
	}
	if err := c.RemoveAll(ctx); err != nil {
		return nil, err
	}
	return buildResponse(c), nil
}

// SetContact attaches buyer info to the cart's backing record. A cart that was
// never saved has no record, and the call is a no-op.
func (s *CartService) SetContact(ctx context.Context, clientID, cartID string, client cart.KeyedStore, info model.ContactInfo) error {
	release := s.lockCart(clientID, cartID)
	defer release()

	c, rec, err := s.open(ctx, clientID, cartID, client)
	if err != nil {
		return err
	}
	return rec.UpdateInfo(ctx, c, info)
}

// Hash returns the cart's content fingerprint, for change detection across
// snapshots.
func (s *CartService) Hash(ctx context.Context, clientID, cartID string, client cart.KeyedStore) (string, error) {
	release := s.lockCart(clientID, cartID)
	defer release()

	c, _, err := s.open(ctx, clientID, cartID, client)
	if err != nil {
		return "", err
	}
	return c.Hash(), nil
}

func buildResponse(c *cart.ShoppingCart) *model.CartResponse {
	positions := c.GetPositions()
	items := make([]model.CartItem, 0, len(positions))
	for id, pos := range positions {
		item := model.CartItem{
			ID:       id,
			Price:    pos.GetPrice(),
			Quantity: pos.GetQuantity(),
			Cost:     pos.GetCost(),
		}
		if p, ok := pos.(*model.Product); ok {
			item.Title = p.Title
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return &model.CartResponse{
		Items: items,
		Count: c.Count(),
		Cost:  c.Cost(),
		Code:  c.Code(),
	}
}
