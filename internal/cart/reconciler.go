package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"CartStoreAPI/internal/logger"
	"CartStoreAPI/internal/model"
)

// KeyedStore is get/set by cartID. The session tier and the client cookie tier
// both satisfy it.
type KeyedStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// RecordStore is the backing record table. Create assigns the generated code.
// UpdateDataByCode and UpdateContactByCode report whether a row matched.
type RecordStore interface {
	Create(ctx context.Context, data string) (*model.CartRecord, error)
	UpdateDataByCode(ctx context.Context, code, data string) (bool, error)
	FindByCode(ctx context.Context, code string) (*model.CartRecord, error)
	UpdateContactByCode(ctx context.Context, code, contact string) (bool, error)
}

// Catalog resolves a position id to a fully formed position, price included.
type Catalog interface {
	FindOne(ctx context.Context, id string) (model.Position, error)
}

// envelope is the client cookie value: just enough to find the backing record
// and rebuild the cart through the catalog.
type envelope struct {
	Code string         `json:"code"`
	Data map[string]int `json:"data"`
}

// snapshot is the session value. Richer than the envelope: full positions, so a
// warm load needs no catalog round trip.
type snapshot struct {
	Code      string          `json:"code"`
	Positions []model.Product `json:"positions"`
}

// Reconciler keeps a cart consistent across the session tier, the client
// cookie and the backing record. Precedence on load: session, then cookie,
// then empty. The three writes on save are best effort, not transactional.
type Reconciler struct {
	Session KeyedStore
	Client  KeyedStore
	Records RecordStore
	Catalog Catalog
	Log     *logger.Logger
}

func NewReconciler(session, client KeyedStore, records RecordStore, catalog Catalog, log *logger.Logger) *Reconciler {
	return &Reconciler{
		Session: session,
		Client:  client,
		Records: records,
		Catalog: catalog,
		Log:     log,
	}
}

// Load fills the cart from the first tier that has state. Malformed JSON in
// either tier reads as absent. Cookie ids the catalog cannot resolve are
// skipped, never fatal.
func (r *Reconciler) Load(ctx context.Context, c *ShoppingCart) error {
	raw, ok, err := r.Session.Get(ctx, c.cartID)
	if err != nil {
		return fmt.Errorf("session get: %w", err)
	}
	if ok {
		var snap snapshot
		if err := json.Unmarshal([]byte(raw), &snap); err == nil {
			c.setCode(snap.Code)
			for i := range snap.Positions {
				pos := snap.Positions[i]
				c.positions[pos.ID] = &pos
			}
			return nil
		}
		r.Log.Warn("session snapshot unreadable, falling back", "cartId", c.cartID)
	}

	raw, ok, err = r.Client.Get(ctx, c.cartID)
	if err != nil {
		return fmt.Errorf("client artifact get: %w", err)
	}
	if !ok {
		return nil
	}
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		r.Log.Warn("client envelope unreadable, starting empty", "cartId", c.cartID)
		return nil
	}
	c.setCode(env.Code)

	// Rebuild through Put so the usual events fire, with persistence held
	// back until the whole envelope is in.
	rec := c.rec
	c.rec = nil
	for id, quantity := range env.Data {
		pos, err := r.Catalog.FindOne(ctx, id)
		if err != nil {
			r.Log.Warn("skipping unresolvable position", "cartId", c.cartID, "id", id)
			continue
		}
		_ = c.Put(ctx, pos, quantity)
	}
	c.rec = rec
	if c.IsEmpty() {
		return nil
	}
	return r.Save(ctx, c)
}

// Save pushes the cart out to all three tiers. The backing record goes first
// so a freshly generated code lands in the cookie and session writes.
func (r *Reconciler) Save(ctx context.Context, c *ShoppingCart) error {
	dump := c.Dump()
	data, err := json.Marshal(dump)
	if err != nil {
		return fmt.Errorf("marshal dump: %w", err)
	}

	code, err := r.resolveCode(ctx, c)
	if err != nil {
		return err
	}
	if code == "" {
		record, err := r.Records.Create(ctx, string(data))
		if err != nil {
			return fmt.Errorf("create record: %w", err)
		}
		code = record.Code
	} else {
		matched, err := r.Records.UpdateDataByCode(ctx, code, string(data))
		if err != nil {
			return fmt.Errorf("update record %s: %w", code, err)
		}
		if !matched {
			// Stale code: the row is gone, mint a fresh record and let
			// the envelope heal itself below.
			record, err := r.Records.Create(ctx, string(data))
			if err != nil {
				return fmt.Errorf("recreate record: %w", err)
			}
			code = record.Code
		}
	}
	c.setCode(code)

	env, err := json.Marshal(envelope{Code: code, Data: dump})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if err := r.Client.Set(ctx, c.cartID, string(env)); err != nil {
		return fmt.Errorf("client artifact set: %w", err)
	}

	snap, err := json.Marshal(r.snapshotOf(c))
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := r.Session.Set(ctx, c.cartID, string(snap)); err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

// UpdateInfo writes the buyer contact onto the backing record matching the
// cart's code. Without a code, or without a matching record, it does nothing.
func (r *Reconciler) UpdateInfo(ctx context.Context, c *ShoppingCart, info model.ContactInfo) error {
	code := c.Code()
	if code == "" {
		var err error
		if code, err = r.resolveCode(ctx, c); err != nil {
			return err
		}
	}
	if code == "" {
		return nil
	}
	contact, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshal contact: %w", err)
	}
	if _, err := r.Records.UpdateContactByCode(ctx, code, string(contact)); err != nil {
		return fmt.Errorf("update contact %s: %w", code, err)
	}
	return nil
}

// resolveCode prefers the code cached on the cart, falling back to whatever
// the client envelope carries.
func (r *Reconciler) resolveCode(ctx context.Context, c *ShoppingCart) (string, error) {
	if c.Code() != "" {
		return c.Code(), nil
	}
	raw, ok, err := r.Client.Get(ctx, c.cartID)
	if err != nil {
		return "", fmt.Errorf("client artifact get: %w", err)
	}
	if !ok {
		return "", nil
	}
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return "", nil
	}
	return env.Code, nil
}

func (r *Reconciler) snapshotOf(c *ShoppingCart) snapshot {
	snap := snapshot{Code: c.Code(), Positions: make([]model.Product, 0, len(c.positions))}
	for _, pos := range c.positions {
		if p, ok := pos.(*model.Product); ok {
			snap.Positions = append(snap.Positions, *p)
			continue
		}
		snap.Positions = append(snap.Positions, model.Product{
			ID:       pos.GetID(),
			Price:    pos.GetPrice(),
			Quantity: pos.GetQuantity(),
		})
	}
	return snap
}
