package cart

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"CartStoreAPI/internal/model"
)

// DefaultCartID is the slot used when a caller does not name one. A client may
// hold several carts at once (wishlist, saved-for-later) under different ids.
const DefaultCartID = "cart"

var ErrPositionNotFound = errors.New("position not found")

// ShoppingCart owns the mapping from position id to position. Every mutation
// fires its events and then persists through the reconciler. A cart is scoped
// to one request; it is not safe for concurrent use.
type ShoppingCart struct {
	cartID    string
	code      string
	positions map[string]model.Position
	discounts []string
	listeners map[string][]Listener
	rec       *Reconciler
}

// New builds an empty cart for the given slot. The reconciler may be nil for
// carts that never persist (tests, dry runs).
func New(cartID string, rec *Reconciler) *ShoppingCart {
	if cartID == "" {
		cartID = DefaultCartID
	}
	return &ShoppingCart{
		cartID:    cartID,
		positions: map[string]model.Position{},
		listeners: map[string][]Listener{},
		rec:       rec,
	}
}

func (c *ShoppingCart) CartID() string {
	return c.cartID
}

// Discounts is an auxiliary list for callers layering discount rules on top of
// the cart. Totals ignore it; per-position discount prices do not.
func (c *ShoppingCart) Discounts() []string {
	return c.discounts
}

func (c *ShoppingCart) SetDiscounts(discounts []string) {
	c.discounts = discounts
}

// Code is the correlation code of the backing record, empty until the first
// durable save.
func (c *ShoppingCart) Code() string {
	return c.code
}

// Put adds quantity of the position, merging by id with whatever is already in
// the cart. A resulting quantity of zero or less removes the position; putting
// an absent position with a non-positive quantity does nothing.
func (c *ShoppingCart) Put(ctx context.Context, position model.Position, quantity int) error {
	id := position.GetID()
	if stored, ok := c.positions[id]; ok {
		total := stored.GetQuantity() + quantity
		if total <= 0 {
			return c.Remove(ctx, stored)
		}
		stored.SetQuantity(total)
	} else {
		if quantity <= 0 {
			return nil
		}
		position.SetQuantity(quantity)
		c.positions[id] = position
	}
	c.trigger(EventPositionPut, ActionPut, c.positions[id])
	c.trigger(EventCartChange, ActionPut, c.positions[id])
	return c.save(ctx)
}

// Update sets the position's quantity to the exact value, inserting it if
// absent. A non-positive quantity removes the position instead; updating an
// absent position to a non-positive quantity is a no-op.
func (c *ShoppingCart) Update(ctx context.Context, position model.Position, quantity int) error {
	id := position.GetID()
	if quantity <= 0 {
		if _, ok := c.positions[id]; !ok {
			return nil
		}
		return c.Remove(ctx, position)
	}
	if stored, ok := c.positions[id]; ok {
		stored.SetQuantity(quantity)
	} else {
		position.SetQuantity(quantity)
		c.positions[id] = position
	}
	c.trigger(EventPositionUpdate, ActionUpdate, c.positions[id])
	c.trigger(EventCartChange, ActionUpdate, c.positions[id])
	return c.save(ctx)
}

// Remove deletes the position from the cart. The events carry the stored
// position, not the argument.
func (c *ShoppingCart) Remove(ctx context.Context, position model.Position) error {
	stored, ok := c.positions[position.GetID()]
	if !ok {
		return ErrPositionNotFound
	}
	c.trigger(EventBeforePositionRemove, ActionRemove, stored)
	c.trigger(EventCartChange, ActionRemove, stored)
	delete(c.positions, position.GetID())
	return c.save(ctx)
}

// RemoveAll clears the cart. Fires a single cartChange event, no per-position
// events.
func (c *ShoppingCart) RemoveAll(ctx context.Context) error {
	c.positions = map[string]model.Position{}
	c.trigger(EventCartChange, ActionRemoveAll, nil)
	return c.save(ctx)
}

// GetPositionByID returns the stored position or ErrPositionNotFound.
func (c *ShoppingCart) GetPositionByID(id string) (model.Position, error) {
	if pos, ok := c.positions[id]; ok {
		return pos, nil
	}
	return nil, ErrPositionNotFound
}

func (c *ShoppingCart) HasPosition(id string) bool {
	_, ok := c.positions[id]
	return ok
}

func (c *ShoppingCart) GetPositions() map[string]model.Position {
	return c.positions
}

// SetPositions replaces the whole mapping.
func (c *ShoppingCart) SetPositions(ctx context.Context, positions map[string]model.Position) error {
	if positions == nil {
		positions = map[string]model.Position{}
	}
	c.positions = positions
	c.trigger(EventCartChange, ActionPositions, nil)
	return c.save(ctx)
}

func (c *ShoppingCart) IsEmpty() bool {
	return len(c.positions) == 0
}

// Count is the total quantity across all positions.
func (c *ShoppingCart) Count() int {
	count := 0
	for _, pos := range c.positions {
		count += pos.GetQuantity()
	}
	return count
}

// Cost is the sum of the individual position costs.
func (c *ShoppingCart) Cost() float64 {
	cost := 0.0
	for _, pos := range c.positions {
		cost += pos.GetCost()
	}
	return cost
}

// Hash is an md5 fingerprint over the (id, quantity, price) triples sorted by
// id, so two carts with the same contents hash identically no matter the order
// the positions went in, and a reloaded cart hashes the same as before the
// save.
func (c *ShoppingCart) Hash() string {
	ids := make([]string, 0, len(c.positions))
	for id := range c.positions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	h := md5.New()
	for _, id := range ids {
		pos := c.positions[id]
		fmt.Fprintf(h, "%s:%d:%s;", id, pos.GetQuantity(),
			strconv.FormatFloat(pos.GetPrice(), 'f', -1, 64))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Dump is the {position_id: quantity} projection written to the durable tiers.
func (c *ShoppingCart) Dump() map[string]int {
	dump := make(map[string]int, len(c.positions))
	for id, pos := range c.positions {
		dump[id] = pos.GetQuantity()
	}
	return dump
}

func (c *ShoppingCart) setCode(code string) {
	c.code = code
}

func (c *ShoppingCart) save(ctx context.Context) error {
	if c.rec == nil {
		return nil
	}
	return c.rec.Save(ctx, c)
}
