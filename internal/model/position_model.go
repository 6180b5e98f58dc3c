package model

// Position is the capability contract a catalog item must satisfy to live in a
// cart. The cart never depends on a concrete item type, only on this set.
type Position interface {
	GetID() string
	GetPrice() float64
	GetQuantity() int
	SetQuantity(quantity int)
	GetCost() float64
}
