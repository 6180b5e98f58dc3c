package model

import "time"

type Product struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Price         float64    `json:"price"`
	DiscountPrice *float64   `json:"discount_price,omitempty"`
	Quantity      int        `json:"quantity"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
}

func (p *Product) GetID() string {
	return p.ID
}

func (p *Product) GetPrice() float64 {
	return p.Price
}

func (p *Product) GetQuantity() int {
	return p.Quantity
}

func (p *Product) SetQuantity(quantity int) {
	p.Quantity = quantity
}

// GetCost is price * quantity. A set discount price replaces the unit price.
func (p *Product) GetCost() float64 {
	price := p.Price
	if p.DiscountPrice != nil {
		price = *p.DiscountPrice
	}
	return price * float64(p.Quantity)
}

func (p *Product) SetDiscountPrice(price float64) {
	p.DiscountPrice = &price
}
