package model

// CartRecord is a row in the cart table: the durable backing record for a cart,
// correlated by its generated code.
type CartRecord struct {
	ID        int64   `json:"id"`
	Code      string  `json:"code"`
	Data      string  `json:"data"`
	Contact   *string `json:"contact,omitempty"`
	CreatedAt int64   `json:"created_at"`
	UpdatedAt int64   `json:"updated_at"`
	Status    bool    `json:"status"`
}

// ContactInfo is the buyer info attached to a cart record at checkout handoff.
type ContactInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Comment string `json:"comment,omitempty"`
}

// CartItem is what the API exposes for a single cart position.
type CartItem struct {
	ID       string  `json:"id"`
	Title    string  `json:"title,omitempty"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Cost     float64 `json:"cost"`
}

// CartResponse is returned when calling GET /cart.
type CartResponse struct {
	Items []CartItem `json:"items"`
	Count int        `json:"count"`
	Cost  float64    `json:"cost"`
	Code  string     `json:"code,omitempty"`
}
