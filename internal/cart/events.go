package cart

import "CartStoreAPI/internal/model"

// Event names. The position-specific event always fires before the generic
// cartChange event, and every listener runs before the mutator returns.
const (
	EventPositionPut          = "putPosition"
	EventPositionUpdate       = "updatePosition"
	EventBeforePositionRemove = "removePosition"
	EventCartChange           = "cartChange"
)

// Action tags carried by the cartChange event.
const (
	ActionPut       = "put"
	ActionUpdate    = "update"
	ActionRemove    = "remove"
	ActionRemoveAll = "removeAll"
	ActionPositions = "positions"
)

// Event is delivered synchronously to registered listeners. Position is nil for
// the removeAll and positions actions.
type Event struct {
	Name     string
	Action   string
	Position model.Position
}

type Listener func(Event)

// On registers a listener for the given event name. Listeners fire in
// registration order.
func (c *ShoppingCart) On(name string, fn Listener) {
	c.listeners[name] = append(c.listeners[name], fn)
}

func (c *ShoppingCart) trigger(name, action string, pos model.Position) {
	for _, fn := range c.listeners[name] {
		fn(Event{Name: name, Action: action, Position: pos})
	}
}
