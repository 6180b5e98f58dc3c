package cart

import (
	"context"
	"testing"

	"CartStoreAPI/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id string, price float64) *model.Product {
	return &model.Product{ID: id, Title: "product " + id, Price: price}
}

func TestPutMergesByID(t *testing.T) {
	ctx := context.Background()
	c := New("cart", nil)

	require.NoError(t, c.Put(ctx, product("A", 10), 2))
	assert.Equal(t, 2, c.Count())
	assert.Equal(t, 20.0, c.Cost())

	require.NoError(t, c.Put(ctx, product("A", 10), 3))
	assert.Equal(t, 5, c.Count())
	assert.Equal(t, 50.0, c.Cost())

	pos, err := c.GetPositionByID("A")
	require.NoError(t, err)
	assert.Equal(t, 5, pos.GetQuantity())
	assert.Len(t, c.GetPositions(), 1)
}

func TestPutDrivingQuantityNonPositiveRemoves(t *testing.T) {
	ctx := context.Background()
	c := New("cart", nil)

	require.NoError(t, c.Put(ctx, product("A", 10), 2))
	require.NoError(t, c.Put(ctx, product("A", 10), -2))
	assert.True(t, c.IsEmpty())

	// Putting an absent position with a non-positive quantity changes nothing.
	require.NoError(t, c.Put(ctx, product("B", 5), 0))
	assert.True(t, c.IsEmpty())
	require.NoError(t, c.Put(ctx, product("B", 5), -1))
	assert.True(t, c.IsEmpty())
}

func TestUpdateSetsExactQuantity(t *testing.T) {
	ctx := context.Background()
	c := New("cart", nil)

	require.NoError(t, c.Put(ctx, product("A", 10), 2))
	require.NoError(t, c.Update(ctx, product("A", 10), 7))
	assert.Equal(t, 7, c.Count())

	// Update inserts when absent.
	require.NoError(t, c.Update(ctx, product("B", 3), 2))
	assert.Equal(t, 9, c.Count())
	assert.Equal(t, 76.0, c.Cost())
}

func TestUpdateNonPositiveRemoves(t *testing.T) {
	ctx := context.Background()

	for _, quantity := range []int{0, -1} {
		c := New("cart", nil)
		require.NoError(t, c.Put(ctx, product("A", 10), 2))
		require.NoError(t, c.Update(ctx, product("A", 10), quantity))
		assert.True(t, c.IsEmpty())
		assert.False(t, c.HasPosition("A"))
	}

	// Same end state as a direct remove.
	c := New("cart", nil)
	require.NoError(t, c.Put(ctx, product("A", 10), 2))
	pos, err := c.GetPositionByID("A")
	require.NoError(t, err)
	require.NoError(t, c.Remove(ctx, pos))
	assert.True(t, c.IsEmpty())

	// Updating an absent position to zero is a no-op, not an error.
	require.NoError(t, c.Update(ctx, product("Z", 1), 0))
}

func TestRemoveMissingPosition(t *testing.T) {
	c := New("cart", nil)
	err := c.Remove(context.Background(), product("A", 10))
	assert.ErrorIs(t, err, ErrPositionNotFound)
}

func TestGetPositionByIDMiss(t *testing.T) {
	c := New("cart", nil)
	pos, err := c.GetPositionByID("nope")
	assert.Nil(t, pos)
	assert.ErrorIs(t, err, ErrPositionNotFound)
}

func TestSetPositionsReplaces(t *testing.T) {
	ctx := context.Background()
	c := New("cart", nil)
	require.NoError(t, c.Put(ctx, product("A", 10), 2))

	var actions []string
	c.On(EventCartChange, func(e Event) { actions = append(actions, e.Action) })

	replacement := map[string]model.Position{}
	b := product("B", 4)
	b.SetQuantity(3)
	replacement["B"] = b
	require.NoError(t, c.SetPositions(ctx, replacement))

	assert.Equal(t, []string{ActionPositions}, actions)
	assert.False(t, c.HasPosition("A"))
	assert.Equal(t, 3, c.Count())
	assert.Equal(t, 12.0, c.Cost())

	require.NoError(t, c.SetPositions(ctx, nil))
	assert.True(t, c.IsEmpty())
}

func TestEmptyCartScenario(t *testing.T) {
	ctx := context.Background()
	c := New("cart", nil)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.Count())
	assert.Equal(t, 0.0, c.Cost())

	require.NoError(t, c.Put(ctx, product("A", 10), 2))
	assert.Equal(t, 2, c.Count())
	assert.Equal(t, 20.0, c.Cost())

	require.NoError(t, c.Put(ctx, product("A", 10), 3))
	assert.Equal(t, 5, c.Count())
	assert.Equal(t, 50.0, c.Cost())

	require.NoError(t, c.Update(ctx, product("A", 10), 0))
	assert.True(t, c.IsEmpty())
}

func TestPutEventOrder(t *testing.T) {
	ctx := context.Background()
	c := New("cart", nil)

	var fired []string
	c.On(EventPositionPut, func(e Event) {
		fired = append(fired, e.Name)
		require.NotNil(t, e.Position)
		assert.Equal(t, "A", e.Position.GetID())
	})
	c.On(EventCartChange, func(e Event) {
		fired = append(fired, e.Name)
		assert.Equal(t, ActionPut, e.Action)
	})

	require.NoError(t, c.Put(ctx, product("A", 10), 1))
	assert.Equal(t, []string{EventPositionPut, EventCartChange}, fired)
}

func TestRemoveEventsCarryStoredPosition(t *testing.T) {
	ctx := context.Background()
	c := New("cart", nil)
	require.NoError(t, c.Put(ctx, product("A", 10), 4))

	var removed model.Position
	c.On(EventBeforePositionRemove, func(e Event) { removed = e.Position })

	require.NoError(t, c.Remove(ctx, product("A", 10)))
	require.NotNil(t, removed)
	assert.Equal(t, 4, removed.GetQuantity())
}

func TestRemoveAllFiresSingleCartChange(t *testing.T) {
	ctx := context.Background()
	c := New("cart", nil)
	require.NoError(t, c.Put(ctx, product("A", 10), 2))
	require.NoError(t, c.Put(ctx, product("B", 5), 1))

	var changes []Event
	perPosition := 0
	c.On(EventCartChange, func(e Event) { changes = append(changes, e) })
	c.On(EventPositionPut, func(Event) { perPosition++ })
	c.On(EventPositionUpdate, func(Event) { perPosition++ })
	c.On(EventBeforePositionRemove, func(Event) { perPosition++ })

	require.NoError(t, c.RemoveAll(ctx))
	require.Len(t, changes, 1)
	assert.Equal(t, ActionRemoveAll, changes[0].Action)
	assert.Nil(t, changes[0].Position)
	assert.Zero(t, perPosition)
	assert.True(t, c.IsEmpty())
}

func TestHashStableAcrossBuildOrder(t *testing.T) {
	ctx := context.Background()

	first := New("cart", nil)
	require.NoError(t, first.Put(ctx, product("A", 10), 2))
	require.NoError(t, first.Put(ctx, product("B", 5), 1))

	second := New("cart", nil)
	require.NoError(t, second.Put(ctx, product("B", 5), 1))
	require.NoError(t, second.Put(ctx, product("A", 10), 1))
	require.NoError(t, second.Put(ctx, product("A", 10), 1))

	assert.Equal(t, first.Hash(), second.Hash())
}

func TestHashChangesWithContents(t *testing.T) {
	ctx := context.Background()

	base := New("cart", nil)
	require.NoError(t, base.Put(ctx, product("A", 10), 2))

	differentQty := New("cart", nil)
	require.NoError(t, differentQty.Put(ctx, product("A", 10), 3))
	assert.NotEqual(t, base.Hash(), differentQty.Hash())

	differentPrice := New("cart", nil)
	require.NoError(t, differentPrice.Put(ctx, product("A", 11), 2))
	assert.NotEqual(t, base.Hash(), differentPrice.Hash())

	empty := New("cart", nil)
	assert.NotEqual(t, base.Hash(), empty.Hash())
}

func TestDump(t *testing.T) {
	ctx := context.Background()
	c := New("cart", nil)
	require.NoError(t, c.Put(ctx, product("A", 10), 2))
	require.NoError(t, c.Put(ctx, product("B", 5), 7))

	assert.Equal(t, map[string]int{"A": 2, "B": 7}, c.Dump())
}
