package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateItem_AndGet(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	item := newTestItem("item-1", "list-1", "Milk", 1000, 2, false)

	require.NoError(t, s.CreateItem(ctx, item))

	retrieved, err := s.GetItem(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, "Milk", retrieved.Name)
	assert.Equal(t, 1000.0, retrieved.Price)
	assert.Equal(t, 2, retrieved.Quantity)
	assert.False(t, retrieved.Purchased)
}

func TestCreateItem_Duplicate(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.CreateItem(ctx, newTestItem("item-1", "list-1", "Milk", 1000, 1, false)))

	err := s.CreateItem(ctx, newTestItem("item-1", "list-1", "Bread", 500, 1, false))
	assert.ErrorIs(t, err, ErrDuplicateItem)
}

func TestGetItem_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := s.GetItem(context.Background(), "item-missing")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestUpdateItem_TogglePurchased(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	item := newTestItem("item-1", "list-1", "Milk", 1000, 1, false)
	require.NoError(t, s.CreateItem(ctx, item))

	item.Purchased = !item.Purchased
	item.Touch()
	require.NoError(t, s.UpdateItem(ctx, item))

	retrieved, err := s.GetItem(ctx, "item-1")
	require.NoError(t, err)
	assert.True(t, retrieved.Purchased)
}

func TestUpdateItem_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	err := s.UpdateItem(context.Background(), newTestItem("item-missing", "list-1", "Milk", 1000, 1, false))
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestDeleteItem_RemovesFromListing(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.CreateItem(ctx, newTestItem("item-1", "list-1", "Milk", 1000, 1, false)))
	require.NoError(t, s.CreateItem(ctx, newTestItem("item-2", "list-1", "Bread", 500, 1, false)))

	require.NoError(t, s.DeleteItem(ctx, "item-1"))

	_, err := s.GetItem(ctx, "item-1")
	assert.ErrorIs(t, err, ErrItemNotFound)

	items, err := s.ListItemsByList(ctx, "list-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "item-2", items[0].ID)
}

func TestDeleteItem_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	err := s.DeleteItem(context.Background(), "item-missing")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestListItemsByList_OldestFirst(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	first := newTestItem("item-b", "list-1", "Milk", 1000, 1, false)
	require.NoError(t, s.CreateItem(ctx, first))

	time.Sleep(5 * time.Millisecond)
	second := newTestItem("item-a", "list-1", "Bread", 500, 1, false)
	require.NoError(t, s.CreateItem(ctx, second))

	items, err := s.ListItemsByList(ctx, "list-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	// Creation order wins over ID order.
	assert.Equal(t, "item-b", items[0].ID)
	assert.Equal(t, "item-a", items[1].ID)
}

func TestListItemsByList_ScopedToList(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.CreateItem(ctx, newTestItem("item-1", "list-1", "Milk", 1000, 1, false)))
	require.NoError(t, s.CreateItem(ctx, newTestItem("item-2", "list-2", "Bread", 500, 1, false)))

	items, err := s.ListItemsByList(ctx, "list-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "item-1", items[0].ID)
}

func TestListItemsByList_Empty(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	items, err := s.ListItemsByList(context.Background(), "list-empty")
	require.NoError(t, err)
	assert.Empty(t, items)
}
