package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/stockroomhq/stockroom/internal/models"
	"github.com/stockroomhq/stockroom/internal/store"
)

func newTestOrder(orgID, productID uuid.UUID, orderedAt time.Time) *models.Order {
	return &models.Order{
		OrderID:    uuid.Must(uuid.NewV7()),
		OrgID:      orgID,
		ProductID:  productID,
		Quantity:   1,
		TotalPrice: 10.0,
		OrderedAt:  orderedAt,
	}
}

func TestMemoryOrderStore_Get(t *testing.T) {
	t.Run("get existing order", func(t *testing.T) {
		st := NewOrderStore()
		ctx := context.Background()
		orgID := uuid.Must(uuid.NewV7())

		order := newTestOrder(orgID, uuid.Must(uuid.NewV7()), time.Now().UTC())
		require.NoError(t, st.Create(ctx, order))

		retrieved, err := st.Get(ctx, orgID, order.OrderID)
		require.NoError(t, err)
		require.Equal(t, order.OrderID, retrieved.OrderID)
		require.Equal(t, 10.0, retrieved.TotalPrice)
	})

	t.Run("get from another organization returns not found", func(t *testing.T) {
		st := NewOrderStore()
		ctx := context.Background()
		orgID := uuid.Must(uuid.NewV7())

		order := newTestOrder(orgID, uuid.Must(uuid.NewV7()), time.Now().UTC())
		require.NoError(t, st.Create(ctx, order))

		_, err := st.Get(ctx, uuid.Must(uuid.NewV7()), order.OrderID)
		require.ErrorIs(t, err, store.ErrOrderNotFound)
	})
}

func TestMemoryOrderStore_List(t *testing.T) {
	t.Run("list returns newest orders first", func(t *testing.T) {
		st := NewOrderStore()
		ctx := context.Background()
		orgID := uuid.Must(uuid.NewV7())
		productID := uuid.Must(uuid.NewV7())
		now := time.Now().UTC()

		oldest := newTestOrder(orgID, productID, now.Add(-2*time.Hour))
		middle := newTestOrder(orgID, productID, now.Add(-time.Hour))
		newest := newTestOrder(orgID, productID, now)

		require.NoError(t, st.Create(ctx, middle))
		require.NoError(t, st.Create(ctx, oldest))
		require.NoError(t, st.Create(ctx, newest))

		orders, err := st.List(ctx, orgID)
		require.NoError(t, err)
		require.Len(t, orders, 3)
		require.Equal(t, newest.OrderID, orders[0].OrderID)
		require.Equal(t, middle.OrderID, orders[1].OrderID)
		require.Equal(t, oldest.OrderID, orders[2].OrderID)
	})

	t.Run("list excludes other organizations", func(t *testing.T) {
		st := NewOrderStore()
		ctx := context.Background()
		orgID := uuid.Must(uuid.NewV7())

		require.NoError(t, st.Create(ctx, newTestOrder(orgID, uuid.Must(uuid.NewV7()), time.Now().UTC())))
		require.NoError(t, st.Create(ctx, newTestOrder(uuid.Must(uuid.NewV7()), uuid.Must(uuid.NewV7()), time.Now().UTC())))

		orders, err := st.List(ctx, orgID)
		require.NoError(t, err)
		require.Len(t, orders, 1)
	})
}

func TestMemoryOrderStore_UpdateFulfillment(t *testing.T) {
	t.Run("update flips the fulfilled flag", func(t *testing.T) {
		st := NewOrderStore()
		ctx := context.Background()
		orgID := uuid.Must(uuid.NewV7())

		order := newTestOrder(orgID, uuid.Must(uuid.NewV7()), time.Now().UTC())
		require.NoError(t, st.Create(ctx, order))

		require.NoError(t, st.UpdateFulfillment(ctx, orgID, order.OrderID, true))

		updated, err := st.Get(ctx, orgID, order.OrderID)
		require.NoError(t, err)
		require.True(t, updated.Fulfilled)
	})

	t.Run("update from another organization returns not found", func(t *testing.T) {
		st := NewOrderStore()
		ctx := context.Background()
		orgID := uuid.Must(uuid.NewV7())

		order := newTestOrder(orgID, uuid.Must(uuid.NewV7()), time.Now().UTC())
		require.NoError(t, st.Create(ctx, order))

		err := st.UpdateFulfillment(ctx, uuid.Must(uuid.NewV7()), order.OrderID, true)
		require.ErrorIs(t, err, store.ErrOrderNotFound)
	})
}
