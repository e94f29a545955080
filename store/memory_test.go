package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-storefront/models"
)

func TestMemoryNextProductID(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyCatalogStartsAt40", func(t *testing.T) {
		m := NewMemory()
		id, err := m.NextProductID(ctx)
		require.NoError(t, err)
		require.Equal(t, 40, id)

		id, err = m.NextProductID(ctx)
		require.NoError(t, err)
		require.Equal(t, 41, id)
	})

	t.Run("SeedsFromHighestExistingID", func(t *testing.T) {
		m := NewMemory()
		require.NoError(t, m.InsertProduct(ctx, &models.Product{ID: 120, Date: time.Now()}))

		id, err := m.NextProductID(ctx)
		require.NoError(t, err)
		require.Equal(t, 121, id)
	})
}

func TestMemoryAdjustStock(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.InsertProduct(ctx, &models.Product{ID: 40, Quantity: 5}))

	require.NoError(t, m.AdjustStock(ctx, 40, -3))
	p, err := m.ProductByID(ctx, 40)
	require.NoError(t, err)
	require.Equal(t, 2, p.Quantity)

	err = m.AdjustStock(ctx, 40, -3)
	require.ErrorIs(t, err, ErrInsufficientStock)
	p, _ = m.ProductByID(ctx, 40)
	require.Equal(t, 2, p.Quantity)

	require.ErrorIs(t, m.AdjustStock(ctx, 99, 1), ErrProductNotFound)
}

func TestMemoryTransactionAllowsNestedStoreCalls(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.InsertProduct(ctx, &models.Product{ID: 40, Quantity: 5}))

	err := m.WithTransaction(ctx, func(ctx context.Context) error {
		if err := m.AdjustStock(ctx, 40, -2); err != nil {
			return err
		}
		p, err := m.ProductByID(ctx, 40)
		if err != nil {
			return err
		}
		require.Equal(t, 3, p.Quantity)
		return nil
	})
	require.NoError(t, err)
}

func TestMemoryCart(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	user := models.User{Name: "A", Email: "a@x.com", Cart: models.NewCart(), CreatedAt: time.Now()}
	require.NoError(t, m.InsertUser(ctx, &user))
	require.False(t, user.ID.IsZero())

	require.NoError(t, m.SetCartQuantity(ctx, "a@x.com", "40", 3))
	got, err := m.UserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, 3, got.Cart["40"])

	// Returned carts are copies: caller mutations must not leak back.
	got.Cart["40"] = 99
	again, err := m.UserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, 3, again.Cart["40"])

	require.NoError(t, m.RemoveCartEntry(ctx, "a@x.com", "40"))
	again, _ = m.UserByEmail(ctx, "a@x.com")
	_, present := again.Cart["40"]
	require.False(t, present)

	require.ErrorIs(t, m.SetCartQuantity(ctx, "nobody@x.com", "40", 1), ErrUserNotFound)
}
