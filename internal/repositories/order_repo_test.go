package repositories_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ordersvc/internal/models"
	"ordersvc/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteRepo(t *testing.T) *repositories.GORMOrderRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := repositories.OpenDB("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, repositories.Migrate(db))
	return repositories.NewGORMOrderRepository(db)
}

func repoImplementations(t *testing.T) map[string]repositories.OrderRepository {
	return map[string]repositories.OrderRepository{
		"memory": repositories.NewInMemoryOrderRepository(),
		"gorm":   newSQLiteRepo(t),
	}
}

func sampleOrder(userID string) *models.Order {
	return &models.Order{
		UserID:        userID,
		CustomerEmail: userID + "@example.com",
		Items: []models.OrderItem{
			{ProductID: "p-1", SellerID: "s-1", Name: "Mug", Price: decimal.RequireFromString("12.50"), Quantity: 2},
			{ProductID: "p-2", SellerID: "s-2", Name: "Tea", Price: decimal.RequireFromString("0.10"), Quantity: 3},
		},
		TotalAmount:     decimal.RequireFromString("25.30"),
		Status:          models.StatusPending,
		CreatedAt:       time.Now().UTC().Truncate(time.Second),
		PaymentMethod:   "PAY_ON_DELIVERY",
		ShippingAddress: &models.ShippingAddress{FullName: "Ann", City: "Tallinn"},
	}
}

func TestOrderRepository_SaveAssignsIDAndRoundTrips(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repoImplementations(t) {
		t.Run(name, func(t *testing.T) {
			order := sampleOrder("user-1")
			require.NoError(t, repo.Save(ctx, order))
			assert.NotEmpty(t, order.ID)

			found, err := repo.FindByID(ctx, order.ID)
			require.NoError(t, err)
			assert.Equal(t, order.UserID, found.UserID)
			assert.Equal(t, models.StatusPending, found.Status)
			assert.True(t, order.TotalAmount.Equal(found.TotalAmount))
			require.Len(t, found.Items, 2)
			assert.Equal(t, "p-1", found.Items[0].ProductID)
			assert.Equal(t, "p-2", found.Items[1].ProductID)
			assert.True(t, decimal.RequireFromString("0.10").Equal(found.Items[1].Price))
			assert.Equal(t, "Tallinn", found.ShippingAddress.City)
		})
	}
}

func TestOrderRepository_SaveOverwritesExisting(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repoImplementations(t) {
		t.Run(name, func(t *testing.T) {
			order := sampleOrder("user-1")
			require.NoError(t, repo.Save(ctx, order))
			id := order.ID

			order.MergePaymentDetails(map[string]string{"sessionId": "cs_1"})
			order.Status = models.StatusShipped
			require.NoError(t, repo.Save(ctx, order))
			assert.Equal(t, id, order.ID)

			found, err := repo.FindByID(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, models.StatusShipped, found.Status)
			assert.Equal(t, "cs_1", found.PaymentDetails["sessionId"])

			all, err := repo.FindAll(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 1)
		})
	}
}

func TestOrderRepository_FindByIDNotFound(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repoImplementations(t) {
		t.Run(name, func(t *testing.T) {
			found, err := repo.FindByID(ctx, "missing")
			assert.Nil(t, found)
			assert.ErrorIs(t, err, repositories.ErrOrderNotFound)
		})
	}
}

func TestOrderRepository_FindByUserIDAndFindAll(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repoImplementations(t) {
		t.Run(name, func(t *testing.T) {
			for _, u := range []string{"alice", "bob", "alice"} {
				require.NoError(t, repo.Save(ctx, sampleOrder(u)))
			}

			alice, err := repo.FindByUserID(ctx, "alice")
			require.NoError(t, err)
			assert.Len(t, alice, 2)
			for _, o := range alice {
				assert.Equal(t, "alice", o.UserID)
			}

			nobody, err := repo.FindByUserID(ctx, "carol")
			require.NoError(t, err)
			assert.NotNil(t, nobody)
			assert.Empty(t, nobody)

			first, err := repo.FindAll(ctx)
			require.NoError(t, err)
			second, err := repo.FindAll(ctx)
			require.NoError(t, err)
			assert.Len(t, first, 3)
			assert.Equal(t, first, second)
		})
	}
}

func TestInMemoryOrderRepository_StoresCopies(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewInMemoryOrderRepository()

	order := sampleOrder("user-1")
	require.NoError(t, repo.Save(ctx, order))

	// Mutating the caller's value after save must not leak into the store.
	order.MergePaymentDetails(map[string]string{"sessionId": "cs_1"})
	order.Items[0].Quantity = 99

	stored, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.PaymentDetails)
	assert.Equal(t, 2, stored.Items[0].Quantity)
}

func TestOpenDB_UnsupportedDriver(t *testing.T) {
	_, err := repositories.OpenDB("oracle", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}
