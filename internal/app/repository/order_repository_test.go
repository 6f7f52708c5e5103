package repository

import (
	"testing"
	"time"

	"github.com/kpatel/shopcart-backend/internal/app/model"
	"github.com/kpatel/shopcart-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrderRepoTest(t *testing.T) (OrderRepository, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	return NewOrderRepository(testDB), testDB
}

func seedOrder(t *testing.T, testDB *gorm.DB, userID uint) *model.Order {
	t.Helper()

	product := &model.Product{
		Name:          "Test Product",
		Price:         10.0,
		Category:      "test",
		StockQuantity: 100,
	}
	require.NoError(t, testDB.Create(product).Error)

	order := &model.Order{
		UserID:      userID,
		TotalAmount: 20.0,
		Status:      model.OrderStatusPending,
		OrderItems: []model.OrderItem{
			{ProductID: product.ID, Quantity: 2, Price: 10.0},
		},
	}
	require.NoError(t, testDB.Create(order).Error)
	return order
}

func TestOrderRepository_FindAll_NewestFirst(t *testing.T) {
	repo, testDB := setupOrderRepoTest(t)

	first := seedOrder(t, testDB, 1)
	second := seedOrder(t, testDB, 2)

	orders, err := repo.FindAll()
	assert.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)

	// Items and their products come preloaded
	require.Len(t, orders[0].OrderItems, 1)
	assert.Equal(t, "Test Product", orders[0].OrderItems[0].Product.Name)
}

func TestOrderRepository_FindByID(t *testing.T) {
	repo, testDB := setupOrderRepoTest(t)

	order := seedOrder(t, testDB, 1)

	found, err := repo.FindByID(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
	require.Len(t, found.OrderItems, 1)
	assert.Equal(t, 2, found.OrderItems[0].Quantity)
}

func TestOrderRepository_FindByID_NotFound(t *testing.T) {
	repo, _ := setupOrderRepoTest(t)

	_, err := repo.FindByID(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	repo, testDB := setupOrderRepoTest(t)

	order := seedOrder(t, testDB, 1)

	updated, err := repo.UpdateStatus(order.ID, model.OrderStatusDelivered)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	found, err := repo.FindByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDelivered, found.Status)
}

func TestOrderRepository_UpdateStatus_NotFound(t *testing.T) {
	repo, _ := setupOrderRepoTest(t)

	updated, err := repo.UpdateStatus(9999, model.OrderStatusConfirmed)
	assert.NoError(t, err)
	assert.Zero(t, updated)
}

func TestNotificationRepository_CreateAndFind(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	repo := NewNotificationRepository(testDB)
	order := seedOrder(t, testDB, 1)

	notification := &model.EmailNotification{
		OrderID:    order.ID,
		Recipients: []string{"a@example.com", "b@example.com"},
		Subject:    "Your order",
		SentAt:     time.Now(),
	}
	require.NoError(t, repo.Create(notification))
	assert.NotZero(t, notification.ID)

	found, err := repo.FindByOrderID(order.ID)
	assert.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Your order", found[0].Subject)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, []string(found[0].Recipients))
}

func TestNotificationRepository_FindByOrderID_Empty(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	repo := NewNotificationRepository(testDB)

	found, err := repo.FindByOrderID(9999)
	assert.NoError(t, err)
	assert.Len(t, found, 0)
}
