package repository

import (
	"testing"

	"github.com/kpatel/shopcart-backend/internal/app/model"
	"github.com/kpatel/shopcart-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductRepoTest(t *testing.T) (ProductRepository, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	return NewProductRepository(testDB), testDB
}

func seedProduct(t *testing.T, repo ProductRepository, name, category string) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:          name,
		Category:      category,
		Price:         10.0,
		StockQuantity: 5,
	}
	require.NoError(t, repo.Create(product))
	return product
}

func TestProductRepository_CreateAndFind(t *testing.T) {
	repo, _ := setupProductRepoTest(t)

	product := seedProduct(t, repo, "Notebook", "stationery")

	found, err := repo.FindByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Notebook", found.Name)
}

func TestProductRepository_FindByID_NotFound(t *testing.T) {
	repo, _ := setupProductRepoTest(t)

	_, err := repo.FindByID(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProductRepository_BulkCreate(t *testing.T) {
	repo, _ := setupProductRepoTest(t)

	products := []model.Product{
		{Name: "A", Category: "x", Price: 1},
		{Name: "B", Category: "x", Price: 2},
		{Name: "C", Category: "y", Price: 3},
	}
	require.NoError(t, repo.BulkCreate(products, 2))

	all, err := repo.FindAll()
	assert.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestProductRepository_FindByCategory(t *testing.T) {
	repo, _ := setupProductRepoTest(t)

	seedProduct(t, repo, "Notebook", "stationery")
	seedProduct(t, repo, "Pen", "stationery")
	seedProduct(t, repo, "Mouse", "electronics")

	products, err := repo.FindByCategory("stationery")
	assert.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestProductRepository_Delete_SoftDeletes(t *testing.T) {
	repo, testDB := setupProductRepoTest(t)

	product := seedProduct(t, repo, "Notebook", "stationery")

	deleted, err := repo.Delete(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.FindByID(product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// The row is retained with a deletion timestamp
	var raw model.Product
	err = testDB.Unscoped().First(&raw, product.ID).Error
	assert.NoError(t, err)
	assert.True(t, raw.DeletedAt.Valid)
}

func TestProductRepository_Delete_NotFound(t *testing.T) {
	repo, _ := setupProductRepoTest(t)

	deleted, err := repo.Delete(9999)
	assert.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestProductRepository_SetBestSellerAndFind(t *testing.T) {
	repo, _ := setupProductRepoTest(t)

	product := seedProduct(t, repo, "Notebook", "stationery")
	seedProduct(t, repo, "Pen", "stationery")

	updated, err := repo.SetBestSeller(product.ID, true)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	sellers, err := repo.FindBestSellers()
	assert.NoError(t, err)
	require.Len(t, sellers, 1)
	assert.Equal(t, product.ID, sellers[0].ID)
}

func TestProductRepository_TopSellingProductIDs(t *testing.T) {
	repo, testDB := setupProductRepoTest(t)

	a := seedProduct(t, repo, "A", "x")
	b := seedProduct(t, repo, "B", "x")
	c := seedProduct(t, repo, "C", "x")

	order := &model.Order{UserID: 1, Status: model.OrderStatusPending}
	require.NoError(t, testDB.Create(order).Error)

	// b outsells a outsells c
	require.NoError(t, testDB.Create(&model.OrderItem{OrderID: order.ID, ProductID: a.ID, Quantity: 3, Price: 10}).Error)
	require.NoError(t, testDB.Create(&model.OrderItem{OrderID: order.ID, ProductID: b.ID, Quantity: 7, Price: 10}).Error)
	require.NoError(t, testDB.Create(&model.OrderItem{OrderID: order.ID, ProductID: c.ID, Quantity: 1, Price: 10}).Error)

	ids, err := repo.TopSellingProductIDs(2)
	assert.NoError(t, err)
	assert.Equal(t, []uint{b.ID, a.ID}, ids)
}

func TestProductRepository_ReplaceBestSellers(t *testing.T) {
	repo, _ := setupProductRepoTest(t)

	old := seedProduct(t, repo, "Old", "x")
	fresh := seedProduct(t, repo, "Fresh", "x")

	_, err := repo.SetBestSeller(old.ID, true)
	require.NoError(t, err)

	require.NoError(t, repo.ReplaceBestSellers([]uint{fresh.ID}))

	sellers, err := repo.FindBestSellers()
	assert.NoError(t, err)
	require.Len(t, sellers, 1)
	assert.Equal(t, fresh.ID, sellers[0].ID)
}

func TestProductRepository_ReplaceBestSellers_Empty(t *testing.T) {
	repo, _ := setupProductRepoTest(t)

	product := seedProduct(t, repo, "Old", "x")
	_, err := repo.SetBestSeller(product.ID, true)
	require.NoError(t, err)

	require.NoError(t, repo.ReplaceBestSellers(nil))

	sellers, err := repo.FindBestSellers()
	assert.NoError(t, err)
	assert.Len(t, sellers, 0)
}
