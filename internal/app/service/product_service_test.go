package service

import (
	"testing"
	"time"

	"github.com/kpatel/shopcart-backend/internal/app/model"
	"github.com/kpatel/shopcart-backend/internal/app/repository"
	"github.com/kpatel/shopcart-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T) (ProductService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	productService := NewProductService(productRepo, time.Minute)

	return productService, testDB
}

func createTestProduct(t *testing.T, s ProductService, name, category string, price float64) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:          name,
		Category:      category,
		Price:         price,
		StockQuantity: 10,
	}
	require.NoError(t, s.CreateProduct(product))
	return product
}

func TestProductService_CreateProduct(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	product := createTestProduct(t, productService, "Notebook", "stationery", 4.99)
	assert.NotZero(t, product.ID)

	fetched, err := productService.GetProductByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Notebook", fetched.Name)
}

func TestProductService_GetProductByID_NotFound(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	_, err := productService.GetProductByID(9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_GetAllProducts(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	createTestProduct(t, productService, "Notebook", "stationery", 4.99)
	createTestProduct(t, productService, "Pen", "stationery", 1.49)

	products, err := productService.GetAllProducts()
	assert.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestProductService_GetProductsByCategory(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	createTestProduct(t, productService, "Notebook", "stationery", 4.99)
	createTestProduct(t, productService, "Mouse", "electronics", 29.99)

	products, err := productService.GetProductsByCategory("electronics")
	assert.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Mouse", products[0].Name)
}

func TestProductService_GetProductsByCategory_Empty(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	products, err := productService.GetProductsByCategory("furniture")
	assert.NoError(t, err)
	assert.Len(t, products, 0)
}

func TestProductService_UpdateProduct_Partial(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	product := createTestProduct(t, productService, "Notebook", "stationery", 4.99)

	newPrice := 5.99
	newStock := 25
	updated, err := productService.UpdateProduct(product.ID, ProductUpdate{
		Price:         &newPrice,
		StockQuantity: &newStock,
	})
	assert.NoError(t, err)
	assert.Equal(t, 5.99, updated.Price)
	assert.Equal(t, 25, updated.StockQuantity)
	// Untouched fields keep their values
	assert.Equal(t, "Notebook", updated.Name)
	assert.Equal(t, "stationery", updated.Category)
}

func TestProductService_UpdateProduct_NotFound(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	name := "Ghost"
	_, err := productService.UpdateProduct(9999, ProductUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_DeleteProduct(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	product := createTestProduct(t, productService, "Notebook", "stationery", 4.99)

	err := productService.DeleteProduct(product.ID)
	assert.NoError(t, err)

	_, err = productService.GetProductByID(product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_DeleteProduct_NotFound(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	err := productService.DeleteProduct(9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_MarkBestSeller(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	product := createTestProduct(t, productService, "Notebook", "stationery", 4.99)

	flagged, err := productService.MarkBestSeller(product.ID)
	assert.NoError(t, err)
	assert.True(t, flagged.BestSeller)

	sellers, err := productService.GetBestSellers()
	assert.NoError(t, err)
	require.Len(t, sellers, 1)
	assert.Equal(t, product.ID, sellers[0].ID)
}

func TestProductService_MarkBestSeller_NotFound(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	_, err := productService.MarkBestSeller(9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_RecomputeBestSellers(t *testing.T) {
	productService, testDB := setupProductServiceTest(t)

	popular := createTestProduct(t, productService, "Mouse", "electronics", 29.99)
	slow := createTestProduct(t, productService, "Cable", "electronics", 9.99)
	stale := createTestProduct(t, productService, "Lamp", "home", 19.99)

	// A previously flagged product with no sales loses the flag
	_, err := productService.MarkBestSeller(stale.ID)
	require.NoError(t, err)

	order := &model.Order{UserID: 1, Status: model.OrderStatusPending, TotalAmount: 100}
	require.NoError(t, testDB.Create(order).Error)
	require.NoError(t, testDB.Create(&model.OrderItem{
		OrderID: order.ID, ProductID: popular.ID, Quantity: 10, Price: 29.99,
	}).Error)
	require.NoError(t, testDB.Create(&model.OrderItem{
		OrderID: order.ID, ProductID: slow.ID, Quantity: 2, Price: 9.99,
	}).Error)

	flagged, err := productService.RecomputeBestSellers(1)
	assert.NoError(t, err)
	assert.Equal(t, 1, flagged)

	sellers, err := productService.GetBestSellers()
	assert.NoError(t, err)
	require.Len(t, sellers, 1)
	assert.Equal(t, popular.ID, sellers[0].ID)
}
