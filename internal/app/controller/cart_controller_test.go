package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kpatel/shopcart-backend/internal/app/model"
	"github.com/kpatel/shopcart-backend/internal/app/repository"
	"github.com/kpatel/shopcart-backend/internal/app/service"
	"github.com/kpatel/shopcart-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartControllerTest(t *testing.T) (*gin.Engine, *model.Product, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartService := service.NewCartService(cartRepo, productRepo)
	cartController := NewCartController(cartService)

	router := gin.New()
	router.POST("/add-to-cart", cartController.AddToCart)
	router.GET("/get-cart/:userId", cartController.GetCart)
	router.GET("/get-all-cart-by-user/:userId", cartController.GetAllCartsByUser)
	router.GET("/get-all-cart", cartController.GetAllCarts)
	router.PUT("/update-cart", cartController.UpdateCart)
	router.DELETE("/delete-cart/:userId", cartController.DeleteCart)
	router.DELETE("/delete-cart-product", cartController.DeleteCartProduct)

	product := &model.Product{
		Name:          "Wireless Mouse",
		Price:         29.99,
		Category:      "electronics",
		StockQuantity: 50,
	}
	testDB.Create(product)

	return router, product, testDB
}

func doJSON(router *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		data, _ := json.Marshal(payload)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCartController_AddToCart_Success(t *testing.T) {
	router, product, _ := setupCartControllerTest(t)

	w := doJSON(router, "POST", "/add-to-cart", map[string]interface{}{
		"user_id":    1,
		"product_id": product.ID,
		"quantity":   2,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseEnvelope(t, w)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "Product added to cart successfully", resp["message"])
	assert.NotNil(t, resp["cart"])
}

func TestCartController_AddToCart_MissingQuantity(t *testing.T) {
	router, product, _ := setupCartControllerTest(t)

	w := doJSON(router, "POST", "/add-to-cart", map[string]interface{}{
		"user_id":    1,
		"product_id": product.ID,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := parseEnvelope(t, w)
	assert.Equal(t, false, resp["success"])
}

func TestCartController_AddToCart_ZeroQuantity(t *testing.T) {
	router, product, _ := setupCartControllerTest(t)

	w := doJSON(router, "POST", "/add-to-cart", map[string]interface{}{
		"user_id":    1,
		"product_id": product.ID,
		"quantity":   0,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartController_AddToCart_UnknownProduct(t *testing.T) {
	router, _, _ := setupCartControllerTest(t)

	w := doJSON(router, "POST", "/add-to-cart", map[string]interface{}{
		"user_id":    1,
		"product_id": 9999,
		"quantity":   1,
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := parseEnvelope(t, w)
	assert.Equal(t, "Product not found.", resp["message"])
}

func TestCartController_GetCart_NotFound(t *testing.T) {
	router, _, _ := setupCartControllerTest(t)

	w := doJSON(router, "GET", "/get-cart/42", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := parseEnvelope(t, w)
	assert.Equal(t, false, resp["success"])
}

func TestCartController_GetCart_InvalidUserID(t *testing.T) {
	router, _, _ := setupCartControllerTest(t)

	w := doJSON(router, "GET", "/get-cart/abc", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartController_GetAllCartsByUser_NumberOfItems(t *testing.T) {
	router, product, testDB := setupCartControllerTest(t)

	other := &model.Product{Name: "Cable", Price: 9.99, Category: "electronics", StockQuantity: 10}
	testDB.Create(other)

	doJSON(router, "POST", "/add-to-cart", map[string]interface{}{
		"user_id": 1, "product_id": product.ID, "quantity": 2,
	})
	doJSON(router, "POST", "/add-to-cart", map[string]interface{}{
		"user_id": 1, "product_id": other.ID, "quantity": 3,
	})

	w := doJSON(router, "GET", "/get-all-cart-by-user/1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseEnvelope(t, w)
	assert.Equal(t, float64(5), resp["numberOfItems"])
}

func TestCartController_UpdateCart_ZeroQuantityAllowed(t *testing.T) {
	router, product, _ := setupCartControllerTest(t)

	w := doJSON(router, "POST", "/add-to-cart", map[string]interface{}{
		"user_id": 1, "product_id": product.ID, "quantity": 2,
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := parseEnvelope(t, w)
	cart := resp["cart"].(map[string]interface{})
	cartID := uint(cart["id"].(float64))

	// Explicit 0 removes the item rather than failing validation
	w = doJSON(router, "PUT", "/update-cart", map[string]interface{}{
		"user_id":    1,
		"cart_id":    cartID,
		"product_id": product.ID,
		"quantity":   0,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	resp = parseEnvelope(t, w)
	assert.Equal(t, "Cart updated successfully.", resp["message"])
	updated := resp["cart"].(map[string]interface{})
	assert.Empty(t, updated["items"])
}

func TestCartController_UpdateCart_MissingCartID(t *testing.T) {
	router, product, _ := setupCartControllerTest(t)

	w := doJSON(router, "PUT", "/update-cart", map[string]interface{}{
		"user_id":    1,
		"product_id": product.ID,
		"quantity":   2,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := parseEnvelope(t, w)
	assert.Equal(t, "Product ID, quantity, user ID, and cart ID are required.", resp["message"])
}

func TestCartController_UpdateCart_MissingQuantity(t *testing.T) {
	router, product, _ := setupCartControllerTest(t)

	w := doJSON(router, "PUT", "/update-cart", map[string]interface{}{
		"user_id":    1,
		"cart_id":    1,
		"product_id": product.ID,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartController_UpdateCart_WrongUser(t *testing.T) {
	router, product, _ := setupCartControllerTest(t)

	w := doJSON(router, "POST", "/add-to-cart", map[string]interface{}{
		"user_id": 1, "product_id": product.ID, "quantity": 2,
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := parseEnvelope(t, w)
	cart := resp["cart"].(map[string]interface{})
	cartID := uint(cart["id"].(float64))

	w = doJSON(router, "PUT", "/update-cart", map[string]interface{}{
		"user_id":    2,
		"cart_id":    cartID,
		"product_id": product.ID,
		"quantity":   5,
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp = parseEnvelope(t, w)
	assert.Equal(t, "Cart not found.", resp["message"])
}

func TestCartController_DeleteCart_Success(t *testing.T) {
	router, product, _ := setupCartControllerTest(t)

	doJSON(router, "POST", "/add-to-cart", map[string]interface{}{
		"user_id": 1, "product_id": product.ID, "quantity": 2,
	})

	w := doJSON(router, "DELETE", "/delete-cart/1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseEnvelope(t, w)
	assert.Equal(t, "All carts deleted successfully.", resp["message"])
}

func TestCartController_DeleteCart_NoCarts(t *testing.T) {
	router, _, _ := setupCartControllerTest(t)

	w := doJSON(router, "DELETE", "/delete-cart/42", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := parseEnvelope(t, w)
	assert.Equal(t, "No carts found for the user.", resp["message"])
}

func TestCartController_DeleteCartProduct_NotInCart(t *testing.T) {
	router, product, testDB := setupCartControllerTest(t)

	other := &model.Product{Name: "Cable", Price: 9.99, Category: "electronics", StockQuantity: 10}
	testDB.Create(other)

	w := doJSON(router, "POST", "/add-to-cart", map[string]interface{}{
		"user_id": 1, "product_id": product.ID, "quantity": 2,
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := parseEnvelope(t, w)
	cart := resp["cart"].(map[string]interface{})
	cartID := uint(cart["id"].(float64))

	w = doJSON(router, "DELETE", "/delete-cart-product", map[string]interface{}{
		"user_id":    1,
		"cart_id":    cartID,
		"product_id": other.ID,
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp = parseEnvelope(t, w)
	assert.Equal(t, "Product not found in cart.", resp["message"])

	// The cart keeps its line item
	w = doJSON(router, "GET", fmt.Sprintf("/get-cart/%d", 1), nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = parseEnvelope(t, w)
	current := resp["cart"].(map[string]interface{})
	assert.Len(t, current["items"], 1)
}

func TestCartController_DeleteCartProduct_Success(t *testing.T) {
	router, product, _ := setupCartControllerTest(t)

	w := doJSON(router, "POST", "/add-to-cart", map[string]interface{}{
		"user_id": 1, "product_id": product.ID, "quantity": 2,
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := parseEnvelope(t, w)
	cart := resp["cart"].(map[string]interface{})
	cartID := uint(cart["id"].(float64))

	w = doJSON(router, "DELETE", "/delete-cart-product", map[string]interface{}{
		"user_id":    1,
		"cart_id":    cartID,
		"product_id": product.ID,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	resp = parseEnvelope(t, w)
	assert.Equal(t, "Product removed from cart successfully.", resp["message"])
}
