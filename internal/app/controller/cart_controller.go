package controller

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kpatel/shopcart-backend/internal/app/service"
	"github.com/kpatel/shopcart-backend/internal/middleware"
	"github.com/kpatel/shopcart-backend/internal/response"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	UserID        uint    `json:"user_id" binding:"required"`
	ProductID     uint    `json:"product_id" binding:"required"`
	Quantity      int     `json:"quantity" binding:"required,gt=0"`
	ShippingPrice float64 `json:"shipping_price"`
	CouponCode    string  `json:"coupon_code"`
}

type UpdateCartRequest struct {
	UserID    uint `json:"user_id" binding:"required"`
	CartID    uint `json:"cart_id" binding:"required"`
	ProductID uint `json:"product_id" binding:"required"`
	// Pointer so an explicit 0 (remove the item) passes validation while a
	// missing field does not.
	Quantity *int `json:"quantity" binding:"required,gte=0"`
}

type DeleteCartProductRequest struct {
	UserID    uint `json:"user_id" binding:"required"`
	CartID    uint `json:"cart_id" binding:"required"`
	ProductID uint `json:"product_id" binding:"required"`
}

// AddToCart adds a product to the user's cart
// POST /add-to-cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"error": err.Error(),
		})
		response.BadRequest(c, "Product ID and quantity are required.")
		return
	}

	cart, err := ctrl.cartService.AddToCart(req.UserID, req.ProductID, req.Quantity, req.ShippingPrice, req.CouponCode)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.NotFound(c, "Product not found.")
			return
		}
		log.Error("Failed to add item to cart", err, map[string]interface{}{
			"user_id":    req.UserID,
			"product_id": req.ProductID,
		})
		response.InternalError(c, "")
		return
	}

	response.OK(c, "Product added to cart successfully", gin.H{
		"cart": cart,
	})
}

// GetCart returns the user's cart with product data resolved
// GET /get-cart/:userId
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	cart, err := ctrl.cartService.GetCart(userID)
	if err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			response.NotFound(c, "Cart not found.")
			return
		}
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		response.InternalError(c, "")
		return
	}

	response.OK(c, "Cart fetched successfully", gin.H{
		"cart": cart,
	})
}

// GetAllCartsByUser returns every cart of the user plus the total number of
// items across them
// GET /get-all-cart-by-user/:userId
func (ctrl *CartController) GetAllCartsByUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	carts, numberOfItems, err := ctrl.cartService.GetAllCartsByUser(userID)
	if err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			response.NotFound(c, "Cart not found.")
			return
		}
		log.Error("Failed to fetch carts for user", err, map[string]interface{}{
			"user_id": userID,
		})
		response.InternalError(c, "")
		return
	}

	response.OK(c, "Cart fetched successfully", gin.H{
		"cart":          carts,
		"numberOfItems": numberOfItems,
	})
}

// GetAllCarts returns every cart in the system
// GET /get-all-cart
func (ctrl *CartController) GetAllCarts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	carts, err := ctrl.cartService.GetAllCarts()
	if err != nil {
		log.Error("Failed to fetch all carts", err)
		response.InternalError(c, "")
		return
	}

	response.OK(c, "Cart fetched successfully", gin.H{
		"cart": carts,
	})
}

// UpdateCart sets the absolute quantity of a product in a cart; quantity 0
// removes the item
// PUT /update-cart
func (ctrl *CartController) UpdateCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update cart request", map[string]interface{}{
			"error": err.Error(),
		})
		response.BadRequest(c, "Product ID, quantity, user ID, and cart ID are required.")
		return
	}

	cart, err := ctrl.cartService.UpdateCartItem(req.UserID, req.CartID, req.ProductID, *req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartNotFound):
			response.NotFound(c, "Cart not found.")
		case errors.Is(err, service.ErrProductNotFound):
			response.NotFound(c, "Product not found.")
		case errors.Is(err, service.ErrCartItemNotFound):
			response.NotFound(c, "Item not found in the cart.")
		default:
			log.Error("Failed to update cart", err, map[string]interface{}{
				"user_id": req.UserID,
				"cart_id": req.CartID,
			})
			response.InternalError(c, "")
		}
		return
	}

	response.OK(c, "Cart updated successfully.", gin.H{
		"cart": cart,
	})
}

// DeleteCart deletes every cart of the user
// DELETE /delete-cart/:userId
func (ctrl *CartController) DeleteCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	if err := ctrl.cartService.DeleteCarts(userID); err != nil {
		if errors.Is(err, service.ErrNoCartsForUser) {
			response.NotFound(c, "No carts found for the user.")
			return
		}
		log.Error("Failed to delete carts", err, map[string]interface{}{
			"user_id": userID,
		})
		response.InternalError(c, "")
		return
	}

	response.OK(c, "All carts deleted successfully.", nil)
}

// DeleteCartProduct removes one product's line item from a cart
// DELETE /delete-cart-product
func (ctrl *CartController) DeleteCartProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req DeleteCartProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid delete cart product request", map[string]interface{}{
			"error": err.Error(),
		})
		response.BadRequest(c, "User ID, product ID, and cart ID are required.")
		return
	}

	cart, err := ctrl.cartService.RemoveCartProduct(req.UserID, req.CartID, req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartNotFound):
			response.NotFound(c, "Cart not found.")
		case errors.Is(err, service.ErrProductNotInCart):
			response.NotFound(c, "Product not found in cart.")
		default:
			log.Error("Failed to remove product from cart", err, map[string]interface{}{
				"user_id": req.UserID,
				"cart_id": req.CartID,
			})
			response.InternalError(c, "")
		}
		return
	}

	response.OK(c, "Product removed from cart successfully.", gin.H{
		"cart": cart,
	})
}

// parseIDParam reads a positive integer path parameter, answering 400 on
// garbage input.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		response.BadRequest(c, "Invalid "+name+" parameter.")
		return 0, false
	}
	return uint(value), true
}
