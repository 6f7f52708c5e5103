package service

import (
	"errors"

	"github.com/kpatel/shopcart-backend/internal/app/model"
	"github.com/kpatel/shopcart-backend/internal/app/repository"
	"github.com/kpatel/shopcart-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("item not found in the cart")
	ErrProductNotInCart = errors.New("product not found in cart")
	ErrNoCartsForUser   = errors.New("no carts found for the user")
)

type CartService interface {
	AddToCart(userID, productID uint, quantity int, shippingPrice float64, couponCode string) (*model.Cart, error)
	GetCart(userID uint) (*model.Cart, error)
	GetAllCartsByUser(userID uint) ([]model.Cart, int, error)
	GetAllCarts() ([]model.Cart, error)
	UpdateCartItem(userID, cartID, productID uint, quantity int) (*model.Cart, error)
	DeleteCarts(userID uint) error
	RemoveCartProduct(userID, cartID, productID uint) (*model.Cart, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// AddToCart puts quantity units of a product into the user's active cart,
// creating the cart if the user has none. When the product is already in the
// cart the quantity is incremented and shipping price and coupon code are
// overwritten; the whole step is a single atomic upsert.
func (s *cartService) AddToCart(userID, productID uint, quantity int, shippingPrice float64, couponCode string) (*model.Cart, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}

	cart, err := s.cartRepo.FindActiveByUserID(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to fetch cart", err, map[string]interface{}{
				"user_id": userID,
			})
			return nil, err
		}

		cart = &model.Cart{UserID: userID}
		if err := s.cartRepo.CreateCart(cart); err != nil {
			return nil, err
		}
		logger.Debug("Created new cart for user", map[string]interface{}{
			"user_id": userID,
			"cart_id": cart.ID,
		})
	}

	item := &model.CartItem{
		CartID:        cart.ID,
		ProductID:     productID,
		Quantity:      quantity,
		ShippingPrice: shippingPrice,
		CouponCode:    couponCode,
	}
	if err := s.cartRepo.UpsertItem(item); err != nil {
		return nil, err
	}

	updated, err := s.cartRepo.FindByIDAndUser(cart.ID, userID)
	if err != nil {
		logger.Error("Failed to reload cart after add", err, map[string]interface{}{
			"cart_id": cart.ID,
		})
		return nil, err
	}

	logger.Info("Item added to cart successfully", map[string]interface{}{
		"user_id":    userID,
		"cart_id":    cart.ID,
		"product_id": productID,
	})
	return updated, nil
}

// GetCart returns the user's active cart with product data resolved.
func (s *cartService) GetCart(userID uint) (*model.Cart, error) {
	logger.Debug("Fetching cart", map[string]interface{}{
		"user_id": userID,
	})

	cart, err := s.cartRepo.FindActiveByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		logger.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return cart, nil
}

// GetAllCartsByUser returns every cart of the user along with the total
// number of items (sum of quantities across all carts).
func (s *cartService) GetAllCartsByUser(userID uint) ([]model.Cart, int, error) {
	carts, err := s.cartRepo.FindAllByUserID(userID)
	if err != nil {
		return nil, 0, err
	}
	if len(carts) == 0 {
		logger.Warn("No carts found for user", map[string]interface{}{
			"user_id": userID,
		})
		return nil, 0, ErrCartNotFound
	}

	numberOfItems := 0
	for i := range carts {
		numberOfItems += carts[i].NumberOfItems()
	}

	logger.Info("Carts fetched for user", map[string]interface{}{
		"user_id":         userID,
		"cart_count":      len(carts),
		"number_of_items": numberOfItems,
	})
	return carts, numberOfItems, nil
}

func (s *cartService) GetAllCarts() ([]model.Cart, error) {
	carts, err := s.cartRepo.FindAll()
	if err != nil {
		return nil, err
	}

	logger.Info("All carts fetched", map[string]interface{}{
		"count": len(carts),
	})
	return carts, nil
}

// UpdateCartItem sets the absolute quantity of a product in the given cart.
// Quantity 0 removes the item. The cart must belong to the user.
func (s *cartService) UpdateCartItem(userID, cartID, productID uint, quantity int) (*model.Cart, error) {
	logger.Info("Updating cart item", map[string]interface{}{
		"user_id":    userID,
		"cart_id":    cartID,
		"product_id": productID,
		"quantity":   quantity,
	})

	cart, err := s.cartRepo.FindByIDAndUser(cartID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart not found for update", map[string]interface{}{
				"user_id": userID,
				"cart_id": cartID,
			})
			return nil, ErrCartNotFound
		}
		logger.Error("Failed to fetch cart for update", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return nil, err
	}

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if _, err := s.cartRepo.FindItem(cart.ID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Item not found in cart", map[string]interface{}{
				"cart_id":    cart.ID,
				"product_id": productID,
			})
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}

	if quantity == 0 {
		if _, err := s.cartRepo.DeleteItem(cart.ID, productID); err != nil {
			return nil, err
		}
	} else {
		if err := s.cartRepo.UpdateItemQuantity(cart.ID, productID, quantity); err != nil {
			return nil, err
		}
	}

	updated, err := s.cartRepo.FindByIDAndUser(cart.ID, userID)
	if err != nil {
		logger.Error("Failed to reload cart after update", err, map[string]interface{}{
			"cart_id": cart.ID,
		})
		return nil, err
	}

	logger.Info("Cart item updated successfully", map[string]interface{}{
		"cart_id":    cart.ID,
		"product_id": productID,
		"quantity":   quantity,
	})
	return updated, nil
}

// DeleteCarts removes every cart of the user.
func (s *cartService) DeleteCarts(userID uint) error {
	logger.Info("Deleting all carts for user", map[string]interface{}{
		"user_id": userID,
	})

	deleted, err := s.cartRepo.DeleteByUserID(userID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		logger.Warn("No carts to delete for user", map[string]interface{}{
			"user_id": userID,
		})
		return ErrNoCartsForUser
	}

	logger.Info("Carts deleted successfully", map[string]interface{}{
		"user_id": userID,
		"count":   deleted,
	})
	return nil
}

// RemoveCartProduct removes a product's line item from the given cart. The
// cart must belong to the user.
func (s *cartService) RemoveCartProduct(userID, cartID, productID uint) (*model.Cart, error) {
	logger.Info("Removing product from cart", map[string]interface{}{
		"user_id":    userID,
		"cart_id":    cartID,
		"product_id": productID,
	})

	cart, err := s.cartRepo.FindByIDAndUser(cartID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart not found for removal", map[string]interface{}{
				"user_id": userID,
				"cart_id": cartID,
			})
			return nil, ErrCartNotFound
		}
		logger.Error("Failed to fetch cart for removal", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return nil, err
	}

	removed, err := s.cartRepo.DeleteItem(cart.ID, productID)
	if err != nil {
		return nil, err
	}
	if removed == 0 {
		logger.Warn("Product not found in cart", map[string]interface{}{
			"cart_id":    cart.ID,
			"product_id": productID,
		})
		return nil, ErrProductNotInCart
	}

	updated, err := s.cartRepo.FindByIDAndUser(cart.ID, userID)
	if err != nil {
		logger.Error("Failed to reload cart after removal", err, map[string]interface{}{
			"cart_id": cart.ID,
		})
		return nil, err
	}

	logger.Info("Product removed from cart successfully", map[string]interface{}{
		"cart_id":    cart.ID,
		"product_id": productID,
	})
	return updated, nil
}
