package repository

import (
	"time"

	"github.com/kpatel/shopcart-backend/internal/app/model"
	"github.com/kpatel/shopcart-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	CreateCart(cart *model.Cart) error
	FindActiveByUserID(userID uint) (*model.Cart, error)
	FindByIDAndUser(cartID, userID uint) (*model.Cart, error)
	FindAllByUserID(userID uint) ([]model.Cart, error)
	FindAll() ([]model.Cart, error)
	UpsertItem(item *model.CartItem) error
	FindItem(cartID, productID uint) (*model.CartItem, error)
	UpdateItemQuantity(cartID, productID uint, quantity int) error
	DeleteItem(cartID, productID uint) (int64, error)
	DeleteByUserID(userID uint) (int64, error)
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) CreateCart(cart *model.Cart) error {
	logger.Debug("Creating cart in database", map[string]interface{}{
		"user_id": cart.UserID,
	})

	if err := r.db.Create(cart).Error; err != nil {
		logger.Error("Failed to create cart in database", err, map[string]interface{}{
			"user_id": cart.UserID,
		})
		return err
	}

	logger.Debug("Cart created in database", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": cart.UserID,
	})
	return nil
}

// FindActiveByUserID returns the user's earliest cart with items and their
// products resolved.
func (r *cartRepository) FindActiveByUserID(userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.Where("user_id = ?", userID).
		Order("id ASC").
		Preload("Items.Product").
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) FindByIDAndUser(cartID, userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.Where("id = ? AND user_id = ?", cartID, userID).
		Preload("Items.Product").
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) FindAllByUserID(userID uint) ([]model.Cart, error) {
	var carts []model.Cart
	err := r.db.Where("user_id = ?", userID).
		Order("id ASC").
		Preload("Items.Product").
		Find(&carts).Error
	if err != nil {
		logger.Error("Failed to find carts by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return carts, nil
}

func (r *cartRepository) FindAll() ([]model.Cart, error) {
	var carts []model.Cart
	err := r.db.Order("id ASC").Preload("Items.Product").Find(&carts).Error
	if err != nil {
		logger.Error("Failed to find all carts in database", err)
		return nil, err
	}
	return carts, nil
}

// UpsertItem inserts the line item, or atomically increments the quantity
// and overwrites shipping price and coupon code when the product is already
// in the cart. Backed by the unique (cart_id, product_id) index, so two
// concurrent adds for the same product never lose an update.
func (r *cartRepository) UpsertItem(item *model.CartItem) error {
	logger.Debug("Upserting cart item in database", map[string]interface{}{
		"cart_id":    item.CartID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})

	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":       gorm.Expr("quantity + excluded.quantity"),
			"shipping_price": item.ShippingPrice,
			"coupon_code":    item.CouponCode,
			"updated_at":     time.Now(),
		}),
	}).Create(item).Error
	if err != nil {
		logger.Error("Failed to upsert cart item in database", err, map[string]interface{}{
			"cart_id":    item.CartID,
			"product_id": item.ProductID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) FindItem(cartID, productID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) UpdateItemQuantity(cartID, productID uint, quantity int) error {
	err := r.db.Model(&model.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Update("quantity", quantity).Error
	if err != nil {
		logger.Error("Failed to update cart item quantity in database", err, map[string]interface{}{
			"cart_id":    cartID,
			"product_id": productID,
			"quantity":   quantity,
		})
		return err
	}
	return nil
}

// DeleteItem removes the line item and reports how many rows matched.
func (r *cartRepository) DeleteItem(cartID, productID uint) (int64, error) {
	result := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&model.CartItem{})
	if result.Error != nil {
		logger.Error("Failed to delete cart item from database", result.Error, map[string]interface{}{
			"cart_id":    cartID,
			"product_id": productID,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteByUserID removes every cart of the user along with its items and
// reports how many carts were deleted.
func (r *cartRepository) DeleteByUserID(userID uint) (int64, error) {
	var cartIDs []uint
	if err := r.db.Model(&model.Cart{}).
		Where("user_id = ?", userID).
		Pluck("id", &cartIDs).Error; err != nil {
		logger.Error("Failed to list carts for deletion", err, map[string]interface{}{
			"user_id": userID,
		})
		return 0, err
	}

	if len(cartIDs) == 0 {
		return 0, nil
	}

	if err := r.db.Where("cart_id IN ?", cartIDs).Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to delete cart items for user", err, map[string]interface{}{
			"user_id": userID,
		})
		return 0, err
	}

	result := r.db.Where("user_id = ?", userID).Delete(&model.Cart{})
	if result.Error != nil {
		logger.Error("Failed to delete carts for user", result.Error, map[string]interface{}{
			"user_id": userID,
		})
		return 0, result.Error
	}

	logger.Debug("Carts deleted from database", map[string]interface{}{
		"user_id": userID,
		"count":   result.RowsAffected,
	})
	return result.RowsAffected, nil
}
