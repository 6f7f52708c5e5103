package repository

import (
	"github.com/kpatel/shopcart-backend/internal/app/model"
	"github.com/kpatel/shopcart-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	FindAll() ([]model.Order, error)
	FindByID(id uint) (*model.Order, error)
	UpdateStatus(id uint, status model.OrderStatus) (int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) FindAll() ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Order("id DESC").
		Preload("OrderItems.Product").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find all orders in database", err)
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	err := r.db.Preload("OrderItems.Product").First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus sets the order status and reports how many rows matched.
func (r *orderRepository) UpdateStatus(id uint, status model.OrderStatus) (int64, error) {
	result := r.db.Model(&model.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		logger.Error("Failed to update order status in database", result.Error, map[string]interface{}{
			"order_id": id,
			"status":   status,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
