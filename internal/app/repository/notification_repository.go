package repository

import (
	"github.com/kpatel/shopcart-backend/internal/app/model"
	"github.com/kpatel/shopcart-backend/pkg/logger"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(notification *model.EmailNotification) error
	FindByOrderID(orderID uint) ([]model.EmailNotification, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *model.EmailNotification) error {
	if err := r.db.Create(notification).Error; err != nil {
		logger.Error("Failed to record email notification in database", err, map[string]interface{}{
			"order_id": notification.OrderID,
		})
		return err
	}
	return nil
}

func (r *notificationRepository) FindByOrderID(orderID uint) ([]model.EmailNotification, error) {
	var notifications []model.EmailNotification
	err := r.db.Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&notifications).Error
	if err != nil {
		logger.Error("Failed to find email notifications in database", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}
	return notifications, nil
}
