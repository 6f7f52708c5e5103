package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kpatel/shopcart-backend/internal/app/model"
	"github.com/kpatel/shopcart-backend/internal/app/repository"
	"github.com/kpatel/shopcart-backend/pkg/logger"
	"github.com/kpatel/shopcart-backend/pkg/mail"
	"gorm.io/gorm"
)

type NotificationService interface {
	SendOrderDetailsEmail(orderID uint, recipient string) (*model.EmailNotification, error)
}

type notificationService struct {
	orderRepo        repository.OrderRepository
	notificationRepo repository.NotificationRepository
	sender           mail.Sender
}

func NewNotificationService(
	orderRepo repository.OrderRepository,
	notificationRepo repository.NotificationRepository,
	sender mail.Sender,
) NotificationService {
	return &notificationService{
		orderRepo:        orderRepo,
		notificationRepo: notificationRepo,
		sender:           sender,
	}
}

// SendOrderDetailsEmail mails an order summary to the recipient and records
// the delivery.
func (s *notificationService) SendOrderDetailsEmail(orderID uint, recipient string) (*model.EmailNotification, error) {
	logger.Info("Sending order details email", map[string]interface{}{
		"order_id":  orderID,
		"recipient": recipient,
	})

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order not found for email", map[string]interface{}{
				"order_id": orderID,
			})
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order for email", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	subject := fmt.Sprintf("Your order #%d", order.ID)
	body := composeOrderEmail(order)

	if err := s.sender.Send(recipient, subject, body); err != nil {
		logger.Error("Failed to send order email", err, map[string]interface{}{
			"order_id":  orderID,
			"recipient": recipient,
		})
		return nil, err
	}

	notification := &model.EmailNotification{
		OrderID:    order.ID,
		Recipients: []string{recipient},
		Subject:    subject,
		SentAt:     time.Now(),
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		return nil, err
	}

	logger.Info("Order details email sent", map[string]interface{}{
		"order_id":        orderID,
		"notification_id": notification.ID,
	})
	return notification, nil
}

func composeOrderEmail(order *model.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Thank you for your order!\n\n")
	fmt.Fprintf(&b, "Order #%d (%s)\n", order.ID, order.Status)
	fmt.Fprintf(&b, "Placed at: %s\n\n", order.CreatedAt.Format(time.RFC1123))

	for _, item := range order.OrderItems {
		name := item.Product.Name
		if name == "" {
			name = fmt.Sprintf("Product %d", item.ProductID)
		}
		fmt.Fprintf(&b, "  %s x%d @ %.2f\n", name, item.Quantity, item.Price)
	}

	fmt.Fprintf(&b, "\nTotal: %.2f\n", order.TotalAmount)
	if order.ShippingAddress != "" {
		fmt.Fprintf(&b, "Shipping to: %s\n", order.ShippingAddress)
	}
	return b.String()
}
