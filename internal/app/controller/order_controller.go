package controller

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kpatel/shopcart-backend/internal/app/model"
	"github.com/kpatel/shopcart-backend/internal/app/service"
	"github.com/kpatel/shopcart-backend/internal/middleware"
	"github.com/kpatel/shopcart-backend/internal/response"
	"github.com/xuri/excelize/v2"
)

type OrderController struct {
	orderService        service.OrderService
	notificationService service.NotificationService
}

func NewOrderController(orderService service.OrderService, notificationService service.NotificationService) *OrderController {
	return &OrderController{
		orderService:        orderService,
		notificationService: notificationService,
	}
}

type CreateOrderRequest struct {
	UserID          uint   `json:"user_id" binding:"required"`
	ShippingAddress string `json:"shipping_address"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type SendOrderEmailRequest struct {
	OrderID uint   `json:"order_id" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
}

// GetOrders lists every order, newest first
// GET /get-orders
func (ctrl *OrderController) GetOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orders, err := ctrl.orderService.GetAllOrders()
	if err != nil {
		log.Error("Failed to fetch orders", err)
		response.InternalError(c, "")
		return
	}

	response.OK(c, "Orders fetched successfully.", gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// CreateOrder turns the user's active cart into an order
// POST /create-orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create order request", map[string]interface{}{
			"error": err.Error(),
		})
		response.BadRequest(c, "User ID is required.")
		return
	}

	order, err := ctrl.orderService.CreateOrderFromCart(req.UserID, req.ShippingAddress)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			response.BadRequest(c, "Cart is empty.")
		case errors.Is(err, service.ErrProductNotFound):
			response.NotFound(c, "Product not found.")
		case errors.Is(err, service.ErrInsufficientStock):
			response.BadRequest(c, "Insufficient stock for one or more products.")
		default:
			log.Error("Failed to create order", err, map[string]interface{}{
				"user_id": req.UserID,
			})
			response.InternalError(c, "")
		}
		return
	}

	response.OK(c, "Order created successfully.", gin.H{
		"order": order,
	})
}

// UpdateOrderStatus moves an order to a new status
// PUT /update-order-status/:id
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid order status request", map[string]interface{}{
			"error": err.Error(),
		})
		response.BadRequest(c, "Status is required.")
		return
	}

	order, err := ctrl.orderService.UpdateOrderStatus(id, model.OrderStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOrderStatus):
			response.BadRequest(c, "Invalid order status.")
		case errors.Is(err, service.ErrOrderNotFound):
			response.NotFound(c, "Order not found.")
		default:
			log.Error("Failed to update order status", err, map[string]interface{}{
				"order_id": id,
			})
			response.InternalError(c, "")
		}
		return
	}

	response.OK(c, "Order status updated successfully.", gin.H{
		"order": order,
	})
}

// SendOrderDetailsEmail mails the order summary to the given address
// POST /send-order-details-email
func (ctrl *OrderController) SendOrderDetailsEmail(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SendOrderEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid order email request", map[string]interface{}{
			"error": err.Error(),
		})
		response.BadRequest(c, "Order ID and a valid email are required.")
		return
	}

	notification, err := ctrl.notificationService.SendOrderDetailsEmail(req.OrderID, req.Email)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.NotFound(c, "Order not found.")
			return
		}
		log.Error("Failed to send order details email", err, map[string]interface{}{
			"order_id": req.OrderID,
		})
		response.InternalError(c, "")
		return
	}

	response.OK(c, "Order details email sent successfully.", gin.H{
		"notification": notification,
	})
}

// ExportOrders streams every order as an XLSX workbook
// GET /admin/export-orders
func (ctrl *OrderController) ExportOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orders, err := ctrl.orderService.GetAllOrders()
	if err != nil {
		log.Error("Failed to fetch orders for export", err)
		response.InternalError(c, "")
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []interface{}{"Order ID", "User ID", "Status", "Total Amount", "Shipping Address", "Items", "Created At"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		log.Error("Failed to write export header", err)
		response.InternalError(c, "")
		return
	}

	for i, order := range orders {
		itemCount := 0
		for _, item := range order.OrderItems {
			itemCount += item.Quantity
		}

		row := []interface{}{
			order.ID,
			order.UserID,
			string(order.Status),
			order.TotalAmount,
			order.ShippingAddress,
			itemCount,
			order.CreatedAt.Format(time.RFC3339),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			log.Error("Failed to write export row", err, map[string]interface{}{
				"order_id": order.ID,
			})
			response.InternalError(c, "")
			return
		}
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		log.Error("Failed to stream order export", err)
	}
}
