package router

import (
	"github.com/gin-gonic/gin"
	"github.com/kpatel/shopcart-backend/config"
	"github.com/kpatel/shopcart-backend/internal/app/controller"
	"github.com/kpatel/shopcart-backend/internal/middleware"
	"github.com/kpatel/shopcart-backend/internal/websocket"
)

type Router struct {
	productController *controller.ProductController
	cartController    *controller.CartController
	orderController   *controller.OrderController
	hub               *websocket.Hub
	config            *config.Config
}

func NewRouter(
	productController *controller.ProductController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	hub *websocket.Hub,
	cfg *config.Config,
) *Router {
	return &Router{
		productController: productController,
		cartController:    cartController,
		orderController:   orderController,
		hub:               hub,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "ShopCart API is running",
		})
	})

	admin := router.Group("/admin")
	{
		admin.POST("/add-product", r.productController.AddProduct)
		admin.GET("/get-all-products", r.productController.GetAllProducts)
		admin.GET("/get-product-by-id/:id", r.productController.GetProductByID)
		admin.PUT("/update-product/:id", r.productController.UpdateProduct)
		admin.DELETE("/delete-product/:id", r.productController.DeleteProduct)
		admin.POST("/add-best-seller-product", r.productController.AddBestSellerProduct)
		admin.GET("/get-best-seller-product", r.productController.GetBestSellerProducts)
		admin.POST("/product-image-upload-url", r.productController.GetProductImageUploadURL)
		admin.GET("/export-orders", r.orderController.ExportOrders)
	}

	router.GET("/get-category-product/:category", r.productController.GetProductsByCategory)

	router.POST("/add-to-cart", r.cartController.AddToCart)
	router.GET("/get-cart/:userId", r.cartController.GetCart)
	router.GET("/get-all-cart-by-user/:userId", r.cartController.GetAllCartsByUser)
	router.GET("/get-all-cart", r.cartController.GetAllCarts)
	router.PUT("/update-cart", r.cartController.UpdateCart)
	router.DELETE("/delete-cart/:userId", r.cartController.DeleteCart)
	router.DELETE("/delete-cart-product", r.cartController.DeleteCartProduct)

	router.GET("/get-orders", r.orderController.GetOrders)
	router.POST("/create-orders", r.orderController.CreateOrder)
	router.PUT("/update-order-status/:id", r.orderController.UpdateOrderStatus)
	router.POST("/send-order-details-email", r.orderController.SendOrderDetailsEmail)

	if r.hub != nil {
		router.GET("/ws/order-updates", func(c *gin.Context) {
			websocket.ServeWS(r.hub, c.Writer, c.Request)
		})
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
