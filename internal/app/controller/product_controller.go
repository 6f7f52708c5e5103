package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/kpatel/shopcart-backend/internal/app/model"
	"github.com/kpatel/shopcart-backend/internal/app/service"
	"github.com/kpatel/shopcart-backend/internal/middleware"
	"github.com/kpatel/shopcart-backend/internal/response"
	"github.com/kpatel/shopcart-backend/internal/storage"
)

type ProductController struct {
	productService service.ProductService
	storage        *storage.S3Storage
}

func NewProductController(productService service.ProductService, s3 *storage.S3Storage) *ProductController {
	return &ProductController{
		productService: productService,
		storage:        s3,
	}
}

type AddProductRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" binding:"required,gt=0"`
	Category      string  `json:"category" binding:"required"`
	StockQuantity int     `json:"stock_quantity" binding:"gte=0"`
	ImageURL      string  `json:"image_url"`
}

type UpdateProductRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price" binding:"omitempty,gt=0"`
	Category      *string  `json:"category"`
	StockQuantity *int     `json:"stock_quantity" binding:"omitempty,gte=0"`
	ImageURL      *string  `json:"image_url"`
}

type AddBestSellerRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

type UploadURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// AddProduct creates a product
// POST /admin/add-product
func (ctrl *ProductController) AddProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AddProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add product request", map[string]interface{}{
			"error": err.Error(),
		})
		response.BadRequest(c, "Name, price, and category are required.")
		return
	}

	product := &model.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Category:      req.Category,
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
	}

	if err := ctrl.productService.CreateProduct(product); err != nil {
		log.Error("Failed to create product", err, map[string]interface{}{
			"name": req.Name,
		})
		response.InternalError(c, "")
		return
	}

	response.OK(c, "Product added successfully.", gin.H{
		"product": product,
	})
}

// GetAllProducts lists every product
// GET /admin/get-all-products
func (ctrl *ProductController) GetAllProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	products, err := ctrl.productService.GetAllProducts()
	if err != nil {
		log.Error("Failed to fetch products", err)
		response.InternalError(c, "")
		return
	}

	response.OK(c, "Products fetched successfully.", gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProductByID fetches a single product
// GET /admin/get-product-by-id/:id
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProductByID(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.NotFound(c, "Product not found.")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		response.InternalError(c, "")
		return
	}

	response.OK(c, "Product fetched successfully.", gin.H{
		"product": product,
	})
}

// UpdateProduct applies a partial update to a product
// PUT /admin/update-product/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update product request", map[string]interface{}{
			"error": err.Error(),
		})
		response.BadRequest(c, "Invalid product data.")
		return
	}

	product, err := ctrl.productService.UpdateProduct(id, service.ProductUpdate{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Category:      req.Category,
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.NotFound(c, "Product not found.")
			return
		}
		log.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		response.InternalError(c, "")
		return
	}

	response.OK(c, "Product updated successfully.", gin.H{
		"product": product,
	})
}

// DeleteProduct removes a product
// DELETE /admin/delete-product/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteProduct(id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.NotFound(c, "Product not found.")
			return
		}
		log.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		response.InternalError(c, "")
		return
	}

	response.OK(c, "Product deleted successfully.", nil)
}

// GetProductsByCategory lists products in one category
// GET /get-category-product/:category
func (ctrl *ProductController) GetProductsByCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	category := c.Param("category")

	products, err := ctrl.productService.GetProductsByCategory(category)
	if err != nil {
		log.Error("Failed to fetch products by category", err, map[string]interface{}{
			"category": category,
		})
		response.InternalError(c, "")
		return
	}

	response.OK(c, "Products fetched successfully.", gin.H{
		"products": products,
		"count":    len(products),
	})
}

// AddBestSellerProduct flags a product as a best seller
// POST /admin/add-best-seller-product
func (ctrl *ProductController) AddBestSellerProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AddBestSellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid best seller request", map[string]interface{}{
			"error": err.Error(),
		})
		response.BadRequest(c, "Product ID is required.")
		return
	}

	product, err := ctrl.productService.MarkBestSeller(req.ProductID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.NotFound(c, "Product not found.")
			return
		}
		log.Error("Failed to mark best seller", err, map[string]interface{}{
			"product_id": req.ProductID,
		})
		response.InternalError(c, "")
		return
	}

	response.OK(c, "Best seller product added successfully.", gin.H{
		"product": product,
	})
}

// GetBestSellerProducts lists the flagged best sellers
// GET /admin/get-best-seller-product
func (ctrl *ProductController) GetBestSellerProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	products, err := ctrl.productService.GetBestSellers()
	if err != nil {
		log.Error("Failed to fetch best sellers", err)
		response.InternalError(c, "")
		return
	}

	response.OK(c, "Best seller products fetched successfully.", gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProductImageUploadURL returns a pre-signed S3 PUT URL for a product image
// POST /admin/product-image-upload-url
func (ctrl *ProductController) GetProductImageUploadURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if ctrl.storage == nil {
		response.InternalError(c, "Image uploads are not configured.")
		return
	}

	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid upload URL request", map[string]interface{}{
			"error": err.Error(),
		})
		response.BadRequest(c, "Filename and content type are required.")
		return
	}

	presigned, err := ctrl.storage.GenerateProductImageUploadURL(req.Filename, req.ContentType)
	if err != nil {
		log.Error("Failed to generate upload URL", err, map[string]interface{}{
			"filename": req.Filename,
		})
		response.InternalError(c, "")
		return
	}

	response.OK(c, "Upload URL generated successfully.", gin.H{
		"upload": presigned,
	})
}
