package service

import (
	"context"
	"errors"
	"time"

	"github.com/kpatel/shopcart-backend/internal/app/model"
	"github.com/kpatel/shopcart-backend/internal/app/repository"
	"github.com/kpatel/shopcart-backend/pkg/logger"
	"github.com/kpatel/shopcart-backend/pkg/redis"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// BestSellerCacheKey is where the flagged product list is cached in Redis.
const BestSellerCacheKey = "cache:best_sellers"

// ProductUpdate carries the mutable product fields; nil means "leave as is".
type ProductUpdate struct {
	Name          *string
	Description   *string
	Price         *float64
	Category      *string
	StockQuantity *int
	ImageURL      *string
}

type ProductService interface {
	CreateProduct(product *model.Product) error
	GetAllProducts() ([]model.Product, error)
	GetProductByID(id uint) (*model.Product, error)
	GetProductsByCategory(category string) ([]model.Product, error)
	UpdateProduct(id uint, update ProductUpdate) (*model.Product, error)
	DeleteProduct(id uint) error
	MarkBestSeller(productID uint) (*model.Product, error)
	GetBestSellers() ([]model.Product, error)
	RecomputeBestSellers(limit int) (int, error)
}

type productService struct {
	productRepo repository.ProductRepository
	cacheTTL    time.Duration
}

func NewProductService(productRepo repository.ProductRepository, cacheTTL time.Duration) ProductService {
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &productService{
		productRepo: productRepo,
		cacheTTL:    cacheTTL,
	}
}

func (s *productService) CreateProduct(product *model.Product) error {
	logger.Info("Creating product", map[string]interface{}{
		"name":     product.Name,
		"category": product.Category,
		"price":    product.Price,
	})

	if err := s.productRepo.Create(product); err != nil {
		return err
	}

	logger.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
	})
	return nil
}

func (s *productService) GetAllProducts() ([]model.Product, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list products", err)
		return nil, err
	}

	logger.Debug("Products listed", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) GetProductsByCategory(category string) ([]model.Product, error) {
	products, err := s.productRepo.FindByCategory(category)
	if err != nil {
		return nil, err
	}

	logger.Debug("Products listed by category", map[string]interface{}{
		"category": category,
		"count":    len(products),
	})
	return products, nil
}

func (s *productService) UpdateProduct(id uint, update ProductUpdate) (*model.Product, error) {
	logger.Info("Updating product", map[string]interface{}{
		"product_id": id,
	})

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if update.Name != nil {
		product.Name = *update.Name
	}
	if update.Description != nil {
		product.Description = *update.Description
	}
	if update.Price != nil {
		product.Price = *update.Price
	}
	if update.Category != nil {
		product.Category = *update.Category
	}
	if update.StockQuantity != nil {
		product.StockQuantity = *update.StockQuantity
	}
	if update.ImageURL != nil {
		product.ImageURL = *update.ImageURL
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	s.invalidateBestSellerCache()

	logger.Info("Product updated successfully", map[string]interface{}{
		"product_id": product.ID,
	})
	return product, nil
}

func (s *productService) DeleteProduct(id uint) error {
	logger.Info("Deleting product", map[string]interface{}{
		"product_id": id,
	})

	deleted, err := s.productRepo.Delete(id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		logger.Warn("Product not found for deletion", map[string]interface{}{
			"product_id": id,
		})
		return ErrProductNotFound
	}

	s.invalidateBestSellerCache()
	return nil
}

// MarkBestSeller flags a product as a best seller.
func (s *productService) MarkBestSeller(productID uint) (*model.Product, error) {
	logger.Info("Marking product as best seller", map[string]interface{}{
		"product_id": productID,
	})

	updated, err := s.productRepo.SetBestSeller(productID, true)
	if err != nil {
		return nil, err
	}
	if updated == 0 {
		return nil, ErrProductNotFound
	}

	s.invalidateBestSellerCache()
	return s.productRepo.FindByID(productID)
}

// GetBestSellers lists flagged products, served from the Redis cache when
// warm.
func (s *productService) GetBestSellers() ([]model.Product, error) {
	ctx := context.Background()

	var cached []model.Product
	hit, err := redis.GetJSON(ctx, BestSellerCacheKey, &cached)
	if err == nil && hit {
		logger.Debug("Best sellers served from cache", map[string]interface{}{
			"count": len(cached),
		})
		return cached, nil
	}

	products, err := s.productRepo.FindBestSellers()
	if err != nil {
		return nil, err
	}

	if err := redis.SetJSON(ctx, BestSellerCacheKey, products, s.cacheTTL); err != nil {
		logger.Warn("Failed to cache best sellers", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return products, nil
}

// RecomputeBestSellers re-derives the flags from aggregated order history
// and returns how many products were flagged.
func (s *productService) RecomputeBestSellers(limit int) (int, error) {
	logger.Info("Recomputing best sellers", map[string]interface{}{
		"limit": limit,
	})

	ids, err := s.productRepo.TopSellingProductIDs(limit)
	if err != nil {
		return 0, err
	}

	if err := s.productRepo.ReplaceBestSellers(ids); err != nil {
		logger.Error("Failed to replace best-seller flags", err)
		return 0, err
	}

	s.invalidateBestSellerCache()

	logger.Info("Best sellers recomputed", map[string]interface{}{
		"flagged": len(ids),
	})
	return len(ids), nil
}

func (s *productService) invalidateBestSellerCache() {
	if err := redis.Invalidate(context.Background(), BestSellerCacheKey); err != nil {
		logger.Warn("Failed to invalidate best-seller cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
