package repository

import (
	"github.com/kpatel/shopcart-backend/internal/app/model"
	"github.com/kpatel/shopcart-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	BulkCreate(products []model.Product, batchSize int) error
	FindAll() ([]model.Product, error)
	FindByID(id uint) (*model.Product, error)
	FindByCategory(category string) ([]model.Product, error)
	FindBestSellers() ([]model.Product, error)
	Update(product *model.Product) error
	Delete(id uint) (int64, error)
	SetBestSeller(id uint, flag bool) (int64, error)
	TopSellingProductIDs(limit int) ([]uint, error)
	ReplaceBestSellers(ids []uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":     product.Name,
		"category": product.Category,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
		})
		return err
	}
	return nil
}

// BulkCreate inserts products in batches, used by the catalog importer.
func (r *productRepository) BulkCreate(products []model.Product, batchSize int) error {
	if err := r.db.CreateInBatches(products, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create products in database", err, map[string]interface{}{
			"count": len(products),
		})
		return err
	}
	return nil
}

func (r *productRepository) FindAll() ([]model.Product, error) {
	var products []model.Product
	if err := r.db.Order("id ASC").Find(&products).Error; err != nil {
		logger.Error("Failed to find all products in database", err)
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByCategory(category string) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("category = ?", category).Order("id ASC").Find(&products).Error
	if err != nil {
		logger.Error("Failed to find products by category in database", err, map[string]interface{}{
			"category": category,
		})
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindBestSellers() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("best_seller = ?", true).Order("id ASC").Find(&products).Error
	if err != nil {
		logger.Error("Failed to find best sellers in database", err)
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Update(product *model.Product) error {
	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

// Delete soft-deletes the product and reports how many rows matched.
func (r *productRepository) Delete(id uint) (int64, error) {
	result := r.db.Delete(&model.Product{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete product from database", result.Error, map[string]interface{}{
			"product_id": id,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *productRepository) SetBestSeller(id uint, flag bool) (int64, error) {
	result := r.db.Model(&model.Product{}).
		Where("id = ?", id).
		Update("best_seller", flag)
	if result.Error != nil {
		logger.Error("Failed to update best-seller flag in database", result.Error, map[string]interface{}{
			"product_id": id,
			"flag":       flag,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// TopSellingProductIDs aggregates ordered quantities and returns the ids of
// the best-selling products, highest first.
func (r *productRepository) TopSellingProductIDs(limit int) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.OrderItem{}).
		Select("product_id").
		Group("product_id").
		Order("SUM(quantity) DESC").
		Limit(limit).
		Pluck("product_id", &ids).Error
	if err != nil {
		logger.Error("Failed to aggregate top selling products", err, map[string]interface{}{
			"limit": limit,
		})
		return nil, err
	}
	return ids, nil
}

// ReplaceBestSellers clears all best-seller flags and sets them for ids, in
// one transaction.
func (r *productRepository) ReplaceBestSellers(ids []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Product{}).
			Where("best_seller = ?", true).
			Update("best_seller", false).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Model(&model.Product{}).
			Where("id IN ?", ids).
			Update("best_seller", true).Error
	})
}
