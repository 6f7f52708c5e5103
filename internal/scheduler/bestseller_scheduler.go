package scheduler

import (
	"github.com/kpatel/shopcart-backend/internal/app/service"
	"github.com/kpatel/shopcart-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// BestSellerScheduler re-derives the best-seller flags from order history
// every night.
type BestSellerScheduler struct {
	cron           *cron.Cron
	productService service.ProductService
	limit          int
}

func NewBestSellerScheduler(productService service.ProductService, limit int) *BestSellerScheduler {
	return &BestSellerScheduler{
		cron:           cron.New(),
		productService: productService,
		limit:          limit,
	}
}

// Start schedules the nightly recomputation (03:00 server time).
func (s *BestSellerScheduler) Start() error {
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		logger.Info("Starting scheduled best-seller recomputation", nil)

		flagged, err := s.productService.RecomputeBestSellers(s.limit)
		if err != nil {
			logger.Error("Failed to recompute best sellers from scheduler", err)
			return
		}

		logger.Info("Scheduled best-seller recomputation finished", map[string]interface{}{
			"flagged": flagged,
		})
	})
	if err != nil {
		logger.Error("Failed to add cron job for best-seller recomputation", err)
		return err
	}

	s.cron.Start()
	logger.Info("Best-seller scheduler started successfully (daily at 3:00 AM)", nil)
	return nil
}

// Stop stops the scheduler.
func (s *BestSellerScheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		logger.Info("Best-seller scheduler stopped", nil)
	}
}
