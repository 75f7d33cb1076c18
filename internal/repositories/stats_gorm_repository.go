package repositories

import (
	"fmt"

	"shopinpocket/internal/models"

	"gorm.io/gorm"
)

// GORMStatsRepository is a GORM implementation of StatsRepository.
type GORMStatsRepository struct {
	db *gorm.DB
}

// NewGORMStatsRepository creates a new instance of GORMStatsRepository.
func NewGORMStatsRepository(db *gorm.DB) *GORMStatsRepository {
	return &GORMStatsRepository{
		db: db,
	}
}

// CountShops counts all shops.
func (r *GORMStatsRepository) CountShops() (int64, error) {
	return r.count(&models.Shop{})
}

// CountProducts counts all products.
func (r *GORMStatsRepository) CountProducts() (int64, error) {
	return r.count(&models.Product{})
}

// CountOrders counts all orders.
func (r *GORMStatsRepository) CountOrders() (int64, error) {
	return r.count(&models.Order{})
}

func (r *GORMStatsRepository) count(model interface{}) (int64, error) {
	var count int64
	if err := r.db.Model(model).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return count, nil
}

// OrdersByStatus returns the number of orders in each lifecycle status.
func (r *GORMStatsRepository) OrdersByStatus() (map[models.OrderStatus]int64, error) {
	var rows []struct {
		Status models.OrderStatus
		Count  int64
	}
	err := r.db.Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count orders by status: %w", err)
	}

	byStatus := make(map[models.OrderStatus]int64, len(rows))
	for _, row := range rows {
		byStatus[row.Status] = row.Count
	}
	return byStatus, nil
}

// Revenue sums quantity * price over confirmed orders in SQL.
func (r *GORMStatsRepository) Revenue() (float64, error) {
	var revenue float64
	err := r.db.Model(&models.Order{}).
		Joins("JOIN products ON products.id = orders.product_id").
		Where("orders.status IN ?", []models.OrderStatus{models.StatusReceived, models.StatusCompleted}).
		Select("COALESCE(SUM(orders.quantity * products.price), 0)").
		Scan(&revenue).Error
	if err != nil {
		return 0, fmt.Errorf("failed to compute revenue: %w", err)
	}
	return revenue, nil
}
