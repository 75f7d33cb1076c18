package repositories

import "shopinpocket/internal/models"

// StatsRepository provides the aggregate queries behind the admin
// dashboard. Aggregation happens in SQL rather than by fetching whole
// tables into memory.
type StatsRepository interface {
	CountShops() (int64, error)
	CountProducts() (int64, error)
	CountOrders() (int64, error)
	OrdersByStatus() (map[models.OrderStatus]int64, error)
	// Revenue sums quantity * product price over orders whose receipt
	// has been confirmed (Received or legacy Completed).
	Revenue() (float64, error)
}
