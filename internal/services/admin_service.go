package services

import (
	"shopinpocket/internal/models"
	"shopinpocket/internal/repositories"
)

// PlatformStats is the admin dashboard aggregate.
type PlatformStats struct {
	Shops          int64                        `json:"shops"`
	Products       int64                        `json:"products"`
	Orders         int64                        `json:"orders"`
	OrdersByStatus map[models.OrderStatus]int64 `json:"orders_by_status"`
	Revenue        float64                      `json:"revenue"`
}

// AdminService serves the platform-wide admin views.
type AdminService struct {
	statsRepo   repositories.StatsRepository
	shopRepo    repositories.ShopRepository
	productRepo repositories.ProductRepository
	orderRepo   repositories.OrderRepository
}

// NewAdminService creates a new AdminService.
func NewAdminService(statsRepo repositories.StatsRepository, shopRepo repositories.ShopRepository, productRepo repositories.ProductRepository, orderRepo repositories.OrderRepository) *AdminService {
	return &AdminService{
		statsRepo:   statsRepo,
		shopRepo:    shopRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

// PlatformStats gathers counts, the per-status order breakdown and the
// confirmed-order revenue sum.
func (s *AdminService) PlatformStats() (*PlatformStats, error) {
	shops, err := s.statsRepo.CountShops()
	if err != nil {
		return nil, err
	}
	products, err := s.statsRepo.CountProducts()
	if err != nil {
		return nil, err
	}
	orders, err := s.statsRepo.CountOrders()
	if err != nil {
		return nil, err
	}
	byStatus, err := s.statsRepo.OrdersByStatus()
	if err != nil {
		return nil, err
	}
	revenue, err := s.statsRepo.Revenue()
	if err != nil {
		return nil, err
	}

	return &PlatformStats{
		Shops:          shops,
		Products:       products,
		Orders:         orders,
		OrdersByStatus: byStatus,
		Revenue:        revenue,
	}, nil
}

// ListShops returns every shop on the platform.
func (s *AdminService) ListShops() ([]models.Shop, error) {
	return s.shopRepo.GetAll()
}

// ListProducts returns every product on the platform.
func (s *AdminService) ListProducts() ([]models.Product, error) {
	return s.productRepo.GetAll()
}

// ListOrders returns every order on the platform.
func (s *AdminService) ListOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}
