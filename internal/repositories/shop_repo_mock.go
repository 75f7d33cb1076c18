package repositories

import (
	"sync"
	"time"

	"shopinpocket/internal/models"

	"github.com/google/uuid"
)

// MockShopRepository is an in-memory implementation of ShopRepository.
type MockShopRepository struct {
	shops map[string]models.Shop
	mu    sync.RWMutex
}

// NewMockShopRepository creates a new instance of MockShopRepository.
func NewMockShopRepository() *MockShopRepository {
	return &MockShopRepository{
		shops: make(map[string]models.Shop),
	}
}

// Create adds a new shop.
func (r *MockShopRepository) Create(shop *models.Shop) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if shop.ID == "" {
		shop.ID = uuid.New().String()
	}
	shop.CreatedAt = time.Now()
	shop.UpdatedAt = shop.CreatedAt
	r.shops[shop.ID] = *shop
	return nil
}

// Update modifies an existing shop.
func (r *MockShopRepository) Update(shop *models.Shop) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shops[shop.ID]; !ok {
		return ErrShopNotFound
	}
	shop.UpdatedAt = time.Now()
	r.shops[shop.ID] = *shop
	return nil
}

// GetByID returns a shop by its ID.
func (r *MockShopRepository) GetByID(id string) (*models.Shop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	shop, ok := r.shops[id]
	if !ok {
		return nil, ErrShopNotFound
	}
	return &shop, nil
}

// GetByUserID returns the shop owned by a user.
func (r *MockShopRepository) GetByUserID(userID string) (*models.Shop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.shops {
		if s.UserID == userID {
			shop := s
			return &shop, nil
		}
	}
	return nil, ErrShopNotFound
}

// GetBySlug returns a shop by its public slug.
func (r *MockShopRepository) GetBySlug(slug string) (*models.Shop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.shops {
		if s.Slug == slug {
			shop := s
			return &shop, nil
		}
	}
	return nil, ErrShopNotFound
}

// GetAll returns all shops.
func (r *MockShopRepository) GetAll() ([]models.Shop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	shops := make([]models.Shop, 0, len(r.shops))
	for _, s := range r.shops {
		shops = append(shops, s)
	}
	return shops, nil
}
