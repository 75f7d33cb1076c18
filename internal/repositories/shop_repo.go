package repositories

import (
	"errors"

	"shopinpocket/internal/models"
)

// ErrShopNotFound is returned when a shop lookup matches nothing.
var ErrShopNotFound = errors.New("shop not found")

// ShopRepository defines the interface for shop data access.
type ShopRepository interface {
	Create(shop *models.Shop) error
	Update(shop *models.Shop) error
	GetByID(id string) (*models.Shop, error)
	// GetByUserID resolves the one shop a user owns.
	GetByUserID(userID string) (*models.Shop, error)
	GetBySlug(slug string) (*models.Shop, error)
	GetAll() ([]models.Shop, error)
}
