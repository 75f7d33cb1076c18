package repositories

import (
	"fmt"

	"shopinpocket/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMShopRepository is a GORM implementation of ShopRepository.
type GORMShopRepository struct {
	db *gorm.DB
}

// NewGORMShopRepository creates a new instance of GORMShopRepository.
func NewGORMShopRepository(db *gorm.DB) *GORMShopRepository {
	return &GORMShopRepository{
		db: db,
	}
}

// Create creates a new shop.
func (r *GORMShopRepository) Create(shop *models.Shop) error {
	if shop.ID == "" {
		shop.ID = uuid.New().String()
	}
	if err := r.db.Create(shop).Error; err != nil {
		return fmt.Errorf("failed to create shop: %w", err)
	}
	return nil
}

// Update updates an existing shop.
func (r *GORMShopRepository) Update(shop *models.Shop) error {
	res := r.db.Save(shop)
	if res.Error != nil {
		return fmt.Errorf("failed to update shop: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrShopNotFound
	}
	return nil
}

// GetByID retrieves a shop by its ID.
func (r *GORMShopRepository) GetByID(id string) (*models.Shop, error) {
	return r.first("id = ?", id)
}

// GetByUserID retrieves the shop owned by a user.
func (r *GORMShopRepository) GetByUserID(userID string) (*models.Shop, error) {
	return r.first("user_id = ?", userID)
}

// GetBySlug retrieves a shop by its public slug.
func (r *GORMShopRepository) GetBySlug(slug string) (*models.Shop, error) {
	return r.first("slug = ?", slug)
}

// GetAll retrieves all shops on the platform.
func (r *GORMShopRepository) GetAll() ([]models.Shop, error) {
	var shops []models.Shop
	if err := r.db.Order("created_at DESC").Find(&shops).Error; err != nil {
		return nil, fmt.Errorf("failed to get all shops: %w", err)
	}
	return shops, nil
}

func (r *GORMShopRepository) first(query string, arg string) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.First(&shop, query, arg).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrShopNotFound
		}
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}
	return &shop, nil
}
